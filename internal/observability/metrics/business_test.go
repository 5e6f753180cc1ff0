package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordComment(t *testing.T) {
	before := testutil.ToFloat64(CommentsTotal.WithLabelValues(CommentInvalid))

	RecordComment(CommentInvalid)

	assert.Equal(t, before+1, testutil.ToFloat64(CommentsTotal.WithLabelValues(CommentInvalid)))
}

func TestRecordAuth(t *testing.T) {
	tests := []struct {
		action string
		ok     bool
		result string
	}{
		{action: "login", ok: true, result: "success"},
		{action: "login", ok: false, result: "failure"},
		{action: "register", ok: true, result: "success"},
	}

	for _, tt := range tests {
		t.Run(tt.action+"_"+tt.result, func(t *testing.T) {
			c := AuthAttemptsTotal.WithLabelValues(tt.action, tt.result)
			before := testutil.ToFloat64(c)

			RecordAuth(tt.action, tt.ok)

			assert.Equal(t, before+1, testutil.ToFloat64(c))
		})
	}
}

func TestRecordImport(t *testing.T) {
	imported := ArticlesImportedTotal.WithLabelValues("imported")
	skipped := ArticlesImportedTotal.WithLabelValues("skipped")
	bi, bs := testutil.ToFloat64(imported), testutil.ToFloat64(skipped)

	RecordImport(true)
	RecordImport(true)
	RecordImport(false)

	assert.Equal(t, bi+2, testutil.ToFloat64(imported))
	assert.Equal(t, bs+1, testutil.ToFloat64(skipped))
}

func TestUpdateArticlesTotal(t *testing.T) {
	UpdateArticlesTotal(42)
	assert.Equal(t, 42.0, testutil.ToFloat64(ArticlesTotal))
}
