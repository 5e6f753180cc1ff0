package pagination

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordRequest(t *testing.T) {
	before := testutil.ToFloat64(RequestsTotal.WithLabelValues("not_found", "true"))

	RecordRequest("not_found", true)

	assert.Equal(t, before+1, testutil.ToFloat64(RequestsTotal.WithLabelValues("not_found", "true")))
}

func TestRecordFallbackAndTransientFailure(t *testing.T) {
	fallbacks := testutil.ToFloat64(FallbacksTotal.WithLabelValues("redirected"))
	failures := testutil.ToFloat64(TransientFailuresTotal.WithLabelValues("retry"))

	RecordFallback("redirected")
	RecordTransientFailure("retry")

	assert.Equal(t, fallbacks+1, testutil.ToFloat64(FallbacksTotal.WithLabelValues("redirected")))
	assert.Equal(t, failures+1, testutil.ToFloat64(TransientFailuresTotal.WithLabelValues("retry")))
}

func TestRecordRebuild(t *testing.T) {
	ok := testutil.ToFloat64(IndexRebuildsTotal.WithLabelValues("success"))
	failed := testutil.ToFloat64(IndexRebuildsTotal.WithLabelValues("error"))

	RecordRebuild(nil)
	RecordRebuild(errors.New("boom"))

	assert.Equal(t, ok+1, testutil.ToFloat64(IndexRebuildsTotal.WithLabelValues("success")))
	assert.Equal(t, failed+1, testutil.ToFloat64(IndexRebuildsTotal.WithLabelValues("error")))
}

func TestIndexSplit_UpdatesSizeGauge(t *testing.T) {
	NewIndex(5).Split([]int64{1, 2, 3})
	assert.Equal(t, 3.0, testutil.ToFloat64(IndexSize))
}

func TestLogError(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	LogError(logger, "req-1", Request{Page: 4, Search: "alien"}, errors.New("db down"), "transient")
	LogResponse(logger, "req-1", Request{Page: 4}, "ok", 5, 12*time.Millisecond)

	out := buf.String()
	assert.Contains(t, out, `"error":"db down"`)
	assert.Contains(t, out, `"search":"alien"`)
	assert.Equal(t, 2, strings.Count(out, `"request_id":"req-1"`))
}
