package profanity

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"csflix/internal/domain/entity"
)

var _ entity.ProfanityChecker = (*Detector)(nil)

func TestDetector_IsProfane(t *testing.T) {
	d := New(Options{})

	tests := []struct {
		text string
		want bool
	}{
		{text: "A wonderful film with a great score", want: false},
		{text: "what a shit ending", want: true},
		{text: "what a sh1t ending", want: true},
		{text: "what a s.h.i.t ending", want: true},
		{text: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, d.IsProfane(tt.text))
		})
	}
}

func TestDetector_CustomDictionary(t *testing.T) {
	d := New(Options{Extra: []string{"spoilerz"}})

	assert.True(t, d.IsProfane("total spoilerz inside"))
	assert.True(t, d.IsProfane("fuck"), "default dictionary is kept")
}

func TestDetector_AllowedWords(t *testing.T) {
	d := New(Options{Allowed: []string{"shitake"}})

	assert.False(t, d.IsProfane("shitake risotto"))
	assert.True(t, d.IsProfane("what a shit ending"))
}
