// Package profanity flags comment text containing profanity.
package profanity

import (
	goaway "github.com/TwiN/go-away"
)

// Detector wraps a go-away detector configured for user comments.
// It is safe for concurrent use once constructed.
type Detector struct {
	d *goaway.ProfanityDetector
}

// Options tune the detector. Zero values keep the go-away dictionaries.
type Options struct {
	// Extra words to reject in addition to the default dictionary.
	Extra []string
	// Words that contain a profanity but must be accepted, such as "Scunthorpe".
	Allowed []string
}

// New returns a Detector that normalises leet speak, special characters and accents.
func New(opts Options) *Detector {
	d := goaway.NewProfanityDetector().
		WithSanitizeLeetSpeak(true).
		WithSanitizeSpecialCharacters(true).
		WithSanitizeAccents(true)
	if len(opts.Extra) > 0 || len(opts.Allowed) > 0 {
		d = d.WithCustomDictionary(
			append(append([]string{}, goaway.DefaultProfanities...), opts.Extra...),
			append(append([]string{}, goaway.DefaultFalsePositives...), opts.Allowed...),
			goaway.DefaultFalseNegatives,
		)
	}
	return &Detector{d: d}
}

// IsProfane reports whether text contains profanity.
func (d *Detector) IsProfane(text string) bool {
	return d.d.IsProfane(text)
}
