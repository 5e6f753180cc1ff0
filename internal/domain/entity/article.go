// Package entity defines the core domain entities and validation logic for the application.
// It contains the catalogue objects (Article, Comment, User) together with the
// comment validation pipeline and domain-specific errors.
package entity

import (
	"slices"
	"strings"
	"time"
)

// DateLayout is the day-precision layout used for article dates in URLs and views.
const DateLayout = "2006-01-02"

// Article represents a movie entry in the catalogue.
// Tags are kept sorted and de-duplicated; Comments are ordered by creation.
type Article struct {
	ID          int64
	Title       string
	Description string
	Director    string
	Date        time.Time
	Tags        []string
	Comments    []Comment
}

// DateString returns the article date formatted with DateLayout.
func (a *Article) DateString() string {
	return a.Date.Format(DateLayout)
}

// HasTag reports whether the article carries the given tag (case-insensitive).
func (a *Article) HasTag(tag string) bool {
	for _, t := range a.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

// NormalizeTags trims, drops empty values, de-duplicates and sorts a tag list.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" || slices.Contains(out, t) {
			continue
		}
		out = append(out, t)
	}
	slices.Sort(out)
	return out
}
