package pagination

import (
	"fmt"
	"strconv"
	"strings"
)

// Request is one page request: a signed page number plus optional filters.
type Request struct {
	Page   int    // 0-based; negative means the last page
	Search string // optional free-text search
	Tag    string // optional tag filter
}

// Filtered reports whether any filter is set.
func (r Request) Filtered() bool {
	return r.Search != "" || r.Tag != ""
}

// Unfiltered returns a copy of r with the filters cleared.
func (r Request) Unfiltered() Request {
	return Request{Page: r.Page}
}

// ParsePageNumber converts the page segment of a URL into a signed page number.
func ParsePageNumber(s string) (int, error) {
	page, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid page number %q: %w", s, ErrPageOutOfRange)
	}
	return page, nil
}
