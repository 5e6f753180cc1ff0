package article

import "csflix/internal/domain/entity"

// PageStatus classifies the outcome of a listing request.
type PageStatus int

const (
	// StatusOK means the page exists and Articles holds its contents.
	StatusOK PageStatus = iota
	// StatusNotFound means the page is out of range for the current filter,
	// including a filter that matches nothing.
	StatusNotFound
	// StatusTransientFailure means the page could not be loaded, e.g. the database is unavailable.
	StatusTransientFailure
)

func (s PageStatus) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusNotFound:
		return "not_found"
	case StatusTransientFailure:
		return "transient_failure"
	default:
		return "unknown"
	}
}

// PageResult is one page of the catalogue.
// Err is set for the non-OK statuses.
type PageResult struct {
	Articles   []*entity.Article
	Page       int // resolved page number
	TotalPages int
	Status     PageStatus
	Err        error
}

// Empty reports whether the result holds no articles.
func (r PageResult) Empty() bool {
	return len(r.Articles) == 0
}

func notFound(err error) PageResult {
	return PageResult{Status: StatusNotFound, Err: err}
}

func transient(err error) PageResult {
	return PageResult{Status: StatusTransientFailure, Err: err}
}
