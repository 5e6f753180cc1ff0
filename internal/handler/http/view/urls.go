package view

import (
	"net/url"
	"strconv"
)

// ListingURL builds /all_movies/{page} carrying the active filters.
func ListingURL(page int, search, tag string) string {
	u := "/all_movies/" + strconv.Itoa(page)
	q := url.Values{}
	if search != "" {
		q.Set("search", search)
	}
	if tag != "" {
		q.Set("sort", tag)
	}
	if len(q) == 0 {
		return u
	}
	return u + "?" + q.Encode()
}
