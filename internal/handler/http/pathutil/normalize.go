// Package pathutil maps request paths to a bounded set of metric labels.
package pathutil

import (
	"regexp"
	"strings"
)

// Unmatched is the label for every path that is not a known route.
const Unmatched = "other"

// PathPattern represents a regex pattern and its corresponding normalized template.
type PathPattern struct {
	Pattern  *regexp.Regexp
	Template string
}

// pathPatterns defines the patterns for dynamic routes, most specific first.
var pathPatterns = []*PathPattern{
	{Pattern: regexp.MustCompile(`^/all_movies/[^/]+$`), Template: "/all_movies/:page"},
}

// staticPaths are the routes without path parameters.
var staticPaths = map[string]struct{}{
	"/":                        {},
	"/comment":                 {},
	"/authentication/login":    {},
	"/authentication/register": {},
	"/authentication/logout":   {},
	"/health":                  {},
	"/ready":                   {},
	"/live":                    {},
	"/metrics":                 {},
}

// NormalizePath normalizes URL paths to prevent metrics label cardinality explosion.
// Listing pages collapse to their template and anything unknown becomes Unmatched,
// so scanners probing random paths cannot grow the label set.
//
// Examples:
//
//	NormalizePath("/all_movies/3")        // "/all_movies/:page"
//	NormalizePath("/all_movies/-1?q=x")   // "/all_movies/:page"
//	NormalizePath("/comment")             // "/comment"
//	NormalizePath("/health/")             // "/health"
//	NormalizePath("/wp-login.php")        // "other"
func NormalizePath(path string) string {
	// Strip query parameters if present
	if idx := strings.IndexByte(path, '?'); idx != -1 {
		path = path[:idx]
	}

	// Strip trailing slash if present (except for root path)
	if len(path) > 1 && path[len(path)-1] == '/' {
		path = path[:len(path)-1]
	}

	if _, ok := staticPaths[path]; ok {
		return path
	}
	for _, p := range pathPatterns {
		if p.Pattern.MatchString(path) {
			return p.Template
		}
	}
	return Unmatched
}

// GetExpectedCardinality returns the number of distinct labels NormalizePath can produce.
func GetExpectedCardinality() int {
	return len(staticPaths) + len(pathPatterns) + 1
}
