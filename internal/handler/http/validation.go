package http

import (
	"net/http"

	"csflix/internal/handler/http/respond"
)

// Input limits enforced by InputValidation.
const (
	MaxCookieBytes = 4096
	MaxPathBytes   = 2048
	MaxQueryBytes  = 4096
	// DefaultMaxBodyBytes fits any form the site serves.
	DefaultMaxBodyBytes = 64 << 10
)

// InputValidation returns middleware that validates and limits request inputs.
// It enforces limits on:
// - Cookie header size
// - URI path and query length
// - Request body size (maxBody bytes; <= 0 means DefaultMaxBodyBytes)
func InputValidation(maxBody int64) func(http.Handler) http.Handler {
	if maxBody <= 0 {
		maxBody = DefaultMaxBodyBytes
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// The session cookie is a small JWT; anything larger is not ours.
			if len(r.Header.Get("Cookie")) > MaxCookieBytes {
				respond.HTML(w, http.StatusRequestHeaderFieldsTooLarge, "Request headers too large.")
				return
			}

			if len(r.URL.Path) > MaxPathBytes || len(r.URL.RawQuery) > MaxQueryBytes {
				respond.HTML(w, http.StatusRequestURITooLong, "The requested address is too long.")
				return
			}

			r.Body = http.MaxBytesReader(w, r.Body, maxBody)
			next.ServeHTTP(w, r)
		})
	}
}
