package auth

import "net/http"

// Register registers the authentication pages with the given mux.
// limit wraps the form posts, typically with a per-IP rate limiter; nil disables it.
func Register(mux *http.ServeMux, h *Handler, limit func(http.Handler) http.Handler) {
	if limit == nil {
		limit = func(next http.Handler) http.Handler { return next }
	}
	mux.HandleFunc("GET "+LoginPath, h.Login)
	mux.Handle("POST "+LoginPath, limit(http.HandlerFunc(h.Login)))
	mux.HandleFunc("GET "+RegisterPath, h.Register)
	mux.Handle("POST "+RegisterPath, limit(http.HandlerFunc(h.Register)))
	mux.HandleFunc("GET "+LogoutPath, h.Logout)
}
