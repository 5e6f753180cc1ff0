package article

import (
	"log/slog"
	"net/http"

	"csflix/internal/handler/http/auth"
	"csflix/internal/handler/http/view"
)

// Register registers the catalogue pages with the given mux.
// The comment form requires a signed-in user; the session middleware must wrap mux.
func Register(mux *http.ServeMux, svc Catalogue, sidebar Sidebar, renderer *view.Renderer, limiter Limiter, logger *slog.Logger) {
	mux.Handle("GET /{$}", HomeHandler{Svc: svc, Sidebar: sidebar, View: renderer, Logger: logger})
	mux.Handle("GET /all_movies/{page_number}", ListHandler{Svc: svc, Sidebar: sidebar, View: renderer, Logger: logger})

	comment := auth.RequireLogin(CommentHandler{
		Svc:     svc,
		Sidebar: sidebar,
		View:    renderer,
		Logger:  logger,
		Limiter: limiter,
	})
	mux.Handle("GET /comment", comment)
	mux.Handle("POST /comment", comment)
}
