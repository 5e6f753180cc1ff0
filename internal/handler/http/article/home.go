package article

import (
	"log/slog"
	"net/http"

	"csflix/internal/handler/http/view"
	"csflix/internal/observability/logging"
	artUC "csflix/internal/usecase/article"
)

// HomeHandler serves the home page: the oldest and newest movie plus the sidebar.
// An empty or unreachable catalogue still renders the page.
type HomeHandler struct {
	Svc     Catalogue
	Sidebar Sidebar
	View    *view.Renderer
	Logger  *slog.Logger
}

func (h HomeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.WithRequestID(ctx, h.Logger)

	first, err := h.Svc.GetFirstArticle(ctx)
	if err != nil && !artUC.IsNotFound(err) {
		logger.Error("failed to load first article", slog.String("error", err.Error()))
	}
	last, err := h.Svc.GetLastArticle(ctx)
	if err != nil && !artUC.IsNotFound(err) {
		logger.Error("failed to load last article", slog.String("error", err.Error()))
	}

	h.View.Render(w, http.StatusOK, view.PageHome, view.HomePage{
		Layout: newLayout(ctx, h.Sidebar, logger, ""),
		First:  first,
		Last:   last,
	})
}
