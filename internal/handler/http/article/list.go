package article

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"csflix/internal/common/pagination"
	"csflix/internal/domain/entity"
	"csflix/internal/handler/http/requestid"
	"csflix/internal/handler/http/view"
	"csflix/internal/observability/logging"
	artUC "csflix/internal/usecase/article"
)

// ListHandler serves GET /all_movies/{page_number}.
//
// Query parameters: search (free text), sort (tag), view_comments_for (article ID
// whose comments are expanded) and date (the article date, carried by comment redirects).
//
// A page that does not exist for the current filter resets the pagination index and
// is requested once more without filters; the listing then carries a "no results"
// notice. If that still yields nothing, the client is redirected to the home page.
type ListHandler struct {
	Svc     Catalogue
	Sidebar Sidebar
	View    *view.Renderer
	Logger  *slog.Logger
}

func (h ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	startTime := time.Now()

	reqID := requestid.FromContext(ctx)
	logger := logging.WithRequestID(ctx, h.Logger)

	q := r.URL.Query()
	req := pagination.Request{
		Search: strings.TrimSpace(q.Get("search")),
		Tag:    strings.TrimSpace(q.Get("sort")),
	}
	page, parseErr := pagination.ParsePageNumber(r.PathValue("page_number"))
	req.Page = page
	pagination.LogRequest(logger, reqID, req)

	var res artUC.PageResult
	if parseErr != nil {
		res = artUC.PageResult{Status: artUC.StatusNotFound, Err: parseErr}
	} else {
		res = h.Svc.GetAllMovies(ctx, req)
	}
	pagination.RecordRequest(res.Status.String(), req.Filtered())

	effective := req
	noResults := false
	switch res.Status {
	case artUC.StatusOK:
	case artUC.StatusNotFound:
		noResults = true
		effective = req.Unfiltered()
		res = h.fallback(ctx, logger, reqID, effective, parseErr == nil)
	case artUC.StatusTransientFailure:
		h.transient(logger, reqID, req, res.Err, "initial")
	default:
		h.transient(logger, reqID, req, fmt.Errorf("unexpected page status %d", res.Status), "initial")
	}

	if res.Empty() {
		if noResults {
			pagination.RecordFallback("redirected")
		}
		pagination.LogResponse(logger, reqID, effective, "redirect_home", 0, time.Since(startTime))
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	if noResults {
		pagination.RecordFallback("rendered")
	}

	nav := pagination.NewNavigation(effective.Page)
	data := view.ListingPage{
		Layout:          newLayout(ctx, h.Sidebar, logger, "All movies"),
		Articles:        res.Articles,
		NoResults:       noResults,
		Search:          effective.Search,
		Tag:             effective.Tag,
		Page:            res.Page,
		TotalPages:      res.TotalPages,
		ViewCommentsFor: h.expandComments(ctx, logger, res.Articles, q.Get("view_comments_for")),
		First:           view.ListingURL(nav.First, effective.Search, effective.Tag),
		Prev:            view.ListingURL(nav.Prev, effective.Search, effective.Tag),
		Next:            view.ListingURL(nav.Next, effective.Search, effective.Tag),
		Last:            view.ListingURL(nav.Last, effective.Search, effective.Tag),
	}

	duration := time.Since(startTime)
	pagination.RecordDuration("handler", duration.Seconds())
	pagination.LogResponse(logger, reqID, effective, res.Status.String(), len(res.Articles), duration)

	h.View.Render(w, http.StatusOK, view.PageArticles, data)
}

// fallback rebuilds the index and, when retry is set, requests req once more.
func (h ListHandler) fallback(ctx context.Context, logger *slog.Logger, reqID string, req pagination.Request, retry bool) artUC.PageResult {
	if err := h.Svc.SplitMovies(ctx); err != nil {
		pagination.LogError(logger, reqID, req, err, "index_reset")
	}
	if !retry {
		return artUC.PageResult{Status: artUC.StatusNotFound}
	}

	res := h.Svc.GetAllMovies(ctx, req)
	switch res.Status {
	case artUC.StatusOK:
	case artUC.StatusNotFound:
		logger.Info("page out of range after index reset",
			slog.String("request_id", reqID),
			slog.Int("page", req.Page))
	case artUC.StatusTransientFailure:
		h.transient(logger, reqID, req, res.Err, "retry")
	default:
		h.transient(logger, reqID, req, fmt.Errorf("unexpected page status %d", res.Status), "retry")
	}
	return res
}

func (h ListHandler) transient(logger *slog.Logger, reqID string, req pagination.Request, err error, stage string) {
	if err == nil {
		err = fmt.Errorf("page %d could not be loaded", req.Page)
	}
	pagination.RecordTransientFailure(stage)
	pagination.LogError(logger, reqID, req, err, "transient_failure")
}

// expandComments loads the comments of the article named by raw when it is on the page.
// It returns the ID of the expanded article, 0 for none.
func (h ListHandler) expandComments(ctx context.Context, logger *slog.Logger, articles []*entity.Article, raw string) int64 {
	if raw == "" {
		return 0
	}
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0
	}

	for _, a := range articles {
		if a.ID != id {
			continue
		}
		full, err := h.Svc.GetArticle(ctx, id)
		if err != nil {
			logger.Warn("failed to load comments",
				slog.Int64("article_id", id),
				slog.String("error", err.Error()))
			return 0
		}
		a.Comments = full.Comments
		return id
	}
	return 0
}
