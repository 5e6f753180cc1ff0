package article

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"csflix/internal/domain/entity"
	"csflix/internal/handler/http/auth"
	"csflix/internal/handler/http/respond"
	"csflix/internal/handler/http/view"
	"csflix/internal/observability/logging"
	"csflix/internal/observability/metrics"
	"csflix/internal/resilience/circuitbreaker"
	artUC "csflix/internal/usecase/article"
)

const msgRateLimited = "You are posting comments too quickly. Please wait a minute and try again."

// Limiter decides whether a user may post another comment.
type Limiter interface {
	Allow(key string) bool
}

// CommentForm holds the submitted comment form of one request.
type CommentForm struct {
	ArticleID int64
	Comment   string
}

// parseCommentForm reads the POSTed form. A missing or malformed article_id is an error.
func parseCommentForm(r *http.Request) (CommentForm, error) {
	if err := r.ParseForm(); err != nil {
		return CommentForm{}, fmt.Errorf("parse form: %w", err)
	}
	form := CommentForm{Comment: r.PostFormValue("comment")}
	id, err := parseArticleID(r.PostFormValue("article_id"))
	if err != nil {
		return form, err
	}
	form.ArticleID = id
	return form, nil
}

func parseArticleID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, artUC.ErrInvalidArticleID
	}
	return id, nil
}

// CommentRedirectURL is where a stored comment sends the user: the listing page
// holding the article, with its comments expanded and scrolled into view.
func CommentRedirectURL(page int, date string, articleID int64) string {
	return fmt.Sprintf("/all_movies/%d?date=%s&view_comments_for=%d#comment-%d",
		page, url.QueryEscape(date), articleID, articleID)
}

// CommentHandler serves the comment form (GET /comment?article=<id>) and
// its submission (POST /comment). Both require a signed-in user.
type CommentHandler struct {
	Svc     Catalogue
	Sidebar Sidebar
	View    *view.Renderer
	Logger  *slog.Logger
	Limiter Limiter // per-user; nil disables limiting
}

func (h CommentHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet, http.MethodHead:
		h.show(w, r)
	case http.MethodPost:
		h.submit(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		respond.HTML(w, http.StatusMethodNotAllowed, http.StatusText(http.StatusMethodNotAllowed))
	}
}

func (h CommentHandler) show(w http.ResponseWriter, r *http.Request) {
	id, err := parseArticleID(r.URL.Query().Get("article"))
	if err != nil {
		respond.NotFound(w, "")
		return
	}
	h.render(w, r, http.StatusOK, CommentForm{ArticleID: id}, nil, "")
}

func (h CommentHandler) submit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.WithRequestID(ctx, h.Logger)
	username := auth.UsernameFromContext(ctx)

	form, err := parseCommentForm(r)
	if err != nil {
		metrics.RecordComment(metrics.CommentInvalid)
		respond.NotFound(w, "")
		return
	}

	if err := h.Svc.ValidateComment(form.Comment); err != nil {
		metrics.RecordComment(metrics.CommentInvalid)
		h.render(w, r, http.StatusOK, form, entity.FieldMessages(err), "")
		return
	}

	if h.Limiter != nil && !h.Limiter.Allow(username) {
		metrics.RecordComment(metrics.CommentRateLimited)
		logger.Warn("comment rate limit exceeded",
			slog.String("username", username),
			slog.Int64("article_id", form.ArticleID))
		w.Header().Set("Retry-After", "60")
		h.render(w, r, http.StatusTooManyRequests, form, nil, msgRateLimited)
		return
	}

	_, err = h.Svc.AddComment(ctx, form.ArticleID, form.Comment, username)
	switch {
	case err == nil:
	case errors.Is(err, entity.ErrValidationFailed):
		metrics.RecordComment(metrics.CommentInvalid)
		h.render(w, r, http.StatusOK, form, entity.FieldMessages(err), "")
		return
	case artUC.IsNotFound(err):
		metrics.RecordComment(metrics.CommentInvalid)
		respond.NotFound(w, "")
		return
	case circuitbreaker.IsRejected(err):
		metrics.RecordComment(metrics.CommentError)
		logger.Warn("comment store unavailable",
			slog.Int64("article_id", form.ArticleID),
			slog.String("error", err.Error()))
		w.Header().Set("Retry-After", "30")
		respond.SafeError(w, http.StatusServiceUnavailable, err)
		return
	default:
		metrics.RecordComment(metrics.CommentError)
		logger.Error("failed to store comment",
			slog.Int64("article_id", form.ArticleID),
			slog.String("error", respond.SanitizeError(err)))
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}

	metrics.RecordComment(metrics.CommentStored)
	logger.Info("comment stored",
		slog.String("username", username),
		slog.Int64("article_id", form.ArticleID))
	http.Redirect(w, r, h.redirectURL(ctx, logger, form.ArticleID), http.StatusFound)
}

func (h CommentHandler) redirectURL(ctx context.Context, logger *slog.Logger, id int64) string {
	var date string
	a, err := h.Svc.GetArticle(ctx, id)
	if err != nil {
		logger.Warn("failed to load article for redirect",
			slog.Int64("article_id", id),
			slog.String("error", err.Error()))
	} else {
		date = a.DateString()
	}
	return CommentRedirectURL(h.Svc.PageOf(id), date, id)
}

// render fetches the article named by form and renders the form around it.
func (h CommentHandler) render(w http.ResponseWriter, r *http.Request, status int, form CommentForm, errs map[string][]string, formError string) {
	ctx := r.Context()
	logger := logging.WithRequestID(ctx, h.Logger)

	a, err := h.Svc.GetArticle(ctx, form.ArticleID)
	if err != nil {
		if artUC.IsNotFound(err) {
			respond.NotFound(w, "")
			return
		}
		logger.Error("failed to load article",
			slog.Int64("article_id", form.ArticleID),
			slog.String("error", respond.SanitizeError(err)))
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}

	h.View.Render(w, status, view.PageComment, view.CommentPage{
		Layout:    newLayout(ctx, h.Sidebar, logger, "Comment on "+a.Title),
		Article:   a,
		ArticleID: form.ArticleID,
		Comment:   form.Comment,
		Errors:    errs,
		FormError: formError,
	})
}
