// Package article serves the HTML pages of the movie catalogue:
// the home page, the paginated listing and the comment form.
package article

import (
	"context"
	"log/slog"

	"csflix/internal/common/pagination"
	"csflix/internal/domain/entity"
	"csflix/internal/handler/http/auth"
	"csflix/internal/handler/http/view"
	artUC "csflix/internal/usecase/article"
)

// Catalogue is the article service used by the handlers.
type Catalogue interface {
	GetAllMovies(ctx context.Context, req pagination.Request) artUC.PageResult
	SplitMovies(ctx context.Context) error
	GetArticle(ctx context.Context, id int64) (*entity.Article, error)
	ValidateComment(text string) error
	AddComment(ctx context.Context, articleID int64, text, username string) (*entity.Comment, error)
	PageOf(articleID int64) int
	GetFirstArticle(ctx context.Context) (*entity.Article, error)
	GetLastArticle(ctx context.Context) (*entity.Article, error)
}

// Sidebar supplies the navigation metadata rendered next to every page.
type Sidebar interface {
	SelectedArticles(ctx context.Context) ([]*entity.Article, error)
	TagsAndURLs(ctx context.Context) ([]artUC.TagURL, error)
}

// newLayout builds the shared page data. A sidebar failure only drops the sidebar.
func newLayout(ctx context.Context, sidebar Sidebar, logger *slog.Logger, title string) view.Layout {
	l := view.Layout{Title: title, Username: auth.UsernameFromContext(ctx)}
	if sidebar == nil {
		return l
	}

	selected, err := sidebar.SelectedArticles(ctx)
	if err != nil {
		logger.Warn("failed to load selected articles", slog.String("error", err.Error()))
	}
	tags, err := sidebar.TagsAndURLs(ctx)
	if err != nil {
		logger.Warn("failed to load tags", slog.String("error", err.Error()))
	}
	l.Selected = selected
	l.Tags = tags
	return l
}
