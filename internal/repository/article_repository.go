package repository

import (
	"context"

	"csflix/internal/domain/entity"
)

// ArticleFilter narrows an article listing. Empty fields are not applied.
type ArticleFilter struct {
	Search string // case-insensitive substring of title, description or director
	Tag    string // exact tag (case-insensitive)
}

// IsZero reports whether no filter field is set.
func (f ArticleFilter) IsZero() bool {
	return f.Search == "" && f.Tag == ""
}

type ArticleRepository interface {
	// Get retrieves an article with its tags (comments are not loaded).
	// Returns (nil, nil) if the article is not found.
	Get(ctx context.Context, id int64) (*entity.Article, error)
	// GetComments returns the comments of an article in creation order.
	GetComments(ctx context.Context, articleID int64) ([]entity.Comment, error)
	// ListIDs returns the IDs of articles matching filter in catalogue order (id ascending).
	// This is what the pagination index is built from.
	ListIDs(ctx context.Context, filter ArticleFilter) ([]int64, error)
	// ListByIDs loads the articles with the given IDs, preserving the order of ids.
	// Unknown IDs are skipped.
	ListByIDs(ctx context.Context, ids []int64) ([]*entity.Article, error)
	// First returns the article with the earliest date, or nil when the catalogue is empty.
	First(ctx context.Context) (*entity.Article, error)
	// Last returns the article with the latest date, or nil when the catalogue is empty.
	Last(ctx context.Context) (*entity.Article, error)
	// Random returns up to n articles picked at random.
	Random(ctx context.Context, n int) ([]*entity.Article, error)
	// Tags returns every distinct tag, sorted.
	Tags(ctx context.Context) ([]string, error)
	CountArticles(ctx context.Context) (int64, error)
	// Create inserts the article and its tags, setting article.ID.
	Create(ctx context.Context, article *entity.Article) error
	// AddComment appends a comment to its article, setting comment.ID.
	AddComment(ctx context.Context, comment *entity.Comment) error
}
