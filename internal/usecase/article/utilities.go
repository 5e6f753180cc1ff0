package article

import (
	"context"
	"fmt"
	"net/url"

	"csflix/internal/domain/entity"
	"csflix/internal/repository"
)

// DefaultSelectedCount is the number of selected-article shortcuts shown next to a listing.
const DefaultSelectedCount = 3

// TagURL links a tag to the first page of the listing filtered by it.
type TagURL struct {
	Tag string
	URL string
}

// Utilities provides the navigation metadata rendered around every page.
type Utilities struct {
	Repo          repository.ArticleRepository
	SelectedCount int
}

// SelectedArticles returns a random handful of articles for the sidebar.
func (u *Utilities) SelectedArticles(ctx context.Context) ([]*entity.Article, error) {
	n := u.SelectedCount
	if n <= 0 {
		n = DefaultSelectedCount
	}
	articles, err := u.Repo.Random(ctx, n)
	if err != nil {
		return nil, fmt.Errorf("selected articles: %w", err)
	}
	return articles, nil
}

// TagsAndURLs returns every tag with the URL of its filtered listing.
func (u *Utilities) TagsAndURLs(ctx context.Context) ([]TagURL, error) {
	tags, err := u.Repo.Tags(ctx)
	if err != nil {
		return nil, fmt.Errorf("tags and urls: %w", err)
	}
	out := make([]TagURL, 0, len(tags))
	for _, t := range tags {
		out = append(out, TagURL{Tag: t, URL: TagURLFor(t)})
	}
	return out, nil
}

// TagURLFor returns the listing URL filtered by tag.
func TagURLFor(tag string) string {
	return "/all_movies/0?sort=" + url.QueryEscape(tag)
}
