package article

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/singleflight"

	"csflix/internal/common/pagination"
	"csflix/internal/domain/entity"
	"csflix/internal/observability/metrics"
	"csflix/internal/observability/tracing"
	"csflix/internal/repository"
)

// Service provides the catalogue use cases.
// It owns the shared pagination index and delegates persistence to the repository.
type Service struct {
	Repo    repository.ArticleRepository
	Index   *pagination.Index
	Checker entity.ProfanityChecker

	// Now returns the comment timestamp. Defaults to time.Now.
	Now func() time.Time

	split singleflight.Group
}

// NewService creates a Service with an empty index of pageSize articles per page.
// Call SplitMovies before serving traffic; an empty index reports every page as not found.
func NewService(repo repository.ArticleRepository, pageSize int, checker entity.ProfanityChecker) *Service {
	return &Service{
		Repo:    repo,
		Index:   pagination.NewIndex(pageSize),
		Checker: checker,
	}
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// GetAllMovies returns one page of the catalogue.
//
// Unfiltered requests are served from the shared index. Filtered requests are
// paginated over the IDs matching the filter and never touch the shared index.
// An out-of-range page, including any page of a filter that matches nothing,
// yields StatusNotFound. Repository failures yield StatusTransientFailure.
func (s *Service) GetAllMovies(ctx context.Context, req pagination.Request) PageResult {
	ctx, span := tracing.GetTracer().Start(ctx, "article.GetAllMovies")
	defer span.End()
	span.SetAttributes(
		attribute.Int("page.requested", req.Page),
		attribute.Bool("page.filtered", req.Filtered()),
	)

	start := time.Now()
	res := s.getPage(ctx, req)
	pagination.RecordDuration("service", time.Since(start).Seconds())

	span.SetAttributes(
		attribute.String("page.status", res.Status.String()),
		attribute.Int("page.articles", len(res.Articles)),
	)
	if res.Status == StatusTransientFailure {
		span.RecordError(res.Err)
		span.SetStatus(codes.Error, "transient failure")
	}
	return res
}

func (s *Service) getPage(ctx context.Context, req pagination.Request) PageResult {
	var (
		ids             []int64
		resolved, total int
		err             error
	)
	if req.Filtered() {
		filter := repository.ArticleFilter{
			Search: strings.TrimSpace(req.Search),
			Tag:    strings.TrimSpace(req.Tag),
		}
		matching, lerr := s.Repo.ListIDs(ctx, filter)
		if lerr != nil {
			return transient(fmt.Errorf("list filtered ids: %w", lerr))
		}
		ids, resolved, total, err = pagination.PageSlice(matching, s.Index.PageSize(), req.Page)
	} else {
		ids, resolved, total, err = s.Index.Page(req.Page)
	}
	if err != nil {
		return notFound(fmt.Errorf("page %d: %w", req.Page, err))
	}

	articles, err := s.Repo.ListByIDs(ctx, ids)
	if err != nil {
		return transient(fmt.Errorf("list articles by ids: %w", err))
	}
	if len(articles) == 0 {
		// Every indexed article is gone; the index is stale.
		return notFound(fmt.Errorf("page %d: %w", req.Page, pagination.ErrPageOutOfRange))
	}

	return PageResult{
		Articles:   articles,
		Page:       resolved,
		TotalPages: total,
		Status:     StatusOK,
	}
}

// SplitMovies rebuilds the shared pagination index from the full, unfiltered catalogue.
// Concurrent calls share a single rebuild.
func (s *Service) SplitMovies(ctx context.Context) error {
	_, err, _ := s.split.Do("split", func() (interface{}, error) {
		ctx, span := tracing.GetTracer().Start(ctx, "article.SplitMovies")
		defer span.End()

		ids, err := s.Repo.ListIDs(ctx, repository.ArticleFilter{})
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "list ids failed")
			return nil, fmt.Errorf("split movies: %w", err)
		}
		s.Index.Split(ids)
		metrics.UpdateArticlesTotal(len(ids))
		span.SetAttributes(attribute.Int("index.size", len(ids)))
		return nil, nil
	})
	pagination.RecordRebuild(err)
	return err
}

// PageOf returns the page of the shared index holding articleID, or 0 when it is not indexed.
func (s *Service) PageOf(articleID int64) int {
	page, ok := s.Index.PageOf(articleID)
	if !ok {
		return 0
	}
	return page
}

// GetArticle retrieves an article with its tags and comments.
// Returns ErrInvalidArticleID if the ID is not positive.
// Returns ErrArticleNotFound if the article does not exist.
func (s *Service) GetArticle(ctx context.Context, id int64) (*entity.Article, error) {
	if id <= 0 {
		return nil, ErrInvalidArticleID
	}

	article, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get article: %w", err)
	}
	if article == nil {
		return nil, ErrArticleNotFound
	}

	comments, err := s.Repo.GetComments(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get comments: %w", err)
	}
	article.Comments = comments
	return article, nil
}

// ValidateComment runs the comment rules against text.
// The returned error lists every failing rule for the "comment" field.
func (s *Service) ValidateComment(text string) error {
	return entity.Validate("comment", text, entity.CommentRules(s.Checker))
}

// AddComment validates text and appends it to the article's comments.
// Returns a *entity.ValidationError for the "comment" field when a rule fails,
// and ErrArticleNotFound if the article does not exist.
func (s *Service) AddComment(ctx context.Context, articleID int64, text, username string) (*entity.Comment, error) {
	if articleID <= 0 {
		return nil, ErrInvalidArticleID
	}
	if err := s.ValidateComment(text); err != nil {
		return nil, err
	}
	if strings.TrimSpace(username) == "" {
		return nil, &entity.ValidationError{Field: "username", Message: entity.MsgRequired}
	}

	article, err := s.Repo.Get(ctx, articleID)
	if err != nil {
		return nil, fmt.Errorf("get article: %w", err)
	}
	if article == nil {
		return nil, ErrArticleNotFound
	}

	comment := &entity.Comment{
		ArticleID: articleID,
		Username:  username,
		Text:      text,
		CreatedAt: s.now(),
	}
	if err := s.Repo.AddComment(ctx, comment); err != nil {
		return nil, fmt.Errorf("add comment: %w", err)
	}
	return comment, nil
}

// GetFirstArticle returns the earliest article of the catalogue.
// Returns ErrArticleNotFound when the catalogue is empty.
func (s *Service) GetFirstArticle(ctx context.Context) (*entity.Article, error) {
	a, err := s.Repo.First(ctx)
	if err != nil {
		return nil, fmt.Errorf("first article: %w", err)
	}
	if a == nil {
		return nil, ErrArticleNotFound
	}
	return a, nil
}

// GetLastArticle returns the latest article of the catalogue.
// Returns ErrArticleNotFound when the catalogue is empty.
func (s *Service) GetLastArticle(ctx context.Context) (*entity.Article, error) {
	a, err := s.Repo.Last(ctx)
	if err != nil {
		return nil, fmt.Errorf("last article: %w", err)
	}
	if a == nil {
		return nil, ErrArticleNotFound
	}
	return a, nil
}

// Tags returns every distinct tag in the catalogue.
func (s *Service) Tags(ctx context.Context) ([]string, error) {
	tags, err := s.Repo.Tags(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	return tags, nil
}

// IsNotFound reports whether err means the article does not exist or the ID cannot exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrArticleNotFound) || errors.Is(err, ErrInvalidArticleID)
}
