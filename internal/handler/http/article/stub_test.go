package article_test

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"

	"csflix/internal/common/pagination"
	"csflix/internal/domain/entity"
	"csflix/internal/handler/http/article"
	"csflix/internal/handler/http/auth"
	"csflix/internal/handler/http/view"
	artUC "csflix/internal/usecase/article"
)

type wordChecker []string

func (w wordChecker) IsProfane(text string) bool {
	lower := strings.ToLower(text)
	for _, word := range w {
		if strings.Contains(lower, word) {
			return true
		}
	}
	return false
}

// stubCatalogue answers GetAllMovies from a script and keeps articles in memory.
type stubCatalogue struct {
	mu sync.Mutex

	// page returns the result of the n-th GetAllMovies call (0-based).
	page     func(n int, req pagination.Request) artUC.PageResult
	requests []pagination.Request
	splits   int
	splitErr error

	articles map[int64]*entity.Article
	comments map[int64][]entity.Comment
	pageOf   int
	addErr   error
	adds     int

	first, last *entity.Article
}

func newStubCatalogue(articles ...*entity.Article) *stubCatalogue {
	s := &stubCatalogue{
		articles: map[int64]*entity.Article{},
		comments: map[int64][]entity.Comment{},
	}
	for _, a := range articles {
		s.articles[a.ID] = a
	}
	return s
}

func (s *stubCatalogue) GetAllMovies(_ context.Context, req pagination.Request) artUC.PageResult {
	s.mu.Lock()
	n := len(s.requests)
	s.requests = append(s.requests, req)
	s.mu.Unlock()
	if s.page == nil {
		return artUC.PageResult{Status: artUC.StatusNotFound}
	}
	return s.page(n, req)
}

func (s *stubCatalogue) SplitMovies(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.splits++
	return s.splitErr
}

func (s *stubCatalogue) GetArticle(_ context.Context, id int64) (*entity.Article, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.articles[id]
	if !ok {
		return nil, artUC.ErrArticleNotFound
	}
	cp := *a
	cp.Comments = append([]entity.Comment(nil), s.comments[id]...)
	return &cp, nil
}

func (s *stubCatalogue) ValidateComment(text string) error {
	return entity.Validate("comment", text, entity.CommentRules(wordChecker{"darn", "bum"}))
}

func (s *stubCatalogue) AddComment(_ context.Context, articleID int64, text, username string) (*entity.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.adds++
	if err := s.ValidateComment(text); err != nil {
		return nil, err
	}
	if s.addErr != nil {
		return nil, s.addErr
	}
	if _, ok := s.articles[articleID]; !ok {
		return nil, artUC.ErrArticleNotFound
	}
	c := entity.Comment{
		ID:        int64(len(s.comments[articleID]) + 1),
		ArticleID: articleID,
		Username:  username,
		Text:      text,
		CreatedAt: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
	}
	s.comments[articleID] = append(s.comments[articleID], c)
	return &c, nil
}

func (s *stubCatalogue) PageOf(int64) int { return s.pageOf }

func (s *stubCatalogue) GetFirstArticle(context.Context) (*entity.Article, error) {
	if s.first == nil {
		return nil, artUC.ErrArticleNotFound
	}
	return s.first, nil
}

func (s *stubCatalogue) GetLastArticle(context.Context) (*entity.Article, error) {
	if s.last == nil {
		return nil, artUC.ErrArticleNotFound
	}
	return s.last, nil
}

type stubSidebar struct{}

func (stubSidebar) SelectedArticles(context.Context) ([]*entity.Article, error) {
	return []*entity.Article{movie(99, "Selected Movie", "2001-01-01")}, nil
}

func (stubSidebar) TagsAndURLs(context.Context) ([]artUC.TagURL, error) {
	return []artUC.TagURL{{Tag: "Drama", URL: artUC.TagURLFor("Drama")}}, nil
}

type denyLimiter struct{ calls int }

func (d *denyLimiter) Allow(string) bool {
	d.calls++
	return false
}

func movie(id int64, title, date string) *entity.Article {
	d, err := time.Parse(entity.DateLayout, date)
	if err != nil {
		panic(err)
	}
	return &entity.Article{ID: id, Title: title, Date: d, Tags: []string{"Drama"}}
}

func okPage(page, total int, articles ...*entity.Article) artUC.PageResult {
	return artUC.PageResult{Articles: articles, Page: page, TotalPages: total, Status: artUC.StatusOK}
}

func newMux(svc article.Catalogue, limiter article.Limiter) *http.ServeMux {
	mux := http.NewServeMux()
	article.Register(mux, svc, stubSidebar{}, view.MustNew(nil), limiter, slog.New(slog.DiscardHandler))
	return mux
}

func serve(mux http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func signedIn(req *http.Request, username string) *http.Request {
	return req.WithContext(auth.WithUsername(req.Context(), username))
}

func parseDoc(t *testing.T, rec *httptest.ResponseRecorder) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rec.Body.String()))
	require.NoError(t, err)
	return doc
}
