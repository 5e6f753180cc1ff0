// Package sqlite provides SQLite implementations of repository interfaces.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"csflix/internal/domain/entity"
	"csflix/internal/infra/db"
	"csflix/internal/repository"
)

// ArticleRepo implements the ArticleRepository interface using SQLite.
type ArticleRepo struct {
	db db.Querier
	qb *ArticleQueryBuilder
}

// NewArticleRepo creates a new SQLite-backed article repository.
// q is usually a *circuitbreaker.DBCircuitBreaker wrapping the pool.
func NewArticleRepo(q db.Querier) repository.ArticleRepository {
	return &ArticleRepo{db: q, qb: NewArticleQueryBuilder()}
}

const articleColumns = `id, title, description, director, date`

func scanArticle(s interface{ Scan(...interface{}) error }) (*entity.Article, error) {
	var a entity.Article
	if err := s.Scan(&a.ID, &a.Title, &a.Description, &a.Director, &a.Date); err != nil {
		return nil, err
	}
	return &a, nil
}

func (repo *ArticleRepo) Get(ctx context.Context, id int64) (*entity.Article, error) {
	query := `SELECT ` + articleColumns + ` FROM articles WHERE id = ? LIMIT 1`

	article, err := scanArticle(repo.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("Get: QueryRowContext: %w", err)
	}
	if err := repo.attachTags(ctx, []*entity.Article{article}); err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}
	return article, nil
}

func (repo *ArticleRepo) GetComments(ctx context.Context, articleID int64) ([]entity.Comment, error) {
	const query = `
SELECT id, article_id, username, text, created_at
FROM comments
WHERE article_id = ?
ORDER BY id ASC
`
	rows, err := repo.db.QueryContext(ctx, query, articleID)
	if err != nil {
		return nil, fmt.Errorf("GetComments: QueryContext: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var comments []entity.Comment
	for rows.Next() {
		var c entity.Comment
		if err := rows.Scan(&c.ID, &c.ArticleID, &c.Username, &c.Text, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("GetComments: Scan: %w", err)
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("GetComments: rows.Err: %w", err)
	}
	return comments, nil
}

func (repo *ArticleRepo) ListIDs(ctx context.Context, filter repository.ArticleFilter) ([]int64, error) {
	where, args := repo.qb.BuildWhereClause(filter)
	query := "SELECT id FROM articles " + where + " ORDER BY id ASC"

	rows, err := repo.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ListIDs: QueryContext: %w", err)
	}
	defer func() { _ = rows.Close() }()

	ids := make([]int64, 0, 128)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("ListIDs: Scan: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListIDs: rows.Err: %w", err)
	}
	return ids, nil
}

func (repo *ArticleRepo) ListByIDs(ctx context.Context, ids []int64) ([]*entity.Article, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := `SELECT ` + articleColumns + ` FROM articles WHERE id IN (` + placeholders(len(ids)) + `)`
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	found, err := repo.queryArticles(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ListByIDs: %w", err)
	}

	byID := make(map[int64]*entity.Article, len(found))
	for _, a := range found {
		byID[a.ID] = a
	}
	out := make([]*entity.Article, 0, len(ids))
	for _, id := range ids {
		if a, ok := byID[id]; ok {
			out = append(out, a)
		}
	}
	if err := repo.attachTags(ctx, out); err != nil {
		return nil, fmt.Errorf("ListByIDs: %w", err)
	}
	return out, nil
}

func (repo *ArticleRepo) First(ctx context.Context) (*entity.Article, error) {
	return repo.one(ctx, `SELECT `+articleColumns+` FROM articles ORDER BY date ASC, id ASC LIMIT 1`)
}

func (repo *ArticleRepo) Last(ctx context.Context) (*entity.Article, error) {
	return repo.one(ctx, `SELECT `+articleColumns+` FROM articles ORDER BY date DESC, id DESC LIMIT 1`)
}

// Random returns up to n random articles. Tags are not loaded.
func (repo *ArticleRepo) Random(ctx context.Context, n int) ([]*entity.Article, error) {
	query := `SELECT ` + articleColumns + ` FROM articles ORDER BY RANDOM() LIMIT ?`
	articles, err := repo.queryArticles(ctx, query, n)
	if err != nil {
		return nil, fmt.Errorf("Random: %w", err)
	}
	return articles, nil
}

func (repo *ArticleRepo) Tags(ctx context.Context) ([]string, error) {
	rows, err := repo.db.QueryContext(ctx, `SELECT DISTINCT tag FROM article_tags ORDER BY tag ASC`)
	if err != nil {
		return nil, fmt.Errorf("Tags: QueryContext: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var tags []string
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return nil, fmt.Errorf("Tags: Scan: %w", err)
		}
		tags = append(tags, tag)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("Tags: rows.Err: %w", err)
	}
	return tags, nil
}

func (repo *ArticleRepo) CountArticles(ctx context.Context) (int64, error) {
	var count int64
	if err := repo.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM articles`).Scan(&count); err != nil {
		return 0, fmt.Errorf("CountArticles: QueryRowContext: %w", err)
	}
	return count, nil
}

func (repo *ArticleRepo) Create(ctx context.Context, article *entity.Article) error {
	tx, err := repo.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("Create: BeginTx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO articles (title, description, director, date) VALUES (?, ?, ?, ?)`,
		article.Title, article.Description, article.Director, article.Date)
	if err != nil {
		return fmt.Errorf("Create: ExecContext: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("Create: LastInsertId: %w", err)
	}

	tags := entity.NormalizeTags(article.Tags)
	for _, tag := range tags {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO article_tags (article_id, tag) VALUES (?, ?)`, id, tag); err != nil {
			return fmt.Errorf("Create: insert tag: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("Create: Commit: %w", err)
	}
	article.ID = id
	article.Tags = tags
	return nil
}

func (repo *ArticleRepo) AddComment(ctx context.Context, comment *entity.Comment) error {
	res, err := repo.db.ExecContext(ctx,
		`INSERT INTO comments (article_id, username, text, created_at) VALUES (?, ?, ?, ?)`,
		comment.ArticleID, comment.Username, comment.Text, comment.CreatedAt)
	if err != nil {
		return fmt.Errorf("AddComment: ExecContext: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("AddComment: LastInsertId: %w", err)
	}
	comment.ID = id
	return nil
}

func (repo *ArticleRepo) one(ctx context.Context, query string) (*entity.Article, error) {
	article, err := scanArticle(repo.db.QueryRowContext(ctx, query))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("QueryRowContext: %w", err)
	}
	if err := repo.attachTags(ctx, []*entity.Article{article}); err != nil {
		return nil, err
	}
	return article, nil
}

func (repo *ArticleRepo) queryArticles(ctx context.Context, query string, args ...interface{}) ([]*entity.Article, error) {
	rows, err := repo.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("QueryContext: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var articles []*entity.Article
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("Scan: %w", err)
		}
		articles = append(articles, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows.Err: %w", err)
	}
	return articles, nil
}

// attachTags loads the tags of articles with one query.
func (repo *ArticleRepo) attachTags(ctx context.Context, articles []*entity.Article) error {
	if len(articles) == 0 {
		return nil
	}
	byID := make(map[int64]*entity.Article, len(articles))
	args := make([]interface{}, 0, len(articles))
	for _, a := range articles {
		byID[a.ID] = a
		args = append(args, a.ID)
	}

	query := `SELECT article_id, tag FROM article_tags WHERE article_id IN (` +
		placeholders(len(args)) + `) ORDER BY tag ASC`
	rows, err := repo.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("attachTags: QueryContext: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var (
			id  int64
			tag string
		)
		if err := rows.Scan(&id, &tag); err != nil {
			return fmt.Errorf("attachTags: Scan: %w", err)
		}
		if a, ok := byID[id]; ok {
			a.Tags = append(a.Tags, tag)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("attachTags: rows.Err: %w", err)
	}
	return nil
}
