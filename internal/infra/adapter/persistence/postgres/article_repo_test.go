package postgres_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/go-cmp/cmp"

	"csflix/internal/domain/entity"
	pg "csflix/internal/infra/adapter/persistence/postgres"
	"csflix/internal/repository"
)

/* ─────────────────────────── helpers ─────────────────────────── */

var articleCols = []string{"id", "title", "description", "director", "date"}

func artRows(as ...*entity.Article) *sqlmock.Rows {
	rows := sqlmock.NewRows(articleCols)
	for _, a := range as {
		rows.AddRow(a.ID, a.Title, a.Description, a.Director, a.Date)
	}
	return rows
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

/* ─────────────────────────── 1. Get ─────────────────────────── */

func TestArticleRepo_Get(t *testing.T) {
	t.Parallel()

	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectQuery(regexp.QuoteMeta("WHERE a.id = $1")).
		WithArgs(int64(7)).
		WillReturnRows(artRows(&entity.Article{ID: 7, Title: "Solaris", Director: "Andrei Tarkovsky", Date: day(1972, 3, 20)}))
	mock.ExpectQuery(regexp.QuoteMeta("WHERE article_id IN ($1)")).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"article_id", "tag"}).AddRow(int64(7), "Drama").AddRow(int64(7), "Sci-Fi"))

	got, err := pg.NewArticleRepo(db).Get(context.Background(), 7)
	if err != nil {
		t.Fatalf("Get err=%v", err)
	}
	want := &entity.Article{ID: 7, Title: "Solaris", Director: "Andrei Tarkovsky", Date: day(1972, 3, 20), Tags: []string{"Drama", "Sci-Fi"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Get mismatch (-want +got):\n%s", diff)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestArticleRepo_Get_NotFound(t *testing.T) {
	t.Parallel()

	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectQuery("FROM articles a").WithArgs(int64(1)).WillReturnRows(sqlmock.NewRows(articleCols))

	got, err := pg.NewArticleRepo(db).Get(context.Background(), 1)
	if err != nil || got != nil {
		t.Fatalf("Get = (%v, %v), want (nil, nil)", got, err)
	}
}

/* ─────────────────────────── 2. ListIDs / ListByIDs ─────────────────────────── */

func TestArticleRepo_ListIDs_Filtered(t *testing.T) {
	t.Parallel()

	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT a.id FROM articles a WHERE")).
		WithArgs("%nolan%", "Sci-Fi").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(2)).AddRow(int64(8)))

	got, err := pg.NewArticleRepo(db).ListIDs(context.Background(), repository.ArticleFilter{Search: "nolan", Tag: "Sci-Fi"})
	if err != nil {
		t.Fatalf("ListIDs err=%v", err)
	}
	if diff := cmp.Diff([]int64{2, 8}, got); diff != "" {
		t.Errorf("ListIDs mismatch (-want +got):\n%s", diff)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestArticleRepo_ListByIDs(t *testing.T) {
	t.Parallel()

	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectQuery(regexp.QuoteMeta("WHERE a.id IN ($1, $2)")).
		WithArgs(int64(8), int64(2)).
		WillReturnRows(artRows(&entity.Article{ID: 2, Title: "Inception"}, &entity.Article{ID: 8, Title: "Tenet"}))
	mock.ExpectQuery(regexp.QuoteMeta("WHERE article_id IN ($1, $2)")).
		WithArgs(int64(8), int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"article_id", "tag"}))

	got, err := pg.NewArticleRepo(db).ListByIDs(context.Background(), []int64{8, 2})
	if err != nil {
		t.Fatalf("ListByIDs err=%v", err)
	}
	if len(got) != 2 || got[0].Title != "Tenet" || got[1].Title != "Inception" {
		t.Errorf("ListByIDs order = %v", got)
	}
}

/* ─────────────────────────── 3. Create / AddComment ─────────────────────────── */

func TestArticleRepo_Create(t *testing.T) {
	t.Parallel()

	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	date := day(2010, 7, 16)
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO articles (title, description, director, date) VALUES ($1, $2, $3, $4) RETURNING id")).
		WithArgs("Inception", "", "Christopher Nolan", date).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(2)))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO article_tags")).
		WithArgs(int64(2), "Sci-Fi").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	a := &entity.Article{Title: "Inception", Director: "Christopher Nolan", Date: date, Tags: []string{"Sci-Fi"}}
	if err := pg.NewArticleRepo(db).Create(context.Background(), a); err != nil {
		t.Fatalf("Create err=%v", err)
	}
	if a.ID != 2 {
		t.Errorf("ID = %d, want 2", a.ID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestArticleRepo_AddComment(t *testing.T) {
	t.Parallel()

	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO comments")).
		WithArgs(int64(2), "ann", "dream within a dream", at).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(11)))

	c := &entity.Comment{ArticleID: 2, Username: "ann", Text: "dream within a dream", CreatedAt: at}
	if err := pg.NewArticleRepo(db).AddComment(context.Background(), c); err != nil {
		t.Fatalf("AddComment err=%v", err)
	}
	if c.ID != 11 {
		t.Errorf("ID = %d, want 11", c.ID)
	}
}

func TestArticleRepo_AddComment_Error(t *testing.T) {
	t.Parallel()

	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectQuery("INSERT INTO comments").WillReturnError(errors.New("fk violation"))

	err := pg.NewArticleRepo(db).AddComment(context.Background(), &entity.Comment{ArticleID: 99})
	if err == nil {
		t.Fatal("expected error")
	}
}

/* ─────────────────────────── 4. First / Last / Tags ─────────────────────────── */

func TestArticleRepo_FirstLastTags(t *testing.T) {
	t.Parallel()

	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY a.date ASC, a.id ASC")).
		WillReturnRows(sqlmock.NewRows(articleCols))
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY a.date DESC, a.id DESC")).
		WillReturnRows(sqlmock.NewRows(articleCols))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT DISTINCT tag")).
		WillReturnRows(sqlmock.NewRows([]string{"tag"}).AddRow("Western"))

	repo := pg.NewArticleRepo(db)
	if a, err := repo.First(context.Background()); a != nil || err != nil {
		t.Errorf("First on empty = (%v, %v)", a, err)
	}
	if a, err := repo.Last(context.Background()); a != nil || err != nil {
		t.Errorf("Last on empty = (%v, %v)", a, err)
	}
	tags, err := repo.Tags(context.Background())
	if err != nil || len(tags) != 1 || tags[0] != "Western" {
		t.Errorf("Tags = (%v, %v)", tags, err)
	}
}
