package postgres_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"

	"csflix/internal/domain/entity"
	pg "csflix/internal/infra/adapter/persistence/postgres"
	"csflix/internal/repository"
)

func TestUserRepo_Create(t *testing.T) {
	t.Parallel()

	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users")).
		WithArgs("ann", "hash", now).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(4)))

	u := &entity.User{Username: "ann", PasswordHash: "hash", CreatedAt: now}
	if err := pg.NewUserRepo(db).Create(context.Background(), u); err != nil {
		t.Fatalf("Create err=%v", err)
	}
	if u.ID != 4 {
		t.Errorf("ID = %d, want 4", u.ID)
	}
}

func TestUserRepo_Create_Duplicate(t *testing.T) {
	t.Parallel()

	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectQuery("INSERT INTO users").WillReturnError(&pgconn.PgError{Code: "23505"})

	err := pg.NewUserRepo(db).Create(context.Background(), &entity.User{Username: "ann"})
	if !errors.Is(err, repository.ErrDuplicateUsername) {
		t.Fatalf("err = %v, want ErrDuplicateUsername", err)
	}
}

func TestUserRepo_GetByUsername_NotFound(t *testing.T) {
	t.Parallel()

	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectQuery("FROM users").WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "password_hash", "created_at"}))

	u, err := pg.NewUserRepo(db).GetByUsername(context.Background(), "ghost")
	if err != nil || u != nil {
		t.Fatalf("GetByUsername = (%v, %v), want (nil, nil)", u, err)
	}
}
