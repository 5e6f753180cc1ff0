package circuitbreaker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/sony/gobreaker"
)

func newMockBreaker(t *testing.T) (*DBCircuitBreaker, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	if err != nil {
		t.Fatalf("failed to create mock db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	cfg := DBConfig()
	cfg.Timeout = 100 * time.Millisecond
	return NewDBCircuitBreakerWithConfig(db, cfg), mock
}

func TestNewDBCircuitBreaker(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock db: %v", err)
	}
	defer func() { _ = db.Close() }()

	dcb := NewDBCircuitBreaker(db)

	if dcb.DB() != db {
		t.Error("expected db to be set")
	}
	if dcb.State() != gobreaker.StateClosed {
		t.Errorf("expected initial state Closed, got %s", dcb.State())
	}
}

func TestDBCircuitBreaker_QueryContext(t *testing.T) {
	dcb, mock := newMockBreaker(t)

	mock.ExpectQuery("SELECT id FROM articles").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1).AddRow(2))

	rows, err := dcb.QueryContext(context.Background(), "SELECT id FROM articles")
	if err != nil {
		t.Fatalf("QueryContext: %v", err)
	}
	defer func() { _ = rows.Close() }()

	var n int
	for rows.Next() {
		n++
	}
	if n != 2 {
		t.Errorf("rows = %d, want 2", n)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestDBCircuitBreaker_ExecContext(t *testing.T) {
	dcb, mock := newMockBreaker(t)

	mock.ExpectExec("INSERT INTO comments").WillReturnResult(sqlmock.NewResult(7, 1))

	res, err := dcb.ExecContext(context.Background(), "INSERT INTO comments (text) VALUES (?)", "nice")
	if err != nil {
		t.Fatalf("ExecContext: %v", err)
	}
	id, _ := res.LastInsertId()
	if id != 7 {
		t.Errorf("LastInsertId = %d, want 7", id)
	}
}

func TestDBCircuitBreaker_BeginTx(t *testing.T) {
	dcb, mock := newMockBreaker(t)

	mock.ExpectBegin()
	mock.ExpectCommit()

	tx, err := dcb.BeginTx(context.Background(), nil)
	if err != nil {
		t.Fatalf("BeginTx: %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestDBCircuitBreaker_PingContext(t *testing.T) {
	dcb, mock := newMockBreaker(t)

	mock.ExpectPing()
	if err := dcb.PingContext(context.Background()); err != nil {
		t.Fatalf("PingContext: %v", err)
	}

	mock.ExpectPing().WillReturnError(errors.New("unreachable"))
	if err := dcb.PingContext(context.Background()); err == nil {
		t.Fatal("expected ping error")
	}
}

func TestDBCircuitBreaker_OpensAfterConsecutiveFailures(t *testing.T) {
	dcb, mock := newMockBreaker(t)

	for i := 0; i < 5; i++ {
		mock.ExpectQuery("SELECT").WillReturnError(errors.New("connection refused"))
	}
	for i := 0; i < 5; i++ {
		_, _ = dcb.QueryContext(context.Background(), "SELECT 1")
	}

	if !dcb.IsOpen() {
		t.Fatalf("expected open circuit, got %s", dcb.State())
	}

	_, err := dcb.QueryContext(context.Background(), "SELECT 1")
	if !IsRejected(err) {
		t.Errorf("expected rejection while open, got %v", err)
	}
	_, err = dcb.ExecContext(context.Background(), "DELETE FROM x")
	if !IsRejected(err) {
		t.Errorf("expected rejection while open, got %v", err)
	}
}

func TestDBCircuitBreaker_HalfOpenAfterTimeout(t *testing.T) {
	dcb, mock := newMockBreaker(t)

	for i := 0; i < 5; i++ {
		mock.ExpectExec("UPDATE").WillReturnError(errors.New("timeout"))
		_, _ = dcb.ExecContext(context.Background(), "UPDATE x SET y = 1")
	}
	if !dcb.IsOpen() {
		t.Fatalf("expected open circuit, got %s", dcb.State())
	}

	time.Sleep(150 * time.Millisecond)

	if dcb.State() != gobreaker.StateHalfOpen {
		t.Errorf("expected half-open after timeout, got %s", dcb.State())
	}
}

func TestDBCircuitBreaker_QueryRowContext(t *testing.T) {
	dcb, mock := newMockBreaker(t)

	mock.ExpectQuery("SELECT COUNT").WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	var n int
	if err := dcb.QueryRowContext(context.Background(), "SELECT COUNT(*) FROM articles").Scan(&n); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if n != 3 {
		t.Errorf("count = %d, want 3", n)
	}
}

func TestDBConfig(t *testing.T) {
	cfg := DBConfig()

	if cfg.Name != "database" || cfg.MinRequests != 5 || cfg.FailureThreshold != 1.0 {
		t.Errorf("unexpected DBConfig: %+v", cfg)
	}
}
