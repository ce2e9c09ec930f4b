package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func setupKVMock(t *testing.T) (*PostgresKV, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock database: %v", err)
	}
	kv := NewPostgresKV(db)
	cleanup := func() { db.Close() }
	return kv, mock, cleanup
}

func TestPostgresKVGet_Found(t *testing.T) {
	kv, mock, cleanup := setupKVMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT value FROM kv WHERE key = $1`)).
		WithArgs("os_current_user").
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow("a@x.com"))

	v, ok, err := kv.Get(context.Background(), "os_current_user")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok || v != "a@x.com" {
		t.Errorf("Get = (%q, %v); want (%q, true)", v, ok, "a@x.com")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestPostgresKVGet_Missing(t *testing.T) {
	kv, mock, cleanup := setupKVMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT value FROM kv WHERE key = $1`)).
		WithArgs("os_users").
		WillReturnRows(sqlmock.NewRows([]string{"value"}))

	v, ok, err := kv.Get(context.Background(), "os_users")
	if err != nil {
		t.Fatalf("missing key must not be an error, got %v", err)
	}
	if ok || v != "" {
		t.Errorf("Get = (%q, %v); want (\"\", false)", v, ok)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestPostgresKVGet_Error(t *testing.T) {
	kv, mock, cleanup := setupKVMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT value FROM kv WHERE key = $1`)).
		WithArgs("os_users").
		WillReturnError(errors.New("query failed"))

	if _, _, err := kv.Get(context.Background(), "os_users"); err == nil {
		t.Errorf("expected error, got nil")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestPostgresKVSet(t *testing.T) {
	kv, mock, cleanup := setupKVMock(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO kv (key, value) VALUES ($1, $2)`)).
		WithArgs("os_products", "[]").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := kv.Set(context.Background(), "os_products", "[]"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestPostgresKVSet_Error(t *testing.T) {
	kv, mock, cleanup := setupKVMock(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO kv (key, value) VALUES ($1, $2)`)).
		WithArgs("os_products", "[]").
		WillReturnError(errors.New("insert failed"))

	if err := kv.Set(context.Background(), "os_products", "[]"); err == nil {
		t.Errorf("expected error, got nil")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestPostgresKVDelete(t *testing.T) {
	kv, mock, cleanup := setupKVMock(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM kv WHERE key = $1`)).
		WithArgs("os_current_user").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := kv.Delete(context.Background(), "os_current_user"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}
