// Package repository provides the typed record store and its PostgreSQL medium.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// PostgresKV implements storage.Medium on top of the kv table.
type PostgresKV struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresKV creates a new PostgresKV with the given database connection.
// db must be a valid *sql.DB connected to a PostgreSQL instance whose schema
// was created by db.InitPostgres.
func NewPostgresKV(db *sql.DB) *PostgresKV {
	return &PostgresKV{DB: db}
}

// Get returns the value stored under key. A missing row yields ok == false.
func (s *PostgresKV) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.DB.QueryRowContext(
		ctx,
		`SELECT value FROM kv WHERE key = $1`,
		key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("select %s: %w", key, err)
	}
	return value, true, nil
}

// Set inserts or replaces the value under key.
func (s *PostgresKV) Set(ctx context.Context, key, value string) error {
	_, err := s.DB.ExecContext(
		ctx,
		`INSERT INTO kv (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("upsert %s: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (s *PostgresKV) Delete(ctx context.Context, key string) error {
	_, err := s.DB.ExecContext(ctx, `DELETE FROM kv WHERE key = $1`, key)
	if err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}
