package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

// Compile-time interface check.
var _ Store = (*SQLiteStore)(nil)

// SQLiteStore is a persistent Store backed by SQLite.
type SQLiteStore struct {
	db        *sql.DB
	namespace string
}

// NewSQLiteStore opens (or creates) a SQLite database at the given path and
// initialises the schema. Use ":memory:" for an in-memory SQLite database.
func NewSQLiteStore(dsn, namespace string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// A single connection serialises writers and keeps ":memory:" databases
	// from being split across pooled connections.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS counters (
			namespace TEXT    NOT NULL,
			key       TEXT    NOT NULL,
			field     TEXT    NOT NULL,
			value     INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (namespace, key, field)
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create counters table: %w", err)
	}

	return &SQLiteStore{db: db, namespace: namespace}, nil
}

// Increment atomically adds one to field under key with a single upsert.
func (s *SQLiteStore) Increment(ctx context.Context, key, field string) (int64, error) {
	var value int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO counters (namespace, key, field, value) VALUES (?, ?, ?, 1)
		ON CONFLICT (namespace, key, field) DO UPDATE SET value = value + 1
		RETURNING value`,
		s.namespace, key, field,
	).Scan(&value)
	if err != nil {
		return 0, unavailable("sqlite", "upsert", err)
	}
	return value, nil
}

// Get returns the current value of field under key.
func (s *SQLiteStore) Get(ctx context.Context, key, field string) (int64, error) {
	var value int64
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM counters WHERE namespace = ? AND key = ? AND field = ?`,
		s.namespace, key, field,
	).Scan(&value)

	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, unavailable("sqlite", "select", err)
	}
	return value, nil
}

// Close closes the underlying SQLite database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
