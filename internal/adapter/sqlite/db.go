// Package sqlite implements the domain repositories on SQLite for
// single-node deployments and tests.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/mattn/go-sqlite3"

	"feedreader/internal/domain"
)

// Open opens the database at path. ":memory:" yields a private in-memory
// database held on a single connection.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	dsn := path
	memory := path == ":memory:"
	if !memory {
		dsn = "file:" + path + "?_busy_timeout=5000&_journal_mode=WAL&_foreign_keys=on"
	}
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if memory {
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	return db, nil
}

// Migrate creates the admission tables when they do not exist.
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, qCreateSchema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// translate maps a missing table to domain.ErrMissingTable.
func translate(err error) error {
	if err == nil {
		return nil
	}
	var sqErr sqlite3.Error
	if errors.As(err, &sqErr) && sqErr.Code == sqlite3.ErrError && strings.Contains(sqErr.Error(), "no such table") {
		return fmt.Errorf("%w: %s", domain.ErrMissingTable, sqErr.Error())
	}
	return err
}
