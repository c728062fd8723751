// Package sqlitedb opens SQLite databases with the pragmas every store in
// this module expects.
//
// WAL mode is enabled so readers never block the single writer.
package sqlitedb

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	// Pure-Go driver, no CGO needed in the Alpine images.
	_ "modernc.org/sqlite"
)

// Open opens (or creates) the database at path and applies schema.
//
//	db, err := sqlitedb.Open("./data/pricing.db", schema)
func Open(path, schema string) (*sql.DB, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=foreign_keys(on)&_pragma=busy_timeout(5000)", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %q: %w", path, err)
	}

	// SQLite performs best with a single writer connection.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: apply schema: %w", err)
	}
	return db, nil
}

// WithTx runs fn inside a transaction, committing on success.
func WithTx(ctx context.Context, db *sql.DB, fn func(*sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: begin: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: commit: %w", err)
	}
	return nil
}

// FormatTime renders t the way timestamps are stored: RFC3339 TEXT in UTC,
// which sorts lexicographically.
func FormatTime(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000000000Z")
}

// ParseTime parses a timestamp written by FormatTime.
func ParseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("sqlite: parse time %q: %w", s, err)
	}
	return t, nil
}

// NullableString returns nil for empty strings so SQLite stores NULL.
func NullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
