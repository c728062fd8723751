// Package sqlite provides a SQLite-backed implementation of runlog.Repository.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jcmexdev/ecommerce-promotions/internal/coordinator/runlog"
	"github.com/jcmexdev/ecommerce-promotions/internal/pkg/sqlitedb"
)

// ErrNotFound is returned when a run has no log entries.
var ErrNotFound = errors.New("sqlite: run not found")

// The table is append-only: each row is an immutable event in a run's
// lifecycle.
const schema = `
CREATE TABLE IF NOT EXISTS run_logs (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id      TEXT NOT NULL,
    status      TEXT NOT NULL,
    step        TEXT NOT NULL DEFAULT '',
    errors      TEXT NOT NULL DEFAULT '[]',
    trace_id    TEXT NOT NULL DEFAULT '',
    span_id     TEXT NOT NULL DEFAULT '',
    logged_at   TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_run_logs_run_id ON run_logs(run_id, logged_at);
CREATE INDEX IF NOT EXISTS idx_run_logs_trace_id ON run_logs(trace_id);
`

// Repository is the SQLite implementation of runlog.Repository.
type Repository struct {
	db *sql.DB
}

var _ runlog.Repository = (*Repository)(nil)

// Open opens (or creates) the run log database at path.
func Open(path string) (*Repository, error) {
	db, err := sqlitedb.Open(path, schema)
	if err != nil {
		return nil, err
	}
	return &Repository{db: db}, nil
}

// Close releases the database connection.
func (r *Repository) Close() error {
	return r.db.Close()
}

// Save appends entry. It is safe to call concurrently.
func (r *Repository) Save(ctx context.Context, entry *runlog.Entry) error {
	const q = `
		INSERT INTO run_logs (run_id, status, step, errors, trace_id, span_id, logged_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, q,
		entry.RunID,
		string(entry.Status),
		entry.Step,
		entry.Errors,
		entry.TraceID,
		entry.SpanID,
		sqlitedb.FormatTime(entry.At),
	)
	if err != nil {
		return fmt.Errorf("sqlite: save run log for %q: %w", entry.RunID, err)
	}
	return nil
}

// GetLatest returns the most recent entry for runID.
func (r *Repository) GetLatest(ctx context.Context, runID string) (*runlog.Entry, error) {
	entries, err := r.query(ctx, `
		SELECT run_id, status, step, errors, trace_id, span_id, logged_at
		FROM   run_logs
		WHERE  run_id = ?
		ORDER  BY logged_at DESC, id DESC
		LIMIT  1`, runID)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, runID)
	}
	return entries[0], nil
}

// History returns every entry of runID in the order it was written.
func (r *Repository) History(ctx context.Context, runID string) ([]*runlog.Entry, error) {
	return r.query(ctx, `
		SELECT run_id, status, step, errors, trace_id, span_id, logged_at
		FROM   run_logs
		WHERE  run_id = ?
		ORDER  BY id ASC`, runID)
}

func (r *Repository) query(ctx context.Context, q string, args ...any) ([]*runlog.Entry, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: query run log: %w", err)
	}
	defer rows.Close()

	var out []*runlog.Entry
	for rows.Next() {
		var e runlog.Entry
		var at string
		if err := rows.Scan(&e.RunID, &e.Status, &e.Step, &e.Errors, &e.TraceID, &e.SpanID, &at); err != nil {
			return nil, fmt.Errorf("sqlite: scan run log: %w", err)
		}
		if e.At, err = sqlitedb.ParseTime(at); err != nil {
			return nil, err
		}
		out = append(out, &e)
	}
	return out, rows.Err()
}
