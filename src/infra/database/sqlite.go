package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/contre95/beetwatch/src/features/importing"
	_ "github.com/mattn/go-sqlite3"
)

// SqliteHistory is a SQLite implementation of the importing.History interface.
type SqliteHistory struct {
	db *sql.DB
}

// NewSqliteHistory opens (or creates) the history database at path.
func NewSqliteHistory(path string) (*SqliteHistory, error) {
	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, err
	}

	if err := createTables(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return &SqliteHistory{db: db}, nil
}

func createTables(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS dispatches (
			id TEXT PRIMARY KEY,
			path TEXT NOT NULL,
			action TEXT NOT NULL,
			is_directory INTEGER NOT NULL DEFAULT 0,
			skipped INTEGER NOT NULL DEFAULT 0,
			skip_reason TEXT,
			succeeded INTEGER NOT NULL DEFAULT 0,
			error TEXT,
			started_at INTEGER NOT NULL,
			duration_ms INTEGER NOT NULL DEFAULT 0
		);

		CREATE INDEX IF NOT EXISTS idx_dispatches_started_at ON dispatches(started_at);
		CREATE INDEX IF NOT EXISTS idx_dispatches_path ON dispatches(path);
	`)
	return err
}

// Record stores a dispatch outcome.
func (d *SqliteHistory) Record(ctx context.Context, outcome importing.DispatchOutcome) error {
	_, err := d.db.ExecContext(ctx, `
		INSERT INTO dispatches (id, path, action, is_directory, skipped, skip_reason, succeeded, error, started_at, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		outcome.ID,
		outcome.Path,
		string(outcome.Action),
		outcome.IsDirectory,
		outcome.Skipped,
		outcome.SkipReason,
		outcome.Succeeded,
		outcome.Error,
		outcome.StartedAt.UnixNano(),
		outcome.Duration.Milliseconds(),
	)
	return err
}

// Recent returns up to limit outcomes, newest first.
func (d *SqliteHistory) Recent(ctx context.Context, limit int) ([]importing.DispatchOutcome, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT id, path, action, is_directory, skipped, skip_reason, succeeded, error, started_at, duration_ms
		FROM dispatches
		ORDER BY started_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	outcomes := make([]importing.DispatchOutcome, 0, limit)
	for rows.Next() {
		var (
			o          importing.DispatchOutcome
			action     string
			skipReason sql.NullString
			errMsg     sql.NullString
			startedAt  int64
			durationMS int64
		)
		if err := rows.Scan(&o.ID, &o.Path, &action, &o.IsDirectory, &o.Skipped, &skipReason, &o.Succeeded, &errMsg, &startedAt, &durationMS); err != nil {
			return nil, err
		}
		o.Action = importing.ActionKind(action)
		o.SkipReason = skipReason.String
		o.Error = errMsg.String
		if o.Error != "" {
			o.Err = errors.New(o.Error)
		}
		o.StartedAt = time.Unix(0, startedAt)
		o.Duration = time.Duration(durationMS) * time.Millisecond
		outcomes = append(outcomes, o)
	}
	return outcomes, rows.Err()
}

// Close closes the database.
func (d *SqliteHistory) Close() error {
	return d.db.Close()
}
