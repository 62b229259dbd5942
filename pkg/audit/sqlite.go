// Copyright 2026 © The Kairos Authors
// SPDX-License-Identifier: Apache-2.0

package audit

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore persists runs in SQLite. Timestamps are stored as RFC 3339
// text in UTC.
type SQLiteStore struct {
	db    *sql.DB
	owned bool
}

// Open opens (creating if needed) the SQLite database at path.
func Open(path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, errors.New("audit path is empty")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create audit dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open audit db: %w", err)
	}
	store, err := NewSQLiteStore(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	store.owned = true
	return store, nil
}

// NewSQLiteStore wraps an open database and ensures the schema.
func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	if db == nil {
		return nil, errors.New("db is nil")
	}
	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

// Record stores a single run.
func (s *SQLiteStore) Record(ctx context.Context, run Run) error {
	diags, err := encodeDiagnostics(run.Diagnostics)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO validation_runs (
			run_id, dir, network, outcome, agents, skills, diagnostics_json, error_text, started_at, finished_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		run.ID,
		run.Dir,
		run.Network,
		run.Outcome,
		run.Agents,
		run.Skills,
		diags,
		run.Error,
		formatTime(run.StartedAt),
		formatTime(run.FinishedAt),
	)
	return err
}

// List returns runs matching the filter, newest first.
func (s *SQLiteStore) List(ctx context.Context, filter Filter) ([]Run, error) {
	query := `
		SELECT run_id, dir, network, outcome, agents, skills, diagnostics_json, error_text, started_at, finished_at
		FROM validation_runs
	`
	var args []any
	where := ""
	addFilter := func(clause string, value any) {
		if where == "" {
			where = " WHERE " + clause
		} else {
			where += " AND " + clause
		}
		args = append(args, value)
	}
	if filter.Dir != "" {
		addFilter("dir = ?", filter.Dir)
	}
	if filter.Outcome != "" {
		addFilter("outcome = ?", filter.Outcome)
	}
	query += where + " ORDER BY id DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			run       Run
			diagsJSON string
			started   string
			finished  string
		)
		if err := rows.Scan(
			&run.ID,
			&run.Dir,
			&run.Network,
			&run.Outcome,
			&run.Agents,
			&run.Skills,
			&diagsJSON,
			&run.Error,
			&started,
			&finished,
		); err != nil {
			return nil, err
		}
		if run.Diagnostics, err = decodeDiagnostics(diagsJSON); err != nil {
			return nil, fmt.Errorf("run %s: decode diagnostics: %w", run.ID, err)
		}
		run.StartedAt = parseTime(started)
		run.FinishedAt = parseTime(finished)
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return runs, nil
}

// Close closes the database when the store opened it.
func (s *SQLiteStore) Close() error {
	if !s.owned {
		return nil
	}
	return s.db.Close()
}

func formatTime(value time.Time) string {
	if value.IsZero() {
		return ""
	}
	return value.UTC().Format(time.RFC3339Nano)
}

func parseTime(value string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}
	}
	return t
}

func ensureSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS validation_runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL UNIQUE,
			dir TEXT NOT NULL,
			network TEXT NOT NULL DEFAULT '',
			outcome TEXT NOT NULL,
			agents INTEGER NOT NULL DEFAULT 0,
			skills INTEGER NOT NULL DEFAULT 0,
			diagnostics_json TEXT NOT NULL DEFAULT '[]',
			error_text TEXT NOT NULL DEFAULT '',
			started_at TEXT NOT NULL DEFAULT '',
			finished_at TEXT NOT NULL DEFAULT ''
		);
		CREATE INDEX IF NOT EXISTS idx_validation_runs_dir ON validation_runs(dir);
		CREATE INDEX IF NOT EXISTS idx_validation_runs_outcome ON validation_runs(outcome);
	`)
	return err
}
