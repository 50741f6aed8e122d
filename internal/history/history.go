// Copyright Fernando Simich, 2026. All rights reserved.

// Package history keeps a local SQLite log of conversion runs: which file
// was converted, where the workbook went, and what correction factor was
// applied. Project records themselves are never persisted.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const dbFile = "mppexport.db"

// Run is one recorded conversion.
type Run struct {
	ID            int64  `json:"id"`
	SourcePath    string `json:"source_path"`
	OutputPath    string `json:"output_path"`
	TaskCount     int    `json:"task_count"`
	ResourceCount int    `json:"resource_count"`

	// Factor is nil when the run did not apply correction.
	Factor *float64 `json:"factor,omitempty"`

	FinishedAt time.Time `json:"finished_at"`
}

// Store manages the run log database.
type Store struct {
	db *sql.DB
}

// DefaultPath places the run log under the user config directory.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return dbFile
	}
	return filepath.Join(dir, "mppexport", dbFile)
}

// Open opens or creates the run log at path, creating the schema when
// missing.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating history schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		source_path TEXT NOT NULL,
		output_path TEXT NOT NULL,
		task_count INTEGER NOT NULL,
		resource_count INTEGER NOT NULL,
		factor REAL,
		finished_at TEXT NOT NULL
	)`)
	if err != nil {
		return fmt.Errorf("executing schema statement: %w", err)
	}
	return nil
}

// Record inserts one finished run.
func (s *Store) Record(ctx context.Context, run Run) error {
	finished := run.FinishedAt
	if finished.IsZero() {
		finished = time.Now().UTC()
	}
	var factor sql.NullFloat64
	if run.Factor != nil {
		factor = sql.NullFloat64{Float64: *run.Factor, Valid: true}
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (source_path, output_path, task_count, resource_count, factor, finished_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		run.SourcePath, run.OutputPath, run.TaskCount, run.ResourceCount,
		factor, finished.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("recording run: %w", err)
	}
	return nil
}

// List returns the most recent runs, newest first. A non-positive limit
// returns the default of 20.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, source_path, output_path, task_count, resource_count, factor, finished_at
		 FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var factor sql.NullFloat64
		var finished string
		if err := rows.Scan(&r.ID, &r.SourcePath, &r.OutputPath, &r.TaskCount,
			&r.ResourceCount, &factor, &finished); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		if factor.Valid {
			f := factor.Float64
			r.Factor = &f
		}
		if t, err := time.Parse(time.RFC3339, finished); err == nil {
			r.FinishedAt = t
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Prune deletes runs finished before cutoff and returns how many went.
func (s *Store) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM runs WHERE finished_at < ?`, cutoff.UTC().Format(time.RFC3339))
	if err != nil {
		return 0, fmt.Errorf("pruning runs: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting pruned runs: %w", err)
	}
	return n, nil
}
