// Package history records completed pipeline runs in SQLite so batch and
// watch sessions leave a durable record of what was processed with which
// operator and how long it took.
package history

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/kailinx/edgeunity/internal/errors"
)

// Run is one recorded pipeline invocation.
type Run struct {
	ID         string
	Operator   string
	InputPath  string
	OutputPath string
	Height     int
	Width      int
	Workers    int
	Duration   time.Duration
	Outcome    string // success | failed
	CreatedAt  time.Time
}

// Store persists pipeline runs.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// Open creates a run store at dbPath. Use ":memory:" for an in-memory
// database, or a file path for persistent storage.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, errors.HistoryError("open", err)
	}

	store := &Store{db: db}
	if err := store.initialize(); err != nil {
		_ = db.Close()
		return nil, errors.HistoryError("initialize", err)
	}
	return store, nil
}

func (s *Store) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		operator TEXT NOT NULL,
		input_path TEXT NOT NULL,
		output_path TEXT NOT NULL,
		height INTEGER NOT NULL,
		width INTEGER NOT NULL,
		workers INTEGER NOT NULL,
		duration_ms INTEGER NOT NULL,
		outcome TEXT NOT NULL,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at);
	CREATE INDEX IF NOT EXISTS idx_runs_operator ON runs(operator);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Append records one run, assigning it an id when empty.
func (s *Store) Append(ctx context.Context, run Run) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, operator, input_path, output_path, height, width, workers, duration_ms, outcome, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Operator, run.InputPath, run.OutputPath,
		run.Height, run.Width, run.Workers,
		run.Duration.Milliseconds(), run.Outcome, run.CreatedAt.Unix(),
	)
	if err != nil {
		return "", errors.HistoryError("append", err)
	}
	return run.ID, nil
}

// Recent returns up to limit runs, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, operator, input_path, output_path, height, width, workers, duration_ms, outcome, created_at
		 FROM runs ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, errors.HistoryError("query", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var durationMS, createdAt int64
		if err := rows.Scan(&r.ID, &r.Operator, &r.InputPath, &r.OutputPath,
			&r.Height, &r.Width, &r.Workers, &durationMS, &r.Outcome, &createdAt); err != nil {
			return nil, errors.HistoryError("scan", err)
		}
		r.Duration = time.Duration(durationMS) * time.Millisecond
		r.CreatedAt = time.Unix(createdAt, 0)
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.HistoryError("iterate", err)
	}
	return runs, nil
}

// CountByOutcome returns how many recorded runs ended with outcome.
func (s *Store) CountByOutcome(ctx context.Context, outcome string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM runs WHERE outcome = ?`, outcome).Scan(&n)
	if err != nil {
		return 0, errors.HistoryError("count", err)
	}
	return n, nil
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
