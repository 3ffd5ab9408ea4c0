package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	_ "modernc.org/sqlite"

	"postsweep/internal/config"
	"postsweep/internal/ratelimit"
)

// Store keeps run history in SQLite: one row per pipeline run, one row per
// resolved item. It backs the status command and is strictly observational;
// resume state lives in the checkpoint, never here.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the journal database and applies the schema.
func Open(cfg *config.Config) (*Store, error) {
	dbPath := cfg.Journal.Path
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("ensure journal directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.applySchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) applySchema(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS runs (
    id            TEXT PRIMARY KEY,
    archive       TEXT NOT NULL,
    cutoff        TEXT NOT NULL,
    direction     TEXT NOT NULL,
    started_at    TEXT NOT NULL,
    finished_at   TEXT,
    outcome       TEXT,
    error_message TEXT,
    deleted       INTEGER NOT NULL DEFAULT 0,
    skipped       INTEGER NOT NULL DEFAULT 0,
    remaining     INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS resolutions (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id      TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
    post_id     TEXT NOT NULL,
    outcome     TEXT NOT NULL,
    attempts    INTEGER NOT NULL,
    resolved_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_resolutions_run ON resolutions(run_id);
`
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("apply journal schema: %w", err)
	}
	return nil
}

// StartRun inserts the run row at pipeline start.
func (s *Store) StartRun(ctx context.Context, runID, archivePath, cutoff, direction string) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, archive, cutoff, direction, started_at) VALUES (?, ?, ?, ?, ?)`,
		runID, archivePath, cutoff, direction, now,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// FinishRun records the terminal state of a run.
func (s *Store) FinishRun(ctx context.Context, runID, outcome, errorMessage string, deleted, skipped, remaining int) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := s.db.ExecContext(ctx,
		`UPDATE runs
         SET finished_at = ?, outcome = ?, error_message = ?, deleted = ?, skipped = ?, remaining = ?
         WHERE id = ?`,
		now, outcome, nullableString(errorMessage), deleted, skipped, remaining, runID,
	)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	return nil
}

// RunRecorder binds resolutions to one run. It satisfies the pipeline's
// Recorder contract.
type RunRecorder struct {
	store *Store
	runID string
}

// Recorder returns a per-run recorder for the pipeline driver.
func (s *Store) Recorder(runID string) *RunRecorder {
	return &RunRecorder{store: s, runID: runID}
}

// RecordItem persists one resolved item.
func (r *RunRecorder) RecordItem(ctx context.Context, id uint64, outcome ratelimit.Outcome, attempts int) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := r.store.db.ExecContext(ctx,
		`INSERT INTO resolutions (run_id, post_id, outcome, attempts, resolved_at) VALUES (?, ?, ?, ?, ?)`,
		r.runID, strconv.FormatUint(id, 10), string(outcome), attempts, now,
	)
	if err != nil {
		return fmt.Errorf("insert resolution: %w", err)
	}
	return nil
}

// RunSummary is one row of run history for the status command.
type RunSummary struct {
	ID         string
	Archive    string
	Cutoff     string
	Direction  string
	StartedAt  time.Time
	FinishedAt *time.Time
	Outcome    string
	Error      string
	Deleted    int
	Skipped    int
	Remaining  int
}

// RecentRuns returns up to limit runs, newest first.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, archive, cutoff, direction, started_at, finished_at, outcome, error_message, deleted, skipped, remaining
         FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []RunSummary
	for rows.Next() {
		var (
			run        RunSummary
			startedAt  string
			finishedAt sql.NullString
			outcome    sql.NullString
			errMsg     sql.NullString
		)
		if err := rows.Scan(&run.ID, &run.Archive, &run.Cutoff, &run.Direction, &startedAt,
			&finishedAt, &outcome, &errMsg, &run.Deleted, &run.Skipped, &run.Remaining); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if run.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt); err != nil {
			return nil, fmt.Errorf("parse started_at: %w", err)
		}
		if finishedAt.Valid {
			parsed, err := time.Parse(time.RFC3339Nano, finishedAt.String)
			if err != nil {
				return nil, fmt.Errorf("parse finished_at: %w", err)
			}
			run.FinishedAt = &parsed
		}
		run.Outcome = outcome.String
		run.Error = errMsg.String
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// ResolutionCount reports how many items a run resolved, for tests and
// status detail.
func (s *Store) ResolutionCount(ctx context.Context, runID string) (int, error) {
	row := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM resolutions WHERE run_id = ?`, runID)
	var count int
	if err := row.Scan(&count); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("count resolutions: %w", err)
	}
	return count, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
