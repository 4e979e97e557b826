package history

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"rawconvert/internal/batch"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is the current schema version. Bump this when the schema
// changes; old databases are rejected rather than migrated.
const schemaVersion = 2

// ErrSchemaMismatch indicates the database schema version doesn't match the expected version.
var ErrSchemaMismatch = errors.New("schema version mismatch")

// Run is one recorded batch run with its per-job outcomes.
type Run struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	Formats    []string
	Ratio      float64
	Workers    int
	Total      int
	Completed  int
	Failed     int
	Skipped    int
	Stopped    bool
	Jobs       []JobRecord
}

// JobRecord is the persisted terminal state of one job.
type JobRecord struct {
	Position   int
	SourcePath string
	Outcome    batch.Outcome
	Detail     string
	Elapsed    time.Duration
}

// Store persists run history backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the history database.
func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("ensure data directory: %w", err)
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
	if err := store.initSchema(context.Background()); err != nil {
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

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) initSchema(ctx context.Context) error {
	var tableExists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}

	if tableExists == 0 {
		return s.createSchema(ctx)
	}

	var version int
	if err := s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d (delete %s to reset)",
			ErrSchemaMismatch, version, schemaVersion, s.path)
	}
	return nil
}

func (s *Store) createSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	return tx.Commit()
}

// RecordRun persists one run and its job outcomes in a single transaction.
func (s *Store) RecordRun(ctx context.Context, run Run) error {
	if run.ID == "" {
		return errors.New("run id required")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, started_at, finished_at, formats, ratio, workers, total, completed, failed, skipped, stopped)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		run.StartedAt.UTC().Format(time.RFC3339Nano),
		run.FinishedAt.UTC().Format(time.RFC3339Nano),
		strings.Join(run.Formats, "+"),
		run.Ratio,
		run.Workers,
		run.Total,
		run.Completed,
		run.Failed,
		run.Skipped,
		boolToInt(run.Stopped),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for _, job := range run.Jobs {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO run_jobs (run_id, position, source_path, outcome, detail, elapsed_ms)
             VALUES (?, ?, ?, ?, ?, ?)`,
			run.ID,
			job.Position,
			job.SourcePath,
			string(job.Outcome),
			nullableString(job.Detail),
			job.Elapsed.Milliseconds(),
		)
		if err != nil {
			return fmt.Errorf("insert job outcome: %w", err)
		}
	}

	return tx.Commit()
}

// RecentRuns returns up to limit runs, newest first, without job details.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, finished_at, formats, ratio, workers, total, completed, failed, skipped, stopped
         FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			run        Run
			startedAt  string
			finishedAt string
			formats    string
			stopped    int
		)
		if err := rows.Scan(&run.ID, &startedAt, &finishedAt, &formats, &run.Ratio,
			&run.Workers, &run.Total, &run.Completed, &run.Failed, &run.Skipped, &stopped); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if run.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt); err != nil {
			return nil, fmt.Errorf("parse started_at: %w", err)
		}
		if run.FinishedAt, err = time.Parse(time.RFC3339Nano, finishedAt); err != nil {
			return nil, fmt.Errorf("parse finished_at: %w", err)
		}
		if formats != "" {
			run.Formats = strings.Split(formats, "+")
		}
		run.Stopped = stopped != 0
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// JobsForRun returns the per-job outcomes of one run, in position order.
func (s *Store) JobsForRun(ctx context.Context, runID string) ([]JobRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT position, source_path, outcome, detail, elapsed_ms
         FROM run_jobs WHERE run_id = ? ORDER BY position`, runID)
	if err != nil {
		return nil, fmt.Errorf("query run jobs: %w", err)
	}
	defer rows.Close()

	var jobs []JobRecord
	for rows.Next() {
		var (
			job       JobRecord
			outcome   string
			detail    sql.NullString
			elapsedMS int64
		)
		if err := rows.Scan(&job.Position, &job.SourcePath, &outcome, &detail, &elapsedMS); err != nil {
			return nil, fmt.Errorf("scan run job: %w", err)
		}
		job.Outcome = batch.Outcome(outcome)
		job.Detail = detail.String
		job.Elapsed = time.Duration(elapsedMS) * time.Millisecond
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

// Prune deletes all but the newest keep runs. Job rows cascade.
func (s *Store) Prune(ctx context.Context, keep int) error {
	if keep <= 0 {
		return nil
	}
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM runs WHERE id NOT IN (
            SELECT id FROM runs ORDER BY started_at DESC LIMIT ?
         )`, keep)
	if err != nil {
		return fmt.Errorf("prune runs: %w", err)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullableString(value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return value
}
