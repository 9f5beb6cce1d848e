package pedometer

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// MotionStore reads the on-device motion-history database: a SQLite file of
// step samples written by the platform's motion daemon. It is the local
// analogue of a HealthKit step query and backs the "HealthKit" source kind.
type MotionStore struct {
	db *sql.DB
}

const motionSchema = `
CREATE TABLE IF NOT EXISTS step_samples (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	recorded_at INTEGER NOT NULL,
	steps       INTEGER NOT NULL CHECK (steps >= 0)
);
CREATE INDEX IF NOT EXISTS idx_step_samples_recorded_at ON step_samples (recorded_at);
`

// OpenMotionStore opens the sample database at path, creating the schema if
// it does not exist yet. ":memory:" opens a throwaway in-memory store.
func OpenMotionStore(path string) (*MotionStore, error) {
	dsn := path
	if path != ":memory:" {
		dsn = filepath.Clean(path) + "?_journal_mode=WAL&_busy_timeout=5000"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open motion db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping motion db: %w", err)
	}
	if _, err := db.Exec(motionSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init motion schema: %w", err)
	}
	return &MotionStore{db: db}, nil
}

// Close releases the SQLite handle.
func (s *MotionStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// StepCount sums samples recorded in [interval.Start, interval.End).
// An interval covering no samples at all reports ErrNoData so callers can
// tell "no history" apart from a genuinely idle stretch.
func (s *MotionStore) StepCount(ctx context.Context, interval Interval) (int, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(steps), 0), COUNT(*) FROM step_samples WHERE recorded_at >= ? AND recorded_at < ?`,
		interval.Start.UTC().Unix(), interval.End.UTC().Unix())

	var total, count int
	if err := row.Scan(&total, &count); err != nil {
		return 0, fmt.Errorf("query step samples: %w", err)
	}
	if count == 0 {
		return 0, ErrNoData
	}
	return total, nil
}

// AddSample records a step sample. The agent itself never writes samples in
// production; this exists for the motion daemon's ingest path and for tests.
func (s *MotionStore) AddSample(ctx context.Context, recordedAt time.Time, steps int) error {
	if steps < 0 {
		return fmt.Errorf("negative step sample: %d", steps)
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO step_samples (recorded_at, steps) VALUES (?, ?)`,
		recordedAt.UTC().Unix(), steps)
	if err != nil {
		return fmt.Errorf("insert step sample: %w", err)
	}
	return nil
}
