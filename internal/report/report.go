// Package report keeps batch acceptance runs and their cases in SQLite, so
// that regressions can be compared across runs.
package report

import (
	"context"
	"database/sql"
	"math/rand"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/pkg/errors"
	_ "modernc.org/sqlite"
)

// Run is one batch invocation.
type Run struct {
	ID         string
	Lang       string
	StartedAt  time.Time
	FinishedAt time.Time
	Total      int
	Passed     int
}

// Case is one record of a batch run.
type Case struct {
	RunID    string
	Source   string
	Line     int
	Query    string
	Base     string
	Markup   string
	Expected string
	Got      string
	Passed   bool
}

type Store struct {
	db      *sql.DB
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

// Open opens or creates the report database at dbPath.
func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, errors.Wrap(err, "create report dir")
	}
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)")
	if err != nil {
		return nil, errors.Wrap(err, "open report db")
	}
	s := &Store{
		db:      db,
		entropy: ulid.Monotonic(
			rand.New(rand.NewSource(time.Now().UnixNano())), 0),
	}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "migrate report db")
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) newID(t time.Time) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(t), s.entropy).String()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id          TEXT PRIMARY KEY,
		lang        TEXT NOT NULL,
		started_at  TEXT NOT NULL,
		finished_at TEXT,
		total       INTEGER NOT NULL DEFAULT 0,
		passed      INTEGER NOT NULL DEFAULT 0
	);
	CREATE TABLE IF NOT EXISTS cases (
		run_id   TEXT NOT NULL REFERENCES runs(id),
		source   TEXT NOT NULL,
		line     INTEGER NOT NULL,
		query    TEXT NOT NULL,
		base     TEXT NOT NULL,
		markup   TEXT NOT NULL,
		expected TEXT NOT NULL,
		got      TEXT NOT NULL,
		passed   INTEGER NOT NULL,
		PRIMARY KEY (run_id, source, line)
	);
	CREATE INDEX IF NOT EXISTS idx_cases_failed ON cases(run_id, passed);
	`
	_, err := s.db.Exec(schema)
	return err
}

// StartRun records the start of a run and returns it.
func (s *Store) StartRun(ctx context.Context, lang string) (*Run, error) {
	now := time.Now().UTC()
	run := &Run{ID: s.newID(now), Lang: lang, StartedAt: now}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, lang, started_at) VALUES (?, ?, ?)`,
		run.ID, run.Lang, now.Format(time.RFC3339Nano))
	if err != nil {
		return nil, errors.Wrap(err, "insert run")
	}
	return run, nil
}

// AddCase records one case of a run.
func (s *Store) AddCase(ctx context.Context, c Case) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO cases
		 (run_id, source, line, query, base, markup, expected, got, passed)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.RunID, c.Source, c.Line, c.Query, c.Base, c.Markup, c.Expected,
		c.Got, c.Passed)
	return errors.Wrapf(err, "insert case %s:%d", c.Source, c.Line)
}

// FinishRun stores the totals of a run.
func (s *Store) FinishRun(ctx context.Context, run *Run) error {
	run.FinishedAt = time.Now().UTC()
	_, err := s.db.ExecContext(ctx,
		`UPDATE runs SET finished_at = ?, total = ?, passed = ? WHERE id = ?`,
		run.FinishedAt.Format(time.RFC3339Nano), run.Total, run.Passed,
		run.ID)
	return errors.Wrapf(err, "finish run %s", run.ID)
}

// Runs lists the most recent runs first.
func (s *Store) Runs(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, lang, started_at, COALESCE(finished_at, ''), total, passed
		 FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, errors.Wrap(err, "query runs")
	}
	defer rows.Close()
	runs := make([]Run, 0)
	for rows.Next() {
		var run Run
		var started, finished string
		if err := rows.Scan(&run.ID, &run.Lang, &started, &finished,
			&run.Total, &run.Passed); err != nil {
			return nil, errors.Wrap(err, "scan run")
		}
		run.StartedAt, _ = time.Parse(time.RFC3339Nano, started)
		if finished != "" {
			run.FinishedAt, _ = time.Parse(time.RFC3339Nano, finished)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Failures lists the failed cases of a run in input order.
func (s *Store) Failures(ctx context.Context, runID string) ([]Case, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, source, line, query, base, markup, expected, got, passed
		 FROM cases WHERE run_id = ? AND passed = 0 ORDER BY source, line`,
		runID)
	if err != nil {
		return nil, errors.Wrap(err, "query failures")
	}
	defer rows.Close()
	cases := make([]Case, 0)
	for rows.Next() {
		var c Case
		if err := rows.Scan(&c.RunID, &c.Source, &c.Line, &c.Query, &c.Base,
			&c.Markup, &c.Expected, &c.Got, &c.Passed); err != nil {
			return nil, errors.Wrap(err, "scan case")
		}
		cases = append(cases, c)
	}
	return cases, rows.Err()
}
