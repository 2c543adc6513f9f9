package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/okian/fantrip/internal/domain/model"
)

const historySchema = `
CREATE TABLE IF NOT EXISTS runs (
	id         TEXT PRIMARY KEY,
	started_at TEXT NOT NULL,
	input_dir  TEXT NOT NULL,
	output_dir TEXT NOT NULL,
	elapsed_ms INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS team_outcomes (
	run_id           TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	team_id          TEXT NOT NULL,
	team_name        TEXT NOT NULL,
	status           TEXT NOT NULL,
	hours            INTEGER NOT NULL,
	trip_duration    REAL,
	driving_distance REAL,
	driving_duration REAL,
	error            TEXT NOT NULL DEFAULT '',
	elapsed_ms       INTEGER NOT NULL,
	PRIMARY KEY (run_id, team_id)
);

CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);
`

// History is a SQLite-backed RunStore.
type History struct {
	db   *sql.DB
	path string
}

var _ RunStore = (*History)(nil)

// OpenHistory opens or creates the history database at path.
func OpenHistory(ctx context.Context, path string) (*History, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("create history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	// One connection keeps pragmas and in-memory databases consistent.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("set pragma %s: %w", pragma, err)
		}
	}
	if _, err := db.ExecContext(ctx, historySchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create history schema: %w", err)
	}
	return &History{db: db, path: path}, nil
}

// Path returns the database file path.
func (h *History) Path() string { return h.path }

// startedAtLayout is fixed width so started_at sorts chronologically as text.
const startedAtLayout = "2006-01-02T15:04:05.000000000Z07:00"

// RecordRun stores the run and its outcomes in one transaction.
func (h *History) RecordRun(ctx context.Context, run *model.Run) (err error) {
	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, started_at, input_dir, output_dir, elapsed_ms) VALUES (?, ?, ?, ?, ?)`,
		run.ID, run.StartedAt.UTC().Format(startedAtLayout), run.InputDir, run.OutputDir, run.Elapsed.Milliseconds(),
	); err != nil {
		return fmt.Errorf("insert run %s: %w", run.ID, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO team_outcomes
			(run_id, team_id, team_name, status, hours, trip_duration, driving_distance, driving_duration, error, elapsed_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare outcome insert: %w", err)
	}
	defer stmt.Close()

	for _, o := range run.Outcomes {
		var msg string
		if o.Err != nil {
			msg = o.Err.Error()
		}
		if _, err = stmt.ExecContext(ctx,
			run.ID, o.TeamID, o.TeamName, string(o.Status), o.Hours,
			objective(o, model.TripDuration), objective(o, model.DrivingDistance), objective(o, model.DrivingDuration),
			msg, o.Elapsed.Milliseconds(),
		); err != nil {
			return fmt.Errorf("insert outcome %s: %w", o.TeamID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func objective(o model.TeamOutcome, m model.Measure) sql.NullFloat64 {
	v, ok := o.Objectives[m]
	return sql.NullFloat64{Float64: v, Valid: ok}
}

// Runs lists stored runs, newest first. A limit below one returns every run.
func (h *History) Runs(ctx context.Context, limit int) ([]model.Run, error) {
	query := `SELECT id, started_at, input_dir, output_dir, elapsed_ms FROM runs ORDER BY started_at DESC, id`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := h.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []model.Run
	for rows.Next() {
		var (
			r         model.Run
			startedAt string
			elapsedMs int64
		)
		if err := rows.Scan(&r.ID, &startedAt, &r.InputDir, &r.OutputDir, &elapsedMs); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if r.StartedAt, err = time.Parse(startedAtLayout, startedAt); err != nil {
			return nil, fmt.Errorf("parse started_at of run %s: %w", r.ID, err)
		}
		r.Elapsed = time.Duration(elapsedMs) * time.Millisecond
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Outcomes returns the outcomes of a run in team id order.
func (h *History) Outcomes(ctx context.Context, runID string) ([]model.TeamOutcome, error) {
	var exists int
	err := h.db.QueryRowContext(ctx, `SELECT 1 FROM runs WHERE id = ?`, runID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	if err != nil {
		return nil, fmt.Errorf("query run %s: %w", runID, err)
	}

	rows, err := h.db.QueryContext(ctx, `
		SELECT team_id, team_name, status, hours, trip_duration, driving_distance, driving_duration, error, elapsed_ms
		FROM team_outcomes WHERE run_id = ? ORDER BY team_id`, runID)
	if err != nil {
		return nil, fmt.Errorf("query outcomes of %s: %w", runID, err)
	}
	defer rows.Close()

	var out []model.TeamOutcome
	for rows.Next() {
		var (
			o          model.TeamOutcome
			status     string
			objectives [3]sql.NullFloat64
			msg        string
			elapsedMs  int64
		)
		if err := rows.Scan(&o.TeamID, &o.TeamName, &status, &o.Hours,
			&objectives[0], &objectives[1], &objectives[2], &msg, &elapsedMs); err != nil {
			return nil, fmt.Errorf("scan outcome: %w", err)
		}
		o.Status = model.OutcomeStatus(status)
		o.Elapsed = time.Duration(elapsedMs) * time.Millisecond
		if msg != "" {
			o.Err = errors.New(msg)
		}
		for i, m := range model.Measures {
			if objectives[i].Valid {
				if o.Objectives == nil {
					o.Objectives = make(map[model.Measure]float64, len(model.Measures))
				}
				o.Objectives[m] = objectives[i].Float64
			}
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// Close closes the database.
func (h *History) Close() error {
	return h.db.Close()
}
