package repository

import (
	"context"

	"github.com/okian/fantrip/internal/domain/model"
)

// RunStore records runs and their team outcomes.
type RunStore interface {
	// RecordRun stores a finished run with all of its outcomes.
	RecordRun(ctx context.Context, run *model.Run) error

	// Runs lists stored runs, newest first, without their outcomes.
	Runs(ctx context.Context, limit int) ([]model.Run, error)

	// Outcomes returns the outcomes of a run in team id order.
	// Returns ErrRunNotFound if the run is unknown.
	Outcomes(ctx context.Context, runID string) ([]model.TeamOutcome, error)

	// Close releases the store.
	Close() error
}
