package planner

import (
	"errors"
	"fmt"

	"github.com/okian/fantrip/internal/domain/formulation"
	"github.com/okian/fantrip/internal/domain/model"
	"github.com/okian/fantrip/internal/domain/search"
)

// Sentinel kinds for planner errors.
var (
	ErrUnknownTeam = errors.New("unknown team")
	ErrNilDataset  = errors.New("nil dataset")
)

// TeamError attaches the team identity to a planning failure.
type TeamError struct {
	TeamID   string
	TeamName string
	Err      error
}

func (e *TeamError) Error() string {
	if e.TeamName == "" {
		return fmt.Sprintf("team %s: %v", e.TeamID, e.Err)
	}
	return fmt.Sprintf("team %s (%s): %v", e.TeamName, e.TeamID, e.Err)
}

func (e *TeamError) Unwrap() error { return e.Err }

// Status classifies a Plan error. A nil error is a solved plan.
func Status(err error) model.OutcomeStatus {
	switch {
	case err == nil:
		return model.StatusSolved
	case errors.Is(err, search.ErrInfeasible), errors.Is(err, formulation.ErrNoTargets):
		return model.StatusInfeasible
	default:
		return model.StatusFailed
	}
}
