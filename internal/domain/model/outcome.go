package model

import "time"

// OutcomeStatus summarizes how planning went for one team.
type OutcomeStatus string

// Outcome statuses.
const (
	StatusSolved     OutcomeStatus = "solved"
	StatusInfeasible OutcomeStatus = "infeasible"
	StatusFailed     OutcomeStatus = "failed"
)

// Task asks a worker to plan the trip of one team.
type Task struct {
	ID     string
	TeamID string
}

// TeamOutcome is the result of one task.
type TeamOutcome struct {
	TeamID     string
	TeamName   string
	Status     OutcomeStatus
	Hours      int
	Objectives map[Measure]float64
	Err        error
	Elapsed    time.Duration
}

// Run describes one invocation of the planner over a dataset.
type Run struct {
	ID        string
	StartedAt time.Time
	InputDir  string
	OutputDir string
	Elapsed   time.Duration
	Outcomes  []TeamOutcome
}

// Count returns how many outcomes have the status.
func (r *Run) Count(status OutcomeStatus) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == status {
			n++
		}
	}
	return n
}

// OK reports whether every team was solved.
func (r *Run) OK() bool {
	return r.Count(StatusSolved) == len(r.Outcomes)
}
