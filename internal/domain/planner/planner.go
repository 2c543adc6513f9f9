// Package planner plans the cheapest road trip for the fans of one team:
// see every opponent at home at least once while following the team on the
// road, driving as few hours per day as possible.
//
// The daily cap is found with the trip duration objective and then reused
// to optimize driving distance and driving duration.
package planner

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/fantrip/internal/domain/costmatrix"
	"github.com/okian/fantrip/internal/domain/feasibility"
	"github.com/okian/fantrip/internal/domain/formulation"
	"github.com/okian/fantrip/internal/domain/itinerary"
	"github.com/okian/fantrip/internal/domain/milp"
	"github.com/okian/fantrip/internal/domain/model"
	"github.com/okian/fantrip/internal/domain/search"
	"github.com/okian/fantrip/pkg/logger"
	"github.com/okian/fantrip/pkg/metrics"
)

// Planner runs the per-team pipeline against a solver. It holds no
// per-team state and is safe for concurrent use when its solver is.
type Planner struct {
	solver     milp.Solver
	rule       feasibility.Rule
	exclusions Exclusions
	minHours   int
	maxHours   int
	logger     logger.Logger
}

// TeamPlan is the result for one team.
type TeamPlan struct {
	Team        model.Team
	Hours       int
	Calls       int
	Itineraries map[model.Measure]itinerary.Itinerary
}

// Objectives returns the objective value per measure.
func (tp *TeamPlan) Objectives() map[model.Measure]float64 {
	out := make(map[model.Measure]float64, len(tp.Itineraries))
	for m, it := range tp.Itineraries {
		out[m] = it.Objective
	}
	return out
}

// New creates a Planner.
func New(solver milp.Solver, opts ...Option) *Planner {
	p := &Planner{
		solver:     solver,
		rule:       feasibility.NewRule(),
		exclusions: Exclusions{},
		minHours:   search.DefaultMinHours,
		maxHours:   search.DefaultMaxHours,
		logger:     logger.Get().Named("planner"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Plan computes the three itineraries of a team. Every error is a
// *TeamError; use Status to classify it.
func (p *Planner) Plan(ctx context.Context, ds *model.Dataset, teamID string) (*TeamPlan, error) {
	if ds == nil {
		return nil, &TeamError{TeamID: teamID, Err: ErrNilDataset}
	}
	team, ok := ds.Team(teamID)
	if !ok {
		return nil, &TeamError{TeamID: teamID, Err: ErrUnknownTeam}
	}
	plan, err := p.plan(ctx, ds, team)
	if err != nil {
		return nil, &TeamError{TeamID: team.ID, TeamName: team.Name, Err: err}
	}
	return plan, nil
}

func (p *Planner) plan(ctx context.Context, ds *model.Dataset, team model.Team) (*TeamPlan, error) {
	log := p.logger.With(logger.String("team", team.ID))

	events := ds.AwayEvents(team.ID)
	targets := Targets(ds, team.ID, events, p.exclusions)
	if len(targets) == 0 {
		return nil, formulation.ErrNoTargets
	}

	durations, err := costmatrix.Driving(events, ds.Duration)
	if err != nil {
		return nil, err
	}
	costs := make(map[model.Measure]costmatrix.Matrix, len(model.Measures))
	for _, m := range model.Measures {
		if m == model.DrivingDuration {
			costs[m] = durations
			continue
		}
		if costs[m], err = costmatrix.Build(m, events, ds, p.rule.Location); err != nil {
			return nil, err
		}
	}

	base := formulation.Input{
		Events:    events,
		Durations: durations,
		Matchups:  costmatrix.BuildMatchups(events),
		Targets:   targets,
		Rule:      p.rule,
	}
	log.Debug(ctx, "planning",
		logger.Int("events", len(events)),
		logger.Int("targets", len(targets)))

	// The search keeps the problem of every optimal attempt so the winning
	// one can be read back without formulating it again.
	problems := make(map[int]*formulation.Problem)
	attempt := func(ctx context.Context, hours int) (milp.Solution, error) {
		prob, sol, err := p.solve(ctx, model.TripDuration, base, costs[model.TripDuration], hours)
		if err != nil {
			return milp.Solution{}, err
		}
		if sol.Optimal() {
			problems[hours] = prob
		}
		return sol, nil
	}
	res, err := search.MinimalHours(ctx, p.minHours, p.maxHours, attempt)
	if err != nil {
		return nil, err
	}

	plan := &TeamPlan{
		Team:        team,
		Hours:       res.Hours,
		Calls:       res.Calls,
		Itineraries: make(map[model.Measure]itinerary.Itinerary, len(model.Measures)),
	}
	check := itinerary.Check{
		Events:    indexEvents(events),
		Durations: durations,
		Rule:      p.rule,
		Targets:   targets,
	}
	for _, m := range model.Measures {
		prob, sol := problems[res.Hours], res.Solution
		if m != model.TripDuration {
			prob, sol, err = p.solve(ctx, m, base, costs[m], res.Hours)
			if err != nil {
				return nil, err
			}
			plan.Calls++
		}
		it, err := itinerary.Extract(prob, sol)
		if err != nil {
			return nil, fmt.Errorf("%s at %d hours: %w", m, res.Hours, err)
		}
		if err := itinerary.Verify(it, check); err != nil {
			return nil, fmt.Errorf("%s at %d hours: %w", m, res.Hours, err)
		}
		plan.Itineraries[m] = it
	}

	log.Info(ctx, "trip planned",
		logger.Int("hours", plan.Hours),
		logger.Int("solver_calls", plan.Calls),
		logger.Int("events", len(plan.Itineraries[model.TripDuration].EventIDs)))
	return plan, nil
}

func (p *Planner) solve(
	ctx context.Context, m model.Measure, base formulation.Input, costs costmatrix.Matrix, hours int,
) (*formulation.Problem, milp.Solution, error) {
	in := base
	in.Costs = costs
	in.Hours = hours
	prob, err := formulation.Formulate(in)
	if err != nil {
		return nil, milp.Solution{}, err
	}

	start := time.Now()
	sol, err := p.solver.Solve(ctx, prob.Model)
	latency := float64(time.Since(start).Milliseconds())
	if err != nil {
		metrics.RecordSolve(string(m), "error", latency)
		metrics.RecordErrorByComponent("solver", string(m))
		return nil, milp.Solution{}, fmt.Errorf("solve %s at %d hours: %w", m, hours, err)
	}
	metrics.RecordSolve(string(m), sol.Status.String(), latency)
	return prob, sol, nil
}

func indexEvents(events []model.Event) map[string]model.Event {
	out := make(map[string]model.Event, len(events))
	for _, e := range events {
		out[e.ID] = e
	}
	return out
}
