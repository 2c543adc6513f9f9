// Package service wires the planner pipeline for one run: load the input,
// queue one task per team, plan them on a worker pool, persist the results
// and report every team's outcome.
package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/okian/fantrip/internal/adapters/milp/glpk"
	"github.com/okian/fantrip/internal/adapters/mq/queue"
	"github.com/okian/fantrip/internal/adapters/mq/worker"
	"github.com/okian/fantrip/internal/adapters/repository"
	"github.com/okian/fantrip/internal/config"
	"github.com/okian/fantrip/internal/domain/feasibility"
	"github.com/okian/fantrip/internal/domain/milp"
	"github.com/okian/fantrip/internal/domain/model"
	"github.com/okian/fantrip/internal/domain/planner"
	"github.com/okian/fantrip/pkg/logger"
	"github.com/okian/fantrip/pkg/metrics"
)

const enqueueBackoff = time.Millisecond

// Service runs the planner over input directories.
type Service struct {
	workerCount int
	queueSize   int
	solver      milp.Solver
	plannerOpts []planner.Option
	history     repository.RunStore
	metricsFile string
	runID       func() string

	logger logger.Logger
}

// New constructs a Service. Without WithSolver it solves with GLPK.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount: runtime.NumCPU(),
		runID:       uuid.NewString,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.solver == nil {
		s.solver = glpk.New()
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	return s
}

// FromConfig builds a Service from configuration. Extra options are applied
// after the configured ones.
func FromConfig(ctx context.Context, cfg *config.Config, opts ...Option) (*Service, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	rule := feasibility.NewRule(
		feasibility.WithLocation(loc),
		feasibility.WithEventLength(cfg.EventLength()),
		feasibility.WithBuffer(cfg.Buffer()),
	)

	base := []Option{
		WithWorkerCount(cfg.WorkerCount),
		WithQueueSize(cfg.QueueSize),
		WithSolver(glpk.New(glpk.WithSerialized(cfg.SolverSerialize))),
		WithPlannerOptions(
			planner.WithRule(rule),
			planner.WithExclusions(planner.NewExclusions(cfg.Exclusions)),
			planner.WithHoursRange(cfg.MinDrivingHours, cfg.MaxDrivingHours),
		),
		WithMetricsFile(cfg.MetricsFile),
	}
	if cfg.HistoryDB != "" {
		h, err := repository.OpenHistory(ctx, cfg.HistoryDB)
		if err != nil {
			return nil, err
		}
		base = append(base, WithHistory(h))
	}
	return New(append(base, opts...)...), nil
}

// Run plans every team of the dataset in inputDir and writes the results
// under outputDir. Input problems are returned as errors before any team is
// planned; per-team problems only show up in the returned run. A cancelled
// run returns the partial run together with the context error.
func (s *Service) Run(ctx context.Context, inputDir, outputDir string) (*model.Run, error) {
	run := &model.Run{
		ID:        s.runID(),
		StartedAt: time.Now().UTC(),
		InputDir:  inputDir,
		OutputDir: outputDir,
	}
	log := s.logger.With(logger.String("run_id", run.ID))

	ds, err := repository.LoadDataset(ctx, inputDir)
	if err != nil {
		return nil, fmt.Errorf("load input: %w", err)
	}
	writer, err := repository.NewResultWriter(outputDir)
	if err != nil {
		return nil, err
	}
	log.Info(ctx, "run started",
		logger.String("input", inputDir),
		logger.String("output", outputDir),
		logger.Int("teams", len(ds.Teams)),
		logger.Int("events", len(ds.Events)),
		logger.Int("workers", s.workerCount))

	capacity := s.queueSize
	if capacity == 0 {
		capacity = len(ds.Teams)
	}
	q := queue.NewInMemoryQueue(queue.WithCapacity(capacity))
	go s.produce(ctx, q, run.ID, ds.Teams)

	p := planner.New(s.solver, s.plannerOpts...)
	pool := worker.NewPool(s.workerCount, q, p, writer, ds)
	run.Outcomes = order(ds.Teams, pool.Run(ctx), ctx.Err())
	run.Elapsed = time.Since(run.StartedAt)

	for _, o := range run.Outcomes {
		fields := []logger.Field{
			logger.String("team", o.TeamName),
			logger.String("status", string(o.Status)),
			logger.Duration("elapsed", o.Elapsed),
		}
		if o.Status == model.StatusSolved {
			fields = append(fields, logger.Int("hours", o.Hours))
		} else if o.Err != nil {
			fields = append(fields, logger.Error(o.Err))
		}
		log.Info(ctx, "team outcome", fields...)
	}
	log.Info(ctx, "run finished",
		logger.Int("solved", run.Count(model.StatusSolved)),
		logger.Int("infeasible", run.Count(model.StatusInfeasible)),
		logger.Int("failed", run.Count(model.StatusFailed)),
		logger.Duration("elapsed", run.Elapsed))

	s.persist(context.WithoutCancel(ctx), log, run)
	if err := ctx.Err(); err != nil {
		return run, fmt.Errorf("run %s interrupted: %w", run.ID, err)
	}
	return run, nil
}

// produce feeds the queue and closes it. The queue may be smaller than the
// team list, in which case it waits for workers to make room.
func (s *Service) produce(ctx context.Context, q *queue.InMemoryQueue, runID string, teams []model.Team) {
	defer func() { _ = q.Close() }()
	for i, t := range teams {
		task := model.Task{ID: runID + "-" + strconv.Itoa(i), TeamID: t.ID}
		for !q.Enqueue(ctx, task) {
			select {
			case <-ctx.Done():
				return
			case <-time.After(enqueueBackoff):
			}
		}
	}
}

// order returns one outcome per team in dataset order. Teams that never
// ran, because the run was cancelled, are reported as failed.
func order(teams []model.Team, outcomes []model.TeamOutcome, cause error) []model.TeamOutcome {
	byTeam := make(map[string]model.TeamOutcome, len(outcomes))
	for _, o := range outcomes {
		byTeam[o.TeamID] = o
	}
	if cause == nil {
		cause = errors.New("task did not run")
	}
	out := make([]model.TeamOutcome, 0, len(teams))
	for _, t := range teams {
		o, ok := byTeam[t.ID]
		if !ok {
			o = model.TeamOutcome{TeamID: t.ID, TeamName: t.Name, Status: model.StatusFailed, Err: cause}
			metrics.RecordTeamOutcome(string(o.Status), 0)
		}
		out = append(out, o)
	}
	return out
}

func (s *Service) persist(ctx context.Context, log logger.Logger, run *model.Run) {
	if s.history != nil {
		if err := s.history.RecordRun(ctx, run); err != nil {
			metrics.RecordErrorByComponent("history", "record")
			log.Error(ctx, "recording run history failed", logger.Error(err))
		}
	}
	if s.metricsFile != "" {
		if err := metrics.WriteTextfile(s.metricsFile); err != nil {
			log.Error(ctx, "writing metrics file failed", logger.Error(err))
		}
	}
}

// Close releases the run history.
func (s *Service) Close() error {
	if s.history == nil {
		return nil
	}
	return s.history.Close()
}
