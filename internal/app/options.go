package service

import (
	"github.com/okian/fantrip/internal/adapters/repository"
	"github.com/okian/fantrip/internal/domain/milp"
	"github.com/okian/fantrip/internal/domain/planner"
	"github.com/okian/fantrip/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of teams planned concurrently.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize bounds the task queue. Zero sizes it to the team count.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithSolver sets the MILP backend.
func WithSolver(solver milp.Solver) Option {
	return func(s *Service) {
		if solver != nil {
			s.solver = solver
		}
	}
}

// WithPlannerOptions passes options through to the planner.
func WithPlannerOptions(opts ...planner.Option) Option {
	return func(s *Service) {
		s.plannerOpts = append(s.plannerOpts, opts...)
	}
}

// WithHistory records every run in store. The service closes it.
func WithHistory(store repository.RunStore) Option {
	return func(s *Service) {
		s.history = store
	}
}

// WithMetricsFile dumps the Prometheus registry to path after each run.
func WithMetricsFile(path string) Option {
	return func(s *Service) {
		s.metricsFile = path
	}
}

// WithRunID overrides how run ids are generated.
func WithRunID(next func() string) Option {
	return func(s *Service) {
		if next != nil {
			s.runID = next
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}
