package worker

import (
	"github.com/okian/fantrip/internal/domain/model"
	"github.com/okian/fantrip/pkg/logger"
)

// Option applies a configuration option to the InMemoryWorker.
type Option func(*InMemoryWorker)

// WithName sets the worker name for identification and logging.
func WithName(name string) Option {
	return func(w *InMemoryWorker) {
		if name != "" {
			w.name = name
		}
	}
}

// WithLogger sets a custom logger for the worker.
func WithLogger(logger logger.Logger) Option {
	return func(w *InMemoryWorker) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// WithReporter sets the callback every task outcome is handed to. It may be
// called from several workers at once.
func WithReporter(report func(model.TeamOutcome)) Option {
	return func(w *InMemoryWorker) {
		if report != nil {
			w.report = report
		}
	}
}
