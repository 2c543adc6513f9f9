// Package worker runs team planning tasks with per-task failure isolation.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"runtime/debug"
	"strconv"
	"sync"
	"time"

	"github.com/okian/fantrip/internal/adapters/mq/queue"
	"github.com/okian/fantrip/internal/domain/model"
	"github.com/okian/fantrip/internal/domain/planner"
	"github.com/okian/fantrip/pkg/logger"
	"github.com/okian/fantrip/pkg/metrics"
)

// Task abstracts what workers read off the queue.
type Task = queue.Task

// Planner plans the trip of one team.
type Planner interface {
	Plan(ctx context.Context, ds *model.Dataset, teamID string) (*planner.TeamPlan, error)
}

// Sink persists a solved plan.
type Sink interface {
	Save(ctx context.Context, plan *planner.TeamPlan) error
}

// Queue defines how workers receive tasks.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Task
}

// Worker processes tasks and reports one outcome per task.
type Worker interface {
	// Run starts the worker loop until the queue is drained or ctx is canceled.
	Run(ctx context.Context)
}

// InMemoryWorker implements Worker.
type InMemoryWorker struct {
	queue   Queue
	planner Planner
	sink    Sink
	dataset *model.Dataset
	name    string
	report  func(model.TeamOutcome)

	logger logger.Logger
}

// NewInMemoryWorker creates a new worker. A nil sink skips persistence.
func NewInMemoryWorker(q Queue, p Planner, sink Sink, ds *model.Dataset, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:   q,
		planner: p,
		sink:    sink,
		dataset: ds,
		name:    "worker",
		report:  func(model.TeamOutcome) {},
		logger:  logger.Get().Named("worker"),
	}

	for _, opt := range opts {
		opt(w)
	}

	if w.name != "worker" {
		w.logger = w.logger.Named(w.name)
	}

	return w
}

// Run starts the worker loop. Cancelling ctx is the only way to stop it
// before the queue is drained.
func (w *InMemoryWorker) Run(ctx context.Context) {
	taskChan := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case task, ok := <-taskChan:
			if !ok {
				return
			}
			w.report(w.processTask(ctx, task))
		}
	}
}

// processTask plans and persists one team. Errors and panics become the
// outcome of this task only.
func (w *InMemoryWorker) processTask(ctx context.Context, task Task) (out model.TeamOutcome) {
	start := time.Now()
	out = model.TeamOutcome{TeamID: task.TeamID}
	if w.dataset != nil {
		if team, ok := w.dataset.Team(task.TeamID); ok {
			out.TeamName = team.Name
		}
	}

	metrics.WorkerBusy(1)
	defer func() {
		metrics.WorkerBusy(-1)
		if r := recover(); r != nil {
			out.Status = model.StatusFailed
			out.Err = fmt.Errorf("%w: team %s: %v", ErrPanic, task.TeamID, r)
			metrics.RecordErrorByComponent("worker", "panic")
			w.logger.Error(ctx, "task panicked",
				logger.String("team", task.TeamID),
				logger.Any("panic", r),
				logger.String("stack", string(debug.Stack())))
		}
		out.Elapsed = time.Since(start)
		metrics.RecordTeamOutcome(string(out.Status), float64(out.Elapsed.Milliseconds()))
	}()

	plan, err := w.planner.Plan(ctx, w.dataset, task.TeamID)
	if err == nil {
		out.Hours = plan.Hours
		out.Objectives = plan.Objectives()
		if w.sink != nil {
			if serr := w.sink.Save(ctx, plan); serr != nil {
				err = fmt.Errorf("save team %s: %w", task.TeamID, serr)
			}
		}
	}
	out.Status = planner.Status(err)
	out.Err = err

	switch out.Status {
	case model.StatusSolved:
		w.logger.Debug(ctx, "task done",
			logger.String("team", task.TeamID),
			logger.Int("hours", out.Hours))
	case model.StatusInfeasible:
		w.logger.Warn(ctx, "no feasible trip", logger.String("team", task.TeamID), logger.Error(err))
	default:
		metrics.RecordErrorByComponent("worker", "task_failed")
		w.logger.Error(ctx, "task failed", logger.String("team", task.TeamID), logger.Error(err))
	}
	return out
}

// Pool manages multiple workers and gathers their outcomes.
type Pool struct {
	workers []*InMemoryWorker

	mu       sync.Mutex
	outcomes []model.TeamOutcome

	logger logger.Logger
}

// NewPool creates a new worker pool. A workerCount below one uses one
// worker per CPU.
func NewPool(workerCount int, q Queue, p Planner, sink Sink, ds *model.Dataset) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU()
	}

	pool := &Pool{
		workers: make([]*InMemoryWorker, workerCount),
		logger:  logger.Get().Named("worker-pool"),
	}

	for i := 0; i < workerCount; i++ {
		pool.workers[i] = NewInMemoryWorker(
			q, p, sink, ds,
			WithName("worker-"+strconv.Itoa(i)),
			WithReporter(pool.record),
		)
	}

	metrics.UpdateWorkerActiveCount(workerCount)

	return pool
}

func (p *Pool) record(o model.TeamOutcome) {
	p.mu.Lock()
	p.outcomes = append(p.outcomes, o)
	p.mu.Unlock()
}

// Run starts every worker and blocks until the queue is drained or ctx is
// done. It returns the outcomes in completion order.
func (p *Pool) Run(ctx context.Context) []model.TeamOutcome {
	var wg sync.WaitGroup
	for _, w := range p.workers {
		wg.Add(1)
		go func(w *InMemoryWorker) {
			defer wg.Done()
			w.Run(ctx)
		}(w)
	}
	wg.Wait()
	metrics.UpdateWorkerActiveCount(0)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.logger.Info(ctx, "workers finished", logger.Int("tasks", len(p.outcomes)))
	return append([]model.TeamOutcome(nil), p.outcomes...)
}
