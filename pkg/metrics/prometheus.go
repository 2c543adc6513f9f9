// Package metrics provides Prometheus metrics for the fantrip planner.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Latency buckets in milliseconds; MILP solves range from a few ms to minutes.
var defaultLatencyBuckets = []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000, 30000, 60000, 300000} //nolint:gochecknoglobals // bucket layout

// Manager manages all Prometheus metrics for the planner.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Solver
	solves           *prometheus.CounterVec
	solveLatency     *prometheus.HistogramVec
	modelVariables   prometheus.Histogram
	modelConstraints prometheus.Histogram

	// Search
	searchIterations prometheus.Histogram
	drivingHours     prometheus.Histogram

	// Teams
	teamOutcomes *prometheus.CounterVec
	teamLatency  prometheus.Histogram

	// Queue
	queueSize      prometheus.Gauge
	queueCapacity  prometheus.Gauge
	queueEnqueued  prometheus.Counter
	queueDequeued  prometheus.Counter
	queueEnqErrors prometheus.Counter

	// Workers
	workerActiveCount prometheus.Gauge
	workerBusyCount   prometheus.Gauge

	// Errors
	errorsByComponent *prometheus.CounterVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "fantrip",
		subsystem:        "planner",
		histogramBuckets: defaultLatencyBuckets,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every metric definition
	auto := promauto.With(m.registry)

	m.solves = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "solves_total",
			Help:      "Total number of MILP solves by measure and status",
		},
		[]string{"measure", "status"},
	)

	m.solveLatency = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "solve_latency_milliseconds",
			Help:      "MILP solve latency in milliseconds by measure",
			Buckets:   m.histogramBuckets,
		},
		[]string{"measure"},
	)

	m.modelVariables = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "model_variables",
		Help:      "Number of binary variables per formulated model",
		Buckets:   prometheus.ExponentialBuckets(8, 2, 14),
	})

	m.modelConstraints = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "model_constraints",
		Help:      "Number of constraints per formulated model",
		Buckets:   prometheus.ExponentialBuckets(8, 2, 12),
	})

	m.searchIterations = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "search_iterations",
		Help:      "Solver calls made by one driving hours search",
		Buckets:   prometheus.LinearBuckets(1, 1, 8),
	})

	m.drivingHours = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "driving_hours_per_day",
		Help:      "Minimal feasible driving hours per day found by the search",
		Buckets:   prometheus.LinearBuckets(1, 1, 24),
	})

	m.teamOutcomes = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "team_outcomes_total",
			Help:      "Teams planned by outcome status",
		},
		[]string{"status"},
	)

	m.teamLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "team_latency_milliseconds",
		Help:      "Wall time spent planning one team",
		Buckets:   m.histogramBuckets,
	})

	m.queueSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_size",
		Help:      "Current number of queued team tasks",
	})

	m.queueCapacity = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_capacity",
		Help:      "Capacity of the team task queue",
	})

	m.queueEnqueued = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_enqueued_total",
		Help:      "Team tasks enqueued",
	})

	m.queueDequeued = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_dequeued_total",
		Help:      "Team tasks handed to workers",
	})

	m.queueEnqErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_enqueue_errors_total",
		Help:      "Team tasks rejected by the queue",
	})

	m.workerActiveCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "worker_active_count",
		Help:      "Number of workers in the pool",
	})

	m.workerBusyCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "worker_busy_count",
		Help:      "Number of workers currently planning a team",
	})

	m.errorsByComponent = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "errors_by_component_total",
			Help:      "Errors by component and type",
		},
		[]string{"component", "error_type"},
	)
}

// RecordSolve counts a solve and observes its latency.
func RecordSolve(measure, status string, latencyMs float64) {
	globalManager.solves.WithLabelValues(measure, status).Inc()
	globalManager.solveLatency.WithLabelValues(measure).Observe(latencyMs)
}

// RecordModelSize observes the size of a formulated model.
func RecordModelSize(variables, constraints int) {
	globalManager.modelVariables.Observe(float64(variables))
	globalManager.modelConstraints.Observe(float64(constraints))
}

// RecordSearchIterations observes the solver calls of one search.
func RecordSearchIterations(calls int) {
	globalManager.searchIterations.Observe(float64(calls))
}

// RecordDrivingHours observes a minimal feasible driving cap.
func RecordDrivingHours(hours int) {
	globalManager.drivingHours.Observe(float64(hours))
}

// RecordTeamOutcome counts a finished team task.
func RecordTeamOutcome(status string, latencyMs float64) {
	globalManager.teamOutcomes.WithLabelValues(status).Inc()
	globalManager.teamLatency.Observe(latencyMs)
}

// UpdateQueueSize sets the current queue size.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// RecordQueueEnqueue increments the enqueue counter.
func RecordQueueEnqueue() {
	globalManager.queueEnqueued.Inc()
}

// RecordQueueDequeue increments the dequeue counter.
func RecordQueueDequeue() {
	globalManager.queueDequeued.Inc()
}

// RecordQueueEnqueueError increments the enqueue error counter.
func RecordQueueEnqueueError() {
	globalManager.queueEnqErrors.Inc()
}

// UpdateWorkerActiveCount sets the pool size.
func UpdateWorkerActiveCount(count int) {
	globalManager.workerActiveCount.Set(float64(count))
}

// WorkerBusy moves the busy gauge by delta.
func WorkerBusy(delta int) {
	globalManager.workerBusyCount.Add(float64(delta))
}

// RecordErrorByComponent counts an error.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// GetRegistry returns the registry the global metrics live on.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// WriteTextfile dumps the global registry in the Prometheus text format, for
// node_exporter's textfile collector or later inspection.
func WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, customRegistry); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteTextfile, err)
	}
	return nil
}
