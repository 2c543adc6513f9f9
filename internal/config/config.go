// Package config defines planner configuration structures and loading hooks.
//
// Conventions:
// - New returns a Config holding the defaults.
// - Load layers defaults, an optional YAML file and FANTRIP_* env vars.
// - Validate reports every problem wrapped in ErrInvalidConfig.
package config

import (
	"context"
	"fmt"
	"time"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects text or json log lines.
	LogFormat string `koanf:"log_format"`

	// WorkerCount sets the number of teams planned concurrently.
	WorkerCount int `koanf:"worker_count"`

	// QueueSize bounds the team task queue; 0 sizes it to the team count.
	QueueSize int `koanf:"queue_size"`

	// Timezone is the IANA zone day boundaries are computed in.
	Timezone string `koanf:"timezone"`

	// EventLengthMinutes is the average game length counted from its start.
	EventLengthMinutes int `koanf:"event_length_minutes"`

	// BufferMinutes is kept free after a game and before the next one.
	BufferMinutes int `koanf:"buffer_minutes"`

	// MinDrivingHours and MaxDrivingHours bound the daily driving cap search.
	MinDrivingHours int `koanf:"min_driving_hours"`
	MaxDrivingHours int `koanf:"max_driving_hours"`

	// Exclusions lists team id pairs that never meet inside the modeled
	// region. Each pair excludes both directions.
	Exclusions [][]string `koanf:"exclusions"`

	// SolverSerialize runs one MILP solve at a time across all workers.
	SolverSerialize bool `koanf:"solver_serialize"`

	// MetricsFile, when set, receives the Prometheus metrics after the run.
	MetricsFile string `koanf:"metrics_file"`

	// HistoryDB, when set, is a SQLite file every team outcome is recorded in.
	HistoryDB string `koanf:"history_db"`
}

// Defaults.
const (
	defaultWorkerCount        = 16
	defaultTimezone           = "America/New_York"
	defaultEventLengthMinutes = 180
	defaultBufferMinutes      = 60
	defaultMinDrivingHours    = 1
	defaultMaxDrivingHours    = 24
	hoursPerDay               = 24
)

// New creates a Config holding the defaults. Context is accepted first to
// satisfy the project-wide convention.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:           "info",
		LogFormat:          "text",
		WorkerCount:        defaultWorkerCount,
		Timezone:           defaultTimezone,
		EventLengthMinutes: defaultEventLengthMinutes,
		BufferMinutes:      defaultBufferMinutes,
		MinDrivingHours:    defaultMinDrivingHours,
		MaxDrivingHours:    defaultMaxDrivingHours,
	}
}

// Location loads the configured time zone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: timezone %q: %w", ErrInvalidConfig, c.Timezone, err)
	}
	return loc, nil
}

// EventLength returns EventLengthMinutes as a duration.
func (c *Config) EventLength() time.Duration {
	return time.Duration(c.EventLengthMinutes) * time.Minute
}

// Buffer returns BufferMinutes as a duration.
func (c *Config) Buffer() time.Duration {
	return time.Duration(c.BufferMinutes) * time.Minute
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	switch {
	case c.WorkerCount < 1:
		return fmt.Errorf("%w: worker_count must be positive, got %d", ErrInvalidConfig, c.WorkerCount)
	case c.QueueSize < 0:
		return fmt.Errorf("%w: queue_size must not be negative, got %d", ErrInvalidConfig, c.QueueSize)
	case c.EventLengthMinutes < 0:
		return fmt.Errorf("%w: event_length_minutes must not be negative", ErrInvalidConfig)
	case c.BufferMinutes < 0:
		return fmt.Errorf("%w: buffer_minutes must not be negative", ErrInvalidConfig)
	case c.MinDrivingHours < 1 || c.MaxDrivingHours > hoursPerDay || c.MinDrivingHours > c.MaxDrivingHours:
		return fmt.Errorf("%w: driving hours range [%d, %d] must lie within [1, %d]",
			ErrInvalidConfig, c.MinDrivingHours, c.MaxDrivingHours, hoursPerDay)
	}
	for i, pair := range c.Exclusions {
		if len(pair) != 2 || pair[0] == "" || pair[1] == "" || pair[0] == pair[1] {
			return fmt.Errorf("%w: exclusions[%d] must name two different team ids, got %v", ErrInvalidConfig, i, pair)
		}
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}
