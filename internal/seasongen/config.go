// Package seasongen generates synthetic season datasets for load testing
// the planner. A seed always yields the same dataset.
package seasongen

import (
	"fmt"
	"time"
)

// Config holds generator settings.
type Config struct {
	Teams     int            // Number of teams, each with its own home venue
	Days      int            // Length of the season in days
	Seed      uint64         // Seed of every random choice
	Start     time.Time      // First day of the season
	Location  *time.Location // Zone game start times are picked in
	OutputDir string         // Directory the input files are written to
}

// Limits.
const (
	minTeams = 2
	maxTeams = 500
	maxDays  = 366
)

// Validate checks the generator settings.
func (c *Config) Validate() error {
	switch {
	case c.Teams < minTeams || c.Teams > maxTeams:
		return fmt.Errorf("%w: teams must be within [%d, %d], got %d", ErrInvalidConfig, minTeams, maxTeams, c.Teams)
	case c.Days < 1 || c.Days > maxDays:
		return fmt.Errorf("%w: days must be within [1, %d], got %d", ErrInvalidConfig, maxDays, c.Days)
	}
	return nil
}

func (c *Config) location() *time.Location {
	if c.Location == nil {
		return time.UTC
	}
	return c.Location
}
