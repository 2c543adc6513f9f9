package planner

import (
	"github.com/okian/fantrip/internal/domain/feasibility"
	"github.com/okian/fantrip/pkg/logger"
)

// Option configures a Planner.
type Option func(*Planner)

// WithRule sets the driving feasibility rule.
func WithRule(rule feasibility.Rule) Option {
	return func(p *Planner) {
		p.rule = rule
	}
}

// WithExclusions sets the excluded team pairs.
func WithExclusions(x Exclusions) Option {
	return func(p *Planner) {
		if x != nil {
			p.exclusions = x
		}
	}
}

// WithHoursRange sets the bounds of the daily driving cap search.
func WithHoursRange(lo, hi int) Option {
	return func(p *Planner) {
		if lo >= 1 && hi >= lo {
			p.minHours, p.maxHours = lo, hi
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(p *Planner) {
		if l != nil {
			p.logger = l
		}
	}
}
