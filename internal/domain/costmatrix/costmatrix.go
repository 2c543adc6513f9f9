// Package costmatrix builds the per-team cost and matchup matrices the trip
// formulation is written against.
package costmatrix

import (
	"fmt"
	"time"

	"github.com/okian/fantrip/internal/domain/model"
)

// Matrix is a partial, possibly asymmetric cost mapping between nodes.
type Matrix map[model.Node]map[model.Node]int64

// Cost returns the cost of the edge from -> to.
func (m Matrix) Cost(from, to model.Node) (int64, bool) {
	row, ok := m[from]
	if !ok {
		return 0, false
	}
	v, ok := row[to]
	return v, ok
}

// MustCost returns the cost of the edge or a wrapped ErrMissingCost.
func (m Matrix) MustCost(from, to model.Node) (int64, error) {
	v, ok := m.Cost(from, to)
	if !ok {
		return 0, fmt.Errorf("%w: %s -> %s", ErrMissingCost, from, to)
	}
	return v, nil
}

func (m Matrix) set(from, to model.Node, cost int64) {
	row, ok := m[from]
	if !ok {
		row = make(map[model.Node]int64)
		m[from] = row
	}
	row[to] = cost
}

// TripDuration returns the number of calendar days between every pair of
// events (i, j) with i starting strictly before j. Dates are taken in loc so
// day boundaries follow the reference zone.
func TripDuration(events []model.Event, loc *time.Location) Matrix {
	m := make(Matrix, len(events)+1)
	for _, from := range events {
		for _, to := range events {
			if from.ID == to.ID || !from.Before(to) {
				continue
			}
			m.set(model.Real(from.ID), model.Real(to.ID), int64(daysBetween(from.Time.In(loc), to.Time.In(loc))))
		}
	}
	return WithSentinel(m, events)
}

// daysBetween counts calendar days between the dates of a and b (a <= b).
func daysBetween(a, b time.Time) int {
	da := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	db := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(db.Sub(da).Hours() / 24)
}

// Driving slices a venue-indexed matrix onto the events. Every ordered pair
// of distinct events gets an entry, including pairs that go back in time.
func Driving(events []model.Event, venues model.VenueMatrix) (Matrix, error) {
	m := make(Matrix, len(events)+1)
	for _, from := range events {
		for _, to := range events {
			if from.ID == to.ID {
				continue
			}
			cost, ok := venues.Lookup(from.VenueID, to.VenueID)
			if !ok {
				return nil, fmt.Errorf("%w: venue %s -> venue %s (events %s, %s)",
					ErrMissingCost, from.VenueID, to.VenueID, from.ID, to.ID)
			}
			m.set(model.Real(from.ID), model.Real(to.ID), cost)
		}
	}
	return WithSentinel(m, events), nil
}

// WithSentinel adds zero-cost edges between the sentinel and every event in
// both directions. Events with no outgoing entry (usually the last one) get
// a row holding only the edge back to the sentinel.
func WithSentinel(m Matrix, events []model.Event) Matrix {
	s := model.Sentinel()
	if _, ok := m[s]; !ok {
		m[s] = make(map[model.Node]int64, len(events))
	}
	for _, e := range events {
		n := model.Real(e.ID)
		m.set(n, s, 0)
		m.set(s, n, 0)
	}
	return m
}

// Build returns the matrix for a measure. Trip duration is computed from the
// event times; driving measures are sliced from the matching venue matrix.
func Build(measure model.Measure, events []model.Event, ds *model.Dataset, loc *time.Location) (Matrix, error) {
	switch measure {
	case model.TripDuration:
		return TripDuration(events, loc), nil
	case model.DrivingDistance:
		return Driving(events, ds.Distance)
	case model.DrivingDuration:
		return Driving(events, ds.Duration)
	default:
		return nil, fmt.Errorf("unsupported measure %q", measure)
	}
}
