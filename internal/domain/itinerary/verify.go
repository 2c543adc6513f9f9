package itinerary

import (
	"fmt"

	"github.com/okian/fantrip/internal/domain/costmatrix"
	"github.com/okian/fantrip/internal/domain/feasibility"
	"github.com/okian/fantrip/internal/domain/model"
)

// Check is what an itinerary is verified against.
type Check struct {
	Events    map[string]model.Event
	Durations costmatrix.Matrix
	Rule      feasibility.Rule
	Targets   []string
}

// Verify checks chronological order, per-leg driving feasibility at the
// itinerary's cap, and that every target team plays in a visited event.
func Verify(it Itinerary, c Check) error {
	covered := make(map[string]struct{})
	var prev *model.Event
	for _, id := range it.EventIDs {
		e, ok := c.Events[id]
		if !ok {
			return fmt.Errorf("%w: unknown event %s", ErrInvalidItinerary, id)
		}
		if prev != nil {
			if !prev.Before(e) {
				return fmt.Errorf("%w: %s does not start after %s", ErrInvalidItinerary, e.ID, prev.ID)
			}
			seconds, err := c.Durations.MustCost(model.Real(prev.ID), model.Real(e.ID))
			if err != nil {
				return err
			}
			if !c.Rule.Allows(*prev, e, it.Hours, seconds) {
				return fmt.Errorf("%w: %s -> %s cannot be driven at %d hours per day",
					ErrInvalidItinerary, prev.ID, e.ID, it.Hours)
			}
		}
		covered[e.HomeTeamID] = struct{}{}
		covered[e.AwayTeamID] = struct{}{}
		prev = &e
	}
	for _, team := range c.Targets {
		if _, ok := covered[team]; !ok {
			return fmt.Errorf("%w: team %s is not covered", ErrInvalidItinerary, team)
		}
	}
	return nil
}
