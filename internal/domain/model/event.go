// Package model contains domain models passed between layers.
package model

import (
	"sort"
	"time"
)

// Team is a club whose games can be attended.
type Team struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// LatLng is a WGS84 coordinate.
type LatLng struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Venue is the place an event is held at.
type Venue struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	PlaceName string `json:"place_name,omitempty"`
	Address   string `json:"address,omitempty"`
	PlaceID   string `json:"place_id,omitempty"`
	Location  LatLng `json:"location"`
}

// Event is a single scheduled game.
type Event struct {
	ID         string    `json:"id"`
	Time       time.Time `json:"time"` // start of the game, UTC
	VenueID    string    `json:"venue_id"`
	HomeTeamID string    `json:"home_team_id"`
	AwayTeamID string    `json:"away_team_id"`
}

// Before reports whether e starts strictly before other.
func (e Event) Before(other Event) bool {
	return e.Time.Before(other.Time)
}

// Involves reports whether the team plays in the event.
func (e Event) Involves(teamID string) bool {
	return e.HomeTeamID == teamID || e.AwayTeamID == teamID
}

// SortChronologically orders events by start time, ties broken by id.
func SortChronologically(events []Event) {
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].Time.Equal(events[j].Time) {
			return events[i].ID < events[j].ID
		}
		return events[i].Time.Before(events[j].Time)
	})
}

// VenueMatrix maps origin venue id to destination venue id to a cost
// (meters for distance, seconds for duration).
type VenueMatrix map[string]map[string]int64

// Lookup returns the cost between two venues. A venue is always zero from itself.
func (m VenueMatrix) Lookup(from, to string) (int64, bool) {
	if row, ok := m[from]; ok {
		if v, ok := row[to]; ok {
			return v, true
		}
	}
	if from == to {
		return 0, true
	}
	return 0, false
}

// Dataset is the read-only input of a run. It is shared between workers and
// must not be mutated after loading.
type Dataset struct {
	Teams    []Team
	Venues   []Venue
	Events   []Event
	Distance VenueMatrix
	Duration VenueMatrix
}

// Team returns the team with the given id.
func (d *Dataset) Team(id string) (Team, bool) {
	for _, t := range d.Teams {
		if t.ID == id {
			return t, true
		}
	}
	return Team{}, false
}

// AwayEvents returns the events the team plays as visitor, in chronological order.
func (d *Dataset) AwayEvents(teamID string) []Event {
	var out []Event
	for _, e := range d.Events {
		if e.AwayTeamID == teamID {
			out = append(out, e)
		}
	}
	SortChronologically(out)
	return out
}
