// Package feasibility decides whether a fan can drive from one event to the
// next under a daily driving cap.
package feasibility

import (
	"time"

	"github.com/okian/fantrip/internal/domain/model"
)

// Default rule parameters.
const (
	DefaultEventLength = 180 * time.Minute
	DefaultBuffer      = time.Hour
	minutesPerHour     = 60
	secondsPerMinute   = 60
)

// Rule holds the parameters of the driving-time availability computation.
type Rule struct {
	// Location is the reference zone day boundaries are taken in.
	Location *time.Location
	// EventLength is the average length of a game, counted from its start.
	EventLength time.Duration
	// Buffer is kept free after a game ends and before the next one starts.
	Buffer time.Duration
}

// Option configures a Rule.
type Option func(*Rule)

// WithLocation sets the reference zone.
func WithLocation(loc *time.Location) Option {
	return func(r *Rule) {
		if loc != nil {
			r.Location = loc
		}
	}
}

// WithEventLength sets the average game length.
func WithEventLength(d time.Duration) Option {
	return func(r *Rule) {
		if d >= 0 {
			r.EventLength = d
		}
	}
}

// WithBuffer sets the buffer kept around games.
func WithBuffer(d time.Duration) Option {
	return func(r *Rule) {
		if d >= 0 {
			r.Buffer = d
		}
	}
}

// NewRule returns a rule with defaults (UTC, 3h games, 1h buffer) overridden by opts.
func NewRule(opts ...Option) Rule {
	r := Rule{
		Location:    time.UTC,
		EventLength: DefaultEventLength,
		Buffer:      DefaultBuffer,
	}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// Available returns the driving minutes available between the end of from
// and the start of to when at most hoursPerDay hours are driven per day:
// the capped minutes left in the departure day, a full cap for every day in
// between, and the capped minutes elapsed in the arrival day.
// ok is false when from does not start strictly before to; the pair is then
// not a candidate at all, which is different from zero available minutes.
func (r Rule) Available(from, to model.Event, hoursPerDay int) (minutes int, ok bool) {
	if !from.Before(to) {
		return 0, false
	}
	loc := r.Location
	if loc == nil {
		loc = time.UTC
	}
	dailyCap := hoursPerDay * minutesPerHour
	if dailyCap < 0 {
		dailyCap = 0
	}

	departure := from.Time.In(loc).Add(r.EventLength + r.Buffer)
	arrival := to.Time.In(loc).Add(-r.Buffer)

	departureDay := startOfDay(departure)
	arrivalDay := startOfDay(arrival)

	// The three parts are always summed, even when departure and arrival
	// share a day or the windows overlap: the full-day count is then
	// negative and floored to zero.
	endOfDepartureDay := departureDay.AddDate(0, 0, 1)
	first := minInt(wholeMinutes(endOfDepartureDay.Sub(departure)), dailyCap)
	last := minInt(wholeMinutes(arrival.Sub(arrivalDay)), dailyCap)
	full := calendarDays(endOfDepartureDay, arrivalDay)
	if full < 0 {
		full = 0
	}
	return first + full*dailyCap + last, true
}

// RequiredMinutes rounds a driving duration in seconds up to whole minutes.
func RequiredMinutes(seconds int64) int {
	if seconds <= 0 {
		return 0
	}
	return int((seconds + secondsPerMinute - 1) / secondsPerMinute)
}

// Allows reports whether driving drivingSeconds between the two events fits
// the availability at hoursPerDay.
func (r Rule) Allows(from, to model.Event, hoursPerDay int, drivingSeconds int64) bool {
	available, ok := r.Available(from, to, hoursPerDay)
	if !ok {
		return false
	}
	return RequiredMinutes(drivingSeconds) <= available
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// calendarDays counts date steps from a to b; both are local midnights.
// Daylight saving makes some days 23 or 25 hours long, so dates are compared
// rather than durations.
func calendarDays(a, b time.Time) int {
	ua := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	ub := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua).Hours() / 24)
}

func wholeMinutes(d time.Duration) int {
	return int(d / time.Minute)
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
