package itinerary

import "errors"

// Sentinel kinds for itinerary errors.
var (
	ErrBrokenPath       = errors.New("selected edges do not form a path from the sentinel")
	ErrNotOptimal       = errors.New("solution is not optimal")
	ErrInvalidItinerary = errors.New("itinerary violates trip rules")
)
