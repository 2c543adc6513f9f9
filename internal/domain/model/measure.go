package model

// Measure selects the cost an itinerary is optimized for.
type Measure string

// Supported measures.
const (
	TripDuration    Measure = "trip_duration"
	DrivingDistance Measure = "driving_distance"
	DrivingDuration Measure = "driving_duration"
)

// Measures lists every measure in the order they are solved.
var Measures = []Measure{TripDuration, DrivingDistance, DrivingDuration}

// FileName is the result file name for the measure.
func (m Measure) FileName() string { return string(m) + ".txt" }
