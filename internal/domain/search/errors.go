package search

import "errors"

// Sentinel kinds for search errors.
var (
	ErrInfeasible   = errors.New("no feasible driving hours cap")
	ErrInvalidRange = errors.New("invalid driving hours range")
)
