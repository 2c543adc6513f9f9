package formulation

import "errors"

// Sentinel kinds for formulation errors.
var (
	ErrNoTargets     = errors.New("no teams of interest to cover")
	ErrInvalidHours  = errors.New("driving hours per day must be positive")
	ErrMissingMatrix = errors.New("cost matrix not provided")
)
