package repository

import "errors"

// Sentinel kinds for repository errors.
var (
	ErrMissingFile  = errors.New("missing input file")
	ErrInvalidInput = errors.New("invalid input")
	ErrIncomplete   = errors.New("incomplete team plan")
)

// ErrRunNotFound is returned for unknown run ids.
var ErrRunNotFound = errors.New("run not found")
