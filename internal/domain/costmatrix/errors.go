package costmatrix

import "errors"

// Sentinel kinds for matrix construction errors.
var (
	ErrMissingCost = errors.New("missing cost matrix entry")
)
