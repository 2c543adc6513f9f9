// Package search finds the smallest daily driving cap that admits a trip.
package search

import (
	"context"
	"fmt"

	"github.com/okian/fantrip/internal/domain/milp"
	"github.com/okian/fantrip/pkg/metrics"
)

// Default bounds of the daily driving cap, in hours.
const (
	DefaultMinHours = 1
	DefaultMaxHours = 24
)

// Attempt solves the program at a daily cap. A non-optimal status means the
// cap is infeasible; a returned error aborts the search.
type Attempt func(ctx context.Context, hours int) (milp.Solution, error)

// Result is the outcome of a successful search.
type Result struct {
	Hours    int
	Solution milp.Solution
	Calls    int
}

// MinimalHours binary searches [lo, hi] for the smallest cap whose attempt
// is optimal. Feasibility is monotone in the cap: a larger cap only adds
// edges to the program.
func MinimalHours(ctx context.Context, lo, hi int, attempt Attempt) (Result, error) {
	if lo < 1 || hi < lo {
		return Result{}, fmt.Errorf("%w: [%d, %d]", ErrInvalidRange, lo, hi)
	}

	var (
		res   Result
		found bool
	)
	for lo <= hi {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		mid := lo + (hi-lo)/2
		sol, err := attempt(ctx, mid)
		res.Calls++
		if err != nil {
			return Result{}, fmt.Errorf("solve at %d hours: %w", mid, err)
		}
		if sol.Optimal() {
			res.Hours, res.Solution, found = mid, sol, true
			hi = mid - 1
		} else {
			lo = mid + 1
		}
	}
	metrics.RecordSearchIterations(res.Calls)
	if !found {
		return Result{Calls: res.Calls}, ErrInfeasible
	}
	metrics.RecordDrivingHours(res.Hours)
	return res, nil
}
