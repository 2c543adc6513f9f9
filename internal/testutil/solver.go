// Package testutil holds helpers shared by tests across packages.
package testutil

import (
	"context"
	"errors"
	"math"
	"sync/atomic"

	"github.com/okian/fantrip/internal/domain/milp"
)

// ErrTooLarge is returned when a model has more variables than the
// reference solver is willing to enumerate.
var ErrTooLarge = errors.New("model too large for reference solver")

// MaxVars bounds the size of models ReferenceSolver accepts.
const MaxVars = 64

// ReferenceSolver is an exact depth-first branch-and-bound over binary
// variables. It is slow but has no native dependency, so tests get a
// deterministic backend.
type ReferenceSolver struct {
	// Force, when set, overrides the status of every solve.
	Force *milp.Status

	calls atomic.Int64
}

var _ milp.Solver = (*ReferenceSolver)(nil)

// Solve returns an optimal assignment, or StatusInfeasible when none exists.
func (r *ReferenceSolver) Solve(ctx context.Context, m *milp.Model) (milp.Solution, error) {
	r.calls.Add(1)
	if err := ctx.Err(); err != nil {
		return milp.Solution{}, err
	}
	if r.Force != nil {
		return milp.Solution{Status: *r.Force}, nil
	}
	if len(m.Vars) > MaxVars {
		return milp.Solution{}, ErrTooLarge
	}
	for _, c := range m.Constraints {
		if len(c.Terms) == 0 && !c.Holds(0) {
			return milp.Solution{Status: milp.StatusInfeasible}, nil
		}
	}

	b := newBnB(m)
	b.search(0, 0)
	if b.best == nil {
		return milp.Solution{Status: milp.StatusInfeasible}, nil
	}
	return milp.Solution{Status: milp.StatusOptimal, Objective: b.bestObj, Selected: b.best}, nil
}

// Calls returns the number of Solve invocations so far.
func (r *ReferenceSolver) Calls() int {
	return int(r.calls.Load())
}

type bnb struct {
	m       *milp.Model
	byVar   [][]int // constraints touching each variable
	lhs     []float64
	slackLo []float64 // most negative contribution still open per constraint
	slackHi []float64 // most positive contribution still open per constraint
	tail    []float64 // sum of negative costs from i onward
	cur     []bool
	best    []bool
	bestObj float64
}

func newBnB(m *milp.Model) *bnb {
	b := &bnb{
		m:       m,
		byVar:   make([][]int, len(m.Vars)),
		lhs:     make([]float64, len(m.Constraints)),
		slackLo: make([]float64, len(m.Constraints)),
		slackHi: make([]float64, len(m.Constraints)),
		tail:    make([]float64, len(m.Vars)+1),
		cur:     make([]bool, len(m.Vars)),
		bestObj: math.Inf(1),
	}
	for ci, c := range m.Constraints {
		for _, t := range c.Terms {
			if n := len(b.byVar[t.Var]); n == 0 || b.byVar[t.Var][n-1] != ci {
				b.byVar[t.Var] = append(b.byVar[t.Var], ci)
			}
			if t.Coef < 0 {
				b.slackLo[ci] += t.Coef
			} else {
				b.slackHi[ci] += t.Coef
			}
		}
	}
	for i := len(m.Vars) - 1; i >= 0; i-- {
		b.tail[i] = b.tail[i+1] + math.Min(m.Vars[i].Cost, 0)
	}
	return b
}

func (b *bnb) search(i int, obj float64) {
	if obj+b.tail[i] >= b.bestObj-milp.Tolerance {
		return
	}
	if i == len(b.m.Vars) {
		b.best = append([]bool(nil), b.cur...)
		b.bestObj = obj
		return
	}
	// Try 0 first so that cheaper, sparser assignments are found early.
	for _, pick := range [2]bool{false, true} {
		b.assign(i, pick)
		if b.viable(i) {
			cost := 0.0
			if pick {
				cost = b.m.Vars[i].Cost
			}
			b.search(i+1, obj+cost)
		}
		b.unassign(i, pick)
	}
}

func (b *bnb) assign(i int, pick bool) {
	b.cur[i] = pick
	for _, ci := range b.byVar[i] {
		coef := b.coef(ci, i)
		if coef < 0 {
			b.slackLo[ci] -= coef
		} else {
			b.slackHi[ci] -= coef
		}
		if pick {
			b.lhs[ci] += coef
		}
	}
}

func (b *bnb) unassign(i int, pick bool) {
	b.cur[i] = false
	for _, ci := range b.byVar[i] {
		coef := b.coef(ci, i)
		if coef < 0 {
			b.slackLo[ci] += coef
		} else {
			b.slackHi[ci] += coef
		}
		if pick {
			b.lhs[ci] -= coef
		}
	}
}

// viable reports whether every constraint touched by variable i can still
// be satisfied by some completion.
func (b *bnb) viable(i int) bool {
	for _, ci := range b.byVar[i] {
		c := b.m.Constraints[ci]
		lo, hi := b.lhs[ci]+b.slackLo[ci], b.lhs[ci]+b.slackHi[ci]
		if !c.Reachable(lo, hi) {
			return false
		}
	}
	return true
}

func (b *bnb) coef(ci, v int) float64 {
	var sum float64
	for _, t := range b.m.Constraints[ci].Terms {
		if t.Var == v {
			sum += t.Coef
		}
	}
	return sum
}
