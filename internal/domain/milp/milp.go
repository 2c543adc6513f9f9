// Package milp describes a minimization program over binary variables in a
// solver-independent way, together with the contract a backend implements.
package milp

import (
	"context"
	"math"
)

// Tolerance is how far from 1 a relaxed value may be and still count as a
// selected binary. Some backends return values like 0.999999998.
const Tolerance = 1e-5

// Sense is the relation between a constraint's left-hand side and its RHS.
type Sense int

// Constraint senses.
const (
	LessEqual Sense = iota
	GreaterEqual
	Equal
)

func (s Sense) String() string {
	switch s {
	case LessEqual:
		return "<="
	case GreaterEqual:
		return ">="
	case Equal:
		return "="
	default:
		return "?"
	}
}

// Variable is a binary decision variable with its objective coefficient.
type Variable struct {
	Name string
	Cost float64
}

// Term is coef * variable.
type Term struct {
	Var  int
	Coef float64
}

// Constraint is sum(terms) <sense> RHS.
type Constraint struct {
	Name  string
	Terms []Term
	Sense Sense
	RHS   float64
}

// Model is a minimization program over binary variables.
type Model struct {
	Name        string
	Vars        []Variable
	Constraints []Constraint
}

// NewModel returns an empty model.
func NewModel(name string) *Model {
	return &Model{Name: name}
}

// AddBinary appends a variable and returns its index.
func (m *Model) AddBinary(name string, cost float64) int {
	m.Vars = append(m.Vars, Variable{Name: name, Cost: cost})
	return len(m.Vars) - 1
}

// AddConstraint appends a constraint.
func (m *Model) AddConstraint(c Constraint) {
	m.Constraints = append(m.Constraints, c)
}

// Status is the outcome reported by a backend.
type Status int

// Solver statuses.
const (
	StatusOther Status = iota
	StatusOptimal
	StatusInfeasible
	StatusUnbounded
)

func (s Status) String() string {
	switch s {
	case StatusOptimal:
		return "optimal"
	case StatusInfeasible:
		return "infeasible"
	case StatusUnbounded:
		return "unbounded"
	default:
		return "other"
	}
}

// Solution is the result of a solve. Selected and Objective are only
// meaningful when Status is StatusOptimal.
type Solution struct {
	Status    Status
	Objective float64
	Selected  []bool
}

// Optimal reports whether the solve was proven optimal.
func (s Solution) Optimal() bool { return s.Status == StatusOptimal }

// Solver solves a Model. Errors are reserved for invalid input or
// cancellation; a program without an optimal solution is reported through
// Status, not as an error.
type Solver interface {
	Solve(ctx context.Context, m *Model) (Solution, error)
}

// IsOne reports whether a relaxed binary value counts as selected.
func IsOne(v float64) bool {
	return math.Abs(v-1) < Tolerance
}

// Evaluate returns the objective value and whether every constraint holds
// for the given assignment.
func (m *Model) Evaluate(selected []bool) (float64, bool) {
	if len(selected) != len(m.Vars) {
		return 0, false
	}
	var obj float64
	for i, v := range m.Vars {
		if selected[i] {
			obj += v.Cost
		}
	}
	for _, c := range m.Constraints {
		var lhs float64
		for _, t := range c.Terms {
			if selected[t.Var] {
				lhs += t.Coef
			}
		}
		if !c.Holds(lhs) {
			return obj, false
		}
	}
	return obj, true
}

// Holds reports whether the constraint is satisfied at the given LHS value.
func (c Constraint) Holds(lhs float64) bool {
	switch c.Sense {
	case LessEqual:
		return lhs <= c.RHS+Tolerance
	case GreaterEqual:
		return lhs >= c.RHS-Tolerance
	case Equal:
		return math.Abs(lhs-c.RHS) <= Tolerance
	default:
		return false
	}
}

// Reachable reports whether some LHS value in [lo, hi] satisfies the
// constraint.
func (c Constraint) Reachable(lo, hi float64) bool {
	switch c.Sense {
	case LessEqual:
		return lo <= c.RHS+Tolerance
	case GreaterEqual:
		return hi >= c.RHS-Tolerance
	case Equal:
		return lo <= c.RHS+Tolerance && hi >= c.RHS-Tolerance
	default:
		return false
	}
}
