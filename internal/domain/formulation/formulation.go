// Package formulation turns a team-scoped trip into a binary program.
//
// Every edge between two events that can be driven under the daily cap
// becomes a binary variable. A sentinel node with free edges to and from
// every event opens the tour into a path: each node has in-degree and
// out-degree at most one and equal, so a solution is a single path that
// leaves the sentinel, visits some events and returns to it. Coverage rows
// force every team of interest to play in at least one visited event.
package formulation

import (
	"fmt"

	"github.com/okian/fantrip/internal/domain/costmatrix"
	"github.com/okian/fantrip/internal/domain/feasibility"
	"github.com/okian/fantrip/internal/domain/milp"
	"github.com/okian/fantrip/internal/domain/model"
)

// Input is everything needed to formulate one solve.
type Input struct {
	Events []model.Event
	Hours  int
	// Durations holds driving seconds and decides which edges exist.
	Durations costmatrix.Matrix
	// Costs is the objective matrix.
	Costs    costmatrix.Matrix
	Matchups costmatrix.Matchups
	Targets  []string
	Rule     feasibility.Rule
}

// Edge is the pair of nodes behind a variable.
type Edge struct {
	From model.Node
	To   model.Node
}

// Problem is a formulated model. Edges[k] is the edge of variable k.
type Problem struct {
	Model *milp.Model
	Edges []Edge
	Hours int
}

// Formulate builds the program. It does not solve it.
func Formulate(in Input) (*Problem, error) {
	if in.Hours <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidHours, in.Hours)
	}
	if in.Durations == nil || in.Costs == nil {
		return nil, ErrMissingMatrix
	}
	if len(in.Targets) == 0 {
		return nil, ErrNoTargets
	}

	p := &Problem{
		Model: milp.NewModel("optimal_trip"),
		Hours: in.Hours,
	}
	out := make(map[model.Node][]int, len(in.Events)+1)
	incoming := make(map[model.Node][]int, len(in.Events)+1)

	addEdge := func(from, to model.Node, cost int64) {
		v := p.Model.AddBinary(varName(from, to), float64(cost+1))
		p.Edges = append(p.Edges, Edge{From: from, To: to})
		out[from] = append(out[from], v)
		incoming[to] = append(incoming[to], v)
	}

	for _, from := range in.Events {
		for _, to := range in.Events {
			if from.ID == to.ID {
				continue
			}
			available, ok := in.Rule.Available(from, to, in.Hours)
			if !ok {
				continue
			}
			fn, tn := model.Real(from.ID), model.Real(to.ID)
			seconds, err := in.Durations.MustCost(fn, tn)
			if err != nil {
				return nil, err
			}
			if feasibility.RequiredMinutes(seconds) > available {
				continue
			}
			cost, err := in.Costs.MustCost(fn, tn)
			if err != nil {
				return nil, err
			}
			addEdge(fn, tn, cost)
		}
	}

	s := model.Sentinel()
	for _, e := range in.Events {
		n := model.Real(e.ID)
		for _, edge := range [2]Edge{{From: s, To: n}, {From: n, To: s}} {
			cost, err := in.Costs.MustCost(edge.From, edge.To)
			if err != nil {
				return nil, err
			}
			addEdge(edge.From, edge.To, cost)
		}
	}

	nodes := make([]model.Node, 0, len(in.Events)+1)
	for _, e := range in.Events {
		nodes = append(nodes, model.Real(e.ID))
	}
	nodes = append(nodes, s)

	for _, n := range nodes {
		p.Model.AddConstraint(milp.Constraint{
			Name:  "out_degree_" + n.String(),
			Terms: terms(out[n], 1),
			Sense: milp.LessEqual,
			RHS:   1,
		})
		p.Model.AddConstraint(milp.Constraint{
			Name:  "in_degree_" + n.String(),
			Terms: terms(incoming[n], 1),
			Sense: milp.LessEqual,
			RHS:   1,
		})
	}
	for _, n := range nodes {
		balance := append(terms(out[n], 1), terms(incoming[n], -1)...)
		p.Model.AddConstraint(milp.Constraint{
			Name:  "equal_degree_" + n.String(),
			Terms: balance,
			Sense: milp.Equal,
			RHS:   0,
		})
	}

	for _, team := range in.Targets {
		var cover []milp.Term
		for v, edge := range p.Edges {
			if edge.To.IsReal() && in.Matchups.Has(edge.To, team) {
				cover = append(cover, milp.Term{Var: v, Coef: 1})
			}
		}
		p.Model.AddConstraint(milp.Constraint{
			Name:  "opponent_" + team,
			Terms: cover,
			Sense: milp.GreaterEqual,
			RHS:   1,
		})
	}
	return p, nil
}

func terms(vars []int, coef float64) []milp.Term {
	out := make([]milp.Term, len(vars))
	for i, v := range vars {
		out[i] = milp.Term{Var: v, Coef: coef}
	}
	return out
}

func varName(from, to model.Node) string {
	return "x_" + nodeLabel(from) + "_" + nodeLabel(to)
}

func nodeLabel(n model.Node) string {
	if n.IsSentinel() {
		return "s"
	}
	return "e" + n.EventID()
}
