// Package itinerary reads the visiting order back out of a solved program
// and renders it.
package itinerary

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/okian/fantrip/internal/domain/formulation"
	"github.com/okian/fantrip/internal/domain/milp"
	"github.com/okian/fantrip/internal/domain/model"
)

// Itinerary is an ordered list of events to attend.
type Itinerary struct {
	Objective float64
	Hours     int
	EventIDs  []string
}

// Extract follows selected edges from the sentinel until it is reached again.
func Extract(p *formulation.Problem, sol milp.Solution) (Itinerary, error) {
	if !sol.Optimal() {
		return Itinerary{}, fmt.Errorf("%w: %s", ErrNotOptimal, sol.Status)
	}
	if len(sol.Selected) != len(p.Edges) {
		return Itinerary{}, fmt.Errorf("%w: %d values for %d edges", ErrBrokenPath, len(sol.Selected), len(p.Edges))
	}

	next := make(map[model.Node]model.Node, len(p.Edges))
	for v, edge := range p.Edges {
		if !sol.Selected[v] {
			continue
		}
		if _, dup := next[edge.From]; dup {
			return Itinerary{}, fmt.Errorf("%w: %s has two successors", ErrBrokenPath, edge.From)
		}
		next[edge.From] = edge.To
	}

	it := Itinerary{Objective: sol.Objective, Hours: p.Hours}
	seen := make(map[model.Node]struct{}, len(next))
	current := model.Sentinel()
	for {
		succ, ok := next[current]
		if !ok {
			return Itinerary{}, fmt.Errorf("%w: no successor for %s", ErrBrokenPath, current)
		}
		if succ.IsSentinel() {
			break
		}
		if _, again := seen[succ]; again {
			return Itinerary{}, fmt.Errorf("%w: %s visited twice", ErrBrokenPath, succ)
		}
		seen[succ] = struct{}{}
		it.EventIDs = append(it.EventIDs, succ.EventID())
		current = succ
	}
	return it, nil
}

// Format renders the objective, the hours cap and one event id per line.
func (it Itinerary) Format() string {
	var b strings.Builder
	b.WriteString(formatObjective(it.Objective))
	b.WriteByte('\n')
	b.WriteString(strconv.Itoa(it.Hours))
	b.WriteByte('\n')
	for _, id := range it.EventIDs {
		b.WriteString(id)
		b.WriteByte('\n')
	}
	return b.String()
}

// Costs are integral, so the objective is printed without a fraction unless
// a backend reports one.
func formatObjective(v float64) string {
	if r := math.Round(v); math.Abs(v-r) < milp.Tolerance {
		return strconv.FormatInt(int64(r), 10)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
