package planner

import (
	"github.com/okian/fantrip/internal/domain/model"
)

// Exclusions is a set of unordered team pairs that never meet inside the
// modeled region. An excluded partner is never a coverage target.
type Exclusions map[string]map[string]struct{}

// NewExclusions builds the set from id pairs. Malformed pairs are skipped;
// configuration validation rejects them earlier.
func NewExclusions(pairs [][]string) Exclusions {
	x := make(Exclusions, len(pairs)*2)
	for _, pair := range pairs {
		if len(pair) != 2 || pair[0] == pair[1] {
			continue
		}
		x.add(pair[0], pair[1])
		x.add(pair[1], pair[0])
	}
	return x
}

func (x Exclusions) add(a, b string) {
	if x[a] == nil {
		x[a] = make(map[string]struct{})
	}
	x[a][b] = struct{}{}
}

// Excluded reports whether the pair is excluded, in either order.
func (x Exclusions) Excluded(a, b string) bool {
	_, ok := x[a][b]
	return ok
}

// Targets lists the teams a fan of teamID must see play: every team except
// its excluded partners, restricted to the home teams of its away events.
// The order follows ds.Teams.
func Targets(ds *model.Dataset, teamID string, away []model.Event, x Exclusions) []string {
	opponents := make(map[string]struct{}, len(away))
	for _, e := range away {
		opponents[e.HomeTeamID] = struct{}{}
	}
	var out []string
	for _, t := range ds.Teams {
		if t.ID == teamID || x.Excluded(teamID, t.ID) {
			continue
		}
		if _, ok := opponents[t.ID]; ok {
			out = append(out, t.ID)
		}
	}
	return out
}
