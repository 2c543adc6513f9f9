package costmatrix

import "github.com/okian/fantrip/internal/domain/model"

// Matchups is a sparse event -> participating teams mapping. A missing team
// means the team does not play in the event.
type Matchups map[model.Node]map[string]struct{}

// BuildMatchups marks both the home and the away team of every event. The
// sentinel maps to an empty set.
func BuildMatchups(events []model.Event) Matchups {
	m := make(Matchups, len(events)+1)
	for _, e := range events {
		m[model.Real(e.ID)] = map[string]struct{}{
			e.HomeTeamID: {},
			e.AwayTeamID: {},
		}
	}
	m[model.Sentinel()] = map[string]struct{}{}
	return m
}

// Has reports whether team plays in the event at node n.
func (m Matchups) Has(n model.Node, teamID string) bool {
	_, ok := m[n][teamID]
	return ok
}
