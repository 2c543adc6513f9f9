package testutil

import (
	"time"

	"github.com/okian/fantrip/internal/domain/model"
)

// Team ids of the ABC dataset.
const (
	Visitors = "vis"
	HomeA    = "ha"
	HomeB    = "hb"
	HomeC    = "hc"
)

// ABCHours is the smallest daily cap at which A -> B -> C can be driven
// under the default rule in UTC.
const ABCHours = 5

// Day returns noon UTC on the given day of January 2024.
func Day(d int) time.Time {
	return time.Date(2024, time.January, d, 12, 0, 0, 0, time.UTC)
}

// ABC returns three games of the visitors at three venues:
//
//	A on Jan 1, B on Jan 3, C on Jan 6, all at noon UTC.
//
// Driving A->B takes 3h, B->C 20h and A->C 25h. Covering all three home
// teams forces A -> B -> C, which needs 5 hours per day for the B -> C leg.
func ABC() *model.Dataset {
	return &model.Dataset{
		Teams: []model.Team{
			{ID: Visitors, Name: "Road Runners"},
			{ID: HomeA, Name: "Alpha Club"},
			{ID: HomeB, Name: "Beta/Gamma United"},
			{ID: HomeC, Name: "Charlie FC"},
		},
		Events: []model.Event{
			{ID: "C", Time: Day(6), VenueID: "vc", HomeTeamID: HomeC, AwayTeamID: Visitors},
			{ID: "A", Time: Day(1), VenueID: "va", HomeTeamID: HomeA, AwayTeamID: Visitors},
			{ID: "B", Time: Day(3), VenueID: "vb", HomeTeamID: HomeB, AwayTeamID: Visitors},
		},
		Duration: Symmetric(map[[2]string]int64{
			{"va", "vb"}: 3 * 3600,
			{"vb", "vc"}: 20 * 3600,
			{"va", "vc"}: 25 * 3600,
		}),
		Distance: Symmetric(map[[2]string]int64{
			{"va", "vb"}: 300_000,
			{"vb", "vc"}: 2_000_000,
			{"va", "vc"}: 2_600_000,
		}),
	}
}

// Symmetric builds a venue matrix holding every pair in both directions.
func Symmetric(pairs map[[2]string]int64) model.VenueMatrix {
	m := make(model.VenueMatrix)
	set := func(a, b string, v int64) {
		if m[a] == nil {
			m[a] = make(map[string]int64)
		}
		m[a][b] = v
	}
	for k, v := range pairs {
		set(k[0], k[1], v)
		set(k[1], k[0], v)
		set(k[0], k[0], 0)
		set(k[1], k[1], 0)
	}
	return m
}
