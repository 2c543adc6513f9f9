package model_test

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/fantrip/internal/domain/model"
)

func TestNode(t *testing.T) {
	Convey("Given the node kinds", t, func() {
		event := model.Real("A")
		sentinel := model.Sentinel()
		var zero model.Node

		Convey("Then a real node carries its event id", func() {
			So(event.IsReal(), ShouldBeTrue)
			So(event.IsSentinel(), ShouldBeFalse)
			So(event.EventID(), ShouldEqual, "A")
			So(event.String(), ShouldEqual, "A")
		})

		Convey("Then the sentinel has no event id", func() {
			So(sentinel.IsSentinel(), ShouldBeTrue)
			So(sentinel.IsReal(), ShouldBeFalse)
			So(sentinel.EventID(), ShouldBeEmpty)
			So(sentinel.String(), ShouldEqual, "<sentinel>")
		})

		Convey("Then the zero node is neither", func() {
			So(zero.IsReal(), ShouldBeFalse)
			So(zero.IsSentinel(), ShouldBeFalse)
			So(zero.String(), ShouldEqual, "<invalid>")
		})

		Convey("Then nodes compare by kind and id", func() {
			So(model.Real("A") == event, ShouldBeTrue)
			So(model.Real("B") == event, ShouldBeFalse)
			So(model.Sentinel() == sentinel, ShouldBeTrue)
		})
	})
}

func TestVenueMatrix_Lookup(t *testing.T) {
	m := model.VenueMatrix{"a": {"b": 10}}
	tests := []struct {
		name     string
		from, to string
		want     int64
		ok       bool
	}{
		{"present", "a", "b", 10, true},
		{"missing reverse", "b", "a", 0, false},
		{"same venue without entry", "c", "c", 0, true},
		{"unknown", "a", "c", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := m.Lookup(tt.from, tt.to)
			if got != tt.want || ok != tt.ok {
				t.Fatalf("Lookup(%s, %s) = %d, %v; want %d, %v", tt.from, tt.to, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestDataset(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2024, time.January, d, 12, 0, 0, 0, time.UTC) }

	Convey("Given a dataset with unordered events", t, func() {
		ds := &model.Dataset{
			Teams: []model.Team{{ID: "v", Name: "Visitors"}, {ID: "h", Name: "Hosts"}},
			Events: []model.Event{
				{ID: "3", Time: day(5), HomeTeamID: "h", AwayTeamID: "v"},
				{ID: "2", Time: day(2), HomeTeamID: "v", AwayTeamID: "h"},
				{ID: "1", Time: day(2), HomeTeamID: "h", AwayTeamID: "v"},
			},
		}

		Convey("Then AwayEvents returns the visitor's games in order", func() {
			away := ds.AwayEvents("v")
			So(away, ShouldHaveLength, 2)
			So(away[0].ID, ShouldEqual, "1")
			So(away[1].ID, ShouldEqual, "3")
		})

		Convey("Then AwayEvents leaves the dataset untouched", func() {
			_ = ds.AwayEvents("v")
			So(ds.Events[0].ID, ShouldEqual, "3")
		})

		Convey("Then Team finds teams by id", func() {
			team, ok := ds.Team("h")
			So(ok, ShouldBeTrue)
			So(team.Name, ShouldEqual, "Hosts")
			_, ok = ds.Team("x")
			So(ok, ShouldBeFalse)
		})

		Convey("Then SortChronologically breaks ties by id", func() {
			events := append([]model.Event(nil), ds.Events...)
			model.SortChronologically(events)
			So([]string{events[0].ID, events[1].ID, events[2].ID}, ShouldResemble, []string{"1", "2", "3"})
		})

		Convey("Then Involves covers both sides", func() {
			So(ds.Events[0].Involves("v"), ShouldBeTrue)
			So(ds.Events[0].Involves("h"), ShouldBeTrue)
			So(ds.Events[0].Involves("x"), ShouldBeFalse)
		})
	})
}

func TestRun_Count(t *testing.T) {
	Convey("Given a run with mixed outcomes", t, func() {
		run := &model.Run{Outcomes: []model.TeamOutcome{
			{TeamID: "a", Status: model.StatusSolved},
			{TeamID: "b", Status: model.StatusInfeasible},
			{TeamID: "c", Status: model.StatusSolved},
		}}

		So(run.Count(model.StatusSolved), ShouldEqual, 2)
		So(run.Count(model.StatusInfeasible), ShouldEqual, 1)
		So(run.Count(model.StatusFailed), ShouldEqual, 0)
		So(run.OK(), ShouldBeFalse)

		Convey("When every team is solved", func() {
			run.Outcomes[1].Status = model.StatusSolved
			So(run.OK(), ShouldBeTrue)
		})
	})
}

func TestMeasure_FileName(t *testing.T) {
	want := []string{"trip_duration.txt", "driving_distance.txt", "driving_duration.txt"}
	for i, m := range model.Measures {
		if got := m.FileName(); got != want[i] {
			t.Errorf("%s.FileName() = %q, want %q", m, got, want[i])
		}
	}
}
