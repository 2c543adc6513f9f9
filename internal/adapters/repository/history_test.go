package repository_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"

	"github.com/okian/fantrip/internal/adapters/repository"
	"github.com/okian/fantrip/internal/domain/model"
)

func TestHistory(t *testing.T) {
	convey.Convey("Given a fresh history database", t, func() {
		ctx := context.Background()
		h, err := repository.OpenHistory(ctx, filepath.Join(t.TempDir(), "db", "history.db"))
		convey.So(err, convey.ShouldBeNil)
		defer h.Close()

		started := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
		run := &model.Run{
			ID:        "run-1",
			StartedAt: started,
			InputDir:  "/in",
			OutputDir: "/out",
			Elapsed:   1500 * time.Millisecond,
			Outcomes: []model.TeamOutcome{
				{
					TeamID: "pit", TeamName: "Pittsburgh", Status: model.StatusSolved, Hours: 9,
					Objectives: map[model.Measure]float64{
						model.TripDuration: 31, model.DrivingDistance: 1200, model.DrivingDuration: 800,
					},
					Elapsed: time.Second,
				},
				{
					TeamID: "ana", TeamName: "Anaheim", Status: model.StatusInfeasible,
					Err: errors.New("no feasible driving cap"), Elapsed: 2 * time.Second,
				},
			},
		}

		convey.Convey("When a run is recorded", func() {
			convey.So(h.RecordRun(ctx, run), convey.ShouldBeNil)

			convey.Convey("Then its outcomes read back in team order", func() {
				got, err := h.Outcomes(ctx, "run-1")
				convey.So(err, convey.ShouldBeNil)
				convey.So(got, convey.ShouldHaveLength, 2)
				convey.So(got[0].TeamID, convey.ShouldEqual, "ana")
				convey.So(got[0].Status, convey.ShouldEqual, model.StatusInfeasible)
				convey.So(got[0].Err.Error(), convey.ShouldEqual, "no feasible driving cap")
				convey.So(got[0].Objectives, convey.ShouldBeNil)
				convey.So(got[1].Hours, convey.ShouldEqual, 9)
				convey.So(got[1].Objectives[model.DrivingDistance], convey.ShouldEqual, 1200)
				convey.So(got[1].Elapsed, convey.ShouldEqual, time.Second)
			})

			convey.Convey("Then the run is listed", func() {
				runs, err := h.Runs(ctx, 0)
				convey.So(err, convey.ShouldBeNil)
				convey.So(runs, convey.ShouldHaveLength, 1)
				convey.So(runs[0].StartedAt.Equal(started), convey.ShouldBeTrue)
				convey.So(runs[0].Elapsed, convey.ShouldEqual, 1500*time.Millisecond)
			})

			convey.Convey("Then recording the same run id again fails", func() {
				convey.So(h.RecordRun(ctx, run), convey.ShouldNotBeNil)
				got, err := h.Outcomes(ctx, "run-1")
				convey.So(err, convey.ShouldBeNil)
				convey.So(got, convey.ShouldHaveLength, 2)
			})
		})

		convey.Convey("When several runs are recorded", func() {
			for i, id := range []string{"old", "mid", "new"} {
				r := *run
				r.ID = id
				r.StartedAt = started.Add(time.Duration(i) * time.Hour)
				convey.So(h.RecordRun(ctx, &r), convey.ShouldBeNil)
			}
			runs, err := h.Runs(ctx, 2)

			convey.Convey("Then the newest come first up to the limit", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(runs, convey.ShouldHaveLength, 2)
				convey.So(runs[0].ID, convey.ShouldEqual, "new")
				convey.So(runs[1].ID, convey.ShouldEqual, "mid")
			})
		})

		convey.Convey("When two runs start within the same second", func() {
			whole := *run
			whole.ID = "whole"
			whole.StartedAt = started.Add(5 * time.Second)
			fraction := *run
			fraction.ID = "fraction"
			fraction.StartedAt = started.Add(5*time.Second + 100*time.Millisecond)
			convey.So(h.RecordRun(ctx, &fraction), convey.ShouldBeNil)
			convey.So(h.RecordRun(ctx, &whole), convey.ShouldBeNil)

			runs, err := h.Runs(ctx, 0)

			convey.Convey("Then the later fraction is listed first", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(runs, convey.ShouldHaveLength, 2)
				convey.So(runs[0].ID, convey.ShouldEqual, "fraction")
				convey.So(runs[0].StartedAt.Equal(fraction.StartedAt), convey.ShouldBeTrue)
				convey.So(runs[1].ID, convey.ShouldEqual, "whole")
			})
		})

		convey.Convey("When an unknown run is requested", func() {
			_, err := h.Outcomes(ctx, "missing")

			convey.Convey("Then ErrRunNotFound is returned", func() {
				convey.So(errors.Is(err, repository.ErrRunNotFound), convey.ShouldBeTrue)
			})
		})
	})
}
