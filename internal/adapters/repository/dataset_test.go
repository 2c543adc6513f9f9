package repository_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"

	"github.com/okian/fantrip/internal/adapters/repository"
	"github.com/okian/fantrip/internal/domain/model"
	"github.com/okian/fantrip/internal/testutil"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestLoadDataset(t *testing.T) {
	convey.Convey("Given an input directory written from the ABC dataset", t, func() {
		ctx := context.Background()
		dir := t.TempDir()
		convey.So(repository.WriteDataset(ctx, dir, testutil.ABC()), convey.ShouldBeNil)

		convey.Convey("When it is loaded", func() {
			ds, err := repository.LoadDataset(ctx, dir)

			convey.Convey("Then the dataset round-trips with events in order", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(ds.Teams, convey.ShouldHaveLength, 4)
				convey.So(ds.Events, convey.ShouldHaveLength, 3)
				convey.So(ds.Events[0].ID, convey.ShouldEqual, "A")
				convey.So(ds.Events[2].ID, convey.ShouldEqual, "C")
				convey.So(ds.Events[0].Time.Equal(testutil.Day(1)), convey.ShouldBeTrue)
				convey.So(ds.Duration["vb"]["vc"], convey.ShouldEqual, 20*3600)
				convey.So(ds.Venues, convey.ShouldBeEmpty)
			})
		})

		convey.Convey("When a required file is missing", func() {
			convey.So(os.Remove(filepath.Join(dir, repository.DurationFile)), convey.ShouldBeNil)
			_, err := repository.LoadDataset(ctx, dir)

			convey.Convey("Then the missing file is named", func() {
				convey.So(errors.Is(err, repository.ErrMissingFile), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, repository.DurationFile)
			})
		})

		convey.Convey("When the input directory does not exist", func() {
			_, err := repository.LoadDataset(ctx, filepath.Join(dir, "nope"))

			convey.Convey("Then it is a missing file error", func() {
				convey.So(errors.Is(err, repository.ErrMissingFile), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When a file is not valid JSON", func() {
			writeFile(t, dir, repository.TeamsFile, `{"teams": [`)
			_, err := repository.LoadDataset(ctx, dir)

			convey.Convey("Then it is invalid input", func() {
				convey.So(errors.Is(err, repository.ErrInvalidInput), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When an event time is not ISO-8601", func() {
			writeFile(t, dir, repository.EventsFile,
				`{"events": [{"id": "x", "time": "yesterday", "venue_id": "va", "home_team_id": "ha", "away_team_id": "vis"}]}`)
			_, err := repository.LoadDataset(ctx, dir)

			convey.Convey("Then it is invalid input", func() {
				convey.So(errors.Is(err, repository.ErrInvalidInput), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "yesterday")
			})
		})

		convey.Convey("When an event references an unknown team", func() {
			writeFile(t, dir, repository.EventsFile,
				`{"events": [{"id": "x", "time": "2024-01-01T12:00:00Z", "venue_id": "va", "home_team_id": "zz", "away_team_id": "vis"}]}`)
			_, err := repository.LoadDataset(ctx, dir)

			convey.Convey("Then it is invalid input", func() {
				convey.So(errors.Is(err, repository.ErrInvalidInput), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, `"zz"`)
			})
		})

		convey.Convey("When an event's venue is absent from a matrix", func() {
			writeFile(t, dir, repository.EventsFile,
				`{"events": [{"id": "x", "time": "2024-01-01T12:00:00Z", "venue_id": "vz", "home_team_id": "ha", "away_team_id": "vis"}]}`)
			_, err := repository.LoadDataset(ctx, dir)

			convey.Convey("Then it is invalid input", func() {
				convey.So(errors.Is(err, repository.ErrInvalidInput), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When a matrix holds a negative value", func() {
			writeFile(t, dir, repository.DistanceFile, `{"va": {"vb": -1}, "vb": {"va": 1}, "vc": {}}`)
			_, err := repository.LoadDataset(ctx, dir)

			convey.Convey("Then it is invalid input", func() {
				convey.So(errors.Is(err, repository.ErrInvalidInput), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When team ids are numbers and times carry no offset", func() {
			writeFile(t, dir, repository.TeamsFile,
				`{"teams": [{"id": 1610612737, "name": "Atlanta Hawks"}, {"id": 1610612738, "name": "Boston Celtics"}]}`)
			writeFile(t, dir, repository.EventsFile,
				`{"events": [{"id": "0022400061", "time": "2024-10-22T23:30:00", "venue_id": "va", "home_team_id": 1610612738, "away_team_id": 1610612737, "extra": true}]}`)
			ds, err := repository.LoadDataset(ctx, dir)

			convey.Convey("Then ids become strings and times UTC", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(ds.Teams[0].ID, convey.ShouldEqual, "1610612737")
				convey.So(ds.Events[0].HomeTeamID, convey.ShouldEqual, "1610612738")
				convey.So(ds.Events[0].Time.Equal(time.Date(2024, 10, 22, 23, 30, 0, 0, time.UTC)), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When venues.json is present", func() {
			writeFile(t, dir, repository.VenuesFile,
				`{"venues": [{"id": "va", "name": "Arena A", "address": "1 Main St", "place_id": "p1", "location": {"latitude": 36.1, "longitude": -86.7}}]}`)
			ds, err := repository.LoadDataset(ctx, dir)

			convey.Convey("Then the venues are carried along", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(ds.Venues, convey.ShouldHaveLength, 1)
				convey.So(ds.Venues[0].Location.Latitude, convey.ShouldEqual, 36.1)
			})
		})
	})
}

func TestValidate(t *testing.T) {
	base := func() *model.Dataset { return testutil.ABC() }

	tests := []struct {
		name   string
		mutate func(ds *model.Dataset)
	}{
		{name: "no teams", mutate: func(ds *model.Dataset) { ds.Teams = nil }},
		{name: "duplicate team", mutate: func(ds *model.Dataset) { ds.Teams = append(ds.Teams, ds.Teams[0]) }},
		{name: "colliding directories", mutate: func(ds *model.Dataset) {
			ds.Teams = append(ds.Teams, model.Team{ID: "x", Name: "ROAD RUNNERS"})
		}},
		{name: "blank name", mutate: func(ds *model.Dataset) { ds.Teams[0].Name = "  " }},
		{name: "duplicate event", mutate: func(ds *model.Dataset) { ds.Events = append(ds.Events, ds.Events[0]) }},
		{name: "self match", mutate: func(ds *model.Dataset) { ds.Events[0].HomeTeamID = ds.Events[0].AwayTeamID }},
		{name: "missing venue", mutate: func(ds *model.Dataset) { ds.Events[0].VenueID = "" }},
		{name: "venue missing from duration", mutate: func(ds *model.Dataset) { delete(ds.Duration, "va") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds := base()
			tt.mutate(ds)
			if err := repository.Validate(ds); !errors.Is(err, repository.ErrInvalidInput) {
				t.Fatalf("Validate() = %v, want ErrInvalidInput", err)
			}
		})
	}

	if err := repository.Validate(base()); err != nil {
		t.Fatalf("Validate(ABC) = %v", err)
	}
}
