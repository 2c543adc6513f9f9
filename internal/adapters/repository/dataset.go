package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/okian/fantrip/internal/domain/model"
)

// Input file names.
const (
	TeamsFile    = "teams.json"
	EventsFile   = "events.json"
	DistanceFile = "distance_matrix.json"
	DurationFile = "duration_matrix.json"
	VenuesFile   = "venues.json"
)

// RequiredFiles lists the files an input directory must contain.
var RequiredFiles = []string{TeamsFile, EventsFile, DistanceFile, DurationFile}

// naiveTime is accepted for event times without an offset; they are UTC.
const naiveTime = "2006-01-02T15:04:05"

// id accepts both JSON strings and numbers; some schedule sources number
// their teams.
type id string

func (i *id) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*i = id(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id must be a string or a number: %w", err)
	}
	*i = id(n.String())
	return nil
}

type teamsDoc struct {
	Teams []struct {
		ID   id     `json:"id"`
		Name string `json:"name"`
	} `json:"teams"`
}

type eventsDoc struct {
	Events []struct {
		ID         id     `json:"id"`
		Time       string `json:"time"`
		VenueID    id     `json:"venue_id"`
		HomeTeamID id     `json:"home_team_id"`
		AwayTeamID id     `json:"away_team_id"`
	} `json:"events"`
}

type venuesDoc struct {
	Venues []struct {
		ID        id           `json:"id"`
		Name      string       `json:"name"`
		PlaceName string       `json:"place_name"`
		Address   string       `json:"address"`
		PlaceID   string       `json:"place_id"`
		Location  model.LatLng `json:"location"`
	} `json:"venues"`
}

// LoadDataset reads and validates an input directory. Every problem is
// reported before any planning starts.
func LoadDataset(ctx context.Context, dir string) (*model.Dataset, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: input directory %s: %w", ErrMissingFile, dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrInvalidInput, dir)
	}
	var missing []string
	for _, name := range RequiredFiles {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s in %s", ErrMissingFile, strings.Join(missing, ", "), dir)
	}

	var (
		teams  teamsDoc
		events eventsDoc
		ds     model.Dataset
	)
	if err := readJSON(dir, TeamsFile, &teams); err != nil {
		return nil, err
	}
	if err := readJSON(dir, EventsFile, &events); err != nil {
		return nil, err
	}
	if err := readJSON(dir, DistanceFile, &ds.Distance); err != nil {
		return nil, err
	}
	if err := readJSON(dir, DurationFile, &ds.Duration); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var venues venuesDoc
	switch err := readJSON(dir, VenuesFile, &venues); {
	case err == nil:
		for _, v := range venues.Venues {
			ds.Venues = append(ds.Venues, model.Venue{
				ID: string(v.ID), Name: v.Name, PlaceName: v.PlaceName,
				Address: v.Address, PlaceID: v.PlaceID, Location: v.Location,
			})
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return nil, err
	}

	for _, t := range teams.Teams {
		ds.Teams = append(ds.Teams, model.Team{ID: string(t.ID), Name: t.Name})
	}
	for i, e := range events.Events {
		ts, err := parseTime(e.Time)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: events[%d] (%s): %w", ErrInvalidInput, EventsFile, i, e.ID, err)
		}
		ds.Events = append(ds.Events, model.Event{
			ID:         string(e.ID),
			Time:       ts,
			VenueID:    string(e.VenueID),
			HomeTeamID: string(e.HomeTeamID),
			AwayTeamID: string(e.AwayTeamID),
		})
	}
	model.SortChronologically(ds.Events)

	if err := Validate(&ds); err != nil {
		return nil, err
	}
	return &ds, nil
}

func readJSON(dir, name string, v any) error {
	b, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s: %w", ErrMissingFile, name, err)
		}
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidInput, name, err)
	}
	return nil
}

func parseTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(naiveTime, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("time %q is not ISO-8601", s)
	}
	return t, nil
}

// Validate checks the referential integrity of a dataset.
func Validate(ds *model.Dataset) error {
	if len(ds.Teams) == 0 {
		return fmt.Errorf("%w: %s: no teams", ErrInvalidInput, TeamsFile)
	}
	teams := make(map[string]struct{}, len(ds.Teams))
	dirs := make(map[string]string, len(ds.Teams))
	for i, t := range ds.Teams {
		if t.ID == "" || strings.TrimSpace(t.Name) == "" {
			return fmt.Errorf("%w: %s: teams[%d] needs an id and a name", ErrInvalidInput, TeamsFile, i)
		}
		if _, dup := teams[t.ID]; dup {
			return fmt.Errorf("%w: %s: duplicate team id %s", ErrInvalidInput, TeamsFile, t.ID)
		}
		teams[t.ID] = struct{}{}
		d := TeamDir(t.Name)
		if d == "." || d == ".." {
			return fmt.Errorf("%w: %s: team %s has no usable directory name", ErrInvalidInput, TeamsFile, t.ID)
		}
		if other, dup := dirs[d]; dup {
			return fmt.Errorf("%w: %s: teams %s and %s share the output directory %s",
				ErrInvalidInput, TeamsFile, other, t.ID, d)
		}
		dirs[d] = t.ID
	}

	for name, m := range map[string]model.VenueMatrix{DistanceFile: ds.Distance, DurationFile: ds.Duration} {
		for from, row := range m {
			for to, v := range row {
				if v < 0 {
					return fmt.Errorf("%w: %s: negative cost %d for %s -> %s", ErrInvalidInput, name, v, from, to)
				}
			}
		}
	}

	events := make(map[string]struct{}, len(ds.Events))
	for _, e := range ds.Events {
		if e.ID == "" {
			return fmt.Errorf("%w: %s: event without id", ErrInvalidInput, EventsFile)
		}
		if _, dup := events[e.ID]; dup {
			return fmt.Errorf("%w: %s: duplicate event id %s", ErrInvalidInput, EventsFile, e.ID)
		}
		events[e.ID] = struct{}{}
		for _, team := range [2]string{e.HomeTeamID, e.AwayTeamID} {
			if _, ok := teams[team]; !ok {
				return fmt.Errorf("%w: %s: event %s references unknown team %q", ErrInvalidInput, EventsFile, e.ID, team)
			}
		}
		if e.HomeTeamID == e.AwayTeamID {
			return fmt.Errorf("%w: %s: event %s has the same home and away team", ErrInvalidInput, EventsFile, e.ID)
		}
		if e.VenueID == "" {
			return fmt.Errorf("%w: %s: event %s has no venue", ErrInvalidInput, EventsFile, e.ID)
		}
		if _, ok := ds.Distance[e.VenueID]; !ok {
			return fmt.Errorf("%w: %s: venue %s of event %s is missing", ErrInvalidInput, DistanceFile, e.VenueID, e.ID)
		}
		if _, ok := ds.Duration[e.VenueID]; !ok {
			return fmt.Errorf("%w: %s: venue %s of event %s is missing", ErrInvalidInput, DurationFile, e.VenueID, e.ID)
		}
	}
	return nil
}
