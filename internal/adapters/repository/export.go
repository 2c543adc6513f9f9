package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/okian/fantrip/internal/domain/model"
)

type teamJSON struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type eventJSON struct {
	ID         string `json:"id"`
	Time       string `json:"time"`
	VenueID    string `json:"venue_id"`
	HomeTeamID string `json:"home_team_id"`
	AwayTeamID string `json:"away_team_id"`
}

// WriteDataset writes ds as an input directory LoadDataset can read.
// venues.json is only written when the dataset carries venues.
func WriteDataset(ctx context.Context, dir string, ds *model.Dataset) error {
	if err := os.MkdirAll(dir, defaultDirMode); err != nil {
		return fmt.Errorf("create dataset directory: %w", err)
	}

	teams := make([]teamJSON, 0, len(ds.Teams))
	for _, t := range ds.Teams {
		teams = append(teams, teamJSON(t))
	}
	events := make([]eventJSON, 0, len(ds.Events))
	for _, e := range ds.Events {
		events = append(events, eventJSON{
			ID:         e.ID,
			Time:       e.Time.UTC().Format(time.RFC3339),
			VenueID:    e.VenueID,
			HomeTeamID: e.HomeTeamID,
			AwayTeamID: e.AwayTeamID,
		})
	}

	files := map[string]any{
		TeamsFile:    map[string]any{"teams": teams},
		EventsFile:   map[string]any{"events": events},
		DistanceFile: ds.Distance,
		DurationFile: ds.Duration,
	}
	if len(ds.Venues) > 0 {
		files[VenuesFile] = map[string]any{"venues": ds.Venues}
	}
	for name, v := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		b, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("encode %s: %w", name, err)
		}
		if err := os.WriteFile(filepath.Join(dir, name), append(b, '\n'), defaultFileMode); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
	}
	return nil
}
