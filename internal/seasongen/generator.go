package seasongen

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/okian/fantrip/internal/domain/model"
	"github.com/okian/fantrip/pkg/logger"
)

// generator holds the random sources of one Generate call. ids draws
// UUIDs, rng everything else, so adding a team does not shift the schedule
// of the existing ones.
type generator struct {
	cfg *Config
	ids *rand.ChaCha8
	rng *rand.Rand
}

func newGenerator(cfg *Config) *generator {
	var seed [32]byte
	binary.LittleEndian.PutUint64(seed[:], cfg.Seed)
	return &generator{
		cfg: cfg,
		ids: rand.NewChaCha8(seed),
		rng: rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15)),
	}
}

// Generate builds a dataset: one home venue per team, full symmetric
// distance and duration matrices, and a schedule where every day a random
// pairing of teams plays some games.
func Generate(ctx context.Context, cfg *Config) (*model.Dataset, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	g := newGenerator(cfg)

	ds := &model.Dataset{}
	for i := 0; i < cfg.Teams; i++ {
		team, err := g.newID()
		if err != nil {
			return nil, err
		}
		venue, err := g.newID()
		if err != nil {
			return nil, err
		}
		city := cities[i%len(cities)]
		ds.Teams = append(ds.Teams, model.Team{ID: team, Name: teamName(i)})
		ds.Venues = append(ds.Venues, model.Venue{
			ID:        venue,
			Name:      city + " Stadium",
			PlaceName: city,
			Location: model.LatLng{
				Latitude:  minLatitude + g.rng.Float64()*latitudeSpan,
				Longitude: minLongitude + g.rng.Float64()*longitudeSpan,
			},
		})
	}
	ds.Distance, ds.Duration = matrices(ds.Venues)

	events, err := g.schedule(ctx, ds)
	if err != nil {
		return nil, err
	}
	ds.Events = events

	logger.Get().Info(ctx, "generated season",
		logger.Int("teams", len(ds.Teams)),
		logger.Int("days", cfg.Days),
		logger.Int("events", len(ds.Events)))
	return ds, nil
}

func (g *generator) newID() (string, error) {
	id, err := uuid.NewRandomFromReader(g.ids)
	if err != nil {
		return "", fmt.Errorf("generate id: %w", err)
	}
	return id.String(), nil
}

// schedule pairs shuffled teams day by day. A team plays at most once a day
// and the home side hosts at its own venue.
func (g *generator) schedule(ctx context.Context, ds *model.Dataset) ([]model.Event, error) {
	loc := g.cfg.location()
	start := g.cfg.Start
	if start.IsZero() {
		start = time.Date(2024, time.January, 1, 0, 0, 0, 0, loc)
	}
	y, m, d := start.In(loc).Date()

	order := make([]int, len(ds.Teams))
	for i := range order {
		order[i] = i
	}
	var events []model.Event
	for day := 0; day < g.cfg.Days; day++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("context cancelled during schedule generation: %w", err)
		}
		g.rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
		for k := 0; k+1 < len(order); k += 2 {
			if g.rng.Float64() >= gameProbability {
				continue
			}
			home, away := order[k], order[k+1]
			hour := kickoffHours[g.rng.IntN(len(kickoffHours))]
			events = append(events, model.Event{
				ID:         "g" + strconv.Itoa(len(events)+1),
				Time:       time.Date(y, m, d+day, hour, 0, 0, 0, loc).UTC(),
				VenueID:    ds.Venues[home].ID,
				HomeTeamID: ds.Teams[home].ID,
				AwayTeamID: ds.Teams[away].ID,
			})
		}
	}
	return events, nil
}

// teamName combines a city and a mascot. Names stay unique past the
// number of combinations by appending a counter.
func teamName(i int) string {
	name := cities[i%len(cities)] + " " + mascots[(i/len(cities))%len(mascots)]
	if round := i / (len(cities) * len(mascots)); round > 0 {
		name += " " + strconv.Itoa(round+1)
	}
	return name
}

// matrices derives road distance (meters) and driving time (seconds) from
// the great-circle distance between venues.
func matrices(venues []model.Venue) (distance, duration model.VenueMatrix) {
	distance = make(model.VenueMatrix, len(venues))
	duration = make(model.VenueMatrix, len(venues))
	for _, a := range venues {
		distance[a.ID] = make(map[string]int64, len(venues))
		duration[a.ID] = make(map[string]int64, len(venues))
		for _, b := range venues {
			meters := roadFactor * haversine(a.Location, b.Location)
			distance[a.ID][b.ID] = int64(math.Round(meters))
			duration[a.ID][b.ID] = int64(math.Round(meters / averageSpeed))
		}
	}
	return distance, duration
}

func haversine(a, b model.LatLng) float64 {
	rad := func(deg float64) float64 { return deg * math.Pi / 180 }
	dLat := rad(b.Latitude - a.Latitude)
	dLng := rad(b.Longitude - a.Longitude)
	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rad(a.Latitude))*math.Cos(rad(b.Latitude))*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusM * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}
