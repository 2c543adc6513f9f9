package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/okian/fantrip/internal/seasongen"
	"github.com/okian/fantrip/pkg/logger"
)

// Default generator settings.
const (
	defaultTeams = 30
	defaultDays  = 180
	defaultSeed  = 1
)

func main() {
	var (
		teams    = flag.Int("teams", defaultTeams, "Number of teams")
		days     = flag.Int("days", defaultDays, "Season length in days")
		seed     = flag.Uint64("seed", defaultSeed, "Random seed; the same seed writes the same season")
		start    = flag.String("start", "2024-01-01", "First day of the season (YYYY-MM-DD)")
		timezone = flag.String("tz", "America/New_York", "Time zone games are scheduled in")
		out      = flag.String("out", "season", "Output directory")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	loc, err := time.LoadLocation(*timezone)
	if err != nil {
		os.Stderr.WriteString("Invalid time zone: " + err.Error() + "\n")
		os.Exit(1)
	}
	first, err := time.ParseInLocation(time.DateOnly, *start, loc)
	if err != nil {
		os.Stderr.WriteString("Invalid start day: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := &seasongen.Config{
		Teams:     *teams,
		Days:      *days,
		Seed:      *seed,
		Start:     first,
		Location:  loc,
		OutputDir: *out,
	}
	if err := seasongen.Run(ctx, cfg); err != nil {
		os.Stderr.WriteString("Generation failed: " + err.Error() + "\n")
		stop()
		os.Exit(1)
	}
}
