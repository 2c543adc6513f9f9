package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	app "github.com/okian/fantrip/internal/app"
	"github.com/okian/fantrip/internal/config"
	"github.com/okian/fantrip/internal/domain/model"
	"github.com/okian/fantrip/internal/domain/planner"
	"github.com/okian/fantrip/pkg/logger"
)

// Exit codes.
const (
	exitOK         = 0
	exitUsage      = 1
	exitIncomplete = 2
)

// serviceOptions are appended to the configured service options.
var serviceOptions []app.Option

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("fantrip", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "YAML configuration file (default $FANTRIP_CONFIG)")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: fantrip [-config file] <input_dir> <output_dir>")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	if fs.NArg() != 2 {
		fs.Usage()
		return exitUsage
	}
	inputDir, outputDir := fs.Arg(0), fs.Arg(1)

	cfg, err := config.Load(ctx, *configPath)
	if err != nil {
		fmt.Fprintf(stderr, "fantrip: %v\n", err)
		return exitUsage
	}

	if err := logger.Init(logger.WithOutput(stderr), logger.WithFormat(cfg.LogFormat)); err != nil {
		fmt.Fprintf(stderr, "fantrip: %v\n", err)
		return exitUsage
	}
	defer func() { _ = logger.Sync() }()
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		_ = logger.SetLevelString("info")
		logger.Get().Warn(ctx, "invalid log level, using info", logger.String("level", cfg.LogLevel))
	}
	log := logger.Get().Named("main")

	svc, err := app.FromConfig(ctx, cfg, serviceOptions...)
	if err != nil {
		fmt.Fprintf(stderr, "fantrip: %v\n", err)
		return exitUsage
	}
	defer func() {
		if err := svc.Close(); err != nil {
			log.Error(ctx, "closing service failed", logger.Error(err))
		}
	}()

	result, err := svc.Run(ctx, inputDir, outputDir)
	if result == nil {
		fmt.Fprintf(stderr, "fantrip: %v\n", err)
		return exitUsage
	}
	report(stdout, result)
	if err != nil {
		fmt.Fprintf(stderr, "fantrip: %v\n", err)
		return exitIncomplete
	}
	if !result.OK() {
		return exitIncomplete
	}
	return exitOK
}

// report prints one line per team followed by a summary.
func report(w io.Writer, run *model.Run) {
	for _, o := range run.Outcomes {
		switch {
		case o.Status == model.StatusSolved:
			fmt.Fprintf(w, "%-10s %s (H=%d)\n", o.Status, o.TeamName, o.Hours)
		case o.Err != nil:
			fmt.Fprintf(w, "%-10s %s: %v\n", o.Status, o.TeamName, unwrapTeam(o.Err))
		default:
			fmt.Fprintf(w, "%-10s %s\n", o.Status, o.TeamName)
		}
	}
	fmt.Fprintf(w, "run %s: %d solved, %d infeasible, %d failed in %s\n",
		run.ID,
		run.Count(model.StatusSolved),
		run.Count(model.StatusInfeasible),
		run.Count(model.StatusFailed),
		run.Elapsed.Round(time.Millisecond))
}

// unwrapTeam drops the team prefix the line already shows.
func unwrapTeam(err error) error {
	var te *planner.TeamError
	if errors.As(err, &te) {
		return te.Err
	}
	return err
}
