package seasongen

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/fantrip/internal/adapters/repository"
	"github.com/okian/fantrip/pkg/logger"
)

// Run generates a dataset, checks it against the input rules of the
// planner and writes it to cfg.OutputDir.
func Run(ctx context.Context, cfg *Config) error {
	started := time.Now()
	logger.Get().Info(ctx, "starting season generation",
		logger.Int("teams", cfg.Teams),
		logger.Int("days", cfg.Days),
		logger.Any("seed", cfg.Seed),
		logger.String("output", cfg.OutputDir))

	ds, err := Generate(ctx, cfg)
	if err != nil {
		return fmt.Errorf("season generation failed: %w", err)
	}
	if err := repository.Validate(ds); err != nil {
		return fmt.Errorf("generated season is invalid: %w", err)
	}
	if err := repository.WriteDataset(ctx, cfg.OutputDir, ds); err != nil {
		return fmt.Errorf("writing season failed: %w", err)
	}

	logger.Get().Info(ctx, "season written",
		logger.String("output", cfg.OutputDir),
		logger.Duration("elapsed", time.Since(started)))
	return nil
}
