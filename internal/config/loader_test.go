package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/fantrip/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()
		defer clearConfigEnvVars()

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load(ctx, "")

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 16)
				convey.So(cfg.Timezone, convey.ShouldEqual, "America/New_York")
				convey.So(cfg.Exclusions, convey.ShouldBeEmpty)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("FANTRIP_WORKER_COUNT", "4")
			_ = os.Setenv("FANTRIP_TIMEZONE", "America/Chicago")
			_ = os.Setenv("FANTRIP_SOLVER_SERIALIZE", "true")

			cfg, err := config.Load(ctx, "")

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 4)
				convey.So(cfg.Timezone, convey.ShouldEqual, "America/Chicago")
				convey.So(cfg.SolverSerialize, convey.ShouldBeTrue)
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			path := createTempConfigFile(t, `
worker_count: 8
event_length_minutes: 150
max_driving_hours: 12
exclusions:
  - ["nsh", "pit"]
  - ["orl", "mem"]
history_db: /tmp/history.db
`)

			cfg, err := config.Load(ctx, path)

			convey.Convey("Then it should load from YAML file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 8)
				convey.So(cfg.EventLengthMinutes, convey.ShouldEqual, 150)
				convey.So(cfg.MaxDrivingHours, convey.ShouldEqual, 12)
				convey.So(cfg.Exclusions, convey.ShouldResemble, [][]string{{"nsh", "pit"}, {"orl", "mem"}})
				convey.So(cfg.HistoryDB, convey.ShouldEqual, "/tmp/history.db")
				convey.So(cfg.BufferMinutes, convey.ShouldEqual, 60) // From defaults
			})
		})

		convey.Convey("When the file path comes from FANTRIP_CONFIG and env overrides it", func() {
			path := createTempConfigFile(t, "worker_count: 8\nbuffer_minutes: 30\n")
			_ = os.Setenv("FANTRIP_CONFIG", path)
			_ = os.Setenv("FANTRIP_WORKER_COUNT", "32")

			cfg, err := config.Load(ctx, "")

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 32)  // Overridden by env
				convey.So(cfg.BufferMinutes, convey.ShouldEqual, 30) // From file
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			path := createTempConfigFile(t, `invalid: yaml: content: [`)

			cfg, err := config.Load(ctx, path)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			cfg, err := config.Load(ctx, "/non/existent/file.yaml")

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("FANTRIP_WORKER_COUNT", "not_a_number")

			cfg, err := config.Load(ctx, "")

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config that fails validation", func() {
			_ = os.Setenv("FANTRIP_MIN_DRIVING_HOURS", "0")

			cfg, err := config.Load(ctx, "")

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

// Helper functions.

func clearConfigEnvVars() {
	envVars := []string{
		"FANTRIP_CONFIG",
		"FANTRIP_WORKER_COUNT",
		"FANTRIP_TIMEZONE",
		"FANTRIP_SOLVER_SERIALIZE",
		"FANTRIP_MIN_DRIVING_HOURS",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fantrip.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}
