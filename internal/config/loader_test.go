package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/trackmeet/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()
		defer clearConfigEnvVars()

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldResemble, config.New())
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("TRACKMEET_ADDR", ":8080")
			_ = os.Setenv("TRACKMEET_STORE_BACKEND", "memory")
			_ = os.Setenv("TRACKMEET_RANDOM_SEED", "42")
			_ = os.Setenv("TRACKMEET_SCORING_POINTS", "5,3,1")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.StoreBackend, convey.ShouldEqual, "memory")
				convey.So(cfg.RandomSeed, convey.ShouldEqual, uint64(42))
				convey.So(cfg.ScoringPoints, convey.ShouldResemble, []int{5, 3, 1})
			})
		})

		convey.Convey("When loading config with a YAML file", func() {
			tmpFile := createTempConfigFile(`
addr: ":9090"
store_dir: /var/lib/trackmeet
scoring_points: [12, 9]
default_total_events: 8
default_num_relays: 2
`)
			_ = os.Setenv("TRACKMEET_CONFIG", tmpFile)

			cfg, err := config.Load(ctx)

			convey.Convey("Then file values replace defaults and the rest stay", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.StoreDir, convey.ShouldEqual, "/var/lib/trackmeet")
				convey.So(cfg.ScoringPoints, convey.ShouldResemble, []int{12, 9})
				convey.So(cfg.DefaultTotalEvents, convey.ShouldEqual, 8)
				convey.So(cfg.DefaultNumRelays, convey.ShouldEqual, 2)
				convey.So(cfg.MaxTeams, convey.ShouldEqual, 50)
			})

			convey.Convey("And env vars override the file", func() {
				_ = os.Setenv("TRACKMEET_ADDR", ":7070")
				_ = os.Setenv("TRACKMEET_DEFAULT_NUM_RELAYS", "0")

				cfg, err := config.Load(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":7070")
				convey.So(cfg.DefaultNumRelays, convey.ShouldEqual, 0)
				convey.So(cfg.DefaultTotalEvents, convey.ShouldEqual, 8)
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			_ = os.Setenv("TRACKMEET_CONFIG", createTempConfigFile(`invalid: yaml: content: [`))

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("TRACKMEET_CONFIG", "/non/existent/file.yaml")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with empty addr", func() {
			_ = os.Setenv("TRACKMEET_ADDR", "")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "addr must not be empty")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When the postgres backend has no DSN", func() {
			_ = os.Setenv("TRACKMEET_STORE_BACKEND", "postgres")

			_, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})
	})
}

var configEnvVars = []string{
	"TRACKMEET_CONFIG",
	"TRACKMEET_ADDR",
	"TRACKMEET_STORE_BACKEND",
	"TRACKMEET_RANDOM_SEED",
	"TRACKMEET_SCORING_POINTS",
	"TRACKMEET_DEFAULT_NUM_RELAYS",
}

func clearConfigEnvVars() {
	for _, v := range configEnvVars {
		_ = os.Unsetenv(v)
	}
}

func createTempConfigFile(content string) string {
	path := filepath.Join(os.TempDir(), "trackmeet-config-test.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		panic(err)
	}
	return path
}
