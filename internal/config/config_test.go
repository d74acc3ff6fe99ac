package config_test

import (
	"errors"
	"testing"

	"github.com/okian/trackmeet/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, "127.0.0.1:9080")
			convey.So(cfg.StoreBackend, convey.ShouldEqual, "file")
			convey.So(cfg.StoreDir, convey.ShouldEqual, "./data")
			convey.So(cfg.ScoringPoints, convey.ShouldResemble, []int{10, 8, 6, 4, 2, 1})
			convey.So(cfg.DefaultTotalEvents, convey.ShouldEqual, 5)
			convey.So(cfg.DefaultNumRelays, convey.ShouldEqual, 1)
			convey.So(cfg.MaxTeams, convey.ShouldEqual, 50)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given configs with one bad field", t, func() {
		cases := map[string]func(*config.Config){
			"log_level":            func(c *config.Config) { c.LogLevel = "loud" },
			"log_format":           func(c *config.Config) { c.LogFormat = "xml" },
			"store_backend":        func(c *config.Config) { c.StoreBackend = "redis" },
			"store_dir":            func(c *config.Config) { c.StoreDir = "" },
			"postgres_dsn":         func(c *config.Config) { c.StoreBackend = "postgres" },
			"scoring_points":       func(c *config.Config) { c.ScoringPoints = []int{10, -1} },
			"default_total_events": func(c *config.Config) { c.DefaultTotalEvents = 0 },
			"default_num_relays":   func(c *config.Config) { c.DefaultNumRelays = 6 },
			"max_teams":            func(c *config.Config) { c.MaxTeams = 0 },
		}
		for field, mutate := range cases {
			cfg := config.New()
			mutate(cfg)
			err := cfg.Validate()

			convey.Convey("Then "+field+" is rejected", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, field)
			})
		}
	})
}
