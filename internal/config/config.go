// Package config defines process configuration and how it is loaded.
//
// Values are layered: defaults from New, then an optional YAML file named by
// TRACKMEET_CONFIG, then TRACKMEET_* environment variables.
package config

import (
	"fmt"
	"slices"
	"strings"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. "127.0.0.1:9080".
	Addr string `koanf:"addr"`

	// StoreBackend is one of memory, file or postgres.
	StoreBackend string `koanf:"store_backend"`

	// StoreDir holds one JSON file per key for the file backend.
	StoreDir string `koanf:"store_dir"`

	// PostgresDSN is required by the postgres backend.
	PostgresDSN string `koanf:"postgres_dsn"`

	// EventPoolFile optionally replaces the built-in event catalog.
	EventPoolFile string `koanf:"event_pool_file"`

	// ScoringPoints lists the points for 1st, 2nd, ... place.
	ScoringPoints []int `koanf:"scoring_points"`

	// RandomSeed makes sequence generation reproducible. 0 seeds from time.
	RandomSeed uint64 `koanf:"random_seed"`

	// DefaultTotalEvents and DefaultNumRelays fill in whatever a generate
	// request leaves out, over HTTP and on the CLI.
	DefaultTotalEvents int `koanf:"default_total_events"`
	DefaultNumRelays   int `koanf:"default_num_relays"`

	// MaxTeams caps a single team assignment.
	MaxTeams int `koanf:"max_teams"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:           "info",
		LogFormat:          "text",
		Addr:               "127.0.0.1:9080",
		StoreBackend:       "file",
		StoreDir:           "./data",
		ScoringPoints:      []int{10, 8, 6, 4, 2, 1},
		DefaultTotalEvents: 5,
		DefaultNumRelays:   1,
		MaxTeams:           50,
	}
}

var (
	logLevels  = []string{"debug", "info", "warn", "error"}
	logFormats = []string{"text", "json"}
	backends   = []string{"memory", "file", "postgres"}
)

// Validate reports the first invalid field.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case !slices.Contains(logLevels, strings.ToLower(c.LogLevel)):
		return fmt.Errorf("%w: log_level %q (want one of %s)", ErrInvalidConfig, c.LogLevel, strings.Join(logLevels, ", "))
	case !slices.Contains(logFormats, strings.ToLower(c.LogFormat)):
		return fmt.Errorf("%w: log_format %q (want text or json)", ErrInvalidConfig, c.LogFormat)
	case !slices.Contains(backends, c.StoreBackend):
		return fmt.Errorf("%w: store_backend %q (want one of %s)", ErrInvalidConfig, c.StoreBackend, strings.Join(backends, ", "))
	case c.StoreBackend == "file" && c.StoreDir == "":
		return fmt.Errorf("%w: store_dir must not be empty for the file backend", ErrInvalidConfig)
	case c.StoreBackend == "postgres" && c.PostgresDSN == "":
		return fmt.Errorf("%w: postgres_dsn is required for the postgres backend", ErrInvalidConfig)
	case len(c.ScoringPoints) == 0:
		return fmt.Errorf("%w: scoring_points must not be empty", ErrInvalidConfig)
	case c.DefaultTotalEvents < 1:
		return fmt.Errorf("%w: default_total_events must be at least 1", ErrInvalidConfig)
	case c.DefaultNumRelays < 0 || c.DefaultNumRelays > c.DefaultTotalEvents:
		return fmt.Errorf("%w: default_num_relays must be between 0 and default_total_events", ErrInvalidConfig)
	case c.MaxTeams < 1:
		return fmt.Errorf("%w: max_teams must be at least 1", ErrInvalidConfig)
	}
	for i, p := range c.ScoringPoints {
		if p < 0 {
			return fmt.Errorf("%w: scoring_points[%d] is negative", ErrInvalidConfig, i)
		}
	}
	return nil
}
