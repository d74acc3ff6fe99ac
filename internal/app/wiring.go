package service

import (
	"context"
	"fmt"
	"os"

	"github.com/okian/trackmeet/internal/adapters/storage"
	"github.com/okian/trackmeet/internal/config"
	"github.com/okian/trackmeet/internal/domain/model"
	"github.com/okian/trackmeet/internal/domain/scoring"
	"github.com/okian/trackmeet/internal/domain/sequencer"
)

// NewFromConfig opens the configured store and builds a Service around it.
// Options given here override the configured ones.
func NewFromConfig(ctx context.Context, cfg *config.Config, opts ...Option) (*Service, error) {
	st, err := storage.Open(ctx, cfg.StoreBackend,
		storage.WithDir(cfg.StoreDir),
		storage.WithDSN(cfg.PostgresDSN),
	)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.StoreBackend, err)
	}

	pool, err := LoadEventPool(cfg.EventPoolFile)
	if err != nil {
		_ = st.Close()
		return nil, err
	}

	var seqOpts []sequencer.Option
	if cfg.RandomSeed != 0 {
		seqOpts = append(seqOpts, sequencer.WithSeed(cfg.RandomSeed))
	}

	base := []Option{
		WithStore(st),
		WithSequencer(sequencer.New(seqOpts...)),
		WithScoringTable(scoring.NewTable(cfg.ScoringPoints...)),
		WithDefaultEventPool(pool),
		WithMaxTeams(cfg.MaxTeams),
		WithGenerationDefaults(cfg.DefaultTotalEvents, cfg.DefaultNumRelays),
	}
	return New(append(base, opts...)...), nil
}

// LoadEventPool reads a YAML catalog, or returns the built-in one when path
// is empty.
func LoadEventPool(path string) (model.EventPool, error) {
	if path == "" {
		return sequencer.DefaultEventPool(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open event pool: %w", err)
	}
	defer f.Close()

	pool, err := sequencer.LoadPool(f)
	if err != nil {
		return nil, fmt.Errorf("load event pool %s: %w", path, err)
	}
	if err := pool.Validate(); err != nil {
		return nil, fmt.Errorf("load event pool %s: %w", path, err)
	}
	return pool, nil
}
