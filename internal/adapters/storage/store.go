// Package storage persists application state as JSON strings under fixed
// keys. Backends are interchangeable behind Store.
package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/trackmeet/pkg/metrics"
)

// Keys used by the application.
const (
	KeyAthletes       = "athletes"
	KeyTeams          = "teams"
	KeyEventPool      = "eventPool"
	KeyEventSequence  = "eventSequence"
	KeyRelayPositions = "relayPositions"
	KeyRevealedIndex  = "revealedIndex"
	KeyEventResults   = "eventResults"
)

// AllKeys lists every application key.
var AllKeys = []string{
	KeyAthletes,
	KeyTeams,
	KeyEventPool,
	KeyEventSequence,
	KeyRelayPositions,
	KeyRevealedIndex,
	KeyEventResults,
}

// Backend names accepted by Open.
const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendPostgres = "postgres"
)

// Store is a string key-value store.
type Store interface {
	// Get returns the value under key, or ErrNotFound.
	Get(ctx context.Context, key string) (string, error)
	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error
	// Remove deletes key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error
	// MultiRemove deletes every key it can and joins the failures.
	MultiRemove(ctx context.Context, keys ...string) error
	// Keys lists the stored keys in ascending order.
	Keys(ctx context.Context) ([]string, error)
	// Close releases backend resources.
	Close() error
}

// Open creates the store for backend.
func Open(ctx context.Context, backend string, opts ...Option) (Store, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	switch backend {
	case BackendMemory:
		return NewMemory(), nil
	case "", BackendFile:
		return NewFile(o.dir)
	case BackendPostgres:
		return NewPostgres(ctx, o.dsn)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
}

// observe records latency and outcome of one store call.
func observe(backend, op string, start time.Time, err error) {
	metrics.RecordStoreOperation(backend, op, time.Since(start).Seconds())
	if err != nil {
		metrics.RecordErrorByComponent("store", op)
	}
}
