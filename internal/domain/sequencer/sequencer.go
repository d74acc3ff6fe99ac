// Package sequencer builds randomized event orders ("Race Roulette") from an
// event pool, placing relays at fixed or random slots.
package sequencer

import (
	"math/rand/v2"
	"slices"
	"sync"
	"time"

	"github.com/okian/trackmeet/internal/domain/errs"
	"github.com/okian/trackmeet/internal/domain/model"
)

// Rand is the randomness the sequencer needs. *rand.Rand satisfies it.
type Rand interface {
	IntN(n int) int
	Shuffle(n int, swap func(i, j int))
}

// Option applies a configuration option to the Sequencer.
type Option func(*Sequencer)

// WithRand sets the random source.
func WithRand(r Rand) Option {
	return func(s *Sequencer) {
		if r != nil {
			s.rng = r
		}
	}
}

// WithSeed makes generation reproducible. A zero seed keeps the time-seeded
// default.
func WithSeed(seed uint64) Option {
	return func(s *Sequencer) {
		if seed != 0 {
			s.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)) //nolint:gosec // not security sensitive
		}
	}
}

// Result is a generated sequence and the relay slots it used.
type Result struct {
	Sequence       []string `json:"sequence"`
	RelayPositions []int    `json:"relayPositions"`
}

// Sequencer generates event sequences. It is safe for concurrent use.
type Sequencer struct {
	mu  sync.Mutex
	rng Rand
}

// New creates a Sequencer seeded from the clock unless overridden.
func New(opts ...Option) *Sequencer {
	now := uint64(time.Now().UnixNano()) //nolint:gosec // clock seed
	s := &Sequencer{
		rng: rand.New(rand.NewPCG(now, now>>1|1)), //nolint:gosec // not security sensitive
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Generate builds a sequence of totalEvents names with numRelays relays.
// relayPositions are 0-based slots; when empty the slots are drawn at
// random.
func (s *Sequencer) Generate(pool model.EventPool, totalEvents, numRelays int, relayPositions []int) (Result, error) {
	return s.GenerateFrom(pool.Enabled(), totalEvents, numRelays, relayPositions)
}

// GenerateFrom is Generate over a flat list of enabled event names.
func (s *Sequencer) GenerateFrom(names []string, totalEvents, numRelays int, relayPositions []int) (Result, error) {
	const op = "sequencer.generate"

	if totalEvents < 1 {
		return Result{}, errs.Newf(op, errs.ErrInvalidEventCount, "total events must be at least 1, got %d", totalEvents)
	}
	if numRelays < 0 || numRelays > totalEvents {
		return Result{}, errs.Newf(op, errs.ErrInvalidEventCount, "number of relays must be between 0 and %d, got %d", totalEvents, numRelays)
	}

	relays, others := partition(names)
	if need := totalEvents - numRelays; len(others) < need {
		return Result{}, errs.Newf(op, errs.ErrInsufficientEvents, "not enough non-relay events: need %d, have %d", need, len(others))
	}
	if len(relays) < numRelays {
		return Result{}, errs.Newf(op, errs.ErrInsufficientRelays, "not enough relay events: need %d, have %d", numRelays, len(relays))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var positions []int
	if len(relayPositions) > 0 {
		p, err := validatePositions(relayPositions, totalEvents, numRelays)
		if err != nil {
			return Result{}, err
		}
		positions = p
	} else {
		positions = s.drawPositions(totalEvents, numRelays)
	}

	s.shuffle(relays)
	s.shuffle(others)

	isRelaySlot := make([]bool, totalEvents)
	for _, p := range positions {
		isRelaySlot[p] = true
	}

	seq := make([]string, totalEvents)
	ri, oi := 0, 0
	for slot := range seq {
		if isRelaySlot[slot] {
			seq[slot] = relays[ri]
			ri++
		} else {
			seq[slot] = others[oi]
			oi++
		}
	}

	return Result{Sequence: seq, RelayPositions: positions}, nil
}

// drawPositions picks n distinct slots in [0,total) by rejection sampling
// and returns them sorted.
func (s *Sequencer) drawPositions(total, n int) []int {
	picked := make(map[int]struct{}, n)
	out := make([]int, 0, n)
	for len(out) < n {
		p := s.rng.IntN(total)
		if _, dup := picked[p]; dup {
			continue
		}
		picked[p] = struct{}{}
		out = append(out, p)
	}
	slices.Sort(out)
	return out
}

// shuffle is an in-place Fisher-Yates shuffle.
func (s *Sequencer) shuffle(names []string) {
	s.rng.Shuffle(len(names), func(i, j int) { names[i], names[j] = names[j], names[i] })
}

func validatePositions(positions []int, total, numRelays int) ([]int, error) {
	const op = "sequencer.generate"
	if len(positions) != numRelays {
		return nil, errs.Newf(op, errs.ErrInvalidRelayPositions, "got %d relay positions for %d relays", len(positions), numRelays)
	}
	out := slices.Clone(positions)
	slices.Sort(out)
	for i, p := range out {
		if p < 0 || p >= total {
			return nil, errs.Newf(op, errs.ErrInvalidRelayPositions, "relay position %d is outside 1..%d", p+1, total)
		}
		if i > 0 && out[i-1] == p {
			return nil, errs.Newf(op, errs.ErrInvalidRelayPositions, "relay position %d is repeated", p+1)
		}
	}
	return out, nil
}

// partition splits names into relays and others, dropping repeats.
func partition(names []string) (relays, others []string) {
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		if model.IsRelay(n) {
			relays = append(relays, n)
		} else {
			others = append(others, n)
		}
	}
	return relays, others
}

var defaultSequencer = New()

// Generate runs the package default sequencer.
func Generate(pool model.EventPool, totalEvents, numRelays int, relayPositions []int) (Result, error) {
	return defaultSequencer.Generate(pool, totalEvents, numRelays, relayPositions)
}
