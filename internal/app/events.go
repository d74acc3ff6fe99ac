package service

import (
	"context"
	"slices"

	"github.com/okian/trackmeet/internal/adapters/storage"
	"github.com/okian/trackmeet/internal/domain/errs"
	"github.com/okian/trackmeet/internal/domain/model"
	"github.com/okian/trackmeet/pkg/logger"
	"github.com/okian/trackmeet/pkg/metrics"
)

// EventPool returns a copy of the event pool.
func (s *Service) EventPool(ctx context.Context) model.EventPool {
	_, done := s.span(ctx, "event_pool")
	defer done(nil)
	return s.state.EventPool.Clone()
}

// SetEventPool replaces the event pool. The current sequence is kept.
func (s *Service) SetEventPool(ctx context.Context, pool model.EventPool) (err error) {
	ctx, done := s.span(ctx, "set_event_pool")
	defer done(&err)

	if err := pool.Validate(); err != nil {
		return err
	}
	s.state.EventPool = pool.Clone()
	s.persist(ctx, storage.KeyEventPool)
	return nil
}

// SetEventEnabled turns one event of the pool on or off.
func (s *Service) SetEventEnabled(ctx context.Context, name string, enabled bool) (err error) {
	ctx, done := s.span(ctx, "set_event_enabled")
	defer done(&err)

	pool := s.state.EventPool.Clone()
	if !pool.SetEnabled(name, enabled) {
		return errs.Newf("service.set_event_enabled", errs.ErrEventNotFound, "event %q is not in the pool", name)
	}
	s.state.EventPool = pool
	s.persist(ctx, storage.KeyEventPool)

	s.logger.Info(ctx, "event toggled", logger.String("event", name), logger.Bool("enabled", enabled))
	return nil
}

// ResetEventPool restores the default catalog.
func (s *Service) ResetEventPool(ctx context.Context) model.EventPool {
	ctx, done := s.span(ctx, "reset_event_pool")
	defer done(nil)

	s.state.EventPool = s.defaultPool.Clone()
	s.persist(ctx, storage.KeyEventPool)
	return s.state.EventPool.Clone()
}

// Sequence returns a copy of the current sequence and reveal progress.
func (s *Service) Sequence(ctx context.Context) model.Sequence {
	_, done := s.span(ctx, "sequence")
	defer done(nil)
	return s.sequenceCopy()
}

// NextEvent returns the next unrevealed event, false when there is none.
func (s *Service) NextEvent(ctx context.Context) (string, bool) {
	_, done := s.span(ctx, "next_event")
	defer done(nil)
	return s.state.Sequence.Next()
}

func (s *Service) sequenceCopy() model.Sequence {
	seq := s.state.Sequence
	seq.Events = slices.Clone(seq.Events)
	seq.RelayPositions = slices.Clone(seq.RelayPositions)
	return seq
}

// GenerationDefaults returns the counts a generate request falls back to.
func (s *Service) GenerationDefaults() (totalEvents, numRelays int) {
	return s.totalEvents, s.numRelays
}

// GenerateSequence draws a new event order from the enabled pool. It
// replaces any previous sequence, restarts reveal progress and drops the
// results recorded against the old order.
func (s *Service) GenerateSequence(ctx context.Context, totalEvents, numRelays int, relayPositions []int) (seq model.Sequence, err error) {
	ctx, done := s.span(ctx, "generate_sequence")
	defer done(&err)

	res, err := s.seq.Generate(s.state.EventPool, totalEvents, numRelays, relayPositions)
	if err != nil {
		return model.Sequence{}, err
	}

	dropped := len(s.state.Results)
	s.state.Sequence = model.Sequence{
		Events:         res.Sequence,
		RelayPositions: res.RelayPositions,
		GeneratedAt:    s.now(),
	}
	s.state.Results = nil
	s.persist(ctx, storage.KeyEventSequence, storage.KeyRelayPositions, storage.KeyRevealedIndex, storage.KeyEventResults)
	metrics.RecordSequenceGenerated()

	s.logger.Info(ctx, "event sequence generated",
		logger.Int("events", totalEvents),
		logger.Int("relays", numRelays),
		logger.Any("relayPositions", res.RelayPositions),
		logger.Int("droppedResults", dropped),
	)
	return s.sequenceCopy(), nil
}

// RevealNext discloses the next event of the sequence.
func (s *Service) RevealNext(ctx context.Context) (event string, seq model.Sequence, err error) {
	const op = "service.reveal_next"
	ctx, done := s.span(ctx, "reveal_next")
	defer done(&err)

	switch s.state.Sequence.Phase() {
	case model.PhaseEmpty:
		return "", model.Sequence{}, errs.Newf(op, errs.ErrNoSequence, "generate an event sequence first")
	case model.PhaseComplete:
		return "", s.sequenceCopy(), errs.Newf(op, errs.ErrSequenceComplete, "all %d events have been revealed", len(s.state.Sequence.Events))
	}

	event, _ = s.state.Sequence.Next()
	s.state.Sequence.RevealedIndex++
	s.persist(ctx, storage.KeyRevealedIndex)
	metrics.RecordEventRevealed()

	s.logger.Info(ctx, "event revealed",
		logger.String("event", event),
		logger.Int("slot", s.state.Sequence.RevealedIndex),
	)
	return event, s.sequenceCopy(), nil
}

// ResetSequence clears the sequence, its progress and its results.
func (s *Service) ResetSequence(ctx context.Context) {
	ctx, done := s.span(ctx, "reset_sequence")
	defer done(nil)

	s.state.Sequence = model.Sequence{}
	s.state.Results = nil
	s.persist(ctx, storage.KeyEventSequence, storage.KeyRelayPositions, storage.KeyRevealedIndex, storage.KeyEventResults)
}

// ResetProgress hides every event again but keeps the sequence and its
// results.
func (s *Service) ResetProgress(ctx context.Context) {
	ctx, done := s.span(ctx, "reset_progress")
	defer done(nil)

	s.state.Sequence.RevealedIndex = 0
	s.persist(ctx, storage.KeyRevealedIndex)
}
