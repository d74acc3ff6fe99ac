package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/okian/trackmeet/internal/adapters/storage"
	"github.com/okian/trackmeet/internal/domain/model"
	"github.com/okian/trackmeet/pkg/logger"
	"github.com/okian/trackmeet/pkg/metrics"
)

// load reads every key. Missing keys keep their zero value; corrupt ones
// are logged and skipped whole, so a half-decoded value never reaches the
// state.
func (s *Service) load(ctx context.Context) State {
	st := State{EventPool: s.defaultPool.Clone()}

	decoders := map[string]func(string) error{
		storage.KeyAthletes:       decoder(&st.Athletes, validAthletes),
		storage.KeyTeams:          decoder(&st.Teams, validTeams),
		storage.KeyEventPool:      decoder(&st.EventPool, model.EventPool.Validate),
		storage.KeyEventSequence:  decoder(&st.Sequence.Events, nil),
		storage.KeyRelayPositions: decoder(&st.Sequence.RelayPositions, nil),
		storage.KeyRevealedIndex:  decoder(&st.Sequence.RevealedIndex, nil),
		storage.KeyEventResults:   decoder(&st.Results, nil),
	}
	for _, key := range storage.AllKeys {
		raw, err := s.store.Get(ctx, key)
		if errors.Is(err, storage.ErrNotFound) {
			continue
		}
		if err != nil {
			metrics.RecordStoreError("get")
			s.logger.Warn(ctx, "loading stored key failed", logger.String("key", key), logger.Error(err))
			continue
		}
		if err := decoders[key](raw); err != nil {
			metrics.RecordStoreError("decode")
			s.logger.Warn(ctx, "stored key is corrupt", logger.String("key", key), logger.Error(err))
		}
	}

	if len(st.EventPool) == 0 {
		st.EventPool = s.defaultPool.Clone()
	}
	st.Sequence.RevealedIndex = min(max(st.Sequence.RevealedIndex, 0), len(st.Sequence.Events))
	return st
}

// decoder returns a func that decodes raw into a fresh T and stores it in
// dst only when decoding and check both succeed.
func decoder[T any](dst *T, check func(T) error) func(string) error {
	return func(raw string) error {
		var v T
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			return err
		}
		if check != nil {
			if err := check(v); err != nil {
				return err
			}
		}
		*dst = v
		return nil
	}
}

func validAthletes(athletes []model.Athlete) error {
	for _, a := range athletes {
		if _, err := model.NewAthlete(a.ID, a.Name, a.Tier, ""); err != nil {
			return fmt.Errorf("athlete %q: %w", a.ID, err)
		}
	}
	return nil
}

func validTeams(teams []model.Team) error {
	for _, t := range teams {
		if err := validAthletes(t.Athletes); err != nil {
			return fmt.Errorf("team %d: %w", t.ID, err)
		}
	}
	return nil
}

// value returns the JSON form of key in the current state.
func (s *Service) value(key string) any {
	switch key {
	case storage.KeyAthletes:
		return nonNil(s.state.Athletes)
	case storage.KeyTeams:
		return nonNil(s.state.Teams)
	case storage.KeyEventPool:
		return s.state.EventPool
	case storage.KeyEventSequence:
		return nonNil(s.state.Sequence.Events)
	case storage.KeyRelayPositions:
		return nonNil(s.state.Sequence.RelayPositions)
	case storage.KeyRevealedIndex:
		return s.state.Sequence.RevealedIndex
	case storage.KeyEventResults:
		return nonNil(s.state.Results)
	default:
		return nil
	}
}

// persist mirrors keys into the store. Failures are logged and counted but
// never undo the in-memory change.
func (s *Service) persist(ctx context.Context, keys ...string) {
	for _, key := range keys {
		b, err := json.Marshal(s.value(key))
		if err == nil {
			err = s.store.Set(ctx, key, string(b))
		}
		if err != nil {
			metrics.RecordStoreError("set")
			s.logger.Warn(ctx, "persisting state failed",
				logger.String("key", key),
				logger.Error(fmt.Errorf("persist %s: %w", key, err)),
			)
		}
	}
	s.updateGauges()
}

func nonNil[T any](v []T) []T {
	if v == nil {
		return []T{}
	}
	return v
}
