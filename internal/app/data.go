package service

import (
	"context"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/okian/trackmeet/internal/adapters/export"
	"github.com/okian/trackmeet/internal/adapters/storage"
	"github.com/okian/trackmeet/internal/domain/errs"
	"github.com/okian/trackmeet/internal/domain/model"
	"github.com/okian/trackmeet/internal/domain/scoring"
	"github.com/okian/trackmeet/pkg/logger"
)

// ClearableKeys are the keys removed when ClearData is given none. The
// event pool is configuration and survives a full clear.
var ClearableKeys = []string{
	storage.KeyAthletes,
	storage.KeyTeams,
	storage.KeyEventSequence,
	storage.KeyRelayPositions,
	storage.KeyRevealedIndex,
	storage.KeyEventResults,
}

// Clearing a sequence also clears the keys that index into it, results
// included.
var clearDependents = map[string][]string{
	storage.KeyEventSequence: {storage.KeyRelayPositions, storage.KeyRevealedIndex, storage.KeyEventResults},
}

// Snapshot captures the whole meet.
func (s *Service) Snapshot(ctx context.Context) export.Snapshot {
	_, done := s.span(ctx, "snapshot")
	defer done(nil)
	return s.snapshot()
}

func (s *Service) snapshot() export.Snapshot {
	seq := s.sequenceCopy()
	return export.Snapshot{
		Athletes:       slices.Clone(nonNil(s.state.Athletes)),
		Teams:          nonNil(model.CloneTeams(s.state.Teams)),
		EventPool:      s.state.EventPool.Clone(),
		EventSequence:  nonNil(seq.Events),
		RelayPositions: nonNil(seq.RelayPositions),
		RevealedIndex:  seq.RevealedIndex,
		EventResults:   slices.Clone(nonNil(s.state.Results)),
		Scoreboard:     scoring.CalculateTeamScores(model.CloneTeams(s.state.Teams), s.state.Results, s.table),
		ExportDate:     s.now().UTC(),
		AppVersion:     export.AppVersion,
	}
}

// Export writes a snapshot in the named format (json, yaml or xlsx).
func (s *Service) Export(ctx context.Context, w io.Writer, format string) (f export.Format, err error) {
	const op = "service.export"
	ctx, done := s.span(ctx, "export")
	defer done(&err)

	f, err = export.ParseFormat(format)
	if err != nil {
		return "", errs.WrapKind(op, errs.ErrUnsupportedFormat, err)
	}
	if err := export.Write(w, f, s.snapshot()); err != nil {
		return f, fmt.Errorf("%s: %w", op, err)
	}
	s.logger.Info(ctx, "meet exported", logger.String("format", string(f)))
	return f, nil
}

// ScoreboardChart renders the scoreboard as a PNG.
func (s *Service) ScoreboardChart(ctx context.Context, w io.Writer) (err error) {
	_, done := s.span(ctx, "scoreboard_chart")
	defer done(&err)
	return export.RenderScoreboardChart(w, scoring.CalculateTeamScores(s.state.Teams, s.state.Results, s.table))
}

// ClearData deletes the named keys from memory and from the store. With no
// keys it clears ClearableKeys. Memory is always cleared; store failures
// are returned joined after the fact.
func (s *Service) ClearData(ctx context.Context, keys ...string) (err error) {
	const op = "service.clear_data"
	ctx, done := s.span(ctx, "clear_data")
	defer done(&err)

	if len(keys) == 0 {
		keys = ClearableKeys
	}
	var expanded []string
	for _, k := range keys {
		if !slices.Contains(storage.AllKeys, k) {
			return errs.Newf(op, errs.ErrUnknownDataKey, "unknown data key %q", k)
		}
		expanded = append(expanded, k)
		expanded = append(expanded, clearDependents[k]...)
	}
	slices.Sort(expanded)
	expanded = slices.Compact(expanded)

	for _, k := range expanded {
		s.clearKey(k)
	}
	s.updateGauges()

	if err := s.store.MultiRemove(ctx, expanded...); err != nil {
		s.logger.Warn(ctx, "clearing stored data failed", logger.Any("keys", expanded), logger.Error(err))
		return fmt.Errorf("%s: %w", op, err)
	}
	s.logger.Info(ctx, "data cleared", logger.Any("keys", expanded))
	return nil
}

func (s *Service) clearKey(key string) {
	switch key {
	case storage.KeyAthletes:
		s.state.Athletes = nil
	case storage.KeyTeams:
		s.state.Teams = nil
	case storage.KeyEventPool:
		s.state.EventPool = s.defaultPool.Clone()
	case storage.KeyEventSequence:
		s.state.Sequence.Events = nil
		s.state.Sequence.GeneratedAt = time.Time{}
	case storage.KeyRelayPositions:
		s.state.Sequence.RelayPositions = nil
	case storage.KeyRevealedIndex:
		s.state.Sequence.RevealedIndex = 0
	case storage.KeyEventResults:
		s.state.Results = nil
	}
}

// GetStats returns counts describing the meet.
func (s *Service) GetStats(ctx context.Context) map[string]interface{} {
	ctx, done := s.span(ctx, "stats")
	defer done(nil)

	st := s.state
	stats := map[string]interface{}{
		"started":       s.started,
		"athletes":      len(st.Athletes),
		"highTier":      model.CountTier(st.Athletes, model.TierHigh),
		"medTier":       model.CountTier(st.Athletes, model.TierMed),
		"lowTier":       model.CountTier(st.Athletes, model.TierLow),
		"teams":         len(st.Teams),
		"enabledEvents": len(st.EventPool.Enabled()),
		"eventSequence": len(st.Sequence.Events),
		"revealedIndex": st.Sequence.RevealedIndex,
		"phase":         string(st.Sequence.Phase()),
		"eventResults":  len(st.Results),
		"scoringPlaces": len(s.table),
	}

	keys, err := s.store.Keys(ctx)
	if err != nil {
		s.logger.Warn(ctx, "listing stored keys failed", logger.Error(err))
	} else {
		stats["storedKeys"] = keys
	}
	return stats
}
