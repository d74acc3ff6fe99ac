package service

import (
	"context"
	"slices"

	"github.com/okian/trackmeet/internal/adapters/storage"
	"github.com/okian/trackmeet/internal/domain/errs"
	"github.com/okian/trackmeet/internal/domain/model"
	"github.com/okian/trackmeet/internal/domain/scoring"
	"github.com/okian/trackmeet/pkg/logger"
	"github.com/okian/trackmeet/pkg/metrics"
)

// SubmitResult records the placements of a revealed event.
func (s *Service) SubmitResult(ctx context.Context, eventIndex int, placements []model.Placement) (r model.EventResult, err error) {
	const op = "service.submit_result"
	ctx, done := s.span(ctx, "submit_result")
	defer done(&err)

	r = model.EventResult{
		EventIndex: eventIndex,
		Placements: slices.Clone(placements),
		Timestamp:  s.now(),
	}
	if err := scoring.ValidateSubmission(r, s.state.Sequence.RevealedIndex, s.state.Results); err != nil {
		return model.EventResult{}, err
	}
	for _, p := range placements {
		if model.FindTeam(s.state.Teams, p.TeamID) < 0 {
			return model.EventResult{}, errs.Newf(op, errs.ErrTeamNotFound, "team %d not found", p.TeamID)
		}
	}
	r.Event = s.state.Sequence.Events[eventIndex]

	s.state.Results = append(s.state.Results, r)
	s.persist(ctx, storage.KeyEventResults)
	metrics.RecordResultRecorded()

	s.logger.Info(ctx, "result recorded",
		logger.Int("slot", eventIndex+1),
		logger.String("event", r.Event),
		logger.Int("placements", len(placements)),
	)
	return r, nil
}

// Results lists every slot of the sequence with its status and result.
func (s *Service) Results(ctx context.Context) []scoring.EventRow {
	_, done := s.span(ctx, "results")
	defer done(nil)
	return scoring.Rows(s.sequenceCopy(), slices.Clone(s.state.Results))
}

// ResetResults drops every recorded result.
func (s *Service) ResetResults(ctx context.Context) {
	ctx, done := s.span(ctx, "reset_results")
	defer done(nil)

	s.state.Results = nil
	s.persist(ctx, storage.KeyEventResults)
}

// Scoreboard ranks the teams by points earned so far.
func (s *Service) Scoreboard(ctx context.Context) []model.TeamScore {
	_, done := s.span(ctx, "scoreboard")
	defer done(nil)
	return scoring.CalculateTeamScores(model.CloneTeams(s.state.Teams), s.state.Results, s.table)
}
