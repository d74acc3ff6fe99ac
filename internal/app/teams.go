package service

import (
	"context"

	"github.com/okian/trackmeet/internal/adapters/storage"
	"github.com/okian/trackmeet/internal/domain/assigner"
	"github.com/okian/trackmeet/internal/domain/errs"
	"github.com/okian/trackmeet/internal/domain/model"
	"github.com/okian/trackmeet/pkg/logger"
	"github.com/okian/trackmeet/pkg/metrics"
)

// Teams returns a copy of the current teams and the size each team gets
// when the roster is split evenly between them.
func (s *Service) Teams(ctx context.Context) ([]model.Team, int) {
	_, done := s.span(ctx, "teams")
	defer done(nil)
	return nonNil(model.CloneTeams(s.state.Teams)), assigner.TeamSize(len(s.state.Athletes), len(s.state.Teams))
}

// AssignTeams replaces the teams with a fresh tier-balanced split of the
// roster.
func (s *Service) AssignTeams(ctx context.Context, numTeams int) (a assigner.Assignment, err error) {
	const op = "service.assign_teams"
	ctx, done := s.span(ctx, "assign_teams")
	defer done(&err)

	if n := len(s.state.Athletes); n > 0 && numTeams > n {
		return assigner.Assignment{}, errs.Newf(op, errs.ErrTooManyTeams, "cannot create %d teams from %d athletes", numTeams, n)
	}
	if numTeams > s.maxTeams {
		return assigner.Assignment{}, errs.Newf(op, errs.ErrInvalidTeamCount, "number of teams must be at most %d, got %d", s.maxTeams, numTeams)
	}

	a, err = assigner.AssignTeams(s.state.Athletes, numTeams)
	if err != nil {
		return assigner.Assignment{}, err
	}
	s.state.Teams = a.Teams
	s.persist(ctx, storage.KeyTeams)
	metrics.RecordTeamAssignment()

	s.logger.Info(ctx, "teams assigned",
		logger.Int("teams", numTeams),
		logger.Int("athletes", a.Stats.TotalAthletes),
		logger.Float64("averageTeamSize", a.Stats.AverageTeamSize),
	)
	a.Teams = model.CloneTeams(a.Teams)
	return a, nil
}

// MoveAthlete moves an athlete to the end of another team.
func (s *Service) MoveAthlete(ctx context.Context, athleteID string, fromTeamID, toTeamID int) (teams []model.Team, err error) {
	ctx, done := s.span(ctx, "move_athlete")
	defer done(&err)

	teams, err = assigner.MoveAthlete(model.CloneTeams(s.state.Teams), athleteID, fromTeamID, toTeamID)
	if err != nil {
		return nil, err
	}
	s.state.Teams = teams
	s.persist(ctx, storage.KeyTeams)
	metrics.RecordAthleteMove()
	return model.CloneTeams(teams), nil
}

// ResetTeams removes every team.
func (s *Service) ResetTeams(ctx context.Context) {
	ctx, done := s.span(ctx, "reset_teams")
	defer done(nil)

	s.state.Teams = nil
	s.persist(ctx, storage.KeyTeams)
}
