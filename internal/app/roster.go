package service

import (
	"context"
	"io"
	"slices"

	"github.com/okian/trackmeet/internal/adapters/importer"
	"github.com/okian/trackmeet/internal/adapters/storage"
	"github.com/okian/trackmeet/internal/domain/errs"
	"github.com/okian/trackmeet/internal/domain/model"
	"github.com/okian/trackmeet/pkg/logger"
	"github.com/okian/trackmeet/pkg/metrics"
)

// Athletes returns a copy of the roster.
func (s *Service) Athletes(ctx context.Context) []model.Athlete {
	_, done := s.span(ctx, "athletes")
	defer done(nil)
	return slices.Clone(nonNil(s.state.Athletes))
}

// AddAthlete appends one athlete to the roster.
func (s *Service) AddAthlete(ctx context.Context, name string, tier model.Tier, bestEvents string) (a model.Athlete, err error) {
	ctx, done := s.span(ctx, "add_athlete")
	defer done(&err)

	a, err = model.NewAthlete(s.newID(), name, tier, bestEvents)
	if err != nil {
		return model.Athlete{}, err
	}
	s.state.Athletes = append(s.state.Athletes, a)
	s.persist(ctx, storage.KeyAthletes)

	s.logger.Info(ctx, "athlete added", logger.String("id", a.ID), logger.String("name", a.Name))
	return a, nil
}

// ImportRoster parses a roster document and appends every athlete in it.
// format is a file name or media type understood by importer.ForFile.
// Nothing is added when any row is invalid.
func (s *Service) ImportRoster(ctx context.Context, format string, r io.Reader) (added []model.Athlete, err error) {
	const op = "service.import_roster"
	ctx, done := s.span(ctx, "import_roster")
	defer done(&err)

	p, err := importer.ForFile(format, importer.WithIDGenerator(s.newID))
	if err != nil {
		return nil, errs.WrapKind(op, errs.ErrUnsupportedFormat, err)
	}
	added, err = p.Parse(r)
	if err != nil {
		return nil, &errs.Error{Op: op, Kind: errs.ErrInvalidAthlete, Msg: err.Error(), Err: err}
	}

	s.state.Athletes = append(s.state.Athletes, added...)
	s.persist(ctx, storage.KeyAthletes)
	metrics.RecordAthletesImported(len(added))

	s.logger.Info(ctx, "roster imported", logger.Int("athletes", len(added)))
	return added, nil
}

// DeleteAthlete removes one athlete from the roster. Existing teams are a
// snapshot of the last assignment and are left alone.
func (s *Service) DeleteAthlete(ctx context.Context, id string) (err error) {
	ctx, done := s.span(ctx, "delete_athlete")
	defer done(&err)

	i := slices.IndexFunc(s.state.Athletes, func(a model.Athlete) bool { return a.ID == id })
	if i < 0 {
		return errs.Newf("service.delete_athlete", errs.ErrAthleteNotFound, "athlete %s not found", id)
	}
	s.state.Athletes = slices.Delete(s.state.Athletes, i, i+1)
	s.persist(ctx, storage.KeyAthletes)
	return nil
}

// ClearAthletes empties the roster.
func (s *Service) ClearAthletes(ctx context.Context) {
	ctx, done := s.span(ctx, "clear_athletes")
	defer done(nil)

	s.state.Athletes = nil
	s.persist(ctx, storage.KeyAthletes)
}
