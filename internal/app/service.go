// Package service owns the meet state. It runs the core algorithms, keeps
// the single State value consistent and mirrors every change into the store.
package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/okian/trackmeet/internal/adapters/storage"
	"github.com/okian/trackmeet/internal/domain/errs"
	"github.com/okian/trackmeet/internal/domain/model"
	"github.com/okian/trackmeet/internal/domain/scoring"
	"github.com/okian/trackmeet/internal/domain/sequencer"
	"github.com/okian/trackmeet/pkg/logger"
	"github.com/okian/trackmeet/pkg/metrics"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	tracerName         = "github.com/okian/trackmeet/internal/app"
	defaultMaxTeams    = 50
	defaultTotalEvents = 5
	defaultNumRelays   = 1
)

// State is everything a meet consists of.
type State struct {
	Athletes  []model.Athlete
	Teams     []model.Team
	EventPool model.EventPool
	Sequence  model.Sequence
	Results   []model.EventResult
}

// Service serializes meet operations and persists their outcome.
type Service struct {
	mu sync.Mutex

	store       storage.Store
	seq         *sequencer.Sequencer
	table       scoring.Table
	defaultPool model.EventPool
	maxTeams    int
	totalEvents int
	numRelays   int
	newID       func() string
	now         func() time.Time

	state   State
	started bool

	logger logger.Logger
	tracer trace.Tracer
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithStore sets the persistence backend. Without one the meet lives in
// memory only.
func WithStore(st storage.Store) Option {
	return func(s *Service) {
		if st != nil {
			s.store = st
		}
	}
}

// WithSequencer sets the event sequencer, e.g. a seeded one.
func WithSequencer(seq *sequencer.Sequencer) Option {
	return func(s *Service) {
		if seq != nil {
			s.seq = seq
		}
	}
}

// WithScoringTable sets the place to points table.
func WithScoringTable(t scoring.Table) Option {
	return func(s *Service) {
		if len(t) > 0 {
			s.table = t
		}
	}
}

// WithDefaultEventPool sets the pool used on first start and on reset.
func WithDefaultEventPool(p model.EventPool) Option {
	return func(s *Service) {
		if len(p) > 0 {
			s.defaultPool = p.Clone()
		}
	}
}

// WithMaxTeams caps the number of teams an assignment may create.
func WithMaxTeams(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxTeams = n
		}
	}
}

// WithGenerationDefaults sets the event and relay counts used when a
// generate request leaves them out.
func WithGenerationDefaults(totalEvents, numRelays int) Option {
	return func(s *Service) {
		if totalEvents >= 1 && numRelays >= 0 && numRelays <= totalEvents {
			s.totalEvents = totalEvents
			s.numRelays = numRelays
		}
	}
}

// WithIDGenerator overrides how athlete ids are minted.
func WithIDGenerator(fn func() string) Option {
	return func(s *Service) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// WithClock overrides the time source.
func WithClock(fn func() time.Time) Option {
	return func(s *Service) {
		if fn != nil {
			s.now = fn
		}
	}
}

// WithTracer sets the tracer used for operation spans.
func WithTracer(t trace.Tracer) Option {
	return func(s *Service) {
		if t != nil {
			s.tracer = t
		}
	}
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		store:       storage.NewMemory(),
		seq:         sequencer.New(),
		table:       scoring.DefaultTable(),
		defaultPool: sequencer.DefaultEventPool(),
		maxTeams:    defaultMaxTeams,
		totalEvents: defaultTotalEvents,
		numRelays:   defaultNumRelays,
		newID:       uuid.NewString,
		now:         time.Now,
		tracer:      otel.Tracer(tracerName),
	}

	for _, opt := range opts {
		opt(s)
	}
	s.state.EventPool = s.defaultPool.Clone()

	return s
}

// Start loads the persisted meet. Unreadable keys are logged and left empty.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting meet service...")
	s.state = s.load(ctx)
	s.started = true
	s.updateGauges()

	s.logger.Info(ctx, "meet service started",
		logger.Int("athletes", len(s.state.Athletes)),
		logger.Int("teams", len(s.state.Teams)),
		logger.Int("sequenceLength", len(s.state.Sequence.Events)),
		logger.Int("results", len(s.state.Results)),
	)
	return nil
}

// Stop closes the store.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	if err := s.store.Close(); err != nil {
		s.logger.Warn(context.Background(), "closing store failed", logger.Error(err))
	}
	s.started = false
	s.logger.Info(context.Background(), "meet service stopped")
}

// span starts an operation span and locks the service. The returned func
// records the outcome, unlocks and ends the span.
func (s *Service) span(ctx context.Context, op string) (context.Context, func(*error)) {
	ctx, sp := s.tracer.Start(ctx, "service."+op)
	s.mu.Lock()
	if s.logger == nil {
		s.logger = logger.Get()
	}
	return ctx, func(errp *error) {
		s.mu.Unlock()
		if errp != nil && *errp != nil {
			err := *errp
			code := errs.Code(err)
			metrics.RecordRejection(op, code)
			sp.RecordError(err)
			sp.SetStatus(codes.Error, errs.Message(err))
			sp.SetAttributes(attribute.String("error.code", code))
			s.logger.Debug(ctx, "operation rejected",
				logger.String("op", op),
				logger.String("code", code),
				logger.Error(err),
			)
		}
		sp.End()
	}
}

func (s *Service) updateGauges() {
	metrics.UpdateAthletes(len(s.state.Athletes))
	metrics.UpdateTeams(len(s.state.Teams))
	metrics.UpdateSequence(len(s.state.Sequence.Events), s.state.Sequence.RevealedIndex)
}
