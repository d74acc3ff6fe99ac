// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/okian/trackmeet/internal/adapters/export"
	"github.com/okian/trackmeet/internal/domain/assigner"
	"github.com/okian/trackmeet/internal/domain/errs"
	"github.com/okian/trackmeet/internal/domain/model"
	"github.com/okian/trackmeet/internal/domain/scoring"
)

// maxBodyBytes bounds request bodies, roster uploads included.
const maxBodyBytes = 8 << 20

// RosterService manages athletes.
type RosterService interface {
	Athletes(ctx context.Context) []model.Athlete
	AddAthlete(ctx context.Context, name string, tier model.Tier, bestEvents string) (model.Athlete, error)
	ImportRoster(ctx context.Context, format string, r io.Reader) ([]model.Athlete, error)
	DeleteAthlete(ctx context.Context, id string) error
	ClearAthletes(ctx context.Context)
}

// TeamService manages teams.
type TeamService interface {
	Teams(ctx context.Context) ([]model.Team, int)
	AssignTeams(ctx context.Context, numTeams int) (assigner.Assignment, error)
	MoveAthlete(ctx context.Context, athleteID string, fromTeamID, toTeamID int) ([]model.Team, error)
	ResetTeams(ctx context.Context)
}

// EventService manages the event pool and sequence.
type EventService interface {
	EventPool(ctx context.Context) model.EventPool
	SetEventPool(ctx context.Context, pool model.EventPool) error
	SetEventEnabled(ctx context.Context, name string, enabled bool) error
	ResetEventPool(ctx context.Context) model.EventPool
	Sequence(ctx context.Context) model.Sequence
	NextEvent(ctx context.Context) (string, bool)
	GenerationDefaults() (totalEvents, numRelays int)
	GenerateSequence(ctx context.Context, totalEvents, numRelays int, relayPositions []int) (model.Sequence, error)
	RevealNext(ctx context.Context) (string, model.Sequence, error)
	ResetSequence(ctx context.Context)
	ResetProgress(ctx context.Context)
}

// ResultService records results and ranks teams.
type ResultService interface {
	SubmitResult(ctx context.Context, eventIndex int, placements []model.Placement) (model.EventResult, error)
	Results(ctx context.Context) []scoring.EventRow
	ResetResults(ctx context.Context)
	Scoreboard(ctx context.Context) []model.TeamScore
	ScoreboardChart(ctx context.Context, w io.Writer) error
}

// DataService exports and clears the meet.
type DataService interface {
	Export(ctx context.Context, w io.Writer, format string) (export.Format, error)
	ClearData(ctx context.Context, keys ...string) error
	StatsProvider
}

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	RosterService
	TeamService
	EventService
	ResultService
	DataService
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
	athletesHandler *AthletesHandler
	teamsHandler    *TeamsHandler
	eventsHandler   *EventsHandler
	resultsHandler  *ResultsHandler
	dataHandler     *DataHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies) *Server {
	return &Server{
		healthHandler:   NewHealthHandler(),
		statsHandler:    NewStatsHandler(deps),
		athletesHandler: NewAthletesHandler(deps),
		teamsHandler:    NewTeamsHandler(deps),
		eventsHandler:   NewEventsHandler(deps),
		resultsHandler:  NewResultsHandler(deps),
		dataHandler:     NewDataHandler(deps),
	}
}

// Register attaches all HTTP routes to r. Middleware is scoped to an inline
// group, so r may already carry other routes.
func (s *Server) Register(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.Recoverer)
		r.Use(MetricsMiddleware)

		r.Get("/healthz", s.healthHandler.HandleHealth)
		r.Get("/stats", s.statsHandler.HandleStats)

		r.Route("/athletes", func(r chi.Router) {
			r.Get("/", s.athletesHandler.HandleList)
			r.Post("/", s.athletesHandler.HandleAdd)
			r.Delete("/", s.athletesHandler.HandleClear)
			r.Post("/import", s.athletesHandler.HandleImport)
			r.Delete("/{id}", s.athletesHandler.HandleDelete)
		})

		r.Route("/teams", func(r chi.Router) {
			r.Get("/", s.teamsHandler.HandleList)
			r.Post("/", s.teamsHandler.HandleAssign)
			r.Delete("/", s.teamsHandler.HandleReset)
			r.Post("/move", s.teamsHandler.HandleMove)
		})

		r.Route("/events", func(r chi.Router) {
			r.Get("/pool", s.eventsHandler.HandleGetPool)
			r.Put("/pool", s.eventsHandler.HandlePutPool)
			r.Post("/pool/reset", s.eventsHandler.HandleResetPool)
			r.Put("/pool/{name}", s.eventsHandler.HandleToggleEvent)
			r.Get("/sequence", s.eventsHandler.HandleGetSequence)
			r.Post("/sequence", s.eventsHandler.HandleGenerate)
			r.Delete("/sequence", s.eventsHandler.HandleResetSequence)
			r.Post("/reveal", s.eventsHandler.HandleReveal)
			r.Delete("/progress", s.eventsHandler.HandleResetProgress)
		})

		r.Route("/results", func(r chi.Router) {
			r.Get("/", s.resultsHandler.HandleList)
			r.Post("/", s.resultsHandler.HandleSubmit)
			r.Delete("/", s.resultsHandler.HandleReset)
		})
		r.Get("/scoreboard", s.resultsHandler.HandleScoreboard)
		r.Get("/scoreboard/chart.png", s.resultsHandler.HandleChart)

		r.Get("/export", s.dataHandler.HandleExport)
		r.Delete("/data", s.dataHandler.HandleClear)
	})
}

// Handler returns a router with every route registered.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	s.Register(r)
	return r
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = errs.Message(err)
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeServiceError maps an error kind to its HTTP status.
func writeServiceError(w http.ResponseWriter, err error) {
	writeError(w, statusFor(err), errs.Code(err), err)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrBadRequest), errs.IsValidation(err):
		return http.StatusBadRequest
	case errors.Is(err, errs.ErrTeamNotFound), errors.Is(err, errs.ErrAthleteNotFound),
		errors.Is(err, errs.ErrEventNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrDuplicateResult), errors.Is(err, errs.ErrEventNotRevealed),
		errors.Is(err, errs.ErrSequenceComplete), errors.Is(err, errs.ErrNoSequence):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// decodeJSON reads one JSON value from the request body.
func decodeJSON(w http.ResponseWriter, r *http.Request, op string, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", badRequest(op, "invalid JSON body: %v", err))
		return false
	}
	return true
}

func urlInt(r *http.Request, op, name string) (int, error) {
	v, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil {
		return 0, badRequest(op, "%s must be an integer", name)
	}
	return v, nil
}

func badRequest(op, format string, args ...any) error {
	return &errs.Error{Op: op, Kind: ErrBadRequest, Msg: fmt.Sprintf(format, args...)}
}
