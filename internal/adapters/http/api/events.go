package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/okian/trackmeet/internal/domain/model"
)

// EventsHandler handles event pool and sequence requests.
type EventsHandler struct {
	deps EventService
}

// NewEventsHandler creates a new events handler.
func NewEventsHandler(deps EventService) *EventsHandler {
	return &EventsHandler{deps: deps}
}

type toggleRequest struct {
	Enabled *bool `json:"enabled"`
}

// generateRequest leaves counts nil when the client omits them.
type generateRequest struct {
	TotalEvents    *int  `json:"totalEvents"`
	NumRelays      *int  `json:"numRelays"`
	RelayPositions []int `json:"relayPositions"`
}

type sequenceResponse struct {
	Events         []string    `json:"events"`
	RelayPositions []int       `json:"relayPositions"`
	RevealedIndex  int         `json:"revealedIndex"`
	Revealed       []string    `json:"revealed"`
	NextEvent      string      `json:"nextEvent,omitempty"`
	Phase          model.Phase `json:"phase"`
	GeneratedAt    *time.Time  `json:"generatedAt,omitempty"`
}

type revealResponse struct {
	Event string `json:"event"`
	sequenceResponse
}

func newSequenceResponse(seq model.Sequence) sequenceResponse {
	resp := sequenceResponse{
		Events:         seq.Events,
		RelayPositions: seq.RelayPositions,
		RevealedIndex:  seq.RevealedIndex,
		Revealed:       seq.Revealed(),
		Phase:          seq.Phase(),
	}
	if resp.Events == nil {
		resp.Events = []string{}
		resp.Revealed = []string{}
	}
	if resp.RelayPositions == nil {
		resp.RelayPositions = []int{}
	}
	resp.NextEvent, _ = seq.Next()
	if !seq.GeneratedAt.IsZero() {
		at := seq.GeneratedAt
		resp.GeneratedAt = &at
	}
	return resp
}

// HandleGetPool handles GET /events/pool requests.
func (h *EventsHandler) HandleGetPool(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.deps.EventPool(r.Context()))
}

// HandlePutPool handles PUT /events/pool requests.
func (h *EventsHandler) HandlePutPool(w http.ResponseWriter, r *http.Request) {
	var pool model.EventPool
	if !decodeJSON(w, r, "api.set_event_pool", &pool) {
		return
	}
	if err := h.deps.SetEventPool(r.Context(), pool); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.EventPool(r.Context()))
}

// HandleToggleEvent handles PUT /events/pool/{name} requests.
func (h *EventsHandler) HandleToggleEvent(w http.ResponseWriter, r *http.Request) {
	const op = "api.set_event_enabled"
	var req toggleRequest
	if !decodeJSON(w, r, op, &req) {
		return
	}
	if req.Enabled == nil {
		writeError(w, http.StatusBadRequest, "bad_request", badRequest(op, "enabled is required"))
		return
	}
	if err := h.deps.SetEventEnabled(r.Context(), chi.URLParam(r, "name"), *req.Enabled); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.EventPool(r.Context()))
}

// HandleResetPool handles POST /events/pool/reset requests.
func (h *EventsHandler) HandleResetPool(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.deps.ResetEventPool(r.Context()))
}

// HandleGetSequence handles GET /events/sequence requests.
func (h *EventsHandler) HandleGetSequence(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, newSequenceResponse(h.deps.Sequence(r.Context())))
}

// HandleGenerate handles POST /events/sequence requests.
func (h *EventsHandler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if !decodeJSON(w, r, "api.generate_sequence", &req) {
		return
	}
	total, relays := h.deps.GenerationDefaults()
	if req.TotalEvents != nil {
		total = *req.TotalEvents
	}
	if req.NumRelays != nil {
		relays = *req.NumRelays
	}
	seq, err := h.deps.GenerateSequence(r.Context(), total, relays, req.RelayPositions)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, newSequenceResponse(seq))
}

// HandleReveal handles POST /events/reveal requests.
func (h *EventsHandler) HandleReveal(w http.ResponseWriter, r *http.Request) {
	event, seq, err := h.deps.RevealNext(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, revealResponse{Event: event, sequenceResponse: newSequenceResponse(seq)})
}

// HandleResetSequence handles DELETE /events/sequence requests.
func (h *EventsHandler) HandleResetSequence(w http.ResponseWriter, r *http.Request) {
	noContent(w, r, h.deps.ResetSequence)
}

// HandleResetProgress handles DELETE /events/progress requests.
func (h *EventsHandler) HandleResetProgress(w http.ResponseWriter, r *http.Request) {
	noContent(w, r, h.deps.ResetProgress)
}
