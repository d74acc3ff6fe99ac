package api

import (
	"bytes"
	"net/http"

	"github.com/okian/trackmeet/internal/domain/model"
)

// ResultsHandler handles result and scoreboard requests.
type ResultsHandler struct {
	deps ResultService
}

// NewResultsHandler creates a new results handler.
func NewResultsHandler(deps ResultService) *ResultsHandler {
	return &ResultsHandler{deps: deps}
}

type submitRequest struct {
	EventIndex *int              `json:"eventIndex"`
	Placements []model.Placement `json:"placements"`
}

// HandleList handles GET /results requests.
func (h *ResultsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.deps.Results(r.Context()))
}

// HandleSubmit handles POST /results requests.
func (h *ResultsHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	const op = "api.submit_result"
	var req submitRequest
	if !decodeJSON(w, r, op, &req) {
		return
	}
	if req.EventIndex == nil {
		writeError(w, http.StatusBadRequest, "bad_request", badRequest(op, "eventIndex is required"))
		return
	}
	res, err := h.deps.SubmitResult(r.Context(), *req.EventIndex, req.Placements)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

// HandleReset handles DELETE /results requests.
func (h *ResultsHandler) HandleReset(w http.ResponseWriter, r *http.Request) {
	noContent(w, r, h.deps.ResetResults)
}

// HandleScoreboard handles GET /scoreboard requests.
func (h *ResultsHandler) HandleScoreboard(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.deps.Scoreboard(r.Context()))
}

// HandleChart handles GET /scoreboard/chart.png requests.
func (h *ResultsHandler) HandleChart(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := h.deps.ScoreboardChart(r.Context(), &buf); err != nil {
		writeServiceError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
