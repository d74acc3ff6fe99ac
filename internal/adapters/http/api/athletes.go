package api

import (
	"context"
	"mime"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/okian/trackmeet/internal/domain/model"
)

// AthletesHandler handles roster requests.
type AthletesHandler struct {
	deps RosterService
}

// NewAthletesHandler creates a new athletes handler.
func NewAthletesHandler(deps RosterService) *AthletesHandler {
	return &AthletesHandler{deps: deps}
}

type addAthleteRequest struct {
	Name       string     `json:"name"`
	Tier       model.Tier `json:"tier"`
	BestEvents string     `json:"bestEvents"`
}

type importResponse struct {
	Imported int             `json:"imported"`
	Athletes []model.Athlete `json:"athletes"`
}

// HandleList handles GET /athletes requests.
func (h *AthletesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.deps.Athletes(r.Context()))
}

// HandleAdd handles POST /athletes requests.
func (h *AthletesHandler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	var req addAthleteRequest
	if !decodeJSON(w, r, "api.add_athlete", &req) {
		return
	}
	a, err := h.deps.AddAthlete(r.Context(), req.Name, req.Tier, req.BestEvents)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

// HandleImport handles POST /athletes/import requests. The body is a CSV
// or XLSX document; the format comes from ?filename= or the Content-Type.
func (h *AthletesHandler) HandleImport(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("filename")
	if format == "" {
		mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", badRequest("api.import_roster", "set Content-Type or ?filename="))
			return
		}
		format = mt
	}
	added, err := h.deps.ImportRoster(r.Context(), format, http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, importResponse{Imported: len(added), Athletes: added})
}

// HandleDelete handles DELETE /athletes/{id} requests.
func (h *AthletesHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.deps.DeleteAthlete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleClear handles DELETE /athletes requests.
func (h *AthletesHandler) HandleClear(w http.ResponseWriter, r *http.Request) {
	noContent(w, r, h.deps.ClearAthletes)
}

func noContent(w http.ResponseWriter, r *http.Request, fn func(context.Context)) {
	fn(r.Context())
	w.WriteHeader(http.StatusNoContent)
}
