package api

import (
	"net/http"

	"github.com/okian/trackmeet/internal/domain/model"
)

// TeamsHandler handles team requests.
type TeamsHandler struct {
	deps TeamService
}

// NewTeamsHandler creates a new teams handler.
func NewTeamsHandler(deps TeamService) *TeamsHandler {
	return &TeamsHandler{deps: deps}
}

type teamsResponse struct {
	Teams    []model.Team `json:"teams"`
	TeamSize int          `json:"teamSize"`
}

type assignRequest struct {
	NumTeams int `json:"numTeams"`
}

type moveRequest struct {
	AthleteID  string `json:"athleteId"`
	FromTeamID int    `json:"fromTeamId"`
	ToTeamID   int    `json:"toTeamId"`
}

// HandleList handles GET /teams requests.
func (h *TeamsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	teams, size := h.deps.Teams(r.Context())
	writeJSON(w, http.StatusOK, teamsResponse{Teams: teams, TeamSize: size})
}

// HandleAssign handles POST /teams requests.
func (h *TeamsHandler) HandleAssign(w http.ResponseWriter, r *http.Request) {
	var req assignRequest
	if !decodeJSON(w, r, "api.assign_teams", &req) {
		return
	}
	a, err := h.deps.AssignTeams(r.Context(), req.NumTeams)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// HandleMove handles POST /teams/move requests.
func (h *TeamsHandler) HandleMove(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if !decodeJSON(w, r, "api.move_athlete", &req) {
		return
	}
	teams, err := h.deps.MoveAthlete(r.Context(), req.AthleteID, req.FromTeamID, req.ToTeamID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, teams)
}

// HandleReset handles DELETE /teams requests.
func (h *TeamsHandler) HandleReset(w http.ResponseWriter, r *http.Request) {
	noContent(w, r, h.deps.ResetTeams)
}
