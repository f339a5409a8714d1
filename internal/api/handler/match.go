package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/bujinwang/BadmintonGroup-sub005/internal/api/request"
	"github.com/bujinwang/BadmintonGroup-sub005/internal/api/response"
	"github.com/bujinwang/BadmintonGroup-sub005/internal/model"
	"github.com/bujinwang/BadmintonGroup-sub005/internal/services/match"
)

// MatchHandler handles match endpoints
type MatchHandler struct {
	matches *match.Service
}

// NewMatchHandler creates a new match handler
func NewMatchHandler(matches *match.Service) *MatchHandler {
	return &MatchHandler{
		matches: matches,
	}
}

// Create handles POST /api/v1/sessions/{shareCode}/matches
func (h *MatchHandler) Create(w http.ResponseWriter, r *http.Request) {
	code := model.ShareCode(mux.Vars(r)["shareCode"])

	var req request.CreateMatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewValidationError("invalid request body"))
		return
	}

	if req.DeviceID == "" {
		WriteError(w, NewValidationError("device_id is required"))
		return
	}
	if len(req.PlayerIDs) == 0 {
		WriteError(w, NewValidationError("player_ids is required"))
		return
	}

	players := make([]model.PlayerID, len(req.PlayerIDs))
	for i, id := range req.PlayerIDs {
		players[i] = model.PlayerID(id)
	}

	created, err := h.matches.CreateMatch(r.Context(), code, model.DeviceID(req.DeviceID), players)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.MatchFromModel(created))
}

// Complete handles POST /api/v1/matches/{matchId}/complete
func (h *MatchHandler) Complete(w http.ResponseWriter, r *http.Request) {
	matchID := model.MatchID(mux.Vars(r)["matchId"])

	var req request.CompleteMatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewValidationError("invalid request body"))
		return
	}

	if req.DeviceID == "" {
		WriteError(w, NewValidationError("device_id is required"))
		return
	}

	completed, err := h.matches.CompleteMatch(r.Context(), matchID, model.DeviceID(req.DeviceID))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.MatchFromModel(completed))
}
