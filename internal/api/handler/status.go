package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/bujinwang/BadmintonGroup-sub005/internal/api/request"
	"github.com/bujinwang/BadmintonGroup-sub005/internal/api/response"
	"github.com/bujinwang/BadmintonGroup-sub005/internal/model"
	"github.com/bujinwang/BadmintonGroup-sub005/internal/services/status"
)

// StatusHandler handles the player status-change workflow endpoints
type StatusHandler struct {
	workflow *status.Controller
}

// NewStatusHandler creates a new status workflow handler
func NewStatusHandler(workflow *status.Controller) *StatusHandler {
	return &StatusHandler{
		workflow: workflow,
	}
}

// Submit handles POST /api/v1/players/{playerId}/status
func (h *StatusHandler) Submit(w http.ResponseWriter, r *http.Request) {
	playerID := model.PlayerID(mux.Vars(r)["playerId"])

	var req request.SubmitStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewValidationError("invalid request body"))
		return
	}

	if req.DeviceID == "" {
		WriteError(w, NewValidationError("device_id is required"))
		return
	}
	if req.Action == "" {
		WriteError(w, NewValidationError("action is required"))
		return
	}

	created, err := h.workflow.Request(r.Context(), status.RequestParams{
		PlayerID: playerID,
		DeviceID: model.DeviceID(req.DeviceID),
		Action:   model.StatusAction(req.Action),
		Reason:   req.Reason,
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.SubmitStatusResponse{
		Request: response.StatusRequestFromModel(created),
	})
}

// Resolve handles PUT /api/v1/players/approve/{requestId}
func (h *StatusHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	requestID := model.RequestID(mux.Vars(r)["requestId"])

	var req request.ResolveStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewValidationError("invalid request body"))
		return
	}

	if req.DeviceID == "" {
		WriteError(w, NewValidationError("device_id is required"))
		return
	}
	if req.Approved == nil {
		WriteError(w, NewValidationError("approved is required"))
		return
	}

	player, err := h.workflow.Resolve(r.Context(), status.ResolveParams{
		RequestID:     requestID,
		OwnerDeviceID: model.DeviceID(req.DeviceID),
		Approved:      *req.Approved,
		Reason:        req.Reason,
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.PlayerFromModel(player))
}

// Pending handles GET /api/v1/players/pending/{shareCode}
func (h *StatusHandler) Pending(w http.ResponseWriter, r *http.Request) {
	code := model.ShareCode(mux.Vars(r)["shareCode"])

	deviceID := r.URL.Query().Get("device_id")
	if deviceID == "" {
		WriteError(w, NewValidationError("device_id is required"))
		return
	}

	pending, err := h.workflow.PendingRequests(r.Context(), code, model.DeviceID(deviceID))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.PendingRequestsFromModel(pending))
}

// ExpireRest handles POST /api/v1/players/expire-rest/{playerId}
func (h *StatusHandler) ExpireRest(w http.ResponseWriter, r *http.Request) {
	playerID := model.PlayerID(mux.Vars(r)["playerId"])

	player, err := h.workflow.Expire(r.Context(), playerID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.PlayerFromModel(player))
}
