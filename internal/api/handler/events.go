package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/bujinwang/BadmintonGroup-sub005/internal/model"
	"github.com/bujinwang/BadmintonGroup-sub005/internal/services/session"
	"github.com/bujinwang/BadmintonGroup-sub005/internal/sse"
)

// EventsHandler streams session-scoped realtime events over SSE
type EventsHandler struct {
	sessions   *session.Controller
	hubManager *sse.HubManager
}

// NewEventsHandler creates a new SSE events handler
func NewEventsHandler(sessions *session.Controller, hubManager *sse.HubManager) *EventsHandler {
	return &EventsHandler{
		sessions:   sessions,
		hubManager: hubManager,
	}
}

// Subscribe handles GET /api/v1/sessions/{shareCode}/events
func (h *EventsHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	code := model.ShareCode(mux.Vars(r)["shareCode"])

	deviceID := r.URL.Query().Get("device_id")
	if deviceID == "" {
		WriteError(w, NewValidationError("device_id is required"))
		return
	}

	// Reject streams for unknown sessions up front; the hub itself is
	// created lazily and does not validate codes
	if _, err := h.sessions.GetSession(r.Context(), code); err != nil {
		WriteError(w, err)
		return
	}

	hub := h.hubManager.GetOrCreateHub(code)
	sse.ServeSSE(w, r, hub, model.DeviceID(deviceID))
}
