package handler

import (
	"encoding/json"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/gorilla/mux"

	"github.com/bujinwang/BadmintonGroup-sub005/internal/api/request"
	"github.com/bujinwang/BadmintonGroup-sub005/internal/api/response"
	"github.com/bujinwang/BadmintonGroup-sub005/internal/model"
	"github.com/bujinwang/BadmintonGroup-sub005/internal/services/session"
)

// SessionHandler handles session-related endpoints
type SessionHandler struct {
	sessions *session.Controller
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessions *session.Controller) *SessionHandler {
	return &SessionHandler{
		sessions: sessions,
	}
}

// Create handles POST /api/v1/sessions
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewValidationError("invalid request body"))
		return
	}

	if req.DeviceID == "" {
		WriteError(w, NewValidationError("device_id is required"))
		return
	}
	if req.DisplayName == "" {
		WriteError(w, NewValidationError("display_name is required"))
		return
	}

	sess, organizer, err := h.sessions.CreateSession(r.Context(), model.DeviceID(req.DeviceID), req.DisplayName)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.CreateSessionResponse{
		Session:   response.SessionFromModel(sess, []*model.Player{organizer}),
		Organizer: response.PlayerFromModel(organizer),
	})
}

// Get handles GET /api/v1/sessions/{shareCode}
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	code := model.ShareCode(mux.Vars(r)["shareCode"])

	sess, err := h.sessions.GetSession(r.Context(), code)
	if err != nil {
		WriteError(w, err)
		return
	}
	players, err := h.sessions.GetSessionPlayers(r.Context(), code)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.SessionFromModel(sess, players))
}

// Join handles POST /api/v1/sessions/{shareCode}/join
func (h *SessionHandler) Join(w http.ResponseWriter, r *http.Request) {
	code := model.ShareCode(mux.Vars(r)["shareCode"])

	var req request.JoinSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewValidationError("invalid request body"))
		return
	}

	if req.DeviceID == "" {
		WriteError(w, NewValidationError("device_id is required"))
		return
	}
	if req.DisplayName == "" {
		WriteError(w, NewValidationError("display_name is required"))
		return
	}

	player, err := h.sessions.JoinSession(r.Context(), code, model.DeviceID(req.DeviceID), req.DisplayName)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.PlayerFromModel(player))
}

// Share links are matched case-insensitively; stored codes are upper-case
var joinCodePattern = regexp.MustCompile(`^[A-Za-z0-9]{6}$`)

// JoinRedirect handles GET /join/{shareCode}, sending share-link visitors to
// the join page with the code prefilled
func (h *SessionHandler) JoinRedirect(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["shareCode"]
	if !joinCodePattern.MatchString(code) {
		http.NotFound(w, r)
		return
	}
	code = strings.ToUpper(code)
	http.Redirect(w, r, "/join.html?code="+url.QueryEscape(code), http.StatusFound)
}
