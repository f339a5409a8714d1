package apierr

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/bujinwang/BadmintonGroup-sub005/internal/model"
)

// APIError represents an API error payload
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	// Details carries structured context for domain refusals, e.g. the
	// matches blocking a leave request
	Details any `json:"details,omitempty"`
}

// ErrorResponse is the response envelope for failures
type ErrorResponse struct {
	Success   bool      `json:"success"`
	Error     APIError  `json:"error"`
	Message   string    `json:"message,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Common error codes
const (
	CodeValidationError          = "VALIDATION_ERROR"
	CodeMissingShareCode         = "MISSING_SHARE_CODE"
	CodeSessionNotFound          = "SESSION_NOT_FOUND"
	CodeSessionCancelled         = "SESSION_CANCELLED"
	CodeAlreadyInSession         = "ALREADY_IN_SESSION"
	CodePlayerNotFound           = "PLAYER_NOT_FOUND"
	CodeRequestingPlayerNotFound = "REQUESTING_PLAYER_NOT_FOUND"
	CodeTargetPlayerNotFound     = "TARGET_PLAYER_NOT_FOUND"
	CodeForbidden                = "FORBIDDEN"
	CodeRequestPending           = "REQUEST_PENDING"
	CodeNoPendingRequest         = "NO_PENDING_REQUEST"
	CodeInvalidRequestID         = "INVALID_REQUEST_ID"
	CodeNotResting               = "NOT_RESTING"
	CodeRestNotExpired           = "REST_NOT_EXPIRED"
	CodePlayerInActiveGame       = "PLAYER_IN_ACTIVE_GAME"
	CodePlayerLeft               = "PLAYER_LEFT"
	CodeMatchNotFound            = "MATCH_NOT_FOUND"
	CodeMatchCompleted           = "MATCH_COMPLETED"
	CodePlayerNotInSession       = "PLAYER_NOT_IN_SESSION"
	CodeInternalError            = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{
		Success:   false,
		Error:     he.apiError,
		Message:   he.apiError.Message,
		Timestamp: time.Now().UTC(),
	})
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	// Check for specific error types
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	// Domain refusals with structured context
	var age *model.ActiveGameError
	if errors.As(err, &age) {
		ids := make([]string, len(age.MatchIDs))
		for i, id := range age.MatchIDs {
			ids[i] = string(id)
		}
		return &httpError{http.StatusBadRequest, APIError{
			Code:    CodePlayerInActiveGame,
			Message: "Player is in an active game and cannot leave",
			Details: map[string]any{"blockingMatches": ids},
		}}
	}

	// Map model errors
	switch {
	case errors.Is(err, model.ErrInvalidStatusAction):
		return &httpError{http.StatusBadRequest, APIError{Code: CodeValidationError, Message: "Action must be 'rest' or 'leave'"}}
	case errors.Is(err, model.ErrReasonTooLong):
		return &httpError{http.StatusBadRequest, APIError{Code: CodeValidationError, Message: "Reason must be at most 255 characters"}}
	case errors.Is(err, model.ErrMissingShareCode):
		return &httpError{http.StatusBadRequest, APIError{Code: CodeMissingShareCode, Message: "No session context"}}
	case errors.Is(err, model.ErrSessionNotFound):
		return &httpError{http.StatusNotFound, APIError{Code: CodeSessionNotFound, Message: "Session not found"}}
	case errors.Is(err, model.ErrSessionCancelled):
		return &httpError{http.StatusConflict, APIError{Code: CodeSessionCancelled, Message: "Session has been cancelled"}}
	case errors.Is(err, model.ErrAlreadyInSession):
		return &httpError{http.StatusConflict, APIError{Code: CodeAlreadyInSession, Message: "Device already joined this session"}}
	case errors.Is(err, model.ErrRequestingPlayerNotFound):
		return &httpError{http.StatusNotFound, APIError{Code: CodeRequestingPlayerNotFound, Message: "Requesting player not found in session"}}
	case errors.Is(err, model.ErrTargetPlayerNotFound):
		return &httpError{http.StatusNotFound, APIError{Code: CodeTargetPlayerNotFound, Message: "Target player not found in session"}}
	case errors.Is(err, model.ErrPlayerNotFound):
		return &httpError{http.StatusNotFound, APIError{Code: CodePlayerNotFound, Message: "Player not found"}}
	case errors.Is(err, model.ErrForbidden):
		return &httpError{http.StatusForbidden, APIError{Code: CodeForbidden, Message: "Not authorized to perform this action"}}
	case errors.Is(err, model.ErrRequestPending):
		return &httpError{http.StatusBadRequest, APIError{Code: CodeRequestPending, Message: "Player already has a pending request"}}
	case errors.Is(err, model.ErrNoPendingRequest):
		return &httpError{http.StatusBadRequest, APIError{Code: CodeNoPendingRequest, Message: "No pending request to resolve"}}
	case errors.Is(err, model.ErrInvalidRequestID):
		return &httpError{http.StatusNotFound, APIError{Code: CodeInvalidRequestID, Message: "Request id does not resolve"}}
	case errors.Is(err, model.ErrNotResting):
		return &httpError{http.StatusBadRequest, APIError{Code: CodeNotResting, Message: "Player is not resting"}}
	case errors.Is(err, model.ErrRestNotExpired):
		return &httpError{http.StatusBadRequest, APIError{Code: CodeRestNotExpired, Message: "Rest period has not expired yet"}}
	case errors.Is(err, model.ErrPlayerLeft):
		return &httpError{http.StatusBadRequest, APIError{Code: CodePlayerLeft, Message: "Player has left the session"}}
	case errors.Is(err, model.ErrMatchNotFound):
		return &httpError{http.StatusNotFound, APIError{Code: CodeMatchNotFound, Message: "Match not found"}}
	case errors.Is(err, model.ErrMatchCompleted):
		return &httpError{http.StatusConflict, APIError{Code: CodeMatchCompleted, Message: "Match is already completed"}}
	case errors.Is(err, model.ErrPlayerNotInSession):
		return &httpError{http.StatusBadRequest, APIError{Code: CodePlayerNotInSession, Message: "Player does not belong to this session"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{Code: CodeInternalError, Message: "Internal server error"}}
	}
}

// NewValidationError creates a validation error for malformed input
func NewValidationError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{Code: CodeValidationError, Message: message}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{Code: CodeInternalError, Message: "Internal server error"}}
}
