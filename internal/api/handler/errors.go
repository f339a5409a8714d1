package handler

import (
	"net/http"

	"github.com/bujinwang/BadmintonGroup-sub005/internal/api/apierr"
)

// Re-export from apierr for convenience
type APIError = apierr.APIError
type ErrorResponse = apierr.ErrorResponse

// Re-export error codes
const (
	CodeValidationError          = apierr.CodeValidationError
	CodeMissingShareCode         = apierr.CodeMissingShareCode
	CodeSessionNotFound          = apierr.CodeSessionNotFound
	CodeSessionCancelled         = apierr.CodeSessionCancelled
	CodeAlreadyInSession         = apierr.CodeAlreadyInSession
	CodePlayerNotFound           = apierr.CodePlayerNotFound
	CodeRequestingPlayerNotFound = apierr.CodeRequestingPlayerNotFound
	CodeTargetPlayerNotFound     = apierr.CodeTargetPlayerNotFound
	CodeForbidden                = apierr.CodeForbidden
	CodeRequestPending           = apierr.CodeRequestPending
	CodeNoPendingRequest         = apierr.CodeNoPendingRequest
	CodeInvalidRequestID         = apierr.CodeInvalidRequestID
	CodeNotResting               = apierr.CodeNotResting
	CodeRestNotExpired           = apierr.CodeRestNotExpired
	CodePlayerInActiveGame       = apierr.CodePlayerInActiveGame
	CodePlayerLeft               = apierr.CodePlayerLeft
	CodeMatchNotFound            = apierr.CodeMatchNotFound
	CodeMatchCompleted           = apierr.CodeMatchCompleted
	CodePlayerNotInSession       = apierr.CodePlayerNotInSession
	CodeInternalError            = apierr.CodeInternalError
)

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	apierr.WriteError(w, err)
}

// NewValidationError creates a validation error
func NewValidationError(message string) error {
	return apierr.NewValidationError(message)
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return apierr.NewInternalError()
}
