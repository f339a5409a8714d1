package model

import (
	"errors"
	"fmt"
	"strings"
)

// Common errors used across the application
var (
	// Session errors
	ErrSessionNotFound  = errors.New("session not found")
	ErrMissingShareCode = errors.New("no session context")
	ErrSessionCancelled = errors.New("session is cancelled")
	ErrAlreadyInSession = errors.New("device already joined this session")

	// Player errors
	ErrPlayerNotFound           = errors.New("player not found")
	ErrRequestingPlayerNotFound = errors.New("requesting player not found in session")
	ErrTargetPlayerNotFound     = errors.New("target player not found in session")

	// Authorization errors
	ErrForbidden = errors.New("forbidden")

	// Status workflow errors
	ErrRequestPending      = errors.New("player already has a pending request")
	ErrNoPendingRequest    = errors.New("no pending request")
	ErrInvalidRequestID    = errors.New("invalid request id")
	ErrNotResting          = errors.New("player is not resting")
	ErrRestNotExpired      = errors.New("rest period has not expired")
	ErrPlayerInActiveGame  = errors.New("player is in an active game")
	ErrPlayerLeft          = errors.New("player has left the session")
	ErrInvalidStatusAction = errors.New("invalid status action")
	ErrReasonTooLong       = errors.New("reason exceeds maximum length")

	// Match errors
	ErrMatchNotFound     = errors.New("match not found")
	ErrMatchCompleted    = errors.New("match is already completed")
	ErrPlayerNotInSession = errors.New("player does not belong to this session")
)

// ActiveGameError carries the matches blocking a leave request.
// It unwraps to ErrPlayerInActiveGame so callers can branch with errors.Is.
type ActiveGameError struct {
	MatchIDs []MatchID
}

func (e *ActiveGameError) Error() string {
	ids := make([]string, len(e.MatchIDs))
	for i, id := range e.MatchIDs {
		ids[i] = string(id)
	}
	return fmt.Sprintf("player is in an active game: %s", strings.Join(ids, ", "))
}

func (e *ActiveGameError) Unwrap() error {
	return ErrPlayerInActiveGame
}
