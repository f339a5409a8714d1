package model

import "time"

// RequestID is the opaque identifier for a single status-change request
type RequestID string

// StatusAction is the kind of status change a player can request
type StatusAction string

const (
	ActionRest  StatusAction = "rest"
	ActionLeave StatusAction = "leave"
)

// ValidStatusAction reports whether the given action is a known request kind
func ValidStatusAction(a StatusAction) bool {
	return a == ActionRest || a == ActionLeave
}

// RequestOrigin records who initiated a status-change request
type RequestOrigin string

const (
	OriginSelf      RequestOrigin = "self"
	OriginOrganizer RequestOrigin = "organizer"
	// OriginSystem marks timer-driven entries such as rest expiration
	OriginSystem RequestOrigin = "system"
)

// ResolutionOutcome is the terminal state of a status-change request
type ResolutionOutcome string

const (
	OutcomeApproved ResolutionOutcome = "approved"
	OutcomeDenied   ResolutionOutcome = "denied"
	OutcomeExpired  ResolutionOutcome = "expired"
)

// MaxReasonLength bounds the free-text reason on requests and resolutions
const MaxReasonLength = 255

// StatusRequest is one immutable entry in a player's status history.
// An entry with a nil Resolution is the player's pending request.
type StatusRequest struct {
	ID          RequestID
	Action      StatusAction
	Origin      RequestOrigin
	Reason      string
	RequestedAt time.Time
	Resolution  *Resolution
}

// Resolution records how a status-change request was resolved
type Resolution struct {
	Outcome    ResolutionOutcome
	Reason     string
	ResolvedAt time.Time
	// ResolvedBy is the organizer's device id; empty for system resolutions
	ResolvedBy DeviceID
}

// Pending reports whether this entry is still awaiting resolution
func (r *StatusRequest) Pending() bool {
	return r.Resolution == nil
}

// Clone returns a deep copy of the request entry
func (r *StatusRequest) Clone() *StatusRequest {
	cp := *r
	if r.Resolution != nil {
		res := *r.Resolution
		cp.Resolution = &res
	}
	return &cp
}
