package model

import "time"

// EventType identifies the type of realtime event pushed to session clients
type EventType string

const (
	EventStatusRequest  EventType = "status_request"
	EventStatusApproved EventType = "status_approved"
	EventStatusDenied   EventType = "status_denied"
	EventStatusExpired  EventType = "status_expired"
)

// StatusRequestPayload is pushed when a player submits a rest/leave request
type StatusRequestPayload struct {
	PlayerID    string    `json:"playerId"`
	PlayerName  string    `json:"playerName"`
	RequestID   string    `json:"requestId"`
	Action      string    `json:"action"`
	Origin      string    `json:"origin"`
	Reason      string    `json:"reason,omitempty"`
	RequestedAt time.Time `json:"requestedAt"`
}

// StatusApprovedPayload is pushed when the organizer approves a request
type StatusApprovedPayload struct {
	PlayerID      string     `json:"playerId"`
	PlayerName    string     `json:"playerName"`
	RequestID     string     `json:"requestId"`
	Action        string     `json:"action"`
	NewStatus     string     `json:"newStatus"`
	RestExpiresAt *time.Time `json:"restExpiresAt,omitempty"`
}

// StatusDeniedPayload is pushed when the organizer denies a request
type StatusDeniedPayload struct {
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
	RequestID  string `json:"requestId"`
	Action     string `json:"action"`
	Reason     string `json:"reason,omitempty"`
}

// StatusExpiredPayload is pushed when a rest period expires
type StatusExpiredPayload struct {
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
	NewStatus  string `json:"newStatus"`
}
