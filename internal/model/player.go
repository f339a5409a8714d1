package model

import "time"

// PlayerID uniquely identifies a player across the system
type PlayerID string

// DeviceID is a per-installation identifier standing in for authentication.
// It distinguishes "self" from "other" and identifies the session owner.
type DeviceID string

// PlayerStatus represents a player's current participation status
type PlayerStatus string

const (
	StatusActive  PlayerStatus = "ACTIVE"
	StatusResting PlayerStatus = "RESTING"
	StatusLeft    PlayerStatus = "LEFT"
)

// Player represents a session participant
type Player struct {
	ID          PlayerID
	ShareCode   ShareCode // owning session
	DisplayName string
	DeviceID    DeviceID
	Role        Role
	Status      PlayerStatus
	// RestExpiresAt is set only while Status is RESTING
	RestExpiresAt *time.Time
	// StatusHistory is an ordered, append-only log of status-change requests.
	// At most one unresolved entry exists, always at the tail.
	StatusHistory []StatusRequest
	// Version is bumped on every atomic update; storage backends use it
	// for compare-and-set
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// PendingRequest returns the unresolved tail entry of the status history,
// or nil if the player has no pending request
func (p *Player) PendingRequest() *StatusRequest {
	if len(p.StatusHistory) == 0 {
		return nil
	}
	tail := &p.StatusHistory[len(p.StatusHistory)-1]
	if tail.Resolution == nil {
		return tail
	}
	return nil
}

// Clone returns a deep copy of the player, including its status history
func (p *Player) Clone() *Player {
	cp := *p
	if p.RestExpiresAt != nil {
		t := *p.RestExpiresAt
		cp.RestExpiresAt = &t
	}
	cp.StatusHistory = make([]StatusRequest, len(p.StatusHistory))
	for i := range p.StatusHistory {
		cp.StatusHistory[i] = *p.StatusHistory[i].Clone()
	}
	return &cp
}
