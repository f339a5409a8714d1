package model

import "time"

// ShareCode is the public, human-typeable identifier for joining sessions
type ShareCode string

// SessionID uniquely identifies a session internally
type SessionID string

// SessionStatus represents the lifecycle state of a session
type SessionStatus string

const (
	SessionActive    SessionStatus = "active"
	SessionCancelled SessionStatus = "cancelled"
)

// Role distinguishes the single organizer from regular players
type Role string

const (
	RoleOrganizer Role = "organizer"
	RolePlayer    Role = "player"
)

// Session represents a live badminton session joined via share code.
// Player records are stored separately; Players holds their ids in join order.
type Session struct {
	ID            SessionID
	ShareCode     ShareCode
	OwnerDeviceID DeviceID
	Status        SessionStatus
	Players       []PlayerID
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// HasPlayer reports whether the given player id belongs to this session
func (s *Session) HasPlayer(id PlayerID) bool {
	for _, pid := range s.Players {
		if pid == id {
			return true
		}
	}
	return false
}
