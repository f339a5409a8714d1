package model

import "time"

// MatchID uniquely identifies a match within a session
type MatchID string

// MatchStatus represents the lifecycle state of a match
type MatchStatus string

const (
	MatchInProgress MatchStatus = "IN_PROGRESS"
	MatchCompleted  MatchStatus = "COMPLETED"
)

// Match is the minimal record of a game in a session. The status workflow
// consults it to refuse leave requests from players who are mid-game.
type Match struct {
	ID          MatchID
	ShareCode   ShareCode
	Status      MatchStatus
	Players     []PlayerID
	StartedAt   time.Time
	CompletedAt *time.Time
}

// HasPlayer reports whether the given player is part of this match
func (m *Match) HasPlayer(id PlayerID) bool {
	for _, pid := range m.Players {
		if pid == id {
			return true
		}
	}
	return false
}
