package response

import (
	"time"

	"github.com/bujinwang/BadmintonGroup-sub005/internal/model"
	"github.com/bujinwang/BadmintonGroup-sub005/internal/services/status"
)

// Player represents a player in API responses
type Player struct {
	ID            string     `json:"id"`
	DisplayName   string     `json:"display_name"`
	Role          string     `json:"role"`
	Status        string     `json:"status"`
	RestExpiresAt *time.Time `json:"rest_expires_at,omitempty"`
}

// PlayerFromModel converts a model.Player to a response Player
func PlayerFromModel(p *model.Player) Player {
	return Player{
		ID:            string(p.ID),
		DisplayName:   p.DisplayName,
		Role:          string(p.Role),
		Status:        string(p.Status),
		RestExpiresAt: p.RestExpiresAt,
	}
}

// StatusRequest represents a status-change history entry
type StatusRequest struct {
	ID          string      `json:"id"`
	Action      string      `json:"action"`
	Origin      string      `json:"origin"`
	Reason      string      `json:"reason,omitempty"`
	RequestedAt time.Time   `json:"requested_at"`
	Resolution  *Resolution `json:"resolution,omitempty"`
}

// Resolution represents how a request was resolved
type Resolution struct {
	Outcome    string    `json:"outcome"`
	Reason     string    `json:"reason,omitempty"`
	ResolvedAt time.Time `json:"resolved_at"`
	ResolvedBy string    `json:"resolved_by,omitempty"`
}

// StatusRequestFromModel converts model.StatusRequest
func StatusRequestFromModel(r *model.StatusRequest) StatusRequest {
	out := StatusRequest{
		ID:          string(r.ID),
		Action:      string(r.Action),
		Origin:      string(r.Origin),
		Reason:      r.Reason,
		RequestedAt: r.RequestedAt,
	}
	if r.Resolution != nil {
		out.Resolution = &Resolution{
			Outcome:    string(r.Resolution.Outcome),
			Reason:     r.Resolution.Reason,
			ResolvedAt: r.Resolution.ResolvedAt,
			ResolvedBy: string(r.Resolution.ResolvedBy),
		}
	}
	return out
}

// PendingRequest pairs a player with their unresolved request
type PendingRequest struct {
	Player  Player        `json:"player"`
	Request StatusRequest `json:"request"`
}

// PendingRequestsFromModel converts a list of pending workflow entries
func PendingRequestsFromModel(pending []status.Pending) []PendingRequest {
	out := make([]PendingRequest, len(pending))
	for i, p := range pending {
		out[i] = PendingRequest{
			Player:  PlayerFromModel(p.Player),
			Request: StatusRequestFromModel(p.Request),
		}
	}
	return out
}

// Session represents a session in API responses
type Session struct {
	ShareCode string    `json:"share_code"`
	Status    string    `json:"status"`
	Players   []Player  `json:"players"`
	CreatedAt time.Time `json:"created_at"`
}

// SessionFromModel converts model.Session plus its player records
func SessionFromModel(s *model.Session, players []*model.Player) Session {
	out := Session{
		ShareCode: string(s.ShareCode),
		Status:    string(s.Status),
		Players:   make([]Player, len(players)),
		CreatedAt: s.CreatedAt,
	}
	for i, p := range players {
		out.Players[i] = PlayerFromModel(p)
	}
	return out
}

// Match represents a match in API responses
type Match struct {
	ID          string     `json:"id"`
	ShareCode   string     `json:"share_code"`
	Status      string     `json:"status"`
	Players     []string   `json:"players"`
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// MatchFromModel converts model.Match
func MatchFromModel(m *model.Match) Match {
	players := make([]string, len(m.Players))
	for i, pid := range m.Players {
		players[i] = string(pid)
	}
	return Match{
		ID:          string(m.ID),
		ShareCode:   string(m.ShareCode),
		Status:      string(m.Status),
		Players:     players,
		StartedAt:   m.StartedAt,
		CompletedAt: m.CompletedAt,
	}
}

// CreateSessionResponse is returned when a session is created
type CreateSessionResponse struct {
	Session   Session `json:"session"`
	Organizer Player  `json:"organizer"`
}

// SubmitStatusResponse is returned when a status request is created
type SubmitStatusResponse struct {
	Request StatusRequest `json:"request"`
}
