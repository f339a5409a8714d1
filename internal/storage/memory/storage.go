package memory

import (
	"context"
	"sync"
	"time"

	"github.com/bujinwang/BadmintonGroup-sub005/internal/model"
	"github.com/bujinwang/BadmintonGroup-sub005/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	sessions     map[model.ShareCode]*model.Session
	players      map[model.PlayerID]*model.Player
	requestIndex map[model.RequestID]model.PlayerID
	matches      map[model.MatchID]*model.Match
	restExpiries map[model.PlayerID]time.Time
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		sessions:     make(map[model.ShareCode]*model.Session),
		players:      make(map[model.PlayerID]*model.Player),
		requestIndex: make(map[model.RequestID]model.PlayerID),
		matches:      make(map[model.MatchID]*model.Match),
		restExpiries: make(map[model.PlayerID]time.Time),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Session operations

func (s *Storage) SaveSession(ctx context.Context, session *model.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *session
	cp.Players = append([]model.PlayerID(nil), session.Players...)
	s.sessions[session.ShareCode] = &cp
	return nil
}

func (s *Storage) GetSessionByShareCode(ctx context.Context, code model.ShareCode) (*model.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[code]
	if !ok {
		return nil, model.ErrSessionNotFound
	}
	cp := *session
	cp.Players = append([]model.PlayerID(nil), session.Players...)
	return &cp, nil
}

// UpdateSession applies the mutator to a copy of the record under the write
// lock, mirroring UpdatePlayer: a failed mutation never leaves partial state.
func (s *Storage) UpdateSession(ctx context.Context, code model.ShareCode, mutate storage.SessionMutator) (*model.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[code]
	if !ok {
		return nil, model.ErrSessionNotFound
	}

	updated := *session
	updated.Players = append([]model.PlayerID(nil), session.Players...)
	if err := mutate(&updated); err != nil {
		return nil, err
	}

	s.sessions[code] = &updated
	out := updated
	out.Players = append([]model.PlayerID(nil), updated.Players...)
	return &out, nil
}

func (s *Storage) SessionExists(ctx context.Context, code model.ShareCode) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.sessions[code]
	return ok, nil
}

// Player operations

func (s *Storage) SavePlayer(ctx context.Context, player *model.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.players[player.ID] = player.Clone()
	return nil
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	player, ok := s.players[id]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	return player.Clone(), nil
}

func (s *Storage) GetSessionPlayers(ctx context.Context, code model.ShareCode) ([]*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[code]
	if !ok {
		return nil, model.ErrSessionNotFound
	}
	players := make([]*model.Player, 0, len(session.Players))
	for _, pid := range session.Players {
		if p, ok := s.players[pid]; ok {
			players = append(players, p.Clone())
		}
	}
	return players, nil
}

// UpdatePlayer applies the mutator to a copy of the record under the write
// lock and swaps it in only on success, so a failed mutation never leaves
// partial state behind.
func (s *Storage) UpdatePlayer(ctx context.Context, id model.PlayerID, mutate storage.PlayerMutator) (*model.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	player, ok := s.players[id]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}

	updated := player.Clone()
	if err := mutate(updated); err != nil {
		return nil, err
	}
	updated.Version++

	s.players[id] = updated
	return updated.Clone(), nil
}

// Request index

func (s *Storage) IndexRequest(ctx context.Context, id model.RequestID, playerID model.PlayerID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requestIndex[id] = playerID
	return nil
}

func (s *Storage) LookupRequest(ctx context.Context, id model.RequestID) (model.PlayerID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	playerID, ok := s.requestIndex[id]
	if !ok {
		return "", model.ErrInvalidRequestID
	}
	return playerID, nil
}

// Match operations

func (s *Storage) SaveMatch(ctx context.Context, match *model.Match) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *match
	cp.Players = append([]model.PlayerID(nil), match.Players...)
	s.matches[match.ID] = &cp
	return nil
}

func (s *Storage) GetMatch(ctx context.Context, id model.MatchID) (*model.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	match, ok := s.matches[id]
	if !ok {
		return nil, model.ErrMatchNotFound
	}
	cp := *match
	cp.Players = append([]model.PlayerID(nil), match.Players...)
	return &cp, nil
}

func (s *Storage) GetSessionMatches(ctx context.Context, code model.ShareCode) ([]*model.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var matches []*model.Match
	for _, m := range s.matches {
		if m.ShareCode == code {
			cp := *m
			cp.Players = append([]model.PlayerID(nil), m.Players...)
			matches = append(matches, &cp)
		}
	}
	return matches, nil
}

// Rest-expiry index

func (s *Storage) AddRestExpiry(ctx context.Context, id model.PlayerID, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.restExpiries[id] = expiresAt
	return nil
}

func (s *Storage) RemoveRestExpiry(ctx context.Context, id model.PlayerID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.restExpiries, id)
	return nil
}

func (s *Storage) DueRestExpiries(ctx context.Context, now time.Time) ([]model.PlayerID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var due []model.PlayerID
	for pid, at := range s.restExpiries {
		if at.Before(now) {
			due = append(due, pid)
		}
	}
	return due, nil
}
