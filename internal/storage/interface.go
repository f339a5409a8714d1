package storage

import (
	"context"
	"time"

	"github.com/bujinwang/BadmintonGroup-sub005/internal/model"
)

// PlayerMutator is applied to a player record inside an atomic update.
// Returning an error aborts the update and leaves the record untouched.
type PlayerMutator func(*model.Player) error

// SessionMutator is applied to a session record inside an atomic update,
// with the same abort-on-error contract as PlayerMutator.
type SessionMutator func(*model.Session) error

// Storage defines the interface for data persistence
type Storage interface {
	// Session operations
	SaveSession(ctx context.Context, session *model.Session) error
	GetSessionByShareCode(ctx context.Context, code model.ShareCode) (*model.Session, error)
	SessionExists(ctx context.Context, code model.ShareCode) (bool, error)

	// UpdateSession applies the mutator atomically to a single session
	// record, so concurrent membership changes serialize instead of
	// overwriting each other. Returns the updated session on success.
	UpdateSession(ctx context.Context, code model.ShareCode, mutate SessionMutator) (*model.Session, error)

	// Player operations
	SavePlayer(ctx context.Context, player *model.Player) error
	GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error)
	GetSessionPlayers(ctx context.Context, code model.ShareCode) ([]*model.Player, error)

	// UpdatePlayer applies the mutator atomically to a single player record.
	// Concurrent updates of the same player serialize; the status history
	// append and the status-field update land as one unit. Returns the
	// updated player on success.
	UpdatePlayer(ctx context.Context, id model.PlayerID, mutate PlayerMutator) (*model.Player, error)

	// Request index: opaque request id -> owning player
	IndexRequest(ctx context.Context, id model.RequestID, playerID model.PlayerID) error
	LookupRequest(ctx context.Context, id model.RequestID) (model.PlayerID, error)

	// Match operations
	SaveMatch(ctx context.Context, match *model.Match) error
	GetMatch(ctx context.Context, id model.MatchID) (*model.Match, error)
	GetSessionMatches(ctx context.Context, code model.ShareCode) ([]*model.Match, error)

	// Rest-expiry index, consumed by the expiry scheduler
	AddRestExpiry(ctx context.Context, id model.PlayerID, expiresAt time.Time) error
	RemoveRestExpiry(ctx context.Context, id model.PlayerID) error
	DueRestExpiries(ctx context.Context, now time.Time) ([]model.PlayerID, error)
}
