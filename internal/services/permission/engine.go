package permission

import (
	"context"
	"log/slog"

	"github.com/bujinwang/BadmintonGroup-sub005/internal/model"
	"github.com/bujinwang/BadmintonGroup-sub005/internal/storage"
)

// Engine resolves whether an actor may perform a guarded action against a
// session. It is stateless: a pure function of the permission table and
// read-only session/player lookups.
type Engine struct {
	storage storage.Storage
	logger  *slog.Logger
}

// New creates a new permission engine
func New(storage storage.Storage, logger *slog.Logger) *Engine {
	return &Engine{
		storage: storage,
		logger:  logger.With(slog.String("component", "permissions")),
	}
}

// actor resolves the acting player within the session by device identity
func (e *Engine) actor(ctx context.Context, session *model.Session, deviceID model.DeviceID) (*model.Player, error) {
	if session == nil {
		return nil, model.ErrMissingShareCode
	}
	players, err := e.storage.GetSessionPlayers(ctx, session.ShareCode)
	if err != nil {
		return nil, err
	}
	for _, p := range players {
		if p.DeviceID == deviceID {
			return p, nil
		}
	}
	return nil, model.ErrRequestingPlayerNotFound
}

// RequireOrganizer allows the action iff the actor is the session's organizer
// and the permission table grants the action to the organizer role.
func (e *Engine) RequireOrganizer(ctx context.Context, action model.PermissionAction, deviceID model.DeviceID, session *model.Session) error {
	actor, err := e.actor(ctx, session, deviceID)
	if err != nil {
		return err
	}

	if actor.Role != model.RoleOrganizer || !Allows(actor.Role, action) {
		e.logger.Info("authorization denied",
			slog.String("action", string(action)),
			slog.String("player_id", string(actor.ID)),
			slog.String("role", string(actor.Role)),
		)
		return model.ErrForbidden
	}
	return nil
}

// RequireOrganizerOrSelf allows the action for the organizer, or for any actor
// targeting their own player record. Players must always be able to change
// their own status even though the table marks the action organizer-only.
func (e *Engine) RequireOrganizerOrSelf(ctx context.Context, action model.PermissionAction, deviceID model.DeviceID, session *model.Session, targetPlayerID model.PlayerID) error {
	actor, err := e.actor(ctx, session, deviceID)
	if err != nil {
		return err
	}

	if session != nil && !session.HasPlayer(targetPlayerID) {
		return model.ErrTargetPlayerNotFound
	}

	if actor.ID == targetPlayerID {
		return nil
	}
	if actor.Role == model.RoleOrganizer && Allows(actor.Role, action) {
		return nil
	}

	e.logger.Info("authorization denied",
		slog.String("action", string(action)),
		slog.String("player_id", string(actor.ID)),
		slog.String("target_player_id", string(targetPlayerID)),
	)
	return model.ErrForbidden
}
