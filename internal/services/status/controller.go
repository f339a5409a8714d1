package status

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/bujinwang/BadmintonGroup-sub005/internal/dependencies/clock"
	"github.com/bujinwang/BadmintonGroup-sub005/internal/model"
	"github.com/bujinwang/BadmintonGroup-sub005/internal/services/permission"
	"github.com/bujinwang/BadmintonGroup-sub005/internal/storage"
)

// Broadcaster pushes workflow events to a session's realtime channel.
// Delivery is best-effort: implementations must never block or fail the
// state mutation that triggered the event.
type Broadcaster interface {
	Broadcast(code model.ShareCode, event model.EventType, payload any)
}

// MatchChecker is the external match collaborator consulted for the
// leave-request precondition
type MatchChecker interface {
	ActiveMatches(ctx context.Context, code model.ShareCode, playerID model.PlayerID) ([]model.MatchID, error)
}

// Config holds configuration for the status workflow
type Config struct {
	// RestDuration is the grace period a rest approval grants
	RestDuration time.Duration
}

// DefaultConfig returns default workflow configuration
func DefaultConfig() Config {
	return Config{
		RestDuration: 15 * time.Minute,
	}
}

// Controller drives the player status-change lifecycle:
// request -> pending -> approved/denied, plus timer-driven rest expiration.
// All four transitions run inside the store's atomic per-player update, so
// concurrent resolutions of the same request serialize and exactly one wins.
type Controller struct {
	storage     storage.Storage
	permissions *permission.Engine
	matches     MatchChecker
	broadcaster Broadcaster
	clock       clock.Clock
	cfg         Config
	logger      *slog.Logger
}

// NewController creates a new status workflow controller
func NewController(
	storage storage.Storage,
	permissions *permission.Engine,
	matches MatchChecker,
	broadcaster Broadcaster,
	clock clock.Clock,
	cfg Config,
	logger *slog.Logger,
) *Controller {
	if cfg.RestDuration == 0 {
		cfg.RestDuration = DefaultConfig().RestDuration
	}
	return &Controller{
		storage:     storage,
		permissions: permissions,
		matches:     matches,
		broadcaster: broadcaster,
		clock:       clock,
		cfg:         cfg,
		logger:      logger,
	}
}

// RequestParams are the inputs for submitting a status-change request
type RequestParams struct {
	PlayerID model.PlayerID
	DeviceID model.DeviceID
	Action   model.StatusAction
	Reason   string
}

// ResolveParams are the inputs for approving or denying a pending request
type ResolveParams struct {
	RequestID     model.RequestID
	OwnerDeviceID model.DeviceID
	Approved      bool
	Reason        string
}

// Pending pairs a player with their unresolved request
type Pending struct {
	Player  *model.Player
	Request *model.StatusRequest
}

// Request submits a rest/leave request for a player. The requester must be
// the player themself or the organizer. A player can hold at most one
// pending request; leave requests are refused while the player is mid-game.
func (c *Controller) Request(ctx context.Context, params RequestParams) (*model.StatusRequest, error) {
	if !model.ValidStatusAction(params.Action) {
		return nil, model.ErrInvalidStatusAction
	}
	if len(params.Reason) > model.MaxReasonLength {
		return nil, model.ErrReasonTooLong
	}

	player, err := c.storage.GetPlayer(ctx, params.PlayerID)
	if err != nil {
		return nil, err
	}
	session, err := c.storage.GetSessionByShareCode(ctx, player.ShareCode)
	if err != nil {
		return nil, err
	}

	if err := c.permissions.RequireOrganizerOrSelf(ctx, model.ActionUpdatePlayerStatus, params.DeviceID, session, params.PlayerID); err != nil {
		return nil, err
	}

	if params.Action == model.ActionLeave {
		blocking, err := c.matches.ActiveMatches(ctx, player.ShareCode, params.PlayerID)
		if err != nil {
			return nil, err
		}
		if len(blocking) > 0 {
			return nil, &model.ActiveGameError{MatchIDs: blocking}
		}
	}

	origin := model.OriginOrganizer
	if params.DeviceID == player.DeviceID {
		origin = model.OriginSelf
	}

	now := c.clock.Now()
	request := model.StatusRequest{
		ID:          model.RequestID(uuid.NewString()),
		Action:      params.Action,
		Origin:      origin,
		Reason:      params.Reason,
		RequestedAt: now,
	}

	// Index before the atomic append: a stale index entry resolves to
	// NO_PENDING_REQUEST, while a missing one would strand an approvable
	// request behind INVALID_REQUEST_ID.
	if err := c.storage.IndexRequest(ctx, request.ID, params.PlayerID); err != nil {
		return nil, err
	}

	updated, err := c.storage.UpdatePlayer(ctx, params.PlayerID, func(p *model.Player) error {
		if p.Status == model.StatusLeft {
			return model.ErrPlayerLeft
		}
		if p.PendingRequest() != nil {
			return model.ErrRequestPending
		}
		p.StatusHistory = append(p.StatusHistory, request)
		p.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info("status request created",
		slog.String("player_id", string(params.PlayerID)),
		slog.String("request_id", string(request.ID)),
		slog.String("action", string(params.Action)),
		slog.String("origin", string(origin)),
	)

	c.broadcast(player.ShareCode, model.EventStatusRequest, model.StatusRequestPayload{
		PlayerID:    string(updated.ID),
		PlayerName:  updated.DisplayName,
		RequestID:   string(request.ID),
		Action:      string(request.Action),
		Origin:      string(request.Origin),
		Reason:      request.Reason,
		RequestedAt: request.RequestedAt,
	})

	return &request, nil
}

// Resolve approves or denies a pending request. Only the session owner may
// resolve; this is an owner capability checked against the session record,
// not the generic role table. Re-resolving an already-resolved request fails
// with ErrNoPendingRequest so duplicate clicks and retried calls cannot
// double-apply side effects.
func (c *Controller) Resolve(ctx context.Context, params ResolveParams) (*model.Player, error) {
	if len(params.Reason) > model.MaxReasonLength {
		return nil, model.ErrReasonTooLong
	}

	playerID, err := c.storage.LookupRequest(ctx, params.RequestID)
	if err != nil {
		return nil, err
	}
	player, err := c.storage.GetPlayer(ctx, playerID)
	if err != nil {
		return nil, err
	}
	session, err := c.storage.GetSessionByShareCode(ctx, player.ShareCode)
	if err != nil {
		return nil, err
	}

	if session.OwnerDeviceID != params.OwnerDeviceID {
		return nil, model.ErrForbidden
	}

	now := c.clock.Now()
	outcome := model.OutcomeDenied
	if params.Approved {
		outcome = model.OutcomeApproved
	}

	var action model.StatusAction
	var restExpiresAt *time.Time

	updated, err := c.storage.UpdatePlayer(ctx, playerID, func(p *model.Player) error {
		pending := p.PendingRequest()
		if pending == nil || pending.ID != params.RequestID {
			return model.ErrNoPendingRequest
		}

		action = pending.Action
		pending.Resolution = &model.Resolution{
			Outcome:    outcome,
			Reason:     params.Reason,
			ResolvedAt: now,
			ResolvedBy: params.OwnerDeviceID,
		}

		if params.Approved {
			switch pending.Action {
			case model.ActionRest:
				exp := now.Add(c.cfg.RestDuration)
				p.Status = model.StatusResting
				p.RestExpiresAt = &exp
				restExpiresAt = &exp
			case model.ActionLeave:
				p.Status = model.StatusLeft
				p.RestExpiresAt = nil
			}
		}
		p.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, err
	}

	if restExpiresAt != nil {
		// Best-effort: the expiry scheduler also self-heals via Expire's
		// own precondition checks
		if err := c.storage.AddRestExpiry(ctx, playerID, *restExpiresAt); err != nil {
			c.logger.Error("failed to index rest expiry",
				slog.String("player_id", string(playerID)),
				slog.Any("error", err))
		}
	}

	c.logger.Info("status request resolved",
		slog.String("player_id", string(playerID)),
		slog.String("request_id", string(params.RequestID)),
		slog.String("outcome", string(outcome)),
	)

	if params.Approved {
		c.broadcast(updated.ShareCode, model.EventStatusApproved, model.StatusApprovedPayload{
			PlayerID:      string(updated.ID),
			PlayerName:    updated.DisplayName,
			RequestID:     string(params.RequestID),
			Action:        string(action),
			NewStatus:     string(updated.Status),
			RestExpiresAt: restExpiresAt,
		})
	} else {
		c.broadcast(updated.ShareCode, model.EventStatusDenied, model.StatusDeniedPayload{
			PlayerID:   string(updated.ID),
			PlayerName: updated.DisplayName,
			RequestID:  string(params.RequestID),
			Action:     string(action),
			Reason:     params.Reason,
		})
	}

	return updated, nil
}

// Expire reverts a resting player to active once their rest period has
// passed. It is system-triggered; ErrNotResting and ErrRestNotExpired signal
// "nothing to do" / "too early" to the scheduler, not failures.
func (c *Controller) Expire(ctx context.Context, playerID model.PlayerID) (*model.Player, error) {
	now := c.clock.Now()

	updated, err := c.storage.UpdatePlayer(ctx, playerID, func(p *model.Player) error {
		if p.Status != model.StatusResting || p.RestExpiresAt == nil {
			return model.ErrNotResting
		}
		if !p.RestExpiresAt.Before(now) {
			return model.ErrRestNotExpired
		}

		p.Status = model.StatusActive
		p.RestExpiresAt = nil
		expired := model.StatusRequest{
			ID:          model.RequestID(uuid.NewString()),
			Action:      model.ActionRest,
			Origin:      model.OriginSystem,
			RequestedAt: now,
			Resolution: &model.Resolution{
				Outcome:    model.OutcomeExpired,
				ResolvedAt: now,
			},
		}
		// A request submitted mid-rest is still unresolved here. It must
		// keep the tail slot so the organizer can still resolve it, so the
		// expiry record slots in before it.
		if n := len(p.StatusHistory); n > 0 && p.StatusHistory[n-1].Resolution == nil {
			p.StatusHistory = append(p.StatusHistory[:n-1], expired, p.StatusHistory[n-1])
		} else {
			p.StatusHistory = append(p.StatusHistory, expired)
		}
		p.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := c.storage.RemoveRestExpiry(ctx, playerID); err != nil {
		c.logger.Error("failed to remove rest expiry index entry",
			slog.String("player_id", string(playerID)),
			slog.Any("error", err))
	}

	c.logger.Info("rest period expired",
		slog.String("player_id", string(playerID)),
		slog.String("share_code", string(updated.ShareCode)),
	)

	c.broadcast(updated.ShareCode, model.EventStatusExpired, model.StatusExpiredPayload{
		PlayerID:   string(updated.ID),
		PlayerName: updated.DisplayName,
		NewStatus:  string(updated.Status),
	})

	return updated, nil
}

// PendingRequests lists the unresolved requests of a session, organizer-only
func (c *Controller) PendingRequests(ctx context.Context, code model.ShareCode, deviceID model.DeviceID) ([]Pending, error) {
	session, err := c.storage.GetSessionByShareCode(ctx, code)
	if err != nil {
		return nil, err
	}

	if err := c.permissions.RequireOrganizer(ctx, model.ActionManagePlayers, deviceID, session); err != nil {
		return nil, err
	}

	players, err := c.storage.GetSessionPlayers(ctx, code)
	if err != nil {
		return nil, err
	}

	var pending []Pending
	for _, p := range players {
		if req := p.PendingRequest(); req != nil {
			pending = append(pending, Pending{Player: p, Request: req})
		}
	}
	return pending, nil
}

// broadcast pushes an event without ever failing the caller
func (c *Controller) broadcast(code model.ShareCode, event model.EventType, payload any) {
	if c.broadcaster == nil {
		return
	}
	c.broadcaster.Broadcast(code, event, payload)
}
