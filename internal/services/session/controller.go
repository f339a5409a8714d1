package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/google/uuid"

	"github.com/bujinwang/BadmintonGroup-sub005/internal/dependencies/clock"
	"github.com/bujinwang/BadmintonGroup-sub005/internal/dependencies/random"
	"github.com/bujinwang/BadmintonGroup-sub005/internal/model"
	"github.com/bujinwang/BadmintonGroup-sub005/internal/storage"
)

const (
	// ShareCodeLength is the length of generated share codes
	ShareCodeLength = 6
	// ShareCodeAlphabet is the characters used in share codes (avoid confusing chars)
	ShareCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
)

// Controller manages session creation and membership. Session CRUD sits at the
// boundary of the status workflow: it owns share codes and player records but
// none of the transition logic.
type Controller struct {
	storage storage.Storage
	clock   clock.Clock
	random  random.Random
	logger  *slog.Logger
}

// NewController creates a new session controller
func NewController(storage storage.Storage, clock clock.Clock, random random.Random, logger *slog.Logger) *Controller {
	return &Controller{
		storage: storage,
		clock:   clock,
		random:  random,
		logger:  logger,
	}
}

// CreateSession creates a session with the creator as its single organizer
func (c *Controller) CreateSession(ctx context.Context, ownerDeviceID model.DeviceID, ownerName string) (*model.Session, *model.Player, error) {
	now := c.clock.Now()

	// Generate unique share code
	var code model.ShareCode
	for {
		code = model.ShareCode(c.random.String(ShareCodeLength, ShareCodeAlphabet))
		exists, err := c.storage.SessionExists(ctx, code)
		if err != nil {
			return nil, nil, err
		}
		if !exists {
			break
		}
	}

	organizer := &model.Player{
		ID:          model.PlayerID(uuid.NewString()),
		ShareCode:   code,
		DisplayName: ownerName,
		DeviceID:    ownerDeviceID,
		Role:        model.RoleOrganizer,
		Status:      model.StatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	session := &model.Session{
		ID:            model.SessionID(uuid.NewString()),
		ShareCode:     code,
		OwnerDeviceID: ownerDeviceID,
		Status:        model.SessionActive,
		Players:       []model.PlayerID{organizer.ID},
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := c.storage.SavePlayer(ctx, organizer); err != nil {
		return nil, nil, err
	}
	if err := c.storage.SaveSession(ctx, session); err != nil {
		return nil, nil, err
	}

	c.logger.Info("session created",
		slog.String("share_code", string(code)),
		slog.String("organizer_id", string(organizer.ID)),
	)

	return session, organizer, nil
}

// GetSession retrieves a session by share code
func (c *Controller) GetSession(ctx context.Context, code model.ShareCode) (*model.Session, error) {
	return c.storage.GetSessionByShareCode(ctx, code)
}

// GetSessionPlayers retrieves all player records for a session
func (c *Controller) GetSessionPlayers(ctx context.Context, code model.ShareCode) ([]*model.Player, error) {
	return c.storage.GetSessionPlayers(ctx, code)
}

// maxJoinRetries bounds re-checks when concurrent joins race the
// duplicate-device scan
const maxJoinRetries = 3

// errMembershipChanged signals that another join landed between the
// duplicate-device check and the membership append
var errMembershipChanged = errors.New("session membership changed")

// JoinSession adds a new player to a session, one player per device. The
// membership append runs through the store's atomic session update; if
// another join lands first, the duplicate-device check is redone against the
// fresh membership.
func (c *Controller) JoinSession(ctx context.Context, code model.ShareCode, deviceID model.DeviceID, displayName string) (*model.Player, error) {
	now := c.clock.Now()
	player := &model.Player{
		ID:          model.PlayerID(uuid.NewString()),
		ShareCode:   code,
		DisplayName: displayName,
		DeviceID:    deviceID,
		Role:        model.RolePlayer,
		Status:      model.StatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	saved := false

	for attempt := 0; attempt < maxJoinRetries; attempt++ {
		session, err := c.storage.GetSessionByShareCode(ctx, code)
		if err != nil {
			return nil, err
		}
		if session.Status == model.SessionCancelled {
			return nil, model.ErrSessionCancelled
		}

		players, err := c.storage.GetSessionPlayers(ctx, code)
		if err != nil {
			return nil, err
		}
		for _, p := range players {
			if p.DeviceID == deviceID {
				return nil, model.ErrAlreadyInSession
			}
		}

		// The record must exist before it becomes reachable through the
		// session's player list
		if !saved {
			if err := c.storage.SavePlayer(ctx, player); err != nil {
				return nil, err
			}
			saved = true
		}

		membership := session.Players
		_, err = c.storage.UpdateSession(ctx, code, func(sess *model.Session) error {
			if sess.Status == model.SessionCancelled {
				return model.ErrSessionCancelled
			}
			if !slices.Equal(sess.Players, membership) {
				return errMembershipChanged
			}
			sess.Players = append(sess.Players, player.ID)
			sess.UpdatedAt = now
			return nil
		})
		if errors.Is(err, errMembershipChanged) {
			continue
		}
		if err != nil {
			return nil, err
		}

		c.logger.Info("player joined session",
			slog.String("share_code", string(code)),
			slog.String("player_id", string(player.ID)),
		)

		return player, nil
	}

	return nil, fmt.Errorf("join contention exceeded %d retries", maxJoinRetries)
}
