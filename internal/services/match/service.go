package match

import (
	"context"
	"log/slog"

	"github.com/bujinwang/BadmintonGroup-sub005/internal/dependencies/clock"
	"github.com/bujinwang/BadmintonGroup-sub005/internal/dependencies/random"
	"github.com/bujinwang/BadmintonGroup-sub005/internal/model"
	"github.com/bujinwang/BadmintonGroup-sub005/internal/services/permission"
	"github.com/bujinwang/BadmintonGroup-sub005/internal/storage"
)

// MatchIDLength is the length of generated match ids
const MatchIDLength = 12

const matchIDAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Service manages the minimal match records consumed by the status workflow
type Service struct {
	storage     storage.Storage
	permissions *permission.Engine
	clock       clock.Clock
	random      random.Random
	logger      *slog.Logger
}

// New creates a new match service
func New(storage storage.Storage, permissions *permission.Engine, clock clock.Clock, random random.Random, logger *slog.Logger) *Service {
	return &Service{
		storage:     storage,
		permissions: permissions,
		clock:       clock,
		random:      random,
		logger:      logger,
	}
}

// CreateMatch records a new in-progress match for the session, organizer-only
func (s *Service) CreateMatch(ctx context.Context, code model.ShareCode, deviceID model.DeviceID, players []model.PlayerID) (*model.Match, error) {
	session, err := s.storage.GetSessionByShareCode(ctx, code)
	if err != nil {
		return nil, err
	}

	if err := s.permissions.RequireOrganizer(ctx, model.ActionGeneratePairings, deviceID, session); err != nil {
		return nil, err
	}

	for _, pid := range players {
		if !session.HasPlayer(pid) {
			return nil, model.ErrPlayerNotInSession
		}
	}

	m := &model.Match{
		ID:        model.MatchID(s.random.String(MatchIDLength, matchIDAlphabet)),
		ShareCode: code,
		Status:    model.MatchInProgress,
		Players:   players,
		StartedAt: s.clock.Now(),
	}

	if err := s.storage.SaveMatch(ctx, m); err != nil {
		return nil, err
	}

	s.logger.Info("match created",
		slog.String("match_id", string(m.ID)),
		slog.String("share_code", string(code)),
		slog.Int("player_count", len(players)),
	)

	return m, nil
}

// CompleteMatch marks a match as completed, organizer-only
func (s *Service) CompleteMatch(ctx context.Context, id model.MatchID, deviceID model.DeviceID) (*model.Match, error) {
	m, err := s.storage.GetMatch(ctx, id)
	if err != nil {
		return nil, err
	}

	session, err := s.storage.GetSessionByShareCode(ctx, m.ShareCode)
	if err != nil {
		return nil, err
	}
	if err := s.permissions.RequireOrganizer(ctx, model.ActionModifyPairings, deviceID, session); err != nil {
		return nil, err
	}

	if m.Status == model.MatchCompleted {
		return nil, model.ErrMatchCompleted
	}

	now := s.clock.Now()
	m.Status = model.MatchCompleted
	m.CompletedAt = &now

	if err := s.storage.SaveMatch(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// ActiveMatches returns the ids of in-progress matches the player is part of
func (s *Service) ActiveMatches(ctx context.Context, code model.ShareCode, playerID model.PlayerID) ([]model.MatchID, error) {
	matches, err := s.storage.GetSessionMatches(ctx, code)
	if err != nil {
		return nil, err
	}

	var active []model.MatchID
	for _, m := range matches {
		if m.Status == model.MatchInProgress && m.HasPlayer(playerID) {
			active = append(active, m.ID)
		}
	}
	return active, nil
}
