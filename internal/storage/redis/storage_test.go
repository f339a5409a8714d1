package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/bujinwang/BadmintonGroup-sub005/internal/model"
)

type StorageSuite struct {
	suite.Suite
	mini    *miniredis.Miniredis
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	cfg := DefaultConfig()
	cfg.SessionTTL = time.Hour
	cfg.PlayerTTL = time.Hour
	cfg.MatchTTL = time.Hour
	cfg.RequestIndexTTL = time.Hour

	s.storage = NewWithClient(client, cfg)
	s.ctx = context.Background()
}

func (s *StorageSuite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
	if s.mini != nil {
		s.mini.Close()
	}
}

// Session tests

func (s *StorageSuite) TestSaveAndGetSession() {
	session := &model.Session{
		ID:            "session-1",
		ShareCode:     "ABC234",
		OwnerDeviceID: "org-device",
		Status:        model.SessionActive,
		Players:       []model.PlayerID{"p1", "p2"},
	}

	s.Require().NoError(s.storage.SaveSession(s.ctx, session))

	retrieved, err := s.storage.GetSessionByShareCode(s.ctx, "ABC234")
	s.Require().NoError(err)
	s.Equal(session.ID, retrieved.ID)
	s.Equal(session.OwnerDeviceID, retrieved.OwnerDeviceID)
	s.Equal(session.Players, retrieved.Players)
}

func (s *StorageSuite) TestGetSessionNotFound() {
	_, err := s.storage.GetSessionByShareCode(s.ctx, "ZZZZZZ")
	s.ErrorIs(err, model.ErrSessionNotFound)
}

func (s *StorageSuite) TestSessionExists() {
	exists, err := s.storage.SessionExists(s.ctx, "ABC234")
	s.Require().NoError(err)
	s.False(exists)

	_ = s.storage.SaveSession(s.ctx, &model.Session{ShareCode: "ABC234"})

	exists, err = s.storage.SessionExists(s.ctx, "ABC234")
	s.Require().NoError(err)
	s.True(exists)
}

func (s *StorageSuite) TestSessionTTL() {
	_ = s.storage.SaveSession(s.ctx, &model.Session{ShareCode: "ABC234"})

	s.mini.FastForward(2 * time.Hour)

	_, err := s.storage.GetSessionByShareCode(s.ctx, "ABC234")
	s.ErrorIs(err, model.ErrSessionNotFound)
}

func (s *StorageSuite) TestUpdateSessionAppliesMutation() {
	_ = s.storage.SaveSession(s.ctx, &model.Session{
		ShareCode: "ABC234",
		Players:   []model.PlayerID{"p1"},
	})

	updated, err := s.storage.UpdateSession(s.ctx, "ABC234", func(sess *model.Session) error {
		sess.Players = append(sess.Players, "p2")
		return nil
	})
	s.Require().NoError(err)
	s.Equal([]model.PlayerID{"p1", "p2"}, updated.Players)

	retrieved, _ := s.storage.GetSessionByShareCode(s.ctx, "ABC234")
	s.Equal([]model.PlayerID{"p1", "p2"}, retrieved.Players)
}

func (s *StorageSuite) TestUpdateSessionMutatorErrorLeavesRecordUntouched() {
	_ = s.storage.SaveSession(s.ctx, &model.Session{
		ShareCode: "ABC234",
		Players:   []model.PlayerID{"p1"},
	})

	_, err := s.storage.UpdateSession(s.ctx, "ABC234", func(sess *model.Session) error {
		sess.Players = append(sess.Players, "p2")
		return model.ErrSessionCancelled
	})
	s.ErrorIs(err, model.ErrSessionCancelled)

	retrieved, _ := s.storage.GetSessionByShareCode(s.ctx, "ABC234")
	s.Equal([]model.PlayerID{"p1"}, retrieved.Players)
}

func (s *StorageSuite) TestUpdateSessionUnknownCodeFails() {
	_, err := s.storage.UpdateSession(s.ctx, "ZZZZZZ", func(sess *model.Session) error { return nil })
	s.ErrorIs(err, model.ErrSessionNotFound)
}

// Player tests

func (s *StorageSuite) TestSaveAndGetPlayerRoundTripsHistory() {
	requestedAt := time.Date(2026, 3, 14, 19, 0, 0, 0, time.UTC)
	player := &model.Player{
		ID:          "p1",
		ShareCode:   "ABC234",
		DisplayName: "Alice",
		DeviceID:    "alice-device",
		Role:        model.RolePlayer,
		Status:      model.StatusActive,
		StatusHistory: []model.StatusRequest{
			{
				ID:          "req-1",
				Action:      model.ActionRest,
				Origin:      model.OriginSelf,
				RequestedAt: requestedAt,
			},
		},
	}

	s.Require().NoError(s.storage.SavePlayer(s.ctx, player))

	retrieved, err := s.storage.GetPlayer(s.ctx, "p1")
	s.Require().NoError(err)
	s.Require().Len(retrieved.StatusHistory, 1)
	s.Equal(model.RequestID("req-1"), retrieved.StatusHistory[0].ID)
	s.True(retrieved.StatusHistory[0].RequestedAt.Equal(requestedAt))
	s.Nil(retrieved.StatusHistory[0].Resolution)
}

func (s *StorageSuite) TestGetPlayerNotFound() {
	_, err := s.storage.GetPlayer(s.ctx, "ghost")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *StorageSuite) TestGetSessionPlayersSkipsExpiredRecords() {
	_ = s.storage.SavePlayer(s.ctx, &model.Player{ID: "p1", ShareCode: "ABC234"})
	_ = s.storage.SaveSession(s.ctx, &model.Session{
		ShareCode: "ABC234",
		Players:   []model.PlayerID{"p1", "gone"},
	})

	players, err := s.storage.GetSessionPlayers(s.ctx, "ABC234")
	s.Require().NoError(err)
	s.Require().Len(players, 1)
	s.Equal(model.PlayerID("p1"), players[0].ID)
}

// UpdatePlayer tests

func (s *StorageSuite) TestUpdatePlayerAppliesMutationAndBumpsVersion() {
	_ = s.storage.SavePlayer(s.ctx, &model.Player{ID: "p1", Status: model.StatusActive})

	updated, err := s.storage.UpdatePlayer(s.ctx, "p1", func(p *model.Player) error {
		p.Status = model.StatusResting
		return nil
	})
	s.Require().NoError(err)
	s.Equal(model.StatusResting, updated.Status)
	s.Equal(int64(1), updated.Version)

	retrieved, _ := s.storage.GetPlayer(s.ctx, "p1")
	s.Equal(model.StatusResting, retrieved.Status)
	s.Equal(int64(1), retrieved.Version)
}

func (s *StorageSuite) TestUpdatePlayerMutatorErrorDoesNotWrite() {
	_ = s.storage.SavePlayer(s.ctx, &model.Player{ID: "p1", Status: model.StatusActive})

	_, err := s.storage.UpdatePlayer(s.ctx, "p1", func(p *model.Player) error {
		p.Status = model.StatusLeft
		return model.ErrRequestPending
	})
	s.ErrorIs(err, model.ErrRequestPending)

	retrieved, _ := s.storage.GetPlayer(s.ctx, "p1")
	s.Equal(model.StatusActive, retrieved.Status)
	s.Equal(int64(0), retrieved.Version)
}

func (s *StorageSuite) TestUpdatePlayerUnknownIDFails() {
	_, err := s.storage.UpdatePlayer(s.ctx, "ghost", func(p *model.Player) error { return nil })
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *StorageSuite) TestSequentialUpdatesAppendInOrder() {
	_ = s.storage.SavePlayer(s.ctx, &model.Player{ID: "p1"})

	for i := 0; i < 5; i++ {
		_, err := s.storage.UpdatePlayer(s.ctx, "p1", func(p *model.Player) error {
			p.StatusHistory = append(p.StatusHistory, model.StatusRequest{ID: "r"})
			return nil
		})
		s.Require().NoError(err)
	}

	player, err := s.storage.GetPlayer(s.ctx, "p1")
	s.Require().NoError(err)
	s.Len(player.StatusHistory, 5)
	s.Equal(int64(5), player.Version)
}

// Request index tests

func (s *StorageSuite) TestIndexAndLookupRequest() {
	s.Require().NoError(s.storage.IndexRequest(s.ctx, "req-1", "p1"))

	playerID, err := s.storage.LookupRequest(s.ctx, "req-1")
	s.Require().NoError(err)
	s.Equal(model.PlayerID("p1"), playerID)
}

func (s *StorageSuite) TestLookupUnknownRequestFails() {
	_, err := s.storage.LookupRequest(s.ctx, "nope")
	s.ErrorIs(err, model.ErrInvalidRequestID)
}

func (s *StorageSuite) TestRequestIndexExpires() {
	s.Require().NoError(s.storage.IndexRequest(s.ctx, "req-1", "p1"))

	s.mini.FastForward(2 * time.Hour)

	_, err := s.storage.LookupRequest(s.ctx, "req-1")
	s.ErrorIs(err, model.ErrInvalidRequestID)
}

// Match tests

func (s *StorageSuite) TestSaveAndGetMatch() {
	m := &model.Match{
		ID:        "m1",
		ShareCode: "ABC234",
		Status:    model.MatchInProgress,
		Players:   []model.PlayerID{"p1", "p2"},
	}
	s.Require().NoError(s.storage.SaveMatch(s.ctx, m))

	retrieved, err := s.storage.GetMatch(s.ctx, "m1")
	s.Require().NoError(err)
	s.Equal(m.Players, retrieved.Players)
	s.Equal(model.MatchInProgress, retrieved.Status)
}

func (s *StorageSuite) TestGetSessionMatchesUsesIndex() {
	_ = s.storage.SaveMatch(s.ctx, &model.Match{ID: "m1", ShareCode: "ABC234"})
	_ = s.storage.SaveMatch(s.ctx, &model.Match{ID: "m2", ShareCode: "ABC234"})
	_ = s.storage.SaveMatch(s.ctx, &model.Match{ID: "m3", ShareCode: "OTHER1"})

	matches, err := s.storage.GetSessionMatches(s.ctx, "ABC234")
	s.Require().NoError(err)
	s.Len(matches, 2)

	matches, err = s.storage.GetSessionMatches(s.ctx, "NONE11")
	s.Require().NoError(err)
	s.Empty(matches)
}

// Rest-expiry index tests

func (s *StorageSuite) TestDueRestExpiriesStrictlyEarlier() {
	now := time.Date(2026, 3, 14, 19, 0, 0, 0, time.UTC)
	_ = s.storage.AddRestExpiry(s.ctx, "early", now.Add(-time.Minute))
	_ = s.storage.AddRestExpiry(s.ctx, "exact", now)
	_ = s.storage.AddRestExpiry(s.ctx, "late", now.Add(time.Minute))

	due, err := s.storage.DueRestExpiries(s.ctx, now)
	s.Require().NoError(err)
	s.Equal([]model.PlayerID{"early"}, due)
}

func (s *StorageSuite) TestDueRestExpiriesOrderedByExpiry() {
	now := time.Date(2026, 3, 14, 19, 0, 0, 0, time.UTC)
	_ = s.storage.AddRestExpiry(s.ctx, "second", now.Add(-time.Minute))
	_ = s.storage.AddRestExpiry(s.ctx, "first", now.Add(-2*time.Minute))

	due, err := s.storage.DueRestExpiries(s.ctx, now)
	s.Require().NoError(err)
	s.Equal([]model.PlayerID{"first", "second"}, due)
}

func (s *StorageSuite) TestRemoveRestExpiry() {
	now := time.Date(2026, 3, 14, 19, 0, 0, 0, time.UTC)
	_ = s.storage.AddRestExpiry(s.ctx, "p1", now.Add(-time.Minute))

	s.Require().NoError(s.storage.RemoveRestExpiry(s.ctx, "p1"))

	due, err := s.storage.DueRestExpiries(s.ctx, now)
	s.Require().NoError(err)
	s.Empty(due)
}

func (s *StorageSuite) TestAddRestExpiryOverwritesScore() {
	now := time.Date(2026, 3, 14, 19, 0, 0, 0, time.UTC)
	_ = s.storage.AddRestExpiry(s.ctx, "p1", now.Add(time.Hour))
	_ = s.storage.AddRestExpiry(s.ctx, "p1", now.Add(-time.Minute))

	due, err := s.storage.DueRestExpiries(s.ctx, now)
	s.Require().NoError(err)
	s.Equal([]model.PlayerID{"p1"}, due)
}
