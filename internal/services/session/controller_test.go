package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/bujinwang/BadmintonGroup-sub005/internal/dependencies/mocks"
	"github.com/bujinwang/BadmintonGroup-sub005/internal/model"
	"github.com/bujinwang/BadmintonGroup-sub005/internal/storage/memory"
	"github.com/bujinwang/BadmintonGroup-sub005/internal/testutil"
)

type ControllerSuite struct {
	suite.Suite
	storage    *memory.Storage
	clock      *mocks.MockClock
	random     *mocks.MockRandom
	controller *Controller
	ctx        context.Context
}

func TestControllerSuite(t *testing.T) {
	suite.Run(t, new(ControllerSuite))
}

func (s *ControllerSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2026, 3, 14, 19, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()
	s.controller = NewController(s.storage, s.clock, s.random, testutil.NopLogger())
	s.ctx = context.Background()
}

// CreateSession tests

func (s *ControllerSuite) TestCreateSessionSucceeds() {
	s.random.QueueString("ABC234")

	session, organizer, err := s.controller.CreateSession(s.ctx, "org-device", "Olivia")
	s.Require().NoError(err)

	s.Equal(model.ShareCode("ABC234"), session.ShareCode)
	s.Equal(model.SessionActive, session.Status)
	s.Equal(model.DeviceID("org-device"), session.OwnerDeviceID)
	s.Require().Len(session.Players, 1)
	s.Equal(organizer.ID, session.Players[0])

	s.Equal(model.RoleOrganizer, organizer.Role)
	s.Equal(model.StatusActive, organizer.Status)
	s.Equal("Olivia", organizer.DisplayName)
	s.NotEmpty(organizer.ID)
}

func (s *ControllerSuite) TestCreateSessionIsPersisted() {
	s.random.QueueString("ABC234")

	session, _, err := s.controller.CreateSession(s.ctx, "org-device", "Olivia")
	s.Require().NoError(err)

	retrieved, err := s.controller.GetSession(s.ctx, session.ShareCode)
	s.Require().NoError(err)
	s.Equal(session.ID, retrieved.ID)
}

func (s *ControllerSuite) TestCreateSessionRetriesOnShareCodeCollision() {
	s.random.QueueString("ABC234")
	_, _, err := s.controller.CreateSession(s.ctx, "org-device", "Olivia")
	s.Require().NoError(err)

	// Same code drawn again, then a fresh one
	s.random.QueueString("ABC234", "XYZ789")
	session, _, err := s.controller.CreateSession(s.ctx, "other-device", "Pat")
	s.Require().NoError(err)
	s.Equal(model.ShareCode("XYZ789"), session.ShareCode)
}

// GetSession tests

func (s *ControllerSuite) TestGetSessionNotFound() {
	_, err := s.controller.GetSession(s.ctx, "ZZZZZZ")
	s.ErrorIs(err, model.ErrSessionNotFound)
}

// JoinSession tests

func (s *ControllerSuite) TestJoinSessionAddsPlayer() {
	s.random.QueueString("ABC234")
	session, _, _ := s.controller.CreateSession(s.ctx, "org-device", "Olivia")

	player, err := s.controller.JoinSession(s.ctx, session.ShareCode, "alice-device", "Alice")
	s.Require().NoError(err)

	s.Equal(model.RolePlayer, player.Role)
	s.Equal(model.StatusActive, player.Status)
	s.Equal(session.ShareCode, player.ShareCode)

	updated, _ := s.controller.GetSession(s.ctx, session.ShareCode)
	s.Len(updated.Players, 2)
	s.True(updated.HasPlayer(player.ID))
}

func (s *ControllerSuite) TestJoinSessionUnknownCodeFails() {
	_, err := s.controller.JoinSession(s.ctx, "ZZZZZZ", "alice-device", "Alice")
	s.ErrorIs(err, model.ErrSessionNotFound)
}

func (s *ControllerSuite) TestJoinSessionTwiceFromSameDeviceFails() {
	s.random.QueueString("ABC234")
	session, _, _ := s.controller.CreateSession(s.ctx, "org-device", "Olivia")

	_, err := s.controller.JoinSession(s.ctx, session.ShareCode, "alice-device", "Alice")
	s.Require().NoError(err)

	_, err = s.controller.JoinSession(s.ctx, session.ShareCode, "alice-device", "Alice Again")
	s.ErrorIs(err, model.ErrAlreadyInSession)
}

func (s *ControllerSuite) TestOrganizerDeviceCannotJoinAsPlayer() {
	s.random.QueueString("ABC234")
	session, _, _ := s.controller.CreateSession(s.ctx, "org-device", "Olivia")

	_, err := s.controller.JoinSession(s.ctx, session.ShareCode, "org-device", "Olivia Again")
	s.ErrorIs(err, model.ErrAlreadyInSession)
}

func (s *ControllerSuite) TestJoinCancelledSessionFails() {
	s.random.QueueString("ABC234")
	session, _, _ := s.controller.CreateSession(s.ctx, "org-device", "Olivia")

	session.Status = model.SessionCancelled
	s.Require().NoError(s.storage.SaveSession(s.ctx, session))

	_, err := s.controller.JoinSession(s.ctx, session.ShareCode, "alice-device", "Alice")
	s.ErrorIs(err, model.ErrSessionCancelled)
}

func (s *ControllerSuite) TestConcurrentJoinsAllBecomeVisible() {
	s.random.QueueString("ABC234")
	session, _, _ := s.controller.CreateSession(s.ctx, "org-device", "Olivia")

	devices := []model.DeviceID{"d1", "d2", "d3"}
	errs := make([]error, len(devices))
	var wg sync.WaitGroup
	for i, d := range devices {
		wg.Add(1)
		go func(i int, d model.DeviceID) {
			defer wg.Done()
			_, errs[i] = s.controller.JoinSession(s.ctx, session.ShareCode, d, string(d))
		}(i, d)
	}
	wg.Wait()

	for _, err := range errs {
		s.NoError(err)
	}

	players, err := s.controller.GetSessionPlayers(s.ctx, session.ShareCode)
	s.Require().NoError(err)
	s.Len(players, len(devices)+1)
}

func (s *ControllerSuite) TestConcurrentJoinsFromSameDeviceExactlyOneWins() {
	s.random.QueueString("ABC234")
	session, _, _ := s.controller.CreateSession(s.ctx, "org-device", "Olivia")

	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = s.controller.JoinSession(s.ctx, session.ShareCode, "alice-device", "Alice")
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			s.ErrorIs(err, model.ErrAlreadyInSession)
		}
	}
	s.Equal(1, succeeded)

	players, err := s.controller.GetSessionPlayers(s.ctx, session.ShareCode)
	s.Require().NoError(err)
	s.Len(players, 2)
}

func (s *ControllerSuite) TestGetSessionPlayersReturnsJoinOrder() {
	s.random.QueueString("ABC234")
	session, organizer, _ := s.controller.CreateSession(s.ctx, "org-device", "Olivia")

	alice, _ := s.controller.JoinSession(s.ctx, session.ShareCode, "alice-device", "Alice")
	bob, _ := s.controller.JoinSession(s.ctx, session.ShareCode, "bob-device", "Bob")

	players, err := s.controller.GetSessionPlayers(s.ctx, session.ShareCode)
	s.Require().NoError(err)
	s.Require().Len(players, 3)
	s.Equal(organizer.ID, players[0].ID)
	s.Equal(alice.ID, players[1].ID)
	s.Equal(bob.ID, players[2].ID)
}
