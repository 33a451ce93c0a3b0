package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/outlast-gg/arena/internal/model"
)

type StorageSuite struct {
	suite.Suite
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.storage = New()
	s.ctx = context.Background()
}

// Participant tests

func (s *StorageSuite) TestSaveAndGetParticipant() {
	p := &model.Participant{
		ID:          "p-1",
		DisplayName: "alice",
		CreatedAt:   time.Now(),
	}

	err := s.storage.SaveParticipant(s.ctx, p)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetParticipant(s.ctx, "p-1")
	s.Require().NoError(err)
	s.Equal(p.ID, retrieved.ID)
	s.Equal(p.DisplayName, retrieved.DisplayName)
}

func (s *StorageSuite) TestGetParticipantNotFound() {
	_, err := s.storage.GetParticipant(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrParticipantNotFound)
}

func (s *StorageSuite) TestGetParticipantByDisplayName() {
	p := &model.Participant{ID: "p-1", DisplayName: "alice"}
	_ = s.storage.SaveParticipant(s.ctx, p)

	retrieved, err := s.storage.GetParticipantByDisplayName(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(model.ParticipantID("p-1"), retrieved.ID)

	_, err = s.storage.GetParticipantByDisplayName(s.ctx, "bob")
	s.ErrorIs(err, model.ErrParticipantNotFound)
}

func (s *StorageSuite) TestDisplayNameIndexFollowsLatestSave() {
	_ = s.storage.SaveParticipant(s.ctx, &model.Participant{ID: "p-1", DisplayName: "alice"})
	_ = s.storage.SaveParticipant(s.ctx, &model.Participant{ID: "p-2", DisplayName: "alice"})

	retrieved, err := s.storage.GetParticipantByDisplayName(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(model.ParticipantID("p-2"), retrieved.ID)
}

// Session tests

func (s *StorageSuite) TestSaveAndGetSession() {
	session := &model.Session{
		ID:              "g-1",
		Status:          model.SessionStatusWaiting,
		MaxParticipants: 2,
		CreatedAt:       time.Now(),
	}

	err := s.storage.SaveSession(s.ctx, session)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetSession(s.ctx, "g-1")
	s.Require().NoError(err)
	s.Equal(model.SessionStatusWaiting, retrieved.Status)
	s.Equal(2, retrieved.MaxParticipants)
}

func (s *StorageSuite) TestGetSessionNotFound() {
	_, err := s.storage.GetSession(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrSessionNotFound)
}

func (s *StorageSuite) TestSessionExists() {
	exists, err := s.storage.SessionExists(s.ctx, "g-1")
	s.Require().NoError(err)
	s.False(exists)

	_ = s.storage.SaveSession(s.ctx, &model.Session{ID: "g-1"})

	exists, err = s.storage.SessionExists(s.ctx, "g-1")
	s.Require().NoError(err)
	s.True(exists)
}

// Session participant tests

func (s *StorageSuite) TestSaveAndGetSessionParticipant() {
	sp := &model.SessionParticipant{
		ID:            "gp-1",
		SessionID:     "g-1",
		ParticipantID: "p-1",
		Health:        model.MaxHealth,
		IsAlive:       true,
	}

	err := s.storage.SaveSessionParticipant(s.ctx, sp)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetSessionParticipant(s.ctx, "gp-1")
	s.Require().NoError(err)
	s.Equal(model.SessionID("g-1"), retrieved.SessionID)
	s.Equal(model.MaxHealth, retrieved.Health)
}

func (s *StorageSuite) TestGetSessionParticipantNotFound() {
	_, err := s.storage.GetSessionParticipant(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrSessionParticipantNotFound)
}

func (s *StorageSuite) TestRecordsAreCopiedNotShared() {
	sp := &model.SessionParticipant{
		ID:        "gp-1",
		SessionID: "g-1",
		Health:    model.MaxHealth,
		IsAlive:   true,
	}
	_ = s.storage.SaveSessionParticipant(s.ctx, sp)

	// Mutating the caller's struct after save must not touch the store
	sp.Health = 1

	first, err := s.storage.GetSessionParticipant(s.ctx, "gp-1")
	s.Require().NoError(err)
	s.Equal(model.MaxHealth, first.Health)

	// Mutating one retrieved record must not be visible through another
	first.Health = 30
	first.LastPosition = model.Position{X: 99, Y: 99}

	second, err := s.storage.GetSessionParticipant(s.ctx, "gp-1")
	s.Require().NoError(err)
	s.Equal(model.MaxHealth, second.Health)
	s.Equal(model.Position{}, second.LastPosition)

	// Same for the per-session listing
	members, err := s.storage.GetSessionParticipantsForSession(s.ctx, "g-1")
	s.Require().NoError(err)
	s.Require().Len(members, 1)
	members[0].Health = 7

	third, err := s.storage.GetSessionParticipant(s.ctx, "gp-1")
	s.Require().NoError(err)
	s.Equal(model.MaxHealth, third.Health)
}

func (s *StorageSuite) TestSessionsAreCopiedNotShared() {
	session := &model.Session{ID: "g-1", Status: model.SessionStatusWaiting}
	_ = s.storage.SaveSession(s.ctx, session)

	retrieved, err := s.storage.GetSession(s.ctx, "g-1")
	s.Require().NoError(err)
	retrieved.Status = model.SessionStatusActive

	again, err := s.storage.GetSession(s.ctx, "g-1")
	s.Require().NoError(err)
	s.Equal(model.SessionStatusWaiting, again.Status)
}

func (s *StorageSuite) TestGetSessionParticipantsForSession() {
	_ = s.storage.SaveSessionParticipant(s.ctx, &model.SessionParticipant{ID: "gp-1", SessionID: "g-1"})
	_ = s.storage.SaveSessionParticipant(s.ctx, &model.SessionParticipant{ID: "gp-2", SessionID: "g-1"})
	_ = s.storage.SaveSessionParticipant(s.ctx, &model.SessionParticipant{ID: "gp-3", SessionID: "g-2"})

	members, err := s.storage.GetSessionParticipantsForSession(s.ctx, "g-1")
	s.Require().NoError(err)
	s.Len(members, 2)

	members, err = s.storage.GetSessionParticipantsForSession(s.ctx, "g-2")
	s.Require().NoError(err)
	s.Len(members, 1)

	members, err = s.storage.GetSessionParticipantsForSession(s.ctx, "g-3")
	s.Require().NoError(err)
	s.Empty(members)
}
