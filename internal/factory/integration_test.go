package factory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/outlast-gg/arena/internal/model"
)

type IntegrationSuite struct {
	suite.Suite
	app *TestApp
	ctx context.Context
}

func TestIntegrationSuite(t *testing.T) {
	suite.Run(t, new(IntegrationSuite))
}

func (s *IntegrationSuite) SetupTest() {
	s.app = NewTestApp()
	s.ctx = context.Background()
}

// Test: Complete session flow from create through state recording
func (s *IntegrationSuite) TestCompleteSessionFlow() {
	// Step 1: alice creates a session
	s.app.MockRandom.QueueID("p-alice", "g-one", "gp-alice")
	created, err := s.app.Sessions.Create(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(model.SessionID("g-one"), created.SessionID)
	s.Equal(model.SessionStatusWaiting, created.Session.Status)

	// Step 2: bob joins; the session fills and goes active
	s.app.MockRandom.QueueID("p-bob", "gp-bob")
	joined, err := s.app.Sessions.Join(s.ctx, created.SessionID, "bob")
	s.Require().NoError(err)
	s.Equal(model.SessionStatusActive, joined.Session.Status)

	// Step 3: a third participant is turned away
	_, err = s.app.Sessions.Join(s.ctx, created.SessionID, "carol")
	s.ErrorIs(err, model.ErrSessionNotJoinable)

	// Step 4: bob's state gets recorded
	s.app.MockClock.Advance(time.Second)
	err = s.app.Sessions.RecordState(s.ctx, joined.SessionParticipantID,
		model.Position{X: 5, Y: -5}, 60, true)
	s.Require().NoError(err)

	members, err := s.app.Sessions.Participants(s.ctx, created.SessionID)
	s.Require().NoError(err)
	s.Require().Len(members, 2)

	byID := map[model.SessionParticipantID]*model.SessionParticipant{}
	for _, m := range members {
		byID[m.ID] = m
	}
	s.Equal(60, byID["gp-bob"].Health)
	s.Equal(model.Position{X: 5, Y: -5}, byID["gp-bob"].LastPosition)
	s.Equal(model.MaxHealth, byID["gp-alice"].Health)

	// Step 5: the diagnostic snapshot side channel is independent
	s.app.Snapshots.Put(model.PlayerState{
		GameID:       string(created.SessionID),
		GamePlayerID: "gp-bob",
		Username:     "bob",
		Health:       60,
		IsAlive:      true,
	})
	states := s.app.Snapshots.List()
	s.Require().Len(states, 1)
	s.Equal("bob", states[0].Username)
}

func (s *IntegrationSuite) TestDisplayNamesAreGlobalIdentities() {
	first, err := s.app.Sessions.Create(s.ctx, "alice")
	s.Require().NoError(err)

	second, err := s.app.Sessions.Create(s.ctx, "alice")
	s.Require().NoError(err)

	s.Equal(first.ParticipantID, second.ParticipantID)
	s.NotEqual(first.SessionID, second.SessionID)
}

func TestFactoryDefaultsToMemoryStorage(t *testing.T) {
	app, err := New(Config{})
	if err != nil {
		t.Fatalf("factory failed: %v", err)
	}
	if app.Storage == nil || app.Sessions == nil || app.Gateway == nil || app.HubManager == nil || app.Snapshots == nil {
		t.Fatal("factory left components unwired")
	}
}

func TestFactoryRejectsUnknownStorageType(t *testing.T) {
	_, err := New(Config{StorageType: "bogus"})
	if err == nil {
		t.Fatal("expected an error for unknown storage type")
	}
}

func TestFactoryRequiresRedisConfig(t *testing.T) {
	_, err := New(Config{StorageType: StorageTypeRedis})
	if err == nil {
		t.Fatal("expected an error when redis config is missing")
	}
}
