package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/outlast-gg/arena/internal/dependencies/mocks"
	"github.com/outlast-gg/arena/internal/model"
	"github.com/outlast-gg/arena/internal/storage/memory"
	"github.com/outlast-gg/arena/internal/testutil"
)

type ManagerSuite struct {
	suite.Suite
	storage *memory.Storage
	clock   *mocks.MockClock
	random  *mocks.MockRandom
	manager *Manager
	ctx     context.Context
}

func TestManagerSuite(t *testing.T) {
	suite.Run(t, new(ManagerSuite))
}

func (s *ManagerSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()
	s.manager = NewManager(s.storage, s.clock, s.random, testutil.NopLogger())
	s.ctx = context.Background()
}

// Create tests

func (s *ManagerSuite) TestCreateSucceeds() {
	s.random.QueueID("p-alice", "g-one", "gp-alice")

	result, err := s.manager.Create(s.ctx, "alice")
	s.Require().NoError(err)

	s.Equal(model.SessionID("g-one"), result.SessionID)
	s.Equal(model.SessionParticipantID("gp-alice"), result.SessionParticipantID)
	s.Equal(model.ParticipantID("p-alice"), result.ParticipantID)
	s.Equal(model.SessionStatusWaiting, result.Session.Status)
	s.Equal(model.DefaultMaxParticipants, result.Session.MaxParticipants)
}

func (s *ManagerSuite) TestCreateIsPersisted() {
	result, err := s.manager.Create(s.ctx, "alice")
	s.Require().NoError(err)

	session, err := s.manager.GetSession(s.ctx, result.SessionID)
	s.Require().NoError(err)
	s.Equal(model.SessionStatusWaiting, session.Status)

	members, err := s.manager.Participants(s.ctx, result.SessionID)
	s.Require().NoError(err)
	s.Require().Len(members, 1)
	s.Equal(result.SessionParticipantID, members[0].ID)
	s.Equal(model.MaxHealth, members[0].Health)
	s.True(members[0].IsAlive)
}

func (s *ManagerSuite) TestCreateEmptyDisplayName() {
	_, err := s.manager.Create(s.ctx, "")
	s.ErrorIs(err, model.ErrEmptyDisplayName)
}

func (s *ManagerSuite) TestCreateReusesExistingParticipant() {
	first, err := s.manager.Create(s.ctx, "alice")
	s.Require().NoError(err)

	second, err := s.manager.Create(s.ctx, "alice")
	s.Require().NoError(err)

	s.Equal(first.ParticipantID, second.ParticipantID)
	s.NotEqual(first.SessionID, second.SessionID)
	s.NotEqual(first.SessionParticipantID, second.SessionParticipantID)
}

// Join tests

func (s *ManagerSuite) TestJoinSucceeds() {
	created, err := s.manager.Create(s.ctx, "alice")
	s.Require().NoError(err)

	joined, err := s.manager.Join(s.ctx, created.SessionID, "bob")
	s.Require().NoError(err)

	s.Equal(created.SessionID, joined.SessionID)
	s.NotEqual(created.ParticipantID, joined.ParticipantID)
	s.Equal(model.MaxHealth, joined.SessionParticipant.Health)
	s.True(joined.SessionParticipant.IsAlive)
}

func (s *ManagerSuite) TestJoinActivatesSessionAtCapacity() {
	created, err := s.manager.Create(s.ctx, "alice")
	s.Require().NoError(err)

	joined, err := s.manager.Join(s.ctx, created.SessionID, "bob")
	s.Require().NoError(err)
	s.Equal(model.SessionStatusActive, joined.Session.Status)

	session, err := s.manager.GetSession(s.ctx, created.SessionID)
	s.Require().NoError(err)
	s.Equal(model.SessionStatusActive, session.Status)
}

func (s *ManagerSuite) TestJoinActiveSessionFails() {
	created, err := s.manager.Create(s.ctx, "alice")
	s.Require().NoError(err)

	_, err = s.manager.Join(s.ctx, created.SessionID, "bob")
	s.Require().NoError(err)

	_, err = s.manager.Join(s.ctx, created.SessionID, "carol")
	s.ErrorIs(err, model.ErrSessionNotJoinable)
}

func (s *ManagerSuite) TestJoinMissingSessionFails() {
	_, err := s.manager.Join(s.ctx, "g-nonexistent", "bob")
	s.ErrorIs(err, model.ErrSessionNotJoinable)
}

func (s *ManagerSuite) TestJoinEmptyDisplayName() {
	created, err := s.manager.Create(s.ctx, "alice")
	s.Require().NoError(err)

	_, err = s.manager.Join(s.ctx, created.SessionID, "")
	s.ErrorIs(err, model.ErrEmptyDisplayName)
}

func (s *ManagerSuite) TestJoinReusesExistingParticipant() {
	created, err := s.manager.Create(s.ctx, "alice")
	s.Require().NoError(err)

	// bob already exists from an earlier session
	earlier, err := s.manager.Create(s.ctx, "bob")
	s.Require().NoError(err)

	joined, err := s.manager.Join(s.ctx, created.SessionID, "bob")
	s.Require().NoError(err)
	s.Equal(earlier.ParticipantID, joined.ParticipantID)
}

// RecordState tests

func (s *ManagerSuite) TestRecordStateUpdatesRecord() {
	created, err := s.manager.Create(s.ctx, "alice")
	s.Require().NoError(err)

	s.clock.Advance(time.Second)
	pos := model.Position{X: 12.5, Y: -3}
	err = s.manager.RecordState(s.ctx, created.SessionParticipantID, pos, 42, true)
	s.Require().NoError(err)

	members, err := s.manager.Participants(s.ctx, created.SessionID)
	s.Require().NoError(err)
	s.Require().Len(members, 1)
	s.Equal(pos, members[0].LastPosition)
	s.Equal(42, members[0].Health)
	s.True(members[0].IsAlive)
	s.Equal(s.clock.Now(), members[0].UpdatedAt)
}

func (s *ManagerSuite) TestRecordStateClampsHealth() {
	created, err := s.manager.Create(s.ctx, "alice")
	s.Require().NoError(err)

	err = s.manager.RecordState(s.ctx, created.SessionParticipantID, model.Position{}, 250, true)
	s.Require().NoError(err)
	members, _ := s.manager.Participants(s.ctx, created.SessionID)
	s.Equal(model.MaxHealth, members[0].Health)

	err = s.manager.RecordState(s.ctx, created.SessionParticipantID, model.Position{}, -10, false)
	s.Require().NoError(err)
	members, _ = s.manager.Participants(s.ctx, created.SessionID)
	s.Equal(0, members[0].Health)
	s.False(members[0].IsAlive)
}

func (s *ManagerSuite) TestRecordStateConcurrentWrites() {
	created, err := s.manager.Create(s.ctx, "alice")
	s.Require().NoError(err)

	// Frames land from one goroutine per accepted update; under the race
	// detector this fails if any two writes share a record
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(health int) {
			defer wg.Done()
			_ = s.manager.RecordState(s.ctx, created.SessionParticipantID,
				model.Position{X: float64(health)}, health, true)
		}(i + 1)
	}
	wg.Wait()

	members, err := s.manager.Participants(s.ctx, created.SessionID)
	s.Require().NoError(err)
	s.Require().Len(members, 1)
	// Last write wins; whichever frame landed last must be internally
	// consistent
	s.Equal(members[0].LastPosition.X, float64(members[0].Health))
	s.GreaterOrEqual(members[0].Health, 1)
	s.LessOrEqual(members[0].Health, 20)
}

func (s *ManagerSuite) TestRecordStateUnknownParticipant() {
	err := s.manager.RecordState(s.ctx, "gp-nonexistent", model.Position{}, 100, true)
	s.ErrorIs(err, model.ErrSessionParticipantNotFound)
}

// faultyStorage injects failures into individual lookups while
// delegating everything else to a real in-memory store.
type faultyStorage struct {
	*memory.Storage
	nameLookupErr error
	sessionErr    error
}

func (f *faultyStorage) GetParticipantByDisplayName(ctx context.Context, displayName string) (*model.Participant, error) {
	if f.nameLookupErr != nil {
		return nil, f.nameLookupErr
	}
	return f.Storage.GetParticipantByDisplayName(ctx, displayName)
}

func (f *faultyStorage) GetSession(ctx context.Context, id model.SessionID) (*model.Session, error) {
	if f.sessionErr != nil {
		return nil, f.sessionErr
	}
	return f.Storage.GetSession(ctx, id)
}

func (s *ManagerSuite) TestCreateSurfacesNameLookupFailure() {
	lookupErr := errors.New("backend unavailable")
	faulty := &faultyStorage{Storage: s.storage, nameLookupErr: lookupErr}
	manager := NewManager(faulty, s.clock, s.random, testutil.NopLogger())

	_, err := manager.Create(s.ctx, "alice")
	s.Require().Error(err)
	s.ErrorIs(err, lookupErr)

	// No participant may be created while the uniqueness check is
	// unanswerable
	_, err = s.storage.GetParticipantByDisplayName(s.ctx, "alice")
	s.ErrorIs(err, model.ErrParticipantNotFound)
}

func (s *ManagerSuite) TestJoinSurfacesSessionLookupFailure() {
	result, err := s.manager.Create(s.ctx, "alice")
	s.Require().NoError(err)

	sessionErr := errors.New("backend unavailable")
	faulty := &faultyStorage{Storage: s.storage, sessionErr: sessionErr}
	manager := NewManager(faulty, s.clock, s.random, testutil.NopLogger())

	_, err = manager.Join(s.ctx, result.SessionID, "bob")
	s.Require().Error(err)
	s.ErrorIs(err, sessionErr)
	s.NotErrorIs(err, model.ErrSessionNotJoinable)
}
