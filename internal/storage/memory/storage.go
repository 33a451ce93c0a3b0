package memory

import (
	"context"
	"sync"

	"github.com/outlast-gg/arena/internal/model"
	"github.com/outlast-gg/arena/internal/storage"
)

// Storage is an in-memory implementation of the storage interface.
// Records are copied on save and on get, matching the value semantics of
// the redis backend's JSON round-trip: callers may mutate what they get
// back without racing other readers or writers of the same record.
type Storage struct {
	mu sync.RWMutex

	participants        map[model.ParticipantID]model.Participant
	displayNameIndex    map[string]model.ParticipantID
	sessions            map[model.SessionID]model.Session
	sessionParticipants map[model.SessionParticipantID]model.SessionParticipant
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		participants:        make(map[model.ParticipantID]model.Participant),
		displayNameIndex:    make(map[string]model.ParticipantID),
		sessions:            make(map[model.SessionID]model.Session),
		sessionParticipants: make(map[model.SessionParticipantID]model.SessionParticipant),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Participant operations

func (s *Storage) SaveParticipant(ctx context.Context, p *model.Participant) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.participants[p.ID] = *p
	s.displayNameIndex[p.DisplayName] = p.ID
	return nil
}

func (s *Storage) GetParticipant(ctx context.Context, id model.ParticipantID) (*model.Participant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.participants[id]
	if !ok {
		return nil, model.ErrParticipantNotFound
	}
	return &p, nil
}

func (s *Storage) GetParticipantByDisplayName(ctx context.Context, displayName string) (*model.Participant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.displayNameIndex[displayName]
	if !ok {
		return nil, model.ErrParticipantNotFound
	}
	p, ok := s.participants[id]
	if !ok {
		return nil, model.ErrParticipantNotFound
	}
	return &p, nil
}

// Session operations

func (s *Storage) SaveSession(ctx context.Context, session *model.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = *session
	return nil
}

func (s *Storage) GetSession(ctx context.Context, id model.SessionID) (*model.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[id]
	if !ok {
		return nil, model.ErrSessionNotFound
	}
	return &session, nil
}

func (s *Storage) SessionExists(ctx context.Context, id model.SessionID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.sessions[id]
	return ok, nil
}

// Session participant operations

func (s *Storage) SaveSessionParticipant(ctx context.Context, sp *model.SessionParticipant) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessionParticipants[sp.ID] = *sp
	return nil
}

func (s *Storage) GetSessionParticipant(ctx context.Context, id model.SessionParticipantID) (*model.SessionParticipant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sp, ok := s.sessionParticipants[id]
	if !ok {
		return nil, model.ErrSessionParticipantNotFound
	}
	return &sp, nil
}

func (s *Storage) GetSessionParticipantsForSession(ctx context.Context, sessionID model.SessionID) ([]*model.SessionParticipant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []*model.SessionParticipant
	for _, sp := range s.sessionParticipants {
		if sp.SessionID == sessionID {
			result = append(result, &sp)
		}
	}
	return result, nil
}
