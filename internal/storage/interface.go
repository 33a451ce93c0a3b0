package storage

import (
	"context"

	"github.com/outlast-gg/arena/internal/model"
)

// Storage defines the interface for data persistence
type Storage interface {
	// Participant operations
	SaveParticipant(ctx context.Context, p *model.Participant) error
	GetParticipant(ctx context.Context, id model.ParticipantID) (*model.Participant, error)
	GetParticipantByDisplayName(ctx context.Context, displayName string) (*model.Participant, error)

	// Session operations
	SaveSession(ctx context.Context, session *model.Session) error
	GetSession(ctx context.Context, id model.SessionID) (*model.Session, error)
	SessionExists(ctx context.Context, id model.SessionID) (bool, error)

	// Session participant operations
	SaveSessionParticipant(ctx context.Context, sp *model.SessionParticipant) error
	GetSessionParticipant(ctx context.Context, id model.SessionParticipantID) (*model.SessionParticipant, error)
	GetSessionParticipantsForSession(ctx context.Context, sessionID model.SessionID) ([]*model.SessionParticipant, error)
}
