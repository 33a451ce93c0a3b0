package response

import (
	"time"

	"github.com/outlast-gg/arena/internal/model"
)

// Session represents a session in API responses
type Session struct {
	ID              string    `json:"id"`
	Status          string    `json:"status"`
	MaxParticipants int       `json:"max_participants"`
	CreatedAt       time.Time `json:"created_at"`
}

// SessionFromModel converts a model.Session to a response Session
func SessionFromModel(s *model.Session) Session {
	return Session{
		ID:              string(s.ID),
		Status:          string(s.Status),
		MaxParticipants: s.MaxParticipants,
		CreatedAt:       s.CreatedAt,
	}
}

// SessionParticipant represents a join record in API responses
type SessionParticipant struct {
	ID            string         `json:"id"`
	SessionID     string         `json:"session_id"`
	ParticipantID string         `json:"participant_id"`
	Health        int            `json:"health"`
	IsAlive       bool           `json:"is_alive"`
	LastPosition  model.Position `json:"last_position"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// SessionParticipantFromModel converts model.SessionParticipant
func SessionParticipantFromModel(sp *model.SessionParticipant) SessionParticipant {
	return SessionParticipant{
		ID:            string(sp.ID),
		SessionID:     string(sp.SessionID),
		ParticipantID: string(sp.ParticipantID),
		Health:        sp.Health,
		IsAlive:       sp.IsAlive,
		LastPosition:  sp.LastPosition,
		UpdatedAt:     sp.UpdatedAt,
	}
}

// SessionDetail is a session plus its join records
type SessionDetail struct {
	Session      Session              `json:"session"`
	Participants []SessionParticipant `json:"participants"`
}

// SessionDetailFromModel converts a session and its join records
func SessionDetailFromModel(s *model.Session, sps []*model.SessionParticipant) SessionDetail {
	participants := make([]SessionParticipant, len(sps))
	for i, sp := range sps {
		participants[i] = SessionParticipantFromModel(sp)
	}
	return SessionDetail{
		Session:      SessionFromModel(s),
		Participants: participants,
	}
}

// StatusOK is the body returned for accepted snapshot submissions
type StatusOK struct {
	Status string `json:"status"`
}
