package model

import "time"

// ParticipantID uniquely identifies a participant across the system
type ParticipantID string

// SessionParticipantID uniquely identifies one participant's membership
// in one session
type SessionParticipantID string

// Participant is a person known to the system across sessions, unique by
// display name. Creating or joining a session with a name that already
// exists reuses the same identity.
type Participant struct {
	ID          ParticipantID
	DisplayName string
	CreatedAt   time.Time
}

// Position is a 2D point in world coordinates
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Velocity is a 2D vector in world units per second
type Velocity struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// SessionParticipant binds a Participant to a Session and holds the
// durable slice of their live state: last known position, health and
// alive flag. Exactly one record exists per (session, participant) pair.
// Records are mutated on every accepted state update and never deleted.
type SessionParticipant struct {
	ID            SessionParticipantID
	SessionID     SessionID
	ParticipantID ParticipantID
	Health        int
	IsAlive       bool
	LastPosition  Position
	JoinedAt      time.Time
	UpdatedAt     time.Time
}

// MaxHealth is the upper bound for reported health values. Reported
// health is clamped to [0, MaxHealth] before persisting.
const MaxHealth = 100
