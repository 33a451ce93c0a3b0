package model

import "time"

// SessionID uniquely identifies a game session
type SessionID string

// SessionStatus represents the lifecycle state of a session
type SessionStatus string

const (
	SessionStatusWaiting  SessionStatus = "waiting"  // Accepting joins
	SessionStatusActive   SessionStatus = "active"   // Full, gameplay in progress
	SessionStatusFinished SessionStatus = "finished" // Over; nothing in this core transitions here
)

// DefaultMaxParticipants is the session capacity when none is configured.
// A session stops accepting joins and moves to active once this many
// participants hold join records.
const DefaultMaxParticipants = 2

// Session is one match scoping a set of participants who broadcast to
// each other. Joinability is governed by an explicit state machine:
// waiting -> active when the participant count reaches MaxParticipants,
// and only waiting sessions accept joins.
type Session struct {
	ID              SessionID
	Status          SessionStatus
	MaxParticipants int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Joinable reports whether the session is still accepting participants
func (s *Session) Joinable() bool {
	return s.Status == SessionStatusWaiting
}
