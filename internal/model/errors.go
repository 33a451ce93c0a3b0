package model

import "errors"

// Common errors used across the application
var (
	// Validation errors
	ErrEmptyDisplayName = errors.New("display name must not be empty")

	// Session errors
	ErrSessionNotFound    = errors.New("session not found")
	ErrSessionNotJoinable = errors.New("session not found or is already in progress")

	// Participant errors
	ErrParticipantNotFound        = errors.New("participant not found")
	ErrSessionParticipantNotFound = errors.New("session participant not found")
)
