package redis

import (
	"fmt"

	"github.com/outlast-gg/arena/internal/model"
)

// Key prefix for all arena data
const keyPrefix = "arena"

// Key generation functions for each entity type

// participantKey returns the Redis key for a Participant
func participantKey(id model.ParticipantID) string {
	return fmt.Sprintf("%s:participant:%s", keyPrefix, id)
}

// displayNameIndexKey returns the Redis key for the display_name -> participant_id index
func displayNameIndexKey(displayName string) string {
	return fmt.Sprintf("%s:idx:display_name:%s", keyPrefix, displayName)
}

// sessionKey returns the Redis key for a Session
func sessionKey(id model.SessionID) string {
	return fmt.Sprintf("%s:session:%s", keyPrefix, id)
}

// sessionParticipantKey returns the Redis key for a SessionParticipant
func sessionParticipantKey(id model.SessionParticipantID) string {
	return fmt.Sprintf("%s:session_participant:%s", keyPrefix, id)
}

// participantsForSessionIndexKey returns the Redis key for the SET of
// session participant keys belonging to a session
func participantsForSessionIndexKey(sessionID model.SessionID) string {
	return fmt.Sprintf("%s:idx:participants_for_session:%s", keyPrefix, sessionID)
}
