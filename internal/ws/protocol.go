package ws

import "encoding/json"

// Event names for the real-time protocol. Inbound events are emitted by
// clients; outbound events are emitted by the gateway.
const (
	// Inbound
	EventCreateGame   = "createGame"
	EventJoinGame     = "joinGame"
	EventPlayerUpdate = "playerUpdate"

	// Outbound
	EventGameCreated       = "gameCreated"
	EventJoinedGame        = "joinedGame"
	EventPlayerJoined      = "playerJoined"
	EventPlayerStateUpdate = "playerStateUpdate"
	EventPlayerLeft        = "playerLeft"
	EventError             = "error"
)

// Envelope wraps every message on the wire in both directions
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// CreateGamePayload is the inbound payload for createGame
type CreateGamePayload struct {
	Username string `json:"username"`
}

// JoinGamePayload is the inbound payload for joinGame
type JoinGamePayload struct {
	GameID   string `json:"gameId"`
	Username string `json:"username"`
}

// IdentifiersPayload is the outbound payload for gameCreated and
// joinedGame: the identifiers the client needs for all later messages
type IdentifiersPayload struct {
	GameID       string `json:"gameId"`
	GamePlayerID string `json:"gamePlayerId"`
	PlayerID     string `json:"playerId"`
}

// PlayerJoinedPayload is broadcast to a session's existing connections
// when another participant joins
type PlayerJoinedPayload struct {
	GamePlayerID string `json:"gamePlayerId"`
	PlayerID     string `json:"playerId"`
	Username     string `json:"username"`
	Health       int    `json:"health"`
	IsAlive      bool   `json:"isAlive"`
}

// PlayerLeftPayload is broadcast to a session's remaining connections
// when a participant's connection closes
type PlayerLeftPayload struct {
	GamePlayerID string `json:"gamePlayerId"`
	PlayerID     string `json:"playerId"`
	Username     string `json:"username"`
}

// ErrorPayload is the outbound payload for error replies
type ErrorPayload struct {
	Message string `json:"message"`
}

// encodeEvent marshals an event and payload into a wire message.
// Marshaling only fails for unencodable payload types, which would be a
// programming error; callers treat a nil result as nothing-to-send.
func encodeEvent(event string, payload any) []byte {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil
	}
	msg, err := json.Marshal(Envelope{Event: event, Data: data})
	if err != nil {
		return nil
	}
	return msg
}
