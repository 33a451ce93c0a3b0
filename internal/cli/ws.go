package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/gorilla/websocket"

	"github.com/outlast-gg/arena/internal/ws"
)

const handshakeTimeout = 10 * time.Second

// GameConn is a websocket connection scoped to a single game session.
type GameConn struct {
	conn         *websocket.Conn
	GameID       string
	GamePlayerID string
	PlayerID     string
}

func dialGame(wsURL string) (*websocket.Conn, error) {
	dialer := websocket.Dialer{HandshakeTimeout: handshakeTimeout}
	conn, _, err := dialer.Dial(wsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", wsURL, err)
	}
	return conn, nil
}

func sendEvent(conn *websocket.Conn, event string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal %s payload: %w", event, err)
	}
	env := ws.Envelope{Event: event, Data: data}
	msg, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("failed to marshal %s envelope: %w", event, err)
	}
	return conn.WriteMessage(websocket.TextMessage, msg)
}

// awaitReply reads envelopes until one matching want (or an error event)
// arrives. Broadcasts for other participants may interleave, so anything
// else is skipped.
func awaitReply(conn *websocket.Conn, want string) (json.RawMessage, error) {
	deadline := time.Now().Add(handshakeTimeout)
	if err := conn.SetReadDeadline(deadline); err != nil {
		return nil, err
	}
	defer func() { _ = conn.SetReadDeadline(time.Time{}) }()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return nil, fmt.Errorf("connection closed while waiting for %s: %w", want, err)
		}
		var env ws.Envelope
		if err := json.Unmarshal(msg, &env); err != nil {
			continue
		}
		switch env.Event {
		case want:
			return env.Data, nil
		case ws.EventError:
			var errPayload ws.ErrorPayload
			if err := json.Unmarshal(env.Data, &errPayload); err != nil {
				return nil, fmt.Errorf("server returned an error")
			}
			return nil, fmt.Errorf("%s", errPayload.Message)
		}
	}
}

// CreateGame connects and creates a new game session for username.
func CreateGame(wsURL, username string) (*GameConn, error) {
	conn, err := dialGame(wsURL)
	if err != nil {
		return nil, err
	}

	if err := sendEvent(conn, ws.EventCreateGame, ws.CreateGamePayload{Username: username}); err != nil {
		_ = conn.Close()
		return nil, err
	}

	data, err := awaitReply(conn, ws.EventGameCreated)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	var ids ws.IdentifiersPayload
	if err := json.Unmarshal(data, &ids); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to parse gameCreated reply: %w", err)
	}

	return &GameConn{
		conn:         conn,
		GameID:       ids.GameID,
		GamePlayerID: ids.GamePlayerID,
		PlayerID:     ids.PlayerID,
	}, nil
}

// JoinGame connects and joins an existing game session for username.
func JoinGame(wsURL, gameID, username string) (*GameConn, error) {
	conn, err := dialGame(wsURL)
	if err != nil {
		return nil, err
	}

	if err := sendEvent(conn, ws.EventJoinGame, ws.JoinGamePayload{GameID: gameID, Username: username}); err != nil {
		_ = conn.Close()
		return nil, err
	}

	data, err := awaitReply(conn, ws.EventJoinedGame)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	var ids ws.IdentifiersPayload
	if err := json.Unmarshal(data, &ids); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to parse joinedGame reply: %w", err)
	}

	return &GameConn{
		conn:         conn,
		GameID:       ids.GameID,
		GamePlayerID: ids.GamePlayerID,
		PlayerID:     ids.PlayerID,
	}, nil
}

// SendUpdate sends a playerUpdate frame with the given state.
func (g *GameConn) SendUpdate(state any) error {
	return sendEvent(g.conn, ws.EventPlayerUpdate, state)
}

// ReadEnvelope blocks for the next event from the server.
func (g *GameConn) ReadEnvelope() (*ws.Envelope, error) {
	_, msg, err := g.conn.ReadMessage()
	if err != nil {
		return nil, err
	}
	var env ws.Envelope
	if err := json.Unmarshal(msg, &env); err != nil {
		return nil, fmt.Errorf("failed to parse event: %w", err)
	}
	return &env, nil
}

// Close closes the underlying connection.
func (g *GameConn) Close() error {
	return g.conn.Close()
}
