package ws

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/outlast-gg/arena/internal/model"
	"github.com/outlast-gg/arena/internal/services/session"
)

// recordTimeout bounds the fire-and-forget persistence write for one
// frame. The write may outlive the fan-out that triggered it but not by
// much; a frame's durable snapshot is worthless once later frames land.
const recordTimeout = 5 * time.Second

// Gateway terminates websocket connections, admits them into sessions
// via the session manager, and routes playerUpdate frames into the
// per-session hubs. The transport is public and unauthenticated: any
// origin may connect, and reported state is trusted as-is.
type Gateway struct {
	sessions *session.Manager
	hubs     *HubManager
	logger   *slog.Logger
	upgrader websocket.Upgrader
}

// NewGateway creates a new Gateway
func NewGateway(sessions *session.Manager, hubs *HubManager, logger *slog.Logger) *Gateway {
	return &Gateway{
		sessions: sessions,
		hubs:     hubs,
		logger:   logger.With(slog.String("component", "gateway")),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// ServeHTTP upgrades the request and runs the connection until it closes
func (g *Gateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.logger.Warn("upgrade failed", slog.Any("error", err))
		return
	}

	client := &Client{
		gateway:     g,
		conn:        conn,
		send:        make(chan []byte, sendBufferSize),
		limiter:     NewLimiter(MinUpdateInterval),
		connectedAt: time.Now(),
	}

	g.logger.Info("connection opened", slog.String("remote", conn.RemoteAddr().String()))

	go client.writePump()
	client.readPump()
}

// handleMessage dispatches one inbound message from a client's readPump
func (g *Gateway) handleMessage(c *Client, raw []byte) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		c.sendEvent(EventError, ErrorPayload{Message: "Malformed message."})
		return
	}

	switch env.Event {
	case EventCreateGame:
		g.handleCreateGame(c, env.Data)
	case EventJoinGame:
		g.handleJoinGame(c, env.Data)
	case EventPlayerUpdate:
		g.handlePlayerUpdate(c, env.Data)
	default:
		// Unknown events are ignored, matching the loss-tolerant feed
	}
}

func (g *Gateway) handleCreateGame(c *Client, data json.RawMessage) {
	if c.scoped() {
		c.sendEvent(EventError, ErrorPayload{Message: "Connection is already in a game."})
		return
	}

	var payload CreateGamePayload
	if err := json.Unmarshal(data, &payload); err != nil {
		c.sendEvent(EventError, ErrorPayload{Message: "Malformed createGame payload."})
		return
	}

	result, err := g.sessions.Create(context.Background(), payload.Username)
	if err != nil {
		c.sendEvent(EventError, ErrorPayload{Message: createErrorMessage(err)})
		return
	}

	g.scopeClient(c, result)
	c.sendEvent(EventGameCreated, identifiers(result))
}

func (g *Gateway) handleJoinGame(c *Client, data json.RawMessage) {
	if c.scoped() {
		c.sendEvent(EventError, ErrorPayload{Message: "Connection is already in a game."})
		return
	}

	var payload JoinGamePayload
	if err := json.Unmarshal(data, &payload); err != nil {
		c.sendEvent(EventError, ErrorPayload{Message: "Malformed joinGame payload."})
		return
	}

	result, err := g.sessions.Join(context.Background(), model.SessionID(payload.GameID), payload.Username)
	if err != nil {
		c.sendEvent(EventError, ErrorPayload{Message: joinErrorMessage(err)})
		return
	}

	g.scopeClient(c, result)
	c.sendEvent(EventJoinedGame, identifiers(result))

	// Tell the session's existing connections about the new participant
	c.hub.BroadcastEvent(c, EventPlayerJoined, PlayerJoinedPayload{
		GamePlayerID: string(result.SessionParticipantID),
		PlayerID:     string(result.ParticipantID),
		Username:     result.Participant.DisplayName,
		Health:       result.SessionParticipant.Health,
		IsAlive:      result.SessionParticipant.IsAlive,
	})
}

// handlePlayerUpdate relays a state frame to the sender's session and
// kicks off the decoupled persistence write. Frames from unscoped
// connections and frames above the per-connection rate are dropped
// silently.
func (g *Gateway) handlePlayerUpdate(c *Client, data json.RawMessage) {
	if !c.scoped() {
		return
	}
	if !c.limiter.Allow(time.Now()) {
		return
	}

	var state model.PlayerState
	if err := json.Unmarshal(data, &state); err != nil {
		return
	}

	// Fan out first; the durable write must never block or fail delivery
	c.hub.BroadcastEvent(c, EventPlayerStateUpdate, json.RawMessage(data))

	spID := model.SessionParticipantID(state.GamePlayerID)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
		defer cancel()
		if err := g.sessions.RecordState(ctx, spID, state.Position, state.Health, state.IsAlive); err != nil {
			g.logger.Warn("record state failed",
				slog.String("game_player_id", string(spID)),
				slog.Any("error", err))
		}
	}()
}

// scopeClient binds an admitted connection to its session's recipient
// group. Register fails when the hub is torn down between the manager
// lookup and the membership write; the next lookup replaces the dead hub.
func (g *Gateway) scopeClient(c *Client, result *session.JoinResult) {
	c.sessionID = result.SessionID
	c.gamePlayerID = string(result.SessionParticipantID)
	c.playerID = string(result.ParticipantID)
	c.username = result.Participant.DisplayName
	for {
		hub := g.hubs.GetOrCreateHub(result.SessionID)
		if hub.Register(c) {
			c.hub = hub
			return
		}
	}
}

// identifiers builds the reply payload for gameCreated/joinedGame
func identifiers(result *session.JoinResult) IdentifiersPayload {
	return IdentifiersPayload{
		GameID:       string(result.SessionID),
		GamePlayerID: string(result.SessionParticipantID),
		PlayerID:     string(result.ParticipantID),
	}
}

// createErrorMessage maps a create failure to its client-facing message
func createErrorMessage(err error) string {
	if msg, ok := validationMessage(err); ok {
		return msg
	}
	return "Could not create game."
}

// joinErrorMessage maps a join failure to its client-facing message
func joinErrorMessage(err error) string {
	if msg, ok := validationMessage(err); ok {
		return msg
	}
	return "Could not join game."
}

func validationMessage(err error) (string, bool) {
	switch {
	case errors.Is(err, model.ErrEmptyDisplayName):
		return "Username must not be empty.", true
	case errors.Is(err, model.ErrSessionNotJoinable):
		return "Game not found or is already in progress.", true
	}
	return "", false
}
