package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/outlast-gg/arena/internal/api"
	"github.com/outlast-gg/arena/internal/api/response"
	"github.com/outlast-gg/arena/internal/factory"
	"github.com/outlast-gg/arena/internal/model"
	"github.com/outlast-gg/arena/internal/services/session"
	"github.com/outlast-gg/arena/internal/storage/memory"
)

// testServer creates a test server with all dependencies
type testServer struct {
	handler  http.Handler
	storage  *memory.Storage
	sessions *session.Manager
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	// API tests are integration tests - use production factory with real random/clock
	app, err := factory.New(factory.Config{})
	require.NoError(t, err)

	router := api.NewRouter(api.RouterConfig{
		Logger:    logger,
		Sessions:  app.Sessions,
		Snapshots: app.Snapshots,
		Gateway:   app.Gateway,
	})

	return &testServer{
		handler:  router,
		storage:  app.Storage.(*memory.Storage),
		sessions: app.Sessions,
	}
}

func (ts *testServer) request(method, path string, body any) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		b, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(b)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/health", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "ok")
}

func TestGetSession(t *testing.T) {
	ts := newTestServer(t)

	created, err := ts.sessions.Create(context.Background(), "alice")
	require.NoError(t, err)

	rr := ts.request(http.MethodGet, "/api/v1/sessions/"+string(created.SessionID), nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	var detail response.SessionDetail
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &detail))
	assert.Equal(t, string(created.SessionID), detail.Session.ID)
	assert.Equal(t, string(model.SessionStatusWaiting), detail.Session.Status)
	require.Len(t, detail.Participants, 1)
	assert.Equal(t, string(created.SessionParticipantID), detail.Participants[0].ID)
	assert.Equal(t, model.MaxHealth, detail.Participants[0].Health)
	assert.True(t, detail.Participants[0].IsAlive)
}

func TestGetSessionNotFound(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/sessions/g-nonexistent", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "SESSION_NOT_FOUND")
}

func TestSubmitAndListPlayerState(t *testing.T) {
	ts := newTestServer(t)

	state := model.PlayerState{
		GameID:       "g-1",
		GamePlayerID: "gp-1",
		PlayerID:     "p-1",
		Username:     "alice",
		Position:     model.Position{X: 3, Y: 4},
		Health:       70,
		IsAlive:      true,
	}
	rr := ts.request(http.MethodPost, "/api/v1/player-state", state)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "ok")

	rr = ts.request(http.MethodGet, "/api/v1/player-state", nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	var states []model.PlayerState
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &states))
	require.Len(t, states, 1)
	assert.Equal(t, "gp-1", states[0].GamePlayerID)
	assert.Equal(t, 70, states[0].Health)
	assert.Equal(t, 3.0, states[0].Position.X)
}

func TestSubmitPlayerStateValidation(t *testing.T) {
	ts := newTestServer(t)

	// Missing gamePlayerId
	rr := ts.request(http.MethodPost, "/api/v1/player-state", model.PlayerState{Username: "alice"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "INVALID_REQUEST")

	// Malformed body
	req := httptest.NewRequest(http.MethodPost, "/api/v1/player-state", bytes.NewBufferString("not json"))
	recorder := httptest.NewRecorder()
	ts.handler.ServeHTTP(recorder, req)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestListPlayerStatesEmpty(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/player-state", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, "[]", rr.Body.String())
}

func TestCORSHeaders(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/health", nil)
	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
}
