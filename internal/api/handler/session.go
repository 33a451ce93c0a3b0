package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/outlast-gg/arena/internal/api/apierr"
	"github.com/outlast-gg/arena/internal/api/response"
	"github.com/outlast-gg/arena/internal/model"
	"github.com/outlast-gg/arena/internal/services/session"
)

// SessionHandler exposes read-only session state. Sessions are created
// and joined over the websocket gateway; this surface exists so the
// durable side of a session can be inspected.
type SessionHandler struct {
	sessions *session.Manager
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessions *session.Manager) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

// Get handles GET /api/v1/sessions/{id}
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := model.SessionID(mux.Vars(r)["id"])

	s, err := h.sessions.GetSession(r.Context(), id)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	participants, err := h.sessions.Participants(r.Context(), id)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.SessionDetailFromModel(s, participants))
}
