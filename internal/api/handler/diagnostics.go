package handler

import (
	"encoding/json"
	"net/http"

	"github.com/outlast-gg/arena/internal/api/apierr"
	"github.com/outlast-gg/arena/internal/api/response"
	"github.com/outlast-gg/arena/internal/model"
	"github.com/outlast-gg/arena/internal/services/snapshot"
)

// DiagnosticsHandler exposes the last-known PlayerState snapshots. It is
// a side channel for operators and tests; the real-time path never goes
// through it.
type DiagnosticsHandler struct {
	snapshots *snapshot.Store
}

// NewDiagnosticsHandler creates a new diagnostics handler
func NewDiagnosticsHandler(snapshots *snapshot.Store) *DiagnosticsHandler {
	return &DiagnosticsHandler{snapshots: snapshots}
}

// SubmitState handles POST /api/v1/player-state
func (h *DiagnosticsHandler) SubmitState(w http.ResponseWriter, r *http.Request) {
	var state model.PlayerState
	if err := json.NewDecoder(r.Body).Decode(&state); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}
	if state.GamePlayerID == "" {
		apierr.WriteError(w, apierr.NewInvalidRequestError("gamePlayerId is required"))
		return
	}

	h.snapshots.Put(state)
	response.JSON(w, http.StatusOK, response.StatusOK{Status: "ok"})
}

// ListStates handles GET /api/v1/player-state
func (h *DiagnosticsHandler) ListStates(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, h.snapshots.List())
}
