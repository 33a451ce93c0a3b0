package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/outlast-gg/arena/internal/api/handler"
	"github.com/outlast-gg/arena/internal/api/middleware"
	"github.com/outlast-gg/arena/internal/services/session"
	"github.com/outlast-gg/arena/internal/services/snapshot"
	"github.com/outlast-gg/arena/internal/ws"
)

// RouterConfig holds configuration for the router
type RouterConfig struct {
	Logger    *slog.Logger
	Sessions  *session.Manager
	Snapshots *snapshot.Store
	Gateway   *ws.Gateway
}

// NewRouter creates the full HTTP surface: the websocket gateway at /ws
// and the diagnostic JSON API under /api/v1
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	diagnosticsHandler := handler.NewDiagnosticsHandler(cfg.Snapshots)
	sessionHandler := handler.NewSessionHandler(cfg.Sessions)

	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	// Websocket gateway; recovery only, the connection handles its own
	// logging and never returns a plain HTTP response once upgraded
	r.Handle("/ws", recoveryMiddleware(cfg.Gateway)).Methods(http.MethodGet)

	// Diagnostic API
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)
	api.Use(middleware.CORS)

	api.HandleFunc("/player-state", diagnosticsHandler.SubmitState).Methods(http.MethodPost)
	api.HandleFunc("/player-state", diagnosticsHandler.ListStates).Methods(http.MethodGet)
	api.HandleFunc("/sessions/{id}", sessionHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)
	api.PathPrefix("/").Methods(http.MethodOptions).HandlerFunc(func(http.ResponseWriter, *http.Request) {})

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
