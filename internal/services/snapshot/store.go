package snapshot

import (
	"log/slog"
	"sort"
	"sync"

	"github.com/outlast-gg/arena/internal/model"
)

// Store keeps the most recent PlayerState submitted per session
// participant. It backs the diagnostic endpoint only; the real-time path
// never reads from it.
type Store struct {
	mu     sync.RWMutex
	states map[string]model.PlayerState
	logger *slog.Logger
}

// New creates a new snapshot Store
func New(logger *slog.Logger) *Store {
	return &Store{
		states: make(map[string]model.PlayerState),
		logger: logger.With(slog.String("component", "snapshot")),
	}
}

// Put records the latest snapshot for the state's gamePlayerId,
// replacing any previous one
func (s *Store) Put(state model.PlayerState) {
	s.mu.Lock()
	_, known := s.states[state.GamePlayerID]
	s.states[state.GamePlayerID] = state
	total := len(s.states)
	s.mu.Unlock()

	if !known {
		s.logger.Info("snapshot participant first seen",
			slog.String("game_player_id", state.GamePlayerID),
			slog.String("username", state.Username),
			slog.Int("total_participants", total))
	}
}

// List returns all currently-known snapshots, ordered by gamePlayerId for
// stable output
func (s *Store) List() []model.PlayerState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]model.PlayerState, 0, len(s.states))
	for _, state := range s.states {
		result = append(result, state)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].GamePlayerID < result[j].GamePlayerID
	})
	return result
}
