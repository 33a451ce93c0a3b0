package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/outlast-gg/arena/internal/dependencies/clock"
	"github.com/outlast-gg/arena/internal/dependencies/random"
	"github.com/outlast-gg/arena/internal/model"
	"github.com/outlast-gg/arena/internal/storage"
)

// ID prefixes for the three identifier kinds
const (
	sessionIDPrefix            = "g"
	participantIDPrefix        = "p"
	sessionParticipantIDPrefix = "gp"
)

// JoinResult carries the identifiers returned to a caller after a
// successful create or join, plus the records the gateway needs for the
// playerJoined broadcast.
type JoinResult struct {
	SessionID            model.SessionID
	SessionParticipantID model.SessionParticipantID
	ParticipantID        model.ParticipantID

	Session            *model.Session
	Participant        *model.Participant
	SessionParticipant *model.SessionParticipant
}

// Manager owns the session lifecycle: creating sessions, admitting
// participants while a session is waiting, and recording each
// participant's last known state.
type Manager struct {
	storage storage.Storage
	clock   clock.Clock
	random  random.Random
	logger  *slog.Logger
}

// NewManager creates a new session Manager
func NewManager(storage storage.Storage, clk clock.Clock, rnd random.Random, logger *slog.Logger) *Manager {
	return &Manager{
		storage: storage,
		clock:   clk,
		random:  rnd,
		logger:  logger.With(slog.String("component", "session")),
	}
}

// Create makes a new session in waiting status with the named participant
// as its first member. The participant identity is created idempotently:
// a display name that already exists reuses the existing Participant.
func (m *Manager) Create(ctx context.Context, displayName string) (*JoinResult, error) {
	if displayName == "" {
		return nil, model.ErrEmptyDisplayName
	}

	participant, err := m.upsertParticipant(ctx, displayName)
	if err != nil {
		return nil, err
	}

	now := m.clock.Now()
	session := &model.Session{
		ID:              model.SessionID(m.random.ID(sessionIDPrefix)),
		Status:          model.SessionStatusWaiting,
		MaxParticipants: model.DefaultMaxParticipants,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := m.storage.SaveSession(ctx, session); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	sp, err := m.addParticipant(ctx, session, participant)
	if err != nil {
		return nil, err
	}

	m.logger.Info("session created",
		slog.String("session_id", string(session.ID)),
		slog.String("participant_id", string(participant.ID)))

	return &JoinResult{
		SessionID:            session.ID,
		SessionParticipantID: sp.ID,
		ParticipantID:        participant.ID,
		Session:              session,
		Participant:          participant,
		SessionParticipant:   sp,
	}, nil
}

// Join admits the named participant into an existing session. Only
// sessions in waiting status accept joins; once the join record count
// reaches the session's capacity the session moves to active and stops
// admitting.
func (m *Manager) Join(ctx context.Context, sessionID model.SessionID, displayName string) (*JoinResult, error) {
	if displayName == "" {
		return nil, model.ErrEmptyDisplayName
	}

	session, err := m.storage.GetSession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, model.ErrSessionNotFound) {
			// A missing session and a non-joinable one are
			// indistinguishable to the caller
			return nil, model.ErrSessionNotJoinable
		}
		return nil, fmt.Errorf("get session: %w", err)
	}
	if !session.Joinable() {
		return nil, model.ErrSessionNotJoinable
	}

	participant, err := m.upsertParticipant(ctx, displayName)
	if err != nil {
		return nil, err
	}

	sp, err := m.addParticipant(ctx, session, participant)
	if err != nil {
		return nil, err
	}

	// Explicit waiting -> active transition at capacity
	members, err := m.storage.GetSessionParticipantsForSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list session participants: %w", err)
	}
	if len(members) >= session.MaxParticipants {
		session.Status = model.SessionStatusActive
		session.UpdatedAt = m.clock.Now()
		if err := m.storage.SaveSession(ctx, session); err != nil {
			return nil, fmt.Errorf("save session: %w", err)
		}
	}

	m.logger.Info("participant joined",
		slog.String("session_id", string(session.ID)),
		slog.String("participant_id", string(participant.ID)),
		slog.String("status", string(session.Status)))

	return &JoinResult{
		SessionID:            session.ID,
		SessionParticipantID: sp.ID,
		ParticipantID:        participant.ID,
		Session:              session,
		Participant:          participant,
		SessionParticipant:   sp,
	}, nil
}

// RecordState writes the durable slice of a participant's reported state:
// last position, health (clamped to [0,100]) and alive flag. Values are
// recorded as reported; the feed is client-authoritative. Callers on the
// live path run this fire-and-forget and must not surface the error.
func (m *Manager) RecordState(ctx context.Context, id model.SessionParticipantID, pos model.Position, health int, isAlive bool) error {
	sp, err := m.storage.GetSessionParticipant(ctx, id)
	if err != nil {
		return err
	}

	if health < 0 {
		health = 0
	} else if health > model.MaxHealth {
		health = model.MaxHealth
	}

	sp.LastPosition = pos
	sp.Health = health
	sp.IsAlive = isAlive
	sp.UpdatedAt = m.clock.Now()

	if err := m.storage.SaveSessionParticipant(ctx, sp); err != nil {
		return fmt.Errorf("save session participant: %w", err)
	}
	return nil
}

// GetSession retrieves a session by id
func (m *Manager) GetSession(ctx context.Context, id model.SessionID) (*model.Session, error) {
	return m.storage.GetSession(ctx, id)
}

// Participants returns the join records for a session
func (m *Manager) Participants(ctx context.Context, sessionID model.SessionID) ([]*model.SessionParticipant, error) {
	return m.storage.GetSessionParticipantsForSession(ctx, sessionID)
}

// upsertParticipant finds the participant with the given display name or
// creates one. Display names are unique across the whole system.
func (m *Manager) upsertParticipant(ctx context.Context, displayName string) (*model.Participant, error) {
	existing, err := m.storage.GetParticipantByDisplayName(ctx, displayName)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, model.ErrParticipantNotFound) {
		return nil, fmt.Errorf("lookup participant: %w", err)
	}

	participant := &model.Participant{
		ID:          model.ParticipantID(m.random.ID(participantIDPrefix)),
		DisplayName: displayName,
		CreatedAt:   m.clock.Now(),
	}
	if err := m.storage.SaveParticipant(ctx, participant); err != nil {
		return nil, fmt.Errorf("save participant: %w", err)
	}
	return participant, nil
}

// addParticipant creates the join record binding a participant to a
// session with full health
func (m *Manager) addParticipant(ctx context.Context, session *model.Session, participant *model.Participant) (*model.SessionParticipant, error) {
	now := m.clock.Now()
	sp := &model.SessionParticipant{
		ID:            model.SessionParticipantID(m.random.ID(sessionParticipantIDPrefix)),
		SessionID:     session.ID,
		ParticipantID: participant.ID,
		Health:        model.MaxHealth,
		IsAlive:       true,
		JoinedAt:      now,
		UpdatedAt:     now,
	}
	if err := m.storage.SaveSessionParticipant(ctx, sp); err != nil {
		return nil, fmt.Errorf("save session participant: %w", err)
	}
	return sp, nil
}
