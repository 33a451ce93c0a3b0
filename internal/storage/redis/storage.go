package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/outlast-gg/arena/internal/model"
	"github.com/outlast-gg/arena/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Participant operations

func (s *Storage) SaveParticipant(ctx context.Context, p *model.Participant) error {
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}

	// Use pipeline for atomic save + index update. No TTL: display names
	// are globally unique identities.
	pipe := s.client.Pipeline()
	pipe.Set(ctx, participantKey(p.ID), data, 0)
	pipe.Set(ctx, displayNameIndexKey(p.DisplayName), string(p.ID), 0)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetParticipant(ctx context.Context, id model.ParticipantID) (*model.Participant, error) {
	data, err := s.client.Get(ctx, participantKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrParticipantNotFound
		}
		return nil, err
	}

	var p model.Participant
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Storage) GetParticipantByDisplayName(ctx context.Context, displayName string) (*model.Participant, error) {
	// Look up participant ID from display name index
	idStr, err := s.client.Get(ctx, displayNameIndexKey(displayName)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrParticipantNotFound
		}
		return nil, err
	}

	return s.GetParticipant(ctx, model.ParticipantID(idStr))
}

// Session operations

func (s *Storage) SaveSession(ctx context.Context, session *model.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}

	return s.client.Set(ctx, sessionKey(session.ID), data, s.cfg.SessionTTL).Err()
}

func (s *Storage) GetSession(ctx context.Context, id model.SessionID) (*model.Session, error) {
	data, err := s.client.Get(ctx, sessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrSessionNotFound
		}
		return nil, err
	}

	var session model.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *Storage) SessionExists(ctx context.Context, id model.SessionID) (bool, error) {
	exists, err := s.client.Exists(ctx, sessionKey(id)).Result()
	if err != nil {
		return false, err
	}
	return exists > 0, nil
}

// Session participant operations

func (s *Storage) SaveSessionParticipant(ctx context.Context, sp *model.SessionParticipant) error {
	data, err := json.Marshal(sp)
	if err != nil {
		return err
	}

	spKey := sessionParticipantKey(sp.ID)
	indexKey := participantsForSessionIndexKey(sp.SessionID)

	// Use pipeline for atomic save + index update
	pipe := s.client.Pipeline()
	pipe.Set(ctx, spKey, data, s.cfg.SessionParticipantTTL)
	pipe.SAdd(ctx, indexKey, spKey)
	pipe.Expire(ctx, indexKey, s.cfg.SessionParticipantTTL) // Keep index TTL in sync
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetSessionParticipant(ctx context.Context, id model.SessionParticipantID) (*model.SessionParticipant, error) {
	data, err := s.client.Get(ctx, sessionParticipantKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrSessionParticipantNotFound
		}
		return nil, err
	}

	var sp model.SessionParticipant
	if err := json.Unmarshal(data, &sp); err != nil {
		return nil, err
	}
	return &sp, nil
}

func (s *Storage) GetSessionParticipantsForSession(ctx context.Context, sessionID model.SessionID) ([]*model.SessionParticipant, error) {
	indexKey := participantsForSessionIndexKey(sessionID)

	// Get all session participant keys from the index
	spKeys, err := s.client.SMembers(ctx, indexKey).Result()
	if err != nil {
		return nil, err
	}

	var result []*model.SessionParticipant
	for _, key := range spKeys {
		data, err := s.client.Get(ctx, key).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				// Record expired but index entry lingers; skip it
				continue
			}
			return nil, err
		}

		var sp model.SessionParticipant
		if err := json.Unmarshal(data, &sp); err != nil {
			return nil, err
		}
		result = append(result, &sp)
	}
	return result, nil
}
