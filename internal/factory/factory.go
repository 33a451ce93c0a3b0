package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/outlast-gg/arena/internal/dependencies/clock"
	"github.com/outlast-gg/arena/internal/dependencies/random"
	"github.com/outlast-gg/arena/internal/services/session"
	"github.com/outlast-gg/arena/internal/services/snapshot"
	"github.com/outlast-gg/arena/internal/storage"
	"github.com/outlast-gg/arena/internal/storage/memory"
	redisstorage "github.com/outlast-gg/arena/internal/storage/redis"
	"github.com/outlast-gg/arena/internal/ws"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	Sessions   *session.Manager
	Snapshots  *snapshot.Store
	HubManager *ws.HubManager
	Gateway    *ws.Gateway
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create storage based on type
	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	return newWithDependencies(store, clock.New(), random.New(), logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, rnd random.Random, logger *slog.Logger) *App {
	sessions := session.NewManager(store, clk, rnd, logger)
	snapshots := snapshot.New(logger)
	hubManager := ws.NewHubManager(logger)
	gateway := ws.NewGateway(sessions, hubManager, logger)

	return &App{
		Storage:    store,
		Clock:      clk,
		Random:     rnd,
		Sessions:   sessions,
		Snapshots:  snapshots,
		HubManager: hubManager,
		Gateway:    gateway,
	}
}
