package factory

import (
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/bujinwang/BadmintonGroup-sub005/internal/dependencies/clock"
	"github.com/bujinwang/BadmintonGroup-sub005/internal/dependencies/random"
	"github.com/bujinwang/BadmintonGroup-sub005/internal/scheduler"
	"github.com/bujinwang/BadmintonGroup-sub005/internal/services/match"
	"github.com/bujinwang/BadmintonGroup-sub005/internal/services/permission"
	"github.com/bujinwang/BadmintonGroup-sub005/internal/services/session"
	"github.com/bujinwang/BadmintonGroup-sub005/internal/services/status"
	"github.com/bujinwang/BadmintonGroup-sub005/internal/sse"
	"github.com/bujinwang/BadmintonGroup-sub005/internal/storage"
	"github.com/bujinwang/BadmintonGroup-sub005/internal/storage/memory"
	redisstorage "github.com/bujinwang/BadmintonGroup-sub005/internal/storage/redis"
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
	PermissionEngine  *permission.Engine
	SessionController *session.Controller
	MatchService      *match.Service
	StatusController  *status.Controller
	HubManager        *sse.HubManager
	Broadcaster       *sse.Broadcaster
	ExpiryScheduler   *scheduler.ExpiryScheduler
}

// Config holds configuration for the application factory
type Config struct {
	// StatusConfig holds configuration for the status workflow (optional)
	// If zero value, defaults to status.DefaultConfig()
	StatusConfig status.Config
	// ExpiryInterval is how often the rest-expiry scheduler polls (optional)
	// If zero, the scheduler default is used
	ExpiryInterval time.Duration
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

	// Create external dependencies
	clk := clock.New()
	rnd := random.New()

	// Use default status config if not provided
	statusCfg := cfg.StatusConfig
	if statusCfg.RestDuration == 0 {
		statusCfg = status.DefaultConfig()
	}

	return newWithDependencies(store, clk, rnd, statusCfg, cfg.ExpiryInterval, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, rnd random.Random, statusCfg status.Config, expiryInterval time.Duration, logger *slog.Logger) *App {
	// Create services
	permissions := permission.New(store, logger)
	sessionController := session.NewController(store, clk, rnd, logger)
	matchService := match.New(store, permissions, clk, rnd, logger)
	hubManager := sse.NewHubManager(logger)
	broadcaster := sse.NewBroadcaster(hubManager, logger)
	statusController := status.NewController(store, permissions, matchService, broadcaster, clk, statusCfg, logger)
	expiryScheduler := scheduler.New(store, statusController, clk, expiryInterval, logger)

	return &App{
		Storage:           store,
		Clock:             clk,
		Random:            rnd,
		PermissionEngine:  permissions,
		SessionController: sessionController,
		MatchService:      matchService,
		StatusController:  statusController,
		HubManager:        hubManager,
		Broadcaster:       broadcaster,
		ExpiryScheduler:   expiryScheduler,
	}
}
