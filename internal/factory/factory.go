package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/minebase/playerstats/internal/services/auth"
	"github.com/minebase/playerstats/internal/services/profile"
	"github.com/minebase/playerstats/internal/services/stats"
	"github.com/minebase/playerstats/internal/services/upload"
	"github.com/minebase/playerstats/internal/storage"
	"github.com/minebase/playerstats/internal/storage/memory"
	redisstorage "github.com/minebase/playerstats/internal/storage/redis"
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

	// Services
	ProfileService *profile.Service
	StatsService   *stats.Service
	UploadService  *upload.Service
	AuthService    *auth.Service
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
	// ServerTokens is the set of tokens trusted to upload stats
	ServerTokens []string
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

	return newWithStorage(store, cfg.ServerTokens, logger), nil
}

// newWithStorage creates an App over the given store (useful for testing)
func newWithStorage(store storage.Storage, tokens []string, logger *slog.Logger) *App {
	profileService := profile.New(store, logger)
	statsService := stats.New(store, logger)
	uploadService := upload.New(store, profileService, logger)
	authService := auth.New(tokens)

	return &App{
		Storage:        store,
		ProfileService: profileService,
		StatsService:   statsService,
		UploadService:  uploadService,
		AuthService:    authService,
	}
}
