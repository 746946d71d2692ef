package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/mcoot/betgate/internal/dependencies/clock"
	"github.com/mcoot/betgate/internal/services/credentials"
	"github.com/mcoot/betgate/internal/services/directory"
	"github.com/mcoot/betgate/internal/services/ledger"
	"github.com/mcoot/betgate/internal/services/platform"
	"github.com/mcoot/betgate/internal/services/session"
	"github.com/mcoot/betgate/internal/storage"
	"github.com/mcoot/betgate/internal/storage/memory"
	redisstorage "github.com/mcoot/betgate/internal/storage/redis"
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
	Clock clock.Clock

	// Services
	Directory *directory.Service
	Validator *credentials.Validator
	Session   *session.Machine
	Ledger    *ledger.Service
	Platform  *platform.Platform

	closer io.Closer
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
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	var (
		store  storage.Storage
		closer io.Closer
	)
	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
		logger.Debug("using in-memory storage")
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		logger.Debug("using redis storage", slog.String("namespace", redisStore.Namespace()))
		store = redisStore
		closer = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	app := newWithDependencies(store, clock.New())
	app.closer = closer
	return app, nil
}

// Close releases storage connections
func (a *App) Close() error {
	if a.closer == nil {
		return nil
	}
	return a.closer.Close()
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock) *App {
	dir := directory.New(store, clk)
	validator := credentials.NewValidator(dir)
	machine := session.New(dir, validator)
	ledgerService := ledger.New(machine, store)

	return &App{
		Storage:   store,
		Clock:     clk,
		Directory: dir,
		Validator: validator,
		Session:   machine,
		Ledger:    ledgerService,
		Platform:  platform.New(machine, dir, ledgerService),
	}
}
