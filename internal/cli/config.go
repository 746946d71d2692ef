package cli

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/mcoot/betgate/internal/factory"
	redisstorage "github.com/mcoot/betgate/internal/storage/redis"
)

// Config holds CLI configuration. Environment variables set the defaults
// and command-line flags override them.
type Config struct {
	Storage     string        `env:"BETGATE_STORAGE"       envDefault:"memory"`
	RedisURL    string        `env:"BETGATE_REDIS_URL"     envDefault:"redis://localhost:6379"`
	RedisKeyTTL time.Duration `env:"BETGATE_REDIS_KEY_TTL" envDefault:"0s"`
	Output      string        `env:"BETGATE_OUTPUT"        envDefault:"text"`
	LogLevel    string        `env:"BETGATE_LOG_LEVEL"     envDefault:"warn"`
	Verbose     bool
}

// LoadConfig reads configuration from the environment
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return &cfg, nil
}

// Validate checks values that flags and env may have set
func (c *Config) Validate() error {
	switch c.Output {
	case "text", "json":
	default:
		return usageErrorf("invalid output format %q: must be text or json", c.Output)
	}
	switch c.Storage {
	case factory.StorageTypeMemory, factory.StorageTypeRedis:
	default:
		return usageErrorf("invalid storage %q: must be memory or redis", c.Storage)
	}
	return nil
}

// Logger builds the process logger. Verbose forces debug level.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	level := parseLevel(c.LogLevel)
	if c.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// FactoryConfig translates the CLI config for the application factory
func (c *Config) FactoryConfig(logger *slog.Logger) factory.Config {
	cfg := factory.Config{
		Logger:      logger,
		StorageType: c.Storage,
	}
	if c.Storage == factory.StorageTypeRedis {
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = c.RedisURL
		redisCfg.KeyTTL = c.RedisKeyTTL
		cfg.RedisConfig = &redisCfg
	}
	return cfg
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
