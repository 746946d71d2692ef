package redis

import "time"

// Config holds Redis connection and behavior settings
type Config struct {
	// URL is the Redis connection URL (e.g., redis://localhost:6379)
	URL string

	// Pool settings
	PoolSize     int
	MinIdleConns int

	// Namespace scopes every key written by this process. When empty a
	// fresh UUID is used, so a restarted process never sees earlier state.
	Namespace string

	// KeyTTL, when positive, is set on each key as it is written. A key
	// that is not written again expires with everything in it, so records
	// can vanish while the process still runs. Zero keeps keys forever.
	KeyTTL time.Duration
}

// DefaultConfig returns sensible defaults for Redis configuration
func DefaultConfig() Config {
	return Config{
		URL:          "redis://localhost:6379",
		PoolSize:     10,
		MinIdleConns: 2,
	}
}
