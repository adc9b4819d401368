package redis

import "time"

// Config holds Redis connection and behavior settings
type Config struct {
	// URL is the Redis connection URL (e.g., redis://localhost:6379)
	URL string

	// Pool settings
	PoolSize     int
	MinIdleConns int

	// ReadTimeout bounds individual commands so a dead server surfaces
	// as an error instead of a hang
	ReadTimeout time.Duration

	// MergeRetries caps optimistic-lock retries for a contended stat key
	MergeRetries int
}

// DefaultConfig returns sensible defaults for Redis configuration
func DefaultConfig() Config {
	return Config{
		URL:          "redis://localhost:6379",
		PoolSize:     10,
		MinIdleConns: 2,
		ReadTimeout:  3 * time.Second,
		MergeRetries: 16,
	}
}
