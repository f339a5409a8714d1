package redis

import "time"

// Config holds Redis connection and behavior settings
type Config struct {
	// URL is the Redis connection URL (e.g., redis://localhost:6379)
	URL string

	// Pool settings
	PoolSize     int
	MinIdleConns int

	// TTL settings for different entity types
	SessionTTL      time.Duration
	PlayerTTL       time.Duration
	MatchTTL        time.Duration
	RequestIndexTTL time.Duration

	// MaxUpdateRetries bounds the optimistic compare-and-set loop in
	// UpdatePlayer before giving up under contention
	MaxUpdateRetries int
}

// DefaultConfig returns sensible defaults for Redis configuration
func DefaultConfig() Config {
	return Config{
		URL:              "redis://localhost:6379",
		PoolSize:         10,
		MinIdleConns:     2,
		SessionTTL:       24 * time.Hour,
		PlayerTTL:        24 * time.Hour,
		MatchTTL:         24 * time.Hour,
		RequestIndexTTL:  24 * time.Hour,
		MaxUpdateRetries: 5,
	}
}
