// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Defaults come from New; Load layers an optional YAML file and env vars.
// - External errors are wrapped via this package's sentinel kinds.
package config

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// MaxWordLength caps the accepted input length for scoring.
	MaxWordLength int `koanf:"max_word_length"`

	// LenientScoring selects the lenient validation policy: empty input
	// scores 0 and non-alphabet characters are skipped instead of
	// rejected. Strict is the default.
	LenientScoring bool `koanf:"lenient_scoring"`

	// DefaultTopN is the leaderboard size when no limit is given.
	DefaultTopN int `koanf:"default_top_n"`

	// MaxLeaderboardLimit caps GET /api/v1/scores?limit.
	MaxLeaderboardLimit int `koanf:"max_leaderboard_limit"`

	// DatabaseURL selects the postgres-backed store when non-empty;
	// otherwise scores live in memory.
	DatabaseURL string `koanf:"database_url"`

	// SnapshotIntervalMS sets how often the in-memory store publishes
	// its leaderboard snapshot.
	SnapshotIntervalMS int `koanf:"snapshot_interval_ms"`

	// SessionCapacity bounds the number of retained play sessions.
	SessionCapacity int `koanf:"session_capacity"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		Addr:                ":8080",
		MaxWordLength:       10,
		LenientScoring:      false,
		DefaultTopN:         10,
		MaxLeaderboardLimit: 100,
		DatabaseURL:         "",
		SnapshotIntervalMS:  1000,
		SessionCapacity:     10000,
	}
}
