package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, an optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if TILESCORE_CONFIG is set
//  3. env (prefix TILESCORE_), with a .env file loaded first if present
func Load(ctx context.Context) (*Config, error) {
	// A local .env is a developer convenience; absence is not an error.
	_ = godotenv.Load()

	base := New()

	k := koanf.New(".")

	if path := os.Getenv("TILESCORE_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: TILESCORE_ADDR, TILESCORE_MAX_WORD_LENGTH, ...
	// Keys map to the koanf tags on Config; underscores are preserved.
	envProvider := env.Provider("TILESCORE_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "tilescore_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if cfg.Addr == "" {
		return nil, fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if cfg.MaxWordLength < 1 {
		return nil, fmt.Errorf("%w: max_word_length must be positive", ErrInvalidConfig)
	}
	if cfg.DefaultTopN > cfg.MaxLeaderboardLimit {
		return nil, fmt.Errorf("%w: default_top_n exceeds max_leaderboard_limit", ErrInvalidConfig)
	}
	return &cfg, nil
}
