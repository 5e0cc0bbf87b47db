package config

import "errors"

// Error kinds reported by Load. Callers match them with errors.Is.
var (
	// ErrInvalidConfig marks a configuration that parsed but failed
	// validation, e.g. an empty listen address.
	ErrInvalidConfig = errors.New("configuration validation failed")

	// ErrLoadConfig marks a failure to read or decode a config source.
	ErrLoadConfig = errors.New("configuration could not be loaded")
)
