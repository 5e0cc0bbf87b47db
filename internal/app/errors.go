package service

import "errors"

// Sentinel kinds for service-level errors.
var (
	ErrLimitExceeded = errors.New("requested limit exceeds the configured maximum")
)
