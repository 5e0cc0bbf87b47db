package repository

import "errors"

// Sentinel kinds for score store errors.
var (
	ErrNotFound           = errors.New("score record not found")
	ErrNegativeLimit      = errors.New("limit must not be negative")
	ErrInvalidSortField   = errors.New("invalid sort field")
	ErrStorageUnavailable = errors.New("storage unavailable")
)
