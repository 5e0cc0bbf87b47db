package api

import (
	"errors"
	"net/http"

	"github.com/lexigo/tilescore/internal/adapters/repository"
	app "github.com/lexigo/tilescore/internal/app"
	"github.com/lexigo/tilescore/internal/domain/scoring"
	"github.com/lexigo/tilescore/internal/domain/session"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest = errors.New("bad request")
)

// classify maps a core error to an HTTP status and a stable error code.
// The core never swallows an error into a generic success; this is the
// single place where kinds become wire codes.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, scoring.ErrEmptyInput):
		return http.StatusBadRequest, "empty_input"
	case errors.Is(err, scoring.ErrTooLong):
		return http.StatusBadRequest, "too_long"
	case errors.Is(err, scoring.ErrInvalidCharacter):
		return http.StatusBadRequest, "invalid_character"
	case errors.Is(err, app.ErrLimitExceeded):
		return http.StatusBadRequest, "limit_exceeded"
	case errors.Is(err, repository.ErrNegativeLimit):
		return http.StatusBadRequest, "negative_limit"
	case errors.Is(err, repository.ErrInvalidSortField):
		return http.StatusBadRequest, "invalid_sort"
	case errors.Is(err, repository.ErrNotFound), errors.Is(err, session.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, repository.ErrStorageUnavailable):
		return http.StatusServiceUnavailable, "storage_unavailable"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
