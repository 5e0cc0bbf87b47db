// Package repository defines the score store interface and errors.
package repository

import (
	"context"

	"github.com/lexigo/tilescore/internal/domain/model"
)

// Field names a sortable record attribute.
type Field string

// Sortable fields.
const (
	FieldPoints    Field = "points"
	FieldCreatedAt Field = "created_at"
)

// Direction orders a sort key.
type Direction string

// Sort directions.
const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// SortKey is one (field, direction) pair of a multi-key sort spec.
// The first key is primary.
type SortKey struct {
	Field     Field
	Direction Direction
}

// DefaultSort is the leaderboard ordering: best score first, earlier
// submission winning ties.
func DefaultSort() []SortKey {
	return []SortKey{
		{Field: FieldPoints, Direction: Desc},
		{Field: FieldCreatedAt, Direction: Asc},
	}
}

// Store provides durable CRUD over score records with ranking-friendly
// retrieval. Implementations must be safe for concurrent use.
type Store interface {
	// Save persists a new record with a generated id and server-side
	// creation timestamp. The points value is stored as computed by the
	// caller, never recomputed.
	Save(ctx context.Context, letters string, points int) (model.ScoreRecord, error)

	// Get returns a record by id, or ErrNotFound.
	Get(ctx context.Context, id string) (model.ScoreRecord, error)

	// List returns up to limit records in the requested sort order.
	// limit == 0 returns an empty slice; a negative limit is
	// ErrNegativeLimit. Fewer records than limit is not an error.
	List(ctx context.Context, limit int, sort []SortKey) ([]model.ScoreRecord, error)

	// Delete removes the given ids and reports how many records were
	// actually removed. Unknown ids are skipped, not errors.
	Delete(ctx context.Context, ids []string) (int, error)

	// Count returns the number of stored records.
	Count(ctx context.Context) int
}
