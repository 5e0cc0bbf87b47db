// Package model contains domain models passed between layers.
package model

import "time"

// ScoreRecord is a persisted word score. Records are immutable after
// creation and destroyed only by explicit delete.
type ScoreRecord struct {
	ID        string    // opaque identifier, generated at save time
	Letters   string    // normalized uppercase word
	Points    int       // sum of per-letter values
	CreatedAt time.Time // server-side persistence time
}
