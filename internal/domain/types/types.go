// Package types contains common types used across the application
package types

import "time"

// RankedEntry represents a leaderboard row derived from a stored score.
type RankedEntry struct {
	Rank      int       `json:"rank"`
	Score     int       `json:"score"`
	Letters   string    `json:"letters"`
	CreatedAt time.Time `json:"createdAt"`
}

// Rule mirrors the external shape of a scoring rule.
type Rule struct {
	Points  int    `json:"points"`
	Letters string `json:"letters"`
}

// Computed is the result of a score computation.
type Computed struct {
	Letters string `json:"letters"`
	Score   int    `json:"score"`
}
