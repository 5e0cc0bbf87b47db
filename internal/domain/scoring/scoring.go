// Package scoring computes a word's point value from the rule table.
package scoring

import (
	"fmt"
	"strings"

	"github.com/lexigo/tilescore/internal/domain/rules"
)

// Default scoring configuration constants.
const (
	defaultMaxLength = 10
)

// Result contains the computed score for a word.
type Result struct {
	// Letters is the normalized (uppercase) input.
	Letters string
	// Points is the sum of per-letter values.
	Points int
}

// Scorer computes a point value for a word. Implementations are pure:
// no I/O, and the same input always yields the same result for a
// fixed rule table.
type Scorer interface {
	Compute(letters string) (Result, error)
}

// Option applies a configuration option to the TableScorer.
type Option func(*TableScorer)

// WithMaxLength sets the maximum accepted word length.
func WithMaxLength(n int) Option {
	return func(s *TableScorer) {
		if n > 0 {
			s.maxLength = n
		}
	}
}

// WithLenientValidation switches the scorer to the lenient deployment
// policy: empty input scores 0 and characters outside the alphabet are
// skipped instead of rejected. The policy is fixed at construction and
// never varies per call.
func WithLenientValidation() Option {
	return func(s *TableScorer) {
		s.lenient = true
	}
}

// TableScorer implements Scorer over a rule table.
type TableScorer struct {
	table     *rules.Table
	maxLength int
	lenient   bool
}

// NewTableScorer creates a scorer bound to the given rule table.
func NewTableScorer(table *rules.Table, opts ...Option) *TableScorer {
	s := &TableScorer{
		table:     table,
		maxLength: defaultMaxLength,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Compute returns the point value for letters. Input is uppercased before
// lookup. Length is checked before scoring; under strict validation empty
// input and non-alphabet characters are rejected.
func (s *TableScorer) Compute(letters string) (Result, error) {
	normalized := strings.ToUpper(letters)

	if len([]rune(normalized)) > s.maxLength {
		return Result{}, fmt.Errorf("%w: max %d characters", ErrTooLong, s.maxLength)
	}
	if normalized == "" && !s.lenient {
		return Result{}, ErrEmptyInput
	}

	total := 0
	for _, c := range normalized {
		p, ok := s.table.Points(c)
		if !ok {
			if s.lenient {
				continue
			}
			return Result{}, fmt.Errorf("%w: %q", ErrInvalidCharacter, c)
		}
		total += p
	}

	return Result{Letters: normalized, Points: total}, nil
}
