// Package rules defines the letter-to-points rule table and the derived
// valid input alphabet.
package rules

import (
	"fmt"
	"sort"
)

// Rule maps a set of letters to a single point value.
type Rule struct {
	Points  int
	Letters string
}

// Table is the single source of truth for per-letter point values.
// The union of all rule letter sets defines the valid input alphabet;
// every supported letter appears in exactly one rule.
type Table struct {
	rules          []Rule
	pointsByLetter map[rune]int
}

// Option applies a configuration option to the Table builder.
type Option func(*builder)

type builder struct {
	rules []Rule
}

// WithRules replaces the default rule set.
func WithRules(rs []Rule) Option {
	return func(b *builder) {
		if len(rs) > 0 {
			b.rules = rs
		}
	}
}

// defaultRules is the standard English tile distribution.
func defaultRules() []Rule {
	return []Rule{
		{Points: 1, Letters: "AEIOULNSTR"},
		{Points: 2, Letters: "DG"},
		{Points: 3, Letters: "BCMP"},
		{Points: 4, Letters: "FHVWY"},
		{Points: 6, Letters: "K"},
		{Points: 8, Letters: "JX"},
		{Points: 10, Letters: "QZ"},
	}
}

// New builds a Table, validating the partition invariant: positive point
// values, uppercase letters only, and no letter claimed by two rules.
func New(opts ...Option) (*Table, error) {
	b := &builder{rules: defaultRules()}
	for _, opt := range opts {
		opt(b)
	}

	t := &Table{
		rules:          make([]Rule, 0, len(b.rules)),
		pointsByLetter: make(map[rune]int),
	}
	for _, r := range b.rules {
		if r.Points <= 0 {
			return nil, fmt.Errorf("%w: points %d", ErrInvalidPoints, r.Points)
		}
		if r.Letters == "" {
			return nil, fmt.Errorf("%w: empty letter set for %d points", ErrInvalidLetter, r.Points)
		}
		for _, c := range r.Letters {
			if c < 'A' || c > 'Z' {
				return nil, fmt.Errorf("%w: %q", ErrInvalidLetter, c)
			}
			if _, dup := t.pointsByLetter[c]; dup {
				return nil, fmt.Errorf("%w: %q", ErrDuplicateLetter, c)
			}
			t.pointsByLetter[c] = r.Points
		}
		t.rules = append(t.rules, r)
	}

	sort.Slice(t.rules, func(i, j int) bool {
		return t.rules[i].Points < t.rules[j].Points
	})

	return t, nil
}

// Rules returns the rule set ordered ascending by points.
func (t *Table) Rules() []Rule {
	out := make([]Rule, len(t.rules))
	copy(out, t.rules)
	return out
}

// Points returns the point value for an uppercase letter and whether the
// letter belongs to the valid alphabet.
func (t *Table) Points(c rune) (int, bool) {
	p, ok := t.pointsByLetter[c]
	return p, ok
}

// Alphabet returns the set of valid input letters.
func (t *Table) Alphabet() map[rune]struct{} {
	out := make(map[rune]struct{}, len(t.pointsByLetter))
	for c := range t.pointsByLetter {
		out[c] = struct{}{}
	}
	return out
}

// Size returns the number of letters in the valid alphabet.
func (t *Table) Size() int {
	return len(t.pointsByLetter)
}
