package rules

import "errors"

// Sentinel kinds for rule table construction errors.
var (
	ErrInvalidPoints   = errors.New("rule points must be positive")
	ErrInvalidLetter   = errors.New("rule letters must be uppercase A-Z")
	ErrDuplicateLetter = errors.New("letter appears in more than one rule")
)
