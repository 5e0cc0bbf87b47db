package scoring

import "errors"

// Sentinel kinds for scoring validation errors.
var (
	ErrEmptyInput       = errors.New("letters must not be empty")
	ErrTooLong          = errors.New("letters exceed the maximum length")
	ErrInvalidCharacter = errors.New("letter outside the valid alphabet")
)
