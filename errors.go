package sedeval

import (
	"errors"
	"fmt"
)

// Sentinel errors for conditions callers may need to handle differently.
var (
	// ErrUnknownLabel indicates an event label outside the corpus vocabulary.
	ErrUnknownLabel = errors.New("sedeval: unknown event label")

	// ErrMalformedEvent indicates an event with offset <= onset, a negative
	// onset, or a timestamp that is not a finite number.
	ErrMalformedEvent = errors.New("sedeval: malformed event")

	// ErrDuplicateRecording indicates two recording pairs share an identifier.
	ErrDuplicateRecording = errors.New("sedeval: duplicate recording")

	// ErrInvalidConfig indicates an option value the scorers cannot use.
	ErrInvalidConfig = errors.New("sedeval: invalid configuration")
)

// ParseError reports the recording and line of an event list that failed to
// parse or validate. Line is 1-based; 0 means the position is unknown.
type ParseError struct {
	Recording string
	Line      int
	Err       error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %v", e.Recording, e.Line, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Recording, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
