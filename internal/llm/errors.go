package llm

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidJSON   = errors.New("invalid JSON received")
	ErrEmptyResponse = errors.New("empty response from model")
)

// Error wraps a failed model call. Content holds the raw model output when it could not be decoded.
type Error struct {
	Op      string
	Err     error
	Content string
}

func (e *Error) Error() string {
	return fmt.Sprintf("llm %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsInvalidJSON reports whether err came from a model answer that was not valid JSON.
func IsInvalidJSON(err error) bool {
	return errors.Is(err, ErrInvalidJSON)
}
