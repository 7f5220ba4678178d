package analyzer

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput means the text cannot be analyzed: it is blank or too short.
	ErrInvalidInput = errors.New("invalid input")
	// ErrModelUnavailable means the lexicon or the language model failed to load.
	ErrModelUnavailable = errors.New("model unavailable")
)

// Error carries the failed operation and the underlying cause next to one of
// the package sentinels.
type Error struct {
	Op     string
	Err    error
	Cause  error
	Detail string
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Op, e.Err)
	switch {
	case e.Detail != "":
		// Detail already describes the cause in words fit for clients.
		msg += ": " + e.Detail
	case e.Cause != nil:
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Err}
	}
	return []error{e.Err, e.Cause}
}

func invalidInput(cause error, detail string) error {
	return &Error{Op: "analyze", Err: ErrInvalidInput, Cause: cause, Detail: detail}
}

func modelUnavailable(op string, cause error) error {
	return &Error{Op: op, Err: ErrModelUnavailable, Cause: cause}
}
