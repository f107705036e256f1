package storage

import (
	"errors"
	"fmt"
)

// Error marks an unexpected backing-store failure (connectivity, timeouts,
// malformed documents). Callers distinguish it from domain errors with
// errors.As and present a retryable failure instead of a validation one.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Wrap annotates err with the failed operation; nil stays nil.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Err: err}
}

// Is reports whether err is a backing-store failure.
func Is(err error) bool {
	var se *Error
	return errors.As(err, &se)
}
