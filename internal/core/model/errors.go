package model

import (
	"errors"
	"fmt"
)

// ErrConflict indicates an attempt to start an interval while another is
// still active.
var ErrConflict = errors.New("another interval is already active")

// ErrNotFound indicates an unknown entry id.
var ErrNotFound = errors.New("entry not found")

// ErrNoActiveEntry indicates an operation that requires an active interval
// was invoked while idle.
var ErrNoActiveEntry = errors.New("no active entry")

// ValidationError reports rejected user input. It never changes state.
type ValidationError struct {
	Reason string
}

func (err *ValidationError) Error() string {
	return err.Reason
}

// PersistenceError reports a failed durable write. The attempted mutation is
// rolled back before it is returned, so retrying is always safe.
type PersistenceError struct {
	Op  string
	Err error
}

func (err *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", err.Op, err.Err)
}

func (err *PersistenceError) Unwrap() error {
	return err.Err
}
