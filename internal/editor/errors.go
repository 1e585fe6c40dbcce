package editor

import (
	"errors"
	"fmt"
)

var (
	ErrMissingIdentifier = errors.New("show id is missing or invalid")
	ErrUnknownField      = errors.New("unknown field")
	ErrUnknownGenre      = errors.New("unknown genre")
	ErrInvalidNumber     = errors.New("invalid number")
	ErrSubmitInFlight    = errors.New("submit already in progress")
	ErrSessionClosed     = errors.New("edit session is closed")
)

// PersistenceError wraps a failure returned by the Updater.
type PersistenceError struct {
	ShowID string
	Err    error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to update movie %s: %v", e.ShowID, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
