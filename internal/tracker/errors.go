package tracker

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidTransition is returned when the timer's status does not
	// permit the requested operation.
	ErrInvalidTransition = errors.New("invalid timer transition")

	// ErrEntryNotFound is returned when an entry id does not name a live
	// entry owned by the caller.
	ErrEntryNotFound = errors.New("entry not found")
)

// ValidationError rejects an operation before any state is touched.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

func transitionError(op string, from TimerStatus) error {
	return fmt.Errorf("%s from %s: %w", op, from, ErrInvalidTransition)
}
