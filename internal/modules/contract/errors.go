package contract

import (
	"errors"
	"fmt"
)

var (
	ErrValidation        = errors.New("validation error")
	ErrNotFound          = errors.New("not_found")
	ErrForbidden         = errors.New("forbidden")
	ErrInvalidTransition = errors.New("invalid_status_transition")
	ErrAlreadySigned     = errors.New("party already signed")
)

// InvalidTransitionError reports a contract operation that is not legal from
// the current status.
type InvalidTransitionError struct {
	From  string
	Event string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot %s from status %q", e.Event, e.From)
}

func (e *InvalidTransitionError) Unwrap() error { return ErrInvalidTransition }
