package transfer

import (
	"errors"
	"fmt"

	"aqarat/internal/domain"
)

var (
	ErrValidation        = errors.New("validation error")
	ErrNotFound          = errors.New("not_found")
	ErrForbidden         = errors.New("forbidden")
	ErrInvalidTransition = errors.New("invalid_status_transition")
	ErrNotEligible       = errors.New("not eligible for transfer")
)

// EligibilityError carries the freshly computed check so the admin sees
// exactly which predicate failed at decision time.
type EligibilityError struct {
	Check domain.EligibilityCheck
}

func (e *EligibilityError) Error() string {
	return fmt.Sprintf("transfer not eligible: %s", e.Check.Message)
}

func (e *EligibilityError) Unwrap() error { return ErrNotEligible }

// InvalidTransitionError reports a decision attempted on a transfer request
// that is no longer pending.
type InvalidTransitionError struct {
	From  string
	Event string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot %s from status %q", e.Event, e.From)
}

func (e *InvalidTransitionError) Unwrap() error { return ErrInvalidTransition }
