package booking

import (
	"errors"
	"fmt"
)

var (
	ErrValidation        = errors.New("validation error")
	ErrNotFound          = errors.New("not_found")
	ErrForbidden         = errors.New("forbidden")
	ErrDuplicateBooking  = errors.New("duplicate booking")
	ErrInvalidTransition = errors.New("invalid_status_transition")
	ErrAlreadySettled    = errors.New("installment already settled")
)

// DuplicateBookingError is returned when a user already holds an open
// (pending, approved or active) booking on the property. It carries the
// existing booking's id so the client can redirect to it instead of
// retrying blindly.
type DuplicateBookingError struct {
	ExistingBookingID int64
}

func (e *DuplicateBookingError) Error() string {
	return fmt.Sprintf("user already has an open booking %d for this property", e.ExistingBookingID)
}

func (e *DuplicateBookingError) Unwrap() error { return ErrDuplicateBooking }

// InvalidTransitionError reports an attempted state change that is not legal
// from the current state. It is never swallowed: it signals either a client
// bug or a lost race, and the current state lets the caller resync.
type InvalidTransitionError struct {
	From  string
	Event string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot %s from status %q", e.Event, e.From)
}

func (e *InvalidTransitionError) Unwrap() error { return ErrInvalidTransition }

// AlreadySettledError is the idempotency guard on payment recording: the
// cash-desk flow and the card-gateway callback both hit the same endpoint,
// and only one of them may credit the installment.
type AlreadySettledError struct {
	BookingID         int64
	InstallmentNumber int
}

func (e *AlreadySettledError) Error() string {
	return fmt.Sprintf("installment %d of booking %d is already settled", e.InstallmentNumber, e.BookingID)
}

func (e *AlreadySettledError) Unwrap() error { return ErrAlreadySettled }
