package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Specific errors below wrap one of these so callers can
// classify with errors.Is.
var (
	ErrValidation   = errors.New("validation error")
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrConflict     = errors.New("conflict")
	ErrStore        = errors.New("store error")
)

var (
	ErrBookingNotFound = fmt.Errorf("booking %w", ErrNotFound)
	ErrMemberNotFound  = fmt.Errorf("member %w", ErrNotFound)
	ErrUserNotFound    = fmt.Errorf("user %w", ErrNotFound)
)

var (
	ErrMissingEmail     = fmt.Errorf("%w: requester email is required", ErrValidation)
	ErrMissingBookingID = fmt.Errorf("%w: booking id is required", ErrValidation)
	ErrInvalidAmount    = fmt.Errorf("%w: amount must be positive", ErrValidation)
	ErrInvalidRole      = fmt.Errorf("%w: invalid role", ErrValidation)
)

var (
	ErrMemberExists      = fmt.Errorf("%w: member already exists for email", ErrConflict)
	ErrBookingNotPending = fmt.Errorf("%w: booking is not pending", ErrConflict)
)

// Validationf builds an ErrValidation with a message.
func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
