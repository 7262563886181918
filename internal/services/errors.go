package services

import (
	"errors"
	"fmt"
)

// Business-rule failures returned to the calling layer. The HTTP handlers map
// these onto response codes; nothing here ever escapes as a panic.
var (
	ErrVehicleNotFound     = errors.New("vehicle not found")
	ErrVehicleUnavailable  = errors.New("vehicle is not available")
	ErrIntervalConflict    = errors.New("vehicle is already booked for this time window")
	ErrBookingNotConfirmed = errors.New("booking is not confirmed")
	ErrRentalNotActive     = errors.New("rental is not active")
	ErrUserRequired        = errors.New("user is required for a walk-in rental")
	ErrNotFound            = errors.New("record not found")
)

// ValidationError reports bad input shape or range, e.g. a pickup time in
// the past.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func validationErrorf(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// IsValidationError reports whether err is a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
