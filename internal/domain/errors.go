package domain

import "errors"

// Error kinds shared by every module. Module specific errors wrap one of
// these so handlers can map them with errors.Is.
var (
	ErrValidation            = errors.New("validation failed")
	ErrNotFound              = errors.New("not found")
	ErrConflict              = errors.New("conflict")
	ErrCapacityExceeded      = errors.New("party size exceeds room capacity")
	ErrInsufficientInventory = errors.New("not enough available spots for this date")
	ErrInvalidTransition     = errors.New("invalid status transition")
	ErrInvalidBookingState   = errors.New("booking is not in a payable state")
	ErrInvalidBookingRequest = errors.New("invalid booking request")
	ErrUpstreamPayment       = errors.New("payment provider error")
	ErrSignatureInvalid      = errors.New("invalid webhook signature")
	ErrStorage               = errors.New("storage error")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrForbidden             = errors.New("forbidden")
)

// ValidationError is an ErrValidation carrying per-field details.
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func NewValidationError(message string, fields map[string]string) error {
	return &ValidationError{Message: message, Fields: fields}
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Unwrap() error { return ErrValidation }
