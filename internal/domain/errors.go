package domain

import (
	"errors"
	"fmt"
)

// Common domain errors used across the application.
var (
	// ErrInvalidInput is returned when a required field is empty or a
	// numeric field fails a positivity constraint. Field-specific errors
	// below wrap it so callers can match the whole class with errors.Is.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInsufficientBalance is returned when a debit would drive a fund
	// balance negative. The balance is left unchanged.
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrInsufficientCapacity is returned when a course roster is already
	// at capacity.
	ErrInsufficientCapacity = errors.New("insufficient course capacity")

	// ErrGrantAlreadyApproved is returned on a second approval attempt
	// against the same grant request.
	ErrGrantAlreadyApproved = errors.New("grant request already approved")
)

// Field-level validation errors. Each wraps ErrInvalidInput.
var (
	ErrEmptyOwner      = fmt.Errorf("%w: owner address cannot be empty", ErrInvalidInput)
	ErrEmptyName       = fmt.Errorf("%w: name cannot be empty", ErrInvalidInput)
	ErrEmptyEmail      = fmt.Errorf("%w: email cannot be empty", ErrInvalidInput)
	ErrEmptyAddress    = fmt.Errorf("%w: home address cannot be empty", ErrInvalidInput)
	ErrEmptyTitle      = fmt.Errorf("%w: course title cannot be empty", ErrInvalidInput)
	ErrEmptyInstructor = fmt.Errorf("%w: instructor cannot be empty", ErrInvalidInput)
	ErrEmptyReason     = fmt.Errorf("%w: reason cannot be empty", ErrInvalidInput)
	ErrEmptyRoleName   = fmt.Errorf("%w: role name cannot be empty", ErrInvalidInput)
	ErrEmptyID         = fmt.Errorf("%w: id cannot be empty", ErrInvalidInput)
	ErrInvalidFees     = fmt.Errorf("%w: fees must be positive", ErrInvalidInput)
	ErrInvalidCapacity = fmt.Errorf("%w: capacity must be positive", ErrInvalidInput)
	ErrInvalidAmount   = fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
)

// IsInvalidInput reports whether err is any kind of input validation error.
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}
