package service

import (
	"errors"
	"fmt"
)

// Common service errors - sentinel errors used across service implementations.
// These represent expected conditions that callers check with errors.Is().
var (
	// ErrNotInstitute indicates the caller is not the owner of the
	// institute it tried to operate on.
	ErrNotInstitute = errors.New("caller is not the institute owner")

	// ErrNotStudent indicates the caller is not the owner of the student
	// account it tried to operate on.
	ErrNotStudent = errors.New("caller is not the student account owner")
)

// Error is the structured error type every service in this package returns
// for failures. Op names the operation, Message describes what failed, and
// Err carries the underlying cause for errors.Is/errors.As matching.
type Error struct {
	Op      string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s failed: %s: %v", e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s failed: %s", e.Op, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates a new Error.
func NewError(op, message string, err error) *Error {
	return &Error{
		Op:      op,
		Message: message,
		Err:     err,
	}
}
