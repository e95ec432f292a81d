package store

import (
	"errors"
	"fmt"
)

// Common store errors used across all store implementations.
var (
	// ErrNotFound is returned when a requested entity does not exist in the
	// store. This is the generic version of the entity-specific not found
	// errors below.
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate is returned when an operation would create a duplicate
	// of a unique entity (e.g. a second role with the same name inside one
	// institute).
	ErrDuplicate = errors.New("entity already exists")

	// ErrInvalidEntity is returned when an entity fails validation or a
	// storage constraint before being stored. Check the wrapped error for
	// details.
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrUpdateFailed is returned when an update operation fails, for
	// example because the entity vanished between read and write.
	ErrUpdateFailed = errors.New("update failed")

	// ErrTransactionFailed is returned when a transaction fails to commit
	// or an operation within a transaction fails.
	ErrTransactionFailed = errors.New("transaction failed")
)

// Entity-specific "not found" errors. Each wraps ErrNotFound. Course lookups
// get their own error rather than reusing the student one, so a caller can
// always tell which reference was dangling.
var (
	ErrInstituteNotFound         = fmt.Errorf("%w: institute", ErrNotFound)
	ErrStudentNotFound           = fmt.Errorf("%w: student", ErrNotFound)
	ErrCourseNotFound            = fmt.Errorf("%w: course", ErrNotFound)
	ErrEnrollmentRequestNotFound = fmt.Errorf("%w: enrollment request", ErrNotFound)
	ErrGrantRequestNotFound      = fmt.Errorf("%w: grant request", ErrNotFound)
	ErrRoleNotFound              = fmt.Errorf("%w: role", ErrNotFound)
)

// Entity-specific "duplicate" errors.
var (
	// ErrRoleExists indicates a role with the given name already exists in
	// the institute.
	ErrRoleExists = fmt.Errorf("%w: role name", ErrDuplicate)
)

// IsNotFoundError checks if the error is any kind of "not found" error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicateError checks if the error is any kind of "duplicate" error.
func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicate)
}

// StoreError is a custom error type for store-specific errors with
// additional context.
type StoreError struct {
	Entity    string // The entity type (e.g. "institute", "course")
	Operation string // The operation that failed (e.g. "create", "update")
	Message   string // Error message
	Err       error  // Original error
}

// Error implements the error interface for StoreError.
func (e *StoreError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s operation on %s failed: %s: %v", e.Operation, e.Entity, e.Message, e.Err)
	}
	return fmt.Sprintf("%s operation on %s failed: %s", e.Operation, e.Entity, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a new StoreError with the given entity, operation,
// message, and wrapped error.
func NewStoreError(entity, operation, message string, err error) *StoreError {
	return &StoreError{
		Entity:    entity,
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
