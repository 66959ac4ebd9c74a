package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates the stored document changed since it was read.
var ErrConflict = errors.New("document was modified concurrently")

// ErrInternal indicates an unexpected failure inside the service.
var ErrInternal = errors.New("internal error")

// ErrInvalidTransition indicates a status change that is not an allowed edge for the current status.
var ErrInvalidTransition = errors.New("invalid status transition")

// ErrRevocationDenied indicates a revoke without a reason or from a non-revocable status.
var ErrRevocationDenied = errors.New("revocation denied")

// ErrPreconditionUnmet indicates a business rule blocks an otherwise allowed transition.
var ErrPreconditionUnmet = errors.New("transition precondition unmet")

// ErrFieldLocked indicates an attempt to change a field the current status locks.
var ErrFieldLocked = errors.New("field is locked")

// ErrUpstream indicates a collaborator (storage, email, broker) failed or was unreachable.
var ErrUpstream = errors.New("upstream service failure")

// TransitionError describes a rejected status change.
type TransitionError struct {
	EntityType string
	From       string
	To         string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s: %s cannot move from %q to %q", ErrInvalidTransition.Error(), e.EntityType, e.From, e.To)
}

func (e *TransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// NewTransitionError builds a TransitionError for the given entity and statuses.
func NewTransitionError(entityType, from, to string) error {
	return &TransitionError{EntityType: entityType, From: from, To: to}
}

// FieldLockedError names the field that may not be changed in the given status.
type FieldLockedError struct {
	EntityType string
	Status     string
	Field      string
}

func (e *FieldLockedError) Error() string {
	return fmt.Sprintf("%s: %s in status %q does not allow changes to %q", ErrFieldLocked.Error(), e.EntityType, e.Status, e.Field)
}

func (e *FieldLockedError) Unwrap() error {
	return ErrFieldLocked
}

// AppError carries an HTTP-ish code and a message alongside the underlying cause.
type AppError struct {
	Code    int
	Message string
	Err     error
}

// NewAppError creates an AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Upstream wraps a collaborator failure so callers can match ErrUpstream.
func Upstream(service string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrUpstream, service, err)
}
