package domain

import (
	"errors"
	"fmt"
)

// Common domain errors
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNotFound        = errors.New("not found")
	ErrDuplicateKey    = errors.New("duplicate key")
	ErrPersistence     = errors.New("persistence failure")
	ErrCorruptState    = errors.New("corrupt catalog state")

	// ErrSnapshotMissing is returned by a repository when nothing has been saved yet.
	ErrSnapshotMissing = errors.New("catalog snapshot does not exist")

	// Record field errors not covered by the vo package
	ErrMissingDate = errors.New("date taken is required")
	ErrInvalidID   = errors.New("id must be positive")
	ErrInvalidText = errors.New("text must be valid UTF-8")

	ErrNilPhoto = errors.New("photo cannot be nil")
)

// ValidationError reports which field of a candidate record was rejected.
type ValidationError struct {
	Field string
	Err   error
}

// Error returns the error message
func (e *ValidationError) Error() string {
	if e.Err == nil {
		return "invalid " + e.Field
	}
	return e.Field + ": " + e.Err.Error()
}

// Unwrap returns the underlying error
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a new validation error for field
func NewValidationError(field string, err error) *ValidationError {
	return &ValidationError{Field: field, Err: err}
}

// IsValidation returns true if the error came from record construction
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// PersistenceKind classifies why a snapshot could not be written.
type PersistenceKind string

const (
	PersistenceSerialization PersistenceKind = "serialization"
	PersistenceIO            PersistenceKind = "io"
	PersistencePermission    PersistenceKind = "permission"
)

// PersistenceError describes a failed save. It always matches ErrPersistence.
type PersistenceError struct {
	Op   string
	Kind PersistenceKind
	Path string
	Err  error
}

// Error returns the error message
func (e *PersistenceError) Error() string {
	msg := fmt.Sprintf("%s %s (%s)", e.Op, e.Path, e.Kind)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying error
func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// Is reports ErrPersistence as a match so callers need not know the concrete type
func (e *PersistenceError) Is(target error) bool {
	return target == ErrPersistence
}

// NewPersistenceError creates a new persistence error
func NewPersistenceError(op string, kind PersistenceKind, path string, err error) *PersistenceError {
	return &PersistenceError{Op: op, Kind: kind, Path: path, Err: err}
}

// PersistenceKindOf returns the kind of a persistence error, if err is one
func PersistenceKindOf(err error) (PersistenceKind, bool) {
	var pe *PersistenceError
	if errors.As(err, &pe) {
		return pe.Kind, true
	}
	return "", false
}

// CorruptStateError is returned when a snapshot exists but cannot be used.
// It always matches ErrCorruptState.
type CorruptStateError struct {
	Path   string
	Reason string
	Err    error
}

// Error returns the error message
func (e *CorruptStateError) Error() string {
	msg := "corrupt catalog " + e.Path
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying error
func (e *CorruptStateError) Unwrap() error {
	return e.Err
}

// Is reports ErrCorruptState as a match
func (e *CorruptStateError) Is(target error) bool {
	return target == ErrCorruptState
}

// NewCorruptStateError creates a new corrupt state error
func NewCorruptStateError(path, reason string, err error) *CorruptStateError {
	return &CorruptStateError{Path: path, Reason: reason, Err: err}
}

// IsCorrupt returns true if the error means the snapshot is unusable
func IsCorrupt(err error) bool {
	return errors.Is(err, ErrCorruptState)
}
