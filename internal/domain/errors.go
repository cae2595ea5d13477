package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when an id does not resolve to a live record
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is returned when creating a project whose id is already live
	ErrAlreadyExists = errors.New("already exists")
)

// ValidationError rejects a mutation before anything is applied
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewValidationError builds a ValidationError for field
func NewValidationError(field, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// CorruptDocumentError reports a stored document that failed to deserialize
type CorruptDocumentError struct {
	ID  string
	Err error
}

func (e *CorruptDocumentError) Error() string {
	return fmt.Sprintf("corrupt document %q: %v", e.ID, e.Err)
}

func (e *CorruptDocumentError) Unwrap() error { return e.Err }

// PersistenceError reports a failed flush of the engine image to disk
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// MigrationError reports a failed legacy import
type MigrationError struct {
	Path string
	Err  error
}

func (e *MigrationError) Error() string {
	return fmt.Sprintf("migrate %s: %v", e.Path, e.Err)
}

func (e *MigrationError) Unwrap() error { return e.Err }
