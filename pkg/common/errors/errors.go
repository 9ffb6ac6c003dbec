package errors

import (
	"errors"
	"fmt"
)

// Common error types used across the lazyflow library

var (
	// ErrNeverEnding indicates that an operation requiring finite input was
	// invoked on a stage that may never end
	ErrNeverEnding = errors.New("never-ending operation")

	// ErrEmptySource indicates that an operation needing at least one element
	// found none
	ErrEmptySource = errors.New("empty source")

	// ErrInvalidArgument indicates a count, step or other argument outside its domain
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrIndexOutOfBounds indicates a bounds-checked access past either end of a stream
	ErrIndexOutOfBounds = errors.New("index out of bounds")
)

// ValidationError describes an argument that failed validation.
type ValidationError struct {
	Module string
	Field  string
	Value  interface{}
	Reason string
	Hint   string
}

// NewValidationError creates a ValidationError for the given module and field.
func NewValidationError(module, field string, value interface{}, reason string) *ValidationError {
	return &ValidationError{
		Module: module,
		Field:  field,
		Value:  value,
		Reason: reason,
	}
}

// WithHint attaches a remediation hint and returns the same error.
func (e *ValidationError) WithHint(hint string) *ValidationError {
	e.Hint = hint
	return e
}

func (e *ValidationError) Error() string {
	msg := fmt.Sprintf("%s: invalid %s=%v (%s)", e.Module, e.Field, e.Value, e.Reason)
	if e.Hint != "" {
		msg += " - " + e.Hint
	}
	return msg
}

// Unwrap returns ErrInvalidArgument so callers can match with errors.Is.
func (e *ValidationError) Unwrap() error {
	return ErrInvalidArgument
}

// OperationError records the operation that failed and why.
type OperationError struct {
	Module    string
	Operation string
	Cause     error
	Context   string
}

// NewOperationError creates an OperationError wrapping cause.
func NewOperationError(module, operation string, cause error) *OperationError {
	return &OperationError{
		Module:    module,
		Operation: operation,
		Cause:     cause,
	}
}

// WithContext attaches extra detail and returns the same error.
func (e *OperationError) WithContext(context string) *OperationError {
	e.Context = context
	return e
}

func (e *OperationError) Error() string {
	msg := fmt.Sprintf("%s.%s failed: %v", e.Module, e.Operation, e.Cause)
	if e.Context != "" {
		msg += " (" + e.Context + ")"
	}
	return msg
}

func (e *OperationError) Unwrap() error {
	return e.Cause
}

// IndexError reports an index outside [0, Len).
type IndexError struct {
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	if e.Len < 0 {
		return fmt.Sprintf("index %d out of bounds", e.Index)
	}
	return fmt.Sprintf("index %d out of bounds [0:%d]", e.Index, e.Len)
}

// Unwrap returns ErrIndexOutOfBounds.
func (e *IndexError) Unwrap() error {
	return ErrIndexOutOfBounds
}

// IsValidationError reports whether err is or wraps a ValidationError.
func IsValidationError(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr)
}

// IsNeverEnding returns true if err was raised because the source may be unbounded
func IsNeverEnding(err error) bool {
	return errors.Is(err, ErrNeverEnding)
}

// IsEmptySource returns true if err was raised because the source had no elements
func IsEmptySource(err error) bool {
	return errors.Is(err, ErrEmptySource)
}
