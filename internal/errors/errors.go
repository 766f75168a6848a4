// Package errors provides domain-specific error types and sentinel errors
// for improved error handling across the application.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common scenarios.
// Use errors.Is() to check these errors in your code.
var (
	// ErrNotFound indicates a requested resource was not found.
	ErrNotFound = errors.New("resource not found")

	// ErrAppointmentNotFound indicates the referenced appointment does not exist
	// or was already cancelled.
	ErrAppointmentNotFound = errors.New("appointment not found")

	// ErrSessionNotFound indicates no booking session exists for the sender.
	ErrSessionNotFound = errors.New("session not found")

	// ErrNoRescheduleIntent indicates a reschedule slot was selected without a
	// prior appointment selection.
	ErrNoRescheduleIntent = errors.New("no appointment selected for rescheduling")

	// ErrRateLimitExceeded indicates rate limit has been exceeded.
	ErrRateLimitExceeded = errors.New("rate limit exceeded")

	// ErrInvalidInput indicates user provided invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrTimeout indicates an operation timed out.
	ErrTimeout = errors.New("operation timed out")

	// ErrContextCanceled indicates context was canceled.
	ErrContextCanceled = errors.New("context canceled")
)

// IsNotFound reports whether err is or wraps ErrNotFound or
// ErrAppointmentNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrAppointmentNotFound)
}

// IsRateLimitExceeded reports whether err is or wraps ErrRateLimitExceeded.
func IsRateLimitExceeded(err error) bool {
	return errors.Is(err, ErrRateLimitExceeded)
}

// IsInvalidInput reports whether err is or wraps ErrInvalidInput.
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// ValidationError represents input validation failures.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
}

// NewValidationError creates a new validation error.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// SinkError represents failures mirroring records to the external object
// store. The key identifies the object that could not be written.
type SinkError struct {
	Key string
	Op  string
	Err error
}

func (e *SinkError) Error() string {
	return fmt.Sprintf("sink error (op=%s, key=%s): %v", e.Op, e.Key, e.Err)
}

func (e *SinkError) Unwrap() error {
	return e.Err
}

// NewSinkError creates a new sink error.
func NewSinkError(op, key string, err error) *SinkError {
	return &SinkError{
		Op:  op,
		Key: key,
		Err: err,
	}
}
