// Package errors provides error types and utilities shared by the
// collaborator layer. It extends the standard errors package with wrapping
// helpers and sentinels for common scrape/API failure shapes.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common collaborator failure scenarios.
var (
	// ErrTimeout indicates an operation exceeded its time limit.
	ErrTimeout = errors.New("operation timed out")

	// ErrRateLimit indicates an upstream rate limit was exceeded.
	ErrRateLimit = errors.New("rate limit exceeded")

	// ErrNotFound indicates the queried record does not exist upstream.
	ErrNotFound = errors.New("record not found")

	// ErrInvalidInput indicates invalid input was provided.
	ErrInvalidInput = errors.New("invalid input")

	// ErrConnectionFailed indicates a connection could not be established.
	ErrConnectionFailed = errors.New("connection failed")

	// ErrUnauthorized indicates a missing or rejected API key.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrServiceUnavailable indicates an upstream service is down.
	ErrServiceUnavailable = errors.New("service unavailable")

	// ErrInvalidResponse indicates a response could not be parsed.
	ErrInvalidResponse = errors.New("invalid response")
)

type wrappedError struct {
	msg   string
	cause error
}

func (e *wrappedError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.cause)
	}
	return e.msg
}

func (e *wrappedError) Unwrap() error {
	return e.cause
}

// Wrap wraps an error with additional context. Returns nil for nil err.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return &wrappedError{msg: msg, cause: err}
}

// Wrapf wraps an error with a formatted context message.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return &wrappedError{msg: fmt.Sprintf(format, args...), cause: err}
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain matching target's type.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// New creates a new error with the given message.
func New(msg string) error {
	return errors.New(msg)
}

// Errorf formats and returns a new error.
func Errorf(format string, args ...any) error {
	return fmt.Errorf(format, args...)
}

// IsTimeout reports whether the error chain contains ErrTimeout.
func IsTimeout(err error) bool {
	return Is(err, ErrTimeout)
}

// IsNotFound reports whether the error chain contains ErrNotFound.
func IsNotFound(err error) bool {
	return Is(err, ErrNotFound)
}

// IsUnauthorized reports whether the error chain contains ErrUnauthorized.
func IsUnauthorized(err error) bool {
	return Is(err, ErrUnauthorized)
}
