// Package errors provides the structured error type shared by the speech adapters,
// the credential resolver and the configuration loader.
//
// ContextualError records which component failed, what it was doing, and an
// optional upstream status code. It unwraps to its cause so sentinel errors
// keep working with errors.Is:
//
//	err := errors.New("credentials", "NewYandexCloud", ErrMissingAPIKey)
//	errors.Is(err, ErrMissingAPIKey) // true
package errors

import "fmt"

// ContextualError describes a failure together with the place it happened.
type ContextualError struct {
	// Component is the package or subsystem that failed (e.g. "config", "credentials").
	Component string

	// Operation is what was being done at the time (e.g. "LoadSpeechConfig").
	Operation string

	// StatusCode is an optional HTTP status code.
	StatusCode int

	// Details holds optional structured metadata, such as the offending field.
	Details map[string]any

	// Cause is the underlying error, if any.
	Cause error
}

// New creates a ContextualError.
func New(component, operation string, cause error) *ContextualError {
	return &ContextualError{
		Component: component,
		Operation: operation,
		Cause:     cause,
	}
}

// Error implements the error interface.
func (e *ContextualError) Error() string {
	base := fmt.Sprintf("[%s] %s", e.Component, e.Operation)

	if e.StatusCode != 0 {
		base += fmt.Sprintf(" (status %d)", e.StatusCode)
	}

	if e.Cause != nil {
		base += ": " + e.Cause.Error()
	}

	return base
}

// Unwrap returns the cause so errors.Is and errors.As see through the wrapper.
func (e *ContextualError) Unwrap() error {
	return e.Cause
}

// WithStatusCode sets the status code and returns the same error for chaining.
func (e *ContextualError) WithStatusCode(code int) *ContextualError {
	e.StatusCode = code
	return e
}

// WithDetail records a single key in Details and returns the same error for chaining.
func (e *ContextualError) WithDetail(key string, value any) *ContextualError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}
