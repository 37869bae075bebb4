package tts

import "errors"

// Common TTS errors.
var (
	// ErrInvalidVoice is returned when the requested voice is not available.
	ErrInvalidVoice = errors.New("invalid or unsupported voice")

	// ErrInvalidEmotion is returned when the voice does not support the emotion.
	ErrInvalidEmotion = errors.New("emotion not supported by voice")

	// ErrInvalidSpeed is returned for a speed outside 0.1 to 3.0.
	ErrInvalidSpeed = errors.New("speed out of range")

	// ErrInvalidFormat is returned when the requested format is not supported.
	ErrInvalidFormat = errors.New("invalid or unsupported audio format")

	// ErrInvalidSampleRate is returned for a sample rate outside 8000, 16000 and 48000.
	ErrInvalidSampleRate = errors.New("unsupported sample rate")

	// ErrInvalidInput is returned when the input is neither text nor SSML.
	ErrInvalidInput = errors.New("input must be text or ssml")

	// ErrEmptyText is returned when attempting to synthesize empty text.
	ErrEmptyText = errors.New("text cannot be empty")

	// ErrRateLimited is returned when API rate limits are exceeded.
	ErrRateLimited = errors.New("rate limit exceeded")
)

// SynthesisError provides detailed error information from TTS providers.
type SynthesisError struct {
	// Provider is the TTS provider that returned the error.
	Provider string

	// Code is the provider-specific error code.
	Code string

	// Message is the error message.
	Message string

	// StatusCode is the upstream HTTP status, zero for transport failures.
	StatusCode int

	// Status is the upstream status line, e.g. "400 Bad Request".
	Status string

	// Body is the raw upstream response body.
	Body string

	// Cause is the underlying error (if any).
	Cause error

	// Retryable indicates if the error is transient and retry may succeed.
	// Nothing in this package retries.
	Retryable bool
}

// Error implements the error interface.
func (e *SynthesisError) Error() string {
	msg := e.Provider + ": "
	if e.Status != "" {
		msg += e.Status + ": "
	}
	msg += e.Message
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying error.
func (e *SynthesisError) Unwrap() error {
	return e.Cause
}

// NewSynthesisError creates a new SynthesisError.
func NewSynthesisError(provider, code, message string, cause error, retryable bool) *SynthesisError {
	return &SynthesisError{
		Provider:  provider,
		Code:      code,
		Message:   message,
		Cause:     cause,
		Retryable: retryable,
	}
}
