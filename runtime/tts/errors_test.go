package tts

import (
	"errors"
	"testing"
)

func TestSynthesisError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *SynthesisError
		want string
	}{
		{
			name: "with cause",
			err: &SynthesisError{
				Provider: "yandex-cloud",
				Code:     "429",
				Message:  "rate limited",
				Cause:    ErrRateLimited,
			},
			want: "yandex-cloud: rate limited: rate limit exceeded",
		},
		{
			name: "without cause",
			err: &SynthesisError{
				Provider: "yandex-cloud",
				Code:     "BAD_REQUEST",
				Message:  "voice not found",
			},
			want: "yandex-cloud: voice not found",
		},
		{
			name: "with status",
			err: &SynthesisError{
				Provider:   "yandex-cloud",
				Message:    "Unknown api key",
				StatusCode: 401,
				Status:     "401 Unauthorized",
			},
			want: "yandex-cloud: 401 Unauthorized: Unknown api key",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("SynthesisError.Error() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSynthesisError_Unwrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := &SynthesisError{
		Provider: "test",
		Message:  "test error",
		Cause:    cause,
	}

	if err.Unwrap() != cause {
		t.Errorf("SynthesisError.Unwrap() = %v, want %v", err.Unwrap(), cause)
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is should see the cause")
	}
}

func TestNewSynthesisError(t *testing.T) {
	cause := errors.New("test cause")
	err := NewSynthesisError("yandex-cloud", "500", "internal error", cause, true)

	if err.Provider != "yandex-cloud" {
		t.Errorf("Provider = %v, want yandex-cloud", err.Provider)
	}

	if err.Code != "500" {
		t.Errorf("Code = %v, want 500", err.Code)
	}

	if err.Message != "internal error" {
		t.Errorf("Message = %v, want internal error", err.Message)
	}

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}

	if !err.Retryable {
		t.Error("Retryable = false, want true")
	}
}
