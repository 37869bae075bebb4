// Package httputil centralizes HTTP client construction so every adapter
// shares the same transport instrumentation.
package httputil

import (
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// NoTimeout leaves the deadline to the caller's context. Speech calls are
// cancelled through context.Context only.
const NoTimeout time.Duration = 0

// NewHTTPClient returns an *http.Client with the given timeout and an
// OpenTelemetry-instrumented transport, so outbound calls become child spans
// of whatever span is active in the request context.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
}

// NewSpeechClient returns the client used by the speech adapters by default.
func NewSpeechClient() *http.Client {
	return NewHTTPClient(NoTimeout)
}
