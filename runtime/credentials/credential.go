// Package credentials provides request authentication for the speech adapters.
//
// Yandex SpeechKit accepts a static API key in the Authorization header
// ("Api-Key <secret>") and requires a folder identifier on every request.
// YandexCloud bundles both and refuses to be constructed without them.
package credentials

import (
	"context"
	"net/http"
)

// Credential applies authentication to HTTP requests.
type Credential interface {
	// Apply adds authentication to the HTTP request.
	Apply(ctx context.Context, req *http.Request) error

	// Type returns the credential type identifier (e.g. "api_key").
	Type() string
}

// APIKeyPrefix is the Authorization scheme Yandex Cloud uses for API keys.
const APIKeyPrefix = "Api-Key "

// APIKeyCredential implements header-based API key authentication.
type APIKeyCredential struct {
	apiKey     string
	headerName string
	prefix     string
}

// APIKeyOption configures an APIKeyCredential.
type APIKeyOption func(*APIKeyCredential)

// WithHeaderName sets the header name for the API key.
func WithHeaderName(name string) APIKeyOption {
	return func(c *APIKeyCredential) {
		c.headerName = name
	}
}

// WithBearerPrefix switches to "Bearer " (IAM tokens).
func WithBearerPrefix() APIKeyOption {
	return func(c *APIKeyCredential) {
		c.prefix = "Bearer "
	}
}

// WithPrefix sets a custom prefix.
func WithPrefix(prefix string) APIKeyOption {
	return func(c *APIKeyCredential) {
		c.prefix = prefix
	}
}

// NewAPIKeyCredential creates an API key credential.
// By default it writes "Authorization: Api-Key <key>".
func NewAPIKeyCredential(apiKey string, opts ...APIKeyOption) *APIKeyCredential {
	c := &APIKeyCredential{
		apiKey:     apiKey,
		headerName: "Authorization",
		prefix:     APIKeyPrefix,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Apply adds the API key to the request header.
func (c *APIKeyCredential) Apply(_ context.Context, req *http.Request) error {
	if c.apiKey != "" {
		req.Header.Set(c.headerName, c.prefix+c.apiKey)
	}
	return nil
}

// Type returns "api_key".
func (c *APIKeyCredential) Type() string {
	return "api_key"
}

// APIKey returns the raw API key value.
func (c *APIKeyCredential) APIKey() string {
	return c.apiKey
}
