// Package types holds the result envelope pieces shared by the speech adapters.
package types

import (
	"net/http"
	"strings"
	"time"
)

// Warning reports a call setting the provider ignored or could not honor.
type Warning struct {
	// Type is "unsupported-setting" or "other".
	Type string `json:"type"`
	// Setting names the ignored setting, when Type is "unsupported-setting".
	Setting string `json:"setting,omitempty"`
	// Message is a human-readable explanation.
	Message string `json:"message,omitempty"`
}

// RequestMetadata echoes what was sent upstream.
type RequestMetadata struct {
	// Body is the encoded parameters (query string or form body).
	Body string `json:"body,omitempty"`
}

// ResponseMetadata describes the upstream response.
type ResponseMetadata struct {
	// Timestamp is when the response was received.
	Timestamp time.Time `json:"timestamp"`
	// ModelID is the provider model that served the call.
	ModelID string `json:"modelId"`
	// Headers are the response headers, keys lowercased.
	Headers map[string]string `json:"headers,omitempty"`
	// Body is the decoded response body (JSON struct or raw audio bytes).
	Body any `json:"-"`
}

// FlattenHeaders converts http.Header into a map with lowercased keys.
// Repeated values are joined with ", ".
func FlattenHeaders(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for key, values := range h {
		out[strings.ToLower(key)] = strings.Join(values, ", ")
	}
	return out
}
