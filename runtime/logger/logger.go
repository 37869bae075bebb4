// Package logger provides structured logging for the speech adapters.
//
// It wraps log/slog with:
//   - level selection from the LOG_LEVEL environment variable
//   - request-scoped fields carried in context.Context (request id, provider, model)
//   - redaction of Yandex API keys, IAM tokens and bearer tokens
//   - debug-level helpers for outbound API requests and responses
//
// All exported functions use the global DefaultLogger.
package logger

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"regexp"
	"strings"
)

var (
	// DefaultLogger is the global structured logger instance.
	DefaultLogger *slog.Logger

	logOutput io.Writer = os.Stderr
)

func init() {
	level := slog.LevelInfo
	if envLevel := os.Getenv("LOG_LEVEL"); envLevel != "" {
		level = ParseLevel(envLevel)
	}
	SetLevel(level)
}

// ParseLevel converts a level name to a slog.Level. Unknown names map to info.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "trace", "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// SetLevel replaces the global logger with a text logger at the given level.
func SetLevel(level slog.Level) {
	handler := slog.NewTextHandler(logOutput, &slog.HandlerOptions{
		Level: level,
	})
	DefaultLogger = slog.New(NewContextHandler(handler))
}

// SetVerbose switches between debug and info level.
func SetVerbose(verbose bool) {
	if verbose {
		SetLevel(slog.LevelDebug)
	} else {
		SetLevel(slog.LevelInfo)
	}
}

// SetOutput redirects log output and rebuilds the logger at the given level.
// Mostly useful in tests.
func SetOutput(w io.Writer, level slog.Level) {
	logOutput = w
	SetLevel(level)
}

// Info logs an informational message with key-value attributes.
func Info(msg string, args ...any) {
	DefaultLogger.Info(msg, args...)
}

// InfoContext logs an informational message with context fields.
func InfoContext(ctx context.Context, msg string, args ...any) {
	DefaultLogger.InfoContext(ctx, msg, args...)
}

// Debug logs a debug-level message.
func Debug(msg string, args ...any) {
	DefaultLogger.Debug(msg, args...)
}

// DebugContext logs a debug message with context fields.
func DebugContext(ctx context.Context, msg string, args ...any) {
	DefaultLogger.DebugContext(ctx, msg, args...)
}

// Warn logs a warning.
func Warn(msg string, args ...any) {
	DefaultLogger.Warn(msg, args...)
}

// WarnContext logs a warning with context fields.
func WarnContext(ctx context.Context, msg string, args ...any) {
	DefaultLogger.WarnContext(ctx, msg, args...)
}

// Error logs an error.
func Error(msg string, args ...any) {
	DefaultLogger.Error(msg, args...)
}

// ErrorContext logs an error with context fields.
func ErrorContext(ctx context.Context, msg string, args ...any) {
	DefaultLogger.ErrorContext(ctx, msg, args...)
}

// SpeechCall logs a completed speech API call.
func SpeechCall(ctx context.Context, provider, operation string, status int, bytes int, attrs ...any) {
	allAttrs := make([]any, 0, 8+len(attrs))
	allAttrs = append(allAttrs,
		"provider", provider,
		"operation", operation,
		"status_code", status,
		"bytes", bytes,
	)
	allAttrs = append(allAttrs, attrs...)
	InfoContext(ctx, "🎙️ Speech API Call", allAttrs...)
}

// SpeechError logs a failed speech API call.
func SpeechError(ctx context.Context, provider, operation string, err error, attrs ...any) {
	allAttrs := make([]any, 0, 6+len(attrs))
	allAttrs = append(allAttrs,
		"provider", provider,
		"operation", operation,
		"error", RedactSensitiveData(err.Error()),
	)
	allAttrs = append(allAttrs, attrs...)
	ErrorContext(ctx, "❌ Speech API Call Failed", allAttrs...)
}

var (
	// apiKeyPatterns match credentials that must never reach the logs.
	apiKeyPatterns = []*regexp.Regexp{
		regexp.MustCompile(`Api-Key\s+[A-Za-z0-9_\-.]+`), // Yandex API key header
		regexp.MustCompile(`Bearer\s+[A-Za-z0-9_\-.]+`),  // IAM / bearer tokens
		regexp.MustCompile(`AQVN[A-Za-z0-9_\-]{20,}`),    // Yandex API key body
		regexp.MustCompile(`t1\.[A-Za-z0-9_\-.]{20,}`),   // Yandex IAM token
	}
)

// RedactSensitiveData masks API keys and tokens in s.
//
//   - "Api-Key <secret>" becomes "Api-Key [REDACTED]"
//   - "Bearer <token>" becomes "Bearer [REDACTED]"
//   - bare keys keep their first four characters
func RedactSensitiveData(s string) string {
	result := s
	for _, pattern := range apiKeyPatterns {
		result = pattern.ReplaceAllStringFunc(result, func(match string) string {
			switch {
			case strings.HasPrefix(match, "Api-Key"):
				return "Api-Key [REDACTED]"
			case strings.HasPrefix(match, "Bearer"):
				return "Bearer [REDACTED]"
			case len(match) > 8:
				return match[:4] + "...[REDACTED]"
			default:
				return "[REDACTED]"
			}
		})
	}
	return result
}

// APIRequest logs an outbound request at debug level. Headers, URL and body
// are redacted. It is a no-op unless debug logging is enabled.
func APIRequest(ctx context.Context, provider, method, url string, headers map[string]string, body any) {
	if !DefaultLogger.Enabled(ctx, slog.LevelDebug) {
		return
	}

	attrs := make([]any, 0, 10)
	attrs = append(attrs,
		"provider", provider,
		"method", method,
		"url", RedactSensitiveData(url),
	)

	if len(headers) > 0 {
		redacted := make(map[string]string, len(headers))
		for key, value := range headers {
			redacted[key] = RedactSensitiveData(value)
		}
		attrs = append(attrs, "headers", redacted)
	}

	switch b := body.(type) {
	case nil:
	case string:
		attrs = append(attrs, "body", RedactSensitiveData(b))
	case []byte:
		attrs = append(attrs, "body_bytes", len(b))
	default:
		bodyJSON, err := json.Marshal(b)
		if err != nil {
			attrs = append(attrs, "body_error", err.Error())
		} else {
			attrs = append(attrs, "body", RedactSensitiveData(string(bodyJSON)))
		}
	}

	DebugContext(ctx, "🔵 API Request", attrs...)
}

// APIResponse logs a response at debug level. Binary bodies should be passed
// as an empty string; only their size belongs in the attrs.
func APIResponse(ctx context.Context, provider string, statusCode int, body string, err error) {
	if !DefaultLogger.Enabled(ctx, slog.LevelDebug) {
		return
	}

	attrs := make([]any, 0, 6)
	attrs = append(attrs,
		"provider", provider,
		"status_code", statusCode,
	)

	if err != nil {
		attrs = append(attrs, "error", RedactSensitiveData(err.Error()))
		ErrorContext(ctx, "🔴 API Response Error", attrs...)
		return
	}

	var emoji string
	switch {
	case statusCode >= 200 && statusCode < 300:
		emoji = "🟢"
	case statusCode >= 400:
		emoji = "🔴"
	default:
		emoji = "🟡"
	}

	if body != "" {
		attrs = append(attrs, "body", RedactSensitiveData(body))
	}

	DebugContext(ctx, emoji+" API Response", attrs...)
}
