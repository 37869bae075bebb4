package logger

import (
	"context"
)

// contextKey is a private type for context keys to avoid collisions.
type contextKey string

// Context keys extracted by ContextHandler and added to every record.
const (
	// ContextKeyRequestID identifies one speech API call.
	ContextKeyRequestID contextKey = "request_id"

	// ContextKeyProvider identifies the speech provider (e.g. "yandex-cloud").
	ContextKeyProvider contextKey = "provider"

	// ContextKeyModel identifies the provider model (e.g. "stt:recognize").
	ContextKeyModel contextKey = "model"

	// ContextKeyOperation identifies the operation (recognize, synthesize).
	ContextKeyOperation contextKey = "operation"

	// ContextKeyFolderID identifies the Yandex Cloud folder the call is billed to.
	ContextKeyFolderID contextKey = "folder_id"
)

var allContextKeys = []contextKey{
	ContextKeyRequestID,
	ContextKeyProvider,
	ContextKeyModel,
	ContextKeyOperation,
	ContextKeyFolderID,
}

// WithRequestID returns a new context with the request ID set.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ContextKeyRequestID, requestID)
}

// WithProvider returns a new context with the provider name set.
func WithProvider(ctx context.Context, provider string) context.Context {
	return context.WithValue(ctx, ContextKeyProvider, provider)
}

// WithModel returns a new context with the model id set.
func WithModel(ctx context.Context, model string) context.Context {
	return context.WithValue(ctx, ContextKeyModel, model)
}

// WithOperation returns a new context with the operation name set.
func WithOperation(ctx context.Context, operation string) context.Context {
	return context.WithValue(ctx, ContextKeyOperation, operation)
}

// WithFolderID returns a new context with the folder ID set.
func WithFolderID(ctx context.Context, folderID string) context.Context {
	return context.WithValue(ctx, ContextKeyFolderID, folderID)
}

// LoggingFields holds the standard context fields.
type LoggingFields struct {
	RequestID string
	Provider  string
	Model     string
	Operation string
	FolderID  string
}

// WithLoggingContext sets every non-empty field of fields on ctx.
func WithLoggingContext(ctx context.Context, fields *LoggingFields) context.Context {
	if fields == nil {
		return ctx
	}
	if fields.RequestID != "" {
		ctx = WithRequestID(ctx, fields.RequestID)
	}
	if fields.Provider != "" {
		ctx = WithProvider(ctx, fields.Provider)
	}
	if fields.Model != "" {
		ctx = WithModel(ctx, fields.Model)
	}
	if fields.Operation != "" {
		ctx = WithOperation(ctx, fields.Operation)
	}
	if fields.FolderID != "" {
		ctx = WithFolderID(ctx, fields.FolderID)
	}
	return ctx
}

// ExtractLoggingFields reads the standard fields back out of ctx.
func ExtractLoggingFields(ctx context.Context) LoggingFields {
	get := func(key contextKey) string {
		s, _ := ctx.Value(key).(string)
		return s
	}
	return LoggingFields{
		RequestID: get(ContextKeyRequestID),
		Provider:  get(ContextKeyProvider),
		Model:     get(ContextKeyModel),
		Operation: get(ContextKeyOperation),
		FolderID:  get(ContextKeyFolderID),
	}
}
