package credentials

import (
	"context"
	"errors"
	"net/http"
	"strings"

	pkgerrors "github.com/lostredb/yandex-ai/pkg/errors"
)

// Configuration errors. Both are fatal at startup.
var (
	// ErrMissingFolderID is returned when no folder identifier is configured.
	ErrMissingFolderID = errors.New("folder id is required")

	// ErrMissingAPIKey is returned when no API key is configured.
	ErrMissingAPIKey = errors.New("api key is required")
)

// YandexCloud is the folder identifier and API key pair every SpeechKit call needs.
// It is immutable and safe for concurrent use.
type YandexCloud struct {
	folderID string
	key      *APIKeyCredential
}

// NewYandexCloud validates and bundles the folder identifier and API key.
// Surrounding whitespace is trimmed; empty values are rejected.
func NewYandexCloud(folderID, apiKey string, opts ...APIKeyOption) (*YandexCloud, error) {
	folderID = strings.TrimSpace(folderID)
	apiKey = strings.TrimSpace(apiKey)

	var errs []error
	if folderID == "" {
		errs = append(errs, ErrMissingFolderID)
	}
	if apiKey == "" {
		errs = append(errs, ErrMissingAPIKey)
	}
	if len(errs) > 0 {
		return nil, pkgerrors.New("credentials", "NewYandexCloud", errors.Join(errs...))
	}

	return &YandexCloud{
		folderID: folderID,
		key:      NewAPIKeyCredential(apiKey, opts...),
	}, nil
}

// MustYandexCloud is NewYandexCloud for initialization code; it panics on error.
func MustYandexCloud(folderID, apiKey string) *YandexCloud {
	c, err := NewYandexCloud(folderID, apiKey)
	if err != nil {
		panic(err)
	}
	return c
}

// FolderID returns the folder identifier sent as the folderId parameter.
func (c *YandexCloud) FolderID() string {
	return c.folderID
}

// Apply sets the Authorization header.
func (c *YandexCloud) Apply(ctx context.Context, req *http.Request) error {
	return c.key.Apply(ctx, req)
}

// Type returns "yandex_api_key".
func (c *YandexCloud) Type() string {
	return "yandex_api_key"
}

var _ Credential = (*YandexCloud)(nil)
