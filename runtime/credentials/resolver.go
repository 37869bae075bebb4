package credentials

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/lostredb/yandex-ai/pkg/config"
	pkgerrors "github.com/lostredb/yandex-ai/pkg/errors"
)

// DefaultAPIKeyEnvVars are consulted, in order, when no explicit source is configured.
// SK is the variable name used by existing deployments.
var DefaultAPIKeyEnvVars = []string{"SK", "YANDEX_API_KEY"}

// ResolverConfig holds the inputs for credential resolution.
type ResolverConfig struct {
	// FolderID is the folder identifier (already merged from file, env and flags).
	FolderID string

	// CredentialConfig is the explicit credential configuration, if any.
	CredentialConfig *config.CredentialConfig

	// ConfigDir is the base directory for relative credential file paths.
	ConfigDir string
}

// Resolve finds the API key and returns a validated YandexCloud credential.
//
// The API key is taken from the first source that is configured:
//  1. apiKey (explicit value)
//  2. credentialFile (read from file)
//  3. credentialEnv (read from the named variable)
//  4. DefaultAPIKeyEnvVars
func Resolve(cfg ResolverConfig) (*YandexCloud, error) {
	apiKey, err := findAPIKey(cfg)
	if err != nil {
		return nil, pkgerrors.New("credentials", "Resolve", err)
	}
	return NewYandexCloud(cfg.FolderID, apiKey)
}

// MustResolve resolves credentials and panics on error.
// Use this only in initialization code where errors are unrecoverable.
func MustResolve(cfg ResolverConfig) *YandexCloud {
	cred, err := Resolve(cfg)
	if err != nil {
		panic(fmt.Sprintf("failed to resolve credentials: %v", err))
	}
	return cred
}

func findAPIKey(cfg ResolverConfig) (string, error) {
	cc := cfg.CredentialConfig
	switch {
	case cc != nil && cc.APIKey != "":
		return cc.APIKey, nil
	case cc != nil && cc.CredentialFile != "":
		key, err := readCredentialFile(cc.CredentialFile, cfg.ConfigDir)
		if err != nil {
			return "", fmt.Errorf("failed to read credential file: %w", err)
		}
		return key, nil
	case cc != nil && cc.CredentialEnv != "":
		key := os.Getenv(cc.CredentialEnv)
		if key == "" {
			return "", fmt.Errorf("environment variable %s is not set", cc.CredentialEnv)
		}
		return key, nil
	}

	for _, name := range DefaultAPIKeyEnvVars {
		if key := os.Getenv(name); key != "" {
			return key, nil
		}
	}
	return "", nil
}

func readCredentialFile(path, configDir string) (string, error) {
	if !filepath.IsAbs(path) && configDir != "" {
		path = filepath.Join(configDir, path)
	}

	//nolint:gosec // G304: File path is from trusted configuration
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(string(data)), nil
}
