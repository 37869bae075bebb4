package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	pkgerrors "github.com/lostredb/yandex-ai/pkg/errors"
)

// Environment variables consulted when the file leaves a value empty.
// FOLDER_ID is the name used by existing deployment scripts.
var FolderIDEnvVars = []string{"FOLDER_ID", "YANDEX_FOLDER_ID"}

const component = "config"

// LoadSpeechConfig reads, validates and decodes a SpeechConfig manifest.
// An empty folderId is filled from FolderIDEnvVars.
func LoadSpeechConfig(filename string) (*SpeechConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, pkgerrors.New(component, "LoadSpeechConfig",
			fmt.Errorf("failed to read config file: %w", err)).WithDetail("file", filename)
	}

	cfg, err := ParseSpeechConfig(data)
	if err != nil {
		return nil, pkgerrors.New(component, "LoadSpeechConfig", err).WithDetail("file", filename)
	}

	if abs, err := filepath.Abs(filename); err == nil {
		cfg.ConfigDir = filepath.Dir(abs)
	} else {
		cfg.ConfigDir = filepath.Dir(filename)
	}

	return cfg, nil
}

// ParseSpeechConfig validates and decodes manifest bytes.
func ParseSpeechConfig(data []byte) (*SpeechConfig, error) {
	if err := ValidateSpeechConfig(data); err != nil {
		return nil, err
	}

	var manifest SpeechConfigManifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg := &manifest.Spec
	ApplyEnvDefaults(cfg)
	return cfg, nil
}

// DefaultSpeechConfig returns an empty configuration with env defaults applied.
// It is used when no file is given.
func DefaultSpeechConfig() *SpeechConfig {
	cfg := &SpeechConfig{}
	ApplyEnvDefaults(cfg)
	return cfg
}

// ApplyEnvDefaults fills empty fields from the environment.
func ApplyEnvDefaults(cfg *SpeechConfig) {
	if cfg.FolderID == "" {
		for _, name := range FolderIDEnvVars {
			if v := os.Getenv(name); v != "" {
				cfg.FolderID = v
				break
			}
		}
	}
}
