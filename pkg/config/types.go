package config

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// APIVersion and Kind identify a speech configuration manifest.
const (
	APIVersion      = "yandex-ai/v1alpha1"
	KindSpeechConfig = "SpeechConfig"
)

// SpeechConfigManifest is the K8s-style envelope of a configuration file:
//
//	apiVersion: yandex-ai/v1alpha1
//	kind: SpeechConfig
//	metadata:
//	  name: default
//	spec:
//	  folderId: b1g...
type SpeechConfigManifest struct {
	APIVersion string            `yaml:"apiVersion"`
	Kind       string            `yaml:"kind"`
	Metadata   metav1.ObjectMeta `yaml:"metadata,omitempty"`
	Spec       SpeechConfig      `yaml:"spec"`
}

// SpeechConfig holds everything needed to build the Yandex speech adapters.
type SpeechConfig struct {
	// FolderID is the Yandex Cloud folder every request is billed to.
	FolderID string `yaml:"folderId,omitempty"`

	// Credential tells the resolver where to find the API key.
	Credential *CredentialConfig `yaml:"credential,omitempty"`

	STT STTSpec `yaml:"stt,omitempty"`
	TTS TTSSpec `yaml:"tts,omitempty"`

	Logging *LoggingSpec `yaml:"logging,omitempty"`
	Metrics *MetricsSpec `yaml:"metrics,omitempty"`
	Tracing *TracingSpec `yaml:"tracing,omitempty"`

	// ConfigDir is the directory of the loaded file; relative credential
	// file paths are resolved against it.
	ConfigDir string `yaml:"-"`
}

// CredentialConfig selects the API key source. The first non-empty field wins.
type CredentialConfig struct {
	// APIKey is an explicit key (not recommended outside local development).
	APIKey string `yaml:"apiKey,omitempty"`
	// CredentialFile is a path to a file containing the key.
	CredentialFile string `yaml:"credentialFile,omitempty"`
	// CredentialEnv is the name of an environment variable holding the key.
	CredentialEnv string `yaml:"credentialEnv,omitempty"`
}

// STTSpec configures recognition defaults.
type STTSpec struct {
	BaseURL         string            `yaml:"baseURL,omitempty"`
	Lang            string            `yaml:"lang,omitempty"`
	Format          string            `yaml:"format,omitempty"`
	SampleRateHertz int               `yaml:"sampleRateHertz,omitempty"`
	RawResults      *bool             `yaml:"rawResults,omitempty"`
	EmptyResultText *string           `yaml:"emptyResultText,omitempty"`
	Extra           map[string]string `yaml:"extra,omitempty"`
}

// TTSSpec configures synthesis defaults.
type TTSSpec struct {
	BaseURL         string  `yaml:"baseURL,omitempty"`
	Voice           string  `yaml:"voice,omitempty"`
	Emotion         string  `yaml:"emotion,omitempty"`
	Lang            string  `yaml:"lang,omitempty"`
	Speed           float64 `yaml:"speed,omitempty"`
	Format          string  `yaml:"format,omitempty"`
	SampleRateHertz int     `yaml:"sampleRateHertz,omitempty"`
	// Input is "text" or "ssml".
	Input string `yaml:"input,omitempty"`
	// Transport is "form" or "query".
	Transport string `yaml:"transport,omitempty"`
	// Sanitize overrides the transport's default text sanitization.
	Sanitize *bool `yaml:"sanitize,omitempty"`
	// Catalog is "full" or "basic".
	Catalog string `yaml:"catalog,omitempty"`
}

// LoggingSpec configures the global logger.
type LoggingSpec struct {
	DefaultLevel string            `yaml:"defaultLevel,omitempty"`
	Format       string            `yaml:"format,omitempty"`
	CommonFields map[string]string `yaml:"commonFields,omitempty"`
}

// MetricsSpec enables the Prometheus exporter.
type MetricsSpec struct {
	Addr string `yaml:"addr"`
}

// TracingSpec enables OTLP/HTTP trace export.
type TracingSpec struct {
	Endpoint    string `yaml:"endpoint"`
	ServiceName string `yaml:"serviceName,omitempty"`
}
