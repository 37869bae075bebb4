package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	pkgerrors "github.com/lostredb/yandex-ai/pkg/errors"
)

const validManifest = `apiVersion: yandex-ai/v1alpha1
kind: SpeechConfig
metadata:
  name: demo
  labels:
    team: voice
spec:
  folderId: b1gfolder
  credential:
    credentialFile: key.txt
  stt:
    lang: auto
    format: oggopus
    sampleRateHertz: 48000
    rawResults: false
    extra:
      model: general
  tts:
    voice: marina
    emotion: whisper
    speed: 1.2
    format: mp3
    input: ssml
    transport: query
    sanitize: false
    catalog: basic
  logging:
    defaultLevel: debug
    format: json
    commonFields:
      service: speechctl
  metrics:
    addr: ":9090"
  tracing:
    endpoint: http://localhost:4318
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "speech.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadSpeechConfig(t *testing.T) {
	path := writeConfig(t, validManifest)

	cfg, err := LoadSpeechConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "b1gfolder", cfg.FolderID)
	require.NotNil(t, cfg.Credential)
	assert.Equal(t, "key.txt", cfg.Credential.CredentialFile)
	assert.Equal(t, filepath.Dir(path), cfg.ConfigDir)

	assert.Equal(t, "auto", cfg.STT.Lang)
	assert.Equal(t, "oggopus", cfg.STT.Format)
	assert.Equal(t, 48000, cfg.STT.SampleRateHertz)
	require.NotNil(t, cfg.STT.RawResults)
	assert.False(t, *cfg.STT.RawResults)
	assert.Equal(t, map[string]string{"model": "general"}, cfg.STT.Extra)

	assert.Equal(t, "marina", cfg.TTS.Voice)
	assert.Equal(t, "whisper", cfg.TTS.Emotion)
	assert.InDelta(t, 1.2, cfg.TTS.Speed, 1e-9)
	assert.Equal(t, "ssml", cfg.TTS.Input)
	assert.Equal(t, "query", cfg.TTS.Transport)
	require.NotNil(t, cfg.TTS.Sanitize)
	assert.False(t, *cfg.TTS.Sanitize)
	assert.Equal(t, "basic", cfg.TTS.Catalog)

	require.NotNil(t, cfg.Logging)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "speechctl", cfg.Logging.CommonFields["service"])
	require.NotNil(t, cfg.Metrics)
	assert.Equal(t, ":9090", cfg.Metrics.Addr)
	require.NotNil(t, cfg.Tracing)
	assert.Equal(t, "http://localhost:4318", cfg.Tracing.Endpoint)
}

func TestParseSpeechConfig_Metadata(t *testing.T) {
	var manifest SpeechConfigManifest
	cfg, err := ParseSpeechConfig([]byte(validManifest))
	require.NoError(t, err)
	require.NotNil(t, cfg)

	require.NoError(t, yaml.Unmarshal([]byte(validManifest), &manifest))
	assert.Equal(t, "demo", manifest.Metadata.Name)
	assert.Equal(t, "voice", manifest.Metadata.Labels["team"])
}

func TestLoadSpeechConfig_MissingFile(t *testing.T) {
	_, err := LoadSpeechConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	var ctxErr *pkgerrors.ContextualError
	require.True(t, errors.As(err, &ctxErr))
	assert.Equal(t, "config", ctxErr.Component)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestParseSpeechConfig_SchemaViolations(t *testing.T) {
	tests := []struct {
		name     string
		manifest string
		field    string
	}{
		{
			name: "wrong kind",
			manifest: `apiVersion: yandex-ai/v1alpha1
kind: Arena
spec: {}
`,
			field: "kind",
		},
		{
			name: "bad sample rate",
			manifest: `apiVersion: yandex-ai/v1alpha1
kind: SpeechConfig
spec:
  stt:
    sampleRateHertz: 44100
`,
			field: "sampleRateHertz",
		},
		{
			name: "speed out of range",
			manifest: `apiVersion: yandex-ai/v1alpha1
kind: SpeechConfig
spec:
  tts:
    speed: 5
`,
			field: "speed",
		},
		{
			name: "unknown transport",
			manifest: `apiVersion: yandex-ai/v1alpha1
kind: SpeechConfig
spec:
  tts:
    transport: grpc
`,
			field: "transport",
		},
		{
			name: "unknown field",
			manifest: `apiVersion: yandex-ai/v1alpha1
kind: SpeechConfig
spec:
  folder: b1g
`,
			field: "folder",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSpeechConfig([]byte(tt.manifest))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestParseSpeechConfig_InvalidYAML(t *testing.T) {
	_, err := ParseSpeechConfig([]byte("spec: [unclosed"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestApplyEnvDefaults(t *testing.T) {
	t.Setenv("FOLDER_ID", "")
	t.Setenv("YANDEX_FOLDER_ID", "b1genv")

	cfg := DefaultSpeechConfig()
	assert.Equal(t, "b1genv", cfg.FolderID)

	t.Setenv("FOLDER_ID", "b1gprimary")
	cfg = DefaultSpeechConfig()
	assert.Equal(t, "b1gprimary", cfg.FolderID)

	explicit := &SpeechConfig{FolderID: "b1gfile"}
	ApplyEnvDefaults(explicit)
	assert.Equal(t, "b1gfile", explicit.FolderID, "file value must win over env")
}
