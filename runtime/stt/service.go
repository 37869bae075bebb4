package stt

import (
	"context"

	"github.com/lostredb/yandex-ai/runtime/types"
)

const (
	// Audio encodings accepted by the recognizer.
	FormatLPCM    = "lpcm"
	FormatOggOpus = "oggopus"

	// LanguageAuto asks the recognizer to detect the language.
	LanguageAuto = "auto"

	// SpecificationVersion is the model interface revision implemented here.
	SpecificationVersion = "v3"
)

// Service transcribes audio to text.
// This interface abstracts different STT providers enabling voice AI
// applications to use any provider interchangeably.
type Service interface {
	// Name returns the provider identifier (for logging/debugging).
	Name() string

	// Transcribe converts audio to text.
	// Returns the transcribed text or an error if transcription fails.
	Transcribe(ctx context.Context, audio []byte, config TranscriptionConfig) (string, error)

	// SupportedFormats returns supported audio input formats.
	SupportedFormats() []string
}

// TranscriptionModel is the model-layer contract: one call, one envelope.
type TranscriptionModel interface {
	// Provider returns the provider identifier, e.g. "yandex-cloud".
	Provider() string

	// ModelID returns the upstream model identifier.
	ModelID() string

	// SpecificationVersion returns the interface revision the model implements.
	SpecificationVersion() string

	// DoGenerate performs exactly one upstream request.
	DoGenerate(ctx context.Context, opts TranscriptionCallOptions) (*TranscriptionResult, error)
}

// TranscriptionConfig configures speech-to-text transcription.
type TranscriptionConfig struct {
	// Format is the audio encoding ("lpcm", "oggopus").
	Format string

	// SampleRate is the audio sample rate in Hz. Zero leaves it to the provider.
	SampleRate int

	// Language is a language tag such as "ru-RU", or "auto".
	Language string

	// Model selects a provider-specific recognition model (Yandex "topic").
	Model string
}

// DefaultTranscriptionConfig returns sensible defaults for transcription.
func DefaultTranscriptionConfig() TranscriptionConfig {
	return TranscriptionConfig{
		Format:   FormatOggOpus,
		Language: LanguageAuto,
	}
}

// RecognitionOptions are the provider options for one recognition call.
// Zero values are omitted from the request.
type RecognitionOptions struct {
	Lang            string
	Format          string
	SampleRateHertz int
	RawResults      *bool

	// Extra holds passthrough query parameters such as "topic" or
	// "profanityFilter". Keys that collide with the fields above are ignored.
	Extra map[string]string
}

// TranscriptionCallOptions is the input to TranscriptionModel.DoGenerate.
type TranscriptionCallOptions struct {
	// Audio is the encoded audio payload.
	Audio []byte

	// MediaType is the caller's media type for Audio. Informational only.
	MediaType string

	// Options are the recognition parameters.
	Options RecognitionOptions

	// Headers are merged into the outbound request. They cannot replace
	// Authorization or Content-Type.
	Headers map[string]string
}

// Segment is a timed span of recognized text.
type Segment struct {
	Text        string  `json:"text"`
	StartSecond float64 `json:"startSecond"`
	EndSecond   float64 `json:"endSecond"`
}

// TranscriptionResult is the envelope returned by DoGenerate.
type TranscriptionResult struct {
	// Text is the recognized text, or the placeholder when nothing was heard.
	Text string `json:"text"`

	// Segments is always non-nil. The v1 endpoint returns no timing.
	Segments []Segment `json:"segments"`

	// Language is empty when the provider does not report it.
	Language string `json:"language,omitempty"`

	// DurationInSeconds is nil when the provider does not report it.
	DurationInSeconds *float64 `json:"durationInSeconds,omitempty"`

	// Warnings is always non-nil.
	Warnings []types.Warning `json:"warnings"`

	Request  types.RequestMetadata  `json:"request"`
	Response types.ResponseMetadata `json:"response"`
}
