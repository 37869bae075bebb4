package tts

import (
	"context"
	"io"

	"github.com/lostredb/yandex-ai/runtime/types"
)

// SpecificationVersion is the model interface revision implemented here.
const SpecificationVersion = "v3"

// Audio constants for lpcm output.
const (
	sampleRateDefault = 48000
	bitDepthDefault   = 16
)

// Service converts text to speech audio.
// This interface abstracts different TTS providers enabling voice AI
// applications to use any provider interchangeably.
type Service interface {
	// Name returns the provider identifier (for logging/debugging).
	Name() string

	// Synthesize converts text to audio.
	// The caller is responsible for closing the reader.
	Synthesize(ctx context.Context, text string, config SynthesisConfig) (io.ReadCloser, error)

	// SupportedVoices returns available voices for this provider.
	SupportedVoices() []Voice

	// SupportedFormats returns supported audio output formats.
	SupportedFormats() []AudioFormat
}

// SpeechModel is the model-layer contract: one call, one envelope.
type SpeechModel interface {
	// Provider returns the provider identifier, e.g. "yandex-cloud".
	Provider() string

	// ModelID returns the upstream model identifier.
	ModelID() string

	// SpecificationVersion returns the interface revision the model implements.
	SpecificationVersion() string

	// DoGenerate performs exactly one upstream request.
	DoGenerate(ctx context.Context, opts SpeechCallOptions) (*SpeechResult, error)
}

// SynthesisConfig configures text-to-speech synthesis.
type SynthesisConfig struct {
	// Voice is the voice ID to use for synthesis.
	// Use SupportedVoices() to list options.
	Voice string

	// Emotion is the voice role ("neutral", "good", ...). It must be one the voice supports.
	Emotion string

	// Format is the output audio format.
	Format AudioFormat

	// Speed is the speech rate multiplier (0.1-3.0). Zero leaves it to the provider.
	Speed float64

	// Language is the language code for synthesis (e.g., "ru-RU").
	Language string

	// SampleRate applies to lpcm output only. Zero leaves it to the provider.
	SampleRate int

	// SSML marks the text passed to Synthesize as SSML markup.
	SSML bool
}

// DefaultSynthesisConfig returns sensible defaults for synthesis.
func DefaultSynthesisConfig() SynthesisConfig {
	return SynthesisConfig{
		Voice:    "alena",
		Format:   FormatOggOpus,
		Speed:    1.0,
		Language: "ru-RU",
	}
}

// Voice describes a TTS voice available from a provider.
type Voice struct {
	// ID is the provider-specific voice identifier.
	ID string

	// Name is a human-readable voice name.
	Name string

	// Language is the primary language code (e.g., "ru-RU").
	Language string

	// Gender is the voice gender ("male", "female").
	Gender string

	// Description provides additional voice characteristics.
	Description string

	// Emotions lists the roles the voice can speak with.
	Emotions []Emotion
}

// AudioFormat describes an audio output format.
type AudioFormat struct {
	// Name is the format identifier sent upstream ("lpcm", "oggopus", "mp3").
	Name string

	// MIMEType is the content type (e.g., "audio/ogg").
	MIMEType string

	// SampleRate is the audio sample rate in Hz.
	SampleRate int

	// BitDepth is the bits per sample (for PCM formats).
	BitDepth int

	// Channels is the number of audio channels (1=mono, 2=stereo).
	Channels int
}

// Output formats accepted by SpeechKit v1.
var (
	// FormatLPCM is headerless 16-bit little-endian PCM.
	FormatLPCM = AudioFormat{
		Name:       "lpcm",
		MIMEType:   "audio/L16",
		SampleRate: sampleRateDefault,
		BitDepth:   bitDepthDefault,
		Channels:   1,
	}

	// FormatOggOpus is Opus in an Ogg container.
	FormatOggOpus = AudioFormat{
		Name:       "oggopus",
		MIMEType:   "audio/ogg",
		SampleRate: sampleRateDefault,
		BitDepth:   0, // Compressed
		Channels:   1,
	}

	// FormatMP3 is MP3.
	FormatMP3 = AudioFormat{
		Name:       "mp3",
		MIMEType:   "audio/mpeg",
		SampleRate: sampleRateDefault,
		BitDepth:   0, // Compressed
		Channels:   1,
	}
)

// String returns the format name.
func (f AudioFormat) String() string {
	return f.Name
}

// FormatByName returns the AudioFormat with the given upstream name.
func FormatByName(name string) (AudioFormat, bool) {
	for _, f := range []AudioFormat{FormatLPCM, FormatOggOpus, FormatMP3} {
		if f.Name == name {
			return f, true
		}
	}
	return AudioFormat{}, false
}

// InputKind tells whether an Input is plain text or SSML markup.
type InputKind string

// Input kinds.
const (
	InputText InputKind = "text"
	InputSSML InputKind = "ssml"
)

// Input is the content to synthesize. Exactly one kind is carried, so a
// request can never hold both text and SSML.
type Input struct {
	Kind  InputKind
	Value string
}

// TextInput returns a plain-text input.
func TextInput(text string) Input {
	return Input{Kind: InputText, Value: text}
}

// SSMLInput returns an SSML input.
func SSMLInput(ssml string) Input {
	return Input{Kind: InputSSML, Value: ssml}
}

// SynthesisOptions are the provider options for one synthesis call.
// Zero values are omitted from the request.
type SynthesisOptions struct {
	Voice           string
	Emotion         string
	Lang            string
	Speed           float64
	Format          string
	SampleRateHertz int
}

// SpeechCallOptions is the input to SpeechModel.DoGenerate.
type SpeechCallOptions struct {
	Input   Input
	Options SynthesisOptions

	// Headers are merged into the outbound request. They cannot replace
	// Authorization or Content-Type.
	Headers map[string]string
}

// SpeechResult is the envelope returned by DoGenerate.
type SpeechResult struct {
	// Audio is the raw response body.
	Audio []byte `json:"-"`

	// Warnings is always non-nil.
	Warnings []types.Warning `json:"warnings"`

	Request  types.RequestMetadata  `json:"request"`
	Response types.ResponseMetadata `json:"response"`
}
