package tts

import (
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"strings"
)

// Transport selects the synthesize wire contract.
type Transport string

// Wire contracts.
const (
	// TransportForm sends parameters as an x-www-form-urlencoded body.
	TransportForm Transport = "form"

	// TransportQuery sends parameters in the query string with no body.
	TransportQuery Transport = "query"
)

// ParseTransport converts "form" or "query" into a Transport. Empty means form.
func ParseTransport(s string) (Transport, error) {
	switch Transport(s) {
	case "", TransportForm:
		return TransportForm, nil
	case TransportQuery:
		return TransportQuery, nil
	}
	return "", fmt.Errorf("unknown transport %q", s)
}

// Speed bounds accepted by SpeechKit.
const (
	MinSpeed = 0.1
	MaxSpeed = 3.0
)

// SupportedSampleRates lists the accepted sampleRateHertz values.
var SupportedSampleRates = []int{8000, 16000, 48000}

// ValidateSynthesis checks the input and options before anything is sent.
func ValidateSynthesis(catalog *VoiceCatalog, input Input, opts SynthesisOptions) error {
	switch input.Kind {
	case InputText, InputSSML:
	default:
		return fmt.Errorf("%w: kind %q", ErrInvalidInput, input.Kind)
	}
	if strings.TrimSpace(input.Value) == "" {
		return ErrEmptyText
	}
	if err := catalog.Validate(opts.Voice, opts.Emotion); err != nil {
		return err
	}
	if opts.Speed != 0 && (opts.Speed < MinSpeed || opts.Speed > MaxSpeed) {
		return fmt.Errorf("%w: %g not in [%g, %g]", ErrInvalidSpeed, opts.Speed, MinSpeed, MaxSpeed)
	}
	if opts.Format != "" {
		if _, ok := FormatByName(opts.Format); !ok {
			return fmt.Errorf("%w: %q", ErrInvalidFormat, opts.Format)
		}
	}
	if opts.SampleRateHertz != 0 && !slices.Contains(SupportedSampleRates, opts.SampleRateHertz) {
		return fmt.Errorf("%w: %d", ErrInvalidSampleRate, opts.SampleRateHertz)
	}
	return nil
}

// EncodeSynthesisParams builds the synthesize parameters. Unset options are
// omitted. Exactly one of "text" or "ssml" is present. When sanitize is true
// plain text goes through SanitizeText; SSML is never sanitized.
func EncodeSynthesisParams(folderID string, input Input, opts SynthesisOptions, sanitize bool) url.Values {
	v := url.Values{}
	if opts.Voice != "" {
		v.Set("voice", opts.Voice)
	}
	if opts.Lang != "" {
		v.Set("lang", opts.Lang)
	}
	if opts.Emotion != "" {
		v.Set("emotion", opts.Emotion)
	}
	if opts.Speed != 0 {
		v.Set("speed", strconv.FormatFloat(opts.Speed, 'f', -1, 64))
	}
	if opts.Format != "" {
		v.Set("format", opts.Format)
	}
	if opts.SampleRateHertz != 0 {
		v.Set("sampleRateHertz", strconv.Itoa(opts.SampleRateHertz))
	}
	v.Set("folderId", folderID)

	switch input.Kind {
	case InputSSML:
		v.Set("ssml", input.Value)
	default:
		text := input.Value
		if sanitize {
			text = SanitizeText(text)
		}
		v.Set("text", text)
	}
	return v
}
