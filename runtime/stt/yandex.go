package stt

import (
	"bytes"
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/lostredb/yandex-ai/pkg/httputil"
	"github.com/lostredb/yandex-ai/runtime/credentials"
	"github.com/lostredb/yandex-ai/runtime/logger"
	metrics "github.com/lostredb/yandex-ai/runtime/metrics/prometheus"
	"github.com/lostredb/yandex-ai/runtime/telemetry"
	"github.com/lostredb/yandex-ai/runtime/types"
)

const (
	yandexBaseURL           = "https://stt.api.cloud.yandex.net/speech/v1"
	yandexRecognizeEndpoint = "/stt:recognize"

	// ProviderYandex is the provider identifier of the SpeechKit adapters.
	ProviderYandex = "yandex-cloud"

	// ModelYandexRecognize is the SpeechKit v1 recognition model identifier.
	ModelYandexRecognize = "stt:recognize"

	// DefaultEmptyResultText is returned when the recognizer heard nothing.
	DefaultEmptyResultText = "нет звуков"

	// RequestIDHeader carries the per-call request identifier upstream.
	RequestIDHeader = "x-client-request-id"

	operationRecognize = "recognize"

	// HTTP status code threshold for server errors.
	yandexServerErrorThreshold = 500
)

// Query parameter names reserved for RecognitionOptions fields.
const (
	paramLang            = "lang"
	paramFormat          = "format"
	paramSampleRateHertz = "sampleRateHertz"
	paramRawResults      = "rawResults"
	paramFolderID        = "folderId"
)

// SupportedLanguages lists the language tags the recognizer accepts, besides "auto".
var SupportedLanguages = []string{
	"ru-RU", "en-US", "de-DE", "es-ES", "fr-FR", "it-IT", "pt-PT", "pt-BR",
	"nl-NL", "sv-SE", "fi-FI", "tr-TR", "he-IL", "kk-KZ", "pl-PL", "uz-UZ",
}

// SupportedSampleRates lists the accepted sampleRateHertz values.
var SupportedSampleRates = []int{8000, 16000, 48000}

// YandexService implements Service and TranscriptionModel using Yandex SpeechKit.
// It is safe for concurrent use.
type YandexService struct {
	cred            *credentials.YandexCloud
	baseURL         string
	client          *http.Client
	tracerProvider  trace.TracerProvider
	emptyResultText string
}

// YandexOption configures the Yandex STT service.
type YandexOption func(*YandexService)

// WithYandexBaseURL sets a custom base URL (for testing or proxies).
func WithYandexBaseURL(url string) YandexOption {
	return func(s *YandexService) {
		s.baseURL = url
	}
}

// WithYandexClient sets a custom HTTP client.
func WithYandexClient(client *http.Client) YandexOption {
	return func(s *YandexService) {
		s.client = client
	}
}

// WithYandexTracerProvider sets the TracerProvider for call spans.
// The global provider is used when unset.
func WithYandexTracerProvider(tp trace.TracerProvider) YandexOption {
	return func(s *YandexService) {
		s.tracerProvider = tp
	}
}

// WithYandexEmptyResultText replaces the placeholder returned for silent audio.
func WithYandexEmptyResultText(text string) YandexOption {
	return func(s *YandexService) {
		s.emptyResultText = text
	}
}

// NewYandex creates a Yandex SpeechKit STT service.
func NewYandex(cred *credentials.YandexCloud, opts ...YandexOption) *YandexService {
	s := &YandexService{
		cred:            cred,
		baseURL:         yandexBaseURL,
		client:          httputil.NewSpeechClient(),
		emptyResultText: DefaultEmptyResultText,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the provider identifier.
func (s *YandexService) Name() string {
	return ProviderYandex
}

// Provider returns the provider identifier.
func (s *YandexService) Provider() string {
	return ProviderYandex
}

// ModelID returns "stt:recognize".
func (s *YandexService) ModelID() string {
	return ModelYandexRecognize
}

// SpecificationVersion returns the model interface revision.
func (s *YandexService) SpecificationVersion() string {
	return SpecificationVersion
}

// SupportedFormats returns audio formats accepted by SpeechKit v1.
func (s *YandexService) SupportedFormats() []string {
	return []string{FormatLPCM, FormatOggOpus}
}

// Transcribe converts audio to text using SpeechKit.
//
//nolint:gocritic // hugeParam: TranscriptionConfig passed by value to satisfy Service interface
func (s *YandexService) Transcribe(
	ctx context.Context, audio []byte, config TranscriptionConfig,
) (string, error) {
	opts := RecognitionOptions{
		Lang:            config.Language,
		Format:          config.Format,
		SampleRateHertz: config.SampleRate,
	}
	if config.Model != "" {
		opts.Extra = map[string]string{"topic": config.Model}
	}

	result, err := s.DoGenerate(ctx, TranscriptionCallOptions{Audio: audio, Options: opts})
	if err != nil {
		return "", err
	}
	return result.Text, nil
}

// ValidateRecognitionOptions checks the options against the values SpeechKit accepts.
// Zero values pass.
func ValidateRecognitionOptions(opts RecognitionOptions) error {
	if opts.Lang != "" && opts.Lang != LanguageAuto && !slices.Contains(SupportedLanguages, opts.Lang) {
		return fmt.Errorf("%w: %q", ErrUnsupportedLanguage, opts.Lang)
	}
	if opts.Format != "" && opts.Format != FormatLPCM && opts.Format != FormatOggOpus {
		return fmt.Errorf("%w: %q", ErrInvalidFormat, opts.Format)
	}
	if opts.SampleRateHertz != 0 && !slices.Contains(SupportedSampleRates, opts.SampleRateHertz) {
		return fmt.Errorf("%w: %d", ErrInvalidSampleRate, opts.SampleRateHertz)
	}
	return nil
}

// EncodeRecognitionQuery builds the recognize query string parameters.
// Every set option appears exactly once; unset options are omitted.
// Extra keys that collide with a reserved parameter are dropped and reported
// as unsupported-setting warnings.
func EncodeRecognitionQuery(folderID string, opts RecognitionOptions) (url.Values, []types.Warning) {
	q := url.Values{}
	if opts.Lang != "" {
		q.Set(paramLang, opts.Lang)
	}
	if opts.Format != "" {
		q.Set(paramFormat, opts.Format)
	}
	if opts.SampleRateHertz != 0 {
		q.Set(paramSampleRateHertz, strconv.Itoa(opts.SampleRateHertz))
	}
	if opts.RawResults != nil {
		q.Set(paramRawResults, strconv.FormatBool(*opts.RawResults))
	}
	q.Set(paramFolderID, folderID)

	warnings := []types.Warning{}
	for key, value := range opts.Extra {
		if isReservedParam(key) {
			warnings = append(warnings, types.Warning{
				Type:    "unsupported-setting",
				Setting: key,
				Message: "extra parameter collides with a reserved parameter and was ignored",
			})
			continue
		}
		q.Set(key, value)
	}
	slices.SortFunc(warnings, func(a, b types.Warning) int {
		return cmp.Compare(a.Setting, b.Setting)
	})
	return q, warnings
}

func isReservedParam(key string) bool {
	switch key {
	case paramLang, paramFormat, paramSampleRateHertz, paramRawResults, paramFolderID:
		return true
	}
	return false
}

// yandexRecognizeResponse is the success body of stt:recognize.
type yandexRecognizeResponse struct {
	Result string `json:"result"`
}

// yandexErrorResponse is the error body SpeechKit returns on non-2xx.
type yandexErrorResponse struct {
	ErrorCode    string `json:"error_code"`
	ErrorMessage string `json:"error_message"`
}

// DoGenerate sends one recognize request and reshapes the response.
//
//nolint:gocritic // hugeParam: TranscriptionCallOptions passed by value to satisfy TranscriptionModel
func (s *YandexService) DoGenerate(
	ctx context.Context, opts TranscriptionCallOptions,
) (result *TranscriptionResult, err error) {
	if len(opts.Audio) == 0 {
		return nil, ErrEmptyAudio
	}
	if err := ValidateRecognitionOptions(opts.Options); err != nil {
		return nil, err
	}

	requestID := uuid.NewString()
	ctx = logger.WithLoggingContext(ctx, &logger.LoggingFields{
		RequestID: requestID,
		Provider:  ProviderYandex,
		Model:     ModelYandexRecognize,
		Operation: operationRecognize,
		FolderID:  s.cred.FolderID(),
	})
	ctx, span := telemetry.StartSpeechSpan(ctx, s.tracerProvider, ProviderYandex, ModelYandexRecognize,
		operationRecognize, telemetry.AttrRequestID.String(requestID), telemetry.AttrAudioBytes.Int(len(opts.Audio)))

	start := time.Now()
	defer func() {
		telemetry.EndSpan(span, err)
		metrics.RecordRequest(ProviderYandex, operationRecognize, requestStatus(ctx, err), time.Since(start).Seconds())
	}()

	query, warnings := EncodeRecognitionQuery(s.cred.FolderID(), opts.Options)
	for _, w := range warnings {
		logger.WarnContext(ctx, "Ignoring recognition setting", "setting", w.Setting)
	}
	encoded := query.Encode()
	endpoint := s.baseURL + yandexRecognizeEndpoint + "?" + encoded

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(opts.Audio))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	for key, value := range opts.Headers {
		req.Header.Set(key, value)
	}
	req.Header.Set(RequestIDHeader, requestID)
	req.Header.Set("Content-Type", "application/octet-stream")
	if err := s.cred.Apply(ctx, req); err != nil {
		return nil, fmt.Errorf("failed to apply credentials: %w", err)
	}

	logger.APIRequest(ctx, ProviderYandex, req.Method, endpoint, flattenRequestHeaders(req.Header), opts.Audio)
	metrics.RecordAudioBytes(ProviderYandex, metrics.DirectionUpload, len(opts.Audio))

	resp, err := s.client.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("recognize request canceled: %w", ctxErr)
		}
		return nil, NewTranscriptionError(ProviderYandex, "", "request failed", err, true)
	}
	defer resp.Body.Close()

	span.SetAttributes(telemetry.AttrStatusCode.Int(resp.StatusCode))

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("recognize request canceled: %w", ctxErr)
		}
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	logger.APIResponse(ctx, ProviderYandex, resp.StatusCode, string(body), nil)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		tErr := s.handleError(resp, body)
		metrics.RecordUpstreamError(ProviderYandex, operationRecognize, strconv.Itoa(resp.StatusCode))
		logger.SpeechError(ctx, ProviderYandex, operationRecognize, tErr)
		return nil, tErr
	}

	var parsed yandexRecognizeResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	text := parsed.Result
	if text == "" {
		text = s.emptyResultText
	}

	logger.SpeechCall(ctx, ProviderYandex, operationRecognize, resp.StatusCode, len(opts.Audio))

	return &TranscriptionResult{
		Text:     text,
		Segments: []Segment{},
		Warnings: warnings,
		Request:  types.RequestMetadata{Body: encoded},
		Response: types.ResponseMetadata{
			Timestamp: time.Now(),
			ModelID:   ModelYandexRecognize,
			Headers:   types.FlattenHeaders(resp.Header),
			Body:      parsed,
		},
	}, nil
}

// handleError converts a non-2xx response into a TranscriptionError.
func (s *YandexService) handleError(resp *http.Response, body []byte) *TranscriptionError {
	retryable := resp.StatusCode == http.StatusTooManyRequests ||
		resp.StatusCode >= yandexServerErrorThreshold

	var cause error
	if resp.StatusCode == http.StatusTooManyRequests {
		cause = ErrRateLimited
	}

	code := strconv.Itoa(resp.StatusCode)
	message := http.StatusText(resp.StatusCode)

	var errResp yandexErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil {
		if errResp.ErrorCode != "" {
			code = errResp.ErrorCode
		}
		if errResp.ErrorMessage != "" {
			message = errResp.ErrorMessage
		}
	} else if len(body) > 0 {
		message = string(body)
	}

	tErr := NewTranscriptionError(ProviderYandex, code, message, cause, retryable)
	tErr.StatusCode = resp.StatusCode
	tErr.Status = resp.Status
	tErr.Body = string(body)
	return tErr
}

// requestStatus maps a call outcome to a metrics status label.
func requestStatus(ctx context.Context, err error) string {
	switch {
	case err == nil:
		return metrics.StatusSuccess
	case ctx.Err() != nil:
		return metrics.StatusCanceled
	default:
		return metrics.StatusError
	}
}

func flattenRequestHeaders(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for key := range h {
		out[key] = h.Get(key)
	}
	return out
}

var (
	_ Service            = (*YandexService)(nil)
	_ TranscriptionModel = (*YandexService)(nil)
)
