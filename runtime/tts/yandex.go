package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

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
	yandexBaseURL            = "https://tts.api.cloud.yandex.net/speech/v1"
	yandexSynthesizeEndpoint = "/tts:synthesize"

	// ProviderYandex is the provider identifier of the SpeechKit adapters.
	ProviderYandex = "yandex-cloud"

	// ModelYandexSynthesize is the SpeechKit v1 synthesis model identifier.
	ModelYandexSynthesize = "tts:synthesize"

	// RequestIDHeader carries the per-call request identifier upstream.
	RequestIDHeader = "x-client-request-id"

	operationSynthesize = "synthesize"

	// HTTP status code threshold for server errors.
	yandexServerErrorThreshold = 500
)

// YandexService implements Service and SpeechModel using Yandex SpeechKit.
// It is safe for concurrent use.
type YandexService struct {
	cred           *credentials.YandexCloud
	baseURL        string
	client         *http.Client
	tracerProvider trace.TracerProvider
	transport      Transport
	sanitize       *bool
	catalog        *VoiceCatalog
}

// YandexOption configures the Yandex TTS service.
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
func WithYandexTracerProvider(tp trace.TracerProvider) YandexOption {
	return func(s *YandexService) {
		s.tracerProvider = tp
	}
}

// WithYandexTransport selects the form or query wire contract. Default is form.
func WithYandexTransport(t Transport) YandexOption {
	return func(s *YandexService) {
		s.transport = t
	}
}

// WithYandexSanitize overrides text sanitization. By default plain text is
// sanitized on the form transport and sent as-is on the query transport.
func WithYandexSanitize(enabled bool) YandexOption {
	return func(s *YandexService) {
		s.sanitize = &enabled
	}
}

// WithYandexCatalog sets the voice catalog used for validation.
func WithYandexCatalog(c *VoiceCatalog) YandexOption {
	return func(s *YandexService) {
		if c != nil {
			s.catalog = c
		}
	}
}

// NewYandex creates a Yandex SpeechKit TTS service.
func NewYandex(cred *credentials.YandexCloud, opts ...YandexOption) *YandexService {
	s := &YandexService{
		cred:      cred,
		baseURL:   yandexBaseURL,
		client:    httputil.NewSpeechClient(),
		transport: TransportForm,
		catalog:   FullCatalog,
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

// ModelID returns "tts:synthesize".
func (s *YandexService) ModelID() string {
	return ModelYandexSynthesize
}

// SpecificationVersion returns the model interface revision.
func (s *YandexService) SpecificationVersion() string {
	return SpecificationVersion
}

// Transport returns the configured wire contract.
func (s *YandexService) Transport() Transport {
	return s.transport
}

// Catalog returns the voice catalog used for validation.
func (s *YandexService) Catalog() *VoiceCatalog {
	return s.catalog
}

// SupportedVoices returns the voices of the configured catalog.
func (s *YandexService) SupportedVoices() []Voice {
	return s.catalog.Voices()
}

// SupportedFormats returns audio formats supported by SpeechKit v1.
func (s *YandexService) SupportedFormats() []AudioFormat {
	return []AudioFormat{FormatLPCM, FormatOggOpus, FormatMP3}
}

func (s *YandexService) sanitizeText() bool {
	if s.sanitize != nil {
		return *s.sanitize
	}
	return s.transport != TransportQuery
}

// Synthesize converts text to audio using SpeechKit.
// The whole response is buffered; the returned reader never blocks on the network.
//
//nolint:gocritic // hugeParam: SynthesisConfig passed by value to satisfy Service interface
func (s *YandexService) Synthesize(
	ctx context.Context, text string, config SynthesisConfig,
) (io.ReadCloser, error) {
	input := TextInput(text)
	if config.SSML {
		input = SSMLInput(text)
	}

	result, err := s.DoGenerate(ctx, SpeechCallOptions{
		Input: input,
		Options: SynthesisOptions{
			Voice:           config.Voice,
			Emotion:         config.Emotion,
			Lang:            config.Language,
			Speed:           config.Speed,
			Format:          config.Format.Name,
			SampleRateHertz: config.SampleRate,
		},
	})
	if err != nil {
		return nil, err
	}
	return io.NopCloser(bytes.NewReader(result.Audio)), nil
}

// yandexErrorResponse is the error body SpeechKit returns on non-2xx.
type yandexErrorResponse struct {
	ErrorCode    string `json:"error_code"`
	ErrorMessage string `json:"error_message"`
}

// DoGenerate sends one synthesize request and returns the audio.
//
//nolint:gocritic // hugeParam: SpeechCallOptions passed by value to satisfy SpeechModel
func (s *YandexService) DoGenerate(ctx context.Context, opts SpeechCallOptions) (result *SpeechResult, err error) {
	if err := ValidateSynthesis(s.catalog, opts.Input, opts.Options); err != nil {
		return nil, err
	}

	requestID := uuid.NewString()
	ctx = logger.WithLoggingContext(ctx, &logger.LoggingFields{
		RequestID: requestID,
		Provider:  ProviderYandex,
		Model:     ModelYandexSynthesize,
		Operation: operationSynthesize,
		FolderID:  s.cred.FolderID(),
	})
	ctx, span := telemetry.StartSpeechSpan(ctx, s.tracerProvider, ProviderYandex, ModelYandexSynthesize,
		operationSynthesize, telemetry.AttrRequestID.String(requestID))

	start := time.Now()
	defer func() {
		telemetry.EndSpan(span, err)
		metrics.RecordRequest(ProviderYandex, operationSynthesize, requestStatus(ctx, err), time.Since(start).Seconds())
	}()

	params := EncodeSynthesisParams(s.cred.FolderID(), opts.Input, opts.Options, s.sanitizeText())
	encoded := params.Encode()

	req, err := s.newRequest(ctx, encoded)
	if err != nil {
		return nil, err
	}
	for key, value := range opts.Headers {
		if strings.EqualFold(key, "Authorization") || strings.EqualFold(key, "Content-Type") {
			continue
		}
		req.Header.Set(key, value)
	}
	req.Header.Set(RequestIDHeader, requestID)
	if err := s.cred.Apply(ctx, req); err != nil {
		return nil, fmt.Errorf("failed to apply credentials: %w", err)
	}

	logger.APIRequest(ctx, ProviderYandex, req.Method, req.URL.String(), flattenRequestHeaders(req.Header), formBody(s.transport, encoded))
	metrics.RecordSynthesizedChars(ProviderYandex, utf8.RuneCountInString(opts.Input.Value))

	resp, err := s.client.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("synthesize request canceled: %w", ctxErr)
		}
		return nil, NewSynthesisError(ProviderYandex, "", "request failed", err, true)
	}
	defer resp.Body.Close()

	span.SetAttributes(telemetry.AttrStatusCode.Int(resp.StatusCode))

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("synthesize request canceled: %w", ctxErr)
		}
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		logger.APIResponse(ctx, ProviderYandex, resp.StatusCode, string(body), nil)
		sErr := s.handleError(resp, body)
		metrics.RecordUpstreamError(ProviderYandex, operationSynthesize, strconv.Itoa(resp.StatusCode))
		logger.SpeechError(ctx, ProviderYandex, operationSynthesize, sErr)
		return nil, sErr
	}

	logger.APIResponse(ctx, ProviderYandex, resp.StatusCode, "", nil)
	metrics.RecordAudioBytes(ProviderYandex, metrics.DirectionDownload, len(body))
	logger.SpeechCall(ctx, ProviderYandex, operationSynthesize, resp.StatusCode, len(body),
		"transport", string(s.transport))

	return &SpeechResult{
		Audio:    body,
		Warnings: []types.Warning{},
		Request:  types.RequestMetadata{Body: encoded},
		Response: types.ResponseMetadata{
			Timestamp: time.Now(),
			ModelID:   ModelYandexSynthesize,
			Headers:   types.FlattenHeaders(resp.Header),
			Body:      body,
		},
	}, nil
}

// newRequest builds the POST for the configured transport.
func (s *YandexService) newRequest(ctx context.Context, encoded string) (*http.Request, error) {
	endpoint := s.baseURL + yandexSynthesizeEndpoint

	var (
		req *http.Request
		err error
	)
	switch s.transport {
	case TransportQuery:
		req, err = http.NewRequestWithContext(ctx, http.MethodPost, endpoint+"?"+encoded, http.NoBody)
	case TransportForm, "":
		req, err = http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(encoded))
		if err == nil {
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		}
	default:
		return nil, fmt.Errorf("unknown transport %q", s.transport)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return req, nil
}

// handleError converts a non-2xx response into a SynthesisError.
func (s *YandexService) handleError(resp *http.Response, body []byte) *SynthesisError {
	retryable := resp.StatusCode == http.StatusTooManyRequests ||
		resp.StatusCode >= yandexServerErrorThreshold

	var cause error
	if resp.StatusCode == http.StatusTooManyRequests {
		cause = ErrRateLimited
	}

	code := strconv.Itoa(resp.StatusCode)
	message := string(body)

	var errResp yandexErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil {
		if errResp.ErrorCode != "" {
			code = errResp.ErrorCode
		}
		if errResp.ErrorMessage != "" {
			message = errResp.ErrorMessage
		}
	}
	if message == "" {
		message = http.StatusText(resp.StatusCode)
	}

	sErr := NewSynthesisError(ProviderYandex, code, message, cause, retryable)
	sErr.StatusCode = resp.StatusCode
	sErr.Status = resp.Status
	sErr.Body = string(body)
	return sErr
}

// formBody returns the body to log: the encoded form for TransportForm, nothing for query.
func formBody(t Transport, encoded string) any {
	if t == TransportQuery {
		return nil
	}
	return encoded
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
	_ Service     = (*YandexService)(nil)
	_ SpeechModel = (*YandexService)(nil)
)
