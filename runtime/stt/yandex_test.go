package stt_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/lostredb/yandex-ai/pkg/testutil"
	"github.com/lostredb/yandex-ai/runtime/credentials"
	"github.com/lostredb/yandex-ai/runtime/stt"
)

const (
	testFolderID = "b1gtestfolder"
	testAPIKey   = "AQVNtestkey0123456789abcdef"
)

func testCredential(t *testing.T) *credentials.YandexCloud {
	t.Helper()
	cred, err := credentials.NewYandexCloud(testFolderID, testAPIKey)
	if err != nil {
		t.Fatalf("NewYandexCloud failed: %v", err)
	}
	return cred
}

func newTestService(t *testing.T, handler http.HandlerFunc, opts ...stt.YandexOption) *stt.YandexService {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	opts = append([]stt.YandexOption{stt.WithYandexBaseURL(server.URL)}, opts...)
	return stt.NewYandex(testCredential(t), opts...)
}

func writeResult(w http.ResponseWriter, text string) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"result": text})
}

func TestNewYandex(t *testing.T) {
	service := stt.NewYandex(testCredential(t))
	if service.Name() != "yandex-cloud" {
		t.Errorf("Name() = %q, want %q", service.Name(), "yandex-cloud")
	}
	if service.Provider() != "yandex-cloud" {
		t.Errorf("Provider() = %q", service.Provider())
	}
	if service.ModelID() != "stt:recognize" {
		t.Errorf("ModelID() = %q, want %q", service.ModelID(), "stt:recognize")
	}
	if service.SpecificationVersion() != "v3" {
		t.Errorf("SpecificationVersion() = %q", service.SpecificationVersion())
	}
	formats := service.SupportedFormats()
	if len(formats) != 2 || formats[0] != stt.FormatLPCM || formats[1] != stt.FormatOggOpus {
		t.Errorf("SupportedFormats() = %v", formats)
	}
}

func TestYandexService_DoGenerate_Success(t *testing.T) {
	audio := []byte("OggS fake opus payload")
	var gotQuery string

	service := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Expected POST request, got %s", r.Method)
		}
		if r.URL.Path != "/stt:recognize" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Api-Key "+testAPIKey {
			t.Errorf("Authorization = %q", got)
		}
		if got := r.Header.Get("Content-Type"); got != "application/octet-stream" {
			t.Errorf("Content-Type = %q", got)
		}
		if _, err := uuid.Parse(r.Header.Get(stt.RequestIDHeader)); err != nil {
			t.Errorf("request id header is not a uuid: %q", r.Header.Get(stt.RequestIDHeader))
		}

		q := r.URL.Query()
		if q.Get("folderId") != testFolderID {
			t.Errorf("folderId = %q", q.Get("folderId"))
		}
		if q.Get("lang") != "auto" || q.Get("format") != "oggopus" || q.Get("sampleRateHertz") != "48000" {
			t.Errorf("unexpected query: %s", r.URL.RawQuery)
		}
		gotQuery = r.URL.RawQuery

		body, _ := io.ReadAll(r.Body)
		if string(body) != string(audio) {
			t.Errorf("body = %q, want audio bytes", body)
		}

		w.Header().Set("X-Request-Id", "upstream-1")
		writeResult(w, "hello world")
	})

	result, err := service.DoGenerate(context.Background(), stt.TranscriptionCallOptions{
		Audio:     audio,
		MediaType: "audio/ogg",
		Options: stt.RecognitionOptions{
			Lang:            stt.LanguageAuto,
			Format:          stt.FormatOggOpus,
			SampleRateHertz: 48000,
		},
	})
	if err != nil {
		t.Fatalf("DoGenerate failed: %v", err)
	}

	if result.Text != "hello world" {
		t.Errorf("Text = %q, want %q", result.Text, "hello world")
	}
	if result.Segments == nil || len(result.Segments) != 0 {
		t.Errorf("Segments = %#v, want empty non-nil", result.Segments)
	}
	if result.Warnings == nil || len(result.Warnings) != 0 {
		t.Errorf("Warnings = %#v, want empty non-nil", result.Warnings)
	}
	if result.Language != "" {
		t.Errorf("Language = %q, want empty", result.Language)
	}
	if result.DurationInSeconds != nil {
		t.Errorf("DurationInSeconds = %v, want nil", *result.DurationInSeconds)
	}
	if result.Request.Body != gotQuery {
		t.Errorf("Request.Body = %q, want %q", result.Request.Body, gotQuery)
	}
	if result.Response.ModelID != "stt:recognize" {
		t.Errorf("Response.ModelID = %q", result.Response.ModelID)
	}
	if result.Response.Timestamp.IsZero() {
		t.Error("Response.Timestamp is zero")
	}
	if result.Response.Headers["x-request-id"] != "upstream-1" {
		t.Errorf("Response.Headers = %v", result.Response.Headers)
	}
	if result.Response.Body == nil {
		t.Error("Response.Body is nil")
	}
}

func TestYandexService_Transcribe(t *testing.T) {
	service := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("lang") != "ru-RU" || q.Get("format") != "lpcm" || q.Get("sampleRateHertz") != "16000" {
			t.Errorf("unexpected query: %s", r.URL.RawQuery)
		}
		if q.Get("topic") != "general" {
			t.Errorf("topic = %q, want general", q.Get("topic"))
		}
		writeResult(w, "привет мир")
	})

	text, err := service.Transcribe(context.Background(), []byte{0x01, 0x02}, stt.TranscriptionConfig{
		Format:     stt.FormatLPCM,
		SampleRate: 16000,
		Language:   "ru-RU",
		Model:      "general",
	})
	if err != nil {
		t.Fatalf("Transcribe failed: %v", err)
	}
	if text != "привет мир" {
		t.Errorf("Transcribe() = %q", text)
	}
}

func TestYandexService_EmptyResultPlaceholder(t *testing.T) {
	tests := []struct {
		name string
		opts []stt.YandexOption
		want string
	}{
		{name: "default", want: stt.DefaultEmptyResultText},
		{name: "custom", opts: []stt.YandexOption{stt.WithYandexEmptyResultText("(silence)")}, want: "(silence)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := newTestService(t, func(w http.ResponseWriter, _ *http.Request) {
				writeResult(w, "")
			}, tt.opts...)

			result, err := service.DoGenerate(context.Background(), stt.TranscriptionCallOptions{Audio: []byte{1}})
			if err != nil {
				t.Fatalf("DoGenerate failed: %v", err)
			}
			if result.Text != tt.want {
				t.Errorf("Text = %q, want %q", result.Text, tt.want)
			}
		})
	}

	if stt.DefaultEmptyResultText != "нет звуков" {
		t.Errorf("DefaultEmptyResultText = %q", stt.DefaultEmptyResultText)
	}
}

func TestYandexService_APIError(t *testing.T) {
	tests := []struct {
		name          string
		status        int
		body          string
		wantCode      string
		wantMessage   string
		wantRetryable bool
		wantRateLimit bool
	}{
		{
			name:        "unauthorized with yandex body",
			status:      http.StatusUnauthorized,
			body:        `{"error_code":"UNAUTHORIZED","error_message":"The token is invalid"}`,
			wantCode:    "UNAUTHORIZED",
			wantMessage: "The token is invalid",
		},
		{
			name:          "rate limited",
			status:        http.StatusTooManyRequests,
			body:          `{"error_code":"TOO_MANY_REQUESTS"}`,
			wantCode:      "TOO_MANY_REQUESTS",
			wantMessage:   "Too Many Requests",
			wantRetryable: true,
			wantRateLimit: true,
		},
		{
			name:          "server error with plain body",
			status:        http.StatusBadGateway,
			body:          "upstream unavailable",
			wantCode:      "502",
			wantMessage:   "upstream unavailable",
			wantRetryable: true,
		},
		{
			name:        "empty body",
			status:      http.StatusBadRequest,
			wantCode:    "400",
			wantMessage: "Bad Request",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			service := newTestService(t, func(w http.ResponseWriter, _ *http.Request) {
				calls.Add(1)
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := service.DoGenerate(context.Background(), stt.TranscriptionCallOptions{Audio: []byte{1}})
			if err == nil {
				t.Fatal("Expected error, got nil")
			}
			if n := calls.Load(); n != 1 {
				t.Errorf("upstream called %d times, want exactly 1", n)
			}

			var tErr *stt.TranscriptionError
			if !errors.As(err, &tErr) {
				t.Fatalf("Expected TranscriptionError, got %T", err)
			}
			if tErr.Provider != "yandex-cloud" {
				t.Errorf("Provider = %q", tErr.Provider)
			}
			if tErr.StatusCode != tt.status {
				t.Errorf("StatusCode = %d, want %d", tErr.StatusCode, tt.status)
			}
			if want := strconv.Itoa(tt.status) + " " + http.StatusText(tt.status); tErr.Status != want {
				t.Errorf("Status = %q, want %q", tErr.Status, want)
			}
			if tErr.Code != tt.wantCode {
				t.Errorf("Code = %q, want %q", tErr.Code, tt.wantCode)
			}
			if tErr.Message != tt.wantMessage {
				t.Errorf("Message = %q, want %q", tErr.Message, tt.wantMessage)
			}
			if tErr.Body != tt.body {
				t.Errorf("Body = %q, want %q", tErr.Body, tt.body)
			}
			if tErr.Retryable != tt.wantRetryable {
				t.Errorf("Retryable = %v, want %v", tErr.Retryable, tt.wantRetryable)
			}
			if got := errors.Is(err, stt.ErrRateLimited); got != tt.wantRateLimit {
				t.Errorf("errors.Is(err, ErrRateLimited) = %v, want %v", got, tt.wantRateLimit)
			}
		})
	}
}

func TestYandexService_Cancellation(t *testing.T) {
	started := make(chan struct{})
	service := newTestService(t, func(_ http.ResponseWriter, r *http.Request) {
		close(started)
		<-r.Context().Done()
	})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-started
		cancel()
	}()

	_, err := service.DoGenerate(ctx, stt.TranscriptionCallOptions{Audio: []byte{1}})
	if err == nil {
		t.Fatal("Expected error, got nil")
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got: %v", err)
	}
	var tErr *stt.TranscriptionError
	if errors.As(err, &tErr) {
		t.Errorf("cancellation must not be a status error: %v", err)
	}
}

func TestYandexService_DeadlineExceeded(t *testing.T) {
	service := newTestService(t, func(_ http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := service.DoGenerate(ctx, stt.TranscriptionCallOptions{Audio: []byte{1}})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Expected context.DeadlineExceeded, got: %v", err)
	}
}

func TestYandexService_MalformedResponse(t *testing.T) {
	service := newTestService(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("not json"))
	})

	_, err := service.DoGenerate(context.Background(), stt.TranscriptionCallOptions{Audio: []byte{1}})
	if err == nil {
		t.Fatal("Expected error, got nil")
	}
	if !strings.Contains(err.Error(), "failed to parse response") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestYandexService_ValidationBeforeRequest(t *testing.T) {
	tests := []struct {
		name  string
		audio []byte
		opts  stt.RecognitionOptions
		want  error
	}{
		{name: "empty audio", audio: nil, want: stt.ErrEmptyAudio},
		{name: "mistyped language", audio: []byte{1}, opts: stt.RecognitionOptions{Lang: "ru-Ru"}, want: stt.ErrUnsupportedLanguage},
		{name: "unknown language", audio: []byte{1}, opts: stt.RecognitionOptions{Lang: "ja-JP"}, want: stt.ErrUnsupportedLanguage},
		{name: "mistyped format", audio: []byte{1}, opts: stt.RecognitionOptions{Format: "lcpm"}, want: stt.ErrInvalidFormat},
		{name: "sample rate", audio: []byte{1}, opts: stt.RecognitionOptions{SampleRateHertz: 44100}, want: stt.ErrInvalidSampleRate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := newTestService(t, func(_ http.ResponseWriter, _ *http.Request) {
				t.Error("upstream must not be called")
			})

			_, err := service.DoGenerate(context.Background(), stt.TranscriptionCallOptions{
				Audio:   tt.audio,
				Options: tt.opts,
			})
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestYandexService_ExtraHeaders(t *testing.T) {
	service := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("X-Data-Logging-Enabled"); got != "true" {
			t.Errorf("X-Data-Logging-Enabled = %q", got)
		}
		if got := r.Header.Get("Authorization"); got != "Api-Key "+testAPIKey {
			t.Errorf("Authorization overridden: %q", got)
		}
		if got := r.Header.Get("Content-Type"); got != "application/octet-stream" {
			t.Errorf("Content-Type overridden: %q", got)
		}
		writeResult(w, "ok")
	})

	_, err := service.DoGenerate(context.Background(), stt.TranscriptionCallOptions{
		Audio: []byte{1},
		Headers: map[string]string{
			"X-Data-Logging-Enabled": "true",
			"Authorization":          "Bearer other",
			"Content-Type":           "text/plain",
		},
	})
	if err != nil {
		t.Fatalf("DoGenerate failed: %v", err)
	}
}

func TestEncodeRecognitionQuery_Completeness(t *testing.T) {
	langs := append([]string{stt.LanguageAuto}, stt.SupportedLanguages...)
	formats := []string{stt.FormatLPCM, stt.FormatOggOpus}
	rawValues := []*bool{nil, testutil.Ptr(true), testutil.Ptr(false)}

	for _, lang := range langs {
		for _, format := range formats {
			for _, rate := range stt.SupportedSampleRates {
				for _, raw := range rawValues {
					opts := stt.RecognitionOptions{Lang: lang, Format: format, SampleRateHertz: rate, RawResults: raw}
					if err := stt.ValidateRecognitionOptions(opts); err != nil {
						t.Fatalf("valid options rejected: %+v: %v", opts, err)
					}

					q, warnings := stt.EncodeRecognitionQuery(testFolderID, opts)
					if len(warnings) != 0 {
						t.Errorf("unexpected warnings: %v", warnings)
					}

					want := map[string]string{
						"lang":            lang,
						"format":          format,
						"sampleRateHertz": strconv.Itoa(rate),
						"folderId":        testFolderID,
					}
					if raw != nil {
						want["rawResults"] = strconv.FormatBool(*raw)
					}
					if len(q) != len(want) {
						t.Errorf("query %v has %d keys, want %d", q, len(q), len(want))
					}
					for key, value := range want {
						if len(q[key]) != 1 || q[key][0] != value {
							t.Errorf("query[%s] = %v, want [%s]", key, q[key], value)
						}
					}
				}
			}
		}
	}
}

func TestEncodeRecognitionQuery_OmitsUnset(t *testing.T) {
	q, _ := stt.EncodeRecognitionQuery(testFolderID, stt.RecognitionOptions{})
	if got := q.Encode(); got != "folderId="+testFolderID {
		t.Errorf("Encode() = %q", got)
	}
}

func TestEncodeRecognitionQuery_Extra(t *testing.T) {
	q, warnings := stt.EncodeRecognitionQuery(testFolderID, stt.RecognitionOptions{
		Lang: "en-US",
		Extra: map[string]string{
			"profanityFilter": "true",
			"lang":            "de-DE",
			"folderId":        "other",
		},
	})

	if q.Get("profanityFilter") != "true" {
		t.Errorf("passthrough key missing: %v", q)
	}
	if q.Get("lang") != "en-US" || q.Get("folderId") != testFolderID {
		t.Errorf("reserved keys overridden: %v", q)
	}
	if len(warnings) != 2 {
		t.Fatalf("warnings = %v, want 2", warnings)
	}
	if warnings[0].Setting != "folderId" || warnings[1].Setting != "lang" {
		t.Errorf("warnings not sorted by setting: %v", warnings)
	}
	for _, w := range warnings {
		if w.Type != "unsupported-setting" {
			t.Errorf("warning type = %q", w.Type)
		}
	}
}
