package prometheus

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordRequest(t *testing.T) {
	requestsTotal.Reset()
	requestDuration.Reset()

	RecordRequest("yandex-cloud", "recognize", StatusSuccess, 0.4)
	RecordRequest("yandex-cloud", "recognize", StatusSuccess, 0.6)
	RecordRequest("yandex-cloud", "synthesize", StatusCanceled, 0.1)

	if got := testutil.ToFloat64(requestsTotal.WithLabelValues("yandex-cloud", "recognize", StatusSuccess)); got != 2 {
		t.Errorf("recognize success = %v, want 2", got)
	}
	if got := testutil.ToFloat64(requestsTotal.WithLabelValues("yandex-cloud", "synthesize", StatusCanceled)); got != 1 {
		t.Errorf("synthesize canceled = %v, want 1", got)
	}
	if count := testutil.CollectAndCount(requestDuration); count != 2 {
		t.Errorf("duration series = %d, want 2", count)
	}
}

func TestRecordUpstreamError(t *testing.T) {
	upstreamStatusTotal.Reset()

	RecordUpstreamError("yandex-cloud", "synthesize", "401")
	RecordUpstreamError("yandex-cloud", "synthesize", "401")

	if got := testutil.ToFloat64(upstreamStatusTotal.WithLabelValues("yandex-cloud", "synthesize", "401")); got != 2 {
		t.Errorf("401 count = %v, want 2", got)
	}
}

func TestRecordAudioBytesAndChars(t *testing.T) {
	audioBytesTotal.Reset()
	synthesizedCharsTotal.Reset()

	RecordAudioBytes("yandex-cloud", DirectionUpload, 1024)
	RecordAudioBytes("yandex-cloud", DirectionUpload, 0)
	RecordAudioBytes("yandex-cloud", DirectionDownload, 10)
	RecordSynthesizedChars("yandex-cloud", 12)
	RecordSynthesizedChars("yandex-cloud", -1)

	if got := testutil.ToFloat64(audioBytesTotal.WithLabelValues("yandex-cloud", DirectionUpload)); got != 1024 {
		t.Errorf("upload bytes = %v, want 1024", got)
	}
	if got := testutil.ToFloat64(audioBytesTotal.WithLabelValues("yandex-cloud", DirectionDownload)); got != 10 {
		t.Errorf("download bytes = %v, want 10", got)
	}
	if got := testutil.ToFloat64(synthesizedCharsTotal.WithLabelValues("yandex-cloud")); got != 12 {
		t.Errorf("chars = %v, want 12", got)
	}
}

func TestExporter_Handler(t *testing.T) {
	requestsTotal.Reset()
	RecordRequest("yandex-cloud", "recognize", StatusError, 0.2)

	exporter := NewExporter(":0")
	server := httptest.NewServer(exporter.Handler())
	defer server.Close()

	resp, err := http.Get(server.URL + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()

	if !strings.Contains(string(body), "speech_requests_total") {
		t.Errorf("/metrics missing speech_requests_total:\n%s", body)
	}

	resp, err = http.Get(server.URL + "/health")
	if err != nil {
		t.Fatalf("GET /health: %v", err)
	}
	body, _ = io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || string(body) != "ok" {
		t.Errorf("/health = %d %q", resp.StatusCode, body)
	}
}

func TestExporter_ShutdownWithoutStart(t *testing.T) {
	exporter := NewExporter(":0")
	if err := exporter.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() = %v, want nil", err)
	}
	if exporter.Registry() == nil {
		t.Error("Registry() returned nil")
	}
}
