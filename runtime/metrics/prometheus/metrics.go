// Package prometheus records speech adapter calls as Prometheus metrics and
// serves them over HTTP.
package prometheus

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "speech"

// Status label values.
const (
	StatusSuccess  = "success"
	StatusError    = "error"
	StatusCanceled = "canceled"
)

// Direction label values for audio byte counters.
const (
	DirectionUpload   = "upload"
	DirectionDownload = "download"
)

var (
	// requestDuration is a histogram of upstream call duration.
	requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "request_duration_seconds",
			Help:      "Duration of speech provider API calls in seconds",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"provider", "operation", "status"},
	)

	// requestsTotal counts upstream calls by outcome.
	requestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "Total number of speech provider API calls",
		},
		[]string{"provider", "operation", "status"},
	)

	// upstreamStatusTotal counts non-2xx responses by HTTP status code.
	upstreamStatusTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_errors_total",
			Help:      "Total number of non-success HTTP responses from the speech provider",
		},
		[]string{"provider", "operation", "code"},
	)

	// audioBytesTotal counts audio bytes sent for recognition or received from synthesis.
	audioBytesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "audio_bytes_total",
			Help:      "Total audio bytes uploaded for recognition or downloaded from synthesis",
		},
		[]string{"provider", "direction"},
	)

	// synthesizedCharsTotal counts characters submitted for synthesis.
	synthesizedCharsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "synthesized_characters_total",
			Help:      "Total characters of text or SSML submitted for synthesis",
		},
		[]string{"provider"},
	)

	allMetrics = []prometheus.Collector{
		requestDuration,
		requestsTotal,
		upstreamStatusTotal,
		audioBytesTotal,
		synthesizedCharsTotal,
	}
)

// RecordRequest records one finished upstream call.
func RecordRequest(provider, operation, status string, durationSeconds float64) {
	requestDuration.WithLabelValues(provider, operation, status).Observe(durationSeconds)
	requestsTotal.WithLabelValues(provider, operation, status).Inc()
}

// RecordUpstreamError records a non-success HTTP status.
func RecordUpstreamError(provider, operation, code string) {
	upstreamStatusTotal.WithLabelValues(provider, operation, code).Inc()
}

// RecordAudioBytes adds n to the audio byte counter for the given direction.
func RecordAudioBytes(provider, direction string, n int) {
	if n <= 0 {
		return
	}
	audioBytesTotal.WithLabelValues(provider, direction).Add(float64(n))
}

// RecordSynthesizedChars adds n to the synthesized character counter.
func RecordSynthesizedChars(provider string, n int) {
	if n <= 0 {
		return
	}
	synthesizedCharsTotal.WithLabelValues(provider).Add(float64(n))
}
