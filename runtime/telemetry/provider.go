// Package telemetry provides OpenTelemetry integration for the speech adapters:
// TracerProvider construction, propagation setup and per-call spans.
package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"

	"github.com/lostredb/yandex-ai/runtime/version"
)

// InstrumentationName is the OTel instrumentation scope name.
const InstrumentationName = "github.com/lostredb/yandex-ai"

// Span attribute keys.
const (
	AttrProvider   = attribute.Key("speech.provider")
	AttrModel      = attribute.Key("speech.model")
	AttrOperation  = attribute.Key("speech.operation")
	AttrRequestID  = attribute.Key("speech.request_id")
	AttrAudioBytes = attribute.Key("speech.audio_bytes")
	AttrStatusCode = attribute.Key("http.response.status_code")
)

// Tracer returns a named tracer from the given TracerProvider.
// If tp is nil the global provider is used.
func Tracer(tp trace.TracerProvider) trace.Tracer {
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	return tp.Tracer(InstrumentationName, trace.WithInstrumentationVersion(version.GetVersion()))
}

// NewTracerProvider creates a TracerProvider that exports spans via OTLP/HTTP.
// The caller is responsible for calling Shutdown on the returned provider.
func NewTracerProvider(ctx context.Context, endpoint, serviceName string) (*sdktrace.TracerProvider, error) {
	exporter, err := otlptracehttp.New(ctx, otlptracehttp.WithEndpointURL(endpoint))
	if err != nil {
		return nil, err
	}

	res, err := resource.Merge(
		resource.Default(),
		resource.NewSchemaless(
			attribute.String("service.name", serviceName),
		),
	)
	if err != nil {
		return nil, err
	}

	return sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	), nil
}

// SetupPropagation installs W3C TraceContext and Baggage as the global propagator.
func SetupPropagation() {
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
}

// StartSpeechSpan starts a client span named "<provider> <operation>".
func StartSpeechSpan(
	ctx context.Context, tp trace.TracerProvider, provider, model, operation string, attrs ...attribute.KeyValue,
) (context.Context, trace.Span) {
	all := make([]attribute.KeyValue, 0, 3+len(attrs))
	all = append(all,
		AttrProvider.String(provider),
		AttrModel.String(model),
		AttrOperation.String(operation),
	)
	all = append(all, attrs...)

	return Tracer(tp).Start(ctx, provider+" "+operation,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(all...),
	)
}

// EndSpan records err (if any) and ends the span.
func EndSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
