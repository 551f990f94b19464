// Package telemetry installs the OpenTelemetry tracer provider that the
// evaluation spans are recorded on.
package telemetry

import (
	"context"
	"os"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

const (
	// EndpointEnv names the OTLP/HTTP endpoint used when no endpoint is passed.
	EndpointEnv = "BRANDCHECK_OTEL_ENDPOINT"
	// EnabledEnv set to "false" disables tracing even when an endpoint is known.
	EnabledEnv = "BRANDCHECK_OTEL_ENABLED"
)

// ShutdownFunc flushes pending spans and releases the exporter.
type ShutdownFunc func(context.Context) error

// Setup initialises tracing for serviceName, exporting spans over OTLP/HTTP
// to endpoint (falling back to $BRANDCHECK_OTEL_ENDPOINT).
//
// Tracing is opt-in: with no endpoint, or with BRANDCHECK_OTEL_ENABLED=false,
// Setup registers nothing and returns a no-op shutdown.
func Setup(ctx context.Context, serviceName, endpoint string) (ShutdownFunc, error) {
	noop := func(context.Context) error { return nil }

	if strings.EqualFold(os.Getenv(EnabledEnv), "false") {
		return noop, nil
	}
	if endpoint == "" {
		endpoint = os.Getenv(EndpointEnv)
	}
	if endpoint == "" {
		return noop, nil
	}

	exporter, err := otlptracehttp.New(ctx, otlptracehttp.WithEndpointURL(endpoint))
	if err != nil {
		return noop, err
	}
	tp, err := NewProvider(ctx, serviceName, sdktrace.WithBatcher(exporter))
	if err != nil {
		return noop, err
	}

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})
	return tp.Shutdown, nil
}

// NewProvider builds an always-sampling SDK provider tagged with serviceName.
// Exporters are attached through opts, e.g. sdktrace.WithSyncer.
func NewProvider(ctx context.Context, serviceName string, opts ...sdktrace.TracerProviderOption) (*sdktrace.TracerProvider, error) {
	res, err := resource.New(ctx, resource.WithAttributes(attribute.String("service.name", serviceName)))
	if err != nil {
		return nil, err
	}
	opts = append([]sdktrace.TracerProviderOption{
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	}, opts...)
	return sdktrace.NewTracerProvider(opts...), nil
}
