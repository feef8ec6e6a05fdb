// Package observability provides optional OpenTelemetry trace export.
//
// The MCP dispatch layer records one span per tool call on the global
// tracer provider. By default that provider is the SDK no-op, so recording
// costs nothing. Setup swaps in a real provider that exports spans to an
// OTLP/HTTP collector (Jaeger, Grafana Tempo, the Datadog Agent, or any
// other OTLP receiver listening on the configured endpoint).
//
// # Configuration
//
// Environment variables:
//   - CLARA_OTEL_ENABLED: turn span export on (default: false)
//   - CLARA_OTEL_ENDPOINT: OTLP/HTTP collector address (default: localhost:4318)
//
// Telemetry is strictly best-effort: a missing or broken collector must
// never stop the server, so Setup degrades to a no-op instead of failing.
package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/BangRocket/mypalclara/internal/log"
)

// Config for OTLP trace export.
type Config struct {
	// Enabled turns span export on. When false the global no-op tracer
	// provider stays in place.
	Enabled bool
	// Endpoint is the OTLP/HTTP collector address (default: localhost:4318)
	Endpoint string
	// ServiceName tags exported spans.
	ServiceName string
	// Version tags exported spans.
	Version string
}

// DefaultEndpoint is the default OTLP HTTP collector address.
const DefaultEndpoint = "localhost:4318"

// Setup installs a tracer provider that exports spans to the configured
// OTLP collector. It returns a shutdown function that flushes pending
// spans.
//
// Serving never depends on telemetry: when disabled, or when the exporter
// cannot be built, Setup returns a no-op shutdown and a nil error.
func Setup(ctx context.Context, cfg Config, logger log.Logger) (func(context.Context) error, error) {
	noop := func(context.Context) error { return nil }

	if !cfg.Enabled {
		return noop, nil
	}

	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}

	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpoint(endpoint),
		otlptracehttp.WithInsecure(), // local collector, no TLS
	)
	if err != nil {
		logger.Warn("failed to create OTLP exporter, tracing disabled", "error", err)
		return noop, nil
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(sdktrace.NewBatchSpanProcessor(exporter)),
		sdktrace.WithResource(resource.NewSchemaless(
			attribute.String("service.name", cfg.ServiceName),
			attribute.String("service.version", cfg.Version),
		)),
	)
	otel.SetTracerProvider(provider)

	logger.Debug("trace export enabled",
		"endpoint", endpoint,
		"service", cfg.ServiceName,
	)

	return provider.Shutdown, nil
}
