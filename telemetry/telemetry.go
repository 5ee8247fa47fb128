/*Package telemetry bootstraps OpenTelemetry tracing for binaries built on
the zenoh client: an OTLP span exporter, a batching tracer provider carrying
service identity, and a composite text map propagator.

	shutdown, err := telemetry.Init(ctx, "sensor")
	if err != nil {
		log.Fatal(err)
	}
	defer shutdown(ctx)

The exporter endpoint and headers come from the standard OTEL_EXPORTER_OTLP_*
environment variables; OTEL_EXPORTER_OTLP_PROTOCOL selects grpc (default) or
http/protobuf transport.
*/
package telemetry // import "github.com/a1045520/zenoh/telemetry"

import (
	"context"
	"fmt"
	"os"

	"go.opentelemetry.io/contrib/propagators/b3"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"

	"github.com/a1045520/zenoh"
)

// An Option function customises the tracer provider configuration
type Option func(*config)

type config struct {
	attributes []attribute.KeyValue
	sampler    sdktrace.Sampler
	exporter   sdktrace.SpanExporter
}

// WithAttributes adds resource attributes to the exported spans
func WithAttributes(attrs ...attribute.KeyValue) Option {
	return Option(func(c *config) {
		c.attributes = append(c.attributes, attrs...)
	})
}

// WithSampler overrides the sampler, AlwaysSample by default
func WithSampler(s sdktrace.Sampler) Option {
	return Option(func(c *config) {
		c.sampler = s
	})
}

// WithExporter overrides the OTLP exporter, mainly for tests
func WithExporter(e sdktrace.SpanExporter) Option {
	return Option(func(c *config) {
		c.exporter = e
	})
}

// Init sets up the global tracer provider and propagator. The returned
// shutdown func force flushes pending spans; call it before exit.
func Init(ctx context.Context, service string, opts ...Option) (func(context.Context) error, error) {
	c := &config{
		sampler: sdktrace.AlwaysSample(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.exporter == nil {
		exporter, err := newExporter(ctx)
		if err != nil {
			return nil, err
		}
		c.exporter = exporter
	}

	attributes := append([]attribute.KeyValue{
		semconv.ServiceNameKey.String(service),
		semconv.ServiceVersionKey.String(zenoh.Version),
	}, c.attributes...)

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(c.exporter),
		sdktrace.WithSampler(c.sampler),
		sdktrace.WithResource(resource.NewWithAttributes(semconv.SchemaURL, attributes...)),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
		b3.New(),
	))

	shutdown := func(ctx context.Context) error {
		if err := tp.ForceFlush(ctx); err != nil {
			return err
		}
		return tp.Shutdown(ctx)
	}

	return shutdown, nil
}

// newExporter builds the OTLP exporter selected by
// OTEL_EXPORTER_OTLP_PROTOCOL.
func newExporter(ctx context.Context) (sdktrace.SpanExporter, error) {
	protocol := os.Getenv("OTEL_EXPORTER_OTLP_PROTOCOL")
	if protocol == "" {
		protocol = "grpc"
	}

	switch protocol {
	case "grpc":
		return otlptracegrpc.New(ctx)
	case "http/protobuf", "http":
		return otlptracehttp.New(ctx)
	default:
		return nil, fmt.Errorf("telemetry: unsupported OTLP protocol %q", protocol)
	}
}
