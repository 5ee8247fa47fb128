/*Package zenohtest provides helpers for testing code built on the zenoh
client: deterministic trace and span ids, an in-process recording tracer
provider, and a session backed by an in-memory Redis.
*/
package zenohtest // import "github.com/a1045520/zenoh/zenohtest"

import (
	"context"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

// Consistent IDs for testing
var (
	DefaultTraceID = trace.TraceID{97, 98, 99, 100, 101, 102, 103, 104, 105, 103, 107, 108, 109, 110, 111, 113}
	DefaultSpanID  = trace.SpanID{97, 98, 99, 100, 101, 102, 103, 104}
)

// NewIDGenerator constructs a new trace ID generator for testing so we can
// assert on consistent trace ids
func NewIDGenerator() *IDGenerator {
	return &IDGenerator{
		TraceID: DefaultTraceID,
		SpanID:  DefaultSpanID,
	}
}

// IDGenerator implements the sdktrace.IDGenerator interface returning fixed
// ids
type IDGenerator struct {
	TraceID trace.TraceID
	SpanID  trace.SpanID
}

// NewIDs returns the fixed trace and span id
func (g *IDGenerator) NewIDs(ctx context.Context) (trace.TraceID, trace.SpanID) {
	return g.TraceID, g.SpanID
}

// NewSpanID returns the fixed span id
func (g *IDGenerator) NewSpanID(ctx context.Context, traceID trace.TraceID) trace.SpanID {
	return g.SpanID
}

// NewTracerProvider returns a tracer provider that records spans in memory
// and issues the deterministic test ids. Inspect recorded spans with the
// returned recorder.
func NewTracerProvider() (*sdktrace.TracerProvider, *tracetest.SpanRecorder) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(sr),
		sdktrace.WithIDGenerator(NewIDGenerator()),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)

	return tp, sr
}
