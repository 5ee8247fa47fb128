package zenoh

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
	"go.opentelemetry.io/otel/trace"
)

// tracerName is the instrumentation scope for spans started by this package.
const tracerName = "github.com/a1045520/zenoh"

// StartSpanFromChange starts a consumer span for a received change, parented
// on the remote span context carried in the change attributes when present,
// a fresh root span otherwise.
func (w *Workspace) StartSpanFromChange(ctx context.Context, c Change, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	if ctx == nil {
		ctx = context.Background()
	}

	if sc, ok := w.session.propagator.SpanContextFromAttributes(c.Attributes); ok {
		ctx = trace.ContextWithRemoteSpanContext(ctx, sc)
	}

	opts = append([]trace.SpanStartOption{
		trace.WithSpanKind(trace.SpanKindConsumer),
		trace.WithAttributes(
			semconv.MessagingSystemKey.String("zenoh"),
			semconv.MessagingOperationKey.String("receive"),
			semconv.MessagingDestinationKey.String(string(c.Path)),
		),
	}, opts...)

	return otel.Tracer(tracerName).Start(ctx, w.changeSpanName(c), opts...)
}

// StartSpanFromGetRequest starts a server span for an eval get request,
// parented on the getter's span context when present.
func (w *Workspace) StartSpanFromGetRequest(ctx context.Context, g *GetRequest, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	if ctx == nil {
		ctx = context.Background()
	}

	if sc, ok := w.session.propagator.SpanContextFromAttributes(g.Attributes); ok {
		ctx = trace.ContextWithRemoteSpanContext(ctx, sc)
	}

	opts = append([]trace.SpanStartOption{
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(
			semconv.MessagingSystemKey.String("zenoh"),
			semconv.MessagingOperationKey.String("process"),
			semconv.MessagingDestinationKey.String(g.Selector.String()),
		),
	}, opts...)

	return otel.Tracer(tracerName).Start(ctx, w.requestSpanName(g), opts...)
}

// DefaultChangeSpanName formats a span name according to the given change.
// Examples:
// - Put: zenoh.Change/PUT/demo/example/hello
// - Delete: zenoh.Change/DELETE/demo/example/hello
func DefaultChangeSpanName(c Change) string {
	return fmt.Sprintf("zenoh.Change/%s%s", c.Kind, c.Path)
}

// DefaultGetRequestSpanName formats a span name according to the given get
// request, e.g. zenoh.GetRequest//demo/example/eval.
func DefaultGetRequestSpanName(g *GetRequest) string {
	return "zenoh.GetRequest/" + g.Selector.PathExpr().String()
}
