package propagation // import "github.com/a1045520/zenoh/propagation"

import "go.opentelemetry.io/otel/trace"

// Attributes is the flat key value carrier attached to every published value
// and every eval query, alongside the payload.
type Attributes map[string]string

// A Propagator propagates span context to and from message attributes.
// SpanContextToAttributes reports whether any context was written (an
// invalid span context writes nothing); SpanContextFromAttributes reports
// whether a valid remote context was found.
type Propagator interface {
	SpanContextToAttributes(sc trace.SpanContext, attrs Attributes) bool
	SpanContextFromAttributes(attrs Attributes) (trace.SpanContext, bool)
}
