package w3c // import "github.com/a1045520/zenoh/propagation/w3c"

import (
	"context"

	"github.com/a1045520/zenoh/propagation"
	otelpropagation "go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// Attribute keys written by this propagator, the W3C Trace Context header
// names.
const (
	TraceParentKey = "traceparent"
	TraceStateKey  = "tracestate"
)

// Propagator implements the Propagator interface using the W3C Trace Context
// format to propagate span contexts on message attributes. This is the
// default propagator for workspaces.
type Propagator struct {
	tc otelpropagation.TraceContext
}

// New constructs a new W3C trace context based propagator
func New() *Propagator {
	return &Propagator{}
}

// SpanContextToAttributes writes traceparent/tracestate attributes for the
// given span context
func (p *Propagator) SpanContextToAttributes(sc trace.SpanContext, attrs propagation.Attributes) bool {
	if !sc.IsValid() {
		return false
	}

	ctx := trace.ContextWithSpanContext(context.Background(), sc)
	p.tc.Inject(ctx, otelpropagation.MapCarrier(attrs))

	_, ok := attrs[TraceParentKey]
	return ok
}

// SpanContextFromAttributes returns a remote span context parsed from
// traceparent/tracestate attributes
func (p *Propagator) SpanContextFromAttributes(attrs propagation.Attributes) (trace.SpanContext, bool) {
	ctx := p.tc.Extract(context.Background(), otelpropagation.MapCarrier(attrs))
	sc := trace.SpanContextFromContext(ctx)

	return sc, sc.IsValid()
}
