package b3 // import "github.com/a1045520/zenoh/propagation/b3"

import (
	"context"

	"github.com/a1045520/zenoh/propagation"
	contribb3 "go.opentelemetry.io/contrib/propagators/b3"
	otelpropagation "go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// Attribute keys written by this propagator when using multiple header
// encoding.
const (
	TraceIDKey     = "x-b3-traceid"
	SpanIDKey      = "x-b3-spanid"
	SpanSampledKey = "x-b3-sampled"
)

// An Option function customises a propagators configuration
type Option func(*Propagator)

// WithSingleHeader makes the propagator write the single b3 attribute rather
// than one attribute per field
func WithSingleHeader() Option {
	return Option(func(p *Propagator) {
		p.encoding = contribb3.B3SingleHeader
	})
}

// Propagator implements the Propagator interface using B3 style formatting to
// propagate span contexts on message attributes
type Propagator struct {
	encoding contribb3.Encoding
}

// New constructs a new B3 based propagator
func New(opts ...Option) *Propagator {
	p := &Propagator{
		encoding: contribb3.B3MultipleHeader,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// SpanContextToAttributes takes a trace.SpanContext and adds B3 attributes to
// the given attribute map
func (p *Propagator) SpanContextToAttributes(sc trace.SpanContext, attrs propagation.Attributes) bool {
	if !sc.IsValid() {
		return false
	}

	b3 := contribb3.New(contribb3.WithInjectEncoding(p.encoding))
	ctx := trace.ContextWithSpanContext(context.Background(), sc)
	b3.Inject(ctx, otelpropagation.MapCarrier(attrs))

	return len(attrs) > 0
}

// SpanContextFromAttributes returns a trace.SpanContext parsed from B3
// attributes
func (p *Propagator) SpanContextFromAttributes(attrs propagation.Attributes) (trace.SpanContext, bool) {
	b3 := contribb3.New()
	ctx := b3.Extract(context.Background(), otelpropagation.MapCarrier(attrs))
	sc := trace.SpanContextFromContext(ctx)

	return sc, sc.IsValid()
}
