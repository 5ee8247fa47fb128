package propagationtest

import (
	"github.com/a1045520/zenoh/propagation"
	"go.opentelemetry.io/otel/trace"
)

// TestPropagator is a test propagator
type TestPropagator struct {
	SpanContextToAttributesFunc   func(sc trace.SpanContext, attrs propagation.Attributes) bool
	SpanContextFromAttributesFunc func(attrs propagation.Attributes) (trace.SpanContext, bool)
}

// SpanContextToAttributes adds message attributes from a span
func (t *TestPropagator) SpanContextToAttributes(sc trace.SpanContext, attrs propagation.Attributes) bool {
	if t.SpanContextToAttributesFunc != nil {
		return t.SpanContextToAttributesFunc(sc, attrs)
	}

	return false
}

// SpanContextFromAttributes returns a span context from message attributes
func (t *TestPropagator) SpanContextFromAttributes(attrs propagation.Attributes) (trace.SpanContext, bool) {
	if t.SpanContextFromAttributesFunc != nil {
		return t.SpanContextFromAttributesFunc(attrs)
	}

	return trace.SpanContext{}, false
}
