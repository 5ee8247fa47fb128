package b3

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"

	"github.com/a1045520/zenoh/propagation"
)

var (
	testTraceID = trace.TraceID{0x61, 0x62, 0x63, 0x64, 0x65, 0x66, 0x67, 0x68, 0x69, 0x67, 0x6B, 0x6C, 0x6D, 0x6E, 0x6F, 0x71}
	testSpanID  = trace.SpanID{0x61, 0x62, 0x63, 0x64, 0x65, 0x66, 0x67, 0x68}
)

func TestSpanContextToAttributes(t *testing.T) {
	type TestCase struct {
		tName    string
		opts     []Option
		sc       trace.SpanContext
		expected propagation.Attributes
		ok       bool
	}
	tt := []TestCase{
		{
			tName:    "invalid span context",
			sc:       trace.SpanContext{},
			expected: propagation.Attributes{},
		},
		{
			tName: "not sampled",
			sc: trace.NewSpanContext(trace.SpanContextConfig{
				TraceID: testTraceID,
				SpanID:  testSpanID,
			}),
			expected: propagation.Attributes{
				TraceIDKey:     testTraceID.String(),
				SpanIDKey:      testSpanID.String(),
				SpanSampledKey: "0",
			},
			ok: true,
		},
		{
			tName: "sampled",
			sc: trace.NewSpanContext(trace.SpanContextConfig{
				TraceID:    testTraceID,
				SpanID:     testSpanID,
				TraceFlags: trace.FlagsSampled,
			}),
			expected: propagation.Attributes{
				TraceIDKey:     testTraceID.String(),
				SpanIDKey:      testSpanID.String(),
				SpanSampledKey: "1",
			},
			ok: true,
		},
		{
			tName: "single header",
			opts:  []Option{WithSingleHeader()},
			sc: trace.NewSpanContext(trace.SpanContextConfig{
				TraceID:    testTraceID,
				SpanID:     testSpanID,
				TraceFlags: trace.FlagsSampled,
			}),
			expected: propagation.Attributes{
				"b3": testTraceID.String() + "-" + testSpanID.String() + "-1",
			},
			ok: true,
		},
	}
	for _, tc := range tt {
		tc := tc
		t.Run(tc.tName, func(t *testing.T) {
			t.Parallel()

			attrs := propagation.Attributes{}
			ok := New(tc.opts...).SpanContextToAttributes(tc.sc, attrs)

			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.expected, attrs)
		})
	}
}

func TestSpanContextFromAttributes(t *testing.T) {
	type TestCase struct {
		tName string
		attrs propagation.Attributes
		sc    trace.SpanContext
		ok    bool
	}
	tt := []TestCase{
		{
			tName: "empty attributes",
			attrs: propagation.Attributes{},
		},
		{
			tName: "malformed trace id",
			attrs: propagation.Attributes{
				TraceIDKey: "not-a-trace-id",
				SpanIDKey:  testSpanID.String(),
			},
		},
		{
			tName: "multiple headers",
			attrs: propagation.Attributes{
				TraceIDKey:     testTraceID.String(),
				SpanIDKey:      testSpanID.String(),
				SpanSampledKey: "1",
			},
			sc: trace.NewSpanContext(trace.SpanContextConfig{
				TraceID:    testTraceID,
				SpanID:     testSpanID,
				TraceFlags: trace.FlagsSampled,
				Remote:     true,
			}),
			ok: true,
		},
		{
			tName: "single header",
			attrs: propagation.Attributes{
				"b3": testTraceID.String() + "-" + testSpanID.String() + "-1",
			},
			sc: trace.NewSpanContext(trace.SpanContextConfig{
				TraceID:    testTraceID,
				SpanID:     testSpanID,
				TraceFlags: trace.FlagsSampled,
				Remote:     true,
			}),
			ok: true,
		},
	}
	for _, tc := range tt {
		tc := tc
		t.Run(tc.tName, func(t *testing.T) {
			t.Parallel()

			sc, ok := New().SpanContextFromAttributes(tc.attrs)

			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.sc, sc)
		})
	}
}

func TestRoundTrip(t *testing.T) {
	in := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    testTraceID,
		SpanID:     testSpanID,
		TraceFlags: trace.FlagsSampled,
	})

	attrs := propagation.Attributes{}
	require.True(t, New().SpanContextToAttributes(in, attrs))

	out, ok := New().SpanContextFromAttributes(attrs)
	require.True(t, ok)

	assert.Equal(t, in.TraceID(), out.TraceID())
	assert.Equal(t, in.SpanID(), out.SpanID())
	assert.True(t, out.IsRemote())
}
