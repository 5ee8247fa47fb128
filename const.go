package zenoh // import "github.com/a1045520/zenoh"

// Extra attribute keys placed onto message attributes unrelated to Span Context
const (
	TracePath     = "Zenoh-Trace-Path"
	TraceSelector = "Zenoh-Trace-Selector"
	TraceSource   = "Zenoh-Trace-Source"
)
