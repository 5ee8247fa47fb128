package zenoh

import "github.com/a1045520/zenoh/propagation"

// ChangeKind says what happened to a path.
type ChangeKind uint8

const (
	ChangeKindPut ChangeKind = iota
	ChangeKindDelete
)

func (k ChangeKind) String() string {
	switch k {
	case ChangeKindPut:
		return "PUT"
	case ChangeKindDelete:
		return "DELETE"
	default:
		return "UNKNOWN"
	}
}

// A Change is delivered to subscribers whenever a matching path is written
// or deleted. Attributes carry the publisher's trace context; use
// Workspace.StartSpanFromChange to continue the trace.
type Change struct {
	Kind       ChangeKind
	Path       Path
	Value      Value
	Timestamp  Timestamp
	Attributes propagation.Attributes
}

// A Data item is one result of a Get: a stored value or an eval reply.
type Data struct {
	Path      Path
	Value     Value
	Timestamp Timestamp
}
