package zenoh

import (
	"fmt"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/a1045520/zenoh/propagation"
)

// Redis key and channel namespaces. Stored values live under dataPrefix,
// change notifications travel on chgPrefix channels, eval queries on
// qryPrefix channels and replies on repPrefix channels. evalSetKey indexes
// the paths with a registered eval.
const (
	dataPrefix = "zenoh:data:"
	chgPrefix  = "zenoh:chg:"
	qryPrefix  = "zenoh:qry:"
	repPrefix  = "zenoh:rep:"
	evalSetKey = "zenoh:evals"
)

// envelope kinds on the wire.
const (
	wirePut uint8 = iota
	wireDelete
	wireReply
)

// envelope is the wire format for stored values, change notifications and
// eval replies. Trace context rides in Attributes, never in the payload.
type envelope struct {
	Path       string                 `msgpack:"path"`
	Kind       uint8                  `msgpack:"kind"`
	Encoding   string                 `msgpack:"encoding,omitempty"`
	Payload    []byte                 `msgpack:"payload,omitempty"`
	Attributes propagation.Attributes `msgpack:"attributes,omitempty"`
	Time       time.Time              `msgpack:"time"`
	Source     string                 `msgpack:"source"`
}

func (e *envelope) encode() ([]byte, error) {
	b, err := msgpack.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("encode envelope: %w", err)
	}

	return b, nil
}

func decodeEnvelope(b []byte) (*envelope, error) {
	var e envelope
	if err := msgpack.Unmarshal(b, &e); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}

	return &e, nil
}

// timestamp returns the envelope's ordering timestamp.
func (e *envelope) timestamp() Timestamp {
	return Timestamp{Time: e.Time, Source: e.Source}
}

// value decodes the envelope payload into a typed Value. Delete envelopes
// carry no value.
func (e *envelope) value() (Value, error) {
	if e.Kind == wireDelete {
		return nil, nil
	}

	return DecodeValue(e.Encoding, e.Payload)
}

// query is the wire format for an eval get request.
type query struct {
	Selector   string                 `msgpack:"selector"`
	ReplyTo    string                 `msgpack:"reply_to"`
	Attributes propagation.Attributes `msgpack:"attributes,omitempty"`
	Source     string                 `msgpack:"source"`
}

func (q *query) encode() ([]byte, error) {
	b, err := msgpack.Marshal(q)
	if err != nil {
		return nil, fmt.Errorf("encode query: %w", err)
	}

	return b, nil
}

func decodeQuery(b []byte) (*query, error) {
	var q query
	if err := msgpack.Unmarshal(b, &q); err != nil {
		return nil, fmt.Errorf("decode query: %w", err)
	}

	return &q, nil
}
