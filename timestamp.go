package zenoh

import "time"

// A Timestamp orders changes across sessions: wall clock time plus the id of
// the originating session as a tie break. This is not the engine's HLC, but
// it is a total order, which is all the client surface needs.
type Timestamp struct {
	Time   time.Time
	Source string
}

func (t Timestamp) String() string {
	return t.Time.UTC().Format(time.RFC3339Nano) + "/" + t.Source
}

// Before reports whether t orders strictly before o.
func (t Timestamp) Before(o Timestamp) bool {
	if t.Time.Equal(o.Time) {
		return t.Source < o.Source
	}

	return t.Time.Before(o.Time)
}
