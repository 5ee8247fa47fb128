package zenohtest

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"

	"github.com/a1045520/zenoh"
)

// NewSession starts an in-memory Redis and opens a session against it. Both
// are torn down when the test finishes.
func NewSession(t *testing.T, opts ...zenoh.Option) (*zenoh.Session, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)

	props := zenoh.Properties{
		zenoh.KeyMode: zenoh.ModeClient,
		zenoh.KeyPeer: "tcp/" + mr.Addr(),
	}

	session, err := zenoh.Open(context.Background(), props, opts...)
	if err != nil {
		t.Fatalf("open session: %v", err)
	}
	t.Cleanup(func() { session.Close() })

	return session, mr
}
