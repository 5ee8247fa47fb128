package zenoh

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/a1045520/zenoh/propagation"
	"github.com/a1045520/zenoh/propagation/w3c"
)

// DefaultLocator is the rendezvous used in peer mode when no peer locator is
// configured.
const DefaultLocator = "redis://127.0.0.1:6379"

// DefaultQueryTimeout bounds how long a Get waits for eval replies.
const DefaultQueryTimeout = 5 * time.Second

var (
	// ErrInvalidConfig is returned by Open for unusable session properties.
	ErrInvalidConfig = errors.New("zenoh: invalid configuration")

	// ErrSessionClosed is returned by operations on a closed session.
	ErrSessionClosed = errors.New("zenoh: session closed")
)

// An Option function customises a sessions configuration
type Option func(*Session)

// WithLogger sets the sessions logger, zap.NewNop by default
func WithLogger(l *zap.Logger) Option {
	return Option(func(s *Session) {
		s.log = l
	})
}

// WithPropagator sets the sessions propagator, W3C trace context by default
func WithPropagator(p propagation.Propagator) Option {
	return Option(func(s *Session) {
		s.propagator = p
	})
}

// WithQueryTimeout sets how long gets wait on registered evals
func WithQueryTimeout(d time.Duration) Option {
	return Option(func(s *Session) {
		s.queryTimeout = d
	})
}

// WithClient makes the session use an existing Redis client instead of
// dialing the configured locator. The session takes ownership and closes it.
func WithClient(c *redis.Client) Option {
	return Option(func(s *Session) {
		s.rdb = c
	})
}

// A Session is a connection to the data sharing network. Sessions are safe
// for concurrent use and must be closed when no longer needed.
type Session struct {
	id           string
	props        Properties
	rdb          *redis.Client
	log          *zap.Logger
	propagator   propagation.Propagator
	queryTimeout time.Duration

	mu      sync.Mutex
	closed  bool
	closers []func() error
}

// Open validates the given properties, connects to the configured locator
// and returns a live session.
func Open(ctx context.Context, props Properties, opts ...Option) (*Session, error) {
	if props == nil {
		props = Properties{}
	}
	if err := props.validate(); err != nil {
		return nil, err
	}

	s := &Session{
		id:           uuid.New().String(),
		props:        props,
		log:          zap.NewNop(),
		propagator:   w3c.New(),
		queryTimeout: DefaultQueryTimeout,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.rdb == nil {
		locator := DefaultLocator
		if peers := props.Peers(); len(peers) > 0 {
			locator = peers[0]
		}

		ropts, err := parseLocator(locator)
		if err != nil {
			return nil, err
		}

		s.rdb = redis.NewClient(ropts)
	}

	if err := s.rdb.Ping(ctx).Err(); err != nil {
		s.rdb.Close()
		return nil, fmt.Errorf("open session: %w", err)
	}

	s.log.Info("session opened",
		zap.String("id", s.id),
		zap.String("mode", props.Mode()),
		zap.Strings("peers", props.Peers()),
	)

	return s, nil
}

// ID returns the session identifier, which also stamps the timestamps of
// every value this session publishes.
func (s *Session) ID() string { return s.id }

// Properties returns the configuration the session was opened with.
func (s *Session) Properties() Properties { return s.props }

// Close shuts down all streams and eval registrations issued from this
// session and releases the connection.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	closers := s.closers
	s.closers = nil
	s.mu.Unlock()

	var errs []error
	for _, close := range closers {
		if err := close(); err != nil {
			errs = append(errs, err)
		}
	}

	if err := s.rdb.Close(); err != nil {
		errs = append(errs, err)
	}

	s.log.Info("session closed", zap.String("id", s.id))

	return errors.Join(errs...)
}

// checkOpen returns ErrSessionClosed once Close has been called.
func (s *Session) checkOpen() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSessionClosed
	}

	return nil
}

// addCloser registers stream cleanup to run on session close. The returned
// func deregisters it again, for streams closed before the session. A stream
// racing session close registers too late for the close loop, so its cleanup
// runs here instead.
func (s *Session) addCloser(close func() error) (remove func()) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		close()
		return func() {}
	}

	s.closers = append(s.closers, close)
	i := len(s.closers) - 1
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if i < len(s.closers) {
			s.closers[i] = func() error { return nil }
		}
	}
}

// parseLocator turns a locator into Redis client options. Both redis:// URLs
// and zenoh style tcp/host:port locators are accepted.
func parseLocator(locator string) (*redis.Options, error) {
	if addr, ok := strings.CutPrefix(locator, "tcp/"); ok {
		return &redis.Options{Addr: addr}, nil
	}

	ropts, err := redis.ParseURL(locator)
	if err != nil {
		return nil, fmt.Errorf("%w: locator %q: %v", ErrInvalidConfig, locator, err)
	}

	return ropts, nil
}
