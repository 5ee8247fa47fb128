package zenoh

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// A ChangeStream delivers changes matching a selector until closed. Changes
// arrive on C; the channel closes when the stream does.
type ChangeStream struct {
	selector Selector
	ps       *redis.PubSub
	ch       chan Change
	done     chan struct{}
	once     sync.Once
	remove   func()
	log      *zap.Logger
}

// Subscribe registers interest in the selector and returns a live change
// stream. The stream also shuts down when ctx is cancelled or the session is
// closed.
func (w *Workspace) Subscribe(ctx context.Context, selector Selector) (*ChangeStream, error) {
	if err := w.session.checkOpen(); err != nil {
		return nil, err
	}

	ps := w.session.rdb.PSubscribe(ctx, chgPrefix+selector.PathExpr().redisGlob())
	if _, err := ps.Receive(ctx); err != nil {
		ps.Close()
		return nil, fmt.Errorf("subscribe %s: %w", selector, err)
	}

	st := &ChangeStream{
		selector: selector,
		ps:       ps,
		ch:       make(chan Change, 16),
		done:     make(chan struct{}),
		log:      w.session.log,
	}
	st.remove = w.session.addCloser(st.Close)

	go st.run(ctx, ps.Channel())

	w.session.log.Debug("subscribed", zap.String("selector", selector.String()))

	return st, nil
}

// C returns the channel changes arrive on.
func (st *ChangeStream) C() <-chan Change { return st.ch }

// Close stops delivery and releases the subscription. Safe to call more than
// once.
func (st *ChangeStream) Close() error {
	var err error
	st.once.Do(func() {
		close(st.done)
		st.remove()
		err = st.ps.Close()
	})

	return err
}

func (st *ChangeStream) run(ctx context.Context, msgs <-chan *redis.Message) {
	defer close(st.ch)
	// every exit path releases the subscription, ctx cancellation included
	defer st.Close()

	for {
		select {
		case <-st.done:
			return
		case <-ctx.Done():
			return
		case msg, ok := <-msgs:
			if !ok {
				return
			}

			env, err := decodeEnvelope([]byte(msg.Payload))
			if err != nil {
				st.log.Warn("dropping undecodable change", zap.Error(err))
				continue
			}

			// the Redis pattern over-matches, confirm here
			path := Path(env.Path)
			if !st.selector.Matches(path) {
				continue
			}

			value, err := env.value()
			if err != nil {
				st.log.Warn("dropping undecodable change",
					zap.String("path", env.Path), zap.Error(err))
				continue
			}

			kind := ChangeKindPut
			if env.Kind == wireDelete {
				kind = ChangeKindDelete
			}

			change := Change{
				Kind:       kind,
				Path:       path,
				Value:      value,
				Timestamp:  env.timestamp(),
				Attributes: env.Attributes,
			}

			select {
			case st.ch <- change:
			case <-st.done:
				return
			case <-ctx.Done():
				return
			}
		}
	}
}
