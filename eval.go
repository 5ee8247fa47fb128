package zenoh

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/a1045520/zenoh/propagation"
)

// A GetRequest is one query received by a registered eval. The selector
// carries any properties the getter supplied; Attributes carry the getter's
// trace context. Answer with Reply.
type GetRequest struct {
	Selector   Selector
	Attributes propagation.Attributes

	replyTo string
	ws      *Workspace
}

// Reply sends one value back to the getter. The replying span context is
// attached to the reply attributes.
func (g *GetRequest) Reply(ctx context.Context, path Path, value Value) error {
	env := g.ws.newEnvelope(ctx, path, wireReply, value)
	b, err := env.encode()
	if err != nil {
		return err
	}

	if err := g.ws.session.rdb.Publish(ctx, g.replyTo, b).Err(); err != nil {
		return fmt.Errorf("reply %s: %w", path, err)
	}

	return nil
}

// A GetRequestStream delivers the queries addressed to a registered eval
// until closed.
type GetRequestStream struct {
	path   Path
	ps     *redis.PubSub
	ch     chan *GetRequest
	done   chan struct{}
	once   sync.Once
	remove func()
	ws     *Workspace
}

// RegisterEval registers this workspace as the computation behind the given
// path. Gets whose selector matches the path produce a GetRequest on the
// returned stream; each should be answered with Reply.
func (w *Workspace) RegisterEval(ctx context.Context, path Path) (*GetRequestStream, error) {
	if err := w.session.checkOpen(); err != nil {
		return nil, err
	}

	if err := w.session.rdb.SAdd(ctx, evalSetKey, string(path)).Err(); err != nil {
		return nil, fmt.Errorf("register eval %s: %w", path, err)
	}

	ps := w.session.rdb.Subscribe(ctx, qryPrefix+string(path))
	if _, err := ps.Receive(ctx); err != nil {
		ps.Close()
		w.session.rdb.SRem(context.Background(), evalSetKey, string(path))
		return nil, fmt.Errorf("register eval %s: %w", path, err)
	}

	st := &GetRequestStream{
		path: path,
		ps:   ps,
		ch:   make(chan *GetRequest, 16),
		done: make(chan struct{}),
		ws:   w,
	}
	st.remove = w.session.addCloser(st.Close)

	go st.run(ctx, ps.Channel())

	w.session.log.Debug("registered eval", zap.String("path", string(path)))

	return st, nil
}

// ServeEval registers an eval at the path and answers every request with the
// handler until ctx is cancelled or the session closes. Handler errors are
// logged, not fatal.
func (w *Workspace) ServeEval(ctx context.Context, path Path, fn func(context.Context, *GetRequest) error) error {
	st, err := w.RegisterEval(ctx, path)
	if err != nil {
		return err
	}
	defer st.Close()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case req, ok := <-st.C():
			if !ok {
				return nil
			}
			if err := fn(ctx, req); err != nil {
				w.session.log.Warn("eval handler error",
					zap.String("path", string(path)),
					zap.String("selector", req.Selector.String()),
					zap.Error(err),
				)
			}
		}
	}
}

// C returns the channel get requests arrive on.
func (st *GetRequestStream) C() <-chan *GetRequest { return st.ch }

// Path returns the path the eval is registered at.
func (st *GetRequestStream) Path() Path { return st.path }

// Close unregisters the eval and stops delivery. Safe to call more than
// once.
func (st *GetRequestStream) Close() error {
	var err error
	st.once.Do(func() {
		close(st.done)
		st.remove()

		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		err = st.ws.session.rdb.SRem(ctx, evalSetKey, string(st.path)).Err()

		if cerr := st.ps.Close(); err == nil {
			err = cerr
		}
	})

	return err
}

func (st *GetRequestStream) run(ctx context.Context, msgs <-chan *redis.Message) {
	defer close(st.ch)
	// every exit path unregisters, ctx cancellation included
	defer st.Close()

	log := st.ws.session.log
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

			q, err := decodeQuery([]byte(msg.Payload))
			if err != nil {
				log.Warn("dropping undecodable query", zap.Error(err))
				continue
			}

			sel, err := NewSelector(q.Selector)
			if err != nil {
				log.Warn("dropping query with bad selector",
					zap.String("selector", q.Selector), zap.Error(err))
				continue
			}

			req := &GetRequest{
				Selector:   sel,
				Attributes: q.Attributes,
				replyTo:    q.ReplyTo,
				ws:         st.ws,
			}

			select {
			case st.ch <- req:
			case <-st.done:
				return
			case <-ctx.Done():
				return
			}
		}
	}
}
