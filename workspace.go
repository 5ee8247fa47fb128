package zenoh

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/a1045520/zenoh/propagation"
)

// A FormatChangeSpanNameFunc formats a span name from a received change
type FormatChangeSpanNameFunc func(Change) string

// A FormatGetRequestSpanNameFunc formats a span name from an eval get request
type FormatGetRequestSpanNameFunc func(*GetRequest) string

// A WorkspaceOption function customises a workspaces configuration
type WorkspaceOption func(*Workspace)

// WithChangeSpanName sets the workspaces change span name formatter. See
// DefaultChangeSpanName for the default format
func WithChangeSpanName(fn FormatChangeSpanNameFunc) WorkspaceOption {
	return WorkspaceOption(func(w *Workspace) {
		w.changeSpanName = fn
	})
}

// WithGetRequestSpanName sets the workspaces get request span name formatter.
// See DefaultGetRequestSpanName for the default format
func WithGetRequestSpanName(fn FormatGetRequestSpanNameFunc) WorkspaceOption {
	return WorkspaceOption(func(w *Workspace) {
		w.requestSpanName = fn
	})
}

// A Workspace issues data operations scoped to a session: Put, Delete, Get,
// Subscribe and RegisterEval. All operations propagate the span context found
// on the caller's context as message attributes.
type Workspace struct {
	session         *Session
	changeSpanName  FormatChangeSpanNameFunc
	requestSpanName FormatGetRequestSpanNameFunc
}

// Workspace returns a workspace scoped to the session.
func (s *Session) Workspace(opts ...WorkspaceOption) *Workspace {
	w := &Workspace{
		session:         s,
		changeSpanName:  DefaultChangeSpanName,
		requestSpanName: DefaultGetRequestSpanName,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Put stores the value at the path and notifies matching subscribers. The
// caller's span context travels on the change attributes.
func (w *Workspace) Put(ctx context.Context, path Path, value Value) error {
	if err := w.session.checkOpen(); err != nil {
		return err
	}

	env := w.newEnvelope(ctx, path, wirePut, value)
	b, err := env.encode()
	if err != nil {
		return err
	}

	pipe := w.session.rdb.TxPipeline()
	pipe.Set(ctx, dataPrefix+string(path), b, 0)
	pipe.Publish(ctx, chgPrefix+string(path), b)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("put %s: %w", path, err)
	}

	w.session.log.Debug("put",
		zap.String("path", string(path)),
		zap.String("encoding", value.Encoding()),
	)

	return nil
}

// Delete removes the value stored at the path and notifies matching
// subscribers with a delete change.
func (w *Workspace) Delete(ctx context.Context, path Path) error {
	if err := w.session.checkOpen(); err != nil {
		return err
	}

	env := w.newEnvelope(ctx, path, wireDelete, nil)
	b, err := env.encode()
	if err != nil {
		return err
	}

	pipe := w.session.rdb.TxPipeline()
	pipe.Del(ctx, dataPrefix+string(path))
	pipe.Publish(ctx, chgPrefix+string(path), b)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("delete %s: %w", path, err)
	}

	w.session.log.Debug("delete", zap.String("path", string(path)))

	return nil
}

// Get returns the stored values matching the selector plus one reply per
// registered eval the selector matches. Eval replies are waited on up to the
// session query timeout.
func (w *Workspace) Get(ctx context.Context, selector Selector) ([]Data, error) {
	if err := w.session.checkOpen(); err != nil {
		return nil, err
	}

	data, err := w.getStored(ctx, selector)
	if err != nil {
		return nil, err
	}

	replies, err := w.queryEvals(ctx, selector)
	if err != nil {
		return nil, err
	}

	return append(data, replies...), nil
}

// getStored scans the keyspace for values matching the selector. The Redis
// glob over-matches, so every candidate is confirmed client side.
func (w *Workspace) getStored(ctx context.Context, selector Selector) ([]Data, error) {
	var keys []string
	iter := w.session.rdb.Scan(ctx, 0, dataPrefix+selector.PathExpr().redisGlob(), 0).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		if selector.Matches(Path(strings.TrimPrefix(key, dataPrefix))) {
			keys = append(keys, key)
		}
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("get %s: %w", selector, err)
	}

	if len(keys) == 0 {
		return nil, nil
	}
	sort.Strings(keys)

	vals, err := w.session.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", selector, err)
	}

	var data []Data
	for _, v := range vals {
		// deleted between SCAN and MGET
		s, ok := v.(string)
		if !ok {
			continue
		}

		env, err := decodeEnvelope([]byte(s))
		if err != nil {
			w.session.log.Warn("skipping undecodable stored value", zap.Error(err))
			continue
		}

		value, err := env.value()
		if err != nil {
			w.session.log.Warn("skipping undecodable stored value",
				zap.String("path", env.Path), zap.Error(err))
			continue
		}

		data = append(data, Data{
			Path:      Path(env.Path),
			Value:     value,
			Timestamp: env.timestamp(),
		})
	}

	return data, nil
}

// queryEvals fans the selector out to every registered eval it matches.
func (w *Workspace) queryEvals(ctx context.Context, selector Selector) ([]Data, error) {
	paths, err := w.session.rdb.SMembers(ctx, evalSetKey).Result()
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", selector, err)
	}
	sort.Strings(paths)

	var data []Data
	for _, p := range paths {
		if !selector.Matches(Path(p)) {
			continue
		}

		replies, err := w.queryEval(ctx, selector, Path(p))
		if err != nil {
			return nil, err
		}
		data = append(data, replies...)
	}

	return data, nil
}

// queryEval publishes one query to the eval registered at path and collects
// as many replies as the publish reported receivers, bounded by the query
// timeout. Registrations nobody is listening on are pruned.
func (w *Workspace) queryEval(ctx context.Context, selector Selector, path Path) ([]Data, error) {
	replyTo := repPrefix + uuid.New().String()

	sub := w.session.rdb.Subscribe(ctx, replyTo)
	defer sub.Close()
	if _, err := sub.Receive(ctx); err != nil {
		return nil, fmt.Errorf("query %s: %w", path, err)
	}

	q := &query{
		Selector:   selector.String(),
		ReplyTo:    replyTo,
		Source:     w.session.id,
		Attributes: propagation.Attributes{},
	}
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		if w.session.propagator.SpanContextToAttributes(sc, q.Attributes) {
			q.Attributes[TraceSelector] = selector.String()
			q.Attributes[TraceSource] = w.session.id
		}
	}

	b, err := q.encode()
	if err != nil {
		return nil, err
	}

	receivers, err := w.session.rdb.Publish(ctx, qryPrefix+string(path), b).Result()
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", path, err)
	}
	if receivers == 0 {
		// the eval is gone, drop the stale registration
		w.session.rdb.SRem(ctx, evalSetKey, string(path))
		w.session.log.Debug("pruned stale eval registration", zap.String("path", string(path)))
		return nil, nil
	}

	timer := time.NewTimer(w.session.queryTimeout)
	defer timer.Stop()

	var data []Data
	msgs := sub.Channel()
	for int64(len(data)) < receivers {
		select {
		case <-ctx.Done():
			return data, ctx.Err()
		case <-timer.C:
			w.session.log.Warn("eval query timed out",
				zap.String("path", string(path)),
				zap.Int64("expected", receivers),
				zap.Int("received", len(data)),
			)
			return data, nil
		case msg, ok := <-msgs:
			if !ok {
				return data, nil
			}

			env, err := decodeEnvelope([]byte(msg.Payload))
			if err != nil {
				w.session.log.Warn("skipping undecodable eval reply", zap.Error(err))
				continue
			}
			value, err := env.value()
			if err != nil {
				w.session.log.Warn("skipping undecodable eval reply", zap.Error(err))
				continue
			}

			data = append(data, Data{
				Path:      Path(env.Path),
				Value:     value,
				Timestamp: env.timestamp(),
			})
		}
	}

	return data, nil
}

// newEnvelope builds a wire envelope stamped with this session, injecting
// the caller's span context into the attributes.
func (w *Workspace) newEnvelope(ctx context.Context, path Path, kind uint8, value Value) *envelope {
	attrs := propagation.Attributes{}
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		if w.session.propagator.SpanContextToAttributes(sc, attrs) {
			attrs[TracePath] = string(path)
			attrs[TraceSource] = w.session.id
		}
	}

	env := &envelope{
		Path:       string(path),
		Kind:       kind,
		Attributes: attrs,
		Time:       time.Now(),
		Source:     w.session.id,
	}
	if value != nil {
		env.Encoding = value.Encoding()
		env.Payload = value.Payload()
	}

	return env
}
