// Package coalesce provides a request-coalescing TTL cache for slow
// operations such as subprocess invocations and filesystem reads.
//
// A Group guarantees at most one in-flight execution per key: every
// caller that asks for a key while its computation is running joins the
// flight and receives the identical result. Successful results are
// cached with a caller-supplied TTL; failures are never cached, so the
// next caller retries the underlying operation.
//
// This is a Tier 1 (Leaf) package: it imports only stdlib, zerolog and
// uuid, and knows nothing about repositories or git.
package coalesce

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// KeySeparator joins key parts unambiguously. NUL cannot appear in any
// of the strings a key is built from (paths, ref names, hashes).
const KeySeparator = "\x00"

// Key builds a cache key from ordered parts.
func Key(parts ...string) string {
	return strings.Join(parts, KeySeparator)
}

// KeyPart extracts the i-th part of a key built with Key, or "" when
// the key has fewer parts.
func KeyPart(key string, i int) string {
	parts := strings.Split(key, KeySeparator)
	if i < 0 || i >= len(parts) {
		return ""
	}
	return parts[i]
}

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// flight is a single execution of the wrapped operation. Waiters block
// on done; value and err are written exactly once before done closes.
type flight[V any] struct {
	id    string
	done  chan struct{}
	value V
	err   error
}

// Group is a request-coalescing TTL cache for values of type V.
// The zero value is not usable; create Groups with NewGroup.
type Group[V any] struct {
	mu      sync.Mutex
	now     func() time.Time
	log     zerolog.Logger
	entries map[string]*entry[V]
	flights map[string]*flight[V]
}

// Option configures a Group.
type Option func(*options)

type options struct {
	now func() time.Time
	log zerolog.Logger
}

// WithClock overrides the time source. Tests use this to control
// expiry deterministically.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithLogger sets the logger used for debug events. Defaults to a
// no-op logger.
func WithLogger(log zerolog.Logger) Option {
	return func(o *options) { o.log = log }
}

// NewGroup creates an empty Group.
func NewGroup[V any](opts ...Option) *Group[V] {
	o := options{
		now: time.Now,
		log: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return &Group[V]{
		now:     o.now,
		log:     o.log,
		entries: make(map[string]*entry[V]),
		flights: make(map[string]*flight[V]),
	}
}

// Do returns the cached value for key, or executes fn to produce it.
//
// If a live cached value exists it is returned immediately. If a
// flight for key is already running, the caller joins it and receives
// that flight's result. Otherwise a new flight is started and fn runs
// exactly once; a successful value is cached until ttl elapses.
//
// The flight runs detached from the caller's context: if ctx ends
// while waiting, Do returns ctx.Err() but the flight completes and
// serves the remaining waiters. Errors from fn are returned to every
// waiter and never cached.
func (g *Group[V]) Do(ctx context.Context, key string, ttl time.Duration, fn func(context.Context) (V, error)) (V, error) {
	g.mu.Lock()
	if e, ok := g.entries[key]; ok {
		if g.now().Before(e.expiresAt) {
			v := e.value
			g.mu.Unlock()
			return v, nil
		}
		// Expired entries are reclaimed lazily, here.
		delete(g.entries, key)
	}
	if f, ok := g.flights[key]; ok {
		g.mu.Unlock()
		return g.wait(ctx, f)
	}
	f := &flight[V]{
		id:   uuid.NewString(),
		done: make(chan struct{}),
	}
	g.flights[key] = f
	g.mu.Unlock()

	g.log.Debug().Str("flight", f.id).Str("key", key).Msg("coalesce: starting flight")
	go g.run(context.WithoutCancel(ctx), key, ttl, f, fn)
	return g.wait(ctx, f)
}

func (g *Group[V]) run(ctx context.Context, key string, ttl time.Duration, f *flight[V], fn func(context.Context) (V, error)) {
	start := g.now()
	f.value, f.err = fn(ctx)

	g.mu.Lock()
	if f.err == nil {
		g.entries[key] = &entry[V]{value: f.value, expiresAt: g.now().Add(ttl)}
	}
	delete(g.flights, key)
	g.mu.Unlock()
	close(f.done)

	g.log.Debug().
		Str("flight", f.id).
		Str("key", key).
		Dur("took", g.now().Sub(start)).
		Bool("cached", f.err == nil).
		Err(f.err).
		Msg("coalesce: flight finished")
}

func (g *Group[V]) wait(ctx context.Context, f *flight[V]) (V, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero V
		return zero, ctx.Err()
	}
}

// Forget drops the cached entry for key, if any. An in-flight
// computation is unaffected: its waiters still receive its result.
func (g *Group[V]) Forget(key string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.entries, key)
}

// ForgetFunc drops every cached entry whose key matches.
func (g *Group[V]) ForgetFunc(match func(key string) bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for k := range g.entries {
		if match(k) {
			delete(g.entries, k)
		}
	}
}

// Len reports the number of cached entries, expired or not.
func (g *Group[V]) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.entries)
}
