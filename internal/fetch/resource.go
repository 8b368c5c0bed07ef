// Package fetch runs asynchronous loads keyed by a comparable value and
// exposes their progress as Idle, Loading, Success or Failure states.
package fetch

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

// DefaultFallback is reported when a failure carries no message
const DefaultFallback = "An error occurred"

// errNoMessage stands in for panics whose value is not an error
var errNoMessage = errors.New("")

// State is a snapshot of a resource. Idle is the zero value.
type State[T any] struct {
	Payload T
	Loading bool
	Err     string
}

// Failed reports whether the last load ended with an error
func (s State[T]) Failed() bool {
	return s.Err != ""
}

// Fetcher loads the payload for a key
type Fetcher[K comparable, T any] func(ctx context.Context, key K) (T, error)

type options struct {
	fallback       string
	initialLoading bool
	logger         *logrus.Logger
}

// Option configures a Resource
type Option func(*options)

// WithFallback sets the message used when a failure carries none
func WithFallback(msg string) Option {
	return func(o *options) { o.fallback = msg }
}

// WithInitialLoading starts the resource in Loading instead of Idle
func WithInitialLoading() Option {
	return func(o *options) { o.initialLoading = true }
}

// WithLogger sets the logger for panics and discarded results
func WithLogger(logger *logrus.Logger) Option {
	return func(o *options) { o.logger = logger }
}

type subscription[T any] struct {
	fn     func(State[T])
	active atomic.Bool
}

// Resource tracks the load of the most recently requested key. Results of
// superseded requests are dropped, so the last request wins regardless of
// the order responses arrive in.
type Resource[K comparable, T any] struct {
	fetcher  Fetcher[K, T]
	fallback string
	logger   *logrus.Logger

	mu      sync.Mutex // serializes transitions and their notifications
	key     K
	keyed   bool
	gen     uint64
	cancel  context.CancelFunc
	changed chan struct{} // closed on every transition

	subMu sync.Mutex
	subs  []*subscription[T]

	state atomic.Pointer[State[T]]
}

// NewResource creates a resource that loads through fetcher
func NewResource[K comparable, T any](fetcher func(ctx context.Context, key K) (T, error), opts ...Option) *Resource[K, T] {
	o := options{fallback: DefaultFallback, logger: logrus.StandardLogger()}
	for _, opt := range opts {
		opt(&o)
	}

	r := &Resource[K, T]{
		fetcher:  fetcher,
		fallback: o.fallback,
		logger:   o.logger,
		changed:  make(chan struct{}),
	}
	r.state.Store(&State[T]{Loading: o.initialLoading})
	return r
}

// State returns the current snapshot
func (r *Resource[K, T]) State() State[T] {
	return *r.state.Load()
}

// Key returns the key most recently requested, or the zero key when idle
func (r *Resource[K, T]) Key() K {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.key
}

// SetKey requests the payload for key. The zero key moves the resource to
// Idle. Requesting the current key again does not refetch.
func (r *Resource[K, T]) SetKey(key K) {
	r.setKey(context.Background(), key)
}

// Load requests key and waits for the outcome. The fetch is bound to ctx.
func (r *Resource[K, T]) Load(ctx context.Context, key K) (State[T], error) {
	r.setKey(ctx, key)
	return r.Wait(ctx)
}

// Wait blocks until the resource is not loading or ctx is done. On ctx
// expiry it returns the current (loading) state along with ctx.Err().
func (r *Resource[K, T]) Wait(ctx context.Context) (State[T], error) {
	for {
		r.mu.Lock()
		st := r.State()
		changed := r.changed
		r.mu.Unlock()

		if !st.Loading {
			return st, nil
		}

		select {
		case <-ctx.Done():
			return r.State(), ctx.Err()
		case <-changed:
		}
	}
}

// Subscribe registers fn to be called after every transition. fn must not
// call SetKey on the same resource.
func (r *Resource[K, T]) Subscribe(fn func(State[T])) (unsubscribe func()) {
	r.subMu.Lock()
	defer r.subMu.Unlock()

	sub := &subscription[T]{fn: fn}
	sub.active.Store(true)
	r.subs = append(r.subs, sub)

	var once sync.Once
	return func() {
		once.Do(func() {
			sub.active.Store(false)

			r.subMu.Lock()
			defer r.subMu.Unlock()
			for i, other := range r.subs {
				if other == sub {
					r.subs = append(r.subs[:i:i], r.subs[i+1:]...)
					break
				}
			}
		})
	}
}

func (r *Resource[K, T]) setKey(ctx context.Context, key K) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var zero K
	if key == zero {
		if !r.keyed && !r.State().Loading {
			return
		}
		r.supersede()
		r.key, r.keyed = zero, false
		r.transition(State[T]{})
		return
	}

	if r.keyed && key == r.key {
		return
	}

	r.supersede()
	r.key, r.keyed = key, true

	fetchCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	gen := r.gen

	r.transition(State[T]{Loading: true})
	go r.run(fetchCtx, cancel, gen, key)
}

// supersede invalidates the in-flight request, if any. Caller holds mu.
func (r *Resource[K, T]) supersede() {
	r.gen++
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
}

func (r *Resource[K, T]) run(ctx context.Context, cancel context.CancelFunc, gen uint64, key K) {
	defer cancel()

	payload, err := r.call(ctx, key)

	r.mu.Lock()
	defer r.mu.Unlock()

	if gen != r.gen {
		r.logger.WithField("key", key).Debug("Discarding result of superseded request")
		return
	}
	r.cancel = nil

	if err != nil {
		r.transition(State[T]{Err: r.message(err)})
		return
	}
	r.transition(State[T]{Payload: payload})
}

func (r *Resource[K, T]) call(ctx context.Context, key K) (payload T, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.WithFields(logrus.Fields{
				"key":   key,
				"panic": rec,
			}).Error("Fetch panicked")

			var zero T
			payload = zero
			if e, ok := rec.(error); ok {
				err = e
			} else {
				err = errNoMessage
			}
		}
	}()

	return r.fetcher(ctx, key)
}

func (r *Resource[K, T]) message(err error) string {
	if msg := err.Error(); msg != "" {
		return msg
	}
	return r.fallback
}

// transition publishes st and notifies subscribers. Caller holds mu.
func (r *Resource[K, T]) transition(st State[T]) {
	r.state.Store(&st)

	r.subMu.Lock()
	subs := make([]*subscription[T], len(r.subs))
	copy(subs, r.subs)
	r.subMu.Unlock()

	for _, sub := range subs {
		if sub.active.Load() {
			sub.fn(st)
		}
	}

	close(r.changed)
	r.changed = make(chan struct{})
}
