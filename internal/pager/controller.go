package pager

import (
	"context"
	"slices"
	"sync"

	"go.uber.org/zap"
)

// State is a read-only snapshot of a Controller.
type State[T Item] struct {
	Items       []T
	Cursor      int // next page LoadNext will request
	LoadingMore bool
	Refreshing  bool
	HasMore     bool
	LastError   error // most recent SourceError; cleared by the next success

	// Generation increments on every Refresh and on Close. Fetches dispatched
	// under an older generation are discarded when they complete.
	Generation uint64
	// Revision increments on every state change. Subscribers can use it to
	// ignore snapshots older than one already rendered.
	Revision uint64
}

// Option configures a Controller.
type Option func(*options)

type options struct {
	logger         *zap.Logger
	refreshHasMore bool
}

// WithLogger sets the logger used for fetch diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithRefreshHasMore makes Refresh take HasMore from the first page response
// instead of resetting it to true.
func WithRefreshHasMore() Option {
	return func(o *options) {
		o.refreshHasMore = true
	}
}

// Controller drives a cursor-paginated list with load-more and refresh
// semantics. It issues at most one fetch at a time and never holds duplicate
// ids. All methods are safe for concurrent use; LoadNext and Refresh block
// until their fetch settles.
type Controller[T Item] struct {
	src            Source[T]
	logger         *zap.Logger
	refreshHasMore bool

	// ctx spans the controller lifetime; Close cancels it, which cancels
	// every in-flight fetch.
	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	state   State[T]
	index   map[string]int
	closed  bool
	subs    []subscriber[T]
	nextSub int
}

type subscriber[T Item] struct {
	id int
	fn func(State[T])
}

// New builds a Controller positioned before page 1.
func New[T Item](src Source[T], opts ...Option) *Controller[T] {
	o := options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Controller[T]{
		src:            src,
		logger:         o.logger,
		refreshHasMore: o.refreshHasMore,
		ctx:            ctx,
		cancel:         cancel,
		state:          State[T]{Cursor: 1, HasMore: true},
		index:          make(map[string]int),
	}
}

// State returns a copy of the current state.
func (c *Controller[T]) State() State[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// LoadNext fetches the page at the cursor and merges it into the list.
//
// It returns ErrSkipped without fetching when there is no more data or a fetch
// is already running. A source failure is returned as *SourceError and leaves
// items, cursor and HasMore untouched, so calling again retries the same page.
// If a Refresh starts while the fetch is in flight the result is dropped and
// LoadNext returns nil.
func (c *Controller[T]) LoadNext(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if !c.state.HasMore || c.state.LoadingMore || c.state.Refreshing {
		c.mu.Unlock()
		return ErrSkipped
	}
	gen := c.state.Generation
	page := c.state.Cursor
	c.state.LoadingMore = true
	c.commitLocked()

	c.logger.Debug("load next dispatched", zap.Int("page", page), zap.Uint64("generation", gen))

	fetchCtx, cancel := c.fetchContext(ctx)
	result, err := c.src.FetchPage(fetchCtx, page)
	cancel()

	c.mu.Lock()
	if gen != c.state.Generation {
		closed := c.closed
		c.mu.Unlock()
		c.logger.Debug("discarding stale page",
			zap.Int("page", page),
			zap.Uint64("generation", gen),
		)
		if closed {
			return ErrClosed
		}
		return nil
	}
	c.state.LoadingMore = false
	if err != nil {
		serr := &SourceError{Op: OpLoadNext, Page: page, Err: err}
		c.state.LastError = serr
		c.commitLocked()
		c.logger.Warn("load next failed", zap.Int("page", page), zap.Error(err))
		return serr
	}
	c.state.Items = merge(c.state.Items, c.index, result.Items)
	c.state.HasMore = result.HasMore
	c.state.Cursor = page + 1
	c.state.LastError = nil
	c.commitLocked()

	c.logger.Debug("page merged",
		zap.Int("page", page),
		zap.Int("received", len(result.Items)),
		zap.Bool("has_more", result.HasMore),
	)
	return nil
}

// Refresh refetches the first page and replaces the list with it.
//
// It returns ErrSkipped when a refresh is already running. A pending LoadNext
// is abandoned: its result will be discarded. On success the cursor is 2 and
// HasMore is true (or the response's value under WithRefreshHasMore). On
// failure the existing items are kept and a *SourceError is returned.
func (c *Controller[T]) Refresh(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if c.state.Refreshing {
		c.mu.Unlock()
		return ErrSkipped
	}
	c.state.Generation++
	gen := c.state.Generation
	c.state.Refreshing = true
	c.state.LoadingMore = false
	c.commitLocked()

	c.logger.Debug("refresh dispatched", zap.Uint64("generation", gen))

	fetchCtx, cancel := c.fetchContext(ctx)
	result, err := c.src.FetchFirstPage(fetchCtx)
	cancel()

	c.mu.Lock()
	if gen != c.state.Generation {
		c.mu.Unlock()
		return ErrClosed
	}
	c.state.Refreshing = false
	if err != nil {
		serr := &SourceError{Op: OpRefresh, Page: 1, Err: err}
		c.state.LastError = serr
		c.commitLocked()
		c.logger.Warn("refresh failed", zap.Error(err))
		return serr
	}
	c.state.Items, c.index = dedupe(result.Items)
	c.state.Cursor = 2
	c.state.HasMore = true
	if c.refreshHasMore {
		c.state.HasMore = result.HasMore
	}
	c.state.LastError = nil
	c.commitLocked()

	c.logger.Debug("refresh applied", zap.Int("items", len(result.Items)))
	return nil
}

// Subscribe registers fn to receive a snapshot after every state change.
// Subscribers are called in registration order on the goroutine that made the
// change, with no controller lock held, so fn may call back into the
// controller. Snapshots from concurrent or nested changes can arrive out of
// order: compare Revision and drop anything older than the last one seen.
// The returned function removes the subscription and is safe to call more
// than once.
func (c *Controller[T]) Subscribe(fn func(State[T])) (unsubscribe func()) {
	c.mu.Lock()
	id := c.nextSub
	c.nextSub++
	if !c.closed {
		c.subs = append(c.subs, subscriber[T]{id: id, fn: fn})
	}
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			c.subs = slices.DeleteFunc(c.subs, func(s subscriber[T]) bool { return s.id == id })
			c.mu.Unlock()
		})
	}
}

// Close tears the controller down. In-flight fetches are cancelled and their
// results discarded; subsequent calls return ErrClosed.
func (c *Controller[T]) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.state.Generation++
	c.state.LoadingMore = false
	c.state.Refreshing = false
	c.state.Revision++
	c.subs = nil
	c.mu.Unlock()

	c.cancel()
}

// commitLocked records a state change and releases c.mu before notifying
// subscribers.
func (c *Controller[T]) commitLocked() {
	c.state.Revision++
	if len(c.subs) == 0 {
		c.mu.Unlock()
		return
	}
	snap := c.snapshotLocked()
	subs := slices.Clone(c.subs)
	c.mu.Unlock()

	for _, s := range subs {
		s.fn(snap)
	}
}

func (c *Controller[T]) snapshotLocked() State[T] {
	snap := c.state
	if len(c.state.Items) > 0 {
		snap.Items = make([]T, len(c.state.Items))
		copy(snap.Items, c.state.Items)
	} else {
		snap.Items = nil
	}
	return snap
}

// fetchContext derives a context that ends when either ctx or the controller
// is done.
func (c *Controller[T]) fetchContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	fetchCtx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(c.ctx, cancel)
	return fetchCtx, func() {
		stop()
		cancel()
	}
}
