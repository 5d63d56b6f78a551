package seeker

import (
	"errors"
	"log/slog"
	"slices"
	"sync"

	"github.com/hupe1980/waypoint/geom"
	"github.com/hupe1980/waypoint/graph"
	"github.com/hupe1980/waypoint/scheduler"
	"github.com/hupe1980/waypoint/search"
)

const (
	reasonSuperseded = "canceled because a new one was requested"
	reasonCanceled   = "canceled by seeker"
)

// ErrClosed is returned when starting a path on a closed Seeker.
var ErrClosed = errors.New("seeker: closed")

// Callback receives a delivered path.
type Callback func(*search.Request)

// Enqueuer queues requests for execution, such as a scheduler.Processor.
type Enqueuer interface {
	Enqueue(r *search.Request, done scheduler.Callback) error
}

type options struct {
	pool       *search.Pool
	logger     *slog.Logger
	onPath     Callback
	modifiers  []Modifier
	searchOpts []search.Option
}

// Option configures a Seeker.
type Option func(*options)

// WithPool sets the pool requests are taken from.
func WithPool(p *search.Pool) Option {
	return func(o *options) {
		if p != nil {
			o.pool = p
		}
	}
}

// WithLogger sets the logger. Defaults to discarding output.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithPathCallback registers a callback for every delivered path. It runs
// after the per request callback.
func WithPathCallback(cb Callback) Option {
	return func(o *options) {
		o.onPath = cb
	}
}

// WithModifiers registers modifiers.
func WithModifiers(m ...Modifier) Option {
	return func(o *options) {
		o.modifiers = append(o.modifiers, m...)
	}
}

// WithSearchOptions sets options applied to every path started with
// StartPath, such as traversable tags or tag penalties.
func WithSearchOptions(opts ...search.Option) Option {
	return func(o *options) {
		o.searchOpts = append(o.searchOpts, opts...)
	}
}

// Seeker requests paths for a single agent.
type Seeker struct {
	mu        sync.Mutex
	sched     Enqueuer
	pool      *search.Pool
	logger    *slog.Logger
	onPath    Callback
	modifiers []Modifier
	opts      []search.Option

	current  *search.Request
	callback Callback
	prev     *search.Request
	closed   bool
}

// New creates a seeker that queues its requests on sched.
func New(sched Enqueuer, optFns ...Option) *Seeker {
	opts := options{
		pool:   search.NewPool(),
		logger: slog.New(slog.DiscardHandler),
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	s := &Seeker{
		sched:  sched,
		pool:   opts.pool,
		logger: opts.logger,
		onPath: opts.onPath,
		opts:   opts.searchOpts,
	}
	for _, m := range opts.modifiers {
		s.RegisterModifier(m)
	}
	return s
}

// RegisterModifier adds m, keeping modifiers sorted by Order.
func (s *Seeker) RegisterModifier(m Modifier) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.modifiers = append(s.modifiers, m)
	slices.SortStableFunc(s.modifiers, func(a, b Modifier) int {
		return a.Order() - b.Order()
	})
}

// DeregisterModifier removes m.
func (s *Seeker) DeregisterModifier(m Modifier) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := slices.Index(s.modifiers, m); i >= 0 {
		s.modifiers = slices.Delete(s.modifiers, i, i+1)
	}
}

// StartPath requests a path from start to end on g. Per call options are
// applied after the seeker's search options.
func (s *Seeker) StartPath(g graph.Graph, start, end geom.Vec3, cb Callback, opts ...search.Option) (*search.Request, error) {
	all := make([]search.Option, 0, len(s.opts)+len(opts))
	all = append(all, s.opts...)
	all = append(all, opts...)

	r := s.pool.Get(g, start, end, all...)
	if err := s.Start(r, cb); err != nil {
		return nil, err
	}
	return r, nil
}

// Start queues a prepared request and makes it the current one.
func (s *Seeker) Start(r *search.Request, cb Callback) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	if s.current != nil && s.current.PipelineState() != search.Returned {
		s.current.Cancel(reasonSuperseded)
		s.logger.Debug("path superseded", "search_id", s.current.SearchID())
	}
	s.current = r
	s.callback = cb
	mods := slices.Clone(s.modifiers)
	s.mu.Unlock()

	for _, m := range mods {
		m.PreProcess(r)
	}

	if err := s.sched.Enqueue(r, s.complete); err != nil {
		s.mu.Lock()
		if s.current == r {
			s.current = nil
			s.callback = nil
		}
		s.mu.Unlock()
		return err
	}
	return nil
}

// IsDone reports whether the current request has been returned.
func (s *Seeker) IsDone() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current == nil || s.current.PipelineState() == search.Returned
}

// Current returns the most recently started request.
func (s *Seeker) Current() *search.Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// LastPath returns the last delivered path. It stays claimed by the seeker
// until the next path is delivered or Close is called.
func (s *Seeker) LastPath() *search.Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prev
}

// CancelCurrent cancels the request in flight. Its callback still runs with
// the failed request.
func (s *Seeker) CancelCurrent() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current != nil && s.current.PipelineState() != search.Returned {
		s.current.Cancel(reasonCanceled)
	}
}

// Close cancels the request in flight and releases the last path.
func (s *Seeker) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	if s.current != nil && s.current.PipelineState() != search.Returned {
		s.current.Cancel(reasonCanceled)
	}
	prev := s.prev
	s.prev = nil
	s.mu.Unlock()

	if prev != nil {
		return prev.Release(s)
	}
	return nil
}

func (s *Seeker) complete(r *search.Request) {
	s.mu.Lock()
	if r != s.current || s.closed {
		s.mu.Unlock()
		s.logger.Debug("dropped stale path", "search_id", r.SearchID())
		return
	}
	mods := slices.Clone(s.modifiers)
	s.mu.Unlock()

	// Modifiers may call back into the seeker.
	if r.CompleteState() != search.Error {
		for _, m := range mods {
			m.Apply(r)
		}
	}

	s.mu.Lock()
	if r != s.current || s.closed {
		s.mu.Unlock()
		s.logger.Debug("dropped stale path", "search_id", r.SearchID())
		return
	}
	if err := r.Claim(s); err != nil {
		s.mu.Unlock()
		s.logger.Error("claim path", "search_id", r.SearchID(), "error", err)
		return
	}
	cb, onPath := s.callback, s.onPath
	s.callback = nil
	prev := s.prev
	s.prev = r
	s.mu.Unlock()

	if cb != nil {
		cb(r)
	}
	if onPath != nil {
		onPath(r)
	}
	if prev != nil && prev != r {
		_ = prev.Release(s)
	}
}
