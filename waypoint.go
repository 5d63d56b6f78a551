package waypoint

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/hupe1980/waypoint/geom"
	"github.com/hupe1980/waypoint/graph"
	"github.com/hupe1980/waypoint/resource"
	"github.com/hupe1980/waypoint/scheduler"
	"github.com/hupe1980/waypoint/search"
	"github.com/hupe1980/waypoint/seeker"
)

// Compile time check.
var _ scheduler.Metrics = MetricsCollector(nil)

// Pathfinder queues path requests on one graph and runs them in time slices.
//
// StartPath and NewSeeker are safe for concurrent use. Tick, TickFor and
// FindPath advance the shared processor and must not run concurrently.
type Pathfinder struct {
	g         graph.Graph
	proc      *scheduler.Processor
	pool      *search.Pool
	resources *resource.Controller
	logger    *Logger
	metrics   MetricsCollector
	defaults  []search.Option
	budget    time.Duration
	closed    atomic.Bool
}

// New creates a Pathfinder for g.
func New(g graph.Graph, optFns ...Option) (*Pathfinder, error) {
	if g == nil {
		return nil, ErrNilGraph
	}
	opts := applyOptions(optFns)

	var rc *resource.Controller
	if opts.resources != nil {
		rc = resource.NewController(*opts.resources)
	}

	pf := &Pathfinder{
		g:         g,
		pool:      search.NewPool(),
		resources: rc,
		logger:    opts.logger,
		metrics:   opts.metricsCollector,
		defaults:  opts.searchOptions,
		budget:    opts.sliceBudget,
	}
	pf.proc = scheduler.New(
		scheduler.WithLogger(opts.logger.WithComponent("scheduler").Logger),
		scheduler.WithMetrics(opts.metricsCollector),
		scheduler.WithResourceController(rc),
		scheduler.WithStoreCapacity(g.NodeCount()),
	)
	return pf, nil
}

// Graph returns the graph searched by this Pathfinder.
func (pf *Pathfinder) Graph() graph.Graph { return pf.g }

// Resources returns the resource controller, or nil without limits.
func (pf *Pathfinder) Resources() *resource.Controller { return pf.resources }

func (pf *Pathfinder) searchOptions(opts []search.Option) []search.Option {
	all := make([]search.Option, 0, len(pf.defaults)+len(opts))
	all = append(all, pf.defaults...)
	return append(all, opts...)
}

// StartPath queues a search from start to end. cb receives the request once
// it has been returned; the request is recycled after cb unless cb claims it.
func (pf *Pathfinder) StartPath(start, end geom.Vec3, cb func(*search.Request), opts ...search.Option) (*search.Request, error) {
	if pf.closed.Load() {
		return nil, ErrClosed
	}

	r := pf.pool.Get(pf.g, start, end, pf.searchOptions(opts)...)
	if err := pf.proc.Enqueue(r, cb); err != nil {
		return nil, pf.translate(err)
	}
	return r, nil
}

// FindPath queues a search and ticks the processor until it is returned.
// Requests queued before it run first. When ctx is done the search is
// canceled and still returned.
//
// The returned error is ctx.Err(), ErrClosed, an admission error, or
// search.ErrSearchRunaway from any request run while waiting. The outcome
// of the search itself is reported by the request.
func (pf *Pathfinder) FindPath(ctx context.Context, start, end geom.Vec3, opts ...search.Option) (*search.Request, error) {
	if pf.closed.Load() {
		return nil, ErrClosed
	}

	r := search.NewRequest(pf.g, start, end, pf.searchOptions(opts)...)
	if err := pf.proc.EnqueueWait(ctx, r, nil); err != nil {
		return nil, pf.translate(err)
	}

	var runaway error
	for r.PipelineState() != search.Returned {
		if ctx.Err() != nil {
			r.Cancel(ctx.Err().Error())
		}
		if err := pf.TickFor(pf.budget); err != nil {
			runaway = errors.Join(runaway, err)
		}
	}

	pf.logger.LogSearch(ctx, r)
	if err := ctx.Err(); err != nil {
		return r, err
	}
	return r, runaway
}

// NewSeeker creates a seeker that queues its paths on this Pathfinder.
// The Pathfinder's search options apply before the seeker's own.
func (pf *Pathfinder) NewSeeker(opts ...seeker.Option) *seeker.Seeker {
	all := []seeker.Option{
		seeker.WithPool(pf.pool),
		seeker.WithLogger(pf.logger.WithComponent("seeker").Logger),
		seeker.WithSearchOptions(pf.defaults...),
	}
	return seeker.New(pf.proc, append(all, opts...)...)
}

// Tick advances queued searches until deadline. See scheduler.Processor.Tick.
func (pf *Pathfinder) Tick(deadline time.Time) error {
	began := time.Now()
	err := pf.proc.Tick(deadline)
	pf.logger.LogTick(context.Background(), pf.proc.Pending(), time.Since(began), err)
	return err
}

// TickFor runs Tick with a budget from now.
func (pf *Pathfinder) TickFor(budget time.Duration) error {
	return pf.Tick(time.Now().Add(budget))
}

// Pending returns the number of queued or running requests.
func (pf *Pathfinder) Pending() int { return pf.proc.Pending() }

// Close rejects new requests, cancels the outstanding ones and delivers them
// to their callbacks.
func (pf *Pathfinder) Close() error {
	if pf == nil || !pf.closed.CompareAndSwap(false, true) {
		return nil
	}
	pf.proc.Stop("pathfinder closed")
	return pf.proc.Drain()
}

func (pf *Pathfinder) translate(err error) error {
	if errors.Is(err, scheduler.ErrStopped) {
		return ErrClosed
	}
	return err
}
