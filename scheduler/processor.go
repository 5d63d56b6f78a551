package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
	"unsafe"

	"github.com/hupe1980/waypoint/resource"
	"github.com/hupe1980/waypoint/search"
)

// ErrStopped is returned by Enqueue after Stop.
var ErrStopped = errors.New("scheduler: processor stopped")

// recordSize is the memory charged per record store slot.
const recordSize = int64(unsafe.Sizeof(search.Record{}))

// Callback receives a request after it has been cleaned up. The request may
// be recycled once the callback returns unless the callback claims it.
type Callback func(*search.Request)

type job struct {
	req  *search.Request
	done Callback
}

// Processor executes queued requests in time slices.
type Processor struct {
	mu      sync.Mutex
	queue   []job
	stopped bool

	// Owned by the ticking goroutine.
	tickMu   sync.Mutex
	store    *search.RecordStore
	current  *job
	reserved int64

	logger    *slog.Logger
	metrics   Metrics
	resources *resource.Controller
}

// New creates a processor with an empty queue.
func New(optFns ...Option) *Processor {
	opts := options{
		logger:  slog.New(slog.DiscardHandler),
		metrics: noopMetrics{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	return &Processor{
		store:     search.NewRecordStore(opts.storeCapacity),
		logger:    opts.logger,
		metrics:   opts.metrics,
		resources: opts.resources,
	}
}

// Enqueue adds r to the end of the queue. The processor claims r until done
// has been called. done may be nil.
func (p *Processor) Enqueue(r *search.Request, done Callback) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stopped {
		return ErrStopped
	}
	unadmit, ok := p.resources.ReserveAdmission()
	if !ok {
		return resource.ErrRateLimited
	}
	if !p.resources.TryAcquirePending() {
		unadmit()
		return resource.ErrTooManyPending
	}
	if err := r.Claim(p); err != nil {
		p.resources.ReleasePending()
		unadmit()
		return err
	}

	p.queue = append(p.queue, job{req: r, done: done})
	return nil
}

// EnqueueWait is like Enqueue but waits for admission and a pending slot.
func (p *Processor) EnqueueWait(ctx context.Context, r *search.Request, done Callback) error {
	if err := p.resources.Admit(ctx); err != nil {
		return err
	}
	if err := p.resources.AcquirePending(ctx); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stopped {
		p.resources.ReleasePending()
		return ErrStopped
	}
	if err := r.Claim(p); err != nil {
		p.resources.ReleasePending()
		return err
	}
	p.queue = append(p.queue, job{req: r, done: done})
	return nil
}

// Pending returns the number of requests queued or running.
func (p *Processor) Pending() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	n := len(p.queue)
	if p.current != nil {
		n++
	}
	return n
}

// Cancel cancels every queued or running request. They are still delivered
// to their callbacks by the following ticks.
func (p *Processor) Cancel(reason string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.current != nil {
		p.current.req.Cancel(reason)
	}
	for _, j := range p.queue {
		j.req.Cancel(reason)
	}
}

// Stop rejects further requests and cancels the outstanding ones.
func (p *Processor) Stop(reason string) {
	p.mu.Lock()
	p.stopped = true
	p.mu.Unlock()

	p.Cancel(reason)
}

// TickFor runs Tick with a deadline budget from now.
func (p *Processor) TickFor(budget time.Duration) error {
	return p.Tick(time.Now().Add(budget))
}

// Tick advances queued requests until the deadline passes or the queue is
// empty. A zero deadline runs until the queue is empty.
//
// The returned error is non-nil only when a request ran away
// (search.ErrSearchRunaway). That request is still cleaned up and delivered.
func (p *Processor) Tick(deadline time.Time) error {
	p.tickMu.Lock()
	defer p.tickMu.Unlock()

	began := time.Now()
	finished := 0
	defer func() {
		if finished > 0 || p.current != nil {
			p.metrics.RecordTick(finished, time.Since(began))
		}
	}()

	for {
		j := p.current
		if j == nil {
			if j = p.next(); j == nil {
				return nil
			}
			p.start(j.req)
		}

		r := j.req
		if r.CompleteState() == search.NotCalculated {
			step, err := r.ComputeSlice(deadline)
			if err != nil {
				p.logger.Error("search ran away",
					"search_id", r.SearchID(),
					"searched", r.SearchedNodes(),
					"error", err,
				)
				p.finish(j)
				finished++
				return err
			}
			if step == search.Suspended {
				return nil
			}
		}

		p.finish(j)
		finished++

		if !deadline.IsZero() && !time.Now().Before(deadline) {
			return nil
		}
	}
}

// Drain runs every queued request to completion.
func (p *Processor) Drain() error {
	var errs []error
	for {
		err := p.Tick(time.Time{})
		if err == nil {
			return errors.Join(errs...)
		}
		errs = append(errs, err)
	}
}

func (p *Processor) next() *job {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.queue) == 0 {
		return nil
	}
	j := p.queue[0]
	p.queue[0] = job{}
	p.queue = p.queue[1:]
	p.current = &j
	return &j
}

// start prepares r and opens its start node.
func (p *Processor) start(r *search.Request) {
	if err := p.reserve(r.Graph().NodeCount()); err != nil {
		r.Cancel(err.Error())
	}
	r.Prepare(p.store)
	r.Initialize()
}

// reserve charges the resource controller for record store growth.
func (p *Processor) reserve(nodes int) error {
	need := int64(nodes)*recordSize - p.reserved
	if need <= 0 {
		return nil
	}
	if err := p.resources.AcquireMemory(need); err != nil {
		return err
	}
	p.reserved += need
	return nil
}

// finish cleans j up, hands it to its callback and drops the processor's claim.
func (p *Processor) finish(j *job) {
	r := j.req
	r.Cleanup()

	p.mu.Lock()
	p.current = nil
	p.mu.Unlock()
	p.resources.ReleasePending()

	p.metrics.RecordSearch(r.CompleteState(), r.SearchedNodes(), r.Duration(), r.Err())
	switch r.CompleteState() {
	case search.Partial:
		p.logger.Warn("search returned partial path",
			"search_id", r.SearchID(),
			"searched", r.SearchedNodes(),
			"reason", r.ErrorMessage(),
		)
	case search.Error:
		p.logger.Debug("search failed",
			"search_id", r.SearchID(),
			"searched", r.SearchedNodes(),
			"error", r.Err(),
		)
	default:
		p.logger.Debug("search completed",
			"search_id", r.SearchID(),
			"searched", r.SearchedNodes(),
			"nodes", len(r.Nodes()),
			"cost", r.Cost(),
			"duration", r.Duration(),
		)
	}

	if j.done != nil {
		j.done(r)
	}
	_ = r.Release(p)
}
