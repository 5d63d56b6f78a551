package resource

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

var (
	// ErrMemoryLimitExceeded is returned when the memory limit would be exceeded.
	ErrMemoryLimitExceeded = errors.New("memory limit exceeded")

	// ErrTooManyPending is returned when all pending request slots are taken.
	ErrTooManyPending = errors.New("too many pending requests")

	// ErrRateLimited is returned when the admission rate is exhausted.
	ErrRateLimited = errors.New("request rate limit exceeded")
)

// Config holds resource limits.
type Config struct {
	// MemoryLimitBytes is the hard limit for record store memory.
	// If 0, no hard limit is enforced (only tracking).
	MemoryLimitBytes int64 `yaml:"memory_limit_bytes"`

	// MaxPending is the maximum number of requests queued or running.
	// If 0, unlimited.
	MaxPending int64 `yaml:"max_pending"`

	// RequestsPerSecond is the sustained admission rate.
	// If 0, unlimited.
	RequestsPerSecond float64 `yaml:"requests_per_second"`

	// Burst is the number of requests admitted at once. Defaults to
	// max(1, RequestsPerSecond).
	Burst int `yaml:"burst"`
}

// Controller manages request admission and engine memory.
type Controller struct {
	cfg Config

	// Memory
	memSem  *semaphore.Weighted // nil if unlimited
	memUsed atomic.Int64

	// Pending
	pendingSem *semaphore.Weighted // nil if unlimited
	pending    atomic.Int64

	// Admission
	limiter *rate.Limiter // nil if unlimited
}

// NewController creates a new resource controller.
func NewController(cfg Config) *Controller {
	c := &Controller{cfg: cfg}

	if cfg.MemoryLimitBytes > 0 {
		c.memSem = semaphore.NewWeighted(cfg.MemoryLimitBytes)
	}

	if cfg.MaxPending > 0 {
		c.pendingSem = semaphore.NewWeighted(cfg.MaxPending)
	}

	if cfg.RequestsPerSecond > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = max(1, int(cfg.RequestsPerSecond))
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}

	return c
}

// AcquireMemory attempts to reserve memory.
// Returns ErrMemoryLimitExceeded if limit would be exceeded.
// Non-blocking - callers control retry/backoff policy.
func (c *Controller) AcquireMemory(bytes int64) error {
	if c == nil || bytes <= 0 {
		return nil
	}

	if c.memSem != nil {
		if !c.memSem.TryAcquire(bytes) {
			return ErrMemoryLimitExceeded
		}
	}

	c.memUsed.Add(bytes)
	return nil
}

// ReleaseMemory releases reserved memory.
func (c *Controller) ReleaseMemory(bytes int64) {
	if c == nil || bytes <= 0 {
		return
	}

	if c.memSem != nil {
		c.memSem.Release(bytes)
	}
	c.memUsed.Add(-bytes)
}

// MemoryUsage returns the current memory usage in bytes.
func (c *Controller) MemoryUsage() int64 {
	if c == nil {
		return 0
	}
	return c.memUsed.Load()
}

// MemoryLimit returns the configured memory limit in bytes (0 if unlimited).
func (c *Controller) MemoryLimit() int64 {
	if c == nil {
		return 0
	}
	return c.cfg.MemoryLimitBytes
}

// AcquirePending reserves a pending request slot.
// Blocks if all slots are busy.
func (c *Controller) AcquirePending(ctx context.Context) error {
	if c == nil {
		return nil
	}
	if c.pendingSem != nil {
		if err := c.pendingSem.Acquire(ctx, 1); err != nil {
			return err
		}
	}
	c.pending.Add(1)
	return nil
}

// TryAcquirePending reserves a pending request slot without blocking.
func (c *Controller) TryAcquirePending() bool {
	if c == nil {
		return true
	}
	if c.pendingSem != nil && !c.pendingSem.TryAcquire(1) {
		return false
	}
	c.pending.Add(1)
	return true
}

// ReleasePending releases a pending request slot.
func (c *Controller) ReleasePending() {
	if c == nil {
		return
	}
	if c.pendingSem != nil {
		c.pendingSem.Release(1)
	}
	c.pending.Add(-1)
}

// Pending returns the number of held pending slots.
func (c *Controller) Pending() int64 {
	if c == nil {
		return 0
	}
	return c.pending.Load()
}

// Admit waits until the admission rate allows another request.
func (c *Controller) Admit(ctx context.Context) error {
	if c == nil || c.limiter == nil {
		return nil
	}
	return c.limiter.Wait(ctx)
}

// TryAdmit reports whether a request may start now, consuming a token if so.
func (c *Controller) TryAdmit() bool {
	if c == nil || c.limiter == nil {
		return true
	}
	return c.limiter.AllowN(time.Now(), 1)
}

// ReserveAdmission takes an admission token if one is available now. The
// returned cancel puts the token back when the request is rejected later.
func (c *Controller) ReserveAdmission() (cancel func(), ok bool) {
	if c == nil || c.limiter == nil {
		return func() {}, true
	}
	now := time.Now()
	r := c.limiter.ReserveN(now, 1)
	if !r.OK() {
		return nil, false
	}
	if r.DelayFrom(now) > 0 {
		r.CancelAt(now)
		return nil, false
	}
	return func() { r.CancelAt(now) }, true
}
