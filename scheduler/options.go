package scheduler

import (
	"log/slog"
	"time"

	"github.com/hupe1980/waypoint/resource"
	"github.com/hupe1980/waypoint/search"
)

// Metrics receives per request and per tick measurements.
type Metrics interface {
	// RecordSearch is called once per request after Cleanup.
	RecordSearch(state search.CompleteState, searched int, duration time.Duration, err error)
	// RecordTick is called after every tick that did any work.
	RecordTick(finished int, duration time.Duration)
}

type noopMetrics struct{}

func (noopMetrics) RecordSearch(search.CompleteState, int, time.Duration, error) {}
func (noopMetrics) RecordTick(int, time.Duration)                                {}

type options struct {
	logger        *slog.Logger
	metrics       Metrics
	resources     *resource.Controller
	storeCapacity int
}

// Option configures a Processor.
type Option func(*options)

// WithLogger sets the logger. Defaults to discarding output.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithMetrics sets the metrics sink.
func WithMetrics(m Metrics) Option {
	return func(o *options) {
		if m != nil {
			o.metrics = m
		}
	}
}

// WithResourceController bounds admission and record store memory.
func WithResourceController(rc *resource.Controller) Option {
	return func(o *options) {
		o.resources = rc
	}
}

// WithStoreCapacity preallocates the record store for n nodes.
func WithStoreCapacity(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.storeCapacity = n
		}
	}
}
