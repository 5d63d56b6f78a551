package waypoint

import (
	"sync/atomic"
	"time"

	"github.com/hupe1980/waypoint/search"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems.
// PrometheusCollector is a ready made implementation.
type MetricsCollector interface {
	// RecordSearch is called once per request after it has been cleaned up.
	// searched is the number of nodes expanded, duration the time spent
	// searching, err the error of a failed request.
	RecordSearch(state search.CompleteState, searched int, duration time.Duration, err error)

	// RecordTick is called after each scheduler tick that did work.
	// finished is the number of requests completed during the tick.
	RecordTick(finished int, duration time.Duration)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordSearch(search.CompleteState, int, time.Duration, error) {}
func (NoopMetricsCollector) RecordTick(int, time.Duration)                                {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	SearchCount      atomic.Int64
	SearchComplete   atomic.Int64
	SearchPartial    atomic.Int64
	SearchErrors     atomic.Int64
	SearchedNodes    atomic.Int64
	SearchTotalNanos atomic.Int64
	TickCount        atomic.Int64
	TickTotalNanos   atomic.Int64
}

// RecordSearch implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSearch(state search.CompleteState, searched int, duration time.Duration, err error) {
	b.SearchCount.Add(1)
	b.SearchedNodes.Add(int64(searched))
	b.SearchTotalNanos.Add(duration.Nanoseconds())
	switch state {
	case search.Complete:
		b.SearchComplete.Add(1)
	case search.Partial:
		b.SearchPartial.Add(1)
	default:
		b.SearchErrors.Add(1)
	}
}

// RecordTick implements MetricsCollector.
func (b *BasicMetricsCollector) RecordTick(finished int, duration time.Duration) {
	b.TickCount.Add(1)
	b.TickTotalNanos.Add(duration.Nanoseconds())
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		SearchCount:    b.SearchCount.Load(),
		SearchComplete: b.SearchComplete.Load(),
		SearchPartial:  b.SearchPartial.Load(),
		SearchErrors:   b.SearchErrors.Load(),
		SearchedNodes:  b.SearchedNodes.Load(),
		SearchAvgNanos: avg(b.SearchTotalNanos.Load(), b.SearchCount.Load()),
		TickCount:      b.TickCount.Load(),
		TickAvgNanos:   avg(b.TickTotalNanos.Load(), b.TickCount.Load()),
	}
}

func avg(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	SearchCount    int64
	SearchComplete int64
	SearchPartial  int64
	SearchErrors   int64
	SearchedNodes  int64
	SearchAvgNanos int64
	TickCount      int64
	TickAvgNanos   int64
}

// MultiMetricsCollector fans every event out to each collector in order.
type MultiMetricsCollector []MetricsCollector

func (m MultiMetricsCollector) RecordSearch(state search.CompleteState, searched int, duration time.Duration, err error) {
	for _, c := range m {
		c.RecordSearch(state, searched, duration, err)
	}
}

func (m MultiMetricsCollector) RecordTick(finished int, duration time.Duration) {
	for _, c := range m {
		c.RecordTick(finished, duration)
	}
}
