package waypoint

import (
	"log/slog"
	"time"

	"github.com/hupe1980/waypoint/resource"
	"github.com/hupe1980/waypoint/search"
)

// DefaultSliceBudget is the time FindPath gives each tick.
const DefaultSliceBudget = 2 * time.Millisecond

type options struct {
	metricsCollector MetricsCollector
	logger           *Logger
	resources        *resource.Config
	searchOptions    []search.Option
	sliceBudget      time.Duration
}

// Option configures a Pathfinder.
type Option func(*options)

// WithMetricsCollector configures a metrics collector for monitoring searches.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &waypoint.BasicMetricsCollector{}
//	pf, _ := waypoint.New(g, waypoint.WithMetricsCollector(metrics))
//	// ... use pf ...
//	stats := metrics.GetStats()
//	fmt.Printf("Searches: %d, Avg latency: %dns\n", stats.SearchCount, stats.SearchAvgNanos)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for searches.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := waypoint.NewJSONLogger(slog.LevelInfo)
//	pf, _ := waypoint.New(g, waypoint.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithResourceLimits bounds pending requests, admission rate and record
// store memory.
func WithResourceLimits(cfg resource.Config) Option {
	return func(o *options) {
		o.resources = &cfg
	}
}

// WithSearchOptions sets defaults applied to every request before the per
// call options.
func WithSearchOptions(opts ...search.Option) Option {
	return func(o *options) {
		o.searchOptions = append(o.searchOptions, opts...)
	}
}

// WithSliceBudget sets the per tick budget FindPath uses. Values <= 0 are
// ignored.
func WithSliceBudget(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.sliceBudget = d
		}
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
		sliceBudget:      DefaultSliceBudget,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
