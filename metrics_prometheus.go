package waypoint

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hupe1980/waypoint/search"
)

// PrometheusCollector exports search metrics to Prometheus.
type PrometheusCollector struct {
	searches *prometheus.CounterVec
	duration prometheus.Histogram
	searched prometheus.Histogram
	ticks    prometheus.Histogram
	finished prometheus.Counter
}

// NewPrometheusCollector creates the collectors and registers them with reg.
// If reg is nil, prometheus.DefaultRegisterer is used.
func NewPrometheusCollector(reg prometheus.Registerer, namespace string) (*PrometheusCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	p := &PrometheusCollector{
		searches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "searches_total",
			Help:      "Finished path searches by outcome.",
		}, []string{"state"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_duration_seconds",
			Help:      "Time spent searching per request, summed over all slices.",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10),
		}),
		searched: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "searched_nodes",
			Help:      "Nodes expanded per request.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 11),
		}),
		ticks: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "tick_duration_seconds",
			Help:      "Duration of scheduler ticks that did work.",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10),
		}),
		finished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tick_finished_total",
			Help:      "Requests finished by scheduler ticks.",
		}),
	}

	for _, c := range []prometheus.Collector{p.searches, p.duration, p.searched, p.ticks, p.finished} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// RecordSearch implements MetricsCollector.
func (p *PrometheusCollector) RecordSearch(state search.CompleteState, searched int, duration time.Duration, _ error) {
	p.searches.WithLabelValues(state.String()).Inc()
	p.duration.Observe(duration.Seconds())
	p.searched.Observe(float64(searched))
}

// RecordTick implements MetricsCollector.
func (p *PrometheusCollector) RecordTick(finished int, duration time.Duration) {
	p.ticks.Observe(duration.Seconds())
	p.finished.Add(float64(finished))
}
