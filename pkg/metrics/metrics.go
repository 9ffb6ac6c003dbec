// Package metrics provides Prometheus instrumentation for lazyflow pipelines.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds all metric instances for lazyflow pipelines.
type Registry struct {
	// Terminal operation metrics
	StreamOperations *prometheus.CounterVec
	StreamItems      *prometheus.CounterVec
	StreamErrors     *prometheus.CounterVec

	// Strategy metrics
	SortStrategy *prometheus.CounterVec
	JoinStrategy *prometheus.CounterVec
	BufferReuse  *prometheus.CounterVec

	// Index metrics
	IndexBuilds *prometheus.CounterVec
	IndexSize   *prometheus.HistogramVec
}

// NewRegistry creates a new metrics registry with the given Prometheus registerer.
func NewRegistry(reg prometheus.Registerer) *Registry {
	cfg := DefaultConfig()
	cfg.Registry = reg
	return NewRegistryWithConfig(cfg)
}

// NewRegistryWithConfig creates a registry honoring cfg's namespace and
// constant labels. A nil cfg.Registry means prometheus.DefaultRegisterer.
func NewRegistryWithConfig(cfg Config) *Registry {
	reg := cfg.Registry
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	ns := cfg.Namespace
	if ns == "" {
		ns = defaultNamespace
	}
	factory := promauto.With(reg)

	return &Registry{
		StreamOperations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   ns,
				Subsystem:   "stream",
				Name:        "operations_total",
				Help:        "Total number of terminal operations run",
				ConstLabels: cfg.Labels,
			},
			[]string{"operation", "stream_name"},
		),

		StreamItems: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   ns,
				Subsystem:   "stream",
				Name:        "items_processed_total",
				Help:        "Total number of items consumed by terminal operations",
				ConstLabels: cfg.Labels,
			},
			[]string{"operation", "stream_name"},
		),

		StreamErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   ns,
				Subsystem:   "stream",
				Name:        "errors_total",
				Help:        "Total number of failed terminal operations",
				ConstLabels: cfg.Labels,
			},
			[]string{"operation", "stream_name", "reason"},
		),

		SortStrategy: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   ns,
				Subsystem:   "sort",
				Name:        "strategy_total",
				Help:        "Sort strategy selections",
				ConstLabels: cfg.Labels,
			},
			[]string{"strategy", "stream_name"},
		),

		JoinStrategy: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   ns,
				Subsystem:   "join",
				Name:        "strategy_total",
				Help:        "Join strategy selections",
				ConstLabels: cfg.Labels,
			},
			[]string{"strategy", "stream_name"},
		),

		BufferReuse: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   ns,
				Subsystem:   "stream",
				Name:        "buffer_reuse_total",
				Help:        "Fresh buffers reused in place instead of copied",
				ConstLabels: cfg.Labels,
			},
			[]string{"operation", "stream_name"},
		),

		IndexBuilds: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   ns,
				Subsystem:   "index",
				Name:        "builds_total",
				Help:        "Total number of join and group indexes built",
				ConstLabels: cfg.Labels,
			},
			[]string{"kind", "stream_name"},
		),

		IndexSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace:   ns,
				Subsystem:   "index",
				Name:        "keys",
				Help:        "Number of distinct keys per built index",
				Buckets:     prometheus.ExponentialBuckets(1, 4, 10),
				ConstLabels: cfg.Labels,
			},
			[]string{"kind"},
		),
	}
}
