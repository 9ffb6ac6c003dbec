package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const defaultNamespace = "lazyflow"

// Config holds configuration for metrics collection.
type Config struct {
	// Enabled controls whether metrics collection is active.
	Enabled bool

	// Registry is the Prometheus registry to use. If nil, uses prometheus.DefaultRegisterer.
	Registry prometheus.Registerer

	// Namespace overrides the default "lazyflow" namespace for metrics.
	Namespace string

	// Labels are additional labels to add to all metrics.
	Labels prometheus.Labels
}

// DefaultConfig returns a default metrics configuration.
func DefaultConfig() Config {
	return Config{
		Enabled:   true,
		Registry:  prometheus.DefaultRegisterer,
		Namespace: defaultNamespace,
		Labels:    nil,
	}
}

// Build returns a registry for cfg, or nil when cfg is disabled.
func (c Config) Build() *Registry {
	if !c.Enabled {
		return nil
	}
	return NewRegistryWithConfig(c)
}
