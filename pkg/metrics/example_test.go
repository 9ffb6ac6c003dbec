package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// Example_basicUsage demonstrates basic metrics configuration.
func Example_basicUsage() {
	// Create a separate registry for this test
	testRegistry := prometheus.NewRegistry()
	registry := NewRegistry(testRegistry)

	registry.StreamOperations.WithLabelValues("stream.ToSlice", "orders").Inc()
	registry.StreamItems.WithLabelValues("stream.ToSlice", "orders").Add(42)
	registry.SortStrategy.WithLabelValues("top_k", "orders").Inc()

	m := &dto.Metric{}
	_ = registry.StreamItems.WithLabelValues("stream.ToSlice", "orders").Write(m)
	fmt.Println(m.GetCounter().GetValue())

	// Output:
	// 42
}

// Example_customRegistry demonstrates a custom namespace and constant labels.
func Example_customRegistry() {
	customRegistry := prometheus.NewRegistry()

	config := Config{
		Enabled:   true,
		Registry:  customRegistry,
		Namespace: "reports",
		Labels:    prometheus.Labels{"service": "billing"},
	}
	registry := config.Build()

	registry.IndexBuilds.WithLabelValues("group", "invoices").Inc()

	families, _ := customRegistry.Gather()
	for _, mf := range families {
		fmt.Println(mf.GetName())
	}

	// Output:
	// reports_index_builds_total
}

// Example_metricsServer demonstrates setting up a metrics HTTP server.
func Example_metricsServer() {
	// In a real application, you would start a metrics server:
	//
	// http.Handle("/metrics", promhttp.Handler())
	// log.Fatal(http.ListenAndServe(":8080", nil))
	//
	// Available metrics would include:
	// - lazyflow_stream_operations_total{operation="stream.ToSlice",stream_name="orders"}
	// - lazyflow_sort_strategy_total{strategy="top_k",stream_name="orders"}
	// - lazyflow_index_keys_bucket{kind="unique"}

	fmt.Println("Metrics available at /metrics endpoint")

	// Output:
	// Metrics available at /metrics endpoint
}

// Example_configuration demonstrates different metrics configurations.
func Example_configuration() {
	defaultConfig := DefaultConfig()
	fmt.Printf("Default enabled: %v\n", defaultConfig.Enabled)
	fmt.Printf("Default namespace: %s\n", defaultConfig.Namespace)

	customConfig := Config{
		Enabled:   false,
		Namespace: "myapp",
	}
	fmt.Printf("Custom enabled: %v\n", customConfig.Enabled)
	fmt.Printf("Custom registry: %v\n", customConfig.Build() != nil)

	// Output:
	// Default enabled: true
	// Default namespace: lazyflow
	// Custom enabled: false
	// Custom registry: false
}
