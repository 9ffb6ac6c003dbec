// Package metrics provides Prometheus instrumentation for lazyflow pipelines.
//
// A Registry holds the counters and histograms the engine reports through
// package instrument. Nothing is recorded until a Registry is installed:
//
//	reg := metrics.NewRegistry(prometheus.NewRegistry())
//	instrument.Enable(instrument.Config{Metrics: reg, Name: "reports"})
//
// Then expose metrics via HTTP:
//
//	http.Handle("/metrics", promhttp.Handler())
//	log.Fatal(http.ListenAndServe(":8080", nil))
//
// # Available Metrics
//
//   - lazyflow_stream_operations_total: terminal operations, by operation and stream_name
//   - lazyflow_stream_items_processed_total: elements consumed by terminal operations
//   - lazyflow_stream_errors_total: failed terminal operations, by reason
//   - lazyflow_sort_strategy_total: sorts by strategy ("full_sort", "top_k", "complement")
//   - lazyflow_join_strategy_total: joins by strategy ("hash_index", "nested_loop")
//   - lazyflow_stream_buffer_reuse_total: fresh buffers handed over without a copy
//   - lazyflow_index_builds_total: join and group indexes built, by kind
//   - lazyflow_index_keys: distinct keys per built index
//
// # Configuration
//
//	config := metrics.Config{
//		Enabled:   true,
//		Registry:  prometheus.DefaultRegisterer,
//		Namespace: "myapp",                             // overrides "lazyflow"
//		Labels:    prometheus.Labels{"version": "1.0"}, // constant labels
//	}
//	reg := config.Build() // nil when disabled
//
// Metrics are updated only when operations occur. There are no background
// goroutines.
package metrics
