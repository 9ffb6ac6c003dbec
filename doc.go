/*
Package lazyflow provides lazy, composable sequence pipelines for Go.

Ordering (pkg/order):
  - Order: comparator or key selector, explicitly tagged
  - Compare: total order across mixed value types with locale-aware strings
  - Composite: lexicographic multi-key ordering

Streaming (pkg/streaming):
  - source: capability flags (fresh, expensive, infinite) and deferred sources
  - stream: synchronous lazy pipelines, stable multi-key sort, top-K, joins and groups
  - async: context-aware mirror over pull sources

Observability (pkg/instrument, pkg/metrics):
  - zerolog debug events and Prometheus metrics for strategies and terminals

Example usage:

	import (
		"github.com/vnykmshr/lazyflow/pkg/order"
		"github.com/vnykmshr/lazyflow/pkg/streaming/stream"
	)

	cheapest, err := stream.From(products).
		SortBy(order.KeyOf(func(p Product) float64 { return p.Price })).
		Take(3).
		ToSlice()
*/
package lazyflow
