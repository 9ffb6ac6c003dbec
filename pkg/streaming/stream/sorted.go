package stream

import (
	"slices"

	"github.com/vnykmshr/lazyflow/internal/selection"
	"github.com/vnykmshr/lazyflow/pkg/instrument"
	"github.com/vnykmshr/lazyflow/pkg/order"
	"github.com/vnykmshr/lazyflow/pkg/streaming/source"
)

// Sorted is a stream with an accumulated ordering.
//
// It keeps the stage it was sorted from rather than the sorted result, so
// ThenBy re-sorts the original input once under the extended ordering. Take
// and Skip become partial selections over the same input. Sorting is
// stable: elements equal under every order keep their input order.
//
// The embedded Stream is the sorted output; pass it to the package
// functions (Map, GroupBy, ...) that take a Stream.
type Sorted[T any] struct {
	Stream[T]

	pre       Stream[T]
	orders    []order.Order[T]
	preSorted bool
}

// SortBy returns s sorted by o.
func (s Stream[T]) SortBy(o order.Order[T]) *Sorted[T] {
	return sortStage(s, []order.Order[T]{o}, "SortBy")
}

// SortByDescending returns s sorted by o, largest first. Ties still keep
// their input order.
func (s Stream[T]) SortByDescending(o order.Order[T]) *Sorted[T] {
	return sortStage(s, []order.Order[T]{o.Reverse()}, "SortByDescending")
}

// Sort returns s sorted by the natural order.
func (s Stream[T]) Sort() *Sorted[T] {
	return sortStage(s, []order.Order[T]{order.Natural[T]()}, "Sort")
}

func sortStage[T any](pre Stream[T], orders []order.Order[T], op string) *Sorted[T] {
	st := &Sorted[T]{pre: pre, orders: orders}
	if err := pre.finite(op); err != nil {
		st.Stream = failed[T](err)
		return st
	}
	cmp := order.Composite(orders...)
	st.Stream = newStage(source.Materialized(), func() source.Snapshot[T] {
		items := pre.materialize(op)
		instrument.Sort(module+"."+op, "full_sort", len(items))
		slices.SortStableFunc(items, cmp)
		return source.Slice(items)
	})
	return st
}

// derive returns a Sorted whose input is already in order.
func (s *Sorted[T]) derive(st Stream[T]) *Sorted[T] {
	return &Sorted[T]{Stream: st, pre: st, orders: s.orders, preSorted: true}
}

// ThenBy refines the ordering with o for elements that tie under every
// earlier order.
func (s *Sorted[T]) ThenBy(o order.Order[T]) *Sorted[T] {
	return sortStage(s.pre, append(slices.Clone(s.orders), o), "ThenBy")
}

// ThenByDescending is ThenBy with o reversed.
func (s *Sorted[T]) ThenByDescending(o order.Order[T]) *Sorted[T] {
	return sortStage(s.pre, append(slices.Clone(s.orders), o.Reverse()), "ThenByDescending")
}

// Take returns the n smallest elements in order. Unless the input is
// already sorted, only a window of n elements is kept while the input is
// scanned once. Take(0) does not iterate the input.
func (s *Sorted[T]) Take(n int) *Sorted[T] {
	if s.err != nil {
		return s
	}
	if err := countError("Take", n); err != nil {
		return s.derive(failed[T](err))
	}
	switch {
	case n == Unbounded:
		return s
	case n == 0:
		return s.derive(Empty[T]())
	case s.preSorted:
		return s.derive(s.pre.Take(n))
	}

	pre, cmp := s.pre, order.Composite(s.orders...)
	return s.derive(newStage(source.Materialized(), func() source.Snapshot[T] {
		snap := pre.snapshot()
		if items, ok := snap.Items(); ok && n >= len(items) {
			size := len(items)
			if !pre.desc.Flags.Fresh {
				items = slices.Clone(items)
			}
			instrument.Sort(module+".Take", "full_sort", size)
			slices.SortStableFunc(items, cmp)
			return source.Slice(items)
		}
		w := selection.Smallest(n, cmp)
		for v := range snap.All() {
			w.Push(v)
		}
		instrument.Sort(module+".Take", "top_k", w.Seen())
		return source.Slice(w.Items())
	}))
}

// Skip drops the n smallest elements. When the input's length is known
// without iterating, only the remaining elements are kept in a window;
// otherwise the input is fully sorted first.
func (s *Sorted[T]) Skip(n int) *Sorted[T] {
	if s.err != nil {
		return s
	}
	if err := countError("Skip", n); err != nil {
		return s.derive(failed[T](err))
	}
	switch {
	case n == 0:
		return s
	case n == Unbounded:
		return s.derive(Empty[T]())
	case s.preSorted:
		return s.derive(s.pre.Skip(n))
	}

	pre, cmp := s.pre, order.Composite(s.orders...)
	return s.derive(newStage(source.Materialized(), func() source.Snapshot[T] {
		snap := pre.snapshot()
		if size, ok := snap.Len(); ok {
			if n >= size {
				return source.Slice([]T{})
			}
			w := selection.Largest(size-n, cmp)
			for v := range snap.All() {
				w.Push(v)
			}
			instrument.Sort(module+".Skip", "complement", size)
			return source.Slice(w.Items())
		}
		items := slices.Collect(snap.All())
		instrument.Sort(module+".Skip", "full_sort", len(items))
		slices.SortStableFunc(items, cmp)
		return source.Slice(items[min(n, len(items)):])
	}))
}

// Orders returns the accumulated ordering, most significant first.
func (s *Sorted[T]) Orders() []order.Order[T] {
	return slices.Clone(s.orders)
}

// PreSorted reports whether the stage's input is already in order, so
// that iterating it sorts nothing.
func (s *Sorted[T]) PreSorted() bool {
	return s.preSorted
}
