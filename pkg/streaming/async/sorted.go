package async

import (
	"context"
	"slices"

	"github.com/vnykmshr/lazyflow/internal/selection"
	"github.com/vnykmshr/lazyflow/pkg/instrument"
	"github.com/vnykmshr/lazyflow/pkg/order"
	"github.com/vnykmshr/lazyflow/pkg/streaming/source"
)

// Sorted is an asynchronous stream with an accumulated ordering. Like its
// synchronous counterpart it keeps the stage it was sorted from, so
// ThenBy sorts the original input once and Take selects the smallest
// elements without sorting everything. The input is drained on the first
// pull of every iteration.
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

// SortByDescending returns s sorted by o, largest first.
func (s Stream[T]) SortByDescending(o order.Order[T]) *Sorted[T] {
	return sortStage(s, []order.Order[T]{o.Reverse()}, "SortByDescending")
}

func sortStage[T any](pre Stream[T], orders []order.Order[T], op string) *Sorted[T] {
	st := &Sorted[T]{pre: pre, orders: orders}
	if pre.err != nil {
		st.Stream = failed[T](pre.err)
		return st
	}
	cmp := order.Composite(orders...)
	st.Stream = deferred(source.Materialized(), func(ctx context.Context) ([]T, error) {
		items, err := pre.materialize(ctx, op)
		if err != nil {
			return nil, err
		}
		instrument.Sort(module+"."+op, "full_sort", len(items))
		slices.SortStableFunc(items, cmp)
		return items, nil
	})
	return st
}

func (s *Sorted[T]) derive(st Stream[T]) *Sorted[T] {
	return &Sorted[T]{Stream: st, pre: st, orders: s.orders, preSorted: true}
}

// ThenBy refines the ordering with o.
func (s *Sorted[T]) ThenBy(o order.Order[T]) *Sorted[T] {
	return sortStage(s.pre, append(slices.Clone(s.orders), o), "ThenBy")
}

// ThenByDescending is ThenBy with o reversed.
func (s *Sorted[T]) ThenByDescending(o order.Order[T]) *Sorted[T] {
	return sortStage(s.pre, append(slices.Clone(s.orders), o.Reverse()), "ThenByDescending")
}

// Take returns the n smallest elements in order, keeping a window of n
// elements while the input is pulled.
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
	return s.derive(deferred(source.Materialized(), func(ctx context.Context) ([]T, error) {
		w := selection.Smallest(n, cmp)
		src := pre.iterate()
		for {
			v, ok, err := src.Next(ctx)
			if err != nil {
				_ = src.Close()
				return nil, err
			}
			if !ok {
				break
			}
			w.Push(v)
		}
		if err := src.Close(); err != nil {
			return nil, err
		}
		instrument.Sort(module+".Take", "top_k", w.Seen())
		return w.Items(), nil
	}))
}

// Skip drops the n smallest elements. The input has to be drained before
// its length is known, so the remaining elements are then either selected
// through a window or taken from a full sort, whichever is smaller.
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
	return s.derive(deferred(source.Materialized(), func(ctx context.Context) ([]T, error) {
		items, err := pre.materialize(ctx, "Skip")
		if err != nil {
			return nil, err
		}
		size := len(items)
		if n >= size {
			return []T{}, nil
		}
		if size-n < n {
			w := selection.Largest(size-n, cmp)
			for _, v := range items {
				w.Push(v)
			}
			instrument.Sort(module+".Skip", "complement", size)
			return w.Items(), nil
		}
		instrument.Sort(module+".Skip", "full_sort", size)
		slices.SortStableFunc(items, cmp)
		return items[n:], nil
	}))
}

// Orders returns the accumulated ordering, most significant first.
func (s *Sorted[T]) Orders() []order.Order[T] {
	return slices.Clone(s.orders)
}

// PreSorted reports whether the stage's input is already in order.
func (s *Sorted[T]) PreSorted() bool {
	return s.preSorted
}
