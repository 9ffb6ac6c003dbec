package stream

import (
	"iter"
	"math/rand/v2"
	"slices"

	"github.com/mohae/deepcopy"

	lferrors "github.com/vnykmshr/lazyflow/pkg/common/errors"
	"github.com/vnykmshr/lazyflow/pkg/instrument"
	"github.com/vnykmshr/lazyflow/pkg/streaming/source"
)

// materialize returns the contents of s as a slice the caller may mutate.
func (s Stream[T]) materialize(op string) []T {
	items := s.desc.Materialize()
	if s.desc.Flags.Fresh {
		instrument.Reused(module+"."+op, len(items))
	}
	return items
}

// Filter returns a stream of the elements matching pred.
func (s Stream[T]) Filter(pred func(T) bool) Stream[T] {
	if s.err != nil {
		return s
	}
	if err := nilError("Filter", "pred", pred); err != nil {
		return failed[T](err)
	}
	return lazy(s.desc.Flags.Wrap(), func(yield func(T) bool) {
		for v := range s.snapshot().All() {
			if pred(v) && !yield(v) {
				return
			}
		}
	})
}

// Peek returns a stream that calls fn on each element as it is pulled.
func (s Stream[T]) Peek(fn func(T)) Stream[T] {
	if s.err != nil {
		return s
	}
	if err := nilError("Peek", "fn", fn); err != nil {
		return failed[T](err)
	}
	return lazy(s.desc.Flags.Wrap(), func(yield func(T) bool) {
		for v := range s.snapshot().All() {
			fn(v)
			if !yield(v) {
				return
			}
		}
	})
}

// Take returns the first n elements. Iteration of the upstream stops as
// soon as the n-th element has been yielded, and Take(0) never touches it.
// Take with a finite n clears the infinite taint.
func (s Stream[T]) Take(n int) Stream[T] {
	if s.err != nil {
		return s
	}
	if err := countError("Take", n); err != nil {
		return failed[T](err)
	}
	switch n {
	case 0:
		return Empty[T]()
	case Unbounded:
		return s
	}
	return newStage(s.desc.Flags.View().Bounded(), func() source.Snapshot[T] {
		snap := s.snapshot()
		if items, ok := snap.Items(); ok {
			return source.Slice(items[:min(n, len(items))])
		}
		return source.Seq(func(yield func(T) bool) {
			i := 0
			for v := range snap.All() {
				if !yield(v) {
					return
				}
				if i++; i == n {
					return
				}
			}
		})
	})
}

// Skip returns all but the first n elements.
func (s Stream[T]) Skip(n int) Stream[T] {
	if s.err != nil {
		return s
	}
	if err := countError("Skip", n); err != nil {
		return failed[T](err)
	}
	switch n {
	case 0:
		return s
	case Unbounded:
		return Empty[T]()
	}
	return newStage(s.desc.Flags.View(), func() source.Snapshot[T] {
		snap := s.snapshot()
		if items, ok := snap.Items(); ok {
			return source.Slice(items[min(n, len(items)):])
		}
		return source.Seq(func(yield func(T) bool) {
			i := 0
			for v := range snap.All() {
				if i < n {
					i++
					continue
				}
				if !yield(v) {
					return
				}
			}
		})
	})
}

// TakeWhile returns the leading elements matching pred. The infinite
// taint is kept, since nothing guarantees pred ever fails.
func (s Stream[T]) TakeWhile(pred func(T) bool) Stream[T] {
	if s.err != nil {
		return s
	}
	if err := nilError("TakeWhile", "pred", pred); err != nil {
		return failed[T](err)
	}
	return lazy(s.desc.Flags.Wrap(), func(yield func(T) bool) {
		for v := range s.snapshot().All() {
			if !pred(v) || !yield(v) {
				return
			}
		}
	})
}

// SkipWhile drops the leading elements matching pred.
func (s Stream[T]) SkipWhile(pred func(T) bool) Stream[T] {
	if s.err != nil {
		return s
	}
	if err := nilError("SkipWhile", "pred", pred); err != nil {
		return failed[T](err)
	}
	return lazy(s.desc.Flags.Wrap(), func(yield func(T) bool) {
		skipping := true
		for v := range s.snapshot().All() {
			if skipping && pred(v) {
				continue
			}
			skipping = false
			if !yield(v) {
				return
			}
		}
	})
}

// Concat returns s followed by each of others. The result is infinite if
// any part is.
func (s Stream[T]) Concat(others ...Stream[T]) Stream[T] {
	if s.err != nil {
		return s
	}
	parts := append([]Stream[T]{s}, others...)
	var flags source.Flags
	for _, p := range parts {
		if p.err != nil {
			return p
		}
		flags = flags.Union(p.desc.Flags)
	}
	return lazy(flags, func(yield func(T) bool) {
		for _, p := range parts {
			for v := range p.snapshot().All() {
				if !yield(v) {
					return
				}
			}
		}
	})
}

// Append returns s followed by items.
func (s Stream[T]) Append(items ...T) Stream[T] {
	return s.Concat(From(items))
}

// Repeat returns s cycled n times, or forever when n is Unbounded. An
// expensive stage is produced once per iteration of the result rather
// than once per cycle. Cycling an empty stage yields nothing.
func (s Stream[T]) Repeat(n int) Stream[T] {
	if s.err != nil {
		return s
	}
	if err := countError("Repeat", n); err != nil {
		return failed[T](err)
	}
	if n == 0 {
		return Empty[T]()
	}
	if n == 1 || s.desc.Flags.Infinite {
		return s
	}

	flags := source.Flags{Infinite: n == Unbounded}
	return lazy(flags, func(yield func(T) bool) {
		pass := s.snapshot
		if s.desc.Flags.Expensive {
			snap := s.snapshot()
			items, ok := snap.Items()
			if !ok {
				items = slices.Collect(snap.All())
			}
			pass = func() source.Snapshot[T] { return source.Slice(items) }
		}
		for i := 0; n == Unbounded || i < n; i++ {
			empty := true
			for v := range pass().All() {
				empty = false
				if !yield(v) {
					return
				}
			}
			if empty {
				return
			}
		}
	})
}

// Reverse returns the elements in reverse order.
func (s Stream[T]) Reverse() Stream[T] {
	if err := s.finite("Reverse"); err != nil {
		return failed[T](err)
	}
	return newStage(source.Materialized(), func() source.Snapshot[T] {
		items := s.materialize("Reverse")
		slices.Reverse(items)
		return source.Slice(items)
	})
}

// Shuffle returns the elements in an order drawn from r, or from the
// global generator when r is nil. Each iteration reshuffles.
func (s Stream[T]) Shuffle(r *rand.Rand) Stream[T] {
	if err := s.finite("Shuffle"); err != nil {
		return failed[T](err)
	}
	return newStage(source.Materialized(), func() source.Snapshot[T] {
		items := s.materialize("Shuffle")
		swap := func(i, j int) { items[i], items[j] = items[j], items[i] }
		if r != nil {
			r.Shuffle(len(items), swap)
		} else {
			rand.Shuffle(len(items), swap)
		}
		return source.Slice(items)
	})
}

// Collapse returns a stage that materializes s into a new slice on every
// iteration. Downstream stages may mutate that slice in place.
func (s Stream[T]) Collapse() Stream[T] {
	if err := s.finite("Collapse"); err != nil {
		return failed[T](err)
	}
	return newStage(source.Materialized(), func() source.Snapshot[T] {
		return source.Slice(s.materialize("Collapse"))
	})
}

// DeepCopy returns a stream yielding a deep copy of each element.
func (s Stream[T]) DeepCopy() Stream[T] {
	if s.err != nil {
		return s
	}
	return lazy(s.desc.Flags.Wrap(), func(yield func(T) bool) {
		for v := range s.snapshot().All() {
			c, ok := deepcopy.Copy(v).(T)
			if !ok {
				c = v
			}
			if !yield(c) {
				return
			}
		}
	})
}

// Map returns a stream of fn applied to each element of s.
func Map[T, U any](s Stream[T], fn func(T) U) Stream[U] {
	if s.err == nil && fn == nil {
		return failed[U](nilError("Map", "fn", fn))
	}
	return MapIndexed(s, func(_ int, v T) U { return fn(v) })
}

// MapIndexed is Map with the element's position passed to fn.
func MapIndexed[T, U any](s Stream[T], fn func(int, T) U) Stream[U] {
	if s.err != nil {
		return failed[U](s.err)
	}
	if err := nilError("MapIndexed", "fn", fn); err != nil {
		return failed[U](err)
	}
	return lazy(s.desc.Flags.Wrap(), func(yield func(U) bool) {
		i := 0
		for v := range s.snapshot().All() {
			if !yield(fn(i, v)) {
				return
			}
			i++
		}
	})
}

// FlatMap returns the concatenation of fn applied to each element. Use
// Stream.All to flatten into another stream; a failed inner stream
// contributes nothing.
func FlatMap[T, U any](s Stream[T], fn func(T) iter.Seq[U]) Stream[U] {
	if s.err != nil {
		return failed[U](s.err)
	}
	if err := nilError("FlatMap", "fn", fn); err != nil {
		return failed[U](err)
	}
	return lazy(s.desc.Flags.Wrap(), func(yield func(U) bool) {
		for v := range s.snapshot().All() {
			inner := fn(v)
			if inner == nil {
				continue
			}
			for u := range inner {
				if !yield(u) {
					return
				}
			}
		}
	})
}

// Distinct drops elements equal to an earlier one.
func Distinct[T comparable](s Stream[T]) Stream[T] {
	return DistinctBy(s, func(v T) T { return v })
}

// DistinctBy drops elements whose key equals the key of an earlier one.
func DistinctBy[T any, K comparable](s Stream[T], key func(T) K) Stream[T] {
	if s.err != nil {
		return s
	}
	if err := nilError("DistinctBy", "key", key); err != nil {
		return failed[T](err)
	}
	return lazy(s.desc.Flags.Wrap(), func(yield func(T) bool) {
		seen := make(map[K]struct{})
		for v := range s.snapshot().All() {
			k := key(v)
			if _, dup := seen[k]; dup {
				continue
			}
			seen[k] = struct{}{}
			if !yield(v) {
				return
			}
		}
	})
}

// Chunk groups consecutive elements into slices of size; the last may be
// shorter. Each chunk is newly allocated.
func Chunk[T any](s Stream[T], size int) Stream[[]T] {
	if s.err != nil {
		return failed[[]T](s.err)
	}
	if size <= 0 {
		err := lferrors.NewValidationError(module, "size", size, "must be positive")
		return failed[[]T](opError("Chunk", err))
	}
	return lazy(s.desc.Flags.Wrap(), func(yield func([]T) bool) {
		chunk := make([]T, 0, size)
		for v := range s.snapshot().All() {
			chunk = append(chunk, v)
			if len(chunk) == size {
				if !yield(chunk) {
					return
				}
				chunk = make([]T, 0, size)
			}
		}
		if len(chunk) > 0 {
			yield(chunk)
		}
	})
}

// Zip pairs elements of a and b positionally through fn, stopping at the
// shorter of the two.
func Zip[T, U, R any](a Stream[T], b Stream[U], fn func(T, U) R) Stream[R] {
	if a.err != nil {
		return failed[R](a.err)
	}
	if b.err != nil {
		return failed[R](b.err)
	}
	if err := nilError("Zip", "fn", fn); err != nil {
		return failed[R](err)
	}
	flags := source.Flags{Infinite: a.desc.Flags.Infinite && b.desc.Flags.Infinite}
	return lazy(flags, func(yield func(R) bool) {
		next, stop := iter.Pull(b.snapshot().All())
		defer stop()
		for v := range a.snapshot().All() {
			u, ok := next()
			if !ok || !yield(fn(v, u)) {
				return
			}
		}
	})
}
