package async

import (
	"context"

	"github.com/vnykmshr/lazyflow/pkg/streaming/source"
	"github.com/vnykmshr/lazyflow/pkg/streaming/stream"
)

// Unbounded is the count that makes Take return its input unchanged.
const Unbounded = stream.Unbounded

// wrap derives a per-element stage from s.
func wrap[T, U any](s Stream[T], next func(Source[T]) Source[U]) Stream[U] {
	return Stream[U]{
		open:  func() Source[U] { return next(s.iterate()) },
		flags: s.flags.Wrap(),
	}
}

// Map applies fn to every element. fn is awaited before the next element
// is pulled; an error from fn ends the iteration with that error.
func Map[T, U any](s Stream[T], fn func(context.Context, T) (U, error)) Stream[U] {
	if s.err != nil {
		return failed[U](s.err)
	}
	if err := nilError("Map", "fn", fn); err != nil {
		return failed[U](err)
	}
	return wrap(s, func(src Source[T]) Source[U] {
		return &mappingSource[T, U]{src: src, fn: fn}
	})
}

// Filter keeps the elements for which pred reports true.
func (s Stream[T]) Filter(pred func(context.Context, T) (bool, error)) Stream[T] {
	if s.err != nil {
		return s
	}
	if err := nilError("Filter", "pred", pred); err != nil {
		return failed[T](err)
	}
	return wrap(s, func(src Source[T]) Source[T] {
		return &filterSource[T]{src: src, keep: pred}
	})
}

// Peek calls fn with every element as it passes through.
func (s Stream[T]) Peek(fn func(context.Context, T) error) Stream[T] {
	if s.err != nil {
		return s
	}
	if err := nilError("Peek", "fn", fn); err != nil {
		return failed[T](err)
	}
	return wrap(s, func(src Source[T]) Source[T] {
		return &mappingSource[T, T]{src: src, fn: func(ctx context.Context, v T) (T, error) {
			return v, fn(ctx, v)
		}}
	})
}

// Take keeps at most the first n elements. No element past the n-th is
// pulled from upstream.
func (s Stream[T]) Take(n int) Stream[T] {
	if s.err != nil {
		return s
	}
	if err := countError("Take", n); err != nil {
		return failed[T](err)
	}
	if n == Unbounded {
		return s
	}
	if n == 0 {
		return Empty[T]()
	}
	return Stream[T]{
		open:  func() Source[T] { return &takeSource[T]{src: s.iterate(), n: n} },
		flags: s.flags.View(),
	}
}

// Skip drops the first n elements.
func (s Stream[T]) Skip(n int) Stream[T] {
	if s.err != nil {
		return s
	}
	if err := countError("Skip", n); err != nil {
		return failed[T](err)
	}
	if n == 0 {
		return s
	}
	return Stream[T]{
		open:  func() Source[T] { return &skipSource[T]{src: s.iterate(), n: n} },
		flags: s.flags.View(),
	}
}

// Concat appends others after s. Each part is opened only when the
// previous one is exhausted.
func (s Stream[T]) Concat(others ...Stream[T]) Stream[T] {
	parts := append([]Stream[T]{s}, others...)
	flags := source.Flags{}
	for _, p := range parts {
		if p.err != nil {
			return failed[T](p.err)
		}
		flags = flags.Union(p.flags)
	}
	return Stream[T]{
		open:  func() Source[T] { return &concatSource[T]{parts: parts} },
		flags: flags,
	}
}

// FlatMap replaces every element with the elements of the stream fn
// returns for it, in order.
func FlatMap[T, U any](s Stream[T], fn func(context.Context, T) (Stream[U], error)) Stream[U] {
	if s.err != nil {
		return failed[U](s.err)
	}
	if err := nilError("FlatMap", "fn", fn); err != nil {
		return failed[U](err)
	}
	return Stream[U]{
		open:  func() Source[U] { return &flatMapSource[T, U]{src: s.iterate(), fn: fn} },
		flags: source.Flags{Expensive: s.flags.Expensive},
	}
}

// Distinct keeps the first occurrence of every element.
func Distinct[T comparable](s Stream[T]) Stream[T] {
	return DistinctBy(s, func(v T) T { return v })
}

// DistinctBy keeps the first element for every key.
func DistinctBy[T any, K comparable](s Stream[T], key func(T) K) Stream[T] {
	if s.err != nil {
		return s
	}
	if err := nilError("DistinctBy", "key", key); err != nil {
		return failed[T](err)
	}
	return wrap(s, func(src Source[T]) Source[T] {
		return &distinctSource[T, K]{src: src, key: key, seen: make(map[K]struct{})}
	})
}
