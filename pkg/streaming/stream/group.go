package stream

import (
	"github.com/vnykmshr/lazyflow/internal/index"
	"github.com/vnykmshr/lazyflow/pkg/instrument"
	"github.com/vnykmshr/lazyflow/pkg/streaming/source"
)

// Group is one key of a GroupBy and the elements that share it.
type Group[K comparable, T any] struct {
	Key   K
	Items Stream[T]
}

// GroupBy partitions s by key in a single pass. Groups appear in the
// order their keys first occur and each group keeps the input order of its
// elements. s must be finite.
func GroupBy[T any, K comparable](s Stream[T], key func(T) K) Stream[Group[K, T]] {
	return groupBy(s, "GroupBy", key, func(k K, items Stream[T]) Group[K, T] {
		return Group[K, T]{Key: k, Items: items}
	})
}

// GroupByMap is GroupBy with each group passed through fn.
func GroupByMap[T any, K comparable, R any](s Stream[T], key func(T) K, fn func(K, Stream[T]) R) Stream[R] {
	if s.err == nil && fn == nil {
		return failed[R](nilError("GroupByMap", "fn", fn))
	}
	return groupBy(s, "GroupByMap", key, fn)
}

func groupBy[T any, K comparable, R any](s Stream[T], op string, key func(T) K, fn func(K, Stream[T]) R) Stream[R] {
	if err := s.finite(op); err != nil {
		return failed[R](err)
	}
	if err := nilError(op, "key", key); err != nil {
		return failed[R](err)
	}
	return newStage(source.Materialized(), func() source.Snapshot[R] {
		groups := index.GroupsOf(s.snapshot().All(), key)
		instrument.IndexBuilt("group", groups.Keys(), groups.Size())
		out := make([]R, 0, groups.Keys())
		for k, items := range groups.All() {
			out = append(out, fn(k, From(items)))
		}
		return source.Slice(out)
	})
}
