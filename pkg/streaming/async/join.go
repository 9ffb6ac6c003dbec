package async

import (
	"context"
	"slices"

	"github.com/vnykmshr/lazyflow/internal/index"
	"github.com/vnykmshr/lazyflow/pkg/instrument"
	"github.com/vnykmshr/lazyflow/pkg/streaming/source"
)

// The joins drain the inner stream (other) into an index on the first
// pull of every iteration and then pull s, so results follow s. Key and
// result selectors are plain functions: they run between pulls and are
// not suspension points.

// Group is one key of a GroupBy and the elements that share it.
type Group[K comparable, T any] struct {
	Key   K
	Items Stream[T]
}

// GroupBy drains s and partitions it by key. Groups appear in the order
// their keys first occur.
func GroupBy[T any, K comparable](s Stream[T], key func(T) K) Stream[Group[K, T]] {
	if s.err != nil {
		return failed[Group[K, T]](s.err)
	}
	if err := nilError("GroupBy", "key", key); err != nil {
		return failed[Group[K, T]](err)
	}
	return deferred(source.Materialized(), func(ctx context.Context) ([]Group[K, T], error) {
		items, err := s.materialize(ctx, "GroupBy")
		if err != nil {
			return nil, err
		}
		groups := index.GroupsOf(slices.Values(items), key)
		instrument.IndexBuilt("group", groups.Keys(), groups.Size())
		out := make([]Group[K, T], 0, groups.Keys())
		for k, bucket := range groups.All() {
			out = append(out, Group[K, T]{Key: k, Items: FromSlice(bucket)})
		}
		return out, nil
	})
}

func joinable[T, U any](s Stream[T], other Stream[U]) error {
	if s.err != nil {
		return s.err
	}
	return other.err
}

func joinStage[T, U, R any](s Stream[T], other Stream[U], op string, prepare func(inner []U) func(T) []R) Stream[R] {
	return Stream[R]{
		open: func() Source[R] {
			return &joinSource[T, R]{
				outer: s.iterate(),
				prepare: func(ctx context.Context) (func(T) []R, error) {
					inner, err := other.materialize(ctx, op)
					if err != nil {
						return nil, err
					}
					return prepare(inner), nil
				},
			}
		},
		flags: source.Indexed(),
	}
}

// Join emits result(t, u) for each element t of s that has an element u
// of other with an equal key. Duplicate keys in other resolve to the last
// element.
func Join[T, U any, K comparable, R any](s Stream[T], other Stream[U], key func(T) K, otherKey func(U) K, result func(T, U) R) Stream[R] {
	if err := joinable(s, other); err != nil {
		return failed[R](err)
	}
	if err := keyedError("Join", key, otherKey, result); err != nil {
		return failed[R](err)
	}
	return joinStage(s, other, "Join", func(inner []U) func(T) []R {
		idx := uniqueIndex("Join", inner, otherKey)
		return func(v T) []R {
			if u, ok := idx.Lookup(key(v)); ok {
				return []R{result(v, u)}
			}
			return nil
		}
	})
}

// JoinWhere emits result(t, u) for every pair with match(t, u).
func JoinWhere[T, U, R any](s Stream[T], other Stream[U], result func(T, U) R, match func(T, U) bool) Stream[R] {
	if err := joinable(s, other); err != nil {
		return failed[R](err)
	}
	if err := predicateError("JoinWhere", result, match); err != nil {
		return failed[R](err)
	}
	return joinStage(s, other, "JoinWhere", func(inner []U) func(T) []R {
		instrument.Join(module+".JoinWhere", "nested_loop", len(inner))
		return func(v T) []R {
			var out []R
			for _, u := range inner {
				if match(v, u) {
					out = append(out, result(v, u))
				}
			}
			return out
		}
	})
}

// LeftJoin emits exactly one result per element of s; found reports
// whether other had a matching key.
func LeftJoin[T, U any, K comparable, R any](s Stream[T], other Stream[U], key func(T) K, otherKey func(U) K, result func(t T, u U, found bool) R) Stream[R] {
	if err := joinable(s, other); err != nil {
		return failed[R](err)
	}
	if err := keyedError("LeftJoin", key, otherKey, result); err != nil {
		return failed[R](err)
	}
	return joinStage(s, other, "LeftJoin", func(inner []U) func(T) []R {
		idx := uniqueIndex("LeftJoin", inner, otherKey)
		return func(v T) []R {
			u, ok := idx.Lookup(key(v))
			return []R{result(v, u, ok)}
		}
	})
}

// GroupJoin emits one result per element of s with every element of
// other sharing its key.
func GroupJoin[T, U any, K comparable, R any](s Stream[T], other Stream[U], key func(T) K, otherKey func(U) K, result func(T, Stream[U]) R) Stream[R] {
	if err := joinable(s, other); err != nil {
		return failed[R](err)
	}
	if err := keyedError("GroupJoin", key, otherKey, result); err != nil {
		return failed[R](err)
	}
	return joinStage(s, other, "GroupJoin", func(inner []U) func(T) []R {
		groups := index.GroupsOf(slices.Values(inner), otherKey)
		instrument.IndexBuilt("group", groups.Keys(), groups.Size())
		instrument.Join(module+".GroupJoin", "hash_index", groups.Size())
		return func(v T) []R {
			return []R{result(v, FromSlice(groups.Lookup(key(v))))}
		}
	})
}

func uniqueIndex[U any, K comparable](op string, inner []U, otherKey func(U) K) index.Unique[K, U] {
	idx := index.UniqueOf(slices.Values(inner), otherKey)
	instrument.IndexBuilt("unique", idx.Len(), len(inner))
	instrument.Join(module+"."+op, "hash_index", idx.Len())
	return idx
}

func keyedError(op string, key, otherKey, result any) error {
	if err := nilError(op, "key", key); err != nil {
		return err
	}
	if err := nilError(op, "otherKey", otherKey); err != nil {
		return err
	}
	return nilError(op, "result", result)
}

func predicateError(op string, result, match any) error {
	if err := nilError(op, "result", result); err != nil {
		return err
	}
	return nilError(op, "match", match)
}
