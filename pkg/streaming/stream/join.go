package stream

import (
	"github.com/vnykmshr/lazyflow/internal/index"
	"github.com/vnykmshr/lazyflow/pkg/instrument"
	"github.com/vnykmshr/lazyflow/pkg/streaming/source"
)

// Join and its variants index the inner stream (other) once per iteration
// and then scan s, so results follow the order of s. Both sides must be
// finite. The key-selector forms build a hash index; the Where forms
// compare every pair.

func joinable[T, U any](op string, s Stream[T], other Stream[U]) error {
	if err := s.finite(op); err != nil {
		return err
	}
	return other.finite(op)
}

// Join emits result(t, u) for each element t of s that has an element u
// of other with an equal key. When several elements of other share a
// key, only the last one is matched.
func Join[T, U any, K comparable, R any](s Stream[T], other Stream[U], key func(T) K, otherKey func(U) K, result func(T, U) R) Stream[R] {
	if err := joinable("Join", s, other); err != nil {
		return failed[R](err)
	}
	if err := keyedError("Join", key, otherKey, result); err != nil {
		return failed[R](err)
	}
	return lazy(source.Indexed(), func(yield func(R) bool) {
		idx := uniqueIndex("Join", other, otherKey)
		for v := range s.snapshot().All() {
			if u, ok := idx.Lookup(key(v)); ok && !yield(result(v, u)) {
				return
			}
		}
	})
}

// JoinWhere emits result(t, u) for every pair with match(t, u), in
// nested-loop order.
func JoinWhere[T, U, R any](s Stream[T], other Stream[U], result func(T, U) R, match func(T, U) bool) Stream[R] {
	if err := joinable("JoinWhere", s, other); err != nil {
		return failed[R](err)
	}
	if err := predicateError("JoinWhere", result, match); err != nil {
		return failed[R](err)
	}
	return lazy(source.Indexed(), func(yield func(R) bool) {
		inner := other.collect()
		instrument.Join(module+".JoinWhere", "nested_loop", len(inner))
		for v := range s.snapshot().All() {
			for _, u := range inner {
				if match(v, u) && !yield(result(v, u)) {
					return
				}
			}
		}
	})
}

// LeftJoin emits exactly one result per element of s. found reports
// whether other had an element with an equal key; when it did not, u is
// the zero value. Duplicate keys in other resolve to the last element.
func LeftJoin[T, U any, K comparable, R any](s Stream[T], other Stream[U], key func(T) K, otherKey func(U) K, result func(t T, u U, found bool) R) Stream[R] {
	if err := joinable("LeftJoin", s, other); err != nil {
		return failed[R](err)
	}
	if err := keyedError("LeftJoin", key, otherKey, result); err != nil {
		return failed[R](err)
	}
	return lazy(source.Indexed(), func(yield func(R) bool) {
		idx := uniqueIndex("LeftJoin", other, otherKey)
		for v := range s.snapshot().All() {
			u, ok := idx.Lookup(key(v))
			if !yield(result(v, u, ok)) {
				return
			}
		}
	})
}

// LeftJoinWhere is LeftJoin with a match predicate. Among several
// matching elements of other the last one is used.
func LeftJoinWhere[T, U, R any](s Stream[T], other Stream[U], result func(t T, u U, found bool) R, match func(T, U) bool) Stream[R] {
	if err := joinable("LeftJoinWhere", s, other); err != nil {
		return failed[R](err)
	}
	if err := predicateError("LeftJoinWhere", result, match); err != nil {
		return failed[R](err)
	}
	return lazy(source.Indexed(), func(yield func(R) bool) {
		inner := other.collect()
		instrument.Join(module+".LeftJoinWhere", "nested_loop", len(inner))
		for v := range s.snapshot().All() {
			var last U
			found := false
			for _, u := range inner {
				if match(v, u) {
					last, found = u, true
				}
			}
			if !yield(result(v, last, found)) {
				return
			}
		}
	})
}

// GroupJoin emits one result per element of s together with every
// element of other sharing its key, in the order of other. The group is
// empty when nothing matches.
func GroupJoin[T, U any, K comparable, R any](s Stream[T], other Stream[U], key func(T) K, otherKey func(U) K, result func(T, Stream[U]) R) Stream[R] {
	if err := joinable("GroupJoin", s, other); err != nil {
		return failed[R](err)
	}
	if err := keyedError("GroupJoin", key, otherKey, result); err != nil {
		return failed[R](err)
	}
	return lazy(source.Indexed(), func(yield func(R) bool) {
		groups := index.GroupsOf(other.snapshot().All(), otherKey)
		instrument.IndexBuilt("group", groups.Keys(), groups.Size())
		instrument.Join(module+".GroupJoin", "hash_index", groups.Size())
		for v := range s.snapshot().All() {
			if !yield(result(v, From(groups.Lookup(key(v))))) {
				return
			}
		}
	})
}

// GroupJoinWhere is GroupJoin with a match predicate.
func GroupJoinWhere[T, U, R any](s Stream[T], other Stream[U], result func(T, Stream[U]) R, match func(T, U) bool) Stream[R] {
	if err := joinable("GroupJoinWhere", s, other); err != nil {
		return failed[R](err)
	}
	if err := predicateError("GroupJoinWhere", result, match); err != nil {
		return failed[R](err)
	}
	return lazy(source.Indexed(), func(yield func(R) bool) {
		inner := other.collect()
		instrument.Join(module+".GroupJoinWhere", "nested_loop", len(inner))
		for v := range s.snapshot().All() {
			var matches []U
			for _, u := range inner {
				if match(v, u) {
					matches = append(matches, u)
				}
			}
			if !yield(result(v, From(matches))) {
				return
			}
		}
	})
}

func uniqueIndex[U any, K comparable](op string, other Stream[U], otherKey func(U) K) index.Unique[K, U] {
	idx := index.UniqueOf(other.snapshot().All(), otherKey)
	instrument.IndexBuilt("unique", idx.Len(), idx.Len())
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
