package stream

import (
	"encoding/json"
	"fmt"
	"iter"
	"slices"
	"strings"

	"github.com/tidwall/pretty"

	lferrors "github.com/vnykmshr/lazyflow/pkg/common/errors"
	"github.com/vnykmshr/lazyflow/pkg/instrument"
	"github.com/vnykmshr/lazyflow/pkg/order"
)

// done reports the outcome of terminal op and returns err unchanged.
func done(op string, items int, err error) error {
	if err != nil {
		instrument.Failure(module+"."+op, err)
		return err
	}
	instrument.Terminal(module+"."+op, items)
	return nil
}

// ToSlice returns all elements. The result is the stage's own buffer only
// when the stage is fresh; otherwise it is a copy and never aliases data
// the caller passed in.
func (s Stream[T]) ToSlice() ([]T, error) {
	if err := s.finite("ToSlice"); err != nil {
		return nil, done("ToSlice", 0, err)
	}
	items := s.materialize("ToSlice")
	if items == nil {
		items = []T{}
	}
	return items, done("ToSlice", len(items), nil)
}

// Count returns the number of elements.
func (s Stream[T]) Count() (int, error) {
	if err := s.finite("Count"); err != nil {
		return 0, done("Count", 0, err)
	}
	snap := s.snapshot()
	n, ok := snap.Len()
	if !ok {
		for range snap.All() {
			n++
		}
	}
	return n, done("Count", n, nil)
}

// ForEach calls fn for every element.
func (s Stream[T]) ForEach(fn func(T)) error {
	if err := s.finite("ForEach"); err != nil {
		return done("ForEach", 0, err)
	}
	if err := nilError("ForEach", "fn", fn); err != nil {
		return done("ForEach", 0, err)
	}
	n := 0
	for v := range s.snapshot().All() {
		fn(v)
		n++
	}
	return done("ForEach", n, nil)
}

// Reduce combines the elements left to right with fn, starting from the
// first element. A single element is returned without calling fn. An
// empty stream fails with ErrEmptySource.
func (s Stream[T]) Reduce(fn func(acc, v T) T) (T, error) {
	return ReduceWith(s, fn, func(acc T, _ int) T { return acc })
}

// ReduceWith is Reduce followed by finalize(result, count), where count is
// the number of elements reduced.
func ReduceWith[T, R any](s Stream[T], fn func(acc, v T) T, finalize func(acc T, count int) R) (R, error) {
	var zero R
	if err := s.finite("Reduce"); err != nil {
		return zero, done("Reduce", 0, err)
	}
	if err := nilError("Reduce", "fn", fn); err != nil {
		return zero, done("Reduce", 0, err)
	}
	if err := nilError("Reduce", "finalize", finalize); err != nil {
		return zero, done("Reduce", 0, err)
	}
	var acc T
	n := 0
	for v := range s.snapshot().All() {
		if n == 0 {
			acc = v
		} else {
			acc = fn(acc, v)
		}
		n++
	}
	if n == 0 {
		return zero, done("Reduce", 0, opError("Reduce", lferrors.ErrEmptySource))
	}
	return finalize(acc, n), done("Reduce", n, nil)
}

// Fold combines the elements left to right with fn, starting from
// initial. An empty stream returns initial.
func Fold[T, A any](s Stream[T], initial A, fn func(acc A, v T) A) (A, error) {
	return FoldWith(s, initial, fn, func(acc A, _ int) A { return acc })
}

// FoldWith is Fold followed by finalize(result, count), where count is the
// number of elements folded, not counting the seed.
func FoldWith[T, A, R any](s Stream[T], initial A, fn func(acc A, v T) A, finalize func(acc A, count int) R) (R, error) {
	var zero R
	if err := s.finite("Fold"); err != nil {
		return zero, done("Fold", 0, err)
	}
	if err := nilError("Fold", "fn", fn); err != nil {
		return zero, done("Fold", 0, err)
	}
	if err := nilError("Fold", "finalize", finalize); err != nil {
		return zero, done("Fold", 0, err)
	}
	acc := initial
	n := 0
	for v := range s.snapshot().All() {
		acc = fn(acc, v)
		n++
	}
	return finalize(acc, n), done("Fold", n, nil)
}

// First returns the first element, failing with ErrEmptySource when there
// is none. It pulls a single element, so it works on infinite streams.
func (s Stream[T]) First() (T, error) {
	var zero T
	if s.err != nil {
		return zero, done("First", 0, s.err)
	}
	for v := range s.snapshot().All() {
		return v, done("First", 1, nil)
	}
	return zero, done("First", 0, opError("First", lferrors.ErrEmptySource))
}

// Last returns the last element, failing with ErrEmptySource when there is none.
func (s Stream[T]) Last() (T, error) {
	var zero T
	if err := s.finite("Last"); err != nil {
		return zero, done("Last", 0, err)
	}
	snap := s.snapshot()
	if items, ok := snap.Items(); ok {
		if len(items) == 0 {
			return zero, done("Last", 0, opError("Last", lferrors.ErrEmptySource))
		}
		return items[len(items)-1], done("Last", len(items), nil)
	}
	last, n := zero, 0
	for v := range snap.All() {
		last = v
		n++
	}
	if n == 0 {
		return zero, done("Last", 0, opError("Last", lferrors.ErrEmptySource))
	}
	return last, done("Last", n, nil)
}

// At returns the element at index i.
func (s Stream[T]) At(i int) (T, error) {
	var zero T
	if s.err != nil {
		return zero, done("At", 0, s.err)
	}
	if i < 0 {
		return zero, done("At", 0, opError("At", &lferrors.IndexError{Index: i, Len: -1}))
	}
	snap := s.snapshot()
	if items, ok := snap.Items(); ok {
		if i >= len(items) {
			return zero, done("At", 0, opError("At", &lferrors.IndexError{Index: i, Len: len(items)}))
		}
		return items[i], done("At", 1, nil)
	}
	n := 0
	for v := range snap.All() {
		if n == i {
			return v, done("At", n+1, nil)
		}
		n++
	}
	return zero, done("At", n, opError("At", &lferrors.IndexError{Index: i, Len: n}))
}

// Find returns the first element matching pred.
func (s Stream[T]) Find(pred func(T) bool) (T, bool, error) {
	var zero T
	if s.err != nil {
		return zero, false, done("Find", 0, s.err)
	}
	if err := nilError("Find", "pred", pred); err != nil {
		return zero, false, done("Find", 0, err)
	}
	n := 0
	for v := range s.snapshot().All() {
		n++
		if pred(v) {
			return v, true, done("Find", n, nil)
		}
	}
	return zero, false, done("Find", n, nil)
}

// FindFinal returns the last element matching pred.
func (s Stream[T]) FindFinal(pred func(T) bool) (T, bool, error) {
	var zero T
	if err := s.finite("FindFinal"); err != nil {
		return zero, false, done("FindFinal", 0, err)
	}
	if err := nilError("FindFinal", "pred", pred); err != nil {
		return zero, false, done("FindFinal", 0, err)
	}
	found, hit, n := zero, false, 0
	for v := range s.snapshot().All() {
		n++
		if pred(v) {
			found, hit = v, true
		}
	}
	return found, hit, done("FindFinal", n, nil)
}

// Any reports whether some element matches pred. It stops at the first
// match, so it may be used on infinite streams that contain one.
func (s Stream[T]) Any(pred func(T) bool) (bool, error) {
	_, ok, err := s.Find(pred)
	return ok, err
}

// Every reports whether all elements match pred. It is true for an empty stream.
func (s Stream[T]) Every(pred func(T) bool) (bool, error) {
	if err := s.finite("Every"); err != nil {
		return false, done("Every", 0, err)
	}
	if err := nilError("Every", "pred", pred); err != nil {
		return false, done("Every", 0, err)
	}
	n := 0
	for v := range s.snapshot().All() {
		n++
		if !pred(v) {
			return false, done("Every", n, nil)
		}
	}
	return true, done("Every", n, nil)
}

// Min returns the smallest element under orders, or under the natural
// order when none is given. Ties keep the earliest element.
func (s Stream[T]) Min(orders ...order.Order[T]) (T, error) {
	return s.extreme("Min", orders, func(c int) bool { return c < 0 })
}

// Max returns the largest element under orders, or under the natural
// order when none is given. Ties keep the earliest element.
func (s Stream[T]) Max(orders ...order.Order[T]) (T, error) {
	return s.extreme("Max", orders, func(c int) bool { return c > 0 })
}

func (s Stream[T]) extreme(op string, orders []order.Order[T], better func(int) bool) (T, error) {
	var zero T
	if err := s.finite(op); err != nil {
		return zero, done(op, 0, err)
	}
	cmp := comparatorOf(orders)
	best, n := zero, 0
	for v := range s.snapshot().All() {
		if n == 0 || better(cmp(v, best)) {
			best = v
		}
		n++
	}
	if n == 0 {
		return zero, done(op, 0, opError(op, lferrors.ErrEmptySource))
	}
	return best, done(op, n, nil)
}

func comparatorOf[T any](orders []order.Order[T]) order.Comparator[T] {
	if len(orders) == 0 {
		return order.Natural[T]().Comparator()
	}
	return order.Composite(orders...)
}

// MakeString formats every element with fmt and joins them with sep.
func (s Stream[T]) MakeString(sep string) (string, error) {
	if err := s.finite("MakeString"); err != nil {
		return "", done("MakeString", 0, err)
	}
	var b strings.Builder
	n := 0
	for v := range s.snapshot().All() {
		if n > 0 {
			b.WriteString(sep)
		}
		fmt.Fprint(&b, v)
		n++
	}
	return b.String(), done("MakeString", n, nil)
}

// SequenceEquals reports whether a and b hold equal elements in the same order.
func SequenceEquals[T comparable](a, b Stream[T]) (bool, error) {
	return SequenceEqualsFunc(a, b, func(x, y T) bool { return x == y })
}

// SequenceEqualsFunc is SequenceEquals with a custom equality.
func SequenceEqualsFunc[T, U any](a Stream[T], b Stream[U], eq func(T, U) bool) (bool, error) {
	if err := a.finite("SequenceEquals"); err != nil {
		return false, done("SequenceEquals", 0, err)
	}
	if err := b.finite("SequenceEquals"); err != nil {
		return false, done("SequenceEquals", 0, err)
	}
	next, stop := iter.Pull(b.snapshot().All())
	defer stop()
	n := 0
	for v := range a.snapshot().All() {
		u, ok := next()
		if !ok || !eq(v, u) {
			return false, done("SequenceEquals", n, nil)
		}
		n++
	}
	_, more := next()
	return !more, done("SequenceEquals", n, nil)
}

// ToSet returns the distinct elements as a set.
func ToSet[T comparable](s Stream[T]) (map[T]struct{}, error) {
	if err := s.finite("ToSet"); err != nil {
		return nil, done("ToSet", 0, err)
	}
	set := make(map[T]struct{})
	n := 0
	for v := range s.snapshot().All() {
		set[v] = struct{}{}
		n++
	}
	return set, done("ToSet", n, nil)
}

// ToMap indexes the elements by key; a later element replaces an earlier
// one with the same key.
func ToMap[T any, K comparable, V any](s Stream[T], key func(T) K, value func(T) V) (map[K]V, error) {
	if err := s.finite("ToMap"); err != nil {
		return nil, done("ToMap", 0, err)
	}
	if err := nilError("ToMap", "key", key); err != nil {
		return nil, done("ToMap", 0, err)
	}
	if err := nilError("ToMap", "value", value); err != nil {
		return nil, done("ToMap", 0, err)
	}
	m := make(map[K]V)
	n := 0
	for v := range s.snapshot().All() {
		m[key(v)] = value(v)
		n++
	}
	return m, done("ToMap", n, nil)
}

// MarshalJSON encodes the stream as a JSON array of its elements.
func (s Stream[T]) MarshalJSON() ([]byte, error) {
	items, err := s.ToSlice()
	if err != nil {
		return nil, err
	}
	return json.Marshal(items)
}

// PrettyJSON is MarshalJSON with indentation.
func (s Stream[T]) PrettyJSON() ([]byte, error) {
	b, err := s.MarshalJSON()
	if err != nil {
		return nil, err
	}
	return pretty.Pretty(b), nil
}

// collect is ToSlice without instrumentation, for internal index builds.
func (s Stream[T]) collect() []T {
	snap := s.snapshot()
	if items, ok := snap.Items(); ok {
		return items
	}
	return slices.Collect(snap.All())
}
