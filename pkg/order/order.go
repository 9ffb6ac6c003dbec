// Package order provides the comparator algebra used by sorted streams:
// an explicit Order value that is either a two-argument comparator or a
// key selector, reversal, lexicographic composition and a default total
// order across heterogeneous values.
package order

import (
	"cmp"
)

// Comparator returns a negative number when a sorts before b, a positive
// number when a sorts after b and zero when they are equal.
type Comparator[T any] func(a, b T) int

// Kind tells which variant an Order holds.
type Kind int

const (
	// KindComparator is an Order built from a two-argument comparator.
	KindComparator Kind = iota
	// KindKey is an Order built from a key selector.
	KindKey
)

func (k Kind) String() string {
	switch k {
	case KindComparator:
		return "comparator"
	case KindKey:
		return "key"
	default:
		return "unknown"
	}
}

// Order is a tagged ordering descriptor. The zero value orders elements
// with Compare, the same as Natural.
type Order[T any] struct {
	kind Kind
	cmp  Comparator[T]
	key  func(T) any
	desc bool
}

// By returns an Order that uses c directly.
func By[T any](c Comparator[T]) Order[T] {
	return Order[T]{kind: KindComparator, cmp: c}
}

// Key returns an Order that extracts a key from every element and compares
// the keys with Compare.
func Key[T any](key func(T) any) Order[T] {
	return Order[T]{kind: KindKey, key: key}
}

// KeyOf returns an Order over a typed, ordered key. Keys compare with
// cmp.Compare, so strings compare bytewise rather than by collation.
func KeyOf[T any, K cmp.Ordered](key func(T) K) Order[T] {
	return Order[T]{
		kind: KindKey,
		cmp: func(a, b T) int {
			return cmp.Compare(key(a), key(b))
		},
	}
}

// Natural returns an Order comparing whole elements with Compare.
func Natural[T any]() Order[T] {
	return Key(func(v T) any { return v })
}

// Kind reports whether o was built from a comparator or a key selector.
func (o Order[T]) Kind() Kind {
	return o.kind
}

// Descending reports whether o has been reversed an odd number of times.
func (o Order[T]) Descending() bool {
	return o.desc
}

// Reverse returns an Order that sorts in the opposite direction.
func (o Order[T]) Reverse() Order[T] {
	o.desc = !o.desc
	return o
}

// Comparator normalizes o into a two-argument comparator.
func (o Order[T]) Comparator() Comparator[T] {
	base := o.base()
	if o.desc {
		return func(a, b T) int { return base(b, a) }
	}
	return base
}

// Compare orders a and b according to o.
func (o Order[T]) Compare(a, b T) int {
	return o.Comparator()(a, b)
}

func (o Order[T]) base() Comparator[T] {
	switch {
	case o.cmp != nil:
		return o.cmp
	case o.key != nil:
		key := o.key
		return func(a, b T) int {
			return Compare(key(a), key(b))
		}
	default:
		return func(a, b T) int {
			return Compare(a, b)
		}
	}
}

// Reverse returns o sorted in the opposite direction.
func Reverse[T any](o Order[T]) Order[T] {
	return o.Reverse()
}

// Composite combines orders lexicographically: the first order decides,
// later orders break the remaining ties in sequence. With no orders every
// pair compares equal.
func Composite[T any](orders ...Order[T]) Comparator[T] {
	cmps := make([]Comparator[T], len(orders))
	for i, o := range orders {
		cmps[i] = o.Comparator()
	}
	if len(cmps) == 1 {
		return cmps[0]
	}
	return func(a, b T) int {
		for _, c := range cmps {
			if r := c(a, b); r != 0 {
				return r
			}
		}
		return 0
	}
}
