// Package selection keeps the k smallest or k largest elements of a
// sequence without sorting all of it.
//
// Elements are ordered by the caller's comparator and then by arrival, so
// a Window agrees element-for-element with a stable sort: Smallest(k)
// returns the first k elements of the stable order, Largest(k) the last k.
package selection

import (
	"github.com/google/btree"
)

const degree = 16

type entry[T any] struct {
	item T
	seq  int
}

// Window is a bounded ordered structure over pushed elements.
type Window[T any] struct {
	tree    *btree.BTreeG[entry[T]]
	less    btree.LessFunc[entry[T]]
	k       int
	seq     int
	largest bool
}

// Smallest returns a window keeping the k smallest elements.
func Smallest[T any](k int, cmp func(a, b T) int) *Window[T] {
	return newWindow(k, cmp, false)
}

// Largest returns a window keeping the k largest elements.
func Largest[T any](k int, cmp func(a, b T) int) *Window[T] {
	return newWindow(k, cmp, true)
}

func newWindow[T any](k int, cmp func(a, b T) int, largest bool) *Window[T] {
	if k < 0 {
		k = 0
	}
	less := func(a, b entry[T]) bool {
		if c := cmp(a.item, b.item); c != 0 {
			return c < 0
		}
		return a.seq < b.seq
	}
	return &Window[T]{
		tree:    btree.NewG(degree, less),
		less:    less,
		k:       k,
		largest: largest,
	}
}

// Push offers item to the window.
func (w *Window[T]) Push(item T) {
	e := entry[T]{item: item, seq: w.seq}
	w.seq++

	if w.k == 0 {
		return
	}

	if w.tree.Len() == w.k {
		if w.largest {
			if least, _ := w.tree.Min(); w.less(e, least) {
				return
			}
		} else {
			if most, _ := w.tree.Max(); !w.less(e, most) {
				return
			}
		}
	}

	w.tree.ReplaceOrInsert(e)

	if w.tree.Len() > w.k {
		if w.largest {
			w.tree.DeleteMin()
		} else {
			w.tree.DeleteMax()
		}
	}
}

// Seen returns the number of elements pushed so far.
func (w *Window[T]) Seen() int {
	return w.seq
}

// Len returns the number of elements currently kept.
func (w *Window[T]) Len() int {
	return w.tree.Len()
}

// Items returns the kept elements in ascending order.
func (w *Window[T]) Items() []T {
	out := make([]T, 0, w.tree.Len())
	w.tree.Ascend(func(e entry[T]) bool {
		out = append(out, e.item)
		return true
	})
	return out
}
