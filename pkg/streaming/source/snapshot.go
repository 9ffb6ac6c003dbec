package source

import (
	"iter"
	"slices"
)

// Snapshot is a single iteration over a stage's contents. When it is backed
// by a concrete slice, Items exposes that slice.
type Snapshot[T any] struct {
	items    []T
	seq      iter.Seq[T]
	concrete bool
}

// Slice returns a Snapshot backed by items.
func Slice[T any](items []T) Snapshot[T] {
	return Snapshot[T]{items: items, concrete: true}
}

// Seq returns a Snapshot that iterates seq.
func Seq[T any](seq iter.Seq[T]) Snapshot[T] {
	return Snapshot[T]{seq: seq}
}

// All iterates the snapshot.
func (s Snapshot[T]) All() iter.Seq[T] {
	if s.concrete {
		return slices.Values(s.items)
	}
	if s.seq == nil {
		return func(func(T) bool) {}
	}
	return s.seq
}

// Items returns the backing slice, if any.
func (s Snapshot[T]) Items() ([]T, bool) {
	return s.items, s.concrete
}

// Len returns the number of elements when it is known without iterating.
func (s Snapshot[T]) Len() (int, bool) {
	if s.concrete {
		return len(s.items), true
	}
	return 0, false
}

// Descriptor is a deferred source: a produce function plus its flags.
type Descriptor[T any] struct {
	Produce func() Snapshot[T]
	Flags   Flags
}

// Snapshot calls Produce, treating a nil Produce as an empty source.
func (d Descriptor[T]) Snapshot() Snapshot[T] {
	if d.Produce == nil {
		return Slice[T](nil)
	}
	return d.Produce()
}

// Materialize returns the contents as a slice the caller may mutate. A
// fresh descriptor hands over its produced slice; any other copies it.
func (d Descriptor[T]) Materialize() []T {
	snap := d.Snapshot()
	if items, ok := snap.Items(); ok {
		if d.Flags.Fresh {
			return items
		}
		return slices.Clone(items)
	}
	return slices.Collect(snap.All())
}
