// Package index builds the hash indexes used by join and group stages.
//
// Keys that are not equal to themselves (a NaN float, or a struct holding
// one) can never be found again in a Go map. Both indexes treat every such
// key as one and the same key, so NaN groups with NaN and joins with NaN.
package index

import (
	"iter"

	"github.com/emirpasic/gods/maps/linkedhashmap"
)

func unordered[K comparable](k K) bool {
	return k != k
}

type bucket[K comparable, V any] struct {
	key   K
	items []V
}

// Groups is an insertion-ordered multimap. Keys iterate in first-occurrence
// order and every key's values keep the order they were added in.
type Groups[K comparable, V any] struct {
	m    *linkedhashmap.Map
	nan  *bucket[K, V]
	size int
}

// NewGroups creates an empty Groups index.
func NewGroups[K comparable, V any]() *Groups[K, V] {
	return &Groups[K, V]{m: linkedhashmap.New()}
}

// GroupsOf indexes every element of seq under key(element).
func GroupsOf[K comparable, V any](seq iter.Seq[V], key func(V) K) *Groups[K, V] {
	g := NewGroups[K, V]()
	for v := range seq {
		g.Add(key(v), v)
	}
	return g
}

func (g *Groups[K, V]) find(key K) *bucket[K, V] {
	if unordered(key) {
		return g.nan
	}
	if found, ok := g.m.Get(key); ok {
		return found.(*bucket[K, V])
	}
	return nil
}

// Add appends v to the group for key.
func (g *Groups[K, V]) Add(key K, v V) {
	g.size++
	if b := g.find(key); b != nil {
		b.items = append(b.items, v)
		return
	}
	b := &bucket[K, V]{key: key, items: []V{v}}
	if unordered(key) {
		g.nan = b
	}
	// A NaN key is put once; the map keeps its slot in the ordering even
	// though Get can never reach it.
	g.m.Put(key, b)
}

// Lookup returns the group for key, or nil.
func (g *Groups[K, V]) Lookup(key K) []V {
	if b := g.find(key); b != nil {
		return b.items
	}
	return nil
}

// Keys returns the number of distinct keys.
func (g *Groups[K, V]) Keys() int {
	return g.m.Size()
}

// Size returns the number of indexed values.
func (g *Groups[K, V]) Size() int {
	return g.size
}

// All iterates groups in first-occurrence order of their keys.
func (g *Groups[K, V]) All() iter.Seq2[K, []V] {
	return func(yield func(K, []V) bool) {
		it := g.m.Iterator()
		for it.Next() {
			b, ok := it.Value().(*bucket[K, V])
			if !ok {
				b = g.nan
			}
			if !yield(b.key, b.items) {
				return
			}
		}
	}
}

// Unique maps each key to the last value indexed under it.
type Unique[K comparable, V any] struct {
	m      map[K]V
	nan    V
	hasNaN bool
}

// UniqueOf indexes seq by key. Later elements replace earlier ones with an
// equal key.
func UniqueOf[K comparable, V any](seq iter.Seq[V], key func(V) K) Unique[K, V] {
	u := Unique[K, V]{m: make(map[K]V)}
	for v := range seq {
		k := key(v)
		if unordered(k) {
			u.nan, u.hasNaN = v, true
			continue
		}
		u.m[k] = v
	}
	return u
}

// Lookup returns the value indexed under key.
func (u Unique[K, V]) Lookup(key K) (V, bool) {
	if unordered(key) {
		return u.nan, u.hasNaN
	}
	v, ok := u.m[key]
	return v, ok
}

// Len returns the number of distinct keys.
func (u Unique[K, V]) Len() int {
	if u.hasNaN {
		return len(u.m) + 1
	}
	return len(u.m)
}
