package testutil

import (
	"context"
	"iter"
	"sync"
)

// CountingSeq is a re-iterable sequence over a fixed slice that records how
// many items were pulled and how many passes were started. It is used to
// check that pipelines never over-pull their upstream.
type CountingSeq[T any] struct {
	mu     sync.Mutex
	items  []T
	pulled int
	passes int
}

// NewCountingSeq creates a CountingSeq over items.
func NewCountingSeq[T any](items ...T) *CountingSeq[T] {
	return &CountingSeq[T]{items: items}
}

// Seq returns the sequence.
func (c *CountingSeq[T]) Seq() iter.Seq[T] {
	return func(yield func(T) bool) {
		c.mu.Lock()
		c.passes++
		c.mu.Unlock()

		for _, item := range c.items {
			c.mu.Lock()
			c.pulled++
			c.mu.Unlock()

			if !yield(item) {
				return
			}
		}
	}
}

// Pulled returns the number of items handed out across all passes.
func (c *CountingSeq[T]) Pulled() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pulled
}

// Passes returns the number of iterations started.
func (c *CountingSeq[T]) Passes() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.passes
}

// MockSource is a pull source over a slice with an optional injected error.
// Its method set matches async.Source.
type MockSource[T any] struct {
	mu     sync.Mutex
	items  []T
	index  int
	failAt int
	err    error
	pulled int
	closed bool
}

// NewMockSource creates a MockSource over items.
func NewMockSource[T any](items ...T) *MockSource[T] {
	return &MockSource[T]{items: items, failAt: -1}
}

// FailAt makes the nth call to Next (0-based) return err.
func (m *MockSource[T]) FailAt(n int, err error) *MockSource[T] {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failAt = n
	m.err = err
	return m
}

// Next returns the next item.
func (m *MockSource[T]) Next(ctx context.Context) (T, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var zero T
	if err := ctx.Err(); err != nil {
		return zero, false, err
	}
	if m.index == m.failAt {
		m.index++
		return zero, false, m.err
	}
	if m.index >= len(m.items) {
		return zero, false, nil
	}

	item := m.items[m.index]
	m.index++
	m.pulled++
	return item, true, nil
}

// Close marks the source closed.
func (m *MockSource[T]) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Pulled returns the number of items handed out.
func (m *MockSource[T]) Pulled() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pulled
}

// Closed reports whether Close has been called.
func (m *MockSource[T]) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}
