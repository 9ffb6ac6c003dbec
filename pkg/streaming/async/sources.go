package async

import (
	"context"
	"errors"
	"sync/atomic"

	lfcontext "github.com/vnykmshr/lazyflow/pkg/common/context"
)

// sliceSource implements Source for slices.
type sliceSource[T any] struct {
	items []T
	index int
}

func (s *sliceSource[T]) Next(ctx context.Context) (T, bool, error) {
	var zero T
	if err := lfcontext.Check(ctx); err != nil {
		return zero, false, err
	}
	if s.index >= len(s.items) {
		return zero, false, nil
	}
	v := s.items[s.index]
	s.index++
	return v, true, nil
}

func (s *sliceSource[T]) Close() error {
	return nil
}

// channelSource implements Source for channels.
type channelSource[T any] struct {
	ch <-chan T
}

func (s *channelSource[T]) Next(ctx context.Context) (T, bool, error) {
	var zero T

	select {
	case value, ok := <-s.ch:
		if !ok {
			return zero, false, nil
		}
		return value, true, nil
	case <-ctx.Done():
		return zero, false, context.Cause(ctx)
	}
}

func (s *channelSource[T]) Close() error {
	return nil
}

// generatorSource implements Source for index-driven generator functions.
type generatorSource[T any] struct {
	fn func(ctx context.Context, i int) (T, error)
	i  int
}

func (s *generatorSource[T]) Next(ctx context.Context) (T, bool, error) {
	var zero T
	if err := lfcontext.Check(ctx); err != nil {
		return zero, false, err
	}
	v, err := s.fn(ctx, s.i)
	if err != nil {
		return zero, false, err
	}
	s.i++
	return v, true, nil
}

func (s *generatorSource[T]) Close() error {
	return nil
}

// emptySource implements Source for empty streams.
type emptySource[T any] struct{}

func (emptySource[T]) Next(_ context.Context) (T, bool, error) {
	var zero T
	return zero, false, nil
}

func (emptySource[T]) Close() error {
	return nil
}

// loadSource produces all of its elements in one step on the first pull.
type loadSource[T any] struct {
	load   func(ctx context.Context) ([]T, error)
	items  []T
	index  int
	loaded bool
}

func (s *loadSource[T]) Next(ctx context.Context) (T, bool, error) {
	var zero T
	if err := lfcontext.Check(ctx); err != nil {
		return zero, false, err
	}
	if !s.loaded {
		items, err := s.load(ctx)
		if err != nil {
			return zero, false, err
		}
		s.items, s.loaded = items, true
	}
	if s.index >= len(s.items) {
		return zero, false, nil
	}
	v := s.items[s.index]
	s.index++
	return v, true, nil
}

func (s *loadSource[T]) Close() error {
	s.items = nil
	return nil
}

// pullSource adapts a pull iterator over a synchronous sequence.
type pullSource[T any] struct {
	next func() (T, bool)
	stop func()
}

func (s *pullSource[T]) Next(ctx context.Context) (T, bool, error) {
	if err := lfcontext.Check(ctx); err != nil {
		var zero T
		return zero, false, err
	}
	v, ok := s.next()
	return v, ok, nil
}

func (s *pullSource[T]) Close() error {
	s.stop()
	return nil
}

// onceSource hands out its source to the first opener only.
type onceSource[T any] struct {
	src   Source[T]
	taken atomic.Bool
}

func (o *onceSource[T]) take() Source[T] {
	if o.taken.Swap(true) {
		return emptySource[T]{}
	}
	return o.src
}

// mappingSource implements Source that transforms elements from one type to another.
type mappingSource[From, To any] struct {
	src Source[From]
	fn  func(context.Context, From) (To, error)
}

func (s *mappingSource[From, To]) Next(ctx context.Context) (To, bool, error) {
	var zero To

	value, ok, err := s.src.Next(ctx)
	if err != nil || !ok {
		return zero, false, err
	}

	out, err := s.fn(ctx, value)
	if err != nil {
		return zero, false, err
	}
	return out, true, nil
}

func (s *mappingSource[From, To]) Close() error {
	return s.src.Close()
}

// filterSource keeps the elements accepted by keep.
type filterSource[T any] struct {
	src  Source[T]
	keep func(context.Context, T) (bool, error)
}

func (s *filterSource[T]) Next(ctx context.Context) (T, bool, error) {
	var zero T
	for {
		value, ok, err := s.src.Next(ctx)
		if err != nil || !ok {
			return zero, false, err
		}
		keep, err := s.keep(ctx, value)
		if err != nil {
			return zero, false, err
		}
		if keep {
			return value, true, nil
		}
	}
}

func (s *filterSource[T]) Close() error {
	return s.src.Close()
}

// takeSource stops pulling after n elements.
type takeSource[T any] struct {
	src   Source[T]
	n     int
	taken int
}

func (s *takeSource[T]) Next(ctx context.Context) (T, bool, error) {
	if s.taken >= s.n {
		var zero T
		return zero, false, nil
	}
	value, ok, err := s.src.Next(ctx)
	if ok {
		s.taken++
	}
	return value, ok, err
}

func (s *takeSource[T]) Close() error {
	return s.src.Close()
}

// skipSource discards the first n elements.
type skipSource[T any] struct {
	src     Source[T]
	n       int
	skipped bool
}

func (s *skipSource[T]) Next(ctx context.Context) (T, bool, error) {
	if !s.skipped {
		s.skipped = true
		for i := 0; i < s.n; i++ {
			if _, ok, err := s.src.Next(ctx); err != nil || !ok {
				var zero T
				return zero, false, err
			}
		}
	}
	return s.src.Next(ctx)
}

func (s *skipSource[T]) Close() error {
	return s.src.Close()
}

// concatSource opens each part in turn once the previous one is exhausted.
type concatSource[T any] struct {
	parts []Stream[T]
	cur   Source[T]
}

func (s *concatSource[T]) Next(ctx context.Context) (T, bool, error) {
	var zero T
	for {
		if s.cur == nil {
			if len(s.parts) == 0 {
				return zero, false, nil
			}
			s.cur, s.parts = s.parts[0].iterate(), s.parts[1:]
		}
		value, ok, err := s.cur.Next(ctx)
		if err != nil {
			return zero, false, err
		}
		if ok {
			return value, true, nil
		}
		if err := s.cur.Close(); err != nil {
			s.cur = nil
			return zero, false, err
		}
		s.cur = nil
	}
}

func (s *concatSource[T]) Close() error {
	if s.cur == nil {
		return nil
	}
	err := s.cur.Close()
	s.cur = nil
	return err
}

// flatMapSource expands every element into an inner stream.
type flatMapSource[T, U any] struct {
	src   Source[T]
	fn    func(context.Context, T) (Stream[U], error)
	inner Source[U]
}

func (s *flatMapSource[T, U]) Next(ctx context.Context) (U, bool, error) {
	var zero U
	for {
		if s.inner == nil {
			value, ok, err := s.src.Next(ctx)
			if err != nil || !ok {
				return zero, false, err
			}
			sub, err := s.fn(ctx, value)
			if err != nil {
				return zero, false, err
			}
			if sub.err != nil {
				return zero, false, sub.err
			}
			s.inner = sub.iterate()
		}
		out, ok, err := s.inner.Next(ctx)
		if err != nil {
			return zero, false, err
		}
		if ok {
			return out, true, nil
		}
		err = s.inner.Close()
		s.inner = nil
		if err != nil {
			return zero, false, err
		}
	}
}

func (s *flatMapSource[T, U]) Close() error {
	var err error
	if s.inner != nil {
		err = s.inner.Close()
		s.inner = nil
	}
	return errors.Join(err, s.src.Close())
}

// distinctSource drops elements whose key has been seen before.
type distinctSource[T any, K comparable] struct {
	src  Source[T]
	key  func(T) K
	seen map[K]struct{}
}

func (s *distinctSource[T, K]) Next(ctx context.Context) (T, bool, error) {
	var zero T
	for {
		value, ok, err := s.src.Next(ctx)
		if err != nil || !ok {
			return zero, false, err
		}
		k := s.key(value)
		if _, dup := s.seen[k]; dup {
			continue
		}
		s.seen[k] = struct{}{}
		return value, true, nil
	}
}

func (s *distinctSource[T, K]) Close() error {
	return s.src.Close()
}

// joinSource streams the outer side against a lookup prepared on the
// first pull.
type joinSource[T, R any] struct {
	outer   Source[T]
	prepare func(ctx context.Context) (func(T) []R, error)
	match   func(T) []R
	pending []R
}

func (s *joinSource[T, R]) Next(ctx context.Context) (R, bool, error) {
	var zero R
	if s.match == nil {
		match, err := s.prepare(ctx)
		if err != nil {
			return zero, false, err
		}
		s.match = match
	}
	for len(s.pending) == 0 {
		value, ok, err := s.outer.Next(ctx)
		if err != nil || !ok {
			return zero, false, err
		}
		s.pending = s.match(value)
	}
	r := s.pending[0]
	s.pending = s.pending[1:]
	return r, true, nil
}

func (s *joinSource[T, R]) Close() error {
	return s.outer.Close()
}
