package stream

import (
	"iter"
	"math"

	lferrors "github.com/vnykmshr/lazyflow/pkg/common/errors"
	"github.com/vnykmshr/lazyflow/pkg/common/validation"
	"github.com/vnykmshr/lazyflow/pkg/streaming/source"
)

const module = "stream"

// Unbounded is the count meaning "no limit" for Take, Skip and Repeat.
const Unbounded = math.MaxInt

// Stream is an immutable, lazily evaluated pipeline stage.
//
// A Stream holds a deferred source and its capability flags. Combinators
// return new stages wrapping the previous one; nothing is evaluated until
// a terminal operation pulls items through the chain. A stage may be
// iterated any number of times.
//
// A combinator that cannot be applied (a negative count, or a finite-only
// operation over an infinite stage) returns a failed stage. Every stage
// derived from a failed stage fails with the same error, and every terminal
// operation returns it. The zero Stream is an empty stream.
type Stream[T any] struct {
	desc source.Descriptor[T]
	err  error
}

func newStage[T any](flags source.Flags, produce func() source.Snapshot[T]) Stream[T] {
	return Stream[T]{desc: source.Descriptor[T]{Produce: produce, Flags: flags}}
}

// lazy returns a stage whose snapshot is the sequence seq.
func lazy[T any](flags source.Flags, seq iter.Seq[T]) Stream[T] {
	return newStage(flags, func() source.Snapshot[T] { return source.Seq(seq) })
}

func failed[T any](err error) Stream[T] {
	return Stream[T]{err: err}
}

func opError(op string, cause error) error {
	return lferrors.NewOperationError(module, op, cause)
}

// finite returns the failure for running op over s, if any.
func (s Stream[T]) finite(op string) error {
	if s.err != nil {
		return s.err
	}
	if s.desc.Flags.Infinite {
		return opError(op, lferrors.ErrNeverEnding)
	}
	return nil
}

func countError(op string, n int) error {
	if err := validation.ValidateCount(module, "count", n); err != nil {
		return opError(op, err)
	}
	return nil
}

func nilError(op, field string, fn any) error {
	if err := validation.ValidateNotNil(module, field, fn); err != nil {
		return opError(op, err)
	}
	return nil
}

// Err returns the error that failed this stage, if any.
func (s Stream[T]) Err() error {
	return s.err
}

// Flags returns the capability flags of this stage.
func (s Stream[T]) Flags() source.Flags {
	return s.desc.Flags
}

// All returns an iterator over the stage. The source is produced when
// iteration starts, not when All is called. A failed stage yields nothing;
// check Err.
func (s Stream[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		if s.err != nil {
			return
		}
		for v := range s.desc.Snapshot().All() {
			if !yield(v) {
				return
			}
		}
	}
}

func (s Stream[T]) snapshot() source.Snapshot[T] {
	return s.desc.Snapshot()
}

// From returns a stream over items. The slice is shared, not copied, so
// the stream is never fresh and ToSlice returns a copy.
func From[T any](items []T) Stream[T] {
	return newStage(source.Flags{}, func() source.Snapshot[T] { return source.Slice(items) })
}

// Of returns a stream over its arguments.
func Of[T any](items ...T) Stream[T] {
	return From(items)
}

// Empty returns a stream with no elements.
func Empty[T any]() Stream[T] {
	return Stream[T]{}
}

// FromSeq returns a stream over seq. seq must be re-iterable for the
// stream to be iterated more than once.
func FromSeq[T any](seq iter.Seq[T]) Stream[T] {
	if seq == nil {
		return failed[T](nilError("FromSeq", "seq", seq))
	}
	return lazy(source.Flags{}, seq)
}

// FromFunc returns a stream whose source is produced by fn on every
// iteration. The stage is marked expensive.
func FromFunc[T any](fn func() []T) Stream[T] {
	if err := nilError("FromFunc", "fn", fn); err != nil {
		return failed[T](err)
	}
	return newStage(source.Flags{Expensive: true}, func() source.Snapshot[T] { return source.Slice(fn()) })
}

// FromChannel returns a one-shot stream draining ch. A second iteration
// sees only what the first left behind.
func FromChannel[T any](ch <-chan T) Stream[T] {
	if ch == nil {
		return failed[T](nilError("FromChannel", "ch", ch))
	}
	return lazy(source.Flags{}, func(yield func(T) bool) {
		for v := range ch {
			if !yield(v) {
				return
			}
		}
	})
}

// Generate returns an infinite stream of fn(0), fn(1), ...
func Generate[T any](fn func(i int) T) Stream[T] {
	if err := nilError("Generate", "fn", fn); err != nil {
		return failed[T](err)
	}
	return lazy(source.Flags{Infinite: true}, func(yield func(T) bool) {
		for i := 0; ; i++ {
			if !yield(fn(i)) {
				return
			}
		}
	})
}

// GenerateN returns the stream fn(0), ..., fn(n-1). GenerateN with
// Unbounded is Generate.
func GenerateN[T any](fn func(i int) T, n int) Stream[T] {
	if err := countError("GenerateN", n); err != nil {
		return failed[T](err)
	}
	if n == Unbounded {
		return Generate(fn)
	}
	if err := nilError("GenerateN", "fn", fn); err != nil {
		return failed[T](err)
	}
	return lazy(source.Flags{}, func(yield func(T) bool) {
		for i := 0; i < n; i++ {
			if !yield(fn(i)) {
				return
			}
		}
	})
}

// Repeat returns a stream of n copies of item, or an infinite one when n
// is Unbounded.
func Repeat[T any](item T, n int) Stream[T] {
	if err := countError("Repeat", n); err != nil {
		return failed[T](err)
	}
	flags := source.Flags{Infinite: n == Unbounded}
	return lazy(flags, func(yield func(T) bool) {
		for i := 0; n == Unbounded || i < n; i++ {
			if !yield(item) {
				return
			}
		}
	})
}
