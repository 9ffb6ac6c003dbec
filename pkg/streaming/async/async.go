package async

import (
	"context"
	"errors"
	"iter"

	lferrors "github.com/vnykmshr/lazyflow/pkg/common/errors"
	"github.com/vnykmshr/lazyflow/pkg/common/validation"
	"github.com/vnykmshr/lazyflow/pkg/instrument"
	"github.com/vnykmshr/lazyflow/pkg/streaming/source"
	"github.com/vnykmshr/lazyflow/pkg/streaming/stream"
)

const module = "async"

// Source is a pull iterator over asynchronously produced elements.
type Source[T any] interface {
	// Next returns the next element and true, or the zero value and false
	// once the source is exhausted. It returns an error when ctx is done.
	Next(ctx context.Context) (T, bool, error)
	// Close releases resources held by the source.
	Close() error
}

// Stream is an immutable, lazily evaluated asynchronous pipeline stage.
//
// Each terminal operation opens a fresh Source from the stage, pulls it
// to completion (or until it is no longer needed) and closes it. Elements
// are observed in source order; callbacks run one element at a time.
// Failed stages behave as in package stream: the error is carried by
// every derived stage and returned by the terminal operation.
type Stream[T any] struct {
	open  func() Source[T]
	flags source.Flags
	err   error
}

// New returns a stream that calls open for every iteration.
func New[T any](open func() Source[T]) Stream[T] {
	if err := nilError("New", "open", open); err != nil {
		return failed[T](err)
	}
	return Stream[T]{open: open}
}

func failed[T any](err error) Stream[T] {
	return Stream[T]{err: err}
}

func opError(op string, cause error) error {
	return lferrors.NewOperationError(module, op, cause)
}

func nilError(op, field string, fn any) error {
	if err := validation.ValidateNotNil(module, field, fn); err != nil {
		return opError(op, err)
	}
	return nil
}

func countError(op string, n int) error {
	if err := validation.ValidateCount(module, "count", n); err != nil {
		return opError(op, err)
	}
	return nil
}

// iterate opens a new source over the stage.
func (s Stream[T]) iterate() Source[T] {
	if s.open == nil {
		return emptySource[T]{}
	}
	return s.open()
}

// Err returns the error that failed this stage, if any.
func (s Stream[T]) Err() error {
	return s.err
}

// Flags returns the capability flags of this stage. Asynchronous stages
// never carry the infinite taint.
func (s Stream[T]) Flags() source.Flags {
	return s.flags
}

// materialize drains the stage into a slice the caller owns.
func (s Stream[T]) materialize(ctx context.Context, op string) ([]T, error) {
	src := s.iterate()
	if ls, ok := src.(*loadSource[T]); ok && s.flags.Fresh && !ls.loaded {
		items, err := ls.load(ctx)
		if err == nil {
			instrument.Reused(module+"."+op, len(items))
		}
		return items, errors.Join(err, src.Close())
	}
	var items []T
	for {
		v, ok, err := src.Next(ctx)
		if err != nil {
			return nil, errors.Join(err, src.Close())
		}
		if !ok {
			break
		}
		items = append(items, v)
	}
	return items, src.Close()
}

// deferred returns a stage whose elements are loaded in one step on the
// first pull of each iteration.
func deferred[T any](flags source.Flags, load func(ctx context.Context) ([]T, error)) Stream[T] {
	return Stream[T]{
		open:  func() Source[T] { return &loadSource[T]{load: load} },
		flags: flags,
	}
}

// FromSlice returns a stream over items. The slice is shared, not copied.
func FromSlice[T any](items []T) Stream[T] {
	return Stream[T]{open: func() Source[T] { return &sliceSource[T]{items: items} }}
}

// Of returns a stream over its arguments.
func Of[T any](items ...T) Stream[T] {
	return FromSlice(items)
}

// Empty returns a stream with no elements.
func Empty[T any]() Stream[T] {
	return Stream[T]{}
}

// FromChannel returns a one-shot stream receiving from ch until it is closed.
func FromChannel[T any](ch <-chan T) Stream[T] {
	if ch == nil {
		return failed[T](nilError("FromChannel", "ch", ch))
	}
	return Stream[T]{open: func() Source[T] { return &channelSource[T]{ch: ch} }}
}

// FromSource returns a one-shot stream over src. The first terminal
// operation consumes and closes src; later ones see an empty stream.
func FromSource[T any](src Source[T]) Stream[T] {
	if err := nilError("FromSource", "src", src); err != nil {
		return failed[T](err)
	}
	once := &onceSource[T]{src: src}
	return Stream[T]{open: once.take}
}

// FromFunc returns a stream whose elements are loaded by fn on the first
// pull of every iteration. The stage is marked expensive.
func FromFunc[T any](fn func(ctx context.Context) ([]T, error)) Stream[T] {
	if err := nilError("FromFunc", "fn", fn); err != nil {
		return failed[T](err)
	}
	return deferred(source.Flags{Expensive: true}, fn)
}

// FromSeq returns a stream pulling from seq.
func FromSeq[T any](seq iter.Seq[T]) Stream[T] {
	if seq == nil {
		return failed[T](nilError("FromSeq", "seq", seq))
	}
	return Stream[T]{open: func() Source[T] {
		next, stop := iter.Pull(seq)
		return &pullSource[T]{next: next, stop: stop}
	}}
}

// FromStream returns an asynchronous view of a synchronous stream. A
// failed stream gives a failed stage; an infinite one is only bounded by
// Take or by cancellation.
func FromStream[T any](s stream.Stream[T]) Stream[T] {
	if err := s.Err(); err != nil {
		return failed[T](err)
	}
	out := FromSeq(s.All())
	out.flags = source.Flags{Expensive: s.Flags().Expensive}
	return out
}

// Generate returns an unbounded stream of fn(ctx, 0), fn(ctx, 1), ...
// Bound it with Take or by canceling the context.
func Generate[T any](fn func(ctx context.Context, i int) (T, error)) Stream[T] {
	if err := nilError("Generate", "fn", fn); err != nil {
		return failed[T](err)
	}
	return Stream[T]{open: func() Source[T] { return &generatorSource[T]{fn: fn} }}
}
