package async

import (
	"context"
	"errors"

	lferrors "github.com/vnykmshr/lazyflow/pkg/common/errors"
	"github.com/vnykmshr/lazyflow/pkg/instrument"
)

// Terminal operations open a source, pull it on the caller's goroutine and
// always close it before returning. Errors raised while pulling (including
// cancellation of ctx) are wrapped in an OperationError for the terminal.

func done(op string, items int, err error) error {
	if err != nil {
		instrument.Failure(module+"."+op, err)
		return err
	}
	instrument.Terminal(module+"."+op, items)
	return nil
}

// drive pulls s until visit returns false or the source is exhausted, and
// returns how many elements were pulled. The caller reports the outcome.
func (s Stream[T]) drive(ctx context.Context, op string, visit func(T) (bool, error)) (int, error) {
	if s.err != nil {
		return 0, s.err
	}
	src := s.iterate()
	n := 0
	err := func() error {
		for {
			v, ok, err := src.Next(ctx)
			if err != nil || !ok {
				return err
			}
			n++
			more, err := visit(v)
			if err != nil || !more {
				return err
			}
		}
	}()
	if cerr := src.Close(); cerr != nil {
		err = errors.Join(err, cerr)
	}
	if err != nil {
		return n, opError(op, err)
	}
	return n, nil
}

// ToSlice collects every element.
func (s Stream[T]) ToSlice(ctx context.Context) ([]T, error) {
	if s.err != nil {
		return nil, done("ToSlice", 0, s.err)
	}
	items, err := s.materialize(ctx, "ToSlice")
	if err != nil {
		return nil, done("ToSlice", 0, opError("ToSlice", err))
	}
	if items == nil {
		items = []T{}
	}
	return items, done("ToSlice", len(items), nil)
}

// Count returns the number of elements.
func (s Stream[T]) Count(ctx context.Context) (int, error) {
	n, err := s.drive(ctx, "Count", func(T) (bool, error) { return true, nil })
	if err != nil {
		return 0, done("Count", n, err)
	}
	return n, done("Count", n, nil)
}

// ForEach calls fn with every element in order. fn is awaited before the
// next element is pulled.
func (s Stream[T]) ForEach(ctx context.Context, fn func(context.Context, T) error) error {
	if err := nilError("ForEach", "fn", fn); err != nil && s.err == nil {
		return done("ForEach", 0, err)
	}
	n, err := s.drive(ctx, "ForEach", func(v T) (bool, error) {
		return true, fn(ctx, v)
	})
	return done("ForEach", n, err)
}

// Reduce combines the elements left to right. A single element is
// returned without calling fn; an empty stream gives ErrEmptySource.
func (s Stream[T]) Reduce(ctx context.Context, fn func(ctx context.Context, acc, v T) (T, error)) (T, error) {
	var acc, zero T
	if err := nilError("Reduce", "fn", fn); err != nil && s.err == nil {
		return zero, done("Reduce", 0, err)
	}
	seeded := false
	n, err := s.drive(ctx, "Reduce", func(v T) (bool, error) {
		if !seeded {
			acc, seeded = v, true
			return true, nil
		}
		next, err := fn(ctx, acc, v)
		if err != nil {
			return false, err
		}
		acc = next
		return true, nil
	})
	if err == nil && n == 0 {
		err = opError("Reduce", lferrors.ErrEmptySource)
	}
	if err != nil {
		return zero, done("Reduce", n, err)
	}
	return acc, done("Reduce", n, nil)
}

// Fold combines the elements left to right starting from initial.
func Fold[T, A any](ctx context.Context, s Stream[T], initial A, fn func(ctx context.Context, acc A, v T) (A, error)) (A, error) {
	if err := nilError("Fold", "fn", fn); err != nil && s.err == nil {
		return initial, done("Fold", 0, err)
	}
	acc := initial
	n, err := s.drive(ctx, "Fold", func(v T) (bool, error) {
		next, err := fn(ctx, acc, v)
		if err != nil {
			return false, err
		}
		acc = next
		return true, nil
	})
	if err != nil {
		return initial, done("Fold", n, err)
	}
	return acc, done("Fold", n, nil)
}

// First returns the first element, pulling nothing after it.
func (s Stream[T]) First(ctx context.Context) (T, error) {
	var first T
	n, err := s.drive(ctx, "First", func(v T) (bool, error) {
		first = v
		return false, nil
	})
	if err == nil && n == 0 {
		err = opError("First", lferrors.ErrEmptySource)
	}
	return first, done("First", n, err)
}

// Any reports whether pred holds for some element. It stops at the first
// match.
func (s Stream[T]) Any(ctx context.Context, pred func(context.Context, T) (bool, error)) (bool, error) {
	if err := nilError("Any", "pred", pred); err != nil && s.err == nil {
		return false, done("Any", 0, err)
	}
	found := false
	n, err := s.drive(ctx, "Any", func(v T) (bool, error) {
		ok, err := pred(ctx, v)
		found = ok
		return !ok, err
	})
	return found && err == nil, done("Any", n, err)
}

// Every reports whether pred holds for all elements. It stops at the first
// element that fails; an empty stream gives true.
func (s Stream[T]) Every(ctx context.Context, pred func(context.Context, T) (bool, error)) (bool, error) {
	if err := nilError("Every", "pred", pred); err != nil && s.err == nil {
		return false, done("Every", 0, err)
	}
	all := true
	n, err := s.drive(ctx, "Every", func(v T) (bool, error) {
		ok, err := pred(ctx, v)
		all = ok
		return ok, err
	})
	return all && err == nil, done("Every", n, err)
}

// ToMap collects the elements into a map. Later elements overwrite
// earlier ones with the same key.
func ToMap[T any, K comparable, V any](ctx context.Context, s Stream[T], key func(T) K, value func(T) V) (map[K]V, error) {
	if s.err == nil {
		if err := nilError("ToMap", "key", key); err != nil {
			return nil, done("ToMap", 0, err)
		}
		if err := nilError("ToMap", "value", value); err != nil {
			return nil, done("ToMap", 0, err)
		}
	}
	out := make(map[K]V)
	n, err := s.drive(ctx, "ToMap", func(v T) (bool, error) {
		out[key(v)] = value(v)
		return true, nil
	})
	if err != nil {
		return nil, done("ToMap", n, err)
	}
	return out, done("ToMap", n, nil)
}
