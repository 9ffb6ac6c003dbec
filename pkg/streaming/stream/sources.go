package stream

import (
	"github.com/tidwall/gjson"
	"golang.org/x/exp/constraints"

	lferrors "github.com/vnykmshr/lazyflow/pkg/common/errors"
	"github.com/vnykmshr/lazyflow/pkg/common/validation"
	"github.com/vnykmshr/lazyflow/pkg/streaming/source"
)

// Number is the element type accepted by Range and RangeFrom.
type Number interface {
	constraints.Integer | constraints.Float
}

// Range returns start, start+step, ... up to but excluding end. A
// negative step counts down. A step pointing away from end gives an empty
// stream; a zero step fails. The stream also ends where the next value
// would overflow N.
func Range[N Number](start, end, step N) Stream[N] {
	if err := validation.ValidateNonZero(module, "step", float64(step)); err != nil {
		return failed[N](opError("Range", err))
	}
	return lazy(source.Flags{}, func(yield func(N) bool) {
		for v, ok := start, true; ok; v, ok = advance(v, step) {
			if (step > 0 && v >= end) || (step < 0 && v <= end) {
				return
			}
			if !yield(v) {
				return
			}
		}
	})
}

// RangeFrom returns the stream start, start+step, ... It is marked
// infinite, but for integer types it ends at the last value before the
// type overflows.
func RangeFrom[N Number](start, step N) Stream[N] {
	if err := validation.ValidateNonZero(module, "step", float64(step)); err != nil {
		return failed[N](opError("RangeFrom", err))
	}
	return lazy(source.Flags{Infinite: true}, func(yield func(N) bool) {
		for v, ok := start, true; ok; v, ok = advance(v, step) {
			if !yield(v) {
				return
			}
		}
	})
}

// advance returns v+step, or false when the sum does not move past v in
// the direction of step: an integer wrapped around, or a float step too
// small to change v.
func advance[N Number](v, step N) (N, bool) {
	next := v + step
	if (step > 0 && next <= v) || (step < 0 && next >= v) {
		return v, false
	}
	return next, true
}

// FromJSON returns a stream over the JSON array found at path in data. An
// empty path selects the document root. A path that matches nothing gives
// an empty stream and a non-array match gives a single element. Elements
// are decoded lazily as the stream is iterated.
func FromJSON(data []byte, path string) Stream[gjson.Result] {
	if !gjson.ValidBytes(data) {
		err := lferrors.NewValidationError(module, "data", len(data), "not valid JSON").
			WithHint("pass a complete JSON document")
		return failed[gjson.Result](opError("FromJSON", err))
	}

	var root gjson.Result
	if path == "" {
		root = gjson.ParseBytes(data)
	} else {
		root = gjson.GetBytes(data, path)
	}

	return lazy(source.Flags{}, func(yield func(gjson.Result) bool) {
		switch {
		case !root.Exists():
		case root.IsArray():
			root.ForEach(func(_, v gjson.Result) bool {
				return yield(v)
			})
		default:
			yield(root)
		}
	})
}
