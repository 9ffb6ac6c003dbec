package order

import (
	"cmp"
	"math"
	"math/big"
	"reflect"
	"sync"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Type precedence of the default order.
const (
	rankNil = iota
	rankBool
	rankNumber
	rankString
	rankTime
	rankComposite
	rankFunc
	rankOther
)

var (
	timeType    = reflect.TypeOf(time.Time{})
	bigIntType  = reflect.TypeOf((*big.Int)(nil))
	bigFltType  = reflect.TypeOf((*big.Float)(nil))
	bigRatType  = reflect.TypeOf((*big.Rat)(nil))
	rootOnce    sync.Once
	rootStrings *collator
)

// Compare is the default total order across heterogeneous values.
//
// Values are ranked nil < bool < numeric < string < time.Time < composite
// (array, slice, map, struct, pointer) < func and chan < anything else.
// Within a rank: false < true; every integer, float and math/big value is
// compared by numeric value regardless of representation, with NaN equal
// to every number; strings use root-locale collation; times compare by
// instant. Other same-rank pairs compare equal. Compare never panics.
func Compare(a, b any) int {
	rootOnce.Do(func() {
		rootStrings = newCollator(language.Und)
	})
	return compareWith(rootStrings, a, b)
}

// CompareIn returns a default-order comparator whose strings collate for
// the given locale.
func CompareIn(tag language.Tag, opts ...collate.Option) Comparator[any] {
	c := newCollator(tag, opts...)
	return func(a, b any) int {
		return compareWith(c, a, b)
	}
}

func compareWith(c *collator, a, b any) int {
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	ra, rb := rankOf(va), rankOf(vb)
	if ra != rb {
		return cmp.Compare(ra, rb)
	}

	switch ra {
	case rankBool:
		return compareBools(va.Bool(), vb.Bool())
	case rankNumber:
		return compareNumbers(va, vb)
	case rankString:
		return c.compare(va.String(), vb.String())
	case rankTime:
		return timeOf(va).Compare(timeOf(vb))
	}
	return 0
}

func rankOf(v reflect.Value) int {
	if !v.IsValid() {
		return rankNil
	}

	switch v.Type() {
	case timeType:
		return rankTime
	case bigIntType, bigFltType, bigRatType:
		if v.IsNil() {
			return rankNil
		}
		return rankNumber
	}

	switch v.Kind() {
	case reflect.Bool:
		return rankBool
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return rankNumber
	case reflect.String:
		return rankString
	case reflect.Pointer:
		if v.IsNil() {
			return rankNil
		}
		if v.Type().Elem() == timeType {
			return rankTime
		}
		return rankComposite
	case reflect.Slice, reflect.Map, reflect.Interface:
		if v.IsNil() {
			return rankNil
		}
		return rankComposite
	case reflect.Array, reflect.Struct:
		return rankComposite
	case reflect.Func, reflect.Chan:
		if v.IsNil() {
			return rankNil
		}
		return rankFunc
	default:
		return rankOther
	}
}

func compareBools(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	default:
		return 1
	}
}

func timeOf(v reflect.Value) time.Time {
	if v.Kind() == reflect.Pointer {
		v = v.Elem()
	}
	return v.Interface().(time.Time)
}

func compareNumbers(a, b reflect.Value) int {
	switch {
	case isInt(a) && isInt(b):
		return cmp.Compare(a.Int(), b.Int())
	case isUint(a) && isUint(b):
		return cmp.Compare(a.Uint(), b.Uint())
	case isFloat(a) && isFloat(b):
		x, y := a.Float(), b.Float()
		if math.IsNaN(x) || math.IsNaN(y) {
			return 0
		}
		return cmp.Compare(x, y)
	}

	if x, y, ok := asRats(a, b); ok {
		return x.Cmp(y)
	}

	x, ok := bigFloat(a)
	if !ok {
		return 0
	}
	y, ok := bigFloat(b)
	if !ok {
		return 0
	}
	return x.Cmp(y)
}

func isInt(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return true
	}
	return false
}

func isUint(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return true
	}
	return false
}

func isFloat(v reflect.Value) bool {
	return v.Kind() == reflect.Float32 || v.Kind() == reflect.Float64
}

// asRats compares exactly when either side is a *big.Rat and the other is
// an integer or a rational.
func asRats(a, b reflect.Value) (*big.Rat, *big.Rat, bool) {
	if a.Type() != bigRatType && b.Type() != bigRatType {
		return nil, nil, false
	}
	x, ok := bigRat(a)
	if !ok {
		return nil, nil, false
	}
	y, ok := bigRat(b)
	if !ok {
		return nil, nil, false
	}
	return x, y, true
}

func bigRat(v reflect.Value) (*big.Rat, bool) {
	switch v.Type() {
	case bigRatType:
		return v.Interface().(*big.Rat), true
	case bigIntType:
		return new(big.Rat).SetInt(v.Interface().(*big.Int)), true
	}
	switch {
	case isInt(v):
		return new(big.Rat).SetInt64(v.Int()), true
	case isUint(v):
		return new(big.Rat).SetInt(new(big.Int).SetUint64(v.Uint())), true
	}
	return nil, false
}

// bigFloat converts any numeric value exactly, except *big.Rat which is
// rounded to 256 bits. It returns false for NaN.
func bigFloat(v reflect.Value) (*big.Float, bool) {
	switch v.Type() {
	case bigFltType:
		return v.Interface().(*big.Float), true
	case bigIntType:
		return new(big.Float).SetInt(v.Interface().(*big.Int)), true
	case bigRatType:
		return new(big.Float).SetPrec(256).SetRat(v.Interface().(*big.Rat)), true
	}
	switch {
	case isInt(v):
		return new(big.Float).SetInt64(v.Int()), true
	case isUint(v):
		return new(big.Float).SetUint64(v.Uint()), true
	case isFloat(v):
		f := v.Float()
		if math.IsNaN(f) {
			return nil, false
		}
		return big.NewFloat(f), true
	}
	return nil, false
}

// collator serializes access to a collate.Collator, which keeps internal
// buffers and is not safe for concurrent use.
type collator struct {
	mu sync.Mutex
	c  *collate.Collator
}

func newCollator(tag language.Tag, opts ...collate.Option) *collator {
	return &collator{c: collate.New(tag, opts...)}
}

func (c *collator) compare(a, b string) int {
	if a == b {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.c.CompareString(a, b)
}
