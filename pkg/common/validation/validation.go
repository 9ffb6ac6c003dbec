// Package validation provides common validation utilities for the lazyflow library.
package validation

import (
	"math"
	"reflect"

	lferrors "github.com/vnykmshr/lazyflow/pkg/common/errors"
)

// ValidateCount validates that a count is non-negative.
// Returns a ValidationError if the count is negative.
func ValidateCount(module, field string, n int) error {
	if n < 0 {
		return lferrors.NewValidationError(module, field, n, "cannot be negative").
			WithHint("use 0 or a positive count")
	}
	return nil
}

// ValidateNonZero validates that a step value is finite and not zero.
// Returns a ValidationError otherwise.
func ValidateNonZero(module, field string, value float64) error {
	if value == 0 || math.IsNaN(value) {
		return lferrors.NewValidationError(module, field, value, "cannot be zero").
			WithHint("use a positive or negative step")
	}
	if math.IsInf(value, 0) {
		return lferrors.NewValidationError(module, field, value, "must be finite")
	}
	return nil
}

// ValidateNotNil validates that an interface value is not nil.
// Typed nil funcs, pointers, maps, slices and channels count as nil.
// Returns a ValidationError if the value is nil.
func ValidateNotNil(module, field string, value interface{}) error {
	if value == nil || isNil(value) {
		return lferrors.NewValidationError(module, field, nil, "cannot be nil").
			WithHint("provide a valid " + field)
	}
	return nil
}

func isNil(value interface{}) bool {
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Func, reflect.Pointer, reflect.Map, reflect.Slice, reflect.Chan, reflect.Interface:
		return v.IsNil()
	}
	return false
}
