// Package validation provides common validation utilities for arguments
// passed to stream constructors and combinators.
//
// Every validator returns a *errors.ValidationError, which unwraps to
// errors.ErrInvalidArgument.
package validation
