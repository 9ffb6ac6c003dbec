// Package context holds the cancellation check used at every suspension
// point of an asynchronous stream.
package context

import (
	"context"
)

// Check returns the cause of ctx's cancellation, or nil while ctx is live.
func Check(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return context.Cause(ctx)
	default:
		return nil
	}
}
