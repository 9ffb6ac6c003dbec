package stream

import (
	"testing"

	"go.uber.org/goleak"
)

// TestMain enables goroutine leak detection for all tests in this package.
// Zip and SequenceEquals pull their second input through iter.Pull, whose
// coroutine must be stopped on every exit path.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}
