package watch

import (
	"testing"

	"go.uber.org/goleak"
)

// TestMain enables goroutine leak detection for all tests in the watch
// package, catching watchers left running after Close.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}
