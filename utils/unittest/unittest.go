package unittest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// DefaultReturnTimeout is a generous bound for in-memory operations that are
// expected to return almost immediately.
const DefaultReturnTimeout = 5 * time.Second

// RequireReturnsBefore requires that the given function returns before the
// duration expires.
func RequireReturnsBefore(t testing.TB, f func(), duration time.Duration, message string) {
	done := make(chan struct{})

	go func() {
		f()
		close(done)
	}()

	select {
	case <-time.After(duration):
		require.Fail(t, "function did not return in time", message)
	case <-done:
		return
	}
}
