// Package testutil provides shared helpers for tests: a fake in-memory
// drive server implementing the remote content API, plus context and
// session helpers.
package testutil

import (
	"context"
	"time"
)

// TestToken is the bearer token the fake drive accepts by default.
const TestToken = "test-token"

// TestContext returns a context with a timeout suitable for tests.
func TestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 10*time.Second)
}
