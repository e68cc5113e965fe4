// Package timeouts provides centralized timeout values for remote calls.
//
// The transport layer owns retry-free, single-shot semantics; these values
// are the only budget a call gets. There is no backoff anywhere; a failed
// request surfaces once and waits for the user to retry.
package timeouts

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Default timeout values (used if Configure is not called).
const (
	DefaultMutate = 10 * time.Second
	DefaultList   = 15 * time.Second
	DefaultBatch  = 120 * time.Second
)

// mu protects all timeout values from concurrent access.
var mu sync.RWMutex

var (
	mutate = DefaultMutate
	list   = DefaultList
	batch  = DefaultBatch
)

// Mutate returns the timeout for single mutating calls (rename, trash,
// restore, delete, share, signed URL).
func Mutate() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return mutate
}

// List returns the timeout for listing and search calls.
func List() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return list
}

// Batch returns the timeout covering a whole upload batch.
func Batch() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return batch
}

// Config holds timeout configuration values.
type Config struct {
	Mutate time.Duration
	List   time.Duration
	Batch  time.Duration
}

// Configure sets custom timeout values. Zero fields keep their current value.
func Configure(cfg Config) {
	mu.Lock()
	defer mu.Unlock()
	if cfg.Mutate > 0 {
		mutate = cfg.Mutate
	}
	if cfg.List > 0 {
		list = cfg.List
	}
	if cfg.Batch > 0 {
		batch = cfg.Batch
	}
}

// Reset restores all timeouts to defaults.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	mutate = DefaultMutate
	list = DefaultList
	batch = DefaultBatch
}

// Current returns the current timeout configuration.
func Current() Config {
	mu.RLock()
	defer mu.RUnlock()
	return Config{Mutate: mutate, List: list, Batch: batch}
}

// WithTimeout creates a context with timeout and logs if the deadline hits.
func WithTimeout(parent context.Context, timeout time.Duration, log *zap.Logger, operation string) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(parent, timeout)
	return ctx, func() {
		if ctx.Err() == context.DeadlineExceeded && log != nil {
			log.Warn("operation timed out",
				zap.String("operation", operation),
				zap.Duration("timeout", timeout),
			)
		}
		cancel()
	}
}
