package testutil

import (
	"context"
	"sync"
	"time"
)

// InstantTimer is an httpclient.Timer that returns at once, unless the
// context is already done, and records the requested waits.
type InstantTimer struct {
	mu    sync.Mutex
	waits []time.Duration
}

// Wait implements httpclient.Timer.
func (t *InstantTimer) Wait(ctx context.Context, d time.Duration) error {
	t.mu.Lock()
	t.waits = append(t.waits, d)
	t.mu.Unlock()
	return ctx.Err()
}

// Waits returns the durations passed to Wait.
func (t *InstantTimer) Waits() []time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]time.Duration, len(t.waits))
	copy(out, t.waits)
	return out
}
