package testutil

import (
	"context"
	"testing"

	"github.com/kbukum/restkit/component"
)

// CleanupFunc stops what Setup started.
type CleanupFunc func() error

// Setup starts c and returns a function that stops it.
func Setup(c component.Component) (CleanupFunc, error) {
	return SetupWithContext(context.Background(), c)
}

// SetupWithContext starts c with ctx and returns a function that stops it.
func SetupWithContext(ctx context.Context, c component.Component) (CleanupFunc, error) {
	if err := c.Start(ctx); err != nil {
		return nil, err
	}
	return func() error { return c.Stop(ctx) }, nil
}

// THelper ties component lifecycles to a test.
type THelper struct {
	t   testing.TB
	ctx context.Context
}

// T wraps t.
func T(t testing.TB) *THelper {
	return &THelper{t: t, ctx: context.Background()}
}

// WithContext sets the context passed to Start and Stop.
func (h *THelper) WithContext(ctx context.Context) *THelper {
	h.ctx = ctx
	return h
}

// Setup starts c, failing the test on error, and stops it on cleanup.
func (h *THelper) Setup(c component.Component) {
	h.t.Helper()
	cleanup, err := SetupWithContext(h.ctx, c)
	if err != nil {
		h.t.Fatalf("testutil: start %s: %v", c.Name(), err)
	}
	h.t.Cleanup(func() {
		if err := cleanup(); err != nil {
			h.t.Errorf("testutil: stop %s: %v", c.Name(), err)
		}
	})
}
