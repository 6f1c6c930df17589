package httpclient

import (
	"context"
	"time"

	"github.com/kbukum/restkit/status"
)

// Mock is a canned response played back instead of a transport exchange.
type Mock struct {
	Response MockResponse  `json:"response" yaml:"response" mapstructure:"response"`
	Delay    time.Duration `json:"delay" yaml:"delay" mapstructure:"delay"`
}

// MockResponse is the status and body a Mock resolves with.
type MockResponse struct {
	StatusCode int `json:"status_code" yaml:"status_code" mapstructure:"status_code"`
	Body       any `json:"body" yaml:"body" mapstructure:"body"`
}

// NewMock creates a mock descriptor.
func NewMock(statusCode int, body any, delay time.Duration) *Mock {
	return &Mock{
		Response: MockResponse{StatusCode: statusCode, Body: body},
		Delay:    delay,
	}
}

// Timer suspends a call for a mock delay.
type Timer interface {
	// Wait returns after d, or earlier with ctx.Err(). A non-positive d
	// returns immediately.
	Wait(ctx context.Context, d time.Duration) error
}

// TimerFunc adapts a function to Timer.
type TimerFunc func(ctx context.Context, d time.Duration) error

// Wait implements Timer.
func (f TimerFunc) Wait(ctx context.Context, d time.Duration) error {
	return f(ctx, d)
}

// SystemTimer waits on the wall clock.
type SystemTimer struct{}

// Wait implements Timer.
func (SystemTimer) Wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// playMock resolves a mock descriptor. The mock body is already a
// structured value and is returned verbatim.
func playMock(ctx context.Context, timer Timer, req Request) (*Payload, error) {
	m := req.Mock
	if m.Delay > 0 {
		if err := timer.Wait(ctx, m.Delay); err != nil {
			return nil, NewTimeoutError(location(req), err)
		}
	}

	code := m.Response.StatusCode
	if status.IsSuccessful(code) {
		if code == status.NoContent {
			return emptyPayload(), nil
		}
		return &Payload{Data: m.Response.Body}, nil
	}
	return nil, NewError(code, m.Response.Body, MetaMockError)
}

func location(req Request) string {
	return req.Method + " " + req.URL
}
