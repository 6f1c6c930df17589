package testutil

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/kbukum/restkit/component"
	"github.com/kbukum/restkit/httpclient"
)

func TestRecordingTransport(t *testing.T) {
	rt := NewRecordingTransport(JSONResponse(http.StatusOK, `{"ok":true}`))

	req := &httpclient.WireRequest{
		Method: http.MethodPost,
		URL:    "https://api.test/widgets/",
		Header: http.Header{"X-Trace": {"1"}},
		Body:   []byte(`{}`),
	}
	resp, err := rt.Exchange(context.Background(), req)
	if err != nil {
		t.Fatalf("Exchange: %v", err)
	}
	if resp.StatusCode != http.StatusOK || !resp.IsJSON() {
		t.Errorf("unexpected response %d %v", resp.StatusCode, resp.ContentTypes())
	}

	req.Header.Set("X-Trace", "mutated")
	if got := rt.Last().Header.Get("X-Trace"); got != "1" {
		t.Errorf("recorded header should be a copy, got %q", got)
	}
	if rt.Count() != 1 || len(rt.Calls()) != 1 {
		t.Errorf("Count() = %d", rt.Count())
	}
}

func TestRecordingTransportDefaultsAndFailures(t *testing.T) {
	rt := NewRecordingTransport(nil)
	if rt.Last() != nil {
		t.Error("expected no last request")
	}
	resp, err := rt.Exchange(context.Background(), &httpclient.WireRequest{Method: "GET"})
	if err != nil || resp.StatusCode != http.StatusNoContent {
		t.Errorf("default responder = %v, %v", resp, err)
	}

	boom := errors.New("connection refused")
	failing := NewRecordingTransport(Fail(boom))
	if _, err := failing.Exchange(context.Background(), &httpclient.WireRequest{}); !errors.Is(err, boom) {
		t.Errorf("expected %v, got %v", boom, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := rt.Exchange(ctx, &httpclient.WireRequest{}); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestInstantTimer(t *testing.T) {
	var timer InstantTimer
	if err := timer.Wait(context.Background(), time.Hour); err != nil {
		t.Fatalf("Wait: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := timer.Wait(ctx, time.Second); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}

	waits := timer.Waits()
	if len(waits) != 2 || waits[0] != time.Hour {
		t.Errorf("Waits() = %v", waits)
	}
}

type lifecycle struct {
	started, stopped bool
	startErr         error
}

func (l *lifecycle) Name() string                          { return "fake" }
func (l *lifecycle) Start(context.Context) error           { l.started = true; return l.startErr }
func (l *lifecycle) Stop(context.Context) error            { l.stopped = true; return nil }
func (l *lifecycle) Health(context.Context) component.Health { return component.Health{Name: "fake"} }

func TestSetup(t *testing.T) {
	c := &lifecycle{}
	cleanup, err := Setup(c)
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	if !c.started {
		t.Error("expected started")
	}
	if err := cleanup(); err != nil || !c.stopped {
		t.Errorf("cleanup = %v, stopped = %v", err, c.stopped)
	}

	if _, err := Setup(&lifecycle{startErr: errors.New("nope")}); err == nil {
		t.Error("expected start error")
	}
}

func TestTHelperStopsOnCleanup(t *testing.T) {
	c := &lifecycle{}
	t.Run("inner", func(t *testing.T) {
		T(t).Setup(c)
		if !c.started {
			t.Error("expected started")
		}
	})
	if !c.stopped {
		t.Error("expected component stopped after subtest cleanup")
	}
}
