package httpclient_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/kbukum/restkit/component"
	"github.com/kbukum/restkit/httpclient"
	"github.com/kbukum/restkit/logger"
	"github.com/kbukum/restkit/testutil"
)

func TestComponentLifecycle(t *testing.T) {
	rt := testutil.NewRecordingTransport(testutil.TextResponse(200, "ok"))
	c := httpclient.NewComponent(httpclient.Config{Name: "billing", Timeout: 5 * time.Second},
		httpclient.WithTransport(rt), httpclient.WithLogger(logger.Nop()))

	if c.Name() != "billing" {
		t.Errorf("Name = %q", c.Name())
	}
	if h := c.Health(context.Background()); h.Status != component.StatusUnhealthy {
		t.Errorf("status before start = %s", h.Status)
	}

	testutil.T(t).Setup(c)

	if h := c.Health(context.Background()); h.Status != component.StatusHealthy || h.Name != "billing" {
		t.Errorf("health = %+v", h)
	}
	if _, err := c.Client().Get(context.Background(), "u"); err != nil {
		t.Fatal(err)
	}
	if rt.Count() != 1 {
		t.Errorf("transport calls = %d", rt.Count())
	}
}

func TestComponentStartFails(t *testing.T) {
	c := httpclient.NewComponent(httpclient.Config{TLS: &httpclient.TLSConfig{CertFile: "only-cert.pem"}})
	if err := c.Start(context.Background()); err == nil {
		t.Error("expected start error for invalid config")
	}
	if c.Client() != nil {
		t.Error("client must stay nil after a failed start")
	}
	if err := c.Stop(context.Background()); err != nil {
		t.Errorf("Stop before start: %v", err)
	}
}

func TestComponentDescribe(t *testing.T) {
	d := httpclient.NewComponent(httpclient.Config{Timeout: 2 * time.Second, TLS: &httpclient.TLSConfig{SkipVerify: true}}).Describe()
	if d.Name != "http" || d.Type != "http-client" {
		t.Errorf("description = %+v", d)
	}
	if !strings.Contains(d.Details, "timeout=2s") || !strings.Contains(d.Details, "tls") {
		t.Errorf("details = %q", d.Details)
	}
}

func TestComponentInRegistry(t *testing.T) {
	reg := component.NewRegistry(logger.Nop())
	c := httpclient.NewComponent(httpclient.Config{}, httpclient.WithTransport(testutil.NewRecordingTransport(nil)))
	if err := reg.Register(c); err != nil {
		t.Fatal(err)
	}
	if err := reg.StartAll(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer func() { _ = reg.StopAll(context.Background()) }()

	health := reg.HealthAll(context.Background())
	if len(health) != 1 || health[0].Status != component.StatusHealthy {
		t.Errorf("health = %+v", health)
	}
}
