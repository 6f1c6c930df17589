package httpclient_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/kbukum/restkit/httpclient"
	"github.com/kbukum/restkit/logger"
	"github.com/kbukum/restkit/security/tlstest"
	"github.com/kbukum/restkit/testutil"
)

func newClient(t *testing.T, cfg httpclient.Config, transport httpclient.Transport, opts ...httpclient.Option) *httpclient.Client {
	t.Helper()
	opts = append([]httpclient.Option{
		httpclient.WithTransport(transport),
		httpclient.WithLogger(logger.Nop()),
	}, opts...)
	c, err := httpclient.New(cfg, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func TestClientGetJSON(t *testing.T) {
	rt := testutil.NewRecordingTransport(testutil.JSONResponse(200, `{"items":[1,2]}`))
	c := newClient(t, httpclient.Config{}, rt)

	p, err := c.Get(context.Background(), "https://api.test/widgets/?page=1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	var out struct {
		Items []int `json:"items"`
	}
	if err := p.Decode(&out); err != nil {
		t.Fatal(err)
	}
	if len(out.Items) != 2 {
		t.Errorf("items = %v", out.Items)
	}

	req := rt.Last()
	if req.Method != http.MethodGet || req.URL != "https://api.test/widgets/?page=1" {
		t.Errorf("sent %s %s", req.Method, req.URL)
	}
	if req.Body != nil {
		t.Errorf("GET must not carry a body, got %q", req.Body)
	}
	if ct := req.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
}

func TestClientBodies(t *testing.T) {
	tests := []struct {
		name     string
		call     func(c *httpclient.Client) error
		method   string
		wantBody string
	}{
		{"post", func(c *httpclient.Client) error {
			_, err := c.Post(context.Background(), "u", map[string]any{"a": 1})
			return err
		}, "POST", `{"a":1}`},
		{"put", func(c *httpclient.Client) error {
			_, err := c.Put(context.Background(), "u", map[string]any{})
			return err
		}, "PUT", `{}`},
		{"patch nil data", func(c *httpclient.Client) error {
			_, err := c.Patch(context.Background(), "u", nil)
			return err
		}, "PATCH", ""},
		{"delete", func(c *httpclient.Client) error {
			_, err := c.Delete(context.Background(), "u")
			return err
		}, "DELETE", ""},
		{"get ignores data", func(c *httpclient.Client) error {
			_, err := c.Do(context.Background(), httpclient.Request{Method: "get", URL: "u", Data: "x"})
			return err
		}, "GET", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rt := testutil.NewRecordingTransport(nil)
			c := newClient(t, httpclient.Config{}, rt)
			if err := tc.call(c); err != nil {
				t.Fatalf("call: %v", err)
			}
			req := rt.Last()
			if req.Method != tc.method {
				t.Errorf("method = %q", req.Method)
			}
			if string(req.Body) != tc.wantBody {
				t.Errorf("body = %q, want %q", req.Body, tc.wantBody)
			}
		})
	}
}

func TestClientHeaderPrecedence(t *testing.T) {
	rt := testutil.NewRecordingTransport(nil)
	c := newClient(t, httpclient.Config{
		Headers:         map[string]string{"X-Tenant": "acme", "Accept": "application/json", "Content-Type": "application/vnd.api+json"},
		RequestIDHeader: "X-Request-ID",
	}, rt)

	_, err := c.Get(context.Background(), "u",
		httpclient.WithHeader("X-Tenant", "globex"),
		httpclient.WithHeader("Authorization", "JWT t"))
	if err != nil {
		t.Fatal(err)
	}

	h := rt.Last().Header
	tests := map[string]string{
		"X-Tenant":      "globex",
		"Accept":        "application/json",
		"Content-Type":  "application/vnd.api+json",
		"Authorization": "JWT t",
	}
	for k, want := range tests {
		if got := h.Get(k); got != want {
			t.Errorf("%s = %q, want %q", k, got, want)
		}
	}
	if h.Get("X-Request-ID") == "" {
		t.Error("expected a request id header")
	}
}

func TestClientRequestIDsDiffer(t *testing.T) {
	rt := testutil.NewRecordingTransport(nil)
	c := newClient(t, httpclient.Config{RequestIDHeader: "X-Request-ID"}, rt)
	for i := 0; i < 2; i++ {
		if _, err := c.Get(context.Background(), "u"); err != nil {
			t.Fatal(err)
		}
	}
	calls := rt.Calls()
	if calls[0].Header.Get("X-Request-ID") == calls[1].Header.Get("X-Request-ID") {
		t.Error("expected a fresh id per call")
	}
}

func TestClientTransportFailure(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	c := newClient(t, httpclient.Config{}, testutil.NewRecordingTransport(testutil.Fail(cause)))

	_, err := c.Delete(context.Background(), "https://api.test/widgets/1/")
	if !httpclient.IsTimeout(err) {
		t.Fatalf("expected synthetic timeout, got %v", err)
	}
	if !errors.Is(err, cause) {
		t.Error("expected transport cause")
	}
	e, _ := httpclient.AsError(err)
	if e.StatusCode != 504 || e.Meta != httpclient.MetaSynthetic {
		t.Errorf("got %d %q", e.StatusCode, e.Meta)
	}
	fields, _ := e.Fields()
	if fields["location"] != "DELETE https://api.test/widgets/1/" {
		t.Errorf("location = %v", fields["location"])
	}
}

func TestClientErrorResponse(t *testing.T) {
	rt := testutil.NewRecordingTransport(testutil.JSONResponse(409, `{"detail":"conflict"}`))
	c := newClient(t, httpclient.Config{}, rt)

	p, err := c.Post(context.Background(), "u", map[string]any{})
	if p != nil {
		t.Error("error responses must not yield a payload")
	}
	e, ok := httpclient.AsError(err)
	if !ok {
		t.Fatalf("expected *Error, got %v", err)
	}
	if e.StatusCode != 409 || e.Description != "Conflict" || e.Meta != httpclient.MetaJSONError {
		t.Errorf("got %d %q %q", e.StatusCode, e.Description, e.Meta)
	}
}

func TestClientMockSkipsTransport(t *testing.T) {
	rt := testutil.NewRecordingTransport(nil)
	timer := &testutil.InstantTimer{}
	c := newClient(t, httpclient.Config{}, rt, httpclient.WithTimer(timer))

	mock := httpclient.NewMock(200, map[string]any{"mocked": true}, 50*time.Millisecond)
	p, err := c.Get(context.Background(), "u", httpclient.WithMock(mock))
	if err != nil {
		t.Fatal(err)
	}
	if rt.Count() != 0 {
		t.Errorf("transport called %d times", rt.Count())
	}
	if m, _ := p.Data.(map[string]any); m["mocked"] != true {
		t.Errorf("Data = %v", p.Data)
	}
	if waits := timer.Waits(); len(waits) != 1 || waits[0] != 50*time.Millisecond {
		t.Errorf("waits = %v", waits)
	}
}

func TestClientMockCancelled(t *testing.T) {
	c := newClient(t, httpclient.Config{}, testutil.NewRecordingTransport(nil), httpclient.WithTimer(&testutil.InstantTimer{}))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Get(ctx, "u", httpclient.WithMock(httpclient.NewMock(200, nil, time.Second)))
	if !httpclient.IsTimeout(err) {
		t.Errorf("expected synthetic timeout, got %v", err)
	}
}

func TestGo(t *testing.T) {
	c := newClient(t, httpclient.Config{}, testutil.NewRecordingTransport(testutil.TextResponse(200, "pong")))

	ch := httpclient.Go(context.Background(), func(ctx context.Context) (*httpclient.Payload, error) {
		return c.Get(ctx, "u")
	})
	res := <-ch
	if res.Err != nil {
		t.Fatal(res.Err)
	}
	if res.Payload.Text != "pong" {
		t.Errorf("Text = %q", res.Payload.Text)
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	_, err := httpclient.New(httpclient.Config{TLS: &httpclient.TLSConfig{KeyFile: "k.pem"}})
	if err == nil {
		t.Error("expected validation error")
	}
}

func TestDefault(t *testing.T) {
	a, b := httpclient.Default(), httpclient.Default()
	if a != b {
		t.Error("Default must return a shared client")
	}
	if a.GetConfig().Timeout != 30*time.Second {
		t.Errorf("Timeout = %v", a.GetConfig().Timeout)
	}
}

func echoHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"method": r.Method,
			"proto":  r.ProtoMajor,
			"body":   string(body),
			"tenant": r.Header.Get("X-Tenant"),
		})
	}
}

func TestHTTPTransport(t *testing.T) {
	srv := httptest.NewServer(echoHandler())
	defer srv.Close()

	c, err := httpclient.New(httpclient.Config{Headers: map[string]string{"X-Tenant": "acme"}},
		httpclient.WithLogger(logger.Nop()))
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	p, err := c.Post(context.Background(), srv.URL+"/widgets/", map[string]any{"n": 1})
	if err != nil {
		t.Fatalf("Post: %v", err)
	}
	m := p.Data.(map[string]any)
	if m["method"] != "POST" || m["body"] != `{"n":1}` || m["tenant"] != "acme" {
		t.Errorf("echo = %v", m)
	}
}

func TestHTTPTransportTLS(t *testing.T) {
	certs := tlstest.Generate(t)
	srv := httptest.NewUnstartedServer(echoHandler())
	srv.EnableHTTP2 = true
	srv.StartTLS()
	defer srv.Close()

	// The generated CA did not sign the httptest certificate.
	c, err := httpclient.New(httpclient.Config{TLS: &httpclient.TLSConfig{CAFile: certs.CAFile}},
		httpclient.WithLogger(logger.Nop()))
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	_, err = c.Get(context.Background(), srv.URL+"/")
	if !httpclient.IsTimeout(err) {
		t.Fatalf("expected handshake failure as synthetic timeout, got %v", err)
	}

	insecure, err := httpclient.New(httpclient.Config{TLS: &httpclient.TLSConfig{SkipVerify: true}},
		httpclient.WithLogger(logger.Nop()))
	if err != nil {
		t.Fatal(err)
	}
	defer insecure.Close()

	p, err := insecure.Get(context.Background(), srv.URL+"/")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if m := p.Data.(map[string]any); m["proto"] != float64(2) {
		t.Errorf("expected HTTP/2, got proto %v", m["proto"])
	}
}

func TestHTTPTransportH2C(t *testing.T) {
	srv := httptest.NewServer(h2c.NewHandler(echoHandler(), &http2.Server{}))
	defer srv.Close()

	c, err := httpclient.New(httpclient.Config{H2C: true}, httpclient.WithLogger(logger.Nop()))
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	p, err := c.Put(context.Background(), srv.URL+"/widgets/1/", map[string]any{})
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	m := p.Data.(map[string]any)
	if m["proto"] != float64(2) || m["method"] != "PUT" {
		t.Errorf("echo = %v", m)
	}
}

func TestHTTPTransportTimeout(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-block:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(block)

	c, err := httpclient.New(httpclient.Config{Timeout: 20 * time.Millisecond}, httpclient.WithLogger(logger.Nop()))
	if err != nil {
		t.Fatal(err)
	}
	_, err = c.Get(context.Background(), srv.URL)
	if !httpclient.IsTimeout(err) {
		t.Errorf("expected synthetic timeout, got %v", err)
	}
	if err != nil && !strings.Contains(err.Error(), "504") {
		t.Errorf("unexpected message %q", err.Error())
	}
}
