package httpclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/restkit/logger"
	"github.com/kbukum/restkit/observability"
	"github.com/kbukum/restkit/status"
)

// Client dispatches requests through a Transport, or plays back mocks, and
// resolves every outcome into a *Payload or an *Error.
// A Client is safe for concurrent use; calls share no mutable state.
type Client struct {
	config    Config
	transport Transport
	timer     Timer
	log       *logger.Logger
	metrics   *observability.Metrics
}

// Option configures a Client.
type Option func(*Client)

// WithTransport replaces the default net/http transport.
func WithTransport(t Transport) Option {
	return func(c *Client) { c.transport = t }
}

// WithTimer replaces the wall-clock timer used for mock delays.
func WithTimer(t Timer) Option {
	return func(c *Client) { c.timer = t }
}

// WithLogger sets the client logger.
func WithLogger(l *logger.Logger) Option {
	return func(c *Client) { c.log = l }
}

// WithMetrics records dispatch metrics on m.
func WithMetrics(m *observability.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// New creates a new client with the given configuration.
func New(cfg Config, opts ...Option) (*Client, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Client{
		config: cfg,
		timer:  SystemTimer{},
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.transport == nil {
		t, err := NewHTTPTransport(cfg)
		if err != nil {
			return nil, err
		}
		c.transport = t
	}
	if c.log == nil {
		c.log = logger.WithComponent("httpclient")
	}

	return c, nil
}

var (
	defaultClient     *Client
	defaultClientErr  error
	defaultClientOnce sync.Once
)

// Default returns a shared client built from the default configuration.
func Default() *Client {
	defaultClientOnce.Do(func() {
		defaultClient, defaultClientErr = New(Config{})
	})
	if defaultClientErr != nil {
		panic(fmt.Sprintf("httpclient: default client: %v", defaultClientErr))
	}
	return defaultClient
}

// Do dispatches req. With a mock attached the transport is never touched.
func (c *Client) Do(ctx context.Context, req Request) (*Payload, error) {
	callID := uuid.NewString()
	ctx, span := observability.StartSpan(ctx, observability.SpanHTTPRequest,
		trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	observability.SetSpanAttribute(ctx, observability.AttrRequestID, callID)
	observability.SetSpanAttribute(ctx, observability.AttrHTTPMethod, req.Method)
	observability.SetSpanAttribute(ctx, observability.AttrHTTPURL, req.URL)
	observability.SetSpanAttribute(ctx, observability.AttrMocked, req.Mock != nil)

	log := c.log.WithFields(logger.Fields(
		logger.FieldCallID, callID,
		logger.FieldMethod, req.Method,
		logger.FieldURL, req.URL,
	))

	start := time.Now()
	c.metrics.RecordRequestStart(ctx)
	payload, err := c.dispatch(ctx, callID, req, log)
	c.metrics.RecordRequestEnd(ctx, c.config.Name, req.Method, outcome(err), time.Since(start))

	if err != nil {
		observability.SetSpanError(ctx, err)
		if e, ok := AsError(err); ok {
			observability.SetSpanAttribute(ctx, observability.AttrHTTPStatus, e.StatusCode)
		}
		return nil, err
	}
	return payload, nil
}

func (c *Client) dispatch(ctx context.Context, callID string, req Request, log *logger.Logger) (*Payload, error) {
	if req.Mock != nil {
		log.Debug("playing mock response", logger.Fields(
			logger.FieldStatusCode, req.Mock.Response.StatusCode,
			logger.FieldDuration, req.Mock.Delay.Milliseconds(),
		))
		return playMock(ctx, c.timer, req)
	}

	wire, err := c.buildRequest(callID, req)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := c.transport.Exchange(ctx, wire)
	if err != nil {
		log.Warn("transport failed", logger.MergeWithError(nil, err))
		return nil, NewTimeoutError(location(req), err)
	}

	log.Debug("response received", logger.MergeWithDuration(logger.Fields(
		logger.FieldStatusCode, resp.StatusCode,
	), time.Since(start)))

	payload, err := Resolve(resp)
	if err != nil {
		log.Debug("error response", logger.MergeWithError(nil, err))
	}
	return payload, err
}

// buildRequest layers headers (JSON content type, configured defaults,
// caller headers) and encodes the body for POST, PUT and PATCH.
func (c *Client) buildRequest(callID string, req Request) (*WireRequest, error) {
	header := make(http.Header)
	header.Set(contentTypeHeader, contentTypeJSON)
	if c.config.RequestIDHeader != "" {
		header.Set(c.config.RequestIDHeader, callID)
	}
	for k, v := range c.config.Headers {
		header.Set(k, v)
	}
	for k, v := range req.Headers {
		header.Set(k, v)
	}

	wire := &WireRequest{
		Method: strings.ToUpper(req.Method),
		URL:    req.URL,
		Header: header,
	}

	if !hasBody(req.Method) {
		return wire, nil
	}

	if len(req.Files) > 0 {
		body, contentType, err := encodeMultipart(req.Data, req.Files)
		if err != nil {
			return nil, fmt.Errorf("httpclient: encode multipart body: %w", err)
		}
		wire.Body = body
		header.Set(contentTypeHeader, contentType)
		return wire, nil
	}

	if req.Data != nil {
		body, err := json.Marshal(req.Data)
		if err != nil {
			return nil, fmt.Errorf("httpclient: encode body: %w", err)
		}
		wire.Body = body
	}
	return wire, nil
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, url string, opts ...RequestOption) (*Payload, error) {
	return c.do(ctx, http.MethodGet, url, nil, opts...)
}

// Post performs a POST request with data as the JSON body.
func (c *Client) Post(ctx context.Context, url string, data any, opts ...RequestOption) (*Payload, error) {
	return c.do(ctx, http.MethodPost, url, data, opts...)
}

// Put performs a PUT request with data as the JSON body.
func (c *Client) Put(ctx context.Context, url string, data any, opts ...RequestOption) (*Payload, error) {
	return c.do(ctx, http.MethodPut, url, data, opts...)
}

// Patch performs a PATCH request with data as the JSON body.
func (c *Client) Patch(ctx context.Context, url string, data any, opts ...RequestOption) (*Payload, error) {
	return c.do(ctx, http.MethodPatch, url, data, opts...)
}

// Delete performs a DELETE request.
func (c *Client) Delete(ctx context.Context, url string, opts ...RequestOption) (*Payload, error) {
	return c.do(ctx, http.MethodDelete, url, nil, opts...)
}

func (c *Client) do(ctx context.Context, method, url string, data any, opts ...RequestOption) (*Payload, error) {
	req := Request{Method: method, URL: url, Data: data}
	for _, opt := range opts {
		opt(&req)
	}
	return c.Do(ctx, req)
}

// Close releases resources held by the transport.
func (c *Client) Close() {
	if t, ok := c.transport.(*HTTPTransport); ok {
		t.Close()
	}
}

// GetConfig returns the client's configuration.
func (c *Client) GetConfig() Config {
	return c.config
}

// Result is the outcome of a call started with Go.
type Result struct {
	Payload *Payload
	Err     error
}

// Go runs fn in a goroutine and delivers its outcome exactly once on the
// returned channel.
func Go(ctx context.Context, fn func(ctx context.Context) (*Payload, error)) <-chan Result {
	ch := make(chan Result, 1)
	go func() {
		p, err := fn(ctx)
		ch <- Result{Payload: p, Err: err}
	}()
	return ch
}

// outcome is the status-class label recorded in metrics.
func outcome(err error) string {
	if err == nil {
		return status.Successful.String()
	}
	if e, ok := AsError(err); ok {
		if e.Synthetic() {
			return "transport"
		}
		return e.Class().String()
	}
	return "local"
}
