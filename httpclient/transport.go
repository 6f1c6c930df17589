package httpclient

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"golang.org/x/net/http2"
)

// Transport performs one HTTP exchange. It must return an error when no
// response was received.
type Transport interface {
	Exchange(ctx context.Context, req *WireRequest) (*Response, error)
}

// TransportFunc adapts a function to Transport.
type TransportFunc func(ctx context.Context, req *WireRequest) (*Response, error)

// Exchange implements Transport.
func (f TransportFunc) Exchange(ctx context.Context, req *WireRequest) (*Response, error) {
	return f(ctx, req)
}

// HTTPTransport is the net/http backed Transport.
type HTTPTransport struct {
	httpClient *http.Client
}

// NewHTTPTransport builds a transport from cfg: timeout, TLS and HTTP/2.
// With cfg.H2C the transport speaks cleartext HTTP/2 only.
func NewHTTPTransport(cfg Config) (*HTTPTransport, error) {
	if cfg.H2C {
		return &HTTPTransport{httpClient: &http.Client{
			Transport: newH2CTransport(),
			Timeout:   cfg.Timeout,
		}}, nil
	}

	dialer := &net.Dialer{Timeout: 30 * time.Second, KeepAlive: 30 * time.Second}
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: time.Second,
	}

	if cfg.TLS != nil {
		tlsCfg, err := cfg.TLS.Build()
		if err != nil {
			return nil, err
		}
		transport.TLSClientConfig = tlsCfg
	}

	if !cfg.DisableHTTP2 {
		if err := http2.ConfigureTransport(transport); err != nil {
			return nil, fmt.Errorf("httpclient: configure http2: %w", err)
		}
	}

	return &HTTPTransport{
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   cfg.Timeout,
		},
	}, nil
}

// newH2CTransport dials plain TCP where HTTP/2 would normally dial TLS.
func newH2CTransport() *http2.Transport {
	return &http2.Transport{
		AllowHTTP: true,
		DialTLSContext: func(ctx context.Context, network, addr string, _ *tls.Config) (net.Conn, error) {
			var d net.Dialer
			return d.DialContext(ctx, network, addr)
		},
	}
}

// Exchange implements Transport. The response body is read fully and closed.
func (t *HTTPTransport) Exchange(ctx context.Context, req *WireRequest) (*Response, error) {
	var body io.Reader
	if req.Body != nil {
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	for k, vs := range req.Header {
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}

	resp, err := t.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       data,
	}, nil
}

// Close releases idle connections.
func (t *HTTPTransport) Close() {
	t.httpClient.CloseIdleConnections()
	if h2, ok := t.httpClient.Transport.(*http2.Transport); ok {
		h2.CloseIdleConnections()
	}
}

// Unwrap returns the underlying *http.Client for advanced use cases.
func (t *HTTPTransport) Unwrap() *http.Client {
	return t.httpClient
}
