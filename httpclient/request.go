package httpclient

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

const (
	contentTypeHeader = "Content-Type"
	contentTypeJSON   = "application/json"
)

// Request describes one dispatch.
type Request struct {
	// Method is the HTTP method (GET, POST, PUT, PATCH, DELETE).
	Method string
	// URL is the fully built request URL.
	URL string
	// Data is JSON-encoded as the body for POST, PUT and PATCH. Nil means no body.
	Data any
	// Headers are merged over the defaults; caller values win key by key.
	Headers map[string]string
	// Files switch POST, PUT and PATCH bodies to multipart/form-data.
	Files []FileField
	// Mock replaces the transport exchange with a canned response.
	Mock *Mock
}

// WireRequest is the request handed to a Transport.
type WireRequest struct {
	Method string
	URL    string
	Header http.Header
	Body   []byte
}

// Response is a complete response returned by a Transport.
type Response struct {
	// StatusCode is the HTTP status code.
	StatusCode int
	// Header holds the response headers.
	Header http.Header
	// Body is the raw response body.
	Body []byte
}

// ContentTypes returns the declared content type split on ';', trimmed and
// lower-cased.
func (r *Response) ContentTypes() []string {
	raw := r.Header.Get(contentTypeHeader)
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ";")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		out = append(out, strings.ToLower(strings.TrimSpace(p)))
	}
	return out
}

// IsJSON reports whether the declared content type includes application/json.
func (r *Response) IsJSON() bool {
	for _, ct := range r.ContentTypes() {
		if ct == contentTypeJSON {
			return true
		}
	}
	return false
}

// JSON decodes the body into v.
func (r *Response) JSON(v any) error {
	return json.Unmarshal(r.Body, v)
}

// Text returns the body as a string.
func (r *Response) Text() string {
	return string(r.Body)
}

// Payload is the resolved value of a successful dispatch.
type Payload struct {
	// Data is the parsed JSON body, the mock body, or an empty map.
	Data any
	// Text is the raw body of a non-JSON success response.
	Text string
	// Response is the original response of a non-JSON success response.
	Response *Response

	raw []byte
}

func emptyPayload() *Payload {
	return &Payload{Data: map[string]any{}}
}

// IsEmpty reports whether the payload is the empty structured value.
func (p *Payload) IsEmpty() bool {
	if p.Response != nil {
		return false
	}
	m, ok := p.Data.(map[string]any)
	return ok && len(m) == 0
}

// Decode decodes the payload into v. JSON bodies are decoded from the raw
// bytes; text bodies are decoded as JSON text; other data goes through a
// JSON round trip.
func (p *Payload) Decode(v any) error {
	switch {
	case p.raw != nil:
		return json.Unmarshal(p.raw, v)
	case p.Response != nil:
		return json.Unmarshal([]byte(p.Text), v)
	}
	b, err := json.Marshal(p.Data)
	if err != nil {
		return fmt.Errorf("httpclient: encode payload: %w", err)
	}
	return json.Unmarshal(b, v)
}

// RequestOption configures a single request built by the method helpers.
type RequestOption func(*Request)

// WithHeaders sets caller headers on the request.
func WithHeaders(headers map[string]string) RequestOption {
	return func(r *Request) {
		r.Headers = headers
	}
}

// WithHeader adds a single caller header.
func WithHeader(key, value string) RequestOption {
	return func(r *Request) {
		if r.Headers == nil {
			r.Headers = make(map[string]string)
		}
		r.Headers[key] = value
	}
}

// WithMock attaches a mock descriptor.
func WithMock(m *Mock) RequestOption {
	return func(r *Request) {
		r.Mock = m
	}
}

// WithFiles attaches multipart file fields.
func WithFiles(files ...FileField) RequestOption {
	return func(r *Request) {
		r.Files = append(r.Files, files...)
	}
}

// hasBody reports whether method may carry a request body.
func hasBody(method string) bool {
	switch strings.ToUpper(method) {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return true
	default:
		return false
	}
}
