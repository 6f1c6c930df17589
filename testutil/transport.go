package testutil

import (
	"context"
	"net/http"
	"sync"

	"github.com/kbukum/restkit/httpclient"
)

// Responder produces the response for a recorded request.
type Responder func(req *httpclient.WireRequest) (*httpclient.Response, error)

// RecordingTransport is an httpclient.Transport that records requests and
// answers them with a Responder. It is safe for concurrent use.
type RecordingTransport struct {
	respond Responder

	mu    sync.Mutex
	calls []*httpclient.WireRequest
}

// NewRecordingTransport creates a transport answering with respond. A nil
// responder answers 204 No Content.
func NewRecordingTransport(respond Responder) *RecordingTransport {
	if respond == nil {
		respond = StatusResponse(http.StatusNoContent)
	}
	return &RecordingTransport{respond: respond}
}

// Exchange implements httpclient.Transport.
func (t *RecordingTransport) Exchange(ctx context.Context, req *httpclient.WireRequest) (*httpclient.Response, error) {
	t.mu.Lock()
	t.calls = append(t.calls, cloneRequest(req))
	t.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return t.respond(req)
}

// Calls returns the recorded requests in order.
func (t *RecordingTransport) Calls() []*httpclient.WireRequest {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]*httpclient.WireRequest, len(t.calls))
	copy(out, t.calls)
	return out
}

// Count returns the number of recorded requests.
func (t *RecordingTransport) Count() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.calls)
}

// Last returns the most recent request, or nil.
func (t *RecordingTransport) Last() *httpclient.WireRequest {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.calls) == 0 {
		return nil
	}
	return t.calls[len(t.calls)-1]
}

func cloneRequest(req *httpclient.WireRequest) *httpclient.WireRequest {
	c := *req
	c.Header = req.Header.Clone()
	if req.Body != nil {
		c.Body = append([]byte(nil), req.Body...)
	}
	return &c
}

// Response answers every request with the given status, content type and body.
func Response(statusCode int, contentType, body string) Responder {
	return func(*httpclient.WireRequest) (*httpclient.Response, error) {
		header := make(http.Header)
		if contentType != "" {
			header.Set("Content-Type", contentType)
		}
		return &httpclient.Response{
			StatusCode: statusCode,
			Header:     header,
			Body:       []byte(body),
		}, nil
	}
}

// JSONResponse answers with an application/json body.
func JSONResponse(statusCode int, body string) Responder {
	return Response(statusCode, "application/json; charset=utf-8", body)
}

// TextResponse answers with a text/plain body.
func TextResponse(statusCode int, body string) Responder {
	return Response(statusCode, "text/plain; charset=utf-8", body)
}

// StatusResponse answers with an empty body and no content type.
func StatusResponse(statusCode int) Responder {
	return Response(statusCode, "", "")
}

// Fail answers every request with err, as a network failure would.
func Fail(err error) Responder {
	return func(*httpclient.WireRequest) (*httpclient.Response, error) {
		return nil, err
	}
}
