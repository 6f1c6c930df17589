// Package httpclient dispatches HTTP requests and normalizes every outcome
// into either a resolved *Payload or a structured *Error.
//
// A live request is sent through an injected Transport (NewHTTPTransport by
// default). The response is classified by status code: 2xx resolves (204 to
// an empty payload, JSON bodies parsed, other bodies as text), 4xx/5xx raise
// an *Error carrying the body and a Meta explaining its origin, and 1xx/3xx
// resolve to an empty payload. A transport failure raises a synthetic 504.
//
// A request carrying a Mock never reaches the transport: the mock delay is
// awaited and the canned body is resolved or raised.
//
// # Basic Usage
//
//	client, err := httpclient.New(httpclient.Config{Timeout: 10 * time.Second})
//
//	payload, err := client.Post(ctx, "https://api.example.com/widgets/",
//	    map[string]any{"name": "sprocket"},
//	    httpclient.WithHeader("Authorization", "JWT "+token))
//	if e, ok := httpclient.AsError(err); ok {
//	    log.Printf("%d %s: %v", e.StatusCode, e.Meta, e.Data)
//	}
package httpclient
