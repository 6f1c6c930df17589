package resource

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/restkit/auth"
	"github.com/kbukum/restkit/endpoint"
	"github.com/kbukum/restkit/httpclient"
	"github.com/kbukum/restkit/logger"
	"github.com/kbukum/restkit/observability"
	"github.com/kbukum/restkit/status"
)

// Resource is a client for one REST collection. It is immutable after New
// and safe for concurrent use.
type Resource struct {
	name         string
	api          *endpoint.API
	headerKey    string
	headerPrefix string
	client       *httpclient.Client
	tokens       auth.TokenSource
	custom       map[string]*CustomMethod
	log          *logger.Logger
	metrics      *observability.Metrics

	customization map[string]Customization
}

// Option configures a Resource.
type Option func(*Resource)

// WithHeaderKey sets the auth header name (default "Authorization").
func WithHeaderKey(key string) Option {
	return func(r *Resource) { r.headerKey = key }
}

// WithHeaderPrefix sets the auth scheme written before the token
// (default "JWT").
func WithHeaderPrefix(prefix string) Option {
	return func(r *Resource) { r.headerPrefix = prefix }
}

// WithCustomization declares custom methods. Later calls add to earlier ones.
func WithCustomization(entries map[string]Customization) Option {
	return func(r *Resource) {
		for name, entry := range entries {
			r.customization[name] = entry
		}
	}
}

// WithClient sets the dispatching client (default httpclient.Default()).
func WithClient(c *httpclient.Client) Option {
	return func(r *Resource) { r.client = c }
}

// WithTokenSource supplies tokens for calls that carry none.
func WithTokenSource(src auth.TokenSource) Option {
	return func(r *Resource) { r.tokens = src }
}

// WithLogger sets the resource logger.
func WithLogger(l *logger.Logger) Option {
	return func(r *Resource) { r.log = l }
}

// WithMetrics records operation metrics on m.
func WithMetrics(m *observability.Metrics) Option {
	return func(r *Resource) { r.metrics = m }
}

// New creates a Resource named name on api. Custom method names must not
// collide with the fixed operations.
func New(name string, api *endpoint.API, opts ...Option) (*Resource, error) {
	if name == "" {
		return nil, errors.New("resource: name is required")
	}
	if api == nil {
		return nil, fmt.Errorf("resource: %s: api is required", name)
	}

	r := &Resource{
		name:          name,
		api:           api,
		headerKey:     auth.DefaultHeaderKey,
		headerPrefix:  auth.DefaultHeaderPrefix,
		customization: make(map[string]Customization),
	}
	for _, opt := range opts {
		opt(r)
	}

	r.custom = make(map[string]*CustomMethod, len(r.customization))
	for methodName, entry := range r.customization {
		if err := entry.validate(methodName); err != nil {
			return nil, fmt.Errorf("resource: %s: customization %q: %w", name, methodName, err)
		}
		r.custom[methodName] = newCustomMethod(r, methodName, entry)
	}
	r.customization = nil

	if r.client == nil {
		r.client = httpclient.Default()
	}
	if r.log == nil {
		r.log = logger.WithComponent("resource")
	}
	r.log = r.log.WithFields(logger.Fields(logger.FieldResource, name))

	return r, nil
}

// Name returns the collection name.
func (r *Resource) Name() string { return r.name }

// API returns the endpoint the resource is bound to.
func (r *Resource) API() *endpoint.API { return r.api }

// AuthHeaders returns headers unchanged when token is nil. Otherwise it
// returns a copy with the auth header set to "{prefix} {token}".
func (r *Resource) AuthHeaders(headers map[string]string, token *string) map[string]string {
	if token == nil {
		return headers
	}
	merged := make(map[string]string, len(headers)+1)
	for k, v := range headers {
		merged[k] = v
	}
	merged[r.headerKey] = r.headerPrefix + " " + *token
	return merged
}

// headers applies the auth policy, asking the token source when the call
// carries no token.
func (r *Resource) headers(ctx context.Context, headers map[string]string, token *string) (map[string]string, error) {
	if token == nil && r.tokens != nil {
		t, err := r.tokens.Token(ctx)
		switch {
		case err == nil:
			token = &t
		case !errors.Is(err, auth.ErrNoToken):
			return nil, fmt.Errorf("resource: %s: token: %w", r.name, err)
		}
	}
	return r.AuthHeaders(headers, token), nil
}

// gateMock drops m unless the API is in dev mode.
func (r *Resource) gateMock(m *httpclient.Mock) *httpclient.Mock {
	if !r.api.IsInDevMode() {
		return nil
	}
	return m
}

// Custom returns the custom method declared under name.
func (r *Resource) Custom(name string) (*CustomMethod, bool) {
	m, ok := r.custom[name]
	return m, ok
}

// CustomMethods returns the declared custom method names in sorted order.
func (r *Resource) CustomMethods() []string {
	return sortedNames(r.custom)
}

// Call invokes the custom method declared under name.
func (r *Resource) Call(ctx context.Context, name string, p CustomParams) (*httpclient.Payload, error) {
	m, ok := r.custom[name]
	if !ok {
		return nil, fmt.Errorf("resource: %s: unknown custom method %q", r.name, name)
	}
	return m.Call(ctx, p)
}

// List fetches the collection with Filters as the query string.
func (r *Resource) List(ctx context.Context, p ListParams) (*httpclient.Payload, error) {
	headers, err := r.headers(ctx, p.Headers, p.Token)
	if err != nil {
		return nil, err
	}
	return r.dispatch(ctx, "list", httpclient.Request{
		Method:  http.MethodGet,
		URL:     r.api.Route(r.name, p.Filters),
		Headers: headers,
		Mock:    r.gateMock(p.Mock),
	})
}

// Create posts Data to the collection.
func (r *Resource) Create(ctx context.Context, p CreateParams) (*httpclient.Payload, error) {
	headers, err := r.headers(ctx, p.Headers, p.Token)
	if err != nil {
		return nil, err
	}
	return r.dispatch(ctx, "create", httpclient.Request{
		Method:  http.MethodPost,
		URL:     r.api.Route(r.name, nil),
		Data:    p.Data,
		Headers: headers,
		Files:   p.Files,
		Mock:    r.gateMock(p.Mock),
	})
}

// Detail fetches one member.
func (r *Resource) Detail(ctx context.Context, p DetailParams) (*httpclient.Payload, error) {
	return r.member(ctx, "detail", http.MethodGet, p.ID, nil, p.Headers, nil, p.Token, p.Mock)
}

// Update patches one member.
func (r *Resource) Update(ctx context.Context, p WriteParams) (*httpclient.Payload, error) {
	return r.member(ctx, "update", http.MethodPatch, p.ID, orEmpty(p.Data), p.Headers, p.Files, p.Token, p.Mock)
}

// Replace puts one member.
func (r *Resource) Replace(ctx context.Context, p WriteParams) (*httpclient.Payload, error) {
	return r.member(ctx, "replace", http.MethodPut, p.ID, orEmpty(p.Data), p.Headers, p.Files, p.Token, p.Mock)
}

// Remove deletes one member.
func (r *Resource) Remove(ctx context.Context, p DetailParams) (*httpclient.Payload, error) {
	return r.member(ctx, "remove", http.MethodDelete, p.ID, nil, p.Headers, nil, p.Token, p.Mock)
}

func (r *Resource) member(ctx context.Context, op, method string, id, data any,
	headers map[string]string, files []httpclient.FileField, token *string, mock *httpclient.Mock,
) (*httpclient.Payload, error) {
	idStr, err := formatID(id)
	if err != nil {
		return nil, fmt.Errorf("resource: %s.%s: %w", r.name, op, err)
	}
	h, err := r.headers(ctx, headers, token)
	if err != nil {
		return nil, err
	}
	return r.dispatch(ctx, op, httpclient.Request{
		Method:  method,
		URL:     r.api.Route(r.name+"/"+idStr, nil),
		Data:    data,
		Headers: h,
		Files:   files,
		Mock:    r.gateMock(mock),
	})
}

// dispatch sends req through the client inside an operation span.
func (r *Resource) dispatch(ctx context.Context, op string, req httpclient.Request) (*httpclient.Payload, error) {
	ctx, span := observability.StartSpan(ctx, observability.SpanResourceOp,
		trace.WithSpanKind(trace.SpanKindInternal))
	defer span.End()
	observability.SetSpanAttribute(ctx, observability.AttrResource, r.name)
	observability.SetSpanAttribute(ctx, observability.AttrOperation, op)

	start := time.Now()
	payload, err := r.client.Do(ctx, req)
	elapsed := time.Since(start)

	outcome := status.Successful.String()
	if err != nil {
		observability.SetSpanError(ctx, err)
		outcome = "failed"
		if e, ok := httpclient.AsError(err); ok {
			outcome = e.Class().String()
		}
		r.log.Debug("operation failed", logger.MergeWithError(logger.Fields(
			logger.FieldOperation, op,
		), err))
	}
	r.metrics.RecordOperation(ctx, r.name, op, outcome, elapsed)
	return payload, err
}
