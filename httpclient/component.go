package httpclient

import (
	"context"

	"github.com/kbukum/restkit/component"
)

// Component wraps a Client with lifecycle management.
// Use this when the client is part of a managed application
// (e.g., registered in a component.Registry).
type Component struct {
	client *Client
	config Config
	opts   []Option
}

// compile-time assertions
var _ component.Component = (*Component)(nil)
var _ component.Describable = (*Component)(nil)

// NewComponent creates a new HTTP client component.
// The client is created lazily in Start().
func NewComponent(cfg Config, opts ...Option) *Component {
	return &Component{config: cfg, opts: opts}
}

// Name returns the component name.
func (c *Component) Name() string {
	name := c.config.Name
	if name == "" {
		name = "http"
	}
	return name
}

// Start initializes the HTTP client.
func (c *Component) Start(_ context.Context) error {
	cl, err := New(c.config, c.opts...)
	if err != nil {
		return err
	}
	c.client = cl
	return nil
}

// Stop releases idle transport connections.
func (c *Component) Stop(_ context.Context) error {
	if c.client != nil {
		c.client.Close()
	}
	return nil
}

// Health reports healthy once the client has been started.
func (c *Component) Health(_ context.Context) component.Health {
	status := component.StatusHealthy
	if c.client == nil {
		status = component.StatusUnhealthy
	}
	return component.Health{
		Name:   c.Name(),
		Status: status,
	}
}

// Describe returns component description for the startup summary.
func (c *Component) Describe() component.Description {
	details := "timeout=" + c.config.Timeout.String()
	if c.config.TLS.IsEnabled() {
		details += " tls"
	}
	return component.Description{
		Name:    c.Name(),
		Type:    "http-client",
		Details: details,
	}
}

// Client returns the underlying client. Must be called after Start().
func (c *Component) Client() *Client {
	return c.client
}
