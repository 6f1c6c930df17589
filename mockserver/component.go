package mockserver

import (
	"context"
	"sort"
	"strconv"

	"github.com/kbukum/restkit/component"
	"github.com/kbukum/restkit/status"
)

const componentName = "mockserver"

var (
	_ component.Component     = (*Component)(nil)
	_ component.Describable   = (*Component)(nil)
	_ component.RouteProvider = (*Component)(nil)
)

// Component wraps Server for a component.Registry.
type Component struct {
	server  *Server
	started bool
}

// NewComponent returns a component backed by s.
func NewComponent(s *Server) *Component {
	return &Component{server: s}
}

// Name returns the component name used for registration.
func (c *Component) Name() string { return componentName }

// Start starts the underlying server.
func (c *Component) Start(ctx context.Context) error {
	if err := c.server.Start(ctx); err != nil {
		return err
	}
	c.started = true
	return nil
}

// Stop gracefully shuts down the underlying server.
func (c *Component) Stop(ctx context.Context) error {
	if !c.started {
		return nil
	}
	c.started = false
	return c.server.Stop(ctx)
}

// Health reports healthy while the server is running.
func (c *Component) Health(context.Context) component.Health {
	if c.started {
		return component.Health{Name: componentName, Status: component.StatusHealthy}
	}
	return component.Health{
		Name:    componentName,
		Status:  component.StatusUnhealthy,
		Message: "mock server not started",
	}
}

// Describe returns the startup summary entry.
func (c *Component) Describe() component.Description {
	cfg := c.server.config
	details := c.server.Addr()
	if c.server.httpServer.TLSConfig != nil {
		details += " tls"
	}
	if c.server.validator != nil {
		details += " auth"
	}
	return component.Description{
		Name:    "Mock Server",
		Type:    "server",
		Details: details,
		Port:    cfg.Port,
	}
}

// Routes returns the fixture routes sorted by path, then method, followed by
// the health endpoint.
func (c *Component) Routes() []component.Route {
	fixtures := c.server.Fixtures()
	sort.Slice(fixtures, func(i, j int) bool {
		if fixtures[i].Path != fixtures[j].Path {
			return fixtures[i].Path < fixtures[j].Path
		}
		return methodOrder(fixtures[i].Method) < methodOrder(fixtures[j].Method)
	})

	routes := make([]component.Route, 0, len(fixtures)+1)
	for _, f := range fixtures {
		routes = append(routes, component.Route{
			Method:  f.Method,
			Path:    f.Path,
			Handler: "fixture " + strconv.Itoa(f.Response.StatusCode) + " " + status.Describe(f.Response.StatusCode),
		})
	}
	return append(routes, component.Route{Method: "GET", Path: "/health", Handler: "health"})
}

func methodOrder(m string) int {
	switch m {
	case "GET":
		return 0
	case "POST":
		return 1
	case "PUT":
		return 2
	case "PATCH":
		return 3
	case "DELETE":
		return 4
	default:
		return 5
	}
}
