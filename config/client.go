package config

import (
	"fmt"

	"github.com/kbukum/restkit/auth"
	"github.com/kbukum/restkit/endpoint"
	"github.com/kbukum/restkit/httpclient"
	"github.com/kbukum/restkit/observability"
	"github.com/kbukum/restkit/resource"
	"github.com/kbukum/restkit/validation"
)

// APIConfig locates a REST API.
type APIConfig struct {
	// BaseURL is the scheme and host, without a trailing slash.
	BaseURL string `yaml:"base_url" mapstructure:"base_url" validate:"required,url"`
	// Prefix is an optional path segment placed between host and route.
	// A set prefix, even an empty one, puts the API in dev mode.
	Prefix *string `yaml:"prefix" mapstructure:"prefix"`
	// Dev forces dev mode without a prefix.
	Dev bool `yaml:"dev" mapstructure:"dev"`
}

// ClientConfig describes one API client.
//
//	name: billing-client
//	api:
//	  base_url: https://billing.example.com
//	auth:
//	  header_prefix: Bearer
//	  jwt:
//	    secret: ${BILLING_JWT_SECRET}
//	http:
//	  timeout: 10s
type ClientConfig struct {
	ServiceConfig `yaml:",inline" mapstructure:",squash"`

	API     APIConfig            `yaml:"api" mapstructure:"api"`
	Auth    auth.Config          `yaml:"auth" mapstructure:"auth"`
	HTTP    httpclient.Config    `yaml:"http" mapstructure:"http"`
	Tracing observability.Config `yaml:"tracing" mapstructure:"tracing"`
}

// ApplyDefaults fills every section. The HTTP client and tracing inherit
// the service name and environment when unset.
func (c *ClientConfig) ApplyDefaults() {
	c.ServiceConfig.ApplyDefaults()
	if c.HTTP.Name == "" {
		c.HTTP.Name = c.Name
	}
	c.HTTP.ApplyDefaults()
	c.Auth.ApplyDefaults()
	if c.Tracing.ServiceName == "" {
		c.Tracing.ServiceName = c.Name
	}
	if c.Tracing.ServiceVersion == "" {
		c.Tracing.ServiceVersion = c.Version
	}
	if c.Tracing.Environment == "" {
		c.Tracing.Environment = c.Environment
	}
	c.Tracing.ApplyDefaults()
}

// Validate validates every section.
func (c *ClientConfig) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := validation.Validate(c.API); err != nil {
		return fmt.Errorf("config.api: %w", err)
	}
	if err := c.Auth.Validate(); err != nil {
		return fmt.Errorf("config.auth: %w", err)
	}
	if err := c.HTTP.Validate(); err != nil {
		return fmt.Errorf("config.http: %w", err)
	}
	if err := c.Tracing.Validate(); err != nil {
		return fmt.Errorf("config.tracing: %w", err)
	}
	return nil
}

// Endpoint builds the endpoint builder for the API section.
func (c *ClientConfig) Endpoint() *endpoint.API {
	return endpoint.New(c.API.BaseURL, c.API.Prefix, c.API.Dev)
}

// NewClient builds an HTTP client from the http section.
func (c *ClientConfig) NewClient(opts ...httpclient.Option) (*httpclient.Client, error) {
	return httpclient.New(c.HTTP, opts...)
}

// NewResource builds a resource on the configured API. The auth section
// sets the header key and prefix and, when a token or JWT is configured,
// the fallback token source. opts are applied last.
func (c *ClientConfig) NewResource(name string, client *httpclient.Client, opts ...resource.Option) (*resource.Resource, error) {
	base := []resource.Option{
		resource.WithHeaderKey(c.Auth.HeaderKey),
		resource.WithHeaderPrefix(c.Auth.HeaderPrefix),
	}
	if client != nil {
		base = append(base, resource.WithClient(client))
	}

	src, err := c.Auth.Source()
	if err != nil {
		return nil, fmt.Errorf("config.auth: %w", err)
	}
	if src != nil {
		base = append(base, resource.WithTokenSource(src))
	}

	return resource.New(name, c.Endpoint(), append(base, opts...)...)
}
