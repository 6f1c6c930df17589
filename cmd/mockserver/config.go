package main

import (
	"fmt"

	"github.com/kbukum/restkit/config"
	"github.com/kbukum/restkit/mockserver"
	"github.com/kbukum/restkit/observability"
	"github.com/kbukum/restkit/version"
)

// serverConfig is the configuration of the mock server binary.
//
//	name: restkit-mockserver
//	server:
//	  port: 8090
//	  fixtures: ./fixtures.yml
//	tracing:
//	  enabled: false
type serverConfig struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Server  mockserver.Config    `yaml:"server" mapstructure:"server"`
	Tracing observability.Config `yaml:"tracing" mapstructure:"tracing"`
}

func (c *serverConfig) ApplyDefaults() {
	if c.Name == "" {
		c.Name = serviceName
	}
	if c.Version == "" {
		c.Version = version.Get().Version
	}
	c.ServiceConfig.ApplyDefaults()
	c.Server.ApplyDefaults()
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

func (c *serverConfig) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("config.server: %w", err)
	}
	if c.Server.Fixtures == "" {
		return fmt.Errorf("config.server.fixtures is required")
	}
	if err := c.Tracing.Validate(); err != nil {
		return fmt.Errorf("config.tracing: %w", err)
	}
	return nil
}
