package mockserver

import (
	"fmt"
	"time"

	"github.com/kbukum/restkit/auth"
	"github.com/kbukum/restkit/security"
	"github.com/kbukum/restkit/validation"
)

// Config holds mock server configuration.
type Config struct {
	Host         string        `yaml:"host" mapstructure:"host"`
	Port         int           `yaml:"port" mapstructure:"port" validate:"gte=0,lte=65535"`
	ReadTimeout  time.Duration `yaml:"read_timeout" mapstructure:"read_timeout" validate:"gte=0"`
	WriteTimeout time.Duration `yaml:"write_timeout" mapstructure:"write_timeout" validate:"gte=0"`
	IdleTimeout  time.Duration `yaml:"idle_timeout" mapstructure:"idle_timeout" validate:"gte=0"`

	// Fixtures is the path of a YAML or JSON fixture file.
	Fixtures string `yaml:"fixtures" mapstructure:"fixtures"`

	// TLS serves HTTPS when a cert/key pair is set; otherwise the server
	// speaks HTTP/1.1 and h2c.
	TLS *security.TLSConfig `yaml:"tls" mapstructure:"tls"`

	// Auth, when set, rejects fixture requests whose auth header does not
	// carry a token signed with this configuration.
	Auth *auth.JWTConfig `yaml:"auth" mapstructure:"auth"`
	// HeaderKey and HeaderPrefix locate the token; they default to the
	// restkit client defaults.
	HeaderKey    string `yaml:"header_key" mapstructure:"header_key"`
	HeaderPrefix string `yaml:"header_prefix" mapstructure:"header_prefix"`
}

// ApplyDefaults sets default values for unset fields.
func (c *Config) ApplyDefaults() {
	if c.Port == 0 {
		c.Port = 8080
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = 15 * time.Second
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = 60 * time.Second
	}
	if c.IdleTimeout == 0 {
		c.IdleTimeout = 60 * time.Second
	}
	if c.HeaderKey == "" {
		c.HeaderKey = auth.DefaultHeaderKey
	}
	if c.HeaderPrefix == "" {
		c.HeaderPrefix = auth.DefaultHeaderPrefix
	}
	if c.Auth != nil {
		c.Auth.ApplyDefaults()
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if err := validation.Validate(c); err != nil {
		return fmt.Errorf("mockserver: %w", err)
	}
	if c.TLS != nil {
		if err := c.TLS.Validate(); err != nil {
			return fmt.Errorf("mockserver: %w", err)
		}
	}
	if c.Auth != nil {
		if err := c.Auth.Validate(); err != nil {
			return fmt.Errorf("mockserver: %w", err)
		}
	}
	return nil
}

// Addr returns the configured listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
