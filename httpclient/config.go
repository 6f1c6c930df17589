package httpclient

import (
	"fmt"
	"time"

	"github.com/kbukum/restkit/validation"
)

const (
	defaultTimeout = 30 * time.Second
)

// Config configures the HTTP client.
type Config struct {
	// Name identifies the client in logs, metrics and health reports.
	Name string `yaml:"name" mapstructure:"name" json:"name"`

	// Timeout bounds a whole transport exchange. Defaults to 30s.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout" json:"timeout" validate:"gte=0"`

	// Headers are default headers applied to every live request, between the
	// JSON content type and the caller's headers.
	Headers map[string]string `yaml:"headers" mapstructure:"headers" json:"headers"`

	// RequestIDHeader, when set, carries the per-dispatch call id.
	RequestIDHeader string `yaml:"request_id_header" mapstructure:"request_id_header" json:"request_id_header"`

	// TLS configures TLS settings for the HTTP transport.
	TLS *TLSConfig `yaml:"tls" mapstructure:"tls" json:"tls"`

	// DisableHTTP2 keeps the transport on HTTP/1.1.
	DisableHTTP2 bool `yaml:"disable_http2" mapstructure:"disable_http2" json:"disable_http2"`

	// H2C speaks cleartext HTTP/2, as served by the mock server. TLS
	// settings are ignored.
	H2C bool `yaml:"h2c" mapstructure:"h2c" json:"h2c"`
}

// ApplyDefaults fills in zero-value fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	if c.Name == "" {
		c.Name = "http"
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if err := validation.Validate(c); err != nil {
		return fmt.Errorf("httpclient: %w", err)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("httpclient: timeout must be positive")
	}
	if c.TLS != nil {
		if err := c.TLS.Validate(); err != nil {
			return err
		}
	}
	return nil
}
