package auth

import (
	"fmt"

	"github.com/kbukum/restkit/validation"
)

const (
	DefaultHeaderKey    = "Authorization"
	DefaultHeaderPrefix = "JWT"
)

// Config is the auth header policy of one API.
type Config struct {
	HeaderKey    string `yaml:"header_key" mapstructure:"header_key" json:"header_key"`
	HeaderPrefix string `yaml:"header_prefix" mapstructure:"header_prefix" json:"header_prefix"`
	// Token is a fixed token used when a call supplies none.
	Token string `yaml:"token" mapstructure:"token" json:"-"`
	// JWT issues self-signed tokens; it takes precedence over Token.
	JWT *JWTConfig `yaml:"jwt" mapstructure:"jwt" json:"jwt,omitempty"`
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if c.HeaderKey == "" {
		c.HeaderKey = DefaultHeaderKey
	}
	if c.HeaderPrefix == "" {
		c.HeaderPrefix = DefaultHeaderPrefix
	}
	if c.JWT != nil {
		c.JWT.ApplyDefaults()
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	v := validation.New().Required("header_key", c.HeaderKey)
	if err := v.Err(); err != nil {
		return fmt.Errorf("auth: %w", err)
	}
	if c.JWT != nil {
		return c.JWT.Validate()
	}
	return nil
}

// Source returns the configured fallback token source, or nil when neither
// a JWT nor a static token is configured.
func (c *Config) Source() (TokenSource, error) {
	switch {
	case c.JWT != nil:
		src, err := NewJWTSource(*c.JWT)
		if err != nil {
			return nil, err
		}
		return src, nil
	case c.Token != "":
		return Static(c.Token), nil
	default:
		return nil, nil
	}
}
