package security

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
)

// TLSConfig describes TLS for both ends of a restkit connection: the client
// transport dialing an API and the mock server listening for it.
type TLSConfig struct {
	// SkipVerify disables peer certificate verification on the client side.
	SkipVerify bool `yaml:"skip_verify" mapstructure:"skip_verify" json:"skip_verify,omitempty"`

	// CAFile is a PEM bundle used to verify the peer.
	CAFile string `yaml:"ca_file" mapstructure:"ca_file" json:"ca_file,omitempty"`

	// CertFile and KeyFile are this side's certificate pair. A client sends
	// it for mTLS; the mock server serves it.
	CertFile string `yaml:"cert_file" mapstructure:"cert_file" json:"cert_file,omitempty"`
	KeyFile  string `yaml:"key_file" mapstructure:"key_file" json:"key_file,omitempty"`

	// ServerName overrides the name checked against the server certificate.
	ServerName string `yaml:"server_name" mapstructure:"server_name" json:"server_name,omitempty"`

	// MinVersion is the minimum TLS version. Defaults to TLS 1.2.
	MinVersion uint16 `yaml:"min_version" mapstructure:"min_version" json:"min_version,omitempty"`
}

// Build returns the client-side *tls.Config, or nil when nothing is set.
func (c *TLSConfig) Build() (*tls.Config, error) {
	if !c.IsEnabled() {
		return nil, nil
	}

	cfg := c.base()
	cfg.InsecureSkipVerify = c.SkipVerify
	cfg.ServerName = c.ServerName

	pool, err := c.certPool()
	if err != nil {
		return nil, err
	}
	cfg.RootCAs = pool

	if c.CertFile != "" {
		cert, err := c.keyPair()
		if err != nil {
			return nil, err
		}
		cfg.Certificates = []tls.Certificate{cert}
	}
	return cfg, nil
}

// BuildServer returns the listener-side *tls.Config. CertFile and KeyFile
// are required; a CAFile turns on client certificate verification.
func (c *TLSConfig) BuildServer() (*tls.Config, error) {
	if c == nil || c.CertFile == "" || c.KeyFile == "" {
		return nil, fmt.Errorf("security/tls: server requires cert_file and key_file")
	}

	cert, err := c.keyPair()
	if err != nil {
		return nil, err
	}

	cfg := c.base()
	cfg.Certificates = []tls.Certificate{cert}

	pool, err := c.certPool()
	if err != nil {
		return nil, err
	}
	if pool != nil {
		cfg.ClientCAs = pool
		cfg.ClientAuth = tls.RequireAndVerifyClientCert
	}
	return cfg, nil
}

// Validate checks that the certificate pair is given together.
func (c *TLSConfig) Validate() error {
	if c == nil {
		return nil
	}
	if (c.CertFile != "") != (c.KeyFile != "") {
		return fmt.Errorf("security/tls: cert_file and key_file must be provided together")
	}
	return nil
}

// IsEnabled reports whether any TLS setting is configured.
func (c *TLSConfig) IsEnabled() bool {
	if c == nil {
		return false
	}
	return c.SkipVerify || c.CAFile != "" || c.CertFile != "" || c.ServerName != ""
}

func (c *TLSConfig) base() *tls.Config {
	minVersion := c.MinVersion
	if minVersion == 0 {
		minVersion = tls.VersionTLS12
	}
	return &tls.Config{MinVersion: minVersion}
}

func (c *TLSConfig) certPool() (*x509.CertPool, error) {
	if c.CAFile == "" {
		return nil, nil
	}
	ca, err := os.ReadFile(c.CAFile)
	if err != nil {
		return nil, fmt.Errorf("security/tls: read CA file: %w", err)
	}
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(ca) {
		return nil, fmt.Errorf("security/tls: no certificates in %s", c.CAFile)
	}
	return pool, nil
}

func (c *TLSConfig) keyPair() (tls.Certificate, error) {
	cert, err := tls.LoadX509KeyPair(c.CertFile, c.KeyFile)
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("security/tls: load key pair: %w", err)
	}
	return cert, nil
}
