package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/kbukum/restkit/validation"
)

// SigningMethod is an HMAC signing algorithm.
type SigningMethod string

const (
	HS256 SigningMethod = "HS256"
	HS384 SigningMethod = "HS384"
	HS512 SigningMethod = "HS512"
)

// JWTConfig configures a self-signed token source.
type JWTConfig struct {
	Secret   string        `yaml:"secret" mapstructure:"secret" json:"-" validate:"required"`
	Method   SigningMethod `yaml:"method" mapstructure:"method" json:"method" validate:"oneof=HS256 HS384 HS512"`
	Issuer   string        `yaml:"issuer" mapstructure:"issuer" json:"issuer,omitempty"`
	Subject  string        `yaml:"subject" mapstructure:"subject" json:"subject,omitempty"`
	Audience []string      `yaml:"audience" mapstructure:"audience" json:"audience,omitempty"`
	// TTL is the lifetime of each issued token (default: 15m).
	TTL time.Duration `yaml:"ttl" mapstructure:"ttl" json:"ttl" validate:"gt=0"`
	// RefreshBefore renews the cached token this long before it expires
	// (default: 30s).
	RefreshBefore time.Duration `yaml:"refresh_before" mapstructure:"refresh_before" json:"refresh_before" validate:"gte=0"`
}

// ApplyDefaults fills unset fields.
func (c *JWTConfig) ApplyDefaults() {
	if c.Method == "" {
		c.Method = HS256
	}
	if c.TTL == 0 {
		c.TTL = 15 * time.Minute
	}
	if c.RefreshBefore == 0 {
		c.RefreshBefore = 30 * time.Second
	}
}

// Validate checks the configuration.
func (c *JWTConfig) Validate() error {
	if err := validation.Validate(c); err != nil {
		return fmt.Errorf("auth: jwt: %w", err)
	}
	if c.RefreshBefore >= c.TTL {
		return errors.New("auth: jwt: refresh_before must be shorter than ttl")
	}
	return nil
}

func (c *JWTConfig) signingMethod() gojwt.SigningMethod {
	switch c.Method {
	case HS384:
		return gojwt.SigningMethodHS384
	case HS512:
		return gojwt.SigningMethodHS512
	default:
		return gojwt.SigningMethodHS256
	}
}

// JWTSource issues signed tokens and reuses each one until it is within
// RefreshBefore of expiry. It is safe for concurrent use.
type JWTSource struct {
	cfg JWTConfig
	now func() time.Time

	mu      sync.Mutex
	token   string
	expires time.Time
}

// JWTOption configures a JWTSource.
type JWTOption func(*JWTSource)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) JWTOption {
	return func(s *JWTSource) { s.now = now }
}

// NewJWTSource creates a JWT token source.
func NewJWTSource(cfg JWTConfig, opts ...JWTOption) (*JWTSource, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &JWTSource{cfg: cfg, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Token implements TokenSource.
func (s *JWTSource) Token(context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if s.token != "" && now.Before(s.expires.Add(-s.cfg.RefreshBefore)) {
		return s.token, nil
	}

	expires := now.Add(s.cfg.TTL)
	claims := gojwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Issuer:    s.cfg.Issuer,
		Subject:   s.cfg.Subject,
		IssuedAt:  gojwt.NewNumericDate(now),
		NotBefore: gojwt.NewNumericDate(now),
		ExpiresAt: gojwt.NewNumericDate(expires),
	}
	if len(s.cfg.Audience) > 0 {
		claims.Audience = gojwt.ClaimStrings(s.cfg.Audience)
	}

	signed, err := gojwt.NewWithClaims(s.cfg.signingMethod(), claims).SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return "", fmt.Errorf("auth: sign token: %w", err)
	}

	s.token = signed
	s.expires = expires
	return signed, nil
}

// Verify parses token with the source's key and checks signature, expiry
// and, when configured, issuer and audience.
func (s *JWTSource) Verify(token string) (*gojwt.RegisteredClaims, error) {
	return VerifyJWT(s.cfg, token, s.now)
}

// VerifyJWT checks a token against cfg. A nil now uses time.Now.
func VerifyJWT(cfg JWTConfig, token string, now func() time.Time) (*gojwt.RegisteredClaims, error) {
	cfg.ApplyDefaults()
	method := cfg.signingMethod()

	opts := []gojwt.ParserOption{gojwt.WithValidMethods([]string{method.Alg()})}
	if cfg.Issuer != "" {
		opts = append(opts, gojwt.WithIssuer(cfg.Issuer))
	}
	if len(cfg.Audience) > 0 {
		opts = append(opts, gojwt.WithAudience(cfg.Audience[0]))
	}
	if now != nil {
		opts = append(opts, gojwt.WithTimeFunc(now))
	}

	claims := &gojwt.RegisteredClaims{}
	parsed, err := gojwt.ParseWithClaims(token, claims, func(*gojwt.Token) (any, error) {
		return []byte(cfg.Secret), nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("auth: parse token: %w", err)
	}
	if !parsed.Valid {
		return nil, errors.New("auth: invalid token")
	}
	return claims, nil
}
