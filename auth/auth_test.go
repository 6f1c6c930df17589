package auth

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
)

func TestStatic(t *testing.T) {
	token, err := Static("abc").Token(context.Background())
	if err != nil || token != "abc" {
		t.Errorf("Token() = %q, %v", token, err)
	}
	if _, err := Static("").Token(context.Background()); !errors.Is(err, ErrNoToken) {
		t.Errorf("expected ErrNoToken, got %v", err)
	}
}

func TestContextSource(t *testing.T) {
	ctx := WithToken(context.Background(), "from-ctx")
	token, err := ContextSource{}.Token(ctx)
	if err != nil || token != "from-ctx" {
		t.Errorf("Token() = %q, %v", token, err)
	}
	if _, err := (ContextSource{}).Token(context.Background()); !errors.Is(err, ErrNoToken) {
		t.Errorf("expected ErrNoToken, got %v", err)
	}
}

func TestChain(t *testing.T) {
	boom := errors.New("vault down")

	tests := []struct {
		name    string
		sources []TokenSource
		want    string
		wantErr error
	}{
		{"first wins", []TokenSource{Static("a"), Static("b")}, "a", nil},
		{"skips empty", []TokenSource{Static(""), ContextSource{}, Static("b")}, "b", nil},
		{"none", []TokenSource{Static("")}, "", ErrNoToken},
		{
			"hard error stops",
			[]TokenSource{
				TokenSourceFunc(func(context.Context) (string, error) { return "", boom }),
				Static("b"),
			},
			"", boom,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Chain(tc.sources...).Token(context.Background())
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("err = %v, want %v", err, tc.wantErr)
			}
			if got != tc.want {
				t.Errorf("token = %q, want %q", got, tc.want)
			}
		})
	}
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func TestJWTSourceCachesUntilRefresh(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	src, err := NewJWTSource(JWTConfig{
		Secret:        "s3cret",
		Issuer:        "restkit",
		Subject:       "svc-billing",
		Audience:      []string{"users-api"},
		TTL:           time.Minute,
		RefreshBefore: 10 * time.Second,
	}, WithClock(clock.Now))
	if err != nil {
		t.Fatalf("NewJWTSource: %v", err)
	}

	first, err := src.Token(context.Background())
	if err != nil {
		t.Fatalf("Token: %v", err)
	}
	if strings.Count(first, ".") != 2 {
		t.Fatalf("expected a compact JWT, got %q", first)
	}

	clock.Advance(30 * time.Second)
	again, _ := src.Token(context.Background())
	if again != first {
		t.Error("expected cached token inside the refresh window")
	}

	clock.Advance(25 * time.Second)
	renewed, _ := src.Token(context.Background())
	if renewed == first {
		t.Error("expected a new token near expiry")
	}

	claims, err := src.Verify(renewed)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.Subject != "svc-billing" || claims.Issuer != "restkit" {
		t.Errorf("unexpected claims %+v", claims)
	}
	if claims.ID == "" {
		t.Error("expected a token id")
	}
}

func TestVerifyJWTRejects(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	cfg := JWTConfig{Secret: "s3cret", Issuer: "restkit", TTL: time.Minute}
	src, err := NewJWTSource(cfg, WithClock(clock.Now))
	if err != nil {
		t.Fatalf("NewJWTSource: %v", err)
	}
	token, _ := src.Token(context.Background())

	if _, err := VerifyJWT(JWTConfig{Secret: "other", Issuer: "restkit"}, token, clock.Now); err == nil {
		t.Error("expected signature failure with the wrong secret")
	}
	if _, err := VerifyJWT(JWTConfig{Secret: "s3cret", Issuer: "someone-else"}, token, clock.Now); err == nil {
		t.Error("expected issuer mismatch")
	}

	clock.Advance(2 * time.Minute)
	if _, err := VerifyJWT(cfg, token, clock.Now); err == nil {
		t.Error("expected expired token to be rejected")
	}
}

func TestJWTConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     JWTConfig
		wantErr bool
	}{
		{"defaults", JWTConfig{Secret: "k"}, false},
		{"missing secret", JWTConfig{}, true},
		{"bad method", JWTConfig{Secret: "k", Method: "RS256"}, true},
		{"refresh longer than ttl", JWTConfig{Secret: "k", TTL: time.Second, RefreshBefore: time.Minute}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := tc.cfg
			cfg.ApplyDefaults()
			if err := cfg.Validate(); (err != nil) != tc.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestConfigSource(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()
	if cfg.HeaderKey != "Authorization" || cfg.HeaderPrefix != "JWT" {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if src, err := cfg.Source(); err != nil || src != nil {
		t.Errorf("expected no source, got %v, %v", src, err)
	}

	cfg.Token = "fixed"
	src, err := cfg.Source()
	if err != nil {
		t.Fatalf("Source: %v", err)
	}
	if tok, _ := src.Token(context.Background()); tok != "fixed" {
		t.Errorf("token = %q", tok)
	}

	cfg.JWT = &JWTConfig{Secret: "k"}
	src, err = cfg.Source()
	if err != nil {
		t.Fatalf("Source: %v", err)
	}
	if _, ok := src.(*JWTSource); !ok {
		t.Errorf("expected JWT source to take precedence, got %T", src)
	}

	cfg.JWT = &JWTConfig{}
	if _, err := cfg.Source(); err == nil {
		t.Error("expected error for JWT without secret")
	}
}

func TestJWTValidator(t *testing.T) {
	cfg := JWTConfig{Secret: "validator-secret", Subject: "svc"}
	src, err := NewJWTSource(cfg)
	if err != nil {
		t.Fatal(err)
	}
	token, err := src.Token(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	v := NewJWTValidator(cfg, nil)
	claims, err := v.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if rc, ok := claims.(*gojwt.RegisteredClaims); !ok || rc.Subject != "svc" {
		t.Errorf("claims = %#v", claims)
	}

	if _, err := NewJWTValidator(JWTConfig{Secret: "other"}, nil).ValidateToken(token); err == nil {
		t.Error("expected rejection under a different secret")
	}
}
