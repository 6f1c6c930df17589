package auth

import (
	"context"
	"errors"
)

// ErrNoToken is returned by sources that have nothing to offer.
var ErrNoToken = errors.New("auth: no token available")

// TokenSource supplies the token placed in the auth header.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// TokenSourceFunc adapts a function to TokenSource.
type TokenSourceFunc func(ctx context.Context) (string, error)

// Token implements TokenSource.
func (f TokenSourceFunc) Token(ctx context.Context) (string, error) {
	return f(ctx)
}

// Static always returns the same token.
type Static string

// Token implements TokenSource. An empty Static yields ErrNoToken.
func (s Static) Token(context.Context) (string, error) {
	if s == "" {
		return "", ErrNoToken
	}
	return string(s), nil
}

type contextKey struct{}

// WithToken stores token on ctx for ContextSource.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, contextKey{}, token)
}

// FromContext returns the token stored by WithToken.
func FromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(contextKey{}).(string)
	return token, ok && token != ""
}

// ContextSource reads the token stored on the call context.
type ContextSource struct{}

// Token implements TokenSource.
func (ContextSource) Token(ctx context.Context) (string, error) {
	if token, ok := FromContext(ctx); ok {
		return token, nil
	}
	return "", ErrNoToken
}

// Chain tries each source in order and returns the first token found.
// Errors other than ErrNoToken stop the chain.
func Chain(sources ...TokenSource) TokenSource {
	return TokenSourceFunc(func(ctx context.Context) (string, error) {
		for _, src := range sources {
			token, err := src.Token(ctx)
			if err == nil {
				return token, nil
			}
			if !errors.Is(err, ErrNoToken) {
				return "", err
			}
		}
		return "", ErrNoToken
	})
}
