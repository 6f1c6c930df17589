package auth

import "time"

// TokenValidator validates a token and returns its claims. Servers that
// receive restkit auth headers, such as the mock server, depend on it.
type TokenValidator interface {
	ValidateToken(token string) (any, error)
}

// TokenValidatorFunc adapts a function to TokenValidator.
type TokenValidatorFunc func(token string) (any, error)

// ValidateToken implements TokenValidator.
func (f TokenValidatorFunc) ValidateToken(token string) (any, error) {
	return f(token)
}

// NewJWTValidator accepts tokens signed under cfg and returns their
// registered claims. A nil now uses time.Now.
func NewJWTValidator(cfg JWTConfig, now func() time.Time) TokenValidator {
	return TokenValidatorFunc(func(token string) (any, error) {
		claims, err := VerifyJWT(cfg, token, now)
		if err != nil {
			return nil, err
		}
		return claims, nil
	})
}
