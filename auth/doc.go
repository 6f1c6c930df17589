// Package auth supplies tokens for the resource auth header policy.
//
// A resource adds "{prefix} {token}" under its header key whenever a call
// carries a token. Calls that carry none fall back to the resource's
// TokenSource, if one is configured:
//
//	src, err := auth.NewJWTSource(auth.JWTConfig{Secret: key, Subject: "svc-billing"})
//	users, err := resource.New("users", api, resource.WithTokenSource(src))
//
// Sources:
//
//   - Static: a fixed token, typically loaded from configuration.
//   - ContextSource: the token stored on the call context with WithToken.
//   - JWTSource: a self-signed HS256/384/512 token, cached until shortly
//     before it expires.
package auth
