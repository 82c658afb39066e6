package auth

import "context"

// Principal is the identity an access token was issued to.
type Principal struct {
	UserName string
}

type principalKey struct{}

// WithPrincipal returns a copy of ctx carrying p. It is called once per
// request after the access token was verified.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFromContext returns the principal stored in ctx, if any.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}

// IsAuthenticated reports whether ctx carries a verified principal.
func IsAuthenticated(ctx context.Context) bool {
	_, ok := PrincipalFromContext(ctx)
	return ok
}
