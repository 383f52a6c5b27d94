package identity

import "context"

// Principal is the authenticated caller derived from verified claims. It is
// immutable once constructed and is never built from unauthenticated input.
type Principal struct {
	Identity string   `json:"identity"`
	Role     UserRole `json:"role"`
}

// PrincipalFromClaims builds a Principal from validated claims.
func PrincipalFromClaims(claims AuthClaims) Principal {
	return Principal{
		Identity: claims.Subject(),
		Role:     claims.Role(),
	}
}

var principalCtxKey = &contextKey{"principal"}
var claimsCtxKey = &contextKey{"claims"}

type contextKey struct {
	name string
}

// WithContext sets the Principal in the given context
func WithContext(r context.Context, principal Principal) context.Context {
	return context.WithValue(r, principalCtxKey, principal)
}

// FromContext finds the principal from the context.
func FromContext(ctx context.Context) (Principal, bool) {
	raw, ok := ctx.Value(principalCtxKey).(Principal)
	return raw, ok
}

// WithClaimsContext sets the AuthClaims in the given context
func WithClaimsContext(r context.Context, claims AuthClaims) context.Context {
	return context.WithValue(r, claimsCtxKey, claims)
}

// GetClaims extracts the AuthClaims from the standard context
func GetClaims(ctx context.Context) (AuthClaims, bool) {
	raw, ok := ctx.Value(claimsCtxKey).(AuthClaims)
	return raw, ok
}
