package identity

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AuthClaims represents validated claims extracted from a session token.
type AuthClaims interface {
	Subject() string
	Role() UserRole
	HasRole(role UserRole) bool
	Expires() time.Time
	IssuedAt() time.Time
}

// JWTClaims is the concrete implementation of AuthClaims. Wire payload is
// {sub, role, exp, iat} with role one of "Admin" or "User".
type JWTClaims struct {
	jwt.RegisteredClaims
	UserRole UserRole `json:"role,omitempty"`
}

// Verify interface compliance
var _ AuthClaims = (*JWTClaims)(nil)

// Subject returns the subject claim
func (c *JWTClaims) Subject() string {
	return c.RegisteredClaims.Subject
}

// Role returns the role claim
func (c *JWTClaims) Role() UserRole {
	return c.UserRole
}

// HasRole checks if the claims carry the given role
func (c *JWTClaims) HasRole(role UserRole) bool {
	return c.UserRole == role
}

// Expires returns the expiration time
func (c *JWTClaims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}

// IssuedAt returns the issued at time
func (c *JWTClaims) IssuedAt() time.Time {
	if c.RegisteredClaims.IssuedAt != nil {
		return c.RegisteredClaims.IssuedAt.Time
	}
	return time.Time{}
}
