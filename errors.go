package identity

import (
	"strings"

	"github.com/goliatone/go-errors"
)

// Text codes exposed alongside categorized errors so HTTP clients can key
// off stable identifiers instead of messages.
const (
	TextCodeInvalidCreds        = "INVALID_CREDENTIALS"
	TextCodeMissingCreds        = "MISSING_CREDENTIALS"
	TextCodeTokenExpired        = "TOKEN_EXPIRED"
	TextCodeTokenMalformed      = "TOKEN_MALFORMED"
	TextCodeTokenBadSignature   = "TOKEN_SIGNATURE_INVALID"
	TextCodeIdentityNotFound    = "IDENTITY_NOT_FOUND"
	TextCodeInsufficientRole    = "INSUFFICIENT_ROLE"
	TextCodeInvalidSaltMaterial = "INVALID_SALT"
)

// ErrIdentityNotFound is returned by stores when no record matches the identifier.
var ErrIdentityNotFound = errors.New("identity not found", errors.CategoryNotFound).
	WithTextCode(TextCodeIdentityNotFound)

// ErrMismatchedHashAndPassword is the single observable failure for bad
// credentials. Unknown identities and wrong passwords both map here so
// callers cannot enumerate accounts.
var ErrMismatchedHashAndPassword = errors.New("the credentials provided are invalid", errors.CategoryAuth).
	WithTextCode(TextCodeInvalidCreds)

// ErrNoEmptyString is returned when hashing an empty password.
var ErrNoEmptyString = errors.New("password must not be empty", errors.CategoryBadInput).
	WithTextCode(TextCodeMissingCreds)

// ErrTokenExpired is returned by token validation once the expiry has passed.
var ErrTokenExpired = errors.New("token is expired", errors.CategoryAuth).
	WithTextCode(TextCodeTokenExpired)

// ErrTokenMalformed is returned when a token cannot be decoded into the
// expected claims shape.
var ErrTokenMalformed = errors.New("token is malformed", errors.CategoryAuth).
	WithTextCode(TextCodeTokenMalformed)

// ErrTokenSignatureInvalid is returned when the recomputed signature does not
// match the one carried by the token.
var ErrTokenSignatureInvalid = errors.New("token signature is invalid", errors.CategoryAuth).
	WithTextCode(TextCodeTokenBadSignature)

// ErrInsufficientRole is returned by role guards on protected routes. It is
// an authorization failure, distinct from the authentication failures above.
var ErrInsufficientRole = errors.New("role does not grant access to this resource", errors.CategoryAuthz).
	WithTextCode(TextCodeInsufficientRole)

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrTokenExpired) {
		return true
	}
	return strings.Contains(err.Error(), "token is expired")
}

// IsMalformedError will check for error message
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrTokenMalformed) {
		return true
	}
	return strings.Contains(err.Error(), "token is malformed") ||
		strings.Contains(err.Error(), "missing or malformed")
}
