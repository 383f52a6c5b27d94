package identity

import (
	"context"
	"fmt"
)

// Logger is the minimal logging surface the package needs. Messages take
// slog-style key/value pairs.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Identity holds the attributes of an authenticated identity
type Identity interface {
	ID() string
	Email() string
	Role() string
}

// UserStore is the credential store collaborator. Implementations must make
// Insert atomic with respect to concurrent registrations; FindByIdentifier
// returns ErrIdentityNotFound (CategoryNotFound) on a miss.
type UserStore interface {
	FindByIdentifier(ctx context.Context, identifier string) (*User, error)
	Insert(ctx context.Context, record *User) (*User, error)
}

// TokenService issues and validates signed session tokens.
type TokenService interface {
	TokenValidator
	Generate(identity Identity) (string, error)
	SignClaims(claims *JWTClaims) (string, error)
}

// Authenticator holds methods to deal with authentication
type Authenticator interface {
	Login(ctx context.Context, identifier, password string) (string, error)
	Register(ctx context.Context, msg RegisterUserMessage) (*User, error)
}

type defLogger struct{}

func (d defLogger) Debug(msg string, args ...any) { d.print("DBG", msg, args...) }
func (d defLogger) Info(msg string, args ...any)  { d.print("INF", msg, args...) }
func (d defLogger) Warn(msg string, args ...any)  { d.print("WRN", msg, args...) }
func (d defLogger) Error(msg string, args ...any) { d.print("ERR", msg, args...) }

func (d defLogger) print(level, msg string, args ...any) {
	fmt.Printf("[%s] IDENTITY %s %v\n", level, msg, args)
}
