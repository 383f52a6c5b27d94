package identity_test

import (
	"context"

	identity "github.com/goliatone/go-identity"
	"github.com/stretchr/testify/mock"
)

// MockUserStore implements identity.UserStore
type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) FindByIdentifier(ctx context.Context, identifier string) (*identity.User, error) {
	args := m.Called(ctx, identifier)
	var user *identity.User
	if v := args.Get(0); v != nil {
		user = v.(*identity.User)
	}
	return user, args.Error(1)
}

func (m *MockUserStore) Insert(ctx context.Context, record *identity.User) (*identity.User, error) {
	args := m.Called(ctx, record)
	var user *identity.User
	if v := args.Get(0); v != nil {
		user = v.(*identity.User)
	}
	return user, args.Error(1)
}

// MockTokenService implements identity.TokenService
type MockTokenService struct {
	mock.Mock
}

func (m *MockTokenService) Generate(id identity.Identity) (string, error) {
	args := m.Called(id)
	return args.String(0), args.Error(1)
}

func (m *MockTokenService) SignClaims(claims *identity.JWTClaims) (string, error) {
	args := m.Called(claims)
	return args.String(0), args.Error(1)
}

func (m *MockTokenService) Validate(tokenString string) (identity.AuthClaims, error) {
	args := m.Called(tokenString)
	var claims identity.AuthClaims
	if v := args.Get(0); v != nil {
		claims = v.(identity.AuthClaims)
	}
	return claims, args.Error(1)
}
