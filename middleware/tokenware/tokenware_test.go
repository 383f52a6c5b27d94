package tokenware_test

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	identity "github.com/goliatone/go-identity"
	"github.com/goliatone/go-identity/middleware/tokenware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var signingKey = []byte("tokenware-test-signing-key")

func issueToken(t *testing.T, email string, role identity.UserRole) string {
	t.Helper()

	ts := identity.NewTokenService(signingKey, time.Hour)
	token, err := ts.Generate(identity.NewIdentityFromUser(&identity.User{Email: email, Role: role}))
	require.NoError(t, err)
	return token
}

func newTestApp(cfg tokenware.Config) *fiber.App {
	app := fiber.New()
	app.Get("/protected", tokenware.New(cfg), func(c *fiber.Ctx) error {
		principal, ok := identity.FromContext(c.UserContext())
		if !ok {
			return c.SendStatus(fiber.StatusTeapot)
		}
		return c.JSON(principal)
	})
	return app
}

func TestTokenware_ValidToken(t *testing.T) {
	validator := identity.NewTokenService(signingKey, time.Hour)
	app := newTestApp(tokenware.Config{TokenValidator: validator})

	token := issueToken(t, "alice@example.com", identity.RoleUser)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var principal identity.Principal
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&principal))
	assert.Equal(t, "alice@example.com", principal.Identity)
	assert.Equal(t, identity.RoleUser, principal.Role)
}

func TestTokenware_AttachesClaimsToLocals(t *testing.T) {
	validator := identity.NewTokenService(signingKey, time.Hour)

	app := fiber.New()
	app.Get("/protected", tokenware.New(tokenware.Config{TokenValidator: validator}), func(c *fiber.Ctx) error {
		claims, ok := c.Locals("user").(identity.AuthClaims)
		if !ok {
			return c.SendStatus(fiber.StatusTeapot)
		}
		return c.SendString(claims.Subject())
	})

	token := issueToken(t, "alice@example.com", identity.RoleAdmin)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", string(body))
}

func TestTokenware_UniformRejection(t *testing.T) {
	validator := identity.NewTokenService(signingKey, time.Hour)
	app := newTestApp(tokenware.Config{TokenValidator: validator})

	expired := identity.NewTokenService(signingKey, time.Hour).
		WithTimeFunc(func() time.Time { return time.Now().Add(-48 * time.Hour) })
	expiredToken, err := expired.Generate(
		identity.NewIdentityFromUser(&identity.User{Email: "old@example.com", Role: identity.RoleUser}))
	require.NoError(t, err)

	foreign := identity.NewTokenService([]byte("some-other-signing-key"), time.Hour)
	foreignToken, err := foreign.Generate(
		identity.NewIdentityFromUser(&identity.User{Email: "evil@example.com", Role: identity.RoleAdmin}))
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
	}{
		{"no authorization header", ""},
		{"wrong scheme", "Basic dXNlcjpwYXNz"},
		{"scheme without token", "Bearer "},
		{"garbage token", "Bearer not.a.token"},
		{"expired token", "Bearer " + expiredToken},
		{"wrong signing key", "Bearer " + foreignToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.header != "" {
				req.Header.Set(fiber.HeaderAuthorization, tt.header)
			}

			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

			// every rejection must be byte-for-byte identical
			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			assert.JSONEq(t, `{"error":"Unauthorized"}`, string(body))
		})
	}
}

func TestTokenware_CaseInsensitiveScheme(t *testing.T) {
	validator := identity.NewTokenService(signingKey, time.Hour)
	app := newTestApp(tokenware.Config{TokenValidator: validator})

	token := issueToken(t, "alice@example.com", identity.RoleUser)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(fiber.HeaderAuthorization, "bearer "+token)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestTokenware_Filter(t *testing.T) {
	validator := identity.NewTokenService(signingKey, time.Hour)

	app := fiber.New()
	gate := tokenware.New(tokenware.Config{
		TokenValidator: validator,
		Filter: func(c *fiber.Ctx) bool {
			return c.Query("skip") == "1"
		},
	})
	app.Get("/protected", gate, func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	t.Run("filtered request bypasses the gate", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/protected?skip=1", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})

	t.Run("unfiltered request still needs a token", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/protected", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})
}

func TestTokenware_CustomErrorHandler(t *testing.T) {
	validator := identity.NewTokenService(signingKey, time.Hour)

	app := newTestApp(tokenware.Config{
		TokenValidator: validator,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if errors.Is(err, tokenware.ErrMissingOrMalformedToken) {
				return c.SendStatus(fiber.StatusBadRequest)
			}
			return c.SendStatus(fiber.StatusUnauthorized)
		},
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/protected", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestTokenware_CustomContextKeyAndScheme(t *testing.T) {
	validator := identity.NewTokenService(signingKey, time.Hour)

	app := fiber.New()
	gate := tokenware.New(tokenware.Config{
		TokenValidator: validator,
		ContextKey:     "session",
		AuthScheme:     "Token",
	})
	app.Get("/protected", gate, func(c *fiber.Ctx) error {
		claims, ok := c.Locals("session").(identity.AuthClaims)
		if !ok {
			return c.SendStatus(fiber.StatusTeapot)
		}
		return c.SendString(claims.Subject())
	})

	token := issueToken(t, "alice@example.com", identity.RoleUser)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Token "+token)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestTokenware_PanicsWithoutValidator(t *testing.T) {
	assert.Panics(t, func() {
		tokenware.New(tokenware.Config{})
	})
}
