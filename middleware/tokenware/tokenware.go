// Package tokenware gates protected routes behind bearer-token validation.
// It extracts the token from the Authorization header, delegates validation
// to the configured TokenValidator, and attaches the resulting principal to
// the request context. Every rejection collapses to a single 401 response
// so callers cannot tell a missing token from a bad signature or an expired
// one; the distinct reason is only logged.
package tokenware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	identity "github.com/goliatone/go-identity"
)

// ErrMissingOrMalformedToken is returned by the extractor when the
// Authorization header is absent or does not carry the expected scheme.
var ErrMissingOrMalformedToken = errors.New("missing or malformed bearer token")

// Config holds the middleware options. TokenValidator is required.
type Config struct {
	// TokenValidator validates the raw token and returns claims.
	TokenValidator identity.TokenValidator

	// Filter skips the middleware when it returns true.
	Filter func(*fiber.Ctx) bool

	// SuccessHandler runs after the principal has been attached.
	// Defaults to c.Next().
	SuccessHandler fiber.Handler

	// ErrorHandler turns a rejection into a response. The default collapses
	// every failure into 401 {"error":"Unauthorized"}.
	ErrorHandler func(*fiber.Ctx, error) error

	// ContextKey is the locals key the claims are stored under. Defaults
	// to "user".
	ContextKey string

	// AuthScheme is the expected Authorization scheme. Defaults to "Bearer".
	AuthScheme string

	// Logger receives the internal rejection reasons.
	Logger identity.Logger
}

// New builds the gate middleware.
func New(config ...Config) fiber.Handler {
	cfg := configDefault(config...)

	return func(c *fiber.Ctx) error {
		if cfg.Filter != nil && cfg.Filter(c) {
			return c.Next()
		}

		raw, err := tokenFromHeader(c, cfg.AuthScheme)
		if err != nil {
			cfg.Logger.Debug("request rejected", "reason", err.Error(), "path", c.Path())
			return cfg.ErrorHandler(c, err)
		}

		claims, err := cfg.TokenValidator.Validate(raw)
		if err != nil {
			cfg.Logger.Debug("token rejected", "reason", err.Error(), "path", c.Path())
			return cfg.ErrorHandler(c, err)
		}

		c.Locals(cfg.ContextKey, claims)

		principal := identity.PrincipalFromClaims(claims)
		ctx := identity.WithClaimsContext(c.UserContext(), claims)
		c.SetUserContext(identity.WithContext(ctx, principal))

		return cfg.SuccessHandler(c)
	}
}

func configDefault(config ...Config) Config {
	var cfg Config
	if len(config) > 0 {
		cfg = config[0]
	}

	if cfg.TokenValidator == nil {
		panic("tokenware: TokenValidator is required")
	}

	if cfg.SuccessHandler == nil {
		cfg.SuccessHandler = func(c *fiber.Ctx) error {
			return c.Next()
		}
	}

	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = func(c *fiber.Ctx, _ error) error {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
		}
	}

	if cfg.ContextKey == "" {
		cfg.ContextKey = "user"
	}

	if cfg.AuthScheme == "" {
		cfg.AuthScheme = "Bearer"
	}

	if cfg.Logger == nil {
		cfg.Logger = identity.NewSlogLogger(nil)
	}

	return cfg
}

func tokenFromHeader(c *fiber.Ctx, authScheme string) (string, error) {
	header := c.Get(fiber.HeaderAuthorization)
	l := len(authScheme)
	if len(header) > l+1 && strings.EqualFold(header[:l], authScheme) {
		token := strings.TrimSpace(header[l:])
		if token != "" {
			return token, nil
		}
	}
	return "", ErrMissingOrMalformedToken
}
