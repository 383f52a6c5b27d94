package identity

import (
	"encoding/base64"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/goliatone/go-errors"
)

// Environment variables read by LoadConfig.
const (
	EnvSigningSecret = "AUTH_JWT_SECRET"
	EnvSalt          = "AUTH_JWT_SALT"
	EnvTokenTTL      = "AUTH_TOKEN_TTL"
	EnvListenAddr    = "AUTH_LISTEN_ADDR"
	EnvDBDSN         = "AUTH_DB_DSN"
)

// DefaultTokenTTL is the session window used when AUTH_TOKEN_TTL is unset.
const DefaultTokenTTL = 24 * time.Hour

// Config holds the process-wide auth configuration. It is loaded once at
// startup and must be treated as immutable afterwards. SigningSecret and
// Salt must never appear in logs or responses.
type Config struct {
	SigningSecret string
	Salt          []byte
	TokenTTL      time.Duration
	ListenAddr    string
	DBDSN         string
}

// LoadConfig reads the configuration from the environment. The salt is
// expected as standard base64 decoding to exactly SaltLength bytes; the TTL
// as an integer number of seconds.
func LoadConfig() (*Config, error) {
	secret := os.Getenv(EnvSigningSecret)
	if secret == "" {
		return nil, missingEnvError(EnvSigningSecret)
	}

	rawSalt := os.Getenv(EnvSalt)
	if rawSalt == "" {
		return nil, missingEnvError(EnvSalt)
	}

	salt, err := base64.StdEncoding.DecodeString(rawSalt)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryBadInput, EnvSalt+" must be valid base64").
			WithTextCode(TextCodeInvalidSaltMaterial)
	}
	if len(salt) != SaltLength {
		return nil, errors.New(
			fmt.Sprintf("%s must decode to exactly %d bytes, got %d", EnvSalt, SaltLength, len(salt)),
			errors.CategoryBadInput,
		).WithTextCode(TextCodeInvalidSaltMaterial)
	}

	ttl := DefaultTokenTTL
	if raw := os.Getenv(EnvTokenTTL); raw != "" {
		secs, err := strconv.Atoi(raw)
		if err != nil || secs <= 0 {
			return nil, errors.New(EnvTokenTTL+" must be a positive integer number of seconds", errors.CategoryBadInput)
		}
		ttl = time.Duration(secs) * time.Second
	}

	addr := os.Getenv(EnvListenAddr)
	if addr == "" {
		addr = ":3000"
	}

	return &Config{
		SigningSecret: secret,
		Salt:          salt,
		TokenTTL:      ttl,
		ListenAddr:    addr,
		DBDSN:         os.Getenv(EnvDBDSN),
	}, nil
}

func missingEnvError(name string) error {
	return errors.New(name+" environment variable is not set", errors.CategoryBadInput).
		WithTextCode("MISSING_CONFIG")
}
