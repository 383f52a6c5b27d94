package identity_test

import (
	"strings"
	"testing"

	identity "github.com/goliatone/go-identity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSalt = []byte("0123456789abcdef")

func newTestHasher(t *testing.T) *identity.Hasher {
	t.Helper()
	h, err := identity.NewHasher(testSalt)
	require.NoError(t, err)
	return h
}

func TestNewHasher(t *testing.T) {
	tests := []struct {
		name    string
		salt    []byte
		wantErr bool
	}{
		{
			name: "valid 16 byte salt",
			salt: testSalt,
		},
		{
			name:    "short salt",
			salt:    []byte("too-short"),
			wantErr: true,
		},
		{
			name:    "long salt",
			salt:    []byte("0123456789abcdef0123456789abcdef"),
			wantErr: true,
		},
		{
			name:    "nil salt",
			salt:    nil,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := identity.NewHasher(tt.salt)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, h)
				return
			}
			assert.NoError(t, err)
			assert.NotNil(t, h)
		})
	}
}

func TestHasher_Hash(t *testing.T) {
	h := newTestHasher(t)

	t.Run("deterministic for fixed salt", func(t *testing.T) {
		first, err := h.Hash("secret123")
		require.NoError(t, err)

		second, err := h.Hash("secret123")
		require.NoError(t, err)

		assert.Equal(t, first, second)
	})

	t.Run("different passwords produce different hashes", func(t *testing.T) {
		a, err := h.Hash("secret123")
		require.NoError(t, err)

		b, err := h.Hash("secret124")
		require.NoError(t, err)

		assert.NotEqual(t, a, b)
	})

	t.Run("hash never contains the plaintext", func(t *testing.T) {
		hash, err := h.Hash("hunter2-plaintext")
		require.NoError(t, err)
		assert.NotContains(t, hash, "hunter2-plaintext")
	})

	t.Run("empty password", func(t *testing.T) {
		_, err := h.Hash("")
		assert.ErrorIs(t, err, identity.ErrNoEmptyString)
	})
}

func TestHasher_Compare(t *testing.T) {
	h := newTestHasher(t)

	password := "testPassword123!"
	hash, err := h.Hash(password)
	require.NoError(t, err)

	tests := []struct {
		name     string
		password string
		hash     string
		wantErr  error
	}{
		{
			name:     "matching password",
			password: password,
			hash:     hash,
		},
		{
			name:     "wrong password",
			password: "wrongPassword",
			hash:     hash,
			wantErr:  identity.ErrMismatchedHashAndPassword,
		},
		{
			name:     "invalid hash",
			password: password,
			hash:     "invalidhash",
			wantErr:  nil, // any error is fine, but never a silent pass
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := h.Compare(tt.password, tt.hash)

			if tt.hash == "invalidhash" {
				assert.Error(t, err)
				return
			}
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestHasher_CompareRejectsForeignAlgorithm(t *testing.T) {
	h := newTestHasher(t)

	hash, err := h.Hash("secret123")
	require.NoError(t, err)

	tampered := strings.Replace(hash, "argon2id", "argon2i", 1)
	assert.Error(t, h.Compare("secret123", tampered))
}

func TestHasher_CompareAcrossInstances(t *testing.T) {
	// a hash produced by one process verifies in another as long as the
	// configured salt matches
	h1 := newTestHasher(t)
	h2 := newTestHasher(t)

	hash, err := h1.Hash("portable-secret")
	require.NoError(t, err)

	assert.NoError(t, h2.Compare("portable-secret", hash))
}
