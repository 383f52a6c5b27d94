package identity

import (
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/goliatone/go-errors"
	"golang.org/x/crypto/argon2"
)

// SaltLength is the required length of the process-wide salt in bytes.
const SaltLength = 16

// argon2id parameters. Cost is deliberate: hashing must stay expensive for
// brute-force attackers.
const (
	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
	argonKeyLen  = 32
)

// Hasher hashes passwords with argon2id using a single process-wide salt,
// so hashing is deterministic for a given password+salt+cost. The salt and
// parameters are fixed at construction and never mutated.
type Hasher struct {
	salt    []byte
	time    uint32
	memory  uint32
	threads uint8
	keyLen  uint32
}

// NewHasher creates a Hasher for the given salt. The salt must be exactly
// SaltLength bytes.
func NewHasher(salt []byte) (*Hasher, error) {
	if len(salt) != SaltLength {
		return nil, errors.New(
			fmt.Sprintf("salt must be exactly %d bytes, got %d", SaltLength, len(salt)),
			errors.CategoryBadInput,
		).WithTextCode(TextCodeInvalidSaltMaterial)
	}

	return &Hasher{
		salt:    append([]byte(nil), salt...),
		time:    argonTime,
		memory:  argonMemory,
		threads: argonThreads,
		keyLen:  argonKeyLen,
	}, nil
}

// Hash will generate a password hash in PHC string format:
// $argon2id$v=19$m=65536,t=1,p=4$<salt>$<hash>
func (h *Hasher) Hash(password string) (string, error) {
	if password == "" {
		return "", ErrNoEmptyString
	}

	key := argon2.IDKey([]byte(password), h.salt, h.time, h.memory, h.threads, h.keyLen)

	encoded := fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		h.memory,
		h.time,
		h.threads,
		base64.RawStdEncoding.EncodeToString(h.salt),
		base64.RawStdEncoding.EncodeToString(key),
	)

	return encoded, nil
}

// Compare will validate the given cleartext password matches the encoded
// hash. The parameters and salt embedded in the hash are used for the
// recomputation, so hashes produced with the configured salt keep verifying
// even if the deployment later rotates parameters. The comparison is
// constant time.
func (h *Hasher) Compare(password, encodedHash string) error {
	key, expected, err := h.recompute(password, encodedHash)
	if err != nil {
		return err
	}

	if subtle.ConstantTimeCompare(key, expected) != 1 {
		return ErrMismatchedHashAndPassword
	}

	return nil
}

func (h *Hasher) recompute(password, encodedHash string) (computed, expected []byte, err error) {
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 {
		return nil, nil, invalidHashError("unexpected segment count")
	}

	if parts[1] != "argon2id" {
		return nil, nil, invalidHashError("unsupported algorithm " + parts[1])
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return nil, nil, invalidHashError("unreadable version")
	}
	if version != argon2.Version {
		return nil, nil, invalidHashError(fmt.Sprintf("incompatible version %d", version))
	}

	var memory, time, threads uint32
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &time, &threads); err != nil {
		return nil, nil, invalidHashError("unreadable parameters")
	}
	if threads == 0 || threads > 255 {
		return nil, nil, invalidHashError("parallelism out of range")
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return nil, nil, invalidHashError("undecodable salt")
	}

	expected, err = base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return nil, nil, invalidHashError("undecodable digest")
	}
	if len(expected) == 0 {
		return nil, nil, invalidHashError("empty digest")
	}

	computed = argon2.IDKey([]byte(password), salt, time, memory, uint8(threads), uint32(len(expected)))
	return computed, expected, nil
}

func invalidHashError(reason string) error {
	return errors.New("stored password hash is invalid: "+reason, errors.CategoryInternal).
		WithTextCode("INVALID_PASSWORD_HASH")
}
