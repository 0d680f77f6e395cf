// Package service provides the API key secret codec.
//
// Secrets are generated from crypto/rand, identified by a short plaintext lookup prefix and
// stored only as a salted one-way hash. Argon2id is used for new keys by default; bcrypt digests
// remain verifiable so keys imported from earlier deployments keep working.
package service

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/allisson/go-pwdhash"
	"golang.org/x/crypto/bcrypt"

	apikeyDomain "github.com/allisson/apikeys/internal/apikey/domain"
	apperrors "github.com/allisson/apikeys/internal/errors"
)

const (
	// AlgorithmArgon2id hashes secrets with Argon2id.
	AlgorithmArgon2id = "argon2id"
	// AlgorithmBcrypt hashes secrets with bcrypt.
	AlgorithmBcrypt = "bcrypt"

	// MinBcryptCost is the lowest bcrypt cost accepted for new hashes.
	MinBcryptCost = 10
)

// SecretCodec generates, hashes and verifies API key secrets.
type SecretCodec interface {
	// GenerateSecret returns a new plaintext secret.
	GenerateSecret() (string, error)

	// LookupPrefix returns the non-secret prefix used to narrow verification candidates.
	LookupPrefix(secret string) string

	// Hash returns a salted one-way digest of secret.
	Hash(secret string) (string, error)

	// Verify reports whether secret matches digest. Unknown digest formats never match.
	Verify(secret, digest string) bool
}

type secretCodec struct {
	hasher     *pwdhash.PasswordHasher
	algorithm  string
	bcryptCost int
}

// GenerateSecret returns SecretPrefix followed by the hex encoding of 32 random bytes.
func (s *secretCodec) GenerateSecret() (string, error) {
	randomBytes := make([]byte, apikeyDomain.SecretRandomBytes)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", apperrors.Wrap(err, "failed to generate random secret")
	}
	return apikeyDomain.SecretPrefix + hex.EncodeToString(randomBytes), nil
}

// LookupPrefix returns the first LookupPrefixLength characters of secret.
func (s *secretCodec) LookupPrefix(secret string) string {
	if len(secret) <= apikeyDomain.LookupPrefixLength {
		return secret
	}
	return secret[:apikeyDomain.LookupPrefixLength]
}

// Hash digests secret with the configured algorithm.
func (s *secretCodec) Hash(secret string) (string, error) {
	if s.algorithm == AlgorithmBcrypt {
		digest, err := bcrypt.GenerateFromPassword([]byte(secret), s.bcryptCost)
		if err != nil {
			return "", apperrors.Wrap(err, "failed to hash secret")
		}
		return string(digest), nil
	}

	digest, err := s.hasher.Hash([]byte(secret))
	if err != nil {
		return "", apperrors.Wrap(err, "failed to hash secret")
	}
	return digest, nil
}

// Verify dispatches on the digest format so argon2id and bcrypt digests both verify.
func (s *secretCodec) Verify(secret, digest string) bool {
	switch {
	case strings.HasPrefix(digest, "$argon2id$"):
		ok, err := s.hasher.Verify([]byte(secret), digest)
		return err == nil && ok
	case isBcryptDigest(digest):
		return bcrypt.CompareHashAndPassword([]byte(digest), []byte(secret)) == nil
	default:
		return false
	}
}

func isBcryptDigest(digest string) bool {
	return strings.HasPrefix(digest, "$2a$") ||
		strings.HasPrefix(digest, "$2b$") ||
		strings.HasPrefix(digest, "$2y$")
}

// NewSecretCodec creates a SecretCodec hashing new secrets with algorithm.
// An empty algorithm selects argon2id. Bcrypt costs below MinBcryptCost are rejected.
func NewSecretCodec(algorithm string, bcryptCost int) (SecretCodec, error) {
	hasher, err := pwdhash.New(
		pwdhash.WithPolicy(pwdhash.PolicyModerate),
	)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to create password hasher")
	}

	algorithm = strings.ToLower(strings.TrimSpace(algorithm))
	switch algorithm {
	case "", AlgorithmArgon2id:
		algorithm = AlgorithmArgon2id
	case AlgorithmBcrypt:
		if bcryptCost < MinBcryptCost || bcryptCost > bcrypt.MaxCost {
			return nil, fmt.Errorf(
				"invalid bcrypt cost %d: must be between %d and %d",
				bcryptCost, MinBcryptCost, bcrypt.MaxCost,
			)
		}
	default:
		return nil, fmt.Errorf("unsupported hash algorithm %q", algorithm)
	}

	return &secretCodec{
		hasher:     hasher,
		algorithm:  algorithm,
		bcryptCost: bcryptCost,
	}, nil
}
