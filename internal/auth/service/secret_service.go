package service

import (
	"crypto/rand"
	"encoding/base64"

	"github.com/allisson/go-pwdhash"

	apperrors "github.com/allisson/apikeys/internal/errors"
)

// ownerSecretBytes is the amount of randomness in an owner secret.
const ownerSecretBytes = 32

// secretService implements SecretService with Argon2id.
type secretService struct {
	hasher *pwdhash.PasswordHasher
}

// GenerateSecret creates a URL-safe base64 secret from 32 random bytes and hashes it.
func (s *secretService) GenerateSecret() (string, string, error) {
	randomBytes := make([]byte, ownerSecretBytes)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", "", apperrors.Wrap(err, "failed to generate random secret")
	}

	plainSecret := base64.RawURLEncoding.EncodeToString(randomBytes)
	hashedSecret, err := s.HashSecret(plainSecret)
	if err != nil {
		return "", "", err
	}
	return plainSecret, hashedSecret, nil
}

// HashSecret hashes a plain text secret using Argon2id.
func (s *secretService) HashSecret(plainSecret string) (string, error) {
	hashedSecret, err := s.hasher.Hash([]byte(plainSecret))
	if err != nil {
		return "", apperrors.Wrap(err, "failed to hash secret")
	}
	return hashedSecret, nil
}

// CompareSecret verifies plainSecret against an Argon2id hash.
func (s *secretService) CompareSecret(plainSecret string, hashedSecret string) bool {
	ok, err := s.hasher.Verify([]byte(plainSecret), hashedSecret)
	return err == nil && ok
}

// NewSecretService creates a SecretService using the Moderate Argon2id policy.
func NewSecretService() (SecretService, error) {
	hasher, err := pwdhash.New(
		pwdhash.WithPolicy(pwdhash.PolicyModerate),
	)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to create password hasher")
	}
	return &secretService{hasher: hasher}, nil
}
