// Package service provides credential services for owner authentication.
package service

// SecretService generates and verifies owner secrets.
type SecretService interface {
	// GenerateSecret returns a new random secret and its Argon2id hash.
	// The plain secret is shown to the operator once and never stored.
	GenerateSecret() (plainSecret string, hashedSecret string, err error)

	// HashSecret hashes a plain secret with Argon2id.
	HashSecret(plainSecret string) (hashedSecret string, err error)

	// CompareSecret reports whether plainSecret matches hashedSecret in constant time.
	CompareSecret(plainSecret string, hashedSecret string) bool
}

// TokenService generates bearer tokens and hashes them for storage.
type TokenService interface {
	// GenerateToken returns a new random token and its SHA-256 hash.
	GenerateToken() (plainToken string, tokenHash string, err error)

	// HashToken returns the hex SHA-256 of plainToken.
	HashToken(plainToken string) string
}
