// Package domain defines the API key and access log domain models.
//
// An APIKey is an owner-scoped opaque credential. Only a one-way hash of the secret is kept;
// the plaintext is disclosed exactly once at generation or rotation time.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Status is the derived state of an APIKey at a given instant. It is never persisted.
type Status string

const (
	StatusActive  Status = "active"
	StatusExpired Status = "expired"
	StatusRevoked Status = "revoked"
)

// APIKey represents one issued credential.
type APIKey struct {
	ID            uuid.UUID  // Unique identifier (UUIDv7)
	OwnerID       uuid.UUID  // Owning principal
	Name          string     // Unique per owner
	SecretHash    string     `json:"-"` //nolint:gosec // one-way hash, never the plaintext
	LookupPrefix  string     // First characters of the plaintext secret, used to narrow verification
	IsActive      bool       // False once revoked; never flips back
	ExpiresAt     *time.Time // Nil means the key does not expire
	RevokedAt     *time.Time
	RotatedFromID *uuid.UUID // Predecessor in the rotation chain
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsExpired reports whether the key has an expiry at or before now.
func (k *APIKey) IsExpired(now time.Time) bool {
	return k.ExpiresAt != nil && !k.ExpiresAt.After(now)
}

// IsUsable reports whether the key is active and not expired at now.
func (k *APIKey) IsUsable(now time.Time) bool {
	return k.IsActive && !k.IsExpired(now)
}

// Status returns the derived status of the key at now. Revocation takes precedence over expiry.
func (k *APIKey) Status(now time.Time) Status {
	switch {
	case !k.IsActive:
		return StatusRevoked
	case k.IsExpired(now):
		return StatusExpired
	default:
		return StatusActive
	}
}

// GenerateAPIKeyOutput is returned by key generation and carries the one-time plaintext secret.
type GenerateAPIKeyOutput struct {
	PlainSecret string
	APIKey      *APIKey
}

// RotateAPIKeyOutput is returned by key rotation.
type RotateAPIKeyOutput struct {
	PlainSecret string
	NewKey      *APIKey
	OldKey      *APIKey
}
