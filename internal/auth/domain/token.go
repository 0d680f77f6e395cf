package domain

import (
	"time"

	"github.com/google/uuid"
)

// Token is an issued owner bearer token. Only its SHA-256 hash is stored.
type Token struct {
	ID        uuid.UUID
	TokenHash string
	OwnerID   uuid.UUID
	ExpiresAt time.Time
	RevokedAt *time.Time
	CreatedAt time.Time
}

// IsValid reports whether the token is unrevoked and unexpired at now.
func (t *Token) IsValid(now time.Time) bool {
	return t.RevokedAt == nil && t.ExpiresAt.After(now)
}
