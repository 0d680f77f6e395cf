// Package domain defines the owner authentication models.
//
// Owners are the principals that hold API keys. They authenticate with an id and secret
// to obtain a short-lived bearer token used on the key management endpoints.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Owner is a principal that manages API keys.
type Owner struct {
	ID        uuid.UUID // Unique identifier (UUIDv7)
	Name      string
	Secret    string //nolint:gosec // hashed owner secret (not plaintext)
	IsActive  bool
	CreatedAt time.Time
}

// CreateOwnerInput contains the parameters for creating an owner.
type CreateOwnerInput struct {
	Name string
}

// CreateOwnerOutput carries the one-time plaintext owner secret.
type CreateOwnerOutput struct {
	ID          uuid.UUID
	PlainSecret string
}

// IssueTokenInput contains the owner credentials exchanged for a token.
type IssueTokenInput struct {
	OwnerID     uuid.UUID
	OwnerSecret string
}

// IssueTokenOutput carries the one-time plaintext bearer token.
type IssueTokenOutput struct {
	PlainToken string
	ExpiresAt  time.Time
}
