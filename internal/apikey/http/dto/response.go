package dto

import (
	"time"

	apikeyDomain "github.com/allisson/apikeys/internal/apikey/domain"
)

// APIKeyResponse represents key metadata in API responses. Secrets and hashes are never included.
type APIKeyResponse struct {
	ID            string     `json:"id"`
	OwnerID       string     `json:"owner_id"`
	Name          string     `json:"name"`
	LookupPrefix  string     `json:"lookup_prefix"`
	Status        string     `json:"status"`
	IsActive      bool       `json:"is_active"`
	ExpiresAt     *time.Time `json:"expires_at"`
	RevokedAt     *time.Time `json:"revoked_at"`
	RotatedFromID *string    `json:"rotated_from_id"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// MapAPIKeyToResponse converts a domain key to an API response, deriving its status at now.
func MapAPIKeyToResponse(key *apikeyDomain.APIKey, now time.Time) APIKeyResponse {
	response := APIKeyResponse{
		ID:           key.ID.String(),
		OwnerID:      key.OwnerID.String(),
		Name:         key.Name,
		LookupPrefix: key.LookupPrefix,
		Status:       string(key.Status(now)),
		IsActive:     key.IsActive,
		ExpiresAt:    key.ExpiresAt,
		RevokedAt:    key.RevokedAt,
		CreatedAt:    key.CreatedAt,
		UpdatedAt:    key.UpdatedAt,
	}
	if key.RotatedFromID != nil {
		rotatedFromID := key.RotatedFromID.String()
		response.RotatedFromID = &rotatedFromID
	}
	return response
}

// GenerateAPIKeyResponse contains a newly generated key.
// The plaintext secret is only returned once.
type GenerateAPIKeyResponse struct {
	APIKey string         `json:"api_key"` //nolint:gosec // returned once on creation
	Key    APIKeyResponse `json:"key"`
}

// ListAPIKeysResponse represents the owner's keys, newest first.
type ListAPIKeysResponse struct {
	Data []APIKeyResponse `json:"data"`
}

// MapAPIKeysToListResponse converts a slice of domain keys to a list API response.
func MapAPIKeysToListResponse(keys []*apikeyDomain.APIKey, now time.Time) ListAPIKeysResponse {
	data := make([]APIKeyResponse, 0, len(keys))
	for _, key := range keys {
		data = append(data, MapAPIKeyToResponse(key, now))
	}
	return ListAPIKeysResponse{Data: data}
}

// RotateAPIKeyResponse contains the successor key and the scheduled-to-expire source key.
type RotateAPIKeyResponse struct {
	APIKey string         `json:"api_key"` //nolint:gosec // returned once on rotation
	NewKey APIKeyResponse `json:"new_key"`
	OldKey APIKeyResponse `json:"old_key"`
}

// ProtectedDataResponse is returned by endpoints guarded by an API key.
type ProtectedDataResponse struct {
	UsedKeyName string `json:"used_key_name"`
	OwnerID     string `json:"owner_id"`
}
