package dto

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apikeyDomain "github.com/allisson/apikeys/internal/apikey/domain"
)

func TestGenerateAPIKeyRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{name: "valid", value: "production", wantErr: false},
		{name: "minimum length", value: "abc", wantErr: false},
		{name: "maximum length", value: strings.Repeat("x", 50), wantErr: false},
		{name: "surrounding spaces ignored", value: "  abc  ", wantErr: false},
		{name: "multibyte counted as runes", value: strings.Repeat("é", 50), wantErr: false},
		{name: "empty", value: "", wantErr: true},
		{name: "blank", value: "     ", wantErr: true},
		{name: "too short", value: "ab", wantErr: true},
		{name: "too short after trim", value: "  ab  ", wantErr: true},
		{name: "too long", value: strings.Repeat("x", 51), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := &GenerateAPIKeyRequest{Name: tt.value}
			err := req.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestMapAPIKeyToResponse(t *testing.T) {
	now := time.Now().UTC()
	expired := now.Add(-time.Minute)
	sourceID := uuid.New()

	key := &apikeyDomain.APIKey{
		ID:            uuid.New(),
		OwnerID:       uuid.New(),
		Name:          "Rotated from production",
		SecretHash:    "hash",
		LookupPrefix:  "sk_live_abcd",
		IsActive:      true,
		ExpiresAt:     &expired,
		RotatedFromID: &sourceID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	resp := MapAPIKeyToResponse(key, now)
	assert.Equal(t, key.ID.String(), resp.ID)
	assert.Equal(t, "expired", resp.Status)
	require.NotNil(t, resp.RotatedFromID)
	assert.Equal(t, sourceID.String(), *resp.RotatedFromID)

	list := MapAPIKeysToListResponse([]*apikeyDomain.APIKey{key}, now)
	require.Len(t, list.Data, 1)
	assert.Equal(t, resp, list.Data[0])

	assert.NotNil(t, MapAPIKeysToListResponse(nil, now).Data)
}
