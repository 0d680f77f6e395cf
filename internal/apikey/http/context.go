// Package http provides HTTP handlers and middleware for API key management and verification.
package http

import (
	"context"

	apikeyDomain "github.com/allisson/apikeys/internal/apikey/domain"
)

// apiKeyKey is a context key type for storing verified API keys.
type apiKeyKey struct{}

// WithAPIKey stores a verified API key in the context.
func WithAPIKey(ctx context.Context, key *apikeyDomain.APIKey) context.Context {
	return context.WithValue(ctx, apiKeyKey{}, key)
}

// GetAPIKey retrieves the verified API key from the context.
func GetAPIKey(ctx context.Context) (*apikeyDomain.APIKey, bool) {
	key, ok := ctx.Value(apiKeyKey{}).(*apikeyDomain.APIKey)
	return key, ok
}
