// Package http provides HTTP handlers and middleware for owner authentication.
package http

import (
	"context"

	authDomain "github.com/allisson/apikeys/internal/auth/domain"
)

// ownerKey is a context key type for storing authenticated owners.
type ownerKey struct{}

// WithOwner stores an authenticated owner in the context.
func WithOwner(ctx context.Context, owner *authDomain.Owner) context.Context {
	return context.WithValue(ctx, ownerKey{}, owner)
}

// GetOwner retrieves the authenticated owner from the context.
// Returns (nil, false) if AuthenticationMiddleware has not run.
func GetOwner(ctx context.Context) (*authDomain.Owner, bool) {
	owner, ok := ctx.Value(ownerKey{}).(*authDomain.Owner)
	return owner, ok
}
