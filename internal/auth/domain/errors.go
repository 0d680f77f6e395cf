package domain

import (
	"github.com/allisson/apikeys/internal/errors"
)

// Owner authentication errors.
var (
	// ErrOwnerNotFound indicates an owner with the specified ID was not found.
	ErrOwnerNotFound = errors.Wrap(errors.ErrNotFound, "owner not found")

	// ErrTokenNotFound indicates a token with the specified hash was not found.
	ErrTokenNotFound = errors.Wrap(errors.ErrNotFound, "token not found")

	// ErrInvalidCredentials covers unknown owners, wrong secrets and bad tokens alike.
	ErrInvalidCredentials = errors.Wrap(errors.ErrUnauthorized, "invalid credentials")

	// ErrOwnerInactive indicates the owner exists but has been deactivated.
	ErrOwnerInactive = errors.Wrap(errors.ErrForbidden, "owner is inactive")
)
