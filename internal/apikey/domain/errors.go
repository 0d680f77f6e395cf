package domain

import (
	"github.com/allisson/apikeys/internal/errors"
)

// API key errors.
var (
	// ErrDuplicateName indicates the owner already has a key, active or not, with the same name.
	ErrDuplicateName = errors.Wrap(errors.ErrConflict, "an api key with this name already exists")

	// ErrLimitExceeded indicates the owner already holds the maximum number of usable keys.
	ErrLimitExceeded = errors.Wrap(errors.ErrLimitExceeded, "maximum number of active api keys reached")

	// ErrAPIKeyNotFound indicates no key with the given id exists for the owner.
	ErrAPIKeyNotFound = errors.Wrap(errors.ErrNotFound, "api key not found")

	// ErrAlreadyRevoked indicates the key has already been revoked.
	ErrAlreadyRevoked = errors.Wrap(errors.ErrInvalidInput, "api key is already revoked")

	// ErrInactiveKey indicates the key is revoked or expired and cannot be rotated.
	ErrInactiveKey = errors.Wrap(errors.ErrInvalidInput, "api key is not active")

	// ErrMissingCredential indicates no API key was presented.
	ErrMissingCredential = errors.Wrap(errors.ErrUnauthorized, "api key is required")

	// ErrInvalidOrExpiredCredential covers every verification failure so callers cannot
	// distinguish unknown, revoked, expired and mismatched keys.
	ErrInvalidOrExpiredCredential = errors.Wrap(errors.ErrUnauthorized, "invalid or expired api key")

	// ErrSecretHashConflict indicates a generated secret collided with a stored hash.
	ErrSecretHashConflict = errors.Wrap(errors.ErrConflict, "api key secret hash conflict")
)

// ErrOwnerNotFound indicates the owner row to lock does not exist.
var ErrOwnerNotFound = errors.Wrap(errors.ErrNotFound, "owner not found")

// ErrNameTooLong indicates a derived key name no longer fits the stored column.
var ErrNameTooLong = errors.Wrap(errors.ErrInvalidInput, "api key name is too long")

// ErrInvalidName indicates a key name outside MinNameLength..MaxNameLength after trimming.
var ErrInvalidName = errors.Wrap(errors.ErrInvalidInput, "api key name must be between 3 and 50 characters")
