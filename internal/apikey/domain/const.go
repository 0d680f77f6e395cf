package domain

import (
	"strings"
	"time"
)

const (
	// SecretPrefix marks every generated secret as a live API key.
	SecretPrefix = "sk_live_"

	// SecretRandomBytes is the number of random bytes hex-encoded after SecretPrefix.
	SecretRandomBytes = 32

	// LookupPrefixLength is the number of leading plaintext characters stored for lookup.
	LookupPrefixLength = 12

	// RotatedNamePrefix is prepended to the source key name when a key is rotated.
	RotatedNamePrefix = "Rotated from "

	// DefaultMaxActiveKeys is the per-owner limit of usable keys.
	DefaultMaxActiveKeys = 3

	// DefaultRotationGracePeriod is how long a rotated key keeps verifying.
	DefaultRotationGracePeriod = 24 * time.Hour

	// MinNameLength and MaxNameLength bound user-supplied key names after trimming.
	MinNameLength = 3
	MaxNameLength = 50

	// MaxStoredNameLength is the width of the name column, which also holds rotated names.
	MaxStoredNameLength = 255

	// DefaultLegacyExpirationDays is the expiry applied to legacy keys by the back-fill.
	DefaultLegacyExpirationDays = 90
)

// RotatedName returns the name given to the successor of a key named name.
func RotatedName(name string) string {
	return RotatedNamePrefix + name
}

// IsWellFormedSecret reports whether secret has the shape of a generated secret:
// SecretPrefix followed by 2*SecretRandomBytes lowercase hex characters.
func IsWellFormedSecret(secret string) bool {
	if len(secret) != len(SecretPrefix)+2*SecretRandomBytes || !strings.HasPrefix(secret, SecretPrefix) {
		return false
	}
	for i := len(SecretPrefix); i < len(secret); i++ {
		c := secret[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
