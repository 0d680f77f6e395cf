// Package dto provides data transfer objects for owner authentication requests and responses.
package dto

import (
	validation "github.com/jellydator/validation"

	customValidation "github.com/allisson/apikeys/internal/validation"
)

// IssueTokenRequest contains the owner credentials exchanged for a bearer token.
type IssueTokenRequest struct {
	OwnerID     string `json:"owner_id"`
	OwnerSecret string `json:"owner_secret"` //nolint:gosec // request field
}

// Validate checks if the issue token request is valid.
func (r *IssueTokenRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.OwnerID,
			validation.Required,
			customValidation.UUID,
		),
		validation.Field(&r.OwnerSecret,
			validation.Required,
			customValidation.NotBlank,
			customValidation.NoWhitespace,
		),
	)
}
