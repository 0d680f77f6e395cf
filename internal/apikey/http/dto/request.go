// Package dto provides data transfer objects for API key requests and responses.
package dto

import (
	validation "github.com/jellydator/validation"

	apikeyDomain "github.com/allisson/apikeys/internal/apikey/domain"
	customValidation "github.com/allisson/apikeys/internal/validation"
)

// GenerateAPIKeyRequest contains the parameters for generating a new API key.
type GenerateAPIKeyRequest struct {
	Name string `json:"name"`
}

// Validate checks if the generate request is valid. The name is measured after trimming.
func (r *GenerateAPIKeyRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Name,
			validation.Required,
			customValidation.NotBlank,
			customValidation.TrimmedLength(apikeyDomain.MinNameLength, apikeyDomain.MaxNameLength),
		),
	)
}
