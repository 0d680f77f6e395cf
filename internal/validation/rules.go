// Package validation provides custom validation rules for the application.
package validation

import (
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	apperrors "github.com/allisson/apikeys/internal/errors"
)

// WrapValidationError wraps validation errors as domain ErrInvalidInput
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// NoWhitespace validates that string doesn't contain leading/trailing whitespace
var NoWhitespace = validation.NewStringRuleWithError(
	func(s string) bool {
		return s == strings.TrimSpace(s)
	},
	validation.NewError("validation_no_whitespace", "must not contain leading or trailing whitespace"),
)

// NotBlank validates that a string is not empty after trimming whitespace
var NotBlank = validation.NewStringRuleWithError(
	func(s string) bool {
		return strings.TrimSpace(s) != ""
	},
	validation.NewError("validation_not_blank", "must not be blank"),
)

// UUID validates that a string parses as a UUID.
var UUID = validation.NewStringRuleWithError(
	func(s string) bool {
		_, err := uuid.Parse(s)
		return err == nil
	},
	validation.NewError("validation_uuid", "must be a valid UUID"),
)

// TrimmedLength checks the rune count of a string after surrounding whitespace is removed.
// Empty values are left to Required.
func TrimmedLength(min, max int) validation.Rule {
	return validation.By(func(value interface{}) error {
		s, ok := value.(string)
		if !ok {
			return validation.NewError("validation_trimmed_length_type", "must be a string")
		}
		trimmed := strings.TrimSpace(s)
		if trimmed == "" {
			return nil
		}
		n := utf8.RuneCountInString(trimmed)
		if n < min || n > max {
			return validation.NewError(
				"validation_trimmed_length",
				"the length must be between {{.min}} and {{.max}}",
			).SetParams(map[string]interface{}{"min": min, "max": max})
		}
		return nil
	})
}
