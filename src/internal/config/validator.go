package config

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidateConfig validates the entire configuration and returns all validation errors
func (c *Config) ValidateConfig() error {
	var validationErrors ValidationErrors

	if err := validate.Struct(c); err != nil {
		validationErrors = append(validationErrors, convertValidatorErrors(err)...)
	}

	if !c.Password.IsProtected() {
		if plain, _ := c.Password.Get(); plain == "" {
			validationErrors = append(validationErrors, ValidationError{
				FieldPath: "password",
				Message:   "field is required",
			})
		}
	}

	if len(validationErrors) > 0 {
		return validationErrors
	}

	return nil
}

// convertValidatorErrors converts go-playground/validator errors to our ValidationError format
func convertValidatorErrors(err error) ValidationErrors {
	var validationErrors ValidationErrors

	var validatorErrs validator.ValidationErrors
	if errors.As(err, &validatorErrs) {
		for _, e := range validatorErrs {
			validationErrors = append(validationErrors, ValidationError{
				FieldPath: fieldPath(e.Namespace()),
				Message:   getValidationMessage(e),
			})
		}
	}

	return validationErrors
}

var namespaceReplacer = strings.NewReplacer("[", ".", "]", "")

// fieldPath turns "Config.dns.servers[0]" into "dns.servers.0".
func fieldPath(namespace string) string {
	path := namespaceReplacer.Replace(namespace)
	if _, rest, ok := strings.Cut(path, "."); ok {
		return rest
	}
	return path
}
