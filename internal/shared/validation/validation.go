package validation

import (
	"fmt"
	"regexp"
	"strings"

	"ride-entitlement/internal/shared/apperrors"
)

var uuidRegex = regexp.MustCompile(`^[a-fA-F0-9]{8}-[a-fA-F0-9]{4}-[a-fA-F0-9]{4}-[a-fA-F0-9]{4}-[a-fA-F0-9]{12}$`)

// ValidateUUID validates that a string is a valid UUID
func ValidateUUID(id, fieldName string) error {
	if !uuidRegex.MatchString(id) {
		return apperrors.Validation(fmt.Sprintf("%s must be a valid UUID", fieldName))
	}
	return nil
}

// ValidateStringNotEmpty validates that a string is not empty
func ValidateStringNotEmpty(value, fieldName string) error {
	if strings.TrimSpace(value) == "" {
		return apperrors.Validation(fmt.Sprintf("%s cannot be empty", fieldName))
	}
	return nil
}

// ValidateOneOf validates that a value is one of the allowed options
func ValidateOneOf(value, fieldName string, allowed ...string) error {
	for _, v := range allowed {
		if value == v {
			return nil
		}
	}
	return apperrors.Validation(fmt.Sprintf("%s must be one of %v", fieldName, allowed))
}
