package types

import (
	"cmp"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ValidateUUID checks that s is a well-formed UUID and returns it in
// canonical form. The entity name is used in the error message only.
func ValidateUUID(s, entityName string) (string, error) {
	id, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil {
		return "", InvalidInput(fmt.Sprintf("invalid %s ID format", entityName))
	}
	return id.String(), nil
}

// ValidateNonEmpty checks that s is non-empty after trimming whitespace.
func ValidateNonEmpty(s, fieldName string) error {
	if strings.TrimSpace(s) == "" {
		return Validation(fmt.Sprintf("%s cannot be empty", fieldName))
	}
	return nil
}

// ValidateRange checks that min <= value <= max.
func ValidateRange[T cmp.Ordered](value, min, max T, fieldName string) error {
	if value < min || value > max {
		return Validation(fmt.Sprintf("%s must be between %v and %v", fieldName, min, max))
	}
	return nil
}
