package types

import "github.com/google/uuid"

// NewID generates a new UUID v7 for entity IDs.
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// Fall back to UUID v4 if v7 generation fails.
		return uuid.New().String()
	}
	return id.String()
}
