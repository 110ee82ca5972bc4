package types

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateUUID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"canonical uuid", "018f4e2a-1111-7000-8000-000000000001", false},
		{"uuid with surrounding space", "  018f4e2a-1111-7000-8000-000000000001  ", false},
		{"empty string", "", true},
		{"not a uuid", "not-a-uuid", true},
		{"truncated", "018f4e2a-1111", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateUUID(tt.input, "campaign")
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidInput))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "018f4e2a-1111-7000-8000-000000000001", got)
		})
	}
}

func TestValidateNonEmpty(t *testing.T) {
	assert.NoError(t, ValidateNonEmpty("hello", "field"))
	assert.Error(t, ValidateNonEmpty("", "field"))
	assert.Error(t, ValidateNonEmpty("   ", "field"))

	err := ValidateNonEmpty("", "campaign name")
	assert.EqualError(t, err, "campaign name cannot be empty")
}

func TestValidateRange(t *testing.T) {
	t.Run("ints", func(t *testing.T) {
		assert.NoError(t, ValidateRange(1, 1, 20, "level"))
		assert.NoError(t, ValidateRange(20, 1, 20, "level"))
		assert.Error(t, ValidateRange(0, 1, 20, "level"))
		assert.Error(t, ValidateRange(21, 1, 20, "level"))
	})

	t.Run("floats", func(t *testing.T) {
		assert.NoError(t, ValidateRange(1.0, 1.0, 20.0, "average level"))
		assert.Error(t, ValidateRange(20.5, 1.0, 20.0, "average level"))
	})
}

func TestNewID(t *testing.T) {
	a := NewID()
	b := NewID()
	assert.NotEqual(t, a, b)

	_, err := ValidateUUID(a, "generated")
	assert.NoError(t, err)
}
