package contextutils

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValidUUID(t *testing.T) {
	assert.True(t, IsValidUUID("7f1d9a52-3c4b-4e8e-9d3a-1b2c3d4e5f60"))
	assert.True(t, IsValidUUID("00000000-0000-0000-0000-000000000000"))

	assert.False(t, IsValidUUID(""))
	assert.False(t, IsValidUUID("not-a-uuid"))
	assert.False(t, IsValidUUID("7f1d9a52-3c4b-4e8e-9d3a-1b2c3d4e5f6"))
}

func TestValidateStruct(t *testing.T) {
	type record struct {
		Eng  string `validate:"required"`
		Kind string `validate:"oneof=regular irregular"`
	}

	require.NoError(t, ValidateStruct(record{Eng: "I work.", Kind: "regular"}))

	err := ValidateStruct(record{Kind: "strange"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidationFailed))

	var appErr *AppError
	require.True(t, AsError(err, &appErr))
	assert.Contains(t, appErr.Details, "record.Eng: required")
	assert.Contains(t, appErr.Details, "record.Kind: oneof=regular irregular")
}
