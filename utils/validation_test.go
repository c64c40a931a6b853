package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type loginForm struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password" validate:"required"`
	Role       string `json:"role" validate:"omitempty,oneof=admin teacher student"`
	Limit      int    `json:"limit" validate:"gte=0,lte=100"`
}

func TestValidateStruct(t *testing.T) {
	t.Run("valid struct", func(t *testing.T) {
		s := loginForm{Identifier: "ana", Password: "secret", Role: "teacher", Limit: 8}
		assert.NoError(t, ValidateStruct(&s))
	})

	t.Run("missing required fields use json names", func(t *testing.T) {
		err := ValidateStruct(&loginForm{})
		require.Error(t, err)
		assert.True(t, IsValidationError(err))

		fields := GetValidationFields(err)
		assert.Equal(t, "identifier is required", fields["identifier"])
		assert.Equal(t, "password is required", fields["password"])
		assert.Equal(t, "Validation failed: identifier, password", err.Error())
	})

	t.Run("oneof", func(t *testing.T) {
		err := ValidateStruct(&loginForm{Identifier: "a", Password: "b", Role: "janitor"})
		fields := GetValidationFields(err)
		assert.Equal(t, "role must be one of: admin teacher student", fields["role"])
	})

	t.Run("range", func(t *testing.T) {
		err := ValidateStruct(&loginForm{Identifier: "a", Password: "b", Limit: 500})
		fields := GetValidationFields(err)
		assert.Equal(t, "limit must be less than or equal to 100", fields["limit"])
	})
}

func TestGetValidationFields_NonValidationError(t *testing.T) {
	assert.Nil(t, GetValidationFields(assert.AnError))
	assert.False(t, IsValidationError(assert.AnError))
}

func TestValidateRequired(t *testing.T) {
	assert.NoError(t, ValidateRequired("x", "id"))
	assert.EqualError(t, ValidateRequired("  ", "id"), "id is required")
}

func TestValidateOneOf(t *testing.T) {
	allowed := []string{"file", "sqlite", "memory"}
	assert.NoError(t, ValidateOneOf("sqlite", "store", allowed))
	assert.Error(t, ValidateOneOf("redis", "store", allowed))
}
