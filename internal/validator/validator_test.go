package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type registerReq struct {
	Name     string `validate:"required"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=8"`
}

func TestValidate_OK(t *testing.T) {
	v := New()
	require.NoError(t, v.Validate(registerReq{Name: "a", Email: "a@example.com", Password: "password1"}))
}

func TestValidate_Messages(t *testing.T) {
	v := New()

	err := v.Validate(registerReq{Email: "a@example.com", Password: "password1"})
	require.Error(t, err)
	assert.Equal(t, "name is required", Message(err))

	err = v.Validate(registerReq{Name: "a", Email: "nope", Password: "password1"})
	require.Error(t, err)
	assert.Equal(t, "invalid email", Message(err))

	err = v.Validate(registerReq{Name: "a", Email: "a@example.com", Password: "short"})
	require.Error(t, err)
	assert.Equal(t, "password must be at least 8", Message(err))
}
