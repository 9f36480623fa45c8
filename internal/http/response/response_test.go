package response

import (
	"testing"

	"github.com/go-playground/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusOKWithData(t *testing.T) {
	resp := StatusOKWithData(map[string]int{"guides": 13})
	assert.Equal(t, StatusOK, resp.Status)
	assert.Empty(t, resp.Error)
	assert.NotNil(t, resp.Data)
}

func TestError(t *testing.T) {
	resp := Error("invalid request body")
	assert.Equal(t, StatusError, resp.Status)
	assert.Equal(t, "invalid request body", resp.Error)
}

func TestValidationError(t *testing.T) {
	type loginRequest struct {
		Username string `validate:"required"`
		Email    string `validate:"required,email"`
	}

	err := validator.New().Struct(loginRequest{Email: "not-an-email"})
	require.Error(t, err)
	var errs validator.ValidationErrors
	require.ErrorAs(t, err, &errs)

	resp := ValidationError(errs)
	assert.Equal(t, StatusError, resp.Status)
	assert.Contains(t, resp.Error, "field Username is a required field")
	assert.Contains(t, resp.Error, "field Email must be a valid email")
}
