package errors

import (
	"net/http"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationError_MatchesValidationFailed(t *testing.T) {
	err := errors.Wrap(NewValidationError(
		FieldViolation{Field: "email", Rule: "email", Message: "email must be a valid email address"},
		FieldViolation{Field: "password", Rule: "min", Message: "password must be at least 6 characters"},
	), "invalid registration input")

	assert.True(t, errors.Is(err, ErrValidationFailed))
	assert.False(t, errors.Is(err, ErrDuplicateEmail))

	var validationErr *ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Len(t, validationErr.Violations, 2)
	assert.Equal(t, "email,password", validationErr.Details())

	var appErr AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, http.StatusBadRequest, appErr.HTTPCode())
	assert.Equal(t, "VALIDATION_FAILED", appErr.ErrorCode())
}

func TestValidationError_Error(t *testing.T) {
	err := NewValidationError(FieldViolation{Field: "email", Rule: "required", Message: "email is required"})

	assert.Equal(t, "validation failed: email: email is required", err.Error())
}

func TestBaseError_WrapMessage(t *testing.T) {
	err := ErrDuplicateEmail.WrapMessage("email already exists")

	assert.True(t, errors.Is(err, ErrDuplicateEmail))

	var appErr AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, http.StatusConflict, appErr.HTTPCode())
	assert.Equal(t, "EMAIL_ALREADY_EXISTS", appErr.ErrorCode())
}

func TestDatabaseExecuteError_Unwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewDatabaseExecuteError(cause, "failed to create user")

	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, http.StatusInternalServerError, err.HTTPCode())
	assert.Contains(t, err.Error(), "connection refused")
}
