package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationError(t *testing.T) {
	err := NewValidation("email", "invalid email format")
	assert.Equal(t, "email: invalid email format", err.Error())
	assert.True(t, IsValidation(err))
	assert.False(t, IsConflict(err))

	bare := NewValidation("", "name empty")
	assert.Equal(t, "name empty", bare.Error())
}

func TestPredicatesSeeThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("register: %w", NewConflict("email already registered"))
	assert.True(t, IsConflict(wrapped))
	assert.False(t, IsValidation(wrapped))
}

func TestStoreErrorUnwraps(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewStore("user.add", cause)

	assert.True(t, IsStore(err))
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "user.add")
	assert.Contains(t, err.Error(), "connection refused")
}

func TestDomainError(t *testing.T) {
	err := NewDomain("password hash empty")
	assert.True(t, IsDomain(err))
	assert.Equal(t, "password hash empty", err.Error())
}
