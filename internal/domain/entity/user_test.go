package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finman/user-service/internal/domain/valueobject"
	"github.com/finman/user-service/pkg/apperrors"
)

func freezeClock(t *testing.T, at time.Time) {
	t.Helper()
	prev := nowFunc
	nowFunc = func() time.Time { return at }
	t.Cleanup(func() { nowFunc = prev })
}

func mustUser(t *testing.T) *User {
	t.Helper()
	email, err := valueobject.NewEmail("john@example.com")
	require.NoError(t, err)
	username, err := valueobject.NewUsername("johndoe")
	require.NoError(t, err)
	first, err := valueobject.NewPersonName("John")
	require.NoError(t, err)
	last, err := valueobject.NewPersonName("Doe")
	require.NoError(t, err)

	u, err := NewUser(email, username, first, last, "$2a$12$fakehash")
	require.NoError(t, err)
	return u
}

func TestNewUser(t *testing.T) {
	birth := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	freezeClock(t, birth)

	u := mustUser(t)

	assert.NotEmpty(t, u.ID)
	assert.Equal(t, "john@example.com", u.Email.Value())
	assert.Equal(t, "johndoe", u.Username.Value())
	assert.Equal(t, "John Doe", u.FullName())
	assert.Equal(t, birth, u.CreatedAt)
	assert.Equal(t, birth, u.UpdatedAt)
	assert.True(t, u.IsActive)
	assert.False(t, u.IsDeleted)
	assert.Nil(t, u.DeletedAt)

	other := mustUser(t)
	assert.NotEqual(t, u.ID, other.ID)
}

func TestNewUserRejectsBlankHash(t *testing.T) {
	email, _ := valueobject.NewEmail("john@example.com")
	username, _ := valueobject.NewUsername("johndoe")
	name, _ := valueobject.NewPersonName("John")

	_, err := NewUser(email, username, name, name, "   ")
	require.Error(t, err)
	assert.True(t, apperrors.IsDomain(err))
	assert.Contains(t, err.Error(), "password hash empty")
}

func TestUserLifecycle(t *testing.T) {
	birth := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	freezeClock(t, birth)
	u := mustUser(t)

	later := birth.Add(time.Hour)
	freezeClock(t, later)

	t.Run("update profile touches timestamp", func(t *testing.T) {
		first, _ := valueobject.NewPersonName("Jane")
		last, _ := valueobject.NewPersonName("Smith")
		u.UpdateProfile(first, last)
		assert.Equal(t, "Jane Smith", u.FullName())
		assert.Equal(t, later, u.UpdatedAt)
		assert.Equal(t, birth, u.CreatedAt)
	})

	t.Run("update password", func(t *testing.T) {
		require.NoError(t, u.UpdatePassword("$2a$12$newhash"))
		assert.Equal(t, "$2a$12$newhash", u.PasswordHash)

		err := u.UpdatePassword("")
		require.Error(t, err)
		assert.True(t, apperrors.IsDomain(err))
		assert.Equal(t, "$2a$12$newhash", u.PasswordHash, "failed update must not clear the hash")
	})

	t.Run("deactivate and activate", func(t *testing.T) {
		u.Deactivate()
		assert.False(t, u.IsActive)
		u.Activate()
		assert.True(t, u.IsActive)
		u.Activate() // idempotent
		assert.True(t, u.IsActive)
	})

	t.Run("soft delete and restore", func(t *testing.T) {
		u.SoftDelete()
		assert.True(t, u.IsDeleted)
		require.NotNil(t, u.DeletedAt)
		assert.Equal(t, later, *u.DeletedAt)

		u.Restore()
		assert.False(t, u.IsDeleted)
		assert.Nil(t, u.DeletedAt)
	})
}
