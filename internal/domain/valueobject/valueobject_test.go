package valueobject

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finman/user-service/pkg/apperrors"
)

func TestNewEmail(t *testing.T) {
	t.Run("normalizes case and whitespace", func(t *testing.T) {
		padded, err := NewEmail("  USER@EXAMPLE.COM  ")
		require.NoError(t, err)
		canonical, err := NewEmail("user@example.com")
		require.NoError(t, err)

		assert.Equal(t, "user@example.com", padded.Value())
		assert.True(t, padded.Equals(canonical))
	})

	t.Run("normalization is idempotent", func(t *testing.T) {
		first, err := NewEmail("John.Doe@Example.com")
		require.NoError(t, err)
		second, err := NewEmail(first.Value())
		require.NoError(t, err)
		assert.Equal(t, first.Value(), second.Value())
	})

	t.Run("rejects empty input", func(t *testing.T) {
		for _, raw := range []string{"", "   ", "\t\n"} {
			_, err := NewEmail(raw)
			require.Error(t, err)
			assert.True(t, apperrors.IsValidation(err))
			assert.Contains(t, err.Error(), "email empty")
		}
	})

	t.Run("rejects malformed addresses", func(t *testing.T) {
		for _, raw := range []string{"not-an-email", "a@", "@b.com", "a b@c.com", "a@b@c"} {
			_, err := NewEmail(raw)
			require.Error(t, err, "input %q", raw)
			assert.Contains(t, err.Error(), "invalid email format")
		}
	})
}

func TestNewUsername(t *testing.T) {
	t.Run("accepts boundary lengths 3 and 20", func(t *testing.T) {
		u, err := NewUsername("abc")
		require.NoError(t, err)
		assert.Equal(t, "abc", u.Value())

		long, err := NewUsername(strings.Repeat("a", 20))
		require.NoError(t, err)
		assert.Len(t, long.Value(), 20)
	})

	t.Run("rejects boundary lengths 2 and 21", func(t *testing.T) {
		_, err := NewUsername("ab")
		require.Error(t, err)
		assert.True(t, apperrors.IsValidation(err))
		assert.Contains(t, err.Error(), "invalid username format")

		_, err = NewUsername(strings.Repeat("a", 21))
		require.Error(t, err)
	})

	t.Run("lowercases and trims", func(t *testing.T) {
		u, err := NewUsername("  John_Doe42 ")
		require.NoError(t, err)
		assert.Equal(t, "john_doe42", u.Value())
	})

	t.Run("rejects forbidden characters", func(t *testing.T) {
		for _, raw := range []string{"john doe", "john-doe", "john.doe", "jöhn"} {
			_, err := NewUsername(raw)
			require.Error(t, err, "input %q", raw)
		}
	})

	t.Run("rejects empty input", func(t *testing.T) {
		_, err := NewUsername("   ")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "username empty")
	})
}

func TestNewPersonName(t *testing.T) {
	t.Run("trims surrounding whitespace", func(t *testing.T) {
		n, err := NewPersonName("  John  ")
		require.NoError(t, err)
		assert.Equal(t, "John", n.Value())
	})

	t.Run("accepts exactly 50 characters", func(t *testing.T) {
		n, err := NewPersonName(strings.Repeat("x", 50))
		require.NoError(t, err)
		assert.Len(t, n.Value(), 50)
	})

	t.Run("rejects more than 50 characters", func(t *testing.T) {
		_, err := NewPersonName(strings.Repeat("x", 51))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "name too long")
	})

	t.Run("rejects empty input", func(t *testing.T) {
		_, err := NewPersonName(" ")
		require.Error(t, err)
		assert.True(t, apperrors.IsValidation(err))
		assert.Contains(t, err.Error(), "name empty")
	})
}
