package hasher

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// Tests run at MinCost; the default cost would make the suite crawl.
func testHasher() *Bcrypt {
	return &Bcrypt{Cost: bcrypt.MinCost}
}

func TestBcryptHashAndVerify(t *testing.T) {
	h := testHasher()

	hash, err := h.Hash("s3cret-password")
	require.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.NotEqual(t, "s3cret-password", hash)
	assert.True(t, strings.HasPrefix(hash, "$2a$"))

	assert.True(t, h.Verify("s3cret-password", hash))
	assert.False(t, h.Verify("wrong-password", hash))
}

func TestBcryptHashIsSalted(t *testing.T) {
	h := testHasher()

	first, err := h.Hash("same-password")
	require.NoError(t, err)
	second, err := h.Hash("same-password")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, h.Verify("same-password", first))
	assert.True(t, h.Verify("same-password", second))
}

func TestBcryptHashRejectsEmpty(t *testing.T) {
	h := testHasher()
	for _, plain := range []string{"", "   ", "\t"} {
		_, err := h.Hash(plain)
		require.ErrorIs(t, err, ErrEmptyPassword)
	}
}

func TestBcryptVerifyNeverErrors(t *testing.T) {
	h := testHasher()

	assert.False(t, h.Verify("", "$2a$10$whatever"))
	assert.False(t, h.Verify("password", ""))
	assert.False(t, h.Verify("password", "not-a-bcrypt-hash"))
}

func TestBcryptZeroValueUsesDefaultCost(t *testing.T) {
	var h Bcrypt
	hash, err := h.Hash("p")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, defaultCost, cost)
}
