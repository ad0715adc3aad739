package hasher

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher is the hashing capability consumed by the application layer.
// Verify must never propagate an error: malformed hashes and empty inputs
// report false.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain, hash string) bool
}

// ErrEmptyPassword is returned by Hash for blank input.
var ErrEmptyPassword = errors.New("password cannot be empty")

// Bcrypt hashes passwords with a fixed work factor. Cost 12 lands around
// 300ms per hash on current hardware.
type Bcrypt struct {
	Cost int
}

const defaultCost = 12

func NewBcrypt() *Bcrypt {
	return &Bcrypt{Cost: defaultCost}
}

func (b *Bcrypt) Hash(plain string) (string, error) {
	if strings.TrimSpace(plain) == "" {
		return "", ErrEmptyPassword
	}
	cost := b.Cost
	if cost == 0 {
		cost = defaultCost
	}
	out, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func (b *Bcrypt) Verify(plain, hash string) bool {
	if plain == "" || hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

var _ PasswordHasher = (*Bcrypt)(nil)
