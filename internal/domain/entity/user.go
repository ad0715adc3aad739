package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/finman/user-service/internal/domain/valueobject"
	"github.com/finman/user-service/pkg/apperrors"
)

// nowFunc is the aggregate's clock; tests swap it to freeze time.
var nowFunc = time.Now

// User is the aggregate root for the user domain. The identifier is assigned
// exactly once in NewUser and never changes; email and username are unique
// across all users (enforced by the repository). PasswordHash always holds a
// hash, never the plaintext.
type User struct {
	ID           string
	Email        valueobject.Email
	Username     valueobject.Username
	FirstName    valueobject.PersonName
	LastName     valueobject.PersonName
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	IsActive     bool
	IsDeleted    bool
	DeletedAt    *time.Time
}

// NewUser is the only way to obtain a valid User. It fails if passwordHash is
// blank; the hashing capability should never produce an empty hash.
func NewUser(
	email valueobject.Email,
	username valueobject.Username,
	firstName valueobject.PersonName,
	lastName valueobject.PersonName,
	passwordHash string,
) (*User, error) {
	if strings.TrimSpace(passwordHash) == "" {
		return nil, apperrors.NewDomain("password hash empty")
	}
	now := nowFunc().UTC()
	return &User{
		ID:           uuid.NewString(),
		Email:        email,
		Username:     username,
		FirstName:    firstName,
		LastName:     lastName,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
		IsActive:     true,
		IsDeleted:    false,
	}, nil
}

func (u *User) FullName() string {
	return u.FirstName.Value() + " " + u.LastName.Value()
}

// UpdateProfile replaces both names and refreshes UpdatedAt. The value
// objects already guarantee their own invariants.
func (u *User) UpdateProfile(firstName, lastName valueobject.PersonName) {
	u.FirstName = firstName
	u.LastName = lastName
	u.touch()
}

// UpdatePassword replaces the stored hash. It fails on a blank hash.
func (u *User) UpdatePassword(newHash string) error {
	if strings.TrimSpace(newHash) == "" {
		return apperrors.NewDomain("password hash empty")
	}
	u.PasswordHash = newHash
	u.touch()
	return nil
}

// Activate and Deactivate are idempotent state-wise; both refresh UpdatedAt.

func (u *User) Activate() {
	u.IsActive = true
	u.touch()
}

func (u *User) Deactivate() {
	u.IsActive = false
	u.touch()
}

// SoftDelete marks the user deleted. There is no hard delete path.
func (u *User) SoftDelete() {
	now := nowFunc().UTC()
	u.IsDeleted = true
	u.DeletedAt = &now
	u.UpdatedAt = now
}

func (u *User) Restore() {
	u.IsDeleted = false
	u.DeletedAt = nil
	u.touch()
}

func (u *User) touch() {
	u.UpdatedAt = nowFunc().UTC()
}
