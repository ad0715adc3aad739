package repository

import (
	"context"
	"errors"

	"github.com/finman/user-service/internal/domain/entity"
	"github.com/finman/user-service/internal/domain/valueobject"
)

// ErrNotFound keeps storage 404s consistent across the memory and postgres
// drivers.
var ErrNotFound = errors.New("user not found")

// UserRepository is the port to the authoritative set of users. Uniqueness
// checks are a fast-fail optimization for callers; Add is the enforcement
// point and must stay atomic across the email and username indexes.
type UserRepository interface {
	// IsEmailUnique reports whether no stored user holds this normalized email.
	IsEmailUnique(ctx context.Context, email valueobject.Email) (bool, error)
	// IsUsernameUnique reports whether no stored user holds this normalized username.
	IsUsernameUnique(ctx context.Context, username valueobject.Username) (bool, error)
	// Add persists a new user and returns the stored copy. It fails with a
	// ConflictError when the email or username is already taken.
	Add(ctx context.Context, u *entity.User) (*entity.User, error)
	GetByID(ctx context.Context, id string) (*entity.User, error)
	FindByEmail(ctx context.Context, email valueobject.Email) (*entity.User, error)
	// Update rewrites the stored user identified by u.ID.
	Update(ctx context.Context, u *entity.User) error
}
