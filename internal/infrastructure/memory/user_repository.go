package memory

import (
	"context"
	"sync"

	"github.com/finman/user-service/internal/domain/entity"
	"github.com/finman/user-service/internal/domain/repository"
	"github.com/finman/user-service/internal/domain/valueobject"
	"github.com/finman/user-service/pkg/apperrors"
)

// UserRepository is the in-memory store used for local development and tests.
// One RWMutex guards the id map and both uniqueness indexes together: a
// reader can never observe an email entry without its matching username
// entry, and Add is atomic across all three maps. Colliding Adds are
// rejected with a ConflictError, matching the relational driver.
type UserRepository struct {
	mu         sync.RWMutex
	byID       map[string]entity.User
	byEmail    map[string]string // normalized email -> user id
	byUsername map[string]string // normalized username -> user id
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		byID:       make(map[string]entity.User),
		byEmail:    make(map[string]string),
		byUsername: make(map[string]string),
	}
}

func (r *UserRepository) IsEmailUnique(_ context.Context, email valueobject.Email) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, taken := r.byEmail[email.Value()]
	return !taken, nil
}

func (r *UserRepository) IsUsernameUnique(_ context.Context, username valueobject.Username) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, taken := r.byUsername[username.Value()]
	return !taken, nil
}

func (r *UserRepository) Add(_ context.Context, u *entity.User) (*entity.User, error) {
	emailKey := u.Email.Value()
	usernameKey := u.Username.Value()

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.byEmail[emailKey]; taken {
		return nil, apperrors.NewConflict("email already registered")
	}
	if _, taken := r.byUsername[usernameKey]; taken {
		return nil, apperrors.NewConflict("username already taken")
	}

	stored := *u
	r.byID[stored.ID] = stored
	r.byEmail[emailKey] = stored.ID
	r.byUsername[usernameKey] = stored.ID

	out := stored
	return &out, nil
}

func (r *UserRepository) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := u
	return &out, nil
}

func (r *UserRepository) FindByEmail(_ context.Context, email valueobject.Email) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byEmail[email.Value()]
	if !ok {
		return nil, repository.ErrNotFound
	}
	u := r.byID[id]
	out := u
	return &out, nil
}

// Update rewrites the stored user and keeps both indexes in step when the
// email or username changed, all under the same exclusion as Add.
func (r *UserRepository) Update(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	prev, ok := r.byID[u.ID]
	if !ok {
		return repository.ErrNotFound
	}

	newEmail, newUsername := u.Email.Value(), u.Username.Value()
	emailChanged := prev.Email.Value() != newEmail
	usernameChanged := prev.Username.Value() != newUsername

	// Both conflict checks run before either index mutates: a rejected update
	// must leave no partial index state behind.
	if emailChanged {
		if owner, taken := r.byEmail[newEmail]; taken && owner != u.ID {
			return apperrors.NewConflict("email already registered")
		}
	}
	if usernameChanged {
		if owner, taken := r.byUsername[newUsername]; taken && owner != u.ID {
			return apperrors.NewConflict("username already taken")
		}
	}

	if emailChanged {
		delete(r.byEmail, prev.Email.Value())
		r.byEmail[newEmail] = u.ID
	}
	if usernameChanged {
		delete(r.byUsername, prev.Username.Value())
		r.byUsername[newUsername] = u.ID
	}

	r.byID[u.ID] = *u
	return nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
