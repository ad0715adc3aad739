package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/finman/user-service/internal/domain/entity"
	"github.com/finman/user-service/internal/domain/repository"
	"github.com/finman/user-service/internal/domain/valueobject"
	"github.com/finman/user-service/pkg/apperrors"
)

const uniqueViolation = "23505"

// UserRepository is the relational store. Uniqueness is enforced by the
// unique indexes on users(email) and users(username); a violated constraint
// surfaces as a ConflictError so this driver behaves like the in-memory one.
type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) IsEmailUnique(ctx context.Context, email valueobject.Email) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)
	`, email.Value()).Scan(&exists)
	if err != nil {
		return false, apperrors.NewStore("is_email_unique", err)
	}
	return !exists, nil
}

func (r *UserRepository) IsUsernameUnique(ctx context.Context, username valueobject.Username) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)
	`, username.Value()).Scan(&exists)
	if err != nil {
		return false, apperrors.NewStore("is_username_unique", err)
	}
	return !exists, nil
}

func (r *UserRepository) Add(ctx context.Context, u *entity.User) (*entity.User, error) {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO users (id, email, username, first_name, last_name, password_hash,
			created_at, updated_at, is_active, is_deleted, deleted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, u.ID, u.Email.Value(), u.Username.Value(), u.FirstName.Value(), u.LastName.Value(),
		u.PasswordHash, u.CreatedAt, u.UpdatedAt, u.IsActive, u.IsDeleted, u.DeletedAt)
	if err != nil {
		if conflict := conflictFor(err); conflict != nil {
			return nil, conflict
		}
		return nil, apperrors.NewStore("add", err)
	}
	stored := *u
	return &stored, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return scanOne(r.pool.QueryRow(ctx, selectUser+` WHERE id = $1`, id))
}

func (r *UserRepository) FindByEmail(ctx context.Context, email valueobject.Email) (*entity.User, error) {
	return scanOne(r.pool.QueryRow(ctx, selectUser+` WHERE email = $1`, email.Value()))
}

func (r *UserRepository) Update(ctx context.Context, u *entity.User) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE users
		SET email = $1, username = $2, first_name = $3, last_name = $4,
			password_hash = $5, updated_at = $6, is_active = $7, is_deleted = $8, deleted_at = $9
		WHERE id = $10
	`, u.Email.Value(), u.Username.Value(), u.FirstName.Value(), u.LastName.Value(),
		u.PasswordHash, u.UpdatedAt, u.IsActive, u.IsDeleted, u.DeletedAt, u.ID)
	if err != nil {
		if conflict := conflictFor(err); conflict != nil {
			return conflict
		}
		return apperrors.NewStore("update", err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

const selectUser = `
	SELECT id, email, username, first_name, last_name, password_hash,
		created_at, updated_at, is_active, is_deleted, deleted_at
	FROM users`

func scanOne(row pgx.Row) (*entity.User, error) {
	var (
		u           entity.User
		email       string
		username    string
		first, last string
	)
	if err := row.Scan(&u.ID, &email, &username, &first, &last, &u.PasswordHash,
		&u.CreatedAt, &u.UpdatedAt, &u.IsActive, &u.IsDeleted, &u.DeletedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, apperrors.NewStore("scan", err)
	}

	// Stored values were normalized at registration time; rebuilding the
	// value objects keeps the construction-only-validity guarantee.
	var err error
	if u.Email, err = valueobject.NewEmail(email); err != nil {
		return nil, apperrors.NewStore("scan", err)
	}
	if u.Username, err = valueobject.NewUsername(username); err != nil {
		return nil, apperrors.NewStore("scan", err)
	}
	if u.FirstName, err = valueobject.NewPersonName(first); err != nil {
		return nil, apperrors.NewStore("scan", err)
	}
	if u.LastName, err = valueobject.NewPersonName(last); err != nil {
		return nil, apperrors.NewStore("scan", err)
	}
	return &u, nil
}

// conflictFor translates a unique-constraint violation into the conflict for
// the offended key, or nil when err is something else.
func conflictFor(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolation {
		return nil
	}
	switch pgErr.ConstraintName {
	case "users_username_key", "idx_users_username":
		return apperrors.NewConflict("username already taken")
	case "users_email_key", "idx_users_email":
		return apperrors.NewConflict("email already registered")
	default:
		// A 23505 on any other constraint (e.g. the primary key) is not a
		// user-correctable identity collision.
		return apperrors.NewStore("unique_violation:"+pgErr.ConstraintName, err)
	}
}

var _ repository.UserRepository = (*UserRepository)(nil)
