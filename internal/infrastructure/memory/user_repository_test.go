package memory

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"
	"golang.org/x/sync/errgroup"

	"github.com/finman/user-service/internal/domain/entity"
	"github.com/finman/user-service/internal/domain/repository"
	"github.com/finman/user-service/internal/domain/valueobject"
	"github.com/finman/user-service/pkg/apperrors"
)

type UserRepositorySuite struct {
	suite.Suite
	ctx  context.Context
	repo *UserRepository
}

func TestUserRepositorySuite(t *testing.T) {
	suite.Run(t, new(UserRepositorySuite))
}

func (s *UserRepositorySuite) SetupTest() {
	s.ctx = context.Background()
	s.repo = NewUserRepository()
}

func (s *UserRepositorySuite) newUser(email, username string) *entity.User {
	e, err := valueobject.NewEmail(email)
	s.Require().NoError(err)
	un, err := valueobject.NewUsername(username)
	s.Require().NoError(err)
	first, err := valueobject.NewPersonName("John")
	s.Require().NoError(err)
	last, err := valueobject.NewPersonName("Doe")
	s.Require().NoError(err)

	u, err := entity.NewUser(e, un, first, last, "$2a$12$hash")
	s.Require().NoError(err)
	return u
}

func (s *UserRepositorySuite) TestAddMarksBothKeysTaken() {
	u := s.newUser("john@example.com", "johndoe")
	stored, err := s.repo.Add(s.ctx, u)
	s.Require().NoError(err)
	s.Equal(u.ID, stored.ID)

	unique, err := s.repo.IsEmailUnique(s.ctx, u.Email)
	s.Require().NoError(err)
	s.False(unique)

	unique, err = s.repo.IsUsernameUnique(s.ctx, u.Username)
	s.Require().NoError(err)
	s.False(unique)

	otherEmail, _ := valueobject.NewEmail("jane@example.com")
	unique, err = s.repo.IsEmailUnique(s.ctx, otherEmail)
	s.Require().NoError(err)
	s.True(unique)
}

func (s *UserRepositorySuite) TestAddRejectsDuplicateEmail() {
	_, err := s.repo.Add(s.ctx, s.newUser("john@example.com", "johndoe"))
	s.Require().NoError(err)

	_, err = s.repo.Add(s.ctx, s.newUser("john@example.com", "someoneelse"))
	s.Require().Error(err)
	s.True(apperrors.IsConflict(err))
	s.Contains(err.Error(), "email")

	// The losing Add must leave no trace in either index.
	username, _ := valueobject.NewUsername("someoneelse")
	unique, err := s.repo.IsUsernameUnique(s.ctx, username)
	s.Require().NoError(err)
	s.True(unique)
}

func (s *UserRepositorySuite) TestAddRejectsDuplicateUsername() {
	_, err := s.repo.Add(s.ctx, s.newUser("john@example.com", "johndoe"))
	s.Require().NoError(err)

	_, err = s.repo.Add(s.ctx, s.newUser("jane@example.com", "johndoe"))
	s.Require().Error(err)
	s.True(apperrors.IsConflict(err))
	s.Contains(err.Error(), "username")
}

func (s *UserRepositorySuite) TestGetByID() {
	u := s.newUser("john@example.com", "johndoe")
	_, err := s.repo.Add(s.ctx, u)
	s.Require().NoError(err)

	got, err := s.repo.GetByID(s.ctx, u.ID)
	s.Require().NoError(err)
	s.Equal(u.Email.Value(), got.Email.Value())

	_, err = s.repo.GetByID(s.ctx, "missing")
	s.Require().ErrorIs(err, repository.ErrNotFound)
}

func (s *UserRepositorySuite) TestFindByEmail() {
	u := s.newUser("john@example.com", "johndoe")
	_, err := s.repo.Add(s.ctx, u)
	s.Require().NoError(err)

	got, err := s.repo.FindByEmail(s.ctx, u.Email)
	s.Require().NoError(err)
	s.Equal(u.ID, got.ID)

	missing, _ := valueobject.NewEmail("nobody@example.com")
	_, err = s.repo.FindByEmail(s.ctx, missing)
	s.Require().ErrorIs(err, repository.ErrNotFound)
}

func (s *UserRepositorySuite) TestStoredCopyIsIsolated() {
	u := s.newUser("john@example.com", "johndoe")
	_, err := s.repo.Add(s.ctx, u)
	s.Require().NoError(err)

	// Mutating the caller's aggregate must not leak into the store.
	u.PasswordHash = "tampered"

	got, err := s.repo.GetByID(s.ctx, u.ID)
	s.Require().NoError(err)
	s.Equal("$2a$12$hash", got.PasswordHash)
}

func (s *UserRepositorySuite) TestUpdateReindexesChangedKeys() {
	u := s.newUser("john@example.com", "johndoe")
	_, err := s.repo.Add(s.ctx, u)
	s.Require().NoError(err)

	newEmail, _ := valueobject.NewEmail("john.doe@example.com")
	u.Email = newEmail
	s.Require().NoError(s.repo.Update(s.ctx, u))

	// Old key freed, new key taken.
	oldEmail, _ := valueobject.NewEmail("john@example.com")
	unique, err := s.repo.IsEmailUnique(s.ctx, oldEmail)
	s.Require().NoError(err)
	s.True(unique)

	unique, err = s.repo.IsEmailUnique(s.ctx, newEmail)
	s.Require().NoError(err)
	s.False(unique)

	got, err := s.repo.FindByEmail(s.ctx, newEmail)
	s.Require().NoError(err)
	s.Equal(u.ID, got.ID)
}

func (s *UserRepositorySuite) TestUpdateRejectsStolenKey() {
	john := s.newUser("john@example.com", "johndoe")
	jane := s.newUser("jane@example.com", "janedoe")
	_, err := s.repo.Add(s.ctx, john)
	s.Require().NoError(err)
	_, err = s.repo.Add(s.ctx, jane)
	s.Require().NoError(err)

	janesEmail := jane.Email
	john.Email = janesEmail
	err = s.repo.Update(s.ctx, john)
	s.Require().Error(err)
	s.True(apperrors.IsConflict(err))

	// Jane still owns her key.
	got, err := s.repo.FindByEmail(s.ctx, janesEmail)
	s.Require().NoError(err)
	s.Equal(jane.ID, got.ID)
}

func (s *UserRepositorySuite) TestUpdateFailureLeavesIndexesUntouched() {
	john := s.newUser("john@example.com", "johndoe")
	jane := s.newUser("jane@example.com", "janedoe")
	_, err := s.repo.Add(s.ctx, john)
	s.Require().NoError(err)
	_, err = s.repo.Add(s.ctx, jane)
	s.Require().NoError(err)

	// Change both keys at once; the email is free but the username is
	// jane's. The rejected update must not commit the email half.
	freshEmail, _ := valueobject.NewEmail("new@example.com")
	john.Email = freshEmail
	john.Username = jane.Username
	err = s.repo.Update(s.ctx, john)
	s.Require().Error(err)
	s.True(apperrors.IsConflict(err))

	oldEmail, _ := valueobject.NewEmail("john@example.com")
	unique, err := s.repo.IsEmailUnique(s.ctx, oldEmail)
	s.Require().NoError(err)
	s.False(unique, "the stored user still holds the old email")

	unique, err = s.repo.IsEmailUnique(s.ctx, freshEmail)
	s.Require().NoError(err)
	s.True(unique, "the never-committed email must not be reserved")

	got, err := s.repo.FindByEmail(s.ctx, oldEmail)
	s.Require().NoError(err)
	s.Equal(john.ID, got.ID)
	s.Equal("johndoe", got.Username.Value())
}

func (s *UserRepositorySuite) TestUpdateMissingUser() {
	u := s.newUser("john@example.com", "johndoe")
	err := s.repo.Update(s.ctx, u)
	s.Require().ErrorIs(err, repository.ErrNotFound)
}

func (s *UserRepositorySuite) TestConcurrentDistinctAdds() {
	const n = 64

	var g errgroup.Group
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			u := s.newUser(
				fmt.Sprintf("user%d@example.com", i),
				fmt.Sprintf("user%d", i),
			)
			_, err := s.repo.Add(s.ctx, u)
			return err
		})
	}
	s.Require().NoError(g.Wait())

	// Every registration landed and both indexes agree.
	for i := 0; i < n; i++ {
		email, _ := valueobject.NewEmail(fmt.Sprintf("user%d@example.com", i))
		got, err := s.repo.FindByEmail(s.ctx, email)
		s.Require().NoError(err)

		unique, err := s.repo.IsUsernameUnique(s.ctx, got.Username)
		s.Require().NoError(err)
		s.False(unique)
	}
}

func (s *UserRepositorySuite) TestConcurrentCollidingAdds() {
	const n = 16

	var g errgroup.Group
	results := make(chan error, n)
	for i := 0; i < n; i++ {
		g.Go(func() error {
			_, err := s.repo.Add(s.ctx, s.newUser("john@example.com", "johndoe"))
			results <- err
			return nil
		})
	}
	s.Require().NoError(g.Wait())
	close(results)

	var won, lost int
	for err := range results {
		if err == nil {
			won++
			continue
		}
		s.True(apperrors.IsConflict(err))
		lost++
	}
	s.Equal(1, won, "exactly one racer may claim the keys")
	s.Equal(n-1, lost)
}
