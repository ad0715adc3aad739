package application

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/finman/user-service/internal/domain/entity"
	"github.com/finman/user-service/internal/domain/repository"
	"github.com/finman/user-service/internal/domain/valueobject"
	"github.com/finman/user-service/pkg/apperrors"
	"github.com/finman/user-service/pkg/hasher"
	"github.com/finman/user-service/pkg/helpers"
	"github.com/finman/user-service/pkg/mailer"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
)

// Service orchestrates the user use cases. Register is the core flow:
// validation, uniqueness fast-fail, hashing, entity construction,
// persistence. The repository's Add is the final uniqueness authority; the
// checks here only spare a doomed request the cost of a bcrypt hash.
type Service struct {
	Repo         repository.UserRepository
	Hasher       hasher.PasswordHasher
	JWT          *helpers.JWTManager
	Redis        *redis.Client
	Logger       *logrus.Logger
	Pub          *helpers.RabbitPublisher
	ES           *elasticsearch.Client
	ESUsersIndex string
	CompanyName  string
	MailEnabled  bool
}

func NewService(repo repository.UserRepository, h hasher.PasswordHasher, jwt *helpers.JWTManager, rdb *redis.Client, logger *logrus.Logger, pub *helpers.RabbitPublisher, es *elasticsearch.Client, esUsersIndex, companyName string, mailEnabled bool) *Service {
	return &Service{
		Repo:         repo,
		Hasher:       h,
		JWT:          jwt,
		Redis:        rdb,
		Logger:       logger,
		Pub:          pub,
		ES:           es,
		ESUsersIndex: esUsersIndex,
		CompanyName:  companyName,
		MailEnabled:  mailEnabled,
	}
}

type RegisterInput struct {
	Email     string
	Username  string
	FirstName string
	LastName  string
	Password  string
}

// RegisterResult is the projection returned to the caller after a
// successful registration. It never carries the hash.
type RegisterResult struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	FullName  string    `json:"full_name"`
	CreatedAt time.Time `json:"created_at"`
}

// Register runs the registration flow. Each step is a hard gate and errors
// surface to the caller with their original reason intact: ValidationError
// for a malformed field (email checked before username before first name
// before last name), ConflictError for a taken identity, DomainError for a
// broken entity invariant, StoreError for infrastructure failures.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*RegisterResult, error) {
	email, err := valueobject.NewEmail(in.Email)
	if err != nil {
		return nil, err
	}
	username, err := valueobject.NewUsername(in.Username)
	if err != nil {
		return nil, err
	}
	firstName, err := valueobject.NewPersonName(in.FirstName)
	if err != nil {
		return nil, err
	}
	lastName, err := valueobject.NewPersonName(in.LastName)
	if err != nil {
		return nil, err
	}

	unique, err := s.Repo.IsEmailUnique(ctx, email)
	if err != nil {
		return nil, err
	}
	if !unique {
		return nil, apperrors.NewConflict("email already registered")
	}
	unique, err = s.Repo.IsUsernameUnique(ctx, username)
	if err != nil {
		return nil, err
	}
	if !unique {
		return nil, apperrors.NewConflict("username already taken")
	}

	// Hashing is the most expensive step; everything cheap has already passed.
	hash, err := s.Hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	user, err := entity.NewUser(email, username, firstName, lastName, hash)
	if err != nil {
		return nil, err
	}

	stored, err := s.Repo.Add(ctx, user)
	if err != nil {
		return nil, err
	}

	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{
			"user_id":  stored.ID,
			"username": stored.Username.Value(),
		}).Info("user registered")
	}

	// Post-registration side effects are best-effort and never fail the
	// registration itself.
	s.enqueueWelcomeEmail(ctx, stored)
	_ = s.indexUser(ctx, stored)

	return &RegisterResult{
		ID:        stored.ID,
		Email:     stored.Email.Value(),
		Username:  stored.Username.Value(),
		FullName:  stored.FullName(),
		CreatedAt: stored.CreatedAt,
	}, nil
}

func (s *Service) enqueueWelcomeEmail(ctx context.Context, u *entity.User) {
	if s.Pub == nil || !s.MailEnabled {
		return
	}
	job := mailer.EmailJob{
		To:       u.Email.Value(),
		Template: "welcome",
		Data: map[string]any{
			"Company":  s.CompanyName,
			"Name":     u.FirstName.Value(),
			"Username": u.Username.Value(),
			"Email":    u.Email.Value(),
		},
	}
	if err := s.Pub.PublishJSON(ctx, job); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("welcome email enqueue failed")
	}
}

func (s *Service) indexUser(ctx context.Context, u *entity.User) error {
	if s.ES == nil || s.ESUsersIndex == "" {
		return nil
	}
	doc := map[string]any{
		"id":         u.ID,
		"email":      u.Email.Value(),
		"username":   u.Username.Value(),
		"full_name":  u.FullName(),
		"is_active":  u.IsActive,
		"created_at": u.CreatedAt.Format(time.RFC3339Nano),
		"updated_at": u.UpdatedAt.Format(time.RFC3339Nano),
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: s.ESUsersIndex, DocumentID: u.ID, Body: strings.NewReader(string(b)), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Warn("es index failed")
		}
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && s.Logger != nil {
		s.Logger.WithField("status", res.Status()).WithField("user_id", u.ID).Warn("es index response error")
	}
	return nil
}

type TokenPair struct {
	AccessToken        string    `json:"access_token"`
	AccessTokenExpiry  time.Time `json:"access_token_expiry"`
	RefreshToken       string    `json:"refresh_token"`
	RefreshTokenExpiry time.Time `json:"refresh_token_expiry"`
}

type LoginResponse struct {
	UserID   string `json:"user_id"`
	Email    string `json:"email"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
}

func sessionKey(userID string) string {
	return "user:session:" + userID
}

// SessionRecord is the JSON blob stored in Redis for a logged-in user. The
// auth middleware reads it back to require an active session.
type SessionRecord struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	LoggedIn  bool      `json:"logged_in"`
	CreatedAt time.Time `json:"created_at"`
}

// Authenticate validates email/password without issuing tokens. Deactivated
// and soft-deleted accounts cannot authenticate.
func (s *Service) Authenticate(ctx context.Context, rawEmail, password string) (*entity.User, error) {
	email, err := valueobject.NewEmail(rawEmail)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	u, err := s.Repo.FindByEmail(ctx, email)
	if err != nil || u == nil {
		return nil, ErrInvalidCredentials
	}
	if u.IsDeleted || !u.IsActive {
		return nil, ErrInvalidCredentials
	}
	if !s.Hasher.Verify(password, u.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// IssueTokens generates the token pair and records a session in Redis.
func (s *Service) IssueTokens(ctx context.Context, u *entity.User) (TokenPair, error) {
	access, aexp, err := s.JWT.GenerateAccessToken(u.ID)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, rexp, err := s.JWT.GenerateRefreshToken(u.ID)
	if err != nil {
		return TokenPair{}, err
	}
	if s.Redis != nil {
		rec := SessionRecord{
			UserID:    u.ID,
			Email:     u.Email.Value(),
			Username:  u.Username.Value(),
			LoggedIn:  true,
			CreatedAt: time.Now().UTC(),
		}
		key := sessionKey(u.ID)
		if rErr := helpers.RedisSetJSON(ctx, s.Redis, key, rec, 24*time.Hour); rErr != nil && s.Logger != nil {
			s.Logger.WithError(rErr).WithField("key", key).Warn("session write failed")
		}
	}
	return TokenPair{AccessToken: access, AccessTokenExpiry: aexp, RefreshToken: refresh, RefreshTokenExpiry: rexp}, nil
}

// Refresh exchanges a valid refresh token for a fresh token pair. The user
// must still exist and be active; any failure maps to ErrInvalidCredentials
// so the caller learns nothing about which check failed.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	claims, err := s.JWT.ParseRefreshToken(refreshToken)
	if err != nil {
		return TokenPair{}, ErrInvalidCredentials
	}
	u, err := s.GetProfile(ctx, claims.UserID)
	if err != nil {
		return TokenPair{}, ErrInvalidCredentials
	}
	if !u.IsActive {
		return TokenPair{}, ErrInvalidCredentials
	}
	return s.IssueTokens(ctx, u)
}

func (s *Service) Login(ctx context.Context, email, password string) (*LoginResponse, TokenPair, error) {
	u, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return nil, TokenPair{}, err
	}
	pair, err := s.IssueTokens(ctx, u)
	if err != nil {
		return nil, TokenPair{}, err
	}
	resp := &LoginResponse{UserID: u.ID, Email: u.Email.Value(), Username: u.Username.Value(), FullName: u.FullName()}
	return resp, pair, nil
}

func (s *Service) GetProfile(ctx context.Context, userID string) (*entity.User, error) {
	u, err := s.Repo.GetByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	if u.IsDeleted {
		return nil, ErrUserNotFound
	}
	return u, nil
}

// UpdateProfile replaces both names after validating them.
func (s *Service) UpdateProfile(ctx context.Context, userID, rawFirst, rawLast string) (*entity.User, error) {
	firstName, err := valueobject.NewPersonName(rawFirst)
	if err != nil {
		return nil, err
	}
	lastName, err := valueobject.NewPersonName(rawLast)
	if err != nil {
		return nil, err
	}
	u, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	u.UpdateProfile(firstName, lastName)
	if err := s.Repo.Update(ctx, u); err != nil {
		return nil, err
	}
	_ = s.indexUser(ctx, u)
	return u, nil
}

// ChangePassword re-verifies the current password before hashing and storing
// the new one.
func (s *Service) ChangePassword(ctx context.Context, userID, current, newPassword string) error {
	u, err := s.GetProfile(ctx, userID)
	if err != nil {
		return err
	}
	if !s.Hasher.Verify(current, u.PasswordHash) {
		return ErrInvalidCredentials
	}
	hash, err := s.Hasher.Hash(newPassword)
	if err != nil {
		return err
	}
	if err := u.UpdatePassword(hash); err != nil {
		return err
	}
	return s.Repo.Update(ctx, u)
}

// Deactivate suspends the account and drops its session.
func (s *Service) Deactivate(ctx context.Context, userID string) error {
	u, err := s.GetProfile(ctx, userID)
	if err != nil {
		return err
	}
	u.Deactivate()
	if err := s.Repo.Update(ctx, u); err != nil {
		return err
	}
	s.dropSession(ctx, userID)
	_ = s.indexUser(ctx, u)
	return nil
}

// DeleteAccount soft-deletes the account; the row stays so the email and
// username remain reserved.
func (s *Service) DeleteAccount(ctx context.Context, userID string) error {
	u, err := s.GetProfile(ctx, userID)
	if err != nil {
		return err
	}
	u.SoftDelete()
	if err := s.Repo.Update(ctx, u); err != nil {
		return err
	}
	s.dropSession(ctx, userID)
	_ = s.indexUser(ctx, u)
	return nil
}

// Reactivate undoes a deactivation or a soft delete for a caller who can
// still present valid credentials.
func (s *Service) Reactivate(ctx context.Context, rawEmail, password string) (*entity.User, error) {
	email, err := valueobject.NewEmail(rawEmail)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	u, err := s.Repo.FindByEmail(ctx, email)
	if err != nil || u == nil {
		return nil, ErrInvalidCredentials
	}
	if !s.Hasher.Verify(password, u.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	if u.IsDeleted {
		u.Restore()
	}
	if !u.IsActive {
		u.Activate()
	}
	if err := s.Repo.Update(ctx, u); err != nil {
		return nil, err
	}
	_ = s.indexUser(ctx, u)
	return u, nil
}

func (s *Service) dropSession(ctx context.Context, userID string) {
	if s.Redis == nil {
		return
	}
	if err := helpers.RedisDel(ctx, s.Redis, sessionKey(userID)); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", userID).Warn("session delete failed")
	}
}

// SearchUsers performs a multi_match search on username and full name.
func (s *Service) SearchUsers(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if s.ES == nil || s.ESUsersIndex == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"username^2", "full_name", "email"},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(
		s.ES.Search.WithContext(c),
		s.ES.Search.WithIndex(s.ESUsersIndex),
		s.ES.Search.WithBody(strings.NewReader(string(b))),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}
