package application

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/taskboard/internal/domain/entity"
	repo "github.com/oksasatya/taskboard/internal/domain/repository"
	"github.com/oksasatya/taskboard/pkg/helpers"
	"github.com/oksasatya/taskboard/pkg/metrics"
)

type AuthService struct {
	Users    repo.UserRepository
	Hasher   *helpers.PasswordHasher
	Tokens   *helpers.JWTManager
	Revoker  TokenRevoker
	Notifier *Notifier
	Index    UserIndexer
	Metrics  *metrics.Metrics
	Logger   *logrus.Logger

	dummyOnce sync.Once
	dummyHash string
}

func NewAuthService(users repo.UserRepository, hasher *helpers.PasswordHasher, tokens *helpers.JWTManager, logger *logrus.Logger) *AuthService {
	return &AuthService{Users: users, Hasher: hasher, Tokens: tokens, Logger: logger}
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// AuthResult is what a successful register or login hands back to the caller.
type AuthResult struct {
	User      *entity.User
	Token     string
	ExpiresAt time.Time
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	if _, err := s.Users.GetByEmail(ctx, in.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repo.ErrNotFound) {
		return nil, fmt.Errorf("lookup email: %w", err)
	}

	hash, err := s.Hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &entity.User{Name: in.Name, Email: in.Email, PasswordHash: hash, Role: entity.RoleUser}
	if err := s.Users.Create(ctx, u); err != nil {
		// lost a race with a concurrent registration
		if errors.Is(err, repo.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	res, err := s.issue(u)
	if err != nil {
		return nil, err
	}
	s.Metrics.Registration()
	s.Notifier.Welcome(ctx, u)
	s.index(ctx, u)
	return res, nil
}

// Login answers ErrInvalidCredentials for both an unknown email and a wrong
// password, and spends one bcrypt comparison either way.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, repo.ErrNotFound) {
			return nil, fmt.Errorf("lookup email: %w", err)
		}
		s.Hasher.Verify(password, s.dummy())
		s.Metrics.Login(false)
		return nil, ErrInvalidCredentials
	}
	if !s.Hasher.Verify(password, u.PasswordHash) {
		s.Metrics.Login(false)
		return nil, ErrInvalidCredentials
	}
	s.Metrics.Login(true)
	return s.issue(u)
}

// Logout revokes the presented token when a revoker is configured. Tokens
// that no longer verify need no revocation.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if s.Revoker == nil || token == "" {
		return nil
	}
	claims, err := s.Tokens.Verify(token)
	if err != nil {
		return nil
	}
	if err := s.Revoker.Revoke(ctx, claims.ID, claims.UserID(), claims.ExpiresAt.Time); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

func (s *AuthService) issue(u *entity.User) (*AuthResult, error) {
	token, exp, err := s.Tokens.Issue(u.ID)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Error("issue token failed")
		}
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &AuthResult{User: u, Token: token, ExpiresAt: exp}, nil
}

func (s *AuthService) dummy() string {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = s.Hasher.Hash("dummy-password-for-timing")
	})
	return s.dummyHash
}

func (s *AuthService) index(ctx context.Context, u *entity.User) {
	if s.Index == nil {
		return
	}
	if err := s.Index.IndexUser(ctx, u); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("es index failed")
	}
}
