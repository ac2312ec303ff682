package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/taskboard/internal/domain/entity"
	repo "github.com/oksasatya/taskboard/internal/domain/repository"
	"github.com/oksasatya/taskboard/pkg/helpers"
)

type UserService struct {
	Users    repo.UserRepository
	Hasher   *helpers.PasswordHasher
	Notifier *Notifier
	Index    UserIndexer
	Logger   *logrus.Logger
}

func NewUserService(users repo.UserRepository, hasher *helpers.PasswordHasher, logger *logrus.Logger) *UserService {
	return &UserService{Users: users, Hasher: hasher, Logger: logger}
}

func (s *UserService) GetProfile(ctx context.Context, userID string) (*entity.User, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, userLookupErr(err)
	}
	return u, nil
}

// UpdateProfileInput: nil fields are left unchanged.
type UpdateProfileInput struct {
	Name  *string
	Email *string
}

func (s *UserService) UpdateProfile(ctx context.Context, userID string, in UpdateProfileInput) (*entity.User, error) {
	cur, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, userLookupErr(err)
	}

	changes := map[string]string{}
	var upd repo.UserUpdate
	if in.Name != nil && *in.Name != cur.Name {
		upd.Name = in.Name
		changes["name"] = *in.Name
	}
	if in.Email != nil && *in.Email != cur.Email {
		other, err := s.Users.GetByEmail(ctx, *in.Email)
		switch {
		case err == nil && other.ID != cur.ID:
			return nil, ErrEmailTaken
		case err != nil && !errors.Is(err, repo.ErrNotFound):
			return nil, fmt.Errorf("lookup email: %w", err)
		}
		upd.Email = in.Email
		changes["email"] = *in.Email
	}
	if len(changes) == 0 {
		return cur, nil
	}

	u, err := s.Users.UpdateByID(ctx, userID, upd)
	if err != nil {
		if errors.Is(err, repo.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, userLookupErr(err)
	}

	// the previous address hears about an email change too
	s.Notifier.ProfileUpdated(ctx, cur, changes)
	if u.Email != cur.Email {
		s.Notifier.ProfileUpdated(ctx, u, changes)
	}
	s.index(ctx, u)
	return u, nil
}

func (s *UserService) ChangePassword(ctx context.Context, userID, current, next string, meta ClientMeta) error {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return userLookupErr(err)
	}
	if !s.Hasher.Verify(current, u.PasswordHash) {
		return ErrWrongPassword
	}
	hash, err := s.Hasher.Hash(next)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if _, err := s.Users.UpdateByID(ctx, userID, repo.UserUpdate{PasswordHash: &hash}); err != nil {
		return userLookupErr(err)
	}
	s.Notifier.PasswordChanged(ctx, u, meta)
	return nil
}

func (s *UserService) ListUsers(ctx context.Context) ([]*entity.User, error) {
	users, err := s.Users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// SearchUsers queries the user directory; empty when no index is configured.
func (s *UserService) SearchUsers(ctx context.Context, q string, size int) ([]*entity.User, error) {
	if s.Index == nil {
		return []*entity.User{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	users, err := s.Index.SearchUsers(ctx, q, size)
	if err != nil {
		return nil, fmt.Errorf("search users: %w", err)
	}
	return users, nil
}

func (s *UserService) index(ctx context.Context, u *entity.User) {
	if s.Index == nil {
		return
	}
	if err := s.Index.IndexUser(ctx, u); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("es index failed")
	}
}

func userLookupErr(err error) error {
	if errors.Is(err, repo.ErrNotFound) || errors.Is(err, repo.ErrInvalidID) {
		return ErrUserNotFound
	}
	return err
}
