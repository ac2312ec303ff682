package repository

import (
	"context"

	"github.com/oksasatya/taskboard/internal/domain/entity"
)

// UserUpdate carries the fields to change; nil pointers are left untouched.
type UserUpdate struct {
	Name         *string
	Email        *string
	PasswordHash *string
}

// UserRepository defines the interface for user-related database operations.
// Implementations return ErrNotFound, ErrDuplicateEmail or ErrInvalidID
// (possibly wrapped) for the corresponding storage conditions.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	UpdateByID(ctx context.Context, id string, upd UserUpdate) (*entity.User, error)
	List(ctx context.Context) ([]*entity.User, error)
}
