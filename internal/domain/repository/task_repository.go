package repository

import (
	"context"

	"github.com/oksasatya/taskboard/internal/domain/entity"
)

// TaskFilter always carries the owner; Status and Search are optional.
type TaskFilter struct {
	OwnerID string
	Status  entity.TaskStatus
	Search  string // case-insensitive substring of the title
}

type TaskSort string

const (
	SortNewest TaskSort = "newest"
	SortOldest TaskSort = "oldest"
)

type ListOptions struct {
	Sort  TaskSort
	Skip  int
	Limit int
}

// TaskUpdate carries the fields to change; nil pointers are left untouched.
type TaskUpdate struct {
	Title       *string
	Description *string
	Status      *entity.TaskStatus
}

// TaskRepository scopes every single-task operation by (id, ownerID).
// A task owned by someone else is reported as ErrNotFound.
type TaskRepository interface {
	Create(ctx context.Context, t *entity.Task) error
	FindMany(ctx context.Context, f TaskFilter, opts ListOptions) ([]*entity.Task, error)
	Count(ctx context.Context, f TaskFilter) (int, error)
	FindOneByIDAndOwner(ctx context.Context, id, ownerID string) (*entity.Task, error)
	UpdateOneByIDAndOwner(ctx context.Context, id, ownerID string, upd TaskUpdate) (*entity.Task, error)
	DeleteOneByIDAndOwner(ctx context.Context, id, ownerID string) (*entity.Task, error)
}
