package application

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/oksasatya/taskboard/internal/domain/entity"
	repo "github.com/oksasatya/taskboard/internal/domain/repository"
	"github.com/oksasatya/taskboard/pkg/metrics"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

type TaskService struct {
	Tasks   repo.TaskRepository
	Metrics *metrics.Metrics
}

func NewTaskService(tasks repo.TaskRepository, m *metrics.Metrics) *TaskService {
	return &TaskService{Tasks: tasks, Metrics: m}
}

type CreateTaskInput struct {
	Title       string
	Description string
	Status      entity.TaskStatus
}

// Create stamps the task with ownerID; ownership never comes from input.
func (s *TaskService) Create(ctx context.Context, ownerID string, in CreateTaskInput) (*entity.Task, error) {
	t := &entity.Task{
		Title:       in.Title,
		Description: in.Description,
		Status:      in.Status,
		UserID:      ownerID,
	}
	if t.Status == "" {
		t.Status = entity.TaskPending
	}
	if err := s.Tasks.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	s.Metrics.TaskCreated()
	return t, nil
}

type ListTasksQuery struct {
	Search string
	Status string
	Sort   string
	Page   int
	Limit  int
}

type Pagination struct {
	Total int `json:"total"`
	Page  int `json:"page"`
	Pages int `json:"pages"`
	Limit int `json:"limit"`
}

type TaskPage struct {
	Tasks      []*entity.Task `json:"tasks"`
	Pagination Pagination     `json:"pagination"`
}

// normalize clamps paging and drops unknown filter values.
func (q ListTasksQuery) normalize(ownerID string) (repo.TaskFilter, repo.ListOptions, int) {
	page := q.Page
	if page < 1 {
		page = 1
	}
	limit := q.Limit
	if limit < 1 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	// keep (page-1)*limit inside the range of an OFFSET
	if maxPage := math.MaxInt32 / limit; page > maxPage {
		page = maxPage
	}

	f := repo.TaskFilter{OwnerID: ownerID, Search: strings.TrimSpace(q.Search)}
	if st := entity.TaskStatus(q.Status); st.Valid() {
		f.Status = st
	}
	opts := repo.ListOptions{Sort: repo.SortNewest, Skip: (page - 1) * limit, Limit: limit}
	if repo.TaskSort(q.Sort) == repo.SortOldest {
		opts.Sort = repo.SortOldest
	}
	return f, opts, page
}

func (s *TaskService) List(ctx context.Context, ownerID string, q ListTasksQuery) (*TaskPage, error) {
	f, opts, page := q.normalize(ownerID)

	tasks, err := s.Tasks.FindMany(ctx, f, opts)
	if err != nil {
		return nil, fmt.Errorf("find tasks: %w", err)
	}
	total, err := s.Tasks.Count(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("count tasks: %w", err)
	}
	return &TaskPage{
		Tasks: tasks,
		Pagination: Pagination{
			Total: total,
			Page:  page,
			Pages: (total + opts.Limit - 1) / opts.Limit,
			Limit: opts.Limit,
		},
	}, nil
}

func (s *TaskService) Get(ctx context.Context, ownerID, taskID string) (*entity.Task, error) {
	t, err := s.Tasks.FindOneByIDAndOwner(ctx, taskID, ownerID)
	if err != nil {
		return nil, taskLookupErr(err)
	}
	return t, nil
}

type UpdateTaskInput struct {
	Title       *string
	Description *string
	Status      *entity.TaskStatus
}

func (s *TaskService) Update(ctx context.Context, ownerID, taskID string, in UpdateTaskInput) (*entity.Task, error) {
	t, err := s.Tasks.UpdateOneByIDAndOwner(ctx, taskID, ownerID, repo.TaskUpdate{
		Title:       in.Title,
		Description: in.Description,
		Status:      in.Status,
	})
	if err != nil {
		return nil, taskLookupErr(err)
	}
	return t, nil
}

func (s *TaskService) Delete(ctx context.Context, ownerID, taskID string) error {
	if _, err := s.Tasks.DeleteOneByIDAndOwner(ctx, taskID, ownerID); err != nil {
		return taskLookupErr(err)
	}
	s.Metrics.TaskDeleted()
	return nil
}

// taskLookupErr folds foreign and absent tasks into ErrTaskNotFound.
// ErrInvalidID passes through so malformed ids answer 400.
func taskLookupErr(err error) error {
	if errors.Is(err, repo.ErrNotFound) {
		return ErrTaskNotFound
	}
	return err
}
