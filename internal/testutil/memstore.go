// Package testutil holds in-memory fakes for service and HTTP tests.
package testutil

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/oksasatya/taskboard/internal/domain/entity"
	"github.com/oksasatya/taskboard/internal/domain/repository"
)

// Store implements both repository interfaces on top of maps. It mirrors the
// Postgres behavior the rest of the code relies on: lowercase unique emails,
// ErrInvalidID for non-UUID ids and owner-scoped task access.
type Store struct {
	mu    sync.Mutex
	seq   int64
	now   func() time.Time
	users map[string]*entity.User
	tasks map[string]*taskRow
}

type taskRow struct {
	task *entity.Task
	seq  int64
}

func NewStore() *Store {
	return &Store{
		now:   func() time.Time { return time.Now().UTC() },
		users: map[string]*entity.User{},
		tasks: map[string]*taskRow{},
	}
}

func (s *Store) Users() repository.UserRepository { return userStore{s} }
func (s *Store) Tasks() repository.TaskRepository { return taskStore{s} }

func checkID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return repository.ErrInvalidID
	}
	return nil
}

func cloneUser(u *entity.User) *entity.User { c := *u; return &c }
func cloneTask(t *entity.Task) *entity.Task { c := *t; return &c }

type userStore struct{ s *Store }

func (r userStore) emailTaken(email, exceptID string) bool {
	for _, u := range r.s.users {
		if u.ID != exceptID && strings.EqualFold(u.Email, email) {
			return true
		}
	}
	return false
}

func (r userStore) Create(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u.Email = strings.ToLower(u.Email)
	if r.emailTaken(u.Email, "") {
		return repository.ErrDuplicateEmail
	}
	if u.Role == "" {
		u.Role = entity.RoleUser
	}
	now := r.s.now()
	u.ID = uuid.NewString()
	u.CreatedAt, u.UpdatedAt = now, now
	r.s.users[u.ID] = cloneUser(u)
	return nil
}

func (r userStore) GetByID(_ context.Context, id string) (*entity.User, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return cloneUser(u), nil
}

func (r userStore) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, email) {
			return cloneUser(u), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r userStore) UpdateByID(_ context.Context, id string, upd repository.UserUpdate) (*entity.User, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if upd.Email != nil {
		email := strings.ToLower(*upd.Email)
		if r.emailTaken(email, id) {
			return nil, repository.ErrDuplicateEmail
		}
		u.Email = email
	}
	if upd.Name != nil {
		u.Name = *upd.Name
	}
	if upd.PasswordHash != nil {
		u.PasswordHash = *upd.PasswordHash
	}
	u.UpdatedAt = r.s.now()
	return cloneUser(u), nil
}

func (r userStore) List(_ context.Context) ([]*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*entity.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		out = append(out, cloneUser(u))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

type taskStore struct{ s *Store }

func matches(t *entity.Task, f repository.TaskFilter) bool {
	if t.UserID != f.OwnerID {
		return false
	}
	if f.Status != "" && t.Status != f.Status {
		return false
	}
	if q := strings.TrimSpace(f.Search); q != "" {
		return strings.Contains(strings.ToLower(t.Title), strings.ToLower(q))
	}
	return true
}

func (r taskStore) Create(_ context.Context, t *entity.Task) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if t.Status == "" {
		t.Status = entity.TaskPending
	}
	now := r.s.now()
	t.ID = uuid.NewString()
	t.CreatedAt, t.UpdatedAt = now, now
	r.s.seq++
	r.s.tasks[t.ID] = &taskRow{task: cloneTask(t), seq: r.s.seq}
	return nil
}

func (r taskStore) FindMany(_ context.Context, f repository.TaskFilter, opts repository.ListOptions) ([]*entity.Task, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rows := make([]*taskRow, 0)
	for _, row := range r.s.tasks {
		if matches(row.task, f) {
			rows = append(rows, row)
		}
	}
	// insertion order stands in for created_at so equal timestamps stay stable
	sort.Slice(rows, func(i, j int) bool {
		if opts.Sort == repository.SortOldest {
			return rows[i].seq < rows[j].seq
		}
		return rows[i].seq > rows[j].seq
	})
	if opts.Skip >= len(rows) {
		return []*entity.Task{}, nil
	}
	rows = rows[opts.Skip:]
	if opts.Limit > 0 && opts.Limit < len(rows) {
		rows = rows[:opts.Limit]
	}
	out := make([]*entity.Task, 0, len(rows))
	for _, row := range rows {
		out = append(out, cloneTask(row.task))
	}
	return out, nil
}

func (r taskStore) Count(_ context.Context, f repository.TaskFilter) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := 0
	for _, row := range r.s.tasks {
		if matches(row.task, f) {
			n++
		}
	}
	return n, nil
}

func (r taskStore) owned(id, ownerID string) (*taskRow, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	row, ok := r.s.tasks[id]
	if !ok || row.task.UserID != ownerID {
		return nil, repository.ErrNotFound
	}
	return row, nil
}

func (r taskStore) FindOneByIDAndOwner(_ context.Context, id, ownerID string) (*entity.Task, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row, err := r.owned(id, ownerID)
	if err != nil {
		return nil, err
	}
	return cloneTask(row.task), nil
}

func (r taskStore) UpdateOneByIDAndOwner(_ context.Context, id, ownerID string, upd repository.TaskUpdate) (*entity.Task, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row, err := r.owned(id, ownerID)
	if err != nil {
		return nil, err
	}
	if upd.Title != nil {
		row.task.Title = *upd.Title
	}
	if upd.Description != nil {
		row.task.Description = *upd.Description
	}
	if upd.Status != nil {
		row.task.Status = *upd.Status
	}
	row.task.UpdatedAt = r.s.now()
	return cloneTask(row.task), nil
}

func (r taskStore) DeleteOneByIDAndOwner(_ context.Context, id, ownerID string) (*entity.Task, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row, err := r.owned(id, ownerID)
	if err != nil {
		return nil, err
	}
	delete(r.s.tasks, id)
	return cloneTask(row.task), nil
}

var (
	_ repository.UserRepository = userStore{}
	_ repository.TaskRepository = taskStore{}
)
