package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/taskboard/internal/domain/entity"
	"github.com/oksasatya/taskboard/internal/domain/repository"
)

const taskColumns = `id, title, description, status, user_id, created_at, updated_at`

type TaskRepository struct {
	pool *pgxpool.Pool
}

func NewTaskRepository(pool *pgxpool.Pool) *TaskRepository {
	return &TaskRepository{pool: pool}
}

func scanTask(row pgx.Row) (*entity.Task, error) {
	t := &entity.Task{}
	var status string
	if err := row.Scan(&t.ID, &t.Title, &t.Description, &status, &t.UserID, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	t.Status = entity.TaskStatus(status)
	return t, nil
}

// escapeLike makes s match literally inside an ILIKE pattern.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

func buildTaskWhere(f repository.TaskFilter) (string, []any) {
	clauses := []string{"user_id = $1"}
	args := []any{f.OwnerID}
	if f.Status != "" {
		args = append(args, string(f.Status))
		clauses = append(clauses, fmt.Sprintf("status = $%d", len(args)))
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		args = append(args, escapeLike(s))
		clauses = append(clauses, fmt.Sprintf(`title ILIKE '%%' || $%d || '%%' ESCAPE '\'`, len(args)))
	}
	return strings.Join(clauses, " AND "), args
}

func (r *TaskRepository) Create(ctx context.Context, t *entity.Task) error {
	if t.Status == "" {
		t.Status = entity.TaskPending
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO tasks (title, description, status, user_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`, t.Title, t.Description, string(t.Status), t.UserID)

	return translate("create task", row.Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt))
}

func (r *TaskRepository) FindMany(ctx context.Context, f repository.TaskFilter, opts repository.ListOptions) ([]*entity.Task, error) {
	where, args := buildTaskWhere(f)
	order := "created_at DESC, id DESC"
	if opts.Sort == repository.SortOldest {
		order = "created_at ASC, id ASC"
	}
	args = append(args, opts.Limit, opts.Skip)
	query := fmt.Sprintf(`SELECT %s FROM tasks WHERE %s ORDER BY %s LIMIT $%d OFFSET $%d`,
		taskColumns, where, order, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, translate("find tasks", err)
	}
	defer rows.Close()

	tasks := make([]*entity.Task, 0, opts.Limit)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, translate("find tasks", err)
		}
		tasks = append(tasks, t)
	}
	return tasks, translate("find tasks", rows.Err())
}

func (r *TaskRepository) Count(ctx context.Context, f repository.TaskFilter) (int, error) {
	where, args := buildTaskWhere(f)
	var n int
	err := r.pool.QueryRow(ctx, `SELECT count(*) FROM tasks WHERE `+where, args...).Scan(&n)
	return n, translate("count tasks", err)
}

func (r *TaskRepository) FindOneByIDAndOwner(ctx context.Context, id, ownerID string) (*entity.Task, error) {
	t, err := scanTask(r.pool.QueryRow(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE id = $1 AND user_id = $2`, id, ownerID))
	if err != nil {
		return nil, translate("find task", err)
	}
	return t, nil
}

func (r *TaskRepository) UpdateOneByIDAndOwner(ctx context.Context, id, ownerID string, upd repository.TaskUpdate) (*entity.Task, error) {
	var status *string
	if upd.Status != nil {
		s := string(*upd.Status)
		status = &s
	}
	t, err := scanTask(r.pool.QueryRow(ctx, `
		UPDATE tasks
		SET title = COALESCE($3, title),
		    description = COALESCE($4, description),
		    status = COALESCE($5, status),
		    updated_at = $6
		WHERE id = $1 AND user_id = $2
		RETURNING `+taskColumns,
		id, ownerID, upd.Title, upd.Description, status, time.Now().UTC()))
	if err != nil {
		return nil, translate("update task", err)
	}
	return t, nil
}

func (r *TaskRepository) DeleteOneByIDAndOwner(ctx context.Context, id, ownerID string) (*entity.Task, error) {
	t, err := scanTask(r.pool.QueryRow(ctx,
		`DELETE FROM tasks WHERE id = $1 AND user_id = $2 RETURNING `+taskColumns, id, ownerID))
	if err != nil {
		return nil, translate("delete task", err)
	}
	return t, nil
}

var _ repository.TaskRepository = (*TaskRepository)(nil)
