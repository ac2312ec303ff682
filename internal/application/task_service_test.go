package application

import (
	"context"
	"fmt"
	"math"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/taskboard/internal/domain/entity"
	repo "github.com/oksasatya/taskboard/internal/domain/repository"
	"github.com/oksasatya/taskboard/internal/testutil"
	"github.com/oksasatya/taskboard/pkg/metrics"
)

const (
	ownerA = "11111111-1111-1111-1111-111111111111"
	ownerB = "22222222-2222-2222-2222-222222222222"
)

func newTaskService() *TaskService {
	return NewTaskService(testutil.NewStore().Tasks(), metrics.New(prometheus.NewRegistry()))
}

func TestTaskService_CreateDefaultsAndStampsOwner(t *testing.T) {
	svc := newTaskService()
	task, err := svc.Create(context.Background(), ownerA, CreateTaskInput{Title: "Ship v1"})
	require.NoError(t, err)

	assert.Equal(t, entity.TaskPending, task.Status)
	assert.Equal(t, ownerA, task.UserID)
	assert.Equal(t, "", task.Description)
	assert.Equal(t, 1.0, promtest.ToFloat64(svc.Metrics.TasksCreatedTotal))
}

func TestTaskService_Pagination(t *testing.T) {
	svc := newTaskService()
	ctx := context.Background()
	for i := 0; i < 25; i++ {
		_, err := svc.Create(ctx, ownerA, CreateTaskInput{Title: fmt.Sprintf("task %d", i)})
		require.NoError(t, err)
	}

	tests := []struct {
		name      string
		query     ListTasksQuery
		wantLen   int
		wantPage  int
		wantPages int
		wantLimit int
	}{
		{name: "defaults", query: ListTasksQuery{}, wantLen: 20, wantPage: 1, wantPages: 2, wantLimit: 20},
		{name: "second page", query: ListTasksQuery{Page: 2, Limit: 20}, wantLen: 5, wantPage: 2, wantPages: 2, wantLimit: 20},
		{name: "past the end", query: ListTasksQuery{Page: 9, Limit: 20}, wantLen: 0, wantPage: 9, wantPages: 2, wantLimit: 20},
		{name: "limit clamped", query: ListTasksQuery{Limit: 1000}, wantLen: 25, wantPage: 1, wantPages: 1, wantLimit: MaxPageSize},
		{name: "negative page", query: ListTasksQuery{Page: -3, Limit: 10}, wantLen: 10, wantPage: 1, wantPages: 3, wantLimit: 10},
		{name: "huge page capped", query: ListTasksQuery{Page: math.MaxInt, Limit: 20}, wantLen: 0, wantPage: math.MaxInt32 / 20, wantPages: 2, wantLimit: 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := svc.List(ctx, ownerA, tt.query)
			require.NoError(t, err)
			assert.Len(t, page.Tasks, tt.wantLen)
			assert.Equal(t, Pagination{Total: 25, Page: tt.wantPage, Pages: tt.wantPages, Limit: tt.wantLimit}, page.Pagination)
		})
	}

	newest, err := svc.List(ctx, ownerA, ListTasksQuery{Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, "task 24", newest.Tasks[0].Title)
	oldest, err := svc.List(ctx, ownerA, ListTasksQuery{Limit: 1, Sort: string(repo.SortOldest)})
	require.NoError(t, err)
	assert.Equal(t, "task 0", oldest.Tasks[0].Title)
}

func TestTaskService_Filters(t *testing.T) {
	svc := newTaskService()
	ctx := context.Background()
	for _, in := range []CreateTaskInput{
		{Title: "Buy milk"},
		{Title: "Buy bread", Status: entity.TaskCompleted},
		{Title: "Call mom"},
	} {
		_, err := svc.Create(ctx, ownerA, in)
		require.NoError(t, err)
	}
	_, err := svc.Create(ctx, ownerB, CreateTaskInput{Title: "Buy milk"})
	require.NoError(t, err)

	tests := []struct {
		name  string
		query ListTasksQuery
		want  int
	}{
		{name: "search is case-insensitive", query: ListTasksQuery{Search: "MILK"}, want: 1},
		{name: "search trims", query: ListTasksQuery{Search: "  buy "}, want: 2},
		{name: "status filter", query: ListTasksQuery{Status: "completed"}, want: 1},
		{name: "unknown status ignored", query: ListTasksQuery{Status: "archived"}, want: 3},
		{name: "combined", query: ListTasksQuery{Search: "buy", Status: "pending"}, want: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := svc.List(ctx, ownerA, tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.want, page.Pagination.Total)
			for _, task := range page.Tasks {
				assert.Equal(t, ownerA, task.UserID)
			}
		})
	}
}

func TestTaskService_OwnershipIsolation(t *testing.T) {
	svc := newTaskService()
	ctx := context.Background()
	task, err := svc.Create(ctx, ownerB, CreateTaskInput{Title: "private"})
	require.NoError(t, err)

	_, err = svc.Get(ctx, ownerA, task.ID)
	assert.ErrorIs(t, err, ErrTaskNotFound)

	_, err = svc.Update(ctx, ownerA, task.ID, UpdateTaskInput{Title: ptr("mine now")})
	assert.ErrorIs(t, err, ErrTaskNotFound)

	assert.ErrorIs(t, svc.Delete(ctx, ownerA, task.ID), ErrTaskNotFound)

	got, err := svc.Get(ctx, ownerB, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "private", got.Title)
}

func TestTaskService_UpdateAndDelete(t *testing.T) {
	svc := newTaskService()
	ctx := context.Background()
	task, err := svc.Create(ctx, ownerA, CreateTaskInput{Title: "Ship v1", Description: "soon"})
	require.NoError(t, err)

	done := entity.TaskCompleted
	updated, err := svc.Update(ctx, ownerA, task.ID, UpdateTaskInput{Status: &done})
	require.NoError(t, err)
	assert.Equal(t, entity.TaskCompleted, updated.Status)
	assert.Equal(t, "Ship v1", updated.Title)
	assert.Equal(t, "soon", updated.Description)

	require.NoError(t, svc.Delete(ctx, ownerA, task.ID))
	_, err = svc.Get(ctx, ownerA, task.ID)
	assert.ErrorIs(t, err, ErrTaskNotFound)

	_, err = svc.Get(ctx, ownerA, "not-a-uuid")
	assert.ErrorIs(t, err, repo.ErrInvalidID)
}
