package task

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/cypherab01/task-manager-api/config"
	"github.com/cypherab01/task-manager-api/database"
	domain "github.com/cypherab01/task-manager-api/domain/task"
	"github.com/cypherab01/task-manager-api/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.Open(config.DatabaseConfig{Path: filepath.Join(t.TempDir(), "tasks.db")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	require.NoError(t, database.Migrate(db))

	now := time.Now()
	for _, u := range []user.User{
		{ID: "alice", Email: "alice@example.com", PasswordHash: "x", CreatedAt: now, UpdatedAt: now},
		{ID: "bob", Email: "bob@example.com", PasswordHash: "x", CreatedAt: now, UpdatedAt: now},
	} {
		require.NoError(t, db.Create(&u).Error)
	}
	return db
}

func newTestService(t *testing.T) *TaskService {
	t.Helper()

	svc := NewTaskService(NewTaskRepository(setupTestDB(t)))
	// Strictly increasing clock so list order is deterministic.
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	var tick int
	svc.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}
	return svc
}

func strPtr(s string) *string { return &s }

func TestTaskService_Create(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	task, err := svc.Create(ctx, "alice", "  Buy milk  ", strPtr("2 litres"))
	require.NoError(t, err)
	assert.NotEmpty(t, task.ID)
	assert.Equal(t, "Buy milk", task.Title)
	assert.Equal(t, "2 litres", *task.Description)
	assert.Equal(t, domain.StatusPending, task.Status)
	assert.Equal(t, "alice", task.UserID)
	assert.False(t, task.CreatedAt.IsZero())

	noDesc, err := svc.Create(ctx, "alice", "Walk dog", nil)
	require.NoError(t, err)
	assert.Nil(t, noDesc.Description)
}

func TestTaskService_CreateRequiresTitle(t *testing.T) {
	svc := newTestService(t)

	for _, title := range []string{"", "   "} {
		_, err := svc.Create(context.Background(), "alice", title, nil)
		assert.ErrorIs(t, err, ErrTitleRequired)
	}
}

func TestTaskService_ListIsOwnerScopedAndOrdered(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	empty, err := svc.List(ctx, "alice")
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	first, err := svc.Create(ctx, "alice", "first", nil)
	require.NoError(t, err)
	_, err = svc.Create(ctx, "bob", "bob's", nil)
	require.NoError(t, err)
	second, err := svc.Create(ctx, "alice", "second", nil)
	require.NoError(t, err)

	tasks, err := svc.List(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, first.ID, tasks[0].ID)
	assert.Equal(t, second.ID, tasks[1].ID)
}

func TestTaskService_UpdateStatus(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	task, err := svc.Create(ctx, "alice", "Buy milk", nil)
	require.NoError(t, err)

	tests := []struct {
		name    string
		userID  string
		taskID  string
		status  string
		wantErr error
	}{
		{name: "lowercase status", userID: "alice", taskID: task.ID, status: "completed", wantErr: ErrInvalidStatus},
		{name: "unknown status", userID: "alice", taskID: task.ID, status: "DONE", wantErr: ErrInvalidStatus},
		{name: "invalid status wins over missing task", userID: "alice", taskID: "missing", status: "DONE", wantErr: ErrInvalidStatus},
		{name: "missing task", userID: "alice", taskID: "missing", status: "COMPLETED", wantErr: ErrNotFoundOrForbidden},
		{name: "foreign task", userID: "bob", taskID: task.ID, status: "COMPLETED", wantErr: ErrNotFoundOrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.UpdateStatus(ctx, tt.userID, tt.taskID, tt.status)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	change, err := svc.UpdateStatus(ctx, "alice", task.ID, "IN_PROGRESS")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, change.From)
	assert.Equal(t, domain.StatusInProgress, change.Task.Status)
	assert.Equal(t, task.ID, change.Task.ID)

	// Setting the current status again is a successful no-op.
	change, err = svc.UpdateStatus(ctx, "alice", task.ID, "IN_PROGRESS")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInProgress, change.Task.Status)
}

func TestTaskService_UpdateStatusOfForeignTaskLeavesItUnchanged(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	task, err := svc.Create(ctx, "alice", "Buy milk", nil)
	require.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, "bob", task.ID, "COMPLETED")
	require.ErrorIs(t, err, ErrNotFoundOrForbidden)

	stored, err := svc.repo.FindByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, stored.Status)
}

func TestTaskService_Delete(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	task, err := svc.Create(ctx, "alice", "Buy milk", nil)
	require.NoError(t, err)

	_, err = svc.Delete(ctx, "bob", task.ID)
	assert.ErrorIs(t, err, ErrNotFoundOrForbidden)

	deleted, err := svc.Delete(ctx, "alice", task.ID)
	require.NoError(t, err)
	assert.Equal(t, task.ID, deleted.ID)

	_, err = svc.Delete(ctx, "alice", task.ID)
	assert.ErrorIs(t, err, ErrNotFoundOrForbidden)
}

func TestTaskService_PurgeForUser(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	for _, title := range []string{"a", "b"} {
		_, err := svc.Create(ctx, "alice", title, nil)
		require.NoError(t, err)
	}
	_, err := svc.Create(ctx, "bob", "c", nil)
	require.NoError(t, err)

	n, err := svc.PurgeForUser(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	left, err := svc.List(ctx, "bob")
	require.NoError(t, err)
	assert.Len(t, left, 1)

	n, err = svc.PurgeForUser(ctx, "")
	require.NoError(t, err)
	assert.Zero(t, n)
}
