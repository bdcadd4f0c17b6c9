package task

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	domain "github.com/cypherab01/task-manager-api/domain/task"
	"github.com/google/uuid"
)

var (
	// ErrInvalidStatus is returned when a status is not one of domain.ValidStatuses.
	ErrInvalidStatus = errors.New("invalid status")
	// ErrTitleRequired is returned when a task is created without a title.
	ErrTitleRequired = errors.New("title is required")
	// ErrNotFoundOrForbidden is returned when a task does not exist or belongs
	// to another user; callers cannot tell the two apart.
	ErrNotFoundOrForbidden = errors.New("task not found or forbidden")
)

// StatusChange describes a successful status update.
type StatusChange struct {
	Task *domain.Task
	From domain.Status
}

// TaskService implements the owner-scoped task operations.
type TaskService struct {
	repo *TaskRepository
	now  func() time.Time
}

// NewTaskService creates a new TaskService.
func NewTaskService(repo *TaskRepository) *TaskService {
	return &TaskService{
		repo: repo,
		now:  time.Now,
	}
}

// List returns the tasks owned by userID.
func (s *TaskService) List(ctx context.Context, userID string) ([]domain.Task, error) {
	tasks, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// Create stores a new PENDING task for userID and returns the persisted record.
func (s *TaskService) Create(ctx context.Context, userID, title string, description *string) (*domain.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrTitleRequired
	}

	now := s.now()
	task := &domain.Task{
		ID:          uuid.New().String(),
		Title:       title,
		Description: description,
		Status:      domain.StatusPending,
		UserID:      userID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	return task, nil
}

// UpdateStatus moves a task owned by userID to status. The status is
// validated before the task is looked up.
func (s *TaskService) UpdateStatus(ctx context.Context, userID, taskID, status string) (*StatusChange, error) {
	next, ok := domain.ParseStatus(status)
	if !ok {
		return nil, ErrInvalidStatus
	}

	task, err := s.findOwned(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}
	from := task.Status

	if err := s.repo.UpdateStatus(ctx, task.ID, next); err != nil {
		if errors.Is(err, ErrTaskNotFound) {
			return nil, ErrNotFoundOrForbidden
		}
		return nil, fmt.Errorf("failed to update task status: %w", err)
	}

	updated, err := s.findOwned(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}
	return &StatusChange{Task: updated, From: from}, nil
}

// Delete removes a task owned by userID.
func (s *TaskService) Delete(ctx context.Context, userID, taskID string) (*domain.Task, error) {
	task, err := s.findOwned(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Delete(ctx, task.ID); err != nil {
		if errors.Is(err, ErrTaskNotFound) {
			return nil, ErrNotFoundOrForbidden
		}
		return nil, fmt.Errorf("failed to delete task: %w", err)
	}
	return task, nil
}

// PurgeForUser deletes every task still owned by userID.
func (s *TaskService) PurgeForUser(ctx context.Context, userID string) (int64, error) {
	if userID == "" {
		return 0, nil
	}
	n, err := s.repo.DeleteByUserID(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to purge tasks: %w", err)
	}
	return n, nil
}

func (s *TaskService) findOwned(ctx context.Context, userID, taskID string) (*domain.Task, error) {
	task, err := s.repo.FindByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, ErrTaskNotFound) {
			return nil, ErrNotFoundOrForbidden
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	if !task.OwnedBy(userID) {
		return nil, ErrNotFoundOrForbidden
	}
	return task, nil
}
