package task

import (
	"context"
	"encoding/json"
	"fmt"

	domain "github.com/cypherab01/task-manager-api/domain/task"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// TaskPort defines the owner-scoped task operations other modules use.
type TaskPort interface {
	ListTasks(ctx context.Context, userID string) ([]domain.Task, error)
	CreateTask(ctx context.Context, userID, title string, description *string) (*domain.Task, error)
	UpdateTaskStatus(ctx context.Context, userID, taskID, status string) (*domain.Task, error)
	DeleteTask(ctx context.Context, userID, taskID string) error
}

// taskAdapter wraps ServiceContainer for type-safe cross-module communication.
type taskAdapter struct {
	container mono.ServiceContainer
}

// NewTaskAdapter creates a new adapter for task services.
// container is the ServiceContainer received via SetDependencyServiceContainer.
func NewTaskAdapter(container mono.ServiceContainer) TaskPort {
	if container == nil {
		panic("task adapter requires non-nil ServiceContainer")
	}
	return &taskAdapter{container: container}
}

// ListTasks lists the tasks of userID via the list-tasks service.
func (a *taskAdapter) ListTasks(ctx context.Context, userID string) ([]domain.Task, error) {
	req := ListTasksRequest{UserID: userID}
	var resp ListTasksResponse
	if err := a.call(ctx, "list-tasks", &req, &resp); err != nil {
		return nil, err
	}
	if resp.Error != "" {
		return nil, errorFromCode(resp.Error)
	}
	if resp.Tasks == nil {
		return []domain.Task{}, nil
	}
	return resp.Tasks, nil
}

// CreateTask creates a task via the create-task service.
func (a *taskAdapter) CreateTask(ctx context.Context, userID, title string, description *string) (*domain.Task, error) {
	req := CreateTaskRequest{UserID: userID, Title: title, Description: description}
	var resp TaskResponse
	if err := a.call(ctx, "create-task", &req, &resp); err != nil {
		return nil, err
	}
	return taskOrError(resp)
}

// UpdateTaskStatus changes a task's status via the update-task-status service.
func (a *taskAdapter) UpdateTaskStatus(ctx context.Context, userID, taskID, status string) (*domain.Task, error) {
	req := UpdateTaskStatusRequest{UserID: userID, TaskID: taskID, Status: status}
	var resp TaskResponse
	if err := a.call(ctx, "update-task-status", &req, &resp); err != nil {
		return nil, err
	}
	return taskOrError(resp)
}

// DeleteTask deletes a task via the delete-task service.
func (a *taskAdapter) DeleteTask(ctx context.Context, userID, taskID string) error {
	req := DeleteTaskRequest{UserID: userID, TaskID: taskID}
	var resp DeleteTaskResponse
	if err := a.call(ctx, "delete-task", &req, &resp); err != nil {
		return err
	}
	if resp.Error != "" {
		return errorFromCode(resp.Error)
	}
	if !resp.Deleted {
		return fmt.Errorf("task not deleted: %s", taskID)
	}
	return nil
}

func (a *taskAdapter) call(ctx context.Context, service string, req, resp any) error {
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		service,
		json.Marshal,
		json.Unmarshal,
		req,
		resp,
	); err != nil {
		return fmt.Errorf("%s service call failed: %w", service, err)
	}
	return nil
}

func taskOrError(resp TaskResponse) (*domain.Task, error) {
	if resp.Error != "" {
		return nil, errorFromCode(resp.Error)
	}
	if resp.Task == nil {
		return nil, fmt.Errorf("empty task response")
	}
	return resp.Task, nil
}
