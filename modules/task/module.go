package task

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cypherab01/task-manager-api/database"
	"github.com/cypherab01/task-manager-api/events"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// TaskModule provides owner-scoped task services.
type TaskModule struct {
	db       *gorm.DB
	service  *TaskService
	eventBus mono.EventBus
	logger   *log.Entry
}

var _ mono.Module = (*TaskModule)(nil)
var _ mono.ServiceProviderModule = (*TaskModule)(nil)
var _ mono.EventEmitterModule = (*TaskModule)(nil)
var _ mono.EventConsumerModule = (*TaskModule)(nil)
var _ mono.HealthCheckableModule = (*TaskModule)(nil)

// NewModule creates a new TaskModule backed by an already migrated database.
func NewModule(db *gorm.DB) *TaskModule {
	return &TaskModule{
		db:      db,
		service: NewTaskService(NewTaskRepository(db)),
		logger:  log.WithField("module", "task"),
	}
}

func (m *TaskModule) Name() string {
	return "task"
}

func (m *TaskModule) SetEventBus(bus mono.EventBus) {
	m.eventBus = bus
}

func (m *TaskModule) EmitEvents() []mono.BaseEventDefinition {
	return []mono.BaseEventDefinition{
		events.TaskCreatedV1.ToBase(),
		events.TaskStatusChangedV1.ToBase(),
		events.TaskDeletedV1.ToBase(),
	}
}

// RegisterEventConsumers subscribes to account deletion so that no task
// outlives its owner.
func (m *TaskModule) RegisterEventConsumers(registry mono.EventRegistry) error {
	if err := helper.RegisterTypedEventConsumer(registry, events.AccountDeletedV1, m.handleAccountDeleted, m); err != nil {
		return fmt.Errorf("failed to register AccountDeleted consumer: %w", err)
	}
	m.logger.Info("Registered event consumers: AccountDeleted")
	return nil
}

func (m *TaskModule) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, "list-tasks", json.Unmarshal, json.Marshal, m.listTasks,
	); err != nil {
		return fmt.Errorf("failed to register list-tasks service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "create-task", json.Unmarshal, json.Marshal, m.createTask,
	); err != nil {
		return fmt.Errorf("failed to register create-task service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "update-task-status", json.Unmarshal, json.Marshal, m.updateTaskStatus,
	); err != nil {
		return fmt.Errorf("failed to register update-task-status service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "delete-task", json.Unmarshal, json.Marshal, m.deleteTask,
	); err != nil {
		return fmt.Errorf("failed to register delete-task service: %w", err)
	}

	m.logger.Info("Registered services: list-tasks, create-task, update-task-status, delete-task")
	return nil
}

func (m *TaskModule) Start(_ context.Context) error {
	if m.db == nil {
		return fmt.Errorf("database not set")
	}
	if m.eventBus == nil {
		m.logger.Warn("eventBus not set, events will not be published")
	}
	m.logger.Info("Module started")
	return nil
}

func (m *TaskModule) Stop(_ context.Context) error {
	m.logger.Info("Module stopped")
	return nil
}

// Health reports whether the task store is reachable.
func (m *TaskModule) Health(_ context.Context) mono.HealthStatus {
	if err := database.Ping(m.db); err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("database ping failed: %v", err),
		}
	}
	return mono.HealthStatus{Healthy: true, Message: "operational"}
}

func (m *TaskModule) listTasks(ctx context.Context, req ListTasksRequest, _ *mono.Msg) (ListTasksResponse, error) {
	tasks, err := m.service.List(ctx, req.UserID)
	if err != nil {
		return ListTasksResponse{}, err
	}
	return ListTasksResponse{Tasks: tasks}, nil
}

func (m *TaskModule) createTask(ctx context.Context, req CreateTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	task, err := m.service.Create(ctx, req.UserID, req.Title, req.Description)
	if err != nil {
		if code, ok := errorCode(err); ok {
			return TaskResponse{Error: code}, nil
		}
		return TaskResponse{}, err
	}

	m.publish(func(bus mono.EventBus) error {
		return events.TaskCreatedV1.Publish(bus, events.TaskCreatedEvent{
			TaskID:    task.ID,
			Title:     task.Title,
			UserID:    task.UserID,
			CreatedAt: task.CreatedAt,
		}, nil)
	}, "TaskCreated", task.ID)

	return TaskResponse{Task: task}, nil
}

func (m *TaskModule) updateTaskStatus(ctx context.Context, req UpdateTaskStatusRequest, _ *mono.Msg) (TaskResponse, error) {
	change, err := m.service.UpdateStatus(ctx, req.UserID, req.TaskID, req.Status)
	if err != nil {
		if code, ok := errorCode(err); ok {
			return TaskResponse{Error: code}, nil
		}
		return TaskResponse{}, err
	}

	task := change.Task
	m.publish(func(bus mono.EventBus) error {
		return events.TaskStatusChangedV1.Publish(bus, events.TaskStatusChangedEvent{
			TaskID:    task.ID,
			UserID:    task.UserID,
			From:      string(change.From),
			To:        string(task.Status),
			ChangedAt: task.UpdatedAt,
		}, nil)
	}, "TaskStatusChanged", task.ID)

	return TaskResponse{Task: task}, nil
}

func (m *TaskModule) deleteTask(ctx context.Context, req DeleteTaskRequest, _ *mono.Msg) (DeleteTaskResponse, error) {
	task, err := m.service.Delete(ctx, req.UserID, req.TaskID)
	if err != nil {
		if code, ok := errorCode(err); ok {
			return DeleteTaskResponse{Error: code}, nil
		}
		return DeleteTaskResponse{}, err
	}

	m.publish(func(bus mono.EventBus) error {
		return events.TaskDeletedV1.Publish(bus, events.TaskDeletedEvent{
			TaskID:    task.ID,
			UserID:    task.UserID,
			DeletedAt: time.Now(),
		}, nil)
	}, "TaskDeleted", task.ID)

	return DeleteTaskResponse{Deleted: true}, nil
}

func (m *TaskModule) handleAccountDeleted(ctx context.Context, event events.AccountDeletedEvent, _ *mono.Msg) error {
	n, err := m.service.PurgeForUser(ctx, event.UserID)
	if err != nil {
		m.logger.WithError(err).WithField("user_id", event.UserID).Error("Failed to purge tasks of deleted account")
		return err
	}
	if n > 0 {
		m.logger.WithFields(log.Fields{"user_id": event.UserID, "tasks": n}).Info("Purged tasks of deleted account")
	}
	return nil
}

// publish is best-effort: a failure is logged and never fails the operation.
func (m *TaskModule) publish(emit func(mono.EventBus) error, event, taskID string) {
	if m.eventBus == nil {
		return
	}
	if err := emit(m.eventBus); err != nil {
		m.logger.WithError(err).WithField("task_id", taskID).Warnf("Failed to publish %s event", event)
	}
}
