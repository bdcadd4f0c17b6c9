package api

import (
	"context"
	"errors"

	taskdomain "github.com/cypherab01/task-manager-api/domain/task"
	domain "github.com/cypherab01/task-manager-api/domain/user"
	"github.com/cypherab01/task-manager-api/modules/auth"
)

// mockAuthPort implements auth.AuthPort for testing
type mockAuthPort struct {
	registerFunc      func(ctx context.Context, email, password string) (*domain.User, error)
	loginFunc         func(ctx context.Context, email, password string) (*domain.TokenPair, error)
	refreshFunc       func(ctx context.Context, refreshToken string) (*domain.TokenPair, error)
	validateTokenFunc func(ctx context.Context, token string) (*domain.Claims, error)
	getUserFunc       func(ctx context.Context, userID string) (*domain.User, error)
	deleteAccountFunc func(ctx context.Context, email, password string) error
}

var errNotImplemented = errors.New("not implemented")

func (m *mockAuthPort) Register(ctx context.Context, email, password string) (*domain.User, error) {
	if m.registerFunc != nil {
		return m.registerFunc(ctx, email, password)
	}
	return nil, errNotImplemented
}

func (m *mockAuthPort) Login(ctx context.Context, email, password string) (*domain.TokenPair, error) {
	if m.loginFunc != nil {
		return m.loginFunc(ctx, email, password)
	}
	return nil, errNotImplemented
}

func (m *mockAuthPort) Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	if m.refreshFunc != nil {
		return m.refreshFunc(ctx, refreshToken)
	}
	return nil, errNotImplemented
}

func (m *mockAuthPort) ValidateToken(ctx context.Context, token string) (*domain.Claims, error) {
	if m.validateTokenFunc != nil {
		return m.validateTokenFunc(ctx, token)
	}
	return nil, errNotImplemented
}

func (m *mockAuthPort) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	if m.getUserFunc != nil {
		return m.getUserFunc(ctx, userID)
	}
	return nil, errNotImplemented
}

func (m *mockAuthPort) DeleteAccount(ctx context.Context, email, password string) error {
	if m.deleteAccountFunc != nil {
		return m.deleteAccountFunc(ctx, email, password)
	}
	return errNotImplemented
}

// validTokenAuth accepts "valid-token" for user-123 and rejects everything else.
func validTokenAuth() *mockAuthPort {
	return &mockAuthPort{
		validateTokenFunc: func(_ context.Context, token string) (*domain.Claims, error) {
			if token != "valid-token" {
				return nil, auth.ErrInvalidToken
			}
			return &domain.Claims{UserID: "user-123", Email: "test@example.com"}, nil
		},
	}
}

// mockTaskPort implements task.TaskPort for testing
type mockTaskPort struct {
	listFunc   func(ctx context.Context, userID string) ([]taskdomain.Task, error)
	createFunc func(ctx context.Context, userID, title string, description *string) (*taskdomain.Task, error)
	updateFunc func(ctx context.Context, userID, taskID, status string) (*taskdomain.Task, error)
	deleteFunc func(ctx context.Context, userID, taskID string) error
}

func (m *mockTaskPort) ListTasks(ctx context.Context, userID string) ([]taskdomain.Task, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, userID)
	}
	return nil, errNotImplemented
}

func (m *mockTaskPort) CreateTask(ctx context.Context, userID, title string, description *string) (*taskdomain.Task, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, userID, title, description)
	}
	return nil, errNotImplemented
}

func (m *mockTaskPort) UpdateTaskStatus(ctx context.Context, userID, taskID, status string) (*taskdomain.Task, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, userID, taskID, status)
	}
	return nil, errNotImplemented
}

func (m *mockTaskPort) DeleteTask(ctx context.Context, userID, taskID string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, userID, taskID)
	}
	return errNotImplemented
}
