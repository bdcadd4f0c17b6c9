package task

import (
	"errors"

	domain "github.com/cypherab01/task-manager-api/domain/task"
)

// ListTasksRequest asks for the tasks of one user.
type ListTasksRequest struct {
	UserID string `json:"user_id"`
}

// ListTasksResponse carries the tasks of one user.
type ListTasksResponse struct {
	Tasks []domain.Task `json:"tasks"`
	Error string        `json:"error,omitempty"`
}

// CreateTaskRequest represents a request to create a task.
type CreateTaskRequest struct {
	UserID      string  `json:"user_id"`
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
}

// UpdateTaskStatusRequest represents a request to change a task's status.
type UpdateTaskStatusRequest struct {
	UserID string `json:"user_id"`
	TaskID string `json:"task_id"`
	Status string `json:"status"`
}

// DeleteTaskRequest represents a request to delete a task.
type DeleteTaskRequest struct {
	UserID string `json:"user_id"`
	TaskID string `json:"task_id"`
}

// TaskResponse carries a single task or a failure code.
type TaskResponse struct {
	Task  *domain.Task `json:"task,omitempty"`
	Error string       `json:"error,omitempty"`
}

// DeleteTaskResponse represents the response from deleting a task.
type DeleteTaskResponse struct {
	Deleted bool   `json:"deleted"`
	Error   string `json:"error,omitempty"`
}

const (
	codeInvalidStatus       = "invalid_status"
	codeTitleRequired       = "title_required"
	codeNotFoundOrForbidden = "not_found_or_forbidden"
)

var codedErrors = map[string]error{
	codeInvalidStatus:       ErrInvalidStatus,
	codeTitleRequired:       ErrTitleRequired,
	codeNotFoundOrForbidden: ErrNotFoundOrForbidden,
}

// errorCode returns the wire code for an expected failure.
func errorCode(err error) (string, bool) {
	for code, sentinel := range codedErrors {
		if errors.Is(err, sentinel) {
			return code, true
		}
	}
	return "", false
}

func errorFromCode(code string) error {
	if err, ok := codedErrors[code]; ok {
		return err
	}
	return errors.New(code)
}
