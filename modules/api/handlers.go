package api

import (
	"errors"
	"html/template"

	domain "github.com/cypherab01/task-manager-api/domain/task"
	"github.com/cypherab01/task-manager-api/modules/auth"
	"github.com/cypherab01/task-manager-api/modules/task"
	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
)

// Response messages shared by the JSON handlers and the account page.
const (
	msgTaskCreated       = "Task created successfully"
	msgTaskDeleted       = "Task deleted successfully"
	msgAccountDeleted    = "Account deleted successfully"
	msgMissingInput      = "Email and password are required"
	msgUserNotFound      = "User not found"
	msgInvalidPassword   = "Invalid password"
	msgInvalidStatus     = "Invalid status"
	msgTitleRequired     = "Title is required"
	msgNotFoundForbidden = "Task not found or forbidden"
	msgInvalidBody       = "Invalid request body"
	msgInternal          = "Internal Server Error"
)

// Handlers contains HTTP handlers for the API.
type Handlers struct {
	authPort auth.AuthPort
	taskPort task.TaskPort
	page     *template.Template
	logger   *log.Entry
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(authPort auth.AuthPort, taskPort task.TaskPort) *Handlers {
	return &Handlers{
		authPort: authPort,
		taskPort: taskPort,
		page:     deleteAccountPage,
		logger:   log.WithField("module", "api"),
	}
}

// internalError logs the cause and answers with the generic 500 body.
func (h *Handlers) internalError(c *fiber.Ctx, err error) error {
	h.logger.WithError(err).WithFields(log.Fields{
		"method": c.Method(),
		"path":   c.Path(),
	}).Error("Internal error")
	return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: msgInternal})
}

// taskError maps task service failures to HTTP responses.
func (h *Handlers) taskError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, task.ErrInvalidStatus):
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:         msgInvalidStatus,
			ValidStatuses: domain.ValidStatusNames(),
		})
	case errors.Is(err, task.ErrTitleRequired):
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: msgTitleRequired})
	case errors.Is(err, task.ErrNotFoundOrForbidden):
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Error: msgNotFoundForbidden})
	default:
		return h.internalError(c, err)
	}
}

// authError maps auth service failures to HTTP status codes and messages.
// ok is false for unexpected errors.
func authError(err error) (status int, message string, ok bool) {
	switch {
	case errors.Is(err, auth.ErrMissingInput):
		return fiber.StatusBadRequest, msgMissingInput, true
	case errors.Is(err, auth.ErrUserNotFound):
		return fiber.StatusNotFound, msgUserNotFound, true
	case errors.Is(err, auth.ErrInvalidPassword):
		return fiber.StatusUnauthorized, msgInvalidPassword, true
	case errors.Is(err, auth.ErrInvalidCredentials):
		return fiber.StatusUnauthorized, "Invalid email or password", true
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrExpiredToken):
		return fiber.StatusUnauthorized, "Invalid or expired refresh token", true
	case errors.Is(err, auth.ErrUserExists):
		return fiber.StatusConflict, "User with this email already exists", true
	case errors.Is(err, auth.ErrInvalidEmail):
		return fiber.StatusBadRequest, "Invalid email format", true
	case errors.Is(err, auth.ErrWeakPassword):
		return fiber.StatusBadRequest, "Password must be at least 8 characters", true
	case errors.Is(err, auth.ErrPasswordTooLong):
		return fiber.StatusBadRequest, "Password must be at most 72 characters", true
	default:
		return fiber.StatusInternalServerError, msgInternal, false
	}
}

// handleAuthError answers auth failures as JSON.
func (h *Handlers) handleAuthError(c *fiber.Ctx, err error) error {
	status, message, ok := authError(err)
	if !ok {
		return h.internalError(c, err)
	}
	return c.Status(status).JSON(ErrorResponse{Error: message})
}
