package api

import (
	"github.com/cypherab01/task-manager-api/modules/task"
	"github.com/gofiber/fiber/v2"
)

// ListTasks returns every task of the authenticated user.
func (h *Handlers) ListTasks(c *fiber.Ctx) error {
	claims, ok := currentUser(c)
	if !ok {
		return unauthorized(c, "User not authenticated")
	}

	tasks, err := h.taskPort.ListTasks(c.UserContext(), claims.UserID)
	if err != nil {
		return h.taskError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(tasks)
}

// CreateTask creates a PENDING task and returns the stored record.
func (h *Handlers) CreateTask(c *fiber.Ctx) error {
	claims, ok := currentUser(c)
	if !ok {
		return unauthorized(c, "User not authenticated")
	}

	var body CreateTaskBody
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: msgInvalidBody})
	}

	created, err := h.taskPort.CreateTask(c.UserContext(), claims.UserID, body.Title, body.Description)
	if err != nil {
		return h.taskError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(CreateTaskResponse{
		Message: msgTaskCreated,
		Task:    created,
	})
}

// UpdateTaskStatus changes the status of one of the user's tasks.
func (h *Handlers) UpdateTaskStatus(c *fiber.Ctx) error {
	claims, ok := currentUser(c)
	if !ok {
		return unauthorized(c, "User not authenticated")
	}

	// A body whose status is not a string is answered like an unknown status.
	var body UpdateStatusBody
	if err := c.BodyParser(&body); err != nil {
		return h.taskError(c, task.ErrInvalidStatus)
	}

	updated, err := h.taskPort.UpdateTaskStatus(c.UserContext(), claims.UserID, c.Params("id"), body.Status)
	if err != nil {
		return h.taskError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(updated)
}

// DeleteTask deletes one of the user's tasks.
func (h *Handlers) DeleteTask(c *fiber.Ctx) error {
	claims, ok := currentUser(c)
	if !ok {
		return unauthorized(c, "User not authenticated")
	}

	if err := h.taskPort.DeleteTask(c.UserContext(), claims.UserID, c.Params("id")); err != nil {
		return h.taskError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(MessageResponse{Message: msgTaskDeleted})
}
