package api

import (
	"time"

	domain "github.com/cypherab01/task-manager-api/domain/task"
)

// RegisterRequest represents a user registration request.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest represents a user login request.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshRequest represents a token refresh request.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// TokenResponse represents an authentication token response.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	TokenType    string `json:"token_type"`
}

// UserResponse represents a user response.
type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateTaskBody is the body of POST /tasks.
type CreateTaskBody struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
}

// UpdateStatusBody is the body of PATCH /tasks/:id.
type UpdateStatusBody struct {
	Status string `json:"status"`
}

// CreateTaskResponse wraps the persisted task.
type CreateTaskResponse struct {
	Message string       `json:"message"`
	Task    *domain.Task `json:"task"`
}

// DeleteAccountForm is submitted by the account deletion page.
type DeleteAccountForm struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// MessageResponse carries a success message.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error         string   `json:"error"`
	Message       string   `json:"message,omitempty"`
	ValidStatuses []string `json:"validStatuses,omitempty"`
}
