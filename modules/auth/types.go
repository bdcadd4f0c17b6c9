package auth

import (
	"errors"
	"time"
)

// RegisterRequest represents a user registration request.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterResponse represents a user registration response.
type RegisterResponse struct {
	ID        string    `json:"id,omitempty"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty"`
	Error     string    `json:"error,omitempty"`
}

// LoginRequest represents a user login request.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResponse carries a token pair or a failure code.
type TokenResponse struct {
	AccessToken  string `json:"access_token,omitempty"`
	RefreshToken string `json:"refresh_token,omitempty"`
	ExpiresIn    int64  `json:"expires_in,omitempty"`
	TokenType    string `json:"token_type,omitempty"`
	Error        string `json:"error,omitempty"`
}

// RefreshRequest represents a token refresh request.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// ValidateTokenRequest represents a token validation request.
type ValidateTokenRequest struct {
	Token string `json:"token"`
}

// ValidateTokenResponse represents a token validation response.
type ValidateTokenResponse struct {
	Valid  bool   `json:"valid"`
	UserID string `json:"user_id,omitempty"`
	Email  string `json:"email,omitempty"`
	Error  string `json:"error,omitempty"`
}

// GetUserRequest represents a get user request.
type GetUserRequest struct {
	UserID string `json:"user_id"`
}

// GetUserResponse represents a get user response.
type GetUserResponse struct {
	ID        string    `json:"id,omitempty"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty"`
	Error     string    `json:"error,omitempty"`
}

// DeleteAccountRequest carries the credentials re-entered by the user.
type DeleteAccountRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// DeleteAccountResponse reports the outcome of an account deletion.
type DeleteAccountResponse struct {
	Deleted bool   `json:"deleted"`
	Error   string `json:"error,omitempty"`
}

// Failure codes carried in response Error fields. Request-reply only
// transports strings, so expected failures travel as codes and are turned
// back into sentinel errors by the adapter.
const (
	codeInvalidToken       = "invalid_token"
	codeExpiredToken       = "token_expired"
	codeInvalidCredentials = "invalid_credentials"
	codeInvalidEmail       = "invalid_email"
	codeWeakPassword       = "weak_password"
	codePasswordTooLong    = "password_too_long"
	codeUserExists         = "user_exists"
	codeUserNotFound       = "user_not_found"
	codeInvalidPassword    = "invalid_password"
	codeMissingInput       = "missing_input"
)

var codedErrors = map[string]error{
	codeInvalidToken:       ErrInvalidToken,
	codeExpiredToken:       ErrExpiredToken,
	codeInvalidCredentials: ErrInvalidCredentials,
	codeInvalidEmail:       ErrInvalidEmail,
	codeWeakPassword:       ErrWeakPassword,
	codePasswordTooLong:    ErrPasswordTooLong,
	codeUserExists:         ErrUserExists,
	codeUserNotFound:       ErrUserNotFound,
	codeInvalidPassword:    ErrInvalidPassword,
	codeMissingInput:       ErrMissingInput,
}

// errorCode returns the wire code for an expected failure. ok is false for
// unexpected errors, which must be propagated as errors instead.
func errorCode(err error) (code string, ok bool) {
	for code, sentinel := range codedErrors {
		if errors.Is(err, sentinel) {
			return code, true
		}
	}
	return "", false
}

// errorFromCode maps a wire code back to its sentinel error.
func errorFromCode(code string) error {
	if err, ok := codedErrors[code]; ok {
		return err
	}
	return errors.New(code)
}
