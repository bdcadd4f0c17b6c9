package api

import (
	"errors"
	"strings"

	domain "github.com/cypherab01/task-manager-api/domain/user"
	"github.com/cypherab01/task-manager-api/modules/auth"
	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
)

const (
	// UserContextKey is the key used to store user claims in the Fiber context.
	UserContextKey = "user"
)

// AuthMiddleware creates a middleware that validates bearer tokens.
// Rejected tokens are answered with 401. Failures to reach the auth
// service are logged and answered with the generic 500.
func AuthMiddleware(authPort auth.AuthPort) fiber.Handler {
	logger := log.WithField("module", "api")

	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return unauthorized(c, "Authorization header is required")
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			return unauthorized(c, "Invalid authorization header format. Use: Bearer <token>")
		}

		token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if token == "" {
			return unauthorized(c, "Token is required")
		}

		claims, err := authPort.ValidateToken(c.UserContext(), token)
		if err != nil {
			if errors.Is(err, auth.ErrInvalidToken) || errors.Is(err, auth.ErrExpiredToken) {
				return unauthorized(c, "Invalid or expired token")
			}
			logger.WithError(err).WithFields(log.Fields{
				"method": c.Method(),
				"path":   c.Path(),
			}).Error("Token validation failed")
			return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: msgInternal})
		}
		if claims == nil || claims.UserID == "" {
			return unauthorized(c, "Invalid or expired token")
		}

		c.Locals(UserContextKey, claims)

		return c.Next()
	}
}

// currentUser returns the claims stored by AuthMiddleware.
func currentUser(c *fiber.Ctx) (*domain.Claims, bool) {
	claims, ok := c.Locals(UserContextKey).(*domain.Claims)
	return claims, ok && claims != nil
}

func unauthorized(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
		Error:   "Unauthorized",
		Message: message,
	})
}
