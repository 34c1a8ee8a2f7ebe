package middleware

import (
	"log/slog"
	"strings"

	"pasar/internal/models"
	"pasar/internal/services"

	"github.com/gofiber/fiber/v2"
)

const (
	localUserID   = "user_id"
	localUserType = "user_type"
)

// TokenValidator turns a bearer token into the caller identity.
type TokenValidator interface {
	ValidateToken(token string) (*services.Identity, error)
}

// AuthRequired is a Fiber middleware to check for a valid JWT token.
func AuthRequired(validator TokenValidator, logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authorization header is required",
			})
		}

		// Expected format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && strings.EqualFold(parts[0], "Bearer")) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authorization header format must be 'Bearer <token>'",
			})
		}

		identity, err := validator.ValidateToken(strings.TrimSpace(parts[1]))
		if err != nil {
			logger.Debug("JWT validation failed", "error", err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid or expired token",
			})
		}

		c.Locals(localUserID, identity.UserID)
		c.Locals(localUserType, identity.UserType)
		return c.Next()
	}
}

// UserID returns the authenticated caller's id, or 0 outside AuthRequired.
func UserID(c *fiber.Ctx) uint {
	id, _ := c.Locals(localUserID).(uint)
	return id
}

// UserType returns the authenticated caller's user type.
func UserType(c *fiber.Ctx) models.UserType {
	t, _ := c.Locals(localUserType).(models.UserType)
	return t
}
