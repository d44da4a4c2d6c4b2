package middleware

import (
	"strings"

	"taskapi/internal/services"

	"github.com/gofiber/fiber/v2"
)

// UserIDKey is the Locals key under which AuthRequired stores the
// authenticated user's id.
const UserIDKey = "user_id"

// AuthRequired is a Fiber middleware that gates a route group behind a
// valid bearer token. On success the resolved user id is stored in the
// request Locals; on any failure the request is short-circuited with a
// 401 and the wrapped handler never runs.
func AuthRequired(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"status":  "error",
				"message": "Token is missing",
			})
		}

		// Expected format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"status":  "error",
				"message": "Invalid token format",
			})
		}

		userID, err := authService.ValidateToken(parts[1])
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"status":  "error",
				"message": "Invalid or expired token",
			})
		}

		c.Locals(UserIDKey, userID)
		return c.Next()
	}
}

// UserID extracts the authenticated user id stored by AuthRequired.
// It returns 0 when the request did not pass through the middleware.
func UserID(c *fiber.Ctx) uint {
	id, _ := c.Locals(UserIDKey).(uint)
	return id
}
