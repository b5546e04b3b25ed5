// middleware/auth.go
package middleware

import (
	"log"
	"os"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// AdminAuthMiddleware guards the admin surface with the shared admin
// secret: a plain equality check on the Bearer token, nothing more.
func AdminAuthMiddleware() fiber.Handler {
	expectedToken := os.Getenv("ADMIN_TOKEN")
	if expectedToken == "" {
		log.Fatal("ADMIN_TOKEN is not set, admin surface cannot authenticate")
	}

	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "admin token missing",
			})
		}

		// Parse "Bearer <token>"
		token := strings.TrimPrefix(authHeader, "Bearer ")
		if token == authHeader {
			// no "Bearer " prefix, try raw value
			token = authHeader
		}

		if token != expectedToken {
			log.Printf("[ADMIN_AUTH] Invalid token for %s", c.Path())
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid admin token",
			})
		}

		return c.Next()
	}
}
