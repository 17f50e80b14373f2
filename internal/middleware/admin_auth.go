package middleware

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/agri-connect/agri_connect/internal/auth"
)

// AdminAuth returns a middleware that validates admin session tokens issued
// by auth.Service and stores the admin id in locals.
func AdminAuth(sessions *auth.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authz := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(authz, "Bearer ") {
			return fiber.NewError(http.StatusUnauthorized, "missing bearer token")
		}
		raw := strings.TrimSpace(authz[len("Bearer "):])

		adminID, err := sessions.VerifyAdminSession(raw)
		if err != nil {
			return fiber.NewError(http.StatusUnauthorized, "invalid admin token")
		}

		c.Locals("admin_id", adminID)
		return c.Next()
	}
}
