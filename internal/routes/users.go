package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/agri-connect/agri_connect/internal/profile"
)

// RegisterUserRoutes wires the admin-only user management endpoints.
func RegisterUserRoutes(r fiber.Router, h *profile.Handler, adminOnly fiber.Handler, idem fiber.Handler) {
	group := r.Group("/users", adminOnly)
	group.Get("/:id", h.GetUser)
	if idem != nil {
		group.Patch("/:id/role", idem, h.UpdateRole)
	} else {
		group.Patch("/:id/role", h.UpdateRole)
	}
}
