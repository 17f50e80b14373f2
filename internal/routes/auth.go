package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/agri-connect/agri_connect/internal/auth"
)

// RegisterAuthRoutes wires authentication endpoints.
func RegisterAuthRoutes(r fiber.Router, h *auth.Handler, rateLimiter fiber.Handler) {
	group := r.Group("/auth")
	if rateLimiter != nil {
		group.Post("/verify-otp", rateLimiter, h.VerifyOTP)
		group.Post("/admin-login", rateLimiter, h.AdminLogin)
	} else {
		group.Post("/verify-otp", h.VerifyOTP)
		group.Post("/admin-login", h.AdminLogin)
	}
}
