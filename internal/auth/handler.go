package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/agri-connect/agri_connect/internal/admin"
	"github.com/agri-connect/agri_connect/internal/profile"
	"github.com/agri-connect/agri_connect/internal/token"
)

const (
	bearerPrefix = "Bearer "

	// Client-visible failure reasons. Verification failures are collapsed
	// into a single message so the caller cannot probe which check failed.
	msgNoToken        = "Unauthorized: No token provided."
	msgInvalidToken   = "Unauthorized: Invalid token."
	msgProvisionFault = "Could not create the user profile."
	msgBadAdminLogin  = "Unauthorized: Invalid email or password."
)

// Handler exposes the authentication endpoints.
type Handler struct {
	verifier token.Verifier
	profiles *profile.Service
	admins   *admin.Service
	sessions *Service
	logger   *slog.Logger
}

// NewHandler wires the auth endpoints to their collaborators.
func NewHandler(verifier token.Verifier, profiles *profile.Service, admins *admin.Service, sessions *Service, logger *slog.Logger) *Handler {
	return &Handler{verifier: verifier, profiles: profiles, admins: admins, sessions: sessions, logger: logger}
}

type verifyOTPResponse struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
}

// VerifyOTP is called by the mobile app right after a phone OTP sign-in. It
// verifies the Firebase ID token from the Authorization header and ensures a
// profile exists for the subject, creating a default one on first login.
func (h *Handler) VerifyOTP(c *fiber.Ctx) error {
	rawToken, ok := bearerToken(c.Get(fiber.HeaderAuthorization))
	if !ok {
		return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": msgNoToken})
	}

	identity, err := h.verifier.Verify(c.UserContext(), rawToken)
	if err != nil {
		h.logger.Warn("token rejected", "error", err)
		return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": msgInvalidToken})
	}

	p, err := h.profiles.Provision(c.UserContext(), identity)
	if err != nil {
		h.logger.Error("profile provisioning failed", "user_id", identity.SubjectID, "error", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": msgProvisionFault})
	}

	return c.Status(http.StatusOK).JSON(verifyOTPResponse{UserID: p.UserID, Role: p.Role})
}

type adminLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type adminLoginResponse struct {
	AdminID   string `json:"adminId"`
	Email     string `json:"email"`
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expiresIn"`
}

// AdminLogin authenticates a back-office operator and issues a session token.
func (h *Handler) AdminLogin(c *fiber.Ctx) error {
	var req adminLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	a, err := h.admins.Authenticate(c.UserContext(), admin.Credentials{Email: req.Email, Password: req.Password})
	if err != nil {
		if errors.Is(err, admin.ErrInvalidCredentials) {
			return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": msgBadAdminLogin})
		}
		h.logger.Error("admin lookup failed", "error", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "admin login failed"})
	}

	session, err := h.sessions.IssueAdminSession(a)
	if err != nil {
		h.logger.Error("session signing failed", "error", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "admin login failed"})
	}

	return c.Status(http.StatusOK).JSON(adminLoginResponse{AdminID: a.ID, Email: a.Email, Token: session.Token, ExpiresIn: session.ExpiresIn})
}

// bearerToken extracts the raw token from an Authorization header value. A
// missing header, a non-Bearer scheme or an empty token all count as absent.
func bearerToken(header string) (string, bool) {
	if !strings.HasPrefix(header, bearerPrefix) {
		return "", false
	}
	raw := strings.TrimSpace(header[len(bearerPrefix):])
	if raw == "" {
		return "", false
	}
	return raw, true
}
