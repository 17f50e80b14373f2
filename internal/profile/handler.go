package profile

import (
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
)

// Handler exposes admin-facing profile endpoints.
type Handler struct {
	svc *Service
}

// NewHandler creates a profile handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

type profileResponse struct {
	UserID    string    `json:"userId"`
	Phone     string    `json:"phone"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toResponse(p UserProfile) profileResponse {
	return profileResponse{
		UserID:    p.UserID,
		Phone:     p.Phone,
		Role:      p.Role,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

// GetUser returns the profile for a user id.
func (h *Handler) GetUser(c *fiber.Ctx) error {
	p, err := h.svc.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return fiber.NewError(http.StatusNotFound, "user not found")
		}
		return fiber.NewError(http.StatusInternalServerError, "lookup failed")
	}
	return c.Status(http.StatusOK).JSON(toResponse(p))
}

type updateRoleRequest struct {
	Role string `json:"role"`
}

// UpdateRole assigns a new role to a user.
func (h *Handler) UpdateRole(c *fiber.Ctx) error {
	var req updateRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if !ValidRole(req.Role) {
		return fiber.NewError(http.StatusBadRequest, "unknown role")
	}

	// c.Params returns a string aliasing fiber's reusable request buffer;
	// copy it because the repository retains the id as a map key.
	p, err := h.svc.ChangeRole(c.UserContext(), utils.CopyString(c.Params("id")), req.Role)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return fiber.NewError(http.StatusNotFound, "user not found")
		}
		return fiber.NewError(http.StatusInternalServerError, "role update failed")
	}
	return c.Status(http.StatusOK).JSON(toResponse(p))
}
