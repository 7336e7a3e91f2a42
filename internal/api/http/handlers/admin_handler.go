package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/awaaz-labs/civic-portal/internal/api/dto"
	"github.com/awaaz-labs/civic-portal/internal/service"
)

// AdminHandler exposes admin dashboard endpoints.
type AdminHandler struct {
	auth *service.AuthService
}

// NewAdminHandler constructs handler.
func NewAdminHandler(authService *service.AuthService) *AdminHandler {
	return &AdminHandler{auth: authService}
}

// Users handles GET /api/admin/users. Password hashes never appear in the
// response.
func (h *AdminHandler) Users(c *fiber.Ctx) error {
	users, err := h.auth.ListUsers(c.Context())
	if err != nil {
		return err
	}
	items := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		items = append(items, dto.NewUserResponse(&users[i]))
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"users": items}})
}
