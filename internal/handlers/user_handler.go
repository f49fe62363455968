package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/liverool/volleymate/internal/httpx"
	"github.com/liverool/volleymate/internal/service"
)

type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func (h *UserHandler) GetCurrentUser(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	}

	user, err := h.userService.GetUserByID(userID)
	if err != nil {
		return httpx.NotFound(c, "user_not_found", "User not found")
	}

	return c.JSON(user.ToResponse())
}

// UpdateProfile covers onboarding and later profile edits.
func (h *UserHandler) UpdateProfile(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	}

	var input service.UpdateProfileInput
	if err := c.BodyParser(&input); err != nil {
		return httpx.BadRequest(c, "invalid_request_body", "Invalid request body")
	}

	user, err := h.userService.UpdateProfile(userID, input)
	if err != nil {
		if errors.Is(err, service.ErrInvalidLevel) {
			return httpx.BadRequest(c, "invalid_level", err.Error())
		}
		return httpx.BadRequest(c, "update_failed", err.Error())
	}

	return c.JSON(user.ToResponse())
}
