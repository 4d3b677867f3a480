package users

import (
	"errors"

	usersvc "certledger-backend/internal/application/users"
	"certledger-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Handlers holds dependencies for operator account endpoints.
type Handlers struct {
	Service *usersvc.Service
}

// Create POST /api/v1/users/create-user — admin only. Onboards an operator
// account; registry roles are granted separately via the roles endpoints.
func (h *Handlers) Create(c *fiber.Ctx) error {
	var req usersvc.CreateInput
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Missing required fields", fiber.StatusBadRequest, nil)
	}

	user, err := h.Service.Create(c.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, usersvc.ErrInvalidFullname),
			errors.Is(err, usersvc.ErrInvalidEmail),
			errors.Is(err, usersvc.ErrWeakPassword),
			errors.Is(err, usersvc.ErrInvalidAddress):
			return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
		case errors.Is(err, usersvc.ErrEmailExists), errors.Is(err, usersvc.ErrAddressExists):
			return response.Error(c, err.Error(), fiber.StatusConflict, nil)
		default:
			return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
		}
	}
	return response.SuccessCreated(c, "User created", fiber.Map{"user": user}, nil)
}

// View GET /api/v1/users/view-user/:id — auth required.
func (h *Handlers) View(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid user id", fiber.StatusBadRequest, nil)
	}

	user, err := h.Service.View(c.Context(), id)
	if err != nil {
		if errors.Is(err, usersvc.ErrUserNotFound) {
			return response.NotFound(c, "User not found")
		}
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "User found", fiber.Map{"user": user}, nil)
}
