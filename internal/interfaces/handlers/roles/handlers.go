package roles

import (
	"context"
	"errors"

	"certledger-backend/internal/middleware"
	"certledger-backend/internal/pkg/constants"
	"certledger-backend/internal/pkg/response"
	"certledger-backend/internal/pkg/validation"
	"certledger-backend/internal/registry"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// Handlers holds dependencies for role endpoints.
type Handlers struct {
	Service *registry.Service
}

// RoleRequest body for grant/revoke.
type RoleRequest struct {
	Role    string `json:"role" validate:"required"`
	Address string `json:"address" validate:"required"`
}

// Grant POST /api/v1/roles/grant — admin only.
func (h *Handlers) Grant(c *fiber.Ctx) error {
	return h.change(c, "Role granted", h.Service.GrantRole)
}

// Revoke PATCH /api/v1/roles/revoke — admin only. Revoking a role the
// address does not hold is a no-op.
func (h *Handlers) Revoke(c *fiber.Ctx) error {
	return h.change(c, "Role revoked", h.Service.RevokeRole)
}

// Check GET /api/v1/roles/check?role=&address= — public read.
func (h *Handlers) Check(c *fiber.Ctx) error {
	role := c.Query("role")
	address := c.Query("address")
	if role == "" || address == "" {
		return response.Error(c, "role and address are required", fiber.StatusBadRequest, nil)
	}

	has, err := h.Service.HasRole(c.Context(), role, address)
	if err != nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Role checked", fiber.Map{
		"role":     role,
		"address":  address,
		"has_role": has,
	}, nil)
}

func (h *Handlers) change(c *fiber.Ctx, okMsg string, op func(ctx context.Context, caller, role, address string) error) error {
	var req RoleRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "role and address are required", fiber.StatusBadRequest, nil)
	}
	if err := validate.Struct(req); err != nil {
		return response.Error(c, "role and address are required", fiber.StatusBadRequest, nil)
	}
	if !constants.IsValidRole(req.Role) {
		return response.Error(c, "Invalid role", fiber.StatusBadRequest, nil)
	}
	if !validation.IsValidAddress(req.Address) {
		return response.Error(c, "Invalid address", fiber.StatusBadRequest, nil)
	}

	caller := middleware.CallerAddress(c)
	if caller == "" {
		return response.Unauthorized(c, "Unauthorized")
	}

	if err := op(c.Context(), caller, req.Role, req.Address); err != nil {
		switch {
		case errors.Is(err, registry.ErrAuthorization):
			return response.Forbidden(c, err.Error())
		case errors.Is(err, registry.ErrUnknownRole):
			return response.Error(c, "Invalid role", fiber.StatusBadRequest, nil)
		default:
			return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
		}
	}
	return response.Success(c, okMsg, fiber.Map{
		"role":    req.Role,
		"address": req.Address,
	}, nil)
}
