package tokens

import (
	"errors"
	"strconv"

	"certledger-backend/internal/middleware"
	"certledger-backend/internal/pkg/response"
	"certledger-backend/internal/registry"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// Handlers holds dependencies for token ledger endpoints.
type Handlers struct {
	Service *registry.Service
}

// TransferRequest body for POST /transfer. The endpoint exists for surface
// compatibility; the ledger rejects every transfer.
type TransferRequest struct {
	From    string `json:"from" validate:"required"`
	To      string `json:"to" validate:"required"`
	TokenID uint64 `json:"token_id" validate:"required"`
}

// OwnerOf GET /api/v1/tokens/owner-of/:token_id — public read.
func (h *Handlers) OwnerOf(c *fiber.Ctx) error {
	tokenID, err := strconv.ParseUint(c.Params("token_id"), 10, 64)
	if err != nil {
		return response.Error(c, "Invalid token_id", fiber.StatusBadRequest, nil)
	}

	owner, err := h.Service.OwnerOf(c.Context(), tokenID)
	if err != nil {
		if errors.Is(err, registry.ErrNotFound) {
			return response.NotFound(c, "Token not found")
		}
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Owner found", fiber.Map{
		"token_id":      tokenID,
		"owner_address": owner,
	}, nil)
}

// Transfer POST /api/v1/tokens/transfer — always rejected: tokens are soulbound.
func (h *Handlers) Transfer(c *fiber.Ctx) error {
	var req TransferRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "from, to and token_id are required", fiber.StatusBadRequest, nil)
	}
	if err := validate.Struct(req); err != nil {
		return response.Error(c, "from, to and token_id are required", fiber.StatusBadRequest, nil)
	}

	caller := middleware.CallerAddress(c)
	if caller == "" {
		return response.Unauthorized(c, "Unauthorized")
	}

	err := h.Service.TransferFrom(c.Context(), caller, req.From, req.To, req.TokenID)
	if errors.Is(err, registry.ErrSoulbound) {
		return response.Forbidden(c, "Certificates are Soulbound and cannot be transferred")
	}
	if err != nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Transfer complete", nil, nil)
}
