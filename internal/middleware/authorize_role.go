package middleware

import (
	"context"

	"certledger-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// RoleChecker is the registry's dynamic role lookup. Role membership can
// change at runtime, so every guarded request consults it fresh.
type RoleChecker interface {
	HasRole(ctx context.Context, role, address string) (bool, error)
}

const callerAddressLocal = "caller_address"

// RequireRole returns a handler that passes when the session caller's address
// holds at least one of the given roles.
func RequireRole(checker RoleChecker, roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		address := CallerAddress(c)
		if address == "" {
			return response.Unauthorized(c, "Unauthorized")
		}
		for _, role := range roles {
			ok, err := checker.HasRole(c.Context(), role, address)
			if err != nil {
				return response.Error(c, "Authorization error", fiber.StatusInternalServerError, nil)
			}
			if ok {
				c.Locals(callerAddressLocal, address)
				return c.Next()
			}
		}
		return response.Forbidden(c, "Caller lacks the required role")
	}
}
