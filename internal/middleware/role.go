package middleware

import (
	"log/slog"

	"github.com/gofiber/fiber/v3"

	"github.com/knowledgeintel/ragserver/internal/domain"
)

// RoleHeader carries the caller's declared role. It is a capability label,
// not an authenticated principal; authentication lives outside this service.
const RoleHeader = "X-User-Role"

const roleLocalKey = "callerRole"

// RoleMiddleware resolves the caller's role from the request header and
// stores the coerced value in the request context. Unknown values fall back
// to Employee (least privilege) with a logged coercion event.
func RoleMiddleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		raw := c.Get(RoleHeader)
		role, coerced := domain.ParseRole(raw)
		if coerced && raw != "" {
			slog.Warn("unknown role header, defaulting to Employee", "role", raw, "path", c.Path())
		}
		c.Locals(roleLocalKey, role)
		return c.Next()
	}
}

// GetRole returns the coerced caller role for the current request.
func GetRole(c fiber.Ctx) domain.Role {
	if role, ok := c.Locals(roleLocalKey).(domain.Role); ok {
		return role
	}
	return domain.RoleEmployee
}
