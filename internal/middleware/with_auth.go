package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/quiz-grading-api/internal/utils"
)

// Auth role constants used by WithAuth helper.
const (
	AuthRoleAny   = "any"
	AuthRoleAdmin = "admin"
	AuthRoleUser  = "user"
)

// AuthOptions configures the WithAuth helper.
type AuthOptions struct {
	Role           string
	AllowAnonymous bool
}

// WithAuth wraps a handler with authentication and role guards. Admins satisfy
// the user role; only admins satisfy the admin role.
func WithAuth(handler fiber.Handler, opts AuthOptions) fiber.Handler {
	role := strings.ToLower(strings.TrimSpace(opts.Role))
	if role == "" {
		role = AuthRoleAny
	}
	allowAnonymous := opts.AllowAnonymous && role == AuthRoleAny

	return func(c *fiber.Ctx) error {
		if c.Locals("user_id") == nil {
			if allowAnonymous {
				return handler(c)
			}
			return utils.Fail(c, fiber.StatusUnauthorized, "authentication required", nil)
		}

		if !roleSatisfies(normalizeRoleValue(c.Locals("user_role")), role) {
			return utils.Fail(c, fiber.StatusForbidden, "insufficient permissions", nil)
		}

		return handler(c)
	}
}
