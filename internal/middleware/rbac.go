package middleware

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// RequireRole guards a whole route group. It behaves like WithAuth with the
// given role but runs as a standalone middleware.
func RequireRole(role string) fiber.Handler {
	return WithAuth(func(c *fiber.Ctx) error { return c.Next() }, AuthOptions{Role: role})
}

// roleSatisfies reports whether the caller's role meets the required one.
// Admins satisfy the user role.
func roleSatisfies(current, required string) bool {
	switch required {
	case AuthRoleAny:
		return true
	case AuthRoleUser:
		return current == AuthRoleUser || current == AuthRoleAdmin
	default:
		return current == required
	}
}

func normalizeRoleValue(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return strings.ToLower(strings.TrimSpace(v))
	case fmt.Stringer:
		return strings.ToLower(strings.TrimSpace(v.String()))
	default:
		return strings.ToLower(strings.TrimSpace(fmt.Sprintf("%v", v)))
	}
}
