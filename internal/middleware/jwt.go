package middleware

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/noah-isme/quiz-grading-api/internal/utils"
)

// AccessClaims is the claim set carried by access tokens.
type AccessClaims struct {
	Role     string `json:"role"`
	Username string `json:"username"`
	Type     string `json:"type"`
	jwt.RegisteredClaims
}

// JWTProtected returns a middleware that validates HS256 access tokens and
// stores the caller's id, role and username in the request locals.
func JWTProtected(secret string) fiber.Handler {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	keyFunc := func(*jwt.Token) (interface{}, error) { return []byte(secret), nil }

	return func(c *fiber.Ctx) error {
		raw, ok := bearerToken(c.Get(fiber.HeaderAuthorization))
		if !ok {
			return utils.SendError(c, fiber.StatusUnauthorized, "authorization header missing")
		}

		var claims AccessClaims
		if _, err := parser.ParseWithClaims(raw, &claims, keyFunc); err != nil {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid token")
		}
		if claims.Type != "" && claims.Type != "access" {
			return utils.SendError(c, fiber.StatusUnauthorized, "access token required")
		}

		userID, err := strconv.ParseUint(claims.Subject, 10, 64)
		if err != nil || userID == 0 {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid token subject")
		}

		role := normalizeRoleValue(claims.Role)
		if role == "" {
			role = AuthRoleUser
		}

		c.Locals("user_id", uint(userID))
		c.Locals("user_role", role)
		if claims.Username != "" {
			c.Locals("username", claims.Username)
		}

		return c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	const prefix = "bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}
