package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/quiz-grading-api/internal/middleware"
)

const testSecret = "middleware-secret"

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func newJWTApp() *fiber.App {
	app := fiber.New()
	app.Use(middleware.JWTProtected(testSecret))
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"user_id": c.Locals("user_id"),
			"role":    c.Locals("user_role"),
		})
	})
	return app
}

func callWithToken(t *testing.T, app *fiber.App, token string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestJWTProtectedAcceptsAccessToken(t *testing.T) {
	token := signToken(t, jwt.MapClaims{
		"sub":  "7",
		"role": "Admin",
		"type": "access",
		"exp":  time.Now().Add(time.Minute).Unix(),
	})

	resp := callWithToken(t, newJWTApp(), token)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestJWTProtectedRejectsRefreshAndExpiredTokens(t *testing.T) {
	app := newJWTApp()

	refresh := signToken(t, jwt.MapClaims{"sub": "7", "type": "refresh", "exp": time.Now().Add(time.Minute).Unix()})
	require.Equal(t, fiber.StatusUnauthorized, callWithToken(t, app, refresh).StatusCode)

	expired := signToken(t, jwt.MapClaims{"sub": "7", "type": "access", "exp": time.Now().Add(-time.Minute).Unix()})
	require.Equal(t, fiber.StatusUnauthorized, callWithToken(t, app, expired).StatusCode)

	noSubject := signToken(t, jwt.MapClaims{"type": "access", "exp": time.Now().Add(time.Minute).Unix()})
	require.Equal(t, fiber.StatusUnauthorized, callWithToken(t, app, noSubject).StatusCode)

	require.Equal(t, fiber.StatusUnauthorized, callWithToken(t, app, "").StatusCode)
	require.Equal(t, fiber.StatusUnauthorized, callWithToken(t, app, "garbage").StatusCode)
}
