package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/quiz-grading-api/internal/dto"
	"github.com/noah-isme/quiz-grading-api/internal/middleware"
	"github.com/noah-isme/quiz-grading-api/internal/service"
	"github.com/noah-isme/quiz-grading-api/internal/utils"
)

// AuthHandler exposes registration, login and role promotion.
type AuthHandler struct {
	service service.AuthService
	logger  zerolog.Logger
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(service service.AuthService, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		logger:  logger.With().Str("component", "auth_handler").Logger(),
	}
}

// Register attaches auth endpoints. Promotion requires the jwt middleware.
func (h *AuthHandler) Register(router fiber.Router, jwt fiber.Handler) {
	router.Post("/register", h.register)
	router.Post("/login", h.login)
	router.Post("/promote-to-admin", jwt, middleware.WithAuth(h.promote, middleware.AuthOptions{Role: middleware.AuthRoleUser}))
}

func (h *AuthHandler) register(c *fiber.Ctx) error {
	var payload dto.RegisterRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "username and password are required")
	}

	user, err := h.service.Register(requestContext(c), payload)
	if err != nil {
		return handleError(c, h.logger, err, "failed to register user")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "user created successfully", user)
}

func (h *AuthHandler) login(c *fiber.Ctx) error {
	var payload dto.LoginRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "username and password are required")
	}

	tokens, err := h.service.Login(requestContext(c), payload)
	if err != nil {
		return handleError(c, h.logger, err, "failed to log in")
	}

	return utils.SendSuccess(c, "login successful", tokens)
}

func (h *AuthHandler) promote(c *fiber.Ctx) error {
	user, err := h.service.PromoteToAdmin(requestContext(c), userIDFromContext(c))
	if err != nil {
		return handleError(c, h.logger, err, "failed to promote user")
	}

	return utils.SendSuccess(c, user.Username+" has been promoted to admin", user)
}
