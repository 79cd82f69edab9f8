package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/quiz-grading-api/internal/dto"
	"github.com/noah-isme/quiz-grading-api/internal/middleware"
	"github.com/noah-isme/quiz-grading-api/internal/service"
	"github.com/noah-isme/quiz-grading-api/internal/utils"
)

// CategoryHandler serves admin category management.
type CategoryHandler struct {
	service service.CategoryService
	logger  zerolog.Logger
}

// NewCategoryHandler constructs the handler.
func NewCategoryHandler(service service.CategoryService, logger zerolog.Logger) *CategoryHandler {
	return &CategoryHandler{
		service: service,
		logger:  logger.With().Str("component", "category_handler").Logger(),
	}
}

// Register attaches category routes.
func (h *CategoryHandler) Register(router fiber.Router) {
	admin := middleware.AuthOptions{Role: middleware.AuthRoleAdmin}
	router.Get("/", middleware.WithAuth(h.list, admin))
	router.Post("/", middleware.WithAuth(h.create, admin))
}

func (h *CategoryHandler) list(c *fiber.Ctx) error {
	categories, err := h.service.List(requestContext(c))
	if err != nil {
		return handleError(c, h.logger, err, "failed to list categories")
	}
	return utils.SendSuccess(c, "categories retrieved", categories)
}

func (h *CategoryHandler) create(c *fiber.Ctx) error {
	var payload dto.CategoryCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	category, err := h.service.Create(requestContext(c), activityActorFromContext(c), payload)
	if err != nil {
		return handleError(c, h.logger, err, "failed to create category")
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "category created", category)
}
