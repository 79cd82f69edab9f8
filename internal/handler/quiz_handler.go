package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/quiz-grading-api/internal/dto"
	"github.com/noah-isme/quiz-grading-api/internal/middleware"
	"github.com/noah-isme/quiz-grading-api/internal/models"
	"github.com/noah-isme/quiz-grading-api/internal/service"
	"github.com/noah-isme/quiz-grading-api/internal/utils"
)

// QuizHandler serves quiz listing, detail and admin management.
type QuizHandler struct {
	service service.QuizService
	logger  zerolog.Logger
}

// NewQuizHandler constructs the handler.
func NewQuizHandler(service service.QuizService, logger zerolog.Logger) *QuizHandler {
	return &QuizHandler{
		service: service,
		logger:  logger.With().Str("component", "quiz_handler").Logger(),
	}
}

// Register attaches quiz routes.
func (h *QuizHandler) Register(router fiber.Router) {
	admin := middleware.AuthOptions{Role: middleware.AuthRoleAdmin}
	router.Get("/", middleware.WithAuth(h.list, admin))
	router.Post("/", middleware.WithAuth(h.create, admin))
	router.Get("/:id", middleware.WithAuth(h.get, middleware.AuthOptions{Role: middleware.AuthRoleUser}))
	router.Patch("/:id/status", middleware.WithAuth(h.setStatus, admin))
}

func (h *QuizHandler) list(c *fiber.Ctx) error {
	quizzes, err := h.service.List(requestContext(c))
	if err != nil {
		return handleError(c, h.logger, err, "failed to list quizzes")
	}
	return utils.SendSuccess(c, "quizzes retrieved", quizzes)
}

func (h *QuizHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid quiz id")
	}

	reveal := userRoleFromContext(c) == models.UserRoleAdmin
	quiz, err := h.service.Get(requestContext(c), id, reveal)
	if err != nil {
		return handleError(c, h.logger, err, "failed to load quiz")
	}
	return utils.SendSuccess(c, "quiz retrieved", quiz)
}

func (h *QuizHandler) create(c *fiber.Ctx) error {
	var payload dto.QuizCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	quiz, err := h.service.Create(requestContext(c), activityActorFromContext(c), payload)
	if err != nil {
		return handleError(c, h.logger, err, "failed to create quiz")
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "quiz created", quiz)
}

func (h *QuizHandler) setStatus(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid quiz id")
	}

	var payload dto.QuizStatusRequest
	if err := c.BodyParser(&payload); err != nil || payload.IsActive == nil {
		return utils.SendError(c, fiber.StatusBadRequest, "is_active is required")
	}

	quiz, err := h.service.SetActive(requestContext(c), activityActorFromContext(c), id, *payload.IsActive)
	if err != nil {
		return handleError(c, h.logger, err, "failed to update quiz status")
	}
	return utils.SendSuccess(c, "quiz status updated", quiz)
}
