package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/quiz-grading-api/internal/dto"
	"github.com/noah-isme/quiz-grading-api/internal/middleware"
	"github.com/noah-isme/quiz-grading-api/internal/service"
	"github.com/noah-isme/quiz-grading-api/internal/utils"
)

// QuestionHandler lets admins add questions to quizzes.
type QuestionHandler struct {
	service service.QuestionService
	logger  zerolog.Logger
}

// NewQuestionHandler constructs the handler.
func NewQuestionHandler(service service.QuestionService, logger zerolog.Logger) *QuestionHandler {
	return &QuestionHandler{
		service: service,
		logger:  logger.With().Str("component", "question_handler").Logger(),
	}
}

// Register attaches question routes.
func (h *QuestionHandler) Register(router fiber.Router) {
	router.Post("/", middleware.WithAuth(h.create, middleware.AuthOptions{Role: middleware.AuthRoleAdmin}))
}

func (h *QuestionHandler) create(c *fiber.Ctx) error {
	var payload dto.QuestionCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	question, err := h.service.Create(requestContext(c), activityActorFromContext(c), payload)
	if err != nil {
		return handleError(c, h.logger, err, "failed to create question")
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "question created", question)
}
