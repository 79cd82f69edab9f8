package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/quiz-grading-api/internal/dto"
	"github.com/noah-isme/quiz-grading-api/internal/middleware"
	"github.com/noah-isme/quiz-grading-api/internal/service"
	"github.com/noah-isme/quiz-grading-api/internal/utils"
)

const (
	defaultActivityPageSize = 25
	maxActivityPageSize     = 200
)

// AdminActivityHandler exposes the catalog audit trail.
type AdminActivityHandler struct {
	service service.ActivityService
	logger  zerolog.Logger
}

// NewAdminActivityHandler constructs the handler.
func NewAdminActivityHandler(service service.ActivityService, logger zerolog.Logger) *AdminActivityHandler {
	return &AdminActivityHandler{
		service: service,
		logger:  logger.With().Str("component", "admin_activity_handler").Logger(),
	}
}

// Register attaches activity log routes to the router group.
func (h *AdminActivityHandler) Register(router fiber.Router) {
	router.Get("/activities", middleware.WithAuth(h.list, middleware.AuthOptions{Role: middleware.AuthRoleAdmin}))
}

func (h *AdminActivityHandler) list(c *fiber.Ctx) error {
	page, err := parseQueryInt(c, "page")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page")
	}
	if page <= 0 {
		page = 1
	}

	pageSize, err := parseQueryInt(c, "page_size")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page size")
	}
	if pageSize <= 0 {
		pageSize = defaultActivityPageSize
	} else if pageSize > maxActivityPageSize {
		pageSize = maxActivityPageSize
	}

	actorID, err := parseQueryInt(c, "actor_id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid actor id")
	}

	entityID, err := parseQueryInt(c, "entity_id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid entity id")
	}

	req := dto.ActivityListRequest{
		Page:       page,
		PageSize:   pageSize,
		Action:     c.Query("action"),
		EntityType: c.Query("entity_type"),
	}
	if actorID > 0 {
		req.ActorID = uint(actorID)
	}
	if entityID > 0 {
		req.EntityID = uint(entityID)
	}

	response, err := h.service.List(requestContext(c), req)
	if err != nil {
		return handleError(c, h.logger, err, "failed to list activity logs")
	}

	return utils.OK(c, response.Items, "activity logs", response.Pagination)
}
