package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/scribalabs/scriba-api/internal/dto"
	"github.com/scribalabs/scriba-api/internal/service"
	"github.com/scribalabs/scriba-api/internal/utils"
)

// ScoringHandler manages transcript scoring endpoints.
type ScoringHandler struct {
	service service.ScoringService
	logger  zerolog.Logger
}

// NewScoringHandler builds a scoring handler instance.
func NewScoringHandler(service service.ScoringService, logger zerolog.Logger) *ScoringHandler {
	return &ScoringHandler{
		service: service,
		logger:  logger.With().Str("component", "scoring_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *ScoringHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Post("", h.score)
	router.Post("/upload", h.scoreUpload)
	router.Get("/:id", h.get)
}

func (h *ScoringHandler) score(c *fiber.Ctx) error {
	var payload dto.ScoreRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	result, err := h.service.Score(c.Context(), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "transcript scored", result)
}

func (h *ScoringHandler) scoreUpload(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "file is required")
	}

	result, err := h.service.ScoreUpload(c.Context(), file)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "transcript scored", result)
}

func (h *ScoringHandler) list(c *fiber.Ctx) error {
	page, err := parseQueryInt(c, "page")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}
	pageSize, err := parseQueryInt(c, "page_size")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	summaries, total, err := h.service.List(c.Context(), page, pageSize)
	if err != nil {
		return h.handleError(c, err)
	}

	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = len(summaries)
		if pageSize == 0 {
			pageSize = 10
		}
	}

	return utils.SendList(c, "scores retrieved", summaries, utils.ListMeta{
		Page:     page,
		PageSize: pageSize,
		Total:    total,
	})
}

func (h *ScoringHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	result, err := h.service.Get(c.Context(), id)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "score retrieved", result)
}

func (h *ScoringHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case isValidationError(err):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrEmptyTranscript):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrFileTooLarge):
		return utils.SendError(c, fiber.StatusRequestEntityTooLarge, err.Error())
	case errors.Is(err, service.ErrUnsupportedFileType):
		return utils.SendError(c, fiber.StatusUnsupportedMediaType, err.Error())
	case errors.Is(err, service.ErrNoActiveRubrics):
		return utils.SendError(c, fiber.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, service.ErrScoreNotFound):
		return utils.SendError(c, fiber.StatusNotFound, err.Error())
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg("scoring request failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
