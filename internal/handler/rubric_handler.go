package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/scribalabs/scriba-api/internal/dto"
	"github.com/scribalabs/scriba-api/internal/service"
	"github.com/scribalabs/scriba-api/internal/utils"
)

// RubricHandler manages rubric catalogue endpoints.
type RubricHandler struct {
	service service.RubricService
	logger  zerolog.Logger
}

// NewRubricHandler builds a rubric handler instance.
func NewRubricHandler(service service.RubricService, logger zerolog.Logger) *RubricHandler {
	return &RubricHandler{
		service: service,
		logger:  logger.With().Str("component", "rubric_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *RubricHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Post("", h.create)
	router.Get("/:id", h.get)
	router.Put("/:id", h.update)
	router.Delete("/:id", h.delete)
}

func (h *RubricHandler) list(c *fiber.Ctx) error {
	rubrics, err := h.service.List(c.Context())
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "rubrics retrieved", rubrics)
}

func (h *RubricHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	rubric, err := h.service.Get(c.Context(), id)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "rubric retrieved", rubric)
}

func (h *RubricHandler) create(c *fiber.Ctx) error {
	var payload dto.RubricCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	rubric, err := h.service.Create(c.Context(), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "rubric created", rubric)
}

func (h *RubricHandler) update(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.RubricUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	rubric, err := h.service.Update(c.Context(), id, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "rubric updated", rubric)
}

func (h *RubricHandler) delete(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.Delete(c.Context(), id); err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "rubric deleted", nil)
}

func (h *RubricHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case isValidationError(err):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrInvalidWordRange):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrRubricNotFound):
		return utils.SendError(c, fiber.StatusNotFound, err.Error())
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg("rubric request failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
