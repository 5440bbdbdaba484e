package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/P4t4m8n/buff-buddy-api/internal/middleware"
	"github.com/P4t4m8n/buff-buddy-api/internal/models"
	"github.com/P4t4m8n/buff-buddy-api/internal/validation"
)

type programApplicationService interface {
	ListPrograms(ctx context.Context, actor models.Actor, query models.ProgramQuery) ([]models.Program, error)
	GetProgram(ctx context.Context, actor models.Actor, id string) (*models.Program, error)
	CreateProgram(ctx context.Context, actor models.Actor, input models.CreateProgramInput) (*models.Program, error)
	UpdateProgram(ctx context.Context, actor models.Actor, id string, input models.UpdateProgramInput) (*models.Program, error)
	DeleteProgram(ctx context.Context, actor models.Actor, id string) error
}

type ProgramHandler struct {
	service programApplicationService
	logger  *zap.Logger
}

func NewProgramHandler(service programApplicationService, logger *zap.Logger) *ProgramHandler {
	return &ProgramHandler{service: service, logger: logger}
}

func (h *ProgramHandler) ListPrograms(c *fiber.Ctx) error {
	query, err := validation.ProgramQuery(c.Queries())
	if err != nil {
		return respondError(c, h.logger, err)
	}

	programs, err := h.service.ListPrograms(c.UserContext(), middleware.Actor(c), query)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return respond(c, fiber.StatusOK, "", programs)
}

func (h *ProgramHandler) GetProgram(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	program, err := h.service.GetProgram(c.UserContext(), middleware.Actor(c), id)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return respond(c, fiber.StatusOK, "", program)
}

func (h *ProgramHandler) CreateProgram(c *fiber.Ctx) error {
	payload, err := decodeBody(c)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	input, err := validation.ProgramCreate(payload)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	program, err := h.service.CreateProgram(c.UserContext(), middleware.Actor(c), input)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return respond(c, fiber.StatusCreated, "Program created successfully", program)
}

func (h *ProgramHandler) UpdateProgram(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	payload, err := decodeBody(c)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	input, err := validation.ProgramUpdate(payload)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	program, err := h.service.UpdateProgram(c.UserContext(), middleware.Actor(c), id, input)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return respond(c, fiber.StatusOK, "Program updated successfully", program)
}

func (h *ProgramHandler) DeleteProgram(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	if err := h.service.DeleteProgram(c.UserContext(), middleware.Actor(c), id); err != nil {
		return respondError(c, h.logger, err)
	}
	return respond(c, fiber.StatusOK, "Program deleted successfully", nil)
}
