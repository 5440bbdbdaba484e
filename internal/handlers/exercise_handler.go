package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/P4t4m8n/buff-buddy-api/internal/middleware"
	"github.com/P4t4m8n/buff-buddy-api/internal/models"
	"github.com/P4t4m8n/buff-buddy-api/internal/validation"
)

type exerciseApplicationService interface {
	ListExercises(ctx context.Context, query models.ExerciseQuery) ([]models.Exercise, error)
	GetExercise(ctx context.Context, id string) (*models.Exercise, error)
	CreateExercise(ctx context.Context, actor models.Actor, input models.NewExercise) (*models.Exercise, error)
	UpdateExercise(ctx context.Context, actor models.Actor, id string, patch models.ExercisePatch) (*models.Exercise, error)
	DeleteExercise(ctx context.Context, actor models.Actor, id string) error
}

type ExerciseHandler struct {
	service exerciseApplicationService
	logger  *zap.Logger
}

func NewExerciseHandler(service exerciseApplicationService, logger *zap.Logger) *ExerciseHandler {
	return &ExerciseHandler{service: service, logger: logger}
}

func (h *ExerciseHandler) ListExercises(c *fiber.Ctx) error {
	query, err := validation.ExerciseQuery(c.Queries())
	if err != nil {
		return respondError(c, h.logger, err)
	}

	exercises, err := h.service.ListExercises(c.UserContext(), query)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return respond(c, fiber.StatusOK, "", exercises)
}

func (h *ExerciseHandler) GetExercise(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	exercise, err := h.service.GetExercise(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return respond(c, fiber.StatusOK, "", exercise)
}

func (h *ExerciseHandler) CreateExercise(c *fiber.Ctx) error {
	payload, err := decodeBody(c)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	input, err := validation.ExerciseCreate(payload)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	exercise, err := h.service.CreateExercise(c.UserContext(), middleware.Actor(c), input)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return respond(c, fiber.StatusCreated, "Exercise created successfully", exercise)
}

func (h *ExerciseHandler) UpdateExercise(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	payload, err := decodeBody(c)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	patch, err := validation.ExerciseUpdate(payload)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	exercise, err := h.service.UpdateExercise(c.UserContext(), middleware.Actor(c), id, patch)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return respond(c, fiber.StatusOK, "Exercise updated successfully", exercise)
}

func (h *ExerciseHandler) DeleteExercise(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	if err := h.service.DeleteExercise(c.UserContext(), middleware.Actor(c), id); err != nil {
		return respondError(c, h.logger, err)
	}
	return respond(c, fiber.StatusOK, "Exercise deleted successfully", nil)
}
