package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/P4t4m8n/buff-buddy-api/internal/apperror"
	"github.com/P4t4m8n/buff-buddy-api/internal/validation"
)

func respond(c *fiber.Ctx, status int, message string, data any) error {
	body := fiber.Map{"data": data}
	if message != "" {
		body["message"] = message
	}
	return c.Status(status).JSON(body)
}

// respondError writes the classified error envelope. Only unclassified
// failures are logged; their detail never reaches the client.
func respondError(c *fiber.Ctx, logger *zap.Logger, err error) error {
	resp := apperror.Classify(err)
	if resp.Internal() && logger != nil {
		logger.Error("request failed",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Error(err),
		)
	}
	return c.Status(resp.Status).JSON(fiber.Map{
		"message": resp.Message,
		"errors":  resp.Errors,
	})
}

// ErrorHandler is the app-wide fallback for errors returned by middleware
// or unmatched routes.
func ErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return c.Status(fiberErr.Code).JSON(fiber.Map{
				"message": fiberErr.Message,
				"errors":  fiber.Map{},
			})
		}
		return respondError(c, logger, err)
	}
}

func paramID(c *fiber.Ctx) (string, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return "", validation.Errors{"id": "Invalid id format"}
	}
	return id.String(), nil
}

func decodeBody(c *fiber.Ctx) (map[string]any, error) {
	return validation.Decode(c.Body())
}
