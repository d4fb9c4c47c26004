package handlers

import (
	"errors"

	"shopkart/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/hashicorp/go-hclog"
)

// validationFailed renders a ValidationError as a 400 response listing every violation.
func validationFailed(c *fiber.Ctx, verr *models.ValidationError) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Validation failed",
		"errors":  verr.Violations,
	})
}

func badRequest(c *fiber.Ctx, field, message string) error {
	return validationFailed(c, models.NewValidationError(field, message))
}

// writeError maps service errors onto HTTP statuses: validation to 400, missing
// products to 404 with notFoundMessage, anything else to 500.
func writeError(c *fiber.Ctx, logger hclog.Logger, err error, notFoundMessage string) error {
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		return validationFailed(c, verr)
	case errors.Is(err, models.ErrProductNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": notFoundMessage,
		})
	default:
		logger.Error("Request failed", "method", c.Method(), "path", c.Path(), "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Internal server error",
			"error":   err.Error(),
		})
	}
}
