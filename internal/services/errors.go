package services

import (
	"errors"

	"shopkart/internal/models"
)

// resultOf classifies an error for metrics and span status.
func resultOf(err error) string {
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		return "invalid"
	case errors.Is(err, models.ErrProductNotFound):
		return "not_found"
	default:
		return "failure"
	}
}
