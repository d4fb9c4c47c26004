package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Pinger reports whether a backing dependency is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthHandler reports service liveness and database reachability.
type HealthHandler struct {
	db     Pinger
	events string
}

// NewHealthHandler creates a HealthHandler. events describes the event publisher
// state, e.g. "connected" or "disabled".
func NewHealthHandler(db Pinger, events string) *HealthHandler {
	return &HealthHandler{db: db, events: events}
}

// HandleHealth handles GET /health.
func (h *HealthHandler) HandleHealth(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	status, code, database := "healthy", fiber.StatusOK, "connected"
	if err := h.db.PingContext(ctx); err != nil {
		status, code, database = "unhealthy", fiber.StatusServiceUnavailable, err.Error()
	}
	return c.Status(code).JSON(fiber.Map{
		"status":   status,
		"time":     time.Now().Format(time.RFC3339),
		"database": database,
		"rabbitmq": h.events,
	})
}
