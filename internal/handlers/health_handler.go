package handlers

import (
	"context"
	"time"

	"purpleos/internal/database"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// HealthHandler reports liveness of the server and its backing stores
type HealthHandler struct {
	db      *database.DB
	mongodb *database.MongoDB
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(db *database.DB, mongodb *database.MongoDB) *HealthHandler {
	return &HealthHandler{db: db, mongodb: mongodb}
}

// Check returns 200 when the core database is reachable. Chat storage
// being down degrades the report but not the status code; the dashboard
// still works without chat.
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 3*time.Second)
	defer cancel()

	status := fiber.Map{
		"status": "ok",
		"mysql":  "up",
		"mongo":  "up",
	}

	if err := h.db.PingContext(ctx); err != nil {
		status["status"] = "degraded"
		status["mysql"] = "down"
		return c.Status(fiber.StatusServiceUnavailable).JSON(status)
	}

	if h.mongodb == nil {
		status["mongo"] = "disabled"
	} else if err := h.mongodb.Database().Client().Ping(ctx, readpref.Primary()); err != nil {
		status["status"] = "degraded"
		status["mongo"] = "down"
	}

	return c.JSON(status)
}
