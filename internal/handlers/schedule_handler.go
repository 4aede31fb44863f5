package handlers

import (
	"database/sql"
	"errors"
	"log"
	"time"

	"purpleos/internal/middleware"
	"purpleos/internal/models"
	"purpleos/internal/services"

	"github.com/gofiber/fiber/v2"
)

// ScheduleHandler exposes the calendar block surface
type ScheduleHandler struct {
	schedule *services.ScheduleService
}

// NewScheduleHandler creates a new schedule handler
func NewScheduleHandler(schedule *services.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{schedule: schedule}
}

// List returns the blocks for ?date=YYYY-MM-DD, defaulting to today
func (h *ScheduleHandler) List(c *fiber.Ctx) error {
	date := c.Query("date")
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}

	blocks, err := h.schedule.ListByDate(c.Context(), middleware.UserID(c), date)
	if err != nil {
		log.Printf("❌ Failed to list schedule: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load schedule"})
	}
	if blocks == nil {
		blocks = []models.ScheduleBlock{}
	}
	return c.JSON(fiber.Map{"date": date, "blocks": blocks})
}

// Create adds a block
func (h *ScheduleHandler) Create(c *fiber.Ctx) error {
	var req models.CreateScheduleRequest
	if !parseBody(c, &req) {
		return nil
	}

	block, err := h.schedule.Create(c.Context(), middleware.UserID(c), &req)
	if err != nil {
		log.Printf("❌ Failed to create schedule block: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create block"})
	}
	return c.Status(fiber.StatusCreated).JSON(block)
}

// Delete removes a block
func (h *ScheduleHandler) Delete(c *fiber.Ctx) error {
	err := h.schedule.Delete(c.Context(), middleware.UserID(c), c.Params("id"))
	if errors.Is(err, sql.ErrNoRows) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Block not found"})
	}
	if err != nil {
		log.Printf("❌ Failed to delete schedule block: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete block"})
	}
	return c.JSON(fiber.Map{"success": true})
}
