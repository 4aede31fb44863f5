package handlers

import (
	"database/sql"
	"errors"
	"log"

	"purpleos/internal/middleware"
	"purpleos/internal/models"
	"purpleos/internal/services"

	"github.com/gofiber/fiber/v2"
)

// TaskHandler exposes the task CRUD surface
type TaskHandler struct {
	tasks *services.TaskService
	stats *services.StatsService
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(tasks *services.TaskService, stats *services.StatsService) *TaskHandler {
	return &TaskHandler{tasks: tasks, stats: stats}
}

// List returns the user's live tasks (expired ones are swept first)
func (h *TaskHandler) List(c *fiber.Ctx) error {
	tasks, err := h.tasks.List(c.Context(), middleware.UserID(c))
	if err != nil {
		log.Printf("❌ Failed to list tasks: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load tasks"})
	}
	if tasks == nil {
		tasks = []models.Task{}
	}
	return c.JSON(fiber.Map{"tasks": tasks})
}

// Create adds a task. A quick-add tag in the title (/gym, /work, ...)
// overrides an absent category.
func (h *TaskHandler) Create(c *fiber.Ctx) error {
	var req models.CreateTaskRequest
	if !parseBody(c, &req) {
		return nil
	}

	if req.Category == "" {
		title, category := models.ParseQuickTags(req.Title)
		req.Title = title
		req.Category = category
	}

	task, err := h.tasks.Create(c.Context(), middleware.UserID(c), &req)
	if err != nil {
		log.Printf("❌ Failed to create task: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create task"})
	}
	return c.Status(fiber.StatusCreated).JSON(task)
}

// Toggle flips a task between TODO and DONE, adjusting XP accordingly
func (h *TaskHandler) Toggle(c *fiber.Ctx) error {
	userID := middleware.UserID(c)

	task, err := h.tasks.Toggle(c.Context(), userID, c.Params("id"))
	if errors.Is(err, sql.ErrNoRows) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Task not found"})
	}
	if err != nil {
		log.Printf("❌ Failed to toggle task: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to toggle task"})
	}

	// Completing earns XP, un-completing takes it back.
	delta := models.XPTaskDone
	if task.Status != models.TaskStatusDone {
		delta = -models.XPTaskDone
	}
	stats, err := h.stats.AddXP(c.Context(), userID, delta)
	if err != nil {
		log.Printf("⚠️ Failed to adjust XP after toggle: %v", err)
		return c.JSON(fiber.Map{"task": task})
	}

	return c.JSON(fiber.Map{"task": task, "stats": stats})
}

// Update edits a task title
func (h *TaskHandler) Update(c *fiber.Ctx) error {
	var req models.UpdateTaskRequest
	if !parseBody(c, &req) {
		return nil
	}

	err := h.tasks.UpdateTitle(c.Context(), middleware.UserID(c), c.Params("id"), req.Title)
	if errors.Is(err, sql.ErrNoRows) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Task not found"})
	}
	if err != nil {
		log.Printf("❌ Failed to update task: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update task"})
	}
	return c.JSON(fiber.Map{"success": true})
}

// Delete removes a task
func (h *TaskHandler) Delete(c *fiber.Ctx) error {
	if err := h.tasks.Delete(c.Context(), middleware.UserID(c), c.Params("id")); err != nil {
		log.Printf("❌ Failed to delete task: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete task"})
	}
	return c.JSON(fiber.Map{"success": true})
}
