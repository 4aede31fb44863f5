package handlers

import (
	"database/sql"
	"errors"
	"log"
	"time"

	"purpleos/internal/fitness"
	"purpleos/internal/middleware"
	"purpleos/internal/models"
	"purpleos/internal/plan"
	"purpleos/internal/services"

	"github.com/gofiber/fiber/v2"
)

// recentWorkoutsDefault bounds the workout listing
const recentWorkoutsDefault = 20

// TrainingHandler exposes workouts, recovery estimators, records, the
// weekly plan and physique entries.
type TrainingHandler struct {
	training *services.TrainingService
	stats    *services.StatsService
	plan     *plan.Plan
}

// NewTrainingHandler creates a new training handler. trainingPlan may be
// nil when no plan file is configured.
func NewTrainingHandler(training *services.TrainingService, stats *services.StatsService, trainingPlan *plan.Plan) *TrainingHandler {
	return &TrainingHandler{training: training, stats: stats, plan: trainingPlan}
}

// ListWorkouts returns recent sessions
func (h *TrainingHandler) ListWorkouts(c *fiber.Ctx) error {
	workouts, err := h.training.RecentWorkouts(c.Context(), middleware.UserID(c), recentWorkoutsDefault)
	if err != nil {
		log.Printf("❌ Failed to list workouts: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load workouts"})
	}
	if workouts == nil {
		workouts = []models.WorkoutLog{}
	}
	return c.JSON(fiber.Map{"workouts": workouts})
}

// LogWorkout records a session and awards its XP
func (h *TrainingHandler) LogWorkout(c *fiber.Ctx) error {
	var req models.CreateWorkoutRequest
	if !parseBody(c, &req) {
		return nil
	}
	userID := middleware.UserID(c)

	workout, err := h.training.LogWorkout(c.Context(), userID, &req)
	if err != nil {
		log.Printf("❌ Failed to log workout: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to log workout"})
	}

	stats, err := h.stats.AddXP(c.Context(), userID, models.XPWorkoutComplete)
	if err != nil {
		log.Printf("⚠️ Failed to award workout XP: %v", err)
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"workout": workout})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"workout": workout, "stats": stats})
}

// Fatigue returns the weekly recovery estimate
func (h *TrainingHandler) Fatigue(c *fiber.Ctx) error {
	now := time.Now()
	history, err := h.training.History(c.Context(), middleware.UserID(c), fitness.WeekStart(now))
	if err != nil {
		log.Printf("❌ Failed to load history for fatigue: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to compute fatigue"})
	}
	return c.JSON(fitness.Fatigue(history, now))
}

// Adherence compares this week's sessions against the plan
func (h *TrainingHandler) Adherence(c *fiber.Ctx) error {
	now := time.Now()
	history, err := h.training.History(c.Context(), middleware.UserID(c), fitness.WeekStart(now))
	if err != nil {
		log.Printf("❌ Failed to load history for adherence: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to compute adherence"})
	}

	planned := 0
	if h.plan != nil {
		planned = h.plan.SessionsPerWeek()
	}
	return c.JSON(fitness.Adherence(history, planned, now))
}

// Records returns the derived personal records
func (h *TrainingHandler) Records(c *fiber.Ctx) error {
	records, err := h.training.PersonalRecords(c.Context(), middleware.UserID(c))
	if err != nil {
		log.Printf("❌ Failed to derive records: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load records"})
	}
	return c.JSON(fiber.Map{"records": records})
}

// Plan returns the configured weekly split and today's session
func (h *TrainingHandler) Plan(c *fiber.Ctx) error {
	if h.plan == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "No training plan configured"})
	}
	return c.JSON(fiber.Map{
		"plan":  h.plan,
		"today": h.plan.ForWeekday(time.Now().Weekday()),
	})
}

// ListPhysique returns progress entries
func (h *TrainingHandler) ListPhysique(c *fiber.Ctx) error {
	entries, err := h.training.ListPhysiqueEntries(c.Context(), middleware.UserID(c))
	if err != nil {
		log.Printf("❌ Failed to list physique entries: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load physique entries"})
	}
	if entries == nil {
		entries = []models.PhysiqueEntry{}
	}
	return c.JSON(fiber.Map{"entries": entries})
}

// AddPhysique records a progress photo with the current stat snapshot
func (h *TrainingHandler) AddPhysique(c *fiber.Ctx) error {
	var req models.CreatePhysiqueRequest
	if !parseBody(c, &req) {
		return nil
	}
	userID := middleware.UserID(c)

	snapshot := models.PhysiqueStats{}
	if stats, err := h.stats.Get(c.Context(), userID); err == nil {
		snapshot.Weight = stats.CurrentWeight
	}
	if records, err := h.training.PersonalRecords(c.Context(), userID); err == nil {
		for _, r := range records {
			switch r.Name {
			case "Bench Press":
				snapshot.Bench = r.Weight
			case "Squat":
				snapshot.Squat = r.Weight
			case "Deadlift":
				snapshot.Deadlift = r.Weight
			}
		}
	}

	entry, err := h.training.AddPhysiqueEntry(c.Context(), userID, &req, snapshot)
	if err != nil {
		log.Printf("❌ Failed to add physique entry: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to add physique entry"})
	}
	return c.Status(fiber.StatusCreated).JSON(entry)
}

// DeletePhysique removes a progress entry
func (h *TrainingHandler) DeletePhysique(c *fiber.Ctx) error {
	err := h.training.DeletePhysiqueEntry(c.Context(), middleware.UserID(c), c.Params("id"))
	if errors.Is(err, sql.ErrNoRows) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Entry not found"})
	}
	if err != nil {
		log.Printf("❌ Failed to delete physique entry: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete entry"})
	}
	return c.JSON(fiber.Map{"success": true})
}
