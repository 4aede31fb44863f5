package handlers

import (
	"log"

	"purpleos/internal/focus"
	"purpleos/internal/middleware"
	"purpleos/internal/models"
	"purpleos/internal/services"

	"github.com/gofiber/fiber/v2"
)

// StatsHandler exposes the stat row, hydration and the focus timer
type StatsHandler struct {
	stats *services.StatsService
	focus *focus.Manager
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(stats *services.StatsService, focusMgr *focus.Manager) *StatsHandler {
	return &StatsHandler{stats: stats, focus: focusMgr}
}

// Get returns the user's stats with the daily rollover applied
func (h *StatsHandler) Get(c *fiber.Ctx) error {
	stats, err := h.stats.Get(c.Context(), middleware.UserID(c))
	if err != nil {
		log.Printf("❌ Failed to load stats: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load stats"})
	}
	return c.JSON(stats)
}

// Hydration adjusts today's water intake by a signed ml amount
func (h *StatsHandler) Hydration(c *fiber.Ctx) error {
	var req models.HydrationRequest
	if !parseBody(c, &req) {
		return nil
	}

	stats, err := h.stats.AdjustHydration(c.Context(), middleware.UserID(c), req.Amount)
	if err != nil {
		log.Printf("❌ Failed to adjust hydration: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to adjust hydration"})
	}
	return c.JSON(stats)
}

// Weight records a body weight sync
func (h *StatsHandler) Weight(c *fiber.Ctx) error {
	var req struct {
		Weight float64 `json:"weight" validate:"required,gt=0"`
	}
	if !parseBody(c, &req) {
		return nil
	}

	stats, err := h.stats.SyncWeight(c.Context(), middleware.UserID(c), req.Weight)
	if err != nil {
		log.Printf("❌ Failed to sync weight: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to sync weight"})
	}
	return c.JSON(stats)
}

// FocusComplete credits a client-timed focus session directly
func (h *StatsHandler) FocusComplete(c *fiber.Ctx) error {
	var req models.FocusCompleteRequest
	if !parseBody(c, &req) {
		return nil
	}

	stats, err := h.stats.RecordFocus(c.Context(), middleware.UserID(c), req.Seconds, req.XPReward)
	if err != nil {
		log.Printf("❌ Failed to record focus session: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to record focus session"})
	}
	return c.JSON(stats)
}

// FocusState returns the server-side timer state
func (h *StatsHandler) FocusState(c *fiber.Ctx) error {
	return c.JSON(h.focus.State(middleware.UserID(c)))
}

// FocusStart begins a server-side timer session
func (h *StatsHandler) FocusStart(c *fiber.Ctx) error {
	var req struct {
		Mode string `json:"mode" validate:"required,oneof=DEEP STANDARD QUICK STOPWATCH"`
	}
	if !parseBody(c, &req) {
		return nil
	}

	session := h.focus.Dispatch(c.Context(), middleware.UserID(c), focus.Event{Kind: focus.EvStart, Mode: req.Mode})
	if session.State != focus.StateEngaged {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "A focus session is already running"})
	}
	return c.JSON(session)
}

// FocusPause pauses the running session
func (h *StatsHandler) FocusPause(c *fiber.Ctx) error {
	return c.JSON(h.focus.Dispatch(c.Context(), middleware.UserID(c), focus.Event{Kind: focus.EvPause}))
}

// FocusResume resumes a paused session
func (h *StatsHandler) FocusResume(c *fiber.Ctx) error {
	return c.JSON(h.focus.Dispatch(c.Context(), middleware.UserID(c), focus.Event{Kind: focus.EvResume}))
}

// FocusStop stops the session, persisting any remaining accrued time
func (h *StatsHandler) FocusStop(c *fiber.Ctx) error {
	return c.JSON(h.focus.Dispatch(c.Context(), middleware.UserID(c), focus.Event{Kind: focus.EvStop}))
}
