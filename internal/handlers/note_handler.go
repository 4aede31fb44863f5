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

// NoteHandler exposes the journal surface
type NoteHandler struct {
	notes *services.NoteService
}

// NewNoteHandler creates a new note handler
func NewNoteHandler(notes *services.NoteService) *NoteHandler {
	return &NoteHandler{notes: notes}
}

// List returns the user's journal entries, decrypted
func (h *NoteHandler) List(c *fiber.Ctx) error {
	notes, err := h.notes.List(c.Context(), middleware.UserID(c))
	if err != nil {
		log.Printf("❌ Failed to list notes: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load notes"})
	}
	if notes == nil {
		notes = []models.Note{}
	}
	return c.JSON(fiber.Map{"notes": notes})
}

// Create adds an entry
func (h *NoteHandler) Create(c *fiber.Ctx) error {
	var req models.UpsertNoteRequest
	if !parseBody(c, &req) {
		return nil
	}

	note, err := h.notes.Create(c.Context(), middleware.UserID(c), &req)
	if err != nil {
		log.Printf("❌ Failed to create note: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create note"})
	}
	return c.Status(fiber.StatusCreated).JSON(note)
}

// Update edits an entry
func (h *NoteHandler) Update(c *fiber.Ctx) error {
	var req models.UpsertNoteRequest
	if !parseBody(c, &req) {
		return nil
	}

	note, err := h.notes.Update(c.Context(), middleware.UserID(c), c.Params("id"), &req)
	if errors.Is(err, sql.ErrNoRows) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Note not found"})
	}
	if err != nil {
		log.Printf("❌ Failed to update note: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update note"})
	}
	return c.JSON(note)
}

// Delete removes an entry
func (h *NoteHandler) Delete(c *fiber.Ctx) error {
	err := h.notes.Delete(c.Context(), middleware.UserID(c), c.Params("id"))
	if errors.Is(err, sql.ErrNoRows) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Note not found"})
	}
	if err != nil {
		log.Printf("❌ Failed to delete note: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete note"})
	}
	return c.JSON(fiber.Map{"success": true})
}
