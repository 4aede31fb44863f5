package handlers

import (
	"errors"
	"log"

	"purpleos/internal/middleware"
	"purpleos/internal/models"
	"purpleos/internal/services"

	"github.com/gofiber/fiber/v2"
)

// ChatHandler exposes the agent chat surface: sessions, transcripts,
// turns, reconciliation and transcription.
type ChatHandler struct {
	chat   *services.ChatService
	gemini *services.GeminiService
}

// NewChatHandler creates a new chat handler
func NewChatHandler(chat *services.ChatService, gemini *services.GeminiService) *ChatHandler {
	return &ChatHandler{chat: chat, gemini: gemini}
}

// Sessions lists the user's chat sessions
func (h *ChatHandler) Sessions(c *fiber.Ctx) error {
	summaries, err := h.chat.Sessions(c.Context(), middleware.UserID(c))
	if err != nil {
		log.Printf("❌ Failed to list sessions: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load sessions"})
	}
	if summaries == nil {
		summaries = []models.SessionSummary{}
	}
	return c.JSON(fiber.Map{"sessions": summaries})
}

// Messages returns a session's transcript
func (h *ChatHandler) Messages(c *fiber.Ctx) error {
	messages, err := h.chat.Messages(c.Context(), middleware.UserID(c), c.Params("id"))
	if err != nil {
		log.Printf("❌ Failed to load transcript: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load messages"})
	}
	if messages == nil {
		messages = []models.ChatMessage{}
	}
	return c.JSON(fiber.Map{"session_id": c.Params("id"), "messages": messages})
}

// Send runs one conversational turn in the session
func (h *ChatHandler) Send(c *fiber.Ctx) error {
	var req models.SendMessageRequest
	if !parseBody(c, &req) {
		return nil
	}

	resp, err := h.chat.SendMessage(c.Context(), middleware.UserID(c), c.Params("id"), &req)
	if err != nil {
		log.Printf("❌ Chat turn failed: %v", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "The agent is unreachable right now"})
	}
	return c.JSON(resp)
}

// Sync reconciles the client's local transcript with the stored one
func (h *ChatHandler) Sync(c *fiber.Ctx) error {
	var req models.SyncRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	sessionID := c.Params("id")
	merged, err := h.chat.Sync(c.Context(), middleware.UserID(c), sessionID, req.Messages)
	if errors.Is(err, services.ErrStaleSync) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "A newer sync superseded this one, retry"})
	}
	if err != nil {
		log.Printf("❌ Sync failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to sync session"})
	}

	return c.JSON(models.SyncResponse{SessionID: sessionID, Messages: merged})
}

// DeleteSession removes a session and all of its messages
func (h *ChatHandler) DeleteSession(c *fiber.Ctx) error {
	deleted, err := h.chat.DeleteSession(c.Context(), middleware.UserID(c), c.Params("id"))
	if err != nil {
		log.Printf("❌ Failed to delete session: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete session"})
	}
	return c.JSON(fiber.Map{"success": true, "deleted_messages": deleted})
}

// Transcribe converts uploaded audio to text
func (h *ChatHandler) Transcribe(c *fiber.Ctx) error {
	var req models.TranscribeRequest
	if !parseBody(c, &req) {
		return nil
	}

	text, err := h.gemini.Transcribe(c.Context(), req.Audio, req.MimeType)
	if err != nil {
		log.Printf("❌ Transcription failed: %v", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Transcription failed"})
	}
	return c.JSON(fiber.Map{"text": text})
}
