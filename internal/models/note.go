package models

import "time"

// Note moods
const (
	MoodFlow  = "FLOW"
	MoodZen   = "ZEN"
	MoodChaos = "CHAOS"
	MoodIdea  = "IDEA"
)

// Note represents one journal entry
type Note struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	Mood        string    `json:"mood"`
	IsEncrypted bool      `json:"is_encrypted"`
	CreatedAt   time.Time `json:"created_at"`
}

// UpsertNoteRequest creates or updates a journal entry
type UpsertNoteRequest struct {
	Title       string `json:"title" validate:"required"`
	Content     string `json:"content"`
	Mood        string `json:"mood,omitempty" validate:"omitempty,oneof=FLOW ZEN CHAOS IDEA"`
	IsEncrypted bool   `json:"is_encrypted"`
}
