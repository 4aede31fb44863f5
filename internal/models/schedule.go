package models

import "time"

// Schedule block types
const (
	BlockTypeWork     = "WORK"
	BlockTypeGym      = "GYM"
	BlockTypeSchool   = "SCHOOL"
	BlockTypePersonal = "PERSONAL"
)

// ScheduleBlock represents one timed block on the calendar grid
type ScheduleBlock struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	StartTime string    `json:"start_time"` // "HH:00"
	Type      string    `json:"type"`
	Date      string    `json:"date"` // YYYY-MM-DD
	CreatedAt time.Time `json:"created_at"`
}

// CreateScheduleRequest represents a request to add a block
type CreateScheduleRequest struct {
	Title     string `json:"title" validate:"required"`
	StartTime string `json:"start_time" validate:"required"`
	Type      string `json:"type,omitempty" validate:"omitempty,oneof=WORK GYM SCHOOL PERSONAL"`
	Date      string `json:"date,omitempty"`
}
