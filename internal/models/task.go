package models

import (
	"strings"
	"time"
)

// Task statuses
const (
	TaskStatusTodo       = "TODO"
	TaskStatusInProgress = "IN_PROGRESS"
	TaskStatusDone       = "DONE"
)

// Task categories
const (
	CategoryWork     = "WORK"
	CategoryGym      = "GYM"
	CategoryPersonal = "PERSONAL"
	CategorySchool   = "SCHOOL"
	CategorySystem   = "SYSTEM"
)

// Task frequencies (recurrence classes driving expiry)
const (
	FrequencyDaily   = "DAILY"
	FrequencyWeekly  = "WEEKLY"
	FrequencyMonthly = "MONTHLY"
)

// frequencySeparator joins frequency and category in the legacy compound
// encoding ("WEEKLY::WORK"). New rows persist the two fields separately;
// the compound form is only ever seen on the read path.
const frequencySeparator = "::"

// Task represents a single protocol item owned by a user
type Task struct {
	ID        string     `json:"id"`
	UserID    string     `json:"user_id"`
	Title     string     `json:"title"`
	Status    string     `json:"status"`
	Category  string     `json:"category"`
	Frequency string     `json:"frequency"`
	DueDate   string     `json:"due_date,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// CreateTaskRequest represents a request to create a task
type CreateTaskRequest struct {
	Title     string `json:"title" validate:"required"`
	Category  string `json:"category,omitempty" validate:"omitempty,oneof=WORK GYM PERSONAL SCHOOL SYSTEM"`
	Frequency string `json:"frequency,omitempty" validate:"omitempty,oneof=DAILY WEEKLY MONTHLY"`
	DueDate   string `json:"due_date,omitempty"`
}

// UpdateTaskRequest represents a title edit
type UpdateTaskRequest struct {
	Title string `json:"title" validate:"required"`
}

// EncodeCategory produces the legacy compound "FREQUENCY::CATEGORY" token.
// Kept for wire compatibility with records written by older clients.
func EncodeCategory(frequency, category string) string {
	if frequency == "" {
		frequency = FrequencyDaily
	}
	return frequency + frequencySeparator + category
}

// DecodeCategory splits a persisted category token into (frequency, category).
// A bare value without the separator predates the frequency field and
// defaults to DAILY.
func DecodeCategory(stored string) (frequency, category string) {
	if idx := strings.Index(stored, frequencySeparator); idx >= 0 {
		frequency = stored[:idx]
		category = stored[idx+len(frequencySeparator):]
		if frequency == "" {
			frequency = FrequencyDaily
		}
		return frequency, category
	}
	return FrequencyDaily, stored
}

// ParseQuickTags extracts an inline category tag (/gym, /work, /school,
// /personal) from a task title typed in the quick-add box.
func ParseQuickTags(input string) (title, category string) {
	category = CategorySystem
	title = input

	lower := strings.ToLower(input)
	tags := []struct {
		tag string
		cat string
	}{
		{"/gym", CategoryGym},
		{"/work", CategoryWork},
		{"/personal", CategoryPersonal},
		{"/school", CategorySchool},
	}

	for _, t := range tags {
		if strings.Contains(lower, t.tag) {
			category = t.cat
			title = removeTagFold(title, t.tag)
			break
		}
	}

	return strings.TrimSpace(title), category
}

// removeTagFold strips every case-insensitive occurrence of tag from s.
func removeTagFold(s, tag string) string {
	var b strings.Builder
	lower := strings.ToLower(s)
	tag = strings.ToLower(tag)
	for i := 0; i < len(s); {
		if strings.HasPrefix(lower[i:], tag) {
			i += len(tag)
			continue
		}
		b.WriteByte(s[i])
		i++
	}
	return b.String()
}
