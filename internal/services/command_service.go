package services

import (
	"context"
	"encoding/json"
	"log"
	"regexp"
	"strings"
	"time"

	"purpleos/internal/models"
)

// commandBlockRe matches the single fenced JSON block the model may embed
// anywhere in its reply.
var commandBlockRe = regexp.MustCompile("(?s)```json\\s*(\\{.*?\\})\\s*```")

// defaultConfirmation is shown when an executed command left no visible
// prose around the block.
const defaultConfirmation = "Action executed successfully."

// CommandService extracts embedded protocol commands from model output
// and executes their side effects.
type CommandService struct {
	tasks    *TaskService
	schedule *ScheduleService
	notes    *NoteService
}

// NewCommandService creates a new command service
func NewCommandService(tasks *TaskService, schedule *ScheduleService, notes *NoteService) *CommandService {
	return &CommandService{tasks: tasks, schedule: schedule, notes: notes}
}

// Extract pulls the first embedded command block out of raw model output.
// It returns the visible text (block stripped, trimmed) and the parsed
// command, or nil when there is none.
//
// Malformed JSON inside a matched block fails open: the raw text is
// returned untouched and no command runs. A parseable block with an
// unknown action is stripped but dropped.
func Extract(raw string) (string, *models.Command) {
	match := commandBlockRe.FindStringSubmatchIndex(raw)
	if match == nil {
		return strings.TrimSpace(raw), nil
	}

	blockStart, blockEnd := match[0], match[1]
	jsonBody := raw[match[2]:match[3]]

	var cmd models.Command
	if err := json.Unmarshal([]byte(jsonBody), &cmd); err != nil {
		log.Printf("⚠️ [COMMANDS] Malformed command block, passing through: %v", err)
		return strings.TrimSpace(raw), nil
	}

	visible := strings.TrimSpace(raw[:blockStart] + raw[blockEnd:])

	if !cmd.KnownAction() {
		log.Printf("⚠️ [COMMANDS] Unknown action %q dropped", cmd.Action)
		return visible, nil
	}

	return visible, &cmd
}

// Execute runs a command's side effect and reports the outcome. The
// caller finalizes the visible confirmation from it, so a delete that
// matched nothing never reads as a success.
func (s *CommandService) Execute(ctx context.Context, userID string, cmd *models.Command) models.CommandOutcome {
	outcome := s.execute(ctx, userID, cmd)

	result := "executed"
	if !outcome.Executed {
		if outcome.NotFound {
			result = "not_found"
		} else {
			result = "failed"
		}
	}
	RecordCommand(cmd.Action, result)
	return outcome
}

func (s *CommandService) execute(ctx context.Context, userID string, cmd *models.Command) models.CommandOutcome {
	switch cmd.Action {
	case models.ActionCreateTask:
		return s.createTask(ctx, userID, cmd)
	case models.ActionDeleteTask:
		return s.deleteTask(ctx, userID, cmd)
	case models.ActionAddSchedule:
		return s.addSchedule(ctx, userID, cmd)
	case models.ActionDeleteSchedule:
		return s.deleteSchedule(ctx, userID, cmd)
	case models.ActionReschedule:
		return s.reschedule(ctx, userID, cmd)
	case models.ActionLogNote:
		return s.logNote(ctx, userID, cmd)
	}
	return models.CommandOutcome{}
}

func (s *CommandService) createTask(ctx context.Context, userID string, cmd *models.Command) models.CommandOutcome {
	title := cmd.Str("title")
	if title == "" {
		return models.CommandOutcome{Message: "I need a title to create a task."}
	}

	req := &models.CreateTaskRequest{
		Title:     title,
		Category:  cmd.Str("category"),
		Frequency: cmd.Str("frequency"),
		DueDate:   cmd.Str("due_date"),
	}
	if _, err := s.tasks.Create(ctx, userID, req); err != nil {
		log.Printf("❌ [COMMANDS] CREATE_TASK failed: %v", err)
		return models.CommandOutcome{}
	}
	return models.CommandOutcome{Executed: true}
}

func (s *CommandService) deleteTask(ctx context.Context, userID string, cmd *models.Command) models.CommandOutcome {
	keyword := firstOf(cmd, "keyword", "title_keyword", "title")
	if keyword == "" {
		return models.CommandOutcome{Message: "I need a keyword to know which task to delete."}
	}

	n, err := s.tasks.DeleteByKeyword(ctx, userID, keyword)
	if err != nil {
		log.Printf("❌ [COMMANDS] DELETE_TASK failed: %v", err)
		return models.CommandOutcome{}
	}
	if n == 0 {
		return models.CommandOutcome{NotFound: true}
	}
	return models.CommandOutcome{Executed: true}
}

func (s *CommandService) addSchedule(ctx context.Context, userID string, cmd *models.Command) models.CommandOutcome {
	title := cmd.Str("title")
	startTime := cmd.Str("start_time")
	if title == "" || startTime == "" {
		return models.CommandOutcome{Message: "I need a title and a start time to schedule that."}
	}

	req := &models.CreateScheduleRequest{
		Title:     title,
		StartTime: startTime,
		Type:      cmd.Str("type"),
		Date:      cmd.Str("date"),
	}
	if _, err := s.schedule.Create(ctx, userID, req); err != nil {
		log.Printf("❌ [COMMANDS] ADD_SCHEDULE failed: %v", err)
		return models.CommandOutcome{}
	}
	return models.CommandOutcome{Executed: true}
}

func (s *CommandService) deleteSchedule(ctx context.Context, userID string, cmd *models.Command) models.CommandOutcome {
	keyword := firstOf(cmd, "keyword", "title_keyword")
	if keyword == "" {
		return models.CommandOutcome{Message: "I need a keyword to know which block to remove."}
	}
	date := cmd.Str("date")
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}

	found, err := s.schedule.DeleteByKeyword(ctx, userID, date, keyword)
	if err != nil {
		log.Printf("❌ [COMMANDS] DELETE_SCHEDULE failed: %v", err)
		return models.CommandOutcome{}
	}
	if !found {
		return models.CommandOutcome{NotFound: true}
	}
	return models.CommandOutcome{Executed: true}
}

func (s *CommandService) reschedule(ctx context.Context, userID string, cmd *models.Command) models.CommandOutcome {
	keyword := firstOf(cmd, "keyword", "title_keyword")
	newTime := firstOf(cmd, "new_time", "new_start_time")
	if keyword == "" || newTime == "" {
		return models.CommandOutcome{Message: "I need a keyword and a new time to reschedule."}
	}
	date := firstOf(cmd, "date", "current_date")
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}

	block, err := s.schedule.Reschedule(ctx, userID, date, keyword, newTime, cmd.Str("new_date"))
	if err != nil {
		log.Printf("❌ [COMMANDS] RESCHEDULE failed: %v", err)
		return models.CommandOutcome{}
	}
	if block == nil {
		return models.CommandOutcome{NotFound: true}
	}
	return models.CommandOutcome{Executed: true}
}

func (s *CommandService) logNote(ctx context.Context, userID string, cmd *models.Command) models.CommandOutcome {
	title := cmd.Str("title")
	content := cmd.Str("content")
	if title == "" && content == "" {
		return models.CommandOutcome{Message: "I need something to write down."}
	}
	if title == "" {
		title = "Quick Log"
	}

	encrypted, _ := cmd.Payload["is_encrypted"].(bool)
	req := &models.UpsertNoteRequest{
		Title:       title,
		Content:     content,
		Mood:        cmd.Str("mood"),
		IsEncrypted: encrypted,
	}
	if _, err := s.notes.Create(ctx, userID, req); err != nil {
		log.Printf("❌ [COMMANDS] LOG_NOTE failed: %v", err)
		return models.CommandOutcome{}
	}
	return models.CommandOutcome{Executed: true}
}

// firstOf returns the first non-empty string payload field. The model is
// prompted with one key per field but older persona revisions used
// different names, so both spellings stay accepted.
func firstOf(cmd *models.Command, keys ...string) string {
	for _, k := range keys {
		if v := cmd.Str(k); v != "" {
			return v
		}
	}
	return ""
}

// Finalize resolves the visible assistant text for a turn from the
// stripped prose and the execution outcome.
func Finalize(visible string, cmd *models.Command, outcome models.CommandOutcome) string {
	if cmd == nil {
		return visible
	}
	if outcome.Message != "" && visible == "" {
		return outcome.Message
	}
	if outcome.NotFound {
		if visible != "" {
			return visible + "\n\nI couldn't find anything matching that, though."
		}
		return "I couldn't find anything matching that."
	}
	if !outcome.Executed && outcome.Message == "" {
		if visible != "" {
			return visible + "\n\nSomething went wrong executing that, try again."
		}
		return "Something went wrong executing that, try again."
	}
	if visible == "" {
		return defaultConfirmation
	}
	return visible
}
