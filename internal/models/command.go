package models

// Action vocabulary for the embedded command protocol. The model emits at
// most one fenced JSON block per turn; anything outside these six actions
// is stripped from the visible text and dropped.
const (
	ActionCreateTask     = "CREATE_TASK"
	ActionDeleteTask     = "DELETE_TASK"
	ActionAddSchedule    = "ADD_SCHEDULE"
	ActionDeleteSchedule = "DELETE_SCHEDULE"
	ActionReschedule     = "RESCHEDULE"
	ActionLogNote        = "LOG_NOTE"
)

// Command is the transient value extracted from one assistant turn. It is
// never persisted; only its effects are.
type Command struct {
	Action  string         `json:"action"`
	Payload map[string]any `json:"payload"`
}

// Str returns the payload field as a string, or "" when absent or not a
// string. Model output is untrusted, so every field access goes through
// this.
func (c *Command) Str(key string) string {
	if c.Payload == nil {
		return ""
	}
	v, ok := c.Payload[key].(string)
	if !ok {
		return ""
	}
	return v
}

// KnownAction reports whether the action is part of the vocabulary.
func (c *Command) KnownAction() bool {
	switch c.Action {
	case ActionCreateTask, ActionDeleteTask, ActionAddSchedule,
		ActionDeleteSchedule, ActionReschedule, ActionLogNote:
		return true
	}
	return false
}

// CommandOutcome reports how execution went so the turn can finalize its
// visible confirmation text honestly.
type CommandOutcome struct {
	Executed bool   // a side effect landed
	NotFound bool   // keyword/date matched nothing (delete/reschedule)
	Message  string // optional override for the confirmation text
}
