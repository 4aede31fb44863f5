package services

import (
	"strings"
	"testing"

	"purpleos/internal/models"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name        string
		raw         string
		wantVisible string
		wantAction  string
	}{
		{
			name:        "plain text without command",
			raw:         "Just checking in. How's the protocol going?",
			wantVisible: "Just checking in. How's the protocol going?",
		},
		{
			name:        "command after prose",
			raw:         "Done.\n```json\n{\"action\":\"CREATE_TASK\",\"payload\":{\"title\":\"Buy milk\"}}\n```",
			wantVisible: "Done.",
			wantAction:  models.ActionCreateTask,
		},
		{
			name:        "command before prose",
			raw:         "```json\n{\"action\":\"LOG_NOTE\",\"payload\":{\"title\":\"Idea\",\"content\":\"x\"}}\n```\nLogged it for you.",
			wantVisible: "Logged it for you.",
			wantAction:  models.ActionLogNote,
		},
		{
			name:        "command with no surrounding prose",
			raw:         "```json\n{\"action\":\"DELETE_TASK\",\"payload\":{\"keyword\":\"milk\"}}\n```",
			wantVisible: "",
			wantAction:  models.ActionDeleteTask,
		},
		{
			name:        "malformed JSON fails open",
			raw:         "Sure.\n```json\n{\"action\": \"CREATE_TASK\", \"payload\": {\n```",
			wantVisible: "Sure.\n```json\n{\"action\": \"CREATE_TASK\", \"payload\": {\n```",
		},
		{
			name:        "unknown action stripped but dropped",
			raw:         "Okay.\n```json\n{\"action\":\"SELF_DESTRUCT\",\"payload\":{}}\n```",
			wantVisible: "Okay.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			visible, cmd := Extract(tt.raw)
			if visible != tt.wantVisible {
				t.Errorf("visible = %q, want %q", visible, tt.wantVisible)
			}
			if tt.wantAction == "" {
				if cmd != nil {
					t.Fatalf("expected no command, got %+v", cmd)
				}
				return
			}
			if cmd == nil {
				t.Fatal("expected a command, got nil")
			}
			if cmd.Action != tt.wantAction {
				t.Errorf("action = %q, want %q", cmd.Action, tt.wantAction)
			}
		})
	}
}

func TestExtractPayloadDefaultsAccess(t *testing.T) {
	raw := "```json\n{\"action\":\"CREATE_TASK\",\"payload\":{\"title\":\"Ship it\",\"category\":\"WORK\"}}\n```"
	_, cmd := Extract(raw)
	if cmd == nil {
		t.Fatal("expected a command")
	}
	if got := cmd.Str("title"); got != "Ship it" {
		t.Errorf("title = %q", got)
	}
	if got := cmd.Str("due_date"); got != "" {
		t.Errorf("absent field should read empty, got %q", got)
	}
	if got := cmd.Str("category"); got != "WORK" {
		t.Errorf("category = %q", got)
	}
}

func TestFinalize(t *testing.T) {
	cmd := &models.Command{Action: models.ActionDeleteTask}

	tests := []struct {
		name    string
		visible string
		cmd     *models.Command
		outcome models.CommandOutcome
		want    string
	}{
		{
			name:    "no command passes through",
			visible: "hello",
			want:    "hello",
		},
		{
			name:    "executed with prose keeps prose",
			visible: "Done.",
			cmd:     cmd,
			outcome: models.CommandOutcome{Executed: true},
			want:    "Done.",
		},
		{
			name:    "executed without prose gets default confirmation",
			visible: "",
			cmd:     cmd,
			outcome: models.CommandOutcome{Executed: true},
			want:    "Action executed successfully.",
		},
		{
			name:    "not found without prose",
			visible: "",
			cmd:     cmd,
			outcome: models.CommandOutcome{NotFound: true},
			want:    "I couldn't find anything matching that.",
		},
		{
			name:    "explicit message wins over empty prose",
			visible: "",
			cmd:     cmd,
			outcome: models.CommandOutcome{Message: "I need a keyword to know which task to delete."},
			want:    "I need a keyword to know which task to delete.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Finalize(tt.visible, tt.cmd, tt.outcome)
			if got != tt.want {
				t.Errorf("Finalize() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFinalizeNotFoundKeepsProse(t *testing.T) {
	cmd := &models.Command{Action: models.ActionDeleteSchedule}
	got := Finalize("Removed it.", cmd, models.CommandOutcome{NotFound: true})
	if !strings.Contains(got, "Removed it.") || !strings.Contains(got, "couldn't find") {
		t.Errorf("expected prose plus correction, got %q", got)
	}
}
