package models

import "time"

// Chat message roles
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// NewSessionPreview is the synthetic preview shown for a session that has
// no persisted messages yet.
const NewSessionPreview = "New Neural Link"

// ChatMessage represents a single message within a chat session
type ChatMessage struct {
	ID         string    `bson:"messageId" json:"id"`
	UserID     string    `bson:"userId" json:"-"`
	SessionID  string    `bson:"sessionId" json:"session_id"`
	Role       string    `bson:"role" json:"role"`
	Content    string    `bson:"content" json:"content"`
	Attachment string    `bson:"attachment,omitempty" json:"attachment,omitempty"` // data URI
	CreatedAt  time.Time `bson:"createdAt" json:"created_at"`
}

// SessionSummary is one entry in the session list. The preview is derived
// from the session's most recent message, never stored.
type SessionSummary struct {
	ID           string    `json:"id"`
	Preview      string    `json:"preview"`
	MessageCount int       `json:"message_count"`
	LastActivity time.Time `json:"last_activity"`
}

// SendMessageRequest is one conversational turn from the user
type SendMessageRequest struct {
	Content    string `json:"content" validate:"required"`
	Attachment string `json:"attachment,omitempty"` // optional inline data URI
}

// SendMessageResponse carries the finalized assistant reply for the turn
type SendMessageResponse struct {
	UserMessage      ChatMessage `json:"user_message"`
	AssistantMessage ChatMessage `json:"assistant_message"`
	CommandExecuted  bool        `json:"command_executed"`
}

// SyncRequest carries the client's locally-held (possibly unconfirmed)
// messages for merging against the persisted transcript.
type SyncRequest struct {
	Messages []ChatMessage `json:"messages"`
}

// SyncResponse is the merged, deduplicated, time-ordered transcript
type SyncResponse struct {
	SessionID string        `json:"session_id"`
	Messages  []ChatMessage `json:"messages"`
}

// TranscribeRequest carries base64 audio for transcription
type TranscribeRequest struct {
	Audio    string `json:"audio" validate:"required"`
	MimeType string `json:"mime_type,omitempty"`
}
