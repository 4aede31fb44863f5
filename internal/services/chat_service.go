package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"purpleos/internal/logging"
	"purpleos/internal/models"
	"purpleos/internal/reconcile"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
)

// ErrStaleSync is returned when a sync's server fetch was superseded by
// a newer fetch for the same session before it could apply.
var ErrStaleSync = errors.New("stale sync fetch superseded")

// previewCacheTTL bounds staleness of the session list
const previewCacheTTL = 15 * time.Second

// ChatService orchestrates one conversational turn and owns the session
// surface: listing, transcripts, reconciliation and deletes.
type ChatService struct {
	history  *ChatHistoryService
	gemini   *GeminiService
	commands *CommandService
	context  *ContextService
	persona  *PersonaService
	engine   *reconcile.Engine
	previews *gocache.Cache
}

// NewChatService creates a new chat service
func NewChatService(history *ChatHistoryService, gemini *GeminiService, commands *CommandService, contextSvc *ContextService, persona *PersonaService) *ChatService {
	return &ChatService{
		history:  history,
		gemini:   gemini,
		commands: commands,
		context:  contextSvc,
		persona:  persona,
		engine:   reconcile.NewEngine(),
		previews: gocache.New(previewCacheTTL, time.Minute),
	}
}

// SendMessage runs one full turn: persist the user message, assemble
// context, call the model, execute any embedded command, finalize the
// visible reply and persist it.
func (s *ChatService) SendMessage(ctx context.Context, userID, sessionID string, req *models.SendMessageRequest) (*models.SendMessageResponse, error) {
	prior, err := s.history.MessagesBySession(ctx, userID, sessionID, s.context.HistoryLimit())
	if err != nil {
		return nil, err
	}

	userMsg := models.ChatMessage{
		ID:         uuid.NewString(),
		UserID:     userID,
		SessionID:  sessionID,
		Role:       models.RoleUser,
		Content:    req.Content,
		Attachment: req.Attachment,
		CreatedAt:  time.Now(),
	}
	if err := s.history.SaveMessage(ctx, &userMsg); err != nil {
		return nil, err
	}

	systemPrompt := s.persona.Get() + "\n\n" + s.context.Build(ctx, userID)

	raw, err := s.gemini.Complete(ctx, systemPrompt, prior, req.Content, req.Attachment)
	if err != nil {
		return nil, fmt.Errorf("model turn failed: %w", err)
	}

	visible, cmd := Extract(raw)

	var outcome models.CommandOutcome
	if cmd != nil {
		outcome = s.commands.Execute(ctx, userID, cmd)
		if outcome.Executed {
			s.context.InvalidateStats(ctx, userID)
		}
	}
	finalText := Finalize(visible, cmd, outcome)

	assistantMsg := models.ChatMessage{
		ID:        uuid.NewString(),
		UserID:    userID,
		SessionID: sessionID,
		Role:      models.RoleAssistant,
		Content:   finalText,
		CreatedAt: time.Now(),
	}
	if err := s.history.SaveMessage(ctx, &assistantMsg); err != nil {
		return nil, err
	}

	s.previews.Delete(userID)
	RecordChatTurn()
	logging.WithTurn(userID, sessionID).Info("chat turn complete",
		"command_executed", outcome.Executed)

	return &models.SendMessageResponse{
		UserMessage:      userMsg,
		AssistantMessage: assistantMsg,
		CommandExecuted:  outcome.Executed,
	}, nil
}

// Sessions lists the user's sessions, newest activity first, briefly
// cached since the dashboard polls this.
func (s *ChatService) Sessions(ctx context.Context, userID string) ([]models.SessionSummary, error) {
	if cached, ok := s.previews.Get(userID); ok {
		if summaries, ok := cached.([]models.SessionSummary); ok {
			return summaries, nil
		}
	}

	summaries, err := s.history.SessionSummaries(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.previews.SetDefault(userID, summaries)
	return summaries, nil
}

// Messages returns a session's full transcript
func (s *ChatService) Messages(ctx context.Context, userID, sessionID string) ([]models.ChatMessage, error) {
	return s.history.MessagesBySession(ctx, userID, sessionID, 0)
}

// Sync reconciles a client-held transcript against the stored one. A
// fetch that loses the race to a newer fetch for the same session is
// discarded rather than applied on top of it.
func (s *ChatService) Sync(ctx context.Context, userID, sessionID string, local []models.ChatMessage) ([]models.ChatMessage, error) {
	token := s.engine.Begin(sessionID)

	server, err := s.history.MessagesBySession(ctx, userID, sessionID, 0)
	if err != nil {
		return nil, err
	}

	if !s.engine.Current(token) {
		RecordStaleFetch()
		return nil, ErrStaleSync
	}

	// Client payloads are untrusted; pin ownership before merging.
	for i := range local {
		local[i].UserID = userID
		local[i].SessionID = sessionID
	}

	merged := reconcile.Merge(local, server)
	if err := s.history.UpsertMessages(ctx, merged); err != nil {
		return nil, err
	}

	s.previews.Delete(userID)
	RecordSyncMerge()
	return merged, nil
}

// DeleteSession removes a session and its messages
func (s *ChatService) DeleteSession(ctx context.Context, userID, sessionID string) (int64, error) {
	deleted, err := s.history.DeleteSession(ctx, userID, sessionID)
	if err != nil {
		return 0, err
	}
	s.engine.Forget(sessionID)
	s.previews.Delete(userID)
	return deleted, nil
}
