package services

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"purpleos/internal/models"

	"google.golang.org/genai"
)

// GeminiService talks to the Gemini API for chat completion and audio
// transcription.
type GeminiService struct {
	client *genai.Client
	model  string
}

// NewGeminiService creates a Gemini client
func NewGeminiService(ctx context.Context, apiKey, model string) (*GeminiService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("Gemini API key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiService{client: client, model: model}, nil
}

// Complete runs one chat turn. History goes in as alternating contents,
// the new user message last, optionally with an inline attachment
// decoded from its data URI.
func (s *GeminiService) Complete(ctx context.Context, systemPrompt string, history []models.ChatMessage, userContent, attachment string) (string, error) {
	contents := make([]*genai.Content, 0, len(history)+1)
	for _, m := range history {
		role := genai.Role(genai.RoleUser)
		if m.Role == models.RoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(m.Content, role))
	}

	parts := []*genai.Part{genai.NewPartFromText(userContent)}
	if attachment != "" {
		data, mimeType, err := decodeDataURI(attachment)
		if err != nil {
			return "", fmt.Errorf("invalid attachment: %w", err)
		}
		parts = append(parts, genai.NewPartFromBytes(data, mimeType))
	}
	contents = append(contents, genai.NewContentFromParts(parts, genai.RoleUser))

	result, err := s.client.Models.GenerateContent(ctx, s.model, contents, &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
	})
	if err != nil {
		return "", fmt.Errorf("Gemini completion failed: %w", err)
	}

	text := result.Text()
	if text == "" {
		return "", fmt.Errorf("Gemini returned an empty response")
	}
	return text, nil
}

// Transcribe converts base64 audio to text
func (s *GeminiService) Transcribe(ctx context.Context, audioB64, mimeType string) (string, error) {
	if mimeType == "" {
		mimeType = "audio/webm"
	}

	data, err := base64.StdEncoding.DecodeString(audioB64)
	if err != nil {
		return "", fmt.Errorf("invalid audio payload: %w", err)
	}

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromText("Transcribe this audio exactly. Return only the transcription text."),
			genai.NewPartFromBytes(data, mimeType),
		}, genai.RoleUser),
	}

	result, err := s.client.Models.GenerateContent(ctx, s.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("Gemini transcription failed: %w", err)
	}
	return strings.TrimSpace(result.Text()), nil
}

// decodeDataURI splits "data:<mime>;base64,<payload>" into its bytes and
// mime type.
func decodeDataURI(uri string) ([]byte, string, error) {
	if !strings.HasPrefix(uri, "data:") {
		return nil, "", fmt.Errorf("not a data URI")
	}
	rest := strings.TrimPrefix(uri, "data:")

	sep := strings.Index(rest, ",")
	if sep < 0 {
		return nil, "", fmt.Errorf("missing data URI payload")
	}
	meta, payload := rest[:sep], rest[sep+1:]

	mimeType := strings.TrimSuffix(meta, ";base64")
	if mimeType == meta {
		return nil, "", fmt.Errorf("only base64 data URIs are supported")
	}
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("invalid base64 payload: %w", err)
	}
	return data, mimeType, nil
}
