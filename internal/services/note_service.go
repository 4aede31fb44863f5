package services

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"purpleos/internal/crypto"
	"purpleos/internal/database"
	"purpleos/internal/models"

	"github.com/google/uuid"
)

// NoteService manages journal entries. Entries flagged is_encrypted are
// stored as AES-GCM ciphertext and decrypted transparently on read.
type NoteService struct {
	db         *database.DB
	encryption *crypto.EncryptionService
}

// NewNoteService creates a new note service. encryption may be nil, in
// which case is_encrypted entries are rejected rather than silently
// stored in the clear.
func NewNoteService(db *database.DB, encryption *crypto.EncryptionService) *NoteService {
	return &NoteService{db: db, encryption: encryption}
}

// Create inserts a new journal entry
func (s *NoteService) Create(ctx context.Context, userID string, req *models.UpsertNoteRequest) (*models.Note, error) {
	note := &models.Note{
		ID:          uuid.NewString(),
		UserID:      userID,
		Title:       req.Title,
		Content:     req.Content,
		Mood:        req.Mood,
		IsEncrypted: req.IsEncrypted,
		CreatedAt:   time.Now(),
	}
	if note.Mood == "" {
		note.Mood = models.MoodZen
	}

	stored := note.Content
	if note.IsEncrypted {
		var err error
		stored, err = s.encryptContent(userID, note.Content)
		if err != nil {
			return nil, err
		}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO neural_logs (id, user_id, title, content, mood, is_encrypted, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		note.ID, note.UserID, note.Title, stored, note.Mood, note.IsEncrypted, note.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert note: %w", err)
	}

	return note, nil
}

// Update edits an existing entry, re-encrypting if needed
func (s *NoteService) Update(ctx context.Context, userID, id string, req *models.UpsertNoteRequest) (*models.Note, error) {
	stored := req.Content
	if req.IsEncrypted {
		var err error
		stored, err = s.encryptContent(userID, req.Content)
		if err != nil {
			return nil, err
		}
	}
	mood := req.Mood
	if mood == "" {
		mood = models.MoodZen
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE neural_logs SET title = ?, content = ?, mood = ?, is_encrypted = ?
		WHERE id = ? AND user_id = ?`,
		req.Title, stored, mood, req.IsEncrypted, id, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to update note: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, sql.ErrNoRows
	}

	return &models.Note{
		ID:          id,
		UserID:      userID,
		Title:       req.Title,
		Content:     req.Content,
		Mood:        mood,
		IsEncrypted: req.IsEncrypted,
	}, nil
}

// List returns the user's entries, newest first, with encrypted content
// decrypted. Entries that fail to decrypt surface with empty content
// rather than failing the whole listing.
func (s *NoteService) List(ctx context.Context, userID string) ([]models.Note, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, title, content, mood, is_encrypted, created_at
		FROM neural_logs WHERE user_id = ? ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query notes: %w", err)
	}
	defer rows.Close()

	var notes []models.Note
	for rows.Next() {
		var n models.Note
		var content sql.NullString
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &content, &n.Mood, &n.IsEncrypted, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan note: %w", err)
		}
		n.Content = content.String

		if n.IsEncrypted && s.encryption != nil {
			plaintext, err := s.encryption.DecryptString(userID, n.Content)
			if err != nil {
				log.Printf("⚠️ [NOTES] Failed to decrypt note %s: %v", n.ID, err)
				n.Content = ""
			} else {
				n.Content = plaintext
			}
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

// Delete removes one entry
func (s *NoteService) Delete(ctx context.Context, userID, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM neural_logs WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (s *NoteService) encryptContent(userID, content string) (string, error) {
	if s.encryption == nil {
		return "", fmt.Errorf("encryption not configured, cannot store encrypted note")
	}
	ciphertext, err := s.encryption.EncryptString(userID, content)
	if err != nil {
		return "", fmt.Errorf("failed to encrypt note content: %w", err)
	}
	return ciphertext, nil
}
