package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"purpleos/internal/database"
	"purpleos/internal/models"

	"github.com/google/uuid"
)

// ScheduleService manages the hourly calendar blocks
type ScheduleService struct {
	db *database.DB
}

// NewScheduleService creates a new schedule service
func NewScheduleService(db *database.DB) *ScheduleService {
	return &ScheduleService{db: db}
}

// Create adds a block. Missing date defaults to today, missing type to WORK.
func (s *ScheduleService) Create(ctx context.Context, userID string, req *models.CreateScheduleRequest) (*models.ScheduleBlock, error) {
	block := &models.ScheduleBlock{
		ID:        uuid.NewString(),
		UserID:    userID,
		Title:     req.Title,
		StartTime: req.StartTime,
		Type:      req.Type,
		Date:      req.Date,
		CreatedAt: time.Now(),
	}
	if block.Type == "" {
		block.Type = models.BlockTypeWork
	}
	if block.Date == "" {
		block.Date = time.Now().Format("2006-01-02")
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO schedule_blocks (id, user_id, title, start_time, type, date, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		block.ID, block.UserID, block.Title, block.StartTime, block.Type, block.Date, block.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert schedule block: %w", err)
	}

	return block, nil
}

// ListByDate returns the blocks for one calendar day, ordered by start time
func (s *ScheduleService) ListByDate(ctx context.Context, userID, date string) ([]models.ScheduleBlock, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, title, start_time, type, date, created_at
		FROM schedule_blocks WHERE user_id = ? AND date = ? ORDER BY start_time ASC`,
		userID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to query schedule blocks: %w", err)
	}
	defer rows.Close()

	var blocks []models.ScheduleBlock
	for rows.Next() {
		var b models.ScheduleBlock
		if err := rows.Scan(&b.ID, &b.UserID, &b.Title, &b.StartTime, &b.Type, &b.Date, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan schedule block: %w", err)
		}
		blocks = append(blocks, b)
	}
	return blocks, rows.Err()
}

// Delete removes one block by id
func (s *ScheduleService) Delete(ctx context.Context, userID, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM schedule_blocks WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete schedule block: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeleteByKeyword removes the first block on the given date whose title
// matches the keyword, case-insensitively. The agent's DELETE_SCHEDULE
// action targets a single block, unlike the bulk task delete.
func (s *ScheduleService) DeleteByKeyword(ctx context.Context, userID, date, keyword string) (bool, error) {
	block, err := s.findFirst(ctx, userID, date, keyword)
	if err != nil {
		return false, err
	}
	if block == nil {
		return false, nil
	}
	if err := s.Delete(ctx, userID, block.ID); err != nil {
		return false, err
	}
	return true, nil
}

// Reschedule moves the first matching block on a date to a new start
// hour, and optionally to a different day when newDate is non-empty.
func (s *ScheduleService) Reschedule(ctx context.Context, userID, date, keyword, newTime, newDate string) (*models.ScheduleBlock, error) {
	block, err := s.findFirst(ctx, userID, date, keyword)
	if err != nil {
		return nil, err
	}
	if block == nil {
		return nil, nil
	}
	if newDate == "" {
		newDate = block.Date
	}

	_, err = s.db.ExecContext(ctx, `UPDATE schedule_blocks SET start_time = ?, date = ? WHERE id = ? AND user_id = ?`,
		newTime, newDate, block.ID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to reschedule block: %w", err)
	}
	block.StartTime = newTime
	block.Date = newDate
	return block, nil
}

func (s *ScheduleService) findFirst(ctx context.Context, userID, date, keyword string) (*models.ScheduleBlock, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, title, start_time, type, date, created_at
		FROM schedule_blocks
		WHERE user_id = ? AND date = ? AND LOWER(title) LIKE ?
		ORDER BY start_time ASC LIMIT 1`,
		userID, date, "%"+strings.ToLower(keyword)+"%")

	var b models.ScheduleBlock
	err := row.Scan(&b.ID, &b.UserID, &b.Title, &b.StartTime, &b.Type, &b.Date, &b.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find schedule block: %w", err)
	}
	return &b, nil
}
