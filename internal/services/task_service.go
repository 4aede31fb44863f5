package services

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"
	"time"

	"purpleos/internal/database"
	"purpleos/internal/models"

	"github.com/google/uuid"
)

// TaskService owns task CRUD and the expiry sweep. Expiry is computed at
// sweep time from frequency + creation timestamp and is never stored.
type TaskService struct {
	db *database.DB
}

// NewTaskService creates a new task service
func NewTaskService(db *database.DB) *TaskService {
	return &TaskService{db: db}
}

// Create inserts a new task, filling in defaults for omitted fields
func (s *TaskService) Create(ctx context.Context, userID string, req *models.CreateTaskRequest) (*models.Task, error) {
	if userID == "" {
		return nil, fmt.Errorf("user ID is required")
	}

	task := &models.Task{
		ID:        uuid.NewString(),
		UserID:    userID,
		Title:     req.Title,
		Status:    models.TaskStatusTodo,
		Category:  req.Category,
		Frequency: req.Frequency,
		DueDate:   req.DueDate,
		CreatedAt: time.Now(),
	}
	if task.Category == "" {
		task.Category = models.CategorySystem
	}
	if task.Frequency == "" {
		task.Frequency = models.FrequencyDaily
	}
	if task.DueDate == "" {
		task.DueDate = "Today"
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tasks (id, user_id, title, status, category, frequency, due_date, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		task.ID, task.UserID, task.Title, task.Status, task.Category, task.Frequency, task.DueDate, task.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert task: %w", err)
	}

	return task, nil
}

// List returns the user's live tasks, newest first. Expired tasks are
// swept (batched delete) before anything is surfaced.
func (s *TaskService) List(ctx context.Context, userID string) ([]models.Task, error) {
	tasks, err := s.fetchAll(ctx, userID)
	if err != nil {
		return nil, err
	}

	kept, expired := partitionExpired(tasks, time.Now())
	if len(expired) > 0 {
		if err := s.deleteBatch(ctx, userID, expired); err != nil {
			// Sweep failure degrades to stale data, never to an error page.
			log.Printf("⚠️ [TASKS] Expiry sweep failed for user %s: %v", userID, err)
		} else {
			RecordTasksExpired(len(expired))
			log.Printf("🧹 [TASKS] Swept %d expired tasks for user %s", len(expired), userID)
		}
	}

	return kept, nil
}

// Toggle flips a task's status between TODO and DONE. It never touches
// expiry state.
func (s *TaskService) Toggle(ctx context.Context, userID, id string) (*models.Task, error) {
	task, err := s.get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if task.Status == models.TaskStatusDone {
		task.Status = models.TaskStatusTodo
	} else {
		task.Status = models.TaskStatusDone
	}

	_, err = s.db.ExecContext(ctx, `UPDATE tasks SET status = ? WHERE id = ? AND user_id = ?`,
		task.Status, id, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to toggle task: %w", err)
	}

	return task, nil
}

// UpdateTitle edits a task's title (the only mutable text field)
func (s *TaskService) UpdateTitle(ctx context.Context, userID, id, title string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE tasks SET title = ? WHERE id = ? AND user_id = ?`,
		title, id, userID)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a single task by id
func (s *TaskService) Delete(ctx context.Context, userID, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}

// DeleteByKeyword deletes every task whose title contains the keyword,
// case-insensitively. No limit; the agent's DELETE_TASK action may remove
// several tasks at once.
func (s *TaskService) DeleteByKeyword(ctx context.Context, userID, keyword string) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM tasks WHERE user_id = ? AND LOWER(title) LIKE ?`,
		userID, "%"+strings.ToLower(keyword)+"%")
	if err != nil {
		return 0, fmt.Errorf("failed to delete tasks by keyword: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

// OpenTasks returns up to limit TODO tasks for the context packet
func (s *TaskService) OpenTasks(ctx context.Context, userID string, limit int) ([]models.Task, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, title, status, category, frequency, due_date, created_at
		FROM tasks WHERE user_id = ? AND status = ? ORDER BY created_at DESC LIMIT ?`,
		userID, models.TaskStatusTodo, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query open tasks: %w", err)
	}
	defer rows.Close()
	return scanTasks(rows)
}

// SweepAllUsers runs the expiry sweep across every user. Called by the
// nightly job; the per-request sweep in List covers interactive loads.
func (s *TaskService) SweepAllUsers(ctx context.Context) (int, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, title, status, category, frequency, due_date, created_at
		FROM tasks`)
	if err != nil {
		return 0, fmt.Errorf("failed to query tasks for sweep: %w", err)
	}
	tasks, err := scanTasksClose(rows)
	if err != nil {
		return 0, err
	}

	now := time.Now()
	byUser := make(map[string][]models.Task)
	for _, t := range tasks {
		byUser[t.UserID] = append(byUser[t.UserID], t)
	}

	total := 0
	for userID, userTasks := range byUser {
		_, expired := partitionExpired(userTasks, now)
		if len(expired) == 0 {
			continue
		}
		if err := s.deleteBatch(ctx, userID, expired); err != nil {
			log.Printf("⚠️ [TASKS] Sweep failed for user %s: %v", userID, err)
			continue
		}
		total += len(expired)
	}
	if total > 0 {
		RecordTasksExpired(total)
	}
	return total, nil
}

func (s *TaskService) fetchAll(ctx context.Context, userID string) ([]models.Task, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, title, status, category, frequency, due_date, created_at
		FROM tasks WHERE user_id = ? ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	return scanTasksClose(rows)
}

func (s *TaskService) get(ctx context.Context, userID, id string) (*models.Task, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, title, status, category, frequency, due_date, created_at
		FROM tasks WHERE id = ? AND user_id = ?`, id, userID)

	var t models.Task
	var due sql.NullString
	if err := row.Scan(&t.ID, &t.UserID, &t.Title, &t.Status, &t.Category, &t.Frequency, &due, &t.CreatedAt); err != nil {
		return nil, err
	}
	t.DueDate = due.String
	decodeLegacyCategory(&t)
	return &t, nil
}

func (s *TaskService) deleteBatch(ctx context.Context, userID string, ids []string) error {
	placeholders := strings.Repeat("?,", len(ids))
	placeholders = placeholders[:len(placeholders)-1]

	args := make([]any, 0, len(ids)+1)
	args = append(args, userID)
	for _, id := range ids {
		args = append(args, id)
	}

	_, err := s.db.ExecContext(ctx,
		`DELETE FROM tasks WHERE user_id = ? AND id IN (`+placeholders+`)`, args...)
	return err
}

func scanTasks(rows *sql.Rows) ([]models.Task, error) {
	var tasks []models.Task
	for rows.Next() {
		var t models.Task
		var due sql.NullString
		if err := rows.Scan(&t.ID, &t.UserID, &t.Title, &t.Status, &t.Category, &t.Frequency, &due, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		t.DueDate = due.String
		decodeLegacyCategory(&t)
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func scanTasksClose(rows *sql.Rows) ([]models.Task, error) {
	defer rows.Close()
	return scanTasks(rows)
}

// decodeLegacyCategory splits the legacy compound "FREQUENCY::CATEGORY"
// value on the read path. Rows written by this server already carry the
// two fields separately.
func decodeLegacyCategory(t *models.Task) {
	if strings.Contains(t.Category, "::") {
		t.Frequency, t.Category = models.DecodeCategory(t.Category)
	} else if t.Frequency == "" {
		t.Frequency = models.FrequencyDaily
	}
}

// partitionExpired splits tasks into keep and expire sets. Exported logic
// lives in Expired; this just applies it.
func partitionExpired(tasks []models.Task, now time.Time) (kept []models.Task, expiredIDs []string) {
	for _, t := range tasks {
		if Expired(t, now) {
			expiredIDs = append(expiredIDs, t.ID)
			continue
		}
		kept = append(kept, t)
	}
	return kept, expiredIDs
}

// Expired evaluates the recurrence expiry rule against now:
// DAILY tasks expire once the calendar day they were created on has
// passed; WEEKLY after 7×24h; MONTHLY after 30×24h. The frequency of a
// legacy compound category must be decoded before calling this.
func Expired(t models.Task, now time.Time) bool {
	freq := t.Frequency
	if strings.Contains(t.Category, "::") {
		freq, _ = models.DecodeCategory(t.Category)
	}

	switch freq {
	case models.FrequencyWeekly:
		return now.Sub(t.CreatedAt) > 7*24*time.Hour
	case models.FrequencyMonthly:
		return now.Sub(t.CreatedAt) > 30*24*time.Hour
	default: // DAILY, including legacy rows with no frequency at all
		startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		return t.CreatedAt.Before(startOfDay)
	}
}
