package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"purpleos/internal/database"
	"purpleos/internal/models"

	"github.com/google/uuid"
)

// trackedLifts are the exercises surfaced as personal records
var trackedLifts = []string{"Bench Press", "Squat", "Deadlift"}

// TrainingService manages workout logs, derived personal records and
// physique progress entries.
type TrainingService struct {
	db *database.DB
}

// NewTrainingService creates a new training service
func NewTrainingService(db *database.DB) *TrainingService {
	return &TrainingService{db: db}
}

// LogWorkout records a completed session
func (s *TrainingService) LogWorkout(ctx context.Context, userID string, req *models.CreateWorkoutRequest) (*models.WorkoutLog, error) {
	workout := &models.WorkoutLog{
		ID:          uuid.NewString(),
		UserID:      userID,
		SessionName: req.SessionName,
		TotalVolume: req.TotalVolume,
		Exercises:   req.Exercises,
		Date:        time.Now(),
	}

	exercises, err := json.Marshal(workout.Exercises)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal exercises: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO training_logs (id, user_id, session_name, total_volume, exercises, date)
		VALUES (?, ?, ?, ?, ?, ?)`,
		workout.ID, workout.UserID, workout.SessionName, workout.TotalVolume, exercises, workout.Date)
	if err != nil {
		return nil, fmt.Errorf("failed to insert workout: %w", err)
	}

	return workout, nil
}

// RecentWorkouts returns the newest sessions up to limit
func (s *TrainingService) RecentWorkouts(ctx context.Context, userID string, limit int) ([]models.WorkoutLog, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, session_name, total_volume, exercises, date
		FROM training_logs WHERE user_id = ? ORDER BY date DESC LIMIT ?`,
		userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query workouts: %w", err)
	}
	defer rows.Close()
	return scanWorkouts(rows)
}

// History returns the lightweight date + session view used by the
// fatigue and adherence estimators, newest first, bounded by since.
func (s *TrainingService) History(ctx context.Context, userID string, since time.Time) ([]models.WorkoutHistoryItem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT date, session_name FROM training_logs
		WHERE user_id = ? AND date >= ? ORDER BY date DESC`,
		userID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query workout history: %w", err)
	}
	defer rows.Close()

	var items []models.WorkoutHistoryItem
	for rows.Next() {
		var item models.WorkoutHistoryItem
		if err := rows.Scan(&item.Date, &item.SessionName); err != nil {
			return nil, fmt.Errorf("failed to scan history item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// PersonalRecords derives the best tracked lifts from the full workout
// history. Records are never persisted; they are recomputed on demand.
func (s *TrainingService) PersonalRecords(ctx context.Context, userID string) ([]models.PersonalRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, session_name, total_volume, exercises, date
		FROM training_logs WHERE user_id = ? ORDER BY date ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query workouts for records: %w", err)
	}
	defer rows.Close()

	workouts, err := scanWorkouts(rows)
	if err != nil {
		return nil, err
	}

	best := make(map[string]models.PersonalRecord)
	for _, w := range workouts {
		for _, ex := range w.Exercises {
			for _, lift := range trackedLifts {
				if !strings.EqualFold(ex.Name, lift) {
					continue
				}
				if current, ok := best[lift]; !ok || ex.Weight > current.Weight {
					best[lift] = models.PersonalRecord{Name: lift, Weight: ex.Weight, Date: w.Date}
				}
			}
		}
	}

	records := make([]models.PersonalRecord, 0, len(trackedLifts))
	for _, lift := range trackedLifts {
		if record, ok := best[lift]; ok {
			records = append(records, record)
		}
	}
	return records, nil
}

// AddPhysiqueEntry stores a progress photo with the stat snapshot taken
// at that moment.
func (s *TrainingService) AddPhysiqueEntry(ctx context.Context, userID string, req *models.CreatePhysiqueRequest, stats models.PhysiqueStats) (*models.PhysiqueEntry, error) {
	entry := &models.PhysiqueEntry{
		ID:       uuid.NewString(),
		UserID:   userID,
		Date:     req.Date,
		ImageURL: req.ImageURL,
		Stats:    stats,
	}

	statsJSON, err := json.Marshal(entry.Stats)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal physique stats: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO physique_logs (id, user_id, date, image_url, stats)
		VALUES (?, ?, ?, ?, ?)`,
		entry.ID, entry.UserID, entry.Date, entry.ImageURL, statsJSON)
	if err != nil {
		return nil, fmt.Errorf("failed to insert physique entry: %w", err)
	}

	return entry, nil
}

// ListPhysiqueEntries returns all progress entries, newest first
func (s *TrainingService) ListPhysiqueEntries(ctx context.Context, userID string) ([]models.PhysiqueEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, date, image_url, stats
		FROM physique_logs WHERE user_id = ? ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query physique entries: %w", err)
	}
	defer rows.Close()

	var entries []models.PhysiqueEntry
	for rows.Next() {
		var e models.PhysiqueEntry
		var imageURL sql.NullString
		var statsJSON []byte
		if err := rows.Scan(&e.ID, &e.UserID, &e.Date, &imageURL, &statsJSON); err != nil {
			return nil, fmt.Errorf("failed to scan physique entry: %w", err)
		}
		e.ImageURL = imageURL.String
		if len(statsJSON) > 0 {
			if err := json.Unmarshal(statsJSON, &e.Stats); err != nil {
				log.Printf("⚠️ [TRAINING] Corrupt stats on physique entry %s: %v", e.ID, err)
			}
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// DeletePhysiqueEntry removes one progress entry
func (s *TrainingService) DeletePhysiqueEntry(ctx context.Context, userID, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM physique_logs WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete physique entry: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func scanWorkouts(rows *sql.Rows) ([]models.WorkoutLog, error) {
	var workouts []models.WorkoutLog
	for rows.Next() {
		var w models.WorkoutLog
		var exercises []byte
		if err := rows.Scan(&w.ID, &w.UserID, &w.SessionName, &w.TotalVolume, &exercises, &w.Date); err != nil {
			return nil, fmt.Errorf("failed to scan workout: %w", err)
		}
		if len(exercises) > 0 {
			if err := json.Unmarshal(exercises, &w.Exercises); err != nil {
				log.Printf("⚠️ [TRAINING] Corrupt exercises on workout %s: %v", w.ID, err)
			}
		}
		workouts = append(workouts, w)
	}
	return workouts, rows.Err()
}
