package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"purpleos/internal/database"
	"purpleos/internal/models"
)

// weightHistoryLen is how many synced weight entries are retained
const weightHistoryLen = 7

// StatsService owns the single per-user stat row: XP, level, streak,
// focus time, hydration and weight. All day-boundary logic (streak
// advance, hydration reset) lives here so every caller sees rolled-over
// values.
type StatsService struct {
	db *database.DB
}

// NewStatsService creates a new stats service
func NewStatsService(db *database.DB) *StatsService {
	return &StatsService{db: db}
}

// Get loads the user's stats, creating the default row on first touch
// and applying the daily rollover (streak + hydration) before returning.
func (s *StatsService) Get(ctx context.Context, userID string) (*models.UserStats, error) {
	stats, err := s.load(ctx, userID)
	if err == sql.ErrNoRows {
		return s.createDefault(ctx, userID)
	}
	if err != nil {
		return nil, err
	}

	if s.rollover(stats, time.Now()) {
		if err := s.save(ctx, stats); err != nil {
			return nil, err
		}
	}
	return stats, nil
}

// AddXP applies a signed XP delta (floored at zero) and recomputes level
func (s *StatsService) AddXP(ctx context.Context, userID string, delta int) (*models.UserStats, error) {
	stats, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	stats.XP += delta
	if stats.XP < 0 {
		stats.XP = 0
	}
	stats.Level = models.LevelForXP(stats.XP)

	if err := s.save(ctx, stats); err != nil {
		return nil, err
	}
	return stats, nil
}

// AdjustHydration changes today's hydration by a signed ml amount,
// clamped to [0, cap]. The daily reset happens in Get before the
// adjustment applies.
func (s *StatsService) AdjustHydration(ctx context.Context, userID string, amount int) (*models.UserStats, error) {
	stats, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	stats.HydrationCurrent += amount
	if stats.HydrationCurrent < 0 {
		stats.HydrationCurrent = 0
	}
	if stats.HydrationCurrent > models.HydrationDailyCap {
		stats.HydrationCurrent = models.HydrationDailyCap
	}

	if err := s.save(ctx, stats); err != nil {
		return nil, err
	}
	return stats, nil
}

// RecordFocus credits a finished focus session: accumulated seconds plus
// the session's XP reward in one write.
func (s *StatsService) RecordFocus(ctx context.Context, userID string, seconds, xpReward int) (*models.UserStats, error) {
	stats, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	stats.FocusTime += seconds
	stats.XP += xpReward
	stats.Level = models.LevelForXP(stats.XP)

	if err := s.save(ctx, stats); err != nil {
		return nil, err
	}
	return stats, nil
}

// RecordFocusComplete adapts RecordFocus to the focus manager's sink.
// The manager emits only the not-yet-checkpointed remainder as seconds.
func (s *StatsService) RecordFocusComplete(ctx context.Context, userID string, seconds, xpReward int) error {
	_, err := s.RecordFocus(ctx, userID, seconds, xpReward)
	return err
}

// CheckpointFocus persists an in-flight session's progress. Only the
// seconds delta since the previous checkpoint is passed in, so replays
// of the same checkpoint are harmless.
func (s *StatsService) CheckpointFocus(ctx context.Context, userID string, secondsDelta int) error {
	if secondsDelta <= 0 {
		return nil
	}
	_, err := s.db.ExecContext(ctx,
		`UPDATE user_stats SET focus_time = focus_time + ? WHERE user_id = ?`,
		secondsDelta, userID)
	if err != nil {
		return fmt.Errorf("failed to checkpoint focus time: %w", err)
	}
	return nil
}

// SyncWeight records a new body weight, keeping the last few entries
func (s *StatsService) SyncWeight(ctx context.Context, userID string, weight float64) (*models.UserStats, error) {
	stats, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	stats.CurrentWeight = weight
	stats.WeightHistory = append(stats.WeightHistory, weight)
	if len(stats.WeightHistory) > weightHistoryLen {
		stats.WeightHistory = stats.WeightHistory[len(stats.WeightHistory)-weightHistoryLen:]
	}

	if err := s.save(ctx, stats); err != nil {
		return nil, err
	}
	return stats, nil
}

// RolloverAll applies the daily rollover to every stored user. Run by
// the scheduled job shortly after midnight so streaks and hydration are
// correct even for users who have not loaded the dashboard yet.
func (s *StatsService) RolloverAll(ctx context.Context) (int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT user_id FROM user_stats`)
	if err != nil {
		return 0, fmt.Errorf("failed to query users for rollover: %w", err)
	}
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return 0, err
		}
		ids = append(ids, id)
	}
	rows.Close()

	count := 0
	for _, id := range ids {
		if _, err := s.Get(ctx, id); err != nil {
			log.Printf("⚠️ [STATS] Rollover failed for user %s: %v", id, err)
			continue
		}
		count++
	}
	return count, nil
}

// rollover applies day-boundary rules in place. Returns true if anything
// changed. Streak: advance when the last visit was exactly yesterday,
// keep when it was today, otherwise reset to 1. Hydration resets to zero
// on the first touch of a new day.
func (s *StatsService) rollover(stats *models.UserStats, now time.Time) bool {
	today := now.Format("2006-01-02")
	yesterday := now.AddDate(0, 0, -1).Format("2006-01-02")
	changed := false

	if stats.LastVisit != today {
		if stats.LastVisit == yesterday {
			stats.Streak++
		} else {
			stats.Streak = 1
		}
		stats.LastVisit = today
		changed = true
	}

	if stats.HydrationDate != today {
		stats.HydrationCurrent = 0
		stats.HydrationDate = today
		changed = true
	}

	return changed
}

func (s *StatsService) load(ctx context.Context, userID string) (*models.UserStats, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT user_id, xp, level, streak, focus_time, last_visit,
		       hydration_current, hydration_date, current_weight, weight_history
		FROM user_stats WHERE user_id = ?`, userID)

	var stats models.UserStats
	var lastVisit, hydrationDate sql.NullString
	var weightHistory []byte
	err := row.Scan(&stats.UserID, &stats.XP, &stats.Level, &stats.Streak, &stats.FocusTime,
		&lastVisit, &stats.HydrationCurrent, &hydrationDate, &stats.CurrentWeight, &weightHistory)
	if err != nil {
		return nil, err
	}
	stats.LastVisit = lastVisit.String
	stats.HydrationDate = hydrationDate.String

	if len(weightHistory) > 0 {
		if err := json.Unmarshal(weightHistory, &stats.WeightHistory); err != nil {
			log.Printf("⚠️ [STATS] Corrupt weight history for user %s: %v", userID, err)
			stats.WeightHistory = nil
		}
	}
	return &stats, nil
}

func (s *StatsService) createDefault(ctx context.Context, userID string) (*models.UserStats, error) {
	today := time.Now().Format("2006-01-02")
	stats := &models.UserStats{
		UserID:        userID,
		XP:            0,
		Level:         1,
		Streak:        1,
		LastVisit:     today,
		HydrationDate: today,
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO user_stats (user_id, xp, level, streak, focus_time, last_visit,
		                        hydration_current, hydration_date, current_weight, weight_history)
		VALUES (?, 0, 1, 1, 0, ?, 0, ?, 0, JSON_ARRAY())`,
		userID, today, today)
	if err != nil {
		return nil, fmt.Errorf("failed to create stats row: %w", err)
	}
	return stats, nil
}

func (s *StatsService) save(ctx context.Context, stats *models.UserStats) error {
	history, err := json.Marshal(stats.WeightHistory)
	if err != nil {
		return fmt.Errorf("failed to marshal weight history: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		UPDATE user_stats
		SET xp = ?, level = ?, streak = ?, focus_time = ?, last_visit = ?,
		    hydration_current = ?, hydration_date = ?, current_weight = ?, weight_history = ?
		WHERE user_id = ?`,
		stats.XP, stats.Level, stats.Streak, stats.FocusTime, stats.LastVisit,
		stats.HydrationCurrent, stats.HydrationDate, stats.CurrentWeight, history,
		stats.UserID)
	if err != nil {
		return fmt.Errorf("failed to save stats: %w", err)
	}
	return nil
}
