package fitness

import (
	"time"

	"purpleos/internal/models"
)

// Fatigue model constants. Each logged session adds a fixed load that
// decays linearly with time since the session.
const (
	SessionLoad    = 50.0
	DecayPerDay    = 25.0
	FatigueCap     = 100.0
	thresholdRecov = 26.0
	thresholdCrit  = 75.0
)

// Fatigue bands
const (
	BandFresh      = "FRESH"
	BandRecovering = "RECOVERING"
	BandCritical   = "CRITICAL"
)

// FatigueReport is the computed recovery snapshot
type FatigueReport struct {
	Score float64 `json:"score"`
	Band  string  `json:"band"`
}

// WeekStart returns the Monday 00:00 boundary of the week containing t,
// in t's location.
func WeekStart(t time.Time) time.Time {
	daysSinceMonday := (int(t.Weekday()) + 6) % 7
	day := t.AddDate(0, 0, -daysSinceMonday)
	return time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, t.Location())
}

// Fatigue scores recovery load from this week's sessions. Each session
// starts at SessionLoad and decays by DecayPerDay for every 24 hours
// elapsed, floored at zero; the sum is capped at FatigueCap. Sessions
// before the current week's Monday boundary are ignored.
func Fatigue(history []models.WorkoutHistoryItem, now time.Time) FatigueReport {
	weekStart := WeekStart(now)

	total := 0.0
	for _, item := range history {
		if item.Date.Before(weekStart) || item.Date.After(now) {
			continue
		}
		elapsed := now.Sub(item.Date).Hours() / 24.0
		load := SessionLoad - DecayPerDay*elapsed
		if load <= 0 {
			continue
		}
		total += load
	}
	if total > FatigueCap {
		total = FatigueCap
	}

	return FatigueReport{Score: total, Band: bandFor(total)}
}

func bandFor(score float64) string {
	switch {
	case score >= thresholdCrit:
		return BandCritical
	case score >= thresholdRecov:
		return BandRecovering
	default:
		return BandFresh
	}
}

// AdherenceReport compares completed sessions against the plan
type AdherenceReport struct {
	Completed int     `json:"completed"`
	Planned   int     `json:"planned"`
	Percent   float64 `json:"percent"`
}

// Adherence measures this week's completed sessions against the plan's
// weekly target. Percent is capped at 100 even when the user trains
// beyond the plan.
func Adherence(history []models.WorkoutHistoryItem, plannedPerWeek int, now time.Time) AdherenceReport {
	weekStart := WeekStart(now)

	completed := 0
	for _, item := range history {
		if item.Date.Before(weekStart) || item.Date.After(now) {
			continue
		}
		completed++
	}

	report := AdherenceReport{Completed: completed, Planned: plannedPerWeek}
	if plannedPerWeek > 0 {
		report.Percent = float64(completed) / float64(plannedPerWeek) * 100.0
		if report.Percent > 100 {
			report.Percent = 100
		}
	}
	return report
}
