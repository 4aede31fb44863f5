package fitness

import (
	"testing"
	"time"

	"purpleos/internal/models"
)

// Sunday mid-day; the week started Monday the 24th.
var now = time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

func session(at time.Time) models.WorkoutHistoryItem {
	return models.WorkoutHistoryItem{Date: at, SessionName: "Push A"}
}

func TestWeekStart(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{"sunday maps back to monday", now, time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)},
		{"monday maps to itself", time.Date(2026, 8, 24, 15, 0, 0, 0, time.UTC), time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)},
		{"monday midnight is its own boundary", time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC), time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WeekStart(tt.in); !got.Equal(tt.want) {
				t.Errorf("WeekStart(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestFatigue(t *testing.T) {
	tests := []struct {
		name      string
		history   []models.WorkoutHistoryItem
		wantScore float64
		wantBand  string
	}{
		{
			name:      "no sessions is fresh",
			wantScore: 0,
			wantBand:  BandFresh,
		},
		{
			name:      "fresh session carries full load",
			history:   []models.WorkoutHistoryItem{session(now)},
			wantScore: 50,
			wantBand:  BandRecovering,
		},
		{
			name:      "day-old session decayed to half load",
			history:   []models.WorkoutHistoryItem{session(now.Add(-24 * time.Hour))},
			wantScore: 25,
			wantBand:  BandFresh,
		},
		{
			name:      "two-day-old session fully decayed",
			history:   []models.WorkoutHistoryItem{session(now.Add(-48 * time.Hour))},
			wantScore: 0,
			wantBand:  BandFresh,
		},
		{
			name: "stacked sessions reach critical",
			history: []models.WorkoutHistoryItem{
				session(now),
				session(now.Add(-2 * time.Hour)),
			},
			wantScore: 50 + 50 - 25.0*2/24,
			wantBand:  BandCritical,
		},
		{
			name: "sum capped at one hundred",
			history: []models.WorkoutHistoryItem{
				session(now), session(now), session(now),
			},
			wantScore: FatigueCap,
			wantBand:  BandCritical,
		},
		{
			name:      "last week's session ignored",
			history:   []models.WorkoutHistoryItem{session(time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC))},
			wantScore: 0,
			wantBand:  BandFresh,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Fatigue(tt.history, now)
			if diff := got.Score - tt.wantScore; diff > 0.001 || diff < -0.001 {
				t.Errorf("score = %v, want %v", got.Score, tt.wantScore)
			}
			if got.Band != tt.wantBand {
				t.Errorf("band = %q, want %q", got.Band, tt.wantBand)
			}
		})
	}
}

func TestAdherence(t *testing.T) {
	history := []models.WorkoutHistoryItem{
		session(now.Add(-2 * 24 * time.Hour)),
		session(now.Add(-4 * 24 * time.Hour)),
		session(now),
	}

	report := Adherence(history, 6, now)
	if report.Completed != 3 || report.Planned != 6 {
		t.Fatalf("completed/planned = %d/%d", report.Completed, report.Planned)
	}
	if report.Percent != 50 {
		t.Errorf("percent = %v, want 50", report.Percent)
	}
}

func TestAdherenceCapsAtHundred(t *testing.T) {
	history := []models.WorkoutHistoryItem{
		session(now), session(now), session(now), session(now),
	}
	report := Adherence(history, 2, now)
	if report.Percent != 100 {
		t.Errorf("percent = %v, want 100", report.Percent)
	}
}

func TestAdherenceZeroPlan(t *testing.T) {
	report := Adherence([]models.WorkoutHistoryItem{session(now)}, 0, now)
	if report.Percent != 0 {
		t.Errorf("percent with no plan = %v, want 0", report.Percent)
	}
}
