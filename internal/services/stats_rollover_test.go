package services

import (
	"testing"
	"time"

	"purpleos/internal/models"
)

func TestRollover(t *testing.T) {
	now := time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)
	svc := &StatsService{}

	tests := []struct {
		name        string
		stats       models.UserStats
		wantStreak  int
		wantHydr    int
		wantChanged bool
	}{
		{
			name: "visit after yesterday advances streak",
			stats: models.UserStats{
				Streak: 4, LastVisit: "2026-08-29",
				HydrationCurrent: 2000, HydrationDate: "2026-08-29",
			},
			wantStreak: 5, wantHydr: 0, wantChanged: true,
		},
		{
			name: "gap resets streak to one",
			stats: models.UserStats{
				Streak: 12, LastVisit: "2026-08-27",
				HydrationCurrent: 1500, HydrationDate: "2026-08-27",
			},
			wantStreak: 1, wantHydr: 0, wantChanged: true,
		},
		{
			name: "same day changes nothing",
			stats: models.UserStats{
				Streak: 4, LastVisit: "2026-08-30",
				HydrationCurrent: 750, HydrationDate: "2026-08-30",
			},
			wantStreak: 4, wantHydr: 750, wantChanged: false,
		},
		{
			name:       "first visit ever",
			stats:      models.UserStats{Streak: 1},
			wantStreak: 1, wantHydr: 0, wantChanged: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stats := tt.stats
			changed := svc.rollover(&stats, now)
			if changed != tt.wantChanged {
				t.Errorf("changed = %v, want %v", changed, tt.wantChanged)
			}
			if stats.Streak != tt.wantStreak {
				t.Errorf("streak = %d, want %d", stats.Streak, tt.wantStreak)
			}
			if stats.HydrationCurrent != tt.wantHydr {
				t.Errorf("hydration = %d, want %d", stats.HydrationCurrent, tt.wantHydr)
			}
			if stats.LastVisit != "2026-08-30" {
				t.Errorf("last visit = %q", stats.LastVisit)
			}
		})
	}
}
