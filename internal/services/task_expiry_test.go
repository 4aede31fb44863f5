package services

import (
	"testing"
	"time"

	"purpleos/internal/models"
)

func TestExpired(t *testing.T) {
	// Fixed "now" mid-day so day boundaries are unambiguous.
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		frequency string
		createdAt time.Time
		want      bool
	}{
		{
			name:      "daily created today survives",
			frequency: models.FrequencyDaily,
			createdAt: time.Date(2026, 8, 30, 0, 0, 1, 0, time.UTC),
			want:      false,
		},
		{
			name:      "daily created just before midnight expires",
			frequency: models.FrequencyDaily,
			createdAt: time.Date(2026, 8, 29, 23, 59, 59, 0, time.UTC),
			want:      true,
		},
		{
			name:      "weekly one second under the limit survives",
			frequency: models.FrequencyWeekly,
			createdAt: now.Add(-7*24*time.Hour + time.Second),
			want:      false,
		},
		{
			name:      "weekly exactly at the limit survives",
			frequency: models.FrequencyWeekly,
			createdAt: now.Add(-7 * 24 * time.Hour),
			want:      false,
		},
		{
			name:      "weekly one second over the limit expires",
			frequency: models.FrequencyWeekly,
			createdAt: now.Add(-7*24*time.Hour - time.Second),
			want:      true,
		},
		{
			name:      "monthly within thirty days survives",
			frequency: models.FrequencyMonthly,
			createdAt: now.Add(-29 * 24 * time.Hour),
			want:      false,
		},
		{
			name:      "monthly past thirty days expires",
			frequency: models.FrequencyMonthly,
			createdAt: now.Add(-30*24*time.Hour - time.Second),
			want:      true,
		},
		{
			name:      "empty frequency treated as daily",
			frequency: "",
			createdAt: time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC),
			want:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := models.Task{Frequency: tt.frequency, CreatedAt: tt.createdAt}
			if got := Expired(task, now); got != tt.want {
				t.Errorf("Expired() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExpiredLegacyCompoundCategory(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	// A legacy row carries frequency inside the category; a weekly task
	// created yesterday must not be treated as daily.
	task := models.Task{
		Category:  "WEEKLY::WORK",
		CreatedAt: now.Add(-24 * time.Hour),
	}
	if Expired(task, now) {
		t.Error("legacy weekly task expired as if daily")
	}
}

func TestPartitionExpired(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	tasks := []models.Task{
		{ID: "live", Frequency: models.FrequencyDaily, CreatedAt: now.Add(-time.Hour)},
		{ID: "dead-1", Frequency: models.FrequencyDaily, CreatedAt: now.Add(-24 * time.Hour)},
		{ID: "dead-2", Frequency: models.FrequencyWeekly, CreatedAt: now.Add(-8 * 24 * time.Hour)},
	}

	kept, expired := partitionExpired(tasks, now)
	if len(kept) != 1 || kept[0].ID != "live" {
		t.Errorf("kept = %+v", kept)
	}
	if len(expired) != 2 {
		t.Fatalf("expired %d ids, want 2", len(expired))
	}
}

func TestDecodeLegacyCategory(t *testing.T) {
	task := models.Task{Category: "WEEKLY::GYM"}
	decodeLegacyCategory(&task)
	if task.Frequency != models.FrequencyWeekly || task.Category != models.CategoryGym {
		t.Errorf("got frequency %q category %q", task.Frequency, task.Category)
	}

	bare := models.Task{Category: "WORK"}
	decodeLegacyCategory(&bare)
	if bare.Frequency != models.FrequencyDaily || bare.Category != models.CategoryWork {
		t.Errorf("bare category: got frequency %q category %q", bare.Frequency, bare.Category)
	}
}
