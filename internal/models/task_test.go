package models

import "testing"

func TestEncodeDecodeCategory(t *testing.T) {
	tests := []struct {
		name          string
		stored        string
		wantFrequency string
		wantCategory  string
	}{
		{"compound weekly", "WEEKLY::WORK", FrequencyWeekly, CategoryWork},
		{"compound monthly", "MONTHLY::GYM", FrequencyMonthly, CategoryGym},
		{"bare category defaults to daily", "WORK", FrequencyDaily, CategoryWork},
		{"empty frequency side defaults to daily", "::PERSONAL", FrequencyDaily, CategoryPersonal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			freq, cat := DecodeCategory(tt.stored)
			if freq != tt.wantFrequency || cat != tt.wantCategory {
				t.Errorf("DecodeCategory(%q) = (%q, %q), want (%q, %q)",
					tt.stored, freq, cat, tt.wantFrequency, tt.wantCategory)
			}
		})
	}
}

func TestEncodeCategoryRoundTrip(t *testing.T) {
	encoded := EncodeCategory(FrequencyWeekly, CategoryWork)
	if encoded != "WEEKLY::WORK" {
		t.Fatalf("EncodeCategory = %q", encoded)
	}
	freq, cat := DecodeCategory(encoded)
	if freq != FrequencyWeekly || cat != CategoryWork {
		t.Errorf("round trip lost data: (%q, %q)", freq, cat)
	}

	// Empty frequency encodes as daily.
	if got := EncodeCategory("", CategorySystem); got != "DAILY::SYSTEM" {
		t.Errorf("EncodeCategory with empty frequency = %q", got)
	}
}

func TestParseQuickTags(t *testing.T) {
	tests := []struct {
		input        string
		wantTitle    string
		wantCategory string
	}{
		{"Bench press /gym", "Bench press", CategoryGym},
		{"/work Finish the report", "Finish the report", CategoryWork},
		{"Call mom /PERSONAL", "Call mom", CategoryPersonal},
		{"Study for exam /school", "Study for exam", CategorySchool},
		{"No tag here", "No tag here", CategorySystem},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			title, category := ParseQuickTags(tt.input)
			if title != tt.wantTitle || category != tt.wantCategory {
				t.Errorf("ParseQuickTags(%q) = (%q, %q), want (%q, %q)",
					tt.input, title, category, tt.wantTitle, tt.wantCategory)
			}
		})
	}
}

func TestLevelForXP(t *testing.T) {
	tests := []struct {
		xp   int
		want int
	}{
		{0, 1},
		{499, 1},
		{500, 2},
		{1250, 3},
		{-10, 1},
	}
	for _, tt := range tests {
		if got := LevelForXP(tt.xp); got != tt.want {
			t.Errorf("LevelForXP(%d) = %d, want %d", tt.xp, got, tt.want)
		}
	}
}
