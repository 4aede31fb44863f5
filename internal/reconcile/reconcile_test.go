package reconcile

import (
	"testing"
	"time"

	"purpleos/internal/models"
)

func msg(id, role, content string, at time.Time) models.ChatMessage {
	return models.ChatMessage{
		ID:        id,
		UserID:    "u1",
		SessionID: "s1",
		Role:      role,
		Content:   content,
		CreatedAt: at,
	}
}

func TestMergeDedupesBySignature(t *testing.T) {
	at := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)

	// Same message, different ids: client buffered a provisional copy.
	local := []models.ChatMessage{msg("tmp-1", models.RoleUser, "hello", at)}
	server := []models.ChatMessage{msg("aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee", models.RoleUser, "hello", at)}

	merged := Merge(local, server)
	if len(merged) != 1 {
		t.Fatalf("merged %d messages, want 1", len(merged))
	}
	if merged[0].ID != "aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee" {
		t.Errorf("server copy should win, got id %q", merged[0].ID)
	}
}

func TestMergeSignatureIgnoresWhitespaceAndSubsecond(t *testing.T) {
	base := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)

	local := []models.ChatMessage{msg("tmp-1", models.RoleUser, "  hello  ", base.Add(400*time.Millisecond))}
	server := []models.ChatMessage{msg("aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee", models.RoleUser, "hello", base)}

	if got := Merge(local, server); len(got) != 1 {
		t.Fatalf("merged %d messages, want 1 (trim + second truncation should match)", len(got))
	}
}

func TestMergeRetainsUnmatchedLocal(t *testing.T) {
	at := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)

	local := []models.ChatMessage{msg("tmp-1", models.RoleUser, "unsent thought", at.Add(time.Minute))}
	server := []models.ChatMessage{msg("aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee", models.RoleAssistant, "earlier reply", at)}

	merged := Merge(local, server)
	if len(merged) != 2 {
		t.Fatalf("merged %d messages, want 2", len(merged))
	}
	if merged[0].Content != "earlier reply" || merged[1].Content != "unsent thought" {
		t.Errorf("messages out of order: %q then %q", merged[0].Content, merged[1].Content)
	}
}

func TestMergeMatchesByLongID(t *testing.T) {
	at := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	longID := "aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee"

	// Content edited locally, but the id is server-assigned: id match wins.
	local := []models.ChatMessage{msg(longID, models.RoleUser, "edited locally", at)}
	server := []models.ChatMessage{msg(longID, models.RoleUser, "original", at)}

	merged := Merge(local, server)
	if len(merged) != 1 {
		t.Fatalf("merged %d messages, want 1", len(merged))
	}
	if merged[0].Content != "original" {
		t.Errorf("server content should win on id match, got %q", merged[0].Content)
	}
}

func TestMergeIdempotent(t *testing.T) {
	at := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	local := []models.ChatMessage{
		msg("tmp-1", models.RoleUser, "one", at),
		msg("tmp-2", models.RoleAssistant, "two", at.Add(time.Second)),
	}
	server := []models.ChatMessage{msg("aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee", models.RoleUser, "one", at)}

	once := Merge(local, server)
	twice := Merge(once, once)
	if len(once) != len(twice) {
		t.Fatalf("second merge changed length: %d -> %d", len(once), len(twice))
	}
	for i := range once {
		if once[i].ID != twice[i].ID {
			t.Errorf("position %d changed: %q -> %q", i, once[i].ID, twice[i].ID)
		}
	}
}

func TestMergeSortsAscending(t *testing.T) {
	at := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	local := []models.ChatMessage{msg("tmp-3", models.RoleUser, "third", at.Add(2*time.Minute))}
	server := []models.ChatMessage{
		msg("id-2-aaaaaaaaaaaaaaaaaaaaa", models.RoleAssistant, "second", at.Add(time.Minute)),
		msg("id-1-aaaaaaaaaaaaaaaaaaaaa", models.RoleUser, "first", at),
	}

	merged := Merge(local, server)
	for i := 1; i < len(merged); i++ {
		if merged[i].CreatedAt.Before(merged[i-1].CreatedAt) {
			t.Fatalf("not ascending at %d", i)
		}
	}
}

func TestEngineStaleToken(t *testing.T) {
	e := NewEngine()

	first := e.Begin("s1")
	second := e.Begin("s1")

	if e.Current(first) {
		t.Error("first token should be stale after second Begin")
	}
	if !e.Current(second) {
		t.Error("second token should be current")
	}

	other := e.Begin("s2")
	if !e.Current(other) {
		t.Error("tokens are per-session, s2 should be current")
	}
	if !e.Current(second) {
		t.Error("s2 activity must not invalidate s1's latest token")
	}
}

func TestEngineForget(t *testing.T) {
	e := NewEngine()
	tok := e.Begin("s1")
	e.Forget("s1")
	if e.Current(tok) {
		t.Error("forgotten session token should not be current")
	}
}
