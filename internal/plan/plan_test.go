package plan

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const testPlan = `name: Test Split
week:
  - day: Monday
    session: Push A
    exercises:
      - { name: Flat Bench Press, sets: 3, reps: "5-8" }
  - day: Tuesday
    session: Rest
  - day: Wednesday
    session: Legs A
`

func writePlan(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "plan.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	p, err := Load(writePlan(t, testPlan))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if p.Name != "Test Split" || len(p.Week) != 3 {
		t.Fatalf("plan = %+v", p)
	}
	if p.Week[0].Exercises[0].Name != "Flat Bench Press" {
		t.Errorf("exercise = %+v", p.Week[0].Exercises[0])
	}
}

func TestLoadRejectsEmptyPlan(t *testing.T) {
	if _, err := Load(writePlan(t, "name: Empty\nweek: []\n")); err == nil {
		t.Error("expected an error for a plan with no days")
	}
}

func TestSessionsPerWeek(t *testing.T) {
	p, err := Load(writePlan(t, testPlan))
	if err != nil {
		t.Fatal(err)
	}
	if got := p.SessionsPerWeek(); got != 2 {
		t.Errorf("SessionsPerWeek = %d, want 2 (rest day excluded)", got)
	}
}

func TestForWeekday(t *testing.T) {
	p, err := Load(writePlan(t, testPlan))
	if err != nil {
		t.Fatal(err)
	}

	day := p.ForWeekday(time.Monday)
	if day == nil || day.Session != "Push A" {
		t.Errorf("Monday = %+v", day)
	}
	if d := p.ForWeekday(time.Tuesday); d == nil || !d.IsRest() {
		t.Errorf("Tuesday should be rest, got %+v", d)
	}
	if d := p.ForWeekday(time.Sunday); d != nil {
		t.Errorf("unlisted day should be nil, got %+v", d)
	}
}
