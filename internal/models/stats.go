package models

// XPPerLevel is the amount of XP required to advance one level
const XPPerLevel = 500

// HydrationDailyCap is the maximum tracked daily hydration in ml
const HydrationDailyCap = 5000

// XP rewards
const (
	XPTaskDone        = 50
	XPWorkoutComplete = 150
)

// UserStats is the single per-user stat row (XP, streak, focus time,
// hydration and biometrics share one record).
type UserStats struct {
	UserID           string    `json:"user_id"`
	XP               int       `json:"xp"`
	Level            int       `json:"level"`
	Streak           int       `json:"streak"`
	FocusTime        int       `json:"focus_time"` // accumulated seconds
	LastVisit        string    `json:"last_visit"` // date string, streak anchor
	HydrationCurrent int       `json:"hydration_current"`
	HydrationDate    string    `json:"hydration_date"`
	CurrentWeight    float64   `json:"current_weight"`
	WeightHistory    []float64 `json:"weight_history"` // last 7 synced entries
}

// LevelForXP computes the level implied by an XP total.
func LevelForXP(xp int) int {
	if xp < 0 {
		xp = 0
	}
	return xp/XPPerLevel + 1
}

// HydrationRequest adjusts today's hydration by a signed amount of ml
type HydrationRequest struct {
	Amount int `json:"amount" validate:"required"`
}

// FocusCompleteRequest reports a finished focus session
type FocusCompleteRequest struct {
	Seconds  int `json:"seconds" validate:"required,min=1"`
	XPReward int `json:"xp_reward" validate:"min=0"`
}
