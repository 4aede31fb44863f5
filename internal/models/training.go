package models

import "time"

// ExerciseSet is one logged lift within a workout
type ExerciseSet struct {
	Name   string  `json:"name"`
	Weight float64 `json:"weight"`
	Reps   int     `json:"reps"`
}

// WorkoutLog is one completed training session
type WorkoutLog struct {
	ID          string        `json:"id"`
	UserID      string        `json:"user_id"`
	SessionName string        `json:"session_name"`
	TotalVolume float64       `json:"total_volume"`
	Exercises   []ExerciseSet `json:"exercises"`
	Date        time.Time     `json:"date"`
}

// WorkoutHistoryItem is the lightweight view used by the fatigue and
// adherence estimators.
type WorkoutHistoryItem struct {
	Date        time.Time `json:"date"`
	SessionName string    `json:"session_name"`
}

// CreateWorkoutRequest logs a completed session
type CreateWorkoutRequest struct {
	SessionName string        `json:"session_name" validate:"required"`
	TotalVolume float64       `json:"total_volume" validate:"min=0"`
	Exercises   []ExerciseSet `json:"exercises"`
}

// PersonalRecord is a derived best lift, never persisted directly
type PersonalRecord struct {
	Name   string    `json:"name"`
	Weight float64   `json:"weight"`
	Date   time.Time `json:"date"`
}

// PhysiqueStats is the stat snapshot attached to a physique entry
type PhysiqueStats struct {
	Weight   float64 `json:"weight"`
	Bench    float64 `json:"bench"`
	Squat    float64 `json:"squat"`
	Deadlift float64 `json:"deadlift"`
}

// PhysiqueEntry is one progress photo with its stat snapshot
type PhysiqueEntry struct {
	ID       string        `json:"id"`
	UserID   string        `json:"user_id"`
	Date     string        `json:"date"`
	ImageURL string        `json:"image_url"`
	Stats    PhysiqueStats `json:"stats"`
}

// CreatePhysiqueRequest adds a progress entry
type CreatePhysiqueRequest struct {
	ImageURL string `json:"image_url" validate:"required"`
	Date     string `json:"date" validate:"required"`
}
