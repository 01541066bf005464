package models

import "time"

// Trainer represents an instructor profile with a daily teaching target.
// Each identity owns at most one trainer record.
type Trainer struct {
	ID                 string    `db:"id" json:"id"`
	UserID             string    `db:"user_id" json:"user_id"`
	Name               string    `db:"name" json:"name"`
	Subjects           string    `db:"subjects" json:"subjects"`
	ExpectedDailyHours float64   `db:"expected_daily_hours" json:"expected_daily_hours"`
	CreatedAt          time.Time `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time `db:"updated_at" json:"updated_at"`
}

// DailyProgress summarises a trainer's logged hours against the daily target.
type DailyProgress struct {
	DailyHours         float64 `json:"daily_hours"`
	RemainingHours     float64 `json:"remaining_hours"`
	ProgressPercentage float64 `json:"progress_percentage"`
}

// ComputeProgress aggregates the durations of the given logs against the
// expected daily hours. The percentage is clamped to [0,100] and a zero
// target yields zero progress rather than a division by zero.
func ComputeProgress(logs []DailyClassLog, expectedDailyHours float64) DailyProgress {
	var dailyHours float64
	for _, log := range logs {
		dailyHours += log.Duration
	}

	var percentage float64
	if expectedDailyHours > 0 {
		percentage = dailyHours / expectedDailyHours * 100
		if percentage > 100 {
			percentage = 100
		}
	}

	remaining := expectedDailyHours - dailyHours
	if remaining < 0 {
		remaining = 0
	}

	return DailyProgress{
		DailyHours:         dailyHours,
		RemainingHours:     remaining,
		ProgressPercentage: percentage,
	}
}
