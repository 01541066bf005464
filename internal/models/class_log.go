package models

import (
	"fmt"
	"time"
)

// Input layouts accepted for class log fields.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// DailyClassLog is one recorded teaching session against a batch. Rows are
// immutable after creation and the stored duration is always derived, never
// caller supplied.
type DailyClassLog struct {
	ID        string    `db:"id" json:"id"`
	TrainerID string    `db:"trainer_id" json:"trainer_id"`
	BatchID   string    `db:"batch_id" json:"batch_id"`
	Date      time.Time `db:"date" json:"date"`
	StartTime string    `db:"start_time" json:"start_time"`
	EndTime   string    `db:"end_time" json:"end_time"`
	Duration  float64   `db:"duration" json:"duration"`
	Remarks   *string   `db:"remarks" json:"remarks,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// ReportRow is a class log joined with its trainer and batch names, the
// shape emitted by report exports.
type ReportRow struct {
	TrainerName string    `db:"trainer_name" json:"trainer"`
	BatchName   string    `db:"batch_name" json:"batch"`
	Date        time.Time `db:"date" json:"date"`
	Duration    float64   `db:"duration" json:"duration"`
}

// ComputeDuration combines the session date with both times of day and
// returns the elapsed hours. A session cannot span midnight: an end at or
// before the start is rejected.
func ComputeDuration(date time.Time, startTime, endTime string) (float64, error) {
	start, err := combine(date, startTime)
	if err != nil {
		return 0, fmt.Errorf("invalid start time %q: %w", startTime, err)
	}
	end, err := combine(date, endTime)
	if err != nil {
		return 0, fmt.Errorf("invalid end time %q: %w", endTime, err)
	}
	if !end.After(start) {
		return 0, fmt.Errorf("end time must be after start time")
	}
	return end.Sub(start).Seconds() / 3600, nil
}

func combine(date time.Time, clock string) (time.Time, error) {
	t, err := time.Parse(TimeLayout, clock)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour(), t.Minute(), 0, 0, time.UTC), nil
}
