package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestBatchStatus(t *testing.T) {
	today := date(2026, time.September, 1)

	open := Batch{StartDate: date(2026, time.August, 1)}
	assert.Equal(t, BatchStatusOngoing, open.Status(today))

	past := date(2026, time.August, 20)
	closed := Batch{StartDate: date(2026, time.August, 1), EndDate: &past}
	assert.Equal(t, BatchStatusCompleted, closed.Status(today))

	// An end date of today is not yet completed.
	endsToday := Batch{StartDate: date(2026, time.August, 1), EndDate: &today}
	assert.Equal(t, BatchStatusOngoing, endsToday.Status(today))
}

func TestBatchDaysTaken(t *testing.T) {
	today := date(2026, time.September, 1)

	end := date(2026, time.August, 15)
	finished := Batch{StartDate: date(2026, time.August, 1), EndDate: &end}
	assert.Equal(t, 14, finished.DaysTaken(today))

	running := Batch{StartDate: date(2026, time.August, 22)}
	assert.Equal(t, 10, running.DaysTaken(today))
}

func TestBatchDerivationsAreIdempotent(t *testing.T) {
	today := date(2026, time.September, 1)
	end := date(2026, time.August, 20)
	b := Batch{StartDate: date(2026, time.August, 1), EndDate: &end}

	assert.Equal(t, b.Status(today), b.Status(today))
	assert.Equal(t, b.DaysTaken(today), b.DaysTaken(today))
}

func TestValidCourse(t *testing.T) {
	for code := range Courses {
		assert.True(t, ValidCourse(code))
	}
	assert.False(t, ValidCourse("basket_weaving"))
	assert.False(t, ValidCourse(""))
}
