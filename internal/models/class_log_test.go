package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeDuration(t *testing.T) {
	date := time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name  string
		start string
		end   string
		hours float64
	}{
		{"full morning", "09:00", "12:30", 3.5},
		{"one hour", "10:00", "11:00", 1},
		{"quarter", "14:00", "14:15", 0.25},
		{"whole day", "00:00", "23:59", 23.983333333333334},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			hours, err := ComputeDuration(date, tc.start, tc.end)
			require.NoError(t, err)
			assert.InDelta(t, tc.hours, hours, 1e-9)
		})
	}
}

func TestComputeDurationRejectsNonPositiveSpan(t *testing.T) {
	date := time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)

	_, err := ComputeDuration(date, "12:00", "12:00")
	require.Error(t, err)

	_, err = ComputeDuration(date, "18:00", "09:00")
	require.Error(t, err)
}

func TestComputeDurationRejectsBadClock(t *testing.T) {
	date := time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)

	_, err := ComputeDuration(date, "9am", "12:00")
	require.Error(t, err)

	_, err = ComputeDuration(date, "09:00", "25:00")
	require.Error(t, err)
}
