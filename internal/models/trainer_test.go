package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeProgress(t *testing.T) {
	logs := []DailyClassLog{{Duration: 3.5}}

	p := ComputeProgress(logs, 8)
	assert.Equal(t, 3.5, p.DailyHours)
	assert.Equal(t, 43.75, p.ProgressPercentage)
	assert.Equal(t, 4.5, p.RemainingHours)
}

func TestComputeProgressClampsAtFullDay(t *testing.T) {
	logs := []DailyClassLog{{Duration: 5}, {Duration: 5}}

	p := ComputeProgress(logs, 8)
	assert.Equal(t, 10.0, p.DailyHours)
	assert.Equal(t, 100.0, p.ProgressPercentage)
	assert.Equal(t, 0.0, p.RemainingHours)
}

func TestComputeProgressZeroTarget(t *testing.T) {
	p := ComputeProgress([]DailyClassLog{{Duration: 2}}, 0)
	assert.Equal(t, 0.0, p.ProgressPercentage)
	assert.Equal(t, 0.0, p.RemainingHours)
}

func TestComputeProgressNoLogs(t *testing.T) {
	p := ComputeProgress(nil, 6)
	assert.Equal(t, 0.0, p.DailyHours)
	assert.Equal(t, 0.0, p.ProgressPercentage)
	assert.Equal(t, 6.0, p.RemainingHours)
}
