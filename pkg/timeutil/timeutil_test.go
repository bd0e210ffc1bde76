package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStartOfDay(t *testing.T) {
	ts := DateTime(2025, 3, 10, 17, 45, 12)
	got := StartOfDay(ts)

	assert.Equal(t, Date(2025, 3, 10), got)
	assert.Equal(t, 0, got.Hour())
}

func TestStartOfDayConvertsZone(t *testing.T) {
	// 23:30 UTC is already the next day in Istanbul.
	utc := time.Date(2025, 3, 10, 23, 30, 0, 0, time.UTC)
	assert.Equal(t, Date(2025, 3, 11), StartOfDay(utc))
}

func TestDaysBetween(t *testing.T) {
	tests := []struct {
		name string
		t1   time.Time
		t2   time.Time
		want int
	}{
		{"same day", DateTime(2025, 3, 10, 9, 0, 0), DateTime(2025, 3, 10, 22, 0, 0), 0},
		{"adjacent days late vs early", DateTime(2025, 3, 10, 23, 59, 0), DateTime(2025, 3, 11, 0, 1, 0), 1},
		{"two days", Date(2025, 3, 10), Date(2025, 3, 12), 2},
		{"reversed order is absolute", Date(2025, 3, 12), Date(2025, 3, 10), 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DaysBetween(tt.t1, tt.t2))
		})
	}
}

func TestIsWeekend(t *testing.T) {
	saturday := Date(2025, 3, 8)
	sunday := Date(2025, 3, 9)
	monday := Date(2025, 3, 10)

	assert.True(t, IsWeekend(saturday))
	assert.True(t, IsWeekend(sunday))
	assert.False(t, IsWeekend(monday))
}

func TestIsConsecutiveDay(t *testing.T) {
	assert.True(t, IsConsecutiveDay(Date(2025, 2, 28), Date(2025, 3, 1)))
	assert.False(t, IsConsecutiveDay(Date(2025, 3, 1), Date(2025, 3, 3)))
	assert.False(t, IsConsecutiveDay(Date(2025, 3, 3), Date(2025, 3, 2)))
}

func TestNextMidnight(t *testing.T) {
	ts := DateTime(2025, 3, 10, 18, 30, 0)
	assert.Equal(t, Date(2025, 3, 11), NextMidnight(ts))
}

func TestParseDateIstanbul(t *testing.T) {
	got, err := ParseDateIstanbul("2025-03-10")
	assert.NoError(t, err)
	assert.Equal(t, Date(2025, 3, 10), got)

	_, err = ParseDateIstanbul("10.03.2025")
	assert.Error(t, err)
}
