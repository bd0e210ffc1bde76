package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ibrhsahin418-alt/cetele/internal/domain/student"
	"github.com/ibrhsahin418-alt/cetele/pkg/timeutil"
)

func newTestStudent() *student.Student {
	return student.NewStudent(
		"0e6fca9d-54c7-4a6e-8f5a-3b3a7c9f1d20",
		"Ahmet Yılmaz",
		"ahmet",
		"7b1d2c3e-1111-4222-8333-444455556666",
		"https://example.com/avatar",
	)
}

func TestCheckBadgesFirstLog(t *testing.T) {
	s := newTestStudent()
	assert.Empty(t, CheckBadges(s))

	s.AddLog(student.LogEntry{ID: "l1", Type: student.ActivityQuran, Value: 2, Date: timeutil.Now()})
	earned := CheckBadges(s)
	assert.Contains(t, earned, BadgeFirstLog)
}

func TestCheckBadgesNeverRepeats(t *testing.T) {
	s := newTestStudent()
	s.AddLog(student.LogEntry{ID: "l1", Type: student.ActivityQuran, Value: 2, Date: timeutil.Now()})

	for _, b := range CheckBadges(s) {
		assert.True(t, s.AwardBadge(b))
	}
	assert.Empty(t, CheckBadges(s), "held badges are not re-earned")
}

func TestCheckBadgesStreakMilestones(t *testing.T) {
	s := newTestStudent()
	s.AddLog(student.LogEntry{ID: "l1", Type: student.ActivityNamaz, Value: 5, Date: timeutil.Now()})
	s.Streak = 7

	earned := CheckBadges(s)
	assert.Contains(t, earned, BadgeStreak7)
	assert.NotContains(t, earned, BadgeStreak30)

	s.Streak = 30
	earned = CheckBadges(s)
	assert.Contains(t, earned, BadgeStreak30)
}

func TestCheckBadgesVolumeThresholds(t *testing.T) {
	s := newTestStudent()
	s.AddLog(student.LogEntry{ID: "l1", Type: student.ActivityZikir, Value: 600, Date: timeutil.Now()})
	assert.NotContains(t, CheckBadges(s), BadgeZikirMaster)

	s.AddLog(student.LogEntry{ID: "l2", Type: student.ActivityZikir, Value: 400, Date: timeutil.Now()})
	assert.Contains(t, CheckBadges(s), BadgeZikirMaster, "values accumulate across logs")

	s.AddLog(student.LogEntry{ID: "l3", Type: student.ActivityQuran, Value: 100, Date: timeutil.Now()})
	assert.Contains(t, CheckBadges(s), BadgeQuranReader)

	s.AddLog(student.LogEntry{ID: "l4", Type: student.ActivityBookReading, Value: 200, Date: timeutil.Now()})
	assert.Contains(t, CheckBadges(s), BadgeBookWorm)
}
