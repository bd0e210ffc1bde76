package student

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ibrhsahin418-alt/cetele/internal/domain/shared"
	"github.com/ibrhsahin418-alt/cetele/pkg/timeutil"
)

func newStudent() *Student {
	return NewStudent(
		"0e6fca9d-54c7-4a6e-8f5a-3b3a7c9f1d20",
		"Ayşe Demir",
		"ayse",
		"7b1d2c3e-1111-4222-8333-444455556666",
		"https://example.com/avatar",
	)
}

func TestAddLogKeepsNewestFirst(t *testing.T) {
	s := newStudent()
	s.AddLog(LogEntry{ID: "l1", Date: timeutil.Date(2025, 3, 10)})
	s.AddLog(LogEntry{ID: "l2", Date: timeutil.Date(2025, 3, 11)})

	assert.Equal(t, "l2", s.Logs[0].ID)
	assert.Equal(t, "l2", s.LastLog().ID)
}

func TestLatestLogUsesDateNotInsertionOrder(t *testing.T) {
	s := newStudent()
	s.AddLog(LogEntry{ID: "l1", Date: timeutil.Date(2025, 3, 11)})
	// Backdated entry submitted later.
	s.AddLog(LogEntry{ID: "l2", Date: timeutil.Date(2025, 3, 9)})

	assert.Equal(t, "l2", s.LastLog().ID, "head is last submitted")
	assert.Equal(t, "l1", s.LatestLog().ID, "latest is by date")
}

func TestLogsOn(t *testing.T) {
	s := newStudent()
	s.AddLog(LogEntry{ID: "l1", Date: timeutil.DateTime(2025, 3, 10, 8, 0, 0)})
	s.AddLog(LogEntry{ID: "l2", Date: timeutil.DateTime(2025, 3, 10, 21, 30, 0)})
	s.AddLog(LogEntry{ID: "l3", Date: timeutil.Date(2025, 3, 11)})

	assert.Len(t, s.LogsOn(timeutil.Date(2025, 3, 10)), 2)
	assert.Len(t, s.LogsOn(timeutil.Date(2025, 3, 12)), 0)
}

func TestInventoryConsumePrunesAtZero(t *testing.T) {
	s := newStudent()
	s.AddItem(ItemStreakFreeze, 2)
	assert.Equal(t, 2, s.ItemCount(ItemStreakFreeze))

	assert.True(t, s.ConsumeItem(ItemStreakFreeze))
	assert.Equal(t, 1, s.ItemCount(ItemStreakFreeze))
	assert.Len(t, s.Inventory, 1)

	assert.True(t, s.ConsumeItem(ItemStreakFreeze))
	assert.Equal(t, 0, s.ItemCount(ItemStreakFreeze))
	assert.Empty(t, s.Inventory, "empty stack is pruned")

	assert.False(t, s.ConsumeItem(ItemStreakFreeze))
}

func TestAddItemStacksExisting(t *testing.T) {
	s := newStudent()
	s.AddItem(ItemStreakFreeze, 1)
	s.AddItem(ItemStreakFreeze, 1)

	assert.Len(t, s.Inventory, 1)
	assert.Equal(t, 2, s.ItemCount(ItemStreakFreeze))
}

func TestToggleReward(t *testing.T) {
	s := newStudent()
	s.GrantReward(TemporaryReward{ID: RewardNeonFrame, ExpiresAt: time.Now().Add(time.Hour)})

	assert.NoError(t, s.ToggleReward(RewardNeonFrame))
	assert.True(t, s.Rewards[0].IsActive)
	assert.NoError(t, s.ToggleReward(RewardNeonFrame))
	assert.False(t, s.Rewards[0].IsActive)

	err := s.ToggleReward("NOPE")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestToggleRewardIgnoresExpiry(t *testing.T) {
	s := newStudent()
	s.GrantReward(TemporaryReward{ID: RewardGoldGlow, ExpiresAt: time.Now().Add(-time.Hour)})

	assert.NoError(t, s.ToggleReward(RewardGoldGlow), "expired rewards still toggle")
	assert.True(t, s.Rewards[0].IsActive)
}

func TestRemoveTaskByTitle(t *testing.T) {
	s := newStudent()
	s.AssignTask(CustomTask{ID: "t1", Title: "Cevşen"})
	s.AssignTask(CustomTask{ID: "t2", Title: "Sabah Namazı"})
	s.AssignTask(CustomTask{ID: "t3", Title: "Cevşen"})

	assert.Equal(t, 2, s.RemoveTaskByTitle("Cevşen"))
	assert.Len(t, s.CustomTasks, 1)
	assert.False(t, s.HasTaskTitled("Cevşen"))
	assert.Equal(t, 0, s.RemoveTaskByTitle("Cevşen"))
}

func TestAwardBadgeOnce(t *testing.T) {
	s := newStudent()
	assert.True(t, s.AwardBadge("Erken Kalkan"))
	assert.False(t, s.AwardBadge("Erken Kalkan"))
	assert.Len(t, s.Badges, 1)
}

func TestSweptOn(t *testing.T) {
	s := newStudent()
	day := timeutil.Date(2025, 3, 10)

	assert.False(t, s.SweptOn(day))
	s.MarkSwept(timeutil.DateTime(2025, 3, 10, 0, 5, 0))
	assert.True(t, s.SweptOn(day))
	assert.False(t, s.SweptOn(day.AddDate(0, 0, 1)))
}

func TestActivityTypeValidation(t *testing.T) {
	for _, at := range AllActivityTypes() {
		assert.True(t, at.IsValid())
		assert.NotEmpty(t, at.DisplayName())
		assert.NotEmpty(t, at.Unit())
	}
	assert.False(t, ActivityType("YOGA").IsValid())
}
