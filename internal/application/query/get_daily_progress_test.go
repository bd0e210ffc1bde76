package query

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ibrhsahin418-alt/cetele/internal/domain/shared"
	"github.com/ibrhsahin418-alt/cetele/internal/domain/student"
	"github.com/ibrhsahin418-alt/cetele/internal/infrastructure/persistence/memory"
	"github.com/ibrhsahin418-alt/cetele/pkg/timeutil"
)

func TestGetDailyProgress(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewStudentRepository()
	groupID := shared.GroupID(uuid.NewString())

	stud := seedGroupStudent(t, repo, groupID, "gunluk", 550, 3)
	stud.AssignTask(student.CustomTask{ID: "t1", Title: "Cevşen", Type: student.ActivityZikir})
	stud.AssignTask(student.CustomTask{ID: "t2", Title: "Sabah Namazı", Type: student.ActivityNamaz})

	day := timeutil.Date(2025, 3, 10)
	stud.AddLog(student.LogEntry{
		ID: uuid.NewString(), Type: student.ActivityZikir, Value: 100,
		Details: "Cevşen", Date: day, XPEarned: 10, CoinsEarned: 10,
	})
	stud.AddLog(student.LogEntry{
		ID: uuid.NewString(), Type: student.ActivityQuran, Value: 3,
		Date: day.AddDate(0, 0, -1), XPEarned: 60, CoinsEarned: 60,
	})
	require.NoError(t, repo.Update(ctx, stud))

	handler := NewGetDailyProgressHandler(repo)

	result, err := handler.Handle(ctx, GetDailyProgressQuery{StudentID: stud.ID, Date: day})
	require.NoError(t, err)

	assert.False(t, result.IsWeekend, "2025-03-10 is a Monday")
	assert.False(t, result.GoalComplete, "one of two tasks is still open")
	assert.Equal(t, 10, result.XPToday, "only same-day entries count")
	assert.Equal(t, 10, result.CoinsToday)
	assert.Len(t, result.Logs, 1)

	require.Len(t, result.Tasks, 2)
	done := make(map[string]bool, 2)
	for _, task := range result.Tasks {
		done[task.Title] = task.Done
	}
	assert.True(t, done["Cevşen"])
	assert.False(t, done["Sabah Namazı"])

	assert.Equal(t, "Nur Şakirdi", result.RankProgress.Current)
	assert.Equal(t, "Müdakkik Okuyucu", result.RankProgress.Next)
	assert.Equal(t, 3000-550, result.RankProgress.XPToNext)
}

func TestGetDailyProgressUnknownStudent(t *testing.T) {
	handler := NewGetDailyProgressHandler(memory.NewStudentRepository())

	_, err := handler.Handle(context.Background(), GetDailyProgressQuery{
		StudentID: shared.StudentID(uuid.NewString()),
	})
	assert.ErrorIs(t, err, shared.ErrStudentNotFound)
}
