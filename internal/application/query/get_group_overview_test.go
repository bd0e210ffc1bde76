package query

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ibrhsahin418-alt/cetele/internal/domain/mentor"
	"github.com/ibrhsahin418-alt/cetele/internal/domain/shared"
	"github.com/ibrhsahin418-alt/cetele/internal/domain/student"
	"github.com/ibrhsahin418-alt/cetele/internal/infrastructure/persistence/memory"
	"github.com/ibrhsahin418-alt/cetele/pkg/timeutil"
)

func seedGroup(t *testing.T, repo *memory.GroupRepository, name string) *mentor.Group {
	t.Helper()
	joinCode, err := shared.NewJoinCode("ABC234")
	require.NoError(t, err)
	group := mentor.NewGroup(
		shared.GroupID(uuid.NewString()),
		name,
		joinCode,
		shared.MentorID(uuid.NewString()),
	)
	require.NoError(t, repo.Create(context.Background(), group))
	return group
}

func TestGetGroupOverview(t *testing.T) {
	ctx := context.Background()
	studentRepo := memory.NewStudentRepository()
	groupRepo := memory.NewGroupRepository()
	group := seedGroup(t, groupRepo, "Barla Halkası")

	now := timeutil.Now()

	// Logged today, one entry still unverified.
	active := seedGroupStudent(t, studentRepo, group.ID, "aktif", 200, 5)
	active.AddLog(student.LogEntry{ID: uuid.NewString(), Type: student.ActivityQuran, Value: 2, Date: now})
	active.AddLog(student.LogEntry{ID: uuid.NewString(), Type: student.ActivityNamaz, Value: 1, Date: now.AddDate(0, 0, -1), Verified: true})
	require.NoError(t, studentRepo.Update(ctx, active))

	// Silent for four days.
	silent := seedGroupStudent(t, studentRepo, group.ID, "sessiz", 80, 0)
	silent.AddLog(student.LogEntry{ID: uuid.NewString(), Type: student.ActivityRisale, Value: 1, Date: now.AddDate(0, 0, -4), Verified: true})
	require.NoError(t, studentRepo.Update(ctx, silent))

	// Never logged at all.
	seedGroupStudent(t, studentRepo, group.ID, "yeni", 0, 0)

	handler := NewGetGroupOverviewHandler(studentRepo, groupRepo)

	result, err := handler.Handle(ctx, GetGroupOverviewQuery{GroupID: group.ID})
	require.NoError(t, err)

	assert.Equal(t, "Barla Halkası", result.GroupName)
	assert.Equal(t, "ABC234", result.JoinCode)
	assert.Equal(t, 3, result.MemberCount)
	assert.Equal(t, 1, result.ActiveToday)
	assert.Equal(t, 2, result.AtRiskCount, "silent and never-logged are both flagged")
	assert.Equal(t, 3, result.TotalLogs)
	assert.Equal(t, 1, result.PendingVerifications)

	byName := make(map[string]GroupMemberDTO, len(result.Members))
	for _, m := range result.Members {
		byName[m.Name] = m
	}

	assert.True(t, byName["aktif"].ActiveToday)
	assert.False(t, byName["aktif"].AtRisk)
	assert.Equal(t, 1, byName["aktif"].PendingVerification)

	assert.True(t, byName["sessiz"].AtRisk)
	assert.Equal(t, 4, byName["sessiz"].DaysSinceLastLog)

	assert.True(t, byName["yeni"].AtRisk)
	assert.Equal(t, -1, byName["yeni"].DaysSinceLastLog, "never logged is marked with -1")
}

func TestGetGroupOverviewTwoDayGapIsNotAtRisk(t *testing.T) {
	ctx := context.Background()
	studentRepo := memory.NewStudentRepository()
	groupRepo := memory.NewGroupRepository()
	group := seedGroup(t, groupRepo, "Halka")

	borderline := seedGroupStudent(t, studentRepo, group.ID, "sinirda", 60, 2)
	borderline.AddLog(student.LogEntry{
		ID:   uuid.NewString(),
		Type: student.ActivityZikir, Value: 100,
		Date: timeutil.Now().AddDate(0, 0, -2),
	})
	require.NoError(t, studentRepo.Update(ctx, borderline))

	handler := NewGetGroupOverviewHandler(studentRepo, groupRepo)
	result, err := handler.Handle(ctx, GetGroupOverviewQuery{GroupID: group.ID})
	require.NoError(t, err)
	require.Len(t, result.Members, 1)
	assert.False(t, result.Members[0].AtRisk, "the flag trips strictly beyond two days")
}

func TestGetGroupOverviewUnknownGroup(t *testing.T) {
	handler := NewGetGroupOverviewHandler(memory.NewStudentRepository(), memory.NewGroupRepository())

	_, err := handler.Handle(context.Background(), GetGroupOverviewQuery{
		GroupID: shared.GroupID(uuid.NewString()),
	})
	assert.ErrorIs(t, err, shared.ErrGroupNotFound)
}
