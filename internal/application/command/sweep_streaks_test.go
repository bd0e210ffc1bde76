package command

import (
	"context"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ibrhsahin418-alt/cetele/internal/domain/student"
	"github.com/ibrhsahin418-alt/cetele/internal/infrastructure/persistence/memory"
	"github.com/ibrhsahin418-alt/cetele/pkg/timeutil"
)

func TestSweepStreaks(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewStudentRepository()
	handler := NewSweepStreaksHandler(repo, nopPublisher{}, slog.Default())

	ref := timeutil.Date(2025, 3, 10)

	// Logged yesterday, streak survives untouched.
	fresh := seedStudent(t, repo, "taze")
	fresh.AddLog(student.LogEntry{ID: uuid.NewString(), Type: student.ActivityQuran, Value: 1, Date: ref.AddDate(0, 0, -1)})
	fresh.Streak = 4
	require.NoError(t, repo.Update(ctx, fresh))

	// Two-day gap but holds freezes, one gets burned.
	frozen := seedStudent(t, repo, "donmus")
	frozen.AddLog(student.LogEntry{ID: uuid.NewString(), Type: student.ActivityRisale, Value: 2, Date: ref.AddDate(0, 0, -3)})
	frozen.Streak = 9
	frozen.AddItem(student.ItemStreakFreeze, 2)
	require.NoError(t, repo.Update(ctx, frozen))

	// Two-day gap and no protection, streak resets.
	broken := seedStudent(t, repo, "kirik")
	broken.AddLog(student.LogEntry{ID: uuid.NewString(), Type: student.ActivityNamaz, Value: 1, Date: ref.AddDate(0, 0, -3)})
	broken.Streak = 5
	require.NoError(t, repo.Update(ctx, broken))

	result, err := handler.Handle(ctx, SweepStreaksCommand{ReferenceDate: ref})
	require.NoError(t, err)

	assert.Equal(t, 3, result.StudentsSwept)
	assert.Equal(t, 1, result.StreaksKept)
	assert.Equal(t, 1, result.FreezesBurned)
	assert.Equal(t, 1, result.StreaksBroken)
	assert.Equal(t, 0, result.Skipped)

	gotFresh, err := repo.GetByID(ctx, fresh.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, gotFresh.Streak)

	gotFrozen, err := repo.GetByID(ctx, frozen.ID)
	require.NoError(t, err)
	assert.Equal(t, 9, gotFrozen.Streak, "freeze preserves the streak")
	assert.Equal(t, 1, gotFrozen.ItemCount(student.ItemStreakFreeze))

	gotBroken, err := repo.GetByID(ctx, broken.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, gotBroken.Streak)
}

func TestSweepStreaksIsIdempotentPerDay(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewStudentRepository()
	handler := NewSweepStreaksHandler(repo, nopPublisher{}, slog.Default())

	ref := timeutil.Date(2025, 3, 10)

	stud := seedStudent(t, repo, "tekrar")
	stud.AddLog(student.LogEntry{ID: uuid.NewString(), Type: student.ActivityQuran, Value: 1, Date: ref.AddDate(0, 0, -3)})
	stud.Streak = 6
	stud.AddItem(student.ItemStreakFreeze, 1)
	require.NoError(t, repo.Update(ctx, stud))

	first, err := handler.Handle(ctx, SweepStreaksCommand{ReferenceDate: ref})
	require.NoError(t, err)
	assert.Equal(t, 1, first.FreezesBurned)

	// A restart re-runs the job for the same day; the student must not
	// lose a second freeze.
	second, err := handler.Handle(ctx, SweepStreaksCommand{ReferenceDate: ref})
	require.NoError(t, err)
	assert.Equal(t, 0, second.StudentsSwept)
	assert.Equal(t, 1, second.Skipped)
	assert.Equal(t, 0, second.FreezesBurned)

	got, err := repo.GetByID(ctx, stud.ID)
	require.NoError(t, err)
	assert.Equal(t, 6, got.Streak)
	assert.Equal(t, 0, got.ItemCount(student.ItemStreakFreeze))

	// The next day's run evaluates again.
	third, err := handler.Handle(ctx, SweepStreaksCommand{ReferenceDate: ref.AddDate(0, 0, 1)})
	require.NoError(t, err)
	assert.Equal(t, 1, third.StudentsSwept)
	assert.Equal(t, 1, third.StreaksBroken, "freeze stock is empty now")
}

func TestSweepStreaksNeverLoggedResets(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewStudentRepository()
	handler := NewSweepStreaksHandler(repo, nopPublisher{}, slog.Default())

	stud := seedStudent(t, repo, "sessiz")
	stud.AddItem(student.ItemStreakFreeze, 3)
	require.NoError(t, repo.Update(ctx, stud))

	result, err := handler.Handle(ctx, SweepStreaksCommand{ReferenceDate: timeutil.Date(2025, 3, 10)})
	require.NoError(t, err)
	assert.Equal(t, 1, result.StreaksBroken, "no log history resets without burning freezes")

	got, err := repo.GetByID(ctx, stud.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.ItemCount(student.ItemStreakFreeze))
}
