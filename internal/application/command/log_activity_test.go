package command

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ibrhsahin418-alt/cetele/internal/domain/engine"
	"github.com/ibrhsahin418-alt/cetele/internal/domain/shared"
	"github.com/ibrhsahin418-alt/cetele/internal/domain/student"
	"github.com/ibrhsahin418-alt/cetele/internal/infrastructure/persistence/memory"
	"github.com/ibrhsahin418-alt/cetele/pkg/timeutil"
)

// nopPublisher swallows events in tests that do not assert on the bus.
type nopPublisher struct{}

func (nopPublisher) Publish(shared.Event) error { return nil }

// capturingPublisher records every published event type.
type capturingPublisher struct {
	types []shared.EventType
}

func (p *capturingPublisher) Publish(e shared.Event) error {
	p.types = append(p.types, e.EventType())
	return nil
}

func (p *capturingPublisher) has(t shared.EventType) bool {
	for _, got := range p.types {
		if got == t {
			return true
		}
	}
	return false
}

// stubAvatars returns deterministic URLs without hitting DiceBear.
type stubAvatars struct{}

func (stubAvatars) URL(seed string) string { return "https://avatars.test/" + seed }

func seedStudent(t *testing.T, repo *memory.StudentRepository, name string) *student.Student {
	t.Helper()
	username, err := shared.NewUsername(name)
	require.NoError(t, err)
	stud := student.NewStudent(
		shared.StudentID(uuid.NewString()),
		name,
		username,
		shared.GroupID(uuid.NewString()),
		"https://avatars.test/"+name,
	)
	require.NoError(t, repo.Create(context.Background(), stud))
	return stud
}

func TestLogActivityWeekdayReward(t *testing.T) {
	repo := memory.NewStudentRepository()
	stud := seedStudent(t, repo, "ahmet")
	handler := NewLogActivityHandler(repo, nopPublisher{})

	monday := timeutil.DateTime(2025, 3, 10, 14, 0, 0)
	result, err := handler.Handle(context.Background(), LogActivityCommand{
		StudentID: stud.ID,
		Type:      student.ActivityQuran,
		Value:     5,
		Details:   "sabah okuması",
		Date:      monday,
	})
	require.NoError(t, err)

	assert.Equal(t, 100, result.XPEarned, "5 pages at 20 XP each")
	assert.Equal(t, 100, result.CoinsEarned, "coins mirror XP 1:1")
	assert.False(t, result.MultiplierApplied)
	assert.True(t, result.StreakExtended, "first log of the day completes the goal")
	assert.Equal(t, 1, result.CurrentStreak)
	assert.Contains(t, result.BadgesAwarded, engine.BadgeFirstLog)

	stored, err := repo.GetByID(context.Background(), stud.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, stored.TotalXP.Int())
	assert.Len(t, stored.Logs, 1)
}

func TestLogActivityWeekendDoubles(t *testing.T) {
	repo := memory.NewStudentRepository()
	stud := seedStudent(t, repo, "fatma")
	handler := NewLogActivityHandler(repo, nopPublisher{})

	saturday := timeutil.DateTime(2025, 3, 8, 10, 0, 0)
	result, err := handler.Handle(context.Background(), LogActivityCommand{
		StudentID: stud.ID,
		Type:      student.ActivityZikir,
		Value:     15,
		Date:      saturday,
	})
	require.NoError(t, err)

	// floor(15 * 0.1) = 1, doubled after the floor.
	assert.True(t, result.MultiplierApplied)
	assert.Equal(t, 2, result.XPEarned)
	assert.Equal(t, 2, result.CoinsEarned)
}

func TestLogActivityStreakExtendsOncePerDay(t *testing.T) {
	repo := memory.NewStudentRepository()
	stud := seedStudent(t, repo, "mehmet")
	handler := NewLogActivityHandler(repo, nopPublisher{})

	day := timeutil.DateTime(2025, 3, 10, 9, 0, 0)

	first, err := handler.Handle(context.Background(), LogActivityCommand{
		StudentID: stud.ID,
		Type:      student.ActivityRisale,
		Value:     3,
		Date:      day,
	})
	require.NoError(t, err)
	assert.True(t, first.StreakExtended)
	assert.Equal(t, 1, first.CurrentStreak)

	second, err := handler.Handle(context.Background(), LogActivityCommand{
		StudentID: stud.ID,
		Type:      student.ActivityNamaz,
		Value:     1,
		Date:      day.Add(2 * time.Hour),
	})
	require.NoError(t, err)
	assert.False(t, second.StreakExtended, "same day never double-counts")
	assert.Equal(t, 1, second.CurrentStreak)
}

func TestLogActivityCustomTasksGateTheGoal(t *testing.T) {
	repo := memory.NewStudentRepository()
	stud := seedStudent(t, repo, "zeynep")
	stud.AssignTask(student.CustomTask{ID: uuid.NewString(), Title: "Cevşen", Type: student.ActivityZikir})
	require.NoError(t, repo.Update(context.Background(), stud))

	handler := NewLogActivityHandler(repo, nopPublisher{})
	day := timeutil.DateTime(2025, 3, 10, 9, 0, 0)

	free, err := handler.Handle(context.Background(), LogActivityCommand{
		StudentID: stud.ID,
		Type:      student.ActivityQuran,
		Value:     2,
		Details:   "serbest okuma",
		Date:      day,
	})
	require.NoError(t, err)
	assert.False(t, free.StreakExtended, "unrelated log does not satisfy the task")

	matching, err := handler.Handle(context.Background(), LogActivityCommand{
		StudentID: stud.ID,
		Type:      student.ActivityZikir,
		Value:     100,
		Details:   "Cevşen",
		Date:      day.Add(time.Hour),
	})
	require.NoError(t, err)
	assert.True(t, matching.StreakExtended, "exact title match completes the day")
}

func TestLogActivityPromotionGrantsGoldGlow(t *testing.T) {
	repo := memory.NewStudentRepository()
	stud := seedStudent(t, repo, "yusuf")
	stud.AwardXP(490, 490)
	require.NoError(t, repo.Update(context.Background(), stud))

	publisher := &capturingPublisher{}
	handler := NewLogActivityHandler(repo, publisher)

	result, err := handler.Handle(context.Background(), LogActivityCommand{
		StudentID: stud.ID,
		Type:      student.ActivityQuran,
		Value:     1,
		Date:      timeutil.DateTime(2025, 3, 10, 9, 0, 0),
	})
	require.NoError(t, err)

	assert.True(t, result.Promoted, "490+20 crosses the 500 XP tier")
	assert.Equal(t, "Nur Şakirdi", result.RankName)
	assert.True(t, publisher.has(shared.EventRankPromoted))

	stored, err := repo.GetByID(context.Background(), stud.ID)
	require.NoError(t, err)
	require.Len(t, stored.Rewards, 1)
	assert.Equal(t, student.RewardGoldGlow, stored.Rewards[0].ID)
	assert.True(t, stored.Rewards[0].IsActive, "promotion glow arrives toggled on")
}

func TestLogActivityRejectsBadInput(t *testing.T) {
	repo := memory.NewStudentRepository()
	stud := seedStudent(t, repo, "kerem")
	handler := NewLogActivityHandler(repo, nopPublisher{})

	_, err := handler.Handle(context.Background(), LogActivityCommand{
		StudentID: stud.ID,
		Type:      student.ActivityQuran,
		Value:     0,
	})
	assert.ErrorIs(t, err, shared.ErrInvalidActivityValue)

	_, err = handler.Handle(context.Background(), LogActivityCommand{
		StudentID: stud.ID,
		Type:      student.ActivityType("YOGA"),
		Value:     1,
	})
	assert.ErrorIs(t, err, shared.ErrInvalidActivityType)

	_, err = handler.Handle(context.Background(), LogActivityCommand{
		StudentID: shared.StudentID(uuid.NewString()),
		Type:      student.ActivityQuran,
		Value:     1,
	})
	assert.ErrorIs(t, err, shared.ErrStudentNotFound)
}
