package query

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ibrhsahin418-alt/cetele/internal/domain/leaderboard"
	"github.com/ibrhsahin418-alt/cetele/internal/domain/shared"
	"github.com/ibrhsahin418-alt/cetele/internal/domain/student"
	"github.com/ibrhsahin418-alt/cetele/internal/infrastructure/persistence/memory"
)

func seedGroupStudent(t *testing.T, repo *memory.StudentRepository, groupID shared.GroupID, name string, xp, streak int) *student.Student {
	t.Helper()
	username, err := shared.NewUsername(name)
	require.NoError(t, err)
	stud := student.NewStudent(
		shared.StudentID(uuid.NewString()),
		name,
		username,
		groupID,
		"https://avatars.test/"+name,
	)
	stud.AwardXP(xp, xp)
	stud.Streak = streak
	require.NoError(t, repo.Create(context.Background(), stud))
	return stud
}

// mapBoardCache is a test double for the Redis board cache.
type mapBoardCache struct {
	boards map[shared.GroupID]*leaderboard.Board
}

func newMapBoardCache() *mapBoardCache {
	return &mapBoardCache{boards: make(map[shared.GroupID]*leaderboard.Board)}
}

func (c *mapBoardCache) GetBoard(_ context.Context, groupID shared.GroupID) (*leaderboard.Board, error) {
	board, ok := c.boards[groupID]
	if !ok {
		return nil, leaderboard.ErrEmptyBoard
	}
	return board, nil
}

func (c *mapBoardCache) SetBoard(_ context.Context, board *leaderboard.Board, _ time.Duration) error {
	c.boards[board.GroupID] = board
	return nil
}

func (c *mapBoardCache) GetRank(_ context.Context, groupID shared.GroupID, studentID shared.StudentID) (*leaderboard.Entry, error) {
	board, ok := c.boards[groupID]
	if !ok {
		return nil, leaderboard.ErrEmptyBoard
	}
	entry := board.GetByID(studentID)
	if entry == nil {
		return nil, leaderboard.ErrEmptyBoard
	}
	return entry, nil
}

func (c *mapBoardCache) Invalidate(_ context.Context, groupID shared.GroupID) error {
	delete(c.boards, groupID)
	return nil
}

func (c *mapBoardCache) InvalidateAll(_ context.Context) error {
	c.boards = make(map[shared.GroupID]*leaderboard.Board)
	return nil
}

func TestGetLeaderboardRanksAndScoping(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewStudentRepository()
	groupID := shared.GroupID(uuid.NewString())
	otherGroup := shared.GroupID(uuid.NewString())

	seedGroupStudent(t, repo, groupID, "birinci", 300, 7)
	seedGroupStudent(t, repo, groupID, "ikinci", 300, 3)
	seedGroupStudent(t, repo, groupID, "ucuncu", 100, 1)
	seedGroupStudent(t, repo, otherGroup, "yabanci", 9000, 99)

	handler := NewGetLeaderboardHandler(repo, nil)

	result, err := handler.Handle(ctx, GetLeaderboardQuery{GroupID: groupID})
	require.NoError(t, err)

	require.Len(t, result.Entries, 3, "other groups never leak onto the board")
	assert.Equal(t, 3, result.TotalCount)
	assert.Equal(t, (300+300+100)/3, result.AverageXP)
	assert.False(t, result.HasMore)

	// Equal XP shares rank 1; the next distinct total lands on rank 3.
	assert.Equal(t, 1, result.Entries[0].Rank)
	assert.Equal(t, 1, result.Entries[1].Rank)
	assert.Equal(t, 3, result.Entries[2].Rank)
	assert.NotEmpty(t, result.Entries[0].Medal)

	// Ties break alphabetically for a stable display order.
	assert.Equal(t, "birinci", result.Entries[0].Name)
	assert.Equal(t, "ikinci", result.Entries[1].Name)
}

func TestGetLeaderboardPagination(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewStudentRepository()
	groupID := shared.GroupID(uuid.NewString())

	seedGroupStudent(t, repo, groupID, "aaa", 500, 0)
	seedGroupStudent(t, repo, groupID, "bbb", 400, 0)
	seedGroupStudent(t, repo, groupID, "ccc", 300, 0)

	handler := NewGetLeaderboardHandler(repo, nil)

	first, err := handler.Handle(ctx, GetLeaderboardQuery{GroupID: groupID, Limit: 2})
	require.NoError(t, err)
	require.Len(t, first.Entries, 2)
	assert.True(t, first.HasMore)

	second, err := handler.Handle(ctx, GetLeaderboardQuery{GroupID: groupID, Limit: 2, Offset: 2})
	require.NoError(t, err)
	require.Len(t, second.Entries, 1)
	assert.False(t, second.HasMore)
	assert.Equal(t, "ccc", second.Entries[0].Name)
}

func TestGetLeaderboardUsesCacheWhenWarm(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewStudentRepository()
	groupID := shared.GroupID(uuid.NewString())
	seedGroupStudent(t, repo, groupID, "tek", 50, 1)

	cache := newMapBoardCache()
	handler := NewGetLeaderboardHandler(repo, cache)

	cold, err := handler.Handle(ctx, GetLeaderboardQuery{GroupID: groupID})
	require.NoError(t, err)
	assert.False(t, cold.FromCache, "first read rebuilds")

	warm, err := handler.Handle(ctx, GetLeaderboardQuery{GroupID: groupID})
	require.NoError(t, err)
	assert.True(t, warm.FromCache, "rebuild refills the cache")

	require.NoError(t, cache.Invalidate(ctx, groupID))
	afterFlush, err := handler.Handle(ctx, GetLeaderboardQuery{GroupID: groupID})
	require.NoError(t, err)
	assert.False(t, afterFlush.FromCache)
}

func TestGetLeaderboardValidation(t *testing.T) {
	handler := NewGetLeaderboardHandler(memory.NewStudentRepository(), nil)

	_, err := handler.Handle(context.Background(), GetLeaderboardQuery{})
	assert.ErrorIs(t, err, shared.ErrValidation)

	_, err = handler.Handle(context.Background(), GetLeaderboardQuery{
		GroupID: shared.GroupID(uuid.NewString()),
		Offset:  -1,
	})
	assert.ErrorIs(t, err, shared.ErrValidation)
}
