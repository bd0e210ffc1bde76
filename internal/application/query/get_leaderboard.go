// Package query contains read operations (CQRS - Queries).
// Queries never modify state - they only read and return data.
package query

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ibrhsahin418-alt/cetele/internal/domain/engine"
	"github.com/ibrhsahin418-alt/cetele/internal/domain/leaderboard"
	"github.com/ibrhsahin418-alt/cetele/internal/domain/shared"
	"github.com/ibrhsahin418-alt/cetele/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET LEADERBOARD QUERY
// Group leaderboard sorted by total XP. Reads from the cache when warm,
// rebuilds from the student repository on a miss and refills the cache.
// ══════════════════════════════════════════════════════════════════════════════

// LeaderboardCacheTTL bounds staleness between rebuilds.
const LeaderboardCacheTTL = 5 * time.Minute

// GetLeaderboardQuery contains leaderboard request parameters.
type GetLeaderboardQuery struct {
	// GroupID scopes the board to one mentor group.
	GroupID shared.GroupID

	// Limit is the number of rows (default 20, max 100).
	Limit int

	// Offset for pagination.
	Offset int
}

// Validate checks and normalizes the parameters.
func (q *GetLeaderboardQuery) Validate() error {
	if q.GroupID == "" {
		return errors.New("group_id is required")
	}
	if q.Limit < 0 {
		return errors.New("limit cannot be negative")
	}
	if q.Limit > 100 {
		q.Limit = 100
	}
	if q.Limit == 0 {
		q.Limit = 20
	}
	if q.Offset < 0 {
		return errors.New("offset cannot be negative")
	}
	return nil
}

// LeaderboardEntryDTO is one leaderboard row for transport.
type LeaderboardEntryDTO struct {
	// Rank is the position, 1-based. Equal XP shares a rank.
	Rank int `json:"rank"`

	// Medal is the podium emoji, empty below third place.
	Medal string `json:"medal,omitempty"`

	StudentID string `json:"student_id"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`

	// XP is the total XP the row is ranked by.
	XP int `json:"xp"`

	// Streak is the current streak in days.
	Streak int `json:"streak"`

	// RankTitle is the spiritual rank for the XP total.
	RankTitle string `json:"rank_title"`

	// VisualEffect is the active cosmetic effect, empty if none.
	VisualEffect string `json:"visual_effect,omitempty"`
}

// GetLeaderboardResult contains the leaderboard page.
type GetLeaderboardResult struct {
	GroupID     string                `json:"group_id"`
	Entries     []LeaderboardEntryDTO `json:"entries"`
	TotalCount  int                   `json:"total_count"`
	AverageXP   int                   `json:"average_xp"`
	HasMore     bool                  `json:"has_more"`
	FromCache   bool                  `json:"-"`
	GeneratedAt time.Time             `json:"generated_at"`
}

// GetLeaderboardHandler handles leaderboard queries.
type GetLeaderboardHandler struct {
	studentRepo student.Repository
	cache       leaderboard.Cache
}

// NewGetLeaderboardHandler creates a new GetLeaderboardHandler.
// cache may be nil; the handler then always rebuilds from the repository.
func NewGetLeaderboardHandler(studentRepo student.Repository, cache leaderboard.Cache) *GetLeaderboardHandler {
	return &GetLeaderboardHandler{
		studentRepo: studentRepo,
		cache:       cache,
	}
}

// Handle executes the leaderboard query.
func (h *GetLeaderboardHandler) Handle(ctx context.Context, query GetLeaderboardQuery) (*GetLeaderboardResult, error) {
	if err := query.Validate(); err != nil {
		return nil, shared.WrapError("query", "GetLeaderboard", shared.ErrValidation, err.Error(), err)
	}

	board, fromCache := h.loadBoard(ctx, query.GroupID)
	if board == nil {
		rebuilt, err := h.RebuildBoard(ctx, query.GroupID)
		if err != nil {
			return nil, fmt.Errorf("get_leaderboard: %w", err)
		}
		board = rebuilt
	}

	page := board.Slice(query.Offset, query.Offset+query.Limit)
	dtos := make([]LeaderboardEntryDTO, len(page))
	for i, e := range page {
		dtos[i] = toEntryDTO(e)
	}

	return &GetLeaderboardResult{
		GroupID:     query.GroupID.String(),
		Entries:     dtos,
		TotalCount:  board.Count(),
		AverageXP:   board.AverageXP(),
		HasMore:     query.Offset+len(page) < board.Count(),
		FromCache:   fromCache,
		GeneratedAt: time.Now(),
	}, nil
}

// RebuildBoard recomputes the board from student state and refills the
// cache. Also used by the scheduled leaderboard rebuild job.
func (h *GetLeaderboardHandler) RebuildBoard(ctx context.Context, groupID shared.GroupID) (*leaderboard.Board, error) {
	students, err := h.studentRepo.GetByGroup(ctx, groupID, student.DefaultListOptions().WithLimit(0))
	if err != nil {
		return nil, fmt.Errorf("failed to load group students: %w", err)
	}

	now := time.Now()
	board := leaderboard.NewBoard(groupID)
	for _, stud := range students {
		effect, _ := engine.VisualEffect(stud.Rewards, now)
		entry := &leaderboard.Entry{
			StudentID:    stud.ID,
			Name:         stud.Name,
			AvatarURL:    stud.AvatarURL,
			XP:           stud.TotalXP.Int(),
			Streak:       stud.Streak,
			RankTitle:    engine.RankFor(stud.TotalXP.Int()).Name,
			VisualEffect: effect,
			UpdatedAt:    now,
		}
		if err := board.Add(entry); err != nil {
			return nil, err
		}
	}
	board.Sort()

	if h.cache != nil {
		// Cache refill failure is not fatal; the board is already built.
		_ = h.cache.SetBoard(ctx, board, LeaderboardCacheTTL)
	}
	return board, nil
}

func (h *GetLeaderboardHandler) loadBoard(ctx context.Context, groupID shared.GroupID) (*leaderboard.Board, bool) {
	if h.cache == nil {
		return nil, false
	}
	board, err := h.cache.GetBoard(ctx, groupID)
	if err != nil || board == nil || board.Count() == 0 {
		return nil, false
	}
	return board, true
}

func toEntryDTO(e *leaderboard.Entry) LeaderboardEntryDTO {
	return LeaderboardEntryDTO{
		Rank:         e.Rank.Int(),
		Medal:        e.Medal(),
		StudentID:    e.StudentID.String(),
		Name:         e.Name,
		AvatarURL:    e.AvatarURL,
		XP:           e.XP,
		Streak:       e.Streak,
		RankTitle:    e.RankTitle,
		VisualEffect: e.VisualEffect,
	}
}
