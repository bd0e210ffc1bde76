package leaderboard

import (
	"context"
	"time"

	"github.com/ibrhsahin418-alt/cetele/internal/domain/shared"
)

// Cache caches ranked boards per group, usually backed by a Redis sorted
// set. A cache miss is normal; callers rebuild from the student repository.
type Cache interface {
	// GetBoard returns the cached board for a group.
	// Returns ErrEmptyBoard on a miss.
	GetBoard(ctx context.Context, groupID shared.GroupID) (*Board, error)

	// SetBoard stores a board with a TTL.
	SetBoard(ctx context.Context, board *Board, ttl time.Duration) error

	// GetRank returns a single student's cached entry.
	// Returns ErrEmptyBoard on a miss.
	GetRank(ctx context.Context, groupID shared.GroupID, studentID shared.StudentID) (*Entry, error)

	// Invalidate drops the cached board for a group.
	Invalidate(ctx context.Context, groupID shared.GroupID) error

	// InvalidateAll drops every cached board.
	InvalidateAll(ctx context.Context) error
}
