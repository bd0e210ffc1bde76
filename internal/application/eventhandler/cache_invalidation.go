// Package eventhandler contains the reactive side of the application: small
// handlers subscribed to domain events that run side effects such as cache
// invalidation and audit logging. Handlers must never fail a command; they
// log and move on.
package eventhandler

import (
	"context"
	"log/slog"

	"github.com/ibrhsahin418-alt/cetele/internal/domain/leaderboard"
	"github.com/ibrhsahin418-alt/cetele/internal/domain/shared"
	"github.com/ibrhsahin418-alt/cetele/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// CACHE INVALIDATION HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// CacheInvalidationHandler drops stale cache entries whenever a student's
// visible state changes. Dashboards read through the caches, so a missed
// invalidation shows up as a stale streak or leaderboard row.
type CacheInvalidationHandler struct {
	studentRepo  student.Repository
	studentCache student.Cache
	boardCache   leaderboard.Cache
	logger       *slog.Logger
}

// NewCacheInvalidationHandler creates the handler. Either cache may be nil
// when the deployment runs without Redis.
func NewCacheInvalidationHandler(
	studentRepo student.Repository,
	studentCache student.Cache,
	boardCache leaderboard.Cache,
	logger *slog.Logger,
) *CacheInvalidationHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &CacheInvalidationHandler{
		studentRepo:  studentRepo,
		studentCache: studentCache,
		boardCache:   boardCache,
		logger:       logger.With("handler", "cache_invalidation"),
	}
}

// EventTypes lists the events this handler subscribes to.
func (h *CacheInvalidationHandler) EventTypes() []shared.EventType {
	return []shared.EventType{
		shared.EventActivityLogged,
		shared.EventItemPurchased,
		shared.EventRankPromoted,
		shared.EventStreakBroken,
		shared.EventStreakFreezeBurned,
		shared.EventLogVerificationToggled,
		shared.EventTemporaryRewardGiven,
		shared.EventSweepCompleted,
	}
}

// Handle implements shared.EventHandler.
func (h *CacheInvalidationHandler) Handle(event shared.Event) error {
	ctx := context.Background()

	// A completed sweep may have touched every student.
	if event.EventType() == shared.EventSweepCompleted {
		h.invalidateEverything(ctx)
		return nil
	}

	studentID := shared.StudentID(event.AggregateID())
	if studentID.IsEmpty() {
		return nil
	}

	if h.studentCache != nil {
		if err := h.studentCache.Invalidate(ctx, studentID); err != nil {
			h.logger.Warn("failed to invalidate student cache",
				"student_id", studentID.String(),
				"event_type", string(event.EventType()),
				"error", err,
			)
		}
	}

	if h.boardCache != nil {
		h.invalidateBoard(ctx, studentID)
	}

	return nil
}

// invalidateBoard resolves the student's group and drops its cached board.
func (h *CacheInvalidationHandler) invalidateBoard(ctx context.Context, studentID shared.StudentID) {
	stud, err := h.studentRepo.GetByID(ctx, studentID)
	if err != nil {
		h.logger.Warn("failed to resolve group for board invalidation",
			"student_id", studentID.String(),
			"error", err,
		)
		return
	}

	if err := h.boardCache.Invalidate(ctx, stud.GroupID); err != nil {
		h.logger.Warn("failed to invalidate board cache",
			"group_id", stud.GroupID.String(),
			"error", err,
		)
	}
}

func (h *CacheInvalidationHandler) invalidateEverything(ctx context.Context) {
	if h.studentCache != nil {
		if err := h.studentCache.InvalidateAll(ctx); err != nil {
			h.logger.Warn("failed to clear student cache after sweep", "error", err)
		}
	}
	if h.boardCache != nil {
		if err := h.boardCache.InvalidateAll(ctx); err != nil {
			h.logger.Warn("failed to clear board cache after sweep", "error", err)
		}
	}
}
