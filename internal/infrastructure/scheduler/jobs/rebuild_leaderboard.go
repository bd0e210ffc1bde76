package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/ibrhsahin418-alt/cetele/internal/application/query"
	"github.com/ibrhsahin418-alt/cetele/internal/domain/mentor"
)

// ══════════════════════════════════════════════════════════════════════════════
// REBUILD LEADERBOARD JOB
// ══════════════════════════════════════════════════════════════════════════════

// RebuildLeaderboardJob refreshes the cached board of every group so the
// leaderboard endpoint rarely takes the rebuild-on-miss path. Ranks come out
// of student XP totals; the board itself is never written to directly.
type RebuildLeaderboardJob struct {
	leaderboards *query.GetLeaderboardHandler
	groupRepo    mentor.GroupRepository
	logger       *slog.Logger
	config       RebuildLeaderboardConfig

	lastRebuildStats atomic.Value // *RebuildStats
}

// RebuildLeaderboardConfig contains configuration for the rebuild job.
type RebuildLeaderboardConfig struct {
	// Timeout is the maximum duration for the rebuild operation.
	Timeout time.Duration
}

// DefaultRebuildLeaderboardConfig returns sensible defaults.
func DefaultRebuildLeaderboardConfig() RebuildLeaderboardConfig {
	return RebuildLeaderboardConfig{
		Timeout: 5 * time.Minute,
	}
}

// RebuildStats contains statistics from one rebuild run.
type RebuildStats struct {
	StartedAt     time.Time
	CompletedAt   time.Time
	Duration      time.Duration
	GroupsTotal   int
	GroupsRebuilt int
	GroupsFailed  int
	EntriesTotal  int
}

// NewRebuildLeaderboardJob creates the rebuild job.
func NewRebuildLeaderboardJob(
	leaderboards *query.GetLeaderboardHandler,
	groupRepo mentor.GroupRepository,
	logger *slog.Logger,
	config RebuildLeaderboardConfig,
) *RebuildLeaderboardJob {
	if logger == nil {
		logger = slog.Default()
	}
	return &RebuildLeaderboardJob{
		leaderboards: leaderboards,
		groupRepo:    groupRepo,
		logger:       logger,
		config:       config,
	}
}

// Name returns the job name.
func (j *RebuildLeaderboardJob) Name() string {
	return "rebuild_leaderboard"
}

// Description returns a human-readable description.
func (j *RebuildLeaderboardJob) Description() string {
	return "Rebuilds and re-caches the leaderboard of every group"
}

// Run executes the rebuild.
func (j *RebuildLeaderboardJob) Run(ctx context.Context) error {
	startedAt := time.Now()

	if j.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.config.Timeout)
		defer cancel()
	}

	groups, err := j.groupRepo.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to list groups: %w", err)
	}

	stats := &RebuildStats{
		StartedAt:   startedAt,
		GroupsTotal: len(groups),
	}

	for _, g := range groups {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		board, err := j.leaderboards.RebuildBoard(ctx, g.ID)
		if err != nil {
			stats.GroupsFailed++
			j.logger.Error("leaderboard rebuild failed for group",
				slog.String("group_id", g.ID.String()),
				slog.String("error", err.Error()))
			continue
		}

		stats.GroupsRebuilt++
		stats.EntriesTotal += board.Count()
	}

	stats.CompletedAt = time.Now()
	stats.Duration = stats.CompletedAt.Sub(startedAt)
	j.lastRebuildStats.Store(stats)

	j.logger.Info("leaderboard rebuild completed",
		slog.Int("groups_total", stats.GroupsTotal),
		slog.Int("groups_rebuilt", stats.GroupsRebuilt),
		slog.Int("groups_failed", stats.GroupsFailed),
		slog.Int("entries", stats.EntriesTotal),
		slog.String("duration", stats.Duration.String()))

	return nil
}

// LastRebuildStats returns statistics from the last rebuild run.
func (j *RebuildLeaderboardJob) LastRebuildStats() *RebuildStats {
	stats := j.lastRebuildStats.Load()
	if stats == nil {
		return nil
	}
	return stats.(*RebuildStats)
}
