package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ibrhsahin418-alt/cetele/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// EXPIRE REWARDS JOB
// ══════════════════════════════════════════════════════════════════════════════

// ExpireRewardsJob prunes lapsed cosmetic rewards from student aggregates.
// Reads already ignore expired rewards, so this is pure housekeeping and can
// run on a relaxed schedule.
type ExpireRewardsJob struct {
	studentRepo student.Repository
	logger      *slog.Logger
}

// NewExpireRewardsJob creates the reward cleanup job.
func NewExpireRewardsJob(studentRepo student.Repository, logger *slog.Logger) *ExpireRewardsJob {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExpireRewardsJob{
		studentRepo: studentRepo,
		logger:      logger,
	}
}

// Name returns the job name.
func (j *ExpireRewardsJob) Name() string {
	return "expire_rewards"
}

// Description returns a human-readable description.
func (j *ExpireRewardsJob) Description() string {
	return "Removes expired cosmetic rewards from student records"
}

// Run executes the cleanup.
func (j *ExpireRewardsJob) Run(ctx context.Context) error {
	students, err := j.studentRepo.GetAll(ctx, student.DefaultListOptions().WithLimit(0))
	if err != nil {
		return fmt.Errorf("failed to list students: %w", err)
	}

	now := time.Now()
	pruned := 0
	touched := 0

	for _, stud := range students {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		removed := stud.PruneExpiredRewards(now)
		if removed == 0 {
			continue
		}

		if err := j.studentRepo.Update(ctx, stud); err != nil {
			j.logger.Error("failed to persist pruned rewards",
				slog.String("student_id", stud.ID.String()),
				slog.String("error", err.Error()))
			continue
		}
		pruned += removed
		touched++
	}

	j.logger.Info("reward cleanup completed",
		slog.Int("rewards_pruned", pruned),
		slog.Int("students_touched", touched))

	return nil
}
