// Package jobs contains the scheduled jobs of the tally service.
package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/ibrhsahin418-alt/cetele/internal/application/command"
	"github.com/ibrhsahin418-alt/cetele/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// SWEEP STREAKS JOB
// ══════════════════════════════════════════════════════════════════════════════

// SweepStreaksJob runs the midnight streak decay pass. It is scheduled for
// 00:00 Istanbul time; every student who logged nothing the previous day
// either burns a streak freeze or loses their streak. The underlying command
// is idempotent per day, so an extra run after a restart is harmless.
type SweepStreaksJob struct {
	handler *command.SweepStreaksHandler
	logger  *slog.Logger
	config  SweepStreaksConfig

	lastRunStats atomic.Value // *SweepStreaksStats
}

// SweepStreaksConfig contains configuration for the sweep job.
type SweepStreaksConfig struct {
	// Timeout is the maximum duration for one sweep run.
	Timeout time.Duration
}

// DefaultSweepStreaksConfig returns sensible defaults.
func DefaultSweepStreaksConfig() SweepStreaksConfig {
	return SweepStreaksConfig{
		Timeout: 5 * time.Minute,
	}
}

// SweepStreaksStats contains statistics from one sweep run.
type SweepStreaksStats struct {
	StartedAt     time.Time
	CompletedAt   time.Time
	Duration      time.Duration
	ReferenceDate time.Time
	StudentsSwept int
	StreaksKept   int
	StreaksBroken int
	FreezesBurned int
	Skipped       int
}

// NewSweepStreaksJob creates the sweep job.
func NewSweepStreaksJob(handler *command.SweepStreaksHandler, logger *slog.Logger, config SweepStreaksConfig) *SweepStreaksJob {
	if logger == nil {
		logger = slog.Default()
	}
	return &SweepStreaksJob{
		handler: handler,
		logger:  logger,
		config:  config,
	}
}

// Name returns the job name.
func (j *SweepStreaksJob) Name() string {
	return "sweep_streaks"
}

// Description returns a human-readable description.
func (j *SweepStreaksJob) Description() string {
	return "Applies streak decay for students who missed a day, burning streak freezes where available"
}

// Run executes the sweep.
func (j *SweepStreaksJob) Run(ctx context.Context) error {
	startedAt := time.Now()
	ref := timeutil.Now()

	if j.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.config.Timeout)
		defer cancel()
	}

	result, err := j.handler.Handle(ctx, command.SweepStreaksCommand{ReferenceDate: ref})
	if err != nil {
		return fmt.Errorf("streak sweep failed: %w", err)
	}

	stats := &SweepStreaksStats{
		StartedAt:     startedAt,
		CompletedAt:   time.Now(),
		ReferenceDate: ref,
		StudentsSwept: result.StudentsSwept,
		StreaksKept:   result.StreaksKept,
		StreaksBroken: result.StreaksBroken,
		FreezesBurned: result.FreezesBurned,
		Skipped:       result.Skipped,
	}
	stats.Duration = stats.CompletedAt.Sub(startedAt)
	j.lastRunStats.Store(stats)

	return nil
}

// LastRunStats returns statistics from the last sweep run.
func (j *SweepStreaksJob) LastRunStats() *SweepStreaksStats {
	stats := j.lastRunStats.Load()
	if stats == nil {
		return nil
	}
	return stats.(*SweepStreaksStats)
}
