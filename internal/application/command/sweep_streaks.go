package command

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ibrhsahin418-alt/cetele/internal/domain/engine"
	"github.com/ibrhsahin418-alt/cetele/internal/domain/shared"
	"github.com/ibrhsahin418-alt/cetele/internal/domain/student"
	"github.com/ibrhsahin418-alt/cetele/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// SWEEP STREAKS COMMAND
// The midnight decay pass. For every student it compares the date of their
// latest log entry (by date, not submission order) against the reference day
// and either keeps the streak, burns one streak freeze, or resets to zero.
// Re-running the sweep for the same day is a no-op per student.
// ══════════════════════════════════════════════════════════════════════════════

// SweepStreaksCommand triggers a decay pass.
type SweepStreaksCommand struct {
	// ReferenceDate is the day the sweep evaluates against.
	// Defaults to now when zero.
	ReferenceDate time.Time
}

// SweepStreaksResult summarizes one sweep run.
type SweepStreaksResult struct {
	StudentsSwept int
	StreaksKept   int
	StreaksBroken int
	FreezesBurned int
	Skipped       int
	Events        []shared.Event
}

// SweepStreaksHandler handles the SweepStreaksCommand.
type SweepStreaksHandler struct {
	studentRepo    student.Repository
	eventPublisher shared.EventPublisher
	logger         *slog.Logger
}

// NewSweepStreaksHandler creates a new SweepStreaksHandler.
func NewSweepStreaksHandler(studentRepo student.Repository, eventPublisher shared.EventPublisher, logger *slog.Logger) *SweepStreaksHandler {
	return &SweepStreaksHandler{
		studentRepo:    studentRepo,
		eventPublisher: eventPublisher,
		logger:         logger,
	}
}

// Handle executes the sweep.
func (h *SweepStreaksHandler) Handle(ctx context.Context, cmd SweepStreaksCommand) (*SweepStreaksResult, error) {
	ref := cmd.ReferenceDate
	if ref.IsZero() {
		ref = timeutil.Now()
	}

	students, err := h.studentRepo.GetAll(ctx, student.DefaultListOptions().WithLimit(0))
	if err != nil {
		return nil, fmt.Errorf("sweep_streaks: failed to list students: %w", err)
	}

	result := &SweepStreaksResult{}
	for _, stud := range students {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		if stud.SweptOn(ref) {
			result.Skipped++
			continue
		}

		if err := h.sweepOne(ctx, stud, ref, result); err != nil {
			h.logger.Error("sweep failed for student",
				slog.String("student_id", stud.ID.String()),
				slog.String("error", err.Error()))
			continue
		}
		result.StudentsSwept++
	}

	event := shared.NewSweepCompletedEvent(ref, result.StudentsSwept, result.StreaksBroken, result.FreezesBurned)
	result.Events = append(result.Events, event)
	_ = h.eventPublisher.Publish(event)

	h.logger.Info("streak sweep completed",
		slog.String("reference_date", timeutil.FormatDateStr(ref)),
		slog.Int("swept", result.StudentsSwept),
		slog.Int("kept", result.StreaksKept),
		slog.Int("broken", result.StreaksBroken),
		slog.Int("freezes_burned", result.FreezesBurned),
		slog.Int("skipped", result.Skipped))

	return result, nil
}

func (h *SweepStreaksHandler) sweepOne(ctx context.Context, stud *student.Student, ref time.Time, result *SweepStreaksResult) error {
	freezes := stud.ItemCount(student.ItemStreakFreeze)
	decision := engine.DecideDecay(stud.LatestLog(), ref, freezes)

	switch decision.Action {
	case engine.DecayKeep:
		result.StreaksKept++

	case engine.DecayConsumeFreeze:
		stud.ConsumeItem(student.ItemStreakFreeze)
		result.FreezesBurned++
		event := shared.NewStreakFreezeBurnedEvent(stud.ID.String(), freezes-1, stud.Streak)
		result.Events = append(result.Events, event)
		_ = h.eventPublisher.Publish(event)

	case engine.DecayReset:
		if stud.Streak > 0 {
			event := shared.NewStreakBrokenEvent(stud.ID.String(), stud.Streak, decision.DaysMissed)
			result.Events = append(result.Events, event)
			_ = h.eventPublisher.Publish(event)
		}
		stud.ResetStreak()
		result.StreaksBroken++
	}

	stud.MarkSwept(ref)

	if err := h.studentRepo.Update(ctx, stud); err != nil {
		return fmt.Errorf("update: %w", err)
	}
	return nil
}
