// Package command contains write operations (CQRS - Commands).
package command

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ibrhsahin418-alt/cetele/internal/domain/engine"
	"github.com/ibrhsahin418-alt/cetele/internal/domain/shared"
	"github.com/ibrhsahin418-alt/cetele/internal/domain/student"
	"github.com/ibrhsahin418-alt/cetele/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// LOG ACTIVITY COMMAND
// The write path of the rule engine: one submitted log entry awards XP and
// coins, may extend the streak, and may trigger rank promotions and badges.
// ══════════════════════════════════════════════════════════════════════════════

// LogActivityCommand contains the data for one tally submission.
type LogActivityCommand struct {
	// StudentID identifies the submitting student.
	StudentID shared.StudentID

	// Type is the activity discipline.
	Type student.ActivityType

	// Value is the amount in the activity's unit (pages, repetitions, prayer times).
	Value int

	// Details is free text; for custom tasks it must equal the task title exactly.
	Details string

	// Date is when the work was done (defaults to now if zero).
	Date time.Time

	// CorrelationID for tracing.
	CorrelationID string
}

// Validate validates the command.
func (c LogActivityCommand) Validate() error {
	if c.StudentID == "" {
		return errors.New("log_activity: student_id is required")
	}
	if !c.Type.IsValid() {
		return shared.ErrInvalidActivityType
	}
	if c.Value <= 0 {
		return shared.ErrInvalidActivityValue
	}
	return nil
}

// LogActivityResult describes what the submission changed.
type LogActivityResult struct {
	// LogID is the ID of the stored entry.
	LogID string

	// XPEarned and CoinsEarned are the rewards credited.
	XPEarned    int
	CoinsEarned int

	// MultiplierApplied reports whether the weekend double counted.
	MultiplierApplied bool

	// TotalXP and Coins are the balances after crediting.
	TotalXP int
	Coins   int

	// StreakExtended reports whether this submission flipped the daily
	// goal from incomplete to complete.
	StreakExtended bool
	CurrentStreak  int

	// RankName is the rank after crediting; Promoted is set when the
	// submission crossed a tier threshold.
	RankName string
	Promoted bool

	// BadgesAwarded lists badges newly earned by this submission.
	BadgesAwarded []string

	// Events contains the generated domain events.
	Events []shared.Event
}

// LogActivityHandler handles the LogActivityCommand.
type LogActivityHandler struct {
	studentRepo    student.Repository
	eventPublisher shared.EventPublisher
}

// NewLogActivityHandler creates a new LogActivityHandler.
func NewLogActivityHandler(studentRepo student.Repository, eventPublisher shared.EventPublisher) *LogActivityHandler {
	return &LogActivityHandler{
		studentRepo:    studentRepo,
		eventPublisher: eventPublisher,
	}
}

// Handle executes the log activity command.
//
// Ordering matters: the daily-goal state is evaluated before the entry is
// appended and again after, and the streak increments only on that
// incomplete-to-complete transition. A second completing entry on the same
// day therefore never double-counts.
func (h *LogActivityHandler) Handle(ctx context.Context, cmd LogActivityCommand) (*LogActivityResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("log_activity: validation failed: %w", err)
	}

	date := cmd.Date
	if date.IsZero() {
		date = timeutil.Now()
	}

	stud, err := h.studentRepo.GetByID(ctx, cmd.StudentID)
	if err != nil {
		return nil, fmt.Errorf("log_activity: failed to get student: %w", err)
	}

	multiplier := timeutil.IsWeekend(date)
	reward, err := engine.ComputeReward(cmd.Type, cmd.Value, multiplier)
	if err != nil {
		return nil, fmt.Errorf("log_activity: %w", err)
	}

	entry := student.LogEntry{
		ID:          uuid.NewString(),
		Type:        cmd.Type,
		Value:       cmd.Value,
		Details:     cmd.Details,
		Date:        date,
		XPEarned:    reward.XP,
		CoinsEarned: reward.Coins,
	}

	// Completion edge detection happens strictly before the append.
	extended := engine.EvaluateSubmission(stud.CustomTasks, stud.Logs, entry)

	rankBefore := engine.RankFor(stud.TotalXP.Int())

	stud.AddLog(entry)
	stud.AwardXP(reward.XP, reward.Coins)
	if extended {
		stud.ExtendStreak()
	}

	result := &LogActivityResult{
		LogID:             entry.ID,
		XPEarned:          reward.XP,
		CoinsEarned:       reward.Coins,
		MultiplierApplied: multiplier,
		TotalXP:           stud.TotalXP.Int(),
		Coins:             stud.Coins.Int(),
		StreakExtended:    extended,
		CurrentStreak:     stud.Streak,
		Events:            make([]shared.Event, 0, 4),
	}

	result.Events = append(result.Events, shared.NewActivityLoggedEvent(
		stud.ID.String(), entry.ID, cmd.Type.String(), cmd.Value, reward.XP, reward.Coins))
	result.Events = append(result.Events, shared.NewXPGainedEvent(
		stud.ID.String(), reward.XP, stud.TotalXP.Int(), "log"))
	if extended {
		result.Events = append(result.Events, shared.NewStreakExtendedEvent(stud.ID.String(), stud.Streak))
	}

	rankAfter := engine.RankFor(stud.TotalXP.Int())
	result.RankName = rankAfter.Name
	if rankAfter.Name != rankBefore.Name {
		result.Promoted = true
		stud.GrantReward(engine.NewPromotionReward(time.Now()))
		result.Events = append(result.Events, shared.NewRankPromotedEvent(
			stud.ID.String(), rankBefore.Name, rankAfter.Name, stud.TotalXP.Int()))
	}

	for _, badge := range engine.CheckBadges(stud) {
		if stud.AwardBadge(badge) {
			result.BadgesAwarded = append(result.BadgesAwarded, badge)
			result.Events = append(result.Events, shared.NewBadgeAwardedEvent(stud.ID.String(), badge))
		}
	}

	if err := h.studentRepo.Update(ctx, stud); err != nil {
		return nil, fmt.Errorf("log_activity: failed to update student: %w", err)
	}

	for _, event := range result.Events {
		_ = h.eventPublisher.Publish(event)
	}

	return result, nil
}
