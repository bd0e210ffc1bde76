package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/ibrhsahin418-alt/cetele/internal/domain/shared"
	"github.com/ibrhsahin418-alt/cetele/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// LOG VERIFICATION COMMANDS
// Mentors mark log entries as checked. Verification is bookkeeping only;
// XP and streaks are never recalculated from it.
// ══════════════════════════════════════════════════════════════════════════════

// ToggleVerificationCommand flips the verified flag of one log entry.
type ToggleVerificationCommand struct {
	StudentID shared.StudentID
	LogID     string
}

// Validate validates the command.
func (c ToggleVerificationCommand) Validate() error {
	if c.StudentID == "" {
		return errors.New("toggle_verification: student_id is required")
	}
	if c.LogID == "" {
		return errors.New("toggle_verification: log_id is required")
	}
	return nil
}

// ToggleVerificationResult reports the new flag state.
type ToggleVerificationResult struct {
	LogID    string
	Verified bool
}

// ToggleVerificationHandler handles the ToggleVerificationCommand.
type ToggleVerificationHandler struct {
	studentRepo    student.Repository
	eventPublisher shared.EventPublisher
}

// NewToggleVerificationHandler creates a new ToggleVerificationHandler.
func NewToggleVerificationHandler(studentRepo student.Repository, eventPublisher shared.EventPublisher) *ToggleVerificationHandler {
	return &ToggleVerificationHandler{studentRepo: studentRepo, eventPublisher: eventPublisher}
}

// Handle executes the toggle verification command.
func (h *ToggleVerificationHandler) Handle(ctx context.Context, cmd ToggleVerificationCommand) (*ToggleVerificationResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("toggle_verification: validation failed: %w", err)
	}

	stud, err := h.studentRepo.GetByID(ctx, cmd.StudentID)
	if err != nil {
		return nil, fmt.Errorf("toggle_verification: failed to get student: %w", err)
	}

	entry := stud.FindLog(cmd.LogID)
	if entry == nil {
		return nil, shared.ErrLogNotFound
	}
	entry.Verified = !entry.Verified

	if err := h.studentRepo.Update(ctx, stud); err != nil {
		return nil, fmt.Errorf("toggle_verification: failed to update student: %w", err)
	}

	event := shared.NewBaseEvent(shared.EventLogVerificationToggled, stud.ID.String())
	_ = h.eventPublisher.Publish(verificationEvent{BaseEvent: event, LogID: cmd.LogID, Verified: entry.Verified})

	return &ToggleVerificationResult{LogID: cmd.LogID, Verified: entry.Verified}, nil
}

// verificationEvent carries the toggled state.
type verificationEvent struct {
	shared.BaseEvent
	LogID    string `json:"log_id"`
	Verified bool   `json:"verified"`
}

// Payload implements shared.Event.
func (e verificationEvent) Payload() map[string]interface{} {
	return map[string]interface{}{"log_id": e.LogID, "verified": e.Verified}
}

// ══════════════════════════════════════════════════════════════════════════════
// APPROVE ALL LOGS
// ══════════════════════════════════════════════════════════════════════════════

// ApproveAllLogsCommand marks every unverified log of a student as verified.
type ApproveAllLogsCommand struct {
	StudentID shared.StudentID
}

// Validate validates the command.
func (c ApproveAllLogsCommand) Validate() error {
	if c.StudentID == "" {
		return errors.New("approve_all_logs: student_id is required")
	}
	return nil
}

// ApproveAllLogsResult reports how many entries changed.
type ApproveAllLogsResult struct {
	Approved int
}

// ApproveAllLogsHandler handles the ApproveAllLogsCommand.
type ApproveAllLogsHandler struct {
	studentRepo student.Repository
}

// NewApproveAllLogsHandler creates a new ApproveAllLogsHandler.
func NewApproveAllLogsHandler(studentRepo student.Repository) *ApproveAllLogsHandler {
	return &ApproveAllLogsHandler{studentRepo: studentRepo}
}

// Handle executes the approve all command.
func (h *ApproveAllLogsHandler) Handle(ctx context.Context, cmd ApproveAllLogsCommand) (*ApproveAllLogsResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("approve_all_logs: validation failed: %w", err)
	}

	stud, err := h.studentRepo.GetByID(ctx, cmd.StudentID)
	if err != nil {
		return nil, fmt.Errorf("approve_all_logs: failed to get student: %w", err)
	}

	approved := 0
	for i := range stud.Logs {
		if !stud.Logs[i].Verified {
			stud.Logs[i].Verified = true
			approved++
		}
	}

	if approved > 0 {
		if err := h.studentRepo.Update(ctx, stud); err != nil {
			return nil, fmt.Errorf("approve_all_logs: failed to update student: %w", err)
		}
	}

	return &ApproveAllLogsResult{Approved: approved}, nil
}
