package command

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ibrhsahin418-alt/cetele/internal/domain/engine"
	"github.com/ibrhsahin418-alt/cetele/internal/domain/shared"
	"github.com/ibrhsahin418-alt/cetele/internal/domain/student"
)

// ToggleRewardCommand flips the active flag of a temporary cosmetic reward.
// Toggling works even on expired rewards; expiry is enforced at render time.
type ToggleRewardCommand struct {
	StudentID shared.StudentID
	RewardID  string
}

// Validate validates the command.
func (c ToggleRewardCommand) Validate() error {
	if c.StudentID == "" {
		return errors.New("toggle_reward: student_id is required")
	}
	if c.RewardID == "" {
		return errors.New("toggle_reward: reward_id is required")
	}
	return nil
}

// ToggleRewardResult reports the new reward state.
type ToggleRewardResult struct {
	RewardID string
	IsActive bool

	// VisualEffect is the effect now shown for the student, empty if none.
	VisualEffect string
}

// ToggleRewardHandler handles the ToggleRewardCommand.
type ToggleRewardHandler struct {
	studentRepo student.Repository
}

// NewToggleRewardHandler creates a new ToggleRewardHandler.
func NewToggleRewardHandler(studentRepo student.Repository) *ToggleRewardHandler {
	return &ToggleRewardHandler{studentRepo: studentRepo}
}

// Handle executes the toggle reward command.
func (h *ToggleRewardHandler) Handle(ctx context.Context, cmd ToggleRewardCommand) (*ToggleRewardResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("toggle_reward: validation failed: %w", err)
	}

	stud, err := h.studentRepo.GetByID(ctx, cmd.StudentID)
	if err != nil {
		return nil, fmt.Errorf("toggle_reward: failed to get student: %w", err)
	}

	if err := stud.ToggleReward(cmd.RewardID); err != nil {
		return nil, err
	}

	if err := h.studentRepo.Update(ctx, stud); err != nil {
		return nil, fmt.Errorf("toggle_reward: failed to update student: %w", err)
	}

	result := &ToggleRewardResult{RewardID: cmd.RewardID}
	for _, r := range stud.Rewards {
		if r.ID == cmd.RewardID {
			result.IsActive = r.IsActive
			break
		}
	}
	if effect, ok := engine.VisualEffect(stud.Rewards, time.Now()); ok {
		result.VisualEffect = effect
	}

	return result, nil
}
