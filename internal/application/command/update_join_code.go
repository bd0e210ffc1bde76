package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/ibrhsahin418-alt/cetele/internal/domain/mentor"
	"github.com/ibrhsahin418-alt/cetele/internal/domain/shared"
)

// UpdateJoinCodeCommand rotates a group's join code. Current members keep
// their membership; only future joins use the new code.
type UpdateJoinCodeCommand struct {
	GroupID  shared.GroupID
	MentorID shared.MentorID
	NewCode  string
}

// Validate validates the command.
func (c UpdateJoinCodeCommand) Validate() error {
	if c.GroupID == "" {
		return errors.New("update_join_code: group_id is required")
	}
	if c.NewCode == "" {
		return shared.ErrEmptyJoinCode
	}
	return nil
}

// UpdateJoinCodeHandler handles the UpdateJoinCodeCommand.
type UpdateJoinCodeHandler struct {
	groupRepo mentor.GroupRepository
}

// NewUpdateJoinCodeHandler creates a new UpdateJoinCodeHandler.
func NewUpdateJoinCodeHandler(groupRepo mentor.GroupRepository) *UpdateJoinCodeHandler {
	return &UpdateJoinCodeHandler{groupRepo: groupRepo}
}

// Handle executes the update join code command.
func (h *UpdateJoinCodeHandler) Handle(ctx context.Context, cmd UpdateJoinCodeCommand) error {
	if err := cmd.Validate(); err != nil {
		return fmt.Errorf("update_join_code: validation failed: %w", err)
	}

	group, err := h.groupRepo.GetByID(ctx, cmd.GroupID)
	if err != nil {
		return err
	}
	if cmd.MentorID != "" && group.MentorID != cmd.MentorID {
		return shared.ErrUnauthorized
	}

	code, err := shared.NewJoinCode(cmd.NewCode)
	if err != nil {
		return err
	}
	if err := group.UpdateJoinCode(code); err != nil {
		return err
	}

	if err := h.groupRepo.Update(ctx, group); err != nil {
		return fmt.Errorf("update_join_code: failed to update group: %w", err)
	}
	return nil
}
