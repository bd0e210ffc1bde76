package command

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ibrhsahin418-alt/cetele/internal/domain/shared"
	"github.com/ibrhsahin418-alt/cetele/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// CUSTOM TASK COMMANDS
// Mentors shape the daily goal by assigning titled tasks, individually or to
// the whole group. Task titles are matched against log details verbatim, so
// titles are stored exactly as entered (trimmed only).
// ══════════════════════════════════════════════════════════════════════════════

// AssignTaskCommand assigns one custom task to one student.
type AssignTaskCommand struct {
	StudentID shared.StudentID
	MentorID  shared.MentorID
	Title     string

	// Type defaults to NAMAZ when empty, matching the mentor UI default.
	Type student.ActivityType
}

// Validate validates the command.
func (c AssignTaskCommand) Validate() error {
	if c.StudentID == "" {
		return errors.New("assign_task: student_id is required")
	}
	if strings.TrimSpace(c.Title) == "" {
		return errors.New("assign_task: title is required")
	}
	if c.Type != "" && !c.Type.IsValid() {
		return shared.ErrInvalidActivityType
	}
	return nil
}

// AssignTaskResult reports the created task.
type AssignTaskResult struct {
	TaskID string
	Title  string
}

// AssignTaskHandler handles the AssignTaskCommand.
type AssignTaskHandler struct {
	studentRepo    student.Repository
	eventPublisher shared.EventPublisher
}

// NewAssignTaskHandler creates a new AssignTaskHandler.
func NewAssignTaskHandler(studentRepo student.Repository, eventPublisher shared.EventPublisher) *AssignTaskHandler {
	return &AssignTaskHandler{studentRepo: studentRepo, eventPublisher: eventPublisher}
}

// Handle executes the assign task command.
func (h *AssignTaskHandler) Handle(ctx context.Context, cmd AssignTaskCommand) (*AssignTaskResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("assign_task: validation failed: %w", err)
	}

	stud, err := h.studentRepo.GetByID(ctx, cmd.StudentID)
	if err != nil {
		return nil, fmt.Errorf("assign_task: failed to get student: %w", err)
	}

	taskType := cmd.Type
	if taskType == "" {
		taskType = student.ActivityNamaz
	}

	task := student.CustomTask{
		ID:         uuid.NewString(),
		Title:      strings.TrimSpace(cmd.Title),
		Type:       taskType,
		AssignedBy: cmd.MentorID,
		CreatedAt:  time.Now(),
	}
	stud.AssignTask(task)

	if err := h.studentRepo.Update(ctx, stud); err != nil {
		return nil, fmt.Errorf("assign_task: failed to update student: %w", err)
	}

	_ = h.eventPublisher.Publish(taskEvent{
		BaseEvent: shared.NewBaseEvent(shared.EventTaskAssigned, stud.ID.String()),
		TaskID:    task.ID,
		Title:     task.Title,
	})

	return &AssignTaskResult{TaskID: task.ID, Title: task.Title}, nil
}

// taskEvent carries task assignment changes.
type taskEvent struct {
	shared.BaseEvent
	TaskID string `json:"task_id"`
	Title  string `json:"title"`
}

// Payload implements shared.Event.
func (e taskEvent) Payload() map[string]interface{} {
	return map[string]interface{}{"task_id": e.TaskID, "title": e.Title}
}

// ══════════════════════════════════════════════════════════════════════════════
// REMOVE TASK
// ══════════════════════════════════════════════════════════════════════════════

// RemoveTaskCommand removes one custom task by ID.
type RemoveTaskCommand struct {
	StudentID shared.StudentID
	TaskID    string
}

// Validate validates the command.
func (c RemoveTaskCommand) Validate() error {
	if c.StudentID == "" {
		return errors.New("remove_task: student_id is required")
	}
	if c.TaskID == "" {
		return errors.New("remove_task: task_id is required")
	}
	return nil
}

// RemoveTaskHandler handles the RemoveTaskCommand.
type RemoveTaskHandler struct {
	studentRepo    student.Repository
	eventPublisher shared.EventPublisher
}

// NewRemoveTaskHandler creates a new RemoveTaskHandler.
func NewRemoveTaskHandler(studentRepo student.Repository, eventPublisher shared.EventPublisher) *RemoveTaskHandler {
	return &RemoveTaskHandler{studentRepo: studentRepo, eventPublisher: eventPublisher}
}

// Handle executes the remove task command.
func (h *RemoveTaskHandler) Handle(ctx context.Context, cmd RemoveTaskCommand) error {
	if err := cmd.Validate(); err != nil {
		return fmt.Errorf("remove_task: validation failed: %w", err)
	}

	stud, err := h.studentRepo.GetByID(ctx, cmd.StudentID)
	if err != nil {
		return fmt.Errorf("remove_task: failed to get student: %w", err)
	}

	if !stud.RemoveTask(cmd.TaskID) {
		return shared.ErrTaskNotFound
	}

	if err := h.studentRepo.Update(ctx, stud); err != nil {
		return fmt.Errorf("remove_task: failed to update student: %w", err)
	}

	_ = h.eventPublisher.Publish(taskEvent{
		BaseEvent: shared.NewBaseEvent(shared.EventTaskRemoved, stud.ID.String()),
		TaskID:    cmd.TaskID,
	})
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// GROUP-WIDE TASK COMMANDS
// ══════════════════════════════════════════════════════════════════════════════

// AssignGroupTaskCommand assigns the same titled task to every student of a
// group. Students already holding a task with the exact title are skipped.
type AssignGroupTaskCommand struct {
	GroupID  shared.GroupID
	MentorID shared.MentorID
	Title    string
	Type     student.ActivityType
}

// Validate validates the command.
func (c AssignGroupTaskCommand) Validate() error {
	if c.GroupID == "" {
		return errors.New("assign_group_task: group_id is required")
	}
	if strings.TrimSpace(c.Title) == "" {
		return errors.New("assign_group_task: title is required")
	}
	if c.Type != "" && !c.Type.IsValid() {
		return shared.ErrInvalidActivityType
	}
	return nil
}

// AssignGroupTaskResult reports the bulk assignment outcome.
type AssignGroupTaskResult struct {
	Assigned int
	Skipped  int
}

// AssignGroupTaskHandler handles the AssignGroupTaskCommand.
type AssignGroupTaskHandler struct {
	studentRepo    student.Repository
	eventPublisher shared.EventPublisher
}

// NewAssignGroupTaskHandler creates a new AssignGroupTaskHandler.
func NewAssignGroupTaskHandler(studentRepo student.Repository, eventPublisher shared.EventPublisher) *AssignGroupTaskHandler {
	return &AssignGroupTaskHandler{studentRepo: studentRepo, eventPublisher: eventPublisher}
}

// Handle executes the group assignment.
func (h *AssignGroupTaskHandler) Handle(ctx context.Context, cmd AssignGroupTaskCommand) (*AssignGroupTaskResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("assign_group_task: validation failed: %w", err)
	}

	students, err := h.studentRepo.GetByGroup(ctx, cmd.GroupID, student.DefaultListOptions().WithLimit(0))
	if err != nil {
		return nil, fmt.Errorf("assign_group_task: failed to list group: %w", err)
	}

	taskType := cmd.Type
	if taskType == "" {
		taskType = student.ActivityNamaz
	}
	title := strings.TrimSpace(cmd.Title)

	result := &AssignGroupTaskResult{}
	for _, stud := range students {
		if stud.HasTaskTitled(title) {
			result.Skipped++
			continue
		}
		stud.AssignTask(student.CustomTask{
			ID:         uuid.NewString(),
			Title:      title,
			Type:       taskType,
			AssignedBy: cmd.MentorID,
			CreatedAt:  time.Now(),
		})
		if err := h.studentRepo.Update(ctx, stud); err != nil {
			return nil, fmt.Errorf("assign_group_task: failed to update student %s: %w", stud.ID, err)
		}
		result.Assigned++
	}

	_ = h.eventPublisher.Publish(taskEvent{
		BaseEvent: shared.NewBaseEvent(shared.EventTaskAssigned, cmd.GroupID.String()),
		Title:     title,
	})
	return result, nil
}

// RemoveGroupTaskCommand removes every task with the given title from every
// student of a group.
type RemoveGroupTaskCommand struct {
	GroupID shared.GroupID
	Title   string
}

// Validate validates the command.
func (c RemoveGroupTaskCommand) Validate() error {
	if c.GroupID == "" {
		return errors.New("remove_group_task: group_id is required")
	}
	if strings.TrimSpace(c.Title) == "" {
		return errors.New("remove_group_task: title is required")
	}
	return nil
}

// RemoveGroupTaskResult reports the bulk removal outcome.
type RemoveGroupTaskResult struct {
	Removed int
}

// RemoveGroupTaskHandler handles the RemoveGroupTaskCommand.
type RemoveGroupTaskHandler struct {
	studentRepo    student.Repository
	eventPublisher shared.EventPublisher
}

// NewRemoveGroupTaskHandler creates a new RemoveGroupTaskHandler.
func NewRemoveGroupTaskHandler(studentRepo student.Repository, eventPublisher shared.EventPublisher) *RemoveGroupTaskHandler {
	return &RemoveGroupTaskHandler{studentRepo: studentRepo, eventPublisher: eventPublisher}
}

// Handle executes the group removal.
func (h *RemoveGroupTaskHandler) Handle(ctx context.Context, cmd RemoveGroupTaskCommand) (*RemoveGroupTaskResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("remove_group_task: validation failed: %w", err)
	}

	students, err := h.studentRepo.GetByGroup(ctx, cmd.GroupID, student.DefaultListOptions().WithLimit(0))
	if err != nil {
		return nil, fmt.Errorf("remove_group_task: failed to list group: %w", err)
	}

	title := strings.TrimSpace(cmd.Title)
	result := &RemoveGroupTaskResult{}
	for _, stud := range students {
		if n := stud.RemoveTaskByTitle(title); n > 0 {
			if err := h.studentRepo.Update(ctx, stud); err != nil {
				return nil, fmt.Errorf("remove_group_task: failed to update student %s: %w", stud.ID, err)
			}
			result.Removed += n
		}
	}

	_ = h.eventPublisher.Publish(taskEvent{
		BaseEvent: shared.NewBaseEvent(shared.EventTaskRemoved, cmd.GroupID.String()),
		Title:     title,
	})
	return result, nil
}
