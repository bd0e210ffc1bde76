package command

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/ibrhsahin418-alt/cetele/internal/domain/mentor"
	"github.com/ibrhsahin418-alt/cetele/internal/domain/shared"
	"github.com/ibrhsahin418-alt/cetele/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// REGISTRATION COMMANDS
// Mentors prove themselves with the deployment's mentor code (checked against
// a bcrypt hash, never stored in plain text). Students join an existing group
// by entering its join code exactly.
// ══════════════════════════════════════════════════════════════════════════════

// RegisterMentorCommand creates a mentor together with their group.
type RegisterMentorCommand struct {
	Name       string
	Username   string
	GroupName  string
	MentorCode string
}

// Validate validates the command.
func (c RegisterMentorCommand) Validate() error {
	if c.Name == "" {
		return errors.New("register_mentor: name is required")
	}
	if c.GroupName == "" {
		return errors.New("register_mentor: group_name is required")
	}
	if c.MentorCode == "" {
		return shared.ErrInvalidMentorCode
	}
	if _, err := shared.NewUsername(c.Username); err != nil {
		return err
	}
	return nil
}

// RegisterMentorResult reports the created mentor and group.
type RegisterMentorResult struct {
	MentorID shared.MentorID
	GroupID  shared.GroupID
	JoinCode string
}

// RegisterMentorHandler handles the RegisterMentorCommand.
type RegisterMentorHandler struct {
	mentorRepo     mentor.Repository
	groupRepo      mentor.GroupRepository
	mentorCodeHash []byte
	eventPublisher shared.EventPublisher
}

// NewRegisterMentorHandler creates a new RegisterMentorHandler.
// mentorCodeHash is the bcrypt hash of the deployment's mentor code.
func NewRegisterMentorHandler(
	mentorRepo mentor.Repository,
	groupRepo mentor.GroupRepository,
	mentorCodeHash string,
	eventPublisher shared.EventPublisher,
) *RegisterMentorHandler {
	return &RegisterMentorHandler{
		mentorRepo:     mentorRepo,
		groupRepo:      groupRepo,
		mentorCodeHash: []byte(mentorCodeHash),
		eventPublisher: eventPublisher,
	}
}

// Handle executes the register mentor command.
func (h *RegisterMentorHandler) Handle(ctx context.Context, cmd RegisterMentorCommand) (*RegisterMentorResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("register_mentor: validation failed: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword(h.mentorCodeHash, []byte(cmd.MentorCode)); err != nil {
		return nil, shared.ErrInvalidMentorCode
	}

	username, err := shared.NewUsername(cmd.Username)
	if err != nil {
		return nil, err
	}
	if _, err := h.mentorRepo.GetByUsername(ctx, username); err == nil {
		return nil, shared.ErrUsernameTaken
	}

	mentorID := shared.MentorID(uuid.NewString())
	groupID := shared.GroupID(uuid.NewString())

	joinCode, err := generateJoinCode()
	if err != nil {
		return nil, fmt.Errorf("register_mentor: failed to generate join code: %w", err)
	}

	group := mentor.NewGroup(groupID, cmd.GroupName, joinCode, mentorID)
	if err := h.groupRepo.Create(ctx, group); err != nil {
		return nil, fmt.Errorf("register_mentor: failed to create group: %w", err)
	}

	m := mentor.NewMentor(mentorID, cmd.Name, username, groupID)
	if err := h.mentorRepo.Create(ctx, m); err != nil {
		return nil, fmt.Errorf("register_mentor: failed to create mentor: %w", err)
	}

	_ = h.eventPublisher.Publish(registrationEvent{
		BaseEvent: shared.NewBaseEvent(shared.EventMentorRegistered, mentorID.String()),
		Name:      cmd.Name,
		GroupID:   groupID.String(),
	})

	return &RegisterMentorResult{
		MentorID: mentorID,
		GroupID:  groupID,
		JoinCode: joinCode.String(),
	}, nil
}

// registrationEvent carries new account announcements.
type registrationEvent struct {
	shared.BaseEvent
	Name    string `json:"name"`
	GroupID string `json:"group_id"`
}

// Payload implements shared.Event.
func (e registrationEvent) Payload() map[string]interface{} {
	return map[string]interface{}{"name": e.Name, "group_id": e.GroupID}
}

// joinCodeAlphabet excludes easily confused characters (0/O, 1/I/L).
const joinCodeAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

// generateJoinCode produces a 6-character random code.
func generateJoinCode() (shared.JoinCode, error) {
	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i := range buf {
		buf[i] = joinCodeAlphabet[int(buf[i])%len(joinCodeAlphabet)]
	}
	return shared.NewJoinCode(string(buf))
}

// ══════════════════════════════════════════════════════════════════════════════
// STUDENT REGISTRATION
// ══════════════════════════════════════════════════════════════════════════════

// RegisterStudentCommand creates a student inside the group whose join code
// matches the given input exactly.
type RegisterStudentCommand struct {
	Name     string
	Username string
	JoinCode string
}

// Validate validates the command.
func (c RegisterStudentCommand) Validate() error {
	if c.Name == "" {
		return errors.New("register_student: name is required")
	}
	if c.JoinCode == "" {
		return shared.ErrEmptyJoinCode
	}
	if _, err := shared.NewUsername(c.Username); err != nil {
		return err
	}
	return nil
}

// RegisterStudentResult reports the created student.
type RegisterStudentResult struct {
	StudentID shared.StudentID
	GroupID   shared.GroupID
	GroupName string
	AvatarURL string
}

// RegisterStudentHandler handles the RegisterStudentCommand.
type RegisterStudentHandler struct {
	studentRepo    student.Repository
	groupRepo      mentor.GroupRepository
	avatars        AvatarResolver
	eventPublisher shared.EventPublisher
}

// NewRegisterStudentHandler creates a new RegisterStudentHandler.
func NewRegisterStudentHandler(
	studentRepo student.Repository,
	groupRepo mentor.GroupRepository,
	avatars AvatarResolver,
	eventPublisher shared.EventPublisher,
) *RegisterStudentHandler {
	return &RegisterStudentHandler{
		studentRepo:    studentRepo,
		groupRepo:      groupRepo,
		avatars:        avatars,
		eventPublisher: eventPublisher,
	}
}

// Handle executes the register student command.
func (h *RegisterStudentHandler) Handle(ctx context.Context, cmd RegisterStudentCommand) (*RegisterStudentResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("register_student: validation failed: %w", err)
	}

	group, err := h.groupRepo.GetByJoinCode(ctx, cmd.JoinCode)
	if err != nil {
		return nil, err
	}

	username, err := shared.NewUsername(cmd.Username)
	if err != nil {
		return nil, err
	}
	taken, err := h.studentRepo.ExistsByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("register_student: failed to check username: %w", err)
	}
	if taken {
		return nil, shared.ErrUsernameTaken
	}

	id := shared.StudentID(uuid.NewString())
	avatarURL := h.avatars.URL(cmd.Name)

	stud := student.NewStudent(id, cmd.Name, username, group.ID, avatarURL)
	if err := stud.Validate(); err != nil {
		return nil, err
	}
	if err := h.studentRepo.Create(ctx, stud); err != nil {
		return nil, fmt.Errorf("register_student: failed to create student: %w", err)
	}

	_ = h.eventPublisher.Publish(registrationEvent{
		BaseEvent: shared.NewBaseEvent(shared.EventStudentRegistered, id.String()),
		Name:      cmd.Name,
		GroupID:   group.ID.String(),
	})

	return &RegisterStudentResult{
		StudentID: id,
		GroupID:   group.ID,
		GroupName: group.Name,
		AvatarURL: avatarURL,
	}, nil
}
