// Package mentor contains the mentor and group aggregates. A mentor owns
// exactly one group; students join it with the group's join code.
package mentor

import (
	"time"

	"github.com/ibrhsahin418-alt/cetele/internal/domain/shared"
)

// Mentor is a verified group leader.
type Mentor struct {
	ID        shared.MentorID
	Name      string
	Username  shared.Username
	GroupID   shared.GroupID
	CreatedAt time.Time
}

// NewMentor creates a mentor bound to a group.
func NewMentor(id shared.MentorID, name string, username shared.Username, groupID shared.GroupID) *Mentor {
	return &Mentor{
		ID:        id,
		Name:      name,
		Username:  username,
		GroupID:   groupID,
		CreatedAt: time.Now(),
	}
}

// Validate checks aggregate invariants.
func (m *Mentor) Validate() error {
	if !m.ID.IsValid() {
		return shared.NewDomainError("mentor", "Validate", shared.ErrInvalidID, "mentor ID must be a UUID")
	}
	if m.Name == "" {
		return shared.NewDomainError("mentor", "Validate", shared.ErrEmptyValue, "name cannot be empty")
	}
	return nil
}

// Group is a mentor-led circle of students.
type Group struct {
	ID        shared.GroupID
	Name      string
	JoinCode  shared.JoinCode
	MentorID  shared.MentorID
	CreatedAt time.Time
}

// NewGroup creates a group with its initial join code.
func NewGroup(id shared.GroupID, name string, joinCode shared.JoinCode, mentorID shared.MentorID) *Group {
	return &Group{
		ID:        id,
		Name:      name,
		JoinCode:  joinCode,
		MentorID:  mentorID,
		CreatedAt: time.Now(),
	}
}

// UpdateJoinCode rotates the join code. Existing members are unaffected.
func (g *Group) UpdateJoinCode(code shared.JoinCode) error {
	if code == "" {
		return shared.ErrEmptyJoinCode
	}
	g.JoinCode = code
	return nil
}
