package mentor

import (
	"context"

	"github.com/ibrhsahin418-alt/cetele/internal/domain/shared"
)

// Repository defines mentor storage operations.
type Repository interface {
	// Create stores a new mentor.
	// Returns an ErrAlreadyExists kind if the username is taken.
	Create(ctx context.Context, m *Mentor) error

	// GetByID returns the mentor with the given ID.
	// Returns ErrMentorNotFound if absent.
	GetByID(ctx context.Context, id shared.MentorID) (*Mentor, error)

	// GetByUsername returns the mentor with the given username.
	// Returns ErrMentorNotFound if absent.
	GetByUsername(ctx context.Context, username shared.Username) (*Mentor, error)

	// Update persists mentor changes.
	Update(ctx context.Context, m *Mentor) error
}

// GroupRepository defines group storage operations.
type GroupRepository interface {
	// Create stores a new group.
	Create(ctx context.Context, g *Group) error

	// GetByID returns the group with the given ID.
	// Returns ErrGroupNotFound if absent.
	GetByID(ctx context.Context, id shared.GroupID) (*Group, error)

	// GetByJoinCode returns the group whose join code matches exactly.
	// Returns ErrInvalidJoinCode if no group matches; a miss is an
	// expected outcome of the join flow, never a panic.
	GetByJoinCode(ctx context.Context, code string) (*Group, error)

	// GetByMentor returns the group owned by the mentor.
	// Returns ErrGroupNotFound if absent.
	GetByMentor(ctx context.Context, mentorID shared.MentorID) (*Group, error)

	// Update persists group changes (join code rotation).
	Update(ctx context.Context, g *Group) error

	// GetAll returns every group.
	GetAll(ctx context.Context) ([]*Group, error)
}
