package memory

import (
	"context"
	"sync"

	"github.com/ibrhsahin418-alt/cetele/internal/domain/mentor"
	"github.com/ibrhsahin418-alt/cetele/internal/domain/shared"
)

// MentorRepository is a thread-safe in-memory mentor.Repository.
type MentorRepository struct {
	mu         sync.RWMutex
	byID       map[shared.MentorID]*mentor.Mentor
	byUsername map[shared.Username]shared.MentorID
}

// NewMentorRepository creates an empty repository.
func NewMentorRepository() *MentorRepository {
	return &MentorRepository{
		byID:       make(map[shared.MentorID]*mentor.Mentor),
		byUsername: make(map[shared.Username]shared.MentorID),
	}
}

// Create implements mentor.Repository.
func (r *MentorRepository) Create(_ context.Context, m *mentor.Mentor) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[m.ID]; exists {
		return shared.NewDomainError("mentor", "Create", shared.ErrAlreadyExists, "mentor already exists")
	}
	if _, exists := r.byUsername[m.Username]; exists {
		return shared.ErrUsernameTaken
	}

	clone := *m
	r.byID[m.ID] = &clone
	r.byUsername[m.Username] = m.ID
	return nil
}

// GetByID implements mentor.Repository.
func (r *MentorRepository) GetByID(_ context.Context, id shared.MentorID) (*mentor.Mentor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.byID[id]
	if !ok {
		return nil, shared.ErrMentorNotFound
	}
	clone := *m
	return &clone, nil
}

// GetByUsername implements mentor.Repository.
func (r *MentorRepository) GetByUsername(_ context.Context, username shared.Username) (*mentor.Mentor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byUsername[username]
	if !ok {
		return nil, shared.ErrMentorNotFound
	}
	clone := *r.byID[id]
	return &clone, nil
}

// Update implements mentor.Repository.
func (r *MentorRepository) Update(_ context.Context, m *mentor.Mentor) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	old, ok := r.byID[m.ID]
	if !ok {
		return shared.ErrMentorNotFound
	}
	if old.Username != m.Username {
		delete(r.byUsername, old.Username)
		r.byUsername[m.Username] = m.ID
	}
	clone := *m
	r.byID[m.ID] = &clone
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// GROUP REPOSITORY
// ══════════════════════════════════════════════════════════════════════════════

// GroupRepository is a thread-safe in-memory mentor.GroupRepository.
type GroupRepository struct {
	mu   sync.RWMutex
	byID map[shared.GroupID]*mentor.Group
}

// NewGroupRepository creates an empty repository.
func NewGroupRepository() *GroupRepository {
	return &GroupRepository{byID: make(map[shared.GroupID]*mentor.Group)}
}

// Create implements mentor.GroupRepository.
func (r *GroupRepository) Create(_ context.Context, g *mentor.Group) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[g.ID]; exists {
		return shared.NewDomainError("mentor", "CreateGroup", shared.ErrAlreadyExists, "group already exists")
	}
	clone := *g
	r.byID[g.ID] = &clone
	return nil
}

// GetByID implements mentor.GroupRepository.
func (r *GroupRepository) GetByID(_ context.Context, id shared.GroupID) (*mentor.Group, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	g, ok := r.byID[id]
	if !ok {
		return nil, shared.ErrGroupNotFound
	}
	clone := *g
	return &clone, nil
}

// GetByJoinCode implements mentor.GroupRepository. Matching is exact and
// case-sensitive.
func (r *GroupRepository) GetByJoinCode(_ context.Context, code string) (*mentor.Group, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, g := range r.byID {
		if g.JoinCode.Matches(code) {
			clone := *g
			return &clone, nil
		}
	}
	return nil, shared.ErrInvalidJoinCode
}

// GetByMentor implements mentor.GroupRepository.
func (r *GroupRepository) GetByMentor(_ context.Context, mentorID shared.MentorID) (*mentor.Group, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, g := range r.byID {
		if g.MentorID == mentorID {
			clone := *g
			return &clone, nil
		}
	}
	return nil, shared.ErrGroupNotFound
}

// Update implements mentor.GroupRepository.
func (r *GroupRepository) Update(_ context.Context, g *mentor.Group) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[g.ID]; !ok {
		return shared.ErrGroupNotFound
	}
	clone := *g
	r.byID[g.ID] = &clone
	return nil
}

// GetAll implements mentor.GroupRepository.
func (r *GroupRepository) GetAll(_ context.Context) ([]*mentor.Group, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*mentor.Group, 0, len(r.byID))
	for _, g := range r.byID {
		clone := *g
		out = append(out, &clone)
	}
	return out, nil
}
