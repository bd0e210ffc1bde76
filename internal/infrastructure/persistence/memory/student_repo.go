// Package memory provides in-memory repository implementations. They are the
// default storage for single-instance deployments and the backing store for
// tests; the postgres package offers the durable alternative.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/ibrhsahin418-alt/cetele/internal/domain/shared"
	"github.com/ibrhsahin418-alt/cetele/internal/domain/student"
)

// StudentRepository is a thread-safe in-memory student.Repository.
type StudentRepository struct {
	mu         sync.RWMutex
	byID       map[shared.StudentID]*student.Student
	byUsername map[shared.Username]shared.StudentID
}

// NewStudentRepository creates an empty repository.
func NewStudentRepository() *StudentRepository {
	return &StudentRepository{
		byID:       make(map[shared.StudentID]*student.Student),
		byUsername: make(map[shared.Username]shared.StudentID),
	}
}

// Create implements student.Repository.
func (r *StudentRepository) Create(_ context.Context, s *student.Student) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[s.ID]; exists {
		return shared.ErrStudentAlreadyExists
	}
	if _, exists := r.byUsername[s.Username]; exists {
		return shared.ErrUsernameTaken
	}

	r.byID[s.ID] = s.Clone()
	r.byUsername[s.Username] = s.ID
	return nil
}

// GetByID implements student.Repository.
func (r *StudentRepository) GetByID(_ context.Context, id shared.StudentID) (*student.Student, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.byID[id]
	if !ok {
		return nil, shared.ErrStudentNotFound
	}
	return s.Clone(), nil
}

// GetByUsername implements student.Repository.
func (r *StudentRepository) GetByUsername(_ context.Context, username shared.Username) (*student.Student, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byUsername[username]
	if !ok {
		return nil, shared.ErrStudentNotFound
	}
	return r.byID[id].Clone(), nil
}

// Update implements student.Repository.
func (r *StudentRepository) Update(_ context.Context, s *student.Student) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	old, ok := r.byID[s.ID]
	if !ok {
		return shared.ErrStudentNotFound
	}
	if old.Username != s.Username {
		delete(r.byUsername, old.Username)
		r.byUsername[s.Username] = s.ID
	}
	r.byID[s.ID] = s.Clone()
	return nil
}

// Delete implements student.Repository.
func (r *StudentRepository) Delete(_ context.Context, id shared.StudentID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.byID[id]
	if !ok {
		return shared.ErrStudentNotFound
	}
	delete(r.byUsername, s.Username)
	delete(r.byID, id)
	return nil
}

// GetAll implements student.Repository.
func (r *StudentRepository) GetAll(_ context.Context, opts student.ListOptions) ([]*student.Student, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]*student.Student, 0, len(r.byID))
	for _, s := range r.byID {
		all = append(all, s.Clone())
	}
	return applyListOptions(all, opts), nil
}

// GetByGroup implements student.Repository.
func (r *StudentRepository) GetByGroup(_ context.Context, groupID shared.GroupID, opts student.ListOptions) ([]*student.Student, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	members := make([]*student.Student, 0)
	for _, s := range r.byID {
		if s.GroupID == groupID {
			members = append(members, s.Clone())
		}
	}
	return applyListOptions(members, opts), nil
}

// Count implements student.Repository.
func (r *StudentRepository) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID), nil
}

// CountByGroup implements student.Repository.
func (r *StudentRepository) CountByGroup(_ context.Context, groupID shared.GroupID) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, s := range r.byID {
		if s.GroupID == groupID {
			n++
		}
	}
	return n, nil
}

// Search implements student.Repository.
func (r *StudentRepository) Search(_ context.Context, query string, opts student.ListOptions) ([]*student.Student, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	q := strings.ToLower(strings.TrimSpace(query))
	matched := make([]*student.Student, 0)
	for _, s := range r.byID {
		if s.Username.String() == q || strings.Contains(strings.ToLower(s.Name), q) {
			matched = append(matched, s.Clone())
		}
	}
	return applyListOptions(matched, opts), nil
}

// Exists implements student.Repository.
func (r *StudentRepository) Exists(_ context.Context, id shared.StudentID) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.byID[id]
	return ok, nil
}

// ExistsByUsername implements student.Repository.
func (r *StudentRepository) ExistsByUsername(_ context.Context, username shared.Username) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.byUsername[username]
	return ok, nil
}

// applyListOptions sorts and pages a result set. A zero limit means no limit.
func applyListOptions(students []*student.Student, opts student.ListOptions) []*student.Student {
	sort.Slice(students, func(i, j int) bool {
		less := false
		switch opts.SortBy {
		case "streak":
			less = students[i].Streak < students[j].Streak
		case "name":
			less = students[i].Name < students[j].Name
		case "created_at":
			less = students[i].CreatedAt.Before(students[j].CreatedAt)
		default: // total_xp
			less = students[i].TotalXP < students[j].TotalXP
		}
		if opts.SortDesc {
			return !less && !equalByField(students[i], students[j], opts.SortBy)
		}
		return less
	})

	if opts.Offset >= len(students) {
		return []*student.Student{}
	}
	students = students[opts.Offset:]

	if opts.Limit > 0 && opts.Limit < len(students) {
		students = students[:opts.Limit]
	}
	return students
}

func equalByField(a, b *student.Student, field string) bool {
	switch field {
	case "streak":
		return a.Streak == b.Streak
	case "name":
		return a.Name == b.Name
	case "created_at":
		return a.CreatedAt.Equal(b.CreatedAt)
	default:
		return a.TotalXP == b.TotalXP
	}
}
