package student

import (
	"context"
	"time"

	"github.com/ibrhsahin418-alt/cetele/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// REPOSITORY INTERFACES
// These interfaces define the storage contract. Implementations live in
// infrastructure/persistence (memory and postgres).
// ══════════════════════════════════════════════════════════════════════════════

// Repository defines the core student storage operations.
type Repository interface {
	// ─────────────────────────────────────────────────────────────────────────
	// CRUD Operations
	// ─────────────────────────────────────────────────────────────────────────

	// Create stores a new student.
	// Returns ErrStudentAlreadyExists if the ID or username is taken.
	Create(ctx context.Context, s *Student) error

	// GetByID returns the student with the given ID.
	// Returns ErrStudentNotFound if absent.
	GetByID(ctx context.Context, id shared.StudentID) (*Student, error)

	// GetByUsername returns the student with the given username.
	// Returns ErrStudentNotFound if absent.
	GetByUsername(ctx context.Context, username shared.Username) (*Student, error)

	// Update persists the full aggregate state.
	// Returns ErrStudentNotFound if absent.
	Update(ctx context.Context, s *Student) error

	// Delete removes a student.
	// Returns ErrStudentNotFound if absent.
	Delete(ctx context.Context, id shared.StudentID) error

	// ─────────────────────────────────────────────────────────────────────────
	// Bulk Operations
	// ─────────────────────────────────────────────────────────────────────────

	// GetAll returns all students with pagination.
	GetAll(ctx context.Context, opts ListOptions) ([]*Student, error)

	// GetByGroup returns the students of one mentor group.
	GetByGroup(ctx context.Context, groupID shared.GroupID, opts ListOptions) ([]*Student, error)

	// Count returns the total number of students.
	Count(ctx context.Context) (int, error)

	// CountByGroup returns the number of students in a group.
	CountByGroup(ctx context.Context, groupID shared.GroupID) (int, error)

	// ─────────────────────────────────────────────────────────────────────────
	// Search
	// ─────────────────────────────────────────────────────────────────────────

	// Search finds students by username (exact) or by case-insensitive
	// name substring. Used by the login flow.
	Search(ctx context.Context, query string, opts ListOptions) ([]*Student, error)

	// ─────────────────────────────────────────────────────────────────────────
	// Existence Checks
	// ─────────────────────────────────────────────────────────────────────────

	// Exists checks existence by ID.
	Exists(ctx context.Context, id shared.StudentID) (bool, error)

	// ExistsByUsername checks existence by username.
	ExistsByUsername(ctx context.Context, username shared.Username) (bool, error)
}

// ListOptions carries pagination and sorting parameters.
type ListOptions struct {
	// Offset for pagination.
	Offset int

	// Limit is the maximum number of records.
	Limit int

	// SortBy is the sort field ("total_xp", "streak", "name", "created_at").
	SortBy string

	// SortDesc sorts in descending order.
	SortDesc bool
}

// DefaultListOptions returns the default parameters.
func DefaultListOptions() ListOptions {
	return ListOptions{
		Offset:   0,
		Limit:    50,
		SortBy:   "total_xp",
		SortDesc: true,
	}
}

// WithOffset sets the offset.
func (o ListOptions) WithOffset(offset int) ListOptions {
	o.Offset = offset
	return o
}

// WithLimit sets the limit.
func (o ListOptions) WithLimit(limit int) ListOptions {
	o.Limit = limit
	return o
}

// WithSort sets the sort field and direction.
func (o ListOptions) WithSort(field string, desc bool) ListOptions {
	o.SortBy = field
	o.SortDesc = desc
	return o
}

// ══════════════════════════════════════════════════════════════════════════════
// CACHE INTERFACE
// For caching frequently requested aggregates (usually backed by Redis).
// ══════════════════════════════════════════════════════════════════════════════

// Cache defines student caching operations.
type Cache interface {
	// Get fetches a student from the cache.
	Get(ctx context.Context, id shared.StudentID) (*Student, error)

	// Set stores a student in the cache.
	Set(ctx context.Context, s *Student, ttl time.Duration) error

	// Invalidate drops every cache entry for the student.
	Invalidate(ctx context.Context, id shared.StudentID) error

	// InvalidateAll clears the whole student cache.
	InvalidateAll(ctx context.Context) error
}

// ══════════════════════════════════════════════════════════════════════════════
// UNIT OF WORK (transactions)
// ══════════════════════════════════════════════════════════════════════════════

// UnitOfWork is a transactional scope over the repositories.
type UnitOfWork interface {
	// Students returns the student repository bound to the transaction.
	Students() Repository

	// Commit commits the transaction.
	Commit(ctx context.Context) error

	// Rollback aborts the transaction.
	Rollback(ctx context.Context) error
}

// UnitOfWorkFactory creates units of work.
type UnitOfWorkFactory interface {
	// Begin starts a new transaction.
	Begin(ctx context.Context) (UnitOfWork, error)
}
