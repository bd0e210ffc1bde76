package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/ibrhsahin418-alt/cetele/internal/domain/mentor"
	"github.com/ibrhsahin418-alt/cetele/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// MENTOR REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// MentorRepository implements mentor.Repository for PostgreSQL.
type MentorRepository struct {
	conn *Connection
}

// NewMentorRepository creates a new MentorRepository.
func NewMentorRepository(conn *Connection) *MentorRepository {
	return &MentorRepository{conn: conn}
}

// Create implements mentor.Repository.
func (r *MentorRepository) Create(ctx context.Context, m *mentor.Mentor) error {
	query := `
		INSERT INTO mentors (id, name, username, group_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.conn.Exec(ctx, query,
		m.ID.String(),
		m.Name,
		m.Username.String(),
		m.GroupID.String(),
		m.CreatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return shared.ErrUsernameTaken
		}
		return fmt.Errorf("failed to create mentor: %w", err)
	}

	return nil
}

// GetByID implements mentor.Repository.
func (r *MentorRepository) GetByID(ctx context.Context, id shared.MentorID) (*mentor.Mentor, error) {
	query := `SELECT id, name, username, group_id, created_at FROM mentors WHERE id = $1`

	row := r.conn.QueryRow(ctx, query, id.String())
	return scanMentor(row)
}

// GetByUsername implements mentor.Repository.
func (r *MentorRepository) GetByUsername(ctx context.Context, username shared.Username) (*mentor.Mentor, error) {
	query := `SELECT id, name, username, group_id, created_at FROM mentors WHERE username = $1`

	row := r.conn.QueryRow(ctx, query, username.String())
	return scanMentor(row)
}

// Update implements mentor.Repository.
func (r *MentorRepository) Update(ctx context.Context, m *mentor.Mentor) error {
	query := `
		UPDATE mentors SET
			name = $2,
			username = $3,
			group_id = $4,
			updated_at = NOW()
		WHERE id = $1
	`

	tag, err := r.conn.Exec(ctx, query,
		m.ID.String(),
		m.Name,
		m.Username.String(),
		m.GroupID.String(),
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return shared.ErrUsernameTaken
		}
		return fmt.Errorf("failed to update mentor: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrMentorNotFound
	}

	return nil
}

func scanMentor(row pgx.Row) (*mentor.Mentor, error) {
	var (
		m        mentor.Mentor
		id       string
		username string
		groupID  string
	)

	err := row.Scan(&id, &m.Name, &username, &groupID, &m.CreatedAt)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrMentorNotFound
		}
		return nil, fmt.Errorf("failed to scan mentor: %w", err)
	}

	m.ID = shared.MentorID(id)
	m.Username = shared.Username(username)
	m.GroupID = shared.GroupID(groupID)
	return &m, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// GROUP REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// GroupRepository implements mentor.GroupRepository for PostgreSQL.
type GroupRepository struct {
	conn *Connection
}

// NewGroupRepository creates a new GroupRepository.
func NewGroupRepository(conn *Connection) *GroupRepository {
	return &GroupRepository{conn: conn}
}

// Create implements mentor.GroupRepository.
func (r *GroupRepository) Create(ctx context.Context, g *mentor.Group) error {
	query := `
		INSERT INTO groups (id, name, mentor_id, join_code, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.conn.Exec(ctx, query,
		g.ID.String(),
		g.Name,
		g.MentorID.String(),
		g.JoinCode.String(),
		g.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create group: %w", err)
	}

	return nil
}

// GetByID implements mentor.GroupRepository.
func (r *GroupRepository) GetByID(ctx context.Context, id shared.GroupID) (*mentor.Group, error) {
	query := `SELECT id, name, mentor_id, join_code, created_at FROM groups WHERE id = $1`

	row := r.conn.QueryRow(ctx, query, id.String())
	return scanGroup(row, shared.ErrGroupNotFound)
}

// GetByJoinCode implements mentor.GroupRepository. The lookup is exact; the
// join code column is unique so at most one group matches.
func (r *GroupRepository) GetByJoinCode(ctx context.Context, code string) (*mentor.Group, error) {
	query := `SELECT id, name, mentor_id, join_code, created_at FROM groups WHERE join_code = $1`

	row := r.conn.QueryRow(ctx, query, code)
	return scanGroup(row, shared.ErrInvalidJoinCode)
}

// GetByMentor implements mentor.GroupRepository.
func (r *GroupRepository) GetByMentor(ctx context.Context, mentorID shared.MentorID) (*mentor.Group, error) {
	query := `SELECT id, name, mentor_id, join_code, created_at FROM groups WHERE mentor_id = $1`

	row := r.conn.QueryRow(ctx, query, mentorID.String())
	return scanGroup(row, shared.ErrGroupNotFound)
}

// Update implements mentor.GroupRepository.
func (r *GroupRepository) Update(ctx context.Context, g *mentor.Group) error {
	query := `
		UPDATE groups SET
			name = $2,
			join_code = $3,
			updated_at = NOW()
		WHERE id = $1
	`

	tag, err := r.conn.Exec(ctx, query,
		g.ID.String(),
		g.Name,
		g.JoinCode.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to update group: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrGroupNotFound
	}

	return nil
}

// GetAll implements mentor.GroupRepository.
func (r *GroupRepository) GetAll(ctx context.Context) ([]*mentor.Group, error) {
	query := `SELECT id, name, mentor_id, join_code, created_at FROM groups ORDER BY created_at ASC`

	rows, err := r.conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	defer rows.Close()

	groups := make([]*mentor.Group, 0)
	for rows.Next() {
		g, err := scanGroup(rows, shared.ErrGroupNotFound)
		if err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

func scanGroup(row pgx.Row, notFound error) (*mentor.Group, error) {
	var (
		g        mentor.Group
		id       string
		mentorID string
		joinCode string
	)

	err := row.Scan(&id, &g.Name, &mentorID, &joinCode, &g.CreatedAt)
	if err != nil {
		if IsNoRows(err) {
			return nil, notFound
		}
		return nil, fmt.Errorf("failed to scan group: %w", err)
	}

	g.ID = shared.GroupID(id)
	g.MentorID = shared.MentorID(mentorID)
	g.JoinCode = shared.JoinCode(joinCode)
	return &g, nil
}
