package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/ibrhsahin418-alt/cetele/internal/domain/shared"
	"github.com/ibrhsahin418-alt/cetele/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// STUDENT REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// studentColumns is the column list shared by every SELECT.
const studentColumns = `id, name, username, group_id, avatar_url,
	   total_xp, coins, level, streak, badges,
	   logs, custom_tasks, inventory, rewards,
	   last_swept_at, created_at, updated_at`

// StudentRepository implements student.Repository for PostgreSQL.
type StudentRepository struct {
	conn *Connection
}

// NewStudentRepository creates a new StudentRepository.
func NewStudentRepository(conn *Connection) *StudentRepository {
	return &StudentRepository{conn: conn}
}

// ─────────────────────────────────────────────────────────────────────────────
// CRUD Operations
// ─────────────────────────────────────────────────────────────────────────────

// Create implements student.Repository.
func (r *StudentRepository) Create(ctx context.Context, s *student.Student) error {
	query := `
		INSERT INTO students (
			id, name, username, group_id, avatar_url,
			total_xp, coins, level, streak, badges,
			logs, custom_tasks, inventory, rewards,
			last_swept_at, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`

	docs, err := marshalStudentDocs(s)
	if err != nil {
		return err
	}

	_, err = r.conn.Exec(ctx, query,
		s.ID.String(),
		s.Name,
		s.Username.String(),
		s.GroupID.String(),
		s.AvatarURL,
		int(s.TotalXP),
		int(s.Coins),
		s.Level,
		s.Streak,
		docs.badges,
		docs.logs,
		docs.customTasks,
		docs.inventory,
		docs.rewards,
		s.LastSweptAt,
		s.CreatedAt,
		s.UpdatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return shared.ErrStudentAlreadyExists
		}
		return fmt.Errorf("failed to create student: %w", err)
	}

	return nil
}

// GetByID implements student.Repository.
func (r *StudentRepository) GetByID(ctx context.Context, id shared.StudentID) (*student.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE id = $1`

	row := r.conn.QueryRow(ctx, query, id.String())
	return scanStudent(row)
}

// GetByUsername implements student.Repository.
func (r *StudentRepository) GetByUsername(ctx context.Context, username shared.Username) (*student.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE username = $1`

	row := r.conn.QueryRow(ctx, query, username.String())
	return scanStudent(row)
}

// Update implements student.Repository. The whole aggregate is written in
// one statement.
func (r *StudentRepository) Update(ctx context.Context, s *student.Student) error {
	query := `
		UPDATE students SET
			name = $2,
			username = $3,
			group_id = $4,
			avatar_url = $5,
			total_xp = $6,
			coins = $7,
			level = $8,
			streak = $9,
			badges = $10,
			logs = $11,
			custom_tasks = $12,
			inventory = $13,
			rewards = $14,
			last_swept_at = $15,
			updated_at = $16
		WHERE id = $1
	`

	docs, err := marshalStudentDocs(s)
	if err != nil {
		return err
	}

	tag, err := r.conn.Exec(ctx, query,
		s.ID.String(),
		s.Name,
		s.Username.String(),
		s.GroupID.String(),
		s.AvatarURL,
		int(s.TotalXP),
		int(s.Coins),
		s.Level,
		s.Streak,
		docs.badges,
		docs.logs,
		docs.customTasks,
		docs.inventory,
		docs.rewards,
		s.LastSweptAt,
		s.UpdatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return shared.ErrUsernameTaken
		}
		return fmt.Errorf("failed to update student: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrStudentNotFound
	}

	return nil
}

// Delete implements student.Repository.
func (r *StudentRepository) Delete(ctx context.Context, id shared.StudentID) error {
	tag, err := r.conn.Exec(ctx, `DELETE FROM students WHERE id = $1`, id.String())
	if err != nil {
		return fmt.Errorf("failed to delete student: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrStudentNotFound
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Bulk Operations
// ─────────────────────────────────────────────────────────────────────────────

// GetAll implements student.Repository.
func (r *StudentRepository) GetAll(ctx context.Context, opts student.ListOptions) ([]*student.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students` + listClause(opts)

	rows, err := r.conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	defer rows.Close()

	return scanStudents(rows)
}

// GetByGroup implements student.Repository.
func (r *StudentRepository) GetByGroup(ctx context.Context, groupID shared.GroupID, opts student.ListOptions) ([]*student.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE group_id = $1` + listClause(opts)

	rows, err := r.conn.Query(ctx, query, groupID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to list group students: %w", err)
	}
	defer rows.Close()

	return scanStudents(rows)
}

// Count implements student.Repository.
func (r *StudentRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.conn.QueryRow(ctx, `SELECT COUNT(*) FROM students`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count students: %w", err)
	}
	return count, nil
}

// CountByGroup implements student.Repository.
func (r *StudentRepository) CountByGroup(ctx context.Context, groupID shared.GroupID) (int, error) {
	var count int
	err := r.conn.QueryRow(ctx, `SELECT COUNT(*) FROM students WHERE group_id = $1`, groupID.String()).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count group students: %w", err)
	}
	return count, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Search
// ─────────────────────────────────────────────────────────────────────────────

// Search implements student.Repository. Matches exact username or
// case-insensitive name substring.
func (r *StudentRepository) Search(ctx context.Context, query string, opts student.ListOptions) ([]*student.Student, error) {
	q := strings.TrimSpace(query)
	sql := `SELECT ` + studentColumns + `
		FROM students
		WHERE username = lower($1) OR name ILIKE '%' || $1 || '%'` + listClause(opts)

	rows, err := r.conn.Query(ctx, sql, q)
	if err != nil {
		return nil, fmt.Errorf("failed to search students: %w", err)
	}
	defer rows.Close()

	return scanStudents(rows)
}

// ─────────────────────────────────────────────────────────────────────────────
// Existence Checks
// ─────────────────────────────────────────────────────────────────────────────

// Exists implements student.Repository.
func (r *StudentRepository) Exists(ctx context.Context, id shared.StudentID) (bool, error) {
	var exists bool
	err := r.conn.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM students WHERE id = $1)`, id.String()).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check student existence: %w", err)
	}
	return exists, nil
}

// ExistsByUsername implements student.Repository.
func (r *StudentRepository) ExistsByUsername(ctx context.Context, username shared.Username) (bool, error) {
	var exists bool
	err := r.conn.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM students WHERE username = $1)`, username.String()).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check username existence: %w", err)
	}
	return exists, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────────────────────────────────────

// listClause renders ORDER BY / LIMIT / OFFSET from list options. Sort
// columns are whitelisted; a zero limit means no limit.
func listClause(opts student.ListOptions) string {
	column := "total_xp"
	switch opts.SortBy {
	case "streak":
		column = "streak"
	case "name":
		column = "name"
	case "created_at":
		column = "created_at"
	}

	direction := "ASC"
	if opts.SortDesc {
		direction = "DESC"
	}

	clause := fmt.Sprintf(" ORDER BY %s %s, name ASC", column, direction)
	if opts.Limit > 0 {
		clause += fmt.Sprintf(" LIMIT %d", opts.Limit)
	}
	if opts.Offset > 0 {
		clause += fmt.Sprintf(" OFFSET %d", opts.Offset)
	}
	return clause
}

// studentDocs holds the serialized JSONB columns.
type studentDocs struct {
	badges      []byte
	logs        []byte
	customTasks []byte
	inventory   []byte
	rewards     []byte
}

func marshalStudentDocs(s *student.Student) (*studentDocs, error) {
	docs := &studentDocs{}
	var err error

	if docs.badges, err = json.Marshal(emptyIfNil(s.Badges)); err != nil {
		return nil, fmt.Errorf("failed to marshal badges: %w", err)
	}
	if docs.logs, err = json.Marshal(s.Logs); err != nil {
		return nil, fmt.Errorf("failed to marshal logs: %w", err)
	}
	if docs.customTasks, err = json.Marshal(s.CustomTasks); err != nil {
		return nil, fmt.Errorf("failed to marshal custom tasks: %w", err)
	}
	if docs.inventory, err = json.Marshal(s.Inventory); err != nil {
		return nil, fmt.Errorf("failed to marshal inventory: %w", err)
	}
	if docs.rewards, err = json.Marshal(s.Rewards); err != nil {
		return nil, fmt.Errorf("failed to marshal rewards: %w", err)
	}
	return docs, nil
}

func emptyIfNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

// scanStudent reads one row into an aggregate.
func scanStudent(row pgx.Row) (*student.Student, error) {
	var (
		s           student.Student
		id          string
		username    string
		groupID     string
		totalXP     int
		coins       int
		badges      []byte
		logs        []byte
		customTasks []byte
		inventory   []byte
		rewards     []byte
	)

	err := row.Scan(
		&id,
		&s.Name,
		&username,
		&groupID,
		&s.AvatarURL,
		&totalXP,
		&coins,
		&s.Level,
		&s.Streak,
		&badges,
		&logs,
		&customTasks,
		&inventory,
		&rewards,
		&s.LastSweptAt,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrStudentNotFound
		}
		return nil, fmt.Errorf("failed to scan student: %w", err)
	}

	s.ID = shared.StudentID(id)
	s.Username = shared.Username(username)
	s.GroupID = shared.GroupID(groupID)
	s.TotalXP = shared.XP(totalXP)
	s.Coins = shared.Coins(coins)

	if err := json.Unmarshal(badges, &s.Badges); err != nil {
		return nil, fmt.Errorf("failed to unmarshal badges: %w", err)
	}
	if err := json.Unmarshal(logs, &s.Logs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal logs: %w", err)
	}
	if err := json.Unmarshal(customTasks, &s.CustomTasks); err != nil {
		return nil, fmt.Errorf("failed to unmarshal custom tasks: %w", err)
	}
	if err := json.Unmarshal(inventory, &s.Inventory); err != nil {
		return nil, fmt.Errorf("failed to unmarshal inventory: %w", err)
	}
	if err := json.Unmarshal(rewards, &s.Rewards); err != nil {
		return nil, fmt.Errorf("failed to unmarshal rewards: %w", err)
	}

	return &s, nil
}

// scanStudents reads all rows into aggregates.
func scanStudents(rows pgx.Rows) ([]*student.Student, error) {
	students := make([]*student.Student, 0)
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			return nil, err
		}
		students = append(students, s)
	}
	return students, rows.Err()
}
