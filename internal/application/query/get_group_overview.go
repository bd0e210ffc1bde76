package query

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/ibrhsahin418-alt/cetele/internal/domain/engine"
	"github.com/ibrhsahin418-alt/cetele/internal/domain/mentor"
	"github.com/ibrhsahin418-alt/cetele/internal/domain/shared"
	"github.com/ibrhsahin418-alt/cetele/internal/domain/student"
	"github.com/ibrhsahin418-alt/cetele/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET GROUP OVERVIEW QUERY
// The mentor's panel: one row per student with activity and verification
// state, plus group aggregates. A student counts as at risk when they have
// never logged or have been silent for more than two days.
// ══════════════════════════════════════════════════════════════════════════════

// AtRiskGapDays is the silence threshold before a student is flagged.
const AtRiskGapDays = 2

// GetGroupOverviewQuery contains group overview request parameters.
type GetGroupOverviewQuery struct {
	GroupID shared.GroupID
}

// Validate validates the query.
func (q *GetGroupOverviewQuery) Validate() error {
	if q.GroupID == "" {
		return errors.New("group_id is required")
	}
	return nil
}

// GroupMemberDTO is one student row in the mentor panel.
type GroupMemberDTO struct {
	StudentID string `json:"student_id"`
	Name      string `json:"name"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatar_url"`

	TotalXP   int    `json:"total_xp"`
	Coins     int    `json:"coins"`
	Streak    int    `json:"streak"`
	RankTitle string `json:"rank_title"`

	// ActiveToday reports whether the student logged anything today.
	ActiveToday bool `json:"active_today"`

	// AtRisk flags students silent for more than AtRiskGapDays days.
	AtRisk bool `json:"at_risk"`

	// DaysSinceLastLog is -1 when the student has never logged.
	DaysSinceLastLog int `json:"days_since_last_log"`

	TotalLogs int `json:"total_logs"`

	// PendingVerification counts unverified log entries.
	PendingVerification int `json:"pending_verification"`

	// TaskCount is the number of assigned custom tasks.
	TaskCount int `json:"task_count"`
}

// GetGroupOverviewResult contains the mentor panel data.
type GetGroupOverviewResult struct {
	GroupID   string `json:"group_id"`
	GroupName string `json:"group_name"`
	JoinCode  string `json:"join_code"`

	Members []GroupMemberDTO `json:"members"`

	MemberCount   int `json:"member_count"`
	ActiveToday   int `json:"active_today"`
	AtRiskCount   int `json:"at_risk_count"`
	AverageStreak int `json:"average_streak"`
	TotalLogs     int `json:"total_logs"`

	// PendingVerifications across the whole group.
	PendingVerifications int `json:"pending_verifications"`

	GeneratedAt time.Time `json:"generated_at"`
}

// GetGroupOverviewHandler handles group overview queries.
type GetGroupOverviewHandler struct {
	studentRepo student.Repository
	groupRepo   mentor.GroupRepository
}

// NewGetGroupOverviewHandler creates a new GetGroupOverviewHandler.
func NewGetGroupOverviewHandler(studentRepo student.Repository, groupRepo mentor.GroupRepository) *GetGroupOverviewHandler {
	return &GetGroupOverviewHandler{
		studentRepo: studentRepo,
		groupRepo:   groupRepo,
	}
}

// Handle executes the group overview query.
func (h *GetGroupOverviewHandler) Handle(ctx context.Context, query GetGroupOverviewQuery) (*GetGroupOverviewResult, error) {
	if err := query.Validate(); err != nil {
		return nil, shared.WrapError("query", "GetGroupOverview", shared.ErrValidation, err.Error(), err)
	}

	group, err := h.groupRepo.GetByID(ctx, query.GroupID)
	if err != nil {
		return nil, err
	}

	students, err := h.studentRepo.GetByGroup(ctx, query.GroupID, student.DefaultListOptions().WithLimit(0))
	if err != nil {
		return nil, fmt.Errorf("get_group_overview: failed to list group: %w", err)
	}

	now := timeutil.Now()
	result := &GetGroupOverviewResult{
		GroupID:     group.ID.String(),
		GroupName:   group.Name,
		JoinCode:    group.JoinCode.String(),
		Members:     make([]GroupMemberDTO, 0, len(students)),
		MemberCount: len(students),
		GeneratedAt: time.Now(),
	}

	var streakSum int
	for _, stud := range students {
		member := buildMemberRow(stud, now)
		result.Members = append(result.Members, member)

		if member.ActiveToday {
			result.ActiveToday++
		}
		if member.AtRisk {
			result.AtRiskCount++
		}
		streakSum += stud.Streak
		result.TotalLogs += member.TotalLogs
		result.PendingVerifications += member.PendingVerification
	}

	if len(students) > 0 {
		result.AverageStreak = int(math.Round(float64(streakSum) / float64(len(students))))
	}

	return result, nil
}

func buildMemberRow(stud *student.Student, now time.Time) GroupMemberDTO {
	member := GroupMemberDTO{
		StudentID:        stud.ID.String(),
		Name:             stud.Name,
		Username:         stud.Username.String(),
		AvatarURL:        stud.AvatarURL,
		TotalXP:          stud.TotalXP.Int(),
		Coins:            stud.Coins.Int(),
		Streak:           stud.Streak,
		RankTitle:        engine.RankFor(stud.TotalXP.Int()).Name,
		TotalLogs:        len(stud.Logs),
		TaskCount:        len(stud.CustomTasks),
		DaysSinceLastLog: -1,
	}

	for _, l := range stud.Logs {
		if !l.Verified {
			member.PendingVerification++
		}
	}

	latest := stud.LatestLog()
	if latest == nil {
		member.AtRisk = true
		return member
	}

	member.ActiveToday = timeutil.IsSameDay(latest.Date, now)
	member.DaysSinceLastLog = timeutil.DaysBetween(latest.Date, now)
	member.AtRisk = member.DaysSinceLastLog > AtRiskGapDays
	return member
}
