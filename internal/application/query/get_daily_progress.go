package query

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ibrhsahin418-alt/cetele/internal/domain/engine"
	"github.com/ibrhsahin418-alt/cetele/internal/domain/shared"
	"github.com/ibrhsahin418-alt/cetele/internal/domain/student"
	"github.com/ibrhsahin418-alt/cetele/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET DAILY PROGRESS QUERY
// The student's daily dashboard: today's logs, custom task checklist, the
// completion flag, streak state, and progress toward the next rank tier.
// ══════════════════════════════════════════════════════════════════════════════

// GetDailyProgressQuery contains daily progress request parameters.
type GetDailyProgressQuery struct {
	// StudentID identifies the student.
	StudentID shared.StudentID

	// Date selects the day to evaluate (zero = today, Istanbul calendar).
	Date time.Time
}

// Validate checks and normalizes the parameters.
func (q *GetDailyProgressQuery) Validate() error {
	if q.StudentID == "" {
		return errors.New("student_id is required")
	}
	if q.Date.IsZero() {
		q.Date = timeutil.Now()
	}
	return nil
}

// LogEntryDTO is one log row for transport.
type LogEntryDTO struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	TypeName    string    `json:"type_name"`
	Value       int       `json:"value"`
	Unit        string    `json:"unit"`
	Details     string    `json:"details,omitempty"`
	Date        time.Time `json:"date"`
	XPEarned    int       `json:"xp_earned"`
	CoinsEarned int       `json:"coins_earned"`
	Verified    bool      `json:"verified"`
}

// TaskStatusDTO is one custom task with its completion state for the day.
type TaskStatusDTO struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Type  string `json:"type"`
	Done  bool   `json:"done"`
}

// RankProgressDTO describes progress toward the next rank tier.
type RankProgressDTO struct {
	Current string `json:"current"`

	// Next is empty at the top tier.
	Next string `json:"next,omitempty"`

	// XPToNext is zero at the top tier.
	XPToNext int `json:"xp_to_next"`

	// Percent is progress within the current tier, 0 to 100.
	Percent int `json:"percent"`
}

// GetDailyProgressResult contains the daily dashboard.
type GetDailyProgressResult struct {
	StudentID string    `json:"student_id"`
	Name      string    `json:"name"`
	Date      time.Time `json:"date"`
	DateLabel string    `json:"date_label"`
	IsWeekend bool      `json:"is_weekend"`

	// GoalComplete reports whether the daily goal is met for the day.
	GoalComplete bool `json:"goal_complete"`

	// Tasks is the custom task checklist; empty when no tasks assigned.
	Tasks []TaskStatusDTO `json:"tasks"`

	// Logs are the day's entries, newest submitted first.
	Logs []LogEntryDTO `json:"logs"`

	XPToday    int `json:"xp_today"`
	CoinsToday int `json:"coins_today"`

	TotalXP int `json:"total_xp"`
	Coins   int `json:"coins"`
	Streak  int `json:"streak"`

	// StreakFreezes is the held streak freeze count.
	StreakFreezes int `json:"streak_freezes"`

	// StreakAtRisk is set when the day is today and the goal is not yet met.
	StreakAtRisk bool `json:"streak_at_risk"`

	RankProgress RankProgressDTO `json:"rank_progress"`

	// VisualEffect is the active cosmetic effect, empty if none.
	VisualEffect string `json:"visual_effect,omitempty"`

	// Badges are the earned badge names.
	Badges []string `json:"badges"`

	GeneratedAt time.Time `json:"generated_at"`
}

// GetDailyProgressHandler handles daily progress queries.
type GetDailyProgressHandler struct {
	studentRepo student.Repository
}

// NewGetDailyProgressHandler creates a new GetDailyProgressHandler.
func NewGetDailyProgressHandler(studentRepo student.Repository) *GetDailyProgressHandler {
	return &GetDailyProgressHandler{studentRepo: studentRepo}
}

// Handle executes the daily progress query.
func (h *GetDailyProgressHandler) Handle(ctx context.Context, query GetDailyProgressQuery) (*GetDailyProgressResult, error) {
	if err := query.Validate(); err != nil {
		return nil, shared.WrapError("query", "GetDailyProgress", shared.ErrValidation, err.Error(), err)
	}

	stud, err := h.studentRepo.GetByID(ctx, query.StudentID)
	if err != nil {
		return nil, fmt.Errorf("get_daily_progress: %w", err)
	}

	now := time.Now()
	dayLogs := stud.LogsOn(query.Date)
	complete := engine.IsDailyGoalComplete(stud.CustomTasks, stud.Logs, query.Date)
	taskDone := engine.TaskCompletion(stud.CustomTasks, stud.Logs, query.Date)
	effect, _ := engine.VisualEffect(stud.Rewards, now)

	result := &GetDailyProgressResult{
		StudentID:     stud.ID.String(),
		Name:          stud.Name,
		Date:          timeutil.StartOfDay(query.Date),
		DateLabel:     timeutil.FormatTurkish(query.Date),
		IsWeekend:     timeutil.IsWeekend(query.Date),
		GoalComplete:  complete,
		TotalXP:       stud.TotalXP.Int(),
		Coins:         stud.Coins.Int(),
		Streak:        stud.Streak,
		StreakFreezes: stud.ItemCount(student.ItemStreakFreeze),
		StreakAtRisk:  timeutil.IsToday(query.Date) && !complete && stud.Streak > 0,
		VisualEffect:  effect,
		Badges:        append([]string(nil), stud.Badges...),
		GeneratedAt:   now,
	}

	result.Tasks = make([]TaskStatusDTO, len(stud.CustomTasks))
	for i, task := range stud.CustomTasks {
		result.Tasks[i] = TaskStatusDTO{
			ID:    task.ID,
			Title: task.Title,
			Type:  task.Type.String(),
			Done:  taskDone[task.ID],
		}
	}

	result.Logs = make([]LogEntryDTO, len(dayLogs))
	for i, l := range dayLogs {
		result.Logs[i] = toLogDTO(l)
		result.XPToday += l.XPEarned
		result.CoinsToday += l.CoinsEarned
	}

	result.RankProgress = buildRankProgress(stud.TotalXP.Int())

	return result, nil
}

func toLogDTO(l student.LogEntry) LogEntryDTO {
	return LogEntryDTO{
		ID:          l.ID,
		Type:        l.Type.String(),
		TypeName:    l.Type.DisplayName(),
		Value:       l.Value,
		Unit:        l.Type.Unit(),
		Details:     l.Details,
		Date:        l.Date,
		XPEarned:    l.XPEarned,
		CoinsEarned: l.CoinsEarned,
		Verified:    l.Verified,
	}
}

func buildRankProgress(totalXP int) RankProgressDTO {
	current := engine.RankFor(totalXP)
	dto := RankProgressDTO{
		Current: current.Name,
		Percent: engine.ProgressToNextTier(totalXP),
	}
	if next, ok := engine.NextTier(totalXP); ok {
		dto.Next = next.Name
		dto.XPToNext = next.MinXP - totalXP
	} else {
		dto.Percent = 100
	}
	return dto
}
