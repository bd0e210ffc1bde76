package query

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ibrhsahin418-alt/cetele/internal/domain/shared"
	"github.com/ibrhsahin418-alt/cetele/internal/domain/student"
	"github.com/ibrhsahin418-alt/cetele/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET MOTIVATION QUERY
// Personalized encouragement for the student's dashboard. The heavy lifting
// (remote call, retry, circuit breaking, caching, canned fallbacks) lives in
// the motivation client; this query just shapes the request from student
// state.
// ══════════════════════════════════════════════════════════════════════════════

// MotivationRequest describes the student's current situation.
type MotivationRequest struct {
	// Name is the student's display name.
	Name string

	// Streak is the current streak in days.
	Streak int

	// TodayLogCount is how many entries the student logged today.
	TodayLogCount int

	// LastLogID keys the client cache: a new submission invalidates the
	// cached message.
	LastLogID string

	// LastActivity is the type of the most recent log, empty if none.
	LastActivity string
}

// MotivationProvider produces an encouragement message.
// Implemented by infrastructure/external/motivation.
type MotivationProvider interface {
	Motivate(ctx context.Context, req MotivationRequest) (string, error)
}

// GetMotivationQuery contains motivation request parameters.
type GetMotivationQuery struct {
	StudentID shared.StudentID
}

// Validate validates the query.
func (q *GetMotivationQuery) Validate() error {
	if q.StudentID == "" {
		return errors.New("student_id is required")
	}
	return nil
}

// GetMotivationResult contains the message.
type GetMotivationResult struct {
	Message     string    `json:"message"`
	GeneratedAt time.Time `json:"generated_at"`
}

// GetMotivationHandler handles motivation queries.
type GetMotivationHandler struct {
	studentRepo student.Repository
	provider    MotivationProvider
}

// NewGetMotivationHandler creates a new GetMotivationHandler.
func NewGetMotivationHandler(studentRepo student.Repository, provider MotivationProvider) *GetMotivationHandler {
	return &GetMotivationHandler{
		studentRepo: studentRepo,
		provider:    provider,
	}
}

// Handle executes the motivation query.
func (h *GetMotivationHandler) Handle(ctx context.Context, query GetMotivationQuery) (*GetMotivationResult, error) {
	if err := query.Validate(); err != nil {
		return nil, shared.WrapError("query", "GetMotivation", shared.ErrValidation, err.Error(), err)
	}

	stud, err := h.studentRepo.GetByID(ctx, query.StudentID)
	if err != nil {
		return nil, fmt.Errorf("get_motivation: %w", err)
	}

	req := MotivationRequest{
		Name:          stud.Name,
		Streak:        stud.Streak,
		TodayLogCount: len(stud.LogsOn(timeutil.Now())),
	}
	if last := stud.LastLog(); last != nil {
		req.LastLogID = last.ID
		req.LastActivity = last.Type.DisplayName()
	}

	message, err := h.provider.Motivate(ctx, req)
	if err != nil {
		return nil, err
	}

	return &GetMotivationResult{
		Message:     message,
		GeneratedAt: time.Now(),
	}, nil
}
