package http

import (
	"net/http"
	"time"

	"github.com/ibrhsahin418-alt/cetele/internal/application/command"
	"github.com/ibrhsahin418-alt/cetele/internal/application/query"
	"github.com/ibrhsahin418-alt/cetele/internal/domain/shared"
	"github.com/ibrhsahin418-alt/cetele/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// HEALTH & STATUS HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"service": "cetele",
		"version": "v1",
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":         "ok",
		"uptime_seconds": int(s.Uptime().Seconds()),
	})
}

func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

// handleReady probes every registered readiness check and fails the whole
// endpoint when any dependency is down.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	checks := make(map[string]string, len(s.deps.ReadinessChecks))
	healthy := true

	for name, check := range s.deps.ReadinessChecks {
		if err := check(r.Context()); err != nil {
			checks[name] = err.Error()
			healthy = false
			continue
		}
		checks[name] = "ok"
	}

	status := http.StatusOK
	if !healthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, map[string]interface{}{
		"ready":  healthy,
		"checks": checks,
	})
}

// ══════════════════════════════════════════════════════════════════════════════
// AUTH HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

type loginRequest struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := s.deps.Login.Handle(r.Context(), command.LoginCommand{
		Username: req.Username,
		Role:     req.Role,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"token":      result.Token,
		"expires_at": result.ExpiresAt,
		"subject_id": result.SubjectID,
		"role":       result.Role,
		"name":       result.Name,
		"group_id":   result.GroupID,
	})
}

type registerStudentRequest struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	JoinCode string `json:"join_code"`
}

func (s *Server) handleRegisterStudent(w http.ResponseWriter, r *http.Request) {
	var req registerStudentRequest
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := s.deps.RegisterStudent.Handle(r.Context(), command.RegisterStudentCommand{
		Name:     req.Name,
		Username: req.Username,
		JoinCode: req.JoinCode,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"student_id": result.StudentID.String(),
		"group_id":   result.GroupID.String(),
		"group_name": result.GroupName,
		"avatar_url": result.AvatarURL,
	})
}

type registerMentorRequest struct {
	Name       string `json:"name"`
	Username   string `json:"username"`
	GroupName  string `json:"group_name"`
	MentorCode string `json:"mentor_code"`
}

func (s *Server) handleRegisterMentor(w http.ResponseWriter, r *http.Request) {
	var req registerMentorRequest
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := s.deps.RegisterMentor.Handle(r.Context(), command.RegisterMentorCommand{
		Name:       req.Name,
		Username:   req.Username,
		GroupName:  req.GroupName,
		MentorCode: req.MentorCode,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"mentor_id": result.MentorID.String(),
		"group_id":  result.GroupID.String(),
		"join_code": result.JoinCode,
	})
}

// ══════════════════════════════════════════════════════════════════════════════
// STUDENT HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

func (s *Server) handleGetProgress(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r.Context())

	q := query.GetDailyProgressQuery{
		StudentID: shared.StudentID(session.Subject),
	}
	if raw := r.URL.Query().Get("date"); raw != "" {
		date, err := time.Parse("2006-01-02", raw)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid_date", "date must be YYYY-MM-DD")
			return
		}
		q.Date = date
	}

	result, err := s.deps.GetDailyProgress.Handle(r.Context(), q)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleGetMotivation(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r.Context())

	result, err := s.deps.GetMotivation.Handle(r.Context(), query.GetMotivationQuery{
		StudentID: shared.StudentID(session.Subject),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleGetShop(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r.Context())

	result, err := s.deps.GetShop.Handle(r.Context(), query.GetShopQuery{
		StudentID: shared.StudentID(session.Subject),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type logActivityRequest struct {
	Type    string `json:"type"`
	Value   int    `json:"value"`
	Details string `json:"details"`
	Date    string `json:"date"` // YYYY-MM-DD, optional
}

func (s *Server) handleLogActivity(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r.Context())

	var req logActivityRequest
	if !decodeBody(w, r, &req) {
		return
	}

	cmd := command.LogActivityCommand{
		StudentID:     shared.StudentID(session.Subject),
		Type:          student.ActivityType(req.Type),
		Value:         req.Value,
		Details:       req.Details,
		CorrelationID: getRequestID(r.Context()),
	}
	if req.Date != "" {
		date, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid_date", "date must be YYYY-MM-DD")
			return
		}
		cmd.Date = date
	}

	result, err := s.deps.LogActivity.Handle(r.Context(), cmd)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"log_id":             result.LogID,
		"xp_earned":          result.XPEarned,
		"coins_earned":       result.CoinsEarned,
		"multiplier_applied": result.MultiplierApplied,
		"total_xp":           result.TotalXP,
		"coins":              result.Coins,
		"streak_extended":    result.StreakExtended,
		"current_streak":     result.CurrentStreak,
		"rank":               result.RankName,
		"promoted":           result.Promoted,
		"badges_awarded":     result.BadgesAwarded,
	})
}

type buyItemRequest struct {
	ItemID string `json:"item_id"`
}

func (s *Server) handleBuyItem(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r.Context())

	var req buyItemRequest
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := s.deps.BuyItem.Handle(r.Context(), command.BuyItemCommand{
		StudentID:     shared.StudentID(session.Subject),
		ItemID:        req.ItemID,
		CorrelationID: getRequestID(r.Context()),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"item_id":         result.ItemID,
		"cost":            result.Cost,
		"remaining_coins": result.RemainingCoins,
		"new_avatar_url":  result.NewAvatarURL,
		"inventory_count": result.InventoryCount,
	})
}

func (s *Server) handleToggleReward(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r.Context())

	result, err := s.deps.ToggleReward.Handle(r.Context(), command.ToggleRewardCommand{
		StudentID: shared.StudentID(session.Subject),
		RewardID:  r.PathValue("id"),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"reward_id":     result.RewardID,
		"is_active":     result.IsActive,
		"visual_effect": result.VisualEffect,
	})
}

// ══════════════════════════════════════════════════════════════════════════════
// LEADERBOARD HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// handleGetLeaderboard serves the board of the caller's own group. The group
// comes from the session, never from the request, so a student cannot browse
// other circles.
func (s *Server) handleGetLeaderboard(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r.Context())

	result, err := s.deps.GetLeaderboard.Handle(r.Context(), query.GetLeaderboardQuery{
		GroupID: shared.GroupID(session.GroupID),
		Limit:   queryInt(r, "limit", 0),
		Offset:  queryInt(r, "offset", 0),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// ══════════════════════════════════════════════════════════════════════════════
// MENTOR HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

func (s *Server) handleGroupOverview(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r.Context())

	result, err := s.deps.GetGroupOverview.Handle(r.Context(), query.GetGroupOverviewQuery{
		GroupID: shared.GroupID(session.GroupID),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type updateJoinCodeRequest struct {
	NewCode string `json:"new_code"`
}

func (s *Server) handleUpdateJoinCode(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r.Context())

	var req updateJoinCodeRequest
	if !decodeBody(w, r, &req) {
		return
	}

	err := s.deps.UpdateJoinCode.Handle(r.Context(), command.UpdateJoinCodeCommand{
		GroupID:  shared.GroupID(session.GroupID),
		MentorID: shared.MentorID(session.Subject),
		NewCode:  req.NewCode,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"join_code": req.NewCode})
}

type taskRequest struct {
	Title string `json:"title"`
	Type  string `json:"type"`
}

func (s *Server) handleAssignTask(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r.Context())

	var req taskRequest
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := s.deps.AssignTask.Handle(r.Context(), command.AssignTaskCommand{
		StudentID: shared.StudentID(r.PathValue("id")),
		MentorID:  shared.MentorID(session.Subject),
		Title:     req.Title,
		Type:      student.ActivityType(req.Type),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{
		"task_id": result.TaskID,
		"title":   result.Title,
	})
}

func (s *Server) handleRemoveTask(w http.ResponseWriter, r *http.Request) {
	err := s.deps.RemoveTask.Handle(r.Context(), command.RemoveTaskCommand{
		StudentID: shared.StudentID(r.PathValue("id")),
		TaskID:    r.PathValue("taskID"),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"removed": true})
}

func (s *Server) handleAssignGroupTask(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r.Context())

	var req taskRequest
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := s.deps.AssignGroupTask.Handle(r.Context(), command.AssignGroupTaskCommand{
		GroupID:  shared.GroupID(session.GroupID),
		MentorID: shared.MentorID(session.Subject),
		Title:    req.Title,
		Type:     student.ActivityType(req.Type),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]int{
		"assigned": result.Assigned,
		"skipped":  result.Skipped,
	})
}

func (s *Server) handleRemoveGroupTask(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r.Context())

	var req taskRequest
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := s.deps.RemoveGroupTask.Handle(r.Context(), command.RemoveGroupTaskCommand{
		GroupID: shared.GroupID(session.GroupID),
		Title:   req.Title,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{"removed": result.Removed})
}

func (s *Server) handleToggleVerification(w http.ResponseWriter, r *http.Request) {
	result, err := s.deps.ToggleVerification.Handle(r.Context(), command.ToggleVerificationCommand{
		StudentID: shared.StudentID(r.PathValue("id")),
		LogID:     r.PathValue("logID"),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"log_id":   result.LogID,
		"verified": result.Verified,
	})
}

func (s *Server) handleApproveAllLogs(w http.ResponseWriter, r *http.Request) {
	result, err := s.deps.ApproveAllLogs.Handle(r.Context(), command.ApproveAllLogsCommand{
		StudentID: shared.StudentID(r.PathValue("id")),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{"approved": result.Approved})
}

func (s *Server) handleSweep(w http.ResponseWriter, r *http.Request) {
	result, err := s.deps.SweepStreaks.Handle(r.Context(), command.SweepStreaksCommand{})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{
		"students_swept": result.StudentsSwept,
		"streaks_kept":   result.StreaksKept,
		"streaks_broken": result.StreaksBroken,
		"freezes_burned": result.FreezesBurned,
		"skipped":        result.Skipped,
	})
}

// queryInt reads a non-negative integer query parameter with a default.
func queryInt(r *http.Request, key string, defaultValue int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return defaultValue
	}
	value := 0
	for _, c := range raw {
		if c < '0' || c > '9' {
			return defaultValue
		}
		value = value*10 + int(c-'0')
	}
	return value
}
