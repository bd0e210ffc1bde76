package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/ibrhsahin418-alt/cetele/internal/application/command"
	"github.com/ibrhsahin418-alt/cetele/internal/application/query"
	"github.com/ibrhsahin418-alt/cetele/internal/domain/shared"
	"github.com/ibrhsahin418-alt/cetele/internal/infrastructure/persistence/memory"
)

const (
	testSigningKey = "test-signing-key"
	testMentorCode = "hizmet-2025"
)

// stubAvatars keeps tests off the network.
type stubAvatars struct{}

func (stubAvatars) URL(seed string) string { return "https://avatars.test/" + seed }

// stubMotivation returns a fixed message.
type stubMotivation struct{}

func (stubMotivation) Motivate(context.Context, query.MotivationRequest) (string, error) {
	return "Devam et!", nil
}

// busStub swallows domain events.
type busStub struct{}

func (busStub) Publish(shared.Event) error { return nil }

func newTestServer(t *testing.T) *Server {
	t.Helper()

	studentRepo := memory.NewStudentRepository()
	mentorRepo := memory.NewMentorRepository()
	groupRepo := memory.NewGroupRepository()

	hash, err := bcrypt.GenerateFromPassword([]byte(testMentorCode), bcrypt.MinCost)
	require.NoError(t, err)

	avatars := stubAvatars{}
	bus := busStub{}

	cfg := DefaultConfig()
	cfg.SigningKey = testSigningKey
	cfg.RateLimitPerMinute = 0 // not under test

	return NewServer(cfg, Dependencies{
		Login:              command.NewLoginHandler(studentRepo, mentorRepo, testSigningKey, 0),
		RegisterStudent:    command.NewRegisterStudentHandler(studentRepo, groupRepo, avatars, bus),
		RegisterMentor:     command.NewRegisterMentorHandler(mentorRepo, groupRepo, string(hash), bus),
		LogActivity:        command.NewLogActivityHandler(studentRepo, bus),
		BuyItem:            command.NewBuyItemHandler(studentRepo, avatars, bus),
		ToggleReward:       command.NewToggleRewardHandler(studentRepo),
		ToggleVerification: command.NewToggleVerificationHandler(studentRepo, bus),
		ApproveAllLogs:     command.NewApproveAllLogsHandler(studentRepo),
		AssignTask:         command.NewAssignTaskHandler(studentRepo, bus),
		RemoveTask:         command.NewRemoveTaskHandler(studentRepo, bus),
		AssignGroupTask:    command.NewAssignGroupTaskHandler(studentRepo, bus),
		RemoveGroupTask:    command.NewRemoveGroupTaskHandler(studentRepo, bus),
		UpdateJoinCode:     command.NewUpdateJoinCodeHandler(groupRepo),
		SweepStreaks:       command.NewSweepStreaksHandler(studentRepo, bus, slog.Default()),
		GetDailyProgress:   query.NewGetDailyProgressHandler(studentRepo),
		GetLeaderboard:     query.NewGetLeaderboardHandler(studentRepo, nil),
		GetGroupOverview:   query.NewGetGroupOverviewHandler(studentRepo, groupRepo),
		GetMotivation:      query.NewGetMotivationHandler(studentRepo, stubMotivation{}),
		GetShop:            query.NewGetShopHandler(studentRepo),
		Logger:             slog.Default(),
	})
}

// doJSON performs a request against the server handler and decodes the
// response envelope.
func doJSON(t *testing.T, handler http.Handler, method, path, token string, body interface{}) (int, JSONResponse) {
	t.Helper()

	var reqBody *bytes.Buffer
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewBuffer(raw)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	var envelope JSONResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope), "body: %s", rec.Body.String())
	return rec.Code, envelope
}

func dataMap(t *testing.T, envelope JSONResponse) map[string]interface{} {
	t.Helper()
	data, ok := envelope.Data.(map[string]interface{})
	require.True(t, ok, "data is %T", envelope.Data)
	return data
}

func TestFullStudentFlow(t *testing.T) {
	server := newTestServer(t)
	h := server.Handler()

	// Mentor opens a group.
	code, env := doJSON(t, h, http.MethodPost, "/api/v1/auth/register/mentor", "", map[string]string{
		"name":        "Ali Hoca",
		"username":    "alihoca",
		"group_name":  "Barla Halkası",
		"mentor_code": testMentorCode,
	})
	require.Equal(t, http.StatusCreated, code)
	joinCode := dataMap(t, env)["join_code"].(string)
	require.NotEmpty(t, joinCode)

	// Student joins with the code.
	code, env = doJSON(t, h, http.MethodPost, "/api/v1/auth/register/student", "", map[string]string{
		"name":      "Said",
		"username":  "said42",
		"join_code": joinCode,
	})
	require.Equal(t, http.StatusCreated, code)
	assert.NotEmpty(t, dataMap(t, env)["student_id"])

	// Login and take the session token.
	code, env = doJSON(t, h, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"username": "said42",
		"role":     "student",
	})
	require.Equal(t, http.StatusOK, code)
	token := dataMap(t, env)["token"].(string)
	require.NotEmpty(t, token)

	// Submit a tally entry.
	code, env = doJSON(t, h, http.MethodPost, "/api/v1/me/logs", token, map[string]interface{}{
		"type":  "QURAN",
		"value": 5,
	})
	require.Equal(t, http.StatusCreated, code)
	logData := dataMap(t, env)
	assert.Equal(t, float64(100), logData["xp_earned"])
	assert.Equal(t, true, logData["streak_extended"])

	// The dashboard reflects it.
	code, env = doJSON(t, h, http.MethodGet, "/api/v1/me/progress", token, nil)
	require.Equal(t, http.StatusOK, code)
	progress := dataMap(t, env)
	assert.Equal(t, float64(100), progress["total_xp"])
	assert.Equal(t, true, progress["goal_complete"])

	// So does the group leaderboard.
	code, env = doJSON(t, h, http.MethodGet, "/api/v1/leaderboard", token, nil)
	require.Equal(t, http.StatusOK, code)
	board := dataMap(t, env)
	entries := board["entries"].([]interface{})
	require.Len(t, entries, 1)

	// Motivation always answers.
	code, env = doJSON(t, h, http.MethodGet, "/api/v1/me/motivation", token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Devam et!", dataMap(t, env)["message"])
}

func TestAuthBoundaries(t *testing.T) {
	server := newTestServer(t)
	h := server.Handler()

	code, env := doJSON(t, h, http.MethodPost, "/api/v1/auth/register/mentor", "", map[string]string{
		"name":        "Ali Hoca",
		"username":    "alihoca",
		"group_name":  "Halka",
		"mentor_code": testMentorCode,
	})
	require.Equal(t, http.StatusCreated, code)
	joinCode := dataMap(t, env)["join_code"].(string)

	code, _ = doJSON(t, h, http.MethodPost, "/api/v1/auth/register/student", "", map[string]string{
		"name": "Said", "username": "said42", "join_code": joinCode,
	})
	require.Equal(t, http.StatusCreated, code)

	login := func(username, role string) string {
		code, env := doJSON(t, h, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
			"username": username, "role": role,
		})
		require.Equal(t, http.StatusOK, code)
		return dataMap(t, env)["token"].(string)
	}
	studentToken := login("said42", "student")
	mentorToken := login("alihoca", "mentor")

	t.Run("no token", func(t *testing.T) {
		code, env := doJSON(t, h, http.MethodGet, "/api/v1/me/progress", "", nil)
		assert.Equal(t, http.StatusUnauthorized, code)
		assert.False(t, env.Success)
	})

	t.Run("garbage token", func(t *testing.T) {
		code, _ := doJSON(t, h, http.MethodGet, "/api/v1/me/progress", "not.a.jwt", nil)
		assert.Equal(t, http.StatusUnauthorized, code)
	})

	t.Run("student cannot open the mentor panel", func(t *testing.T) {
		code, _ := doJSON(t, h, http.MethodGet, "/api/v1/group/overview", studentToken, nil)
		assert.Equal(t, http.StatusForbidden, code)
	})

	t.Run("mentor cannot submit student logs", func(t *testing.T) {
		code, _ := doJSON(t, h, http.MethodPost, "/api/v1/me/logs", mentorToken, map[string]interface{}{
			"type": "QURAN", "value": 1,
		})
		assert.Equal(t, http.StatusForbidden, code)
	})

	t.Run("mentor panel works for mentors", func(t *testing.T) {
		code, env := doJSON(t, h, http.MethodGet, "/api/v1/group/overview", mentorToken, nil)
		require.Equal(t, http.StatusOK, code)
		assert.Equal(t, float64(1), dataMap(t, env)["member_count"])
	})
}

func TestErrorMapping(t *testing.T) {
	server := newTestServer(t)
	h := server.Handler()

	t.Run("wrong mentor code is unauthorized", func(t *testing.T) {
		code, env := doJSON(t, h, http.MethodPost, "/api/v1/auth/register/mentor", "", map[string]string{
			"name": "X", "username": "xmentor", "group_name": "G", "mentor_code": "yanlis",
		})
		assert.Equal(t, http.StatusUnauthorized, code)
		require.NotNil(t, env.Error)
	})

	t.Run("unknown login is not found", func(t *testing.T) {
		code, _ := doJSON(t, h, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
			"username": "yokboyle", "role": "student",
		})
		assert.Equal(t, http.StatusNotFound, code)
	})

	t.Run("unknown fields are rejected", func(t *testing.T) {
		code, _ := doJSON(t, h, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
			"username": "said42", "role": "student", "surprise": "field",
		})
		assert.Equal(t, http.StatusBadRequest, code)
	})

	t.Run("empty purchase wallet pays nothing", func(t *testing.T) {
		codeReg, env := doJSON(t, h, http.MethodPost, "/api/v1/auth/register/mentor", "", map[string]string{
			"name": "Ali", "username": "alihoca2", "group_name": "Halka", "mentor_code": testMentorCode,
		})
		require.Equal(t, http.StatusCreated, codeReg)
		joinCode := dataMap(t, env)["join_code"].(string)

		codeReg, _ = doJSON(t, h, http.MethodPost, "/api/v1/auth/register/student", "", map[string]string{
			"name": "Fakir", "username": "fakir1", "join_code": joinCode,
		})
		require.Equal(t, http.StatusCreated, codeReg)

		codeLogin, envLogin := doJSON(t, h, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
			"username": "fakir1", "role": "student",
		})
		require.Equal(t, http.StatusOK, codeLogin)
		token := dataMap(t, envLogin)["token"].(string)

		codeBuy, envBuy := doJSON(t, h, http.MethodPost, "/api/v1/me/purchases", token, map[string]string{
			"item_id": "streak_freeze",
		})
		assert.Equal(t, http.StatusPaymentRequired, codeBuy)
		require.NotNil(t, envBuy.Error)
		assert.Equal(t, "not_enough_coins", envBuy.Error.Code)
	})
}

func TestHealthEndpoints(t *testing.T) {
	server := newTestServer(t)
	h := server.Handler()

	for _, path := range []string{"/health", "/healthz", "/live", "/ready"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
}

func TestReadinessReportsFailingDependency(t *testing.T) {
	server := newTestServer(t)
	server.deps.ReadinessChecks = map[string]ReadinessCheck{
		"postgres": func(context.Context) error { return nil },
		"redis":    func(context.Context) error { return fmt.Errorf("connection refused") },
	}
	h := server.Handler()

	req := httptest.NewRequest(http.MethodGet, "/ready", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
