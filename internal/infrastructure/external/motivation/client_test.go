package motivation

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ibrhsahin418-alt/cetele/internal/application/query"
)

func generationServer(t *testing.T, calls *atomic.Int64, text string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "/v1/generate", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req generateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.NotEmpty(t, req.Prompt)

		_ = json.NewEncoder(w).Encode(generateResponse{Text: text})
	}))
}

func isFallback(msg string) bool {
	for _, q := range fallbackQuotes {
		if q == msg {
			return true
		}
	}
	return false
}

func TestMotivateReturnsGeneratedText(t *testing.T) {
	var calls atomic.Int64
	srv := generationServer(t, &calls, "Maşallah, harika gidiyorsun!")
	defer srv.Close()

	client := NewClient(DefaultConfig(srv.URL, "test-key"))

	msg, err := client.Motivate(context.Background(), query.MotivationRequest{
		Name:          "Said",
		Streak:        5,
		TodayLogCount: 2,
		LastActivity:  "Kuran",
		LastLogID:     "log-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "Maşallah, harika gidiyorsun!", msg)
	assert.Equal(t, int64(1), calls.Load())
}

func TestMotivateCachesWhileDayUnchanged(t *testing.T) {
	var calls atomic.Int64
	srv := generationServer(t, &calls, "Devam et!")
	defer srv.Close()

	client := NewClient(DefaultConfig(srv.URL, "test-key"))
	req := query.MotivationRequest{Name: "Said", TodayLogCount: 1, LastLogID: "log-1"}

	_, err := client.Motivate(context.Background(), req)
	require.NoError(t, err)
	_, err = client.Motivate(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, int64(1), calls.Load(), "second call served from cache")

	// A new log entry changes the day and busts the cache.
	req.TodayLogCount = 2
	req.LastLogID = "log-2"
	_, err = client.Motivate(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, int64(2), calls.Load())
}

func TestMotivateFallsBackOnServerErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	cfg := DefaultConfig(srv.URL, "test-key")
	cfg.Timeout = time.Second
	client := NewClient(cfg)

	msg, err := client.Motivate(context.Background(), query.MotivationRequest{Name: "Said"})
	require.NoError(t, err, "the dashboard must never fail on API trouble")
	assert.True(t, isFallback(msg), "got %q, want a canned quote", msg)
}

func TestMotivateFallsBackWhenUnconfigured(t *testing.T) {
	client := NewClient(DefaultConfig("", ""))

	msg, err := client.Motivate(context.Background(), query.MotivationRequest{Name: "Said"})
	require.NoError(t, err)
	assert.True(t, isFallback(msg))
}

func TestMotivateHonorsCancellation(t *testing.T) {
	srv := generationServer(t, &atomic.Int64{}, "hiç ulaşılmaz")
	defer srv.Close()

	client := NewClient(DefaultConfig(srv.URL, "test-key"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Motivate(ctx, query.MotivationRequest{Name: "Said"})
	assert.ErrorIs(t, err, context.Canceled)
}
