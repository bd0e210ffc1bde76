// Package motivation implements the daily encouragement client. It calls a
// generative text API to produce a short Turkish message tailored to the
// student's day and falls back to canned quotes when the API is slow,
// rate-limited, or down. The dashboard must never fail because of this
// service, so Motivate only returns an error when the context is cancelled.
package motivation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/ibrhsahin418-alt/cetele/internal/application/query"
	"github.com/ibrhsahin418-alt/cetele/pkg/circuitbreaker"
	"github.com/ibrhsahin418-alt/cetele/pkg/retry"
)

// ══════════════════════════════════════════════════════════════════════════════
// CONFIGURATION
// ══════════════════════════════════════════════════════════════════════════════

// Config contains configuration for the motivation client.
type Config struct {
	// BaseURL is the text generation API base URL.
	BaseURL string

	// APIKey authenticates requests.
	APIKey string

	// Model is the model identifier to query.
	Model string

	// Timeout is the HTTP request timeout.
	Timeout time.Duration

	// CacheTTL is how long a generated message stays valid while the
	// student's day is unchanged.
	CacheTTL time.Duration

	// Logger for structured logging.
	Logger *slog.Logger
}

// DefaultConfig returns sensible defaults.
func DefaultConfig(baseURL, apiKey string) Config {
	return Config{
		BaseURL:  baseURL,
		APIKey:   apiKey,
		Model:    "gemini-flash",
		Timeout:  15 * time.Second,
		CacheTTL: 1 * time.Hour,
	}
}

// fallbackQuotes are served whenever the API cannot be reached.
var fallbackQuotes = []string{
	"Her gün yeni bir başlangıçtır. Gayretini takdir ediyorum!",
	"Damlaya damlaya göl olur. Küçük adımlar büyük sonuçlar doğurur.",
	"İstikrar, başarının anahtarıdır. Aynen devam et!",
	"Bugün yaptığın çalışmalar, yarının meyveleri olacak.",
	"Manevi gelişim bir maratondur, sabırla yürü.",
	"Güzel gören güzel düşünür, güzel düşünen hayatından lezzet alır.",
	"Vazifeni yapmak en büyük ödüldür.",
	"Niyetin halis ise, az amel çok hükmündedir.",
}

// ══════════════════════════════════════════════════════════════════════════════
// CLIENT
// ══════════════════════════════════════════════════════════════════════════════

// cachedMessage is the single-entry response cache. One entry suffices
// because consecutive dashboard loads come from the same student view.
type cachedMessage struct {
	name      string
	logCount  int
	lastLogID string
	message   string
	storedAt  time.Time
}

// Client calls the text generation API. It implements query.MotivationProvider.
type Client struct {
	config     Config
	httpClient *http.Client
	logger     *slog.Logger
	retrier    *retry.Retrier
	breaker    *circuitbreaker.CircuitBreaker

	mu    sync.Mutex
	cache *cachedMessage
	rng   *rand.Rand
}

// NewClient creates a motivation client.
func NewClient(config Config) *Client {
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	if config.CacheTTL <= 0 {
		config.CacheTTL = 1 * time.Hour
	}

	logger := config.Logger
	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		logger:  logger,
		retrier: retry.MotivationRetrier(),
		breaker: circuitbreaker.MotivationBreaker(func(name string, from, to circuitbreaker.State) {
			logger.Warn("motivation circuit state changed",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
		}),
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Motivate implements query.MotivationProvider. API failures degrade to a
// random fallback quote instead of an error.
func (c *Client) Motivate(ctx context.Context, req query.MotivationRequest) (string, error) {
	// No API configured: serve quotes without burning retry time.
	if c.config.BaseURL == "" {
		return c.randomFallback(), nil
	}

	if msg, ok := c.cachedFor(req); ok {
		return msg, nil
	}

	prompt := buildPrompt(req)

	var message string
	err := c.breaker.Execute(ctx, func(ctx context.Context) error {
		return c.retrier.Do(ctx, func(ctx context.Context) error {
			text, err := c.generate(ctx, prompt)
			if err != nil {
				return err
			}
			message = text
			return nil
		})
	})
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return "", err
		}
		c.logger.Warn("motivation generation failed, serving fallback",
			"error", err.Error(),
		)
		return c.randomFallback(), nil
	}

	if message == "" {
		message = fallbackQuotes[0]
	}
	c.store(req, message)
	return message, nil
}

// cachedFor returns the cached message when the student's day is unchanged.
func (c *Client) cachedFor(req query.MotivationRequest) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry := c.cache
	if entry == nil {
		return "", false
	}
	if entry.name != req.Name || entry.logCount != req.TodayLogCount || entry.lastLogID != req.LastLogID {
		return "", false
	}
	if time.Since(entry.storedAt) > c.config.CacheTTL {
		return "", false
	}
	return entry.message, true
}

func (c *Client) store(req query.MotivationRequest, message string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cache = &cachedMessage{
		name:      req.Name,
		logCount:  req.TodayLogCount,
		lastLogID: req.LastLogID,
		message:   message,
		storedAt:  time.Now(),
	}
}

func (c *Client) randomFallback() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return fallbackQuotes[c.rng.Intn(len(fallbackQuotes))]
}

// buildPrompt renders the coaching prompt. The tone is a warm mentor
// (agabey/abla) speaking Turkish; replies should stay at 2-3 sentences.
func buildPrompt(req query.MotivationRequest) string {
	var sb strings.Builder
	sb.WriteString("Sen gençlere rehberlik eden bilge, samimi ve motive edici bir eğitim koçusun (ağabey/abla tonunda).\n")
	fmt.Fprintf(&sb, "Öğrencinin adı: %s.\n", req.Name)
	fmt.Fprintf(&sb, "Mevcut serisi: %d gün.\n", req.Streak)

	if req.TodayLogCount == 0 {
		sb.WriteString("Bugün henüz bir çalışma kaydetmedi.\n")
		sb.WriteString("Onu nazikçe, ümit verici bir dille teşvik et. Asla yargılayıcı olma.\n")
	} else {
		fmt.Fprintf(&sb, "Bugün %d çalışma kaydetti, sonuncusu: %s.\n", req.TodayLogCount, req.LastActivity)
		sb.WriteString("Onu tebrik et ve yaptığı işin manevi kıymetine değin.\n")
	}

	sb.WriteString("Cevabın 2-3 cümleyi geçmesin. Türkçeyi akıcı ve sıcak kullan.")
	return sb.String()
}

// ══════════════════════════════════════════════════════════════════════════════
// HTTP
// ══════════════════════════════════════════════════════════════════════════════

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type generateResponse struct {
	Text string `json:"text"`
}

// generate performs a single generation call.
func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	payload, err := json.Marshal(generateRequest{
		Model:  c.config.Model,
		Prompt: prompt,
	})
	if err != nil {
		return "", retry.Permanent(fmt.Errorf("marshal request: %w", err))
	}

	fullURL := c.config.BaseURL + "/v1/generate"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, fullURL, bytes.NewReader(payload))
	if err != nil {
		return "", retry.Permanent(fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.config.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", retry.Retryable(fmt.Errorf("http request: %w", err))
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", retry.Retryable(fmt.Errorf("read response: %w", err))
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return "", retry.Retryable(fmt.Errorf("rate limited: status %d", resp.StatusCode))
	case resp.StatusCode >= 500:
		return "", retry.Retryable(fmt.Errorf("server error: status %d", resp.StatusCode))
	case resp.StatusCode >= 400:
		return "", retry.Permanent(fmt.Errorf("api error: status %d: %s", resp.StatusCode, string(respBody)))
	}

	var out generateResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return "", retry.Permanent(fmt.Errorf("unmarshal response: %w", err))
	}

	return strings.TrimSpace(out.Text), nil
}

// IsHealthy checks if the generation API is reachable.
func (c *Client) IsHealthy(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.BaseURL+"/health", nil)
	if err != nil {
		return false
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}
