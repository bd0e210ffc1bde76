package eventhandler

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/ibrhsahin418-alt/cetele/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// AUDIT LOG HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// AuditLogHandler writes one structured log line per domain event. It is the
// only place where every event of the system passes through, which makes the
// log stream a usable audit trail for mentors investigating a dispute over
// XP or a burned streak freeze.
type AuditLogHandler struct {
	logger *slog.Logger

	// counters per outcome, exposed for health reporting
	processed atomic.Int64
}

// NewAuditLogHandler creates the handler.
func NewAuditLogHandler(logger *slog.Logger) *AuditLogHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditLogHandler{
		logger: logger.With("handler", "audit_log"),
	}
}

// Handle implements shared.EventHandler. Registered via SubscribeAll.
func (h *AuditLogHandler) Handle(event shared.Event) error {
	h.processed.Add(1)

	level := slog.LevelInfo
	if event.EventType() == shared.EventStreakBroken {
		// Broken streaks are the signal mentors act on.
		level = slog.LevelWarn
	}

	attrs := []any{
		"event_type", string(event.EventType()),
		"aggregate_id", event.AggregateID(),
		"occurred_at", event.OccurredAt(),
	}
	for key, value := range event.Payload() {
		attrs = append(attrs, key, value)
	}

	h.logger.Log(context.Background(), level, "domain event", attrs...)
	return nil
}

// Processed returns how many events passed through since startup.
func (h *AuditLogHandler) Processed() int64 {
	return h.processed.Load()
}
