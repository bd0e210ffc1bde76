// Package shared contains common domain types, errors, events, and value objects
// that are used across all domain packages.
package shared

import (
	"encoding/json"
	"time"
)

// EventType represents the type of domain event.
type EventType string

// Domain event types - these drive the event-driven architecture.
// Each event represents something significant that happened in the domain.
const (
	// Student events
	EventStudentRegistered EventType = "student.registered"
	EventMentorRegistered  EventType = "mentor.registered"

	// Progress events
	EventActivityLogged       EventType = "progress.activity_logged"
	EventXPGained             EventType = "progress.xp_gained"
	EventDailyGoalCompleted   EventType = "progress.daily_goal_completed"
	EventStreakExtended       EventType = "progress.streak_extended"
	EventStreakBroken         EventType = "progress.streak_broken"
	EventStreakFreezeBurned   EventType = "progress.streak_freeze_burned"
	EventRankPromoted         EventType = "progress.rank_promoted"
	EventBadgeAwarded         EventType = "progress.badge_awarded"
	EventTemporaryRewardGiven EventType = "progress.temporary_reward_given"

	// Shop events
	EventItemPurchased EventType = "shop.item_purchased"

	// Mentor events
	EventLogVerificationToggled EventType = "mentor.log_verification_toggled"
	EventTaskAssigned           EventType = "mentor.task_assigned"
	EventTaskRemoved            EventType = "mentor.task_removed"

	// System events
	EventSweepCompleted     EventType = "system.sweep_completed"
	EventLeaderboardUpdated EventType = "system.leaderboard_updated"
)

// Event is the base interface for all domain events.
type Event interface {
	// EventType returns the type of the event.
	EventType() EventType

	// OccurredAt returns when the event occurred.
	OccurredAt() time.Time

	// AggregateID returns the ID of the aggregate that produced this event.
	AggregateID() string

	// Payload returns the event data as a map for serialization.
	Payload() map[string]interface{}
}

// BaseEvent provides common event functionality.
type BaseEvent struct {
	Type          EventType `json:"type"`
	Timestamp     time.Time `json:"timestamp"`
	AggregateId   string    `json:"aggregate_id"`
	Version       int       `json:"version"`
	CorrelationID string    `json:"correlation_id,omitempty"`
}

// EventType implements Event interface.
func (e BaseEvent) EventType() EventType {
	return e.Type
}

// OccurredAt implements Event interface.
func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// AggregateID implements Event interface.
func (e BaseEvent) AggregateID() string {
	return e.AggregateId
}

// NewBaseEvent creates a new base event.
func NewBaseEvent(eventType EventType, aggregateID string) BaseEvent {
	return BaseEvent{
		Type:        eventType,
		Timestamp:   time.Now(),
		AggregateId: aggregateID,
		Version:     1,
	}
}

// WithCorrelationID sets the correlation ID for tracing.
func (e BaseEvent) WithCorrelationID(id string) BaseEvent {
	e.CorrelationID = id
	return e
}

// ═══════════════════════════════════════════════════════════════════════════
// Progress Events
// ═══════════════════════════════════════════════════════════════════════════

// ActivityLoggedEvent is emitted when a student submits a log entry.
type ActivityLoggedEvent struct {
	BaseEvent
	StudentID    string `json:"student_id"`
	LogID        string `json:"log_id"`
	ActivityType string `json:"activity_type"`
	Value        int    `json:"value"`
	XPEarned     int    `json:"xp_earned"`
	CoinsEarned  int    `json:"coins_earned"`
}

// Payload implements Event interface.
func (e ActivityLoggedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"student_id":    e.StudentID,
		"log_id":        e.LogID,
		"activity_type": e.ActivityType,
		"value":         e.Value,
		"xp_earned":     e.XPEarned,
		"coins_earned":  e.CoinsEarned,
	}
}

// NewActivityLoggedEvent creates a new ActivityLoggedEvent.
func NewActivityLoggedEvent(studentID, logID, activityType string, value, xp, coins int) ActivityLoggedEvent {
	return ActivityLoggedEvent{
		BaseEvent:    NewBaseEvent(EventActivityLogged, studentID),
		StudentID:    studentID,
		LogID:        logID,
		ActivityType: activityType,
		Value:        value,
		XPEarned:     xp,
		CoinsEarned:  coins,
	}
}

// XPGainedEvent is emitted when a student gains XP.
type XPGainedEvent struct {
	BaseEvent
	StudentID string `json:"student_id"`
	Amount    int    `json:"amount"`
	NewTotal  int    `json:"new_total"`
	Source    string `json:"source"` // e.g., "log", "bonus"
}

// Payload implements Event interface.
func (e XPGainedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"student_id": e.StudentID,
		"amount":     e.Amount,
		"new_total":  e.NewTotal,
		"source":     e.Source,
	}
}

// NewXPGainedEvent creates a new XPGainedEvent.
func NewXPGainedEvent(studentID string, amount, newTotal int, source string) XPGainedEvent {
	return XPGainedEvent{
		BaseEvent: NewBaseEvent(EventXPGained, studentID),
		StudentID: studentID,
		Amount:    amount,
		NewTotal:  newTotal,
		Source:    source,
	}
}

// StreakExtendedEvent is emitted when the daily goal flips to complete
// and the streak counter increments.
type StreakExtendedEvent struct {
	BaseEvent
	StudentID string `json:"student_id"`
	NewStreak int    `json:"new_streak"`
}

// Payload implements Event interface.
func (e StreakExtendedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"student_id": e.StudentID,
		"new_streak": e.NewStreak,
	}
}

// NewStreakExtendedEvent creates a new StreakExtendedEvent.
func NewStreakExtendedEvent(studentID string, newStreak int) StreakExtendedEvent {
	return StreakExtendedEvent{
		BaseEvent: NewBaseEvent(EventStreakExtended, studentID),
		StudentID: studentID,
		NewStreak: newStreak,
	}
}

// StreakBrokenEvent is emitted when the sweep resets a student's streak.
type StreakBrokenEvent struct {
	BaseEvent
	StudentID      string `json:"student_id"`
	PreviousStreak int    `json:"previous_streak"`
	DaysMissed     int    `json:"days_missed"`
}

// Payload implements Event interface.
func (e StreakBrokenEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"student_id":      e.StudentID,
		"previous_streak": e.PreviousStreak,
		"days_missed":     e.DaysMissed,
	}
}

// NewStreakBrokenEvent creates a new StreakBrokenEvent.
func NewStreakBrokenEvent(studentID string, previousStreak, daysMissed int) StreakBrokenEvent {
	return StreakBrokenEvent{
		BaseEvent:      NewBaseEvent(EventStreakBroken, studentID),
		StudentID:      studentID,
		PreviousStreak: previousStreak,
		DaysMissed:     daysMissed,
	}
}

// StreakFreezeBurnedEvent is emitted when the sweep spends a streak freeze
// instead of resetting the streak.
type StreakFreezeBurnedEvent struct {
	BaseEvent
	StudentID      string `json:"student_id"`
	RemainingUnits int    `json:"remaining_units"`
	SavedStreak    int    `json:"saved_streak"`
}

// Payload implements Event interface.
func (e StreakFreezeBurnedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"student_id":      e.StudentID,
		"remaining_units": e.RemainingUnits,
		"saved_streak":    e.SavedStreak,
	}
}

// NewStreakFreezeBurnedEvent creates a new StreakFreezeBurnedEvent.
func NewStreakFreezeBurnedEvent(studentID string, remainingUnits, savedStreak int) StreakFreezeBurnedEvent {
	return StreakFreezeBurnedEvent{
		BaseEvent:      NewBaseEvent(EventStreakFreezeBurned, studentID),
		StudentID:      studentID,
		RemainingUnits: remainingUnits,
		SavedStreak:    savedStreak,
	}
}

// RankPromotedEvent is emitted when a student's total XP crosses a rank threshold.
type RankPromotedEvent struct {
	BaseEvent
	StudentID string `json:"student_id"`
	OldRank   string `json:"old_rank"`
	NewRank   string `json:"new_rank"`
	TotalXP   int    `json:"total_xp"`
}

// Payload implements Event interface.
func (e RankPromotedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"student_id": e.StudentID,
		"old_rank":   e.OldRank,
		"new_rank":   e.NewRank,
		"total_xp":   e.TotalXP,
	}
}

// NewRankPromotedEvent creates a new RankPromotedEvent.
func NewRankPromotedEvent(studentID, oldRank, newRank string, totalXP int) RankPromotedEvent {
	return RankPromotedEvent{
		BaseEvent: NewBaseEvent(EventRankPromoted, studentID),
		StudentID: studentID,
		OldRank:   oldRank,
		NewRank:   newRank,
		TotalXP:   totalXP,
	}
}

// BadgeAwardedEvent is emitted when a milestone badge is granted.
type BadgeAwardedEvent struct {
	BaseEvent
	StudentID string `json:"student_id"`
	Badge     string `json:"badge"`
}

// Payload implements Event interface.
func (e BadgeAwardedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"student_id": e.StudentID,
		"badge":      e.Badge,
	}
}

// NewBadgeAwardedEvent creates a new BadgeAwardedEvent.
func NewBadgeAwardedEvent(studentID, badge string) BadgeAwardedEvent {
	return BadgeAwardedEvent{
		BaseEvent: NewBaseEvent(EventBadgeAwarded, studentID),
		StudentID: studentID,
		Badge:     badge,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Shop Events
// ═══════════════════════════════════════════════════════════════════════════

// ItemPurchasedEvent is emitted when a student buys a shop item.
type ItemPurchasedEvent struct {
	BaseEvent
	StudentID      string `json:"student_id"`
	ItemID         string `json:"item_id"`
	Cost           int    `json:"cost"`
	RemainingCoins int    `json:"remaining_coins"`
}

// Payload implements Event interface.
func (e ItemPurchasedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"student_id":      e.StudentID,
		"item_id":         e.ItemID,
		"cost":            e.Cost,
		"remaining_coins": e.RemainingCoins,
	}
}

// NewItemPurchasedEvent creates a new ItemPurchasedEvent.
func NewItemPurchasedEvent(studentID, itemID string, cost, remainingCoins int) ItemPurchasedEvent {
	return ItemPurchasedEvent{
		BaseEvent:      NewBaseEvent(EventItemPurchased, studentID),
		StudentID:      studentID,
		ItemID:         itemID,
		Cost:           cost,
		RemainingCoins: remainingCoins,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// System Events
// ═══════════════════════════════════════════════════════════════════════════

// SweepCompletedEvent is emitted after a full midnight sweep run.
type SweepCompletedEvent struct {
	BaseEvent
	ReferenceDate time.Time `json:"reference_date"`
	StudentsSwept int       `json:"students_swept"`
	StreaksBroken int       `json:"streaks_broken"`
	FreezesBurned int       `json:"freezes_burned"`
}

// Payload implements Event interface.
func (e SweepCompletedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"reference_date": e.ReferenceDate.Format(time.RFC3339),
		"students_swept": e.StudentsSwept,
		"streaks_broken": e.StreaksBroken,
		"freezes_burned": e.FreezesBurned,
	}
}

// NewSweepCompletedEvent creates a new SweepCompletedEvent.
func NewSweepCompletedEvent(referenceDate time.Time, swept, broken, burned int) SweepCompletedEvent {
	return SweepCompletedEvent{
		BaseEvent:     NewBaseEvent(EventSweepCompleted, "sweep"),
		ReferenceDate: referenceDate,
		StudentsSwept: swept,
		StreaksBroken: broken,
		FreezesBurned: burned,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Event Envelope (for serialization and transport)
// ═══════════════════════════════════════════════════════════════════════════

// EventEnvelope wraps an event for transport/storage.
type EventEnvelope struct {
	ID            string          `json:"id"`
	Type          EventType       `json:"type"`
	AggregateID   string          `json:"aggregate_id"`
	Timestamp     time.Time       `json:"timestamp"`
	Version       int             `json:"version"`
	CorrelationID string          `json:"correlation_id,omitempty"`
	Payload       json.RawMessage `json:"payload"`
}

// EventHandler is a function that handles an event.
type EventHandler func(event Event) error

// EventPublisher defines the interface for publishing events.
type EventPublisher interface {
	// Publish sends an event to subscribers.
	Publish(event Event) error
}

// EventSubscriber defines the interface for subscribing to events.
type EventSubscriber interface {
	// Subscribe registers a handler for an event type.
	Subscribe(eventType EventType, handler EventHandler) error

	// SubscribeAll registers a handler for all events.
	SubscribeAll(handler EventHandler) error
}

// EventBus combines publishing and subscribing.
type EventBus interface {
	EventPublisher
	EventSubscriber
}
