// Package student contains the student aggregate: the tally log, custom tasks,
// inventory, temporary rewards, and the progress counters the rule engine
// operates on. Business rules that combine these parts live in domain/engine.
package student

import (
	"time"

	"github.com/ibrhsahin418-alt/cetele/internal/domain/shared"
	"github.com/ibrhsahin418-alt/cetele/pkg/timeutil"
)

// ItemStreakFreeze is the inventory ID of the streak protection item.
// The midnight sweep consumes one unit instead of resetting the streak.
const ItemStreakFreeze = "STREAK_FREEZE"

// ══════════════════════════════════════════════════════════════════════════════
// LOG ENTRIES
// ══════════════════════════════════════════════════════════════════════════════

// LogEntry is one immutable record of completed spiritual work.
// Entries are never edited after submission; mentors only flip Verified.
type LogEntry struct {
	ID          string
	Type        ActivityType
	Value       int
	Details     string
	Date        time.Time
	XPEarned    int
	CoinsEarned int
	Verified    bool
}

// IsOn reports whether the entry is dated on the same Istanbul calendar day as ref.
func (l LogEntry) IsOn(ref time.Time) bool {
	return timeutil.IsSameDay(l.Date, ref)
}

// ══════════════════════════════════════════════════════════════════════════════
// CUSTOM TASKS
// ══════════════════════════════════════════════════════════════════════════════

// CustomTask is a mentor-assigned daily obligation. While a student has any
// custom tasks, the daily goal is complete only when every task title appears
// among that day's log details.
type CustomTask struct {
	ID         string
	Title      string
	Type       ActivityType
	AssignedBy shared.MentorID
	CreatedAt  time.Time
}

// ══════════════════════════════════════════════════════════════════════════════
// INVENTORY
// ══════════════════════════════════════════════════════════════════════════════

// InventoryItem is a stack of consumable shop items.
type InventoryItem struct {
	ItemID   string
	Quantity int
}

// ══════════════════════════════════════════════════════════════════════════════
// TEMPORARY REWARDS
// ══════════════════════════════════════════════════════════════════════════════

// Cosmetic reward identifiers.
const (
	RewardRainbowName = "RAINBOW_NAME"
	RewardNeonFrame   = "NEON_FRAME"
	RewardGoldGlow    = "GOLD_GLOW"
)

// TemporaryReward is a time-limited cosmetic effect. Expiry is governed solely
// by ExpiresAt; IsActive is a display preference the student toggles.
type TemporaryReward struct {
	ID        string
	Name      string
	ExpiresAt time.Time
	IsActive  bool
}

// IsExpired reports whether the reward has lapsed at the given instant.
func (r TemporaryReward) IsExpired(now time.Time) bool {
	return !r.ExpiresAt.After(now)
}

// ══════════════════════════════════════════════════════════════════════════════
// STUDENT AGGREGATE
// ══════════════════════════════════════════════════════════════════════════════

// Student is the aggregate root. All rule-engine state hangs off it.
type Student struct {
	ID        shared.StudentID
	Name      string
	Username  shared.Username
	GroupID   shared.GroupID
	AvatarURL string

	TotalXP shared.XP
	Coins   shared.Coins
	Level   int
	Streak  int
	Badges  []string

	// Logs are ordered newest-submitted-first. The sweep inspects the
	// entry with the latest date, not the head; see LatestLog.
	Logs []LogEntry

	CustomTasks []CustomTask
	Inventory   []InventoryItem
	Rewards     []TemporaryReward

	// LastSweptAt records the reference day of the last streak sweep
	// applied to this student. It makes a same-day re-run a no-op.
	LastSweptAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewStudent creates a fresh student with zeroed progress.
func NewStudent(id shared.StudentID, name string, username shared.Username, groupID shared.GroupID, avatarURL string) *Student {
	now := time.Now()
	return &Student{
		ID:        id,
		Name:      name,
		Username:  username,
		GroupID:   groupID,
		AvatarURL: avatarURL,
		Level:     1,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Validate checks aggregate invariants.
func (s *Student) Validate() error {
	if !s.ID.IsValid() {
		return shared.NewDomainError("student", "Validate", shared.ErrInvalidID, "student ID must be a UUID")
	}
	if s.Name == "" {
		return shared.NewDomainError("student", "Validate", shared.ErrEmptyValue, "name cannot be empty")
	}
	if !s.TotalXP.IsValid() || !s.Coins.IsValid() {
		return shared.NewDomainError("student", "Validate", shared.ErrValueOutOfRange, "negative progress counters")
	}
	if s.Streak < 0 {
		return shared.NewDomainError("student", "Validate", shared.ErrNegativeValue, "streak cannot be negative")
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────────────
// Logs
// ─────────────────────────────────────────────────────────────────────────

// AddLog prepends a new entry so the head stays the most recent submission.
func (s *Student) AddLog(entry LogEntry) {
	s.Logs = append([]LogEntry{entry}, s.Logs...)
	s.UpdatedAt = time.Now()
}

// LastLog returns the most recently submitted entry, or nil if none exist.
func (s *Student) LastLog() *LogEntry {
	if len(s.Logs) == 0 {
		return nil
	}
	return &s.Logs[0]
}

// LatestLog returns the entry with the latest date, or nil if none exist.
// Backdated submissions make this distinct from LastLog.
func (s *Student) LatestLog() *LogEntry {
	if len(s.Logs) == 0 {
		return nil
	}
	latest := &s.Logs[0]
	for i := range s.Logs {
		if s.Logs[i].Date.After(latest.Date) {
			latest = &s.Logs[i]
		}
	}
	return latest
}

// LogsOn returns all entries dated on the same Istanbul day as ref.
func (s *Student) LogsOn(ref time.Time) []LogEntry {
	var out []LogEntry
	for _, l := range s.Logs {
		if l.IsOn(ref) {
			out = append(out, l)
		}
	}
	return out
}

// FindLog returns the entry with the given ID, or nil.
func (s *Student) FindLog(logID string) *LogEntry {
	for i := range s.Logs {
		if s.Logs[i].ID == logID {
			return &s.Logs[i]
		}
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────────────
// Progress
// ─────────────────────────────────────────────────────────────────────────

// AwardXP credits experience and coins earned by a log entry.
func (s *Student) AwardXP(xp, coins int) {
	s.TotalXP = s.TotalXP.Add(xp)
	s.Coins = s.Coins.Add(coins)
	s.UpdatedAt = time.Now()
}

// ExtendStreak bumps the streak counter by one.
func (s *Student) ExtendStreak() {
	s.Streak++
	s.UpdatedAt = time.Now()
}

// ResetStreak clears the streak counter.
func (s *Student) ResetStreak() {
	s.Streak = 0
	s.UpdatedAt = time.Now()
}

// MarkSwept records that the sweep processed this student for the given day.
func (s *Student) MarkSwept(day time.Time) {
	d := timeutil.StartOfDay(day)
	s.LastSweptAt = &d
	s.UpdatedAt = time.Now()
}

// SweptOn reports whether the sweep already ran for the given day.
func (s *Student) SweptOn(day time.Time) bool {
	return s.LastSweptAt != nil && timeutil.IsSameDay(*s.LastSweptAt, day)
}

// TotalValueFor sums the logged values of the given activity type.
func (s *Student) TotalValueFor(t ActivityType) int {
	total := 0
	for _, l := range s.Logs {
		if l.Type == t {
			total += l.Value
		}
	}
	return total
}

// ─────────────────────────────────────────────────────────────────────────
// Custom tasks
// ─────────────────────────────────────────────────────────────────────────

// HasTaskTitled reports whether a custom task with the exact title exists.
func (s *Student) HasTaskTitled(title string) bool {
	for _, t := range s.CustomTasks {
		if t.Title == title {
			return true
		}
	}
	return false
}

// AssignTask adds a custom task to the student's daily obligations.
func (s *Student) AssignTask(task CustomTask) {
	s.CustomTasks = append(s.CustomTasks, task)
	s.UpdatedAt = time.Now()
}

// RemoveTask removes the task with the given ID. Returns false if absent.
func (s *Student) RemoveTask(taskID string) bool {
	for i, t := range s.CustomTasks {
		if t.ID == taskID {
			s.CustomTasks = append(s.CustomTasks[:i], s.CustomTasks[i+1:]...)
			s.UpdatedAt = time.Now()
			return true
		}
	}
	return false
}

// RemoveTaskByTitle removes every task with the exact title.
// Returns the number of tasks removed.
func (s *Student) RemoveTaskByTitle(title string) int {
	removed := 0
	kept := s.CustomTasks[:0]
	for _, t := range s.CustomTasks {
		if t.Title == title {
			removed++
			continue
		}
		kept = append(kept, t)
	}
	s.CustomTasks = kept
	if removed > 0 {
		s.UpdatedAt = time.Now()
	}
	return removed
}

// ─────────────────────────────────────────────────────────────────────────
// Inventory
// ─────────────────────────────────────────────────────────────────────────

// ItemCount returns the held quantity of an inventory item.
func (s *Student) ItemCount(itemID string) int {
	for _, it := range s.Inventory {
		if it.ItemID == itemID {
			return it.Quantity
		}
	}
	return 0
}

// AddItem increases the held quantity of an item, creating the stack if needed.
func (s *Student) AddItem(itemID string, qty int) {
	for i := range s.Inventory {
		if s.Inventory[i].ItemID == itemID {
			s.Inventory[i].Quantity += qty
			s.UpdatedAt = time.Now()
			return
		}
	}
	s.Inventory = append(s.Inventory, InventoryItem{ItemID: itemID, Quantity: qty})
	s.UpdatedAt = time.Now()
}

// ConsumeItem decrements one unit of the item, pruning the stack at zero.
// Returns false if the student holds none.
func (s *Student) ConsumeItem(itemID string) bool {
	for i := range s.Inventory {
		if s.Inventory[i].ItemID != itemID || s.Inventory[i].Quantity <= 0 {
			continue
		}
		s.Inventory[i].Quantity--
		if s.Inventory[i].Quantity == 0 {
			s.Inventory = append(s.Inventory[:i], s.Inventory[i+1:]...)
		}
		s.UpdatedAt = time.Now()
		return true
	}
	return false
}

// ─────────────────────────────────────────────────────────────────────────
// Temporary rewards
// ─────────────────────────────────────────────────────────────────────────

// GrantReward attaches a temporary cosmetic reward.
func (s *Student) GrantReward(r TemporaryReward) {
	s.Rewards = append(s.Rewards, r)
	s.UpdatedAt = time.Now()
}

// ToggleReward flips the display preference of the given reward.
// Expiry state is deliberately ignored; only ExpiresAt governs visibility.
func (s *Student) ToggleReward(rewardID string) error {
	for i := range s.Rewards {
		if s.Rewards[i].ID == rewardID {
			s.Rewards[i].IsActive = !s.Rewards[i].IsActive
			s.UpdatedAt = time.Now()
			return nil
		}
	}
	return shared.ErrRewardNotFound
}

// PruneExpiredRewards drops rewards whose ExpiresAt has passed and returns
// how many were removed. Reads already ignore expired rewards, so pruning
// only keeps the stored slice from growing without bound.
func (s *Student) PruneExpiredRewards(now time.Time) int {
	kept := s.Rewards[:0]
	removed := 0
	for _, r := range s.Rewards {
		if r.IsExpired(now) {
			removed++
			continue
		}
		kept = append(kept, r)
	}
	s.Rewards = kept
	if removed > 0 {
		s.UpdatedAt = time.Now()
	}
	return removed
}

// ─────────────────────────────────────────────────────────────────────────
// Badges
// ─────────────────────────────────────────────────────────────────────────

// HasBadge reports whether the badge was already awarded.
func (s *Student) HasBadge(name string) bool {
	for _, b := range s.Badges {
		if b == name {
			return true
		}
	}
	return false
}

// AwardBadge grants the badge once. Returns false if already held.
func (s *Student) AwardBadge(name string) bool {
	if s.HasBadge(name) {
		return false
	}
	s.Badges = append(s.Badges, name)
	s.UpdatedAt = time.Now()
	return true
}

// SetAvatar updates the avatar URL (shop purchases and profile edits).
func (s *Student) SetAvatar(url string) {
	s.AvatarURL = url
	s.UpdatedAt = time.Now()
}

// Clone returns a deep copy of the aggregate. Repositories hand out clones
// so callers never mutate stored state through shared slices.
func (s *Student) Clone() *Student {
	if s == nil {
		return nil
	}
	clone := *s
	clone.Badges = append([]string(nil), s.Badges...)
	clone.Logs = append([]LogEntry(nil), s.Logs...)
	clone.CustomTasks = append([]CustomTask(nil), s.CustomTasks...)
	clone.Inventory = append([]InventoryItem(nil), s.Inventory...)
	clone.Rewards = append([]TemporaryReward(nil), s.Rewards...)
	if s.LastSweptAt != nil {
		t := *s.LastSweptAt
		clone.LastSweptAt = &t
	}
	return &clone
}
