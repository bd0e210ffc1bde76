package engine

import (
	"time"

	"github.com/ibrhsahin418-alt/cetele/internal/domain/student"
	"github.com/ibrhsahin418-alt/cetele/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// DAILY GOAL
// ══════════════════════════════════════════════════════════════════════════════

// IsDailyGoalComplete evaluates the daily goal for the given reference day.
//
// With no custom tasks assigned, any log dated on the reference day completes
// the goal. With custom tasks, every task title must match the Details field
// of some same-day log exactly; extra logs never hurt, and a missing title
// fails the whole day.
func IsDailyGoalComplete(tasks []student.CustomTask, logs []student.LogEntry, ref time.Time) bool {
	var todays []student.LogEntry
	for _, l := range logs {
		if l.IsOn(ref) {
			todays = append(todays, l)
		}
	}

	if len(tasks) == 0 {
		return len(todays) > 0
	}

	for _, task := range tasks {
		matched := false
		for _, l := range todays {
			if l.Details == task.Title {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	return true
}

// TaskCompletion maps each custom task ID to whether a same-day log
// satisfies it. Used by the daily progress view.
func TaskCompletion(tasks []student.CustomTask, logs []student.LogEntry, ref time.Time) map[string]bool {
	done := make(map[string]bool, len(tasks))
	for _, task := range tasks {
		done[task.ID] = false
		for _, l := range logs {
			if l.IsOn(ref) && l.Details == task.Title {
				done[task.ID] = true
				break
			}
		}
	}
	return done
}

// EvaluateSubmission reports whether appending entry to logs flips the daily
// goal from incomplete to complete on the entry's own day. The streak counter
// increments exactly on that transition, so a second completing log on the
// same day never double-counts.
func EvaluateSubmission(tasks []student.CustomTask, logs []student.LogEntry, entry student.LogEntry) bool {
	before := IsDailyGoalComplete(tasks, logs, entry.Date)
	after := IsDailyGoalComplete(tasks, append([]student.LogEntry{entry}, logs...), entry.Date)
	return !before && after
}

// ══════════════════════════════════════════════════════════════════════════════
// STREAK DECAY
// ══════════════════════════════════════════════════════════════════════════════

// DecayAction is the sweep's verdict for one student.
type DecayAction int

const (
	// DecayKeep leaves the streak untouched (gap of at most one day).
	DecayKeep DecayAction = iota
	// DecayConsumeFreeze spends one streak freeze and keeps the streak.
	DecayConsumeFreeze
	// DecayReset clears the streak to zero.
	DecayReset
)

// DecayDecision is the outcome of DecideDecay.
type DecayDecision struct {
	Action     DecayAction
	DaysMissed int
}

// DecideDecay decides what the midnight sweep should do to a student's
// streak, given the date of the most recently submitted log.
//
// A student with no logs at all is reset unconditionally; freezes do not
// apply because there is no streak history to protect. Otherwise the gap is
// counted in whole Istanbul days between the last log's day and today: a gap
// of zero or one day is safe, anything larger costs either one streak freeze
// or the whole streak. Deliberately only the most recent log is examined, so
// re-running the sweep for the same day is idempotent once the freeze has
// been spent or the streak cleared.
func DecideDecay(lastLog *student.LogEntry, today time.Time, freezeUnits int) DecayDecision {
	if lastLog == nil {
		return DecayDecision{Action: DecayReset}
	}

	days := timeutil.DaysBetween(lastLog.Date, today)
	if days <= 1 {
		return DecayDecision{Action: DecayKeep, DaysMissed: days}
	}

	if freezeUnits > 0 {
		return DecayDecision{Action: DecayConsumeFreeze, DaysMissed: days}
	}
	return DecayDecision{Action: DecayReset, DaysMissed: days}
}
