package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ibrhsahin418-alt/cetele/internal/domain/student"
	"github.com/ibrhsahin418-alt/cetele/pkg/timeutil"
)

func logOn(day time.Time, details string) student.LogEntry {
	return student.LogEntry{
		ID:      "log-" + details,
		Type:    student.ActivityQuran,
		Value:   1,
		Details: details,
		Date:    day,
	}
}

func task(title string) student.CustomTask {
	return student.CustomTask{ID: "task-" + title, Title: title, Type: student.ActivityNamaz}
}

func TestDailyGoalWithoutTasks(t *testing.T) {
	today := timeutil.Date(2025, 3, 10)

	assert.False(t, IsDailyGoalComplete(nil, nil, today), "no logs at all")

	logs := []student.LogEntry{logOn(today, "sabah okuması")}
	assert.True(t, IsDailyGoalComplete(nil, logs, today), "any same-day log completes")

	yesterday := []student.LogEntry{logOn(today.AddDate(0, 0, -1), "dün")}
	assert.False(t, IsDailyGoalComplete(nil, yesterday, today), "stale log does not count")
}

func TestDailyGoalWithTasks(t *testing.T) {
	today := timeutil.Date(2025, 3, 10)
	tasks := []student.CustomTask{task("Sabah Namazı"), task("Cevşen")}

	logs := []student.LogEntry{
		logOn(today, "Sabah Namazı"),
		logOn(today, "Cevşen"),
	}
	assert.True(t, IsDailyGoalComplete(tasks, logs, today))

	partial := []student.LogEntry{logOn(today, "Sabah Namazı")}
	assert.False(t, IsDailyGoalComplete(tasks, partial, today), "one missing title fails the day")

	// Matching is exact string equality on the details field.
	wrongCase := []student.LogEntry{
		logOn(today, "sabah namazı"),
		logOn(today, "Cevşen"),
	}
	assert.False(t, IsDailyGoalComplete(tasks, wrongCase, today))

	// Extra unrelated logs never hurt.
	extra := append(logs, logOn(today, "serbest okuma"))
	assert.True(t, IsDailyGoalComplete(tasks, extra, today))

	// A plain log without the required titles is not enough.
	free := []student.LogEntry{logOn(today, "serbest okuma")}
	assert.False(t, IsDailyGoalComplete(tasks, free, today))
}

func TestTaskCompletion(t *testing.T) {
	today := timeutil.Date(2025, 3, 10)
	tasks := []student.CustomTask{task("Sabah Namazı"), task("Cevşen")}
	logs := []student.LogEntry{logOn(today, "Cevşen")}

	done := TaskCompletion(tasks, logs, today)
	assert.False(t, done["task-Sabah Namazı"])
	assert.True(t, done["task-Cevşen"])
}

func TestEvaluateSubmissionEdgeDetection(t *testing.T) {
	today := timeutil.Date(2025, 3, 10)

	// First log of the day flips the goal for a student without tasks.
	assert.True(t, EvaluateSubmission(nil, nil, logOn(today, "ilk")))

	// A second log the same day is not a transition.
	existing := []student.LogEntry{logOn(today, "ilk")}
	assert.False(t, EvaluateSubmission(nil, existing, logOn(today, "ikinci")))

	// With tasks, only the log completing the final title flips the goal.
	tasks := []student.CustomTask{task("Sabah Namazı"), task("Cevşen")}
	assert.False(t, EvaluateSubmission(tasks, nil, logOn(today, "Sabah Namazı")))

	first := []student.LogEntry{logOn(today, "Sabah Namazı")}
	assert.True(t, EvaluateSubmission(tasks, first, logOn(today, "Cevşen")))

	// Once complete, further logs never re-trigger the transition.
	both := []student.LogEntry{logOn(today, "Sabah Namazı"), logOn(today, "Cevşen")}
	assert.False(t, EvaluateSubmission(tasks, both, logOn(today, "Cevşen")))
}

func TestDecideDecay(t *testing.T) {
	today := timeutil.Date(2025, 3, 10)

	t.Run("no logs resets unconditionally", func(t *testing.T) {
		d := DecideDecay(nil, today, 5)
		assert.Equal(t, DecayReset, d.Action)
	})

	t.Run("same day keeps", func(t *testing.T) {
		l := logOn(today, "bugün")
		d := DecideDecay(&l, today, 0)
		assert.Equal(t, DecayKeep, d.Action)
		assert.Equal(t, 0, d.DaysMissed)
	})

	t.Run("one day gap keeps", func(t *testing.T) {
		l := logOn(today.AddDate(0, 0, -1), "dün")
		d := DecideDecay(&l, today, 0)
		assert.Equal(t, DecayKeep, d.Action)
		assert.Equal(t, 1, d.DaysMissed)
	})

	t.Run("two day gap consumes a freeze when held", func(t *testing.T) {
		l := logOn(today.AddDate(0, 0, -2), "önceki gün")
		d := DecideDecay(&l, today, 2)
		assert.Equal(t, DecayConsumeFreeze, d.Action)
		assert.Equal(t, 2, d.DaysMissed)
	})

	t.Run("two day gap without freeze resets", func(t *testing.T) {
		l := logOn(today.AddDate(0, 0, -2), "önceki gün")
		d := DecideDecay(&l, today, 0)
		assert.Equal(t, DecayReset, d.Action)
	})

	t.Run("gap counts whole truncated days", func(t *testing.T) {
		// 23:59 two nights ago against a midnight reference is still
		// a two-day gap after truncation.
		l := logOn(timeutil.DateTime(2025, 3, 8, 23, 59, 0), "geç")
		d := DecideDecay(&l, today, 0)
		assert.Equal(t, DecayReset, d.Action)
		assert.Equal(t, 2, d.DaysMissed)
	})
}
