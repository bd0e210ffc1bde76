// Package timeutil provides timezone utilities for Istanbul timezone (UTC+3).
// All streak and daily-goal calculations in Çetele are anchored to the Istanbul
// calendar day, so every date comparison goes through this package.
// No external dependencies - uses only standard library.
package timeutil

import (
	"math"
	"time"
)

// IstanbulTZ is the Istanbul timezone (UTC+3, no DST).
// Turkey stayed on permanent UTC+3 in 2016, so this is constant year-round.
var IstanbulTZ = time.FixedZone("Europe/Istanbul", 3*60*60)

// Now returns the current time in Istanbul timezone.
func Now() time.Time {
	return time.Now().In(IstanbulTZ)
}

// ToIstanbul converts a time to Istanbul timezone.
func ToIstanbul(t time.Time) time.Time {
	return t.In(IstanbulTZ)
}

// Date creates a time in Istanbul timezone with the given date.
func Date(year, month, day int) time.Time {
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, IstanbulTZ)
}

// DateTime creates a time in Istanbul timezone with the given date and time.
func DateTime(year, month, day, hour, min, sec int) time.Time {
	return time.Date(year, time.Month(month), day, hour, min, sec, 0, IstanbulTZ)
}

// StartOfDay returns the start of the day (00:00:00) in Istanbul timezone.
func StartOfDay(t time.Time) time.Time {
	ist := ToIstanbul(t)
	return time.Date(ist.Year(), ist.Month(), ist.Day(), 0, 0, 0, 0, IstanbulTZ)
}

// EndOfDay returns the end of the day (23:59:59.999999999) in Istanbul timezone.
func EndOfDay(t time.Time) time.Time {
	ist := ToIstanbul(t)
	return time.Date(ist.Year(), ist.Month(), ist.Day(), 23, 59, 59, 999999999, IstanbulTZ)
}

// NextMidnight returns the start of the day after t in Istanbul timezone.
// The streak sweep is scheduled against this boundary.
func NextMidnight(t time.Time) time.Time {
	return StartOfDay(t).AddDate(0, 0, 1)
}

// IsToday checks if the given time is today in Istanbul timezone.
func IsToday(t time.Time) bool {
	return IsSameDay(t, Now())
}

// IsSameDay checks if two times are on the same day in Istanbul timezone.
func IsSameDay(t1, t2 time.Time) bool {
	a1, a2 := ToIstanbul(t1), ToIstanbul(t2)
	return a1.Year() == a2.Year() && a1.YearDay() == a2.YearDay()
}

// IsConsecutiveDay checks if t2 is the day after t1.
func IsConsecutiveDay(t1, t2 time.Time) bool {
	a1, a2 := ToIstanbul(t1), ToIstanbul(t2)
	nextDay := a1.AddDate(0, 0, 1)
	return IsSameDay(nextDay, a2)
}

// DaysBetween calculates the absolute number of days between two times,
// measured on day-truncated dates and rounded up. Truncation makes the
// duration a whole number of days for normal input, so the ceiling only
// matters for times carrying sub-day offsets from odd zone conversions.
func DaysBetween(t1, t2 time.Time) int {
	a1 := StartOfDay(t1)
	a2 := StartOfDay(t2)
	duration := a2.Sub(a1)
	days := int(math.Ceil(duration.Hours() / 24))
	if days < 0 {
		days = -days
	}
	return days
}

// IsWeekend checks if the given time is on a weekend in Istanbul timezone.
// Weekends are the double-XP days.
func IsWeekend(t time.Time) bool {
	ist := ToIstanbul(t)
	weekday := ist.Weekday()
	return weekday == time.Saturday || weekday == time.Sunday
}

// Common date/time formats.
const (
	// FormatDate is the standard date format (YYYY-MM-DD).
	FormatDate = "2006-01-02"
	// FormatTime is the standard time format (HH:MM).
	FormatTime = "15:04"
	// FormatDateTime is the standard datetime format.
	FormatDateTime = "2006-01-02 15:04"
	// FormatTurkishDate is the Turkish date format (DD.MM.YYYY).
	FormatTurkishDate = "02.01.2006"
)

// FormatIstanbul formats a time in Istanbul timezone with the given layout.
func FormatIstanbul(t time.Time, layout string) string {
	return ToIstanbul(t).Format(layout)
}

// FormatDateStr formats a time as a date string (YYYY-MM-DD) in Istanbul timezone.
func FormatDateStr(t time.Time) string {
	return FormatIstanbul(t, FormatDate)
}

// FormatTurkish formats a time in Turkish format (DD.MM.YYYY).
func FormatTurkish(t time.Time) string {
	return FormatIstanbul(t, FormatTurkishDate)
}

// ParseIstanbul parses a time string in Istanbul timezone.
func ParseIstanbul(layout, value string) (time.Time, error) {
	return time.ParseInLocation(layout, value, IstanbulTZ)
}

// ParseDateIstanbul parses a date string (YYYY-MM-DD) in Istanbul timezone.
func ParseDateIstanbul(value string) (time.Time, error) {
	return ParseIstanbul(FormatDate, value)
}

// WeekdayNameTr returns the Turkish name for a weekday.
func WeekdayNameTr(t time.Time) string {
	ist := ToIstanbul(t)
	switch ist.Weekday() {
	case time.Monday:
		return "Pazartesi"
	case time.Tuesday:
		return "Salı"
	case time.Wednesday:
		return "Çarşamba"
	case time.Thursday:
		return "Perşembe"
	case time.Friday:
		return "Cuma"
	case time.Saturday:
		return "Cumartesi"
	case time.Sunday:
		return "Pazar"
	default:
		return ""
	}
}
