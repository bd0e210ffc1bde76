// Package shared contains common domain types, errors, events, and value objects
// that are used across all domain packages.
package shared

import (
	"regexp"
	"strings"
	"time"
)

// ═══════════════════════════════════════════════════════════════════════════
// ID Value Objects
// ═══════════════════════════════════════════════════════════════════════════

// StudentID represents a unique student identifier (UUID format).
type StudentID string

// UUID validation regex (simple version).
var uuidRegex = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

// IsValid checks if the student ID is a valid UUID.
func (s StudentID) IsValid() bool {
	return uuidRegex.MatchString(string(s))
}

// String returns the string representation.
func (s StudentID) String() string {
	return string(s)
}

// IsEmpty checks if the ID is empty.
func (s StudentID) IsEmpty() bool {
	return s == ""
}

// NewStudentID creates a new StudentID with validation.
func NewStudentID(id string) (StudentID, error) {
	sid := StudentID(strings.ToLower(strings.TrimSpace(id)))
	if !sid.IsValid() {
		return "", NewDomainError("shared", "NewStudentID", ErrInvalidID, "invalid student ID format")
	}
	return sid, nil
}

// MentorID represents a unique mentor identifier (UUID format).
type MentorID string

// IsValid checks if the mentor ID is a valid UUID.
func (m MentorID) IsValid() bool {
	return uuidRegex.MatchString(string(m))
}

// String returns the string representation.
func (m MentorID) String() string {
	return string(m)
}

// NewMentorID creates a new MentorID with validation.
func NewMentorID(id string) (MentorID, error) {
	mid := MentorID(strings.ToLower(strings.TrimSpace(id)))
	if !mid.IsValid() {
		return "", NewDomainError("shared", "NewMentorID", ErrInvalidID, "invalid mentor ID format")
	}
	return mid, nil
}

// GroupID represents a unique group identifier (UUID format).
type GroupID string

// IsValid checks if the group ID is a valid UUID.
func (g GroupID) IsValid() bool {
	return uuidRegex.MatchString(string(g))
}

// String returns the string representation.
func (g GroupID) String() string {
	return string(g)
}

// NewGroupID creates a new GroupID with validation.
func NewGroupID(id string) (GroupID, error) {
	gid := GroupID(strings.ToLower(strings.TrimSpace(id)))
	if !gid.IsValid() {
		return "", NewDomainError("shared", "NewGroupID", ErrInvalidID, "invalid group ID format")
	}
	return gid, nil
}

// ═══════════════════════════════════════════════════════════════════════════
// Username Value Object
// ═══════════════════════════════════════════════════════════════════════════

// Username represents a login handle.
type Username string

var usernameRegex = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_.-]{2,29}$`)

// IsValid checks if the username format is valid.
func (u Username) IsValid() bool {
	return usernameRegex.MatchString(string(u))
}

// String returns the string representation.
func (u Username) String() string {
	return string(u)
}

// Normalize returns a normalized (lowercase) version of the username.
func (u Username) Normalize() Username {
	return Username(strings.ToLower(string(u)))
}

// NewUsername creates a new Username with validation.
func NewUsername(value string) (Username, error) {
	u := Username(strings.TrimSpace(value))
	if !u.IsValid() {
		return "", NewDomainError("shared", "NewUsername", ErrInvalidFormat, "invalid username format")
	}
	return u.Normalize(), nil
}

// ═══════════════════════════════════════════════════════════════════════════
// JoinCode Value Object
// ═══════════════════════════════════════════════════════════════════════════

// JoinCode is the code a student enters to join a mentor's group.
// Matching is case-sensitive exact equality.
type JoinCode string

var joinCodeRegex = regexp.MustCompile(`^[A-Za-z0-9-]{4,16}$`)

// IsValid checks if the join code format is valid.
func (j JoinCode) IsValid() bool {
	return joinCodeRegex.MatchString(string(j))
}

// String returns the string representation.
func (j JoinCode) String() string {
	return string(j)
}

// Matches reports whether the given input equals this code exactly.
func (j JoinCode) Matches(input string) bool {
	return string(j) == input
}

// NewJoinCode creates a new JoinCode with validation.
func NewJoinCode(value string) (JoinCode, error) {
	j := JoinCode(strings.TrimSpace(value))
	if !j.IsValid() {
		return "", NewDomainError("shared", "NewJoinCode", ErrInvalidFormat, "invalid join code format")
	}
	return j, nil
}

// ═══════════════════════════════════════════════════════════════════════════
// XP Value Object (Experience Points)
// ═══════════════════════════════════════════════════════════════════════════

// XP represents experience points earned by a student.
type XP int

const (
	// XP boundaries
	MinXP XP = 0
	MaxXP XP = 10000000 // 10 million XP cap
)

// IsValid checks if the XP value is within valid range.
func (x XP) IsValid() bool {
	return x >= MinXP && x <= MaxXP
}

// Int returns the underlying int value.
func (x XP) Int() int {
	return int(x)
}

// Add adds XP and returns the result, capped at MaxXP.
func (x XP) Add(amount int) XP {
	result := XP(int(x) + amount)
	if result > MaxXP {
		return MaxXP
	}
	if result < MinXP {
		return MinXP
	}
	return result
}

// NewXP creates a new XP value with validation.
func NewXP(amount int) (XP, error) {
	if amount < int(MinXP) {
		return 0, NewDomainError("shared", "NewXP", ErrNegativeValue, "XP cannot be negative")
	}
	if amount > int(MaxXP) {
		return MaxXP, nil // Cap at max
	}
	return XP(amount), nil
}

// ═══════════════════════════════════════════════════════════════════════════
// Coins Value Object (Atlas Altını)
// ═══════════════════════════════════════════════════════════════════════════

// Coins represents the spendable currency balance.
type Coins int

// IsValid checks that the balance is not negative.
func (c Coins) IsValid() bool {
	return c >= 0
}

// Int returns the underlying int value.
func (c Coins) Int() int {
	return int(c)
}

// Add adds coins and returns the new balance.
func (c Coins) Add(amount int) Coins {
	result := Coins(int(c) + amount)
	if result < 0 {
		return 0
	}
	return result
}

// CanAfford reports whether the balance covers the given cost.
func (c Coins) CanAfford(cost int) bool {
	return int(c) >= cost
}

// Spend deducts the cost from the balance.
func (c Coins) Spend(cost int) (Coins, error) {
	if cost < 0 {
		return c, NewDomainError("shared", "Spend", ErrNegativeValue, "cost cannot be negative")
	}
	if !c.CanAfford(cost) {
		return c, ErrNotEnoughCoins
	}
	return Coins(int(c) - cost), nil
}

// NewCoins creates a new Coins value with validation.
func NewCoins(amount int) (Coins, error) {
	if amount < 0 {
		return 0, NewDomainError("shared", "NewCoins", ErrNegativeValue, "coins cannot be negative")
	}
	return Coins(amount), nil
}

// ═══════════════════════════════════════════════════════════════════════════
// Rank Value Object (leaderboard position)
// ═══════════════════════════════════════════════════════════════════════════

// Rank represents a student's position in the group leaderboard.
type Rank int

const (
	MinRank  Rank = 1
	Unranked Rank = 0 // Not yet ranked
)

// IsValid checks if the rank is valid.
func (r Rank) IsValid() bool {
	return r >= MinRank
}

// Int returns the underlying int value.
func (r Rank) Int() int {
	return int(r)
}

// IsUnranked checks if the student is not yet ranked.
func (r Rank) IsUnranked() bool {
	return r == Unranked
}

// IsTop returns true if the rank is in the top N.
func (r Rank) IsTop(n int) bool {
	return r.IsValid() && int(r) <= n
}

// Medal returns a medal emoji for top ranks.
func (r Rank) Medal() string {
	switch r {
	case 1:
		return "🥇"
	case 2:
		return "🥈"
	case 3:
		return "🥉"
	default:
		return ""
	}
}

// NewRank creates a new Rank with validation.
func NewRank(position int) (Rank, error) {
	if position < 0 {
		return Unranked, NewDomainError("shared", "NewRank", ErrNegativeValue, "rank cannot be negative")
	}
	return Rank(position), nil
}

// ═══════════════════════════════════════════════════════════════════════════
// TimeRange Value Object
// ═══════════════════════════════════════════════════════════════════════════

// TimeRange represents a time period.
type TimeRange struct {
	From time.Time
	To   time.Time
}

// IsValid checks if the time range is valid.
func (t TimeRange) IsValid() bool {
	return !t.From.IsZero() && !t.To.IsZero() && !t.From.After(t.To)
}

// Duration returns the duration of the time range.
func (t TimeRange) Duration() time.Duration {
	return t.To.Sub(t.From)
}

// Contains checks if a time is within the range.
func (t TimeRange) Contains(tm time.Time) bool {
	return (tm.Equal(t.From) || tm.After(t.From)) && (tm.Equal(t.To) || tm.Before(t.To))
}

// NewTimeRange creates a new TimeRange with validation.
func NewTimeRange(from, to time.Time) (TimeRange, error) {
	tr := TimeRange{From: from, To: to}
	if !tr.IsValid() {
		return TimeRange{}, NewDomainError("shared", "NewTimeRange", ErrInvalidInput, "'from' must be before 'to'")
	}
	return tr, nil
}

// DayOf returns a TimeRange covering the calendar day of t in t's location.
func DayOf(t time.Time) TimeRange {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	end := start.Add(24 * time.Hour).Add(-time.Nanosecond)
	return TimeRange{From: start, To: end}
}

// LastNDays returns a TimeRange for the last N days.
func LastNDays(n int) TimeRange {
	now := time.Now()
	return TimeRange{
		From: now.AddDate(0, 0, -n),
		To:   now,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Pagination Value Object
// ═══════════════════════════════════════════════════════════════════════════

// Pagination represents pagination parameters.
type Pagination struct {
	Page     int
	PageSize int
}

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Offset returns the offset for database queries.
func (p Pagination) Offset() int {
	if p.Page <= 0 {
		return 0
	}
	return (p.Page - 1) * p.Limit()
}

// Limit returns the limit for database queries.
func (p Pagination) Limit() int {
	if p.PageSize <= 0 {
		return DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		return MaxPageSize
	}
	return p.PageSize
}

// NewPagination creates a new Pagination with defaults.
func NewPagination(page, pageSize int) Pagination {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return Pagination{Page: page, PageSize: pageSize}
}

// DefaultPagination returns default pagination.
func DefaultPagination() Pagination {
	return NewPagination(1, DefaultPageSize)
}
