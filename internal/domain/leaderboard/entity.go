// Package leaderboard contains the group leaderboard read model. The board
// is derived state: it is always rebuilt from student XP totals, never
// written to directly.
package leaderboard

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/ibrhsahin418-alt/cetele/internal/domain/shared"
)

// Entry is one row of a group leaderboard.
type Entry struct {
	// Rank is the 1-based position. Students with equal XP share a rank.
	Rank shared.Rank

	// StudentID identifies the student.
	StudentID shared.StudentID

	// Name is the display name.
	Name string

	// AvatarURL is the current avatar.
	AvatarURL string

	// XP is the total XP the row is ranked by.
	XP int

	// Streak is the current streak in days.
	Streak int

	// RankTitle is the spiritual rank name for the XP total.
	RankTitle string

	// VisualEffect is the active cosmetic effect, empty if none.
	VisualEffect string

	// UpdatedAt is when the row was computed.
	UpdatedAt time.Time
}

// Medal returns the medal emoji for podium positions.
func (e *Entry) Medal() string {
	return e.Rank.Medal()
}

// XPGap returns the absolute XP difference to another entry.
func (e *Entry) XPGap(other *Entry) int {
	if other == nil {
		return 0
	}
	diff := e.XP - other.XP
	if diff < 0 {
		return -diff
	}
	return diff
}

// Clone returns a copy of the entry.
func (e *Entry) Clone() *Entry {
	if e == nil {
		return nil
	}
	clone := *e
	return &clone
}

// String returns a log-friendly representation.
func (e *Entry) String() string {
	return fmt.Sprintf("Entry{Rank: %d, Name: %s, XP: %d}", e.Rank, e.Name, e.XP)
}

// ══════════════════════════════════════════════════════════════════════════════
// BOARD
// ══════════════════════════════════════════════════════════════════════════════

// Board is the sorted leaderboard of one group.
type Board struct {
	GroupID shared.GroupID

	entries []*Entry
	byID    map[shared.StudentID]*Entry
}

// NewBoard creates an empty board for a group.
func NewBoard(groupID shared.GroupID) *Board {
	return &Board{
		GroupID: groupID,
		entries: make([]*Entry, 0),
		byID:    make(map[shared.StudentID]*Entry),
	}
}

// Add appends an entry. Ranks are assigned by Sort, not here.
func (b *Board) Add(entry *Entry) error {
	if entry == nil {
		return ErrNilEntry
	}
	if _, exists := b.byID[entry.StudentID]; exists {
		return ErrDuplicateStudent
	}
	b.entries = append(b.entries, entry)
	b.byID[entry.StudentID] = entry
	return nil
}

// Sort orders entries by XP descending (name as tiebreaker for stability)
// and assigns ranks. Equal XP shares a rank.
func (b *Board) Sort() {
	sort.Slice(b.entries, func(i, j int) bool {
		if b.entries[i].XP != b.entries[j].XP {
			return b.entries[i].XP > b.entries[j].XP
		}
		return b.entries[i].Name < b.entries[j].Name
	})

	for i, entry := range b.entries {
		if i > 0 && entry.XP == b.entries[i-1].XP {
			entry.Rank = b.entries[i-1].Rank
		} else {
			entry.Rank = shared.Rank(i + 1)
		}
	}
}

// GetByID returns the entry for a student, nil if absent.
func (b *Board) GetByID(studentID shared.StudentID) *Entry {
	return b.byID[studentID]
}

// Top returns the first n entries.
func (b *Board) Top(n int) []*Entry {
	if n <= 0 {
		return nil
	}
	if n > len(b.entries) {
		n = len(b.entries)
	}
	result := make([]*Entry, n)
	copy(result, b.entries[:n])
	return result
}

// Slice returns entries [from:to).
func (b *Board) Slice(from, to int) []*Entry {
	if from < 0 {
		from = 0
	}
	if to > len(b.entries) {
		to = len(b.entries)
	}
	if from >= to {
		return nil
	}
	result := make([]*Entry, to-from)
	copy(result, b.entries[from:to])
	return result
}

// All returns every entry in rank order.
func (b *Board) All() []*Entry {
	result := make([]*Entry, len(b.entries))
	copy(result, b.entries)
	return result
}

// Count returns the number of entries.
func (b *Board) Count() int {
	return len(b.entries)
}

// AverageXP returns the mean XP of the board.
func (b *Board) AverageXP() int {
	if len(b.entries) == 0 {
		return 0
	}
	var total int
	for _, entry := range b.entries {
		total += entry.XP
	}
	return total / len(b.entries)
}

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN ERRORS
// ══════════════════════════════════════════════════════════════════════════════

var (
	// ErrNilEntry rejects nil entries.
	ErrNilEntry = errors.New("cannot add nil entry")

	// ErrDuplicateStudent rejects a second entry for the same student.
	ErrDuplicateStudent = errors.New("student already on the board")

	// ErrEmptyBoard signals a board with no entries.
	ErrEmptyBoard = errors.New("leaderboard is empty")
)
