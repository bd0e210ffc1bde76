package engine

import (
	"github.com/ibrhsahin418-alt/cetele/internal/domain/student"
)

// Badge names.
const (
	BadgeFirstLog    = "Erken Kalkan"
	BadgeStreak7     = "İstikrar Abidesi"
	BadgeStreak30    = "Hafız Namzeti"
	BadgeZikirMaster = "Zikir Üstadı"
	BadgeQuranReader = "Kuran Bülbülü"
	BadgeBookWorm    = "Kitap Kurdu"
)

// badgeRule pairs a badge with its qualification check.
type badgeRule struct {
	name  string
	check func(*student.Student) bool
}

var badgeRules = []badgeRule{
	{BadgeFirstLog, func(s *student.Student) bool {
		return len(s.Logs) >= 1
	}},
	{BadgeStreak7, func(s *student.Student) bool {
		return s.Streak >= 7
	}},
	{BadgeStreak30, func(s *student.Student) bool {
		return s.Streak >= 30
	}},
	{BadgeZikirMaster, func(s *student.Student) bool {
		return s.TotalValueFor(student.ActivityZikir) >= 1000
	}},
	{BadgeQuranReader, func(s *student.Student) bool {
		return s.TotalValueFor(student.ActivityQuran) >= 100
	}},
	{BadgeBookWorm, func(s *student.Student) bool {
		return s.TotalValueFor(student.ActivityBookReading) >= 200
	}},
}

// CheckBadges returns the badges the student now qualifies for but does not
// yet hold. It never returns a badge twice; awarding is the caller's job.
func CheckBadges(s *student.Student) []string {
	var earned []string
	for _, rule := range badgeRules {
		if s.HasBadge(rule.name) {
			continue
		}
		if rule.check(s) {
			earned = append(earned, rule.name)
		}
	}
	return earned
}
