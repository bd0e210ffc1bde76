package engine

import (
	"time"

	"github.com/ibrhsahin418-alt/cetele/internal/domain/student"
)

// rewardPriority orders cosmetic effects for display when several are live.
// Higher wins.
var rewardPriority = map[string]int{
	student.RewardRainbowName: 1,
	student.RewardNeonFrame:   2,
	student.RewardGoldGlow:    3,
}

// ActiveRewards filters to rewards whose expiry lies strictly in the future.
// The IsActive toggle is intentionally ignored here: a toggled-off reward is
// still owned and still listed until it expires.
func ActiveRewards(rewards []student.TemporaryReward, now time.Time) []student.TemporaryReward {
	var out []student.TemporaryReward
	for _, r := range rewards {
		if r.ExpiresAt.After(now) {
			out = append(out, r)
		}
	}
	return out
}

// VisualEffect resolves which single cosmetic effect to render: the
// highest-priority reward that is both unexpired and toggled on.
// ok is false when nothing should be rendered.
func VisualEffect(rewards []student.TemporaryReward, now time.Time) (string, bool) {
	best := ""
	bestPrio := 0
	for _, r := range rewards {
		if !r.IsActive || !r.ExpiresAt.After(now) {
			continue
		}
		if p := rewardPriority[r.ID]; p > bestPrio {
			best = r.ID
			bestPrio = p
		}
	}
	return best, best != ""
}

// RankRewardDuration is how long a promotion glow lasts.
const RankRewardDuration = 7 * 24 * time.Hour

// NewPromotionReward builds the gold glow granted when a student reaches a
// new rank tier. It arrives toggled on.
func NewPromotionReward(now time.Time) student.TemporaryReward {
	return student.TemporaryReward{
		ID:        student.RewardGoldGlow,
		Name:      "Altın Işıltı",
		ExpiresAt: now.Add(RankRewardDuration),
		IsActive:  true,
	}
}
