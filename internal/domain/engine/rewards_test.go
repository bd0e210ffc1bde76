package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ibrhsahin418-alt/cetele/internal/domain/student"
)

func reward(id string, expiresIn time.Duration, active bool, now time.Time) student.TemporaryReward {
	return student.TemporaryReward{
		ID:        id,
		Name:      id,
		ExpiresAt: now.Add(expiresIn),
		IsActive:  active,
	}
}

func TestActiveRewardsFiltersOnExpiryOnly(t *testing.T) {
	now := time.Now()
	rewards := []student.TemporaryReward{
		reward(student.RewardRainbowName, time.Hour, false, now),
		reward(student.RewardNeonFrame, -time.Hour, true, now),
		reward(student.RewardGoldGlow, 24*time.Hour, true, now),
	}

	active := ActiveRewards(rewards, now)
	assert.Len(t, active, 2)
	ids := []string{active[0].ID, active[1].ID}
	assert.Contains(t, ids, student.RewardRainbowName, "toggled-off but unexpired stays listed")
	assert.Contains(t, ids, student.RewardGoldGlow)
	assert.NotContains(t, ids, student.RewardNeonFrame, "expired drops out even when toggled on")
}

func TestActiveRewardsExpiryIsStrict(t *testing.T) {
	now := time.Now()
	exactlyNow := []student.TemporaryReward{
		{ID: student.RewardGoldGlow, ExpiresAt: now, IsActive: true},
	}
	assert.Empty(t, ActiveRewards(exactlyNow, now))
}

func TestVisualEffectPriority(t *testing.T) {
	now := time.Now()

	all := []student.TemporaryReward{
		reward(student.RewardRainbowName, time.Hour, true, now),
		reward(student.RewardNeonFrame, time.Hour, true, now),
		reward(student.RewardGoldGlow, time.Hour, true, now),
	}
	effect, ok := VisualEffect(all, now)
	assert.True(t, ok)
	assert.Equal(t, student.RewardGoldGlow, effect)

	noGlow := all[:2]
	effect, ok = VisualEffect(noGlow, now)
	assert.True(t, ok)
	assert.Equal(t, student.RewardNeonFrame, effect)
}

func TestVisualEffectSkipsInactiveAndExpired(t *testing.T) {
	now := time.Now()

	rewards := []student.TemporaryReward{
		reward(student.RewardGoldGlow, time.Hour, false, now),   // toggled off
		reward(student.RewardNeonFrame, -time.Hour, true, now),  // expired
		reward(student.RewardRainbowName, time.Hour, true, now), // live
	}
	effect, ok := VisualEffect(rewards, now)
	assert.True(t, ok)
	assert.Equal(t, student.RewardRainbowName, effect)

	_, ok = VisualEffect(nil, now)
	assert.False(t, ok)
}

func TestNewPromotionReward(t *testing.T) {
	now := time.Now()
	r := NewPromotionReward(now)
	assert.Equal(t, student.RewardGoldGlow, r.ID)
	assert.True(t, r.IsActive)
	assert.Equal(t, now.Add(RankRewardDuration), r.ExpiresAt)
}
