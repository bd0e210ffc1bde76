// Package engine implements the Çetele rule engine: reward computation,
// rank resolution, daily-goal and streak evaluation, cosmetic reward
// filtering, and milestone badges. Everything here is pure; state changes
// are applied by the application layer.
package engine

import (
	"math"

	"github.com/ibrhsahin418-alt/cetele/internal/domain/shared"
	"github.com/ibrhsahin418-alt/cetele/internal/domain/student"
)

// XP earned per unit of each activity. ZIKIR is counted per repetition,
// NAMAZ per prayer time, the reading activities per page.
var xpRates = map[student.ActivityType]float64{
	student.ActivityQuran:       20,
	student.ActivityRisale:      15,
	student.ActivityPirlanta:    15,
	student.ActivityBookReading: 10,
	student.ActivityZikir:       0.1,
	student.ActivityNamaz:       50,
}

// WeekendMultiplier doubles rewards on Saturday and Sunday.
const WeekendMultiplier = 2

// Reward is the XP and coin yield of a single log entry.
// Coins always mirror XP 1:1.
type Reward struct {
	XP    int
	Coins int
}

// XPRate returns the per-unit XP rate for an activity type.
func XPRate(t student.ActivityType) (float64, bool) {
	rate, ok := xpRates[t]
	return rate, ok
}

// ComputeReward calculates the reward for logging value units of an activity.
// The base is floor(value * rate); the weekend multiplier applies after the
// floor, so ZIKIR 15 yields 1 XP on a weekday and 2 on a weekend.
func ComputeReward(t student.ActivityType, value int, multiplierDay bool) (Reward, error) {
	rate, ok := xpRates[t]
	if !ok {
		return Reward{}, shared.ErrInvalidActivityType
	}
	if value <= 0 {
		return Reward{}, shared.ErrInvalidActivityValue
	}

	base := int(math.Floor(float64(value) * rate))
	if multiplierDay {
		base *= WeekendMultiplier
	}
	return Reward{XP: base, Coins: base}, nil
}
