package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ibrhsahin418-alt/cetele/internal/domain/shared"
	"github.com/ibrhsahin418-alt/cetele/internal/domain/student"
)

func TestComputeReward(t *testing.T) {
	tests := []struct {
		name     string
		activity student.ActivityType
		value    int
		weekend  bool
		wantXP   int
	}{
		{"quran five pages", student.ActivityQuran, 5, false, 100},
		{"quran five pages weekend", student.ActivityQuran, 5, true, 200},
		{"risale ten pages", student.ActivityRisale, 10, false, 150},
		{"pirlanta four pages", student.ActivityPirlanta, 4, false, 60},
		{"book reading seven pages", student.ActivityBookReading, 7, false, 70},
		{"zikir three hundred", student.ActivityZikir, 300, false, 30},
		{"namaz five times", student.ActivityNamaz, 5, false, 250},
		{"namaz five times weekend", student.ActivityNamaz, 5, true, 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputeReward(tt.activity, tt.value, tt.weekend)
			assert.NoError(t, err)
			assert.Equal(t, tt.wantXP, got.XP)
			assert.Equal(t, tt.wantXP, got.Coins, "coins mirror XP 1:1")
		})
	}
}

func TestComputeRewardFloorsBeforeMultiplier(t *testing.T) {
	// 15 zikir is 1.5 XP raw; the floor applies first, then the weekend
	// doubling, so the weekend yield is 2 rather than 3.
	weekday, err := ComputeReward(student.ActivityZikir, 15, false)
	assert.NoError(t, err)
	assert.Equal(t, 1, weekday.XP)

	weekend, err := ComputeReward(student.ActivityZikir, 15, true)
	assert.NoError(t, err)
	assert.Equal(t, 2, weekend.XP)
}

func TestComputeRewardRejectsUnknownType(t *testing.T) {
	_, err := ComputeReward(student.ActivityType("YOGA"), 5, false)
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}

func TestComputeRewardRejectsNonPositiveValue(t *testing.T) {
	_, err := ComputeReward(student.ActivityQuran, 0, false)
	assert.ErrorIs(t, err, shared.ErrValueOutOfRange)

	_, err = ComputeReward(student.ActivityQuran, -3, false)
	assert.ErrorIs(t, err, shared.ErrValueOutOfRange)
}
