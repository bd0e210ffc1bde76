package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRankFor(t *testing.T) {
	tests := []struct {
		xp   int
		want string
	}{
		{0, "Barla Yolcusu"},
		{499, "Barla Yolcusu"},
		{500, "Nur Şakirdi"},
		{2999, "Nur Şakirdi"},
		{3000, "Müdakkik Okuyucu"},
		{9999, "Müdakkik Okuyucu"},
		{10000, "Nur Naşiri"},
		{24999, "Nur Naşiri"},
		{25000, "Erkan-ı Nur"},
		{1000000, "Erkan-ı Nur"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, RankFor(tt.xp).Name, "xp=%d", tt.xp)
	}
}

func TestRankForNegativeClampsToBase(t *testing.T) {
	assert.Equal(t, "Barla Yolcusu", RankFor(-100).Name)
}

func TestNextTier(t *testing.T) {
	next, ok := NextTier(0)
	assert.True(t, ok)
	assert.Equal(t, "Nur Şakirdi", next.Name)

	next, ok = NextTier(10000)
	assert.True(t, ok)
	assert.Equal(t, "Erkan-ı Nur", next.Name)

	_, ok = NextTier(25000)
	assert.False(t, ok, "top tier has no successor")
}

func TestProgressToNextTier(t *testing.T) {
	assert.Equal(t, 0, ProgressToNextTier(0))
	assert.Equal(t, 50, ProgressToNextTier(250))
	assert.Equal(t, 100, ProgressToNextTier(25000))
}

func TestRankTableIsAscending(t *testing.T) {
	table := RankTable()
	for i := 1; i < len(table); i++ {
		assert.Greater(t, table[i].MinXP, table[i-1].MinXP)
	}
	assert.Equal(t, 0, table[0].MinXP, "base tier starts at zero")
}
