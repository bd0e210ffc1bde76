package engine

// RankTier is one rung of the honorific ladder.
type RankTier struct {
	Name  string
	MinXP int
}

// rankTable lists the tiers in ascending MinXP order.
// The first tier starts at zero, so every student always has a rank.
var rankTable = []RankTier{
	{Name: "Barla Yolcusu", MinXP: 0},
	{Name: "Nur Şakirdi", MinXP: 500},
	{Name: "Müdakkik Okuyucu", MinXP: 3000},
	{Name: "Nur Naşiri", MinXP: 10000},
	{Name: "Erkan-ı Nur", MinXP: 25000},
}

// RankTable returns the tiers in ascending order.
func RankTable() []RankTier {
	out := make([]RankTier, len(rankTable))
	copy(out, rankTable)
	return out
}

// RankFor resolves the highest tier whose threshold is at or below totalXP.
// Negative input clamps to the base tier.
func RankFor(totalXP int) RankTier {
	current := rankTable[0]
	for _, tier := range rankTable {
		if totalXP >= tier.MinXP {
			current = tier
		}
	}
	return current
}

// NextTier returns the tier above the student's current one.
// ok is false when the student already holds the top tier.
func NextTier(totalXP int) (RankTier, bool) {
	for _, tier := range rankTable {
		if totalXP < tier.MinXP {
			return tier, true
		}
	}
	return RankTier{}, false
}

// ProgressToNextTier returns how far the student is through the current
// tier, as a percentage clamped to [0, 100].
func ProgressToNextTier(totalXP int) int {
	current := RankFor(totalXP)
	next, ok := NextTier(totalXP)
	if !ok {
		return 100
	}
	span := next.MinXP - current.MinXP
	if span <= 0 {
		return 100
	}
	done := totalXP - current.MinXP
	if done < 0 {
		done = 0
	}
	return done * 100 / span
}
