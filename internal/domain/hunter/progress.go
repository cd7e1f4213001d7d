package hunter

import (
	"github.com/arise-hub/hunter-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// PROGRESS CALCULATIONS
// ══════════════════════════════════════════════════════════════════════════════

// ProgressToNextLevel возвращает процент прогресса до следующего уровня (0-100).
func (c *Character) ProgressToNextLevel() int {
	threshold := c.Level.Threshold()
	if threshold == 0 {
		return 100
	}
	return (c.Experience.Int() * 100) / threshold
}

// XPToNextLevel возвращает, сколько опыта осталось до следующего уровня.
func (c *Character) XPToNextLevel() int {
	remaining := c.Level.Threshold() - c.Experience.Int()
	if remaining < 0 {
		return 0
	}
	return remaining
}

// rankThresholds - минимальный уровень для каждого класса охотника.
var rankThresholds = []struct {
	level shared.Level
	rank  shared.HunterRank
}{
	{50, shared.RankS},
	{40, shared.RankA},
	{30, shared.RankB},
	{20, shared.RankC},
	{10, shared.RankD},
}

// RankForLevel возвращает класс охотника, соответствующий уровню.
func RankForLevel(level shared.Level) shared.HunterRank {
	for _, t := range rankThresholds {
		if level >= t.level {
			return t.rank
		}
	}
	return shared.RankE
}

// EligibleRank возвращает класс, на который персонаж может претендовать
// по текущему уровню. Повышение выполняет Promote, не этот метод.
func (c *Character) EligibleRank() shared.HunterRank {
	return RankForLevel(c.Level)
}
