package hunter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/arise-hub/hunter-hub/internal/domain/shared"
)

func TestNewStartingCharacter(t *testing.T) {
	c, err := NewStartingCharacter("11111111-1111-1111-1111-111111111111", "Jinwoo")
	assert.NoError(t, err)
	assert.Equal(t, shared.Level(1), c.Level)
	assert.Equal(t, shared.XP(0), c.Experience)
	assert.Equal(t, DefaultStats(), c.Stats)
	assert.Equal(t, DefaultTitle, c.Title)
	assert.Equal(t, shared.RankE, c.Rank)
	assert.Equal(t, 0, c.AttributePoints)
	assert.Equal(t, 1, c.SkillPoints)
}

func TestNewCharacterValidation(t *testing.T) {
	_, err := NewCharacter(NewCharacterParams{Name: "x", Level: 1})
	assert.Error(t, err)

	_, err = NewCharacter(NewCharacterParams{ID: "id", Name: "", Level: 1})
	assert.ErrorIs(t, err, ErrInvalidName)

	_, err = NewCharacter(NewCharacterParams{ID: "id", Name: "x", Level: 0})
	assert.ErrorIs(t, err, ErrInvalidLevel)

	_, err = NewCharacter(NewCharacterParams{ID: "id", Name: "x", Level: 1, SkillPoints: -1})
	assert.ErrorIs(t, err, ErrNegativePoints)
}

func TestAddExperienceBelowThreshold(t *testing.T) {
	c, _ := NewStartingCharacter("11111111-1111-1111-1111-111111111111", "Jinwoo")

	result := c.AddExperience(50)

	assert.False(t, result.LeveledUp)
	assert.Equal(t, shared.Level(1), c.Level)
	assert.Equal(t, shared.XP(50), c.Experience)
	assert.Equal(t, 0, c.AttributePoints)
	assert.Equal(t, 1, c.SkillPoints)
}

func TestAddExperienceLevelUp(t *testing.T) {
	c, _ := NewStartingCharacter("11111111-1111-1111-1111-111111111111", "Jinwoo")
	c.Level = 3
	c.Experience = 80

	// 80 + 50 = 130 < 300: no level.
	result := c.AddExperience(50)
	assert.False(t, result.LeveledUp)
	assert.Equal(t, shared.Level(3), c.Level)
	assert.Equal(t, shared.XP(130), c.Experience)

	// 130 + 200 = 330 >= 300: level up, 30 XP carried over.
	result = c.AddExperience(200)
	assert.True(t, result.LeveledUp)
	assert.Equal(t, shared.Level(3), result.OldLevel)
	assert.Equal(t, shared.Level(4), result.NewLevel)
	assert.Equal(t, shared.XP(30), c.Experience)
	assert.Equal(t, 3, c.AttributePoints)
	assert.Equal(t, 2, c.SkillPoints)
}

func TestAddExperienceSingleLevelPerCall(t *testing.T) {
	c, _ := NewStartingCharacter("11111111-1111-1111-1111-111111111111", "Jinwoo")

	// 350 XP crosses the level-1 threshold (100) and would cross level-2's
	// (200) too, but only one level is granted per call. The remainder can
	// exceed the new threshold until the next grant.
	result := c.AddExperience(350)

	assert.True(t, result.LeveledUp)
	assert.Equal(t, shared.Level(2), c.Level)
	assert.Equal(t, shared.XP(250), c.Experience)
}

func TestAddExperienceInvariantHolds(t *testing.T) {
	c, _ := NewStartingCharacter("11111111-1111-1111-1111-111111111111", "Jinwoo")

	for _, amount := range []int{10, 99, 100, 101, 250} {
		before := c.Level
		c.AddExperience(amount)
		if c.Level == before {
			assert.Less(t, c.Experience.Int(), c.Level.Threshold())
		}
	}
}

func TestAddExperienceIgnoresNonPositive(t *testing.T) {
	c, _ := NewStartingCharacter("11111111-1111-1111-1111-111111111111", "Jinwoo")
	c.Experience = 40

	result := c.AddExperience(0)
	assert.False(t, result.LeveledUp)
	assert.Equal(t, shared.XP(40), c.Experience)

	result = c.AddExperience(-10)
	assert.False(t, result.LeveledUp)
	assert.Equal(t, shared.XP(40), c.Experience)
}

func TestSpendSkillPoint(t *testing.T) {
	c, _ := NewStartingCharacter("11111111-1111-1111-1111-111111111111", "Jinwoo")

	assert.True(t, c.SpendSkillPoint())
	assert.Equal(t, 0, c.SkillPoints)
	assert.False(t, c.SpendSkillPoint())
	assert.Equal(t, 0, c.SkillPoints)
}

func TestSpendAttributePoint(t *testing.T) {
	c, _ := NewStartingCharacter("11111111-1111-1111-1111-111111111111", "Jinwoo")

	err := c.SpendAttributePoint(shared.StatStrength)
	assert.ErrorIs(t, err, shared.ErrInvariant)

	c.AttributePoints = 2
	assert.NoError(t, c.SpendAttributePoint(shared.StatStrength))
	assert.Equal(t, 11, c.Stats.Strength)
	assert.Equal(t, 1, c.AttributePoints)

	err = c.SpendAttributePoint(shared.StatType("luck"))
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
	assert.Equal(t, 1, c.AttributePoints)
}

func TestApplyBonus(t *testing.T) {
	c, _ := NewStartingCharacter("11111111-1111-1111-1111-111111111111", "Jinwoo")

	ok := c.ApplyBonus(shared.StatBonus{Stat: shared.StatVitality, Value: 3})
	assert.True(t, ok)
	assert.Equal(t, 13, c.Stats.Vitality)

	ok = c.ApplyBonus(shared.StatBonus{Stat: shared.StatType("luck"), Value: 3})
	assert.False(t, ok)
}

func TestRankForLevel(t *testing.T) {
	assert.Equal(t, shared.RankE, RankForLevel(1))
	assert.Equal(t, shared.RankE, RankForLevel(9))
	assert.Equal(t, shared.RankD, RankForLevel(10))
	assert.Equal(t, shared.RankC, RankForLevel(25))
	assert.Equal(t, shared.RankB, RankForLevel(30))
	assert.Equal(t, shared.RankA, RankForLevel(45))
	assert.Equal(t, shared.RankS, RankForLevel(50))
	assert.Equal(t, shared.RankS, RankForLevel(99))
}

func TestProgressToNextLevel(t *testing.T) {
	c, _ := NewStartingCharacter("11111111-1111-1111-1111-111111111111", "Jinwoo")
	c.Level = 2
	c.Experience = 50

	assert.Equal(t, 25, c.ProgressToNextLevel())
	assert.Equal(t, 150, c.XPToNextLevel())
}
