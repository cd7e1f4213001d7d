package shadow

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/arise-hub/hunter-hub/internal/domain/quest"
	"github.com/arise-hub/hunter-hub/internal/domain/shared"
)

func TestBonusValueFor(t *testing.T) {
	assert.Equal(t, 1, BonusValueFor(0))
	assert.Equal(t, 1, BonusValueFor(5))
	assert.Equal(t, 1, BonusValueFor(10))
	assert.Equal(t, 1, BonusValueFor(19))
	assert.Equal(t, 2, BonusValueFor(20))
	assert.Equal(t, 5, BonusValueFor(50))
}

func TestExtractFrom(t *testing.T) {
	q, err := quest.NewQuest(quest.NewQuestParams{
		ID: "quest-6", Title: "No Procrastination", Type: quest.TypeDaily,
		Difficulty: quest.DifficultyHard, Experience: 25,
		AttributeBonus: &shared.StatBonus{Stat: shared.StatDiscipline, Value: 2},
	})
	assert.NoError(t, err)

	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	s, err := ExtractFrom("shadow-1", q, now)
	assert.NoError(t, err)
	assert.Equal(t, "quest-6", s.QuestID)
	assert.Equal(t, "No Procrastination Shadow", s.Name)
	assert.Equal(t, "Extracted from No Procrastination", s.Description)
	assert.Equal(t, shared.StatDiscipline, s.Bonus.Stat)
	assert.Equal(t, 2, s.Bonus.Value)
	assert.Equal(t, 1, s.Level)
	assert.Equal(t, now, s.ExtractedAt)
}

func TestExtractFromDefaultsToStrength(t *testing.T) {
	q, err := quest.NewQuest(quest.NewQuestParams{
		ID: "quest-5", Title: "Drink Water", Type: quest.TypeDaily,
		Difficulty: quest.DifficultyEasy, Experience: 10,
	})
	assert.NoError(t, err)

	s, err := ExtractFrom("shadow-2", q, time.Now())
	assert.NoError(t, err)
	assert.Equal(t, shared.StatStrength, s.Bonus.Stat)
	assert.Equal(t, 1, s.Bonus.Value)
}

func TestExtractFromValidation(t *testing.T) {
	q, _ := quest.NewQuest(quest.NewQuestParams{
		ID: "quest-1", Title: "Morning Workout", Type: quest.TypeDaily,
		Difficulty: quest.DifficultyMedium, Experience: 20,
	})

	_, err := ExtractFrom("", q, time.Now())
	assert.ErrorIs(t, err, ErrInvalidID)

	_, err = ExtractFrom("shadow-1", nil, time.Now())
	assert.ErrorIs(t, err, ErrInvalidQuestID)
}

func TestExistsForQuest(t *testing.T) {
	shadows := []*Shadow{
		{ID: "shadow-1", QuestID: "quest-1"},
		{ID: "shadow-2", QuestID: "quest-2"},
	}

	assert.True(t, ExistsForQuest(shadows, "quest-1"))
	assert.False(t, ExistsForQuest(shadows, "quest-3"))
	assert.False(t, ExistsForQuest(nil, "quest-1"))
}
