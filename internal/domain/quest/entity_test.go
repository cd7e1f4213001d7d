package quest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/arise-hub/hunter-hub/internal/domain/shared"
)

func newTestQuest(t *testing.T) *Quest {
	t.Helper()
	q, err := NewQuest(NewQuestParams{
		ID:         "quest-1",
		Title:      "Morning Workout",
		Type:       TypeDaily,
		Difficulty: DifficultyMedium,
		Experience: 20,
		AttributeBonus: &shared.StatBonus{
			Stat:  shared.StatStrength,
			Value: 1,
		},
	})
	assert.NoError(t, err)
	return q
}

func TestNewQuestValidation(t *testing.T) {
	_, err := NewQuest(NewQuestParams{Title: "x", Type: TypeDaily, Difficulty: DifficultyEasy, Experience: 10})
	assert.ErrorIs(t, err, ErrInvalidID)

	_, err = NewQuest(NewQuestParams{ID: "q", Type: TypeDaily, Difficulty: DifficultyEasy, Experience: 10})
	assert.ErrorIs(t, err, ErrInvalidTitle)

	_, err = NewQuest(NewQuestParams{ID: "q", Title: "x", Type: "monthly", Difficulty: DifficultyEasy, Experience: 10})
	assert.ErrorIs(t, err, ErrInvalidType)

	_, err = NewQuest(NewQuestParams{ID: "q", Title: "x", Type: TypeDaily, Difficulty: "brutal", Experience: 10})
	assert.ErrorIs(t, err, ErrInvalidDifficulty)

	_, err = NewQuest(NewQuestParams{ID: "q", Title: "x", Type: TypeDaily, Difficulty: DifficultyEasy, Experience: 0})
	assert.ErrorIs(t, err, ErrInvalidExperience)

	_, err = NewQuest(NewQuestParams{
		ID: "q", Title: "x", Type: TypeDaily, Difficulty: DifficultyEasy, Experience: 10,
		AttributeBonus: &shared.StatBonus{Stat: "luck", Value: 1},
	})
	assert.ErrorIs(t, err, ErrInvalidBonus)
}

func TestCompleteIsIdempotent(t *testing.T) {
	q := newTestQuest(t)
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	assert.NoError(t, q.Complete(now))
	assert.True(t, q.Completed)
	assert.Equal(t, now, *q.CompletedAt)

	err := q.Complete(now.Add(time.Hour))
	assert.ErrorIs(t, err, shared.ErrInvariant)
	assert.Equal(t, now, *q.CompletedAt)
}

func TestNeedsDailyReset(t *testing.T) {
	q := newTestQuest(t)
	completed := time.Date(2026, 3, 14, 23, 59, 0, 0, time.UTC)
	assert.NoError(t, q.Complete(completed))

	assert.False(t, q.NeedsDailyReset(time.Date(2026, 3, 14, 23, 59, 30, 0, time.UTC)))
	assert.True(t, q.NeedsDailyReset(time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)))

	weekly, err := NewQuest(NewQuestParams{
		ID: "quest-7", Title: "Learn a New Skill", Type: TypeWeekly,
		Difficulty: DifficultyMedium, Experience: 30,
	})
	assert.NoError(t, err)
	assert.NoError(t, weekly.Complete(completed))
	assert.False(t, weekly.NeedsDailyReset(completed.AddDate(0, 0, 3)))
}

func TestResetDaily(t *testing.T) {
	q := newTestQuest(t)
	assert.False(t, q.ResetDaily())

	assert.NoError(t, q.Complete(time.Now()))
	assert.True(t, q.ResetDaily())
	assert.False(t, q.Completed)
	assert.Nil(t, q.CompletedAt)

	// Second run is a no-op.
	assert.False(t, q.ResetDaily())
}

func TestBonusStatDefaultsToStrength(t *testing.T) {
	q := newTestQuest(t)
	assert.Equal(t, shared.StatStrength, q.BonusStat())

	q2, err := NewQuest(NewQuestParams{
		ID: "quest-2", Title: "Read a Book", Type: TypeDaily,
		Difficulty: DifficultyEasy, Experience: 15,
		AttributeBonus: &shared.StatBonus{Stat: shared.StatIntelligence, Value: 1},
	})
	assert.NoError(t, err)
	assert.Equal(t, shared.StatIntelligence, q2.BonusStat())

	q3, err := NewQuest(NewQuestParams{
		ID: "quest-5", Title: "Drink Water", Type: TypeDaily,
		Difficulty: DifficultyEasy, Experience: 10,
	})
	assert.NoError(t, err)
	assert.Equal(t, shared.StatStrength, q3.BonusStat())
}

func TestCollectionHelpers(t *testing.T) {
	q1 := newTestQuest(t)
	q2, _ := NewQuest(NewQuestParams{
		ID: "quest-7", Title: "Learn a New Skill", Type: TypeWeekly,
		Difficulty: DifficultyMedium, Experience: 30,
	})
	quests := []*Quest{q1, q2}

	found, ok := FindByID(quests, "quest-7")
	assert.True(t, ok)
	assert.Equal(t, q2, found)

	_, ok = FindByID(quests, "quest-404")
	assert.False(t, ok)

	assert.Equal(t, 0, CountCompleted(quests))
	assert.NoError(t, q1.Complete(time.Now()))
	assert.Equal(t, 1, CountCompleted(quests))

	assert.Len(t, Dailies(quests), 1)
}
