package profile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arise-hub/hunter-hub/internal/domain/hunter"
	"github.com/arise-hub/hunter-hub/internal/domain/shared"
	"github.com/arise-hub/hunter-hub/internal/domain/skill"
)

func TestNewInitialStateSeedsAllCollections(t *testing.T) {
	s, err := NewInitialState(testAccountID, "Hunter")

	require.NoError(t, err)
	assert.Equal(t, testAccountID, s.AccountID)
	assert.Equal(t, 1, int(s.Character.Level))
	assert.Equal(t, 1, s.Character.SkillPoints)
	assert.Len(t, s.Quests, 9)
	assert.Len(t, s.Skills, 6)
	assert.Len(t, s.Dungeons, 6)
	assert.Len(t, s.Achievements, 14)
	assert.Empty(t, s.Shadows)

	// Only the entry dungeon starts unlocked.
	unlocked := 0
	for _, d := range s.Dungeons {
		if !d.Locked {
			unlocked++
		}
	}
	assert.Equal(t, 1, unlocked)
}

func TestNewStateValidation(t *testing.T) {
	character, err := hunter.NewStartingCharacter(testAccountID, "Hunter")
	require.NoError(t, err)

	t.Run("empty account id", func(t *testing.T) {
		_, err := NewState("", character, nil, nil, nil, nil, nil)
		assert.ErrorIs(t, err, ErrInvalidAccountID)
	})

	t.Run("nil character", func(t *testing.T) {
		_, err := NewState(testAccountID, nil, nil, nil, nil, nil, nil)
		assert.ErrorIs(t, err, ErrMissingCharacter)
	})

	t.Run("cyclic skill tree rejected", func(t *testing.T) {
		a, err := skill.NewSkill(skill.NewSkillParams{
			ID: "a", Name: "A", Prerequisite: "b",
			Bonus: shared.StatBonus{Stat: shared.StatStrength, Value: 1},
		})
		require.NoError(t, err)
		b, err := skill.NewSkill(skill.NewSkillParams{
			ID: "b", Name: "B", Prerequisite: "a",
			Bonus: shared.StatBonus{Stat: shared.StatStrength, Value: 1},
		})
		require.NoError(t, err)

		_, err = NewState(testAccountID, character, nil, []*skill.Skill{a, b}, nil, nil, nil)
		assert.ErrorIs(t, err, skill.ErrTreeCycle)
	})
}

func TestCloneIsDeep(t *testing.T) {
	s := newTestState(t)
	now := time.Now().UTC()

	clone := s.Clone()
	_, err := clone.CompleteQuest("quest-1", now)
	require.NoError(t, err)
	clone.Character.AttributePoints = 99

	original, _ := findQuest(s, "quest-1")
	assert.False(t, original.Completed, "mutating the clone must not touch the original")
	assert.Equal(t, 0, s.Character.AttributePoints)
}

func TestProgressPercent(t *testing.T) {
	s := newTestState(t)
	now := time.Now().UTC()

	empty := s.Progress()
	assert.Equal(t, 0, empty.Percent)
	assert.Equal(t, 9, empty.QuestsTotal)

	_, err := s.CompleteQuest("quest-1", now)
	require.NoError(t, err)
	require.True(t, s.UnlockSkill("iron-will", now).Applied)

	p := s.Progress()
	assert.Equal(t, 1, p.QuestsCompleted)
	assert.Equal(t, 1, p.SkillsUnlocked)
	// 2 done out of 9+6+6+14 tracked items.
	assert.Equal(t, 2*100/35, p.Percent)
}
