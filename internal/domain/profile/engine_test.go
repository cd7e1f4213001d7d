package profile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arise-hub/hunter-hub/internal/domain/quest"
	"github.com/arise-hub/hunter-hub/internal/domain/shared"
)

func findQuest(s *State, id string) (*quest.Quest, bool) {
	return quest.FindByID(s.Quests, id)
}

const testAccountID = "9f1c2d3e-4b5a-6c7d-8e9f-0a1b2c3d4e5f"

func newTestState(t *testing.T) *State {
	t.Helper()
	s, err := NewInitialState(testAccountID, "Sung Jin-Woo")
	require.NoError(t, err)
	return s
}

func TestCompleteQuestAwardsExperience(t *testing.T) {
	s := newTestState(t)
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	result, err := s.CompleteQuest("quest-1", now)

	require.NoError(t, err)
	assert.True(t, result.Applied)
	assert.True(t, result.Quest.Completed)
	assert.Equal(t, 20, int(s.Character.Experience))
	assert.Equal(t, 1, int(s.Character.Level))
}

func TestCompleteQuestUnknownIDIsError(t *testing.T) {
	s := newTestState(t)

	_, err := s.CompleteQuest("quest-999", time.Now().UTC())

	assert.ErrorIs(t, err, shared.ErrQuestNotFound)
}

func TestCompleteQuestTwiceIsIdempotent(t *testing.T) {
	s := newTestState(t)
	now := time.Now().UTC()

	first, err := s.CompleteQuest("quest-2", now)
	require.NoError(t, err)
	require.True(t, first.Applied)
	xpAfter := s.Character.Experience

	second, err := s.CompleteQuest("quest-2", now.Add(time.Minute))

	require.NoError(t, err)
	assert.False(t, second.Applied)
	assert.ErrorIs(t, second.Reason, shared.ErrQuestAlreadyCompleted)
	assert.Equal(t, xpAfter, s.Character.Experience, "repeat completion must not award XP")
}

func TestCompleteQuestTriggersLevelUp(t *testing.T) {
	s := newTestState(t)
	now := time.Now().UTC()
	s.Character.Experience = 90 // threshold at level 1 is 100

	result, err := s.CompleteQuest("quest-1", now)

	require.NoError(t, err)
	assert.True(t, result.Gain.LeveledUp)
	assert.Equal(t, 2, int(s.Character.Level))
	assert.Equal(t, 10, int(s.Character.Experience))
	assert.Equal(t, 3, s.Character.AttributePoints)
	assert.Equal(t, 2, s.Character.SkillPoints) // 1 starting + 1 from level-up
}

func TestUnlockSkillSpendsPoint(t *testing.T) {
	s := newTestState(t)

	result := s.UnlockSkill("iron-will", time.Now().UTC())

	assert.True(t, result.Applied)
	assert.Equal(t, 0, result.PointsRemaining)
	assert.Equal(t, 0, s.Character.SkillPoints)
}

func TestUnlockSkillSilentNoOps(t *testing.T) {
	now := time.Now().UTC()

	t.Run("no skill points", func(t *testing.T) {
		s := newTestState(t)
		s.Character.SkillPoints = 0

		result := s.UnlockSkill("iron-will", now)

		assert.False(t, result.Applied)
		assert.ErrorIs(t, result.Reason, shared.ErrNoSkillPoints)
	})

	t.Run("unknown skill", func(t *testing.T) {
		s := newTestState(t)

		result := s.UnlockSkill("no-such-skill", now)

		assert.False(t, result.Applied)
		assert.ErrorIs(t, result.Reason, shared.ErrSkillNotFound)
		assert.Equal(t, 1, s.Character.SkillPoints, "point must not be spent")
	})

	t.Run("already unlocked", func(t *testing.T) {
		s := newTestState(t)
		s.Character.SkillPoints = 2
		require.True(t, s.UnlockSkill("iron-will", now).Applied)

		result := s.UnlockSkill("iron-will", now)

		assert.False(t, result.Applied)
		assert.ErrorIs(t, result.Reason, shared.ErrSkillAlreadyUnlocked)
		assert.Equal(t, 1, s.Character.SkillPoints)
	})

	t.Run("locked prerequisite", func(t *testing.T) {
		s := newTestState(t)

		result := s.UnlockSkill("deep-focus", now)

		assert.False(t, result.Applied)
		assert.ErrorIs(t, result.Reason, shared.ErrPrerequisiteLocked)
		assert.Equal(t, 1, s.Character.SkillPoints)
	})
}

func TestUnlockSkillPrerequisiteChain(t *testing.T) {
	s := newTestState(t)
	s.Character.SkillPoints = 3
	now := time.Now().UTC()

	assert.True(t, s.UnlockSkill("iron-will", now).Applied)
	assert.True(t, s.UnlockSkill("deep-focus", now).Applied)
	assert.True(t, s.UnlockSkill("flow-state", now).Applied)
	assert.Equal(t, 0, s.Character.SkillPoints)
}

func TestExtractShadowFromCompletedQuest(t *testing.T) {
	s := newTestState(t)
	now := time.Now().UTC()
	_, err := s.CompleteQuest("quest-1", now) // Morning Workout, 20 XP, strength +1
	require.NoError(t, err)
	strengthBefore, _ := s.Character.Stats.Get(shared.StatStrength)

	result := s.ExtractShadow("shadow-1", "quest-1", now)

	require.True(t, result.Applied)
	assert.Equal(t, "Morning Workout Shadow", result.Shadow.Name)
	assert.Equal(t, "Extracted from Morning Workout", result.Shadow.Description)
	assert.Equal(t, shared.StatStrength, result.Shadow.Bonus.Stat)
	assert.Equal(t, 2, result.Shadow.Bonus.Value) // floor(20/10)
	assert.Equal(t, 1, result.Shadow.Level)

	strengthAfter, _ := s.Character.Stats.Get(shared.StatStrength)
	assert.Equal(t, strengthBefore+2, strengthAfter)
	assert.Len(t, s.Shadows, 1)
}

func TestExtractShadowMinimumBonus(t *testing.T) {
	s := newTestState(t)
	now := time.Now().UTC()
	_, err := s.CompleteQuest("quest-3", now) // Meditation Session, 10 XP
	require.NoError(t, err)

	result := s.ExtractShadow("shadow-1", "quest-3", now)

	require.True(t, result.Applied)
	assert.Equal(t, 1, result.Shadow.Bonus.Value)
}

func TestExtractShadowSilentNoOps(t *testing.T) {
	now := time.Now().UTC()

	t.Run("unknown quest", func(t *testing.T) {
		s := newTestState(t)

		result := s.ExtractShadow("shadow-1", "quest-999", now)

		assert.False(t, result.Applied)
		assert.ErrorIs(t, result.Reason, shared.ErrShadowSourceNotFound)
	})

	t.Run("quest not completed", func(t *testing.T) {
		s := newTestState(t)

		result := s.ExtractShadow("shadow-1", "quest-1", now)

		assert.False(t, result.Applied)
		assert.ErrorIs(t, result.Reason, shared.ErrQuestNotCompleted)
		assert.Empty(t, s.Shadows)
	})

	t.Run("duplicate extraction", func(t *testing.T) {
		s := newTestState(t)
		_, err := s.CompleteQuest("quest-1", now)
		require.NoError(t, err)
		require.True(t, s.ExtractShadow("shadow-1", "quest-1", now).Applied)

		result := s.ExtractShadow("shadow-2", "quest-1", now)

		assert.False(t, result.Applied)
		assert.ErrorIs(t, result.Reason, shared.ErrShadowExists)
		assert.Len(t, s.Shadows, 1)
	})
}

func TestCompleteDungeonUnlocksSuccessor(t *testing.T) {
	s := newTestState(t)
	now := time.Now().UTC()

	result := s.CompleteDungeon("dungeon-e", now)

	require.True(t, result.Applied)
	assert.True(t, result.Dungeon.Completed)
	require.NotNil(t, result.Unlocked)
	assert.Equal(t, "dungeon-d", result.Unlocked.ID)
	assert.False(t, result.Unlocked.Locked)
	// Level 1 character does not meet dungeon-d's requirements; the
	// successor unlocks anyway.
	assert.False(t, result.Unlocked.Requirements.MetBy(s.Character))
}

func TestCompleteDungeonSilentNoOps(t *testing.T) {
	now := time.Now().UTC()

	t.Run("unknown dungeon", func(t *testing.T) {
		s := newTestState(t)

		result := s.CompleteDungeon("dungeon-x", now)

		assert.False(t, result.Applied)
		assert.ErrorIs(t, result.Reason, shared.ErrDungeonNotFound)
	})

	t.Run("locked dungeon", func(t *testing.T) {
		s := newTestState(t)

		result := s.CompleteDungeon("dungeon-c", now)

		assert.False(t, result.Applied)
		assert.ErrorIs(t, result.Reason, shared.ErrDungeonLocked)
	})

	t.Run("already completed", func(t *testing.T) {
		s := newTestState(t)
		require.True(t, s.CompleteDungeon("dungeon-e", now).Applied)
		xpAfter := s.Character.Experience

		result := s.CompleteDungeon("dungeon-e", now)

		assert.False(t, result.Applied)
		assert.ErrorIs(t, result.Reason, shared.ErrDungeonCompleted)
		assert.Equal(t, xpAfter, s.Character.Experience)
	})
}

func TestSpendAttributePoint(t *testing.T) {
	s := newTestState(t)
	s.Character.AttributePoints = 2

	result := s.SpendAttributePoint(shared.StatVitality)

	assert.True(t, result.Applied)
	assert.Equal(t, 11, result.NewValue)
	assert.Equal(t, 1, result.PointsRemaining)

	noPoints := newTestState(t)
	noPoints.Character.AttributePoints = 0
	denied := noPoints.SpendAttributePoint(shared.StatVitality)
	assert.False(t, denied.Applied)
	assert.ErrorIs(t, denied.Reason, shared.ErrNoAttributePoints)
}

func TestResetDailyQuests(t *testing.T) {
	s := newTestState(t)
	now := time.Date(2025, 3, 10, 21, 0, 0, 0, time.UTC)

	_, err := s.CompleteQuest("quest-1", now)
	require.NoError(t, err)
	_, err = s.CompleteQuest("quest-7", now) // weekly, must survive reset
	require.NoError(t, err)

	count := s.ResetDailyQuests()

	assert.Equal(t, 1, count)
	q1, _ := findQuest(s, "quest-1")
	q7, _ := findQuest(s, "quest-7")
	assert.False(t, q1.Completed)
	assert.Nil(t, q1.CompletedAt)
	assert.True(t, q7.Completed, "weekly quests are exempt from daily reset")
}

func TestResetOutdatedDailies(t *testing.T) {
	s := newTestState(t)
	yesterday := time.Date(2025, 3, 10, 23, 0, 0, 0, time.UTC)
	today := time.Date(2025, 3, 11, 8, 0, 0, 0, time.UTC)

	_, err := s.CompleteQuest("quest-1", yesterday)
	require.NoError(t, err)
	_, err = s.CompleteQuest("quest-2", today)
	require.NoError(t, err)

	count := s.ResetOutdatedDailies(today)

	assert.Equal(t, 1, count, "only the quest completed on an earlier day resets")
	q1, _ := findQuest(s, "quest-1")
	q2, _ := findQuest(s, "quest-2")
	assert.False(t, q1.Completed)
	assert.True(t, q2.Completed)

	assert.Equal(t, 0, s.ResetOutdatedDailies(today), "second run same day is a no-op")
}

func TestHasUncompletedDailies(t *testing.T) {
	s := newTestState(t)
	now := time.Now().UTC()
	assert.True(t, s.HasUncompletedDailies())

	for _, id := range []string{"quest-1", "quest-2", "quest-3", "quest-4", "quest-5", "quest-6"} {
		_, err := s.CompleteQuest(id, now)
		require.NoError(t, err)
	}

	assert.False(t, s.HasUncompletedDailies(), "weekly and main quests do not count")
}
