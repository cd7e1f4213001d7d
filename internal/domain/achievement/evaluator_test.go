package achievement

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/arise-hub/hunter-hub/internal/domain/dungeon"
	"github.com/arise-hub/hunter-hub/internal/domain/hunter"
	"github.com/arise-hub/hunter-hub/internal/domain/quest"
	"github.com/arise-hub/hunter-hub/internal/domain/shadow"
	"github.com/arise-hub/hunter-hub/internal/domain/shared"
	"github.com/arise-hub/hunter-hub/internal/domain/skill"
)

func mustAchievement(t *testing.T, id string, rt RequirementType, value int) *Achievement {
	t.Helper()
	a, err := NewAchievement(NewAchievementParams{
		ID:          id,
		Title:       "Achievement " + id,
		Category:    CategoryQuests,
		Rarity:      RarityCommon,
		Requirement: Requirement{Type: rt, Value: value},
	})
	assert.NoError(t, err)
	return a
}

func testSnapshot(t *testing.T) Snapshot {
	t.Helper()
	c, err := hunter.NewStartingCharacter("11111111-1111-1111-1111-111111111111", "Jinwoo")
	assert.NoError(t, err)

	q1, _ := quest.NewQuest(quest.NewQuestParams{
		ID: "quest-1", Title: "Morning Workout", Type: quest.TypeDaily,
		Difficulty: quest.DifficultyMedium, Experience: 20,
	})
	q2, _ := quest.NewQuest(quest.NewQuestParams{
		ID: "quest-2", Title: "Read a Book", Type: quest.TypeDaily,
		Difficulty: quest.DifficultyEasy, Experience: 15,
	})

	s1, _ := skill.NewSkill(skill.NewSkillParams{
		ID: "focus", Name: "Focus",
		Bonus: shared.StatBonus{Stat: shared.StatDiscipline, Value: 1},
	})

	d1, _ := dungeon.NewDungeon(dungeon.NewDungeonParams{
		ID: "d1", Name: "Training Grounds", Difficulty: shared.RankE, Experience: 100,
	})

	return Snapshot{
		Character: c,
		Quests:    []*quest.Quest{q1, q2},
		Skills:    []*skill.Skill{s1},
		Dungeons:  []*dungeon.Dungeon{d1},
	}
}

func TestCurrentFor(t *testing.T) {
	s := testSnapshot(t)

	assert.Equal(t, 0, s.CurrentFor(RequirementQuestsCompleted))
	assert.Equal(t, 1, s.CurrentFor(RequirementLevel))
	assert.Equal(t, 0, s.CurrentFor(RequirementSkillsUnlocked))
	assert.Equal(t, 0, s.CurrentFor(RequirementShadowsExtracted))
	assert.Equal(t, 0, s.CurrentFor(RequirementDungeonsCompleted))
	assert.Equal(t, 0, s.CurrentFor(RequirementAllSkillsUnlocked))
	assert.Equal(t, 0, s.CurrentFor(RequirementAllDungeonsCleared))

	assert.NoError(t, s.Quests[0].Complete(time.Now()))
	assert.NoError(t, s.Skills[0].Unlock(time.Now()))
	assert.NoError(t, s.Dungeons[0].Complete(time.Now()))
	s.Shadows = append(s.Shadows, &shadow.Shadow{ID: "shadow-1", QuestID: "quest-1"})

	assert.Equal(t, 1, s.CurrentFor(RequirementQuestsCompleted))
	assert.Equal(t, 1, s.CurrentFor(RequirementSkillsUnlocked))
	assert.Equal(t, 1, s.CurrentFor(RequirementShadowsExtracted))
	assert.Equal(t, 1, s.CurrentFor(RequirementDungeonsCompleted))
	assert.Equal(t, 1, s.CurrentFor(RequirementAllSkillsUnlocked))
	assert.Equal(t, 1, s.CurrentFor(RequirementAllDungeonsCleared))
}

func TestCurrentForEmptyListsAreNeverAll(t *testing.T) {
	s := Snapshot{}
	assert.Equal(t, 0, s.CurrentFor(RequirementAllSkillsUnlocked))
	assert.Equal(t, 0, s.CurrentFor(RequirementAllDungeonsCleared))
}

func TestHistoryRequirementsStubbedAtZero(t *testing.T) {
	s := testSnapshot(t)
	assert.Equal(t, 0, s.CurrentFor(RequirementDailyStreak))
	assert.Equal(t, 0, s.CurrentFor(RequirementEarlyQuest))
}

func TestRequirementProgress(t *testing.T) {
	r := Requirement{Type: RequirementQuestsCompleted, Value: 50}

	assert.Equal(t, 0, r.Progress(0))
	assert.Equal(t, 2, r.Progress(1))
	assert.Equal(t, 100, r.Progress(50))
	assert.Equal(t, 100, r.Progress(9000))
	assert.False(t, r.Met(49))
	assert.True(t, r.Met(50))
}

func TestEvaluateIsPure(t *testing.T) {
	s := testSnapshot(t)
	assert.NoError(t, s.Quests[0].Complete(time.Now()))

	first := mustAchievement(t, "first-quest", RequirementQuestsCompleted, 1)
	master := mustAchievement(t, "quest-master", RequirementQuestsCompleted, 50)

	statuses := Evaluate(s, []*Achievement{first, master})
	assert.Len(t, statuses, 2)

	assert.True(t, statuses[0].ReadyToUnlock)
	assert.Equal(t, 100, statuses[0].Progress)
	assert.False(t, statuses[1].ReadyToUnlock)
	assert.Equal(t, 2, statuses[1].Progress)

	// The evaluator must not mutate the achievements.
	assert.False(t, first.Unlocked)

	pending := PendingUnlocks(statuses)
	assert.Len(t, pending, 1)
	assert.Equal(t, "first-quest", pending[0].ID)
}

func TestUnlockedAchievementNotPending(t *testing.T) {
	s := testSnapshot(t)
	assert.NoError(t, s.Quests[0].Complete(time.Now()))

	first := mustAchievement(t, "first-quest", RequirementQuestsCompleted, 1)
	assert.NoError(t, first.Unlock(time.Now()))

	statuses := Evaluate(s, []*Achievement{first})
	assert.False(t, statuses[0].ReadyToUnlock)
	assert.Empty(t, PendingUnlocks(statuses))
}

func TestUnlockIsOneWay(t *testing.T) {
	a := mustAchievement(t, "first-quest", RequirementQuestsCompleted, 1)
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	assert.NoError(t, a.Unlock(now))
	assert.ErrorIs(t, a.Unlock(now.Add(time.Hour)), shared.ErrAlreadyProcessed)
	assert.Equal(t, now, *a.UnlockedAt)
	assert.True(t, a.Unlocked)
}

func TestSnapshotHashChangesWithRelevantState(t *testing.T) {
	s := testSnapshot(t)
	list := []*Achievement{mustAchievement(t, "first-quest", RequirementQuestsCompleted, 1)}
	before := s.Hash(list)

	// Same state hashes equally.
	assert.Equal(t, before, s.Hash(list))

	assert.NoError(t, s.Quests[0].Complete(time.Now()))
	after := s.Hash(list)
	assert.NotEqual(t, before, after)

	// Completion timestamps do not contribute.
	*s.Quests[0].CompletedAt = s.Quests[0].CompletedAt.Add(time.Hour)
	assert.Equal(t, after, s.Hash(list))
}

func TestSnapshotHashChangesOnUnlock(t *testing.T) {
	s := testSnapshot(t)
	list := []*Achievement{
		mustAchievement(t, "first-quest", RequirementQuestsCompleted, 1),
		mustAchievement(t, "rising-hunter", RequirementLevel, 5),
	}
	before := s.Hash(list)

	// An unlock moves no snapshot field, yet the listing it feeds changes,
	// so the memo key must change with it.
	assert.NoError(t, list[0].Unlock(time.Now()))
	assert.NotEqual(t, before, s.Hash(list))

	// A different catalog size is a different key as well.
	assert.NotEqual(t, s.Hash(list), s.Hash(list[:1]))
}
