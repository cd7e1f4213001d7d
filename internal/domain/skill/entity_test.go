package skill

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/arise-hub/hunter-hub/internal/domain/shared"
)

func mustSkill(t *testing.T, id, prereq string) *Skill {
	t.Helper()
	s, err := NewSkill(NewSkillParams{
		ID:           id,
		Name:         "Skill " + id,
		Prerequisite: prereq,
		Bonus:        shared.StatBonus{Stat: shared.StatDiscipline, Value: 1},
	})
	assert.NoError(t, err)
	return s
}

func TestNewSkillValidation(t *testing.T) {
	_, err := NewSkill(NewSkillParams{Name: "x", Bonus: shared.StatBonus{Stat: shared.StatAgility, Value: 1}})
	assert.ErrorIs(t, err, ErrInvalidID)

	_, err = NewSkill(NewSkillParams{ID: "s", Bonus: shared.StatBonus{Stat: shared.StatAgility, Value: 1}})
	assert.ErrorIs(t, err, ErrInvalidName)

	_, err = NewSkill(NewSkillParams{ID: "s", Name: "x", Bonus: shared.StatBonus{Stat: "luck", Value: 1}})
	assert.ErrorIs(t, err, ErrInvalidBonus)

	_, err = NewSkill(NewSkillParams{ID: "s", Name: "x", Level: 3, MaxLevel: 2, Bonus: shared.StatBonus{Stat: shared.StatAgility, Value: 1}})
	assert.ErrorIs(t, err, ErrInvalidLevel)
}

func TestCanUnlock(t *testing.T) {
	root := mustSkill(t, "focus", "")
	child := mustSkill(t, "deep-focus", "focus")
	tree := []*Skill{root, child}

	assert.True(t, root.CanUnlock(tree))
	assert.False(t, child.CanUnlock(tree))

	assert.NoError(t, root.Unlock(time.Now()))
	assert.False(t, root.CanUnlock(tree))
	assert.True(t, child.CanUnlock(tree))
}

func TestUnlockTwiceIsNoOp(t *testing.T) {
	s := mustSkill(t, "focus", "")
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	assert.NoError(t, s.Unlock(now))
	assert.Equal(t, now, *s.UnlockedAt)

	err := s.Unlock(now.Add(time.Hour))
	assert.ErrorIs(t, err, shared.ErrInvariant)
	assert.Equal(t, now, *s.UnlockedAt)
}

func TestCountAndAllUnlocked(t *testing.T) {
	a := mustSkill(t, "a", "")
	b := mustSkill(t, "b", "a")
	tree := []*Skill{a, b}

	assert.Equal(t, 0, CountUnlocked(tree))
	assert.False(t, AllUnlocked(tree))
	assert.False(t, AllUnlocked(nil))

	assert.NoError(t, a.Unlock(time.Now()))
	assert.NoError(t, b.Unlock(time.Now()))
	assert.Equal(t, 2, CountUnlocked(tree))
	assert.True(t, AllUnlocked(tree))
}

func TestValidateTree(t *testing.T) {
	a := mustSkill(t, "a", "")
	b := mustSkill(t, "b", "a")
	c := mustSkill(t, "c", "b")
	assert.NoError(t, ValidateTree([]*Skill{a, b, c}))

	dangling := mustSkill(t, "d", "ghost")
	assert.ErrorIs(t, ValidateTree([]*Skill{a, dangling}), ErrUnknownSkill)

	x := mustSkill(t, "x", "y")
	y := mustSkill(t, "y", "x")
	assert.ErrorIs(t, ValidateTree([]*Skill{x, y}), ErrTreeCycle)
}
