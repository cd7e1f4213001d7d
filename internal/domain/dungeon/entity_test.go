package dungeon

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/arise-hub/hunter-hub/internal/domain/hunter"
	"github.com/arise-hub/hunter-hub/internal/domain/shared"
)

func mustDungeon(t *testing.T, id, successor string, locked bool) *Dungeon {
	t.Helper()
	d, err := NewDungeon(NewDungeonParams{
		ID:          id,
		Name:        "Dungeon " + id,
		Difficulty:  shared.RankE,
		Experience:  100,
		Locked:      locked,
		SuccessorID: successor,
	})
	assert.NoError(t, err)
	return d
}

func TestNewDungeonValidation(t *testing.T) {
	_, err := NewDungeon(NewDungeonParams{Name: "x", Difficulty: shared.RankE, Experience: 10})
	assert.ErrorIs(t, err, ErrInvalidID)

	_, err = NewDungeon(NewDungeonParams{ID: "d", Difficulty: shared.RankE, Experience: 10})
	assert.ErrorIs(t, err, ErrInvalidName)

	_, err = NewDungeon(NewDungeonParams{ID: "d", Name: "x", Difficulty: "F", Experience: 10})
	assert.ErrorIs(t, err, ErrInvalidRank)

	_, err = NewDungeon(NewDungeonParams{ID: "d", Name: "x", Difficulty: shared.RankE, Experience: 0})
	assert.ErrorIs(t, err, ErrInvalidExperience)
}

func TestCompleteGuards(t *testing.T) {
	locked := mustDungeon(t, "d2", "", true)
	err := locked.Complete(time.Now())
	assert.ErrorIs(t, err, shared.ErrInvariant)
	assert.False(t, locked.Completed)

	open := mustDungeon(t, "d1", "", false)
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	assert.NoError(t, open.Complete(now))
	assert.Equal(t, now, *open.CompletedAt)

	err = open.Complete(now.Add(time.Hour))
	assert.ErrorIs(t, err, shared.ErrInvariant)
	assert.Equal(t, now, *open.CompletedAt)
}

func TestUnlock(t *testing.T) {
	d := mustDungeon(t, "d2", "", true)

	assert.True(t, d.Unlock())
	assert.False(t, d.Locked)
	assert.False(t, d.Unlock())
}

func TestRequirementsMetBy(t *testing.T) {
	c, _ := hunter.NewStartingCharacter("11111111-1111-1111-1111-111111111111", "Jinwoo")
	c.Level = 5

	none := Requirements{}
	assert.True(t, none.MetBy(c))
	assert.False(t, none.MetBy(nil))

	level := Requirements{Level: 10}
	assert.False(t, level.MetBy(c))
	c.Level = 10
	assert.True(t, level.MetBy(c))

	stats := Requirements{Stats: map[shared.StatType]int{shared.StatStrength: 12}}
	assert.False(t, stats.MetBy(c))
	c.Stats.Strength = 12
	assert.True(t, stats.MetBy(c))
}

func TestRequirementsDoNotGateUnlock(t *testing.T) {
	// Clearing d1 unlocks d2 even though d2's requirements are unmet.
	d1 := mustDungeon(t, "d1", "d2", false)
	d2 := mustDungeon(t, "d2", "", true)
	d2.Requirements = Requirements{Level: 99}

	assert.NoError(t, d1.Complete(time.Now()))
	assert.True(t, d2.Unlock())
	assert.False(t, d2.Locked)
}

func TestValidateChain(t *testing.T) {
	d1 := mustDungeon(t, "d1", "d2", false)
	d2 := mustDungeon(t, "d2", "d3", true)
	d3 := mustDungeon(t, "d3", "", true)
	assert.NoError(t, ValidateChain([]*Dungeon{d1, d2, d3}))

	dangling := mustDungeon(t, "d4", "ghost", true)
	assert.ErrorIs(t, ValidateChain([]*Dungeon{d1, dangling}), ErrUnknownSuccessor)

	a := mustDungeon(t, "a", "b", false)
	b := mustDungeon(t, "b", "a", true)
	assert.ErrorIs(t, ValidateChain([]*Dungeon{a, b}), ErrChainCycle)
}

func TestCollectionHelpers(t *testing.T) {
	d1 := mustDungeon(t, "d1", "d2", false)
	d2 := mustDungeon(t, "d2", "", true)
	chain := []*Dungeon{d1, d2}

	found, ok := FindByID(chain, "d2")
	assert.True(t, ok)
	assert.Equal(t, d2, found)

	assert.Equal(t, 0, CountCompleted(chain))
	assert.False(t, AllCompleted(chain))
	assert.False(t, AllCompleted(nil))

	assert.NoError(t, d1.Complete(time.Now()))
	d2.Unlock()
	assert.NoError(t, d2.Complete(time.Now()))
	assert.True(t, AllCompleted(chain))
}
