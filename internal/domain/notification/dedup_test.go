package notification

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arise-hub/hunter-hub/internal/domain/shared"
)

const testAccount = shared.AccountID("9f1c2d3e-4b5a-6c7d-8e9f-0a1b2c3d4e5f")

type memoryDedupLog struct {
	entries []DedupEntry
}

func (m *memoryDedupLog) Seen(_ context.Context, accountID shared.AccountID, key Key) (bool, error) {
	for _, e := range m.entries {
		if e.AccountID == accountID && e.Key == key {
			return true, nil
		}
	}
	return false, nil
}

func (m *memoryDedupLog) Record(_ context.Context, entry DedupEntry) error {
	m.entries = append(m.entries, entry)
	return nil
}

func (m *memoryDedupLog) History(_ context.Context, accountID shared.AccountID, limit int) ([]DedupEntry, error) {
	var out []DedupEntry
	for _, e := range m.entries {
		if e.AccountID == accountID {
			out = append(out, e)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memoryDedupLog) PurgeOlderThan(_ context.Context, before time.Time) (int64, error) {
	var kept []DedupEntry
	var purged int64
	for _, e := range m.entries {
		if e.SentAt.Before(before) {
			purged++
			continue
		}
		kept = append(kept, e)
	}
	m.entries = kept
	return purged, nil
}

func TestDedupKeys(t *testing.T) {
	assert.Equal(t, Key("levelUp_5"), LevelUpKey(5))
	assert.Equal(t, Key("quest_quest-1_completed"), QuestCompletedKey("quest-1"))
	assert.Equal(t, Key("skill_iron-will_unlocked"), SkillUnlockedKey("iron-will"))
	assert.Equal(t, Key("shadow_shadow-1_extracted"), ShadowExtractedKey("shadow-1"))
	assert.Equal(t, Key("attributePoints_3_available"), AttributePointsKey(3))
	assert.Equal(t, Key("skillPoints_2_available"), SkillPointsKey(2))
}

func TestBuildLevelUp(t *testing.T) {
	n := BuildLevelUp(testAccount, 5)

	require.NotNil(t, n)
	assert.Equal(t, TypeAchievement, n.Type)
	assert.Equal(t, DurationLevelUp, n.Duration)
	assert.Contains(t, n.Message, "level 5")

	assert.Nil(t, BuildLevelUp(testAccount, 1), "starting level is never announced")
	assert.Nil(t, BuildLevelUp(testAccount, 0))
}

func TestBuildQuestCompletedFreshness(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	fresh := BuildQuestCompleted(testAccount, "quest-1", "Morning Workout", 20, now.Add(-time.Minute), now)
	require.NotNil(t, fresh)
	assert.Equal(t, TypeSuccess, fresh.Type)
	assert.Equal(t, "Morning Workout completed! +20 XP", fresh.Message)

	stale := BuildQuestCompleted(testAccount, "quest-1", "Morning Workout", 20, now.Add(-6*time.Minute), now)
	assert.Nil(t, stale, "completions older than the freshness window stay silent")
}

func TestBuildSkillUnlockedFreshness(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	fresh := BuildSkillUnlocked(testAccount, "skill-1", "Iron Body", now.Add(-time.Minute), now)
	require.NotNil(t, fresh)
	assert.Equal(t, TypeSuccess, fresh.Type)
	assert.Contains(t, fresh.Message, "Iron Body")

	stale := BuildSkillUnlocked(testAccount, "skill-1", "Iron Body", now.Add(-6*time.Minute), now)
	assert.Nil(t, stale, "unlocks older than the freshness window stay silent")
}

func TestBuildShadowExtractedFreshness(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	bonus := shared.StatBonus{Stat: shared.StatStrength, Value: 2}

	fresh := BuildShadowExtracted(testAccount, "shadow-1", "Morning Workout Shadow", bonus, now.Add(-time.Minute), now)
	require.NotNil(t, fresh)

	stale := BuildShadowExtracted(testAccount, "shadow-1", "Morning Workout Shadow", bonus, now.Add(-6*time.Minute), now)
	assert.Nil(t, stale, "extractions older than the freshness window stay silent")
}

func TestBuildPointsAvailable(t *testing.T) {
	n := BuildAttributePointsAvailable(testAccount, 3)

	require.NotNil(t, n)
	assert.True(t, n.IsPersistent())
	assert.Equal(t, TypeInfo, n.Type)
	require.NotNil(t, n.Action)
	assert.Equal(t, "/stats", n.Action.Target)

	assert.Nil(t, BuildAttributePointsAvailable(testAccount, 0))

	sp := BuildSkillPointsAvailable(testAccount, 2)
	require.NotNil(t, sp)
	assert.True(t, sp.IsPersistent())
	assert.Equal(t, "/skills", sp.Action.Target)
}

func TestBuildShadowExtractedMessage(t *testing.T) {
	bonus := shared.StatBonus{Stat: shared.StatStrength, Value: 2}
	now := time.Now().UTC()

	n := BuildShadowExtracted(testAccount, "shadow-1", "Morning Workout Shadow", bonus, now, now)

	require.NotNil(t, n)
	assert.Contains(t, n.Message, "+2 strength")
}

func TestDeciderSuppressesSeenKeys(t *testing.T) {
	ctx := context.Background()
	log := &memoryDedupLog{}
	decider := NewDecider(log)
	candidate := BuildLevelUp(testAccount, 3)
	require.NotNil(t, candidate)

	first, err := decider.Decide(ctx, candidate)
	require.NoError(t, err)
	assert.True(t, first.Send)

	require.NoError(t, decider.Commit(ctx, candidate, time.Now().UTC()))

	second, err := decider.Decide(ctx, candidate)
	require.NoError(t, err)
	assert.False(t, second.Send)
	assert.Contains(t, second.Reason, "levelUp_3")
}

func TestDeciderKeysAreScopedPerAccount(t *testing.T) {
	ctx := context.Background()
	log := &memoryDedupLog{}
	decider := NewDecider(log)
	other := shared.AccountID("11111111-2222-3333-4444-555555555555")

	first := BuildLevelUp(testAccount, 2)
	require.NoError(t, decider.Commit(ctx, first, time.Now().UTC()))

	otherCandidate := BuildLevelUp(other, 2)
	decision, err := decider.Decide(ctx, otherCandidate)

	require.NoError(t, err)
	assert.True(t, decision.Send, "dedup keys are per account, not global")
}

func TestDecideNilCandidate(t *testing.T) {
	decider := NewDecider(&memoryDedupLog{})

	_, err := decider.Decide(context.Background(), nil)

	assert.ErrorIs(t, err, ErrNilCandidate)
}

func TestNotificationStatusMachine(t *testing.T) {
	n := BuildLevelUp(testAccount, 2)
	require.NotNil(t, n)

	assert.Equal(t, StatusPending, n.Status)
	require.NoError(t, n.MarkSending())
	require.NoError(t, n.MarkDelivered())
	assert.Error(t, n.MarkSending(), "delivered is final")

	failed := BuildLevelUp(testAccount, 3)
	require.NoError(t, failed.MarkSending())
	require.NoError(t, failed.MarkFailed("connection refused"))
	assert.True(t, failed.CanRetry())
	require.NoError(t, failed.ResetForRetry())
	assert.Equal(t, StatusPending, failed.Status)
}

func TestMarkSuppressed(t *testing.T) {
	n := BuildLevelUp(testAccount, 2)

	require.NoError(t, n.MarkSuppressed("key levelUp_2 already sent"))
	assert.Equal(t, StatusSuppressed, n.Status)
	assert.Error(t, n.MarkSending(), "suppressed is final")
}
