package command

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arise-hub/hunter-hub/internal/domain/notification"
	"github.com/arise-hub/hunter-hub/internal/domain/profile"
	"github.com/arise-hub/hunter-hub/internal/domain/quest"
	"github.com/arise-hub/hunter-hub/internal/domain/shared"
)

const testAccountID = "9f1c2d3e-4b5a-6c7d-8e9f-0a1b2c3d4e5f"

// ──────────────────────────────────────────────────────────────────────────────
// FAKES
// ──────────────────────────────────────────────────────────────────────────────

type memStore struct {
	states map[string]*profile.State
	saves  int
}

func newMemStore(states ...*profile.State) *memStore {
	s := &memStore{states: make(map[string]*profile.State)}
	for _, st := range states {
		s.states[st.AccountID] = st
	}
	return s
}

func (s *memStore) Load(_ context.Context, accountID string) (*profile.State, error) {
	state, ok := s.states[accountID]
	if !ok {
		return nil, shared.ErrProfileNotFound
	}
	return state, nil
}

func (s *memStore) Save(_ context.Context, state *profile.State) error {
	s.saves++
	s.states[state.AccountID] = state
	return nil
}

func (s *memStore) ListAccountIDs(_ context.Context) ([]string, error) {
	ids := make([]string, 0, len(s.states))
	for id := range s.states {
		ids = append(ids, id)
	}
	return ids, nil
}

func (s *memStore) Count(_ context.Context) (int, error) {
	return len(s.states), nil
}

type memCache struct {
	invalidated []string
}

func (c *memCache) Get(context.Context, string) (*profile.State, error) {
	return nil, shared.ErrNotFound
}

func (c *memCache) Set(context.Context, *profile.State, time.Duration) error {
	return nil
}

func (c *memCache) Invalidate(_ context.Context, accountID string) error {
	c.invalidated = append(c.invalidated, accountID)
	return nil
}

type fakeLocker struct {
	acquired int
	released int
}

func (l *fakeLocker) Acquire(context.Context, string) (func(), error) {
	l.acquired++
	return func() { l.released++ }, nil
}

type captureSender struct {
	sent []*notification.Notification
}

func (s *captureSender) Send(_ context.Context, candidate *notification.Notification) (*notification.Notification, error) {
	s.sent = append(s.sent, candidate)
	return candidate, nil
}

func (s *captureSender) RegisterChannel(notification.Channel) {}

func (s *captureSender) keys() []string {
	keys := make([]string, 0, len(s.sent))
	for _, n := range s.sent {
		keys = append(keys, string(n.Key))
	}
	return keys
}

type capturePublisher struct {
	events []shared.Event
}

func (p *capturePublisher) Publish(event shared.Event) error {
	p.events = append(p.events, event)
	return nil
}

func (p *capturePublisher) types() []shared.EventType {
	types := make([]shared.EventType, 0, len(p.events))
	for _, e := range p.events {
		types = append(types, e.EventType())
	}
	return types
}

type memMarkers struct {
	marks map[string]time.Time
}

func newMemMarkers() *memMarkers {
	return &memMarkers{marks: make(map[string]time.Time)}
}

func (m *memMarkers) LastCheck(_ context.Context, accountID string) (time.Time, error) {
	return m.marks[accountID], nil
}

func (m *memMarkers) SetLastCheck(_ context.Context, accountID string, day time.Time) error {
	m.marks[accountID] = day
	return nil
}

type fixture struct {
	store     *memStore
	cache     *memCache
	locker    *fakeLocker
	sender    *captureSender
	publisher *capturePublisher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	state, err := profile.NewInitialState(testAccountID, "Sung Jinwoo")
	require.NoError(t, err)
	return &fixture{
		store:     newMemStore(state),
		cache:     &memCache{},
		locker:    &fakeLocker{},
		sender:    &captureSender{},
		publisher: &capturePublisher{},
	}
}

func (f *fixture) state() *profile.State {
	return f.store.states[testAccountID]
}

// ──────────────────────────────────────────────────────────────────────────────
// COMPLETE QUEST
// ──────────────────────────────────────────────────────────────────────────────

func TestCompleteQuestHandler(t *testing.T) {
	ctx := context.Background()

	t.Run("awards XP and publishes events", func(t *testing.T) {
		f := newFixture(t)
		h := NewCompleteQuestHandler(f.store, f.cache, f.locker, f.sender, f.publisher)

		result, err := h.Handle(ctx, CompleteQuestCommand{
			AccountID: testAccountID,
			QuestID:   "quest-1",
		})

		require.NoError(t, err)
		assert.True(t, result.Applied)
		assert.Equal(t, "Morning Workout", result.QuestTitle)
		assert.Equal(t, 20, result.XPEarned)
		assert.False(t, result.LeveledUp)

		assert.Equal(t, 1, f.store.saves)
		assert.Equal(t, []string{testAccountID}, f.cache.invalidated)
		assert.Equal(t, []shared.EventType{shared.EventQuestCompleted}, f.publisher.types())
		assert.Equal(t, []string{"quest_quest-1_completed"}, f.sender.keys())

		assert.Equal(t, 1, f.locker.acquired)
		assert.Equal(t, 1, f.locker.released)
	})

	t.Run("unknown quest id is an error", func(t *testing.T) {
		f := newFixture(t)
		h := NewCompleteQuestHandler(f.store, f.cache, f.locker, f.sender, f.publisher)

		_, err := h.Handle(ctx, CompleteQuestCommand{
			AccountID: testAccountID,
			QuestID:   "quest-404",
		})

		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrQuestNotFound)
		assert.Zero(t, f.store.saves)
		assert.Empty(t, f.publisher.events)
		assert.Equal(t, 1, f.locker.released)
	})

	t.Run("repeat completion is an idempotent no-op", func(t *testing.T) {
		f := newFixture(t)
		h := NewCompleteQuestHandler(f.store, f.cache, f.locker, f.sender, f.publisher)

		_, err := h.Handle(ctx, CompleteQuestCommand{AccountID: testAccountID, QuestID: "quest-1"})
		require.NoError(t, err)

		result, err := h.Handle(ctx, CompleteQuestCommand{AccountID: testAccountID, QuestID: "quest-1"})
		require.NoError(t, err)

		assert.False(t, result.Applied)
		assert.Zero(t, result.XPEarned)
		assert.Equal(t, 1, f.store.saves, "no-op must not save")
		assert.Len(t, f.publisher.events, 1, "no-op must not publish")
	})

	t.Run("level up emits level event and point reminders", func(t *testing.T) {
		f := newFixture(t)
		h := NewCompleteQuestHandler(f.store, f.cache, f.locker, f.sender, f.publisher)

		// quest-9 awards 100 XP, exactly one full level 1 threshold.
		result, err := h.Handle(ctx, CompleteQuestCommand{
			AccountID: testAccountID,
			QuestID:   "quest-9",
		})

		require.NoError(t, err)
		assert.True(t, result.LeveledUp)
		assert.Equal(t, 2, result.NewLevel)
		assert.Equal(t, []shared.EventType{
			shared.EventQuestCompleted,
			shared.EventLevelUp,
		}, f.publisher.types())

		keys := f.sender.keys()
		assert.Contains(t, keys, "quest_quest-9_completed")
		assert.Contains(t, keys, "levelUp_2")
		assert.Contains(t, keys, "attributePoints_3_available")
		assert.Contains(t, keys, "skillPoints_2_available")
	})

	t.Run("missing account id fails validation", func(t *testing.T) {
		f := newFixture(t)
		h := NewCompleteQuestHandler(f.store, f.cache, f.locker, f.sender, f.publisher)

		_, err := h.Handle(ctx, CompleteQuestCommand{QuestID: "quest-1"})

		require.Error(t, err)
		assert.Zero(t, f.locker.acquired)
	})
}

// ──────────────────────────────────────────────────────────────────────────────
// UNLOCK SKILL
// ──────────────────────────────────────────────────────────────────────────────

func TestUnlockSkillHandler(t *testing.T) {
	ctx := context.Background()

	t.Run("unlocks a root skill", func(t *testing.T) {
		f := newFixture(t)
		h := NewUnlockSkillHandler(f.store, f.cache, f.locker, f.sender, f.publisher)

		result, err := h.Handle(ctx, UnlockSkillCommand{
			AccountID: testAccountID,
			SkillID:   "iron-will",
		})

		require.NoError(t, err)
		assert.True(t, result.Applied)
		assert.Equal(t, "Iron Will", result.SkillName)
		assert.Zero(t, result.PointsRemaining)

		assert.Equal(t, 1, f.store.saves)
		assert.Equal(t, []shared.EventType{shared.EventSkillUnlocked}, f.publisher.types())
		assert.Equal(t, []string{"skill_iron-will_unlocked"}, f.sender.keys())
	})

	t.Run("locked prerequisite is a silent no-op", func(t *testing.T) {
		f := newFixture(t)
		h := NewUnlockSkillHandler(f.store, f.cache, f.locker, f.sender, f.publisher)

		result, err := h.Handle(ctx, UnlockSkillCommand{
			AccountID: testAccountID,
			SkillID:   "deep-focus",
		})

		require.NoError(t, err)
		assert.False(t, result.Applied)
		assert.NotEmpty(t, result.Reason)
		assert.Zero(t, f.store.saves, "no-op must not save")
		assert.Empty(t, f.publisher.events)
		assert.Empty(t, f.sender.sent)
	})

	t.Run("unknown skill is a silent no-op", func(t *testing.T) {
		f := newFixture(t)
		h := NewUnlockSkillHandler(f.store, f.cache, f.locker, f.sender, f.publisher)

		result, err := h.Handle(ctx, UnlockSkillCommand{
			AccountID: testAccountID,
			SkillID:   "no-such-skill",
		})

		require.NoError(t, err)
		assert.False(t, result.Applied)
		assert.Zero(t, f.store.saves)
	})
}

// ──────────────────────────────────────────────────────────────────────────────
// EXTRACT SHADOW
// ──────────────────────────────────────────────────────────────────────────────

func TestExtractShadowHandler(t *testing.T) {
	ctx := context.Background()

	t.Run("extracts from a completed quest", func(t *testing.T) {
		f := newFixture(t)
		quests := NewCompleteQuestHandler(f.store, f.cache, f.locker, f.sender, f.publisher)
		_, err := quests.Handle(ctx, CompleteQuestCommand{AccountID: testAccountID, QuestID: "quest-1"})
		require.NoError(t, err)

		h := NewExtractShadowHandler(f.store, f.cache, f.locker, f.sender, f.publisher)
		result, err := h.Handle(ctx, ExtractShadowCommand{
			AccountID: testAccountID,
			QuestID:   "quest-1",
		})

		require.NoError(t, err)
		assert.True(t, result.Applied)
		assert.NotEmpty(t, result.ShadowID, "id is generated when omitted")
		assert.Equal(t, "Morning Workout Shadow", result.ShadowName)
		assert.Equal(t, "strength", result.BonusStat)
		assert.Equal(t, 2, result.BonusValue)

		assert.Len(t, f.state().Shadows, 1)
		assert.Contains(t, f.publisher.types(), shared.EventShadowExtracted)
	})

	t.Run("uncompleted quest is a silent no-op", func(t *testing.T) {
		f := newFixture(t)
		h := NewExtractShadowHandler(f.store, f.cache, f.locker, f.sender, f.publisher)

		result, err := h.Handle(ctx, ExtractShadowCommand{
			AccountID: testAccountID,
			QuestID:   "quest-1",
		})

		require.NoError(t, err)
		assert.False(t, result.Applied)
		assert.NotEmpty(t, result.Reason)
		assert.Zero(t, f.store.saves)
	})
}

// ──────────────────────────────────────────────────────────────────────────────
// COMPLETE DUNGEON
// ──────────────────────────────────────────────────────────────────────────────

func TestCompleteDungeonHandler(t *testing.T) {
	ctx := context.Background()

	t.Run("clears the entry gate and unlocks the successor", func(t *testing.T) {
		f := newFixture(t)
		h := NewCompleteDungeonHandler(f.store, f.cache, f.locker, f.sender, f.publisher)

		result, err := h.Handle(ctx, CompleteDungeonCommand{
			AccountID: testAccountID,
			DungeonID: "dungeon-e",
		})

		require.NoError(t, err)
		assert.True(t, result.Applied)
		assert.Equal(t, 100, result.XPEarned)
		assert.True(t, result.LeveledUp)
		assert.Equal(t, "dungeon-d", result.UnlockedID)

		assert.Equal(t, []shared.EventType{
			shared.EventDungeonCompleted,
			shared.EventLevelUp,
		}, f.publisher.types())
	})

	t.Run("locked dungeon is a silent no-op", func(t *testing.T) {
		f := newFixture(t)
		h := NewCompleteDungeonHandler(f.store, f.cache, f.locker, f.sender, f.publisher)

		result, err := h.Handle(ctx, CompleteDungeonCommand{
			AccountID: testAccountID,
			DungeonID: "dungeon-d",
		})

		require.NoError(t, err)
		assert.False(t, result.Applied)
		assert.Zero(t, f.store.saves)
		assert.Empty(t, f.publisher.events)
	})
}

// ──────────────────────────────────────────────────────────────────────────────
// ALLOCATE ATTRIBUTE
// ──────────────────────────────────────────────────────────────────────────────

func TestAllocateAttributeHandler(t *testing.T) {
	ctx := context.Background()

	t.Run("spends a point", func(t *testing.T) {
		f := newFixture(t)
		f.state().Character.AttributePoints = 2
		h := NewAllocateAttributeHandler(f.store, f.cache, f.locker)

		result, err := h.Handle(ctx, AllocateAttributeCommand{
			AccountID: testAccountID,
			Stat:      "vitality",
		})

		require.NoError(t, err)
		assert.True(t, result.Applied)
		assert.Equal(t, 11, result.NewValue)
		assert.Equal(t, 1, result.PointsRemaining)
		assert.Equal(t, 1, f.store.saves)
	})

	t.Run("unknown stat is an error", func(t *testing.T) {
		f := newFixture(t)
		h := NewAllocateAttributeHandler(f.store, f.cache, f.locker)

		_, err := h.Handle(ctx, AllocateAttributeCommand{
			AccountID: testAccountID,
			Stat:      "luck",
		})

		require.Error(t, err)
		assert.Zero(t, f.locker.acquired, "validation runs before locking")
	})

	t.Run("no points is a silent no-op", func(t *testing.T) {
		f := newFixture(t)
		h := NewAllocateAttributeHandler(f.store, f.cache, f.locker)

		result, err := h.Handle(ctx, AllocateAttributeCommand{
			AccountID: testAccountID,
			Stat:      "strength",
		})

		require.NoError(t, err)
		assert.False(t, result.Applied)
		assert.Zero(t, f.store.saves)
	})
}

// ──────────────────────────────────────────────────────────────────────────────
// RESET DAILY QUESTS
// ──────────────────────────────────────────────────────────────────────────────

func TestResetDailyQuestsHandler(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 6, 2, 8, 0, 0, 0, time.UTC)
	yesterday := now.AddDate(0, 0, -1)

	t.Run("resets outdated dailies and moves the marker", func(t *testing.T) {
		f := newFixture(t)
		markers := newMemMarkers()

		// Complete a daily yesterday so it is outdated today.
		quests := NewCompleteQuestHandler(f.store, f.cache, f.locker, f.sender, f.publisher)
		_, err := quests.Handle(ctx, CompleteQuestCommand{
			AccountID: testAccountID,
			QuestID:   "quest-1",
			Timestamp: yesterday,
		})
		require.NoError(t, err)

		h := NewResetDailyQuestsHandler(f.store, f.cache, f.locker, markers, f.sender, f.publisher)
		result, err := h.Handle(ctx, ResetDailyQuestsCommand{
			AccountID: testAccountID,
			Timestamp: now,
		})

		require.NoError(t, err)
		assert.True(t, result.Performed)
		assert.Equal(t, 1, result.ResetCount)
		assert.Equal(t, "2024-06-02", result.CheckDate)
		assert.True(t, result.PendingDailies)

		assert.Contains(t, f.publisher.types(), shared.EventDailyQuestsReset)
		assert.Contains(t, f.sender.keys(), "dailyReset_2024-06-02")
		assert.Equal(t, now.Truncate(24*time.Hour), markers.marks[testAccountID])
	})

	t.Run("same-day repeat is invisible", func(t *testing.T) {
		f := newFixture(t)
		markers := newMemMarkers()
		h := NewResetDailyQuestsHandler(f.store, f.cache, f.locker, markers, f.sender, f.publisher)

		first, err := h.Handle(ctx, ResetDailyQuestsCommand{AccountID: testAccountID, Timestamp: now})
		require.NoError(t, err)
		assert.True(t, first.Performed)

		second, err := h.Handle(ctx, ResetDailyQuestsCommand{AccountID: testAccountID, Timestamp: now.Add(2 * time.Hour)})
		require.NoError(t, err)
		assert.False(t, second.Performed)
		assert.Equal(t, 1, f.locker.acquired, "marker short-circuits before locking")
	})

	t.Run("nothing to reset still moves the marker", func(t *testing.T) {
		f := newFixture(t)
		markers := newMemMarkers()
		h := NewResetDailyQuestsHandler(f.store, f.cache, f.locker, markers, f.sender, f.publisher)

		result, err := h.Handle(ctx, ResetDailyQuestsCommand{AccountID: testAccountID, Timestamp: now})

		require.NoError(t, err)
		assert.True(t, result.Performed)
		assert.Zero(t, result.ResetCount)
		assert.Zero(t, f.store.saves)
		assert.True(t, result.PendingDailies, "fresh dailies are all still active")
		assert.False(t, markers.marks[testAccountID].IsZero())
	})

	t.Run("force bypasses the marker", func(t *testing.T) {
		f := newFixture(t)
		markers := newMemMarkers()
		h := NewResetDailyQuestsHandler(f.store, f.cache, f.locker, markers, f.sender, f.publisher)

		_, err := h.Handle(ctx, ResetDailyQuestsCommand{AccountID: testAccountID, Timestamp: now})
		require.NoError(t, err)

		result, err := h.Handle(ctx, ResetDailyQuestsCommand{
			AccountID: testAccountID,
			Timestamp: now.Add(time.Hour),
			Force:     true,
		})
		require.NoError(t, err)
		assert.True(t, result.Performed)
	})

	t.Run("force resets dailies completed today", func(t *testing.T) {
		f := newFixture(t)
		markers := newMemMarkers()

		quests := NewCompleteQuestHandler(f.store, f.cache, f.locker, f.sender, f.publisher)
		_, err := quests.Handle(ctx, CompleteQuestCommand{
			AccountID: testAccountID,
			QuestID:   "quest-1",
			Timestamp: now,
		})
		require.NoError(t, err)

		h := NewResetDailyQuestsHandler(f.store, f.cache, f.locker, markers, f.sender, f.publisher)

		// The regular path leaves a same-day completion alone.
		regular, err := h.Handle(ctx, ResetDailyQuestsCommand{
			AccountID: testAccountID,
			Timestamp: now.Add(time.Hour),
		})
		require.NoError(t, err)
		assert.Zero(t, regular.ResetCount)

		forced, err := h.Handle(ctx, ResetDailyQuestsCommand{
			AccountID: testAccountID,
			Timestamp: now.Add(2 * time.Hour),
			Force:     true,
		})
		require.NoError(t, err)
		assert.Equal(t, 1, forced.ResetCount)
		assert.True(t, forced.PendingDailies)

		state, err := f.store.Load(ctx, testAccountID)
		require.NoError(t, err)
		q, ok := quest.FindByID(state.Quests, "quest-1")
		require.True(t, ok)
		assert.False(t, q.Completed)
	})
}
