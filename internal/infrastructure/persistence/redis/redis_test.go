package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arise-hub/hunter-hub/internal/application/query"
	"github.com/arise-hub/hunter-hub/internal/domain/profile"
	"github.com/arise-hub/hunter-hub/internal/domain/shared"
)

const testAccountID = "9f1c2d3e-4b5a-6c7d-8e9f-0a1b2c3d4e5f"

func newTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err, "failed to start miniredis")
	t.Cleanup(mr.Close)

	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewCacheFromClient(client), mr
}

func newTestState(t *testing.T) *profile.State {
	t.Helper()

	state, err := profile.NewInitialState(testAccountID, "Sung Jinwoo")
	require.NoError(t, err)
	return state
}

// ──────────────────────────────────────────────────────────────────────────────
// Profile cache
// ──────────────────────────────────────────────────────────────────────────────

func TestProfileCache(t *testing.T) {
	ctx := context.Background()

	t.Run("roundtrip preserves the aggregate", func(t *testing.T) {
		cache, _ := newTestCache(t)
		pc := NewProfileCache(cache)

		state := newTestState(t)
		require.NoError(t, pc.Set(ctx, state, time.Minute))

		got, err := pc.Get(ctx, testAccountID)
		require.NoError(t, err)

		assert.Equal(t, state.AccountID, got.AccountID)
		assert.Equal(t, state.Character.Name, got.Character.Name)
		assert.Equal(t, state.Character.Level, got.Character.Level)
		assert.Len(t, got.Quests, len(state.Quests))
		assert.Len(t, got.Skills, len(state.Skills))
		assert.Len(t, got.Dungeons, len(state.Dungeons))
	})

	t.Run("miss returns not found", func(t *testing.T) {
		cache, _ := newTestCache(t)
		pc := NewProfileCache(cache)

		_, err := pc.Get(ctx, testAccountID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("invalidate removes the entry", func(t *testing.T) {
		cache, _ := newTestCache(t)
		pc := NewProfileCache(cache)

		require.NoError(t, pc.Set(ctx, newTestState(t), time.Minute))
		require.NoError(t, pc.Invalidate(ctx, testAccountID))

		_, err := pc.Get(ctx, testAccountID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("corrupt entry behaves like a miss", func(t *testing.T) {
		cache, mr := newTestCache(t)
		pc := NewProfileCache(cache)

		require.NoError(t, mr.Set(ProfileKey(testAccountID), "not json"))

		_, err := pc.Get(ctx, testAccountID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.False(t, mr.Exists(ProfileKey(testAccountID)))
	})

	t.Run("entry expires with its TTL", func(t *testing.T) {
		cache, mr := newTestCache(t)
		pc := NewProfileCache(cache)

		require.NoError(t, pc.Set(ctx, newTestState(t), time.Minute))
		mr.FastForward(2 * time.Minute)

		_, err := pc.Get(ctx, testAccountID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

// ──────────────────────────────────────────────────────────────────────────────
// Account locker
// ──────────────────────────────────────────────────────────────────────────────

func TestAccountLocker(t *testing.T) {
	ctx := context.Background()

	t.Run("acquire and release", func(t *testing.T) {
		cache, mr := newTestCache(t)
		locker := NewAccountLocker(cache, AccountLockerOptions{})

		release, err := locker.Acquire(ctx, testAccountID)
		require.NoError(t, err)
		assert.True(t, mr.Exists(LockKey(testAccountID)))

		release()
		assert.False(t, mr.Exists(LockKey(testAccountID)))
	})

	t.Run("held lock blocks a second acquire", func(t *testing.T) {
		cache, _ := newTestCache(t)
		locker := NewAccountLocker(cache, AccountLockerOptions{RetryDelay: 5 * time.Millisecond})

		release, err := locker.Acquire(ctx, testAccountID)
		require.NoError(t, err)
		defer release()

		waitCtx, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
		defer cancel()

		_, err = locker.Acquire(waitCtx, testAccountID)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("release unblocks a waiter", func(t *testing.T) {
		cache, _ := newTestCache(t)
		locker := NewAccountLocker(cache, AccountLockerOptions{RetryDelay: 5 * time.Millisecond})

		release, err := locker.Acquire(ctx, testAccountID)
		require.NoError(t, err)

		acquired := make(chan struct{})
		go func() {
			r, err := locker.Acquire(ctx, testAccountID)
			if err == nil {
				r()
			}
			close(acquired)
		}()

		time.Sleep(10 * time.Millisecond)
		release()

		select {
		case <-acquired:
		case <-time.After(time.Second):
			t.Fatal("waiter never acquired the lock")
		}
	})

	t.Run("stale release does not remove a new holder", func(t *testing.T) {
		cache, mr := newTestCache(t)
		// Two lockers on one cache model two processes contending on Redis.
		stale := NewAccountLocker(cache, AccountLockerOptions{TTL: time.Second, RetryDelay: 5 * time.Millisecond})
		fresh := NewAccountLocker(cache, AccountLockerOptions{TTL: time.Second, RetryDelay: 5 * time.Millisecond})

		staleRelease, err := stale.Acquire(ctx, testAccountID)
		require.NoError(t, err)

		// The first holder's TTL expires and another process takes the lock.
		mr.FastForward(2 * time.Second)

		release, err := fresh.Acquire(ctx, testAccountID)
		require.NoError(t, err)
		defer release()

		staleRelease()
		assert.True(t, mr.Exists(LockKey(testAccountID)))
	})
}

// ──────────────────────────────────────────────────────────────────────────────
// Reset markers
// ──────────────────────────────────────────────────────────────────────────────

func TestResetMarkerStore(t *testing.T) {
	ctx := context.Background()

	t.Run("absent marker is zero time", func(t *testing.T) {
		cache, _ := newTestCache(t)
		store := NewResetMarkerStore(cache)

		day, err := store.LastCheck(ctx, testAccountID)
		require.NoError(t, err)
		assert.True(t, day.IsZero())
	})

	t.Run("set then get returns the UTC date", func(t *testing.T) {
		cache, _ := newTestCache(t)
		store := NewResetMarkerStore(cache)

		day := time.Date(2024, 6, 2, 15, 30, 0, 0, time.UTC)
		require.NoError(t, store.SetLastCheck(ctx, testAccountID, day))

		got, err := store.LastCheck(ctx, testAccountID)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC), got)
	})

	t.Run("unreadable marker behaves like a missing one", func(t *testing.T) {
		cache, mr := newTestCache(t)
		store := NewResetMarkerStore(cache)

		require.NoError(t, mr.Set(ResetMarkerKey(testAccountID), "garbage"))

		day, err := store.LastCheck(ctx, testAccountID)
		require.NoError(t, err)
		assert.True(t, day.IsZero())
	})
}

// ──────────────────────────────────────────────────────────────────────────────
// Evaluation memo
// ──────────────────────────────────────────────────────────────────────────────

func TestEvaluationMemo(t *testing.T) {
	ctx := context.Background()

	statuses := []query.AchievementStatusDTO{
		{ID: "first-quest", Title: "First Steps", Unlocked: true, Progress: 100},
		{ID: "iron-will", Title: "Iron Will", Current: 2, Target: 10, Progress: 20},
	}

	t.Run("miss before set", func(t *testing.T) {
		cache, _ := newTestCache(t)
		memo := NewEvaluationMemo(cache, 0)

		_, ok := memo.Get(ctx, testAccountID, "hash-a")
		assert.False(t, ok)
	})

	t.Run("hit on the same snapshot hash", func(t *testing.T) {
		cache, _ := newTestCache(t)
		memo := NewEvaluationMemo(cache, 0)

		memo.Set(ctx, testAccountID, "hash-a", statuses)

		got, ok := memo.Get(ctx, testAccountID, "hash-a")
		require.True(t, ok)
		assert.Equal(t, statuses, got)
	})

	t.Run("changed snapshot hash misses", func(t *testing.T) {
		cache, _ := newTestCache(t)
		memo := NewEvaluationMemo(cache, 0)

		memo.Set(ctx, testAccountID, "hash-a", statuses)

		_, ok := memo.Get(ctx, testAccountID, "hash-b")
		assert.False(t, ok)
	})
}
