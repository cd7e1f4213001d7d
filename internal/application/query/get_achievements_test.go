package query

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arise-hub/hunter-hub/internal/domain/profile"
	"github.com/arise-hub/hunter-hub/internal/domain/shared"
)

const testAccountID = "9f1c2d3e-4b5a-6c7d-8e9f-0a1b2c3d4e5f"

// ──────────────────────────────────────────────────────────────────────────────
// FAKES
// ──────────────────────────────────────────────────────────────────────────────

type memStore struct {
	states map[string]*profile.State
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

type memMemo struct {
	entries map[string][]AchievementStatusDTO
}

func newMemMemo() *memMemo {
	return &memMemo{entries: make(map[string][]AchievementStatusDTO)}
}

func (m *memMemo) Get(_ context.Context, accountID, hash string) ([]AchievementStatusDTO, bool) {
	statuses, ok := m.entries[accountID+":"+hash]
	return statuses, ok
}

func (m *memMemo) Set(_ context.Context, accountID, hash string, statuses []AchievementStatusDTO) {
	m.entries[accountID+":"+hash] = statuses
}

// ──────────────────────────────────────────────────────────────────────────────
// GET ACHIEVEMENTS
// ──────────────────────────────────────────────────────────────────────────────

func TestGetAchievementsMemoization(t *testing.T) {
	ctx := context.Background()
	state, err := profile.NewInitialState(testAccountID, "Sung Jinwoo")
	require.NoError(t, err)

	handler := NewGetAchievementsHandler(newMemStore(state), nil, newMemMemo())
	q := GetAchievementsQuery{AccountID: testAccountID, IncludeHidden: true}

	first, err := handler.Handle(ctx, q)
	require.NoError(t, err)
	assert.False(t, first.FromMemo)
	assert.Equal(t, 0, first.UnlockedCount)

	// Unchanged profile reads come from the memo.
	second, err := handler.Handle(ctx, q)
	require.NoError(t, err)
	assert.True(t, second.FromMemo)
	assert.Equal(t, 0, second.UnlockedCount)
}

func TestGetAchievementsUnlockBypassesMemo(t *testing.T) {
	ctx := context.Background()
	state, err := profile.NewInitialState(testAccountID, "Sung Jinwoo")
	require.NoError(t, err)

	handler := NewGetAchievementsHandler(newMemStore(state), nil, newMemMemo())
	q := GetAchievementsQuery{AccountID: testAccountID, IncludeHidden: true}

	first, err := handler.Handle(ctx, q)
	require.NoError(t, err)
	require.Equal(t, 0, first.UnlockedCount)

	// Unlocking moves no counted snapshot field, only the stored unlock
	// state. The next read must still see the unlock, not the memo entry.
	require.NoError(t, state.Achievements[0].Unlock(time.Now()))

	second, err := handler.Handle(ctx, q)
	require.NoError(t, err)
	assert.False(t, second.FromMemo)
	assert.Equal(t, 1, second.UnlockedCount)
}
