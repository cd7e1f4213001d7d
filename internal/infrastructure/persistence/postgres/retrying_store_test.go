package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arise-hub/hunter-hub/internal/domain/profile"
	"github.com/arise-hub/hunter-hub/internal/domain/shared"
	"github.com/arise-hub/hunter-hub/pkg/circuitbreaker"
)

const testAccountID = "9f1c2d3e-4b5a-6c7d-8e9f-0a1b2c3d4e5f"

// flakyStore fails a configured number of times before succeeding.
type flakyStore struct {
	failures  int
	failWith  error
	state     *profile.State
	loadCalls int
	saveCalls int
}

func (s *flakyStore) Load(context.Context, string) (*profile.State, error) {
	s.loadCalls++
	if s.loadCalls <= s.failures {
		return nil, s.failWith
	}
	return s.state, nil
}

func (s *flakyStore) Save(context.Context, *profile.State) error {
	s.saveCalls++
	if s.saveCalls <= s.failures {
		return s.failWith
	}
	return nil
}

func (s *flakyStore) ListAccountIDs(context.Context) ([]string, error) {
	return []string{s.state.AccountID}, nil
}

func (s *flakyStore) Count(context.Context) (int, error) {
	return 1, nil
}

func newTestState(t *testing.T) *profile.State {
	t.Helper()
	state, err := profile.NewInitialState(testAccountID, "Sung Jinwoo")
	require.NoError(t, err)
	return state
}

func TestRetryingProfileStore(t *testing.T) {
	ctx := context.Background()

	t.Run("transient failure is retried", func(t *testing.T) {
		inner := &flakyStore{
			failures: 2,
			failWith: errors.New("connection reset"),
			state:    newTestState(t),
		}
		store := NewRetryingProfileStore(inner, nil)

		state, err := store.Load(ctx, testAccountID)
		require.NoError(t, err)
		assert.Equal(t, testAccountID, state.AccountID)
		assert.Equal(t, 3, inner.loadCalls)
	})

	t.Run("not found is not retried", func(t *testing.T) {
		inner := &flakyStore{
			failures: 10,
			failWith: shared.ErrProfileNotFound,
			state:    newTestState(t),
		}
		store := NewRetryingProfileStore(inner, nil)

		_, err := store.Load(ctx, testAccountID)
		assert.ErrorIs(t, err, shared.ErrProfileNotFound)
		assert.Equal(t, 1, inner.loadCalls)
	})

	t.Run("repeated infrastructure failures trip the breaker", func(t *testing.T) {
		inner := &flakyStore{
			failures: 100,
			failWith: errors.New("connection refused"),
			state:    newTestState(t),
		}
		store := NewRetryingProfileStore(inner, nil)

		for i := 0; i < 3; i++ {
			require.Error(t, store.Save(ctx, inner.state))
		}

		callsBeforeOpen := inner.saveCalls
		err := store.Save(ctx, inner.state)
		assert.ErrorIs(t, err, circuitbreaker.ErrCircuitOpen)
		assert.Equal(t, callsBeforeOpen, inner.saveCalls)
	})

	t.Run("domain answers keep the breaker closed", func(t *testing.T) {
		inner := &flakyStore{
			failures: 100,
			failWith: shared.ErrProfileNotFound,
			state:    newTestState(t),
		}
		store := NewRetryingProfileStore(inner, nil)

		for i := 0; i < 5; i++ {
			_, err := store.Load(ctx, testAccountID)
			assert.ErrorIs(t, err, shared.ErrProfileNotFound)
		}
		assert.Equal(t, 5, inner.loadCalls)
	})
}
