package saga

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/arise-hub/hunter-hub/internal/domain/notification"
	"github.com/arise-hub/hunter-hub/internal/domain/profile"
	"github.com/arise-hub/hunter-hub/internal/domain/shared"
)

const testAccountID = "9f1c2d3e-4b5a-6c7d-8e9f-0a1b2c3d4e5f"

// ──────────────────────────────────────────────────────────────────────────────
// FAKES
// ──────────────────────────────────────────────────────────────────────────────

type memStore struct {
	states  map[string]*profile.State
	saves   int
	saveErr error
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
	if s.saveErr != nil {
		return s.saveErr
	}
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

type fakeLocker struct{}

func (fakeLocker) Acquire(context.Context, string) (func(), error) {
	return func() {}, nil
}

type captureSender struct {
	sent []*notification.Notification
}

func (s *captureSender) Send(_ context.Context, candidate *notification.Notification) (*notification.Notification, error) {
	s.sent = append(s.sent, candidate)
	return candidate, nil
}

func (s *captureSender) RegisterChannel(notification.Channel) {}

type capturePublisher struct {
	events []shared.Event
}

func (p *capturePublisher) Publish(event shared.Event) error {
	p.events = append(p.events, event)
	return nil
}

type memAccounts struct {
	accounts map[string]*profile.Account
}

func newMemAccounts() *memAccounts {
	return &memAccounts{accounts: make(map[string]*profile.Account)}
}

func (r *memAccounts) Create(_ context.Context, account *profile.Account) error {
	if _, ok := r.accounts[account.ID]; ok {
		return shared.ErrProfileAlreadyExists
	}
	r.accounts[account.ID] = account
	return nil
}

func (r *memAccounts) GetByID(_ context.Context, id string) (*profile.Account, error) {
	account, ok := r.accounts[id]
	if !ok {
		return nil, shared.ErrProfileNotFound
	}
	return account, nil
}

func (r *memAccounts) Exists(_ context.Context, id string) (bool, error) {
	_, ok := r.accounts[id]
	return ok, nil
}

func (r *memAccounts) Delete(_ context.Context, id string) error {
	delete(r.accounts, id)
	return nil
}

type bcryptHasher struct{}

func (bcryptHasher) Hash(credential string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(credential), bcrypt.MinCost)
	return string(hash), err
}

func (bcryptHasher) Verify(credential, hash string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(credential))
}

// ──────────────────────────────────────────────────────────────────────────────
// ACHIEVEMENT FLOW
// ──────────────────────────────────────────────────────────────────────────────

func newTestState(t *testing.T) *profile.State {
	t.Helper()
	state, err := profile.NewInitialState(testAccountID, "Sung Jinwoo")
	require.NoError(t, err)
	return state
}

func TestAchievementFlowSaga(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()

	t.Run("unlocks first-quest after one completion", func(t *testing.T) {
		state := newTestState(t)
		_, err := state.CompleteQuest("quest-1", now)
		require.NoError(t, err)

		store := newMemStore(state)
		sender := &captureSender{}
		publisher := &capturePublisher{}
		saga := NewAchievementFlowSaga(store, nil, fakeLocker{}, sender, publisher, DefaultAchievementFlowConfig())

		result, err := saga.CheckAfterProgress(ctx, testAccountID, "quest.completed")

		require.NoError(t, err)
		require.True(t, result.HasNewAchievements())
		require.Len(t, result.Unlocked, 1)
		assert.Equal(t, "first-quest", result.Unlocked[0].ID)
		assert.Equal(t, 50, result.TotalRewardXP)

		// Reward XP lands on the character.
		assert.Equal(t, 70, int(state.Character.Experience))

		assert.Len(t, publisher.events, 1)
		assert.Equal(t, shared.EventAchievementUnlocked, publisher.events[0].EventType())
		require.Len(t, sender.sent, 1)
		assert.Equal(t, "achievement_first-quest_unlocked", string(sender.sent[0].Key))
	})

	t.Run("no pending unlocks is a quiet run", func(t *testing.T) {
		state := newTestState(t)
		store := newMemStore(state)
		sender := &captureSender{}
		saga := NewAchievementFlowSaga(store, nil, fakeLocker{}, sender, &capturePublisher{}, DefaultAchievementFlowConfig())

		result, err := saga.CheckAfterProgress(ctx, testAccountID, "quest.completed")

		require.NoError(t, err)
		assert.False(t, result.HasNewAchievements())
		assert.Empty(t, sender.sent)
		assert.Zero(t, store.saves, "nothing unlocked, nothing saved")
	})

	t.Run("second run does not re-unlock", func(t *testing.T) {
		state := newTestState(t)
		_, err := state.CompleteQuest("quest-1", now)
		require.NoError(t, err)

		store := newMemStore(state)
		saga := NewAchievementFlowSaga(store, nil, fakeLocker{}, &captureSender{}, &capturePublisher{}, DefaultAchievementFlowConfig())

		first, err := saga.CheckAfterProgress(ctx, testAccountID, "quest.completed")
		require.NoError(t, err)
		require.True(t, first.HasNewAchievements())

		second, err := saga.CheckAfterProgress(ctx, testAccountID, "quest.completed")
		require.NoError(t, err)
		assert.False(t, second.HasNewAchievements())
	})

	t.Run("unlock cap bounds one run", func(t *testing.T) {
		state := newTestState(t)
		_, err := state.CompleteQuest("quest-1", now)
		require.NoError(t, err)
		require.True(t, state.UnlockSkill("iron-will", now).Applied)

		store := newMemStore(state)
		config := DefaultAchievementFlowConfig()
		config.MaxUnlocksPerRun = 1
		saga := NewAchievementFlowSaga(store, nil, fakeLocker{}, &captureSender{}, &capturePublisher{}, config)

		result, err := saga.CheckAfterProgress(ctx, testAccountID, "skill.unlocked")

		require.NoError(t, err)
		assert.Len(t, result.Unlocked, 1)

		// The rest surfaces on the following run.
		next, err := saga.CheckAfterProgress(ctx, testAccountID, "skill.unlocked")
		require.NoError(t, err)
		assert.Len(t, next.Unlocked, 1)
	})

	t.Run("missing profile fails with step context", func(t *testing.T) {
		saga := NewAchievementFlowSaga(newMemStore(), nil, fakeLocker{}, &captureSender{}, &capturePublisher{}, DefaultAchievementFlowConfig())

		_, err := saga.CheckAfterProgress(ctx, testAccountID, "quest.completed")

		require.Error(t, err)
		var flowErr *AchievementFlowError
		require.ErrorAs(t, err, &flowErr)
		assert.ErrorIs(t, err, shared.ErrProfileNotFound)
	})
}

// ──────────────────────────────────────────────────────────────────────────────
// ONBOARDING
// ──────────────────────────────────────────────────────────────────────────────

func TestOnboardingSaga(t *testing.T) {
	ctx := context.Background()

	newSaga := func() (*OnboardingSaga, *memAccounts, *memStore, *captureSender) {
		accounts := newMemAccounts()
		store := newMemStore()
		sender := &captureSender{}
		return NewOnboardingSaga(accounts, store, bcryptHasher{}, sender, &capturePublisher{}), accounts, store, sender
	}

	t.Run("registers a new hunter with a seeded profile", func(t *testing.T) {
		saga, accounts, store, sender := newSaga()

		result, err := saga.Execute(ctx, OnboardingInput{
			AccountID:  testAccountID,
			Name:       "  Sung Jinwoo  ",
			Credential: "arise-shadows",
		})

		require.NoError(t, err)
		assert.Equal(t, "Sung Jinwoo", result.Name)
		assert.Equal(t, 9, result.QuestCount)
		assert.Equal(t, 6, result.SkillCount)
		assert.Equal(t, 6, result.DungeonCount)
		assert.True(t, result.WelcomeSent)

		account, err := accounts.GetByID(ctx, testAccountID)
		require.NoError(t, err)
		assert.NotEqual(t, "arise-shadows", account.CredentialHash)

		state, err := store.Load(ctx, testAccountID)
		require.NoError(t, err)
		assert.Equal(t, 1, state.Character.Level.Int())

		require.Len(t, sender.sent, 1)
		assert.Equal(t, "welcome", string(sender.sent[0].Key))
	})

	t.Run("duplicate registration fails", func(t *testing.T) {
		saga, _, _, _ := newSaga()

		input := OnboardingInput{AccountID: testAccountID, Name: "Jinwoo", Credential: "arise-shadows"}
		_, err := saga.Execute(ctx, input)
		require.NoError(t, err)

		_, err = saga.Execute(ctx, input)
		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrProfileAlreadyExists)
	})

	t.Run("failed profile seed rolls back the account row", func(t *testing.T) {
		saga, accounts, store, _ := newSaga()
		store.saveErr = errors.New("storage down")

		input := OnboardingInput{AccountID: testAccountID, Name: "Jinwoo", Credential: "arise-shadows"}
		_, err := saga.Execute(ctx, input)
		require.Error(t, err)

		exists, err := accounts.Exists(ctx, testAccountID)
		require.NoError(t, err)
		assert.False(t, exists, "orphaned account row must not survive a failed seed")

		// The same hunter can register again once storage recovers.
		store.saveErr = nil
		result, err := saga.Execute(ctx, input)
		require.NoError(t, err)
		assert.Equal(t, "Jinwoo", result.Name)
	})

	t.Run("short credential fails validation", func(t *testing.T) {
		saga, _, store, _ := newSaga()

		_, err := saga.Execute(ctx, OnboardingInput{
			AccountID:  testAccountID,
			Name:       "Jinwoo",
			Credential: "short",
		})

		require.Error(t, err)
		assert.Zero(t, store.saves)
	})

	t.Run("authenticate verifies the stored credential", func(t *testing.T) {
		saga, _, _, _ := newSaga()

		_, err := saga.Execute(ctx, OnboardingInput{
			AccountID:  testAccountID,
			Name:       "Jinwoo",
			Credential: "arise-shadows",
		})
		require.NoError(t, err)

		assert.NoError(t, saga.Authenticate(ctx, testAccountID, "arise-shadows"))

		err = saga.Authenticate(ctx, testAccountID, "wrong-secret")
		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrUnauthorized)
	})
}
