package query

import (
	"context"
	"sort"
	"time"

	"github.com/arise-hub/hunter-hub/internal/domain/achievement"
	"github.com/arise-hub/hunter-hub/internal/domain/profile"
	"github.com/arise-hub/hunter-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET ACHIEVEMENTS QUERY
// Projects the achievement list with derived progress. Progress is never
// stored; it is recomputed from the profile snapshot on every read. The
// evaluation is memoized on the snapshot hash, so repeated reads of an
// unchanged profile skip the recompute.
// ══════════════════════════════════════════════════════════════════════════════

// GetAchievementsQuery contains the parameters for an achievement read.
type GetAchievementsQuery struct {
	// AccountID identifies the hunter.
	AccountID string

	// IncludeHidden includes locked hidden achievements in the listing.
	// Unlocked hidden achievements are always shown.
	IncludeHidden bool

	// Category filters by category, empty means all.
	Category string

	// OnlyUnlocked returns unlocked achievements only.
	OnlyUnlocked bool
}

// Validate checks the query parameters.
func (q *GetAchievementsQuery) Validate() error {
	if _, err := shared.NewAccountID(q.AccountID); err != nil {
		return err
	}
	if q.Category != "" && !achievement.Category(q.Category).IsValid() {
		return achievement.ErrInvalidCategory
	}
	return nil
}

// AchievementStatusDTO is the read model of one achievement with progress.
type AchievementStatusDTO struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category"`
	Rarity      string `json:"rarity"`
	Hidden      bool   `json:"hidden,omitempty"`

	Unlocked   bool       `json:"unlocked"`
	UnlockedAt *time.Time `json:"unlocked_at,omitempty"`

	// Current and Target describe the requirement counter.
	Current int `json:"current"`
	Target  int `json:"target"`

	// Progress is min(100, current/target*100).
	Progress int `json:"progress"`

	RewardXP    int    `json:"reward_xp,omitempty"`
	RewardTitle string `json:"reward_title,omitempty"`
	RewardBadge string `json:"reward_badge,omitempty"`
}

// GetAchievementsResult contains the achievement listing.
type GetAchievementsResult struct {
	AccountID string `json:"account_id"`

	Achievements []AchievementStatusDTO `json:"achievements"`

	UnlockedCount int `json:"unlocked_count"`
	TotalCount    int `json:"total_count"`

	// FromMemo reports whether the evaluation was served from the memo cache.
	FromMemo bool `json:"-"`

	GeneratedAt time.Time `json:"generated_at"`
}

// EvaluationMemo caches evaluated achievement listings keyed by the
// snapshot hash. Entries for stale hashes simply stop being requested.
type EvaluationMemo interface {
	Get(ctx context.Context, accountID, hash string) ([]AchievementStatusDTO, bool)
	Set(ctx context.Context, accountID, hash string, statuses []AchievementStatusDTO)
}

// GetAchievementsHandler handles achievement reads.
type GetAchievementsHandler struct {
	store profile.Store
	cache profile.Cache
	memo  EvaluationMemo
}

// NewGetAchievementsHandler creates a new handler. memo may be nil.
func NewGetAchievementsHandler(store profile.Store, cache profile.Cache, memo EvaluationMemo) *GetAchievementsHandler {
	return &GetAchievementsHandler{
		store: store,
		cache: cache,
		memo:  memo,
	}
}

// Handle executes the query.
func (h *GetAchievementsHandler) Handle(ctx context.Context, query GetAchievementsQuery) (*GetAchievementsResult, error) {
	if err := query.Validate(); err != nil {
		return nil, shared.WrapError("query", "GetAchievements", shared.ErrValidation, err.Error(), err)
	}

	state, err := h.load(ctx, query.AccountID)
	if err != nil {
		return nil, shared.WrapError("query", "GetAchievements", shared.ErrProfileNotFound, "profile not found", err)
	}

	statuses, fromMemo := h.evaluate(ctx, state)

	result := &GetAchievementsResult{
		AccountID:   state.AccountID,
		FromMemo:    fromMemo,
		GeneratedAt: time.Now().UTC(),
	}

	for _, dto := range statuses {
		result.TotalCount++
		if dto.Unlocked {
			result.UnlockedCount++
		}

		if query.OnlyUnlocked && !dto.Unlocked {
			continue
		}
		if query.Category != "" && dto.Category != query.Category {
			continue
		}
		// Locked hidden achievements stay out of the listing unless asked for.
		if dto.Hidden && !dto.Unlocked && !query.IncludeHidden {
			continue
		}
		result.Achievements = append(result.Achievements, dto)
	}

	return result, nil
}

// load reads the profile through the cache without repopulating it;
// the profile query owns cache population.
func (h *GetAchievementsHandler) load(ctx context.Context, accountID string) (*profile.State, error) {
	if h.cache != nil {
		if state, err := h.cache.Get(ctx, accountID); err == nil && state != nil {
			return state, nil
		}
	}
	return h.store.Load(ctx, accountID)
}

// evaluate runs the evaluator, memoized on the snapshot hash. The hash
// covers the stored unlock state too, so an unlock invalidates the memo
// entry even when no snapshot field moved.
func (h *GetAchievementsHandler) evaluate(ctx context.Context, state *profile.State) ([]AchievementStatusDTO, bool) {
	snap := state.Snapshot()
	hash := snap.Hash(state.Achievements)

	if h.memo != nil {
		if cached, ok := h.memo.Get(ctx, state.AccountID, hash); ok {
			return cached, true
		}
	}

	statuses := achievement.Evaluate(snap, state.Achievements)
	dtos := make([]AchievementStatusDTO, 0, len(statuses))
	for _, st := range statuses {
		a := st.Achievement
		dtos = append(dtos, AchievementStatusDTO{
			ID:          a.ID,
			Title:       a.Title,
			Description: a.Description,
			Category:    string(a.Category),
			Rarity:      string(a.Rarity),
			Hidden:      a.Hidden,
			Unlocked:    a.Unlocked,
			UnlockedAt:  a.UnlockedAt,
			Current:     st.Current,
			Target:      a.Requirement.Value,
			Progress:    st.Progress,
			RewardXP:    a.Rewards.Experience,
			RewardTitle: a.Rewards.Title,
			RewardBadge: a.Rewards.Badge,
		})
	}

	// Unlocked first, then by progress descending.
	sort.SliceStable(dtos, func(i, j int) bool {
		if dtos[i].Unlocked != dtos[j].Unlocked {
			return dtos[i].Unlocked
		}
		return dtos[i].Progress > dtos[j].Progress
	})

	if h.memo != nil {
		h.memo.Set(ctx, state.AccountID, hash, dtos)
	}

	return dtos, false
}
