package query

import (
	"context"
	"time"

	"github.com/arise-hub/hunter-hub/internal/domain/profile"
	"github.com/arise-hub/hunter-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET TOTAL PROGRESS QUERY
// Returns the combined completion summary across quests, skills, dungeons
// and achievements. This is the number behind the profile progress bar.
// ══════════════════════════════════════════════════════════════════════════════

// GetTotalProgressQuery contains the parameters for a progress read.
type GetTotalProgressQuery struct {
	// AccountID identifies the hunter.
	AccountID string
}

// Validate checks the query parameters.
func (q *GetTotalProgressQuery) Validate() error {
	if _, err := shared.NewAccountID(q.AccountID); err != nil {
		return err
	}
	return nil
}

// GetTotalProgressResult contains the completion summary.
type GetTotalProgressResult struct {
	AccountID string `json:"account_id"`

	// Progress is the per-collection and combined completion breakdown.
	Progress profile.TotalProgress `json:"progress"`

	// Level and Experience give the summary its headline numbers.
	Level      int `json:"level"`
	Experience int `json:"experience"`

	GeneratedAt time.Time `json:"generated_at"`
}

// GetTotalProgressHandler handles progress reads.
type GetTotalProgressHandler struct {
	store profile.Store
	cache profile.Cache
}

// NewGetTotalProgressHandler creates a new handler.
func NewGetTotalProgressHandler(store profile.Store, cache profile.Cache) *GetTotalProgressHandler {
	return &GetTotalProgressHandler{
		store: store,
		cache: cache,
	}
}

// Handle executes the query.
func (h *GetTotalProgressHandler) Handle(ctx context.Context, query GetTotalProgressQuery) (*GetTotalProgressResult, error) {
	if err := query.Validate(); err != nil {
		return nil, shared.WrapError("query", "GetTotalProgress", shared.ErrValidation, err.Error(), err)
	}

	state, err := h.load(ctx, query.AccountID)
	if err != nil {
		return nil, shared.WrapError("query", "GetTotalProgress", shared.ErrProfileNotFound, "profile not found", err)
	}

	return &GetTotalProgressResult{
		AccountID:   state.AccountID,
		Progress:    state.Progress(),
		Level:       state.Character.Level.Int(),
		Experience:  int(state.Character.Experience),
		GeneratedAt: time.Now().UTC(),
	}, nil
}

func (h *GetTotalProgressHandler) load(ctx context.Context, accountID string) (*profile.State, error) {
	if h.cache != nil {
		if state, err := h.cache.Get(ctx, accountID); err == nil && state != nil {
			return state, nil
		}
	}
	return h.store.Load(ctx, accountID)
}
