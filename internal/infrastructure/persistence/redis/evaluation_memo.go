package redis

import (
	"context"
	"time"

	"github.com/arise-hub/hunter-hub/internal/application/query"
)

// ══════════════════════════════════════════════════════════════════════════════
// EVALUATION MEMO
// ══════════════════════════════════════════════════════════════════════════════

// EvaluationMemo implements query.EvaluationMemo backed by Redis.
// Entries are keyed by account and snapshot hash, so a changed profile
// always misses and a stale entry is never served. The memo is best-effort:
// Redis errors degrade to a miss and evaluation runs again.
type EvaluationMemo struct {
	cache *Cache
	ttl   time.Duration
}

// NewEvaluationMemo creates a new EvaluationMemo.
func NewEvaluationMemo(cache *Cache, ttl time.Duration) *EvaluationMemo {
	if ttl <= 0 {
		ttl = TTLEvaluationMemo
	}
	return &EvaluationMemo{cache: cache, ttl: ttl}
}

// Get returns the memoized statuses for the snapshot hash, if present.
func (m *EvaluationMemo) Get(ctx context.Context, accountID, hash string) ([]query.AchievementStatusDTO, bool) {
	var statuses []query.AchievementStatusDTO
	if err := m.cache.Get(ctx, EvaluationKey(accountID, hash), &statuses); err != nil {
		return nil, false
	}
	return statuses, true
}

// Set memoizes the statuses for the snapshot hash.
func (m *EvaluationMemo) Set(ctx context.Context, accountID, hash string, statuses []query.AchievementStatusDTO) {
	_ = m.cache.Set(ctx, EvaluationKey(accountID, hash), statuses, m.ttl)
}
