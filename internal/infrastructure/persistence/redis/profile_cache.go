package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/arise-hub/hunter-hub/internal/domain/profile"
	"github.com/arise-hub/hunter-hub/internal/domain/shared"
	"github.com/arise-hub/hunter-hub/internal/infrastructure/persistence/codec"
)

// ══════════════════════════════════════════════════════════════════════════════
// PROFILE CACHE
// ══════════════════════════════════════════════════════════════════════════════

// ProfileCache implements profile.Cache backed by Redis.
// Profiles are stored as the same encoded document Postgres persists, so a
// cache hit and a store load decode through one code path.
type ProfileCache struct {
	cache *Cache
}

// NewProfileCache creates a new ProfileCache.
func NewProfileCache(cache *Cache) *ProfileCache {
	return &ProfileCache{cache: cache}
}

// Get returns the cached aggregate or shared.ErrNotFound on a miss.
func (c *ProfileCache) Get(ctx context.Context, accountID string) (*profile.State, error) {
	data, err := c.cache.GetBytes(ctx, ProfileKey(accountID))
	if err != nil {
		if errors.Is(err, ErrCacheMiss) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("failed to read cached profile: %w", err)
	}

	state, err := codec.DecodeState(data)
	if err != nil {
		// A corrupt entry behaves like a miss; the store is authoritative.
		_ = c.cache.Delete(ctx, ProfileKey(accountID))
		return nil, shared.ErrNotFound
	}

	return state, nil
}

// Set stores the aggregate with the given TTL.
func (c *ProfileCache) Set(ctx context.Context, state *profile.State, ttl time.Duration) error {
	if state == nil {
		return ErrCacheNilValue
	}
	if ttl <= 0 {
		ttl = TTLProfileCache
	}

	data, err := codec.EncodeState(state)
	if err != nil {
		return fmt.Errorf("failed to encode profile: %w", err)
	}

	return c.cache.SetBytes(ctx, ProfileKey(state.AccountID), data, ttl)
}

// Invalidate removes the cached aggregate.
func (c *ProfileCache) Invalidate(ctx context.Context, accountID string) error {
	return c.cache.Delete(ctx, ProfileKey(accountID))
}
