package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/arise-hub/hunter-hub/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// RESET MARKER STORE
// ══════════════════════════════════════════════════════════════════════════════

// ResetMarkerStore implements profile.ResetMarkerStore backed by Redis.
// Markers are stored as UTC date keys. A two day TTL is enough because the
// reset check only ever compares the marker against today.
type ResetMarkerStore struct {
	cache *Cache
	ttl   time.Duration
}

// NewResetMarkerStore creates a new ResetMarkerStore.
func NewResetMarkerStore(cache *Cache) *ResetMarkerStore {
	return &ResetMarkerStore{cache: cache, ttl: TTLResetMarker}
}

// LastCheck returns the stored marker date, zero time when absent.
func (s *ResetMarkerStore) LastCheck(ctx context.Context, accountID string) (time.Time, error) {
	val, err := s.cache.GetString(ctx, ResetMarkerKey(accountID))
	if err != nil {
		if errors.Is(err, ErrCacheMiss) {
			return time.Time{}, nil
		}
		return time.Time{}, fmt.Errorf("failed to read reset marker: %w", err)
	}

	day, err := timeutil.ParseDateKey(val)
	if err != nil {
		// An unreadable marker behaves like a missing one; the next check
		// rewrites it.
		return time.Time{}, nil
	}

	return day, nil
}

// SetLastCheck stores the marker date for the account.
func (s *ResetMarkerStore) SetLastCheck(ctx context.Context, accountID string, day time.Time) error {
	return s.cache.SetString(ctx, ResetMarkerKey(accountID), timeutil.DateKey(day), s.ttl)
}
