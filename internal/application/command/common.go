// Package command contains write operations (CQRS - Commands).
//
// Every handler follows the same shape: acquire the per-account lock, load
// the aggregate, run one engine transition, save, then publish events and
// push notification candidates through the dedup layer. Suppressed
// notifications and observable no-ops are normal outcomes, not errors.
package command

import (
	"context"
	"fmt"
	"time"

	"github.com/arise-hub/hunter-hub/internal/domain/hunter"
	"github.com/arise-hub/hunter-hub/internal/domain/notification"
	"github.com/arise-hub/hunter-hub/internal/domain/profile"
	"github.com/arise-hub/hunter-hub/internal/domain/shared"
)

// loadLocked acquires the account lock and loads the aggregate.
// The returned release function must be deferred by the caller.
func loadLocked(ctx context.Context, locker profile.Locker, store profile.Store, accountID string) (*profile.State, func(), error) {
	release, err := locker.Acquire(ctx, accountID)
	if err != nil {
		return nil, nil, fmt.Errorf("acquire lock for %s: %w", accountID, err)
	}

	state, err := store.Load(ctx, accountID)
	if err != nil {
		release()
		return nil, nil, fmt.Errorf("load profile %s: %w", accountID, err)
	}

	return state, release, nil
}

// saveAndInvalidate persists the aggregate and drops the cached copy.
// A cache invalidation failure is logged by the cache itself and never
// fails the command: the cache entry expires on its own TTL.
func saveAndInvalidate(ctx context.Context, store profile.Store, cache profile.Cache, state *profile.State) error {
	if err := store.Save(ctx, state); err != nil {
		return fmt.Errorf("save profile %s: %w", state.AccountID, err)
	}
	if cache != nil {
		_ = cache.Invalidate(ctx, state.AccountID)
	}
	return nil
}

// publishAll publishes events best-effort. Event delivery never fails a
// command that already persisted its state change.
func publishAll(publisher shared.EventPublisher, events []shared.Event) {
	if publisher == nil {
		return
	}
	for _, event := range events {
		_ = publisher.Publish(event)
	}
}

// sendCandidate pushes one candidate through the dedup layer.
// Nil candidates (builder declined) are skipped silently.
func sendCandidate(ctx context.Context, sender notification.Sender, candidate *notification.Notification) {
	if sender == nil || candidate == nil {
		return
	}
	_, _ = sender.Send(ctx, candidate)
}

// notifyGain emits the notifications a level-up produces: the level toast
// plus the persistent unspent-points reminders keyed by count.
func notifyGain(ctx context.Context, sender notification.Sender, accountID shared.AccountID, character *hunter.Character, gain hunter.GainResult) {
	if !gain.LeveledUp {
		return
	}
	sendCandidate(ctx, sender, notification.BuildLevelUp(accountID, int(gain.NewLevel)))
	sendCandidate(ctx, sender, notification.BuildAttributePointsAvailable(accountID, character.AttributePoints))
	sendCandidate(ctx, sender, notification.BuildSkillPointsAvailable(accountID, character.SkillPoints))
}

// levelUpEvents builds the events a level-up produces.
func levelUpEvents(accountID string, gain hunter.GainResult, character *hunter.Character) []shared.Event {
	if !gain.LeveledUp {
		return nil
	}
	return []shared.Event{
		shared.NewLevelUpEvent(accountID, int(gain.OldLevel), int(gain.NewLevel),
			character.AttributePoints, character.SkillPoints),
	}
}

// nowOrDefault returns ts unless it is zero.
func nowOrDefault(ts time.Time) time.Time {
	if ts.IsZero() {
		return time.Now().UTC()
	}
	return ts
}
