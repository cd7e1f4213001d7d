package command

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/arise-hub/hunter-hub/internal/domain/notification"
	"github.com/arise-hub/hunter-hub/internal/domain/profile"
	"github.com/arise-hub/hunter-hub/internal/domain/shared"
	"github.com/arise-hub/hunter-hub/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// RESET DAILY QUESTS COMMAND
// The client-side reset path. Each profile load compares today against the
// account's last-check marker; when the UTC calendar day advanced, daily
// quests return to active and the marker moves forward. The batch job in
// the worker covers accounts whose clients never connect.
// ══════════════════════════════════════════════════════════════════════════════

// ResetDailyQuestsCommand contains the data to run a client-side reset check.
type ResetDailyQuestsCommand struct {
	// AccountID is the profile owner.
	AccountID string

	// Timestamp is the check time (defaults to now if zero).
	Timestamp time.Time

	// Force skips the marker comparison and resets unconditionally.
	Force bool

	// CorrelationID for tracing.
	CorrelationID string
}

// Validate validates the command.
func (c ResetDailyQuestsCommand) Validate() error {
	if c.AccountID == "" {
		return errors.New("reset_daily_quests: account_id is required")
	}
	return nil
}

// ResetDailyQuestsResult contains the result of the reset check.
type ResetDailyQuestsResult struct {
	// Performed is false when the marker already points at today.
	Performed bool

	// ResetCount is the number of daily quests returned to active.
	ResetCount int

	// CheckDate is the marker date after the command.
	CheckDate string

	// PendingDailies reports whether any daily quest is still active, so
	// clients can surface the reminder.
	PendingDailies bool

	// Events contains domain events generated.
	Events []shared.Event
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// ResetDailyQuestsHandler handles the ResetDailyQuestsCommand.
type ResetDailyQuestsHandler struct {
	store     profile.Store
	cache     profile.Cache
	locker    profile.Locker
	markers   profile.ResetMarkerStore
	sender    notification.Sender
	publisher shared.EventPublisher
}

// NewResetDailyQuestsHandler creates a new ResetDailyQuestsHandler.
func NewResetDailyQuestsHandler(
	store profile.Store,
	cache profile.Cache,
	locker profile.Locker,
	markers profile.ResetMarkerStore,
	sender notification.Sender,
	publisher shared.EventPublisher,
) *ResetDailyQuestsHandler {
	return &ResetDailyQuestsHandler{
		store:     store,
		cache:     cache,
		locker:    locker,
		markers:   markers,
		sender:    sender,
		publisher: publisher,
	}
}

// Handle executes the reset check.
func (h *ResetDailyQuestsHandler) Handle(ctx context.Context, cmd ResetDailyQuestsCommand) (*ResetDailyQuestsResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	now := nowOrDefault(cmd.Timestamp)
	today := timeutil.DateKey(now)
	result := &ResetDailyQuestsResult{CheckDate: today}

	if !cmd.Force {
		lastCheck, err := h.markers.LastCheck(ctx, cmd.AccountID)
		if err != nil {
			return nil, fmt.Errorf("reset_daily_quests: read marker: %w", err)
		}
		if !lastCheck.IsZero() && timeutil.SameDay(lastCheck, now) {
			// Marker already points at today. Running the check twice on
			// the same day must be invisible.
			return result, nil
		}
	}

	state, release, err := loadLocked(ctx, h.locker, h.store, cmd.AccountID)
	if err != nil {
		return nil, fmt.Errorf("reset_daily_quests: %w", err)
	}
	defer release()

	// Force resets every daily regardless of when it completed; the normal
	// path only touches dailies finished on an earlier UTC day.
	var count int
	if cmd.Force {
		count = state.ResetDailyQuests()
	} else {
		count = state.ResetOutdatedDailies(now)
	}
	result.Performed = true
	result.ResetCount = count

	if count > 0 {
		if err := saveAndInvalidate(ctx, h.store, h.cache, state); err != nil {
			return nil, fmt.Errorf("reset_daily_quests: %w", err)
		}

		event := shared.NewDailyQuestsResetEvent(cmd.AccountID, count, "client")
		if cmd.CorrelationID != "" {
			event.BaseEvent = event.BaseEvent.WithCorrelationID(cmd.CorrelationID)
		}
		result.Events = append(result.Events, event)
		publishAll(h.publisher, result.Events)

		sendCandidate(ctx, h.sender, notification.BuildDailyReset(
			shared.AccountID(cmd.AccountID), today, count))
	}

	result.PendingDailies = state.HasUncompletedDailies()

	// The marker moves even when nothing reset: the day was checked.
	if err := h.markers.SetLastCheck(ctx, cmd.AccountID, timeutil.StartOfDay(now)); err != nil {
		return nil, fmt.Errorf("reset_daily_quests: write marker: %w", err)
	}

	return result, nil
}
