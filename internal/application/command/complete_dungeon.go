package command

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/arise-hub/hunter-hub/internal/domain/notification"
	"github.com/arise-hub/hunter-hub/internal/domain/profile"
	"github.com/arise-hub/hunter-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// COMPLETE DUNGEON COMMAND
// Clearing a dungeon awards its XP and opens the successor gate named on
// the cleared dungeon, regardless of the successor's own requirements.
// ══════════════════════════════════════════════════════════════════════════════

// CompleteDungeonCommand contains the data to complete a dungeon.
type CompleteDungeonCommand struct {
	// AccountID is the profile owner.
	AccountID string

	// DungeonID is the dungeon to clear.
	DungeonID string

	// CorrelationID for tracing.
	CorrelationID string
}

// Validate validates the command.
func (c CompleteDungeonCommand) Validate() error {
	if c.AccountID == "" {
		return errors.New("complete_dungeon: account_id is required")
	}
	if c.DungeonID == "" {
		return errors.New("complete_dungeon: dungeon_id is required")
	}
	return nil
}

// CompleteDungeonResult contains the result of completing a dungeon.
type CompleteDungeonResult struct {
	// Applied is false when the clear was a no-op.
	Applied bool

	// Reason names the violated rule behind a no-op, empty otherwise.
	Reason string

	// DungeonID is the cleared dungeon.
	DungeonID string

	// DungeonName is the dungeon's display name.
	DungeonName string

	// XPEarned is the experience awarded (zero on a no-op).
	XPEarned int

	// LeveledUp indicates the clear crossed a level threshold.
	LeveledUp bool

	// UnlockedID is the successor opened by this clear, empty if none.
	UnlockedID string

	// Events contains domain events generated.
	Events []shared.Event
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// CompleteDungeonHandler handles the CompleteDungeonCommand.
type CompleteDungeonHandler struct {
	store     profile.Store
	cache     profile.Cache
	locker    profile.Locker
	sender    notification.Sender
	publisher shared.EventPublisher
}

// NewCompleteDungeonHandler creates a new CompleteDungeonHandler.
func NewCompleteDungeonHandler(
	store profile.Store,
	cache profile.Cache,
	locker profile.Locker,
	sender notification.Sender,
	publisher shared.EventPublisher,
) *CompleteDungeonHandler {
	return &CompleteDungeonHandler{
		store:     store,
		cache:     cache,
		locker:    locker,
		sender:    sender,
		publisher: publisher,
	}
}

// Handle executes the complete dungeon command.
func (h *CompleteDungeonHandler) Handle(ctx context.Context, cmd CompleteDungeonCommand) (*CompleteDungeonResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	state, release, err := loadLocked(ctx, h.locker, h.store, cmd.AccountID)
	if err != nil {
		return nil, fmt.Errorf("complete_dungeon: %w", err)
	}
	defer release()

	outcome := state.CompleteDungeon(cmd.DungeonID, time.Now().UTC())

	result := &CompleteDungeonResult{Applied: outcome.Applied, DungeonID: cmd.DungeonID}
	if outcome.Dungeon != nil {
		result.DungeonName = outcome.Dungeon.Name
	}

	if !outcome.Applied {
		if outcome.Reason != nil {
			result.Reason = outcome.Reason.Error()
		}
		return result, nil
	}

	if err := saveAndInvalidate(ctx, h.store, h.cache, state); err != nil {
		return nil, fmt.Errorf("complete_dungeon: %w", err)
	}

	result.XPEarned = outcome.Dungeon.Experience
	result.LeveledUp = outcome.Gain.LeveledUp
	if outcome.Unlocked != nil {
		result.UnlockedID = outcome.Unlocked.ID
	}

	event := shared.NewDungeonCompletedEvent(
		cmd.AccountID, cmd.DungeonID, outcome.Dungeon.Name,
		outcome.Dungeon.Experience, result.UnlockedID)
	if cmd.CorrelationID != "" {
		event.BaseEvent = event.BaseEvent.WithCorrelationID(cmd.CorrelationID)
	}
	result.Events = append(result.Events, event)
	result.Events = append(result.Events, levelUpEvents(cmd.AccountID, outcome.Gain, state.Character)...)
	publishAll(h.publisher, result.Events)

	notifyGain(ctx, h.sender, shared.AccountID(cmd.AccountID), state.Character, outcome.Gain)

	return result, nil
}
