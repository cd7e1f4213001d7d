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
// COMPLETE QUEST COMMAND
// The single XP entry point for quests. Completing an already-completed
// quest succeeds as a no-op; a missing quest id is the caller's error.
// ══════════════════════════════════════════════════════════════════════════════

// CompleteQuestCommand contains the data to complete a quest.
type CompleteQuestCommand struct {
	// AccountID is the profile owner.
	AccountID string

	// QuestID is the quest to complete.
	QuestID string

	// Timestamp is when the completion occurred (defaults to now if zero).
	Timestamp time.Time

	// CorrelationID for tracing.
	CorrelationID string
}

// Validate validates the command.
func (c CompleteQuestCommand) Validate() error {
	if c.AccountID == "" {
		return errors.New("complete_quest: account_id is required")
	}
	if c.QuestID == "" {
		return errors.New("complete_quest: quest_id is required")
	}
	return nil
}

// CompleteQuestResult contains the result of completing a quest.
type CompleteQuestResult struct {
	// Applied is false when the quest was already completed.
	Applied bool

	// QuestID is the completed quest.
	QuestID string

	// QuestTitle is the quest's display title.
	QuestTitle string

	// XPEarned is the experience awarded (zero on a no-op).
	XPEarned int

	// LeveledUp indicates the completion crossed a level threshold.
	LeveledUp bool

	// NewLevel is the character level after the completion.
	NewLevel int

	// Events contains domain events generated.
	Events []shared.Event

	// CompletedAt is when the quest was completed.
	CompletedAt time.Time
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// CompleteQuestHandler handles the CompleteQuestCommand.
type CompleteQuestHandler struct {
	store     profile.Store
	cache     profile.Cache
	locker    profile.Locker
	sender    notification.Sender
	publisher shared.EventPublisher
}

// NewCompleteQuestHandler creates a new CompleteQuestHandler.
func NewCompleteQuestHandler(
	store profile.Store,
	cache profile.Cache,
	locker profile.Locker,
	sender notification.Sender,
	publisher shared.EventPublisher,
) *CompleteQuestHandler {
	return &CompleteQuestHandler{
		store:     store,
		cache:     cache,
		locker:    locker,
		sender:    sender,
		publisher: publisher,
	}
}

// Handle executes the complete quest command.
func (h *CompleteQuestHandler) Handle(ctx context.Context, cmd CompleteQuestCommand) (*CompleteQuestResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	now := nowOrDefault(cmd.Timestamp)

	state, release, err := loadLocked(ctx, h.locker, h.store, cmd.AccountID)
	if err != nil {
		return nil, fmt.Errorf("complete_quest: %w", err)
	}
	defer release()

	outcome, err := state.CompleteQuest(cmd.QuestID, now)
	if err != nil {
		return nil, fmt.Errorf("complete_quest: %w", err)
	}

	result := &CompleteQuestResult{
		Applied:     outcome.Applied,
		QuestID:     cmd.QuestID,
		CompletedAt: now,
	}
	if outcome.Quest != nil {
		result.QuestTitle = outcome.Quest.Title
	}

	// Idempotent repeat: nothing changed, nothing to save or announce.
	if !outcome.Applied {
		result.NewLevel = int(state.Character.Level)
		return result, nil
	}

	if err := saveAndInvalidate(ctx, h.store, h.cache, state); err != nil {
		return nil, fmt.Errorf("complete_quest: %w", err)
	}

	result.XPEarned = outcome.Quest.Experience
	result.LeveledUp = outcome.Gain.LeveledUp
	result.NewLevel = int(state.Character.Level)

	questEvent := shared.NewQuestCompletedEvent(
		cmd.AccountID, cmd.QuestID, outcome.Quest.Title, outcome.Quest.Experience, now)
	if cmd.CorrelationID != "" {
		questEvent.BaseEvent = questEvent.BaseEvent.WithCorrelationID(cmd.CorrelationID)
	}
	result.Events = append(result.Events, questEvent)
	result.Events = append(result.Events, levelUpEvents(cmd.AccountID, outcome.Gain, state.Character)...)
	publishAll(h.publisher, result.Events)

	accountID := shared.AccountID(cmd.AccountID)
	sendCandidate(ctx, h.sender, notification.BuildQuestCompleted(
		accountID, cmd.QuestID, outcome.Quest.Title, outcome.Quest.Experience, now, now))
	notifyGain(ctx, h.sender, accountID, state.Character, outcome.Gain)

	return result, nil
}
