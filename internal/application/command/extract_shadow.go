package command

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/arise-hub/hunter-hub/internal/domain/notification"
	"github.com/arise-hub/hunter-hub/internal/domain/profile"
	"github.com/arise-hub/hunter-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// EXTRACT SHADOW COMMAND
// One shadow per completed quest. The shadow's stat bonus lands on the
// character immediately and permanently.
// ══════════════════════════════════════════════════════════════════════════════

// ExtractShadowCommand contains the data to extract a shadow.
type ExtractShadowCommand struct {
	// AccountID is the profile owner.
	AccountID string

	// QuestID is the completed source quest.
	QuestID string

	// ShadowID is optional; a UUID is generated when empty.
	ShadowID string

	// CorrelationID for tracing.
	CorrelationID string
}

// Validate validates the command.
func (c ExtractShadowCommand) Validate() error {
	if c.AccountID == "" {
		return errors.New("extract_shadow: account_id is required")
	}
	if c.QuestID == "" {
		return errors.New("extract_shadow: quest_id is required")
	}
	return nil
}

// ExtractShadowResult contains the result of extracting a shadow.
type ExtractShadowResult struct {
	// Applied is false when the extraction was a no-op.
	Applied bool

	// Reason names the violated rule behind a no-op, empty otherwise.
	Reason string

	// ShadowID is the extracted shadow's id.
	ShadowID string

	// ShadowName is the extracted shadow's name.
	ShadowName string

	// BonusStat and BonusValue describe the applied stat bonus.
	BonusStat  string
	BonusValue int

	// Events contains domain events generated.
	Events []shared.Event
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// ExtractShadowHandler handles the ExtractShadowCommand.
type ExtractShadowHandler struct {
	store     profile.Store
	cache     profile.Cache
	locker    profile.Locker
	sender    notification.Sender
	publisher shared.EventPublisher
}

// NewExtractShadowHandler creates a new ExtractShadowHandler.
func NewExtractShadowHandler(
	store profile.Store,
	cache profile.Cache,
	locker profile.Locker,
	sender notification.Sender,
	publisher shared.EventPublisher,
) *ExtractShadowHandler {
	return &ExtractShadowHandler{
		store:     store,
		cache:     cache,
		locker:    locker,
		sender:    sender,
		publisher: publisher,
	}
}

// Handle executes the extract shadow command.
func (h *ExtractShadowHandler) Handle(ctx context.Context, cmd ExtractShadowCommand) (*ExtractShadowResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	shadowID := cmd.ShadowID
	if shadowID == "" {
		shadowID = uuid.NewString()
	}

	state, release, err := loadLocked(ctx, h.locker, h.store, cmd.AccountID)
	if err != nil {
		return nil, fmt.Errorf("extract_shadow: %w", err)
	}
	defer release()

	now := time.Now().UTC()
	outcome := state.ExtractShadow(shadowID, cmd.QuestID, now)

	result := &ExtractShadowResult{Applied: outcome.Applied, ShadowID: shadowID}

	if !outcome.Applied {
		if outcome.Reason != nil {
			result.Reason = outcome.Reason.Error()
		}
		return result, nil
	}

	if err := saveAndInvalidate(ctx, h.store, h.cache, state); err != nil {
		return nil, fmt.Errorf("extract_shadow: %w", err)
	}

	result.ShadowName = outcome.Shadow.Name
	result.BonusStat = string(outcome.Shadow.Bonus.Stat)
	result.BonusValue = outcome.Shadow.Bonus.Value

	event := shared.NewShadowExtractedEvent(
		cmd.AccountID, shadowID, outcome.Shadow.Name, cmd.QuestID,
		string(outcome.Shadow.Bonus.Stat), outcome.Shadow.Bonus.Value)
	if cmd.CorrelationID != "" {
		event.BaseEvent = event.BaseEvent.WithCorrelationID(cmd.CorrelationID)
	}
	result.Events = append(result.Events, event)
	publishAll(h.publisher, result.Events)

	sendCandidate(ctx, h.sender, notification.BuildShadowExtracted(
		shared.AccountID(cmd.AccountID), shadowID, outcome.Shadow.Name, outcome.Shadow.Bonus, now, now))

	return result, nil
}
