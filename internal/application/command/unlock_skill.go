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
// UNLOCK SKILL COMMAND
// Spending a skill point and unlocking the skill are one atomic unit.
// Every business-rule violation is a silent no-op reported in the result.
// ══════════════════════════════════════════════════════════════════════════════

// UnlockSkillCommand contains the data to unlock a skill.
type UnlockSkillCommand struct {
	// AccountID is the profile owner.
	AccountID string

	// SkillID is the skill to unlock.
	SkillID string

	// CorrelationID for tracing.
	CorrelationID string
}

// Validate validates the command.
func (c UnlockSkillCommand) Validate() error {
	if c.AccountID == "" {
		return errors.New("unlock_skill: account_id is required")
	}
	if c.SkillID == "" {
		return errors.New("unlock_skill: skill_id is required")
	}
	return nil
}

// UnlockSkillResult contains the result of unlocking a skill.
type UnlockSkillResult struct {
	// Applied is false when the unlock was a no-op.
	Applied bool

	// Reason names the violated rule behind a no-op, empty otherwise.
	Reason string

	// SkillID is the requested skill.
	SkillID string

	// SkillName is the skill's display name (when the skill exists).
	SkillName string

	// PointsRemaining is the skill point balance after the command.
	PointsRemaining int

	// Events contains domain events generated.
	Events []shared.Event
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// UnlockSkillHandler handles the UnlockSkillCommand.
type UnlockSkillHandler struct {
	store     profile.Store
	cache     profile.Cache
	locker    profile.Locker
	sender    notification.Sender
	publisher shared.EventPublisher
}

// NewUnlockSkillHandler creates a new UnlockSkillHandler.
func NewUnlockSkillHandler(
	store profile.Store,
	cache profile.Cache,
	locker profile.Locker,
	sender notification.Sender,
	publisher shared.EventPublisher,
) *UnlockSkillHandler {
	return &UnlockSkillHandler{
		store:     store,
		cache:     cache,
		locker:    locker,
		sender:    sender,
		publisher: publisher,
	}
}

// Handle executes the unlock skill command.
func (h *UnlockSkillHandler) Handle(ctx context.Context, cmd UnlockSkillCommand) (*UnlockSkillResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	state, release, err := loadLocked(ctx, h.locker, h.store, cmd.AccountID)
	if err != nil {
		return nil, fmt.Errorf("unlock_skill: %w", err)
	}
	defer release()

	now := time.Now().UTC()
	outcome := state.UnlockSkill(cmd.SkillID, now)

	result := &UnlockSkillResult{
		Applied:         outcome.Applied,
		SkillID:         cmd.SkillID,
		SkillName:       outcome.SkillName,
		PointsRemaining: outcome.PointsRemaining,
	}

	if !outcome.Applied {
		if outcome.Reason != nil {
			result.Reason = outcome.Reason.Error()
		}
		return result, nil
	}

	if err := saveAndInvalidate(ctx, h.store, h.cache, state); err != nil {
		return nil, fmt.Errorf("unlock_skill: %w", err)
	}

	event := shared.NewSkillUnlockedEvent(cmd.AccountID, cmd.SkillID, outcome.SkillName, outcome.PointsRemaining)
	if cmd.CorrelationID != "" {
		event.BaseEvent = event.BaseEvent.WithCorrelationID(cmd.CorrelationID)
	}
	result.Events = append(result.Events, event)
	publishAll(h.publisher, result.Events)

	sendCandidate(ctx, h.sender, notification.BuildSkillUnlocked(
		shared.AccountID(cmd.AccountID), cmd.SkillID, outcome.SkillName, now, now))

	return result, nil
}
