package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/arise-hub/hunter-hub/internal/domain/profile"
	"github.com/arise-hub/hunter-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// ALLOCATE ATTRIBUTE COMMAND
// ══════════════════════════════════════════════════════════════════════════════

// AllocateAttributeCommand contains the data to spend one attribute point.
type AllocateAttributeCommand struct {
	// AccountID is the profile owner.
	AccountID string

	// Stat is the attribute to raise.
	Stat string

	// CorrelationID for tracing.
	CorrelationID string
}

// Validate validates the command.
func (c AllocateAttributeCommand) Validate() error {
	if c.AccountID == "" {
		return errors.New("allocate_attribute: account_id is required")
	}
	if c.Stat == "" {
		return errors.New("allocate_attribute: stat is required")
	}
	return nil
}

// AllocateAttributeResult contains the result of spending a point.
type AllocateAttributeResult struct {
	// Applied is false when the allocation was a no-op.
	Applied bool

	// Reason names the violated rule behind a no-op, empty otherwise.
	Reason string

	// Stat is the raised attribute.
	Stat string

	// NewValue is the attribute value after the allocation.
	NewValue int

	// PointsRemaining is the attribute point balance after the command.
	PointsRemaining int
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// AllocateAttributeHandler handles the AllocateAttributeCommand.
type AllocateAttributeHandler struct {
	store  profile.Store
	cache  profile.Cache
	locker profile.Locker
}

// NewAllocateAttributeHandler creates a new AllocateAttributeHandler.
func NewAllocateAttributeHandler(store profile.Store, cache profile.Cache, locker profile.Locker) *AllocateAttributeHandler {
	return &AllocateAttributeHandler{store: store, cache: cache, locker: locker}
}

// Handle executes the allocate attribute command.
func (h *AllocateAttributeHandler) Handle(ctx context.Context, cmd AllocateAttributeCommand) (*AllocateAttributeResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	stat, err := shared.NewStatType(cmd.Stat)
	if err != nil {
		return nil, fmt.Errorf("allocate_attribute: %w", err)
	}

	state, release, err := loadLocked(ctx, h.locker, h.store, cmd.AccountID)
	if err != nil {
		return nil, fmt.Errorf("allocate_attribute: %w", err)
	}
	defer release()

	outcome := state.SpendAttributePoint(stat)

	result := &AllocateAttributeResult{
		Applied:         outcome.Applied,
		Stat:            string(outcome.Stat),
		NewValue:        outcome.NewValue,
		PointsRemaining: outcome.PointsRemaining,
	}

	if !outcome.Applied {
		if outcome.Reason != nil {
			result.Reason = outcome.Reason.Error()
		}
		return result, nil
	}

	if err := saveAndInvalidate(ctx, h.store, h.cache, state); err != nil {
		return nil, fmt.Errorf("allocate_attribute: %w", err)
	}

	return result, nil
}
