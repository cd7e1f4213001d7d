// Package saga contains complex business processes that orchestrate
// multiple domain operations in a coordinated manner.
package saga

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/arise-hub/hunter-hub/internal/domain/achievement"
	"github.com/arise-hub/hunter-hub/internal/domain/notification"
	"github.com/arise-hub/hunter-hub/internal/domain/profile"
	"github.com/arise-hub/hunter-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// ACHIEVEMENT FLOW SAGA
// Flow: Load Profile → Evaluate Snapshot → Unlock Pending → Award Reward XP →
//
//	Save → Send Notifications → Publish Events
//
// Unlocks are one-way: once granted, an achievement never re-evaluates.
// The evaluation itself is pure; only the unlock pass mutates the profile.
// ══════════════════════════════════════════════════════════════════════════════

// AchievementCheckInput contains data needed to check for new achievements.
type AchievementCheckInput struct {
	// AccountID - the profile to check achievements for.
	AccountID string

	// TriggerEvent - what triggered this check (e.g., "quest_completed").
	TriggerEvent string

	// CorrelationID for tracing.
	CorrelationID string
}

// Validate checks if the input is valid.
func (i AchievementCheckInput) Validate() error {
	if i.AccountID == "" {
		return errors.New("achievement_flow: account ID is required")
	}
	return nil
}

// UnlockedAchievement describes one achievement granted by the flow.
type UnlockedAchievement struct {
	ID       string
	Title    string
	Rarity   string
	RewardXP int
	Badge    string
	NewTitle string
}

// AchievementFlowResult contains the result of achievement processing.
type AchievementFlowResult struct {
	// AccountID - the profile that received achievements.
	AccountID string

	// Unlocked - list of newly unlocked achievements.
	Unlocked []UnlockedAchievement

	// TotalRewardXP - total XP awarded from all achievements.
	TotalRewardXP int

	// LeveledUp - reward XP crossed a level threshold.
	LeveledUp bool

	// NotificationsSent - number of notification candidates pushed.
	NotificationsSent int

	// ProcessedAt - when the flow completed.
	ProcessedAt time.Time
}

// HasNewAchievements returns true if any achievements were unlocked.
func (r *AchievementFlowResult) HasNewAchievements() bool {
	return len(r.Unlocked) > 0
}

// AchievementFlowStep represents a step in the achievement flow.
type AchievementFlowStep string

const (
	StepLoadProfile      AchievementFlowStep = "load_profile"
	StepEvaluate         AchievementFlowStep = "evaluate"
	StepUnlock           AchievementFlowStep = "unlock"
	StepAwardRewardXP    AchievementFlowStep = "award_reward_xp"
	StepSaveProfile      AchievementFlowStep = "save_profile"
	StepSendNotification AchievementFlowStep = "send_notifications"
	StepPublishEvents    AchievementFlowStep = "publish_events"
	StepFlowComplete     AchievementFlowStep = "complete"
)

// ══════════════════════════════════════════════════════════════════════════════
// SAGA IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// AchievementFlowSaga orchestrates achievement evaluation and granting.
type AchievementFlowSaga struct {
	store    profile.Store
	cache    profile.Cache
	locker   profile.Locker
	sender   notification.Sender
	eventBus shared.EventPublisher

	// Configuration
	enableRewardXP      bool
	enableNotifications bool
	maxUnlocksPerRun    int
}

// AchievementFlowConfig contains configuration for the achievement flow saga.
type AchievementFlowConfig struct {
	EnableRewardXP      bool
	EnableNotifications bool
	MaxUnlocksPerRun    int
}

// DefaultAchievementFlowConfig returns default configuration.
func DefaultAchievementFlowConfig() AchievementFlowConfig {
	return AchievementFlowConfig{
		EnableRewardXP:      true,
		EnableNotifications: true,
		MaxUnlocksPerRun:    5, // Prevent spam if something goes wrong
	}
}

// NewAchievementFlowSaga creates a new achievement flow saga.
func NewAchievementFlowSaga(
	store profile.Store,
	cache profile.Cache,
	locker profile.Locker,
	sender notification.Sender,
	eventBus shared.EventPublisher,
	config AchievementFlowConfig,
) *AchievementFlowSaga {
	if config.MaxUnlocksPerRun == 0 {
		config = DefaultAchievementFlowConfig()
	}

	return &AchievementFlowSaga{
		store:               store,
		cache:               cache,
		locker:              locker,
		sender:              sender,
		eventBus:            eventBus,
		enableRewardXP:      config.EnableRewardXP,
		enableNotifications: config.EnableNotifications,
		maxUnlocksPerRun:    config.MaxUnlocksPerRun,
	}
}

// Execute runs the complete achievement checking and granting process.
func (s *AchievementFlowSaga) Execute(ctx context.Context, input AchievementCheckInput) (*AchievementFlowResult, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	// Step 1: Load profile under the account lock.
	release, err := s.locker.Acquire(ctx, input.AccountID)
	if err != nil {
		return nil, s.wrapError(StepLoadProfile, input.AccountID, err)
	}
	defer release()

	state, err := s.store.Load(ctx, input.AccountID)
	if err != nil {
		return nil, s.wrapError(StepLoadProfile, input.AccountID, err)
	}

	result := &AchievementFlowResult{AccountID: input.AccountID, ProcessedAt: now}

	// Step 2: Evaluate the snapshot. Pure computation, no mutation yet.
	statuses := achievement.Evaluate(state.Snapshot(), state.Achievements)
	pending := achievement.PendingUnlocks(statuses)
	if len(pending) == 0 {
		return result, nil
	}
	if len(pending) > s.maxUnlocksPerRun {
		pending = pending[:s.maxUnlocksPerRun]
	}

	// Step 3: Unlock and collect rewards.
	for _, a := range pending {
		if err := a.Unlock(now); err != nil {
			continue
		}
		unlocked := UnlockedAchievement{
			ID:       a.ID,
			Title:    a.Title,
			Rarity:   string(a.Rarity),
			RewardXP: a.Rewards.Experience,
			Badge:    a.Rewards.Badge,
			NewTitle: a.Rewards.Title,
		}
		result.Unlocked = append(result.Unlocked, unlocked)

		if a.Rewards.Title != "" {
			state.Character.SetTitle(a.Rewards.Title)
		}
	}

	// Step 4: Award reward XP in one grant. The grant can itself level the
	// character up; those achievements surface on the next evaluation.
	if s.enableRewardXP {
		total := 0
		for _, u := range result.Unlocked {
			total += u.RewardXP
		}
		if total > 0 {
			gain := state.AddExperience(total)
			result.TotalRewardXP = total
			result.LeveledUp = gain.LeveledUp
		}
	}

	// Step 5: Save.
	if err := s.store.Save(ctx, state); err != nil {
		return nil, s.wrapError(StepSaveProfile, input.AccountID, err)
	}
	if s.cache != nil {
		_ = s.cache.Invalidate(ctx, input.AccountID)
	}

	// Step 6: Notifications. Non-critical, dedup layer owns idempotence.
	if s.enableNotifications && s.sender != nil {
		for _, u := range result.Unlocked {
			candidate := notification.BuildAchievementUnlocked(
				shared.AccountID(input.AccountID), u.ID, u.Title, u.RewardXP)
			if candidate == nil {
				continue
			}
			if _, err := s.sender.Send(ctx, candidate); err == nil {
				result.NotificationsSent++
			}
		}
	}

	// Step 7: Events. Non-critical, events can be replayed.
	if s.eventBus != nil {
		for _, u := range result.Unlocked {
			event := shared.NewAchievementUnlockedEvent(
				input.AccountID, u.ID, u.Title, u.Rarity, u.RewardXP)
			if input.CorrelationID != "" {
				event.BaseEvent = event.BaseEvent.WithCorrelationID(input.CorrelationID)
			}
			_ = s.eventBus.Publish(event)
		}
	}

	return result, nil
}

// CheckAfterProgress runs the flow for the common progression triggers.
func (s *AchievementFlowSaga) CheckAfterProgress(ctx context.Context, accountID, trigger string) (*AchievementFlowResult, error) {
	return s.Execute(ctx, AchievementCheckInput{
		AccountID:    accountID,
		TriggerEvent: trigger,
	})
}

// wrapError wraps an error with saga context.
func (s *AchievementFlowSaga) wrapError(step AchievementFlowStep, accountID string, err error) error {
	return &AchievementFlowError{
		Step:      step,
		AccountID: accountID,
		Cause:     err,
		Message:   fmt.Sprintf("achievement flow failed at step '%s': %v", step, err),
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// ERRORS
// ══════════════════════════════════════════════════════════════════════════════

// AchievementFlowError represents an error during the achievement flow.
type AchievementFlowError struct {
	Step      AchievementFlowStep
	AccountID string
	Cause     error
	Message   string
}

// Error implements the error interface.
func (e *AchievementFlowError) Error() string {
	return e.Message
}

// Unwrap returns the underlying error.
func (e *AchievementFlowError) Unwrap() error {
	return e.Cause
}
