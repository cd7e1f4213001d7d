// Package saga contains complex business processes that orchestrate
// multiple domain operations in a coordinated manner.
// Sagas ensure consistency across operations and handle compensation on failures.
package saga

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/arise-hub/hunter-hub/internal/domain/notification"
	"github.com/arise-hub/hunter-hub/internal/domain/profile"
	"github.com/arise-hub/hunter-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// ONBOARDING SAGA
// Flow: Validate Input → Check Existence → Hash Credential → Create Account →
//
//	Seed Profile → Welcome Notification → Publish Event
//
// A new account always starts from the same fixed templates: level 1
// character, the full quest list, a locked skill tree, the dungeon ladder
// with only the entry gate open, and zero unlocked achievements.
// ══════════════════════════════════════════════════════════════════════════════

// OnboardingInput contains the data to register a new hunter.
type OnboardingInput struct {
	// AccountID is the new account's UUID.
	AccountID string

	// Name is the hunter's display name.
	Name string

	// Credential is the raw secret to hash and store.
	Credential string

	// CorrelationID for tracing.
	CorrelationID string
}

// Validate checks if the input is valid.
func (i OnboardingInput) Validate() error {
	if _, err := shared.NewAccountID(i.AccountID); err != nil {
		return fmt.Errorf("onboarding: %w", err)
	}
	if strings.TrimSpace(i.Name) == "" {
		return errors.New("onboarding: name is required")
	}
	if len(i.Credential) < 8 {
		return errors.New("onboarding: credential must be at least 8 characters")
	}
	return nil
}

// OnboardingResult contains the result of registering a new hunter.
type OnboardingResult struct {
	// AccountID is the created account.
	AccountID string

	// Name is the hunter's display name.
	Name string

	// QuestCount, SkillCount, DungeonCount describe the seeded profile.
	QuestCount   int
	SkillCount   int
	DungeonCount int

	// WelcomeSent indicates the welcome notification went through.
	WelcomeSent bool

	// RegisteredAt is when the saga completed.
	RegisteredAt time.Time
}

// OnboardingStep represents a step in the onboarding process.
type OnboardingStep string

const (
	StepValidateInput  OnboardingStep = "validate_input"
	StepCheckExistence OnboardingStep = "check_existence"
	StepHashCredential OnboardingStep = "hash_credential"
	StepCreateAccount  OnboardingStep = "create_account"
	StepSeedProfile    OnboardingStep = "seed_profile"
	StepSendWelcome    OnboardingStep = "send_welcome"
	StepPublishEvent   OnboardingStep = "publish_event"
	StepComplete       OnboardingStep = "complete"
)

// ══════════════════════════════════════════════════════════════════════════════
// COLLABORATOR INTERFACES
// ══════════════════════════════════════════════════════════════════════════════

// CredentialHasher hashes and verifies account credentials.
type CredentialHasher interface {
	Hash(credential string) (string, error)
	Verify(credential, hash string) error
}

// IDGenerator generates unique identifiers.
type IDGenerator interface {
	GenerateID() string
}

// ══════════════════════════════════════════════════════════════════════════════
// SAGA IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// OnboardingSaga orchestrates new-hunter registration.
type OnboardingSaga struct {
	accounts profile.AccountRepository
	store    profile.Store
	hasher   CredentialHasher
	sender   notification.Sender
	eventBus shared.EventPublisher
}

// NewOnboardingSaga creates a new onboarding saga.
func NewOnboardingSaga(
	accounts profile.AccountRepository,
	store profile.Store,
	hasher CredentialHasher,
	sender notification.Sender,
	eventBus shared.EventPublisher,
) *OnboardingSaga {
	return &OnboardingSaga{
		accounts: accounts,
		store:    store,
		hasher:   hasher,
		sender:   sender,
		eventBus: eventBus,
	}
}

// Execute runs the complete onboarding process.
func (s *OnboardingSaga) Execute(ctx context.Context, input OnboardingInput) (*OnboardingResult, error) {
	// Step 1: Validate input.
	if err := input.Validate(); err != nil {
		return nil, s.wrapError(StepValidateInput, input.AccountID, err)
	}

	// Step 2: Check the account is new.
	exists, err := s.accounts.Exists(ctx, input.AccountID)
	if err != nil {
		return nil, s.wrapError(StepCheckExistence, input.AccountID, err)
	}
	if exists {
		return nil, s.wrapError(StepCheckExistence, input.AccountID, shared.ErrProfileAlreadyExists)
	}

	// Step 3: Hash the credential. Raw secrets never reach storage.
	hash, err := s.hasher.Hash(input.Credential)
	if err != nil {
		return nil, s.wrapError(StepHashCredential, input.AccountID, err)
	}

	// Step 4: Create the account row.
	now := time.Now().UTC()
	account := &profile.Account{
		ID:             input.AccountID,
		Name:           strings.TrimSpace(input.Name),
		CredentialHash: hash,
		CreatedAt:      now,
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, s.wrapError(StepCreateAccount, input.AccountID, err)
	}

	// Step 5: Seed the profile from the fixed templates. A failure here
	// compensates step 4, otherwise the orphaned row would block a retry
	// at the existence check.
	state, err := profile.NewInitialState(input.AccountID, account.Name)
	if err != nil {
		s.rollbackAccountCreation(ctx, input.AccountID)
		return nil, s.wrapError(StepSeedProfile, input.AccountID, err)
	}
	if err := s.store.Save(ctx, state); err != nil {
		s.rollbackAccountCreation(ctx, input.AccountID)
		return nil, s.wrapError(StepSeedProfile, input.AccountID, err)
	}

	result := &OnboardingResult{
		AccountID:    input.AccountID,
		Name:         account.Name,
		QuestCount:   len(state.Quests),
		SkillCount:   len(state.Skills),
		DungeonCount: len(state.Dungeons),
		RegisteredAt: now,
	}

	// Step 6: Welcome notification. Non-critical.
	if s.sender != nil {
		welcome, err := notification.NewNotification(notification.NewNotificationParams{
			ID:        notification.NotificationID(fmt.Sprintf("%s:welcome", input.AccountID)),
			AccountID: shared.AccountID(input.AccountID),
			Key:       notification.Key("welcome"),
			Type:      notification.TypeInfo,
			Title:     "Welcome, Hunter",
			Message:   fmt.Sprintf("Welcome %s! Your daily quests are waiting.", account.Name),
			Duration:  notification.DurationAchievement,
		})
		if err == nil {
			if _, err := s.sender.Send(ctx, welcome); err == nil {
				result.WelcomeSent = true
			}
		}
	}

	// Step 7: Publish domain event. Non-critical.
	if s.eventBus != nil {
		event := shared.NewBaseEvent(shared.EventProfileRegistered, input.AccountID)
		if input.CorrelationID != "" {
			event = event.WithCorrelationID(input.CorrelationID)
		}
		_ = s.eventBus.Publish(registeredEvent{BaseEvent: event, name: account.Name})
	}

	return result, nil
}

// Authenticate verifies a credential against the stored account.
func (s *OnboardingSaga) Authenticate(ctx context.Context, accountID, credential string) error {
	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return fmt.Errorf("onboarding: %w", err)
	}
	if err := s.hasher.Verify(credential, account.CredentialHash); err != nil {
		return fmt.Errorf("onboarding: %w", shared.ErrUnauthorized)
	}
	return nil
}

// rollbackAccountCreation deletes the account row created in step 4.
func (s *OnboardingSaga) rollbackAccountCreation(ctx context.Context, accountID string) {
	_ = s.accounts.Delete(ctx, accountID)
}

// wrapError wraps an error with saga context.
func (s *OnboardingSaga) wrapError(step OnboardingStep, accountID string, err error) error {
	return &OnboardingError{
		Step:      step,
		AccountID: accountID,
		Cause:     err,
		Message:   fmt.Sprintf("onboarding failed at step '%s': %v", step, err),
	}
}

// registeredEvent carries the profile.registered event payload.
type registeredEvent struct {
	shared.BaseEvent
	name string
}

// Payload implements shared.Event.
func (e registeredEvent) Payload() map[string]interface{} {
	return map[string]interface{}{"name": e.name}
}

// ══════════════════════════════════════════════════════════════════════════════
// ERRORS
// ══════════════════════════════════════════════════════════════════════════════

// OnboardingError represents an error during onboarding.
type OnboardingError struct {
	Step      OnboardingStep
	AccountID string
	Cause     error
	Message   string
}

// Error implements the error interface.
func (e *OnboardingError) Error() string {
	return e.Message
}

// Unwrap returns the underlying error.
func (e *OnboardingError) Unwrap() error {
	return e.Cause
}
