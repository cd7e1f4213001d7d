// Package shared contains common domain types, errors, events, and value objects
// that are used across all domain packages. This package has zero external dependencies.
package shared

import (
	"errors"
	"fmt"
)

// Base domain errors that can be used for error checking with errors.Is().
var (
	// Entity errors
	ErrNotFound      = errors.New("entity not found")
	ErrAlreadyExists = errors.New("entity already exists")
	ErrInvalidEntity = errors.New("invalid entity")

	// Validation errors
	ErrValidation      = errors.New("validation error")
	ErrInvalidID       = errors.New("invalid ID")
	ErrInvalidInput    = errors.New("invalid input")
	ErrEmptyValue      = errors.New("value cannot be empty")
	ErrNegativeValue   = errors.New("value cannot be negative")
	ErrValueOutOfRange = errors.New("value out of range")
	ErrFutureTimestamp = errors.New("timestamp cannot be in the future")
	ErrInvalidFormat   = errors.New("invalid format")

	// Invariant errors. Business-rule violations (insufficient points, locked
	// dungeon, missing prerequisite) are silent no-ops at the engine level;
	// this kind exists so the no-op is still observable in results and logs.
	ErrInvariant = errors.New("invariant violation")

	// State errors
	ErrInvalidState     = errors.New("invalid state")
	ErrStateTransition  = errors.New("invalid state transition")
	ErrAlreadyProcessed = errors.New("already processed")
	ErrExpired          = errors.New("expired")

	// Auth errors
	ErrUnauthorized = errors.New("unauthorized")

	// Concurrency errors
	ErrConcurrentModification = errors.New("concurrent modification detected")
	ErrLockNotAcquired        = errors.New("account lock not acquired")

	// Persistence errors
	ErrPersistence        = errors.New("persistence error")
	ErrServiceUnavailable = errors.New("service unavailable")
	ErrTimeout            = errors.New("operation timeout")
)

// DomainError represents a domain-specific error with context.
type DomainError struct {
	Domain  string // e.g., "profile", "quest", "achievement"
	Op      string // Operation that failed, e.g., "CompleteQuest", "Save"
	Kind    error  // Base error type for errors.Is() checking
	Message string // Human-readable message
	Err     error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s.%s: %s: %v", e.Domain, e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s.%s: %s", e.Domain, e.Op, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap().
func (e *DomainError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return e.Kind
}

// Is implements errors.Is() matching.
func (e *DomainError) Is(target error) bool {
	if e.Kind != nil && errors.Is(e.Kind, target) {
		return true
	}
	if e.Err != nil && errors.Is(e.Err, target) {
		return true
	}
	return false
}

// NewDomainError creates a new domain error.
func NewDomainError(domain, op string, kind error, message string) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
	}
}

// WrapError wraps an existing error with domain context.
func WrapError(domain, op string, kind error, message string, err error) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// Profile domain errors
var (
	ErrProfileNotFound      = NewDomainError("profile", "Load", ErrNotFound, "profile not found")
	ErrProfileAlreadyExists = NewDomainError("profile", "Create", ErrAlreadyExists, "profile already exists")
	ErrInvalidAccountID     = NewDomainError("profile", "Validate", ErrInvalidID, "invalid account ID")
	ErrProfileSaveFailed    = NewDomainError("profile", "Save", ErrPersistence, "profile save failed")
)

// Quest domain errors
var (
	ErrQuestNotFound         = NewDomainError("quest", "Find", ErrNotFound, "quest not found")
	ErrQuestAlreadyCompleted = NewDomainError("quest", "Complete", ErrInvariant, "quest already completed")
	ErrInvalidQuestType      = NewDomainError("quest", "Validate", ErrInvalidInput, "invalid quest type")
)

// Skill domain errors
var (
	ErrSkillNotFound        = NewDomainError("skill", "Find", ErrNotFound, "skill not found")
	ErrSkillAlreadyUnlocked = NewDomainError("skill", "Unlock", ErrInvariant, "skill already unlocked")
	ErrNoSkillPoints        = NewDomainError("skill", "Unlock", ErrInvariant, "no skill points available")
	ErrPrerequisiteLocked   = NewDomainError("skill", "Unlock", ErrInvariant, "prerequisite skill not unlocked")
	ErrSkillTreeCycle       = NewDomainError("skill", "ValidateTree", ErrInvalidEntity, "prerequisite graph contains a cycle")
)

// Shadow domain errors
var (
	ErrShadowExists         = NewDomainError("shadow", "Extract", ErrInvariant, "shadow already extracted for quest")
	ErrQuestNotCompleted    = NewDomainError("shadow", "Extract", ErrInvariant, "source quest not completed")
	ErrShadowSourceNotFound = NewDomainError("shadow", "Extract", ErrNotFound, "source quest not found")
)

// Dungeon domain errors
var (
	ErrDungeonNotFound  = NewDomainError("dungeon", "Find", ErrNotFound, "dungeon not found")
	ErrDungeonLocked    = NewDomainError("dungeon", "Complete", ErrInvariant, "dungeon is locked")
	ErrDungeonCompleted = NewDomainError("dungeon", "Complete", ErrInvariant, "dungeon already completed")
)

// Hunter domain errors
var (
	ErrNoAttributePoints = NewDomainError("hunter", "SpendAttribute", ErrInvariant, "no attribute points available")
	ErrUnknownStat       = NewDomainError("hunter", "Validate", ErrInvalidInput, "unknown stat")
)

// Achievement domain errors
var (
	ErrAchievementNotFound = NewDomainError("achievement", "Find", ErrNotFound, "achievement not found")
	ErrUnknownRequirement  = NewDomainError("achievement", "Evaluate", ErrInvalidInput, "unknown requirement type")
)

// Notification domain errors
var (
	ErrNotificationNotFound = NewDomainError("notification", "Find", ErrNotFound, "notification not found")
	ErrNotificationFailed   = NewDomainError("notification", "Send", ErrServiceUnavailable, "failed to send notification")
	ErrInvalidChannel       = NewDomainError("notification", "Validate", ErrInvalidInput, "invalid notification channel")
	ErrDuplicateDelivery    = NewDomainError("notification", "Dedup", ErrAlreadyProcessed, "notification already delivered")
)

// IsNotFound checks if the error is a "not found" error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadyExists checks if the error is an "already exists" error.
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsInvariant checks if the error is a business-rule invariant violation.
// Callers treat these as observable no-ops, not failures.
func IsInvariant(err error) bool {
	return errors.Is(err, ErrInvariant)
}

// IsValidation checks if the error is a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrInvalidID) ||
		errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrEmptyValue) ||
		errors.Is(err, ErrNegativeValue) ||
		errors.Is(err, ErrValueOutOfRange)
}

// IsPersistence checks if the error came from the profile store.
func IsPersistence(err error) bool {
	return errors.Is(err, ErrPersistence) ||
		errors.Is(err, ErrServiceUnavailable) ||
		errors.Is(err, ErrTimeout)
}

// IsRetryable checks if the operation can be retried.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrPersistence) ||
		errors.Is(err, ErrServiceUnavailable) ||
		errors.Is(err, ErrTimeout) ||
		errors.Is(err, ErrConcurrentModification) ||
		errors.Is(err, ErrLockNotAcquired)
}
