// Package shared contains common domain types, errors, events, and value objects
// that are used across all domain packages.
package shared

import (
	"encoding/json"
	"time"
)

// EventType represents the type of domain event.
type EventType string

// Domain event types - these drive the event-driven architecture.
// Each event represents something significant that happened in the domain.
const (
	// Profile events
	EventProfileRegistered EventType = "profile.registered"
	EventProfileSaved      EventType = "profile.saved"

	// Progression events
	EventXPGained           EventType = "progression.xp_gained"
	EventLevelUp            EventType = "progression.level_up"
	EventQuestCompleted     EventType = "progression.quest_completed"
	EventSkillUnlocked      EventType = "progression.skill_unlocked"
	EventShadowExtracted    EventType = "progression.shadow_extracted"
	EventDungeonCompleted   EventType = "progression.dungeon_completed"
	EventDungeonUnlocked    EventType = "progression.dungeon_unlocked"
	EventAttributeAllocated EventType = "progression.attribute_allocated"

	// Achievement events
	EventAchievementUnlocked EventType = "achievement.unlocked"

	// Reset events
	EventDailyQuestsReset EventType = "reset.daily_quests_reset"
	EventBatchResetDone   EventType = "reset.batch_completed"

	// Notification events
	EventNotificationSent       EventType = "notification.sent"
	EventNotificationSuppressed EventType = "notification.suppressed"
	EventNotificationFailed     EventType = "notification.failed"
)

// Event is the base interface for all domain events.
type Event interface {
	// EventType returns the type of the event.
	EventType() EventType

	// OccurredAt returns when the event occurred.
	OccurredAt() time.Time

	// AggregateID returns the ID of the aggregate that produced this event.
	AggregateID() string

	// Payload returns the event data as a map for serialization.
	Payload() map[string]interface{}
}

// BaseEvent provides common event functionality.
type BaseEvent struct {
	Type          EventType `json:"type"`
	Timestamp     time.Time `json:"timestamp"`
	AggregateId   string    `json:"aggregate_id"`
	Version       int       `json:"version"`
	CorrelationID string    `json:"correlation_id,omitempty"`
}

// EventType implements Event interface.
func (e BaseEvent) EventType() EventType {
	return e.Type
}

// OccurredAt implements Event interface.
func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// AggregateID implements Event interface.
func (e BaseEvent) AggregateID() string {
	return e.AggregateId
}

// NewBaseEvent creates a new base event.
func NewBaseEvent(eventType EventType, aggregateID string) BaseEvent {
	return BaseEvent{
		Type:        eventType,
		Timestamp:   time.Now(),
		AggregateId: aggregateID,
		Version:     1,
	}
}

// WithCorrelationID sets the correlation ID for tracing.
func (e BaseEvent) WithCorrelationID(id string) BaseEvent {
	e.CorrelationID = id
	return e
}

// ═══════════════════════════════════════════════════════════════════════════
// Progression Events
// ═══════════════════════════════════════════════════════════════════════════

// XPGainedEvent is emitted when a character gains experience.
type XPGainedEvent struct {
	BaseEvent
	AccountID string `json:"account_id"`
	Amount    int    `json:"amount"`
	NewTotal  int    `json:"new_total"`
	Source    string `json:"source"` // e.g., "quest", "dungeon", "achievement_reward"
	SourceID  string `json:"source_id,omitempty"`
}

// Payload implements Event interface.
func (e XPGainedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"account_id": e.AccountID,
		"amount":     e.Amount,
		"new_total":  e.NewTotal,
		"source":     e.Source,
		"source_id":  e.SourceID,
	}
}

// NewXPGainedEvent creates a new XPGainedEvent.
func NewXPGainedEvent(accountID string, amount, newTotal int, source, sourceID string) XPGainedEvent {
	return XPGainedEvent{
		BaseEvent: NewBaseEvent(EventXPGained, accountID),
		AccountID: accountID,
		Amount:    amount,
		NewTotal:  newTotal,
		Source:    source,
		SourceID:  sourceID,
	}
}

// LevelUpEvent is emitted when a character levels up.
type LevelUpEvent struct {
	BaseEvent
	AccountID       string `json:"account_id"`
	OldLevel        int    `json:"old_level"`
	NewLevel        int    `json:"new_level"`
	AttributePoints int    `json:"attribute_points"` // unspent pool after the level-up
	SkillPoints     int    `json:"skill_points"`
}

// Payload implements Event interface.
func (e LevelUpEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"account_id":       e.AccountID,
		"old_level":        e.OldLevel,
		"new_level":        e.NewLevel,
		"attribute_points": e.AttributePoints,
		"skill_points":     e.SkillPoints,
	}
}

// NewLevelUpEvent creates a new LevelUpEvent.
func NewLevelUpEvent(accountID string, oldLevel, newLevel, attributePoints, skillPoints int) LevelUpEvent {
	return LevelUpEvent{
		BaseEvent:       NewBaseEvent(EventLevelUp, accountID),
		AccountID:       accountID,
		OldLevel:        oldLevel,
		NewLevel:        newLevel,
		AttributePoints: attributePoints,
		SkillPoints:     skillPoints,
	}
}

// QuestCompletedEvent is emitted when a quest is completed.
type QuestCompletedEvent struct {
	BaseEvent
	AccountID   string    `json:"account_id"`
	QuestID     string    `json:"quest_id"`
	QuestTitle  string    `json:"quest_title"`
	XPEarned    int       `json:"xp_earned"`
	CompletedAt time.Time `json:"completed_at"`
}

// Payload implements Event interface.
func (e QuestCompletedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"account_id":   e.AccountID,
		"quest_id":     e.QuestID,
		"quest_title":  e.QuestTitle,
		"xp_earned":    e.XPEarned,
		"completed_at": e.CompletedAt.Format(time.RFC3339),
	}
}

// NewQuestCompletedEvent creates a new QuestCompletedEvent.
func NewQuestCompletedEvent(accountID, questID, questTitle string, xpEarned int, completedAt time.Time) QuestCompletedEvent {
	return QuestCompletedEvent{
		BaseEvent:   NewBaseEvent(EventQuestCompleted, accountID),
		AccountID:   accountID,
		QuestID:     questID,
		QuestTitle:  questTitle,
		XPEarned:    xpEarned,
		CompletedAt: completedAt,
	}
}

// SkillUnlockedEvent is emitted when a skill is unlocked.
type SkillUnlockedEvent struct {
	BaseEvent
	AccountID       string `json:"account_id"`
	SkillID         string `json:"skill_id"`
	SkillName       string `json:"skill_name"`
	PointsRemaining int    `json:"points_remaining"`
}

// Payload implements Event interface.
func (e SkillUnlockedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"account_id":       e.AccountID,
		"skill_id":         e.SkillID,
		"skill_name":       e.SkillName,
		"points_remaining": e.PointsRemaining,
	}
}

// NewSkillUnlockedEvent creates a new SkillUnlockedEvent.
func NewSkillUnlockedEvent(accountID, skillID, skillName string, pointsRemaining int) SkillUnlockedEvent {
	return SkillUnlockedEvent{
		BaseEvent:       NewBaseEvent(EventSkillUnlocked, accountID),
		AccountID:       accountID,
		SkillID:         skillID,
		SkillName:       skillName,
		PointsRemaining: pointsRemaining,
	}
}

// ShadowExtractedEvent is emitted when a shadow is extracted from a quest.
type ShadowExtractedEvent struct {
	BaseEvent
	AccountID  string `json:"account_id"`
	ShadowID   string `json:"shadow_id"`
	ShadowName string `json:"shadow_name"`
	QuestID    string `json:"quest_id"`
	BonusStat  string `json:"bonus_stat"`
	BonusValue int    `json:"bonus_value"`
}

// Payload implements Event interface.
func (e ShadowExtractedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"account_id":  e.AccountID,
		"shadow_id":   e.ShadowID,
		"shadow_name": e.ShadowName,
		"quest_id":    e.QuestID,
		"bonus_stat":  e.BonusStat,
		"bonus_value": e.BonusValue,
	}
}

// NewShadowExtractedEvent creates a new ShadowExtractedEvent.
func NewShadowExtractedEvent(accountID, shadowID, shadowName, questID, bonusStat string, bonusValue int) ShadowExtractedEvent {
	return ShadowExtractedEvent{
		BaseEvent:  NewBaseEvent(EventShadowExtracted, accountID),
		AccountID:  accountID,
		ShadowID:   shadowID,
		ShadowName: shadowName,
		QuestID:    questID,
		BonusStat:  bonusStat,
		BonusValue: bonusValue,
	}
}

// DungeonCompletedEvent is emitted when a dungeon is cleared.
type DungeonCompletedEvent struct {
	BaseEvent
	AccountID   string `json:"account_id"`
	DungeonID   string `json:"dungeon_id"`
	DungeonName string `json:"dungeon_name"`
	XPEarned    int    `json:"xp_earned"`
	UnlockedID  string `json:"unlocked_id,omitempty"` // successor dungeon unlocked by this clear
}

// Payload implements Event interface.
func (e DungeonCompletedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"account_id":   e.AccountID,
		"dungeon_id":   e.DungeonID,
		"dungeon_name": e.DungeonName,
		"xp_earned":    e.XPEarned,
		"unlocked_id":  e.UnlockedID,
	}
}

// NewDungeonCompletedEvent creates a new DungeonCompletedEvent.
func NewDungeonCompletedEvent(accountID, dungeonID, dungeonName string, xpEarned int, unlockedID string) DungeonCompletedEvent {
	return DungeonCompletedEvent{
		BaseEvent:   NewBaseEvent(EventDungeonCompleted, accountID),
		AccountID:   accountID,
		DungeonID:   dungeonID,
		DungeonName: dungeonName,
		XPEarned:    xpEarned,
		UnlockedID:  unlockedID,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Achievement Events
// ═══════════════════════════════════════════════════════════════════════════

// AchievementUnlockedEvent is emitted exactly once per achievement unlock.
type AchievementUnlockedEvent struct {
	BaseEvent
	AccountID     string `json:"account_id"`
	AchievementID string `json:"achievement_id"`
	Title         string `json:"title"`
	Rarity        string `json:"rarity"`
	RewardXP      int    `json:"reward_xp"`
}

// Payload implements Event interface.
func (e AchievementUnlockedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"account_id":     e.AccountID,
		"achievement_id": e.AchievementID,
		"title":          e.Title,
		"rarity":         e.Rarity,
		"reward_xp":      e.RewardXP,
	}
}

// NewAchievementUnlockedEvent creates a new AchievementUnlockedEvent.
func NewAchievementUnlockedEvent(accountID, achievementID, title, rarity string, rewardXP int) AchievementUnlockedEvent {
	return AchievementUnlockedEvent{
		BaseEvent:     NewBaseEvent(EventAchievementUnlocked, accountID),
		AccountID:     accountID,
		AchievementID: achievementID,
		Title:         title,
		Rarity:        rarity,
		RewardXP:      rewardXP,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Reset Events
// ═══════════════════════════════════════════════════════════════════════════

// DailyQuestsResetEvent is emitted when an account's daily quests are reset.
type DailyQuestsResetEvent struct {
	BaseEvent
	AccountID  string `json:"account_id"`
	QuestsRest int    `json:"quests_reset"`
	Source     string `json:"source"` // "batch" or "client"
}

// Payload implements Event interface.
func (e DailyQuestsResetEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"account_id":   e.AccountID,
		"quests_reset": e.QuestsRest,
		"source":       e.Source,
	}
}

// NewDailyQuestsResetEvent creates a new DailyQuestsResetEvent.
func NewDailyQuestsResetEvent(accountID string, questsReset int, source string) DailyQuestsResetEvent {
	return DailyQuestsResetEvent{
		BaseEvent:  NewBaseEvent(EventDailyQuestsReset, accountID),
		AccountID:  accountID,
		QuestsRest: questsReset,
		Source:     source,
	}
}

// BatchResetCompletedEvent is emitted when the batch reset job finishes a run.
type BatchResetCompletedEvent struct {
	BaseEvent
	ResetCount        int           `json:"reset_count"`
	ProcessedProfiles int           `json:"processed_profiles"`
	Duration          time.Duration `json:"duration"`
}

// Payload implements Event interface.
func (e BatchResetCompletedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"reset_count":        e.ResetCount,
		"processed_profiles": e.ProcessedProfiles,
		"duration":           e.Duration.String(),
	}
}

// NewBatchResetCompletedEvent creates a new BatchResetCompletedEvent.
func NewBatchResetCompletedEvent(resetCount, processedProfiles int, duration time.Duration) BatchResetCompletedEvent {
	return BatchResetCompletedEvent{
		BaseEvent:         NewBaseEvent(EventBatchResetDone, "batch"),
		ResetCount:        resetCount,
		ProcessedProfiles: processedProfiles,
		Duration:          duration,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Event Envelope (for serialization and transport)
// ═══════════════════════════════════════════════════════════════════════════

// EventEnvelope wraps an event for transport/storage.
type EventEnvelope struct {
	ID            string          `json:"id"`
	Type          EventType       `json:"type"`
	AggregateID   string          `json:"aggregate_id"`
	Timestamp     time.Time       `json:"timestamp"`
	Version       int             `json:"version"`
	CorrelationID string          `json:"correlation_id,omitempty"`
	Payload       json.RawMessage `json:"payload"`
}

// EventHandler is a function that handles an event.
type EventHandler func(event Event) error

// EventPublisher defines the interface for publishing events.
type EventPublisher interface {
	// Publish sends an event to subscribers.
	Publish(event Event) error
}

// EventSubscriber defines the interface for subscribing to events.
type EventSubscriber interface {
	// Subscribe registers a handler for an event type.
	Subscribe(eventType EventType, handler EventHandler) error

	// SubscribeAll registers a handler for all events.
	SubscribeAll(handler EventHandler) error
}

// EventBus combines publishing and subscribing.
type EventBus interface {
	EventPublisher
	EventSubscriber
}
