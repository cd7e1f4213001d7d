// Package eventhandler contains domain event handlers.
package eventhandler

import (
	"context"
	"time"

	"github.com/arise-hub/hunter-hub/internal/application/saga"
	"github.com/arise-hub/hunter-hub/internal/domain/shared"
	"github.com/arise-hub/hunter-hub/pkg/logger"
)

// ═══════════════════════════════════════════════════════════════════════════
// ON PROGRESSION HANDLER
// Re-evaluates achievements after any progress-bearing event. Achievement
// unlocks are always a side effect of progress, never a command of their
// own, so this handler is the only place the achievement flow is triggered.
//
// Subscribed events: quest completed, dungeon completed, level up,
// skill unlocked, shadow extracted.
// ═══════════════════════════════════════════════════════════════════════════

// ProgressionConfig contains the handler configuration.
type ProgressionConfig struct {
	// CheckTimeout bounds one achievement evaluation run.
	CheckTimeout time.Duration
}

// DefaultProgressionConfig returns the default configuration.
func DefaultProgressionConfig() ProgressionConfig {
	return ProgressionConfig{
		CheckTimeout: 10 * time.Second,
	}
}

// OnProgressionHandler runs the achievement flow after progress events.
type OnProgressionHandler struct {
	flow   *saga.AchievementFlowSaga
	log    *logger.Logger
	config ProgressionConfig
}

// NewOnProgressionHandler creates a new progression handler.
func NewOnProgressionHandler(flow *saga.AchievementFlowSaga, log *logger.Logger, config ProgressionConfig) *OnProgressionHandler {
	if log == nil {
		log = logger.Default()
	}
	return &OnProgressionHandler{
		flow:   flow,
		log:    log.With(logger.Component("on_progression")),
		config: config,
	}
}

// EventTypes returns the event types this handler reacts to.
func (h *OnProgressionHandler) EventTypes() []shared.EventType {
	return []shared.EventType{
		shared.EventQuestCompleted,
		shared.EventDungeonCompleted,
		shared.EventLevelUp,
		shared.EventSkillUnlocked,
		shared.EventShadowExtracted,
	}
}

// Register subscribes the handler on the bus for all its event types.
func (h *OnProgressionHandler) Register(bus shared.EventSubscriber) error {
	for _, et := range h.EventTypes() {
		if err := bus.Subscribe(et, h.Handle); err != nil {
			return err
		}
	}
	return nil
}

// Handle implements shared.EventHandler.
func (h *OnProgressionHandler) Handle(event shared.Event) error {
	accountID := event.AggregateID()
	if accountID == "" {
		h.log.Warn("progress event without aggregate id",
			logger.String("event_type", string(event.EventType())),
		)
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.CheckTimeout)
	defer cancel()

	result, err := h.flow.CheckAfterProgress(ctx, accountID, string(event.EventType()))
	if err != nil {
		h.log.Error("achievement check failed",
			logger.AccountID(accountID),
			logger.String("trigger", string(event.EventType())),
			logger.Err(err),
		)
		// Evaluation is monotonic; a missed run is picked up by the next
		// progress event. Do not fail the bus dispatch.
		return nil
	}

	if result.HasNewAchievements() {
		h.log.Info("achievements unlocked",
			logger.AccountID(accountID),
			logger.String("trigger", string(event.EventType())),
			logger.Int("unlocked", len(result.Unlocked)),
		)
	}

	return nil
}
