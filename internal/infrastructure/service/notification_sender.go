// Package service contains infrastructure adapters that sit between the
// application layer and external systems: notification delivery, credential
// hashing, and identifier generation.
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/arise-hub/hunter-hub/internal/domain/notification"
	"github.com/arise-hub/hunter-hub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// NOTIFICATION SENDER
// ══════════════════════════════════════════════════════════════════════════════

// NotificationSender implements notification.Sender. Every candidate passes
// through the dedup decider before any channel sees it; the dedup key is
// recorded only after a successful delivery, so a failed send stays eligible
// for retry.
type NotificationSender struct {
	decider *notification.Decider
	dedup   notification.DedupLog
	repo    notification.Repository
	log     *logger.Logger

	mu       sync.RWMutex
	channels []notification.Channel
}

// NewNotificationSender creates a new NotificationSender.
func NewNotificationSender(
	dedup notification.DedupLog,
	repo notification.Repository,
	log *logger.Logger,
) *NotificationSender {
	if log == nil {
		log = logger.Default()
	}

	return &NotificationSender{
		decider: notification.NewDecider(dedup),
		dedup:   dedup,
		repo:    repo,
		log:     log.With(logger.Component("notification_sender")),
	}
}

// RegisterChannel registers a delivery channel. Channels are tried in
// registration order; register the log channel last so it acts as the
// always-available fallback.
func (s *NotificationSender) RegisterChannel(channel notification.Channel) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.channels = append(s.channels, channel)
}

// Send runs the candidate through dedup and delivers it.
// A suppressed candidate is not an error; check the result's Status.
func (s *NotificationSender) Send(ctx context.Context, candidate *notification.Notification) (*notification.Notification, error) {
	if candidate == nil {
		return nil, notification.ErrNilCandidate
	}

	decision, err := s.decider.Decide(ctx, candidate)
	if err != nil {
		return nil, fmt.Errorf("notification %s: %w", candidate.ID, err)
	}

	if !decision.Send {
		if err := candidate.MarkSuppressed(decision.Reason); err != nil {
			return nil, err
		}
		if err := s.repo.Save(ctx, candidate); err != nil {
			s.log.Warn("failed to persist suppressed notification",
				logger.String("notification_id", string(candidate.ID)),
				logger.Err(err),
			)
		}
		s.log.Debug("notification suppressed",
			logger.String("notification_id", string(candidate.ID)),
			logger.String("reason", decision.Reason),
		)
		return candidate, nil
	}

	return s.deliver(ctx, candidate)
}

// deliver marks the candidate sending, walks the channels, and commits the
// dedup entry once a channel reports success.
func (s *NotificationSender) deliver(ctx context.Context, n *notification.Notification) (*notification.Notification, error) {
	if err := n.MarkSending(); err != nil {
		return nil, err
	}

	result := s.sendThroughChannels(ctx, n)

	if result.Success {
		if err := n.MarkDelivered(); err != nil {
			return nil, err
		}
	} else {
		errText := "no available channel"
		if result.Error != nil {
			errText = result.Error.Error()
		}
		if err := n.MarkFailed(errText); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Save(ctx, n); err != nil {
		return nil, fmt.Errorf("notification %s: save: %w", n.ID, err)
	}

	if result.Success {
		// Recording after delivery keeps the invariant: a key in the log
		// means the hunter actually saw the notification once.
		entry := notification.DedupEntry{
			AccountID: n.AccountID,
			Key:       n.Key,
			SentAt:    result.DeliveredAt,
		}
		if err := s.dedup.Record(ctx, entry); err != nil {
			s.log.Error("failed to record dedup entry",
				logger.String("notification_id", string(n.ID)),
				logger.Err(err),
			)
		}

		s.log.Debug("notification delivered",
			logger.String("notification_id", string(n.ID)),
			logger.String("channel", result.Channel.String()),
		)
	} else {
		s.log.Warn("notification delivery failed",
			logger.String("notification_id", string(n.ID)),
			logger.Int("retry_count", n.RetryCount),
			logger.Err(result.Error),
		)
	}

	return n, nil
}

// sendThroughChannels tries each available channel in order and returns the
// first success, or the last failure when all channels decline.
func (s *NotificationSender) sendThroughChannels(ctx context.Context, n *notification.Notification) notification.DeliveryResult {
	s.mu.RLock()
	channels := make([]notification.Channel, len(s.channels))
	copy(channels, s.channels)
	s.mu.RUnlock()

	var last notification.DeliveryResult
	for _, ch := range channels {
		if !ch.IsAvailable(ctx) {
			continue
		}

		last = ch.Send(ctx, n)
		if last.Success {
			return last
		}
	}

	return last
}

// RetryFailed re-sends failed notifications that still have retry budget.
// Returns the number of notifications that were delivered on this pass.
func (s *NotificationSender) RetryFailed(ctx context.Context, limit int) (int, error) {
	failed, err := s.repo.GetFailedForRetry(ctx, limit)
	if err != nil {
		return 0, fmt.Errorf("load failed notifications: %w", err)
	}

	delivered := 0
	for _, n := range failed {
		if err := n.ResetForRetry(); err != nil {
			continue
		}

		sent, err := s.deliver(ctx, n)
		if err != nil {
			s.log.Warn("retry delivery error",
				logger.String("notification_id", string(n.ID)),
				logger.Err(err),
			)
			continue
		}
		if sent.Status == notification.StatusDelivered {
			delivered++
		}
	}

	return delivered, nil
}

// PurgeOld removes transient notifications and dedup entries older than the
// retention window. Persistent notifications are kept until acted on.
func (s *NotificationSender) PurgeOld(ctx context.Context, retention time.Duration) (notifications, dedupEntries int64, err error) {
	before := time.Now().UTC().Add(-retention)

	notifications, err = s.repo.DeleteOlderThan(ctx, before)
	if err != nil {
		return 0, 0, fmt.Errorf("purge notifications: %w", err)
	}

	dedupEntries, err = s.dedup.PurgeOlderThan(ctx, before)
	if err != nil {
		return notifications, 0, fmt.Errorf("purge dedup log: %w", err)
	}

	return notifications, dedupEntries, nil
}
