package jobs

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/arise-hub/hunter-hub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// NOTIFICATION MAINTENANCE JOB
// ══════════════════════════════════════════════════════════════════════════════

// NotificationMaintainer is the part of the notification sender this job
// drives: retrying failed deliveries and purging aged records.
type NotificationMaintainer interface {
	RetryFailed(ctx context.Context, limit int) (int, error)
	PurgeOld(ctx context.Context, retention time.Duration) (int64, int64, error)
}

// NotificationMaintenanceJob retries failed notification deliveries and
// trims old notifications and dedup entries past the retention window.
type NotificationMaintenanceJob struct {
	maintainer NotificationMaintainer
	log        *logger.Logger

	config NotificationMaintenanceConfig

	lastStats atomic.Value // *NotificationMaintenanceStats
}

// NotificationMaintenanceConfig contains configuration for the maintenance job.
type NotificationMaintenanceConfig struct {
	// RetryBatchSize is the maximum number of failed notifications
	// reattempted per run.
	RetryBatchSize int

	// Retention is how long delivered non-persistent notifications and
	// dedup entries are kept before being purged.
	Retention time.Duration
}

// DefaultNotificationMaintenanceConfig returns sensible defaults.
func DefaultNotificationMaintenanceConfig() NotificationMaintenanceConfig {
	return NotificationMaintenanceConfig{
		RetryBatchSize: 50,
		Retention:      30 * 24 * time.Hour,
	}
}

// NotificationMaintenanceStats contains statistics from the last run.
type NotificationMaintenanceStats struct {
	StartedAt            time.Time
	Duration             time.Duration
	Redelivered          int
	NotificationsPurged  int64
	DedupEntriesPurged   int64
}

// NewNotificationMaintenanceJob creates a new maintenance job.
func NewNotificationMaintenanceJob(
	maintainer NotificationMaintainer,
	log *logger.Logger,
	config NotificationMaintenanceConfig,
) *NotificationMaintenanceJob {
	if log == nil {
		log = logger.Default()
	}
	if config.RetryBatchSize <= 0 {
		config.RetryBatchSize = 50
	}
	if config.Retention <= 0 {
		config.Retention = 30 * 24 * time.Hour
	}

	return &NotificationMaintenanceJob{
		maintainer: maintainer,
		log:        log.With(logger.Component("notification_maintenance")),
		config:     config,
	}
}

// Name returns the job name.
func (j *NotificationMaintenanceJob) Name() string {
	return "notification_maintenance"
}

// Description returns a human-readable description.
func (j *NotificationMaintenanceJob) Description() string {
	return "Retries failed notification deliveries and purges aged records"
}

// Run executes one maintenance pass.
func (j *NotificationMaintenanceJob) Run(ctx context.Context) error {
	startedAt := time.Now()
	stats := &NotificationMaintenanceStats{StartedAt: startedAt}

	redelivered, retryErr := j.maintainer.RetryFailed(ctx, j.config.RetryBatchSize)
	stats.Redelivered = redelivered

	notifications, dedupEntries, purgeErr := j.maintainer.PurgeOld(ctx, j.config.Retention)
	stats.NotificationsPurged = notifications
	stats.DedupEntriesPurged = dedupEntries

	stats.Duration = time.Since(startedAt)
	j.lastStats.Store(stats)

	j.log.Info("notification maintenance completed",
		logger.Duration("duration", stats.Duration),
		logger.Int("redelivered", stats.Redelivered),
		logger.Int64("notifications_purged", stats.NotificationsPurged),
		logger.Int64("dedup_purged", stats.DedupEntriesPurged),
	)

	if retryErr != nil {
		return fmt.Errorf("retry pass failed: %w", retryErr)
	}
	if purgeErr != nil {
		return fmt.Errorf("purge pass failed: %w", purgeErr)
	}
	return nil
}

// LastStats returns statistics from the last run.
func (j *NotificationMaintenanceJob) LastStats() *NotificationMaintenanceStats {
	stats := j.lastStats.Load()
	if stats == nil {
		return nil
	}
	return stats.(*NotificationMaintenanceStats)
}
