// Package jobs contains implementations of scheduled jobs for Hunter Hub.
// The batch daily quest reset is the anchor job: it walks every profile
// shortly after UTC midnight so daily quests come back without waiting for
// the hunter's next login.
package jobs

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/arise-hub/hunter-hub/internal/application/command"
	"github.com/arise-hub/hunter-hub/internal/domain/profile"
	"github.com/arise-hub/hunter-hub/internal/domain/shared"
	"github.com/arise-hub/hunter-hub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// BATCH DAILY RESET JOB
// ══════════════════════════════════════════════════════════════════════════════

// BatchResetJob runs the daily quest reset check across all accounts.
// Each account goes through the same command handler the client-side check
// uses, so the per-account lock and marker semantics are identical whether
// the reset was triggered by a login or by this job.
type BatchResetJob struct {
	store     profile.Store
	handler   *command.ResetDailyQuestsHandler
	publisher shared.EventPublisher
	log       *logger.Logger

	config BatchResetConfig

	lastStats atomic.Value // *BatchResetStats
}

// BatchResetConfig contains configuration for the batch reset job.
type BatchResetConfig struct {
	// Concurrency is the number of accounts processed in parallel.
	Concurrency int

	// Timeout is the maximum duration for the entire batch run.
	Timeout time.Duration
}

// DefaultBatchResetConfig returns sensible defaults.
func DefaultBatchResetConfig() BatchResetConfig {
	return BatchResetConfig{
		Concurrency: 8,
		Timeout:     15 * time.Minute,
	}
}

// BatchResetStats contains statistics from a batch reset run.
type BatchResetStats struct {
	StartedAt     time.Time
	CompletedAt   time.Time
	Duration      time.Duration
	TotalAccounts int
	PerformedFor  int
	QuestsReset   int
	SkippedCount  int
	FailedCount   int
	Errors        []BatchResetError
}

// BatchResetError represents a per-account failure during the batch run.
type BatchResetError struct {
	AccountID  string
	Error      error
	OccurredAt time.Time
}

// NewBatchResetJob creates a new batch reset job.
func NewBatchResetJob(
	store profile.Store,
	handler *command.ResetDailyQuestsHandler,
	publisher shared.EventPublisher,
	log *logger.Logger,
	config BatchResetConfig,
) *BatchResetJob {
	if log == nil {
		log = logger.Default()
	}
	if config.Concurrency <= 0 {
		config.Concurrency = 8
	}

	return &BatchResetJob{
		store:     store,
		handler:   handler,
		publisher: publisher,
		log:       log.With(logger.Component("batch_reset")),
		config:    config,
	}
}

// Name returns the job name.
func (j *BatchResetJob) Name() string {
	return "batch_daily_reset"
}

// Description returns a human-readable description.
func (j *BatchResetJob) Description() string {
	return "Resets completed daily quests for all accounts after UTC midnight"
}

// Run executes the batch reset.
func (j *BatchResetJob) Run(ctx context.Context) error {
	startedAt := time.Now()
	stats := &BatchResetStats{
		StartedAt: startedAt,
		Errors:    make([]BatchResetError, 0),
	}

	j.log.Info("starting batch daily reset")

	if j.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.config.Timeout)
		defer cancel()
	}

	accountIDs, err := j.store.ListAccountIDs(ctx)
	if err != nil {
		return fmt.Errorf("failed to list accounts: %w", err)
	}

	stats.TotalAccounts = len(accountIDs)
	j.log.Info("found accounts to check", logger.Int("count", stats.TotalAccounts))

	if stats.TotalAccounts == 0 {
		j.finalize(stats)
		return nil
	}

	j.resetConcurrently(ctx, accountIDs, stats)
	j.finalize(stats)

	j.log.Info("batch daily reset completed",
		logger.Duration("duration", stats.Duration),
		logger.Int("total", stats.TotalAccounts),
		logger.Int("performed", stats.PerformedFor),
		logger.Int("quests_reset", stats.QuestsReset),
		logger.Int("skipped", stats.SkippedCount),
		logger.Int("failed", stats.FailedCount),
	)

	failureRate := float64(stats.FailedCount) / float64(stats.TotalAccounts)
	if failureRate > 0.5 {
		return fmt.Errorf("reset failed for more than 50%% of accounts (%d/%d)",
			stats.FailedCount, stats.TotalAccounts)
	}

	return nil
}

// resetConcurrently runs the reset check for each account using a worker pool.
func (j *BatchResetJob) resetConcurrently(ctx context.Context, accountIDs []string, stats *BatchResetStats) {
	var (
		wg        sync.WaitGroup
		semaphore = make(chan struct{}, j.config.Concurrency)
		mu        sync.Mutex
	)

	for _, accountID := range accountIDs {
		select {
		case <-ctx.Done():
			return
		default:
		}

		wg.Add(1)
		semaphore <- struct{}{}

		go func(id string) {
			defer wg.Done()
			defer func() { <-semaphore }()

			result, err := j.handler.Handle(ctx, command.ResetDailyQuestsCommand{
				AccountID: id,
			})

			mu.Lock()
			defer mu.Unlock()

			if err != nil {
				stats.FailedCount++
				stats.Errors = append(stats.Errors, BatchResetError{
					AccountID:  id,
					Error:      err,
					OccurredAt: time.Now(),
				})
				j.log.Error("failed to reset account",
					logger.AccountID(id),
					logger.Err(err),
				)
				return
			}

			if result.Performed {
				stats.PerformedFor++
				stats.QuestsReset += result.ResetCount
			} else {
				stats.SkippedCount++
			}
		}(accountID)
	}

	wg.Wait()
}

// finalize closes out the stats and publishes the batch completion event.
func (j *BatchResetJob) finalize(stats *BatchResetStats) {
	stats.CompletedAt = time.Now()
	stats.Duration = stats.CompletedAt.Sub(stats.StartedAt)
	j.lastStats.Store(stats)

	if j.publisher == nil {
		return
	}

	event := shared.NewBatchResetCompletedEvent(stats.QuestsReset, stats.TotalAccounts, stats.Duration)
	if err := j.publisher.Publish(event); err != nil {
		j.log.Warn("failed to publish batch reset event", logger.Err(err))
	}
}

// LastStats returns statistics from the last batch run.
func (j *BatchResetJob) LastStats() *BatchResetStats {
	stats := j.lastStats.Load()
	if stats == nil {
		return nil
	}
	return stats.(*BatchResetStats)
}
