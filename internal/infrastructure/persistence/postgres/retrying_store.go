package postgres

import (
	"context"

	"github.com/arise-hub/hunter-hub/internal/domain/profile"
	"github.com/arise-hub/hunter-hub/internal/domain/shared"
	"github.com/arise-hub/hunter-hub/pkg/circuitbreaker"
	"github.com/arise-hub/hunter-hub/pkg/logger"
	"github.com/arise-hub/hunter-hub/pkg/retry"
)

// ══════════════════════════════════════════════════════════════════════════════
// RETRYING PROFILE STORE
// ══════════════════════════════════════════════════════════════════════════════

// RetryingProfileStore decorates a profile.Store with exponential-backoff
// retries and a database circuit breaker. Engine operations never retry
// themselves; transient store failures are absorbed at this layer.
// Domain outcomes (NotFound, validation) pass through untouched and do
// not count against the breaker.
type RetryingProfileStore struct {
	inner   profile.Store
	retrier *retry.Retrier
	breaker *circuitbreaker.CircuitBreaker
}

// NewRetryingProfileStore wraps inner with retry and breaker protection.
func NewRetryingProfileStore(inner profile.Store, log *logger.Logger) *RetryingProfileStore {
	var onStateChange func(name string, from, to circuitbreaker.State)
	if log != nil {
		breakerLog := log.With(logger.Component("profile_store"))
		onStateChange = func(name string, from, to circuitbreaker.State) {
			breakerLog.Warn("circuit breaker state changed",
				logger.String("breaker", name),
				logger.String("from", from.String()),
				logger.String("to", to.String()),
			)
		}
	}

	return &RetryingProfileStore{
		inner:   inner,
		retrier: retry.ProfileStoreRetrier(),
		breaker: circuitbreaker.DatabaseBreaker(onStateChange),
	}
}

// Load reads the profile, retrying transient failures.
func (s *RetryingProfileStore) Load(ctx context.Context, accountID string) (*profile.State, error) {
	var state *profile.State
	err := s.do(ctx, func(ctx context.Context) error {
		var err error
		state, err = s.inner.Load(ctx, accountID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return state, nil
}

// Save writes the profile, retrying transient failures.
func (s *RetryingProfileStore) Save(ctx context.Context, state *profile.State) error {
	return s.do(ctx, func(ctx context.Context) error {
		return s.inner.Save(ctx, state)
	})
}

// ListAccountIDs lists stored accounts, retrying transient failures.
func (s *RetryingProfileStore) ListAccountIDs(ctx context.Context) ([]string, error) {
	var ids []string
	err := s.do(ctx, func(ctx context.Context) error {
		var err error
		ids, err = s.inner.ListAccountIDs(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// Count counts stored profiles, retrying transient failures.
func (s *RetryingProfileStore) Count(ctx context.Context) (int, error) {
	var count int
	err := s.do(ctx, func(ctx context.Context) error {
		var err error
		count, err = s.inner.Count(ctx)
		return err
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (s *RetryingProfileStore) do(ctx context.Context, op func(context.Context) error) error {
	var opErr error
	brkErr := s.breaker.Execute(ctx, func(ctx context.Context) error {
		opErr = s.retrier.Do(ctx, func(ctx context.Context) error {
			err := op(ctx)
			switch {
			case err == nil:
				return nil
			case isStoreOutcome(err):
				return retry.Permanent(err)
			default:
				return retry.Retryable(err)
			}
		})
		if opErr != nil && isStoreOutcome(opErr) {
			// The store answered; only infrastructure failures trip the breaker.
			return nil
		}
		return opErr
	})
	if opErr != nil {
		return opErr
	}
	return brkErr
}

// isStoreOutcome reports whether the error is a domain answer from the
// store rather than an infrastructure failure.
func isStoreOutcome(err error) bool {
	return shared.IsNotFound(err) ||
		shared.IsValidation(err) ||
		shared.IsAlreadyExists(err) ||
		shared.IsInvariant(err)
}
