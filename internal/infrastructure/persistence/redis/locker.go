package redis

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ══════════════════════════════════════════════════════════════════════════════
// ACCOUNT LOCKER
// ══════════════════════════════════════════════════════════════════════════════

// releaseScript deletes the lock only when the stored token matches, so a
// release after TTL expiry never removes another holder's lock.
const releaseScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`

// AccountLocker implements profile.Locker with Redis SET NX locks.
// One account maps to one lock key; Acquire polls until the lock is held
// or the context is done. A per-account in-process mutex sits in front of
// the Redis lock, so goroutines in one process queue locally instead of
// polling Redis against each other.
type AccountLocker struct {
	cache      *Cache
	ttl        time.Duration
	retryDelay time.Duration

	mu    sync.Mutex
	local map[string]*accountGate
}

// accountGate is a refcounted per-account semaphore. The refcount lets
// the map entry be dropped once no goroutine holds or waits on it.
type accountGate struct {
	ch   chan struct{}
	refs int
}

// AccountLockerOptions configures an AccountLocker.
type AccountLockerOptions struct {
	// TTL bounds how long a crashed holder can block other writers.
	TTL time.Duration

	// RetryDelay is the poll interval while waiting for a held lock.
	RetryDelay time.Duration
}

// NewAccountLocker creates a new AccountLocker.
func NewAccountLocker(cache *Cache, opts AccountLockerOptions) *AccountLocker {
	if opts.TTL <= 0 {
		opts.TTL = TTLAccountLock
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = 25 * time.Millisecond
	}

	return &AccountLocker{
		cache:      cache,
		ttl:        opts.TTL,
		retryDelay: opts.RetryDelay,
		local:      make(map[string]*accountGate),
	}
}

// acquireLocal takes the in-process gate for the account, honoring ctx
// while waiting.
func (l *AccountLocker) acquireLocal(ctx context.Context, accountID string) (*accountGate, error) {
	l.mu.Lock()
	g, ok := l.local[accountID]
	if !ok {
		g = &accountGate{ch: make(chan struct{}, 1)}
		l.local[accountID] = g
	}
	g.refs++
	l.mu.Unlock()

	select {
	case g.ch <- struct{}{}:
		return g, nil
	case <-ctx.Done():
		l.dropRef(accountID, g)
		return nil, ctx.Err()
	}
}

// releaseLocal releases the in-process gate and drops the map entry when
// nobody else is waiting on it.
func (l *AccountLocker) releaseLocal(accountID string, g *accountGate) {
	<-g.ch
	l.dropRef(accountID, g)
}

func (l *AccountLocker) dropRef(accountID string, g *accountGate) {
	l.mu.Lock()
	g.refs--
	if g.refs == 0 {
		delete(l.local, accountID)
	}
	l.mu.Unlock()
}

// Acquire blocks until the account lock is held or ctx is done.
// The returned release function must be called exactly once.
func (l *AccountLocker) Acquire(ctx context.Context, accountID string) (func(), error) {
	if accountID == "" {
		return nil, ErrCacheKeyEmpty
	}

	key := LockKey(accountID)
	token := uuid.NewString()

	gate, err := l.acquireLocal(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("lock wait for %s: %w", accountID, err)
	}

	for {
		ok, err := l.cache.SetNX(ctx, key, token, l.ttl)
		if err != nil {
			l.releaseLocal(accountID, gate)
			return nil, fmt.Errorf("failed to acquire lock for %s: %w", accountID, err)
		}
		if ok {
			break
		}

		select {
		case <-ctx.Done():
			l.releaseLocal(accountID, gate)
			return nil, fmt.Errorf("lock wait for %s: %w", accountID, ctx.Err())
		case <-time.After(l.retryDelay):
		}
	}

	release := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_, _ = l.cache.Eval(ctx, releaseScript, []string{key}, token)
		l.releaseLocal(accountID, gate)
	}

	return release, nil
}
