package profile

import (
	"context"
	"time"
)

// ══════════════════════════════════════════════════════════════════════════════
// STORE INTERFACE
// The engine treats persistence as opaque key-value storage with
// read-your-writes per account. Implementations live in infrastructure.
// ══════════════════════════════════════════════════════════════════════════════

// Store is the external profile store collaborator.
type Store interface {
	// ─────────────────────────────────────────────────────────────
	// Core load/save
	// ─────────────────────────────────────────────────────────────

	// Load returns the full aggregate for an account.
	// Returns shared.ErrProfileNotFound when the account has no profile.
	Load(ctx context.Context, accountID string) (*State, error)

	// Save persists the full aggregate and refreshes State.LastSaved.
	Save(ctx context.Context, state *State) error

	// ─────────────────────────────────────────────────────────────
	// Batch support
	// ─────────────────────────────────────────────────────────────

	// ListAccountIDs returns the IDs of every stored profile.
	// The batch reset iterates this set.
	ListAccountIDs(ctx context.Context) ([]string, error)

	// Count returns the number of stored profiles.
	Count(ctx context.Context) (int, error)
}

// Cache is a read-through cache over the store. Implementations return
// a cache-miss error translated to shared.ErrNotFound semantics by callers.
type Cache interface {
	Get(ctx context.Context, accountID string) (*State, error)
	Set(ctx context.Context, state *State, ttl time.Duration) error
	Invalidate(ctx context.Context, accountID string) error
}

// ══════════════════════════════════════════════════════════════════════════════
// LOCKING
// ══════════════════════════════════════════════════════════════════════════════

// Locker provides per-account mutual exclusion. Every engine transition and
// the batch reset serialize writes to one account through the same lock.
type Locker interface {
	// Acquire blocks until the account lock is held or ctx is done.
	// The returned release function must be called exactly once.
	Acquire(ctx context.Context, accountID string) (release func(), err error)
}

// ══════════════════════════════════════════════════════════════════════════════
// RESET MARKERS
// ══════════════════════════════════════════════════════════════════════════════

// ResetMarkerStore records the last UTC date a client-side daily check ran
// for an account. The client reset path compares today against this marker
// instead of scanning quest completion dates.
type ResetMarkerStore interface {
	// LastCheck returns the stored marker date, zero time when absent.
	LastCheck(ctx context.Context, accountID string) (time.Time, error)

	// SetLastCheck stores the marker date for the account.
	SetLastCheck(ctx context.Context, accountID string, day time.Time) error
}

// ══════════════════════════════════════════════════════════════════════════════
// ACCOUNTS
// ══════════════════════════════════════════════════════════════════════════════

// Account is the owning identity of a profile.
type Account struct {
	ID             string
	Name           string
	CredentialHash string
	CreatedAt      time.Time
}

// AccountRepository stores account rows. The onboarding flow creates one
// account plus one seeded profile.
type AccountRepository interface {
	Create(ctx context.Context, account *Account) error
	GetByID(ctx context.Context, id string) (*Account, error)
	Exists(ctx context.Context, id string) (bool, error)

	// Delete removes an account row. Onboarding compensates a failed
	// profile seed with it, so an aborted registration can be retried.
	Delete(ctx context.Context, id string) error
}
